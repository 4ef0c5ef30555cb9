package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alexanderramin/cotton/internal/domain"
	"github.com/alexanderramin/cotton/internal/report"
	"golang.org/x/sync/errgroup"
)

// ErrNothingToExport is returned by a full export when history is empty.
var ErrNothingToExport = errors.New("no history to export")

type reportService struct {
	history     HistoryService
	layout      report.Layout
	bilingual   bool
	fallbackDir string
	observer    UseCaseObserver
}

// NewReportService renders history through the report package. When the
// target directory cannot be written the file goes to fallbackDir instead,
// or to the OS temp directory when fallbackDir is empty.
func NewReportService(
	history HistoryService,
	layout report.Layout,
	bilingual bool,
	fallbackDir string,
	observers ...UseCaseObserver,
) ReportService {
	if fallbackDir == "" {
		fallbackDir = os.TempDir()
	}
	return &reportService{
		history:     history,
		layout:      layout,
		bilingual:   bilingual,
		fallbackDir: fallbackDir,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *reportService) ExportDay(ctx context.Context, date, dir string, formats ...report.Format) (res []*ExportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"date": date, "formats": len(formats)}
	defer observe(ctx, s.observer, "export-day", startedAt, fields, &err)

	rec, err := s.history.Get(ctx, date)
	if err != nil {
		return nil, err
	}
	return s.exportEach(ctx, []*domain.HistoryRecord{rec}, formats, dir, func(f report.Format) string {
		return report.DayFilename(rec.Date, f)
	})
}

func (s *reportService) ExportAll(ctx context.Context, dir string, formats ...report.Format) (res []*ExportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"formats": len(formats)}
	defer observe(ctx, s.observer, "export-all", startedAt, fields, &err)

	records, err := s.history.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNothingToExport
	}
	fields["days"] = len(records)
	return s.exportEach(ctx, records, formats, dir, report.FullFilename)
}

// exportEach renders and saves records once per format. Files written for
// other formats are kept when one fails.
func (s *reportService) exportEach(ctx context.Context, records []*domain.HistoryRecord, formats []report.Format, dir string, filename func(report.Format) string) ([]*ExportResult, error) {
	if len(formats) == 0 {
		formats = []report.Format{report.FormatPDF}
	}
	results := make([]*ExportResult, len(formats))
	g, gCtx := errgroup.WithContext(ctx)
	for i, f := range formats {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			res, err := s.export(records, f, dir, filename(f))
			if err != nil {
				return fmt.Errorf("%s: %w", f, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *reportService) export(records []*domain.HistoryRecord, format report.Format, dir, name string) (*ExportResult, error) {
	opts := report.Options{
		Layout:      s.layout,
		Bilingual:   s.bilingual,
		GeneratedAt: time.Now(),
	}
	var buf bytes.Buffer
	if err := report.Render(&buf, format, records, opts); err != nil {
		return nil, &ExportError{Err: err}
	}

	path := filepath.Join(dir, name)
	saveErr := writeFile(path, buf.Bytes())
	if saveErr == nil {
		return &ExportResult{Path: path, Days: len(records)}, nil
	}

	fallback := filepath.Join(s.fallbackDir, name)
	if err := writeFile(fallback, buf.Bytes()); err != nil {
		return nil, &ExportError{Path: path, Err: errors.Join(saveErr, fmt.Errorf("fallback %s: %w", fallback, err))}
	}
	return &ExportResult{Path: fallback, Days: len(records), FellBack: true}, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
