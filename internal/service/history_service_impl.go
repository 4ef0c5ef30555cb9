package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/cotton/internal/db"
	"github.com/alexanderramin/cotton/internal/domain"
	"github.com/alexanderramin/cotton/internal/repository"
	"github.com/google/uuid"
)

type historyService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
	newID    func() string
}

// NewHistoryService builds the commit and history-editing use cases. Every
// operation runs on repositories scoped to a UnitOfWork transaction.
func NewHistoryService(uow db.UnitOfWork, observers ...UseCaseObserver) HistoryService {
	return &historyService{
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
		newID:    uuid.NewString,
	}
}

// CompleteDay moves the whole session into the record for the day and
// clears the session. With no date the entries' shared work date is used.
// An existing record for the day accumulates the new entries only when
// in.Merge is set; otherwise the commit fails with a RecordExistsError and
// nothing changes.
func (s *historyService) CompleteDay(ctx context.Context, in CompleteDayInput) (res *CommitResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"date": in.Date, "merge": in.Merge}
	defer observe(ctx, s.observer, "complete-day", startedAt, fields, &err)

	var d string
	if in.Date != "" {
		if d, err = domain.NormalizeWorkDate(in.Date); err != nil {
			return nil, err
		}
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)
		txHistory := repository.NewSQLiteHistoryRepo(tx)

		entries, err := txSessions.List(ctx)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return ErrEmptySession
		}
		if d == "" {
			shared, err := domain.SessionWorkDate(entries)
			if err != nil {
				return err
			}
			if d, err = domain.NormalizeWorkDate(shared); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		rec, err := domain.NewHistoryRecord(d, creationOrder(entries), s.newID, now)
		if err != nil {
			return err
		}
		res = &CommitResult{Record: rec, Committed: len(entries)}

		existing, err := txHistory.Get(ctx, d)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			if err := txHistory.Create(ctx, rec); err != nil {
				return err
			}
		case err != nil:
			return err
		case !in.Merge:
			return &RecordExistsError{Date: d}
		default:
			if err := existing.Merge(rec, now); err != nil {
				return err
			}
			if err := txHistory.Update(ctx, existing); err != nil {
				return err
			}
			res.Record = existing
			res.Merged = true
		}

		_, err = txSessions.Clear(ctx)
		return err
	})
	if err != nil {
		return nil, classify("completing day", err)
	}
	fields["date"] = res.Record.Date
	fields["committed"] = res.Committed
	fields["merged"] = res.Merged
	fields["total_workers"] = res.Record.TotalWorkers
	return res, nil
}

func (s *historyService) Exists(ctx context.Context, date string) (bool, error) {
	_, err := s.Get(ctx, date)
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return false, nil
	}
	return err == nil, err
}

func (s *historyService) Get(ctx context.Context, date string) (*domain.HistoryRecord, error) {
	d, err := domain.NormalizeWorkDate(date)
	if err != nil {
		return nil, err
	}
	var rec *domain.HistoryRecord
	err = s.uow.WithinReadTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		rec, err = repository.NewSQLiteHistoryRepo(tx).Get(ctx, d)
		return notFound(err, "history record", d)
	})
	if err != nil {
		return nil, classify("loading history", err)
	}
	return rec, nil
}

func (s *historyService) List(ctx context.Context) ([]*domain.HistoryRecord, error) {
	var records []*domain.HistoryRecord
	err := s.uow.WithinReadTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		records, err = repository.NewSQLiteHistoryRepo(tx).List(ctx)
		return err
	})
	if err != nil {
		return nil, classify("listing history", err)
	}
	return records, nil
}

func (s *historyService) Search(ctx context.Context, term string) ([]*domain.HistoryRecord, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	matched := records[:0]
	for _, r := range records {
		if matchesSearch(r, term) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// EditEntry replaces one committed entry and recomputes the record.
func (s *historyService) EditEntry(ctx context.Context, date, entryID string, u domain.EntryUpdate) (rec *domain.HistoryRecord, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"date": date, "entry_id": entryID}
	defer observe(ctx, s.observer, "edit-history-entry", startedAt, fields, &err)

	d, err := domain.NormalizeWorkDate(date)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txHistory := repository.NewSQLiteHistoryRepo(tx)

		loaded, err := txHistory.Get(ctx, d)
		if err != nil {
			return notFound(err, "history record", d)
		}
		found, err := loaded.ReplaceEntry(entryID, u, time.Now().UTC())
		if !found {
			return &NotFoundError{What: "history entry", Key: entryID}
		}
		if err != nil {
			return err
		}
		if err := txHistory.Update(ctx, loaded); err != nil {
			return notFound(err, "history record", d)
		}
		rec = loaded
		return nil
	})
	if err != nil {
		return nil, classify("editing history entry", err)
	}
	return rec, nil
}

// DeleteEntry removes one committed entry. Removing the last entry deletes
// the record.
func (s *historyService) DeleteEntry(ctx context.Context, date, entryID string) (res *DeleteEntryResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"date": date, "entry_id": entryID}
	defer observe(ctx, s.observer, "delete-history-entry", startedAt, fields, &err)

	d, err := domain.NormalizeWorkDate(date)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txHistory := repository.NewSQLiteHistoryRepo(tx)

		rec, err := txHistory.Get(ctx, d)
		if err != nil {
			return notFound(err, "history record", d)
		}
		if !rec.RemoveEntry(entryID, time.Now().UTC()) {
			return &NotFoundError{What: "history entry", Key: entryID}
		}
		if rec.IsEmpty() {
			res = &DeleteEntryResult{RecordDeleted: true}
			return notFound(txHistory.Delete(ctx, d), "history record", d)
		}
		res = &DeleteEntryResult{Record: rec}
		return notFound(txHistory.Update(ctx, rec), "history record", d)
	})
	if err != nil {
		return nil, classify("deleting history entry", err)
	}
	fields["record_deleted"] = res.RecordDeleted
	return res, nil
}

func (s *historyService) DeleteDay(ctx context.Context, date string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"date": date}
	defer observe(ctx, s.observer, "delete-day", startedAt, fields, &err)

	d, err := domain.NormalizeWorkDate(date)
	if err != nil {
		return err
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return notFound(repository.NewSQLiteHistoryRepo(tx).Delete(ctx, d), "history record", d)
	})
	return classify("deleting day", err)
}

// Overview sums every record. It is recomputed on each call.
func (s *historyService) Overview(ctx context.Context) (domain.Overview, error) {
	records, err := s.List(ctx)
	if err != nil {
		return domain.Overview{}, err
	}
	return domain.Summarize(records), nil
}
