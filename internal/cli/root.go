package cli

import (
	"io"
	"time"

	"github.com/alexanderramin/cotton/internal/cli/formatter"
	"github.com/alexanderramin/cotton/internal/domain"
	"github.com/alexanderramin/cotton/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands,
// plus the few settings that shape their output.
type App struct {
	Sessions service.SessionService
	History  service.HistoryService
	Drafts   service.DraftService
	Reports  service.ReportService

	// ReportDir is the default --out directory for reports.
	ReportDir string
	// Bilingual adds Hindi to terminal headings.
	Bilingual bool

	// IsInteractive reports whether prompts may be shown. Nil means never.
	IsInteractive func() bool
	// Now is the clock used for the default work date. Nil means time.Now.
	Now func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// today is the default work date, DD-MM-YYYY.
func (a *App) today() string {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	return domain.FormatWorkDate(now())
}

func (a *App) labels() formatter.Labels {
	return formatter.LabelsFor(a.Bilingual)
}

// NewRootCmd creates the top-level "cotton" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "cotton",
		Short:         "Cotton collection bookkeeping",
		Long:          "Record the kg each worker picks, complete the day into history, and export reports.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newAddCmd(app),
		newSessionCmd(app),
		newCompleteCmd(app),
		newHistoryCmd(app),
		newOverviewCmd(app),
		newReportCmd(app),
		newDraftCmd(app),
	)

	return root
}

// out is where a command prints its results.
func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
