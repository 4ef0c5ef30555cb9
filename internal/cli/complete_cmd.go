package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/cotton/internal/cli/formatter"
	"github.com/alexanderramin/cotton/internal/domain"
	"github.com/alexanderramin/cotton/internal/service"
	"github.com/spf13/cobra"
)

func newCompleteCmd(app *App) *cobra.Command {
	var merge bool

	cmd := &cobra.Command{
		Use:   "complete [DATE]",
		Short: "Move the open session into history and clear it",
		Long: `Move the open session into history under DATE and clear it. Without
DATE the work date the session entries were added under is used; a session
spanning several dates needs DATE.

If DATE already has a history record the new entries are added to it and the
totals recomputed. That needs --merge, or a confirmation in a terminal.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			in := service.CompleteDayInput{Merge: merge}
			if len(args) == 1 {
				d, err := domain.NormalizeWorkDate(args[0])
				if err != nil {
					return err
				}
				in.Date = d
			}

			res, err := app.History.CompleteDay(ctx, in)
			var exists *service.RecordExistsError
			if errors.As(err, &exists) {
				ok, cerr := confirmMerge(app, exists)
				if cerr != nil {
					return cerr
				}
				if !ok {
					fmt.Fprintln(out(cmd), formatter.Dim("Nothing changed."))
					return nil
				}
				res, err = app.History.CompleteDay(ctx, service.CompleteDayInput{Date: exists.Date, Merge: true})
			}
			if err != nil {
				return err
			}

			msg := fmt.Sprintf("Completed %s: %d entries saved to history", res.Record.Date, res.Committed)
			if res.Merged {
				msg += " (added to the existing record)"
			}
			fmt.Fprintln(out(cmd), formatter.Success(msg))
			fmt.Fprintln(out(cmd), formatter.FormatHistoryRecord(res.Record, app.labels()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&merge, "merge", false, "Add to an existing record for the same date")

	return cmd
}

func confirmMerge(app *App, exists *service.RecordExistsError) (bool, error) {
	if !app.interactive() {
		return false, fmt.Errorf("%w; run again with --merge to add these entries to it", exists)
	}
	var ok bool
	title := fmt.Sprintf("History for %s already exists. Add these entries to it?", exists.Date)
	if err := confirmForm(title, &ok).Run(); err != nil {
		return false, err
	}
	return ok, nil
}
