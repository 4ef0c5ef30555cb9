package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/alexanderramin/cotton/internal/cli/formatter"
	"github.com/alexanderramin/cotton/internal/domain"
	"github.com/alexanderramin/cotton/internal/service"
	"github.com/spf13/cobra"
)

func newAddCmd(app *App) *cobra.Command {
	var v entryValues
	var date string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a worker's collection to the open session",
		Long: `Add a worker's collection to the open session.

Fields not given as flags are taken from saved drafts, and prompted for when
running in a terminal. After a successful add the name and kg drafts are
cleared and the rate is kept for the next worker.`,
		Example: "  cotton add --name Asha --kg 12+8.5 --rate 10",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			if err := fillFromDrafts(ctx, app, cmd, &v); err != nil {
				return err
			}
			if !v.complete() && app.interactive() {
				if err := entryForm(&v).Run(); err != nil {
					return err
				}
			}

			if date == "" {
				date = app.today()
			}
			rate, err := parseRate(v.Rate)
			if err != nil {
				keepDrafts(ctx, app, cmd, &v)
				return err
			}

			view, err := app.Sessions.AddEntry(ctx, service.AddEntryInput{
				Name:   v.Name,
				KgExpr: v.Kg,
				Rate:   rate,
				Date:   date,
			})
			if err != nil {
				keepDrafts(ctx, app, cmd, &v)
				return err
			}
			clearSubmittedDrafts(ctx, app, cmd, &v)

			if e := newestEntry(view.Entries); e != nil {
				fmt.Fprintln(out(cmd), formatter.Success(fmt.Sprintf("Added %s: %s KG × %s = %s",
					e.Name, formatter.Kg(e.Kg), formatter.Money(e.Rate), formatter.Money(e.Total))))
			}
			fmt.Fprintln(out(cmd), formatter.FormatTotals(view.Stats, app.labels()))
			return nil
		},
	}

	cmd.Flags().AddFlagSet(entryFlagSet(&v))
	cmd.Flags().StringVar(&date, "date", "", "Work date, DD-MM-YYYY (default today)")

	return cmd
}

// fillFromDrafts copies saved drafts into the fields not given as flags.
func fillFromDrafts(ctx context.Context, app *App, cmd *cobra.Command, v *entryValues) error {
	if app.Drafts == nil {
		return nil
	}
	drafts, err := app.Drafts.Load(ctx)
	if err != nil {
		return err
	}
	for field, value := range drafts {
		if cmd.Flags().Changed(field.ShortName()) || v.get(field) != "" {
			continue
		}
		v.set(field, value)
	}
	return nil
}

// keepDrafts saves what was typed so a retry starts from it. Failures only
// warn: the add itself has already failed with a better error.
func keepDrafts(ctx context.Context, app *App, cmd *cobra.Command, v *entryValues) {
	if app.Drafts == nil {
		return
	}
	for _, field := range app.Drafts.Fields() {
		if value := v.get(field); value != "" {
			if err := app.Drafts.Save(ctx, field, value); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.Warning("could not save draft: "+err.Error()))
			}
		}
	}
}

// clearSubmittedDrafts drops the name and kg drafts and remembers the rate.
func clearSubmittedDrafts(ctx context.Context, app *App, cmd *cobra.Command, v *entryValues) {
	if app.Drafts == nil {
		return
	}
	err := app.Drafts.ClearSubmitted(ctx)
	if err == nil && slices.Contains(app.Drafts.Fields(), domain.DraftRate) {
		err = app.Drafts.Save(ctx, domain.DraftRate, v.Rate)
	}
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), formatter.Warning("entry saved, but drafts were not updated: "+err.Error()))
	}
}

// newestEntry is the entry with the highest ID, the one just created.
func newestEntry(entries []*domain.SessionEntry) *domain.SessionEntry {
	var newest *domain.SessionEntry
	for _, e := range entries {
		if newest == nil || e.ID > newest.ID {
			newest = e
		}
	}
	return newest
}
