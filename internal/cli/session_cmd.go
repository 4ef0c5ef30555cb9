package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/cotton/internal/calc"
	"github.com/alexanderramin/cotton/internal/cli/formatter"
	"github.com/alexanderramin/cotton/internal/domain"
	"github.com/alexanderramin/cotton/internal/service"
	"github.com/spf13/cobra"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect and correct the open session",
	}

	cmd.AddCommand(
		newSessionListCmd(app),
		newSessionStatsCmd(app),
		newSessionEditCmd(app),
		newSessionRemoveCmd(app),
		newSessionClearCmd(app),
	)

	return cmd
}

func newSessionListCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List open entries, most recent first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := app.Sessions.List(context.Background(), date)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.FormatSession(view.Entries, view.Stats, app.labels()))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Only entries for this work date")

	return cmd
}

func newSessionStatsCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show worker count, kg and amount for the open session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := app.Sessions.List(context.Background(), date)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.FormatTotals(view.Stats, app.labels()))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Only entries for this work date")

	return cmd
}

func newSessionEditCmd(app *App) *cobra.Command {
	var v entryValues

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Correct an open entry; unchanged fields keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := parseSessionEntryID(args[0])
			if err != nil {
				return err
			}

			current, err := app.Sessions.List(ctx, "")
			if err != nil {
				return err
			}
			var entry *domain.SessionEntry
			for _, e := range current.Entries {
				if e.ID == id {
					entry = e
					break
				}
			}
			if entry == nil {
				return &service.NotFoundError{What: "session entry", Key: args[0]}
			}

			u, err := buildUpdate(v, entry.Name, entry.Kg, entry.Rate)
			if err != nil {
				return err
			}
			view, err := app.Sessions.UpdateEntry(ctx, id, u)
			if err != nil {
				return err
			}

			fmt.Fprintln(out(cmd), formatter.Success(fmt.Sprintf("Updated entry %d: %s, %s KG × %s",
				id, u.Name, formatter.Kg(u.Kg), formatter.Money(u.Rate))))
			fmt.Fprintln(out(cmd), formatter.FormatTotals(view.Stats, app.labels()))
			return nil
		},
	}

	cmd.Flags().AddFlagSet(entryFlagSet(&v))

	return cmd
}

func newSessionRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Remove an open entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseSessionEntryID(args[0])
			if err != nil {
				return err
			}
			view, err := app.Sessions.DeleteEntry(context.Background(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.Success(fmt.Sprintf("Removed entry %d", id)))
			fmt.Fprintln(out(cmd), formatter.FormatTotals(view.Stats, app.labels()))
			return nil
		},
	}
}

func newSessionClearCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Discard every open entry without saving it to history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirm(app, yes, "Discard every open entry?")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out(cmd), formatter.Dim("Nothing changed."))
				return nil
			}
			n, err := app.Sessions.ClearSession(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.Success(fmt.Sprintf("Cleared %d entries", n)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

// buildUpdate overlays the typed values on the current ones. The kg flag
// accepts the same sums as add.
func buildUpdate(v entryValues, name string, kg, rate float64) (domain.EntryUpdate, error) {
	u := domain.EntryUpdate{Name: domain.CoalesceStr(v.Name, name), Kg: kg, Rate: rate}
	if v.Kg != "" {
		parsed, err := calc.EvalKg(v.Kg)
		if err != nil {
			return u, &domain.ValidationError{Field: "kg", Msg: "cannot evaluate " + quote(v.Kg), Err: err}
		}
		u.Kg = parsed
	}
	if v.Rate != "" {
		parsed, err := parseRate(v.Rate)
		if err != nil {
			return u, err
		}
		u.Rate = parsed
	}
	return u, nil
}

// confirm asks a yes/no question when prompting is possible. Without a
// terminal, destructive commands need --yes.
func confirm(app *App, yes bool, question string) (bool, error) {
	if yes {
		return true, nil
	}
	if !app.interactive() {
		return false, fmt.Errorf("refusing without confirmation; pass --yes")
	}
	var ok bool
	if err := confirmForm(question, &ok).Run(); err != nil {
		return false, err
	}
	return ok, nil
}
