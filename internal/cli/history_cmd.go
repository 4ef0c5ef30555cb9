package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/cotton/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse and correct completed days",
	}

	cmd.AddCommand(
		newHistoryListCmd(app),
		newHistoryShowCmd(app),
		newHistoryEditCmd(app),
		newHistoryRemoveCmd(app),
		newHistoryDeleteDayCmd(app),
	)

	return cmd
}

func newHistoryListCmd(app *App) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List completed days, oldest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := app.History.Search(context.Background(), search)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.FormatHistoryList(records, app.labels()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only days whose date or a worker name contains this")

	return cmd
}

func newHistoryShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show DATE",
		Short: "Show one day with its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := app.History.Get(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.FormatHistoryRecord(rec, app.labels()))
			return nil
		},
	}
}

func newHistoryEditCmd(app *App) *cobra.Command {
	var v entryValues

	cmd := &cobra.Command{
		Use:   "edit DATE ENTRY",
		Short: "Correct a committed entry; ENTRY is its # or 4+ characters of its ID",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			rec, entry, err := resolveHistoryEntry(ctx, app, args[0], args[1])
			if err != nil {
				return err
			}
			u, err := buildUpdate(v, entry.Name, entry.Kg, entry.Rate)
			if err != nil {
				return err
			}
			updated, err := app.History.EditEntry(ctx, rec.Date, entry.ID, u)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.Success(fmt.Sprintf("Updated %s on %s", u.Name, rec.Date)))
			fmt.Fprintln(out(cmd), formatter.FormatHistoryRecord(updated, app.labels()))
			return nil
		},
	}

	cmd.Flags().AddFlagSet(entryFlagSet(&v))

	return cmd
}

func newHistoryRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove DATE ENTRY",
		Aliases: []string{"rm"},
		Short:   "Remove a committed entry; the day goes when its last entry does",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			rec, entry, err := resolveHistoryEntry(ctx, app, args[0], args[1])
			if err != nil {
				return err
			}
			res, err := app.History.DeleteEntry(ctx, rec.Date, entry.ID)
			if err != nil {
				return err
			}
			if res.RecordDeleted {
				fmt.Fprintln(out(cmd), formatter.Success(fmt.Sprintf("Removed %s; %s had no entries left and was deleted", entry.Name, rec.Date)))
				return nil
			}
			fmt.Fprintln(out(cmd), formatter.Success(fmt.Sprintf("Removed %s from %s", entry.Name, rec.Date)))
			fmt.Fprintln(out(cmd), formatter.FormatHistoryRecord(res.Record, app.labels()))
			return nil
		},
	}
}

func newHistoryDeleteDayCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete-day DATE",
		Short: "Delete a completed day and all its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := confirm(app, yes, fmt.Sprintf("Delete all history for %s?", args[0]))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out(cmd), formatter.Dim("Nothing changed."))
				return nil
			}
			if err := app.History.DeleteDay(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.Success("Deleted "+args[0]))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}
