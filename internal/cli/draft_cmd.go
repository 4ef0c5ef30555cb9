package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/cotton/internal/cli/formatter"
	"github.com/alexanderramin/cotton/internal/domain"
	"github.com/spf13/cobra"
)

func newDraftCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Manage saved in-progress entry values",
		Long: `Drafts hold entry fields between runs. "cotton add" fills any field not
given as a flag from its draft. Which fields are kept is set by
COTTON_DRAFT_FIELDS.`,
	}

	cmd.AddCommand(
		newDraftSetCmd(app),
		newDraftShowCmd(app),
		newDraftClearCmd(app),
	)

	return cmd
}

func newDraftSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "set FIELD VALUE",
		Short:     "Save a draft value for name, kg or rate",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"name", "kg", "rate"},
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := domain.ParseDraftField(args[0])
			if err != nil {
				return err
			}
			if err := app.Drafts.Save(context.Background(), field, args[1]); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.Success(fmt.Sprintf("Saved %s draft", field.ShortName())))
			return nil
		},
	}
}

func newDraftShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show saved drafts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			drafts, err := app.Drafts.Load(context.Background())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(drafts))
			for _, field := range app.Drafts.Fields() {
				value, ok := drafts[field]
				if !ok {
					value = formatter.Dim("(none)")
				}
				rows = append(rows, []string{field.ShortName(), value, formatter.Dim(field.Key())})
			}
			fmt.Fprintln(out(cmd), formatter.RenderBox("Drafts",
				formatter.RenderTable([]string{"FIELD", "VALUE", "KEY"}, rows)))
			return nil
		},
	}
}

func newDraftClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear [FIELD...]",
		Short: "Clear the given drafts, or all of them",
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := make([]domain.DraftField, 0, len(args))
			for _, a := range args {
				f, err := domain.ParseDraftField(a)
				if err != nil {
					return err
				}
				fields = append(fields, f)
			}
			if err := app.Drafts.Clear(context.Background(), fields...); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.Success("Drafts cleared"))
			return nil
		},
	}
}
