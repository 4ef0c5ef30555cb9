package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/cotton/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newOverviewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Totals across every completed day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := app.History.Overview(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.FormatOverview(o, app.labels()))
			return nil
		},
	}
}
