package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/cotton/internal/cli/formatter"
	"github.com/alexanderramin/cotton/internal/report"
	"github.com/alexanderramin/cotton/internal/service"
	"github.com/spf13/cobra"
)

// reportFlags are shared by both report subcommands.
type reportFlags struct {
	format string
	out    string
}

func (f *reportFlags) bind(cmd *cobra.Command, defaultDir string) {
	cmd.Flags().StringVarP(&f.format, "format", "f", string(report.FormatPDF), "Report format: pdf, xlsx, a comma-separated list, or all")
	cmd.Flags().StringVarP(&f.out, "out", "o", defaultDir, "Directory to write the report to")
}

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export history as PDF or Excel",
	}

	cmd.AddCommand(
		newReportDayCmd(app),
		newReportFullCmd(app),
	)

	return cmd
}

func newReportDayCmd(app *App) *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:   "day DATE",
		Short: "Export one completed day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := report.ParseFormats(flags.format)
			if err != nil {
				return err
			}
			stop := startSpinner(app, cmd, "Rendering report")
			results, err := app.Reports.ExportDay(context.Background(), args[0], flags.out, formats...)
			stop()
			if err != nil {
				return err
			}
			printExports(cmd, results, flags.out)
			return nil
		},
	}

	flags.bind(cmd, app.ReportDir)

	return cmd
}

func newReportFullCmd(app *App) *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:   "full",
		Short: "Export every completed day with a grand summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := report.ParseFormats(flags.format)
			if err != nil {
				return err
			}
			stop := startSpinner(app, cmd, "Rendering report")
			results, err := app.Reports.ExportAll(context.Background(), flags.out, formats...)
			stop()
			if err != nil {
				return err
			}
			printExports(cmd, results, flags.out)
			return nil
		},
	}

	flags.bind(cmd, app.ReportDir)

	return cmd
}

// startSpinner animates on stderr in a terminal and does nothing otherwise.
func startSpinner(app *App, cmd *cobra.Command, message string) func() {
	if !app.interactive() {
		return func() {}
	}
	return formatter.StartSpinner(cmd.ErrOrStderr(), message)
}

func printExports(cmd *cobra.Command, results []*service.ExportResult, dir string) {
	for _, res := range results {
		if res.FellBack {
			fmt.Fprintln(out(cmd), formatter.Warning(fmt.Sprintf("could not write to %s; saved to the fallback location instead", dir)))
		}
		days := "day"
		if res.Days != 1 {
			days = "days"
		}
		fmt.Fprintln(out(cmd), formatter.Success(fmt.Sprintf("Saved report (%d %s) to %s", res.Days, days, res.Path)))
	}
}
