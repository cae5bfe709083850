package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gosurvey/adapters/filesource"
	"gosurvey/adapters/sqlsource"
	"gosurvey/internal"
	"gosurvey/internal/analysis"
	"gosurvey/internal/config"
	"gosurvey/internal/container"
	"gosurvey/internal/dashboard"
	"gosurvey/internal/migration"
	"gosurvey/ui"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:          "gosurvey-cli",
		Short:        "Inspect the AI perception survey data without starting the web server",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newSourcesCmd(),
		newSummaryCmd(),
		newRenderCmd(),
		newImportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(ctx context.Context) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	return container.New(ctx, cfg, log)
}

func newSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "Show whether each survey source loads, with its size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "INSTRUMENT\tKIND\tROWS\tCOLUMNS\tSTATUS")
			for _, s := range c.Dashboard.Sources(cmd.Context()) {
				status := "ok"
				if !s.Available {
					status = s.Error
				}
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", s.Instrument, s.Kind, s.Rows, len(s.Columns), status)
			}
			return w.Flush()
		},
	}
}

func newSummaryCmd() *cobra.Command {
	var tab string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the aggregation behind every chart as text tables",
		Long: `Print the aggregation behind every chart as text tables.

Example: gosurvey-cli summary --tab impact`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())
			return runSummary(cmd.Context(), cmd.OutOrStdout(), c.Dashboard, tab)
		},
	}

	cmd.Flags().StringVar(&tab, "tab", "", "Only this tab (survey|impact)")
	return cmd
}

func runSummary(ctx context.Context, out io.Writer, dash *dashboard.Dashboard, only string) error {
	for _, tab := range dash.Catalog() {
		if only != "" && tab.ID != only {
			continue
		}
		fmt.Fprintf(out, "== %s ==\n", tab.Heading)
		if _, err := dash.Table(ctx, tab.Instrument); err != nil {
			fmt.Fprintf(out, "%s\n\n", tab.SourceError)
			continue
		}
		for i, chart := range tab.Charts {
			fmt.Fprintf(out, "\n%d. %s\n", i+1, chart.Heading)
			data, err := dash.ChartData(ctx, tab.ID, chart.ID)
			if err != nil {
				fmt.Fprintf(out, "  (%v)\n", err)
				continue
			}
			if err := writeData(out, data); err != nil {
				return err
			}
		}
		fmt.Fprintln(out)
	}
	return nil
}

func writeData(out io.Writer, data dashboard.Data) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	switch {
	case len(data.Counts) > 0:
		writeCounts(w, data.Counts)
	case data.Table != nil:
		writeCrossTab(w, data.Table)
	case len(data.Groups) > 0:
		fmt.Fprintln(w, "A\tB\tN\t")
		for _, g := range data.Groups {
			fmt.Fprintf(w, "%s\t%s\t%d\t\n", g.A, g.B, g.N)
		}
	case len(data.X) > 0:
		fmt.Fprintf(w, "points\t%d\t\n", len(data.X))
		if data.Trend != nil {
			fmt.Fprintf(w, "slope\t%.4f\t\n", data.Trend.Slope)
			fmt.Fprintf(w, "intercept\t%.4f\t\n", data.Trend.Intercept)
		}
	}
	return w.Flush()
}

func writeCounts(w io.Writer, counts analysis.Counts) {
	fmt.Fprintln(w, "LABEL\tN\t")
	for _, c := range counts {
		fmt.Fprintf(w, "%s\t%d\t\n", c.Label, c.N)
	}
	fmt.Fprintf(w, "total\t%d\t\n", counts.Total())
}

func writeCrossTab(w io.Writer, ct *analysis.CrossTab) {
	fmt.Fprintf(w, "%s\t%s\t\n", ct.RowVar, strings.Join(ct.Cols, "\t"))
	format := "%.0f"
	if ct.Normalized {
		format = "%.1f%%"
	}
	for i, row := range ct.Rows {
		cells := make([]string, len(ct.Cols))
		for j := range ct.Cols {
			cells[j] = fmt.Sprintf(format, ct.Cells[i][j])
		}
		fmt.Fprintf(w, "%s\t%s\t\n", row, strings.Join(cells, "\t"))
	}
}

func newRenderCmd() *cobra.Command {
	var page string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the HTML of one page to stdout",
		Long: `Write the HTML of one page (home, charts or about) to stdout.

Example: gosurvey-cli render --page charts > charts.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			server := ui.NewServer(c.Dashboard, ui.WithServerLogger(c.Log))
			if err := server.Initialize(); err != nil {
				return err
			}
			return server.RenderPage(cmd.Context(), cmd.OutOrStdout(), page)
		},
	}

	cmd.Flags().StringVar(&page, "page", dashboard.SectionHome, "Page to render: home|charts|about")
	return cmd
}

func newImportCmd() *cobra.Command {
	var surveyTable, impactTable string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy the two survey files into the configured database",
		Long: `Copy SURVEY_SOURCE and IMPACT_SOURCE into the database described by DB_DRIVER/DATABASE_URL,
replacing the target tables. Afterwards DATA_SOURCE=sql serves the same data.

Example: DB_DRIVER=sqlite DB_NAME=survey.db gosurvey-cli import`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))

			targets := []migration.Target{{Table: surveyTable}, {Table: impactTable}}
			for i, path := range []string{cfg.Data.SurveySource, cfg.Data.ImpactSource} {
				data, err := filesource.NewDataReader(path, log, filesource.DefaultEncodings...).ReadTable()
				if err != nil {
					return err
				}
				targets[i].Data = data
			}

			db, err := sqlsource.Open(ctx, cfg.Database.Driver, cfg.Database.DSN())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := migration.NewImporter(db, log).Run(ctx, targets...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d tables\n", len(targets))
			return nil
		},
	}

	cmd.Flags().StringVar(&surveyTable, "survey-table", "survey_ai", "Table for the academic survey")
	cmd.Flags().StringVar(&impactTable, "impact-table", "impact_ai", "Table for the impact survey")
	return cmd
}
