package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sells-group/county-roi/internal/export"
	"github.com/sells-group/county-roi/internal/model"
	"github.com/sells-group/county-roi/internal/pipeline"
)

var showMetric string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Run the pipeline and print the county table sorted by a metric",
	RunE: func(cmd *cobra.Command, args []string) error {
		metric, err := model.ParseMetric(showMetric)
		if err != nil {
			return err
		}

		ds, err := runPipeline(cmd.Context(), "pipeline")
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if isTerminal(out) {
			return printTable(out, ds, metric)
		}
		return export.WriteCSV(out, sortedRows(ds, metric))
	},
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// sortedRows returns the export rows ordered by metric, highest first.
func sortedRows(ds *pipeline.Dataset, metric model.Metric) []export.Row {
	rows := export.Rows(ds)
	value := func(r export.Row) float64 {
		if metric == model.MetricTaxRate {
			return float64(r.PropertyTaxRatePct)
		}
		return float64(r.RentalROIPct)
	}
	sort.SliceStable(rows, func(i, j int) bool { return value(rows[i]) > value(rows[j]) })
	return rows
}

func printTable(w io.Writer, ds *pipeline.Dataset, metric model.Metric) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s counties by %s\n\n", ds.StateName, metric.Label())
	fmt.Fprintln(tw, "FIPS\tCOUNTY\tROI %\tTAX RATE %")
	for _, r := range sortedRows(ds, metric) {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\n", r.FIPS, r.County, float64(r.RentalROIPct), float64(r.PropertyTaxRatePct))
	}
	if n := ds.Report.Dropped(); n > 0 {
		fmt.Fprintf(tw, "\n%d counties excluded (see log for details)\n", n)
	}
	return tw.Flush()
}

func init() {
	showCmd.Flags().StringVar(&showMetric, "metric", "roi", "sort metric: roi or tax_rate")
	rootCmd.AddCommand(showCmd)
}
