package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/county-roi/internal/export"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Run the pipeline and write the county table to a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(exportFormat)
		if format == "" {
			format = strings.TrimPrefix(strings.ToLower(filepath.Ext(exportOut)), ".")
		}
		if format == "" {
			format = "csv"
		}
		if format != "csv" && format != "xlsx" {
			return eris.Errorf("export: unknown format %q (valid: csv, xlsx)", format)
		}

		ds, err := runPipeline(cmd.Context(), "pipeline")
		if err != nil {
			return err
		}

		out := exportOut
		if out == "" {
			out = export.Filename(ds.StateName, format)
		}

		f, err := os.Create(out)
		if err != nil {
			return eris.Wrapf(err, "export: create %s", out)
		}
		defer f.Close() //nolint:errcheck

		rows := export.Rows(ds)
		if format == "xlsx" {
			err = export.WriteXLSX(f, rows)
		} else {
			err = export.WriteCSV(f, rows)
		}
		if err != nil {
			return err
		}
		if err := f.Close(); err != nil {
			return eris.Wrapf(err, "export: close %s", out)
		}

		zap.L().Info("export complete",
			zap.String("path", out),
			zap.String("format", format),
			zap.Int("rows", len(rows)),
		)
		cmd.Printf("wrote %d counties to %s\n", len(rows), out)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "output format: csv or xlsx (default from --out extension, else csv)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default <state>_county_roi_tax.<format>)")
	rootCmd.AddCommand(exportCmd)
}
