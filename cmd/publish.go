package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/county-roi/internal/sink"
)

var (
	publishDriver string
	publishDSN    string
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Run the pipeline and replace a database table with the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		if publishDriver != "" {
			cfg.Sink.Driver = publishDriver
		}
		if publishDSN != "" {
			cfg.Sink.DatabaseURL = publishDSN
		}

		ds, err := runPipeline(cmd.Context(), "publish")
		if err != nil {
			return err
		}

		s, err := sink.Open(cmd.Context(), cfg.Sink.Driver, cfg.Sink.DatabaseURL, cfg.Sink.Schema, cfg.Sink.Table)
		if err != nil {
			return err
		}
		defer s.Close() //nolint:errcheck

		n, err := s.Publish(cmd.Context(), ds)
		if err != nil {
			return err
		}
		cmd.Printf("published %d counties to %s table %s (run %s)\n", n, cfg.Sink.Driver, cfg.Sink.Table, ds.RunID)
		return nil
	},
}

func init() {
	publishCmd.Flags().StringVar(&publishDriver, "driver", "", "sink driver: postgres or sqlite (default from config)")
	publishCmd.Flags().StringVar(&publishDSN, "dsn", "", "database URL or SQLite path (default from config)")
	rootCmd.AddCommand(publishCmd)
}
