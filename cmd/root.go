package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/county-roi/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "county-roi",
	Short: "County rental ROI and property tax rate choropleth",
	Long:  "Fetches ACS county housing statistics and TIGER county boundaries for one state, derives rental ROI and property tax rate, and serves them as an interactive choropleth with CSV/XLSX export.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
