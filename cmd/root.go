package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seres-labs/regdash/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "regdash",
	Short: "Regulatory-process dashboard over the MEC/SERES gold tables",
	Long:  "Loads the gold dimensional model (fact plus dimension tables), scores every process for regulatory risk, and serves filtered summaries on the command line or over HTTP.",
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
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
