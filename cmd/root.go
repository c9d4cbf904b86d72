package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/clientry/leadintel/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "leadintel",
	Short: "CRM lead intelligence toolkit",
	Long:  "Scores leads, detects duplicates, filters pipeline views, ranks next-best actions, and projects sales revenue over a local or Postgres lead store.",
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
