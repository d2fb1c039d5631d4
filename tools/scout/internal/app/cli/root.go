package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tyler180/football-scout/internal/config"
)

var (
	configPath string
	snapshot   string
	debug      bool

	cfg config.Config
	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:           "scout",
	Short:         "scout ingests football player stats and answers value questions over them.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		if snapshot != "" {
			c.SnapshotPath = snapshot
		}
		if debug {
			c.Debug = true
		}
		cfg = c

		log.SetOutput(os.Stderr)
		log.SetLevel(logrus.InfoLevel)
		if cfg.Debug {
			log.SetLevel(logrus.DebugLevel)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultFile, "config file (json5)")
	rootCmd.PersistentFlags().StringVar(&snapshot, "snapshot", "", "snapshot path; .parquet selects Parquet, anything else CSV")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
