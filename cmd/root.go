package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/stayscout/yt-reviews/internal/config"
	"github.com/stayscout/yt-reviews/internal/logging"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "yt-reviews",
	Short: "Hotel review ingestion and question answering over YouTube",
	Long: `yt-reviews ingests YouTube channel, video and subtitle data into a
PostgreSQL warehouse and serves a question-answering API over the
extracted hotel review corpus.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Logging defaults apply even before a config file exists.
		level := "info"
		format := "console"
		if cfg, err := config.NewConfig(); err == nil {
			level = cfg.LogLevel
			format = cfg.LogFormat
		}
		logging.Setup(logging.Config{Level: level, Format: format})
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
