package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stayscout/yt-reviews/internal/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration settings",
	Long:  `Manage configuration settings for yt-reviews.`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init [DATABASE_URL]",
	Short: "Initialize configuration file",
	Long:  `Create a new configuration file with database connection settings.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var databaseURL string
		if len(args) > 0 {
			databaseURL = args[0]
		}

		if err := config.InitConfig(databaseURL); err != nil {
			return err
		}

		configPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		fmt.Printf("Created configuration file: %s\n", configPath)
		fmt.Println("Please edit database_url and youtube_api_key in this file before running the ingestion commands.")

		return nil
	},
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration file path and settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration file: %s\n\n", configPath)

		cfg, err := config.NewConfig()
		if err != nil {
			return err
		}

		fmt.Printf("database_url: %s\n", redact(cfg.DatabaseURL))
		fmt.Printf("youtube_api_key: %s\n", redact(cfg.YouTubeAPIKey))
		fmt.Printf("llm_connection: %s\n", cfg.LLMConnection)
		fmt.Printf("cookies_file: %s\n", cfg.CookiesFile)
		fmt.Printf("http_addr: %s\n", cfg.HTTPAddr)
		fmt.Printf("preferred_lang: %s\n", cfg.PreferredLang)
		fmt.Printf("fallback_lang: %s\n", cfg.FallbackLang)
		fmt.Printf("log_level: %s\n", cfg.LogLevel)
		fmt.Printf("log_format: %s\n", cfg.LogFormat)

		return nil
	},
}

// redact hides secret values while showing whether they are set
func redact(s string) string {
	if s == "" {
		return "(not set)"
	}
	return "(set)"
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
