package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stayscout/yt-reviews/internal/config"
	"github.com/stayscout/yt-reviews/internal/errors"
	"github.com/stayscout/yt-reviews/internal/repository"
	"github.com/stayscout/yt-reviews/internal/server"
	"github.com/stayscout/yt-reviews/internal/service/rag"
)

// serveCmd starts the question-answering HTTP server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the question-answering API",
	Long:  `Start the HTTP server exposing POST /ask over the stored review corpus.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := cfg.RequireDatabase(); err != nil {
			return err
		}
		if cfg.LLMConnection == "" {
			return errors.New(errors.CodeConfig, "llm_connection is required to serve /ask")
		}

		dbPool, err := config.NewDatabasePool(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer dbPool.Close()

		ragRepo := repository.NewRAGRepository(dbPool, cfg.LLMConnection)
		ragService := rag.NewService(ragRepo)

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.HTTPAddr
		}

		return server.New(ragService).Run(addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides http_addr from the config file)")
	rootCmd.AddCommand(serveCmd)
}
