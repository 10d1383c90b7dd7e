package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stayscout/yt-reviews/internal/config"
	"github.com/stayscout/yt-reviews/internal/model"
	"github.com/stayscout/yt-reviews/internal/repository"
	"github.com/stayscout/yt-reviews/internal/service/captions"
	"github.com/stayscout/yt-reviews/internal/service/common"
)

// subtitleCmd represents the subtitle command
var subtitleCmd = &cobra.Command{
	Use:   "subtitle",
	Short: "Subtitle acquisition operations",
	Long:  `Operations for acquiring video subtitles and merging them into the warehouse.`,
}

// subtitleFetchCmd acquires subtitles for pending videos
var subtitleFetchCmd = &cobra.Command{
	Use:   "fetch [VIDEO_ID...]",
	Short: "Fetch subtitles into the warehouse",
	Long: `Acquire subtitles for the given video IDs, or for every pending video in
the warehouse when no IDs are given. Every outcome is recorded: successes
with their segments, failures with a reason.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 12*time.Hour)
		defer cancel()

		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := cfg.RequireDatabase(); err != nil {
			return err
		}

		dbPool, err := config.NewDatabasePool(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer dbPool.Close()

		subtitleRepo := repository.NewSubtitleRepository(dbPool)

		videoIDs := args
		if len(videoIDs) == 0 {
			videoIDs, err = subtitleRepo.ListTargets(ctx)
			if err != nil {
				return fmt.Errorf("failed to list pending videos: %w", err)
			}
		}
		if len(videoIDs) == 0 {
			fmt.Println("No videos waiting for subtitles.")
			return nil
		}

		strict, _ := cmd.Flags().GetBool("strict")

		extractor := captions.NewExtractor(common.NewCmdRunner(), cfg.CookiesFile)
		session := captions.NewSession(cfg.CookiesFile)
		fetcher := captions.NewFetcher(extractor, session, cfg.PreferredLang, cfg.FallbackLang)

		outcomes := fetcher.FetchAll(ctx, videoIDs, strict)
		if err := subtitleRepo.UpsertOutcomes(ctx, outcomes); err != nil {
			return fmt.Errorf("failed to upsert subtitle outcomes: %w", err)
		}

		var ok, none, failed int
		for _, o := range outcomes {
			switch o.Status {
			case model.AcquisitionSuccess:
				ok++
			case model.AcquisitionNoCaptions:
				none++
			case model.AcquisitionFailure:
				failed++
			}
		}
		fmt.Printf("Processed %d video(s): %d succeeded, %d without captions, %d failed.\n",
			len(outcomes), ok, none, failed)
		return nil
	},
}

func init() {
	subtitleFetchCmd.Flags().Bool("strict", false,
		"Require a structured caption track; record no_suitable_track instead of falling back to cue formats")

	subtitleCmd.AddCommand(subtitleFetchCmd)
	rootCmd.AddCommand(subtitleCmd)
}
