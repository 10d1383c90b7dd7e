package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/stayscout/yt-reviews/internal/config"
	"github.com/stayscout/yt-reviews/internal/repository"
	"github.com/stayscout/yt-reviews/internal/service/metadata"
)

// videoCmd represents the video command
var videoCmd = &cobra.Command{
	Use:   "video",
	Short: "YouTube video operations",
	Long:  `Operations for ingesting and inspecting YouTube videos.`,
}

// videoFetchCmd walks every stored uploads playlist and merges new video
// metadata into the warehouse
var videoFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch video metadata for all stored channels",
	Long: `Walk the uploads playlist of every stored channel, skip videos already
present in the warehouse, fetch metadata for the rest and merge it into
the videos table.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Minute)
		defer cancel()

		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := cfg.RequireDatabase(); err != nil {
			return err
		}
		if err := cfg.RequireAPIKey(); err != nil {
			return err
		}

		dbPool, err := config.NewDatabasePool(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer dbPool.Close()

		metaService, err := metadata.NewService(ctx, cfg.YouTubeAPIKey)
		if err != nil {
			return fmt.Errorf("failed to create metadata service: %w", err)
		}

		channelRepo := repository.NewChannelRepository(dbPool)
		videoRepo := repository.NewVideoRepository(dbPool)

		playlists, err := channelRepo.ListUploadsPlaylists(ctx)
		if err != nil {
			return fmt.Errorf("failed to list uploads playlists: %w", err)
		}
		if len(playlists) == 0 {
			fmt.Println("No channels stored yet. Run 'yt-reviews channel fetch' first.")
			return nil
		}

		existing, err := videoRepo.ExistingIDs(ctx)
		if err != nil {
			return fmt.Errorf("failed to load existing video IDs: %w", err)
		}

		seen := make(map[string]bool)
		var newIDs []string
		for _, playlist := range playlists {
			ids, err := metaService.ListPlaylistVideoIDs(ctx, playlist)
			if err != nil {
				log.Warn().Err(err).Str("playlist", playlist).Msg("skipping playlist")
				continue
			}
			for _, id := range ids {
				if seen[id] || existing[id] {
					continue
				}
				seen[id] = true
				newIDs = append(newIDs, id)
			}
		}

		if len(newIDs) == 0 {
			fmt.Println("No new videos found.")
			return nil
		}

		videos, err := metaService.FetchVideos(ctx, newIDs)
		if err != nil {
			return fmt.Errorf("failed to fetch videos: %w", err)
		}
		if err := videoRepo.UpsertBatch(ctx, videos); err != nil {
			return fmt.Errorf("failed to upsert videos: %w", err)
		}

		fmt.Printf("Merged %d new video(s) into the warehouse (%d already present).\n",
			len(videos), len(existing))
		return nil
	},
}

// videoListCmd lists stored videos
var videoListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored videos",
	Long:  `List videos stored in the warehouse.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
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

		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		videoRepo := repository.NewVideoRepository(dbPool)
		videos, err := videoRepo.List(ctx, limit, offset)
		if err != nil {
			return fmt.Errorf("failed to list videos: %w", err)
		}

		if len(videos) == 0 {
			fmt.Println("No videos found in the warehouse.")
			return nil
		}

		result, err := json.MarshalIndent(videos, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format result: %w", err)
		}

		fmt.Printf("Found %d video(s):\n%s\n", len(videos), string(result))
		return nil
	},
}

func init() {
	videoListCmd.Flags().Int("limit", 10, "Maximum number of videos to retrieve")
	videoListCmd.Flags().Int("offset", 0, "Number of videos to skip")

	videoCmd.AddCommand(videoFetchCmd)
	videoCmd.AddCommand(videoListCmd)
	rootCmd.AddCommand(videoCmd)
}
