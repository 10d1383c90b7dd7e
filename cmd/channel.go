package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stayscout/yt-reviews/internal/config"
	"github.com/stayscout/yt-reviews/internal/repository"
	"github.com/stayscout/yt-reviews/internal/service/metadata"
)

// seedChannelIDs is the curated list of hotel-review channels ingested when
// no channel IDs are given on the command line.
var seedChannelIDs = strings.Split(strings.TrimSpace(`
UC1OA0PWgSL3boEj-bkbnj1A,UCYxsXxbjJO1YYa9yQ3lKC8w,UCfRJ9Hw-WhXwVPiagNhNHTw,UCm8vIT4tBhCI5EghEjIxo4A,UCldwUablgk8KPcFPQlKnB-w,UCk8b-Sml9_tR_hquipaMdGg,UC78Z8NqjKy2_hO7cv6zw17A,UCOYMhBR9_wKh-zkXPQ8W1cw,UCSei4YHej33B6XJu9LGsEFQ,UC50xPFPma-nCS5GZpAFukpQ,UCWmP5RJpbngL-5SgrMxE79A,UCQe6loP6voLEoKl0zREAeZQ,UCMZElq8mEULCmaj46lKWZOA,UCATN1EjzEv4IURye1m22Jog,UCoxHJfORwojUierMJc7q5kw,UC1qCJewkzvgEUWfPV4uvmuQ,UCkidqWkzkXl1f68anc4M6bw,UCRbuIba6WS1HOdlKxYiGcYA,UCerSFrrU_BvhbYY8_k7uGtQ,UCE11CSQA7Oj6q0ocFFO7l5w,UCPtVpwZeQNMDNtNRSNIQ76A,UCtY8mzwz9LY0zLxkrlNzoKA,UCLZriRGWJrVSSliMhkFCqJQ,UC02M40JN1Yr9N76HqkU6Ahg,UC3fS6cBq4JcJX4CIYcKhtKw,UCGsIuZKpWFSOp2FEoySWTWw,UClOI5S5ALqsvoI7Ul-M4ILA,UCy5PAemuM6fc6fy0kw8ZESg,UC4USf1GhahCaVCcbU2iw8rQ,UCqjqrbtPOPRXjVV5hKQVmKA,UCGRSbidwu0DrbQIIRYodY_Q,UCBO8UwABkuqFSxaxG3fxULw,UCAycjZAX7wCywHs2pAZoIcg,UClOxldJH1i0G4xg8VceyBZg,UCqChwvEGqFP8w3Jyi-UCaEQ,UCPv1IXIINpUdjMuxdD88gMA,UCthrY5mLeptivP_thDUwMTg,UCqPYzU6fDBZpGEqjcMPRHOA,UC909kguZ7l5W7bDQUhrA-ow,UCPHn3YViX_dylhDRGPg7Tug,UCG7apKe5csRaLSj5WIy6VWQ,UCaD2ODkWCwfDNaxKT_egYFg,UCvSTKxe2O_MpzVXwUKED5Rw,UCQK8_ejmTrRqyEsYDTHoHaQ,UCJ1QpR5y4Ch9glYpOiwrPyA,UCEqSijKE5qlS8kIvWmShYpw,UCcQ2_xIrN4ZHMP-aDVW6W1A,UCUw5TY15KNfZoYvwTXniIUg,UC4qBrLQgM_WIrY4ImuSNRPA,UCIdy0QGEdS29Tarcgwpuh8g,UCFhZXwKB4Q_a4RdO-TJ0dwA,UCnS3ASjhPAuPao5rY5xy7DA
`), ",")

// channelCmd represents the channel command
var channelCmd = &cobra.Command{
	Use:   "channel",
	Short: "YouTube channel operations",
	Long:  `Operations for ingesting and inspecting YouTube channels.`,
}

// channelFetchCmd fetches channel metadata and merges it into the warehouse
var channelFetchCmd = &cobra.Command{
	Use:   "fetch [CHANNEL_ID...]",
	Short: "Fetch channel metadata into the warehouse",
	Long: `Fetch channel metadata from the YouTube Data API and merge it into the
channels table. Without arguments the built-in seed channel list is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := args
		if len(ids) == 0 {
			ids = seedChannelIDs
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
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

		channels, err := metaService.FetchChannels(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to fetch channels: %w", err)
		}

		channelRepo := repository.NewChannelRepository(dbPool)
		if err := channelRepo.UpsertBatch(ctx, channels); err != nil {
			return fmt.Errorf("failed to upsert channels: %w", err)
		}

		fmt.Printf("Merged %d channel(s) into the warehouse.\n", len(channels))
		return nil
	},
}

// channelListCmd lists stored channels
var channelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored channels",
	Long:  `List channels stored in the warehouse.`,
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

		channelRepo := repository.NewChannelRepository(dbPool)
		channels, err := channelRepo.List(ctx, limit, offset)
		if err != nil {
			return fmt.Errorf("failed to list channels: %w", err)
		}

		if len(channels) == 0 {
			fmt.Println("No channels found in the warehouse.")
			return nil
		}

		result, err := json.MarshalIndent(channels, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format result: %w", err)
		}

		fmt.Printf("Found %d channel(s):\n%s\n", len(channels), string(result))
		return nil
	},
}

func init() {
	channelListCmd.Flags().Int("limit", 10, "Maximum number of channels to retrieve")
	channelListCmd.Flags().Int("offset", 0, "Number of channels to skip")

	channelCmd.AddCommand(channelFetchCmd)
	channelCmd.AddCommand(channelListCmd)
	rootCmd.AddCommand(channelCmd)
}
