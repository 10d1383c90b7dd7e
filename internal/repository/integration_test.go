//go:build integration

package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/stayscout/yt-reviews/internal/model"
)

// setupTestDB creates a PostgreSQL testcontainer and runs migrations
func setupTestDB(t *testing.T) *pgxpool.Pool {
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	databaseURL, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, runMigrations(databaseURL))

	pool, err := pgxpool.New(ctx, databaseURL)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
		container.Terminate(ctx)
	})

	return pool
}

// runMigrations executes database migrations using real migration files
func runMigrations(databaseURL string) error {
	_, currentFile, _, _ := runtime.Caller(0)
	migrationsPath, err := filepath.Abs(filepath.Join(filepath.Dir(currentFile), "..", "..", "migrations"))
	if err != nil {
		return fmt.Errorf("failed to get absolute path to migrations: %w", err)
	}

	m, err := migrate.New(fmt.Sprintf("file://%s", migrationsPath), databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func TestChannelRepository_Integration_UpsertIdempotence(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewChannelRepository(pool)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	batch := []*model.Channel{
		{ID: "UC1", Title: "Hotel Tours", SubscriberCount: 1000, Country: "KR", UploadsPlaylist: "UU1"},
		{ID: "UC2", Title: "Resort Reviews", SubscriberCount: 2000, UploadsPlaylist: "UU2"},
	}

	// Merging the same batch twice must leave the same row set.
	require.NoError(t, repo.UpsertBatch(ctx, batch))
	require.NoError(t, repo.UpsertBatch(ctx, batch))

	channels, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, channels, 2)

	// Matched rows pick up updated values.
	batch[0].SubscriberCount = 5555
	require.NoError(t, repo.UpsertBatch(ctx, batch))

	channels, err = repo.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, channels, 2)
	for _, ch := range channels {
		if ch.ID == "UC1" {
			assert.Equal(t, int64(5555), ch.SubscriberCount)
		}
	}

	playlists, err := repo.ListUploadsPlaylists(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"UU1", "UU2"}, playlists)
}

func TestVideoAndSubtitleRepository_Integration(t *testing.T) {
	pool := setupTestDB(t)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	channelRepo := NewChannelRepository(pool)
	videoRepo := NewVideoRepository(pool)
	subtitleRepo := NewSubtitleRepository(pool)

	require.NoError(t, channelRepo.UpsertBatch(ctx, []*model.Channel{
		{ID: "UC1", Title: "Hotel Tours", UploadsPlaylist: "UU1"},
	}))

	videos := []*model.Video{
		{
			ID: "vid1", ChannelID: "UC1", Title: "Resort review",
			PublishedAt: time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC),
			ViewCount:   5000, LikeCount: 321,
			Tags: []string{"hotel", "resort"}, DefaultLang: "ko", DurationSec: 754,
		},
		{
			ID: "vid2", ChannelID: "UC1", Title: "City hotel tour",
			PublishedAt: time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC),
		},
	}
	require.NoError(t, videoRepo.UpsertBatch(ctx, videos))
	require.NoError(t, videoRepo.UpsertBatch(ctx, videos))

	existing, err := videoRepo.ExistingIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"vid1": true, "vid2": true}, existing)

	// Both videos start out pending.
	targets, err := subtitleRepo.ListTargets(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"vid1", "vid2"}, targets)

	track := model.NewSubtitleTrack("vid1", "en", model.SourceAuto,
		[]model.CaptionSegment{{Index: 0, StartSec: 0, DurSec: 1.5, Text: "hello"}}, "hello")
	outcomes := []model.AcquisitionOutcome{
		model.Success(track),
		model.Failure("vid2", "no_suitable_track"),
	}
	require.NoError(t, subtitleRepo.UpsertOutcomes(ctx, outcomes))
	// Re-merging the same outcomes must not duplicate rows, including the
	// NULL-lang failure row.
	require.NoError(t, subtitleRepo.UpsertOutcomes(ctx, outcomes))

	var count int
	require.NoError(t, pool.QueryRow(ctx, "SELECT count(*) FROM subtitles").Scan(&count))
	assert.Equal(t, 2, count)

	// Every video has an outcome row now, so nothing is pending.
	targets, err = subtitleRepo.ListTargets(ctx)
	require.NoError(t, err)
	assert.Empty(t, targets)
}
