package repository

import (
	"context"

	"github.com/stayscout/yt-reviews/internal/model"
)

// channelRepository implements ChannelRepository using the warehouse
type channelRepository struct {
	loader loader
	pool   Pool
}

// NewChannelRepository creates a new instance of ChannelRepository
func NewChannelRepository(pool Pool) ChannelRepository {
	return &channelRepository{loader: loader{pool: pool}, pool: pool}
}

var channelMergeSpec = MergeSpec{
	Table:      "channels",
	Columns:    []string{"channel_id", "channel_title", "channel_subs", "country", "uploads_playlist"},
	KeyColumns: []string{"channel_id"},
}

// UpsertBatch merges channel rows keyed by channel_id
func (r *channelRepository) UpsertBatch(ctx context.Context, channels []*model.Channel) error {
	rows := make([][]any, len(channels))
	for i, ch := range channels {
		rows[i] = []any{ch.ID, ch.Title, ch.SubscriberCount, nullable(ch.Country), ch.UploadsPlaylist}
	}
	return r.loader.Upsert(ctx, channelMergeSpec, rows)
}

// ListUploadsPlaylists returns the uploads playlist ID of every stored channel
func (r *channelRepository) ListUploadsPlaylists(ctx context.Context) ([]string, error) {
	sql := "SELECT uploads_playlist FROM channels WHERE uploads_playlist IS NOT NULL AND uploads_playlist <> ''"
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, handlePostgreSQLError(err, "failed to list uploads playlists")
	}
	defer rows.Close()

	var playlists []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, handlePostgreSQLError(err, "failed to scan uploads playlist")
		}
		playlists = append(playlists, p)
	}
	return playlists, rows.Err()
}

// List retrieves channels with pagination
func (r *channelRepository) List(ctx context.Context, limit, offset int) ([]*model.Channel, error) {
	sql := `SELECT channel_id, channel_title, channel_subs, COALESCE(country, ''), uploads_playlist
		FROM channels ORDER BY channel_title LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, sql, limit, offset)
	if err != nil {
		return nil, handlePostgreSQLError(err, "failed to list channels")
	}
	defer rows.Close()

	var channels []*model.Channel
	for rows.Next() {
		var ch model.Channel
		if err := rows.Scan(&ch.ID, &ch.Title, &ch.SubscriberCount, &ch.Country, &ch.UploadsPlaylist); err != nil {
			return nil, handlePostgreSQLError(err, "failed to scan channel")
		}
		channels = append(channels, &ch)
	}
	return channels, rows.Err()
}

// nullable maps empty strings to NULL so null-safe merges behave uniformly
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
