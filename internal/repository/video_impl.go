package repository

import (
	"context"

	"github.com/stayscout/yt-reviews/internal/model"
)

// videoRepository implements VideoRepository using the warehouse
type videoRepository struct {
	loader loader
	pool   Pool
}

// NewVideoRepository creates a new instance of VideoRepository
func NewVideoRepository(pool Pool) VideoRepository {
	return &videoRepository{loader: loader{pool: pool}, pool: pool}
}

var videoMergeSpec = MergeSpec{
	Table: "videos",
	Columns: []string{
		"video_id", "channel_id", "title", "description", "published_at",
		"view_count", "like_count", "tags", "default_lang", "duration_sec",
	},
	KeyColumns: []string{"video_id"},
}

// UpsertBatch merges video rows keyed by video_id
func (r *videoRepository) UpsertBatch(ctx context.Context, videos []*model.Video) error {
	rows := make([][]any, len(videos))
	for i, v := range videos {
		tags := v.Tags
		if tags == nil {
			tags = []string{}
		}
		rows[i] = []any{
			v.ID, v.ChannelID, v.Title, v.Description, v.PublishedAt,
			v.ViewCount, v.LikeCount, tags, nullable(v.DefaultLang), v.DurationSec,
		}
	}
	return r.loader.Upsert(ctx, videoMergeSpec, rows)
}

// ExistingIDs returns the set of video IDs already in the warehouse
func (r *videoRepository) ExistingIDs(ctx context.Context) (map[string]bool, error) {
	rows, err := r.pool.Query(ctx, "SELECT video_id FROM videos")
	if err != nil {
		return nil, handlePostgreSQLError(err, "failed to list existing video IDs")
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, handlePostgreSQLError(err, "failed to scan video ID")
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

// List retrieves videos with pagination
func (r *videoRepository) List(ctx context.Context, limit, offset int) ([]*model.Video, error) {
	sql := `SELECT video_id, channel_id, title, description, published_at,
		view_count, like_count, tags, COALESCE(default_lang, ''), duration_sec
		FROM videos ORDER BY published_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, sql, limit, offset)
	if err != nil {
		return nil, handlePostgreSQLError(err, "failed to list videos")
	}
	defer rows.Close()

	var videos []*model.Video
	for rows.Next() {
		var v model.Video
		err := rows.Scan(
			&v.ID, &v.ChannelID, &v.Title, &v.Description, &v.PublishedAt,
			&v.ViewCount, &v.LikeCount, &v.Tags, &v.DefaultLang, &v.DurationSec,
		)
		if err != nil {
			return nil, handlePostgreSQLError(err, "failed to scan video")
		}
		videos = append(videos, &v)
	}
	return videos, rows.Err()
}
