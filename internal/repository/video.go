package repository

import (
	"context"

	"github.com/stayscout/yt-reviews/internal/model"
)

// VideoRepository defines warehouse operations for video metadata
type VideoRepository interface {
	// UpsertBatch merges video rows keyed by video_id
	UpsertBatch(ctx context.Context, videos []*model.Video) error

	// ExistingIDs returns the set of video IDs already in the warehouse
	ExistingIDs(ctx context.Context) (map[string]bool, error)

	// List retrieves videos with pagination
	List(ctx context.Context, limit, offset int) ([]*model.Video, error)
}
