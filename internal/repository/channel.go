package repository

import (
	"context"

	"github.com/stayscout/yt-reviews/internal/model"
)

// ChannelRepository defines warehouse operations for channel metadata
type ChannelRepository interface {
	// UpsertBatch merges channel rows keyed by channel_id
	UpsertBatch(ctx context.Context, channels []*model.Channel) error

	// ListUploadsPlaylists returns the uploads playlist ID of every stored channel
	ListUploadsPlaylists(ctx context.Context) ([]string, error)

	// List retrieves channels with pagination
	List(ctx context.Context, limit, offset int) ([]*model.Channel, error)
}
