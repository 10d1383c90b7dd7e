package repository

import (
	"context"

	"github.com/stayscout/yt-reviews/internal/model"
)

// SubtitleRepository defines warehouse operations for subtitle tracks
type SubtitleRepository interface {
	// UpsertOutcomes merges one row per acquisition outcome, keyed by
	// (video_id, lang). Tracks are persisted whole; no-caption and failure
	// outcomes land as rows with a NULL language and their reason recorded.
	UpsertOutcomes(ctx context.Context, outcomes []model.AcquisitionOutcome) error

	// ListTargets returns the video IDs still waiting for subtitles
	ListTargets(ctx context.Context) ([]string, error)
}
