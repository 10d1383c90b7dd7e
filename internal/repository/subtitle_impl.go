package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stayscout/yt-reviews/internal/model"
)

// subtitleRepository implements SubtitleRepository using the warehouse
type subtitleRepository struct {
	loader loader
	pool   Pool
	now    func() time.Time
}

// NewSubtitleRepository creates a new instance of SubtitleRepository
func NewSubtitleRepository(pool Pool) SubtitleRepository {
	return &subtitleRepository{loader: loader{pool: pool}, pool: pool, now: time.Now}
}

var subtitleMergeSpec = MergeSpec{
	Table: "subtitles",
	Columns: []string{
		"video_id", "lang", "source", "segment_count", "segments",
		"full_text", "errors", "fetched_at",
	},
	KeyColumns: []string{"video_id", "lang"},
	// Segments are normalized once in the staging-side projection so the
	// matched and unmatched branches write the identical value.
	Expressions: map[string]string{
		"segments": "COALESCE(segments, '[]'::jsonb)",
		"errors":   "COALESCE(errors, '{}'::text[])",
	},
}

// UpsertOutcomes merges one row per acquisition outcome, keyed by (video_id, lang)
func (r *subtitleRepository) UpsertOutcomes(ctx context.Context, outcomes []model.AcquisitionOutcome) error {
	rows := make([][]any, 0, len(outcomes))
	fetchedAt := r.now().UTC()

	for _, o := range outcomes {
		switch o.Status {
		case model.AcquisitionSuccess:
			segments, err := json.Marshal(o.Track.Segments)
			if err != nil {
				return handlePostgreSQLError(err, "failed to encode subtitle segments")
			}
			rows = append(rows, []any{
				o.Track.VideoID,
				o.Track.LanguageKey,
				string(o.Track.Source),
				len(o.Track.Segments),
				segments,
				o.Track.FullText,
				[]string{},
				fetchedAt,
			})
		case model.AcquisitionNoCaptions:
			rows = append(rows, []any{
				o.VideoID, nil, nil, 0, []byte("[]"), nil, []string{"no_captions"}, fetchedAt,
			})
		case model.AcquisitionFailure:
			rows = append(rows, []any{
				o.VideoID, nil, nil, 0, []byte("[]"), nil, []string{o.Reason}, fetchedAt,
			})
		}
	}

	return r.loader.Upsert(ctx, subtitleMergeSpec, rows)
}

// ListTargets returns the video IDs still waiting for subtitles
func (r *subtitleRepository) ListTargets(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, "SELECT video_id FROM to_fetch_subs ORDER BY video_id")
	if err != nil {
		return nil, handlePostgreSQLError(err, "failed to list subtitle targets")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, handlePostgreSQLError(err, "failed to scan subtitle target")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
