// Package metadata fetches channel and video metadata from the YouTube Data
// API v3 in batches, with capped backoff on quota and server errors.
package metadata

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	apperrors "github.com/stayscout/yt-reviews/internal/errors"
	"github.com/stayscout/yt-reviews/internal/model"
	"github.com/stayscout/yt-reviews/internal/retry"
)

// batchSize is the Data API maximum for id-list lookups and page sizes.
const batchSize = 50

// Service wraps the YouTube Data API for the ingestion pipeline
type Service struct {
	yt  *youtube.Service
	cfg retry.Config
}

// NewService creates a metadata service authenticated by API key
func NewService(ctx context.Context, apiKey string) (*Service, error) {
	if apiKey == "" {
		return nil, apperrors.New(apperrors.CodeConfig, "YouTube API key is required")
	}
	yt, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternal, "failed to create YouTube service")
	}
	return &Service{yt: yt, cfg: retry.DefaultConfig()}, nil
}

// FetchChannels fetches channel metadata for the given IDs in batches of 50.
// Batches that exhaust their retries are skipped with a warning; the rows
// collected so far are still returned.
func (s *Service) FetchChannels(ctx context.Context, ids []string) ([]*model.Channel, error) {
	ids = dedupe(ids)
	var channels []*model.Channel
	for _, batch := range chunk(ids, batchSize) {
		items, ok := s.channelsList(ctx, batch)
		if !ok {
			log.Warn().Strs("channel_ids", batch).Msg("channel batch abandoned after retries")
			continue
		}
		for _, it := range items {
			channels = append(channels, channelFromItem(it))
		}
	}
	return channels, nil
}

func (s *Service) channelsList(ctx context.Context, ids []string) ([]*youtube.Channel, bool) {
	call := s.yt.Channels.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(ids...).
		MaxResults(batchSize)

	var items []*youtube.Channel
	ok := s.withRetry(ctx, func() error {
		resp, err := call.Context(ctx).Do()
		if err != nil {
			return err
		}
		items = resp.Items
		return nil
	})
	return items, ok
}

func channelFromItem(it *youtube.Channel) *model.Channel {
	ch := &model.Channel{ID: it.Id}
	if it.Snippet != nil {
		ch.Title = it.Snippet.Title
		ch.Country = it.Snippet.Country
	}
	if it.Statistics != nil {
		ch.SubscriberCount = int64(it.Statistics.SubscriberCount)
	}
	if it.ContentDetails != nil && it.ContentDetails.RelatedPlaylists != nil {
		ch.UploadsPlaylist = it.ContentDetails.RelatedPlaylists.Uploads
	}
	return ch
}

// ListPlaylistVideoIDs pages through a playlist and returns its video IDs in
// playlist order. A page that exhausts retries ends the walk with the IDs
// gathered so far.
func (s *Service) ListPlaylistVideoIDs(ctx context.Context, playlistID string) ([]string, error) {
	var ids []string
	pageToken := ""
	for {
		call := s.yt.PlaylistItems.List([]string{"contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(batchSize)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		var resp *youtube.PlaylistItemListResponse
		ok := s.withRetry(ctx, func() error {
			r, err := call.Context(ctx).Do()
			if err != nil {
				return err
			}
			resp = r
			return nil
		})
		if !ok {
			log.Warn().Str("playlist_id", playlistID).Msg("playlist page abandoned after retries")
			return ids, nil
		}

		for _, it := range resp.Items {
			if it.ContentDetails != nil {
				ids = append(ids, it.ContentDetails.VideoId)
			}
		}
		pageToken = resp.NextPageToken
		if pageToken == "" {
			return ids, nil
		}
	}
}

// FetchVideos fetches video metadata for the given IDs in batches of 50
func (s *Service) FetchVideos(ctx context.Context, ids []string) ([]*model.Video, error) {
	ids = dedupe(ids)
	var videos []*model.Video
	for _, batch := range chunk(ids, batchSize) {
		items, ok := s.videosList(ctx, batch)
		if !ok {
			log.Warn().Strs("video_ids", batch).Msg("video batch abandoned after retries")
			continue
		}
		for _, it := range items {
			videos = append(videos, videoFromItem(it))
		}
	}
	return videos, nil
}

func (s *Service) videosList(ctx context.Context, ids []string) ([]*youtube.Video, bool) {
	call := s.yt.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(ids...).
		MaxResults(batchSize)

	var items []*youtube.Video
	ok := s.withRetry(ctx, func() error {
		resp, err := call.Context(ctx).Do()
		if err != nil {
			return err
		}
		items = resp.Items
		return nil
	})
	return items, ok
}

func videoFromItem(it *youtube.Video) *model.Video {
	v := &model.Video{ID: it.Id}
	if sn := it.Snippet; sn != nil {
		v.ChannelID = sn.ChannelId
		v.Title = sn.Title
		v.Description = sn.Description
		v.Tags = sn.Tags
		// The API reports either defaultAudioLanguage or defaultLanguage
		// depending on the video; take whichever is present.
		v.DefaultLang = sn.DefaultAudioLanguage
		if v.DefaultLang == "" {
			v.DefaultLang = sn.DefaultLanguage
		}
		if t, err := time.Parse(time.RFC3339, sn.PublishedAt); err == nil {
			v.PublishedAt = t
		}
	}
	if st := it.Statistics; st != nil {
		v.ViewCount = int64(st.ViewCount)
		v.LikeCount = int64(st.LikeCount)
	}
	if cd := it.ContentDetails; cd != nil {
		v.DurationSec = ParseISODuration(cd.Duration)
	}
	return v
}

// withRetry runs call under the backoff sequence, sleeping with jitter on
// retryable failures. Returns false when every try failed.
func (s *Service) withRetry(ctx context.Context, call func() error) bool {
	for _, delay := range retry.Sequence(s.cfg) {
		err := call()
		if err == nil {
			return true
		}
		if !retryableAPIError(err) {
			log.Warn().Err(err).Msg("metadata API call failed permanently")
			return false
		}
		if sleepErr := retry.Sleep(ctx, delay, s.cfg.JitterSpan); sleepErr != nil {
			return false
		}
	}
	return false
}

// retryableAPIError treats rate limits, quota pressure and server errors as
// transient; everything else is permanent.
func retryableAPIError(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return retry.RetryableStatus(gerr.Code)
	}
	// Transport-level errors (timeouts, resets) have no status code.
	return true
}

func chunk(xs []string, n int) [][]string {
	var out [][]string
	for i := 0; i < len(xs); i += n {
		end := i + n
		if end > len(xs) {
			end = len(xs)
		}
		out = append(out, xs[i:end])
	}
	return out
}

// dedupe removes duplicate IDs while preserving order
func dedupe(xs []string) []string {
	seen := make(map[string]bool, len(xs))
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	return out
}
