package captions

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stayscout/yt-reviews/internal/model"
)

// cueExts are the URL-discovery encodings handled by the cue-based parser.
var cueExts = map[string]bool{"vtt": true, "ttml": true, "srv3": true, "srv1": true}

// interVideoPause is the fixed pause between videos in a batch run, keeping
// the extraction backend under third-party rate limits.
const interVideoPause = 400 * time.Millisecond

// Fetcher acquires subtitles for videos: inline json3 extraction first, then
// URL discovery with json3 and cue-based fallbacks. Every attempt's error is
// contained; Fetch always returns an outcome value.
type Fetcher struct {
	extractor Extractor
	session   *Session
	pref      string
	fallback  string
}

// NewFetcher builds a Fetcher. pref and fallback are caption language codes;
// they are lower-cased once here so every comparison downstream is uniform.
func NewFetcher(extractor Extractor, session *Session, pref, fallback string) *Fetcher {
	return &Fetcher{
		extractor: extractor,
		session:   session,
		pref:      strings.ToLower(pref),
		fallback:  strings.ToLower(fallback),
	}
}

// Fetch runs the acquisition state machine for one video.
func (f *Fetcher) Fetch(ctx context.Context, videoID string) model.AcquisitionOutcome {
	// 1) Inline-structured attempt. Failures here still permit URL discovery.
	outcome, done := f.fetchInline(ctx, videoID)
	if done {
		return outcome
	}

	return f.fetchFromURLs(ctx, videoID)
}

// fetchInline tries the inline json3 path. done is true only on Success.
func (f *Fetcher) fetchInline(ctx context.Context, videoID string) (model.AcquisitionOutcome, bool) {
	result, err := f.extractor.ExtractInline(ctx, videoID, PreferenceKeys(f.pref, f.fallback))
	if err != nil {
		log.Debug().Err(err).Str("video_id", videoID).Msg("inline extraction failed, trying URL discovery")
		return model.AcquisitionOutcome{}, false
	}
	if len(result.InlineTracks) == 0 {
		return model.AcquisitionOutcome{}, false
	}

	key, ok := BestLanguageKey(result.InlineTracks, f.pref, f.fallback)
	if !ok {
		key, ok = FirstLanguageKey(result.InlineTracks)
	}
	if !ok {
		return model.AcquisitionOutcome{}, false
	}

	segments, fullText, err := ParseJSON3(result.InlineTracks[key])
	if err != nil || len(segments) == 0 {
		return model.AcquisitionOutcome{}, false
	}

	track := model.NewSubtitleTrack(videoID, key, inlineSource(key), segments, fullText)
	log.Debug().Str("video_id", videoID).Str("lang", key).Int("segments", len(segments)).Msg("inline json3 captions acquired")
	return model.Success(track), true
}

// fetchFromURLs is the URL-discovery fallback: choose a pool, choose a key,
// then probe json3 before cue-based encodings.
func (f *Fetcher) fetchFromURLs(ctx context.Context, videoID string) model.AcquisitionOutcome {
	result, err := f.extractor.ExtractInfo(ctx, videoID)
	if err != nil {
		return model.Failure(videoID, err.Error())
	}

	pool := result.ManualPool
	source := model.SourceManual
	if len(pool) == 0 {
		pool = result.AutoPool
		source = model.SourceAuto
	}
	if len(pool) == 0 {
		return model.NoCaptions(videoID)
	}

	key, ok := BestLanguageKey(pool, f.pref, f.fallback)
	if !ok {
		key, ok = FirstLanguageKey(pool)
	}
	if !ok {
		return model.NoCaptions(videoID)
	}

	entries := pool[key]

	// Structured encoding first.
	if u := findEncodingURL(entries, func(ext string) bool { return ext == "json3" }); u != "" {
		if text, ok := f.session.DownloadText(ctx, u); ok {
			segments, fullText, err := ParseJSON3([]byte(text))
			if err == nil && len(segments) > 0 {
				track := model.NewSubtitleTrack(videoID, key, source, segments, fullText)
				log.Debug().Str("video_id", videoID).Str("lang", key).Int("segments", len(segments)).Msg("json3 captions acquired via URL")
				return model.Success(track)
			}
		}
	}

	// Cue-based encodings next.
	if u := findEncodingURL(entries, func(ext string) bool { return cueExts[ext] }); u != "" {
		if text, ok := f.session.DownloadText(ctx, u); ok {
			segments, fullText := ParseWebVTT(text)
			if len(segments) > 0 {
				track := model.NewSubtitleTrack(videoID, key, source, segments, fullText)
				log.Debug().Str("video_id", videoID).Str("lang", key).Int("segments", len(segments)).Msg("cue captions acquired via URL")
				return model.Success(track)
			}
		}
	}

	return model.NoCaptions(videoID)
}

// FetchStrict is the stricter acquisition entry point: discovery extraction
// only, manual tracks before auto ones, json3 encoding required, and no
// first-available-key fallback. Absence of a matching track is reported as a
// Failure with reason no_suitable_track rather than silently degrading.
func (f *Fetcher) FetchStrict(ctx context.Context, videoID string) model.AcquisitionOutcome {
	result, err := f.extractor.ExtractInfo(ctx, videoID)
	if err != nil {
		return model.Failure(videoID, "extract_failed: "+err.Error())
	}

	u, lang, source, ok := PickTrackURL(result, []string{f.pref, f.fallback})
	if !ok {
		return model.Failure(videoID, "no_suitable_track")
	}

	text, ok := f.session.DownloadText(ctx, u)
	if !ok {
		return model.Failure(videoID, "download_or_parse_failed: caption URL unreachable")
	}
	segments, fullText, err := ParseJSON3([]byte(text))
	if err != nil {
		return model.Failure(videoID, "download_or_parse_failed: "+err.Error())
	}
	if len(segments) == 0 {
		return model.NoCaptions(videoID)
	}

	return model.Success(model.NewSubtitleTrack(videoID, lang, source, segments, fullText))
}

// FetchAll acquires subtitles for each video sequentially with a fixed pause
// between videos. Failures never abort the batch; every video produces an
// outcome. strict selects FetchStrict instead of the degrading Fetch path.
func (f *Fetcher) FetchAll(ctx context.Context, videoIDs []string, strict bool) []model.AcquisitionOutcome {
	outcomes := make([]model.AcquisitionOutcome, 0, len(videoIDs))
	for i, videoID := range videoIDs {
		var outcome model.AcquisitionOutcome
		if strict {
			outcome = f.FetchStrict(ctx, videoID)
		} else {
			outcome = f.Fetch(ctx, videoID)
		}
		outcomes = append(outcomes, outcome)

		switch outcome.Status {
		case model.AcquisitionSuccess:
			log.Info().Str("video_id", videoID).Str("lang", outcome.Track.LanguageKey).
				Int("segments", len(outcome.Track.Segments)).Msg("subtitles acquired")
		case model.AcquisitionNoCaptions:
			log.Info().Str("video_id", videoID).Msg("no captions available")
		case model.AcquisitionFailure:
			log.Warn().Str("video_id", videoID).Str("reason", outcome.Reason).Msg("subtitle acquisition failed")
		}

		if i < len(videoIDs)-1 {
			select {
			case <-time.After(interVideoPause):
			case <-ctx.Done():
				return outcomes
			}
		}
	}
	return outcomes
}

// inlineSource classifies an inline track key: the backend marks auto tracks
// with an "a." prefix and gives no signal otherwise.
func inlineSource(key string) model.CaptionSource {
	if strings.HasPrefix(key, "a.") {
		return model.SourceAuto
	}
	return model.SourceUnknown
}

func findEncodingURL(entries []model.CaptionEncoding, match func(ext string) bool) string {
	for _, e := range entries {
		if match(e.Ext) && e.URL != "" {
			return e.URL
		}
	}
	return ""
}
