package model

import (
	"encoding/json"
	"strings"
)

// MaxFullTextLen bounds the stored full-text size for one subtitle track.
const MaxFullTextLen = 1_000_000

// CaptionSource indicates how a caption track was produced
type CaptionSource string

const (
	// SourceManual marks human-authored caption tracks
	SourceManual CaptionSource = "manual"
	// SourceAuto marks machine-generated caption tracks
	SourceAuto CaptionSource = "auto"
	// SourceUnknown is used when the extraction backend gives no distinction
	SourceUnknown CaptionSource = "unknown"
)

// CaptionSegment is one timed unit of transcribed speech
type CaptionSegment struct {
	Index    int     `json:"idx" db:"idx"`
	StartSec float64 `json:"start_sec" db:"start_sec"`
	DurSec   float64 `json:"dur_sec" db:"dur_sec"`
	Text     string  `json:"text" db:"text"`
}

// SubtitleTrack is the result of acquiring captions for one (video, language) pair.
// It is constructed once per acquisition attempt and never mutated afterwards.
type SubtitleTrack struct {
	VideoID     string           `json:"video_id" db:"video_id"`
	LanguageKey string           `json:"lang" db:"lang"`
	Source      CaptionSource    `json:"source" db:"source"`
	Segments    []CaptionSegment `json:"segments" db:"segments"`
	FullText    string           `json:"full_text" db:"full_text"`
}

// NewSubtitleTrack builds an immutable track from parsed segments.
// FullText is the space-joined segment text, truncated to MaxFullTextLen.
func NewSubtitleTrack(videoID, languageKey string, source CaptionSource, segments []CaptionSegment, fullText string) *SubtitleTrack {
	if len(fullText) > MaxFullTextLen {
		fullText = fullText[:MaxFullTextLen]
	}
	return &SubtitleTrack{
		VideoID:     videoID,
		LanguageKey: languageKey,
		Source:      source,
		Segments:    segments,
		FullText:    fullText,
	}
}

// AcquisitionStatus is the terminal state of one subtitle acquisition attempt
type AcquisitionStatus string

const (
	// AcquisitionSuccess means a non-empty track was acquired
	AcquisitionSuccess AcquisitionStatus = "success"
	// AcquisitionNoCaptions means the video has no usable caption track
	AcquisitionNoCaptions AcquisitionStatus = "no_captions"
	// AcquisitionFailure means an unexpected error occurred; Reason carries detail
	AcquisitionFailure AcquisitionStatus = "failure"
)

// AcquisitionOutcome is the tagged result of acquiring subtitles for one video.
// Acquisition always returns a value; failures are recorded, never raised.
type AcquisitionOutcome struct {
	VideoID string
	Status  AcquisitionStatus
	Track   *SubtitleTrack
	Reason  string
}

// Success wraps a track in a successful outcome
func Success(track *SubtitleTrack) AcquisitionOutcome {
	return AcquisitionOutcome{VideoID: track.VideoID, Status: AcquisitionSuccess, Track: track}
}

// NoCaptions reports that no caption track is available for the video
func NoCaptions(videoID string) AcquisitionOutcome {
	return AcquisitionOutcome{VideoID: videoID, Status: AcquisitionNoCaptions}
}

// Failure records an acquisition error as a value with a human-readable reason
func Failure(videoID, reason string) AcquisitionOutcome {
	return AcquisitionOutcome{VideoID: videoID, Status: AcquisitionFailure, Reason: reason}
}

// CaptionEncoding is one downloadable encoding of a caption track
type CaptionEncoding struct {
	Ext string `json:"ext"`
	URL string `json:"url"`
}

// ExtractionResult models the caption availability data returned by the
// extraction backend. Absence is always an empty map, never nil.
type ExtractionResult struct {
	// InlineTracks maps resolved language keys to inline caption payloads
	InlineTracks map[string]json.RawMessage
	// ManualPool maps language keys of human-authored tracks to their encodings
	ManualPool map[string][]CaptionEncoding
	// AutoPool maps language keys of auto-generated tracks to their encodings
	AutoPool map[string][]CaptionEncoding
}

// NewExtractionResult normalizes nil maps to empty ones
func NewExtractionResult(inline map[string]json.RawMessage, manual, auto map[string][]CaptionEncoding) *ExtractionResult {
	if inline == nil {
		inline = map[string]json.RawMessage{}
	}
	if manual == nil {
		manual = map[string][]CaptionEncoding{}
	}
	if auto == nil {
		auto = map[string][]CaptionEncoding{}
	}
	return &ExtractionResult{InlineTracks: inline, ManualPool: manual, AutoPool: auto}
}

// JoinSegmentTexts returns the space-joined text of the given segments
func JoinSegmentTexts(segments []CaptionSegment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, " ")
}
