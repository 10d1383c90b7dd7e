package captions

import (
	"encoding/json"
	"strings"

	"github.com/stayscout/yt-reviews/internal/model"
)

// json3Payload is YouTube's structured timed-event caption format
type json3Payload struct {
	Events []json3Event `json:"events"`
}

// json3Event is one timed event; timing is in milliseconds
type json3Event struct {
	TStartMs    int64          `json:"tStartMs"`
	DDurationMs int64          `json:"dDurationMs"`
	Segs        []json3Segment `json:"segs"`
}

type json3Segment struct {
	UTF8 string `json:"utf8"`
}

// ParseJSON3 decodes a json3 caption payload and converts its events into
// segments. Events with no text fragments, or whose combined text is empty
// after normalization, are dropped and consume no index.
func ParseJSON3(data []byte) ([]model.CaptionSegment, string, error) {
	var payload json3Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, "", err
	}
	segments := parseJSON3Events(payload.Events)
	return segments, model.JoinSegmentTexts(segments), nil
}

func parseJSON3Events(events []json3Event) []model.CaptionSegment {
	var segments []model.CaptionSegment
	idx := 0
	for _, ev := range events {
		if len(ev.Segs) == 0 {
			continue
		}
		var b strings.Builder
		for _, seg := range ev.Segs {
			b.WriteString(seg.UTF8)
		}
		text := strings.TrimSpace(strings.ReplaceAll(b.String(), "\n", " "))
		if text == "" {
			continue
		}
		segments = append(segments, model.CaptionSegment{
			Index:    idx,
			StartSec: float64(ev.TStartMs) / 1000.0,
			DurSec:   float64(ev.DDurationMs) / 1000.0,
			Text:     text,
		})
		idx++
	}
	return segments
}
