package captions

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/stayscout/yt-reviews/internal/model"
)

// vttTimestampRe matches a cue timing line; trailing cue settings are ignored.
var vttTimestampRe = regexp.MustCompile(
	`^(\d{2}):(\d{2}):(\d{2}\.\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2}\.\d{3})`,
)

// ParseWebVTT parses cue-formatted caption text into segments.
// A line matching the timestamp pattern opens a cue; the following non-blank,
// non-arrow lines form its text, with NOTE comment lines excluded. Cues whose
// joined text is empty are not emitted, and a cue ending before it starts
// yields a zero duration instead of a negative one.
func ParseWebVTT(text string) ([]model.CaptionSegment, string) {
	lines := strings.Split(text, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimRight(strings.TrimPrefix(ln, "\ufeff"), " \r")
	}

	var segments []model.CaptionSegment
	idx := 0
	i := 0
	for i < len(lines) {
		ln := lines[i]
		if strings.Contains(ln, "-->") {
			if m := vttTimestampRe.FindStringSubmatch(strings.TrimSpace(ln)); m != nil {
				start := hmsToSeconds(m[1], m[2], m[3])
				end := hmsToSeconds(m[4], m[5], m[6])
				i++
				var textLines []string
				for i < len(lines) && lines[i] != "" && !strings.Contains(lines[i], "-->") {
					if !strings.HasPrefix(lines[i], "NOTE") {
						textLines = append(textLines, strings.TrimSpace(lines[i]))
					}
					i++
				}
				cueText := strings.TrimSpace(strings.Join(textLines, " "))
				if cueText != "" {
					dur := end - start
					if dur < 0 {
						dur = 0
					}
					segments = append(segments, model.CaptionSegment{
						Index:    idx,
						StartSec: start,
						DurSec:   dur,
						Text:     cueText,
					})
					idx++
				}
				continue
			}
		}
		i++
	}
	return segments, model.JoinSegmentTexts(segments)
}

// hmsToSeconds converts caption timestamp components to total seconds.
// Hours and minutes are integers; seconds carries millisecond precision.
func hmsToSeconds(h, m, s string) float64 {
	hours, _ := strconv.Atoi(h)
	minutes, _ := strconv.Atoi(m)
	seconds, _ := strconv.ParseFloat(s, 64)
	return float64(hours)*3600 + float64(minutes)*60 + seconds
}
