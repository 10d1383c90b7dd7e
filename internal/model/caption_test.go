package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubtitleTrack_TruncatesFullText(t *testing.T) {
	long := strings.Repeat("x", MaxFullTextLen+10)
	track := NewSubtitleTrack("vid1", "en", SourceManual, nil, long)

	assert.Len(t, track.FullText, MaxFullTextLen)
}

func TestFullTextMatchesJoinedSegments(t *testing.T) {
	segments := []CaptionSegment{
		{Index: 0, StartSec: 0, DurSec: 1, Text: "hello"},
		{Index: 1, StartSec: 1.5, DurSec: 1, Text: "big"},
		{Index: 2, StartSec: 3, DurSec: 1, Text: "world"},
	}
	track := NewSubtitleTrack("vid1", "en", SourceAuto, segments, JoinSegmentTexts(segments))

	assert.Equal(t, "hello big world", track.FullText)
}

func TestOutcomeConstructors(t *testing.T) {
	track := NewSubtitleTrack("vid1", "en", SourceManual, nil, "")

	success := Success(track)
	assert.Equal(t, AcquisitionSuccess, success.Status)
	assert.Equal(t, "vid1", success.VideoID)

	none := NoCaptions("vid2")
	assert.Equal(t, AcquisitionNoCaptions, none.Status)
	assert.Nil(t, none.Track)

	failure := Failure("vid3", "extract_failed: boom")
	assert.Equal(t, AcquisitionFailure, failure.Status)
	assert.Equal(t, "extract_failed: boom", failure.Reason)
}

func TestNewExtractionResult_NormalizesNilMaps(t *testing.T) {
	result := NewExtractionResult(nil, nil, nil)
	require.NotNil(t, result.InlineTracks)
	require.NotNil(t, result.ManualPool)
	require.NotNil(t, result.AutoPool)
	assert.Empty(t, result.InlineTracks)
}
