package captions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON3(t *testing.T) {
	payload := []byte(`{
		"events": [
			{"tStartMs": 0, "dDurationMs": 1500, "segs": [{"utf8": "hello "}, {"utf8": "world"}]},
			{"tStartMs": 2000, "dDurationMs": 500},
			{"tStartMs": 3000, "dDurationMs": 1000, "segs": [{"utf8": "\n"}]},
			{"tStartMs": 4200, "dDurationMs": 800, "segs": [{"utf8": "second\nline"}]}
		]
	}`)

	segments, fullText, err := ParseJSON3(payload)
	require.NoError(t, err)
	require.Len(t, segments, 2)

	assert.Equal(t, 0, segments[0].Index)
	assert.Equal(t, 0.0, segments[0].StartSec)
	assert.Equal(t, 1.5, segments[0].DurSec)
	assert.Equal(t, "hello world", segments[0].Text)

	// The two dropped events consume no index.
	assert.Equal(t, 1, segments[1].Index)
	assert.Equal(t, 4.2, segments[1].StartSec)
	assert.Equal(t, 0.8, segments[1].DurSec)
	assert.Equal(t, "second line", segments[1].Text)

	assert.Equal(t, "hello world second line", fullText)
}

func TestParseJSON3_Empty(t *testing.T) {
	segments, fullText, err := ParseJSON3([]byte(`{"events": []}`))
	require.NoError(t, err)
	assert.Empty(t, segments)
	assert.Equal(t, "", fullText)
}

func TestParseJSON3_MalformedPayload(t *testing.T) {
	_, _, err := ParseJSON3([]byte(`{"events": [`))
	assert.Error(t, err)
}
