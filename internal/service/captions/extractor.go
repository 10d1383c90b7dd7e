package captions

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/stayscout/yt-reviews/internal/errors"
	"github.com/stayscout/yt-reviews/internal/model"
	"github.com/stayscout/yt-reviews/internal/service/common"
)

// Extractor obtains caption availability data for a video from the
// extraction backend (yt-dlp). Both modes catch backend failures and return
// them as error values; callers convert them into Failure outcomes.
type Extractor interface {
	// ExtractInline requests extraction restricted to the json3 format for the
	// given prioritized language keys and returns inline payloads keyed by the
	// language key the backend actually resolved.
	ExtractInline(ctx context.Context, videoID string, langKeys []string) (*model.ExtractionResult, error)

	// ExtractInfo requests a generic metadata extraction and returns the
	// manual and auto caption pools with their download URLs per encoding.
	ExtractInfo(ctx context.Context, videoID string) (*model.ExtractionResult, error)
}

// ytDlpExtractor implements Extractor by shelling out to yt-dlp
type ytDlpExtractor struct {
	cmdRunner   common.CmdRunner
	cookiesFile string
}

// NewExtractor creates an Extractor backed by the yt-dlp binary.
// cookiesFile is optional; it is passed through only when the file exists.
func NewExtractor(cmdRunner common.CmdRunner, cookiesFile string) Extractor {
	return &ytDlpExtractor{cmdRunner: cmdRunner, cookiesFile: cookiesFile}
}

// ytDlpInfo captures the parts of yt-dlp's JSON dump this pipeline reads
type ytDlpInfo struct {
	ID                 string                             `json:"id"`
	RequestedSubtitles map[string]ytDlpRequestedTrack     `json:"requested_subtitles"`
	Subtitles          map[string][]model.CaptionEncoding `json:"subtitles"`
	AutomaticCaptions  map[string][]model.CaptionEncoding `json:"automatic_captions"`
}

// ytDlpRequestedTrack is one resolved track in inline-payload mode
type ytDlpRequestedTrack struct {
	Ext  string          `json:"ext"`
	URL  string          `json:"url"`
	Data json.RawMessage `json:"data"`
}

func watchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

func (e *ytDlpExtractor) ExtractInline(ctx context.Context, videoID string, langKeys []string) (*model.ExtractionResult, error) {
	args := []string{
		"--skip-download",
		"--write-subs",
		"--write-auto-subs",
		"--sub-format", "json3",
		"--sub-langs", strings.Join(langKeys, ","),
		"--no-warnings",
		"-J",
	}
	args = e.appendCookies(args)
	args = append(args, watchURL(videoID))

	output, err := e.cmdRunner.Run(ctx, "yt-dlp", args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeExternal, fmt.Sprintf("yt-dlp inline extraction failed for %s", videoID))
	}

	var info ytDlpInfo
	if err := json.Unmarshal(output, &info); err != nil {
		return nil, errors.Wrap(err, errors.CodeExternal, "failed to parse yt-dlp output")
	}

	inline := make(map[string]json.RawMessage, len(info.RequestedSubtitles))
	for key, track := range info.RequestedSubtitles {
		if len(track.Data) > 0 {
			inline[key] = track.Data
		}
	}
	return model.NewExtractionResult(inline, nil, nil), nil
}

func (e *ytDlpExtractor) ExtractInfo(ctx context.Context, videoID string) (*model.ExtractionResult, error) {
	args := []string{
		"--skip-download",
		"--no-warnings",
		"-J",
	}
	args = e.appendCookies(args)
	args = append(args, watchURL(videoID))

	output, err := e.cmdRunner.Run(ctx, "yt-dlp", args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeExternal, fmt.Sprintf("yt-dlp info extraction failed for %s", videoID))
	}

	var info ytDlpInfo
	if err := json.Unmarshal(output, &info); err != nil {
		return nil, errors.Wrap(err, errors.CodeExternal, "failed to parse yt-dlp output")
	}

	return model.NewExtractionResult(nil, info.Subtitles, info.AutomaticCaptions), nil
}

// appendCookies passes the configured cookie file to yt-dlp when it exists.
// A missing file is simply skipped; yt-dlp would fail hard on it.
func (e *ytDlpExtractor) appendCookies(args []string) []string {
	if e.cookiesFile == "" {
		return args
	}
	if _, err := os.Stat(e.cookiesFile); err != nil {
		return args
	}
	return append(args, "--cookies", e.cookiesFile)
}

// PreferenceKeys builds the prioritized caption language list for inline
// extraction: exact preferred and fallback codes, their region variants, and
// their auto-generated variants.
func PreferenceKeys(pref, fallback string) []string {
	return []string{
		pref,
		fallback,
		pref + "-*",
		fallback + "-*",
		"a." + pref,
		"a." + fallback,
	}
}
