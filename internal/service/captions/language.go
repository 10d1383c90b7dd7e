package captions

import (
	"sort"
	"strings"

	"github.com/stayscout/yt-reviews/internal/model"
)

// BestLanguageKey picks the best caption language key from the available set.
// Selection order, first match wins: exact preferred code, a region variant of
// it ("{pref}-..."), its auto-generated form ("a.{pref}"), then the same three
// checks for the fallback code. Returns ("", false) when nothing matches;
// the caller decides whether to fall back to the first available key.
func BestLanguageKey[V any](available map[string]V, pref, fallback string) (string, bool) {
	pref = strings.ToLower(pref)
	fallback = strings.ToLower(fallback)

	keys := sortedKeys(available)
	for _, lang := range []string{pref, fallback} {
		if _, ok := available[lang]; ok {
			return lang, true
		}
		variant := lang + "-"
		for _, k := range keys {
			if strings.HasPrefix(k, variant) {
				return k, true
			}
		}
		if auto := "a." + lang; hasKey(available, auto) {
			return auto, true
		}
	}
	return "", false
}

// FirstLanguageKey returns the lexicographically first key of the set, used as
// the last-resort choice when no preference matches. ("", false) on empty.
func FirstLanguageKey[V any](available map[string]V) (string, bool) {
	keys := sortedKeys(available)
	if len(keys) == 0 {
		return "", false
	}
	return keys[0], true
}

// PickTrackURL is the strict track picker used by the single-track ingest
// path: it scans preferred languages in order, manual tracks before
// auto-generated ones, and requires a json3 encoding. Unlike BestLanguageKey
// callers it never falls back to an arbitrary key; absence is a failure the
// caller reports as no_suitable_track.
func PickTrackURL(result *model.ExtractionResult, langs []string) (url, lang string, source model.CaptionSource, ok bool) {
	for _, pool := range []struct {
		tracks map[string][]model.CaptionEncoding
		source model.CaptionSource
	}{
		{result.ManualPool, model.SourceManual},
		{result.AutoPool, model.SourceAuto},
	} {
		for _, l := range langs {
			for _, enc := range pool.tracks[l] {
				if enc.Ext == "json3" && enc.URL != "" {
					return enc.URL, l, pool.source, true
				}
			}
		}
	}
	return "", "", model.SourceUnknown, false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func hasKey[V any](m map[string]V, key string) bool {
	_, ok := m[key]
	return ok
}
