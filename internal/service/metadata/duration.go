package metadata

import (
	"regexp"
	"strconv"
)

// isoDurationRe matches the Data API's ISO-8601 duration subset:
// P[nD][T[nH][nM][nS]], seconds possibly fractional.
var isoDurationRe = regexp.MustCompile(
	`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`,
)

// ParseISODuration converts an ISO-8601 duration string into total seconds.
// Unparsable or empty input yields 0.
func ParseISODuration(s string) float64 {
	if s == "" {
		return 0
	}
	m := isoDurationRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	days := parseFloat(m[1])
	hours := parseFloat(m[2])
	minutes := parseFloat(m[3])
	seconds := parseFloat(m[4])
	return days*86400 + hours*3600 + minutes*60 + seconds
}

func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
