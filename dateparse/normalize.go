// Package dateparse normalizes heterogeneous date/time text into canonical
// epoch-second strings. Sources expose everything from RFC 3339 datetime
// attributes to bare "2024/01/02" strings to relative forms like
// "3 hours ago" or "2天前"; every adapter funnels through Normalize so the
// final sort compares like with like.
package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var digitsRe = regexp.MustCompile(`\d+`)

// relativeUnits maps relative-time markers to their duration unit. Both
// English and Chinese forms appear across the supported sources.
var relativeUnits = []struct {
	markers []string
	unit    time.Duration
}{
	{[]string{"minutes ago", "minute ago", "分钟前"}, time.Minute},
	{[]string{"hours ago", "hour ago", "小时前"}, time.Hour},
	{[]string{"days ago", "day ago", "天前"}, 24 * time.Hour},
}

// Normalize parses raw date text and returns epoch seconds as a string.
// Unparseable or implausible input returns the empty string, never an error:
// a missing timestamp is a normal per-item outcome.
func Normalize(raw string) string {
	return NormalizeAt(raw, time.Now())
}

// NormalizeAt is Normalize with an explicit reference time for relative
// forms. Tests use it to stay deterministic.
func NormalizeAt(raw string, now time.Time) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if ts, ok := relative(raw, now); ok {
		return format(ts)
	}

	t, err := dateparse.ParseIn(raw, now.Location())
	if err != nil {
		return ""
	}
	return format(t.Unix())
}

// relative handles "N <unit> ago" style phrases plus "yesterday".
func relative(raw string, now time.Time) (int64, bool) {
	lower := strings.ToLower(raw)

	if strings.Contains(lower, "yesterday") || strings.Contains(raw, "昨天") {
		return now.Add(-24 * time.Hour).Unix(), true
	}

	for _, ru := range relativeUnits {
		for _, marker := range ru.markers {
			if !strings.Contains(lower, marker) {
				continue
			}
			m := digitsRe.FindString(lower)
			if m == "" {
				return 0, false
			}
			n, err := strconv.Atoi(m)
			if err != nil {
				return 0, false
			}
			return now.Add(-time.Duration(n) * ru.unit).Unix(), true
		}
	}
	return 0, false
}

func format(ts int64) string {
	if ts <= 0 {
		return ""
	}
	return strconv.FormatInt(ts, 10)
}
