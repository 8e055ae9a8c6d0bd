// Package telemetry loads the raw CSV inputs and assembles the per-vehicle
// meter series the analysis stages consume. Two telemetry streams with
// different shapes feed the same fleet map: stream 1 is wide (one column per
// meter), stream 2 is long (name/value parameter rows). Both are merged with
// exact-duplicate removal and chronological sorting, so downstream code can
// rely on sorted, deduplicated series.
package telemetry

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are tried in order when parsing raw timestamps. The
// streams are not consistent about formats, so several are accepted.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
}

// parseTimestamp parses a raw timestamp string against the accepted layouts.
func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	// Some exports carry unix epoch seconds.
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil && secs > 0 {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", raw)
}
