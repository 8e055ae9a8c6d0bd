// Package theft implements cross-sensor fuel theft detection.
//
// Three asynchronous, differently-sampled sensor streams per vehicle (fuel
// level, odometer, speed) are fused into fixed-width time buckets, each bucket
// averaging the readings that fall inside it. Consecutive buckets yield a
// fuel-consumption record with a real-time MPG figure:
//
//	mpg = (odometer[i] − odometer[i−1]) / gallons consumed
//
// Records are validated against physics-based thresholds: implausibly high
// MPG points to a fuel sensor fault, implausibly low MPG means fuel left the
// tank without matching distance and is flagged for theft investigation.
// Flagged records are graded by their efficiency ratio (calculated MPG over
// the vehicle's rated MPG) into threat levels with investigation priorities.
//
// Use Analyzer.Run to process a whole fleet with per-vehicle skip semantics:
// vehicles with missing or degenerate data are skipped and reported, never
// aborting the remaining fleet.
package theft

import (
	"time"

	"github.com/ps-pro/AutoAnalytiX/internal/models"
)

// SynchronizeWindows merges the three meter series into consecutive
// non-overlapping windows of the given width covering [earliest, latest)
// across all readings. Each window averages the readings per meter whose
// timestamps lie in [start, start+width); its representative timestamp is the
// window center. Windows lacking a fuel or an odometer reading are dropped.
//
// All series must be chronologically sorted. The merge advances one cursor
// per series, so the whole fusion is a single O(n) pass regardless of the
// number of windows.
func SynchronizeWindows(fuel, odometer, speed []models.SensorReading, width time.Duration) []models.SynchronizedWindow {
	start, end, ok := timeBounds(fuel, odometer, speed)
	if !ok {
		return nil
	}

	var windows []models.SynchronizedWindow
	var fuelIdx, odoIdx, speedIdx int

	for cur := start; cur.Before(end); cur = cur.Add(width) {
		winEnd := cur.Add(width)

		fuelMean, fuelCount := windowMean(fuel, &fuelIdx, cur, winEnd)
		odoMean, odoCount := windowMean(odometer, &odoIdx, cur, winEnd)
		speedMean, speedCount := windowMean(speed, &speedIdx, cur, winEnd)

		// Retention invariant: both fuel and odometer must be present.
		if fuelMean == nil || odoMean == nil {
			continue
		}

		windows = append(windows, models.SynchronizedWindow{
			Center:    cur.Add(width / 2),
			FuelLevel: fuelMean,
			Odometer:  odoMean,
			Speed:     speedMean,
			Counts: models.ReadingCounts{
				Fuel:     fuelCount,
				Odometer: odoCount,
				Speed:    speedCount,
			},
		})
	}

	return windows
}

// timeBounds returns the earliest and latest timestamp across all series.
// ok is false when every series is empty.
func timeBounds(series ...[]models.SensorReading) (start, end time.Time, ok bool) {
	for _, s := range series {
		if len(s) == 0 {
			continue
		}
		first, last := s[0].Timestamp, s[len(s)-1].Timestamp
		if !ok {
			start, end, ok = first, last, true
			continue
		}
		if first.Before(start) {
			start = first
		}
		if last.After(end) {
			end = last
		}
	}
	return start, end, ok
}

// windowMean advances the cursor past readings before start, then averages
// the readings in [start, end). The cursor is left at the first reading not
// consumed, so successive calls over consecutive windows never re-scan.
func windowMean(series []models.SensorReading, cursor *int, start, end time.Time) (*float64, int) {
	for *cursor < len(series) && series[*cursor].Timestamp.Before(start) {
		*cursor++
	}

	var sum float64
	count := 0
	i := *cursor
	for i < len(series) && series[i].Timestamp.Before(end) {
		sum += series[i].Value
		count++
		i++
	}
	*cursor = i

	if count == 0 {
		return nil, 0
	}
	mean := sum / float64(count)
	return &mean, count
}
