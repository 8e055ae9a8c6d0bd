package telemetry

import (
	"github.com/ps-pro/AutoAnalytiX/internal/logger"
	"github.com/ps-pro/AutoAnalytiX/internal/models"
)

// MergeFleets combines the meter data of both telemetry streams. Per vehicle
// and meter, readings from both streams are concatenated, exact duplicates
// (same timestamp and value) removed keeping the first occurrence, and the
// result sorted chronologically. Vehicles present in only one stream are
// carried over as-is.
func MergeFleets(a, b Fleet) Fleet {
	merged := make(Fleet, len(a)+len(b))
	duplicates := 0

	for id, s := range a {
		other := b[id]
		if other == nil {
			other = &models.MeterSeries{}
		}
		ms := &models.MeterSeries{}
		ms.Speed, duplicates = mergeReadings(s.Speed, other.Speed, duplicates)
		ms.Odometer, duplicates = mergeReadings(s.Odometer, other.Odometer, duplicates)
		ms.Fuel, duplicates = mergeReadings(s.Fuel, other.Fuel, duplicates)
		merged[id] = ms
	}
	for id, s := range b {
		if _, ok := a[id]; ok {
			continue
		}
		ms := &models.MeterSeries{}
		ms.Speed, duplicates = mergeReadings(s.Speed, nil, duplicates)
		ms.Odometer, duplicates = mergeReadings(s.Odometer, nil, duplicates)
		ms.Fuel, duplicates = mergeReadings(s.Fuel, nil, duplicates)
		merged[id] = ms
	}

	logger.Info("Stream merge complete: %d vehicles, %d duplicate readings removed", len(merged), duplicates)
	return merged
}

type readingKey struct {
	unixNano int64
	value    float64
}

// mergeReadings concatenates two sorted series, drops exact duplicates, and
// re-sorts. The running duplicate count is threaded through for merge
// statistics.
func mergeReadings(a, b []models.SensorReading, dupCount int) ([]models.SensorReading, int) {
	if len(a) == 0 && len(b) == 0 {
		return nil, dupCount
	}

	seen := make(map[readingKey]struct{}, len(a)+len(b))
	out := make([]models.SensorReading, 0, len(a)+len(b))
	for _, r := range append(append([]models.SensorReading{}, a...), b...) {
		key := readingKey{r.Timestamp.UnixNano(), r.Value}
		if _, dup := seen[key]; dup {
			dupCount++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}

	sortReadings(out)
	return out, dupCount
}
