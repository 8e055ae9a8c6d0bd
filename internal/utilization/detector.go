// Package utilization implements fleet utilization analysis: idle period
// detection from speed data, idle cost accounting, savings projections for
// idle-reduction programs, and active-versus-idle utilization metrics with
// letter grades.
package utilization

import (
	"time"

	"github.com/ps-pro/AutoAnalytiX/internal/models"
)

// Interval is a contiguous run of readings satisfying a predicate.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns the interval length.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Intervals is the generic run-length detector: it finds contiguous runs of
// readings where pred holds, lasting strictly longer than minDuration. A run
// is closed by the first reading where pred fails, which supplies the
// interval's end timestamp; a run still open at the end of the data is
// closed at the last reading's timestamp.
//
// Readings must be chronologically sorted.
func Intervals(samples []models.SensorReading, pred func(float64) bool, minDuration time.Duration) []Interval {
	if len(samples) == 0 {
		return nil
	}

	var intervals []Interval
	var start time.Time
	open := false

	for _, r := range samples {
		if pred(r.Value) {
			if !open {
				start = r.Timestamp
				open = true
			}
			continue
		}
		if open {
			// Strict comparison: a run of exactly minDuration does not qualify.
			if iv := (Interval{Start: start, End: r.Timestamp}); iv.Duration() > minDuration {
				intervals = append(intervals, iv)
			}
			open = false
		}
	}

	// Data may end mid-run; the last timestamp bounds the open interval.
	if open {
		if iv := (Interval{Start: start, End: samples[len(samples)-1].Timestamp}); iv.Duration() > minDuration {
			intervals = append(intervals, iv)
		}
	}

	return intervals
}

// DetectIdlePeriods finds contiguous runs of zero-speed readings lasting
// strictly longer than minDuration.
func DetectIdlePeriods(speed []models.SensorReading, minDuration time.Duration) []models.IdlePeriod {
	intervals := Intervals(speed, func(v float64) bool { return v == 0 }, minDuration)
	if len(intervals) == 0 {
		return nil
	}

	periods := make([]models.IdlePeriod, 0, len(intervals))
	for _, iv := range intervals {
		d := iv.Duration()
		periods = append(periods, models.IdlePeriod{
			Start:           iv.Start,
			End:             iv.End,
			DurationMinutes: d.Minutes(),
			DurationHours:   d.Hours(),
		})
	}
	return periods
}
