package quality

import (
	"time"

	"github.com/ps-pro/AutoAnalytiX/internal/config"
	"github.com/ps-pro/AutoAnalytiX/internal/logger"
	"github.com/ps-pro/AutoAnalytiX/internal/models"
)

// ResetClassification labels a zero odometer reading.
type ResetClassification string

const (
	// LegitimateReset means the surrounding moving average stayed low with
	// no recovery, consistent with the meter actually starting over.
	LegitimateReset ResetClassification = "LEGITIMATE_RESET"
	// FaultySensorReading means the surrounding readings contradict a reset;
	// the zero is treated as sensor noise and removed during cleaning.
	FaultySensorReading ResetClassification = "FAULTY_SENSOR_READING"
	// InsufficientContext means too few neighboring points exist to decide.
	InsufficientContext ResetClassification = "INSUFFICIENT_CONTEXT"
)

// ResetFinding records the classification of one zero odometer reading.
type ResetFinding struct {
	Index          int                 `json:"position"`
	Timestamp      time.Time           `json:"timestamp"`
	Classification ResetClassification `json:"classification"`
	ContextQuality int                 `json:"context_quality"`
}

// OdometerFindings reports the anomalies observed in an odometer series.
type OdometerFindings struct {
	ZeroReadings   int            `json:"zero_readings"`
	Decreases      int            `json:"decreases"`
	LargeDecreases int            `json:"large_decreases"`
	Resets         []ResetFinding `json:"reset_classifications,omitempty"`
}

// InspectOdometer scans a sorted odometer series for zero readings,
// decreases, and large decreases, and classifies every zero reading using
// the moving-average context around it. The classification thresholds are
// heuristic and come from configuration rather than physical constants.
func InspectOdometer(vehicleID string, odometer []models.SensorReading, cfg config.OdometerConfig) OdometerFindings {
	var f OdometerFindings
	if len(odometer) < 2 {
		return f
	}

	for i := 1; i < len(odometer); i++ {
		delta := odometer[i].Value - odometer[i-1].Value
		if delta < 0 {
			f.Decreases++
		}
		if delta < -cfg.LargeDecreaseMiles {
			f.LargeDecreases++
		}
	}

	maWindow := smallestWindow(cfg.MovingAverageWindows)
	ma, valid := centeredMovingAverage(odometer, maWindow)

	for i, r := range odometer {
		if r.Value != 0 {
			continue
		}
		f.ZeroReadings++
		f.Resets = append(f.Resets, classifyReset(i, r.Timestamp, ma, valid, cfg))
	}

	if f.ZeroReadings > 0 || f.Decreases > 0 {
		logger.Violation(vehicleID, "ODOMETER_ANOMALY", "%d zero readings, %d decreases (%d large)",
			f.ZeroReadings, f.Decreases, f.LargeDecreases)
	}
	return f
}

// classifyReset decides whether a zero reading at index pos is a legitimate
// meter reset. The moving average in the surrounding context must stay below
// the low-reading threshold for more than the minimum number of points, and
// must not recover toward the end of the context.
func classifyReset(pos int, ts time.Time, ma []float64, valid []bool, cfg config.OdometerConfig) ResetFinding {
	lo := pos - cfg.ContextPoints
	if lo < 0 {
		lo = 0
	}
	hi := pos + cfg.ContextPoints
	if hi > len(ma) {
		hi = len(ma)
	}

	var context []float64
	for i := lo; i < hi; i++ {
		if valid[i] {
			context = append(context, ma[i])
		}
	}

	finding := ResetFinding{Index: pos, Timestamp: ts, ContextQuality: len(context)}
	if len(context) <= cfg.MinContextPoints {
		finding.Classification = InsufficientContext
		return finding
	}

	low := 0
	for _, v := range context {
		if v < cfg.LowReadingThreshold {
			low++
		}
	}
	allLow := low > cfg.MinContextPoints
	recovering := tailMean(context, 3) > headMean(context, 3)

	if allLow && !recovering {
		finding.Classification = LegitimateReset
	} else {
		finding.Classification = FaultySensorReading
	}
	return finding
}

// CleanOdometer removes zero readings and the readings previously classified
// as faulty sensor output.
func CleanOdometer(vehicleID string, odometer []models.SensorReading, findings OdometerFindings) ([]models.SensorReading, CleaningSummary) {
	if len(odometer) == 0 {
		return odometer, CleaningSummary{}
	}

	faulty := make(map[int64]struct{})
	for _, r := range findings.Resets {
		if r.Classification == FaultySensorReading {
			faulty[r.Timestamp.UnixNano()] = struct{}{}
		}
	}

	cleaned := make([]models.SensorReading, 0, len(odometer))
	for _, r := range odometer {
		if r.Value == 0 {
			continue
		}
		if _, bad := faulty[r.Timestamp.UnixNano()]; bad {
			continue
		}
		cleaned = append(cleaned, r)
	}

	summary := summarize(len(odometer), len(cleaned))
	if summary.Removed > 0 {
		logger.Info("%s: removed %d odometer readings (zeros and faulty sensor output)", vehicleID, summary.Removed)
	}
	return cleaned, summary
}

// centeredMovingAverage computes the mean of a centered window over the
// reading values. valid[i] is false where the full window does not fit.
func centeredMovingAverage(readings []models.SensorReading, window int) ([]float64, []bool) {
	n := len(readings)
	if window > n {
		window = n
	}
	ma := make([]float64, n)
	valid := make([]bool, n)
	if window == 0 {
		return ma, valid
	}

	half := (window - 1) / 2
	for i := range readings {
		lo := i - half
		hi := lo + window
		if lo < 0 || hi > n {
			continue
		}
		var sum float64
		for j := lo; j < hi; j++ {
			sum += readings[j].Value
		}
		ma[i] = sum / float64(window)
		valid[i] = true
	}
	return ma, valid
}

func smallestWindow(windows []int) int {
	if len(windows) == 0 {
		return 5
	}
	min := windows[0]
	for _, w := range windows[1:] {
		if w < min {
			min = w
		}
	}
	return min
}

func headMean(v []float64, n int) float64 {
	if n > len(v) {
		n = len(v)
	}
	var sum float64
	for _, x := range v[:n] {
		sum += x
	}
	return sum / float64(n)
}

func tailMean(v []float64, n int) float64 {
	if n > len(v) {
		n = len(v)
	}
	var sum float64
	for _, x := range v[len(v)-n:] {
		sum += x
	}
	return sum / float64(n)
}
