package quality

import (
	"github.com/ps-pro/AutoAnalytiX/internal/config"
	"github.com/ps-pro/AutoAnalytiX/internal/logger"
	"github.com/ps-pro/AutoAnalytiX/internal/models"
)

// SpeedFindings reports the anomalies observed while inspecting a speed
// series. Excessive speeds and severe accelerations are findings, not
// removals; only physically impossible negative speeds are cleaned out.
type SpeedFindings struct {
	ExcessiveSpeeds     int `json:"excessive_speeds"`
	SevereAccelerations int `json:"severe_accelerations"`
}

// InspectSpeed scans a sorted speed series for readings above the maximum
// reasonable speed and for acceleration between consecutive readings beyond
// the severe threshold. Acceleration is only evaluated when the gap between
// readings is short enough to make the rate meaningful.
func InspectSpeed(vehicleID string, speed []models.SensorReading, cfg config.SpeedConfig) SpeedFindings {
	var f SpeedFindings
	for i, r := range speed {
		if r.Value > cfg.MaxReasonable {
			f.ExcessiveSpeeds++
		}
		if i == 0 {
			continue
		}
		gap := r.Timestamp.Sub(speed[i-1].Timestamp)
		if gap <= 0 || gap > cfg.MaxAccelerationGap {
			continue
		}
		rate := (r.Value - speed[i-1].Value) / gap.Minutes()
		if rate > cfg.SevereAcceleration || rate < -cfg.SevereAcceleration {
			f.SevereAccelerations++
		}
	}

	if f.ExcessiveSpeeds > 0 || f.SevereAccelerations > 0 {
		logger.Violation(vehicleID, "SPEED_ANOMALY", "%d excessive speeds, %d severe accelerations",
			f.ExcessiveSpeeds, f.SevereAccelerations)
	}
	return f
}

// CleanSpeed removes physically impossible negative speed readings. Speed
// cleaning is deliberately minimal: zero speeds carry meaning for idle
// detection and high speeds are surfaced as findings instead of dropped.
func CleanSpeed(vehicleID string, speed []models.SensorReading) ([]models.SensorReading, CleaningSummary) {
	if len(speed) == 0 {
		return speed, CleaningSummary{}
	}

	cleaned := make([]models.SensorReading, 0, len(speed))
	for _, r := range speed {
		if r.Value < 0 {
			continue
		}
		cleaned = append(cleaned, r)
	}

	summary := summarize(len(speed), len(cleaned))
	if summary.Removed > 0 {
		logger.Info("%s: removed %d invalid speed readings", vehicleID, summary.Removed)
	}
	return cleaned, summary
}
