// Package quality inspects and cleans the merged meter series before
// analysis. Fuel levels outside the physical percent range are dropped,
// negative speeds are dropped, and odometer zero readings are removed after
// classifying each one as a legitimate meter reset or a faulty sensor
// reading via moving-average context analysis. Every cleaner returns a
// summary of what was removed so the run report can account for it.
package quality

import (
	"github.com/ps-pro/AutoAnalytiX/internal/logger"
	"github.com/ps-pro/AutoAnalytiX/internal/models"
)

// CleaningSummary reports the outcome of cleaning one meter series.
type CleaningSummary struct {
	InitialRecords int     `json:"initial_records"`
	Removed        int     `json:"removed"`
	FinalRecords   int     `json:"final_records"`
	RetentionRate  float64 `json:"data_retention_rate"` // percent
}

func summarize(initial, final int) CleaningSummary {
	s := CleaningSummary{
		InitialRecords: initial,
		Removed:        initial - final,
		FinalRecords:   final,
	}
	if initial > 0 {
		s.RetentionRate = float64(final) / float64(initial) * 100
	}
	return s
}

// largeDropPercent is the fuel-level drop between consecutive readings that
// marks a drop worth investigating.
const largeDropPercent = 20.0

// FuelFindings reports the anomalies observed while inspecting a fuel series.
type FuelFindings struct {
	RangeViolations  int `json:"range_violations"`
	NegativeReadings int `json:"negative_readings"`
	Over100Readings  int `json:"over_100_readings"`
	LargeDrops       int `json:"large_drops"`
}

// InspectFuel scans a sorted fuel series for physically impossible readings
// (outside [0, 100] percent) and for drops of more than 20 percentage points
// between consecutive readings. Range violations are findings the cleaner
// will remove; large drops are surfaced for the theft analysis to weigh.
func InspectFuel(vehicleID string, fuel []models.SensorReading) FuelFindings {
	var f FuelFindings
	for i, r := range fuel {
		if r.Value < 0 {
			f.NegativeReadings++
		}
		if r.Value > 100 {
			f.Over100Readings++
		}
		if i > 0 && r.Value-fuel[i-1].Value < -largeDropPercent {
			f.LargeDrops++
		}
	}
	f.RangeViolations = f.NegativeReadings + f.Over100Readings

	if f.RangeViolations > 0 {
		logger.Violation(vehicleID, "FUEL_RANGE_VIOLATION", "%d range violations (%d negative, %d over 100%%), %d large drops",
			f.RangeViolations, f.NegativeReadings, f.Over100Readings, f.LargeDrops)
	}
	return f
}

// CleanFuel removes fuel level readings outside the physical [0, 100]
// percent range.
func CleanFuel(vehicleID string, fuel []models.SensorReading) ([]models.SensorReading, CleaningSummary) {
	if len(fuel) == 0 {
		return fuel, CleaningSummary{}
	}

	cleaned := make([]models.SensorReading, 0, len(fuel))
	for _, r := range fuel {
		if r.Value < 0 || r.Value > 100 {
			continue
		}
		cleaned = append(cleaned, r)
	}

	summary := summarize(len(fuel), len(cleaned))
	if summary.Removed > 0 {
		logger.Info("%s: removed %d fuel range violations", vehicleID, summary.Removed)
	}
	return cleaned, summary
}
