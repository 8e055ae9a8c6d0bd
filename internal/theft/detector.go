package theft

import (
	"github.com/google/uuid"

	"github.com/ps-pro/AutoAnalytiX/internal/models"
)

// RatioBands maps the efficiency ratio (calculated MPG over rated MPG) to a
// threat level. Ratios below Critical grade CRITICAL, below High grade HIGH,
// below Medium grade MEDIUM, everything else LOW.
type RatioBands struct {
	Critical float64
	High     float64
	Medium   float64
}

// DetectTheftEvents turns every record flagged for theft investigation into
// a graded theft event. The estimated theft value prices the consumed gallons
// at the given fuel unit price. A rated MPG of zero or less makes the
// efficiency ratio zero, which grades CRITICAL.
func DetectTheftEvents(records []models.ConsumptionRecord, spec models.VehicleSpec, bands RatioBands, fuelPricePerGallon float64) []models.TheftEvent {
	var events []models.TheftEvent
	for i := range records {
		rec := &records[i]
		if rec.Validation != models.FlagInvestigateTheft || rec.FuelGallonsConsumed <= 0 {
			continue
		}

		ratio := 0.0
		if spec.RatedMPG > 0 && rec.CalculatedMPG != nil {
			ratio = *rec.CalculatedMPG / spec.RatedMPG
		}
		level, priority := gradeThreat(ratio, bands)

		mpg := 0.0
		if rec.CalculatedMPG != nil {
			mpg = *rec.CalculatedMPG
		}

		events = append(events, models.TheftEvent{
			ID:                    uuid.New().String(),
			VehicleID:             rec.VehicleID,
			Timestamp:             rec.Timestamp,
			FuelDropPercent:       rec.FuelDelta,
			FuelGallonsConsumed:   rec.FuelGallonsConsumed,
			DistanceTraveled:      rec.DistanceDelta,
			CalculatedMPG:         mpg,
			RatedMPG:              spec.RatedMPG,
			EfficiencyRatio:       ratio,
			ThreatLevel:           level,
			InvestigationPriority: priority,
			EstimatedTheftValue:   rec.FuelGallonsConsumed * fuelPricePerGallon,
			TimeWindowHours:       rec.TimeDeltaHours,
		})
	}
	return events
}

// gradeThreat maps an efficiency ratio onto a threat level and an
// investigation priority (1 = most urgent).
func gradeThreat(ratio float64, bands RatioBands) (models.ThreatLevel, int) {
	switch {
	case ratio < bands.Critical:
		return models.ThreatCritical, 1
	case ratio < bands.High:
		return models.ThreatHigh, 1
	case ratio < bands.Medium:
		return models.ThreatMedium, 2
	default:
		return models.ThreatLow, 3
	}
}
