package theft

import "github.com/ps-pro/AutoAnalytiX/internal/models"

// Thresholds holds the physics-based MPG validation bounds. Records above
// SensorError are blamed on the fuel sensor, records below Theft are flagged
// for investigation.
type Thresholds struct {
	SensorError float64
	Theft       float64
}

// EstimateConsumption derives one consumption record per consecutive window
// pair. For n windows it returns exactly n-1 records; fewer than two windows
// yield none.
//
// The distance delta is passed through as-is, including negative values from
// odometer anomalies. The fuel delta is sign-inverted so a dropping fuel
// level reads as positive consumption, and converted to gallons via the tank
// capacity. MPG is only defined for positive consumption; each record is
// classified against the thresholds in the same pass.
func EstimateConsumption(vehicleID string, windows []models.SynchronizedWindow, tankCapacity float64, t Thresholds) []models.ConsumptionRecord {
	if len(windows) < 2 {
		return nil
	}

	records := make([]models.ConsumptionRecord, 0, len(windows)-1)
	for i := 1; i < len(windows); i++ {
		prev, cur := windows[i-1], windows[i]

		rec := models.ConsumptionRecord{
			VehicleID:      vehicleID,
			Timestamp:      cur.Center,
			DistanceDelta:  *cur.Odometer - *prev.Odometer,
			FuelDelta:      *prev.FuelLevel - *cur.FuelLevel,
			TimeDeltaHours: cur.Center.Sub(prev.Center).Hours(),
		}
		rec.FuelGallonsConsumed = rec.FuelDelta / 100.0 * tankCapacity

		if rec.FuelGallonsConsumed > 0 {
			mpg := rec.DistanceDelta / rec.FuelGallonsConsumed
			rec.CalculatedMPG = &mpg
		}
		rec.Validation = classify(&rec, t)

		records = append(records, rec)
	}
	return records
}

// classify assigns the validation flag for a record. The order matters:
// undefined MPG first, then the sensor-fault ceiling, then the theft floor.
func classify(rec *models.ConsumptionRecord, t Thresholds) models.ValidationFlag {
	switch {
	case rec.CalculatedMPG == nil:
		return models.FlagNoFuelConsumption
	case *rec.CalculatedMPG > t.SensorError:
		return models.FlagFuelSensorError
	case *rec.CalculatedMPG < t.Theft:
		return models.FlagInvestigateTheft
	default:
		return models.FlagNormalOperation
	}
}
