package quality

import (
	"sort"

	"github.com/ps-pro/AutoAnalytiX/internal/config"
	"github.com/ps-pro/AutoAnalytiX/internal/logger"
	"github.com/ps-pro/AutoAnalytiX/internal/models"
)

// VehicleReport collects the inspection findings and cleaning summaries for
// one vehicle.
type VehicleReport struct {
	VehicleID        string           `json:"vehicle_id"`
	Fuel             CleaningSummary  `json:"fuel"`
	Speed            CleaningSummary  `json:"speed"`
	Odometer         CleaningSummary  `json:"odometer"`
	FuelFindings     FuelFindings     `json:"fuel_findings"`
	SpeedFindings    SpeedFindings    `json:"speed_findings"`
	OdometerFindings OdometerFindings `json:"odometer_findings"`
}

// Overall aggregates the per-meter cleaning summaries into one before/after
// figure for the vehicle.
func (r *VehicleReport) Overall() CleaningSummary {
	initial := r.Fuel.InitialRecords + r.Speed.InitialRecords + r.Odometer.InitialRecords
	final := r.Fuel.FinalRecords + r.Speed.FinalRecords + r.Odometer.FinalRecords
	return summarize(initial, final)
}

// CleanFleet inspects and cleans every vehicle's series in place, in lexical
// vehicle-ID order. Inspection runs before cleaning because the odometer
// cleaner consumes the reset classifications.
func CleanFleet(fleet map[string]*models.MeterSeries, cfg *config.Config) map[string]VehicleReport {
	ids := make([]string, 0, len(fleet))
	for id := range fleet {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	logger.Info("Starting data quality pass for %d vehicles", len(ids))

	reports := make(map[string]VehicleReport, len(ids))
	for _, id := range ids {
		s := fleet[id]
		report := VehicleReport{VehicleID: id}

		report.FuelFindings = InspectFuel(id, s.Fuel)
		report.SpeedFindings = InspectSpeed(id, s.Speed, cfg.Speed)
		report.OdometerFindings = InspectOdometer(id, s.Odometer, cfg.Odometer)

		s.Fuel, report.Fuel = CleanFuel(id, s.Fuel)
		s.Speed, report.Speed = CleanSpeed(id, s.Speed)
		s.Odometer, report.Odometer = CleanOdometer(id, s.Odometer, report.OdometerFindings)

		reports[id] = report
	}

	logger.Info("Data quality pass complete")
	return reports
}
