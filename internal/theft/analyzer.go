package theft

import (
	"sort"
	"time"

	"github.com/ps-pro/AutoAnalytiX/internal/logger"
	"github.com/ps-pro/AutoAnalytiX/internal/models"
)

// Options bundles all tunables of the theft analysis.
type Options struct {
	Window             time.Duration
	Thresholds         Thresholds
	Bands              RatioBands
	FuelPricePerGallon float64
}

// VehicleResult holds the full analysis output for one vehicle. Analyzed is
// false when the vehicle was skipped; SkipReason then explains why. A vehicle
// that was analyzed but produced no events has Analyzed true and empty
// Events.
type VehicleResult struct {
	VehicleID  string
	Analyzed   bool
	SkipReason string
	Windows    []models.SynchronizedWindow
	Records    []models.ConsumptionRecord
	Events     []models.TheftEvent
}

// Summary aggregates the fleet-level outcome of a theft analysis run.
type Summary struct {
	VehiclesAnalyzed   int
	VehiclesSkipped    int
	VehiclesWithEvents int
	TotalEvents        int
	HighPriorityEvents int // priority 1
	TotalEstimatedLoss float64
}

// Analyzer runs the theft detection pipeline across a fleet.
type Analyzer struct {
	opts Options
}

// NewAnalyzer creates a theft analyzer with the given options.
func NewAnalyzer(opts Options) *Analyzer {
	return &Analyzer{opts: opts}
}

// Run analyzes every vehicle in the fleet in lexical vehicle-ID order so
// repeated runs over the same input produce identical output. Vehicles with
// missing specs, missing fuel or odometer data, or too little synchronized
// data are skipped with a warning; a skip never aborts the rest of the fleet.
func (a *Analyzer) Run(fleet map[string]*models.MeterSeries, specs map[string]models.VehicleSpec) ([]VehicleResult, Summary) {
	ids := make([]string, 0, len(fleet))
	for id := range fleet {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	logger.Info("Starting theft analysis for %d vehicles", len(ids))

	results := make([]VehicleResult, 0, len(ids))
	var summary Summary
	for _, id := range ids {
		res := a.AnalyzeVehicle(id, fleet[id], specs)
		results = append(results, res)

		if !res.Analyzed {
			summary.VehiclesSkipped++
			continue
		}
		summary.VehiclesAnalyzed++
		if len(res.Events) > 0 {
			summary.VehiclesWithEvents++
			summary.TotalEvents += len(res.Events)
			for i := range res.Events {
				summary.TotalEstimatedLoss += res.Events[i].EstimatedTheftValue
				if res.Events[i].InvestigationPriority == 1 {
					summary.HighPriorityEvents++
				}
			}
			logger.Violation(id, "FUEL_THEFT_DETECTED", "%d events, estimated loss $%.2f",
				len(res.Events), estimatedLoss(res.Events))
		}
	}

	logger.Info("Theft analysis complete: %d analyzed, %d skipped, %d events across %d vehicles",
		summary.VehiclesAnalyzed, summary.VehiclesSkipped, summary.TotalEvents, summary.VehiclesWithEvents)

	return results, summary
}

// AnalyzeVehicle runs synchronization, consumption estimation, and theft
// detection for a single vehicle.
func (a *Analyzer) AnalyzeVehicle(id string, series *models.MeterSeries, specs map[string]models.VehicleSpec) VehicleResult {
	res := VehicleResult{VehicleID: id}

	spec, ok := specs[id]
	if !ok {
		res.SkipReason = "no vehicle master record"
		logger.Warn("Skipping %s: %s", id, res.SkipReason)
		return res
	}
	if err := spec.Validate(); err != nil {
		res.SkipReason = "invalid vehicle master record: " + err.Error()
		logger.Warn("Skipping %s: %s", id, res.SkipReason)
		return res
	}
	if series == nil || len(series.Fuel) == 0 || len(series.Odometer) == 0 {
		res.SkipReason = "missing fuel or odometer data"
		logger.Warn("Skipping %s: %s", id, res.SkipReason)
		return res
	}

	res.Windows = SynchronizeWindows(series.Fuel, series.Odometer, series.Speed, a.opts.Window)
	if len(res.Windows) < 2 {
		res.SkipReason = "insufficient synchronized data"
		logger.Warn("Skipping %s: %s (%d windows)", id, res.SkipReason, len(res.Windows))
		return res
	}

	res.Records = EstimateConsumption(id, res.Windows, spec.TankCapacity, a.opts.Thresholds)
	res.Events = DetectTheftEvents(res.Records, spec, a.opts.Bands, a.opts.FuelPricePerGallon)
	res.Analyzed = true

	logger.Debug("%s: %d windows, %d records, %d theft events", id, len(res.Windows), len(res.Records), len(res.Events))
	return res
}

func estimatedLoss(events []models.TheftEvent) float64 {
	var total float64
	for i := range events {
		total += events[i].EstimatedTheftValue
	}
	return total
}
