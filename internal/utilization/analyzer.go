package utilization

import (
	"sort"
	"time"

	"github.com/ps-pro/AutoAnalytiX/internal/logger"
	"github.com/ps-pro/AutoAnalytiX/internal/models"
)

// Options bundles the tunables of the utilization analysis.
type Options struct {
	MinIdleDuration time.Duration
	Rates           CostRates
	Grades          GradeThresholds
}

// VehicleResult holds the utilization analysis output for one vehicle.
// Analyzed is false when the vehicle had no speed data at all.
type VehicleResult struct {
	VehicleID  string
	Analyzed   bool
	SkipReason string
	Periods    []models.IdlePeriod
	Costs      models.IdleCostSummary
	Savings    []models.SavingsScenario
	Metrics    models.UtilizationMetrics
}

// Summary aggregates the fleet-level outcome of a utilization run.
type Summary struct {
	VehiclesAnalyzed int
	VehiclesSkipped  int
	TotalIdleEvents  int
	TotalIdleHours   float64
	TotalIdleCost    float64
	// MaxAnnualSavings is the fleet-wide savings at the most aggressive
	// reduction scenario.
	MaxAnnualSavings float64
}

// Analyzer runs the utilization pipeline across a fleet.
type Analyzer struct {
	opts Options
}

// NewAnalyzer creates a utilization analyzer with the given options.
func NewAnalyzer(opts Options) *Analyzer {
	return &Analyzer{opts: opts}
}

// Run analyzes every vehicle in lexical vehicle-ID order. Vehicles without
// speed data are skipped with a warning and never abort the rest of the
// fleet.
func (a *Analyzer) Run(fleet map[string]*models.MeterSeries) ([]VehicleResult, Summary) {
	ids := make([]string, 0, len(fleet))
	for id := range fleet {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	logger.Info("Starting utilization analysis for %d vehicles", len(ids))

	results := make([]VehicleResult, 0, len(ids))
	var summary Summary
	for _, id := range ids {
		res := a.AnalyzeVehicle(id, fleet[id])
		results = append(results, res)

		if !res.Analyzed {
			summary.VehiclesSkipped++
			continue
		}
		summary.VehiclesAnalyzed++
		summary.TotalIdleEvents += res.Costs.IdleEvents
		summary.TotalIdleHours += res.Costs.TotalIdleHours
		summary.TotalIdleCost += res.Costs.TotalIdleCost
		for _, s := range res.Savings {
			if s.AnnualSavings > 0 && s.ReductionPercent == 75 {
				summary.MaxAnnualSavings += s.AnnualSavings
			}
		}
	}

	logger.Info("Utilization analysis complete: %d analyzed, %d skipped, %.1f idle hours costing $%.2f",
		summary.VehiclesAnalyzed, summary.VehiclesSkipped, summary.TotalIdleHours, summary.TotalIdleCost)

	return results, summary
}

// AnalyzeVehicle runs idle detection, cost accounting, savings projection,
// and utilization metrics for a single vehicle.
func (a *Analyzer) AnalyzeVehicle(id string, series *models.MeterSeries) VehicleResult {
	res := VehicleResult{VehicleID: id}

	if series == nil || len(series.Speed) == 0 {
		res.SkipReason = "no speed data"
		logger.Warn("Skipping %s: %s", id, res.SkipReason)
		return res
	}

	res.Periods = DetectIdlePeriods(series.Speed, a.opts.MinIdleDuration)
	res.Costs = CalculateIdleCosts(id, res.Periods, a.opts.Rates)
	res.Savings = ProjectSavings(res.Costs)
	res.Metrics, _ = CalculateUtilization(series.Speed, res.Costs, a.opts.Grades)
	res.Analyzed = true

	logger.Debug("%s: %d idle periods, %.1f idle hours, grade %s",
		id, len(res.Periods), res.Costs.TotalIdleHours, res.Metrics.EfficiencyGrade)
	return res
}
