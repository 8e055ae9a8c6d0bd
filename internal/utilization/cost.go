package utilization

import (
	"fmt"

	"github.com/ps-pro/AutoAnalytiX/internal/logger"
	"github.com/ps-pro/AutoAnalytiX/internal/models"
)

// CostRates holds the per-hour dollar rates applied to idle time.
type CostRates struct {
	FuelWastePerHour   float64
	OperationalPerHour float64
	// ExcessiveThreshold triggers a violation log when a vehicle's total
	// idle cost exceeds it.
	ExcessiveThreshold float64
}

// PerHour is the combined idle cost rate.
func (r CostRates) PerHour() float64 {
	return r.FuelWastePerHour + r.OperationalPerHour
}

// CalculateIdleCosts prices a vehicle's idle periods. Fuel waste and
// operational cost are accounted separately and always sum to the total.
// With no idle periods every figure is zero.
func CalculateIdleCosts(vehicleID string, periods []models.IdlePeriod, rates CostRates) models.IdleCostSummary {
	if len(periods) == 0 {
		return models.IdleCostSummary{CostPerHour: rates.PerHour()}
	}

	var totalHours, longest float64
	for _, p := range periods {
		totalHours += p.DurationHours
		if p.DurationHours > longest {
			longest = p.DurationHours
		}
	}

	summary := models.IdleCostSummary{
		TotalIdleHours:   totalHours,
		FuelWasteCost:    totalHours * rates.FuelWastePerHour,
		OperationalCost:  totalHours * rates.OperationalPerHour,
		TotalIdleCost:    totalHours * rates.PerHour(),
		IdleEvents:       len(periods),
		LongestIdleHours: longest,
		AverageIdleHours: totalHours / float64(len(periods)),
		CostPerHour:      rates.PerHour(),
		Periods:          periods,
	}

	if rates.ExcessiveThreshold > 0 && summary.TotalIdleCost > rates.ExcessiveThreshold {
		logger.Violation(vehicleID, "EXCESSIVE_IDLE_COST",
			"%.1f idle hours across %d events, total cost $%.2f (fuel $%.2f, operational $%.2f)",
			totalHours, len(periods), summary.TotalIdleCost, summary.FuelWasteCost, summary.OperationalCost)
	}

	return summary
}

// ProjectSavings projects the annual savings of standard idle-reduction
// programs against the vehicle's current idle cost. Scenarios are returned
// in ascending reduction order.
func ProjectSavings(costs models.IdleCostSummary) []models.SavingsScenario {
	programs := []struct {
		percent int
		name    string
	}{
		{25, "Basic Training"},
		{50, "Comprehensive Program"},
		{75, "Advanced Optimization"},
	}

	scenarios := make([]models.SavingsScenario, 0, len(programs))
	for _, p := range programs {
		scenarios = append(scenarios, models.SavingsScenario{
			ReductionPercent: p.percent,
			AnnualSavings:    costs.TotalIdleCost * float64(p.percent) / 100,
			Description:      fmt.Sprintf("%d%% Idle Reduction (%s)", p.percent, p.name),
		})
	}
	return scenarios
}
