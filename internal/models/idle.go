package models

import (
	"errors"
	"time"
)

// IdlePeriod is a contiguous run of zero-speed readings that lasted longer
// than the configured minimum duration.
type IdlePeriod struct {
	Start           time.Time `json:"start_time"`
	End             time.Time `json:"end_time"`
	DurationMinutes float64   `json:"duration_minutes"`
	DurationHours   float64   `json:"duration_hours"`
}

// Validate checks interval ordering and duration consistency.
func (p *IdlePeriod) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() {
		return errors.New("idle period bounds must be set")
	}
	if !p.End.After(p.Start) {
		return errors.New("idle period end must be after start")
	}
	if p.DurationMinutes <= 0 {
		return errors.New("idle period duration must be positive")
	}
	return nil
}

// IdleCostSummary aggregates the dollar impact of a vehicle's idle periods.
// FuelWasteCost and OperationalCost always sum to TotalIdleCost within
// floating-point tolerance.
type IdleCostSummary struct {
	TotalIdleHours   float64      `json:"total_idle_hours"`
	TotalIdleCost    float64      `json:"total_idle_cost"`
	FuelWasteCost    float64      `json:"fuel_waste_cost"`
	OperationalCost  float64      `json:"operational_cost"`
	IdleEvents       int          `json:"idle_events"`
	LongestIdleHours float64      `json:"longest_idle_hours"`
	AverageIdleHours float64      `json:"average_idle_duration"`
	CostPerHour      float64      `json:"cost_per_hour"`
	Periods          []IdlePeriod `json:"idle_periods,omitempty"`
}

// SavingsScenario projects the savings of an idle-reduction program.
type SavingsScenario struct {
	ReductionPercent int     `json:"reduction_percentage"`
	AnnualSavings    float64 `json:"annual_savings"`
	Description      string  `json:"description"`
}

// Efficiency grades assigned from the utilization percentage.
const (
	GradeExcellent = "EXCELLENT"
	GradeGood      = "GOOD"
	GradeFair      = "FAIR"
	GradePoor      = "POOR"
)

// UtilizationMetrics summarizes active versus idle time over the span of a
// vehicle's speed data.
type UtilizationMetrics struct {
	SpanHours          float64 `json:"total_time_span_hours"`
	ActiveHours        float64 `json:"active_hours"`
	IdleHours          float64 `json:"idle_hours"`
	UtilizationPercent float64 `json:"utilization_percentage"`
	IdlePercent        float64 `json:"idle_percentage"`
	EfficiencyScore    float64 `json:"efficiency_score"` // utilization clamped to [0,100]
	EfficiencyGrade    string  `json:"efficiency_grade"`
	SpanDays           float64 `json:"data_span_days"`
}
