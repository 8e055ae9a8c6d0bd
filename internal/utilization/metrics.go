package utilization

import "github.com/ps-pro/AutoAnalytiX/internal/models"

// GradeThresholds maps an efficiency score onto a letter grade. Scores at or
// above Excellent grade EXCELLENT, then Good, then Fair; everything below
// Fair grades POOR.
type GradeThresholds struct {
	Excellent float64
	Good      float64
	Fair      float64
}

// CalculateUtilization derives active-versus-idle metrics over the span of a
// vehicle's speed data. The span runs from the first to the last reading;
// active time is the span minus total idle time. The efficiency score is the
// utilization percentage clamped to [0, 100], so negative active time (idle
// exceeding the span through overlapping periods) can never produce a score
// outside the scale. With no speed data, ok is false.
func CalculateUtilization(speed []models.SensorReading, costs models.IdleCostSummary, grades GradeThresholds) (models.UtilizationMetrics, bool) {
	if len(speed) == 0 {
		return models.UtilizationMetrics{}, false
	}

	spanHours := speed[len(speed)-1].Timestamp.Sub(speed[0].Timestamp).Hours()
	activeHours := spanHours - costs.TotalIdleHours

	m := models.UtilizationMetrics{
		SpanHours:   spanHours,
		ActiveHours: activeHours,
		IdleHours:   costs.TotalIdleHours,
		SpanDays:    spanHours / 24,
	}
	if spanHours > 0 {
		m.UtilizationPercent = activeHours / spanHours * 100
		m.IdlePercent = costs.TotalIdleHours / spanHours * 100
	}

	m.EfficiencyScore = clamp(m.UtilizationPercent, 0, 100)
	m.EfficiencyGrade = grade(m.EfficiencyScore, grades)

	return m, true
}

func grade(score float64, g GradeThresholds) string {
	switch {
	case score >= g.Excellent:
		return models.GradeExcellent
	case score >= g.Good:
		return models.GradeGood
	case score >= g.Fair:
		return models.GradeFair
	default:
		return models.GradePoor
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
