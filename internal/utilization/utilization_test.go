package utilization

import (
	"math"
	"testing"
	"time"

	"github.com/ps-pro/AutoAnalytiX/internal/models"
)

var t0 = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func speedSeries(pairs ...float64) []models.SensorReading {
	// pairs are (offset minutes, mph)
	out := make([]models.SensorReading, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, models.SensorReading{
			Timestamp: t0.Add(time.Duration(pairs[i] * float64(time.Minute))),
			Value:     pairs[i+1],
		})
	}
	return out
}

func approx(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}

func TestDetectIdlePeriods(t *testing.T) {
	minDur := 5 * time.Minute

	tests := []struct {
		name  string
		speed []models.SensorReading
		want  []models.IdlePeriod
	}{
		{
			"seven minute idle qualifies",
			speedSeries(0, 0, 3, 0, 7, 25),
			[]models.IdlePeriod{{Start: t0, End: t0.Add(7 * time.Minute), DurationMinutes: 7}},
		},
		{
			"four minute idle excluded",
			speedSeries(0, 0, 2, 0, 4, 25),
			nil,
		},
		{
			"exactly five minutes excluded",
			speedSeries(0, 0, 5, 25),
			nil,
		},
		{
			"trailing idle closed at last reading",
			speedSeries(0, 30, 10, 0, 20, 0),
			[]models.IdlePeriod{{Start: t0.Add(10 * time.Minute), End: t0.Add(20 * time.Minute), DurationMinutes: 10}},
		},
		{
			"two separate idles",
			speedSeries(0, 0, 6, 30, 10, 0, 14, 0, 18, 40),
			[]models.IdlePeriod{
				{Start: t0, End: t0.Add(6 * time.Minute), DurationMinutes: 6},
				{Start: t0.Add(10 * time.Minute), End: t0.Add(18 * time.Minute), DurationMinutes: 8},
			},
		},
		{
			"never idle",
			speedSeries(0, 30, 10, 45, 20, 50),
			nil,
		},
		{
			"empty series",
			nil,
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectIdlePeriods(tt.speed, minDur)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d periods, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if !got[i].Start.Equal(tt.want[i].Start) || !got[i].End.Equal(tt.want[i].End) {
					t.Errorf("period %d = [%v, %v], want [%v, %v]",
						i, got[i].Start, got[i].End, tt.want[i].Start, tt.want[i].End)
				}
				if !approx(got[i].DurationMinutes, tt.want[i].DurationMinutes) {
					t.Errorf("period %d duration = %v min, want %v", i, got[i].DurationMinutes, tt.want[i].DurationMinutes)
				}
				if !approx(got[i].DurationHours, got[i].DurationMinutes/60) {
					t.Errorf("period %d hours/minutes inconsistent", i)
				}
				if err := got[i].Validate(); err != nil {
					t.Errorf("period %d failed validation: %v", i, err)
				}
			}
		})
	}
}

func TestIntervalsGenericPredicate(t *testing.T) {
	// The run-length detector is not tied to idling: find sustained
	// high-speed runs over 10 minutes.
	speed := speedSeries(0, 70, 5, 75, 12, 80, 20, 30, 25, 72, 40, 68)
	fast := func(v float64) bool { return v > 60 }

	intervals := Intervals(speed, fast, 10*time.Minute)
	if len(intervals) != 2 {
		t.Fatalf("got %d intervals, want 2", len(intervals))
	}
	first := intervals[0]
	if !first.Start.Equal(t0) || !first.End.Equal(t0.Add(20*time.Minute)) {
		t.Errorf("first interval = [%v, %v], want [t0, t0+20m]", first.Start, first.End)
	}
	// The trailing run (25m..40m, still open at the last reading) closes at
	// the final timestamp.
	second := intervals[1]
	if !second.Start.Equal(t0.Add(25*time.Minute)) || !second.End.Equal(t0.Add(40*time.Minute)) {
		t.Errorf("second interval = [%v, %v], want [t0+25m, t0+40m]", second.Start, second.End)
	}

	if got := Intervals(nil, fast, time.Minute); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
	if got := Intervals(speed, func(float64) bool { return false }, time.Minute); got != nil {
		t.Errorf("expected nil when predicate never holds, got %v", got)
	}
}

func defaultRates() CostRates {
	return CostRates{FuelWastePerHour: 4.00, OperationalPerHour: 30.00, ExcessiveThreshold: 200}
}

func TestCalculateIdleCosts(t *testing.T) {
	periods := []models.IdlePeriod{
		{Start: t0, End: t0.Add(6 * time.Hour), DurationMinutes: 360, DurationHours: 6},
		{Start: t0.Add(8 * time.Hour), End: t0.Add(12 * time.Hour), DurationMinutes: 240, DurationHours: 4},
	}

	costs := CalculateIdleCosts("VEH-001", periods, defaultRates())

	if !approx(costs.TotalIdleHours, 10) {
		t.Errorf("total idle hours = %v, want 10", costs.TotalIdleHours)
	}
	if !approx(costs.FuelWasteCost, 40) {
		t.Errorf("fuel waste = %v, want 40", costs.FuelWasteCost)
	}
	if !approx(costs.OperationalCost, 300) {
		t.Errorf("operational = %v, want 300", costs.OperationalCost)
	}
	if !approx(costs.TotalIdleCost, 340) {
		t.Errorf("total cost = %v, want 340", costs.TotalIdleCost)
	}
	if !approx(costs.FuelWasteCost+costs.OperationalCost, costs.TotalIdleCost) {
		t.Error("component costs must sum to the total")
	}
	if costs.IdleEvents != 2 {
		t.Errorf("idle events = %d, want 2", costs.IdleEvents)
	}
	if !approx(costs.LongestIdleHours, 6) {
		t.Errorf("longest idle = %v, want 6", costs.LongestIdleHours)
	}
	if !approx(costs.AverageIdleHours, 5) {
		t.Errorf("average idle = %v, want 5", costs.AverageIdleHours)
	}
	if !approx(costs.CostPerHour, 34) {
		t.Errorf("cost per hour = %v, want 34", costs.CostPerHour)
	}
}

func TestCalculateIdleCostsEmpty(t *testing.T) {
	costs := CalculateIdleCosts("VEH-001", nil, defaultRates())
	if costs.TotalIdleCost != 0 || costs.TotalIdleHours != 0 || costs.IdleEvents != 0 {
		t.Errorf("expected zero costs for no idle periods, got %+v", costs)
	}
}

func TestProjectSavings(t *testing.T) {
	costs := models.IdleCostSummary{TotalIdleCost: 340}
	scenarios := ProjectSavings(costs)

	if len(scenarios) != 3 {
		t.Fatalf("expected 3 scenarios, got %d", len(scenarios))
	}
	wantSavings := map[int]float64{25: 85, 50: 170, 75: 255}
	for _, s := range scenarios {
		want, ok := wantSavings[s.ReductionPercent]
		if !ok {
			t.Errorf("unexpected reduction percentage %d", s.ReductionPercent)
			continue
		}
		if !approx(s.AnnualSavings, want) {
			t.Errorf("%d%% savings = %v, want %v", s.ReductionPercent, s.AnnualSavings, want)
		}
		if s.Description == "" {
			t.Errorf("%d%% scenario missing description", s.ReductionPercent)
		}
	}
}

func TestCalculateUtilization(t *testing.T) {
	// 24-hour span with 6 idle hours → 75% utilization, GOOD.
	speed := speedSeries(0, 30, 24*60, 40)
	costs := models.IdleCostSummary{TotalIdleHours: 6}
	grades := GradeThresholds{Excellent: 85, Good: 70, Fair: 55}

	m, ok := CalculateUtilization(speed, costs, grades)
	if !ok {
		t.Fatal("expected metrics for non-empty speed data")
	}
	if !approx(m.SpanHours, 24) {
		t.Errorf("span = %v, want 24", m.SpanHours)
	}
	if !approx(m.ActiveHours, 18) {
		t.Errorf("active = %v, want 18", m.ActiveHours)
	}
	if !approx(m.UtilizationPercent, 75) {
		t.Errorf("utilization = %v, want 75", m.UtilizationPercent)
	}
	if !approx(m.IdlePercent, 25) {
		t.Errorf("idle percent = %v, want 25", m.IdlePercent)
	}
	if m.EfficiencyGrade != models.GradeGood {
		t.Errorf("grade = %s, want GOOD", m.EfficiencyGrade)
	}
	if !approx(m.SpanDays, 1) {
		t.Errorf("span days = %v, want 1", m.SpanDays)
	}
}

func TestUtilizationGradeBands(t *testing.T) {
	grades := GradeThresholds{Excellent: 85, Good: 70, Fair: 55}
	tests := []struct {
		idleHours float64
		want      string
	}{
		{1, models.GradeExcellent}, // 95.8%
		{3, models.GradeExcellent}, // 87.5%
		{5, models.GradeGood},      // ~79%
		{9, models.GradeFair},      // 62.5%
		{15, models.GradePoor},     // 37.5%
		{30, models.GradePoor},     // clamped to score 0
	}

	// Threshold boundaries are inclusive.
	for score, want := range map[float64]string{85: models.GradeExcellent, 70: models.GradeGood, 55: models.GradeFair, 54.9: models.GradePoor} {
		if got := grade(score, grades); got != want {
			t.Errorf("grade(%v) = %s, want %s", score, got, want)
		}
	}

	speed := speedSeries(0, 30, 24*60, 40)
	for _, tt := range tests {
		m, ok := CalculateUtilization(speed, models.IdleCostSummary{TotalIdleHours: tt.idleHours}, grades)
		if !ok {
			t.Fatal("expected metrics")
		}
		if m.EfficiencyGrade != tt.want {
			t.Errorf("idle %.1fh: grade = %s, want %s (score %.1f)", tt.idleHours, m.EfficiencyGrade, tt.want, m.EfficiencyScore)
		}
		if m.EfficiencyScore < 0 || m.EfficiencyScore > 100 {
			t.Errorf("score %v outside [0,100]", m.EfficiencyScore)
		}
	}
}

func TestCalculateUtilizationEmpty(t *testing.T) {
	if _, ok := CalculateUtilization(nil, models.IdleCostSummary{}, GradeThresholds{}); ok {
		t.Error("expected no metrics for empty speed data")
	}
}

func TestAnalyzerRun(t *testing.T) {
	fleet := map[string]*models.MeterSeries{
		"VEH-IDLE":     {Speed: speedSeries(0, 0, 7, 30, 600, 40)},
		"VEH-NO-SPEED": {Odometer: speedSeries(0, 1000)},
	}

	a := NewAnalyzer(Options{
		MinIdleDuration: 5 * time.Minute,
		Rates:           defaultRates(),
		Grades:          GradeThresholds{Excellent: 85, Good: 70, Fair: 55},
	})
	results, summary := a.Run(fleet)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].VehicleID != "VEH-IDLE" || results[1].VehicleID != "VEH-NO-SPEED" {
		t.Errorf("results out of lexical order: %s, %s", results[0].VehicleID, results[1].VehicleID)
	}

	idle := results[0]
	if !idle.Analyzed || len(idle.Periods) != 1 {
		t.Fatalf("VEH-IDLE: analyzed=%v periods=%d, want 1 period", idle.Analyzed, len(idle.Periods))
	}
	if len(idle.Savings) != 3 {
		t.Errorf("expected 3 savings scenarios, got %d", len(idle.Savings))
	}
	if idle.Metrics.EfficiencyGrade == "" {
		t.Error("expected a utilization grade")
	}

	skipped := results[1]
	if skipped.Analyzed || skipped.SkipReason == "" {
		t.Errorf("VEH-NO-SPEED: expected skip with reason, got %+v", skipped)
	}

	if summary.VehiclesAnalyzed != 1 || summary.VehiclesSkipped != 1 {
		t.Errorf("summary analyzed/skipped = %d/%d, want 1/1", summary.VehiclesAnalyzed, summary.VehiclesSkipped)
	}
	if summary.TotalIdleEvents != 1 {
		t.Errorf("total idle events = %d, want 1", summary.TotalIdleEvents)
	}
}
