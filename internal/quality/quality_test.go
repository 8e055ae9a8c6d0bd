package quality

import (
	"testing"
	"time"

	"github.com/ps-pro/AutoAnalytiX/internal/config"
	"github.com/ps-pro/AutoAnalytiX/internal/models"
)

var t0 = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

func series(values ...float64) []models.SensorReading {
	out := make([]models.SensorReading, len(values))
	for i, v := range values {
		out[i] = models.SensorReading{Timestamp: t0.Add(time.Duration(i) * time.Minute), Value: v}
	}
	return out
}

func TestCleanFuel(t *testing.T) {
	fuel := series(80, -5, 101, 100, 0, 50)
	cleaned, summary := CleanFuel("VEH-001", fuel)

	if len(cleaned) != 4 {
		t.Fatalf("cleaned = %d readings, want 4", len(cleaned))
	}
	for _, r := range cleaned {
		if r.Value < 0 || r.Value > 100 {
			t.Errorf("out-of-range value %v survived cleaning", r.Value)
		}
	}
	if summary.InitialRecords != 6 || summary.Removed != 2 || summary.FinalRecords != 4 {
		t.Errorf("summary = %+v, want 6 initial, 2 removed, 4 final", summary)
	}
	if summary.RetentionRate < 66 || summary.RetentionRate > 67 {
		t.Errorf("retention rate = %v, want ~66.7", summary.RetentionRate)
	}
}

func TestInspectFuel(t *testing.T) {
	fuel := series(80, -5, 101, 100, 55, 50)
	f := InspectFuel("VEH-001", fuel)

	if f.NegativeReadings != 1 || f.Over100Readings != 1 {
		t.Errorf("negative/over-100 = %d/%d, want 1/1", f.NegativeReadings, f.Over100Readings)
	}
	if f.RangeViolations != 2 {
		t.Errorf("range violations = %d, want 2", f.RangeViolations)
	}
	// 80→-5 and 100→55 both fall more than 20 points between readings.
	if f.LargeDrops != 2 {
		t.Errorf("large drops = %d, want 2", f.LargeDrops)
	}

	// A drop of exactly 20 points is not flagged.
	if f := InspectFuel("VEH-001", series(80, 60)); f.LargeDrops != 0 {
		t.Errorf("20-point drop flagged %d large drops, want 0", f.LargeDrops)
	}
	if f := InspectFuel("VEH-001", nil); f != (FuelFindings{}) {
		t.Errorf("empty series findings = %+v, want zero", f)
	}
}

func TestCleanSpeedKeepsZeros(t *testing.T) {
	speed := series(30, -1, 0, 45)
	cleaned, summary := CleanSpeed("VEH-001", speed)

	if len(cleaned) != 3 {
		t.Fatalf("cleaned = %d readings, want 3", len(cleaned))
	}
	// Zero speeds feed idle detection and must survive.
	if cleaned[1].Value != 0 {
		t.Error("zero speed reading removed")
	}
	if summary.Removed != 1 {
		t.Errorf("removed = %d, want 1", summary.Removed)
	}
}

func TestInspectSpeed(t *testing.T) {
	cfg := config.SpeedConfig{MaxReasonable: 200, SevereAcceleration: 50, MaxAccelerationGap: time.Hour}

	// 0 → 120 mph in one minute is a severe acceleration; 250 mph is excessive.
	speed := series(0, 120, 250)
	f := InspectSpeed("VEH-001", speed, cfg)

	if f.ExcessiveSpeeds != 1 {
		t.Errorf("excessive speeds = %d, want 1", f.ExcessiveSpeeds)
	}
	if f.SevereAccelerations != 2 {
		// 0→120 and 120→250 both exceed 50 mph/min.
		t.Errorf("severe accelerations = %d, want 2", f.SevereAccelerations)
	}

	// Readings an hour apart produce no meaningful acceleration rate.
	sparse := []models.SensorReading{
		{Timestamp: t0, Value: 0},
		{Timestamp: t0.Add(2 * time.Hour), Value: 120},
	}
	if f := InspectSpeed("VEH-001", sparse, cfg); f.SevereAccelerations != 0 {
		t.Errorf("gapped readings flagged %d accelerations, want 0", f.SevereAccelerations)
	}
}

func defaultOdometerConfig() config.OdometerConfig {
	return config.OdometerConfig{
		LowReadingThreshold:  1000,
		ContextPoints:        10,
		MinContextPoints:     5,
		LargeDecreaseMiles:   50,
		MovingAverageWindows: []int{5, 10, 20},
	}
}

func TestInspectOdometerCountsAnomalies(t *testing.T) {
	odo := series(1000, 1010, 950, 1020, 0, 1030)
	f := InspectOdometer("VEH-001", odo, defaultOdometerConfig())

	if f.ZeroReadings != 1 {
		t.Errorf("zero readings = %d, want 1", f.ZeroReadings)
	}
	// 1010→950, 1020→0, and 0→1030 is an increase; decreases are 2.
	if f.Decreases != 2 {
		t.Errorf("decreases = %d, want 2", f.Decreases)
	}
	if f.LargeDecreases != 2 {
		// Both drops exceed 50 miles.
		t.Errorf("large decreases = %d, want 2", f.LargeDecreases)
	}
	if len(f.Resets) != 1 {
		t.Fatalf("reset findings = %d, want 1", len(f.Resets))
	}
}

func TestOdometerResetClassification(t *testing.T) {
	cfg := defaultOdometerConfig()

	// A meter that genuinely started over: readings stay low after the zero.
	lowTail := series(120, 110, 100, 90, 80, 0, 5, 10, 15, 20, 25, 30, 35, 40, 45)
	f := InspectOdometer("VEH-001", lowTail, cfg)
	if len(f.Resets) != 1 {
		t.Fatalf("reset findings = %d, want 1", len(f.Resets))
	}
	if got := f.Resets[0].Classification; got != LegitimateReset {
		t.Errorf("classification = %s, want LEGITIMATE_RESET", got)
	}

	// A transient zero inside high readings is sensor noise.
	spike := series(50000, 50010, 50020, 50030, 50040, 0, 50060, 50070, 50080, 50090, 50100, 50110, 50120, 50130, 50140)
	f = InspectOdometer("VEH-001", spike, cfg)
	if len(f.Resets) != 1 {
		t.Fatalf("reset findings = %d, want 1", len(f.Resets))
	}
	if got := f.Resets[0].Classification; got != FaultySensorReading {
		t.Errorf("classification = %s, want FAULTY_SENSOR_READING", got)
	}

	// Too few points to build moving-average context.
	sparse := series(100, 0, 120)
	f = InspectOdometer("VEH-001", sparse, cfg)
	if len(f.Resets) != 1 {
		t.Fatalf("reset findings = %d, want 1", len(f.Resets))
	}
	if got := f.Resets[0].Classification; got != InsufficientContext {
		t.Errorf("classification = %s, want INSUFFICIENT_CONTEXT", got)
	}
}

func TestCleanOdometer(t *testing.T) {
	odo := series(50000, 50010, 50020, 50030, 50040, 0, 50060, 50070, 50080, 50090, 50100, 50110, 50120, 50130, 50140)
	findings := InspectOdometer("VEH-001", odo, defaultOdometerConfig())

	cleaned, summary := CleanOdometer("VEH-001", odo, findings)
	if summary.Removed != 1 {
		t.Fatalf("removed = %d, want 1 (the zero reading)", summary.Removed)
	}
	for _, r := range cleaned {
		if r.Value == 0 {
			t.Error("zero odometer reading survived cleaning")
		}
	}
}

func TestCleanFleet(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config load failed: %v", err)
	}

	fleet := map[string]*models.MeterSeries{
		"VEH-001": {
			Fuel:     series(80, 120, 70),
			Speed:    series(30, -5, 0),
			Odometer: series(1000, 1010, 1020),
		},
	}
	reports := CleanFleet(fleet, cfg)

	report, ok := reports["VEH-001"]
	if !ok {
		t.Fatal("missing report for VEH-001")
	}
	if report.Fuel.Removed != 1 || report.Speed.Removed != 1 {
		t.Errorf("fuel/speed removed = %d/%d, want 1/1", report.Fuel.Removed, report.Speed.Removed)
	}
	// 120 is out of range; 120→70 is a large drop.
	if report.FuelFindings.RangeViolations != 1 || report.FuelFindings.LargeDrops != 1 {
		t.Errorf("fuel findings = %+v, want 1 range violation and 1 large drop", report.FuelFindings)
	}
	if len(fleet["VEH-001"].Fuel) != 2 || len(fleet["VEH-001"].Speed) != 2 {
		t.Error("fleet series not cleaned in place")
	}

	overall := report.Overall()
	if overall.InitialRecords != 9 || overall.FinalRecords != 7 || overall.Removed != 2 {
		t.Errorf("overall summary = %+v, want 9 initial, 7 final", overall)
	}
}
