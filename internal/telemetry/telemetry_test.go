package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ps-pro/AutoAnalytiX/internal/config"
	"github.com/ps-pro/AutoAnalytiX/internal/models"
)

func TestReadStream1(t *testing.T) {
	csvData := `vehicle_id,timestamp,speed,odometer,fuel_level
VEH-001,2024-03-01 08:00:00,35,1000,80
VEH-001,2024-03-01 08:05:00,,1002.5,
VEH-002,2024-03-01 08:00:00,0,,90
VEH-001,not-a-timestamp,35,1000,80
,2024-03-01 08:00:00,35,1000,80
`
	fleet, rows, err := ReadStream1(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ReadStream1 failed: %v", err)
	}
	if rows != 5 {
		t.Errorf("rows = %d, want 5", rows)
	}
	if len(fleet) != 2 {
		t.Fatalf("vehicles = %d, want 2", len(fleet))
	}

	v1 := fleet["VEH-001"]
	if len(v1.Speed) != 1 || len(v1.Odometer) != 2 || len(v1.Fuel) != 1 {
		t.Errorf("VEH-001 series lengths speed/odo/fuel = %d/%d/%d, want 1/2/1",
			len(v1.Speed), len(v1.Odometer), len(v1.Fuel))
	}
	if v1.Odometer[1].Value != 1002.5 {
		t.Errorf("second odometer reading = %v, want 1002.5", v1.Odometer[1].Value)
	}

	v2 := fleet["VEH-002"]
	if len(v2.Speed) != 1 || len(v2.Odometer) != 0 || len(v2.Fuel) != 1 {
		t.Errorf("VEH-002 series lengths speed/odo/fuel = %d/%d/%d, want 1/0/1",
			len(v2.Speed), len(v2.Odometer), len(v2.Fuel))
	}
	if v2.Speed[0].Value != 0 {
		t.Errorf("zero speed reading must be preserved, got %v", v2.Speed[0].Value)
	}
}

func TestReadStream1MissingColumn(t *testing.T) {
	csvData := "timestamp,speed\n2024-03-01 08:00:00,35\n"
	if _, _, err := ReadStream1(strings.NewReader(csvData)); err == nil {
		t.Error("expected error for missing vehicle_id column")
	}
}

func TestReadStream2(t *testing.T) {
	csvData := `vehicle_id,timestamp,name,val
VEH-001,2024-03-01 08:10:00,speed,40
VEH-001,2024-03-01 08:00:00,fuel_level,79.5
VEH-001,2024-03-01 08:00:00,odometer,1001
VEH-001,2024-03-01 08:00:00,engine_temp,210
VEH-001,2024-03-01 08:02:00,speed,not-numeric
`
	fleet, rows, err := ReadStream2(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ReadStream2 failed: %v", err)
	}
	if rows != 5 {
		t.Errorf("rows = %d, want 5", rows)
	}

	v := fleet["VEH-001"]
	if v == nil {
		t.Fatal("VEH-001 missing from fleet")
	}
	if len(v.Speed) != 1 || len(v.Odometer) != 1 || len(v.Fuel) != 1 {
		t.Errorf("series lengths speed/odo/fuel = %d/%d/%d, want 1/1/1",
			len(v.Speed), len(v.Odometer), len(v.Fuel))
	}
	if v.Fuel[0].Value != 79.5 {
		t.Errorf("fuel reading = %v, want 79.5", v.Fuel[0].Value)
	}
}

func TestReadStreamsSorted(t *testing.T) {
	csvData := `vehicle_id,timestamp,speed,odometer,fuel_level
VEH-001,2024-03-01 08:20:00,20,,
VEH-001,2024-03-01 08:00:00,30,,
VEH-001,2024-03-01 08:10:00,40,,
`
	fleet, _, err := ReadStream1(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ReadStream1 failed: %v", err)
	}
	speed := fleet["VEH-001"].Speed
	if !models.SortedByTime(speed) {
		t.Error("speed series not chronologically sorted")
	}
	if speed[0].Value != 30 || speed[2].Value != 20 {
		t.Errorf("unexpected sort order: %v", speed)
	}
}

func TestParseTimestampFormats(t *testing.T) {
	cases := []string{
		"2024-03-01 08:00:00",
		"2024-03-01T08:00:00",
		"2024-03-01T08:00:00Z",
		"03/01/2024 08:00",
	}
	for _, raw := range cases {
		ts, err := parseTimestamp(raw)
		if err != nil {
			t.Errorf("parseTimestamp(%q) failed: %v", raw, err)
			continue
		}
		if ts.Year() != 2024 || ts.Month() != time.March || ts.Hour() != 8 {
			t.Errorf("parseTimestamp(%q) = %v, wrong moment", raw, ts)
		}
	}

	if _, err := parseTimestamp(""); err == nil {
		t.Error("expected error for empty timestamp")
	}
	if _, err := parseTimestamp("yesterday"); err == nil {
		t.Error("expected error for unparsable timestamp")
	}
}

func TestMergeFleetsDeduplication(t *testing.T) {
	ts := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	a := Fleet{
		"VEH-001": &models.MeterSeries{
			Speed: []models.SensorReading{
				{Timestamp: ts, Value: 30},
				{Timestamp: ts.Add(time.Minute), Value: 40},
			},
		},
		"VEH-ONLY-A": &models.MeterSeries{
			Fuel: []models.SensorReading{{Timestamp: ts, Value: 80}},
		},
	}
	b := Fleet{
		"VEH-001": &models.MeterSeries{
			Speed: []models.SensorReading{
				{Timestamp: ts, Value: 30},                   // exact duplicate
				{Timestamp: ts, Value: 31},                   // same instant, different value: kept
				{Timestamp: ts.Add(2 * time.Minute), Value: 50},
			},
		},
		"VEH-ONLY-B": &models.MeterSeries{
			Odometer: []models.SensorReading{{Timestamp: ts, Value: 1000}},
		},
	}

	merged := MergeFleets(a, b)

	if len(merged) != 3 {
		t.Fatalf("merged fleet has %d vehicles, want 3", len(merged))
	}
	speed := merged["VEH-001"].Speed
	if len(speed) != 4 {
		t.Fatalf("merged speed readings = %d, want 4 (one duplicate removed)", len(speed))
	}
	if !models.SortedByTime(speed) {
		t.Error("merged series not sorted")
	}
	if len(merged["VEH-ONLY-A"].Fuel) != 1 || len(merged["VEH-ONLY-B"].Odometer) != 1 {
		t.Error("single-stream vehicles must be carried over")
	}
}

func TestReadVehicleMaster(t *testing.T) {
	csvData := `vehicle_id,tank_capacity,rated_mpg
VEH-001,20,10
VEH-002,100,6.5
VEH-BAD,,10
`
	specs, err := ReadVehicleMaster(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ReadVehicleMaster failed: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("specs = %d, want 2 (row without tank capacity dropped)", len(specs))
	}
	if specs["VEH-002"].RatedMPG != 6.5 {
		t.Errorf("VEH-002 rated MPG = %v, want 6.5", specs["VEH-002"].RatedMPG)
	}
}

func TestLoadFleet(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("telemetry_1.csv", "vehicle_id,timestamp,speed,odometer,fuel_level\nVEH-001,2024-03-01 08:00:00,35,1000,80\n")
	write("telemetry_2.csv", "vehicle_id,timestamp,name,val\nVEH-001,2024-03-01 08:10:00,fuel_level,78\n")
	write("vehicle_data.csv", "vehicle_id,tank_capacity,rated_mpg\nVEH-001,20,10\n")

	cfg := config.DataConfig{Dir: dir, Telemetry1: "telemetry_1.csv", Telemetry2: "telemetry_2.csv", VehicleMaster: "vehicle_data.csv"}
	fleet, specs, summary, err := LoadFleet(cfg)
	if err != nil {
		t.Fatalf("LoadFleet failed: %v", err)
	}
	if len(fleet) != 1 || len(specs) != 1 {
		t.Errorf("fleet/specs = %d/%d, want 1/1", len(fleet), len(specs))
	}
	if len(fleet["VEH-001"].Fuel) != 2 {
		t.Errorf("fuel readings = %d, want 2 (one per stream)", len(fleet["VEH-001"].Fuel))
	}
	if summary.Telemetry1Records != 1 || summary.Telemetry2Records != 1 {
		t.Errorf("summary records = %d/%d, want 1/1", summary.Telemetry1Records, summary.Telemetry2Records)
	}
}

func TestLoadFleetMissingFileFatal(t *testing.T) {
	cfg := config.DataConfig{Dir: t.TempDir(), Telemetry1: "telemetry_1.csv", Telemetry2: "telemetry_2.csv", VehicleMaster: "vehicle_data.csv"}
	if _, _, _, err := LoadFleet(cfg); err == nil {
		t.Error("expected error for missing input files")
	}
}
