package telemetry

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/ps-pro/AutoAnalytiX/internal/logger"
	"github.com/ps-pro/AutoAnalytiX/internal/models"
)

// Fleet maps vehicle IDs to their meter series.
type Fleet map[string]*models.MeterSeries

// series returns the meter series for a vehicle, creating it on first use.
func (f Fleet) series(vehicleID string) *models.MeterSeries {
	s, ok := f[vehicleID]
	if !ok {
		s = &models.MeterSeries{}
		f[vehicleID] = s
	}
	return s
}

// sortAll orders every series chronologically.
func (f Fleet) sortAll() {
	for _, s := range f {
		sortReadings(s.Speed)
		sortReadings(s.Odometer)
		sortReadings(s.Fuel)
	}
}

func sortReadings(r []models.SensorReading) {
	sort.SliceStable(r, func(i, j int) bool {
		return r[i].Timestamp.Before(r[j].Timestamp)
	})
}

// headerIndex maps lower-cased column names to their positions.
func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx
}

func field(record []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// ReadStream1 parses the wide-format telemetry stream. Each row carries a
// vehicle ID, a timestamp, and up to three meter columns (speed, odometer,
// fuel_level); blank cells mean the meter did not report at that instant.
// Rows with an unparsable timestamp or vehicle ID are logged and skipped,
// never aborting the load. Returns the fleet and the number of rows read.
func ReadStream1(r io.Reader) (Fleet, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read stream 1 header: %w", err)
	}
	idx := headerIndex(header)
	for _, required := range []string{"vehicle_id", "timestamp"} {
		if _, ok := idx[required]; !ok {
			return nil, 0, fmt.Errorf("stream 1 missing required column %q", required)
		}
	}

	fleet := make(Fleet)
	rows, skipped := 0, 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, rows, fmt.Errorf("failed to read stream 1 row: %w", err)
		}
		rows++

		vehicleID := field(record, idx, "vehicle_id")
		if vehicleID == "" {
			skipped++
			continue
		}
		ts, err := parseTimestamp(field(record, idx, "timestamp"))
		if err != nil {
			logger.Debug("Stream 1 row %d skipped: %v", rows, err)
			skipped++
			continue
		}

		s := fleet.series(vehicleID)
		if v, ok := parseMeterValue(field(record, idx, "speed")); ok {
			s.Speed = append(s.Speed, models.SensorReading{Timestamp: ts, Value: v})
		}
		if v, ok := parseMeterValue(field(record, idx, "odometer")); ok {
			s.Odometer = append(s.Odometer, models.SensorReading{Timestamp: ts, Value: v})
		}
		if v, ok := parseMeterValue(field(record, idx, "fuel_level")); ok {
			s.Fuel = append(s.Fuel, models.SensorReading{Timestamp: ts, Value: v})
		}
	}

	fleet.sortAll()
	if skipped > 0 {
		logger.Warn("Stream 1: skipped %d of %d rows", skipped, rows)
	}
	return fleet, rows, nil
}

// parseMeterValue converts a raw cell to a float. Blank and non-numeric
// cells report not-ok rather than an error; the meter simply has no reading.
func parseMeterValue(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
