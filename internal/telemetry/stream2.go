package telemetry

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ps-pro/AutoAnalytiX/internal/logger"
	"github.com/ps-pro/AutoAnalytiX/internal/models"
)

// ReadStream2 parses the long-format telemetry stream. Each row names one
// parameter for one vehicle at one instant: vehicle_id, timestamp, name, val.
// Only the speed, odometer, and fuel_level parameters are extracted; other
// parameter names and non-numeric values are ignored. Returns the fleet and
// the number of rows read.
func ReadStream2(r io.Reader) (Fleet, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read stream 2 header: %w", err)
	}
	idx := headerIndex(header)
	for _, required := range []string{"vehicle_id", "timestamp", "name", "val"} {
		if _, ok := idx[required]; !ok {
			return nil, 0, fmt.Errorf("stream 2 missing required column %q", required)
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
			return nil, rows, fmt.Errorf("failed to read stream 2 row: %w", err)
		}
		rows++

		vehicleID := field(record, idx, "vehicle_id")
		if vehicleID == "" {
			skipped++
			continue
		}
		ts, err := parseTimestamp(field(record, idx, "timestamp"))
		if err != nil {
			logger.Debug("Stream 2 row %d skipped: %v", rows, err)
			skipped++
			continue
		}
		v, ok := parseMeterValue(field(record, idx, "val"))
		if !ok {
			skipped++
			continue
		}

		s := fleet.series(vehicleID)
		reading := models.SensorReading{Timestamp: ts, Value: v}
		switch field(record, idx, "name") {
		case "speed":
			s.Speed = append(s.Speed, reading)
		case "odometer":
			s.Odometer = append(s.Odometer, reading)
		case "fuel_level":
			s.Fuel = append(s.Fuel, reading)
		default:
			// Unrecognized parameters are not an error.
		}
	}

	fleet.sortAll()
	if skipped > 0 {
		logger.Warn("Stream 2: skipped %d of %d rows", skipped, rows)
	}
	return fleet, rows, nil
}
