// Package models defines the core domain entities for the AutoAnalytiX pipeline.
// These models represent raw sensor readings, synchronized time windows, fuel
// consumption records, theft events, and idle/utilization results. Entities that
// cross module boundaries include built-in validation to keep data integrity
// throughout the pipeline.
//
// Terminology:
//   - Meter: one of the three sensor streams tracked per vehicle
//     (speed in mph, odometer in miles, fuel level in percent).
//   - Window: a fixed-width time bucket into which asynchronous meter
//     readings are averaged.
package models

import (
	"errors"
	"time"
)

// SensorReading is a single timestamped meter value.
type SensorReading struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// MeterSeries holds the per-vehicle sensor streams. Each slice is
// chronologically sorted; any of them may be empty when the vehicle
// never reported that meter.
type MeterSeries struct {
	Speed    []SensorReading `json:"speed,omitempty"`
	Odometer []SensorReading `json:"odometer,omitempty"`
	Fuel     []SensorReading `json:"fuel,omitempty"`
}

// Empty reports whether no meter has any readings.
func (m *MeterSeries) Empty() bool {
	return len(m.Speed) == 0 && len(m.Odometer) == 0 && len(m.Fuel) == 0
}

// VehicleSpec carries the static attributes from the vehicle master data
// needed by the theft analysis.
type VehicleSpec struct {
	ID           string  `json:"id"`
	TankCapacity float64 `json:"tank_capacity"` // gallons
	RatedMPG     float64 `json:"rated_mpg"`
}

// Validate checks that the spec is usable for consumption estimation.
func (v *VehicleSpec) Validate() error {
	if v.ID == "" {
		return errors.New("vehicle ID must not be empty")
	}
	if v.TankCapacity <= 0 {
		return errors.New("tank capacity must be positive")
	}
	if v.RatedMPG < 0 {
		return errors.New("rated MPG must not be negative")
	}
	return nil
}

// SortedByTime reports whether readings are in non-decreasing timestamp order.
func SortedByTime(readings []SensorReading) bool {
	for i := 1; i < len(readings); i++ {
		if readings[i].Timestamp.Before(readings[i-1].Timestamp) {
			return false
		}
	}
	return true
}
