package models

import (
	"errors"
	"time"
)

// ValidationFlag classifies a consumption record against the physics-based
// MPG thresholds. Exactly one flag is assigned to every record.
type ValidationFlag string

const (
	// FlagNoFuelConsumption marks records where no positive fuel consumption
	// occurred, so MPG is undefined.
	FlagNoFuelConsumption ValidationFlag = "NO_FUEL_CONSUMPTION"
	// FlagFuelSensorError marks physically implausible efficiency; a sensor
	// fault is assumed rather than real consumption.
	FlagFuelSensorError ValidationFlag = "FUEL_SENSOR_ERROR"
	// FlagInvestigateTheft marks efficiency far below any plausible driving
	// profile; fuel left the tank without matching distance.
	FlagInvestigateTheft ValidationFlag = "INVESTIGATE_POTENTIAL_THEFT"
	// FlagNormalOperation marks records inside the plausible MPG band.
	FlagNormalOperation ValidationFlag = "NORMAL_OPERATION"
)

// ConsumptionRecord is derived from two temporally adjacent synchronized
// windows. DistanceDelta may be negative (odometer anomalies are passed
// through, not clamped). FuelDelta is sign-inverted so a fuel drop yields a
// positive value. CalculatedMPG is nil when consumption was not positive.
type ConsumptionRecord struct {
	VehicleID           string         `json:"vehicle_id"`
	Timestamp           time.Time      `json:"timestamp"` // center of the later window
	DistanceDelta       float64        `json:"distance_delta"`
	FuelDelta           float64        `json:"fuel_delta"` // percent of tank
	FuelGallonsConsumed float64        `json:"fuel_gallons_consumed"`
	TimeDeltaHours      float64        `json:"time_delta_hours"`
	CalculatedMPG       *float64       `json:"calculated_mpg,omitempty"`
	Validation          ValidationFlag `json:"validation_flag"`
}

// Validate checks internal consistency of the record.
func (r *ConsumptionRecord) Validate() error {
	if r.VehicleID == "" {
		return errors.New("vehicle ID must not be empty")
	}
	if r.Timestamp.IsZero() {
		return errors.New("timestamp must be set")
	}
	switch r.Validation {
	case FlagNoFuelConsumption:
		if r.CalculatedMPG != nil {
			return errors.New("NO_FUEL_CONSUMPTION record must not carry an MPG value")
		}
	case FlagFuelSensorError, FlagInvestigateTheft, FlagNormalOperation:
		if r.CalculatedMPG == nil {
			return errors.New("classified record must carry an MPG value")
		}
	default:
		return errors.New("record must carry exactly one known validation flag")
	}
	if r.TimeDeltaHours < 0 {
		return errors.New("time delta must not be negative")
	}
	return nil
}
