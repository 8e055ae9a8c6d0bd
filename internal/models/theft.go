package models

import (
	"errors"
	"time"
)

// ThreatLevel grades a theft event by its efficiency ratio.
type ThreatLevel string

const (
	ThreatCritical ThreatLevel = "CRITICAL"
	ThreatHigh     ThreatLevel = "HIGH"
	ThreatMedium   ThreatLevel = "MEDIUM"
	ThreatLow      ThreatLevel = "LOW"
)

// TheftEvent is produced for every consumption record flagged
// INVESTIGATE_POTENTIAL_THEFT with positive fuel consumption. The efficiency
// ratio (calculated MPG over rated MPG) drives the threat level and
// investigation priority; the estimated value prices the consumed gallons at
// the configured fuel unit price.
type TheftEvent struct {
	ID                    string      `json:"id"`
	VehicleID             string      `json:"vehicle_id"`
	Timestamp             time.Time   `json:"timestamp"`
	FuelDropPercent       float64     `json:"fuel_drop_percent"`
	FuelGallonsConsumed   float64     `json:"fuel_gallons_consumed"`
	DistanceTraveled      float64     `json:"distance_traveled"`
	CalculatedMPG         float64     `json:"calculated_mpg"`
	RatedMPG              float64     `json:"rated_mpg"`
	EfficiencyRatio       float64     `json:"efficiency_ratio"`
	ThreatLevel           ThreatLevel `json:"threat_level"`
	InvestigationPriority int         `json:"investigation_priority"` // 1 (urgent) to 3
	EstimatedTheftValue   float64     `json:"estimated_theft_value"`  // USD
	TimeWindowHours       float64     `json:"time_window_hours"`
}

// Validate checks that all theft event fields are consistent.
func (e *TheftEvent) Validate() error {
	if e.ID == "" {
		return errors.New("theft event ID must not be empty")
	}
	if e.VehicleID == "" {
		return errors.New("vehicle ID must not be empty")
	}
	if e.Timestamp.IsZero() {
		return errors.New("timestamp must be set")
	}
	if e.FuelGallonsConsumed <= 0 {
		return errors.New("fuel gallons consumed must be positive")
	}
	switch e.ThreatLevel {
	case ThreatCritical, ThreatHigh, ThreatMedium, ThreatLow:
	default:
		return errors.New("threat level must be one of CRITICAL, HIGH, MEDIUM, LOW")
	}
	if e.InvestigationPriority < 1 || e.InvestigationPriority > 3 {
		return errors.New("investigation priority must be between 1 and 3")
	}
	if e.EfficiencyRatio < 0 {
		return errors.New("efficiency ratio must not be negative")
	}
	if e.EstimatedTheftValue < 0 {
		return errors.New("estimated theft value must not be negative")
	}
	return nil
}
