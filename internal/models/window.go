package models

import (
	"errors"
	"time"
)

// ReadingCounts records how many raw readings of each meter were averaged
// into a synchronized window.
type ReadingCounts struct {
	Fuel     int `json:"fuel"`
	Odometer int `json:"odometer"`
	Speed    int `json:"speed"`
}

// SynchronizedWindow is a fixed-width time bucket holding the mean of all
// readings per meter whose timestamps fall inside the bucket. Center is the
// representative timestamp (window start + half the width). Meters with no
// readings in the bucket are nil; a window is only emitted when both
// FuelLevel and Odometer are present, Speed is optional.
type SynchronizedWindow struct {
	Center    time.Time     `json:"timestamp"`
	FuelLevel *float64      `json:"fuel_level,omitempty"`
	Odometer  *float64      `json:"odometer,omitempty"`
	Speed     *float64      `json:"speed,omitempty"`
	Counts    ReadingCounts `json:"reading_counts"`
}

// Validate checks the window retention invariant.
func (w *SynchronizedWindow) Validate() error {
	if w.Center.IsZero() {
		return errors.New("window center must be set")
	}
	if w.FuelLevel == nil {
		return errors.New("window must carry a fuel level")
	}
	if w.Odometer == nil {
		return errors.New("window must carry an odometer reading")
	}
	if w.Counts.Fuel < 1 || w.Counts.Odometer < 1 {
		return errors.New("reading counts must reflect at least one fuel and one odometer reading")
	}
	return nil
}
