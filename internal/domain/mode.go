package domain

import (
	"fmt"
	"math"
	"sort"
)

// Mode is a vehicle mode counted at a monitoring site.
type Mode string

// Vehicle modes. The set is closed.
const (
	ModeCar        Mode = "Car"
	ModeTwoWheeler Mode = "2-Wheeler"
	ModeBus        Mode = "Bus"
	ModeTruck      Mode = "Truck"
	ModeBicycle    Mode = "Bicycle"
	ModePedestrian Mode = "Pedestrian"
	ModeAuto       Mode = "Auto"
	ModeOthers     Mode = "Others"
)

// Modes lists every vehicle mode in display order.
var Modes = []Mode{
	ModeCar, ModeTwoWheeler, ModeBus, ModeTruck,
	ModeBicycle, ModePedestrian, ModeAuto, ModeOthers,
}

// Valid reports whether m belongs to the closed mode set.
func (m Mode) Valid() bool {
	for _, known := range Modes {
		if m == known {
			return true
		}
	}
	return false
}

// ParseMode resolves a mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", NewInputError("mode", s, "unknown vehicle mode")
	}
	return m, nil
}

// ModeCount holds the vehicles observed or forecast per mode in one 5-minute bucket.
type ModeCount map[Mode]int

// Total sums the counts over all modes.
func (c ModeCount) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Clone returns an independent copy.
func (c ModeCount) Clone() ModeCount {
	out := make(ModeCount, len(c))
	for m, n := range c {
		out[m] = n
	}
	return out
}

// WeightTable maps each mode to its Passenger Car Unit factor.
type WeightTable map[Mode]float64

// DefaultWeights returns the standard PCU factors.
func DefaultWeights() WeightTable {
	return WeightTable{
		ModeCar:        1.0,
		ModeTwoWheeler: 0.5,
		ModeBus:        2.5,
		ModeTruck:      3.0,
		ModeBicycle:    0.4,
		ModePedestrian: 0.2,
		ModeAuto:       1.2,
		ModeOthers:     3.5,
	}
}

// Validate checks that every key is a known mode and every weight is positive.
func (w WeightTable) Validate() error {
	if len(w) == 0 {
		return NewInputError("weights", "", "weight table is empty")
	}
	for m, f := range w {
		if !m.Valid() {
			return NewInputError("weights", string(m), "unknown vehicle mode")
		}
		if f <= 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return NewInputError("weights", fmt.Sprintf("%s=%g", m, f), "weight must be positive and finite")
		}
	}
	return nil
}

// sortedModes returns the table keys in a fixed order so that summation is
// reproducible regardless of map iteration order.
func (w WeightTable) sortedModes() []Mode {
	modes := make([]Mode, 0, len(w))
	for m := range w {
		modes = append(modes, m)
	}
	sort.Slice(modes, func(i, j int) bool { return modes[i] < modes[j] })
	return modes
}
