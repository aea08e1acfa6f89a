// Package decay implements the exponential decay primitives every
// recovery model in this service is built on.
package decay

import (
	"math"
	"time"
)

// MaxLevel caps any superposed fatigue or stress value.
const MaxLevel = 100

// Event is one time-stamped stimulus with its initial magnitude.
type Event struct {
	Initial float64
	At      time.Time
}

// Decay returns the remaining value of an exponentially decaying quantity
// after elapsedHours, given its half-life. A negative elapsed time returns
// the initial value unchanged: a future event contributes nothing extra,
// and callers must not be forced to guard against clock skew. A
// non-positive half-life means instant recovery.
func Decay(initial, halfLifeHours, elapsedHours float64) float64 {
	if elapsedHours < 0 {
		return initial
	}
	if halfLifeHours <= 0 {
		return 0
	}

	remaining := initial * math.Exp(-math.Ln2/halfLifeHours*elapsedHours)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Superpose decays each event independently from its own timestamp to now
// and sums the results, capped at MaxLevel. Summing partially recovered
// stimuli, instead of keeping only the most recent one, is what makes
// back-to-back sessions compound.
func Superpose(events []Event, halfLifeHours float64, now time.Time) float64 {
	var total float64
	for _, e := range events {
		total += Decay(e.Initial, halfLifeHours, now.Sub(e.At).Hours())
	}
	if total > MaxLevel {
		return MaxLevel
	}
	return total
}

// HoursToDecayBelow returns how many hours it takes for the given value to
// decay below floor. Returns 0 when the value is already at or below it.
func HoursToDecayBelow(value, halfLifeHours, floor float64) float64 {
	if value <= floor || floor <= 0 || halfLifeHours <= 0 {
		return 0
	}
	return halfLifeHours * math.Log2(value/floor)
}
