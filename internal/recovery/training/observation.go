package training

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidObservation = errors.New("invalid training observation")

const (
	MinEffort = 6
	MaxEffort = 10
)

// Observation is one completed set group: the sole raw input to all
// decay models. Immutable once recorded.
type Observation struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Exercise  string    `json:"exercise"`
	Sets      int       `json:"sets"`
	Reps      int       `json:"reps"`
	Kilos     float64   `json:"kilos"`
	Effort    float64   `json:"effort"` // RPE, 6-10 continuous
	CreatedAt time.Time `json:"createdAt"`
}

// Validate rejects malformed numeric inputs at the ingestion boundary,
// so the decay models never have to.
func (o Observation) Validate() error {
	switch {
	case o.Exercise == "":
		return fmt.Errorf("%w: empty exercise", ErrInvalidObservation)
	case o.UserID <= 0:
		return fmt.Errorf("%w: invalid user id %d", ErrInvalidObservation, o.UserID)
	case o.Sets <= 0:
		return fmt.Errorf("%w: sets must be positive, got %d", ErrInvalidObservation, o.Sets)
	case o.Reps <= 0:
		return fmt.Errorf("%w: reps must be positive, got %d", ErrInvalidObservation, o.Reps)
	case o.Kilos < 0:
		return fmt.Errorf("%w: negative load %f", ErrInvalidObservation, o.Kilos)
	case o.Effort < MinEffort || o.Effort > MaxEffort:
		return fmt.Errorf("%w: effort %f outside [%d, %d]", ErrInvalidObservation, o.Effort, MinEffort, MaxEffort)
	case o.CreatedAt.IsZero():
		return fmt.Errorf("%w: zero timestamp", ErrInvalidObservation)
	}
	return nil
}

// Volume is the raw tonnage of the observation: sets * reps * kilos.
func (o Observation) Volume() float64 {
	return float64(o.Sets) * float64(o.Reps) * o.Kilos
}

// EffortFactor maps the 6-10 effort scale to a [0.5, 1] multiplier.
func (o Observation) EffortFactor() float64 {
	effort := o.Effort
	if effort < MinEffort {
		effort = MinEffort
	}
	if effort > MaxEffort {
		effort = MaxEffort
	}
	return 0.5 + (effort-MinEffort)*0.125
}

// EffectiveVolume is the effort-adjusted tonnage.
func (o Observation) EffectiveVolume() float64 {
	return o.Volume() * o.EffortFactor()
}
