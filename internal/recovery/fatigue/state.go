package fatigue

import "time"

// FreshnessFloor is the fatigue level below which an entity counts as
// fully recovered.
const FreshnessFloor = 5

// Contribution is one involvement-scaled stimulus added to a muscle.
type Contribution struct {
	Exercise string    `json:"exercise"`
	At       time.Time `json:"at"`
	Initial  float64   `json:"initial"`
}

// MuscleState is the point-in-time fatigue of one muscle.
// Recovery + Fatigue == 100 at all times.
type MuscleState struct {
	Muscle           string         `json:"muscle"`
	DirectFatigue    float64        `json:"directFatigue"`
	SpilloverFatigue float64        `json:"spilloverFatigue"`
	Fatigue          float64        `json:"fatigue"`
	Recovery         float64        `json:"recovery"`
	Contributions    []Contribution `json:"contributions,omitempty"`
	LastTrained      time.Time      `json:"lastTrained"`
	FreshBy          time.Time      `json:"freshBy"`
}

// ExerciseState blends movement-pattern, neural and muscle recovery into
// one readiness value for an exercise. Recovery + Fatigue == 100.
type ExerciseState struct {
	Exercise         string    `json:"exercise"`
	Fatigue          float64   `json:"fatigue"`
	Recovery         float64   `json:"recovery"`
	MovementRecovery float64   `json:"movementRecovery"`
	NeuralRecovery   float64   `json:"neuralRecovery"`
	MuscleRecovery   float64   `json:"muscleRecovery"`
	LastTrained      time.Time `json:"lastTrained"`
	FreshBy          time.Time `json:"freshBy"`
	// LowConfidence marks exercises absent from the reference tables,
	// assessed with default half-lives and unweighted muscle averaging.
	LowConfidence bool `json:"lowConfidence,omitempty"`
}
