// Package recovery is the orchestration layer: it pulls a user's
// training history, runs the fatigue, tissue and energy models, folds
// in lifestyle context and calibration, and produces one assessment.
package recovery

import (
	"time"

	"github.com/google/uuid"

	"github.com/ironpulse/recoverd/internal/recovery/energy"
	"github.com/ironpulse/recoverd/internal/recovery/fatigue"
	"github.com/ironpulse/recoverd/internal/recovery/lifestyle"
	"github.com/ironpulse/recoverd/internal/recovery/risk"
	"github.com/ironpulse/recoverd/internal/recovery/tissue"
)

// DataQuality grades how much contextual data backed an assessment.
type DataQuality string

const (
	DataQualityLow    DataQuality = "low"
	DataQualityMedium DataQuality = "medium"
	DataQualityHigh   DataQuality = "high"
)

// Confidence returns the confidence scalar for the quality tier.
func (q DataQuality) Confidence() float64 {
	switch q {
	case DataQualityHigh:
		return 0.9
	case DataQualityMedium:
		return 0.7
	default:
		return 0.5
	}
}

// Assessment is the full point-in-time recovery picture for one user.
// It is recomputed from the observation log on demand and cached, never
// mutated in place.
type Assessment struct {
	ID         uuid.UUID `json:"id"`
	UserID     int       `json:"userId"`
	ComputedAt time.Time `json:"computedAt"`

	Muscles   map[string]*fatigue.MuscleState   `json:"muscles"`
	Exercises map[string]*fatigue.ExerciseState `json:"exercises"`
	Tissues   map[string]*tissue.State          `json:"tissues"`
	Energy    map[string]*energy.State          `json:"energy"`

	// OverallRecovery is the mass-weighted average muscle recovery.
	OverallRecovery float64 `json:"overallRecovery"`

	Lifestyle lifestyle.Assessment `json:"lifestyle"`
	Risk      risk.Assessment      `json:"risk"`

	DataQuality DataQuality `json:"dataQuality"`
	Confidence  float64     `json:"confidence"`
	Warnings    []string    `json:"warnings,omitempty"`

	// Fallback marks a neutral assessment produced because history
	// could not be fetched.
	Fallback bool `json:"fallback,omitempty"`

	// Stale marks an assessment served from the last-known-good cache.
	Stale bool `json:"stale,omitempty"`
}
