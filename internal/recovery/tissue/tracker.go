// Package tissue tracks accumulated stress on connective structures
// (tendons, ligaments, cartilage, bursae), which recover far slower
// than the muscles loading them.
package tissue

import (
	"time"

	"github.com/ironpulse/recoverd/internal/recovery/decay"
	"github.com/ironpulse/recoverd/internal/recovery/reference"
	"github.com/ironpulse/recoverd/internal/recovery/training"

	log "github.com/sirupsen/logrus"
)

type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// State is the point-in-time stress of one connective structure.
type State struct {
	Structure    reference.Structure `json:"structure"`
	Stress       float64             `json:"stress"`
	Level        RiskLevel           `json:"level"`
	Occurrences  int                 `json:"occurrences"`
	LastStressed time.Time           `json:"lastStressed"`
}

// AtRisk reports whether the structure is at moderate risk or above.
func (s *State) AtRisk() bool {
	return s.Level != RiskLow
}

// defaultStructure is used for stress rows pointing at structures
// missing from the tables: a conservative cumulative tendon profile.
var defaultStructure = reference.Structure{
	Kind:            reference.KindTendon,
	HalfLifeHours:   240,
	Cumulative:      true,
	InjuryThreshold: 65,
}

type Tracker struct {
	tables *reference.Tables
}

func NewTracker(tables *reference.Tables) *Tracker {
	return &Tracker{
		tables: tables,
	}
}

// Build computes per-structure stress from the full observation list.
// Cumulative structures sum their decayed occurrences and can exceed any
// single event; non-cumulative structures keep only the highest decayed
// occurrence, modeling acute-injury-prone tissue.
func (t *Tracker) Build(observations []training.Observation, now time.Time) map[string]*State {
	states := make(map[string]*State)

	for _, obs := range observations {
		for _, row := range t.tables.StressFor(obs.Exercise) {
			structure, ok := t.tables.StructureByName(row.Structure)
			if !ok {
				log.Warnf("tissue tracker: structure [%s] not in reference tables, using defaults", row.Structure)
				structure = defaultStructure
				structure.Name = row.Structure
			}

			state, found := states[row.Structure]
			if !found {
				state = &State{Structure: structure}
				states[row.Structure] = state
			}

			occurrence := OccurrenceStress(row, obs)
			decayed := decay.Decay(occurrence, structure.HalfLifeHours, now.Sub(obs.CreatedAt).Hours())

			if structure.Cumulative {
				state.Stress += decayed
			} else if decayed > state.Stress {
				state.Stress = decayed
			}

			state.Occurrences++
			if obs.CreatedAt.After(state.LastStressed) {
				state.LastStressed = obs.CreatedAt
			}
		}
	}

	for _, state := range states {
		if state.Stress > decay.MaxLevel {
			state.Stress = decay.MaxLevel
		}
		state.Level = Classify(state.Stress, state.Structure.InjuryThreshold)
	}

	return states
}

// OccurrenceStress is the stress one observation puts on a structure:
// the table's base stress scaled by set count (normalized to 4 working
// sets), effort, and the eccentric/ballistic multipliers.
func OccurrenceStress(row reference.StructureStress, obs training.Observation) float64 {
	return row.BaseStress *
		(float64(obs.Sets) / 4) *
		obs.EffortFactor() *
		row.EccentricMultiplier *
		row.BallisticMultiplier
}

// Classify maps stress against a structure-specific injury threshold.
func Classify(stress, threshold float64) RiskLevel {
	switch {
	case stress >= threshold*1.3:
		return RiskCritical
	case stress >= threshold:
		return RiskHigh
	case stress >= threshold*0.7:
		return RiskModerate
	default:
		return RiskLow
	}
}
