package fatigue

import (
	"math"
	"time"

	"github.com/ironpulse/recoverd/internal/recovery/decay"
	"github.com/ironpulse/recoverd/internal/recovery/reference"
)

// Propagate applies the spillover graph on top of the direct fatigue
// map, as a single second pass once all direct fatigue is known. Targets
// that were never trained directly get a state created for them.
//
// A single pass means multi-hop transfer (A->B->C) is not modeled; the
// propagation reads only DirectFatigue, which also makes it idempotent
// for a fixed direct-fatigue input.
func Propagate(
	states map[string]*MuscleState,
	edges []reference.SpilloverEdge,
	tables *reference.Tables,
	halfLives HalfLives,
	now time.Time,
) {
	if halfLives == nil {
		halfLives = ReferenceHalfLives
	}

	spill := make(map[string]float64)
	for _, edge := range edges {
		if source, ok := states[edge.Source]; ok && source.DirectFatigue > 0 {
			spill[edge.Target] += source.DirectFatigue * edge.Percent / 100
		}
		if !edge.Bidirectional {
			continue
		}
		if target, ok := states[edge.Target]; ok && target.DirectFatigue > 0 {
			spill[edge.Source] += target.DirectFatigue * edge.Percent / 100
		}
	}

	for muscle := range spill {
		if _, ok := states[muscle]; !ok {
			states[muscle] = &MuscleState{Muscle: muscle}
		}
	}

	for muscle, state := range states {
		state.SpilloverFatigue = spill[muscle]

		// diminishing returns: a muscle near full fatigue cannot be
		// double-penalized by its neighbors
		total := state.DirectFatigue +
			state.SpilloverFatigue*math.Sqrt(1-state.DirectFatigue/decay.MaxLevel)
		if total > decay.MaxLevel {
			total = decay.MaxLevel
		}

		state.Fatigue = total
		state.Recovery = decay.MaxLevel - total

		halfLife := halfLives.MuscleHalfLife(muscle, tables.MuscleHalfLife(muscle))
		state.FreshBy = freshBy(now, state.Fatigue, halfLife)
	}
}
