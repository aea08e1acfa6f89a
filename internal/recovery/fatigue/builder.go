package fatigue

import (
	"sort"
	"time"

	"github.com/ironpulse/recoverd/internal/recovery/decay"
	"github.com/ironpulse/recoverd/internal/recovery/reference"
	"github.com/ironpulse/recoverd/internal/recovery/training"

	log "github.com/sirupsen/logrus"
)

// HalfLives resolves the effective recovery half-life for an entity,
// letting the calibration layer personalize the reference defaults.
type HalfLives interface {
	MuscleHalfLife(muscle string, fallback float64) float64
	ExerciseHalfLife(exercise string, fallback float64) float64
}

type referenceHalfLives struct{}

func (referenceHalfLives) MuscleHalfLife(_ string, fallback float64) float64   { return fallback }
func (referenceHalfLives) ExerciseHalfLife(_ string, fallback float64) float64 { return fallback }

// ReferenceHalfLives uses the reference tables unchanged, for users
// without calibration data.
var ReferenceHalfLives HalfLives = referenceHalfLives{}

type Builder struct {
	tables    *reference.Tables
	halfLives HalfLives
}

func NewBuilder(tables *reference.Tables, halfLives HalfLives) *Builder {
	if halfLives == nil {
		halfLives = ReferenceHalfLives
	}
	return &Builder{
		tables:    tables,
		halfLives: halfLives,
	}
}

// Stimulus converts one observation into its initial fatigue magnitude,
// before involvement scaling: each set adds 5 points at effort 6 up to
// 15 points at effort 10, capped at the superposition maximum.
func Stimulus(o training.Observation) float64 {
	perSet := 5 + (o.Effort-training.MinEffort)*2.5
	if perSet < 0 {
		perSet = 0
	}
	total := float64(o.Sets) * perSet
	if total > decay.MaxLevel {
		return decay.MaxLevel
	}
	return total
}

// BuildMuscles aggregates all observations into per-muscle fatigue via
// involvement-scaled superposition. Spillover is NOT applied here; run
// Propagate on the result as a second pass.
func (b *Builder) BuildMuscles(observations []training.Observation, now time.Time) map[string]*MuscleState {
	states := make(map[string]*MuscleState)

	for _, obs := range observations {
		exercise, ok := b.tables.ExerciseByName(obs.Exercise)
		if !ok {
			// no involvement data to distribute; the exercise state
			// builder handles the low-confidence fallback
			log.Tracef("fatigue builder: unknown exercise [%s], no muscle attribution", obs.Exercise)
			continue
		}

		stimulus := Stimulus(obs)
		for _, inv := range exercise.Involvement {
			state, found := states[inv.Muscle]
			if !found {
				state = &MuscleState{Muscle: inv.Muscle}
				states[inv.Muscle] = state
			}

			state.Contributions = append(state.Contributions, Contribution{
				Exercise: obs.Exercise,
				At:       obs.CreatedAt,
				Initial:  stimulus * inv.Percent / 100,
			})
			if obs.CreatedAt.After(state.LastTrained) {
				state.LastTrained = obs.CreatedAt
			}
		}
	}

	for name, state := range states {
		sort.Slice(state.Contributions, func(i, j int) bool {
			return state.Contributions[i].At.Before(state.Contributions[j].At)
		})

		halfLife := b.muscleHalfLife(name)
		events := make([]decay.Event, 0, len(state.Contributions))
		for _, c := range state.Contributions {
			events = append(events, decay.Event{Initial: c.Initial, At: c.At})
		}

		state.DirectFatigue = decay.Superpose(events, halfLife, now)
		state.Fatigue = state.DirectFatigue
		state.Recovery = decay.MaxLevel - state.Fatigue
		state.FreshBy = freshBy(now, state.Fatigue, halfLife)
	}

	return states
}

// BuildExercises computes per-exercise readiness from the observation
// list and the already-built (and propagated) muscle states.
func (b *Builder) BuildExercises(
	observations []training.Observation,
	muscles map[string]*MuscleState,
	now time.Time,
) map[string]*ExerciseState {
	perExercise := make(map[string][]decay.Event)
	lastTrained := make(map[string]time.Time)
	for _, obs := range observations {
		perExercise[obs.Exercise] = append(perExercise[obs.Exercise], decay.Event{
			Initial: Stimulus(obs),
			At:      obs.CreatedAt,
		})
		if obs.CreatedAt.After(lastTrained[obs.Exercise]) {
			lastTrained[obs.Exercise] = obs.CreatedAt
		}
	}

	states := make(map[string]*ExerciseState, len(perExercise))
	for name, events := range perExercise {
		exercise, known := b.tables.ExerciseByName(name)
		if !known {
			states[name] = b.buildUnknownExercise(name, events, muscles, lastTrained[name], now)
			continue
		}

		movementHalfLife := b.halfLives.ExerciseHalfLife(name, exercise.HalfLifeHours)
		neuralHalfLife := movementHalfLife * (1 + exercise.NeuralLoad/10)

		movementRecovery := decay.MaxLevel - decay.Superpose(events, movementHalfLife, now)
		neuralRecovery := decay.MaxLevel - decay.Superpose(events, neuralHalfLife, now)
		muscleRecovery := involvementWeightedRecovery(exercise.Involvement, muscles)

		wMovement, wNeural, wMuscle := blendWeights(exercise.Tier)
		recovery := wMovement*movementRecovery + wNeural*neuralRecovery + wMuscle*muscleRecovery

		state := &ExerciseState{
			Exercise:         name,
			Recovery:         recovery,
			Fatigue:          decay.MaxLevel - recovery,
			MovementRecovery: movementRecovery,
			NeuralRecovery:   neuralRecovery,
			MuscleRecovery:   muscleRecovery,
			LastTrained:      lastTrained[name],
		}
		state.FreshBy = freshBy(now, state.Fatigue, neuralHalfLife)
		states[name] = state
	}

	return states
}

// buildUnknownExercise is the degraded path for exercises missing from
// the reference tables: default half-life, unweighted average over all
// built muscle recoveries, and an explicit low-confidence flag.
func (b *Builder) buildUnknownExercise(
	name string,
	events []decay.Event,
	muscles map[string]*MuscleState,
	trained time.Time,
	now time.Time,
) *ExerciseState {
	log.Warnf("fatigue builder: exercise [%s] not in reference tables, using defaults", name)

	halfLife := b.halfLives.ExerciseHalfLife(name, reference.DefaultExerciseHalfLifeHours)
	movementRecovery := decay.MaxLevel - decay.Superpose(events, halfLife, now)

	recovery := movementRecovery
	muscleRecovery := float64(decay.MaxLevel)
	if len(muscles) > 0 {
		var sum float64
		for _, name := range sortedMuscleNames(muscles) {
			sum += muscles[name].Recovery
		}
		muscleRecovery = sum / float64(len(muscles))
		recovery = (movementRecovery + muscleRecovery) / 2
	}

	state := &ExerciseState{
		Exercise:         name,
		Recovery:         recovery,
		Fatigue:          decay.MaxLevel - recovery,
		MovementRecovery: movementRecovery,
		NeuralRecovery:   movementRecovery,
		MuscleRecovery:   muscleRecovery,
		LastTrained:      trained,
		LowConfidence:    true,
	}
	state.FreshBy = freshBy(now, state.Fatigue, halfLife)
	return state
}

// blendWeights returns (movement, neural, muscle) weights per exercise
// tier: axial lifts are gated by CNS recovery, isolation movements by
// local muscle recovery.
func blendWeights(tier reference.Tier) (float64, float64, float64) {
	switch tier {
	case reference.TierAxial:
		return 0.2, 0.5, 0.3
	case reference.TierIsolation:
		return 0.3, 0.1, 0.6
	default:
		return 0.3, 0.3, 0.4
	}
}

func involvementWeightedRecovery(
	involvement []reference.MuscleInvolvement,
	muscles map[string]*MuscleState,
) float64 {
	var weighted, weightSum float64
	for _, inv := range involvement {
		weight := inv.Percent
		if inv.Primary {
			weight *= 2
		}

		recovery := float64(decay.MaxLevel) // untrained muscle is fully recovered
		if state, ok := muscles[inv.Muscle]; ok {
			recovery = state.Recovery
		}

		weighted += weight * recovery
		weightSum += weight
	}

	if weightSum == 0 {
		return decay.MaxLevel
	}
	return weighted / weightSum
}

func (b *Builder) muscleHalfLife(muscle string) float64 {
	return b.halfLives.MuscleHalfLife(muscle, b.tables.MuscleHalfLife(muscle))
}

// freshBy projects when fatigue decays below the freshness floor. All
// contributions of an entity share one half-life, so the superposed sum
// decays uniformly and the projection is exact.
func freshBy(now time.Time, fatigue, halfLifeHours float64) time.Time {
	hours := decay.HoursToDecayBelow(fatigue, halfLifeHours, FreshnessFloor)
	if hours == 0 {
		return now
	}
	return now.Add(time.Duration(hours * float64(time.Hour)))
}

func sortedMuscleNames(muscles map[string]*MuscleState) []string {
	names := make([]string, 0, len(muscles))
	for name := range muscles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
