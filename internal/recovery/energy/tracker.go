// Package energy models three per-muscle energy stores at a finer time
// granularity than the fatigue models: the phosphagen store drains and
// refills within a session, glycogen over hours and days, lipids barely
// move at all.
package energy

import (
	"math"
	"sort"
	"time"

	"github.com/ironpulse/recoverd/internal/recovery/reference"
	"github.com/ironpulse/recoverd/internal/recovery/training"
)

const (
	// FullLevel means a fully loaded store.
	FullLevel = 100

	// PhosphagenHalfLifeMinutes drives the ordinary exponential
	// recovery of the immediate energy store.
	PhosphagenHalfLifeMinutes = 3

	// DefaultRestSeconds is assumed between sets when the observation
	// carries no rest information.
	DefaultRestSeconds = 90

	// secondsPerRep estimates set duration from rep count.
	secondsPerRep = 3
)

// State holds the three store levels for one muscle, 100 = fully loaded.
type State struct {
	Muscle      string    `json:"muscle"`
	Phosphagen  float64   `json:"phosphagen"`
	Glycogen    float64   `json:"glycogen"`
	Lipid       float64   `json:"lipid"`
	LastTrained time.Time `json:"lastTrained"`

	lastUpdate time.Time
}

// GlycogenDeficit is how far the medium store is below full.
func (s *State) GlycogenDeficit() float64 {
	return FullLevel - s.Glycogen
}

type Tracker struct {
	tables *reference.Tables
}

func NewTracker(tables *reference.Tables) *Tracker {
	return &Tracker{
		tables: tables,
	}
}

// Build walks the observation list chronologically, depleting stores
// set-by-set (recovering the phosphagen store across rest intervals,
// so the session-end level reflects intra-session recovery) and
// replenishing between sessions and up to now. nutritionQuality in
// [0, 1] scales the glycogen refill rate.
func (t *Tracker) Build(
	observations []training.Observation,
	nutritionQuality float64,
	now time.Time,
) map[string]*State {
	nutritionQuality = clamp01(nutritionQuality)

	ordered := make([]training.Observation, len(observations))
	copy(ordered, observations)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	states := make(map[string]*State)

	for _, obs := range ordered {
		exercise, ok := t.tables.ExerciseByName(obs.Exercise)
		if !ok {
			continue
		}

		for _, inv := range exercise.Involvement {
			state, found := states[inv.Muscle]
			if !found {
				state = &State{
					Muscle:     inv.Muscle,
					Phosphagen: FullLevel,
					Glycogen:   FullLevel,
					Lipid:      FullLevel,
					lastUpdate: obs.CreatedAt,
				}
				states[inv.Muscle] = state
			}

			state.replenish(obs.CreatedAt, nutritionQuality)
			state.applyObservation(obs, inv.Percent/100)
		}
	}

	for _, state := range states {
		state.replenish(now, nutritionQuality)
	}

	return states
}

// applyObservation depletes the stores set-by-set, recovering the
// phosphagen store over the rest interval between consecutive sets.
func (s *State) applyObservation(obs training.Observation, involvement float64) {
	effort := obs.EffortFactor()
	setSeconds := float64(obs.Reps * secondsPerRep)

	for set := 0; set < obs.Sets; set++ {
		if set > 0 {
			s.Phosphagen = recoverPhosphagen(s.Phosphagen, DefaultRestSeconds/60.0)
		}

		s.Phosphagen -= phosphagenDepletionPerSet(obs.Reps, effort) * involvement
		s.Glycogen -= glycogenDepletionPerSet(obs.Reps, effort) * involvement
		s.Lipid -= lipidDepletionPerSet(setSeconds) * involvement

		s.Phosphagen = clampLevel(s.Phosphagen)
		s.Glycogen = clampLevel(s.Glycogen)
		s.Lipid = clampLevel(s.Lipid)
	}

	s.LastTrained = obs.CreatedAt
	s.lastUpdate = obs.CreatedAt
}

// phosphagenDepletionPerSet: low-rep maximal work drains the immediate
// store fastest; long sets lean on glycolysis instead.
func phosphagenDepletionPerSet(reps int, effortFactor float64) float64 {
	var sensitivity float64
	switch {
	case reps <= 5:
		sensitivity = 1.0
	case reps <= 8:
		sensitivity = 0.7
	case reps <= 15:
		sensitivity = 0.4
	default:
		sensitivity = 0.25
	}
	return 35 * effortFactor * sensitivity
}

// glycogenDepletionPerSet: the 8-15 rep range is the most glycolytic.
func glycogenDepletionPerSet(reps int, effortFactor float64) float64 {
	var sensitivity float64
	switch {
	case reps >= 8 && reps <= 15:
		sensitivity = 1.0
	case reps > 15:
		sensitivity = 0.8
	case reps >= 5:
		sensitivity = 0.7
	default:
		sensitivity = 0.3
	}
	return float64(reps) * 0.55 * effortFactor * sensitivity
}

func lipidDepletionPerSet(setSeconds float64) float64 {
	return setSeconds / 60 * 0.4
}

// recoverPhosphagen refills the immediate store exponentially on its
// ~3 minute half-life.
func recoverPhosphagen(level, elapsedMinutes float64) float64 {
	if elapsedMinutes <= 0 {
		return level
	}
	deficit := FullLevel - level
	deficit *= math.Exp(-math.Ln2 / PhosphagenHalfLifeMinutes * elapsedMinutes)
	return clampLevel(FullLevel - deficit)
}

// replenish advances all three stores from the state's last update to
// the given time.
func (s *State) replenish(to time.Time, nutritionQuality float64) {
	if !to.After(s.lastUpdate) {
		return
	}

	elapsedMinutes := to.Sub(s.lastUpdate).Minutes()
	s.Phosphagen = recoverPhosphagen(s.Phosphagen, elapsedMinutes)

	// glycogen phases are measured from the end of the last session
	if !s.LastTrained.IsZero() {
		fromHours := s.lastUpdate.Sub(s.LastTrained).Hours()
		toHours := to.Sub(s.LastTrained).Hours()
		s.Glycogen = clampLevel(s.Glycogen + glycogenRefill(fromHours, toHours, nutritionQuality))
	}

	s.Lipid = clampLevel(s.Lipid + to.Sub(s.lastUpdate).Hours()*0.7)

	s.lastUpdate = to
}

// glycogenRefill integrates the three-phase refill curve between two
// points in time, both measured in hours since the last session:
// slow for the first 2 hours while nutrients are still inbound, fast
// from hour 2 to 24, slow again after that. Each phase rate scales
// with nutrition quality.
func glycogenRefill(fromHours, toHours, nutritionQuality float64) float64 {
	boundaries := []struct {
		start, end, rate float64
	}{
		{start: 0, end: 2, rate: 2},
		{start: 2, end: 24, rate: 4.5},
		{start: 24, end: math.Inf(1), rate: 1.5},
	}

	var refill float64
	for _, b := range boundaries {
		lo := math.Max(fromHours, b.start)
		hi := math.Min(toHours, b.end)
		if hi > lo {
			refill += (hi - lo) * b.rate
		}
	}
	return refill * nutritionQuality
}

func clampLevel(level float64) float64 {
	if level < 0 {
		return 0
	}
	if level > FullLevel {
		return FullLevel
	}
	return level
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
