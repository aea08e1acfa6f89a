// Package risk folds workload ratio, connective-tissue stress, muscle
// imbalance, energy depletion and systemic fatigue into one injury-risk
// assessment, amplified or dampened by the user's recovery capacity.
package risk

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ironpulse/recoverd/internal/recovery/decay"
	"github.com/ironpulse/recoverd/internal/recovery/energy"
	"github.com/ironpulse/recoverd/internal/recovery/fatigue"
	"github.com/ironpulse/recoverd/internal/recovery/reference"
	"github.com/ironpulse/recoverd/internal/recovery/tissue"
	"github.com/ironpulse/recoverd/internal/recovery/training"
)

// Level is the five-tier risk bucket.
type Level string

const (
	LevelLow      Level = "low"
	LevelModerate Level = "moderate"
	LevelHigh     Level = "high"
	LevelVeryHigh Level = "very_high"
	LevelCritical Level = "critical"
)

// Score boundaries for the five levels.
const (
	ModerateFrom = 21
	HighFrom     = 41
	VeryHighFrom = 61
	CriticalFrom = 81
)

// FactorWeight: the five factors contribute equally before contextual
// amplification.
const FactorWeight = 0.20

// Recommendation IDs attached to risk factors.
const (
	RecommendRest        = "training.rest"
	RecommendDeload      = "training.deload"
	RecommendRampDown    = "workload.ramp_down"
	RecommendRampUp      = "workload.ramp_up"
	RecommendUnloadJoint = "tissue.unload_joint"
	RecommendRefuel      = "energy.refuel"
)

// Factor is one scored risk contributor.
type Factor struct {
	Name            string   `json:"name"`
	Score           float64  `json:"score"`
	Weight          float64  `json:"weight"`
	Rationale       string   `json:"rationale"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Assessment is the aggregated injury-risk picture.
type Assessment struct {
	Score        float64            `json:"score"`
	Level        Level              `json:"level"`
	Factors      []Factor           `json:"factors"`
	JointScores  map[string]float64 `json:"jointScores,omitempty"`
	ACWR         float64            `json:"acwr"`
	ShouldRest   bool               `json:"shouldRest"`
	ShouldDeload bool               `json:"shouldDeload"`
	SafeToResume time.Time          `json:"safeToResume"`
}

// Inputs is the join point: every state builder must have finished
// before aggregation runs.
type Inputs struct {
	Observations []training.Observation
	Muscles      map[string]*fatigue.MuscleState
	Tissues      map[string]*tissue.State
	Energy       map[string]*energy.State

	// Capacity is the overall contextual recovery modifier; values
	// below 1 amplify risk, values above dampen it.
	Capacity float64
}

type Aggregator struct {
	tables *reference.Tables
}

func NewAggregator(tables *reference.Tables) *Aggregator {
	return &Aggregator{
		tables: tables,
	}
}

// Assess scores the five factors, sums their weighted contributions,
// applies the contextual amplifier and buckets the result.
func (a *Aggregator) Assess(in Inputs, now time.Time) Assessment {
	ratio := ACWR(in.Observations, now)

	factors := []Factor{
		a.workloadFactor(ratio),
		a.connectiveFactor(in.Tissues),
		a.imbalanceFactor(in.Observations, now),
		a.energyFactor(in.Energy),
		a.systemicFactor(in.Muscles),
	}

	var score float64
	for _, f := range factors {
		score += f.Score * f.Weight
	}
	score = math.Min(100, score*amplifier(in.Capacity))

	level := Classify(score)
	return Assessment{
		Score:        score,
		Level:        level,
		Factors:      factors,
		JointScores:  jointScores(in.Tissues),
		ACWR:         ratio,
		ShouldRest:   level == LevelVeryHigh || level == LevelCritical,
		ShouldDeload: level == LevelModerate || level == LevelHigh,
		SafeToResume: a.safeToResume(in, now),
	}
}

// Classify buckets a 0-100 score into the five levels.
func Classify(score float64) Level {
	switch {
	case score >= CriticalFrom:
		return LevelCritical
	case score >= VeryHighFrom:
		return LevelVeryHigh
	case score >= HighFrom:
		return LevelHigh
	case score >= ModerateFrom:
		return LevelModerate
	default:
		return LevelLow
	}
}

// amplifier converts recovery capacity into a risk multiplier: poor
// capacity inflates every factor, excellent capacity discounts them.
func amplifier(capacity float64) float64 {
	switch {
	case capacity <= 0:
		return 1 // no context available
	case capacity < 0.6:
		return 1.8
	case capacity < 0.75:
		return 1.5
	case capacity < 0.9:
		return 1.2
	case capacity >= 1.1:
		return 0.85
	default:
		return 1
	}
}

func (a *Aggregator) workloadFactor(ratio float64) Factor {
	f := Factor{
		Name:      "workload_ratio",
		Score:     WorkloadScore(ratio),
		Weight:    FactorWeight,
		Rationale: fmt.Sprintf("acute:chronic workload ratio %.2f", ratio),
	}
	switch {
	case ratio >= 1.3:
		f.Recommendations = append(f.Recommendations, RecommendRampDown)
	case ratio < 0.8:
		f.Recommendations = append(f.Recommendations, RecommendRampUp)
	}
	return f
}

// connectiveFactor averages the stress of at-risk structures and
// inflates the average as more structures sit at risk simultaneously.
func (a *Aggregator) connectiveFactor(tissues map[string]*tissue.State) Factor {
	f := Factor{Name: "connective_tissue", Weight: FactorWeight}

	var sum float64
	var atRisk int
	for _, state := range tissues {
		if state.AtRisk() {
			sum += state.Stress
			atRisk++
		}
	}
	if atRisk == 0 {
		f.Rationale = "no connective structures at risk"
		return f
	}

	multiplier := 1 + 0.15*float64(atRisk-1)
	f.Score = math.Min(100, sum/float64(atRisk)*multiplier)
	f.Rationale = fmt.Sprintf("%d connective structures at risk", atRisk)
	f.Recommendations = append(f.Recommendations, RecommendUnloadJoint)
	return f
}

// imbalancePair is a fixed anatomical ratio check over 28-day volumes.
type imbalancePair struct {
	front, back string
	low, high   float64 // acceptable front:back ratio band
}

var imbalancePairs = []imbalancePair{
	{front: "quads", back: "hamstrings", low: 0.8, high: 2.0},
	{front: "chest", back: "upper_back", low: 0.7, high: 1.4},
	{front: "lower_back", back: "abs", low: 0.6, high: 1.6},
	{front: "front_delts", back: "rear_delts", low: 0.7, high: 2.0},
}

// minPairVolume is the combined 28-day effective volume below which a
// pair is too lightly trained to judge.
const minPairVolume = 500

func (a *Aggregator) imbalanceFactor(observations []training.Observation, now time.Time) Factor {
	f := Factor{Name: "muscle_imbalance", Weight: FactorWeight}

	volumes := a.muscleVolumes(observations, now)

	var worst float64
	var flagged []string
	for _, pair := range imbalancePairs {
		front, back := volumes[pair.front], volumes[pair.back]
		if front+back < minPairVolume {
			continue
		}

		var severity float64
		switch {
		case back == 0 || front/back > pair.high:
			ratio := math.Inf(1)
			if back > 0 {
				ratio = front / back
			}
			severity = math.Min(100, (ratio/pair.high-1)*120)
		case front == 0 || front/back < pair.low:
			ratio := math.Inf(1)
			if front > 0 {
				ratio = back / front * pair.low
			}
			severity = math.Min(100, (ratio-1)*120)
		}

		if severity > 0 {
			flagged = append(flagged, fmt.Sprintf("%s:%s", pair.front, pair.back))
			worst = math.Max(worst, severity)
		}
	}

	f.Score = worst
	if len(flagged) == 0 {
		f.Rationale = "trained volume ratios within bounds"
		return f
	}

	sort.Strings(flagged)
	f.Rationale = fmt.Sprintf("imbalanced pairs: %v", flagged)
	for _, pair := range flagged {
		f.Recommendations = append(f.Recommendations, "imbalance."+pair)
	}
	return f
}

// muscleVolumes sums 28-day effective volume per muscle, scaled by
// involvement percentage.
func (a *Aggregator) muscleVolumes(observations []training.Observation, now time.Time) map[string]float64 {
	cutoff := now.AddDate(0, 0, -ChronicWindowDays)

	volumes := make(map[string]float64)
	for _, obs := range observations {
		if obs.CreatedAt.After(now) || obs.CreatedAt.Before(cutoff) {
			continue
		}
		exercise, ok := a.tables.ExerciseByName(obs.Exercise)
		if !ok {
			continue
		}
		for _, inv := range exercise.Involvement {
			volumes[inv.Muscle] += obs.EffectiveVolume() * inv.Percent / 100
		}
	}
	return volumes
}

// energyFactor scores the deepest glycogen deficit; only deficits past
// the halfway point count, and the contribution is capped at 40.
func (a *Aggregator) energyFactor(states map[string]*energy.State) Factor {
	f := Factor{Name: "energy_depletion", Weight: FactorWeight}

	var deepest float64
	var muscle string
	for name, state := range states {
		if deficit := state.GlycogenDeficit(); deficit > deepest {
			deepest = deficit
			muscle = name
		}
	}
	if deepest <= 50 {
		f.Rationale = "glycogen stores adequate"
		return f
	}

	f.Score = math.Min(40, (deepest-50)*0.8)
	f.Rationale = fmt.Sprintf("glycogen deficit %.0f%% in %s", deepest, muscle)
	f.Recommendations = append(f.Recommendations, RecommendRefuel)
	return f
}

// systemicFatigueFloor: mass-weighted fatigue below this is ordinary
// training residue, not a risk signal.
const systemicFatigueFloor = 60

func (a *Aggregator) systemicFactor(muscles map[string]*fatigue.MuscleState) Factor {
	f := Factor{Name: "systemic_fatigue", Weight: FactorWeight}

	weighted := a.weightedFatigue(muscles)
	if weighted <= systemicFatigueFloor {
		f.Rationale = fmt.Sprintf("mass-weighted fatigue %.0f within normal range", weighted)
		return f
	}

	f.Score = math.Min(100, (weighted-systemicFatigueFloor)*2.5)
	f.Rationale = fmt.Sprintf("mass-weighted fatigue %.0f", weighted)
	f.Recommendations = append(f.Recommendations, RecommendRest)
	return f
}

// weightedFatigue averages muscle fatigue weighted by relative muscle
// mass, so fried quads matter more than fried forearms.
func (a *Aggregator) weightedFatigue(muscles map[string]*fatigue.MuscleState) float64 {
	var sum, mass float64
	for name, state := range muscles {
		m, ok := a.tables.MuscleByName(name)
		weight := 0.3
		if ok {
			weight = m.Mass
		}
		sum += state.Fatigue * weight
		mass += weight
	}
	if mass == 0 {
		return 0
	}
	return sum / mass
}

// jointScores maps each joint to its worst structure's stress relative
// to that structure's injury threshold, scaled so a structure exactly
// at threshold lands at 70.
func jointScores(tissues map[string]*tissue.State) map[string]float64 {
	if len(tissues) == 0 {
		return nil
	}

	scores := make(map[string]float64)
	for _, state := range tissues {
		joint := state.Structure.Joint
		if joint == "" || state.Structure.InjuryThreshold <= 0 {
			continue
		}
		score := math.Min(100, state.Stress/state.Structure.InjuryThreshold*70)
		if score > scores[joint] {
			scores[joint] = score
		}
	}
	return scores
}

// safeToResume projects when the dominant risk drivers decay back under
// their floors: at-risk structures below moderate stress, systemic
// fatigue below its floor.
func (a *Aggregator) safeToResume(in Inputs, now time.Time) time.Time {
	var hours float64

	for _, state := range in.Tissues {
		if !state.AtRisk() {
			continue
		}
		floor := state.Structure.InjuryThreshold * 0.7
		h := decay.HoursToDecayBelow(state.Stress, state.Structure.HalfLifeHours, floor)
		hours = math.Max(hours, h)
	}

	if weighted := a.weightedFatigue(in.Muscles); weighted > systemicFatigueFloor {
		h := decay.HoursToDecayBelow(weighted, reference.DefaultMuscleHalfLifeHours, systemicFatigueFloor)
		hours = math.Max(hours, h)
	}

	return now.Add(time.Duration(hours * float64(time.Hour)))
}
