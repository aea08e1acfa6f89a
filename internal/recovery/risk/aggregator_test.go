package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironpulse/recoverd/internal/recovery/energy"
	"github.com/ironpulse/recoverd/internal/recovery/fatigue"
	"github.com/ironpulse/recoverd/internal/recovery/reference"
	"github.com/ironpulse/recoverd/internal/recovery/tissue"
	"github.com/ironpulse/recoverd/internal/recovery/training"
)

func obsAt(exercise string, sets, reps int, kilos, effort float64, at time.Time) training.Observation {
	return training.Observation{
		UserID:    1,
		Exercise:  exercise,
		Sets:      sets,
		Reps:      reps,
		Kilos:     kilos,
		Effort:    effort,
		CreatedAt: at,
	}
}

func TestClassify_Boundaries(t *testing.T) {
	assert.Equal(t, LevelLow, Classify(0))
	assert.Equal(t, LevelLow, Classify(20))
	assert.Equal(t, LevelModerate, Classify(21))
	assert.Equal(t, LevelHigh, Classify(41))
	assert.Equal(t, LevelVeryHigh, Classify(61))
	assert.Equal(t, LevelCritical, Classify(81))
	assert.Equal(t, LevelCritical, Classify(100))
}

func TestACWR_NoChronicBaseline(t *testing.T) {
	assert.Equal(t, NeutralACWR, ACWR(nil, time.Now()))
}

func TestACWR_ExactRatio(t *testing.T) {
	now := time.Now()
	// equal effective volume in the acute window and in the older part
	// of the chronic window: (V/7) / (2V/28) == 2.0
	observations := []training.Observation{
		obsAt("back_squat", 5, 5, 100, 8, now.Add(-2*24*time.Hour)),
		obsAt("back_squat", 5, 5, 100, 8, now.Add(-14*24*time.Hour)),
	}
	assert.InDelta(t, 2.0, ACWR(observations, now), 1e-9)
}

func TestACWR_SteadyTrainingIsNeutral(t *testing.T) {
	now := time.Now()
	var observations []training.Observation
	for day := 1; day <= 28; day++ {
		observations = append(observations,
			obsAt("back_squat", 5, 5, 100, 8, now.Add(-time.Duration(day)*24*time.Hour)))
	}
	ratio := ACWR(observations, now)
	assert.InDelta(t, 1.0, ratio, 0.05)
	assert.Zero(t, WorkloadScore(ratio))
}

func TestWorkloadScore_Table(t *testing.T) {
	assert.Equal(t, 90.0, WorkloadScore(2.0))
	assert.Equal(t, 90.0, WorkloadScore(3.4))
	assert.Equal(t, 75.0, WorkloadScore(1.5))
	assert.Equal(t, 55.0, WorkloadScore(1.3))
	assert.Equal(t, 30.0, WorkloadScore(1.1))
	assert.Equal(t, 0.0, WorkloadScore(0.95))
	assert.Equal(t, 0.0, WorkloadScore(0.8))
	assert.Equal(t, 25.0, WorkloadScore(0.5))
}

// ratio of exactly 2.0 scores 90 on the workload factor regardless of
// everything else being quiet.
func TestAssess_WorkloadSpikeAlone(t *testing.T) {
	now := time.Now()
	aggregator := NewAggregator(reference.Default())

	assessment := aggregator.Assess(Inputs{
		Observations: []training.Observation{
			obsAt("standing_calf_raise", 5, 5, 100, 8, now.Add(-2*24*time.Hour)),
			obsAt("standing_calf_raise", 5, 5, 100, 8, now.Add(-14*24*time.Hour)),
		},
		Capacity: 1.0,
	}, now)

	require.Len(t, assessment.Factors, 5)
	workload := assessment.Factors[0]
	assert.Equal(t, "workload_ratio", workload.Name)
	assert.Equal(t, 90.0, workload.Score)
	assert.Contains(t, workload.Recommendations, RecommendRampDown)

	// 90 * 0.2 with the other four factors at zero
	assert.InDelta(t, 18.0, assessment.Score, 1e-9)
	assert.Equal(t, LevelLow, assessment.Level)
}

func TestAssess_AmplifierScalesScore(t *testing.T) {
	now := time.Now()
	aggregator := NewAggregator(reference.Default())
	observations := []training.Observation{
		obsAt("standing_calf_raise", 5, 5, 100, 8, now.Add(-2*24*time.Hour)),
		obsAt("standing_calf_raise", 5, 5, 100, 8, now.Add(-14*24*time.Hour)),
	}

	depleted := aggregator.Assess(Inputs{Observations: observations, Capacity: 0.5}, now)
	fresh := aggregator.Assess(Inputs{Observations: observations, Capacity: 1.2}, now)

	assert.InDelta(t, 18.0*1.8, depleted.Score, 1e-9)
	assert.InDelta(t, 18.0*0.85, fresh.Score, 1e-9)
	assert.Equal(t, LevelModerate, depleted.Level)
	assert.True(t, depleted.ShouldDeload)
	assert.False(t, depleted.ShouldRest)
}

func TestAmplifier_Bands(t *testing.T) {
	assert.Equal(t, 1.8, amplifier(0.5))
	assert.Equal(t, 1.5, amplifier(0.7))
	assert.Equal(t, 1.2, amplifier(0.85))
	assert.Equal(t, 1.0, amplifier(1.0))
	assert.Equal(t, 0.85, amplifier(1.1))
	assert.Equal(t, 1.0, amplifier(0))
}

func TestConnectiveFactor(t *testing.T) {
	aggregator := NewAggregator(reference.Default())

	none := aggregator.connectiveFactor(map[string]*tissue.State{
		"patellar_tendon": {Stress: 20, Level: tissue.RiskLow},
	})
	assert.Zero(t, none.Score)

	structure := reference.Structure{Joint: "knee", InjuryThreshold: 60, HalfLifeHours: 240}
	two := aggregator.connectiveFactor(map[string]*tissue.State{
		"patellar_tendon": {Structure: structure, Stress: 70, Level: tissue.RiskHigh},
		"achilles_tendon": {Structure: structure, Stress: 50, Level: tissue.RiskModerate},
	})
	// average 60, inflated by the two-at-risk multiplier
	assert.InDelta(t, 60*1.15, two.Score, 1e-9)
	assert.Contains(t, two.Recommendations, RecommendUnloadJoint)
}

func TestImbalanceFactor_QuadDominance(t *testing.T) {
	now := time.Now()
	aggregator := NewAggregator(reference.Default())

	var observations []training.Observation
	for day := 1; day <= 8; day++ {
		observations = append(observations,
			obsAt("leg_extension", 4, 10, 80, 8, now.Add(-time.Duration(day)*24*time.Hour)))
	}

	f := aggregator.imbalanceFactor(observations, now)
	assert.Equal(t, 100.0, f.Score)
	assert.Contains(t, f.Recommendations, "imbalance.quads:hamstrings")
}

func TestImbalanceFactor_LightVolumeSkipped(t *testing.T) {
	now := time.Now()
	aggregator := NewAggregator(reference.Default())

	f := aggregator.imbalanceFactor([]training.Observation{
		obsAt("leg_extension", 1, 5, 20, 6, now.Add(-24*time.Hour)),
	}, now)
	assert.Zero(t, f.Score)
	assert.Empty(t, f.Recommendations)
}

func TestEnergyFactor_CappedAt40(t *testing.T) {
	aggregator := NewAggregator(reference.Default())

	fine := aggregator.energyFactor(map[string]*energy.State{
		"quads": {Muscle: "quads", Glycogen: 70},
	})
	assert.Zero(t, fine.Score)

	empty := aggregator.energyFactor(map[string]*energy.State{
		"quads": {Muscle: "quads", Glycogen: 0},
	})
	assert.Equal(t, 40.0, empty.Score)
	assert.Contains(t, empty.Recommendations, RecommendRefuel)
}

func TestSystemicFactor_FloorAndWeighting(t *testing.T) {
	aggregator := NewAggregator(reference.Default())

	mild := aggregator.systemicFactor(map[string]*fatigue.MuscleState{
		"quads": {Muscle: "quads", Fatigue: 55},
	})
	assert.Zero(t, mild.Score)

	fried := aggregator.systemicFactor(map[string]*fatigue.MuscleState{
		"quads": {Muscle: "quads", Fatigue: 80},
	})
	assert.InDelta(t, (80-60)*2.5, fried.Score, 1e-9)

	// high fatigue in a tiny muscle is diluted by big fresh movers
	diluted := aggregator.systemicFactor(map[string]*fatigue.MuscleState{
		"forearms": {Muscle: "forearms", Fatigue: 90},
		"quads":    {Muscle: "quads", Fatigue: 10},
		"glutes":   {Muscle: "glutes", Fatigue: 10},
	})
	assert.Zero(t, diluted.Score)
}

func TestJointScores(t *testing.T) {
	knee := reference.Structure{Joint: "knee", InjuryThreshold: 60}
	shoulder := reference.Structure{Joint: "shoulder", InjuryThreshold: 50}

	scores := jointScores(map[string]*tissue.State{
		"patellar_tendon": {Structure: knee, Stress: 60},
		"quad_tendon":     {Structure: knee, Stress: 30},
		"rotator_cuff":    {Structure: shoulder, Stress: 25},
	})

	// worst structure wins per joint; at threshold lands on 70
	assert.InDelta(t, 70.0, scores["knee"], 1e-9)
	assert.InDelta(t, 35.0, scores["shoulder"], 1e-9)
}

func TestAssess_SafeToResumeProjection(t *testing.T) {
	now := time.Now()
	aggregator := NewAggregator(reference.Default())

	calm := aggregator.Assess(Inputs{Capacity: 1.0}, now)
	assert.Equal(t, now, calm.SafeToResume)

	structure := reference.Structure{Joint: "knee", InjuryThreshold: 60, HalfLifeHours: 240}
	strained := aggregator.Assess(Inputs{
		Tissues: map[string]*tissue.State{
			"patellar_tendon": {Structure: structure, Stress: 84, Level: tissue.RiskHigh},
		},
		Capacity: 1.0,
	}, now)

	// one half-life takes 84 down to 42, exactly the moderate floor
	assert.InDelta(t, 240.0, strained.SafeToResume.Sub(now).Hours(), 1e-6)
}
