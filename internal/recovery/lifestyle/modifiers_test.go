package lifestyle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sleepWeek(hours, quality float64, now time.Time) []SleepRecord {
	var records []SleepRecord
	for day := 0; day < 7; day++ {
		records = append(records, SleepRecord{
			Date:    now.Add(-time.Duration(day) * 24 * time.Hour),
			Hours:   hours,
			Quality: quality,
		})
	}
	return records
}

func TestAssess_EmptyContextIsNeutral(t *testing.T) {
	assessment := Assess(Context{}, time.Now())

	assert.InDelta(t, 1.0, assessment.Overall, 1e-9)
	assert.Empty(t, assessment.LimitingFactors)
	require.Len(t, assessment.Factors, 5)
	for _, f := range assessment.Factors {
		assert.Equal(t, 1.0, f.Value, f.Name)
	}
}

func TestAssess_WellRecoveredLifter(t *testing.T) {
	now := time.Now()
	c := Context{
		Sleep: sleepWeek(9, 0.95, now),
		Nutrition: []NutritionRecord{
			{Date: now, CalorieRatio: 1.05, ProteinGrams: 170, BodyKilos: 82},
		},
		Stress: []StressRecord{{Date: now, Level: 2}},
		Demographics: &Demographics{
			Age:              28,
			TrainingAgeYears: 6,
		},
	}

	assessment := Assess(c, now)

	assert.Greater(t, assessment.Overall, 1.0)
	assert.Empty(t, assessment.LimitingFactors)
}

func TestAssess_SleepDeprivedAndStressed(t *testing.T) {
	now := time.Now()
	c := Context{
		Sleep:  sleepWeek(4.5, 0.4, now),
		Stress: []StressRecord{{Date: now, Level: 9}, {Date: now.Add(-24 * time.Hour), Level: 8}},
	}

	assessment := Assess(c, now)

	assert.Less(t, assessment.Overall, 0.7)
	require.Len(t, assessment.LimitingFactors, 2)
	// worst first
	assert.Equal(t, "sleep", assessment.LimitingFactors[0].Name)
	assert.Equal(t, RecommendSleepMore, assessment.LimitingFactors[0].Recommendation)
	assert.Equal(t, "stress", assessment.LimitingFactors[1].Name)
	assert.Equal(t, RecommendReduceStress, assessment.LimitingFactors[1].Recommendation)
}

func TestAssess_ClampedToFloor(t *testing.T) {
	now := time.Now()
	c := Context{
		Sleep: sleepWeek(3, 0, now),
		Nutrition: []NutritionRecord{
			{Date: now, CalorieRatio: 0.4, ProteinGrams: 30, BodyKilos: 90},
		},
		Stress:       []StressRecord{{Date: now, Level: 10}},
		Demographics: &Demographics{Age: 62, TrainingAgeYears: 0},
		Cycle:        []CycleRecord{{Date: now, Phase: "menstrual"}},
	}

	assessment := Assess(c, now)

	assert.Equal(t, MinModifier, assessment.Overall)
	assert.NotEmpty(t, assessment.LimitingFactors)
}

func TestAssess_StaleRecordsIgnored(t *testing.T) {
	now := time.Now()
	c := Context{
		Sleep:  sleepWeek(3, 0, now.AddDate(0, 0, -30)),
		Stress: []StressRecord{{Date: now.AddDate(0, 0, -15), Level: 10}},
	}

	assessment := Assess(c, now)

	assert.InDelta(t, 1.0, assessment.Overall, 1e-9)
	assert.Empty(t, assessment.LimitingFactors)
}

func TestSleepFactor_Bounds(t *testing.T) {
	now := time.Now()

	low := sleepFactor(sleepWeek(2, 0, now))
	assert.Equal(t, 0.5, low.Value)

	high := sleepFactor(sleepWeek(10, 1, now))
	assert.Equal(t, 1.2, high.Value)
}

func TestSleepFactor_QualityRecommendation(t *testing.T) {
	// plenty of hours, terrible quality
	f := sleepFactor(sleepWeek(7.5, 0.05, time.Now()))
	require.Less(t, f.Value, LimitingThreshold)
	assert.Equal(t, RecommendSleepQuality, f.Recommendation)
}

func TestSleepFactor_InterruptionsCostSleep(t *testing.T) {
	now := time.Now()

	solid := sleepWeek(7, 0.8, now)
	broken := sleepWeek(7, 0.8, now)
	for i := range broken {
		broken[i].Interruptions = 4
	}

	assert.Less(t, sleepFactor(broken).Value, sleepFactor(solid).Value)

	// a full night with no wake-ups still tops out
	assert.Equal(t, 1.2, sleepFactor(sleepWeek(9, 1, now)).Value)
}

func TestNutritionFactor_DeficitRecommendation(t *testing.T) {
	f := nutritionFactor([]NutritionRecord{
		{Date: time.Now(), CalorieRatio: 0.6, ProteinGrams: 150, BodyKilos: 80},
	})
	require.Less(t, f.Value, LimitingThreshold)
	assert.Equal(t, RecommendEatMore, f.Recommendation)
}

func TestNutritionFactor_HydrationAndTiming(t *testing.T) {
	now := time.Now()
	base := nutritionFactor([]NutritionRecord{
		{Date: now, CalorieRatio: 1, ProteinGrams: 160, BodyKilos: 80},
	})
	parched := nutritionFactor([]NutritionRecord{
		{
			Date:                 now,
			CalorieRatio:         1,
			ProteinGrams:         160,
			BodyKilos:            80,
			HydrationLiters:      1,
			TrainingMealGapHours: 8,
		},
	})

	assert.Less(t, parched.Value, base.Value)

	dehydrated := nutritionFactor([]NutritionRecord{
		{
			Date:                 now,
			CalorieRatio:         0.92,
			ProteinGrams:         160,
			BodyKilos:            80,
			HydrationLiters:      1,
			TrainingMealGapHours: 8,
		},
	})
	require.Less(t, dehydrated.Value, LimitingThreshold)
	assert.Equal(t, RecommendHydrate, dehydrated.Recommendation)
}

func TestNutritionFactor_CarbsBlendIntoFuel(t *testing.T) {
	now := time.Now()
	fueled := nutritionFactor([]NutritionRecord{
		{Date: now, CalorieRatio: 1, ProteinGrams: 160, BodyKilos: 80, CarbRatio: 1},
	})
	lowCarb := nutritionFactor([]NutritionRecord{
		{Date: now, CalorieRatio: 1, ProteinGrams: 160, BodyKilos: 80, CarbRatio: 0.3},
	})

	assert.Less(t, lowCarb.Value, fueled.Value)
}

func TestStressFactor_Range(t *testing.T) {
	calm := stressFactor([]StressRecord{{Date: time.Now(), Level: 0}})
	assert.Equal(t, 1.05, calm.Value)

	frazzled := stressFactor([]StressRecord{{Date: time.Now(), Level: 10}})
	assert.InDelta(t, 0.6, frazzled.Value, 1e-9)
	assert.Equal(t, RecommendReduceStress, frazzled.Recommendation)
}

func TestStressFactor_HeartSignals(t *testing.T) {
	now := time.Now()
	reported := stressFactor([]StressRecord{{Date: now, Level: 3}})
	measured := stressFactor([]StressRecord{
		{Date: now, Level: 3, RestingHeartRate: 75, HRV: 25},
	})

	assert.Less(t, measured.Value, reported.Value)
	require.Less(t, measured.Value, LimitingThreshold)
	assert.Equal(t, RecommendReduceStress, measured.Recommendation)
}

func TestDemographicsFactor(t *testing.T) {
	experienced := demographicsFactor(&Demographics{Age: 30, TrainingAgeYears: 8})
	novice := demographicsFactor(&Demographics{Age: 30, TrainingAgeYears: 0.5})
	assert.Greater(t, experienced.Value, novice.Value)

	older := demographicsFactor(&Demographics{Age: 55, TrainingAgeYears: 8})
	assert.Less(t, older.Value, experienced.Value)
	assert.GreaterOrEqual(t, older.Value, 0.7)
}

func TestDemographicsFactor_HealthPenalties(t *testing.T) {
	healthy := demographicsFactor(&Demographics{Age: 30, TrainingAgeYears: 5})
	hurting := demographicsFactor(&Demographics{
		Age:               30,
		TrainingAgeYears:  5,
		ActiveInjuries:    []string{"patellar tendinopathy"},
		ChronicConditions: []string{"hypothyroidism"},
	})

	assert.InDelta(t, healthy.Value*0.9, hurting.Value, 1e-9)

	// penalties stack but the factor never drops below its floor
	wrecked := demographicsFactor(&Demographics{
		Age:               60,
		TrainingAgeYears:  0,
		ActiveInjuries:    []string{"a", "b", "c"},
		ChronicConditions: []string{"d", "e", "f"},
	})
	assert.Equal(t, 0.7, wrecked.Value)
}

func TestCycleFactor_Phases(t *testing.T) {
	now := time.Now()

	follicular := cycleFactor(&CycleRecord{Date: now, Phase: "follicular"})
	assert.Equal(t, 1.1, follicular.Value)

	menstrual := cycleFactor(&CycleRecord{Date: now, Phase: "menstrual"})
	assert.Equal(t, 0.85, menstrual.Value)
	assert.Equal(t, RecommendCycleAwareness, menstrual.Recommendation)

	unknown := cycleFactor(&CycleRecord{Date: now, Phase: "retrograde"})
	assert.Equal(t, 1.0, unknown.Value)
}

func TestCycleFactor_DayInference(t *testing.T) {
	now := time.Now()

	early := cycleFactor(&CycleRecord{Date: now, DayInCycle: 3})
	assert.Equal(t, 0.85, early.Value)
	assert.Equal(t, RecommendCycleAwareness, early.Recommendation)

	mid := cycleFactor(&CycleRecord{Date: now, DayInCycle: 10})
	assert.Equal(t, 1.1, mid.Value)

	// a reported phase wins over the day count
	reported := cycleFactor(&CycleRecord{Date: now, Phase: "luteal", DayInCycle: 10})
	assert.InDelta(t, 0.92, reported.Value, 1e-9)
}

func TestCycleFactor_ContraceptionAndSymptoms(t *testing.T) {
	now := time.Now()

	// hormonal contraception halves the phase swing
	flattened := cycleFactor(&CycleRecord{Date: now, Phase: "luteal", Contraception: true})
	assert.InDelta(t, 0.96, flattened.Value, 1e-9)

	symptomatic := cycleFactor(&CycleRecord{
		Date:     now,
		Phase:    "luteal",
		Symptoms: []string{"cramps", "fatigue", "headache"},
	})
	assert.InDelta(t, 0.86, symptomatic.Value, 1e-9)
	assert.Equal(t, RecommendCycleAwareness, symptomatic.Recommendation)
}

func TestLatestCycle_PicksNewest(t *testing.T) {
	now := time.Now()
	records := []CycleRecord{
		{Date: now.Add(-5 * 24 * time.Hour), Phase: "follicular"},
		{Date: now.Add(-1 * 24 * time.Hour), Phase: "luteal"},
		{Date: now.AddDate(0, 0, -20), Phase: "menstrual"},
	}
	latest := latestCycle(records, now.AddDate(0, 0, -ContextWindowDays))
	require.NotNil(t, latest)
	assert.Equal(t, "luteal", latest.Phase)
}
