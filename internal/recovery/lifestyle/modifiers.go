// Package lifestyle turns sleep, nutrition, stress, demographic and
// cycle context into a single recovery-rate modifier. Each factor maps
// to a bounded multiplier, the overall modifier is their product, and
// factors dragging recovery down come back as limiting factors with a
// recommendation attached.
package lifestyle

import (
	"math"
	"sort"
	"time"
)

// Modifier bounds: the product of all factors is clamped to this range
// so a single terrible week cannot zero out recovery entirely.
const (
	MinModifier = 0.4
	MaxModifier = 1.4

	// LimitingThreshold marks a factor as actively limiting recovery.
	LimitingThreshold = 0.9

	// ContextWindowDays is how far back context records are considered.
	ContextWindowDays = 7
)

// Recommendation IDs, stable identifiers for clients to map to copy.
const (
	RecommendSleepMore      = "sleep.increase_duration"
	RecommendSleepQuality   = "sleep.improve_quality"
	RecommendEatMore        = "nutrition.increase_intake"
	RecommendEatProtein     = "nutrition.increase_protein"
	RecommendHydrate        = "nutrition.increase_hydration"
	RecommendReduceStress   = "stress.reduce_load"
	RecommendReduceVolume   = "training.reduce_volume"
	RecommendCycleAwareness = "cycle.adjust_intensity"
)

type SleepRecord struct {
	Date          time.Time `json:"date"`
	Hours         float64   `json:"hours"`
	Quality       float64   `json:"quality"` // 0..1 subjective or device-derived
	Interruptions int       `json:"interruptions,omitempty"`
}

// NutritionRecord is one day of intake. Carb ratio, hydration and the
// training meal gap are optional signals; zero means not logged.
type NutritionRecord struct {
	Date                 time.Time `json:"date"`
	CalorieRatio         float64   `json:"calorieRatio"` // intake / estimated need
	ProteinGrams         float64   `json:"proteinGrams"`
	BodyKilos            float64   `json:"bodyKilos"`
	CarbRatio            float64   `json:"carbRatio,omitempty"` // intake / estimated need
	HydrationLiters      float64   `json:"hydrationLiters,omitempty"`
	TrainingMealGapHours float64   `json:"trainingMealGapHours,omitempty"` // last meal to session
}

// StressRecord couples the perceived 0..10 level with optional morning
// heart readings; zero resting HR / HRV means no wearable data.
type StressRecord struct {
	Date             time.Time `json:"date"`
	Level            float64   `json:"level"` // 0 calm .. 10 overwhelmed
	RestingHeartRate float64   `json:"restingHeartRate,omitempty"` // bpm
	HRV              float64   `json:"hrv,omitempty"`              // rMSSD, ms
}

type Demographics struct {
	Age               int      `json:"age"`
	Sex               string   `json:"sex,omitempty"`
	TrainingAgeYears  float64  `json:"trainingAgeYears"`
	ActiveInjuries    []string `json:"activeInjuries,omitempty"`
	ChronicConditions []string `json:"chronicConditions,omitempty"`
}

type CycleRecord struct {
	Date          time.Time `json:"date"`
	Phase         string    `json:"phase"` // follicular, ovulatory, luteal, menstrual
	DayInCycle    int       `json:"dayInCycle,omitempty"`
	Symptoms      []string  `json:"symptoms,omitempty"`
	Contraception bool      `json:"contraception,omitempty"`
}

// Context bundles the recent lifestyle inputs for one user. Any slice
// may be empty, in which case that factor stays neutral.
type Context struct {
	Sleep        []SleepRecord     `json:"sleep"`
	Nutrition    []NutritionRecord `json:"nutrition"`
	Stress       []StressRecord    `json:"stress"`
	Demographics *Demographics     `json:"demographics"`
	Cycle        []CycleRecord     `json:"cycle"`
}

// Factor is one contributing multiplier with the context that produced it.
type Factor struct {
	Name           string  `json:"name"`
	Value          float64 `json:"value"`
	Recommendation string  `json:"recommendation,omitempty"`
}

// Assessment is the combined modifier: recovery half-lives are divided
// by Overall, so values above 1 speed recovery up.
type Assessment struct {
	Overall         float64  `json:"overall"`
	Factors         []Factor `json:"factors"`
	LimitingFactors []Factor `json:"limitingFactors"`
}

// Assess evaluates all context available within the lookback window and
// multiplies the factor values together, clamped to [MinModifier,
// MaxModifier]. Factors below LimitingThreshold are surfaced separately.
func Assess(c Context, now time.Time) Assessment {
	cutoff := now.AddDate(0, 0, -ContextWindowDays)

	factors := []Factor{
		sleepFactor(recentSleep(c.Sleep, cutoff)),
		nutritionFactor(recentNutrition(c.Nutrition, cutoff)),
		stressFactor(recentStress(c.Stress, cutoff)),
		demographicsFactor(c.Demographics),
		cycleFactor(latestCycle(c.Cycle, cutoff)),
	}

	overall := 1.0
	var limiting []Factor
	for _, f := range factors {
		overall *= f.Value
		if f.Value < LimitingThreshold {
			limiting = append(limiting, f)
		}
	}

	// worst offenders first
	sort.Slice(limiting, func(i, j int) bool {
		return limiting[i].Value < limiting[j].Value
	})

	return Assessment{
		Overall:         clamp(overall, MinModifier, MaxModifier),
		Factors:         factors,
		LimitingFactors: limiting,
	}
}

// sleepFactor maps average recent sleep to [0.5, 1.2]. Eight good hours
// is the neutral point; quality scales the effective duration.
func sleepFactor(records []SleepRecord) Factor {
	f := Factor{Name: "sleep", Value: 1}
	if len(records) == 0 {
		return f
	}

	var effective float64
	for _, r := range records {
		quality := clamp(r.Quality, 0, 1)
		// every wake-up costs a quarter hour of restorative sleep
		hours := math.Max(0, r.Hours-0.25*float64(r.Interruptions))
		effective += hours * (0.7 + 0.3*quality)
	}
	effective /= float64(len(records))

	// 4h of poor sleep bottoms out, 9h of great sleep tops out
	f.Value = clamp(0.5+(effective-4)*0.14, 0.5, 1.2)
	switch {
	case f.Value < LimitingThreshold && avgHours(records) < 7:
		f.Recommendation = RecommendSleepMore
	case f.Value < LimitingThreshold:
		f.Recommendation = RecommendSleepQuality
	}
	return f
}

func avgHours(records []SleepRecord) float64 {
	var sum float64
	for _, r := range records {
		sum += r.Hours
	}
	return sum / float64(len(records))
}

// nutritionFactor maps macro adequacy, calorie balance, hydration and
// meal timing to [0.7, 1.15]. Carbs, hydration and timing count only on
// days they were actually logged.
func nutritionFactor(records []NutritionRecord) Factor {
	f := Factor{Name: "nutrition", Value: 1}
	if len(records) == 0 {
		return f
	}

	var calories, protein, carbs, hydration, timing float64
	var carbDays, hydrationDays, timingDays int
	for _, r := range records {
		calories += clamp(r.CalorieRatio, 0, 1.5)
		if r.BodyKilos > 0 {
			// 1.8 g/kg is full credit
			protein += clamp(r.ProteinGrams/(r.BodyKilos*1.8), 0, 1)
		} else {
			protein += 1
		}
		if r.CarbRatio > 0 {
			carbs += clamp(r.CarbRatio, 0, 1)
			carbDays++
		}
		if r.HydrationLiters > 0 {
			// ~2.5 l/day is full credit
			hydration += clamp(r.HydrationLiters/2.5, 0, 1)
			hydrationDays++
		}
		if r.TrainingMealGapHours > 0 {
			// fueled within 3h of the session is full credit, 6h+ is none
			timing += clamp(2-r.TrainingMealGapHours/3, 0, 1)
			timingDays++
		}
	}
	calories /= float64(len(records))
	protein /= float64(len(records))

	fuel := protein
	if carbDays > 0 {
		fuel = 0.7*protein + 0.3*carbs/float64(carbDays)
	}

	// deep deficits hurt recovery, mild surplus helps a little
	calorieScore := clamp(1+(calories-1)*0.75, 0.7, 1.1)
	value := calorieScore * (0.85 + 0.15*fuel)
	if hydrationDays > 0 {
		value *= 0.94 + 0.06*hydration/float64(hydrationDays)
	}
	if timingDays > 0 {
		value *= 0.97 + 0.03*timing/float64(timingDays)
	}
	f.Value = clamp(value, 0.7, 1.15)
	switch {
	case f.Value < LimitingThreshold && calories < 0.9:
		f.Recommendation = RecommendEatMore
	case f.Value < LimitingThreshold && hydrationDays > 0 && hydration/float64(hydrationDays) < 0.6:
		f.Recommendation = RecommendHydrate
	case f.Value < LimitingThreshold:
		f.Recommendation = RecommendEatProtein
	}
	return f
}

// stressFactor maps average reported stress to [0.6, 1.05]. Elevated
// resting heart rate and suppressed HRV push the effective level up, as
// physiological stress the lifter may not be reporting.
func stressFactor(records []StressRecord) Factor {
	f := Factor{Name: "stress", Value: 1}
	if len(records) == 0 {
		return f
	}

	var level float64
	for _, r := range records {
		day := clamp(r.Level, 0, 10)
		if r.RestingHeartRate > 0 {
			day += clamp((r.RestingHeartRate-60)/10, 0, 2)
		}
		if r.HRV > 0 {
			day += clamp((50-r.HRV)/15, 0, 2)
		}
		level += math.Min(day, 10)
	}
	level /= float64(len(records))

	// level 3 is neutral, 10 bottoms out
	f.Value = clamp(1.05-level*level*0.0045, 0.6, 1.05)
	if f.Value < LimitingThreshold {
		f.Recommendation = RecommendReduceStress
	}
	return f
}

// demographicsFactor combines age, training experience and current
// health into [0.7, 1.2]. Recovery capacity declines slowly past the
// mid-twenties, training experience improves it up to a point, and
// active injuries or chronic conditions carve a piece off.
func demographicsFactor(d *Demographics) Factor {
	f := Factor{Name: "demographics", Value: 1}
	if d == nil {
		return f
	}

	ageScore := 1.0
	if d.Age > 25 {
		ageScore = math.Max(0.75, 1-float64(d.Age-25)*0.006)
	} else if d.Age > 0 && d.Age < 18 {
		ageScore = 1.05
	}

	health := 1.0
	if n := len(d.ActiveInjuries); n > 0 {
		health -= math.Min(0.15, 0.06*float64(n))
	}
	if n := len(d.ChronicConditions); n > 0 {
		health -= math.Min(0.1, 0.04*float64(n))
	}

	experience := clamp(d.TrainingAgeYears/5, 0, 1)
	f.Value = clamp(ageScore*(0.9+0.15*experience)*health, 0.7, 1.2)
	if f.Value < LimitingThreshold {
		f.Recommendation = RecommendReduceVolume
	}
	return f
}

// cycleFactor adjusts for menstrual cycle phase, [0.85, 1.1]. The phase
// is inferred from the cycle day when not reported outright; hormonal
// contraception flattens the swing and logged symptoms pull it down.
func cycleFactor(record *CycleRecord) Factor {
	f := Factor{Name: "cycle", Value: 1}
	if record == nil {
		return f
	}

	phase := record.Phase
	if phase == "" && record.DayInCycle > 0 {
		phase = phaseForDay(record.DayInCycle)
	}

	switch phase {
	case "follicular":
		f.Value = 1.1
	case "ovulatory":
		f.Value = 1.05
	case "luteal":
		f.Value = 0.92
	case "menstrual":
		f.Value = 0.85
	default:
		return f
	}

	if record.Contraception {
		f.Value = 1 + (f.Value-1)*0.5
	}
	if n := len(record.Symptoms); n > 0 {
		f.Value -= math.Min(0.06, 0.02*float64(n))
	}
	f.Value = clamp(f.Value, 0.85, 1.1)

	if f.Value < LimitingThreshold {
		f.Recommendation = RecommendCycleAwareness
	}
	return f
}

// phaseForDay maps a day of a nominal 28-day cycle to its phase.
func phaseForDay(day int) string {
	switch {
	case day <= 5:
		return "menstrual"
	case day <= 13:
		return "follicular"
	case day <= 16:
		return "ovulatory"
	case day <= 35:
		return "luteal"
	default:
		return ""
	}
}

func recentSleep(records []SleepRecord, cutoff time.Time) []SleepRecord {
	var out []SleepRecord
	for _, r := range records {
		if !r.Date.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out
}

func recentNutrition(records []NutritionRecord, cutoff time.Time) []NutritionRecord {
	var out []NutritionRecord
	for _, r := range records {
		if !r.Date.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out
}

func recentStress(records []StressRecord, cutoff time.Time) []StressRecord {
	var out []StressRecord
	for _, r := range records {
		if !r.Date.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out
}

func latestCycle(records []CycleRecord, cutoff time.Time) *CycleRecord {
	var latest *CycleRecord
	for i := range records {
		r := &records[i]
		if r.Date.Before(cutoff) {
			continue
		}
		if latest == nil || r.Date.After(latest.Date) {
			latest = r
		}
	}
	return latest
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
