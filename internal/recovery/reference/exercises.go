package reference

// Tier classifies exercise complexity: axial lifts load the spine and
// nervous system hardest, isolation movements barely at all.
type Tier string

const (
	TierAxial     Tier = "axial"
	TierCompound  Tier = "compound"
	TierIsolation Tier = "isolation"
)

type MuscleInvolvement struct {
	Muscle  string  `toml:"muscle" json:"muscle"`
	Percent float64 `toml:"percent" json:"percent"`
	Primary bool    `toml:"primary" json:"primary"`
}

type Exercise struct {
	Name          string  `toml:"name" json:"name"`
	Pattern       string  `toml:"pattern" json:"pattern"`
	Tier          Tier    `toml:"tier" json:"tier"`
	HalfLifeHours float64 `toml:"half_life_hours" json:"halfLifeHours"`
	// NeuralLoad (0-10) scales the slower CNS recovery component:
	// neural half-life = HalfLifeHours * (1 + NeuralLoad/10).
	NeuralLoad  float64             `toml:"neural_load" json:"neuralLoad"`
	Involvement []MuscleInvolvement `toml:"involvement" json:"involvement"`
}

// DefaultExerciseHalfLifeHours is used for exercises missing from the tables.
const DefaultExerciseHalfLifeHours = 48

func defaultExercises() []Exercise {
	return []Exercise{
		{
			Name: "back_squat", Pattern: "squat", Tier: TierAxial, HalfLifeHours: 72, NeuralLoad: 9,
			Involvement: []MuscleInvolvement{
				{Muscle: "quads", Percent: 100, Primary: true},
				{Muscle: "glutes", Percent: 70, Primary: true},
				{Muscle: "lower_back", Percent: 45},
				{Muscle: "hamstrings", Percent: 40},
				{Muscle: "adductors", Percent: 35},
				{Muscle: "abs", Percent: 30},
			},
		},
		{
			Name: "front_squat", Pattern: "squat", Tier: TierAxial, HalfLifeHours: 66, NeuralLoad: 8.5,
			Involvement: []MuscleInvolvement{
				{Muscle: "quads", Percent: 100, Primary: true},
				{Muscle: "glutes", Percent: 50},
				{Muscle: "abs", Percent: 45},
				{Muscle: "upper_back", Percent: 30},
				{Muscle: "lower_back", Percent: 30},
			},
		},
		{
			Name: "deadlift", Pattern: "hinge", Tier: TierAxial, HalfLifeHours: 84, NeuralLoad: 10,
			Involvement: []MuscleInvolvement{
				{Muscle: "lower_back", Percent: 100, Primary: true},
				{Muscle: "glutes", Percent: 90, Primary: true},
				{Muscle: "hamstrings", Percent: 80, Primary: true},
				{Muscle: "traps", Percent: 50},
				{Muscle: "forearms", Percent: 45},
				{Muscle: "lats", Percent: 40},
				{Muscle: "quads", Percent: 40},
			},
		},
		{
			Name: "romanian_deadlift", Pattern: "hinge", Tier: TierCompound, HalfLifeHours: 72, NeuralLoad: 7.5,
			Involvement: []MuscleInvolvement{
				{Muscle: "hamstrings", Percent: 100, Primary: true},
				{Muscle: "glutes", Percent: 70, Primary: true},
				{Muscle: "lower_back", Percent: 60},
				{Muscle: "forearms", Percent: 30},
			},
		},
		{
			Name: "power_clean", Pattern: "hinge", Tier: TierAxial, HalfLifeHours: 66, NeuralLoad: 10,
			Involvement: []MuscleInvolvement{
				{Muscle: "traps", Percent: 70, Primary: true},
				{Muscle: "glutes", Percent: 70, Primary: true},
				{Muscle: "hamstrings", Percent: 60},
				{Muscle: "lower_back", Percent: 60},
				{Muscle: "quads", Percent: 50},
				{Muscle: "forearms", Percent: 40},
			},
		},
		{
			Name: "hip_thrust", Pattern: "hinge", Tier: TierCompound, HalfLifeHours: 54, NeuralLoad: 6,
			Involvement: []MuscleInvolvement{
				{Muscle: "glutes", Percent: 100, Primary: true},
				{Muscle: "hamstrings", Percent: 40},
				{Muscle: "quads", Percent: 25},
			},
		},
		{
			Name: "bench_press", Pattern: "push_horizontal", Tier: TierCompound, HalfLifeHours: 60, NeuralLoad: 7,
			Involvement: []MuscleInvolvement{
				{Muscle: "chest", Percent: 100, Primary: true},
				{Muscle: "triceps", Percent: 60},
				{Muscle: "front_delts", Percent: 50},
			},
		},
		{
			Name: "incline_bench_press", Pattern: "push_horizontal", Tier: TierCompound, HalfLifeHours: 60, NeuralLoad: 7,
			Involvement: []MuscleInvolvement{
				{Muscle: "chest", Percent: 90, Primary: true},
				{Muscle: "front_delts", Percent: 65},
				{Muscle: "triceps", Percent: 55},
			},
		},
		{
			Name: "overhead_press", Pattern: "push_vertical", Tier: TierAxial, HalfLifeHours: 54, NeuralLoad: 8,
			Involvement: []MuscleInvolvement{
				{Muscle: "front_delts", Percent: 100, Primary: true},
				{Muscle: "side_delts", Percent: 60},
				{Muscle: "triceps", Percent: 55},
				{Muscle: "traps", Percent: 35},
				{Muscle: "abs", Percent: 25},
			},
		},
		{
			Name: "dip", Pattern: "push_vertical", Tier: TierCompound, HalfLifeHours: 54, NeuralLoad: 6,
			Involvement: []MuscleInvolvement{
				{Muscle: "triceps", Percent: 80, Primary: true},
				{Muscle: "chest", Percent: 70, Primary: true},
				{Muscle: "front_delts", Percent: 45},
			},
		},
		{
			Name: "barbell_row", Pattern: "pull_horizontal", Tier: TierCompound, HalfLifeHours: 60, NeuralLoad: 7.5,
			Involvement: []MuscleInvolvement{
				{Muscle: "upper_back", Percent: 90, Primary: true},
				{Muscle: "lats", Percent: 80, Primary: true},
				{Muscle: "rear_delts", Percent: 45},
				{Muscle: "biceps", Percent: 40},
				{Muscle: "lower_back", Percent: 35},
				{Muscle: "forearms", Percent: 30},
			},
		},
		{
			Name: "pull_up", Pattern: "pull_vertical", Tier: TierCompound, HalfLifeHours: 54, NeuralLoad: 7,
			Involvement: []MuscleInvolvement{
				{Muscle: "lats", Percent: 100, Primary: true},
				{Muscle: "biceps", Percent: 55},
				{Muscle: "upper_back", Percent: 50},
				{Muscle: "forearms", Percent: 40},
				{Muscle: "abs", Percent: 20},
			},
		},
		{
			Name: "lat_pulldown", Pattern: "pull_vertical", Tier: TierCompound, HalfLifeHours: 48, NeuralLoad: 5.5,
			Involvement: []MuscleInvolvement{
				{Muscle: "lats", Percent: 100, Primary: true},
				{Muscle: "biceps", Percent: 45},
				{Muscle: "upper_back", Percent: 40},
			},
		},
		{
			Name: "walking_lunge", Pattern: "squat", Tier: TierCompound, HalfLifeHours: 54, NeuralLoad: 6.5,
			Involvement: []MuscleInvolvement{
				{Muscle: "quads", Percent: 85, Primary: true},
				{Muscle: "glutes", Percent: 75, Primary: true},
				{Muscle: "hamstrings", Percent: 35},
				{Muscle: "adductors", Percent: 30},
				{Muscle: "calves", Percent: 20},
			},
		},
		{
			Name: "leg_press", Pattern: "squat", Tier: TierCompound, HalfLifeHours: 54, NeuralLoad: 5.5,
			Involvement: []MuscleInvolvement{
				{Muscle: "quads", Percent: 100, Primary: true},
				{Muscle: "glutes", Percent: 55},
				{Muscle: "hamstrings", Percent: 30},
				{Muscle: "adductors", Percent: 30},
			},
		},
		{
			Name: "leg_extension", Pattern: "knee_extension", Tier: TierIsolation, HalfLifeHours: 36, NeuralLoad: 3,
			Involvement: []MuscleInvolvement{
				{Muscle: "quads", Percent: 100, Primary: true},
			},
		},
		{
			Name: "leg_curl", Pattern: "knee_flexion", Tier: TierIsolation, HalfLifeHours: 36, NeuralLoad: 3,
			Involvement: []MuscleInvolvement{
				{Muscle: "hamstrings", Percent: 100, Primary: true},
				{Muscle: "calves", Percent: 15},
			},
		},
		{
			Name: "standing_calf_raise", Pattern: "ankle_extension", Tier: TierIsolation, HalfLifeHours: 30, NeuralLoad: 2.5,
			Involvement: []MuscleInvolvement{
				{Muscle: "calves", Percent: 100, Primary: true},
			},
		},
		{
			Name: "barbell_curl", Pattern: "elbow_flexion", Tier: TierIsolation, HalfLifeHours: 30, NeuralLoad: 3,
			Involvement: []MuscleInvolvement{
				{Muscle: "biceps", Percent: 100, Primary: true},
				{Muscle: "forearms", Percent: 30},
			},
		},
		{
			Name: "triceps_pushdown", Pattern: "elbow_extension", Tier: TierIsolation, HalfLifeHours: 30, NeuralLoad: 2.5,
			Involvement: []MuscleInvolvement{
				{Muscle: "triceps", Percent: 100, Primary: true},
			},
		},
		{
			Name: "lateral_raise", Pattern: "shoulder_abduction", Tier: TierIsolation, HalfLifeHours: 30, NeuralLoad: 2.5,
			Involvement: []MuscleInvolvement{
				{Muscle: "side_delts", Percent: 100, Primary: true},
				{Muscle: "traps", Percent: 25},
			},
		},
		{
			Name: "face_pull", Pattern: "pull_horizontal", Tier: TierIsolation, HalfLifeHours: 30, NeuralLoad: 3,
			Involvement: []MuscleInvolvement{
				{Muscle: "rear_delts", Percent: 100, Primary: true},
				{Muscle: "upper_back", Percent: 45},
				{Muscle: "traps", Percent: 30},
			},
		},
		{
			Name: "hanging_leg_raise", Pattern: "hip_flexion", Tier: TierIsolation, HalfLifeHours: 30, NeuralLoad: 3.5,
			Involvement: []MuscleInvolvement{
				{Muscle: "abs", Percent: 90, Primary: true},
				{Muscle: "hip_flexors", Percent: 70, Primary: true},
				{Muscle: "obliques", Percent: 40},
				{Muscle: "forearms", Percent: 25},
			},
		},
		{
			Name: "back_extension", Pattern: "hinge", Tier: TierIsolation, HalfLifeHours: 42, NeuralLoad: 4,
			Involvement: []MuscleInvolvement{
				{Muscle: "lower_back", Percent: 90, Primary: true},
				{Muscle: "glutes", Percent: 50},
				{Muscle: "hamstrings", Percent: 45},
			},
		},
	}
}
