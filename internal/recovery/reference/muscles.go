package reference

// FiberBias roughly classifies the dominant fiber type of a muscle.
// Fast-dominant muscles fatigue harder and recover slower from heavy work,
// slow-dominant muscles tolerate frequency better.
type FiberBias string

const (
	FiberFast  FiberBias = "fast"
	FiberSlow  FiberBias = "slow"
	FiberMixed FiberBias = "mixed"
)

type Muscle struct {
	Name          string    `toml:"name" json:"name"`
	HalfLifeHours float64   `toml:"half_life_hours" json:"halfLifeHours"`
	// Mass is the relative muscle mass weighting, used for the
	// systemic fatigue average.
	Mass  float64   `toml:"mass" json:"mass"`
	Fiber FiberBias `toml:"fiber" json:"fiber"`
}

// DefaultMuscleHalfLifeHours is used for muscles missing from the tables.
const DefaultMuscleHalfLifeHours = 48

func defaultMuscles() []Muscle {
	return []Muscle{
		{Name: "abs", HalfLifeHours: 24, Mass: 0.35, Fiber: FiberSlow},
		{Name: "adductors", HalfLifeHours: 48, Mass: 0.45, Fiber: FiberMixed},
		{Name: "biceps", HalfLifeHours: 36, Mass: 0.25, Fiber: FiberMixed},
		{Name: "calves", HalfLifeHours: 30, Mass: 0.3, Fiber: FiberSlow},
		{Name: "chest", HalfLifeHours: 60, Mass: 0.6, Fiber: FiberFast},
		{Name: "forearms", HalfLifeHours: 24, Mass: 0.2, Fiber: FiberSlow},
		{Name: "front_delts", HalfLifeHours: 48, Mass: 0.25, Fiber: FiberMixed},
		{Name: "glutes", HalfLifeHours: 60, Mass: 0.9, Fiber: FiberMixed},
		{Name: "hamstrings", HalfLifeHours: 72, Mass: 0.7, Fiber: FiberFast},
		{Name: "hip_flexors", HalfLifeHours: 36, Mass: 0.25, Fiber: FiberMixed},
		{Name: "lats", HalfLifeHours: 54, Mass: 0.6, Fiber: FiberMixed},
		{Name: "lower_back", HalfLifeHours: 84, Mass: 0.5, Fiber: FiberSlow},
		{Name: "neck", HalfLifeHours: 36, Mass: 0.15, Fiber: FiberSlow},
		{Name: "obliques", HalfLifeHours: 30, Mass: 0.25, Fiber: FiberSlow},
		{Name: "quads", HalfLifeHours: 66, Mass: 1.0, Fiber: FiberMixed},
		{Name: "rear_delts", HalfLifeHours: 36, Mass: 0.2, Fiber: FiberMixed},
		{Name: "side_delts", HalfLifeHours: 36, Mass: 0.2, Fiber: FiberMixed},
		{Name: "traps", HalfLifeHours: 48, Mass: 0.4, Fiber: FiberMixed},
		{Name: "triceps", HalfLifeHours: 42, Mass: 0.3, Fiber: FiberFast},
		{Name: "upper_back", HalfLifeHours: 48, Mass: 0.5, Fiber: FiberMixed},
	}
}
