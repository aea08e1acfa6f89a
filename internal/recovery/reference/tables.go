package reference

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
)

// Tables holds the immutable reference data consulted by every recovery
// computation. Entries are kept in name-sorted slices so that all
// iteration (and therefore float summation order) is deterministic.
// Loaded once at process start, read-only afterwards.
type Tables struct {
	muscles    []Muscle
	exercises  []Exercise
	structures []Structure
	spillover  []SpilloverEdge

	muscleIndex    map[string]int
	exerciseIndex  map[string]int
	structureIndex map[string]int
	exerciseStress map[string][]StructureStress
}

func Default() *Tables {
	return build(
		defaultMuscles(),
		defaultExercises(),
		defaultStructures(),
		defaultSpillover(),
		defaultExerciseStress(),
	)
}

// Load returns the default tables with overrides from the given TOML
// file applied. An empty path returns the defaults unchanged.
func Load(path string) (*Tables, error) {
	if path == "" {
		return Default(), nil
	}

	var o overrides
	if _, err := toml.DecodeFile(path, &o); err != nil {
		return nil, fmt.Errorf("decode reference tables file: %w", err)
	}

	muscles := mergeByName(defaultMuscles(), o.Muscles, func(m Muscle) string { return m.Name })
	exercises := mergeByName(defaultExercises(), o.Exercises, func(e Exercise) string { return e.Name })
	structures := mergeByName(defaultStructures(), o.Structures, func(s Structure) string { return s.Name })

	spillover := defaultSpillover()
	if len(o.Spillover) > 0 {
		spillover = o.Spillover
	}

	stress := defaultExerciseStress()
	for _, es := range o.ExerciseStress {
		stress[es.Exercise] = es.Rows
	}

	return build(muscles, exercises, structures, spillover, stress), nil
}

type overrides struct {
	Muscles        []Muscle                 `toml:"muscles"`
	Exercises      []Exercise               `toml:"exercises"`
	Structures     []Structure              `toml:"structures"`
	Spillover      []SpilloverEdge          `toml:"spillover"`
	ExerciseStress []exerciseStressOverride `toml:"exercise_stress"`
}

type exerciseStressOverride struct {
	Exercise string            `toml:"exercise"`
	Rows     []StructureStress `toml:"rows"`
}

func mergeByName[T any](defaults, extra []T, name func(T) string) []T {
	merged := make([]T, len(defaults))
	copy(merged, defaults)

	index := make(map[string]int, len(merged))
	for i, d := range merged {
		index[name(d)] = i
	}

	for _, e := range extra {
		if i, ok := index[name(e)]; ok {
			merged[i] = e
		} else {
			merged = append(merged, e)
		}
	}
	return merged
}

func build(
	muscles []Muscle,
	exercises []Exercise,
	structures []Structure,
	spillover []SpilloverEdge,
	exerciseStress map[string][]StructureStress,
) *Tables {
	sort.Slice(muscles, func(i, j int) bool { return muscles[i].Name < muscles[j].Name })
	sort.Slice(exercises, func(i, j int) bool { return exercises[i].Name < exercises[j].Name })
	sort.Slice(structures, func(i, j int) bool { return structures[i].Name < structures[j].Name })

	t := &Tables{
		muscles:        muscles,
		exercises:      exercises,
		structures:     structures,
		spillover:      spillover,
		muscleIndex:    make(map[string]int, len(muscles)),
		exerciseIndex:  make(map[string]int, len(exercises)),
		structureIndex: make(map[string]int, len(structures)),
		exerciseStress: exerciseStress,
	}
	for i, m := range muscles {
		t.muscleIndex[m.Name] = i
	}
	for i, e := range exercises {
		t.exerciseIndex[e.Name] = i
	}
	for i, s := range structures {
		t.structureIndex[s.Name] = i
	}
	return t
}

// Muscles returns all muscles in name order.
func (t *Tables) Muscles() []Muscle {
	return t.muscles
}

// Exercises returns all exercises in name order.
func (t *Tables) Exercises() []Exercise {
	return t.exercises
}

// Structures returns all connective structures in name order.
func (t *Tables) Structures() []Structure {
	return t.structures
}

func (t *Tables) Spillover() []SpilloverEdge {
	return t.spillover
}

func (t *Tables) MuscleByName(name string) (Muscle, bool) {
	i, ok := t.muscleIndex[name]
	if !ok {
		return Muscle{}, false
	}
	return t.muscles[i], true
}

func (t *Tables) ExerciseByName(name string) (Exercise, bool) {
	i, ok := t.exerciseIndex[name]
	if !ok {
		return Exercise{}, false
	}
	return t.exercises[i], true
}

func (t *Tables) StructureByName(name string) (Structure, bool) {
	i, ok := t.structureIndex[name]
	if !ok {
		return Structure{}, false
	}
	return t.structures[i], true
}

// StressFor returns the connective stress rows for an exercise, nil if none.
func (t *Tables) StressFor(exercise string) []StructureStress {
	return t.exerciseStress[exercise]
}

// MuscleHalfLife returns the recovery half-life for a muscle, falling
// back to DefaultMuscleHalfLifeHours for unknown muscles.
func (t *Tables) MuscleHalfLife(name string) float64 {
	if m, ok := t.MuscleByName(name); ok {
		return m.HalfLifeHours
	}
	return DefaultMuscleHalfLifeHours
}
