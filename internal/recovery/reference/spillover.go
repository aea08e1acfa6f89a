package reference

// SpilloverEdge describes fatigue transfer from a trained muscle to a
// biomechanically related one. Percent of the source's direct fatigue is
// added to the target's spillover total. Bidirectional edges transfer
// in both directions with the same percentage.
type SpilloverEdge struct {
	Source        string  `toml:"source" json:"source"`
	Target        string  `toml:"target" json:"target"`
	Percent       float64 `toml:"percent" json:"percent"`
	Bidirectional bool    `toml:"bidirectional" json:"bidirectional"`
}

func defaultSpillover() []SpilloverEdge {
	return []SpilloverEdge{
		{Source: "abs", Target: "hip_flexors", Percent: 15, Bidirectional: true},
		{Source: "abs", Target: "obliques", Percent: 20, Bidirectional: true},
		{Source: "chest", Target: "front_delts", Percent: 25},
		{Source: "chest", Target: "triceps", Percent: 20},
		{Source: "forearms", Target: "biceps", Percent: 10},
		{Source: "glutes", Target: "hamstrings", Percent: 15, Bidirectional: true},
		{Source: "hamstrings", Target: "lower_back", Percent: 20, Bidirectional: true},
		{Source: "lats", Target: "biceps", Percent: 20},
		{Source: "lats", Target: "rear_delts", Percent: 10},
		{Source: "lower_back", Target: "glutes", Percent: 15},
		{Source: "quads", Target: "hip_flexors", Percent: 10},
		{Source: "quads", Target: "glutes", Percent: 15, Bidirectional: true},
		{Source: "traps", Target: "neck", Percent: 25, Bidirectional: true},
		{Source: "upper_back", Target: "rear_delts", Percent: 20},
	}
}
