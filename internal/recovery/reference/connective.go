package reference

// StructureKind classifies connective tissue structures.
type StructureKind string

const (
	KindTendon    StructureKind = "tendon"
	KindLigament  StructureKind = "ligament"
	KindCartilage StructureKind = "cartilage"
	KindBursa     StructureKind = "bursa"
)

type Structure struct {
	Name          string        `toml:"name" json:"name"`
	Joint         string        `toml:"joint" json:"joint"`
	Kind          StructureKind `toml:"kind" json:"kind"`
	HalfLifeHours float64       `toml:"half_life_hours" json:"halfLifeHours"`
	// Cumulative structures (overuse-prone: tendons, bursae, discs) sum
	// decayed stress across sessions. Non-cumulative structures
	// (acute-injury-prone: ligaments, labrum, meniscus) keep only the
	// highest single decayed occurrence.
	Cumulative      bool    `toml:"cumulative" json:"cumulative"`
	InjuryThreshold float64 `toml:"injury_threshold" json:"injuryThreshold"`
}

// StructureStress is one row of the exercise-to-structure stress table.
type StructureStress struct {
	Structure           string  `toml:"structure" json:"structure"`
	BaseStress          float64 `toml:"base_stress" json:"baseStress"`
	EccentricMultiplier float64 `toml:"eccentric_multiplier" json:"eccentricMultiplier"`
	BallisticMultiplier float64 `toml:"ballistic_multiplier" json:"ballisticMultiplier"`
}

func defaultStructures() []Structure {
	return []Structure{
		{Name: "achilles_tendon", Joint: "ankle", Kind: KindTendon, HalfLifeHours: 280, Cumulative: true, InjuryThreshold: 65},
		{Name: "acl", Joint: "knee", Kind: KindLigament, HalfLifeHours: 320, Cumulative: false, InjuryThreshold: 55},
		{Name: "biceps_tendon", Joint: "shoulder", Kind: KindTendon, HalfLifeHours: 220, Cumulative: true, InjuryThreshold: 65},
		{Name: "elbow_extensor_tendons", Joint: "elbow", Kind: KindTendon, HalfLifeHours: 200, Cumulative: true, InjuryThreshold: 70},
		{Name: "hip_labrum", Joint: "hip", Kind: KindCartilage, HalfLifeHours: 400, Cumulative: false, InjuryThreshold: 60},
		{Name: "knee_meniscus", Joint: "knee", Kind: KindCartilage, HalfLifeHours: 420, Cumulative: false, InjuryThreshold: 60},
		{Name: "lumbar_discs", Joint: "spine", Kind: KindCartilage, HalfLifeHours: 480, Cumulative: true, InjuryThreshold: 60},
		{Name: "mcl", Joint: "knee", Kind: KindLigament, HalfLifeHours: 300, Cumulative: false, InjuryThreshold: 60},
		{Name: "patellar_tendon", Joint: "knee", Kind: KindTendon, HalfLifeHours: 240, Cumulative: true, InjuryThreshold: 70},
		{Name: "quadriceps_tendon", Joint: "knee", Kind: KindTendon, HalfLifeHours: 220, Cumulative: true, InjuryThreshold: 70},
		{Name: "rotator_cuff_tendons", Joint: "shoulder", Kind: KindTendon, HalfLifeHours: 260, Cumulative: true, InjuryThreshold: 60},
		{Name: "subacromial_bursa", Joint: "shoulder", Kind: KindBursa, HalfLifeHours: 200, Cumulative: true, InjuryThreshold: 65},
		{Name: "ucl", Joint: "elbow", Kind: KindLigament, HalfLifeHours: 260, Cumulative: false, InjuryThreshold: 60},
		{Name: "wrist_flexor_tendons", Joint: "wrist", Kind: KindTendon, HalfLifeHours: 180, Cumulative: true, InjuryThreshold: 70},
	}
}

func defaultExerciseStress() map[string][]StructureStress {
	return map[string][]StructureStress{
		"back_squat": {
			{Structure: "patellar_tendon", BaseStress: 12, EccentricMultiplier: 1.4, BallisticMultiplier: 1},
			{Structure: "quadriceps_tendon", BaseStress: 10, EccentricMultiplier: 1.4, BallisticMultiplier: 1},
			{Structure: "lumbar_discs", BaseStress: 10, EccentricMultiplier: 1.2, BallisticMultiplier: 1},
			{Structure: "knee_meniscus", BaseStress: 8, EccentricMultiplier: 1.3, BallisticMultiplier: 1.1},
			{Structure: "acl", BaseStress: 5, EccentricMultiplier: 1.3, BallisticMultiplier: 1.3},
			{Structure: "hip_labrum", BaseStress: 5, EccentricMultiplier: 1.2, BallisticMultiplier: 1},
		},
		"front_squat": {
			{Structure: "patellar_tendon", BaseStress: 13, EccentricMultiplier: 1.4, BallisticMultiplier: 1},
			{Structure: "quadriceps_tendon", BaseStress: 11, EccentricMultiplier: 1.4, BallisticMultiplier: 1},
			{Structure: "knee_meniscus", BaseStress: 8, EccentricMultiplier: 1.3, BallisticMultiplier: 1},
			{Structure: "wrist_flexor_tendons", BaseStress: 6, EccentricMultiplier: 1, BallisticMultiplier: 1},
		},
		"deadlift": {
			{Structure: "lumbar_discs", BaseStress: 16, EccentricMultiplier: 1.3, BallisticMultiplier: 1},
			{Structure: "biceps_tendon", BaseStress: 6, EccentricMultiplier: 1.2, BallisticMultiplier: 1.4},
			{Structure: "knee_meniscus", BaseStress: 4, EccentricMultiplier: 1.2, BallisticMultiplier: 1},
			{Structure: "wrist_flexor_tendons", BaseStress: 5, EccentricMultiplier: 1, BallisticMultiplier: 1},
		},
		"romanian_deadlift": {
			{Structure: "lumbar_discs", BaseStress: 12, EccentricMultiplier: 1.5, BallisticMultiplier: 1},
			{Structure: "achilles_tendon", BaseStress: 3, EccentricMultiplier: 1.3, BallisticMultiplier: 1},
		},
		"power_clean": {
			{Structure: "lumbar_discs", BaseStress: 12, EccentricMultiplier: 1.1, BallisticMultiplier: 1.6},
			{Structure: "patellar_tendon", BaseStress: 8, EccentricMultiplier: 1.1, BallisticMultiplier: 1.6},
			{Structure: "achilles_tendon", BaseStress: 7, EccentricMultiplier: 1.1, BallisticMultiplier: 1.6},
			{Structure: "wrist_flexor_tendons", BaseStress: 7, EccentricMultiplier: 1, BallisticMultiplier: 1.4},
			{Structure: "acl", BaseStress: 5, EccentricMultiplier: 1.1, BallisticMultiplier: 1.5},
		},
		"hip_thrust": {
			{Structure: "hip_labrum", BaseStress: 6, EccentricMultiplier: 1.2, BallisticMultiplier: 1},
			{Structure: "lumbar_discs", BaseStress: 5, EccentricMultiplier: 1.1, BallisticMultiplier: 1},
		},
		"bench_press": {
			{Structure: "rotator_cuff_tendons", BaseStress: 8, EccentricMultiplier: 1.3, BallisticMultiplier: 1.2},
			{Structure: "biceps_tendon", BaseStress: 6, EccentricMultiplier: 1.3, BallisticMultiplier: 1.2},
			{Structure: "elbow_extensor_tendons", BaseStress: 6, EccentricMultiplier: 1.2, BallisticMultiplier: 1},
			{Structure: "subacromial_bursa", BaseStress: 5, EccentricMultiplier: 1.2, BallisticMultiplier: 1},
		},
		"incline_bench_press": {
			{Structure: "rotator_cuff_tendons", BaseStress: 9, EccentricMultiplier: 1.3, BallisticMultiplier: 1.2},
			{Structure: "subacromial_bursa", BaseStress: 6, EccentricMultiplier: 1.2, BallisticMultiplier: 1},
			{Structure: "elbow_extensor_tendons", BaseStress: 5, EccentricMultiplier: 1.2, BallisticMultiplier: 1},
		},
		"overhead_press": {
			{Structure: "rotator_cuff_tendons", BaseStress: 10, EccentricMultiplier: 1.2, BallisticMultiplier: 1.3},
			{Structure: "subacromial_bursa", BaseStress: 8, EccentricMultiplier: 1.2, BallisticMultiplier: 1.2},
			{Structure: "elbow_extensor_tendons", BaseStress: 5, EccentricMultiplier: 1.1, BallisticMultiplier: 1},
		},
		"dip": {
			{Structure: "rotator_cuff_tendons", BaseStress: 9, EccentricMultiplier: 1.4, BallisticMultiplier: 1},
			{Structure: "biceps_tendon", BaseStress: 8, EccentricMultiplier: 1.4, BallisticMultiplier: 1},
			{Structure: "elbow_extensor_tendons", BaseStress: 7, EccentricMultiplier: 1.3, BallisticMultiplier: 1},
		},
		"barbell_row": {
			{Structure: "lumbar_discs", BaseStress: 8, EccentricMultiplier: 1.2, BallisticMultiplier: 1.2},
			{Structure: "biceps_tendon", BaseStress: 5, EccentricMultiplier: 1.2, BallisticMultiplier: 1.2},
			{Structure: "wrist_flexor_tendons", BaseStress: 4, EccentricMultiplier: 1, BallisticMultiplier: 1},
		},
		"pull_up": {
			{Structure: "biceps_tendon", BaseStress: 7, EccentricMultiplier: 1.4, BallisticMultiplier: 1.3},
			{Structure: "rotator_cuff_tendons", BaseStress: 5, EccentricMultiplier: 1.3, BallisticMultiplier: 1.2},
			{Structure: "ucl", BaseStress: 4, EccentricMultiplier: 1.3, BallisticMultiplier: 1.4},
			{Structure: "wrist_flexor_tendons", BaseStress: 4, EccentricMultiplier: 1.1, BallisticMultiplier: 1},
		},
		"lat_pulldown": {
			{Structure: "biceps_tendon", BaseStress: 4, EccentricMultiplier: 1.2, BallisticMultiplier: 1},
			{Structure: "rotator_cuff_tendons", BaseStress: 3, EccentricMultiplier: 1.2, BallisticMultiplier: 1},
		},
		"walking_lunge": {
			{Structure: "patellar_tendon", BaseStress: 9, EccentricMultiplier: 1.5, BallisticMultiplier: 1.1},
			{Structure: "acl", BaseStress: 6, EccentricMultiplier: 1.3, BallisticMultiplier: 1.3},
			{Structure: "mcl", BaseStress: 5, EccentricMultiplier: 1.3, BallisticMultiplier: 1.3},
			{Structure: "achilles_tendon", BaseStress: 5, EccentricMultiplier: 1.3, BallisticMultiplier: 1.1},
		},
		"leg_press": {
			{Structure: "patellar_tendon", BaseStress: 9, EccentricMultiplier: 1.3, BallisticMultiplier: 1},
			{Structure: "knee_meniscus", BaseStress: 6, EccentricMultiplier: 1.2, BallisticMultiplier: 1},
			{Structure: "hip_labrum", BaseStress: 4, EccentricMultiplier: 1.2, BallisticMultiplier: 1},
		},
		"leg_extension": {
			{Structure: "patellar_tendon", BaseStress: 10, EccentricMultiplier: 1.4, BallisticMultiplier: 1},
			{Structure: "quadriceps_tendon", BaseStress: 8, EccentricMultiplier: 1.4, BallisticMultiplier: 1},
		},
		"leg_curl": {
			{Structure: "achilles_tendon", BaseStress: 3, EccentricMultiplier: 1.2, BallisticMultiplier: 1},
		},
		"standing_calf_raise": {
			{Structure: "achilles_tendon", BaseStress: 11, EccentricMultiplier: 1.5, BallisticMultiplier: 1.2},
		},
		"barbell_curl": {
			{Structure: "biceps_tendon", BaseStress: 7, EccentricMultiplier: 1.3, BallisticMultiplier: 1},
			{Structure: "wrist_flexor_tendons", BaseStress: 5, EccentricMultiplier: 1.1, BallisticMultiplier: 1},
		},
		"triceps_pushdown": {
			{Structure: "elbow_extensor_tendons", BaseStress: 7, EccentricMultiplier: 1.2, BallisticMultiplier: 1},
		},
		"lateral_raise": {
			{Structure: "subacromial_bursa", BaseStress: 6, EccentricMultiplier: 1.2, BallisticMultiplier: 1},
			{Structure: "rotator_cuff_tendons", BaseStress: 5, EccentricMultiplier: 1.2, BallisticMultiplier: 1},
		},
		"face_pull": {
			{Structure: "rotator_cuff_tendons", BaseStress: 3, EccentricMultiplier: 1.1, BallisticMultiplier: 1},
		},
		"hanging_leg_raise": {
			{Structure: "hip_labrum", BaseStress: 5, EccentricMultiplier: 1.2, BallisticMultiplier: 1.1},
		},
		"back_extension": {
			{Structure: "lumbar_discs", BaseStress: 6, EccentricMultiplier: 1.3, BallisticMultiplier: 1},
		},
	}
}
