package training

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validObservation() Observation {
	return Observation{
		UserID:    1,
		Exercise:  "back_squat",
		Sets:      5,
		Reps:      5,
		Kilos:     100,
		Effort:    8,
		CreatedAt: time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC),
	}
}

func TestObservation_Validate(t *testing.T) {
	require.NoError(t, validObservation().Validate())

	testCases := []struct {
		name   string
		mutate func(o *Observation)
	}{
		{name: "empty exercise", mutate: func(o *Observation) { o.Exercise = "" }},
		{name: "invalid user", mutate: func(o *Observation) { o.UserID = 0 }},
		{name: "zero sets", mutate: func(o *Observation) { o.Sets = 0 }},
		{name: "negative sets", mutate: func(o *Observation) { o.Sets = -2 }},
		{name: "zero reps", mutate: func(o *Observation) { o.Reps = 0 }},
		{name: "negative kilos", mutate: func(o *Observation) { o.Kilos = -10 }},
		{name: "effort too low", mutate: func(o *Observation) { o.Effort = 5.5 }},
		{name: "effort too high", mutate: func(o *Observation) { o.Effort = 10.5 }},
		{name: "zero timestamp", mutate: func(o *Observation) { o.CreatedAt = time.Time{} }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			o := validObservation()
			tc.mutate(&o)
			err := o.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidObservation)
		})
	}
}

func TestObservation_Volume(t *testing.T) {
	o := validObservation()
	assert.InDelta(t, 2500, o.Volume(), 1e-9)
}

func TestObservation_EffortFactor(t *testing.T) {
	o := validObservation()

	o.Effort = 6
	assert.InDelta(t, 0.5, o.EffortFactor(), 1e-9)

	o.Effort = 8
	assert.InDelta(t, 0.75, o.EffortFactor(), 1e-9)

	o.Effort = 10
	assert.InDelta(t, 1.0, o.EffortFactor(), 1e-9)
}

func TestObservation_EffectiveVolume(t *testing.T) {
	o := validObservation()
	assert.InDelta(t, 2500*0.75, o.EffectiveVolume(), 1e-9)

	o.Effort = 10
	assert.InDelta(t, o.Volume(), o.EffectiveVolume(), 1e-9)
}

func TestObservation_Synthetic(t *testing.T) {
	faker := gofakeit.New(42)
	exercises := []string{"back_squat", "deadlift", "bench_press", "overhead_press", "barbell_row"}

	for i := 0; i < 200; i++ {
		o := Observation{
			UserID:   faker.Number(1, 1000),
			Exercise: exercises[faker.Number(0, len(exercises)-1)],
			Sets:     faker.Number(1, 10),
			Reps:     faker.Number(1, 30),
			Kilos:    faker.Float64Range(0, 300),
			Effort:   faker.Float64Range(MinEffort, MaxEffort),
			CreatedAt: faker.DateRange(
				time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			),
		}
		require.NoError(t, o.Validate())

		// effort never scales volume above raw tonnage or below half of it
		assert.LessOrEqual(t, o.EffectiveVolume(), o.Volume()+1e-9)
		assert.GreaterOrEqual(t, o.EffectiveVolume(), 0.5*o.Volume()-1e-9)
	}
}
