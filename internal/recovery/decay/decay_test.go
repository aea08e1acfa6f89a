package decay

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDecay_HalfLifeHalvesValue(t *testing.T) {
	for _, halfLife := range []float64{0.05, 1, 3, 24, 48, 72, 480} {
		got := Decay(100, halfLife, halfLife)
		assert.InDeltaf(t, 50, got, 1e-6, "half life %f", halfLife)
	}
}

func TestDecay(t *testing.T) {
	testCases := []struct {
		name     string
		initial  float64
		halfLife float64
		elapsed  float64
		want     float64
	}{
		{name: "no elapsed time", initial: 80, halfLife: 48, elapsed: 0, want: 80},
		{name: "two half lives", initial: 80, halfLife: 24, elapsed: 48, want: 20},
		{name: "negative elapsed returns initial", initial: 65, halfLife: 48, elapsed: -3, want: 65},
		{name: "zero initial", initial: 0, halfLife: 48, elapsed: 10, want: 0},
		{name: "zero half life", initial: 50, halfLife: 0, elapsed: 1, want: 0},
		{name: "one hour on 48h half life", initial: 100, halfLife: 48, elapsed: 1, want: 100 * math.Exp(-math.Ln2/48)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Decay(tc.initial, tc.halfLife, tc.elapsed), 1e-9)
		})
	}
}

func TestSuperpose_SumsIndependentDecays(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	events := []Event{
		{Initial: 40, At: now.Add(-24 * time.Hour)},
		{Initial: 30, At: now.Add(-48 * time.Hour)},
	}

	want := Decay(40, 24, 24) + Decay(30, 24, 48)
	assert.InDelta(t, want, Superpose(events, 24, now), 1e-9)
}

func TestSuperpose_CappedAtMax(t *testing.T) {
	now := time.Now()
	events := []Event{
		{Initial: 90, At: now},
		{Initial: 90, At: now},
	}
	assert.InDelta(t, MaxLevel, Superpose(events, 48, now), 1e-9)
}

func TestSuperpose_EmptyEvents(t *testing.T) {
	assert.Zero(t, Superpose(nil, 48, time.Now()))
}

func TestSuperpose_MonotonicInInitial(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	at := now.Add(-12 * time.Hour)

	prev := 0.0
	for initial := 5.0; initial <= 50; initial += 5 {
		got := Superpose([]Event{{Initial: initial, At: at}}, 48, now)
		assert.Greater(t, got, prev)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, float64(MaxLevel))
		prev = got
	}
}

func TestSuperpose_NonIncreasingInElapsedTime(t *testing.T) {
	start := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	events := []Event{
		{Initial: 60, At: start},
		{Initial: 25, At: start.Add(-30 * time.Hour)},
	}

	prev := math.Inf(1)
	for h := 0; h <= 96; h += 6 {
		got := Superpose(events, 48, start.Add(time.Duration(h)*time.Hour))
		assert.LessOrEqual(t, got, prev)
		prev = got
	}
}

func TestSuperpose_FutureEventNotAmplified(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	events := []Event{{Initial: 35, At: now.Add(2 * time.Hour)}}
	assert.InDelta(t, 35, Superpose(events, 48, now), 1e-9)
}

func TestHoursToDecayBelow(t *testing.T) {
	// 80 -> 5 with 48h half life: 48 * log2(16) = 192h
	assert.InDelta(t, 192, HoursToDecayBelow(80, 48, 5), 1e-9)

	// already below the floor
	assert.Zero(t, HoursToDecayBelow(3, 48, 5))
	assert.Zero(t, HoursToDecayBelow(0, 48, 5))
}
