package risk

import (
	"time"

	"github.com/ironpulse/recoverd/internal/recovery/training"
)

const (
	// AcuteWindowDays and ChronicWindowDays are the rolling windows for
	// the acute:chronic workload ratio.
	AcuteWindowDays   = 7
	ChronicWindowDays = 28

	// NeutralACWR is reported when there is no chronic baseline to
	// compare against.
	NeutralACWR = 1.0
)

// ACWR computes the acute:chronic workload ratio: the average daily
// effective volume over the last 7 days against the average over the
// last 28. No chronic baseline means no basis for a ratio, so it comes
// back neutral rather than infinite.
func ACWR(observations []training.Observation, now time.Time) float64 {
	acuteCutoff := now.AddDate(0, 0, -AcuteWindowDays)
	chronicCutoff := now.AddDate(0, 0, -ChronicWindowDays)

	var acute, chronic float64
	for _, obs := range observations {
		if obs.CreatedAt.After(now) || obs.CreatedAt.Before(chronicCutoff) {
			continue
		}
		volume := obs.EffectiveVolume()
		chronic += volume
		if !obs.CreatedAt.Before(acuteCutoff) {
			acute += volume
		}
	}

	chronicDaily := chronic / ChronicWindowDays
	if chronicDaily == 0 {
		return NeutralACWR
	}
	return (acute / AcuteWindowDays) / chronicDaily
}

// WorkloadScore maps the ratio through a fixed non-linear table. The
// 0.8-1.1 band is the sweet spot; under 0.8 scores as mild detraining
// risk since a detrained athlete spikes easily.
func WorkloadScore(ratio float64) float64 {
	switch {
	case ratio >= 2.0:
		return 90
	case ratio >= 1.5:
		return 75
	case ratio >= 1.3:
		return 55
	case ratio >= 1.1:
		return 30
	case ratio >= 0.8:
		return 0
	default:
		return 25
	}
}
