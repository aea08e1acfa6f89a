// Package calibration learns per-user recovery parameters from
// observed outcomes. Every parameter starts at a population prior and
// is refined with conjugate normal-normal updates as evidence arrives.
package calibration

import (
	"fmt"
	"math"
	"time"
)

// State names how far along the calibration ladder a parameter is.
type State string

const (
	StateUninitialized  State = "uninitialized"
	StatePopulationOnly State = "population_only"
	StateCalibrating    State = "calibrating"
	StateCalibrated     State = "calibrated"
)

const (
	// calibratedMinObservations is the evidence count needed before a
	// parameter can be considered settled.
	calibratedMinObservations = 5

	// calibratedMaxRelUncertainty is the posterior-std over
	// posterior-mean ceiling for the calibrated state.
	calibratedMaxRelUncertainty = 0.15

	// DefaultAnomalySigma flags observations further than this many
	// predictive standard deviations from the posterior mean.
	DefaultAnomalySigma = 3
)

// MuscleParam and ExerciseParam build the canonical parameter names.
func MuscleParam(muscle string) string {
	return fmt.Sprintf("muscle_half_life:%s", muscle)
}

func ExerciseParam(exercise string) string {
	return fmt.Sprintf("exercise_half_life:%s", exercise)
}

// Parameter is one per-user learned value, currently always a recovery
// half-life in hours. The posterior starts equal to the population
// prior and tightens with every observation.
type Parameter struct {
	UserID             int       `json:"userId"`
	Name               string    `json:"name"`
	PopulationMean     float64   `json:"populationMean"`
	PopulationVariance float64   `json:"populationVariance"`
	PosteriorMean      float64   `json:"posteriorMean"`
	PosteriorVariance  float64   `json:"posteriorVariance"`
	Observations       int       `json:"observations"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// NewParameter seeds a parameter at its population prior.
func NewParameter(userID int, name string, popMean, popVariance float64) *Parameter {
	return &Parameter{
		UserID:             userID,
		Name:               name,
		PopulationMean:     popMean,
		PopulationVariance: popVariance,
		PosteriorMean:      popMean,
		PosteriorVariance:  popVariance,
	}
}

// Update folds one observed value into the posterior. confidence in
// (0, 1] scales the observation's weight: the data variance is the
// population variance divided by confidence, so low-confidence
// observations move the posterior less. Returns true when the
// observation sits more than sigmaLimit population standard deviations
// from the population mean; the update is applied either way, so a run
// of genuine outliers still shifts the posterior while a lone one
// barely moves it.
func (p *Parameter) Update(observed, confidence, sigmaLimit float64) bool {
	if confidence <= 0 {
		confidence = 1e-3
	} else if confidence > 1 {
		confidence = 1
	}
	dataVariance := p.PopulationVariance / confidence

	populationStd := math.Sqrt(p.PopulationVariance)
	anomaly := populationStd > 0 &&
		math.Abs(observed-p.PopulationMean) > sigmaLimit*populationStd

	priorPrecision := 1 / p.PosteriorVariance
	dataPrecision := 1 / dataVariance
	precision := priorPrecision + dataPrecision

	p.PosteriorMean = (p.PosteriorMean*priorPrecision + observed*dataPrecision) / precision
	p.PosteriorVariance = 1 / precision
	p.Observations++

	return anomaly
}

// RelativeUncertainty is the posterior standard deviation relative to
// the posterior mean.
func (p *Parameter) RelativeUncertainty() float64 {
	if p.PosteriorMean == 0 {
		return math.Inf(1)
	}
	return math.Sqrt(p.PosteriorVariance) / math.Abs(p.PosteriorMean)
}

// State derives the ladder position from the evidence count and the
// posterior's relative uncertainty.
func (p *Parameter) State() State {
	switch {
	case p.PopulationMean == 0 && p.Observations == 0:
		return StateUninitialized
	case p.Observations == 0:
		return StatePopulationOnly
	case p.Observations >= calibratedMinObservations &&
		p.RelativeUncertainty() <= calibratedMaxRelUncertainty:
		return StateCalibrated
	default:
		return StateCalibrating
	}
}

// Confidence maps evidence count and posterior tightness to (0, 1],
// for weighting calibrated values downstream.
func (p *Parameter) Confidence() float64 {
	countScore := math.Min(float64(p.Observations)/float64(2*calibratedMinObservations), 1)
	uncScore := 1 - p.RelativeUncertainty()/0.5
	if uncScore < 0 {
		uncScore = 0
	}
	conf := math.Min(countScore, uncScore)
	if conf < 0.1 {
		conf = 0.1
	}
	return conf
}
