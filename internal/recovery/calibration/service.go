package calibration

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ironpulse/recoverd/internal/recovery/reference"
	"github.com/ironpulse/recoverd/internal/telemetry/metrics"
	"github.com/ironpulse/recoverd/internal/telemetry/tracing"
)

// populationRelStd seeds the prior variance relative to the reference
// table mean: half-lives across a population spread roughly a quarter
// of their mean.
const populationRelStd = 0.25

type parameterStore interface {
	Get(ctx context.Context, userID int, name string) (*Parameter, error)
	ListForUser(ctx context.Context, userID int) ([]Parameter, error)
	Save(ctx context.Context, p Parameter) error
}

// Service serializes calibration updates per user and resolves learned
// half-lives for the fatigue models.
type Service struct {
	store        parameterStore
	tables       *reference.Tables
	metrics      *metrics.Manager
	anomalySigma float64

	mutexesMux sync.Mutex
	mutexes    map[int]*sync.Mutex
}

func NewService(
	store parameterStore,
	tables *reference.Tables,
	metricsManager *metrics.Manager,
	anomalySigma float64,
) *Service {
	if anomalySigma <= 0 {
		anomalySigma = DefaultAnomalySigma
	}
	return &Service{
		store:        store,
		tables:       tables,
		metrics:      metricsManager,
		anomalySigma: anomalySigma,
		mutexes:      map[int]*sync.Mutex{},
	}
}

func (s *Service) userMutex(userID int) *sync.Mutex {
	s.mutexesMux.Lock()
	defer s.mutexesMux.Unlock()
	mutex, ok := s.mutexes[userID]
	if !ok {
		mutex = &sync.Mutex{}
		s.mutexes[userID] = mutex
	}
	return mutex
}

// Observe folds one observed half-life value into the user's parameter.
// The parameter is created at its population prior on first contact.
// Anomalous observations (beyond the configured sigma limit) are
// counted and logged, then incorporated like any other evidence: a run
// of them shifts the posterior, a lone outlier barely moves it.
func (s *Service) Observe(
	ctx context.Context,
	userID int,
	name string,
	observed, confidence float64,
) (_ *Parameter, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "calibration.observe")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	mutex := s.userMutex(userID)
	mutex.Lock()
	defer mutex.Unlock()

	parameter, err := s.store.Get(ctx, userID, name)
	switch {
	case errors.Is(err, ErrParameterNotFound):
		mean, variance, priorErr := s.prior(name)
		if priorErr != nil {
			return nil, priorErr
		}
		parameter = NewParameter(userID, name, mean, variance)
	case err != nil:
		return nil, err
	}

	if anomaly := parameter.Update(observed, confidence, s.anomalySigma); anomaly {
		s.metrics.CounterCalibrationAnomalies.Inc()
		log.Warnf(
			"calibration: anomalous observation %.2f for user %d parameter %s (posterior %.2f)",
			observed, userID, name, parameter.PosteriorMean,
		)
	}
	parameter.UpdatedAt = time.Now()

	if err := s.store.Save(ctx, *parameter); err != nil {
		return nil, err
	}

	s.metrics.CounterCalibrationUpdates.Inc()
	return parameter, nil
}

// Parameters lists everything learned for the user so far.
func (s *Service) Parameters(ctx context.Context, userID int) ([]Parameter, error) {
	return s.store.ListForUser(ctx, userID)
}

// prior resolves the population prior for a parameter name from the
// reference tables.
func (s *Service) prior(name string) (mean, variance float64, err error) {
	for _, muscle := range s.tables.Muscles() {
		if MuscleParam(muscle.Name) == name {
			return muscle.HalfLifeHours, relVariance(muscle.HalfLifeHours), nil
		}
	}
	for _, exercise := range s.tables.Exercises() {
		if ExerciseParam(exercise.Name) == name {
			return exercise.HalfLifeHours, relVariance(exercise.HalfLifeHours), nil
		}
	}
	return 0, 0, errors.New("unknown calibration parameter: " + name)
}

func relVariance(mean float64) float64 {
	std := mean * populationRelStd
	return std * std
}

// Resolver materializes the user's calibrated half-lives as a
// fatigue.HalfLives implementation. Parameters still at their
// population prior fall through to the reference value.
func (s *Service) Resolver(ctx context.Context, userID int) (*Resolver, error) {
	parameters, err := s.store.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]Parameter, len(parameters))
	for _, p := range parameters {
		if p.State() == StateCalibrating || p.State() == StateCalibrated {
			byName[p.Name] = p
		}
	}

	return &Resolver{parameters: byName}, nil
}

// Resolver answers half-life lookups from calibrated parameters,
// falling back to the reference value otherwise.
type Resolver struct {
	parameters map[string]Parameter
}

func (r *Resolver) MuscleHalfLife(muscle string, fallback float64) float64 {
	if p, ok := r.parameters[MuscleParam(muscle)]; ok {
		return p.PosteriorMean
	}
	return fallback
}

func (r *Resolver) ExerciseHalfLife(exercise string, fallback float64) float64 {
	if p, ok := r.parameters[ExerciseParam(exercise)]; ok {
		return p.PosteriorMean
	}
	return fallback
}

// Calibrated reports whether any learned parameter backs this resolver.
func (r *Resolver) Calibrated() bool {
	return len(r.parameters) > 0
}
