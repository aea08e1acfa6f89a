package recovery

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/ironpulse/recoverd/internal/recovery/calibration"
	"github.com/ironpulse/recoverd/internal/recovery/energy"
	"github.com/ironpulse/recoverd/internal/recovery/fatigue"
	"github.com/ironpulse/recoverd/internal/recovery/lifestyle"
	"github.com/ironpulse/recoverd/internal/recovery/reference"
	"github.com/ironpulse/recoverd/internal/recovery/risk"
	"github.com/ironpulse/recoverd/internal/recovery/tissue"
	"github.com/ironpulse/recoverd/internal/recovery/training"
	"github.com/ironpulse/recoverd/internal/telemetry/metrics"
	"github.com/ironpulse/recoverd/internal/telemetry/tracing"
)

type observationsRepo interface {
	ListForUser(ctx context.Context, userID int, from, to time.Time) ([]training.Observation, error)
}

type halfLifeSource interface {
	Resolver(ctx context.Context, userID int) (*calibration.Resolver, error)
}

type snapshotStore interface {
	Save(ctx context.Context, userID int, payload []byte) error
	Get(ctx context.Context, userID int) (payload []byte, fromFallback bool, err error)
}

// DefaultLookbackDays bounds how much history feeds an assessment.
const DefaultLookbackDays = 90

// FallbackRecovery is the neutral recovery score reported when history
// cannot be fetched.
const FallbackRecovery = 50

// Engine computes assessments. It holds no per-user state: every
// assessment is derived from the observation log and the calibration
// store at call time, so concurrent calls for different users need no
// coordination.
type Engine struct {
	repo         observationsRepo
	halfLives    halfLifeSource
	snapshots    snapshotStore
	tables       *reference.Tables
	metrics      *metrics.Manager
	lookbackDays int

	now func() time.Time
}

func NewEngine(
	repo observationsRepo,
	halfLives halfLifeSource,
	snapshots snapshotStore,
	tables *reference.Tables,
	metricsManager *metrics.Manager,
	lookbackDays int,
) *Engine {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	return &Engine{
		repo:         repo,
		halfLives:    halfLives,
		snapshots:    snapshots,
		tables:       tables,
		metrics:      metricsManager,
		lookbackDays: lookbackDays,
		now:          time.Now,
	}
}

// Assess computes a fresh assessment for the user. A history-fetch
// failure degrades to a neutral fallback assessment rather than an
// error; only marshaling-level problems surface as errors.
func (e *Engine) Assess(ctx context.Context, userID int, c lifestyle.Context) (_ *Assessment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "recovery.assess")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	timer := prometheus.NewTimer(e.metrics.HistAssessmentDuration)
	defer timer.ObserveDuration()

	now := e.now()

	observations, err := e.repo.ListForUser(ctx, userID, now.AddDate(0, 0, -e.lookbackDays), now)
	if err != nil {
		log.Errorf("assess user %d: fetch history: %s", userID, err)
		e.metrics.CounterFallbackAssessments.Inc()
		return e.fallbackAssessment(userID, c, now), nil
	}

	assessment := e.compute(ctx, userID, observations, c, now)

	e.metrics.CounterAssessments.Inc()
	e.persistSnapshot(ctx, assessment)
	return assessment, nil
}

func (e *Engine) compute(
	ctx context.Context,
	userID int,
	observations []training.Observation,
	c lifestyle.Context,
	now time.Time,
) *Assessment {
	var warnings []string

	var halfLives fatigue.HalfLives = fatigue.ReferenceHalfLives
	resolver, err := e.halfLives.Resolver(ctx, userID)
	if err != nil {
		log.Errorf("assess user %d: load calibration: %s", userID, err)
		warnings = append(warnings, "calibration unavailable, using population half-lives")
	} else if resolver.Calibrated() {
		halfLives = resolver
	}

	lifestyleAssessment := lifestyle.Assess(c, now)

	// the three state builders are pure and independent
	var (
		wg        sync.WaitGroup
		muscles   map[string]*fatigue.MuscleState
		exercises map[string]*fatigue.ExerciseState
		tissues   map[string]*tissue.State
		substrate map[string]*energy.State
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		builder := fatigue.NewBuilder(e.tables, halfLives)
		muscles = builder.BuildMuscles(observations, now)
		fatigue.Propagate(muscles, e.tables.Spillover(), e.tables, halfLives, now)
		exercises = builder.BuildExercises(observations, muscles, now)
	}()
	go func() {
		defer wg.Done()
		tissues = tissue.NewTracker(e.tables).Build(observations, now)
	}()
	go func() {
		defer wg.Done()
		substrate = energy.NewTracker(e.tables).Build(observations, nutritionQuality(lifestyleAssessment), now)
	}()
	wg.Wait()

	for name, state := range exercises {
		if state.LowConfidence {
			warnings = append(warnings, fmt.Sprintf("exercise %s not in reference tables", name))
		}
	}

	riskAssessment := risk.NewAggregator(e.tables).Assess(risk.Inputs{
		Observations: observations,
		Muscles:      muscles,
		Tissues:      tissues,
		Energy:       substrate,
		Capacity:     lifestyleAssessment.Overall,
	}, now)

	quality := dataQuality(c)
	return &Assessment{
		ID:              uuid.New(),
		UserID:          userID,
		ComputedAt:      now,
		Muscles:         muscles,
		Exercises:       exercises,
		Tissues:         tissues,
		Energy:          substrate,
		OverallRecovery: e.overallRecovery(muscles),
		Lifestyle:       lifestyleAssessment,
		Risk:            riskAssessment,
		DataQuality:     quality,
		Confidence:      quality.Confidence(),
		Warnings:        warnings,
	}
}

// fallbackAssessment is the neutral answer when no history is
// available: nothing alarming, nothing reassuring, clearly marked.
func (e *Engine) fallbackAssessment(userID int, c lifestyle.Context, now time.Time) *Assessment {
	return &Assessment{
		ID:              uuid.New(),
		UserID:          userID,
		ComputedAt:      now,
		OverallRecovery: FallbackRecovery,
		Lifestyle:       lifestyle.Assess(c, now),
		Risk: risk.Assessment{
			ACWR:         risk.NeutralACWR,
			Level:        risk.LevelLow,
			SafeToResume: now,
		},
		DataQuality: DataQualityLow,
		Confidence:  DataQualityLow.Confidence(),
		Warnings:    []string{"training history unavailable, neutral assessment"},
		Fallback:    true,
	}
}

// Snapshot returns the cached assessment, unmarshaled; a copy served
// from the last-known-good cache is marked stale.
func (e *Engine) Snapshot(ctx context.Context, userID int) (_ *Assessment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "recovery.snapshot")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	payload, fromFallback, err := e.snapshots.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	var assessment Assessment
	if err := json.Unmarshal(payload, &assessment); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	assessment.Stale = fromFallback
	return &assessment, nil
}

func (e *Engine) persistSnapshot(ctx context.Context, assessment *Assessment) {
	payload, err := json.Marshal(assessment)
	if err != nil {
		log.Errorf("assess user %d: marshal snapshot: %s", assessment.UserID, err)
		return
	}
	if err := e.snapshots.Save(ctx, assessment.UserID, payload); err != nil {
		log.Errorf("assess user %d: save snapshot: %s", assessment.UserID, err)
	}
}

// overallRecovery is the mass-weighted average muscle recovery; a user
// with no trained muscles is simply fresh.
func (e *Engine) overallRecovery(muscles map[string]*fatigue.MuscleState) float64 {
	if len(muscles) == 0 {
		return 100
	}

	var sum, mass float64
	for name, state := range muscles {
		weight := 0.3
		if m, ok := e.tables.MuscleByName(name); ok {
			weight = m.Mass
		}
		sum += state.Recovery * weight
		mass += weight
	}
	return sum / mass
}

// nutritionQuality projects the lifestyle nutrition factor onto [0, 1]
// for the glycogen refill model.
func nutritionQuality(a lifestyle.Assessment) float64 {
	for _, f := range a.Factors {
		if f.Name == "nutrition" {
			quality := (f.Value - 0.7) / (1.15 - 0.7)
			if quality < 0 {
				return 0
			}
			if quality > 1 {
				return 1
			}
			return quality
		}
	}
	return 0.7
}

// dataQuality grades how many context categories were provided.
func dataQuality(c lifestyle.Context) DataQuality {
	categories := 0
	if len(c.Sleep) > 0 {
		categories++
	}
	if len(c.Nutrition) > 0 {
		categories++
	}
	if len(c.Stress) > 0 {
		categories++
	}
	if c.Demographics != nil {
		categories++
	}
	if len(c.Cycle) > 0 {
		categories++
	}

	switch {
	case categories >= 3:
		return DataQualityHigh
	case categories >= 1:
		return DataQualityMedium
	default:
		return DataQualityLow
	}
}
