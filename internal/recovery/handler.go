package recovery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/ironpulse/recoverd/internal/recovery/calibration"
	"github.com/ironpulse/recoverd/internal/recovery/lifestyle"
	"github.com/ironpulse/recoverd/internal/recovery/snapshot"
	"github.com/ironpulse/recoverd/internal/recovery/training"
	"github.com/ironpulse/recoverd/internal/telemetry/tracing"
	"github.com/ironpulse/recoverd/pkg"
)

type assessmentEngine interface {
	Assess(ctx context.Context, userID int, c lifestyle.Context) (*Assessment, error)
	Snapshot(ctx context.Context, userID int) (*Assessment, error)
}

type calibrator interface {
	Observe(ctx context.Context, userID int, name string, observed, confidence float64) (*calibration.Parameter, error)
	Parameters(ctx context.Context, userID int) ([]calibration.Parameter, error)
}

type observationRecorder interface {
	Add(ctx context.Context, observation training.Observation) (*training.Observation, error)
}

type snapshotInvalidator interface {
	Invalidate(ctx context.Context, userID int) error
}

type AssessRequest struct {
	UserID  int               `json:"userId"`
	Context lifestyle.Context `json:"context"`
}

type CalibrationObservationRequest struct {
	UserID     int     `json:"userId"`
	Parameter  string  `json:"parameter"`
	Observed   float64 `json:"observed"`
	Confidence float64 `json:"confidence"`
}

type ParametersResponse struct {
	Parameters []calibration.Parameter `json:"parameters"`
}

type Handler struct {
	engine       assessmentEngine
	calibrator   calibrator
	observations observationRecorder
	snapshots    snapshotInvalidator
}

func NewHandler(
	engine assessmentEngine,
	calibrator calibrator,
	observations observationRecorder,
	snapshots snapshotInvalidator,
) *Handler {
	return &Handler{
		engine:       engine,
		calibrator:   calibrator,
		observations: observations,
		snapshots:    snapshots,
	}
}

// HandleAddObservation records a completed set group. A freshly recorded
// observation makes any cached assessment stale, so the snapshot for the
// user is dropped on success.
func (h *Handler) HandleAddObservation(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.recovery.addObservation")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var observation training.Observation
	if err := json.NewDecoder(r.Body).Decode(&observation); err != nil {
		log.Errorf("add observation, unmarshal json params: %s", err)
		http.Error(w, "add observation failed", http.StatusBadRequest)
		return
	}
	if observation.CreatedAt.IsZero() {
		observation.CreatedAt = time.Now()
	}

	added, err := h.observations.Add(ctx, observation)
	if err != nil {
		if errors.Is(err, training.ErrInvalidObservation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("add observation for user %d: %s", observation.UserID, err)
		http.Error(w, "add observation failed", http.StatusInternalServerError)
		return
	}

	if err := h.snapshots.Invalidate(ctx, added.UserID); err != nil {
		log.Warnf("invalidate snapshot for user %d: %s", added.UserID, err)
	}

	h.writeJSON(w, added, http.StatusCreated)
}

func (h *Handler) HandleAssess(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.recovery.assess")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req AssessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("assess, unmarshal json params: %s", err)
		http.Error(w, "assess failed", http.StatusBadRequest)
		return
	}
	if req.UserID <= 0 {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	assessment, err := h.engine.Assess(ctx, req.UserID, req.Context)
	if err != nil {
		log.Errorf("assess user %d: %s", req.UserID, err)
		http.Error(w, "assess failed", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, assessment, http.StatusOK)
}

// HandleGetAssessment serves the cached assessment; with nothing cached
// it computes a fresh one without contextual data.
func (h *Handler) HandleGetAssessment(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.recovery.getAssessment")
	defer span.End()

	userID, err := userIDParam(r)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	assessment, err := h.engine.Snapshot(ctx, userID)
	switch {
	case errors.Is(err, snapshot.ErrSnapshotNotFound):
		assessment, err = h.engine.Assess(ctx, userID, lifestyle.Context{})
		if err != nil {
			log.Errorf("get assessment, assess user %d: %s", userID, err)
			http.Error(w, "get assessment failed", http.StatusInternalServerError)
			return
		}
	case err != nil:
		log.Errorf("get assessment for user %d: %s", userID, err)
		http.Error(w, "get assessment failed", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, assessment, http.StatusOK)
}

func (h *Handler) HandleCalibrationObservation(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.recovery.calibrationObservation")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req CalibrationObservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("calibration observation, unmarshal json params: %s", err)
		http.Error(w, "calibration observation failed", http.StatusBadRequest)
		return
	}
	if req.UserID <= 0 || req.Parameter == "" || req.Observed <= 0 {
		http.Error(w, "invalid calibration observation", http.StatusBadRequest)
		return
	}

	parameter, err := h.calibrator.Observe(ctx, req.UserID, req.Parameter, req.Observed, req.Confidence)
	if err != nil {
		log.Errorf("calibration observation for user %d: %s", req.UserID, err)
		http.Error(w, "calibration observation failed", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, parameter, http.StatusCreated)
}

func (h *Handler) HandleGetParameters(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.recovery.getParameters")
	defer span.End()

	userID, err := userIDParam(r)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	parameters, err := h.calibrator.Parameters(ctx, userID)
	if err != nil {
		log.Errorf("get parameters for user %d: %s", userID, err)
		http.Error(w, "get parameters failed", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, ParametersResponse{Parameters: parameters}, http.StatusOK)
}

func (h *Handler) writeJSON(w http.ResponseWriter, payload any, statusCode int) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("failed to marshal response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, data, statusCode)
}

func userIDParam(r *http.Request) (int, error) {
	vars := mux.Vars(r)
	userID, err := strconv.Atoi(vars["userID"])
	if err != nil || userID <= 0 {
		return 0, errors.New("invalid user id")
	}
	return userID, nil
}
