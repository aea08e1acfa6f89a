package recovery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironpulse/recoverd/internal/recovery/calibration"
	"github.com/ironpulse/recoverd/internal/recovery/training"
)

func newTestHandler(repo *observationsRepoMock) (*Handler, *calibratorMock) {
	engine, snapshots := newTestEngine(repo)
	calibratorMock := newCalibratorMock()
	return NewHandler(engine, calibratorMock, repo, snapshots), calibratorMock
}

func testRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/recovery/assess", h.HandleAssess).Methods("POST")
	r.HandleFunc("/recovery/assessment/{userID}", h.HandleGetAssessment).Methods("GET")
	r.HandleFunc("/recovery/observation", h.HandleAddObservation).Methods("POST")
	r.HandleFunc("/recovery/calibration/observation", h.HandleCalibrationObservation).Methods("POST")
	r.HandleFunc("/recovery/parameters/{userID}", h.HandleGetParameters).Methods("GET")
	return r
}

func TestHandler_Assess(t *testing.T) {
	now := time.Now()
	handler, _ := newTestHandler(newObservationsRepoMock(training.Observation{
		UserID: 7, Exercise: "back_squat", Sets: 5, Reps: 5,
		Kilos: 120, Effort: 9, CreatedAt: now.Add(-36 * time.Hour),
	}))
	router := testRouter(handler)

	body, err := json.Marshal(AssessRequest{UserID: 7})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/recovery/assess", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var assessment Assessment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &assessment))
	assert.Equal(t, 7, assessment.UserID)
	assert.Contains(t, assessment.Muscles, "quads")
	assert.False(t, assessment.Fallback)
}

func TestHandler_Assess_InvalidRequests(t *testing.T) {
	handler, _ := newTestHandler(newObservationsRepoMock())
	router := testRouter(handler)

	// missing content type
	req := httptest.NewRequest("POST", "/recovery/assess", bytes.NewReader([]byte(`{"userId":7}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// invalid user id
	req = httptest.NewRequest("POST", "/recovery/assess", bytes.NewReader([]byte(`{"userId":0}`)))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// garbage body
	req = httptest.NewRequest("POST", "/recovery/assess", bytes.NewReader([]byte(`{not-json`)))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_GetAssessment_ComputesWhenNotCached(t *testing.T) {
	now := time.Now()
	handler, _ := newTestHandler(newObservationsRepoMock(training.Observation{
		UserID: 7, Exercise: "deadlift", Sets: 3, Reps: 5,
		Kilos: 180, Effort: 9, CreatedAt: now.Add(-48 * time.Hour),
	}))
	router := testRouter(handler)

	req := httptest.NewRequest("GET", "/recovery/assessment/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var assessment Assessment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &assessment))
	assert.Equal(t, 7, assessment.UserID)
	assert.Contains(t, assessment.Muscles, "hamstrings")

	// second request hits the cache populated by the first
	req = httptest.NewRequest("GET", "/recovery/assessment/7", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var cached Assessment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cached))
	assert.Equal(t, assessment.ID, cached.ID)
}

func TestHandler_GetAssessment_InvalidUserID(t *testing.T) {
	handler, _ := newTestHandler(newObservationsRepoMock())
	router := testRouter(handler)

	req := httptest.NewRequest("GET", "/recovery/assessment/zero", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_CalibrationObservation(t *testing.T) {
	handler, calibratorMock := newTestHandler(newObservationsRepoMock())
	router := testRouter(handler)

	body, err := json.Marshal(CalibrationObservationRequest{
		UserID:     7,
		Parameter:  calibration.MuscleParam("quads"),
		Observed:   70,
		Confidence: 0.8,
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/recovery/calibration/observation", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var parameter calibration.Parameter
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &parameter))
	assert.Equal(t, 1, parameter.Observations)
	assert.Contains(t, calibratorMock.Params, calibration.MuscleParam("quads"))
}

func TestHandler_CalibrationObservation_Invalid(t *testing.T) {
	handler, _ := newTestHandler(newObservationsRepoMock())
	router := testRouter(handler)

	for name, body := range map[string]string{
		"missing parameter": `{"userId":7,"observed":70}`,
		"missing user":      `{"parameter":"muscle_half_life:quads","observed":70}`,
		"zero observed":     `{"userId":7,"parameter":"muscle_half_life:quads"}`,
	} {
		req := httptest.NewRequest("POST", "/recovery/calibration/observation", bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestHandler_GetParameters(t *testing.T) {
	handler, calibratorMock := newTestHandler(newObservationsRepoMock())
	router := testRouter(handler)

	for i, muscle := range []string{"quads", "hamstrings"} {
		_, err := calibratorMock.Observe(
			httptest.NewRequest("GET", "/", nil).Context(),
			7, calibration.MuscleParam(muscle), float64(60+i*10), 0.8,
		)
		require.NoError(t, err)
	}

	req := httptest.NewRequest("GET", "/recovery/parameters/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ParametersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Parameters, 2)
}

func TestHandler_GetParameters_Error(t *testing.T) {
	handler, calibratorMock := newTestHandler(newObservationsRepoMock())
	calibratorMock.Err = fmt.Errorf("store down")
	router := testRouter(handler)

	req := httptest.NewRequest("GET", "/recovery/parameters/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandler_AddObservation(t *testing.T) {
	repo := newObservationsRepoMock()
	handler, _ := newTestHandler(repo)
	router := testRouter(handler)

	body, err := json.Marshal(training.Observation{
		UserID: 7, Exercise: "back_squat", Sets: 5, Reps: 5,
		Kilos: 120, Effort: 8.5, CreatedAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/recovery/observation", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var added training.Observation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))
	assert.Equal(t, 1, added.ID)
	assert.Len(t, repo.Observations, 1)
}

func TestHandler_AddObservation_InvalidatesSnapshot(t *testing.T) {
	now := time.Now()
	repo := newObservationsRepoMock(training.Observation{
		UserID: 7, Exercise: "deadlift", Sets: 3, Reps: 5,
		Kilos: 180, Effort: 9, CreatedAt: now.Add(-48 * time.Hour),
	})
	handler, _ := newTestHandler(repo)
	router := testRouter(handler)

	req := httptest.NewRequest("GET", "/recovery/assessment/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var first Assessment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))

	body, err := json.Marshal(training.Observation{
		UserID: 7, Exercise: "back_squat", Sets: 5, Reps: 5,
		Kilos: 120, Effort: 8, CreatedAt: now.Add(-time.Hour),
	})
	require.NoError(t, err)

	req = httptest.NewRequest("POST", "/recovery/observation", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	// cached assessment was dropped, so this one is freshly computed
	req = httptest.NewRequest("GET", "/recovery/assessment/7", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var second Assessment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.NotEqual(t, first.ID, second.ID)
	assert.Contains(t, second.Muscles, "quads")
}

func TestHandler_AddObservation_InvalidRequests(t *testing.T) {
	handler, _ := newTestHandler(newObservationsRepoMock())
	router := testRouter(handler)

	// missing content type
	req := httptest.NewRequest("POST", "/recovery/observation", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// effort outside the allowed band
	body, err := json.Marshal(training.Observation{
		UserID: 7, Exercise: "back_squat", Sets: 5, Reps: 5,
		Kilos: 120, Effort: 12, CreatedAt: time.Now(),
	})
	require.NoError(t, err)

	req = httptest.NewRequest("POST", "/recovery/observation", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
