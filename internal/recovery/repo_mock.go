package recovery

import (
	"context"
	"sync"
	"time"

	"github.com/ironpulse/recoverd/internal/recovery/calibration"
	"github.com/ironpulse/recoverd/internal/recovery/snapshot"
	"github.com/ironpulse/recoverd/internal/recovery/training"
)

var _ observationsRepo = (*observationsRepoMock)(nil)
var _ observationRecorder = (*observationsRepoMock)(nil)

type observationsRepoMock struct {
	mutex        sync.Mutex
	Observations []training.Observation
	Err          error
}

func newObservationsRepoMock(observations ...training.Observation) *observationsRepoMock {
	return &observationsRepoMock{
		Observations: observations,
	}
}

func (r *observationsRepoMock) Add(_ context.Context, observation training.Observation) (*training.Observation, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	if err := observation.Validate(); err != nil {
		return nil, err
	}

	observation.ID = len(r.Observations) + 1
	r.Observations = append(r.Observations, observation)
	return &observation, nil
}

func (r *observationsRepoMock) ListForUser(_ context.Context, userID int, from, to time.Time) ([]training.Observation, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}

	var out []training.Observation
	for _, o := range r.Observations {
		if o.UserID != userID || o.CreatedAt.Before(from) || !o.CreatedAt.Before(to) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

var _ halfLifeSource = (*halfLifeSourceMock)(nil)

type halfLifeSourceMock struct {
	Res *calibration.Resolver
	Err error
}

func (s *halfLifeSourceMock) Resolver(_ context.Context, _ int) (*calibration.Resolver, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Res != nil {
		return s.Res, nil
	}
	return &calibration.Resolver{}, nil
}

var _ snapshotStore = (*snapshotStoreMock)(nil)
var _ snapshotInvalidator = (*snapshotStoreMock)(nil)

type snapshotStoreMock struct {
	mutex     sync.Mutex
	Snapshots map[int][]byte
	SaveErr   error
	GetErr    error
}

func newSnapshotStoreMock() *snapshotStoreMock {
	return &snapshotStoreMock{
		Snapshots: make(map[int][]byte),
	}
}

func (s *snapshotStoreMock) Save(_ context.Context, userID int, payload []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.Snapshots[userID] = payload
	return nil
}

func (s *snapshotStoreMock) Get(_ context.Context, userID int) ([]byte, bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.GetErr != nil {
		return nil, false, s.GetErr
	}
	payload, ok := s.Snapshots[userID]
	if !ok {
		return nil, false, snapshot.ErrSnapshotNotFound
	}
	return payload, false, nil
}

func (s *snapshotStoreMock) Invalidate(_ context.Context, userID int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.Snapshots, userID)
	return nil
}

var _ calibrator = (*calibratorMock)(nil)

type calibratorMock struct {
	mutex  sync.Mutex
	Params map[string]*calibration.Parameter
	Err    error
}

func newCalibratorMock() *calibratorMock {
	return &calibratorMock{
		Params: make(map[string]*calibration.Parameter),
	}
}

func (c *calibratorMock) Observe(
	_ context.Context, userID int, name string, observed, confidence float64,
) (*calibration.Parameter, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.Err != nil {
		return nil, c.Err
	}

	p, ok := c.Params[name]
	if !ok {
		p = calibration.NewParameter(userID, name, observed, observed*observed/16)
		c.Params[name] = p
	}
	p.Update(observed, confidence, calibration.DefaultAnomalySigma)
	return p, nil
}

func (c *calibratorMock) Parameters(_ context.Context, userID int) ([]calibration.Parameter, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.Err != nil {
		return nil, c.Err
	}

	var out []calibration.Parameter
	for _, p := range c.Params {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}
