// Package snapshot caches computed assessments keyed by user: redis
// with a short TTL for the hot path, an in-process freecache copy as a
// last-known-good fallback when redis is down or the entry expired.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coocood/freecache"
	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"

	"github.com/ironpulse/recoverd/internal/telemetry/metrics"
	"github.com/ironpulse/recoverd/internal/telemetry/tracing"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

const (
	// DefaultTTL keeps assessments fresh without recomputing on every
	// request.
	DefaultTTL = 30 * time.Minute

	// fallbackTTLSeconds keeps the in-process copy far longer than
	// redis: stale beats nothing when redis is unreachable.
	fallbackTTLSeconds = 24 * 60 * 60
)

type Store struct {
	rdb      redis.Cmdable
	fallback *freecache.Cache
	ttl      time.Duration
	metrics  *metrics.Manager
}

func NewStore(
	rdb redis.Cmdable,
	fallback *freecache.Cache,
	ttl time.Duration,
	metricsManager *metrics.Manager,
) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		rdb:      rdb,
		fallback: fallback,
		ttl:      ttl,
		metrics:  metricsManager,
	}
}

func snapshotKey(userID int) string {
	return fmt.Sprintf("recoverd:assessment:%d", userID)
}

// Save writes the serialized assessment to redis with the store TTL and
// mirrors it into the in-process fallback. A redis write failure is
// returned but the fallback copy is kept either way.
func (s *Store) Save(ctx context.Context, userID int, payload []byte) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "snapshot.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	key := snapshotKey(userID)
	if fbErr := s.fallback.Set([]byte(key), payload, fallbackTTLSeconds); fbErr != nil {
		log.Errorf("snapshot store: fallback set for user %d: %s", userID, fbErr)
	}

	return s.rdb.Set(ctx, key, payload, s.ttl).Err()
}

// Get returns the cached assessment for the user. fromFallback is true
// when redis had nothing (or failed) and the in-process last-known-good
// copy was served instead; callers should mark such results stale.
func (s *Store) Get(ctx context.Context, userID int) (payload []byte, fromFallback bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "snapshot.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	key := snapshotKey(userID)

	payload, err = s.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		s.metrics.CounterSnapshotHits.Inc()
		return payload, false, nil
	case errors.Is(err, redis.Nil):
		// expired or never computed, try the local copy
	default:
		log.Errorf("snapshot store: redis get for user %d: %s", userID, err)
	}

	s.metrics.CounterSnapshotMisses.Inc()

	cached, fbErr := s.fallback.Get([]byte(key))
	if fbErr != nil {
		return nil, false, ErrSnapshotNotFound
	}
	return cached, true, nil
}

// Invalidate drops both copies, forcing the next read to recompute.
func (s *Store) Invalidate(ctx context.Context, userID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "snapshot.invalidate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	key := snapshotKey(userID)
	s.fallback.Del([]byte(key))
	return s.rdb.Del(ctx, key).Err()
}
