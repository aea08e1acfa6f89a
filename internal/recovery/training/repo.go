package training

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ironpulse/recoverd/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrObservationNotFound = errors.New("observation not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, observation Observation) (_ *Observation, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.training.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := observation.Validate(); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(
		ctx,
		`INSERT INTO training_observation
				(user_id, exercise, sets, reps, kilos, effort, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id;`,
		observation.UserID, observation.Exercise, observation.Sets,
		observation.Reps, observation.Kilos, observation.Effort, observation.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !rows.Next() {
		return nil, errors.New("unexpected error [no rows next]")
	}

	var id int
	if err := rows.Scan(&id); err != nil {
		return nil, fmt.Errorf("rows scan: %w", err)
	}

	span.SetAttributes(attribute.Int("observation.id", id))

	observation.ID = id
	return &observation, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Observation, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.training.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, exercise, sets, reps, kilos, effort, created_at
			FROM training_observation WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}

	observations, err := rows2observations(rows)
	if err != nil {
		return nil, err
	}
	if len(observations) == 0 {
		return nil, ErrObservationNotFound
	}

	return &observations[0], nil
}

// ListForUser returns the user's observations inside [from, to), oldest
// first. The stable order keeps downstream float summation deterministic.
func (r *Repo) ListForUser(ctx context.Context, userID int, from, to time.Time) (_ []Observation, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.training.listForUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, exercise, sets, reps, kilos, effort, created_at
			FROM training_observation
			WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
			ORDER BY created_at, id;`,
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}

	return rows2observations(rows)
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.training.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM training_observation WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrObservationNotFound
	}

	return nil
}

func rows2observations(rows pgx.Rows) ([]Observation, error) {
	defer rows.Close()

	var observations []Observation
	for rows.Next() {
		var o Observation
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.Exercise, &o.Sets,
			&o.Reps, &o.Kilos, &o.Effort, &o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		observations = append(observations, o)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return observations, nil
}
