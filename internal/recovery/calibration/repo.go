package calibration

import (
	"context"
	"errors"
	"fmt"

	"github.com/ironpulse/recoverd/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrParameterNotFound = errors.New("parameter not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Get(ctx context.Context, userID int, name string) (_ *Parameter, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.calibration.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user.id", userID),
		attribute.String("parameter", name),
	)

	rows, err := r.db.Query(
		ctx,
		`SELECT user_id, name, population_mean, population_variance,
				posterior_mean, posterior_variance, observations, updated_at
			FROM recovery_parameter
			WHERE user_id = $1 AND name = $2;`,
		userID, name,
	)
	if err != nil {
		return nil, err
	}

	parameters, err := rows2parameters(rows)
	if err != nil {
		return nil, err
	}
	if len(parameters) == 0 {
		return nil, ErrParameterNotFound
	}

	return &parameters[0], nil
}

// ListForUser returns all of the user's parameters, name-ordered.
func (r *Repo) ListForUser(ctx context.Context, userID int) (_ []Parameter, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.calibration.listForUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT user_id, name, population_mean, population_variance,
				posterior_mean, posterior_variance, observations, updated_at
			FROM recovery_parameter
			WHERE user_id = $1
			ORDER BY name;`,
		userID,
	)
	if err != nil {
		return nil, err
	}

	return rows2parameters(rows)
}

// Save upserts the parameter on (user_id, name).
func (r *Repo) Save(ctx context.Context, p Parameter) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.calibration.save")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("user.id", p.UserID),
		attribute.String("parameter", p.Name),
	)

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO recovery_parameter
				(user_id, name, population_mean, population_variance,
				posterior_mean, posterior_variance, observations, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (user_id, name) DO UPDATE SET
				posterior_mean = EXCLUDED.posterior_mean,
				posterior_variance = EXCLUDED.posterior_variance,
				observations = EXCLUDED.observations,
				updated_at = EXCLUDED.updated_at;`,
		p.UserID, p.Name, p.PopulationMean, p.PopulationVariance,
		p.PosteriorMean, p.PosteriorVariance, p.Observations, p.UpdatedAt,
	)
	return err
}

func rows2parameters(rows pgx.Rows) ([]Parameter, error) {
	defer rows.Close()

	var parameters []Parameter
	for rows.Next() {
		var p Parameter
		if err := rows.Scan(
			&p.UserID, &p.Name, &p.PopulationMean, &p.PopulationVariance,
			&p.PosteriorMean, &p.PosteriorVariance, &p.Observations, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		parameters = append(parameters, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return parameters, nil
}
