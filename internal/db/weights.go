package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bvinca/smartRecruiter/internal/types"
)

// WeightStore persists scoped weight vectors in PostgreSQL. It implements
// weights.Store; the update cycle runs inside a transaction with a row lock
// so racing feedback submissions for the same scope cannot lose updates.
type WeightStore struct {
	db *DB
}

func NewWeightStore(db *DB) *WeightStore {
	return &WeightStore{db: db}
}

// Resolve returns the weights for the scope, walking exact -> recruiter-only
// -> job-only -> global in a single query. Nothing stored returns the
// compiled-in defaults.
func (s *WeightStore) Resolve(ctx context.Context, scope types.WeightScope) (types.WeightVector, error) {
	var w types.WeightVector
	err := s.db.pool.QueryRow(ctx,
		`SELECT skill_weight, experience_weight, education_weight, semantic_weight,
		        iteration_count, last_updated
		 FROM scoring_weights
		 WHERE (recruiter_id = $1 OR recruiter_id IS NULL)
		   AND (job_id = $2 OR job_id IS NULL)
		 ORDER BY (recruiter_id IS NOT NULL) DESC, (job_id IS NOT NULL) DESC
		 LIMIT 1`,
		scope.RecruiterID, scope.JobID,
	).Scan(&w.Skill, &w.Experience, &w.Education, &w.Semantic, &w.IterationCount, &w.LastUpdated)
	if err != nil {
		if err == pgx.ErrNoRows {
			return types.DefaultWeights(), nil
		}
		return types.WeightVector{}, fmt.Errorf("failed to resolve weights: %w", err)
	}
	return w, nil
}

// Upsert stores the vector for the exact scope, normalized, incrementing the
// iteration count of an existing row.
func (s *WeightStore) Upsert(ctx context.Context, scope types.WeightScope, w types.WeightVector) (types.WeightVector, error) {
	return s.upsert(ctx, s.db.pool, scope, w)
}

// Update applies fn to the currently resolved weights for the scope and
// stores the result, holding a row lock on the exact scope for the duration.
func (s *WeightStore) Update(ctx context.Context, scope types.WeightScope, fn func(types.WeightVector) (types.WeightVector, error)) (types.WeightVector, error) {
	tx, err := s.db.pool.Begin(ctx)
	if err != nil {
		return types.WeightVector{}, fmt.Errorf("failed to begin weight update: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var current types.WeightVector
	err = tx.QueryRow(ctx,
		`SELECT skill_weight, experience_weight, education_weight, semantic_weight,
		        iteration_count, last_updated
		 FROM scoring_weights
		 WHERE recruiter_id IS NOT DISTINCT FROM $1
		   AND job_id IS NOT DISTINCT FROM $2
		 FOR UPDATE`,
		scope.RecruiterID, scope.JobID,
	).Scan(&current.Skill, &current.Experience, &current.Education, &current.Semantic,
		&current.IterationCount, &current.LastUpdated)
	if err != nil {
		if err != pgx.ErrNoRows {
			return types.WeightVector{}, fmt.Errorf("failed to lock weights: %w", err)
		}
		// No exact-scope row yet: seed from the fallback chain.
		current, err = s.Resolve(ctx, scope)
		if err != nil {
			return types.WeightVector{}, err
		}
	}

	next, err := fn(current)
	if err != nil {
		return types.WeightVector{}, err
	}

	stored, err := s.upsert(ctx, tx, scope, next)
	if err != nil {
		return types.WeightVector{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return types.WeightVector{}, fmt.Errorf("failed to commit weight update: %w", err)
	}
	return stored, nil
}

// querier lets upsert run on the pool or inside a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *WeightStore) upsert(ctx context.Context, q querier, scope types.WeightScope, w types.WeightVector) (types.WeightVector, error) {
	n := w.Normalized()

	var stored types.WeightVector
	err := q.QueryRow(ctx,
		`INSERT INTO scoring_weights
		     (recruiter_id, job_id, skill_weight, experience_weight, education_weight, semantic_weight, iteration_count, last_updated)
		 VALUES ($1, $2, $3, $4, $5, $6, 1, NOW())
		 ON CONFLICT (recruiter_id, job_id) DO UPDATE
		 SET skill_weight = $3, experience_weight = $4, education_weight = $5, semantic_weight = $6,
		     iteration_count = scoring_weights.iteration_count + 1, last_updated = NOW()
		 RETURNING skill_weight, experience_weight, education_weight, semantic_weight, iteration_count, last_updated`,
		scope.RecruiterID, scope.JobID, n.Skill, n.Experience, n.Education, n.Semantic,
	).Scan(&stored.Skill, &stored.Experience, &stored.Education, &stored.Semantic,
		&stored.IterationCount, &stored.LastUpdated)
	if err != nil {
		return types.WeightVector{}, fmt.Errorf("failed to upsert weights: %w", err)
	}
	return stored, nil
}
