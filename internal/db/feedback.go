package db

import (
	"context"
	"fmt"

	"github.com/bvinca/smartRecruiter/internal/types"
)

// InsertFeedback appends one hiring-decision sample.
func (db *DB) InsertFeedback(ctx context.Context, s types.FeedbackSample) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO feedback_samples
		     (recruiter_id, job_id, skill_score, experience_score, education_score,
		      semantic_score, ai_score_at_decision, hired, decided_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, NOW()))`,
		s.Scope.RecruiterID, s.Scope.JobID, s.Skill, s.Experience, s.Education,
		s.Semantic, s.Overall, s.Hired, nullableTime(s.DecidedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert feedback sample: %w", err)
	}
	return nil
}

// ListFeedbackForScope returns the samples recorded under exactly this scope,
// oldest first so recalibration sees decisions in order.
func (db *DB) ListFeedbackForScope(ctx context.Context, scope types.WeightScope, limit int) ([]types.FeedbackSample, error) {
	if limit <= 0 {
		limit = 500
	}

	rows, err := db.pool.Query(ctx,
		`SELECT recruiter_id, job_id, skill_score, experience_score, education_score,
		        semantic_score, ai_score_at_decision, hired, decided_at
		 FROM feedback_samples
		 WHERE recruiter_id IS NOT DISTINCT FROM $1
		   AND job_id IS NOT DISTINCT FROM $2
		 ORDER BY decided_at ASC
		 LIMIT $3`,
		scope.RecruiterID, scope.JobID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback samples: %w", err)
	}
	defer rows.Close()

	var samples []types.FeedbackSample
	for rows.Next() {
		var s types.FeedbackSample
		if err := rows.Scan(&s.Scope.RecruiterID, &s.Scope.JobID, &s.Skill, &s.Experience,
			&s.Education, &s.Semantic, &s.Overall, &s.Hired, &s.DecidedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback sample: %w", err)
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read feedback samples: %w", err)
	}
	return samples, nil
}
