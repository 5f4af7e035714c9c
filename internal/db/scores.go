package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bvinca/smartRecruiter/internal/types"
)

// InsertScore appends a score record. Records are immutable once written.
func (db *DB) InsertScore(ctx context.Context, rec *types.ScoreRecord) error {
	breakdownJSON, err := json.Marshal(rec.Breakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal score breakdown: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO score_records
		     (id, candidate_id, job_id, match_score, skill_score, experience_score,
		      education_score, overall_score, breakdown, llm_available, explanation,
		      candidate_group, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		rec.ID, rec.CandidateID, rec.JobID, rec.MatchScore, rec.SkillScore,
		rec.ExperienceScore, rec.EducationScore, rec.OverallScore, breakdownJSON,
		rec.JudgmentAvailable, rec.Explanation, rec.Group, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert score record: %w", err)
	}
	return nil
}

// ListScoresByJob returns the most recent score records for a job, newest
// first. A zero job ID lists across all jobs.
func (db *DB) ListScoresByJob(ctx context.Context, jobID uuid.UUID, limit int) ([]types.ScoreRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, candidate_id, job_id, match_score, skill_score, experience_score,
		        education_score, overall_score, breakdown, llm_available, explanation,
		        candidate_group, created_at
		 FROM score_records
		 WHERE $1 = '00000000-0000-0000-0000-000000000000'::uuid OR job_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		jobID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list score records: %w", err)
	}
	defer rows.Close()

	var records []types.ScoreRecord
	for rows.Next() {
		var rec types.ScoreRecord
		var breakdownJSON []byte
		if err := rows.Scan(&rec.ID, &rec.CandidateID, &rec.JobID, &rec.MatchScore,
			&rec.SkillScore, &rec.ExperienceScore, &rec.EducationScore, &rec.OverallScore,
			&breakdownJSON, &rec.JudgmentAvailable, &rec.Explanation, &rec.Group,
			&rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score record: %w", err)
		}
		rec.Breakdown = decodeBreakdown(db.logger, rec.ID, breakdownJSON)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read score records: %w", err)
	}
	return records, nil
}

// decodeBreakdown unpacks the stored breakdown column. A corrupt value is
// logged and yields a zero breakdown rather than failing the listing.
func decodeBreakdown(logger *zap.Logger, recordID uuid.UUID, raw []byte) types.ScoreBreakdown {
	var b types.ScoreBreakdown
	if len(raw) == 0 {
		return b
	}
	if err := json.Unmarshal(raw, &b); err != nil {
		logger.Warn("failed to decode stored score breakdown",
			zap.String("record_id", recordID.String()), zap.Error(err))
		return types.ScoreBreakdown{}
	}
	return b
}
