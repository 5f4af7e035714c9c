package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bvinca/smartRecruiter/internal/fairness"
	"github.com/bvinca/smartRecruiter/internal/types"
)

// InsertAudit appends a fairness audit result to the historical trend.
func (db *DB) InsertAudit(ctx context.Context, result types.FairnessAuditResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal audit result: %w", err)
	}

	point := fairness.TrendPoint(result)
	_, err = db.pool.Exec(ctx,
		`INSERT INTO fairness_audits
		     (bias_detected, bias_magnitude, mean_score_difference, disparate_impact_ratio, result)
		 VALUES ($1, $2, $3, $4, $5)`,
		point.BiasDetected, point.BiasMagnitude, point.MeanScoreDifference,
		point.DisparateImpactRatio, resultJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert fairness audit: %w", err)
	}
	return nil
}

// ListAuditTrend returns historical audit measurements, newest first.
func (db *DB) ListAuditTrend(ctx context.Context, limit int) ([]types.AuditTrendPoint, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT created_at, bias_detected, bias_magnitude, mean_score_difference, disparate_impact_ratio
		 FROM fairness_audits
		 ORDER BY created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list fairness audits: %w", err)
	}
	defer rows.Close()

	var points []types.AuditTrendPoint
	for rows.Next() {
		var p types.AuditTrendPoint
		if err := rows.Scan(&p.CreatedAt, &p.BiasDetected, &p.BiasMagnitude,
			&p.MeanScoreDifference, &p.DisparateImpactRatio); err != nil {
			return nil, fmt.Errorf("failed to scan fairness audit: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fairness audits: %w", err)
	}
	return points, nil
}

// nullableTime maps the zero time to NULL for COALESCE defaults.
func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
