package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bvinca/smartRecruiter/internal/fairness"
	"github.com/bvinca/smartRecruiter/internal/types"
)

// memStore is the in-memory Persistence used when no database is configured.
// Good enough for local runs and tests; everything is lost on restart.
type memStore struct {
	mu       sync.Mutex
	scores   []types.ScoreRecord
	feedback []types.FeedbackSample
	audits   []types.AuditTrendPoint
}

func newMemStore() *memStore {
	return &memStore{}
}

func (m *memStore) InsertScore(_ context.Context, rec *types.ScoreRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores = append(m.scores, *rec)
	return nil
}

func (m *memStore) ListScoresByJob(_ context.Context, jobID uuid.UUID, limit int) ([]types.ScoreRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 {
		limit = 100
	}

	var out []types.ScoreRecord
	// Newest first.
	for i := len(m.scores) - 1; i >= 0 && len(out) < limit; i-- {
		if jobID == uuid.Nil || m.scores[i].JobID == jobID {
			out = append(out, m.scores[i])
		}
	}
	return out, nil
}

func (m *memStore) InsertFeedback(_ context.Context, s types.FeedbackSample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.DecidedAt.IsZero() {
		s.DecidedAt = time.Now().UTC()
	}
	m.feedback = append(m.feedback, s)
	return nil
}

func (m *memStore) ListFeedbackForScope(_ context.Context, scope types.WeightScope, limit int) ([]types.FeedbackSample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 {
		limit = 500
	}

	var out []types.FeedbackSample
	for _, s := range m.feedback {
		if s.Scope.Key() == scope.Key() {
			out = append(out, s)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *memStore) InsertAudit(_ context.Context, result types.FairnessAuditResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	point := fairness.TrendPoint(result)
	point.CreatedAt = time.Now().UTC()
	m.audits = append(m.audits, point)
	return nil
}

func (m *memStore) ListAuditTrend(_ context.Context, limit int) ([]types.AuditTrendPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 {
		limit = 50
	}

	var out []types.AuditTrendPoint
	for i := len(m.audits) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.audits[i])
	}
	return out, nil
}
