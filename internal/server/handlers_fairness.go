package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bvinca/smartRecruiter/internal/fairness"
)

// FairnessAuditRequest runs a bias audit. Candidates may be supplied inline;
// otherwise they are pulled from the stored score records, optionally scoped
// to one job.
type FairnessAuditRequest struct {
	JobID         string               `json:"job_id" validate:"omitempty,uuid4"`
	ScoreKey      string               `json:"score_key"`
	Threshold     float64              `json:"threshold" validate:"min=0"`
	PassThreshold float64              `json:"pass_threshold" validate:"min=0,max=100"`
	Candidates    []fairness.Candidate `json:"candidates"`
	Limit         int                  `json:"limit" validate:"min=0"`
}

// handleFairnessAudit runs a comprehensive fairness audit and records it as a
// trend point.
func (s *Server) handleFairnessAudit(w http.ResponseWriter, r *http.Request, _ *Claims) {
	var req FairnessAuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	threshold := req.Threshold
	if threshold == 0 {
		threshold = s.cfg.BiasThreshold
	}
	passThreshold := req.PassThreshold
	if passThreshold == 0 {
		passThreshold = s.cfg.PassThreshold
	}

	candidates := req.Candidates
	if len(candidates) == 0 {
		jobID := uuid.Nil
		if req.JobID != "" {
			var err error
			if jobID, err = uuid.Parse(req.JobID); err != nil {
				s.validationError(w, "job_id", "must be a valid UUID")
				return
			}
		}
		records, err := s.store.ListScoresByJob(r.Context(), jobID, req.Limit)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Failed to load score records: "+err.Error())
			return
		}
		candidates = fairness.FromRecords(records)
	}

	result := s.auditor.ComprehensiveAudit(candidates, req.ScoreKey, threshold, passThreshold)
	s.metrics.ObserveAudit(result.BiasDetected)

	// Trend persistence failure must not fail the audit response.
	if err := s.store.InsertAudit(r.Context(), result); err != nil {
		s.logger.Error("failed to persist fairness audit", zap.Error(err))
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleFairnessTrend returns historical audit measurements, newest first.
func (s *Server) handleFairnessTrend(w http.ResponseWriter, r *http.Request, _ *Claims) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.validationError(w, "limit", "must be a non-negative integer")
			return
		}
		limit = n
	}

	points, err := s.store.ListAuditTrend(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load audit trend: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"trend": points, "count": len(points)})
}
