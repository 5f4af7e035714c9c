package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bvinca/smartRecruiter/internal/scoring"
	"github.com/bvinca/smartRecruiter/internal/types"
)

// ScoreRequest carries one candidate-job pair to score.
type ScoreRequest struct {
	CandidateID string              `json:"candidate_id" validate:"omitempty,uuid4"`
	JobID       string              `json:"job_id" validate:"required,uuid4"`
	Resume      types.ParsedResume  `json:"resume"`
	Job         types.JobPosting    `json:"job" validate:"required"`
}

// handleScore scores one candidate against a job posting.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request, claims *Claims) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}
	if req.Job.Description == "" && req.Job.Requirements == "" {
		s.validationError(w, "job", "description or requirements is required")
		return
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		s.validationError(w, "job_id", "must be a valid UUID")
		return
	}
	candidateID := uuid.New()
	if req.CandidateID != "" {
		if candidateID, err = uuid.Parse(req.CandidateID); err != nil {
			s.validationError(w, "candidate_id", "must be a valid UUID")
			return
		}
	}

	record, err := s.engine.Score(r.Context(), scoring.ScoreInput{
		CandidateID: candidateID,
		JobID:       jobID,
		RecruiterID: recruiterID(claims),
		Resume:      req.Resume,
		Job:         req.Job,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Scoring failed: "+err.Error())
		return
	}

	// Storage failure must not fail the scoring response.
	if err := s.store.InsertScore(r.Context(), record); err != nil {
		s.logger.Error("failed to persist score record",
			zap.String("record_id", record.ID.String()), zap.Error(err))
	}

	s.jsonResponse(w, http.StatusOK, record)
}
