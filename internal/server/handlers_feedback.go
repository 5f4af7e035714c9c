package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bvinca/smartRecruiter/internal/types"
)

// FeedbackRequest records one hiring decision. Scores are the snapshots from
// the candidate's score record at decision time.
type FeedbackRequest struct {
	JobID           string  `json:"job_id" validate:"omitempty,uuid4"`
	SkillScore      float64 `json:"skill_score" validate:"min=0,max=100"`
	ExperienceScore float64 `json:"experience_score" validate:"min=0,max=100"`
	EducationScore  float64 `json:"education_score" validate:"min=0,max=100"`
	SemanticScore   float64 `json:"semantic_score" validate:"min=0,max=100"`
	OverallScore    float64 `json:"ai_score_at_decision" validate:"min=0,max=100"`
	Hired           bool    `json:"hired"`
}

// FeedbackResponse reports the stored sample count for the scope and the
// weight vector after recalibration.
type FeedbackResponse struct {
	SamplesInScope int                `json:"samples_in_scope"`
	Weights        types.WeightVector `json:"weights"`
	Recalibrated   bool               `json:"recalibrated"`
}

// handleFeedback stores a hiring decision and recalibrates the scope's
// weights from all accumulated samples.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request, claims *Claims) {
	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	scope := types.WeightScope{RecruiterID: recruiterID(claims)}
	if req.JobID != "" {
		jobID, err := uuid.Parse(req.JobID)
		if err != nil {
			s.validationError(w, "job_id", "must be a valid UUID")
			return
		}
		scope.JobID = &jobID
	}

	sample := types.FeedbackSample{
		Skill:      req.SkillScore,
		Experience: req.ExperienceScore,
		Education:  req.EducationScore,
		Semantic:   req.SemanticScore,
		Overall:    req.OverallScore,
		Hired:      req.Hired,
		Scope:      scope,
	}
	if err := s.store.InsertFeedback(r.Context(), sample); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to store feedback: "+err.Error())
		return
	}

	samples, err := s.store.ListFeedbackForScope(r.Context(), scope, 0)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load feedback history: "+err.Error())
		return
	}

	current, err := s.weightStore.Resolve(r.Context(), scope)
	if err != nil {
		s.logger.Error("failed to resolve weights after feedback", zap.Error(err))
		current = types.DefaultWeights()
	}

	resp := FeedbackResponse{SamplesInScope: len(samples), Weights: current}
	if s.learner != nil && len(samples) >= 2 {
		updated, err := s.learner.Learn(r.Context(), scope, samples)
		if err != nil {
			// Learning failures degrade to unchanged weights.
			s.logger.Warn("weight recalibration failed", zap.Error(err))
		} else {
			resp.Recalibrated = updated.IterationCount > current.IterationCount
			resp.Weights = updated
			if resp.Recalibrated {
				s.metrics.WeightUpdated()
			}
		}
	}

	s.jsonResponse(w, http.StatusOK, resp)
}
