package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/bvinca/smartRecruiter/internal/types"
)

// WeightsResponse exposes a resolved weight vector with its scope.
type WeightsResponse struct {
	Scope   types.WeightScope  `json:"scope"`
	Weights types.WeightVector `json:"weights"`
}

// PutWeightsRequest replaces the weight vector for a scope. Components are
// renormalized to sum to 1 on write.
type PutWeightsRequest struct {
	JobID            string  `json:"job_id" validate:"omitempty,uuid4"`
	SkillWeight      float64 `json:"skill_weight" validate:"min=0"`
	ExperienceWeight float64 `json:"experience_weight" validate:"min=0"`
	EducationWeight  float64 `json:"education_weight" validate:"min=0"`
	SemanticWeight   float64 `json:"semantic_weight" validate:"min=0"`
}

// scopeFromRequest builds the weight scope: recruiter from the token, job
// from the query or body.
func (s *Server) scopeFromRequest(claims *Claims, jobIDStr string) (types.WeightScope, error) {
	scope := types.WeightScope{RecruiterID: recruiterID(claims)}
	if jobIDStr != "" {
		jobID, err := uuid.Parse(jobIDStr)
		if err != nil {
			return types.WeightScope{}, err
		}
		scope.JobID = &jobID
	}
	return scope, nil
}

// handleGetWeights returns the effective weights for the caller's scope.
func (s *Server) handleGetWeights(w http.ResponseWriter, r *http.Request, claims *Claims) {
	scope, err := s.scopeFromRequest(claims, r.URL.Query().Get("job_id"))
	if err != nil {
		s.validationError(w, "job_id", "must be a valid UUID")
		return
	}

	weights, err := s.weightStore.Resolve(r.Context(), scope)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to resolve weights: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, WeightsResponse{Scope: scope, Weights: weights})
}

// handlePutWeights stores an explicit weight vector for the caller's scope.
func (s *Server) handlePutWeights(w http.ResponseWriter, r *http.Request, claims *Claims) {
	var req PutWeightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	vector := types.WeightVector{
		Skill:      req.SkillWeight,
		Experience: req.ExperienceWeight,
		Education:  req.EducationWeight,
		Semantic:   req.SemanticWeight,
	}
	if vector.Sum() <= 0 {
		s.validationError(w, "weights", "at least one component must be positive")
		return
	}

	scope, err := s.scopeFromRequest(claims, req.JobID)
	if err != nil {
		s.validationError(w, "job_id", "must be a valid UUID")
		return
	}

	stored, err := s.weightStore.Upsert(r.Context(), scope, vector)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to store weights: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, WeightsResponse{Scope: scope, Weights: stored})
}
