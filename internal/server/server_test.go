package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bvinca/smartRecruiter/internal/config"
	"github.com/bvinca/smartRecruiter/internal/fairness"
	"github.com/bvinca/smartRecruiter/internal/llm"
	"github.com/bvinca/smartRecruiter/internal/scoring"
	"github.com/bvinca/smartRecruiter/internal/types"
	"github.com/bvinca/smartRecruiter/internal/weights"
)

type stubEmbedder struct{ vec []float64 }

func (s stubEmbedder) Embed(_ context.Context, _ string) ([]float64, error) {
	return s.vec, nil
}

type stubJudge struct{ v types.JudgmentVector }

func (s stubJudge) Evaluate(_ context.Context, _ llm.EvaluateRequest) types.JudgmentVector {
	return s.v
}

// newTestServer wires a full server against in-memory stores and stub
// providers. Auth is disabled unless a JWT service is passed.
func newTestServer(t *testing.T, jwtService *JWTService) (*Server, weights.Store) {
	t.Helper()

	store := weights.NewMemoryStore()
	judge := stubJudge{v: types.JudgmentVector{
		Overall: 60, Skill: 80, Experience: 40, Explanation: "ok", Available: true,
	}}
	engine, err := scoring.NewEngine(stubEmbedder{vec: []float64{1, 2, 3}}, judge, store, scoring.EngineConfig{SemanticWeight: 0.5})
	require.NoError(t, err)
	learner, err := weights.NewLearner(store, 0.5, nil)
	require.NoError(t, err)

	srv, err := New(config.Default(), Deps{
		Engine:      engine,
		Learner:     learner,
		WeightStore: store,
		Auditor:     fairness.NewAuditor(nil),
		JWTService:  jwtService,
	})
	require.NoError(t, err)
	return srv, store
}

func doJSON(t *testing.T, srv *Server, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func scoreRequestBody(jobID uuid.UUID) map[string]any {
	return map[string]any{
		"job_id": jobID.String(),
		"resume": map[string]any{
			"skills":           []string{"python"},
			"experience_years": 6,
			"education":        []map[string]string{{"degree": "BSc Computer Science"}},
			"work_experience":  []map[string]string{{"title": "Software Engineer", "description": "backend"}},
			"raw_text":         "python engineer",
		},
		"job": map[string]any{
			"title":        "Backend Engineer",
			"description":  "python developer role",
			"requirements": "bachelor degree",
		},
	}
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	w := doJSON(t, srv, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestScoreEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	w := doJSON(t, srv, http.MethodPost, "/score", scoreRequestBody(uuid.New()), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var rec types.ScoreRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.Equal(t, 83.0, rec.OverallScore)
	assert.Equal(t, 90.0, rec.SkillScore)
	assert.True(t, rec.JudgmentAvailable)
	assert.Equal(t, "stem", rec.Group)
}

func TestScoreEndpointValidation(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	tests := []struct {
		name string
		body any
	}{
		{"missing job id", map[string]any{"resume": map[string]any{}, "job": map[string]any{"description": "x"}}},
		{"malformed job id", map[string]any{"job_id": "nope", "job": map[string]any{"description": "x"}}},
		{"empty job posting", map[string]any{"job_id": uuid.New().String(), "job": map[string]any{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, srv, http.MethodPost, "/score", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestFeedbackRecalibratesAfterTwoSamples(t *testing.T) {
	srv, store := newTestServer(t, nil)

	body := map[string]any{
		"skill_score": 90.0, "experience_score": 50.0, "education_score": 50.0,
		"semantic_score": 50.0, "ai_score_at_decision": 80.0, "hired": true,
	}
	w := doJSON(t, srv, http.MethodPost, "/feedback", body, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp FeedbackResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.SamplesInScope)
	assert.False(t, resp.Recalibrated, "single sample must not recalibrate")
	assert.Equal(t, types.DefaultWeights(), resp.Weights)

	body["hired"] = false
	body["skill_score"] = 20.0
	w = doJSON(t, srv, http.MethodPost, "/feedback", body, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.SamplesInScope)
	assert.True(t, resp.Recalibrated)
	assert.NoError(t, resp.Weights.Validate())

	stored, err := store.Resolve(context.Background(), types.GlobalScope())
	require.NoError(t, err)
	assert.Equal(t, 1, stored.IterationCount)
}

func TestWeightsRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	w := doJSON(t, srv, http.MethodGet, "/weights", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp WeightsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, types.DefaultWeights(), resp.Weights)

	put := map[string]any{
		"skill_weight": 0.5, "experience_weight": 0.3,
		"education_weight": 0.1, "semantic_weight": 0.1,
	}
	w = doJSON(t, srv, http.MethodPut, "/weights", put, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 0.5, resp.Weights.Skill, 1e-9)
	assert.Equal(t, 1, resp.Weights.IterationCount)

	// Read back the stored vector.
	w = doJSON(t, srv, http.MethodGet, "/weights", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 0.5, resp.Weights.Skill, 1e-9)
}

func TestPutWeightsRejectsZeroVector(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	w := doJSON(t, srv, http.MethodPut, "/weights", map[string]any{}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFairnessAuditInlineCandidates(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	body := map[string]any{
		"candidates": []map[string]any{
			{"group": "group_a", "scores": map[string]float64{"overall_score": 85}},
			{"group": "group_a", "scores": map[string]float64{"overall_score": 82}},
			{"group": "group_b", "scores": map[string]float64{"overall_score": 67}},
			{"group": "group_b", "scores": map[string]float64{"overall_score": 65}},
		},
	}
	w := doJSON(t, srv, http.MethodPost, "/fairness/audit", body, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result types.FairnessAuditResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.BiasDetected)
	assert.InDelta(t, 17.5, result.BiasMagnitude, 1e-9)

	// The audit lands in the trend history with the same measurements.
	w = doJSON(t, srv, http.MethodGet, "/fairness/trend", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var trend struct {
		Trend []types.AuditTrendPoint `json:"trend"`
		Count int                     `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trend))
	require.Equal(t, 1, trend.Count)
	assert.Equal(t, fairness.TrendPoint(result).BiasMagnitude, trend.Trend[0].BiasMagnitude)
	assert.Equal(t, result.DisparateImpactRatio, trend.Trend[0].DisparateImpactRatio)
	assert.True(t, trend.Trend[0].BiasDetected)
	assert.False(t, trend.Trend[0].CreatedAt.IsZero())
}

func TestFairnessAuditFromStoredScores(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	// Score two candidates first so records exist, then audit without inline
	// candidates.
	for range 2 {
		w := doJSON(t, srv, http.MethodPost, "/score", scoreRequestBody(uuid.New()), "")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doJSON(t, srv, http.MethodPost, "/fairness/audit", map[string]any{}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result types.FairnessAuditResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	// Both candidates are in the stem group: single-group insufficiency.
	assert.False(t, result.BiasDetected)
	require.Len(t, result.GroupAnalysis, 1)
}

func TestAuthGuard(t *testing.T) {
	jwtService, err := NewJWTService("test-secret", 1)
	require.NoError(t, err)
	srv, _ := newTestServer(t, jwtService)

	// No token.
	w := doJSON(t, srv, http.MethodGet, "/weights", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Garbage token.
	w = doJSON(t, srv, http.MethodGet, "/weights", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid token scopes the weights to the recruiter.
	rid := uuid.New()
	token, err := jwtService.GenerateToken(rid, "recruiter")
	require.NoError(t, err)

	w = doJSON(t, srv, http.MethodGet, "/weights", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp WeightsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Scope.RecruiterID)
	assert.Equal(t, rid, *resp.Scope.RecruiterID)

	// Health stays open.
	w = doJSON(t, srv, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTServiceRejectsForeignSignature(t *testing.T) {
	a, err := NewJWTService("secret-a", 1)
	require.NoError(t, err)
	b, err := NewJWTService("secret-b", 1)
	require.NoError(t, err)

	token, err := a.GenerateToken(uuid.New(), "recruiter")
	require.NoError(t, err)

	_, err = b.ValidateToken(token)
	assert.Error(t, err)

	claims, err := a.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "recruiter", claims.Role)
}

func TestCORSPreflights(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/score", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestValidationErrorsCarryTypedStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(&ErrValidation{Field: "job_id", Message: "must be a valid UUID"}))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))

	srv, _ := newTestServer(t, nil)

	// Domain validation failures surface the typed error message.
	w := doJSON(t, srv, http.MethodPost, "/score", map[string]any{
		"job_id": uuid.New().String(),
		"job":    map[string]any{},
	}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation error: job")

	w = doJSON(t, srv, http.MethodPut, "/weights", map[string]any{}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation error: weights")
}

func TestFairnessTrendLimitValidation(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	w := doJSON(t, srv, http.MethodGet, "/fairness/trend?limit=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// Guard against accidentally registering routes without auth.
func TestAllMutatingRoutesRequireAuth(t *testing.T) {
	jwtService, err := NewJWTService("test-secret", 1)
	require.NoError(t, err)
	srv, _ := newTestServer(t, jwtService)

	routes := []struct{ method, path string }{
		{http.MethodPost, "/score"},
		{http.MethodPost, "/feedback"},
		{http.MethodPut, "/weights"},
		{http.MethodPost, "/fairness/audit"},
	}
	for _, rt := range routes {
		t.Run(fmt.Sprintf("%s %s", rt.method, rt.path), func(t *testing.T) {
			w := doJSON(t, srv, rt.method, rt.path, map[string]any{}, "")
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
