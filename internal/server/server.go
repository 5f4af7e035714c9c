// Package server provides the HTTP REST API for the candidate scoring engine.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bvinca/smartRecruiter/internal/config"
	"github.com/bvinca/smartRecruiter/internal/fairness"
	"github.com/bvinca/smartRecruiter/internal/metrics"
	"github.com/bvinca/smartRecruiter/internal/scoring"
	"github.com/bvinca/smartRecruiter/internal/types"
	"github.com/bvinca/smartRecruiter/internal/weights"
)

// Scorer is the scoring engine surface the handlers need.
type Scorer interface {
	Score(ctx context.Context, in scoring.ScoreInput) (*types.ScoreRecord, error)
}

// FeedbackLearner recalibrates scoped weights from feedback samples.
type FeedbackLearner interface {
	Learn(ctx context.Context, scope types.WeightScope, samples []types.FeedbackSample) (types.WeightVector, error)
}

// Persistence is the storage surface the handlers need. Satisfied by *db.DB;
// an in-memory fallback serves database-less runs.
type Persistence interface {
	InsertScore(ctx context.Context, rec *types.ScoreRecord) error
	ListScoresByJob(ctx context.Context, jobID uuid.UUID, limit int) ([]types.ScoreRecord, error)
	InsertFeedback(ctx context.Context, s types.FeedbackSample) error
	ListFeedbackForScope(ctx context.Context, scope types.WeightScope, limit int) ([]types.FeedbackSample, error)
	InsertAudit(ctx context.Context, result types.FairnessAuditResult) error
	ListAuditTrend(ctx context.Context, limit int) ([]types.AuditTrendPoint, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server

	engine      Scorer
	learner     FeedbackLearner
	weightStore weights.Store
	auditor     *fairness.Auditor
	store       Persistence

	jwtService *JWTService
	validate   *validator.Validate
	logger     *zap.Logger
	metrics    *metrics.Metrics
	cfg        *config.Config
}

// Deps bundles the collaborators the server routes requests to.
type Deps struct {
	Engine      Scorer
	Learner     FeedbackLearner
	WeightStore weights.Store
	Auditor     *fairness.Auditor
	Store       Persistence // nil selects the in-memory store
	JWTService  *JWTService // nil disables authentication
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
}

// New creates a new server instance
func New(cfg *config.Config, deps Deps) (*Server, error) {
	if deps.Engine == nil {
		return nil, fmt.Errorf("server requires a scoring engine")
	}
	if deps.WeightStore == nil {
		return nil, fmt.Errorf("server requires a weight store")
	}
	if deps.Auditor == nil {
		deps.Auditor = fairness.NewAuditor(deps.Logger)
	}
	if deps.Store == nil {
		deps.Store = newMemStore()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	s := &Server{
		engine:      deps.Engine,
		learner:     deps.Learner,
		weightStore: deps.WeightStore,
		auditor:     deps.Auditor,
		store:       deps.Store,
		jwtService:  deps.JWTService,
		validate:    validator.New(),
		logger:      deps.Logger,
		metrics:     deps.Metrics,
		cfg:         cfg,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	mux.HandleFunc("POST /score", s.authenticate(s.handleScore))
	mux.HandleFunc("POST /feedback", s.authenticate(s.handleFeedback))
	mux.HandleFunc("GET /weights", s.authenticate(s.handleGetWeights))
	mux.HandleFunc("PUT /weights", s.authenticate(s.handlePutWeights))
	mux.HandleFunc("POST /fairness/audit", s.authenticate(s.handleFairnessAudit))
	mux.HandleFunc("GET /fairness/trend", s.authenticate(s.handleFairnessTrend))

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.instrument(corsMiddleware(mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// instrument records request count and latency per route.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.metrics.ObserveHTTP(r.Method+" "+r.URL.Path, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// corsMiddleware allows browser clients from reporting dashboards.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("error encoding JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
