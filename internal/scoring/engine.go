package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bvinca/smartRecruiter/internal/fairness"
	"github.com/bvinca/smartRecruiter/internal/llm"
	"github.com/bvinca/smartRecruiter/internal/metrics"
	"github.com/bvinca/smartRecruiter/internal/types"
	"github.com/bvinca/smartRecruiter/internal/weights"
)

// DefaultSemanticWeight is the within-dimension blend between the semantic
// side and the judgment side of each hybrid score.
const DefaultSemanticWeight = 0.5

// batchConcurrency caps parallel candidate scorings in ScoreBatch; each
// scoring fans out to external providers on its own.
const batchConcurrency = 4

// Judge turns a candidate-job pair into a judgment vector. It never fails:
// provider errors surface as the neutral judgment with Available=false.
type Judge interface {
	Evaluate(ctx context.Context, req llm.EvaluateRequest) types.JudgmentVector
}

// ScoreInput identifies and describes one candidate-job pair to score.
type ScoreInput struct {
	CandidateID uuid.UUID
	JobID       uuid.UUID
	RecruiterID *uuid.UUID
	Resume      types.ParsedResume
	Job         types.JobPosting
}

// EngineConfig carries the optional engine collaborators and tuning.
type EngineConfig struct {
	// SemanticWeight blends semantic vs judgment per dimension; zero selects
	// the default. Ignored (forced to 1) when no judgment is available.
	SemanticWeight float64
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
}

// Engine scores candidates against job postings. Scoring is stateless apart
// from one weight-store read, so concurrent Score calls are independent.
// Embedding and reasoning failures degrade to documented fallbacks and never
// surface as errors.
type Engine struct {
	embedder llm.EmbeddingProvider
	judge    Judge
	store    weights.Store

	semanticWeight float64
	logger         *zap.Logger
	metrics        *metrics.Metrics
}

// NewEngine creates a scoring engine. embedder and judge may be nil; scoring
// then degrades to feature-only semantics. store may be nil, pinning the
// compiled-in default weights.
func NewEngine(embedder llm.EmbeddingProvider, judge Judge, store weights.Store, cfg EngineConfig) (*Engine, error) {
	w := cfg.SemanticWeight
	if w == 0 {
		w = DefaultSemanticWeight
	}
	if w < 0 || w > 1 {
		return nil, fmt.Errorf("semantic weight %v out of range [0,1]", w)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		embedder:       embedder,
		judge:          judge,
		store:          store,
		semanticWeight: w,
		logger:         logger,
		metrics:        cfg.Metrics,
	}, nil
}

// Score computes the full hybrid score record for one candidate-job pair.
// The only error cases are context cancellation and arithmetic contract
// violations; external-provider failures degrade inside.
func (e *Engine) Score(ctx context.Context, in ScoreInput) (*types.ScoreRecord, error) {
	start := time.Now()

	features := Features(in.Resume, in.Job)

	var (
		matchScore float64
		judgment   types.JudgmentVector
	)

	// The two embedding calls and the reasoning call are independent I/O.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		matchScore = e.semanticMatch(gctx, in.Resume.RawText, in.Job.Text())
		return nil
	})
	g.Go(func() error {
		judgment = e.judgeCandidate(gctx, in)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Without a judgment there is nothing to blend: dimensions stay
	// semantic-only rather than being dragged toward the neutral 50.
	blend := e.semanticWeight
	if !judgment.Available {
		blend = 1.0
	}

	breakdown := types.ScoreBreakdown{SemanticWeight: blend}
	var err error
	if breakdown.Match, err = Breakdown(matchScore, float64(judgment.Overall), blend); err != nil {
		return nil, fmt.Errorf("combining match score: %w", err)
	}
	if breakdown.Skill, err = Breakdown(features.Skill, float64(judgment.Skill), blend); err != nil {
		return nil, fmt.Errorf("combining skill score: %w", err)
	}
	if breakdown.Experience, err = Breakdown(features.Experience, float64(judgment.Experience), blend); err != nil {
		return nil, fmt.Errorf("combining experience score: %w", err)
	}

	w := e.resolveWeights(ctx, in)
	overall := breakdown.Skill.Hybrid*w.Skill +
		breakdown.Experience.Hybrid*w.Experience +
		features.Education*w.Education +
		breakdown.Match.Hybrid*w.Semantic

	record := &types.ScoreRecord{
		ID:                uuid.New(),
		CandidateID:       in.CandidateID,
		JobID:             in.JobID,
		MatchScore:        breakdown.Match.Hybrid,
		SkillScore:        breakdown.Skill.Hybrid,
		ExperienceScore:   breakdown.Experience.Hybrid,
		EducationScore:    types.Round2(features.Education),
		OverallScore:      types.ClampScore(types.Round2(overall)),
		Breakdown:         breakdown,
		JudgmentAvailable: judgment.Available,
		Explanation:       judgment.Explanation,
		Group:             fairness.GroupByEducation(in.Resume),
		CreatedAt:         time.Now().UTC(),
	}

	e.metrics.ObserveScore(time.Since(start), judgment.Available)
	e.logger.Debug("candidate scored",
		zap.String("candidate_id", in.CandidateID.String()),
		zap.String("job_id", in.JobID.String()),
		zap.Float64("overall", record.OverallScore),
		zap.Bool("llm_available", judgment.Available))
	return record, nil
}

// ScoreBatch scores several candidates against one job concurrently. Records
// come back in input order; the first hard failure aborts the batch.
func (e *Engine) ScoreBatch(ctx context.Context, inputs []ScoreInput) ([]*types.ScoreRecord, error) {
	records := make([]*types.ScoreRecord, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, in := range inputs {
		g.Go(func() error {
			rec, err := e.Score(gctx, in)
			if err != nil {
				return err
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// semanticMatch embeds both texts and converts their cosine similarity to a
// 0-100 score. Any provider failure or degenerate vector scores 0.
func (e *Engine) semanticMatch(ctx context.Context, cvText, jobText string) float64 {
	if e.embedder == nil || cvText == "" || jobText == "" {
		return 0
	}

	var cvVec, jobVec []float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := e.embedder.Embed(gctx, cvText)
		if err != nil {
			return fmt.Errorf("embedding cv text: %w", err)
		}
		cvVec = v
		return nil
	})
	g.Go(func() error {
		v, err := e.embedder.Embed(gctx, jobText)
		if err != nil {
			return fmt.Errorf("embedding job text: %w", err)
		}
		jobVec = v
		return nil
	})
	if err := g.Wait(); err != nil {
		e.logger.Warn("embedding failed, match score degraded to 0", zap.Error(err))
		return 0
	}

	score, err := MatchScore(cvVec, jobVec)
	if err != nil {
		e.logger.Warn("match score computation failed, degraded to 0", zap.Error(err))
		return 0
	}
	return score
}

func (e *Engine) judgeCandidate(ctx context.Context, in ScoreInput) types.JudgmentVector {
	if e.judge == nil {
		return types.NeutralJudgment("Reasoning evaluation not configured. Using fallback scores.")
	}
	return e.judge.Evaluate(ctx, llm.EvaluateRequest{
		CVText:          in.Resume.RawText,
		JobText:         in.Job.Description,
		JobRequirements: in.Job.Requirements,
		Skills:          in.Resume.Skills,
		ExperienceYears: in.Resume.ExperienceYears,
	})
}

// resolveWeights reads the scope's adaptive weights, falling back to the
// compiled-in defaults when no store is wired or the read fails.
func (e *Engine) resolveWeights(ctx context.Context, in ScoreInput) types.WeightVector {
	if e.store == nil {
		return types.DefaultWeights()
	}

	scope := types.WeightScope{RecruiterID: in.RecruiterID}
	if in.JobID != uuid.Nil {
		jobID := in.JobID
		scope.JobID = &jobID
	}

	w, err := e.store.Resolve(ctx, scope)
	if err != nil {
		e.logger.Warn("weight store unavailable, using default weights",
			zap.String("scope", scope.Key()), zap.Error(err))
		return types.DefaultWeights()
	}
	return w
}
