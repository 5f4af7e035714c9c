package judgment

import (
	"context"

	"go.uber.org/zap"

	"github.com/bvinca/smartRecruiter/internal/llm"
	"github.com/bvinca/smartRecruiter/internal/types"
)

// Evaluator obtains a judgment vector for a candidate-job pair from a
// reasoning provider. A nil provider or any provider failure degrades to the
// neutral judgment; Evaluate never returns an error to the scoring caller.
type Evaluator struct {
	provider llm.ReasoningProvider
	logger   *zap.Logger
}

// NewEvaluator creates an evaluator. provider may be nil, in which case every
// evaluation yields the neutral fallback with Available=false.
func NewEvaluator(provider llm.ReasoningProvider, logger *zap.Logger) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{provider: provider, logger: logger}
}

// Evaluate runs the reasoning call and parses its response.
func (e *Evaluator) Evaluate(ctx context.Context, req llm.EvaluateRequest) types.JudgmentVector {
	if e.provider == nil {
		return types.NeutralJudgment("Reasoning evaluation not configured. Using fallback scores.")
	}

	raw, err := e.provider.Evaluate(ctx, req)
	if err != nil {
		e.logger.Warn("reasoning provider failed, using neutral judgment", zap.Error(err))
		return types.NeutralJudgment("Reasoning evaluation failed. Using fallback scores.")
	}

	return Parse(raw)
}
