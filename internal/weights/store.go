// Package weights manages the adaptive scoring weight vectors: scoped storage
// with narrower-to-broader resolution, and online recalibration from recruiter
// hiring decisions.
package weights

import (
	"context"

	"github.com/bvinca/smartRecruiter/internal/types"
)

// Store holds weight vectors keyed by scope. Implementations must renormalize
// the vector and increment its iteration count on every write, and must
// serialize Update's read-modify-write per scope key so racing feedback
// submissions cannot lose updates.
type Store interface {
	// Resolve returns the weights for the scope, walking the fallback chain
	// (exact, recruiter-only, job-only, global) and returning the compiled-in
	// defaults when nothing is stored.
	Resolve(ctx context.Context, scope types.WeightScope) (types.WeightVector, error)

	// Upsert stores the vector for the exact scope, normalized, with the
	// iteration count incremented. Returns the stored vector.
	Upsert(ctx context.Context, scope types.WeightScope, w types.WeightVector) (types.WeightVector, error)

	// Update applies fn to the currently resolved weights for the scope and
	// stores the result, atomically with respect to other Updates on the same
	// scope. fn returning an error aborts the update.
	Update(ctx context.Context, scope types.WeightScope, fn func(types.WeightVector) (types.WeightVector, error)) (types.WeightVector, error)
}
