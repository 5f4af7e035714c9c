package weights

import (
	"context"
	"sync"
	"time"

	"github.com/bvinca/smartRecruiter/internal/types"
)

// MemoryStore is an in-memory Store used by the offline CLI commands and by
// tests. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	vectors map[string]types.WeightVector
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		vectors: make(map[string]types.WeightVector),
		now:     time.Now,
	}
}

func (m *MemoryStore) Resolve(_ context.Context, scope types.WeightScope) (types.WeightVector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resolveLocked(scope), nil
}

func (m *MemoryStore) resolveLocked(scope types.WeightScope) types.WeightVector {
	for _, s := range scope.Fallbacks() {
		if w, ok := m.vectors[s.Key()]; ok {
			return w
		}
	}
	return types.DefaultWeights()
}

func (m *MemoryStore) Upsert(_ context.Context, scope types.WeightScope, w types.WeightVector) (types.WeightVector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.storeLocked(scope, w), nil
}

func (m *MemoryStore) Update(_ context.Context, scope types.WeightScope, fn func(types.WeightVector) (types.WeightVector, error)) (types.WeightVector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := fn(m.resolveLocked(scope))
	if err != nil {
		return types.WeightVector{}, err
	}
	return m.storeLocked(scope, next), nil
}

func (m *MemoryStore) storeLocked(scope types.WeightScope, w types.WeightVector) types.WeightVector {
	stored := w.Normalized()
	stored.IterationCount++
	stored.LastUpdated = m.now()
	m.vectors[scope.Key()] = stored
	return stored
}
