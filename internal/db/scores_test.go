package db

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bvinca/smartRecruiter/internal/types"
)

func TestDecodeBreakdown(t *testing.T) {
	id := uuid.New()

	t.Run("valid column round-trips", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		raw := []byte(`{"semantic_weight":0.5,"skill":{"combined_score":90}}`)

		b := decodeBreakdown(zap.New(core), id, raw)
		assert.Equal(t, 0.5, b.SemanticWeight)
		assert.Equal(t, 90.0, b.Skill.Hybrid)
		assert.Zero(t, logs.Len())
	})

	t.Run("empty column is a zero breakdown", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		b := decodeBreakdown(zap.New(core), id, nil)
		assert.Equal(t, types.ScoreBreakdown{}, b)
		assert.Zero(t, logs.Len())
	})

	t.Run("corrupt column is logged, not fatal", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		b := decodeBreakdown(zap.New(core), id, []byte(`{"semantic_weight":`))
		assert.Equal(t, types.ScoreBreakdown{}, b)

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, "failed to decode stored score breakdown", entry.Message)
		assert.Equal(t, id.String(), entry.ContextMap()["record_id"])
	})
}
