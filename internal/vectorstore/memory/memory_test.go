package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaiSandeep10/campusinfo/internal/domain"
)

func TestSearchOrdersByScore(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Init(2))
	chunks := []domain.Chunk{
		{ID: "a", Text: "exact"},
		{ID: "b", Text: "orthogonal"},
		{ID: "c", Text: "close"},
	}
	vectors := [][]float64{
		{1, 0},
		{0, 1},
		{0.9, 0.1},
	}
	require.NoError(t, s.Upsert(chunks, vectors))

	results, err := s.Search([]float64{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Chunk.ID)
	assert.Equal(t, "c", results[1].Chunk.ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestInitResets(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Init(2))
	require.NoError(t, s.Upsert([]domain.Chunk{{ID: "a"}}, [][]float64{{1, 0}}))
	require.NoError(t, s.Init(2))

	results, err := s.Search([]float64{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestUpsertValidation(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Init(2))
	assert.Error(t, s.Upsert([]domain.Chunk{{ID: "a"}}, nil))
	assert.Error(t, s.Upsert([]domain.Chunk{{ID: "a"}}, [][]float64{{1, 0, 0}}))
	assert.Error(t, s.Init(0))
}
