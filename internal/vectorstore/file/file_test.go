package file

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaiSandeep10/campusinfo/internal/domain"
)

func seedStore(t *testing.T, dir string) *Store {
	t.Helper()
	s := NewStore(dir)
	require.NoError(t, s.Init(3))
	chunks := []domain.Chunk{
		{ID: "d1:0", DocumentID: "d1", Source: "library.txt", Text: "The library is open 9am to 6pm on weekdays.", Index: 0},
		{ID: "d1:1", DocumentID: "d1", Source: "library.txt", Text: "Borrowing limit is four books.", StartOffset: 40, Index: 1},
		{ID: "d2:0", DocumentID: "d2", Source: "hostel.txt", Text: "Hostel fees are due in June.", Index: 0},
	}
	vectors := [][]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	require.NoError(t, s.Upsert(chunks, vectors))
	s.SetModelInfo("tfidf/v1")
	s.SetSummary("Campus handbook corpus.")
	require.NoError(t, s.Flush())
	return s
}

func TestOpenMissingIndex(t *testing.T) {
	_, err := Open(t.TempDir(), "tfidf/v1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIndexNotFound)
	assert.Contains(t, err.Error(), "campus-index")
}

func TestFlushOpenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	seedStore(t, dir)

	s, err := Open(dir, "tfidf/v1")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, "tfidf/v1", s.ModelInfo())
	assert.Equal(t, "Campus handbook corpus.", s.Summary())

	results, err := s.Search([]float64{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "d1:0", results[0].Chunk.ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
	assert.Equal(t, "The library is open 9am to 6pm on weekdays.", results[0].Chunk.Text)
}

func TestOpenModelMismatch(t *testing.T) {
	dir := t.TempDir()
	seedStore(t, dir)

	_, err := Open(dir, "openai/text-embedding-3-small")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrModelMismatch)
	assert.Contains(t, err.Error(), "tfidf/v1")
}

func TestOpenSkipsModelCheckWhenUnspecified(t *testing.T) {
	dir := t.TempDir()
	seedStore(t, dir)

	s, err := Open(dir, "")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
}

func TestRebuildReplacesSnapshot(t *testing.T) {
	dir := t.TempDir()
	seedStore(t, dir)

	s := NewStore(dir)
	require.NoError(t, s.Init(2))
	require.NoError(t, s.Upsert(
		[]domain.Chunk{{ID: "d9:0", DocumentID: "d9", Text: "replacement"}},
		[][]float64{{1, 0}},
	))
	s.SetModelInfo("tfidf/v1")
	require.NoError(t, s.Flush())

	reopened, err := Open(dir, "tfidf/v1")
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.Len())
}

func TestUpsertDimensionMismatch(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, s.Init(3))
	err := s.Upsert([]domain.Chunk{{ID: "x"}}, [][]float64{{1, 0}})
	assert.Error(t, err)
}

func TestSearchTieKeepsInsertionOrder(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, s.Init(2))
	chunks := []domain.Chunk{
		{ID: "a", Text: "first"},
		{ID: "b", Text: "second"},
	}
	require.NoError(t, s.Upsert(chunks, [][]float64{{1, 0}, {1, 0}}))

	results, err := s.Search([]float64{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Chunk.ID)
	assert.Equal(t, "b", results[1].Chunk.ID)
}
