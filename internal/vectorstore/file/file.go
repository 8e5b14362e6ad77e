package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/SaiSandeep10/campusinfo/internal/domain"
	"github.com/SaiSandeep10/campusinfo/internal/vectorstore"
)

const indexFile = "index.json"

// Store is a flat-file vector index: chunks and their vectors held in
// memory, persisted as one JSON snapshot in a directory. Rebuilds replace
// the whole snapshot; it is loaded read-only at query time.
type Store struct {
	mu        sync.RWMutex
	dir       string
	dimension int
	modelInfo string
	summary   string
	chunks    []domain.Chunk
	vectors   [][]float64
}

// NewStore creates an empty store that will persist into dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Open loads a persisted index for querying. It fails with ErrIndexNotFound
// when no snapshot exists, and with ErrModelMismatch when wantModel is
// non-empty and differs from the model stamped at build time.
func Open(dir, wantModel string) (*Store, error) {
	data, err := os.ReadFile(filepath.Join(dir, indexFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: no index at %s, run campus-index to build it", domain.ErrIndexNotFound, dir)
		}
		return nil, fmt.Errorf("open index %s: %w", dir, err)
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode index %s: %w", dir, err)
	}
	if wantModel != "" && p.ModelInfo != wantModel {
		return nil, fmt.Errorf("%w: index built with %q, configured embedder is %q; rebuild the index",
			domain.ErrModelMismatch, p.ModelInfo, wantModel)
	}
	s := &Store{dir: dir, dimension: p.Dimension, modelInfo: p.ModelInfo, summary: p.Summary}
	for _, rec := range p.Records {
		if len(rec.Vector) != p.Dimension {
			return nil, fmt.Errorf("decode index %s: chunk %s vector has %d dims, want %d",
				dir, rec.ID, len(rec.Vector), p.Dimension)
		}
		s.chunks = append(s.chunks, domain.Chunk{
			ID:          rec.ID,
			DocumentID:  rec.DocumentID,
			Source:      rec.Source,
			Text:        rec.Text,
			StartOffset: rec.StartOffset,
			Index:       rec.Index,
		})
		s.vectors = append(s.vectors, rec.Vector)
	}
	return s, nil
}

func (s *Store) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.chunks = nil
	s.vectors = nil
	return nil
}

func (s *Store) Upsert(chunks []domain.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		if len(v) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	s.chunks = append(s.chunks, chunks...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

func (s *Store) Search(vector []float64, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = 5
	}
	results := make([]domain.SearchResult, 0, len(s.chunks))
	for i := range s.chunks {
		results = append(results, domain.SearchResult{
			Chunk: s.chunks[i],
			Score: vectorstore.Cosine(s.vectors[i], vector),
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = nil
	s.vectors = nil
	return nil
}

func (s *Store) SetModelInfo(info string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modelInfo = info
}

func (s *Store) SetSummary(summary string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = summary
}

func (s *Store) ModelInfo() string { return s.modelInfo }
func (s *Store) Summary() string   { return s.summary }
func (s *Store) Len() int          { return len(s.chunks) }

// Flush writes the snapshot atomically: the temp file replaces the previous
// index in one rename, so a concurrent reader sees old or new, never half.
func (s *Store) Flush() error {
	s.mu.RLock()
	p := payload{
		ModelInfo: s.modelInfo,
		Dimension: s.dimension,
		Summary:   s.summary,
		Records:   make([]record, len(s.chunks)),
	}
	for i, ch := range s.chunks {
		p.Records[i] = record{
			ID:          ch.ID,
			DocumentID:  ch.DocumentID,
			Source:      ch.Source,
			Text:        ch.Text,
			StartOffset: ch.StartOffset,
			Index:       ch.Index,
			Vector:      s.vectors[i],
		}
	}
	s.mu.RUnlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	path := filepath.Join(s.dir, indexFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("commit index: %w", err)
	}
	return nil
}

type payload struct {
	ModelInfo string   `json:"model_info"`
	Dimension int      `json:"dimension"`
	Summary   string   `json:"summary,omitempty"`
	Records   []record `json:"records"`
}

type record struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id"`
	Source      string    `json:"source"`
	Text        string    `json:"text"`
	StartOffset int       `json:"start_offset"`
	Index       int       `json:"index"`
	Vector      []float64 `json:"vector"`
}
