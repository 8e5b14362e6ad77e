package domain

// Document is a single text source loaded into the system: one PDF, one
// scraped page, or one saved text file. Discarded after chunking.
type Document struct {
	ID      string
	Source  string // file path or URL
	Content string
}

// Chunk is a bounded-length span of a document, the unit of retrieval.
type Chunk struct {
	ID          string
	DocumentID  string
	Source      string
	Text        string
	StartOffset int // rune offset into the document content
	Index       int
}

// SearchResult is a matching chunk with its cosine similarity score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// SkippedSource records a source that could not be loaded during ingestion.
type SkippedSource struct {
	Source string
	Reason string
}

// SkippedChunk records a chunk omitted from the index during a build.
type SkippedChunk struct {
	ChunkID string
	Source  string
	Reason  string
}

// IngestReport is the outcome of an index build. Ingestion is best-effort:
// sources and chunks that fail are accumulated here instead of aborting the
// build, so a partial corpus stays inspectable.
type IngestReport struct {
	Documents      int
	Chunks         int
	SkippedSources []SkippedSource
	SkippedChunks  []SkippedChunk
	Summary        string
}

// Turn is one question/answer exchange, held in memory for the lifetime of
// a chat session only.
type Turn struct {
	ID       string
	Question string
	Sources  []SearchResult
	Answer   string
}
