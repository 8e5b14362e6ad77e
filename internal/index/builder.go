package index

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v3"

	"github.com/SaiSandeep10/campusinfo/internal/domain"
	"github.com/SaiSandeep10/campusinfo/internal/loader"
	"github.com/SaiSandeep10/campusinfo/internal/vectorstore"
)

// Builder runs the offline pipeline: chunk every document, embed every
// chunk, and replace the vector store contents with the result. A rebuild
// is all-or-nothing; there is no incremental merge.
type Builder struct {
	chunker             domain.Chunker
	embedder            domain.Embedder
	store               domain.VectorStore
	summarizer          domain.Summarizer
	summaryMaxSentences int
	logger              *log.Logger
	progress            bool
}

// Options tune build behavior beyond the wired components.
type Options struct {
	SummaryMaxSentences int
	Logger              *log.Logger
	// Progress draws a per-chunk embedding progress bar on stderr.
	Progress bool
}

func NewBuilder(chunker domain.Chunker, embedder domain.Embedder, store domain.VectorStore, summarizer domain.Summarizer, opts Options) *Builder {
	if opts.SummaryMaxSentences <= 0 {
		opts.SummaryMaxSentences = 3
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Builder{
		chunker:             chunker,
		embedder:            embedder,
		store:               store,
		summarizer:          summarizer,
		summaryMaxSentences: opts.SummaryMaxSentences,
		logger:              opts.Logger,
		progress:            opts.Progress,
	}
}

// Build indexes the loaded corpus. Chunks that are empty or fail to embed
// are skipped and reported, not fatal: a partial corpus beats no corpus.
func (b *Builder) Build(ctx context.Context, load loader.Result) (*domain.IngestReport, error) {
	report := &domain.IngestReport{
		Documents:      len(load.Documents),
		SkippedSources: load.Skipped,
	}
	if len(load.Documents) == 0 {
		return report, errors.New("no documents to index")
	}

	var allChunks []domain.Chunk
	var allTexts []string
	var corpus strings.Builder
	for _, doc := range load.Documents {
		chunks, err := b.chunker.Chunk(doc)
		if err != nil {
			return report, fmt.Errorf("chunk %s: %w", doc.Source, err)
		}
		for _, ch := range chunks {
			allChunks = append(allChunks, ch)
			allTexts = append(allTexts, ch.Text)
		}
		corpus.WriteString(doc.Content)
		corpus.WriteString("\n")
	}
	if len(allChunks) == 0 {
		return report, errors.New("corpus produced no chunks")
	}
	b.logger.Info("corpus chunked", "documents", len(load.Documents), "chunks", len(allChunks))

	if err := b.embedder.Prepare(allTexts); err != nil {
		return report, fmt.Errorf("prepare embedder: %w", err)
	}

	var bar *progressbar.ProgressBar
	if b.progress {
		bar = newEmbedBar(len(allChunks))
	}
	kept := make([]domain.Chunk, 0, len(allChunks))
	vectors := make([][]float64, 0, len(allChunks))
	for _, ch := range allChunks {
		if bar != nil {
			_ = bar.Add(1)
		}
		if strings.TrimSpace(ch.Text) == "" {
			report.SkippedChunks = append(report.SkippedChunks, domain.SkippedChunk{
				ChunkID: ch.ID, Source: ch.Source, Reason: "empty text",
			})
			continue
		}
		vec, err := b.embedder.Embed(ctx, ch.Text)
		if err != nil {
			b.logger.Warn("chunk skipped", "chunk", ch.ID, "source", ch.Source, "err", err)
			report.SkippedChunks = append(report.SkippedChunks, domain.SkippedChunk{
				ChunkID: ch.ID, Source: ch.Source, Reason: err.Error(),
			})
			continue
		}
		kept = append(kept, ch)
		vectors = append(vectors, vec)
	}
	if bar != nil {
		_ = bar.Finish()
	}
	if len(kept) == 0 {
		return report, errors.New("no chunks could be embedded")
	}

	if err := b.store.Clear(); err != nil {
		return report, fmt.Errorf("clear store: %w", err)
	}
	if err := b.store.Init(len(vectors[0])); err != nil {
		return report, fmt.Errorf("init store: %w", err)
	}
	if err := b.store.Upsert(kept, vectors); err != nil {
		return report, fmt.Errorf("upsert: %w", err)
	}
	report.Chunks = len(kept)

	summary, err := b.summarizer.Summarize(corpus.String(), b.summaryMaxSentences)
	if err != nil {
		b.logger.Warn("corpus summary failed", "err", err)
	} else {
		report.Summary = summary
	}

	if snap, ok := b.store.(vectorstore.Snapshotter); ok {
		snap.SetModelInfo(b.embedder.ModelInfo())
		snap.SetSummary(report.Summary)
		if err := snap.Flush(); err != nil {
			return report, fmt.Errorf("persist index: %w", err)
		}
	}
	b.logger.Info("index built",
		"chunks", report.Chunks,
		"skipped_chunks", len(report.SkippedChunks),
		"skipped_sources", len(report.SkippedSources),
		"model", b.embedder.ModelInfo())
	return report, nil
}

func newEmbedBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("embedding"),
		progressbar.OptionSetWidth(32),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
