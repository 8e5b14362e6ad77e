package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaiSandeep10/campusinfo/internal/chunker"
	"github.com/SaiSandeep10/campusinfo/internal/domain"
	"github.com/SaiSandeep10/campusinfo/internal/embedding/tfidf"
	"github.com/SaiSandeep10/campusinfo/internal/index"
	"github.com/SaiSandeep10/campusinfo/internal/loader"
	"github.com/SaiSandeep10/campusinfo/internal/retriever"
	"github.com/SaiSandeep10/campusinfo/internal/summarizer"
	"github.com/SaiSandeep10/campusinfo/internal/vectorstore/memory"
)

// promptSynthesizer stands in for the hosted model: it records the sources
// it was handed and answers from the best-ranked chunk.
type promptSynthesizer struct {
	gotSources []domain.SearchResult
}

func (p *promptSynthesizer) Answer(_ context.Context, _ string, sources []domain.SearchResult) (string, error) {
	p.gotSources = sources
	if len(sources) == 0 {
		return "Answer not found in provided documents.", nil
	}
	return sources[0].Chunk.Text, nil
}

// Builds a real index over a small corpus and asks a question through the
// full retrieval path, with only the completion call faked.
func TestAssistantEndToEnd(t *testing.T) {
	docs := loader.Result{Documents: []domain.Document{
		{ID: "d1", Source: "library.txt", Content: "The central library is open from 9am to 6pm on weekdays. Students may borrow up to four books at a time. Late returns attract a small fine per day."},
		{ID: "d2", Source: "hostel.txt", Content: "Hostel admission forms are issued by the administrative office. Mess charges are collected at the start of each semester."},
		{ID: "d3", Source: "exams.txt", Content: "Semester examinations are held in December and May. Hall tickets are issued two weeks before the first paper."},
	}}

	ch, err := chunker.NewOverlapChunker(120, 20)
	require.NoError(t, err)
	emb := tfidf.NewEmbedder()
	store := memory.NewStore()
	builder := index.NewBuilder(ch, emb, store, summarizer.NewFrequencySummarizer(), index.Options{})

	report, err := builder.Build(context.Background(), docs)
	require.NoError(t, err)
	require.Greater(t, report.Chunks, 3)

	syn := &promptSynthesizer{}
	assistant := NewCampusAssistant(retriever.New(emb, store, 3, 0), syn)

	turn, err := assistant.Ask(context.Background(), "When is the library open?")
	require.NoError(t, err)
	require.NotEmpty(t, turn.Sources)
	assert.Contains(t, turn.Sources[0].Chunk.Text, "9am to 6pm")
	assert.Equal(t, "library.txt", turn.Sources[0].Chunk.Source)
	assert.Contains(t, turn.Answer, "9am to 6pm")
	assert.Len(t, syn.gotSources, 3)

	// A question about a different topic must surface different sources.
	turn, err = assistant.Ask(context.Background(), "When are the semester examinations held?")
	require.NoError(t, err)
	require.NotEmpty(t, turn.Sources)
	assert.Equal(t, "exams.txt", turn.Sources[0].Chunk.Source)
	assert.True(t, strings.Contains(turn.Answer, "December"), "answer grounded on the exams chunk")
}
