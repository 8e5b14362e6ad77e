package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaiSandeep10/campusinfo/internal/domain"
)

type fakeRetriever struct {
	results []domain.SearchResult
	err     error
	gotQ    string
}

func (f *fakeRetriever) Retrieve(_ context.Context, question string) ([]domain.SearchResult, error) {
	f.gotQ = question
	return f.results, f.err
}

type fakeSynthesizer struct {
	answer     string
	err        error
	gotSources []domain.SearchResult
}

func (f *fakeSynthesizer) Answer(_ context.Context, _ string, sources []domain.SearchResult) (string, error) {
	f.gotSources = sources
	return f.answer, f.err
}

func TestAskComposesRetrievalAndSynthesis(t *testing.T) {
	results := []domain.SearchResult{
		{Chunk: domain.Chunk{ID: "c1", Text: "The library is open 9am to 6pm."}, Score: 0.9},
	}
	ret := &fakeRetriever{results: results}
	syn := &fakeSynthesizer{answer: "The library is open from 9am to 6pm."}
	a := NewCampusAssistant(ret, syn)

	turn, err := a.Ask(context.Background(), "  What are the library timings?  ")
	require.NoError(t, err)
	assert.Equal(t, "What are the library timings?", ret.gotQ, "question is trimmed before retrieval")
	assert.Equal(t, results, syn.gotSources, "synthesizer sees what retrieval returned")
	assert.Equal(t, "The library is open from 9am to 6pm.", turn.Answer)
	assert.Equal(t, "What are the library timings?", turn.Question)
	assert.Equal(t, results, turn.Sources)
	assert.NotEmpty(t, turn.ID)
}

func TestAskEmptyQuestion(t *testing.T) {
	a := NewCampusAssistant(&fakeRetriever{}, &fakeSynthesizer{})
	_, err := a.Ask(context.Background(), "   ")
	assert.Error(t, err)
}

func TestAskRetrievalFailure(t *testing.T) {
	ret := &fakeRetriever{err: fmt.Errorf("lookup: %w", domain.ErrIndexNotFound)}
	a := NewCampusAssistant(ret, &fakeSynthesizer{})

	_, err := a.Ask(context.Background(), "anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrIndexNotFound)
}

func TestAskSynthesisFailure(t *testing.T) {
	syn := &fakeSynthesizer{err: fmt.Errorf("completion: %w", domain.ErrUpstream)}
	a := NewCampusAssistant(&fakeRetriever{}, syn)

	_, err := a.Ask(context.Background(), "anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestAskUniqueTurnIDs(t *testing.T) {
	a := NewCampusAssistant(&fakeRetriever{}, &fakeSynthesizer{answer: "ok"})
	first, err := a.Ask(context.Background(), "q1")
	require.NoError(t, err)
	second, err := a.Ask(context.Background(), "q2")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestUserMessage(t *testing.T) {
	assert.Contains(t, UserMessage(fmt.Errorf("x: %w", domain.ErrUpstream)), "unavailable")
	assert.Contains(t, UserMessage(fmt.Errorf("x: %w", domain.ErrIndexNotFound)), "campus-index")
	assert.Contains(t, UserMessage(fmt.Errorf("x: %w", domain.ErrModelMismatch)), "Rebuild")
	assert.Contains(t, UserMessage(context.DeadlineExceeded), "timed out")
	assert.Contains(t, UserMessage(fmt.Errorf("boom")), "boom")
}
