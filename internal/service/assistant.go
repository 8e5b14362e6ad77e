package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/SaiSandeep10/campusinfo/internal/domain"
)

// Retriever finds the stored chunks most similar to a question.
type Retriever interface {
	Retrieve(ctx context.Context, question string) ([]domain.SearchResult, error)
}

// Synthesizer turns a question plus retrieved chunks into a final answer.
type Synthesizer interface {
	Answer(ctx context.Context, question string, sources []domain.SearchResult) (string, error)
}

// CampusAssistant wires retrieval and answer synthesis into a single
// question-answering call. It is stateless between questions; the chat
// transcript lives in the UI layer.
type CampusAssistant struct {
	retriever   Retriever
	synthesizer Synthesizer
}

func NewCampusAssistant(retriever Retriever, synthesizer Synthesizer) *CampusAssistant {
	return &CampusAssistant{retriever: retriever, synthesizer: synthesizer}
}

// Ask answers one question. The returned turn carries the retrieved chunks
// so the UI can show which sources the answer was grounded on.
func (a *CampusAssistant) Ask(ctx context.Context, question string) (domain.Turn, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Turn{}, fmt.Errorf("question is empty")
	}

	sources, err := a.retriever.Retrieve(ctx, question)
	if err != nil {
		return domain.Turn{}, fmt.Errorf("retrieve: %w", err)
	}

	answer, err := a.synthesizer.Answer(ctx, question, sources)
	if err != nil {
		return domain.Turn{}, fmt.Errorf("synthesize: %w", err)
	}

	return domain.Turn{
		ID:       uuid.NewString(),
		Question: question,
		Sources:  sources,
		Answer:   answer,
	}, nil
}

// UserMessage maps an error from Ask to a sentence fit for the chat window.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrUpstream):
		return "The language model service is unavailable right now. Please try again in a moment."
	case errors.Is(err, domain.ErrIndexNotFound):
		return "No document index was found. Run campus-index first to build one."
	case errors.Is(err, domain.ErrModelMismatch):
		return "The index was built with a different embedding model. Rebuild it with campus-index."
	case errors.Is(err, context.DeadlineExceeded):
		return "The request timed out. Please try again."
	default:
		return fmt.Sprintf("Something went wrong: %v", err)
	}
}
