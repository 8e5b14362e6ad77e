package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaiSandeep10/campusinfo/internal/domain"
)

type fakeAssistant struct {
	turn domain.Turn
	err  error
}

func (f *fakeAssistant) Ask(_ context.Context, _ string) (domain.Turn, error) {
	return f.turn, f.err
}

func libraryTurn() domain.Turn {
	return domain.Turn{
		ID:       "t1",
		Question: "What are the library timings?",
		Answer:   "The library is open from 9am to 6pm.",
		Sources: []domain.SearchResult{
			{Chunk: domain.Chunk{ID: "c1", Source: "library.pdf", Text: "..."}, Score: 0.91},
			{Chunk: domain.Chunk{ID: "c2", Source: "library.pdf", Text: "..."}, Score: 0.80},
			{Chunk: domain.Chunk{ID: "c3", Source: "hostel.pdf", Text: "..."}, Score: 0.40},
		},
	}
}

func TestSourceLineDeduplicates(t *testing.T) {
	line := sourceLine(libraryTurn().Sources)
	assert.Contains(t, line, "library.pdf (0.91)")
	assert.Contains(t, line, "hostel.pdf (0.40)")
	assert.NotContains(t, line, "0.80", "repeated source keeps only its best-ranked score")
}

func TestAnswerMsgAppendsTurn(t *testing.T) {
	m := New(&fakeAssistant{}, "2 documents indexed")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	updated, _ = m.Update(answerMsg{turn: libraryTurn()})
	m = updated.(Model)
	require.Len(t, m.turns, 1)
	assert.Contains(t, m.viewport.View(), "9am to 6pm")
	assert.Contains(t, m.status, "3 source chunk(s)")
}

func TestAnswerMsgErrorSetsStatus(t *testing.T) {
	m := New(&fakeAssistant{}, "")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	updated, _ = m.Update(answerMsg{err: domain.ErrUpstream})
	m = updated.(Model)
	assert.Empty(t, m.turns)
	assert.Contains(t, m.status, "unavailable")
}

func TestEnterDispatchesAsk(t *testing.T) {
	assistant := &fakeAssistant{turn: libraryTurn()}
	m := New(assistant, "")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)
	m.input.SetValue("What are the library timings?")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	require.NotNil(t, cmd)
	assert.Equal(t, "Thinking...", m.status)
	assert.Empty(t, m.input.Value())

	msg := cmd()
	ans, ok := msg.(answerMsg)
	require.True(t, ok)
	assert.Equal(t, "t1", ans.turn.ID)
}
