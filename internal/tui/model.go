package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/SaiSandeep10/campusinfo/internal/domain"
	"github.com/SaiSandeep10/campusinfo/internal/service"
)

// AskPort is the TUI-facing subset of the assistant service.
type AskPort interface {
	Ask(ctx context.Context, question string) (domain.Turn, error)
}

// Model is the Bubble Tea model for the chat application.
type Model struct {
	assistant AskPort
	input     textinput.Model
	viewport  viewport.Model
	turns     []domain.Turn
	summary   string
	status    string
	ready     bool
}

// New creates a new chat model. The summary is shown above the transcript
// so the user knows what corpus the assistant was built from.
func New(assistant AskPort, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{assistant: assistant, input: ti, viewport: vp, summary: summary, status: "Ready. Ask about the campus documents."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// answerMsg carries the outcome of one question back into Update.
type answerMsg struct {
	turn domain.Turn
	err  error
}

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around transcript and question boxes
		_, th := transcriptBoxStyle.GetFrameSize()
		_, qh := questionBoxStyle.GetFrameSize()
		totalHeaderLines := 2                                    // header + summary
		totalFooterLines := 1                                    // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-th)
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil
	case answerMsg:
		if msg.err != nil {
			m.status = service.UserMessage(msg.err)
		} else {
			m.turns = append(m.turns, msg.turn)
			m.status = fmt.Sprintf("Answered from %d source chunk(s).", len(msg.turn.Sources))
		}
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				m.input.SetValue("")
				m.status = "Thinking..."
				return m, askCmd(m.assistant, q)
			}
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// askCmd runs the question off the event loop so the input stays responsive
// while retrieval and completion are in flight.
func askCmd(assistant AskPort, question string) tea.Cmd {
	return func() tea.Msg {
		turn, err := assistant.Ask(context.Background(), question)
		return answerMsg{turn: turn, err: err}
	}
}

// View renders the chat layout and transcript.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Campus Assistant")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := questionBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	transcript := transcriptBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + transcript + "\n" + input + "\n" + status
}

func (m Model) renderTranscript() string {
	if len(m.turns) == 0 {
		return "No questions yet. Ask about timetables, fees, facilities or anything in the indexed documents."
	}
	blocks := make([]string, 0, len(m.turns))
	for _, turn := range m.turns {
		blocks = append(blocks, renderTurn(turn))
	}
	return strings.Join(blocks, "\n\n")
}

func renderTurn(turn domain.Turn) string {
	var b strings.Builder
	b.WriteString(questionStyle.Render("You: " + turn.Question))
	b.WriteString("\n")
	b.WriteString(answerStyle.Render("Assistant: " + turn.Answer))
	if len(turn.Sources) > 0 {
		b.WriteString("\n")
		b.WriteString(sourceStyle.Render("Sources: " + sourceLine(turn.Sources)))
	}
	return b.String()
}

// sourceLine lists each distinct source once, in retrieval order.
func sourceLine(sources []domain.SearchResult) string {
	seen := make(map[string]struct{}, len(sources))
	names := make([]string, 0, len(sources))
	for _, src := range sources {
		if _, ok := seen[src.Chunk.Source]; ok {
			continue
		}
		seen[src.Chunk.Source] = struct{}{}
		names = append(names, fmt.Sprintf("%s (%.2f)", src.Chunk.Source, src.Score))
	}
	return strings.Join(names, ", ")
}

var (
	transcriptBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	answerStyle        = lipgloss.NewStyle()
	sourceStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
