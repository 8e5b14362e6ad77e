package answer

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/SaiSandeep10/campusinfo/internal/domain"
)

// The model is instructed to answer only from the retrieved context.
// Nothing verifies that it actually does; hallucination remains a known,
// unmitigated limitation.
const systemPrompt = `You are an AI assistant for the campus.
Use the given context to answer the question.
If the answer is not in the context, say:
"Answer not found in provided documents."`

// Synthesizer assembles a prompt from the retrieved chunks and submits one
// chat-completion request. One attempt per question; a failed call is
// surfaced to the user, not retried.
type Synthesizer struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
}

// Config configures the completion endpoint. BaseURL is overridable so
// tests can point the client at a local fake.
type Config struct {
	APIKeyEnv   string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

func New(cfg Config) (*Synthesizer, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("%w: set %s in the environment or .env file", domain.ErrMissingCredential, cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 512
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.3
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	clientCfg := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Synthesizer{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: float32(cfg.Temperature),
		timeout:     cfg.Timeout,
	}, nil
}

// Answer generates a grounded answer for the question from the retrieved
// chunks and returns the model output verbatim.
func (s *Synthesizer) Answer(ctx context.Context, question string, sources []domain.SearchResult) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:       s.model,
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(question, sources)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: completion: %v", domain.ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: completion returned no choices", domain.ErrUpstream)
	}
	return resp.Choices[0].Message.Content, nil
}

// BuildPrompt joins the retrieved chunk texts into a context block followed
// by the question.
func BuildPrompt(question string, sources []domain.SearchResult) string {
	texts := make([]string, 0, len(sources))
	for _, src := range sources {
		texts = append(texts, src.Chunk.Text)
	}
	var b strings.Builder
	b.WriteString("Context:\n")
	b.WriteString(strings.Join(texts, "\n\n"))
	b.WriteString("\n\nQuestion:\n")
	b.WriteString(question)
	b.WriteString("\n\nAnswer:")
	return b.String()
}
