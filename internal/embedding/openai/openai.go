package openai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/SaiSandeep10/campusinfo/internal/domain"
)

// Known output dimensions per model; other models set it lazily from the
// first returned vector.
var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// Embedder produces embeddings through the OpenAI API, with a bounded
// retry/backoff loop around each call.
type Embedder struct {
	client     *openai.Client
	model      string
	dim        int
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

// Config configures the OpenAI embedder. BaseURL is overridable so tests
// can point the client at a local fake endpoint.
type Config struct {
	APIKeyEnv  string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

func New(cfg Config) (*Embedder, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = "OPENAI_API_KEY"
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("%w: set %s in the environment or .env file", domain.ErrMissingCredential, cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	clientCfg := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Embedder{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      cfg.Model,
		dim:        modelDimensions[cfg.Model],
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}, nil
}

func (e *Embedder) Name() string { return "openai" }

// ModelInfo identifies the embedding space for the persisted index stamp.
func (e *Embedder) ModelInfo() string { return "openai/" + e.model }

// Prepare is a no-op; the model is pretrained and corpus-independent.
func (e *Embedder) Prepare(corpus []string) error { return nil }

func (e *Embedder) Dimension() int { return e.dim }

// Embed returns the L2-normalized embedding vector for the given text, so
// cosine similarity against other normalized vectors is a plain dot product.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, errors.New("cannot embed empty text")
	}
	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff(e.retryDelay, attempt)):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, ctx.Err())
			}
		}
		vec, err := e.embedOnce(ctx, text)
		if err != nil {
			lastErr = err
			continue
		}
		return vec, nil
	}
	return nil, fmt.Errorf("%w: embeddings after %d attempts: %v", domain.ErrUpstream, e.maxRetries+1, lastErr)
}

func (e *Embedder) embedOnce(ctx context.Context, text string) ([]float64, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.CreateEmbeddings(callCtx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("no embedding data returned")
	}
	raw := resp.Data[0].Embedding
	vec := make([]float64, len(raw))
	for i, v := range raw {
		vec[i] = float64(v)
	}
	l2Normalize(vec)
	if e.dim == 0 {
		e.dim = len(vec)
	}
	return vec, nil
}

func backoff(base time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > 30*time.Second {
		d = 30 * time.Second
	}
	return d
}

func l2Normalize(vec []float64) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	inv := 1 / math.Sqrt(sum)
	for i := range vec {
		vec[i] *= inv
	}
}
