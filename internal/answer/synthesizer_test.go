package answer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaiSandeep10/campusinfo/internal/domain"
)

func sources() []domain.SearchResult {
	return []domain.SearchResult{
		{Chunk: domain.Chunk{ID: "d1:0", Text: "The library is open 9am to 6pm on weekdays."}, Score: 0.91},
		{Chunk: domain.Chunk{ID: "d2:0", Text: "Hostel fees are due in June."}, Score: 0.42},
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("What are the library timings?", sources())

	assert.Contains(t, prompt, "Context:")
	assert.Contains(t, prompt, "The library is open 9am to 6pm on weekdays.")
	assert.Contains(t, prompt, "Hostel fees are due in June.")
	assert.Contains(t, prompt, "Question:\nWhat are the library timings?")
	assert.Less(t,
		strings.Index(prompt, "The library is open"),
		strings.Index(prompt, "Hostel fees"),
		"context keeps retrieval order")
}

func TestNewMissingCredential(t *testing.T) {
	t.Setenv("CAMPUS_TEST_KEY", "")
	_, err := New(Config{APIKeyEnv: "CAMPUS_TEST_KEY"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}

func TestAnswerReturnsCompletionVerbatim(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		gotPrompt = req.Messages[1].Content

		resp := map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]any{
						"role":    "assistant",
						"content": "The library is open from 9am to 6pm on weekdays.",
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()
	t.Setenv("CAMPUS_TEST_KEY", "sk-test")

	s, err := New(Config{APIKeyEnv: "CAMPUS_TEST_KEY", BaseURL: srv.URL})
	require.NoError(t, err)

	got, err := s.Answer(context.Background(), "What are the library timings?", sources())
	require.NoError(t, err)
	assert.Equal(t, "The library is open from 9am to 6pm on weekdays.", got)
	assert.Contains(t, got, "9am")
	assert.Contains(t, gotPrompt, "The library is open 9am to 6pm on weekdays.")
}

func TestAnswerUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()
	t.Setenv("CAMPUS_TEST_KEY", "sk-test")

	s, err := New(Config{APIKeyEnv: "CAMPUS_TEST_KEY", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = s.Answer(context.Background(), "anything", sources())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
}
