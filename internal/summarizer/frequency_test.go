package summarizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeSelectsInDocumentOrder(t *testing.T) {
	s := NewFrequencySummarizer()
	text := "The campus library holds thousands of books. " +
		"Weather was pleasant yesterday. " +
		"The library opens at 9am for students. " +
		"Students visit the library to borrow books."

	summary, err := s.Summarize(text, 2)
	require.NoError(t, err)

	sentences := strings.Split(summary, ". ")
	assert.Len(t, sentences, 2)
	assert.Contains(t, summary, "library")
	assert.NotContains(t, summary, "Weather")
}

func TestSummarizeShortText(t *testing.T) {
	s := NewFrequencySummarizer()
	summary, err := s.Summarize("no terminal punctuation here", 3)
	require.NoError(t, err)
	assert.Equal(t, "no terminal punctuation here", summary)
}

func TestSummarizeCapsAtAvailableSentences(t *testing.T) {
	s := NewFrequencySummarizer()
	summary, err := s.Summarize("Only one sentence about admissions.", 5)
	require.NoError(t, err)
	assert.Equal(t, "Only one sentence about admissions.", summary)
}
