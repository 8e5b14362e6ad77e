package domain

import "errors"

// Error taxonomy. Ingestion-time failures (bad source, failed fetch) are
// collected and skipped; query-time failures are surfaced to the user as-is.
var (
	// ErrSourceUnreadable marks a missing or unparsable local source file.
	ErrSourceUnreadable = errors.New("source unreadable")

	// ErrFetch marks a failed page fetch during scraping. Recoverable: the
	// caller skips the page and continues with a partial corpus.
	ErrFetch = errors.New("fetch failed")

	// ErrIndexNotFound is returned when querying before an index was built.
	ErrIndexNotFound = errors.New("vector index not found")

	// ErrModelMismatch is returned when the persisted index was built with a
	// different embedding model than the one configured for querying.
	ErrModelMismatch = errors.New("embedding model mismatch")

	// ErrUpstream marks a failed call to the hosted LLM or embedding
	// endpoint at query time. Not retried; fatal to the request.
	ErrUpstream = errors.New("upstream request failed")

	// ErrMissingCredential marks an absent API key. Fatal at startup.
	ErrMissingCredential = errors.New("missing API credential")
)
