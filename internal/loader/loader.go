package loader

import (
	"crypto/sha1"
	"encoding/hex"

	"github.com/SaiSandeep10/campusinfo/internal/domain"
)

// Result accumulates the outcome of a best-effort load: documents that were
// read successfully and sources that were skipped with a reason. Ingestion
// never aborts on a single bad source.
type Result struct {
	Documents []domain.Document
	Skipped   []domain.SkippedSource
}

func (r *Result) add(doc domain.Document) {
	r.Documents = append(r.Documents, doc)
}

func (r *Result) skip(source string, err error) {
	r.Skipped = append(r.Skipped, domain.SkippedSource{Source: source, Reason: err.Error()})
}

// Merge folds another result into this one.
func (r *Result) Merge(other Result) {
	r.Documents = append(r.Documents, other.Documents...)
	r.Skipped = append(r.Skipped, other.Skipped...)
}

func sourceID(source string) string {
	h := sha1.Sum([]byte(source))
	return hex.EncodeToString(h[:8])
}
