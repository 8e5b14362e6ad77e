package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/SaiSandeep10/campusinfo/internal/domain"
)

// TextDir loads previously scraped .txt files, one document per file, so
// index builds can run offline from a saved crawl. A missing directory is
// not an error; it simply contributes no documents.
func TextDir(dir string) Result {
	var res Result
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return res
		}
		res.skip(dir, fmt.Errorf("%w: %v", domain.ErrSourceUnreadable, err))
		return res
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".txt") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			res.skip(path, fmt.Errorf("%w: %v", domain.ErrSourceUnreadable, err))
			continue
		}
		if len(data) == 0 {
			res.skip(path, fmt.Errorf("%w: empty file", domain.ErrSourceUnreadable))
			continue
		}
		res.add(domain.Document{ID: sourceID(path), Source: path, Content: string(data)})
	}
	return res
}

// SaveTextDir writes scraped documents into dir as UTF-8 .txt files, one
// document per file, named after a slug of the source URL.
func SaveTextDir(dir string, docs []domain.Document) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, doc := range docs {
		name := slugify(doc.Source) + ".txt"
		if err := os.WriteFile(filepath.Join(dir, name), []byte(doc.Content), 0o644); err != nil {
			return fmt.Errorf("save %s: %w", doc.Source, err)
		}
	}
	return nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(source string) string {
	s := strings.ToLower(source)
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = slugPattern.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
