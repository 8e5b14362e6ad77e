package loader

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/SaiSandeep10/campusinfo/internal/domain"
)

// PDF extracts the embedded text of every page and concatenates it into a
// single document. A missing or unparsable file is an ErrSourceUnreadable.
func PDF(path string) (domain.Document, error) {
	text, err := extractPDFText(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("%w: pdf %q: %v", domain.ErrSourceUnreadable, path, err)
	}
	return domain.Document{ID: sourceID(path), Source: path, Content: text}, nil
}

// extractPDFText walks pages 1..N and joins their plain text. The pdf
// library panics on some malformed files, so the panic is converted into an
// error here.
func extractPDFText(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse: %v", r)
		}
	}()
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		if trimmed := strings.TrimSpace(content); trimmed != "" {
			pages = append(pages, trimmed)
		}
	}
	return strings.Join(pages, "\n\n"), nil
}

// PDFs loads a set of handbook files, skipping unreadable ones.
func PDFs(paths []string) Result {
	var res Result
	for _, p := range paths {
		doc, err := PDF(p)
		if err != nil {
			res.skip(p, err)
			continue
		}
		res.add(doc)
	}
	return res
}
