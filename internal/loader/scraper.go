package loader

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/SaiSandeep10/campusinfo/internal/domain"
)

// Some campus servers reject requests without a browser User-Agent.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Scraper fetches a fixed list of pages and reduces each to plain text.
// One attempt per page, no retries; a failed page is skipped. A politeness
// delay separates requests so the campus server is not hammered.
type Scraper struct {
	client     *http.Client
	delay      time.Duration
	minTextLen int
	logger     *log.Logger
}

// ScraperOptions tune the crawl. Zero values pick the defaults used against
// the campus site: 10s fetch timeout, 1s delay, 25-char text floor.
type ScraperOptions struct {
	Timeout    time.Duration
	Delay      time.Duration
	MinTextLen int
	Logger     *log.Logger
}

func NewScraper(opts ScraperOptions) *Scraper {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Delay == 0 {
		opts.Delay = time.Second
	}
	if opts.MinTextLen == 0 {
		opts.MinTextLen = 25
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Scraper{
		client:     &http.Client{Timeout: opts.Timeout},
		delay:      opts.Delay,
		minTextLen: opts.MinTextLen,
		logger:     opts.Logger,
	}
}

// ScrapeAll visits every URL in order, producing one document per page that
// yielded text. Failures are folded into the skipped list and the crawl
// continues with the remaining pages.
func (s *Scraper) ScrapeAll(ctx context.Context, urls []string) Result {
	var res Result
	for i, url := range urls {
		if i > 0 {
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				res.skip(url, fmt.Errorf("%w: %v", domain.ErrFetch, ctx.Err()))
				continue
			}
		}
		s.logger.Info("scraping page", "url", url)
		text, err := s.ScrapePage(ctx, url)
		if err != nil {
			s.logger.Warn("page skipped", "url", url, "err", err)
			res.skip(url, err)
			continue
		}
		if text == "" {
			s.logger.Warn("page skipped", "url", url, "err", "no useful text")
			res.skip(url, fmt.Errorf("%w: no useful text", domain.ErrFetch))
			continue
		}
		s.logger.Info("page scraped", "url", url, "chars", len(text))
		res.add(domain.Document{ID: sourceID(url), Source: url, Content: text})
	}
	return res
}

// ScrapePage fetches one URL and extracts its useful text.
func (s *Scraper) ScrapePage(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %s", domain.ErrFetch, resp.Status)
	}

	root, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: parse html: %v", domain.ErrFetch, err)
	}
	return s.extractText(root), nil
}

// Boilerplate elements whose subtrees carry no corpus text.
var skippedElements = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
	atom.Nav:    true,
	atom.Footer: true,
	atom.Header: true,
	atom.Iframe: true,
}

// Elements whose text is considered meaningful page content.
var usefulElements = map[atom.Atom]bool{
	atom.H1:   true,
	atom.H2:   true,
	atom.H3:   true,
	atom.H4:   true,
	atom.P:    true,
	atom.Li:   true,
	atom.Td:   true,
	atom.Th:   true,
	atom.Span: true,
}

// extractText collects the text of useful elements, one line each,
// dropping fragments too short to be meaningful.
func (s *Scraper) extractText(root *html.Node) string {
	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skippedElements[n.DataAtom] {
				return
			}
			if usefulElements[n.DataAtom] {
				text := collapseWhitespace(nodeText(n))
				if utf8.RuneCountInString(text) > s.minTextLen {
					lines = append(lines, text)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return strings.Join(lines, "\n")
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
			return
		}
		if n.Type == html.ElementNode && skippedElements[n.DataAtom] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
