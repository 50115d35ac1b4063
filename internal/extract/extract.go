// Package extract resolves article URLs and pulls readable content out of
// HTML pages.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	userAgent = "lobstersgram/1.0"

	maxBodyBytes = 8 * 1024 * 1024
	maxBlocks    = 2000

	// Below this much text the chosen container is considered a miss and
	// extraction falls back to the whole body.
	minContentChars = 200

	// Shortest block that qualifies as the article intro.
	minIntroChars = 40
)

// Block is one unit of extracted content: a paragraph, heading, quote or
// preformatted section.
type Block struct {
	Tag  string
	Text string
}

// Article is the readable content extracted from a page.
type Article struct {
	URL    string // final URL after redirects
	Title  string
	Intro  string
	Blocks []Block
}

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Extractor downloads pages and extracts their main content.
type Extractor struct {
	client HTTPClient
}

// New creates an Extractor with the given HTTP client. The client is
// expected to follow redirects; the final URL is reported on the Article.
func New(client HTTPClient) *Extractor {
	return &Extractor{client: client}
}

// Extract downloads the page at url and extracts its readable content.
func (e *Extractor) Extract(ctx context.Context, url string) (*Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html, application/xhtml+xml, */*")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	art, err := Parse(body)
	if err != nil {
		return nil, err
	}
	art.URL = finalURL
	if art.Title == "" {
		art.Title = finalURL
	}
	return art, nil
}

// Parse extracts readable content from raw HTML.
func Parse(html []byte) (*Article, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	art := &Article{Title: pageTitle(doc)}

	doc.Find("script, style, noscript, template, iframe, form, nav, header, footer, aside").Remove()

	content := mainContent(doc)
	art.Blocks = blocks(content)
	if len(art.Blocks) == 0 {
		art.Blocks = fallbackBlocks(content)
	}
	art.Intro = intro(art.Blocks)
	return art, nil
}

func pageTitle(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if t := strings.TrimSpace(og); t != "" {
			return t
		}
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// mainContent picks the candidate container with the most paragraph text,
// falling back to the whole body when nothing substantial is found.
func mainContent(doc *goquery.Document) *goquery.Selection {
	candidates := []string{
		"article", "main", `[role="main"]`,
		"#content", ".post", ".entry-content", ".article-body",
	}

	var best *goquery.Selection
	bestLen := 0
	for _, sel := range candidates {
		s := doc.Find(sel).First()
		if s.Length() == 0 {
			continue
		}
		if l := textLen(s); l > bestLen {
			best, bestLen = s, l
		}
	}

	if best == nil || bestLen < minContentChars {
		return doc.Find("body").First()
	}
	return best
}

func textLen(s *goquery.Selection) int {
	n := 0
	s.Find("p").Each(func(_ int, p *goquery.Selection) {
		n += utf8.RuneCountInString(strings.TrimSpace(p.Text()))
	})
	return n
}

func blocks(content *goquery.Selection) []Block {
	var out []Block
	content.Find("p, h1, h2, h3, h4, h5, h6, pre, blockquote, li").
		EachWithBreak(func(_ int, s *goquery.Selection) bool {
			b, ok := blockFrom(s)
			if ok {
				out = append(out, b)
			}
			return len(out) < maxBlocks
		})
	return out
}

func blockFrom(s *goquery.Selection) (Block, bool) {
	tag := goquery.NodeName(s)
	switch tag {
	case "pre":
		text := strings.Trim(s.Text(), "\n")
		if strings.TrimSpace(text) == "" {
			return Block{}, false
		}
		return Block{Tag: "pre", Text: text}, true
	case "h1", "h2":
		tag = "h3"
	case "h3", "h4", "h5", "h6":
		tag = "h4"
	case "blockquote":
		// Quotes wrapping <p> children are skipped here; the inner
		// paragraphs are emitted on their own.
		if s.ChildrenFiltered("p").Length() > 0 {
			return Block{}, false
		}
	case "li":
		text := collapse(s.Text())
		if text == "" {
			return Block{}, false
		}
		return Block{Tag: "p", Text: "• " + text}, true
	default:
		tag = "p"
	}
	text := collapse(s.Text())
	if text == "" {
		return Block{}, false
	}
	return Block{Tag: tag, Text: text}, true
}

// fallbackBlocks splits the container's bare text into paragraphs when the
// page has no block-level markup to work with.
func fallbackBlocks(content *goquery.Selection) []Block {
	var out []Block
	for _, chunk := range strings.Split(content.Text(), "\n\n") {
		text := collapse(chunk)
		if text == "" {
			continue
		}
		out = append(out, Block{Tag: "p", Text: text})
		if len(out) == maxBlocks {
			break
		}
	}
	return out
}

// intro returns the first paragraph-like block long enough to serve as a
// summary, or the first non-empty block when none qualifies.
func intro(blocks []Block) string {
	for _, b := range blocks {
		if b.Tag != "p" && b.Tag != "blockquote" {
			continue
		}
		if utf8.RuneCountInString(b.Text) >= minIntroChars {
			return b.Text
		}
	}
	for _, b := range blocks {
		if b.Text != "" {
			return b.Text
		}
	}
	return ""
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
