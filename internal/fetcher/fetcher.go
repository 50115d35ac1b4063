// Package fetcher handles feed downloading, parsing, and item mapping.
package fetcher

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/mgaitan/lobstersgram/internal/model"
)

const userAgent = "lobstersgram/1.0"

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher downloads and parses the feed.
type Fetcher struct {
	client HTTPClient
	url    string
}

// New creates a Fetcher for the given feed URL.
func New(client HTTPClient, url string) *Fetcher {
	return &Fetcher{client: client, url: url}
}

// Fetch downloads the feed and returns its items in feed order.
func (f *Fetcher) Fetch(ctx context.Context) ([]model.Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	parser := gofeed.NewParser()
	feed, err := parser.ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := make([]model.Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		items = append(items, itemFromEntry(entry))
	}
	return items, nil
}

// ItemID returns the identity of a feed entry: the feed-provided GUID,
// the entry link if there is none, or a SHA-256 hash of title+link as a
// last resort.
func ItemID(entry *gofeed.Item) string {
	if entry.GUID != "" {
		return entry.GUID
	}
	if entry.Link != "" {
		return entry.Link
	}
	h := sha256.Sum256([]byte(entry.Title + "|" + entry.Link))
	return fmt.Sprintf("sha256:%x", h[:16])
}

// itemFromEntry maps a feed entry onto an Item. Lobsters publishes the
// discussion page as the GUID; text-only posts additionally use it as the
// entry link, in which case any alternate non-discussion link becomes the
// source URL.
func itemFromEntry(entry *gofeed.Item) model.Item {
	link := entry.Link
	discussion := ""

	if isDiscussionURL(entry.GUID) {
		discussion = entry.GUID
	}
	if isDiscussionURL(link) {
		if discussion == "" {
			discussion = link
		}
		for _, alt := range entry.Links {
			if alt != "" && !isDiscussionURL(alt) {
				link = alt
				break
			}
		}
	}

	title := entry.Title
	if title == "" {
		title = link
	}

	item := model.Item{
		ID:            ItemID(entry),
		Title:         title,
		Description:   entry.Description,
		SourceURL:     link,
		DiscussionURL: discussion,
		Source:        sourceHost(link),
		Tags:          entry.Categories,
	}
	if entry.PublishedParsed != nil {
		item.PublishedAt = *entry.PublishedParsed
	}
	return item
}

// isDiscussionURL reports whether a URL points at a Lobsters story page.
func isDiscussionURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return (host == "lobste.rs" || strings.HasSuffix(host, ".lobste.rs")) &&
		strings.HasPrefix(u.Path, "/s/")
}

func sourceHost(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return "lobste.rs"
	}
	return u.Hostname()
}
