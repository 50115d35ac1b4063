// Package telegraph is a minimal client for the telegra.ph publishing API.
package telegraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mgaitan/lobstersgram/internal/extract"
)

const (
	createPageURL = "https://api.telegra.ph/createPage"

	// Telegraph rejects titles longer than 256 characters.
	maxTitleLen = 256
)

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Node is one element of the Telegraph page DOM. Children may hold strings
// or further Nodes.
type Node struct {
	Tag      string            `json:"tag"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []any             `json:"children,omitempty"`
}

// Client calls the Telegraph API on behalf of one account.
type Client struct {
	client      HTTPClient
	accessToken string
}

// New creates a Client using the given access token.
func New(client HTTPClient, accessToken string) *Client {
	return &Client{client: client, accessToken: accessToken}
}

// CreatePage publishes a page and returns its public URL. sourceURL, when
// set, is recorded as the page's author link for attribution.
func (c *Client) CreatePage(ctx context.Context, title string, content []Node, sourceURL string) (string, error) {
	nodes, err := json.Marshal(content)
	if err != nil {
		return "", fmt.Errorf("encode content: %w", err)
	}

	form := url.Values{}
	form.Set("access_token", c.accessToken)
	form.Set("title", truncate(title, maxTitleLen))
	form.Set("content", string(nodes))
	form.Set("return_content", "false")
	if sourceURL != "" {
		form.Set("author_name", "Source")
		form.Set("author_url", sourceURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, createPageURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http post: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var res struct {
		OK     bool   `json:"ok"`
		Error  string `json:"error"`
		Result struct {
			URL string `json:"url"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if !res.OK {
		return "", fmt.Errorf("telegraph error: %s", res.Error)
	}
	if res.Result.URL == "" {
		return "", fmt.Errorf("telegraph returned no page url")
	}
	return res.Result.URL, nil
}

// Nodes converts extracted content blocks into the Telegraph page DOM.
func Nodes(blocks []extract.Block) []Node {
	if len(blocks) == 0 {
		return []Node{{Tag: "p", Children: []any{"(No content extracted)"}}}
	}
	nodes := make([]Node, 0, len(blocks))
	for _, b := range blocks {
		nodes = append(nodes, Node{Tag: b.Tag, Children: []any{b.Text}})
	}
	return nodes
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
