package fetcher

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mmcdole/gofeed"
)

type mockTransport struct {
	body       string
	statusCode int
	err        error
}

func (m *mockTransport) Do(_ *http.Request) (*http.Response, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &http.Response{
		StatusCode: m.statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(m.body)),
	}, nil
}

func loadFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("testdata/lobsters.xml")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return string(data)
}

func TestFetch(t *testing.T) {
	xml := loadFixture(t)

	tests := []struct {
		name      string
		transport *mockTransport
		wantItems int
		wantErr   bool
	}{
		{
			name:      "successful fetch",
			transport: &mockTransport{body: xml, statusCode: 200},
			wantItems: 5,
		},
		{
			name:      "http error status",
			transport: &mockTransport{body: "not found", statusCode: 404},
			wantErr:   true,
		},
		{
			name:      "network error",
			transport: &mockTransport{err: io.ErrUnexpectedEOF},
			wantErr:   true,
		},
		{
			name:      "invalid xml",
			transport: &mockTransport{body: "not xml at all", statusCode: 200},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(tt.transport, "https://lobste.rs/rss")
			items, err := f.Fetch(context.Background())

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if diff := cmp.Diff(tt.wantItems, len(items)); diff != "" {
				t.Errorf("item count mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFetchItemMapping(t *testing.T) {
	f := New(&mockTransport{body: loadFixture(t), statusCode: 200}, "https://lobste.rs/rss")
	items, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(items))
	}

	// Feed order preserved, newest first.
	first := items[0]
	if diff := cmp.Diff("https://lobste.rs/s/abc111", first.ID); diff != "" {
		t.Errorf("id mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("https://example.com/zig-allocators", first.SourceURL); diff != "" {
		t.Errorf("source url mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("https://lobste.rs/s/abc111", first.DiscussionURL); diff != "" {
		t.Errorf("discussion url mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("example.com", first.Source); diff != "" {
		t.Errorf("source host mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"zig", "performance"}, first.Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
	if first.PublishedAt.IsZero() {
		t.Error("expected PublishedAt to be set")
	}

	// Text post: link is the discussion page itself.
	textPost := items[1]
	if diff := cmp.Diff("https://lobste.rs/s/def222", textPost.DiscussionURL); diff != "" {
		t.Errorf("text post discussion mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("lobste.rs", textPost.Source); diff != "" {
		t.Errorf("text post source mismatch (-want +got):\n%s", diff)
	}

	// Entry without a GUID falls back to the link for identity.
	noGUID := items[2]
	if diff := cmp.Diff("https://release.example.org/notes/2.4", noGUID.ID); diff != "" {
		t.Errorf("no-guid id mismatch (-want +got):\n%s", diff)
	}
	if noGUID.DiscussionURL != "" {
		t.Errorf("expected no discussion url, got %q", noGUID.DiscussionURL)
	}
}

func TestItemID(t *testing.T) {
	tests := []struct {
		name    string
		entry   *gofeed.Item
		want    string
		hasHash bool
	}{
		{
			name:  "guid preferred",
			entry: &gofeed.Item{GUID: "https://lobste.rs/s/abc", Link: "https://example.com/a"},
			want:  "https://lobste.rs/s/abc",
		},
		{
			name:  "link fallback",
			entry: &gofeed.Item{Link: "https://example.com/a"},
			want:  "https://example.com/a",
		},
		{
			name:    "hash as last resort",
			entry:   &gofeed.Item{Title: "Untitled"},
			hasHash: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ItemID(tt.entry)
			if tt.hasHash {
				if !strings.HasPrefix(got, "sha256:") {
					t.Errorf("expected sha256 prefix, got %q", got)
				}
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("id mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIsDiscussionURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://lobste.rs/s/abc111", true},
		{"https://lobste.rs/s/abc111/title", true},
		{"https://lobste.rs/t/go", false},
		{"https://example.com/s/abc111", false},
		{"https://notlobste.rs/s/abc", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isDiscussionURL(tt.url); got != tt.want {
			t.Errorf("isDiscussionURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
