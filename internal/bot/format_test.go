package bot

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mgaitan/lobstersgram/internal/extract"
	"github.com/mgaitan/lobstersgram/internal/model"
)

func TestFormatArticle(t *testing.T) {
	item := model.Item{
		ID:            "https://lobste.rs/s/abc111",
		Title:         "Benchmarks & <lies>",
		SourceURL:     "https://example.com/bench",
		DiscussionURL: "https://lobste.rs/s/abc111",
		Source:        "example.com",
		Tags:          []string{"performance", "go"},
	}
	art := &extract.Article{
		URL:   "https://example.com/bench",
		Title: "Benchmarks & lies",
		Intro: "A careful look at why microbenchmarks mislead more often than they inform.",
	}

	got := FormatArticle(item, art, "https://telegra.ph/Benchmarks-08-21")

	for _, want := range []string{
		"<b>Benchmarks &amp; &lt;lies&gt;</b>",
		"<i>example.com</i>",
		"<i>Tags:</i> performance, go",
		"A careful look at why microbenchmarks mislead",
		`<a href="https://telegra.ph/Benchmarks-08-21">Read on telegra.ph</a>`,
		`<a href="https://example.com/bench">Original</a>`,
		`<a href="https://lobste.rs/s/abc111">Lobsters thread</a>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("message missing %q:\n%s", want, got)
		}
	}
}

func TestFormatArticleWithoutDiscussion(t *testing.T) {
	item := model.Item{Title: "T", SourceURL: "https://example.com/a", Source: "example.com"}
	art := &extract.Article{URL: "https://example.com/a"}

	got := FormatArticle(item, art, "https://telegra.ph/T")
	if strings.Contains(got, "Lobsters thread") {
		t.Errorf("unexpected discussion link in:\n%s", got)
	}
}

func TestFormatArticleIntroFallsBackToDescription(t *testing.T) {
	item := model.Item{
		Title:       "T",
		Description: "<p>Extracted from the <b>feed</b> description.</p>",
		Source:      "example.com",
	}
	art := &extract.Article{URL: "https://example.com/a"}

	got := FormatArticle(item, art, "https://telegra.ph/T")
	if !strings.Contains(got, "Extracted from the feed description.") {
		t.Errorf("description fallback missing in:\n%s", got)
	}
	if strings.Contains(got, "<p>") || strings.Contains(got, "<b>feed</b>") {
		t.Errorf("feed markup leaked into message:\n%s", got)
	}
}

func TestFormatArticleTruncatesLongIntro(t *testing.T) {
	item := model.Item{Title: "T", Source: "example.com"}
	art := &extract.Article{
		URL:   "https://example.com/a",
		Intro: strings.Repeat("long ", 200),
	}

	got := FormatArticle(item, art, "https://telegra.ph/T")
	if !strings.Contains(got, "…") {
		t.Errorf("expected truncated intro marker in:\n%s", got)
	}
}

func TestPlainDescription(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "tags stripped",
			in:   "<p>Hello <a href=\"https://example.com\">world</a>.</p>",
			want: "Hello world.",
		},
		{
			name: "entities unescaped",
			in:   "fish &amp; chips",
			want: "fish & chips",
		},
		{
			name: "whitespace collapsed",
			in:   "  a\n\n  b  ",
			want: "a b",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, PlainDescription(tt.in)); diff != "" {
				t.Errorf("PlainDescription() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
