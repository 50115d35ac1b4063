package bot

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/mgaitan/lobstersgram/internal/extract"
	"github.com/mgaitan/lobstersgram/internal/model"
)

const maxIntroLen = 500

var stripTags = bluemonday.StrictPolicy()

// FormatArticle formats the notification message for one published item,
// using Telegram's HTML markup.
func FormatArticle(item model.Item, art *extract.Article, telegraphURL string) string {
	intro := art.Intro
	if intro == "" {
		intro = PlainDescription(item.Description)
	}
	intro = truncateIntro(intro)

	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n", html.EscapeString(item.Title))
	fmt.Fprintf(&b, "<i>%s</i>\n", html.EscapeString(item.Source))
	if len(item.Tags) > 0 {
		fmt.Fprintf(&b, "<i>Tags:</i> %s\n", html.EscapeString(strings.Join(item.Tags, ", ")))
	}
	if intro != "" {
		b.WriteString("\n")
		b.WriteString(html.EscapeString(intro))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "📖 <a href=\"%s\">Read on telegra.ph</a>\n", html.EscapeString(telegraphURL))
	fmt.Fprintf(&b, "🌐 <a href=\"%s\">Original</a>\n", html.EscapeString(art.URL))
	if item.DiscussionURL != "" {
		fmt.Fprintf(&b, "🦞 <a href=\"%s\">Lobsters thread</a>\n", html.EscapeString(item.DiscussionURL))
	}
	return b.String()
}

// PlainDescription strips markup from feed-provided HTML, leaving plain
// text suitable for a message body.
func PlainDescription(desc string) string {
	text := stripTags.Sanitize(desc)
	text = html.UnescapeString(text)
	return strings.Join(strings.Fields(text), " ")
}

func truncateIntro(s string) string {
	if utf8.RuneCountInString(s) <= maxIntroLen {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:maxIntroLen])) + "…"
}
