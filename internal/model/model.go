// Package model defines the domain types used across the application.
package model

import "time"

// Item is a single feed entry, normalized for processing.
// Items are produced fresh on every run and never persisted.
type Item struct {
	ID            string
	Title         string
	Description   string
	SourceURL     string
	DiscussionURL string
	Source        string
	Tags          []string
	PublishedAt   time.Time
}

// DirectiveKind defines the type of a subscription directive.
type DirectiveKind string

// Supported directive kinds.
const (
	DirectiveSubscribe   DirectiveKind = "subscribe"
	DirectiveUnsubscribe DirectiveKind = "unsubscribe"
)

// Directive is a subscribe/unsubscribe command extracted from an inbound
// Telegram message. UpdateID is the cursor into the update stream; it is
// only used to acknowledge the batch and is never persisted.
type Directive struct {
	ChatID   int64
	Kind     DirectiveKind
	UpdateID int
}
