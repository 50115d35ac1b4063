// Package runner sequences one full invocation of the relay, in either the
// notification mode or the read-messages mode.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/mgaitan/lobstersgram/internal/bot"
	"github.com/mgaitan/lobstersgram/internal/config"
	"github.com/mgaitan/lobstersgram/internal/extract"
	"github.com/mgaitan/lobstersgram/internal/filter"
	"github.com/mgaitan/lobstersgram/internal/model"
	"github.com/mgaitan/lobstersgram/internal/registry"
	"github.com/mgaitan/lobstersgram/internal/storage"
	"github.com/mgaitan/lobstersgram/internal/telegraph"
)

// Only the most recent ids are kept when persisting, which is plenty to
// cover the feed's window many times over.
const maxSeenIDs = 5000

// FeedSource yields the feed's items in feed order.
type FeedSource interface {
	Fetch(ctx context.Context) ([]model.Item, error)
}

// Extractor resolves an article URL and extracts its readable content.
type Extractor interface {
	Extract(ctx context.Context, url string) (*extract.Article, error)
}

// Publisher publishes extracted content and returns a public page URL.
type Publisher interface {
	CreatePage(ctx context.Context, title string, content []telegraph.Node, sourceURL string) (string, error)
}

// Messenger sends notifications and drains pending directives.
type Messenger interface {
	SendArticle(ctx context.Context, chatID int64, text string) error
	ReadDirectives() ([]model.Directive, int, error)
	Acknowledge(maxUpdateID int) error
}

// Runner executes one run and exits. Item-level and subscriber-level
// failures are logged and contained; only failures that prevent recording
// truth (state load or persist) surface as errors.
type Runner struct {
	feed      FeedSource
	extractor Extractor
	publisher Publisher
	messenger Messenger
	states    storage.StateStore
	subs      storage.SubscriberStore
	cfg       *config.Config
	log       *slog.Logger
}

// New creates a Runner wired with the given collaborators.
func New(
	feed FeedSource,
	extractor Extractor,
	publisher Publisher,
	messenger Messenger,
	states storage.StateStore,
	subs storage.SubscriberStore,
	cfg *config.Config,
	log *slog.Logger,
) *Runner {
	return &Runner{
		feed:      feed,
		extractor: extractor,
		publisher: publisher,
		messenger: messenger,
		states:    states,
		subs:      subs,
		cfg:       cfg,
		log:       log,
	}
}

// Run executes one notification run: fetch, dedup, process, persist.
func (r *Runner) Run(ctx context.Context) error {
	state, err := r.states.LoadState()
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	recipients, err := r.recipients()
	if err != nil {
		return err
	}

	items, err := r.feed.Fetch(ctx)
	if err != nil {
		// Nothing to process this run; the next scheduled run retries.
		r.log.Error("fetch feed", "url", r.cfg.FeedURL, "error", err)
		return nil
	}
	r.log.Info("feed fetched", "entries", len(items))

	// Feeds arrive newest-first; process oldest-first so notifications
	// read in publication order.
	slices.Reverse(items)

	candidates := filter.Select(items, state.SeenIDs, r.cfg.MaxItemsPerRun)
	if len(candidates) == 0 {
		r.log.Info("no new items")
		return nil
	}
	if len(recipients) == 0 {
		r.log.Warn("no subscribers configured")
	}

	processed := 0
	for _, item := range candidates {
		if ctx.Err() != nil {
			break
		}
		if err := r.processItem(ctx, item, recipients); err != nil {
			// Skip and leave unseen; the item retries on the next run.
			r.log.Error("process item", "item_id", item.ID, "title", item.Title, "error", err)
			continue
		}
		state.SeenIDs = append(state.SeenIDs, item.ID)
		processed++
	}

	if processed == 0 {
		return nil
	}

	if len(state.SeenIDs) > maxSeenIDs {
		state.SeenIDs = state.SeenIDs[len(state.SeenIDs)-maxSeenIDs:]
	}
	if err := r.states.SaveState(state); err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	r.log.Info("run complete", "processed", processed, "candidates", len(candidates))
	return nil
}

// processItem runs the article pipeline for one item and fans the
// notification out to every recipient. A send failure is logged per chat
// and does not undo the pipeline: once the page is published, the item
// counts as processed.
func (r *Runner) processItem(ctx context.Context, item model.Item, recipients []int64) error {
	r.log.Info("processing item", "item_id", item.ID, "title", item.Title, "url", item.SourceURL)

	art, err := r.extractor.Extract(ctx, item.SourceURL)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	title := art.Title
	if title == "" || title == art.URL {
		title = item.Title
	}

	pageURL, err := r.publisher.CreatePage(ctx, title, telegraph.Nodes(art.Blocks), art.URL)
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	r.log.Debug("page published", "item_id", item.ID, "page_url", pageURL)

	text := bot.FormatArticle(item, art, pageURL)
	for _, chatID := range recipients {
		if err := r.messenger.SendArticle(ctx, chatID, text); err != nil {
			r.log.Error("send notification", "item_id", item.ID, "chat_id", chatID, "error", err)
		}
	}
	return nil
}

// recipients returns the chats to notify: the development override when
// configured, otherwise the persisted subscriber set. The override never
// touches the registry.
func (r *Runner) recipients() ([]int64, error) {
	if r.cfg.DevChatID != 0 {
		return []int64{r.cfg.DevChatID}, nil
	}
	subs, err := r.subs.LoadSubscribers()
	if err != nil {
		return nil, fmt.Errorf("load subscribers: %w", err)
	}
	return subs.ChatIDs, nil
}

// ReadMessages executes one directive-application run: drain pending
// updates, apply them to the subscriber set, persist, acknowledge.
func (r *Runner) ReadMessages(ctx context.Context) error {
	subs, err := r.subs.LoadSubscribers()
	if err != nil {
		return fmt.Errorf("load subscribers: %w", err)
	}

	directives, maxID, err := r.messenger.ReadDirectives()
	if err != nil {
		// Same contract as a feed fetch failure: nothing to apply.
		r.log.Error("read updates", "error", err)
		return nil
	}
	if maxID == 0 {
		r.log.Info("no pending updates")
		return nil
	}

	next, changed := registry.ApplyDirectives(subs, directives)
	if changed {
		if err := r.subs.SaveSubscribers(next); err != nil {
			return fmt.Errorf("save subscribers: %w", err)
		}
	}

	if err := r.messenger.Acknowledge(maxID); err != nil {
		// The batch re-arrives next run; applying it again is harmless
		// since directives are idempotent.
		r.log.Error("acknowledge updates", "error", err)
	}

	r.log.Info("directives applied",
		"directives", len(directives), "subscribers", len(next.ChatIDs), "changed", changed)
	return nil
}
