// Package bot sends notifications and reads directives through the
// Telegram Bot API.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"github.com/mgaitan/lobstersgram/internal/model"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
}

// Bot wraps the Telegram Bot API for the relay's two operations: sending
// article notifications and draining pending updates.
type Bot struct {
	api     telegramAPI
	limiter *rate.Limiter
	log     *slog.Logger
}

// New creates a Bot with the given token. The HTTP client bounds every API
// call, including the initial getMe probe.
func New(token string, client *http.Client, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	return newWithAPI(api, log), nil
}

func newWithAPI(api telegramAPI, log *slog.Logger) *Bot {
	return &Bot{
		api: api,
		// ~20 messages/sec max for Telegram
		limiter: rate.NewLimiter(rate.Every(50*time.Millisecond), 1),
		log:     log,
	}
}

// SendArticle delivers one HTML-formatted notification to a chat.
func (b *Bot) SendArticle(ctx context.Context, chatID int64, text string) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// ReadDirectives drains pending updates and returns the subscription
// directives found in them, along with the highest update id of the batch.
// The batch stays unacknowledged until Acknowledge is called.
func (b *Bot) ReadDirectives() ([]model.Directive, int, error) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 0

	updates, err := b.api.GetUpdates(u)
	if err != nil {
		return nil, 0, fmt.Errorf("get updates: %w", err)
	}

	directives, maxID := ParseDirectives(updates)
	b.log.Debug("read updates", "updates", len(updates), "directives", len(directives))
	return directives, maxID, nil
}

// Acknowledge confirms a processed batch so the server-side offset moves
// past it. Telegram drops everything below the requested offset.
func (b *Bot) Acknowledge(maxUpdateID int) error {
	if maxUpdateID <= 0 {
		return nil
	}
	u := tgbotapi.NewUpdate(maxUpdateID + 1)
	u.Timeout = 0
	u.Limit = 1
	if _, err := b.api.GetUpdates(u); err != nil {
		return fmt.Errorf("advance update offset: %w", err)
	}
	return nil
}
