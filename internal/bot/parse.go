package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/mgaitan/lobstersgram/internal/model"
)

// ParseDirectives extracts subscription directives from a batch of updates,
// preserving arrival order, and reports the highest update id seen.
// Non-command messages, unrelated commands, channel posts and edits are
// skipped but still advance the offset.
func ParseDirectives(updates []tgbotapi.Update) ([]model.Directive, int) {
	var directives []model.Directive
	maxID := 0

	for _, u := range updates {
		if u.UpdateID > maxID {
			maxID = u.UpdateID
		}

		msg := u.Message
		if msg == nil || msg.Chat == nil || !msg.IsCommand() {
			continue
		}

		var kind model.DirectiveKind
		switch msg.Command() {
		case "start":
			kind = model.DirectiveSubscribe
		case "stop", "unsubscribe":
			kind = model.DirectiveUnsubscribe
		default:
			continue
		}

		directives = append(directives, model.Directive{
			ChatID:   msg.Chat.ID,
			Kind:     kind,
			UpdateID: u.UpdateID,
		})
	}

	return directives, maxID
}
