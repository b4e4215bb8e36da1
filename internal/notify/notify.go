// Package notify tells an operator when a stored session stops working.
package notify

import (
	"context"
	"fmt"
	"strings"

	"sales-tracker-scraper/internal/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Event describes a scrape that needs a human.
type Event struct {
	OwnerID  string
	URL      string
	Site     string
	ScrapeID string
	Err      error
}

// Notifier delivers operator alerts.
type Notifier interface {
	SessionExpired(ctx context.Context, ev Event) error
}

// Nop drops every alert.
type Nop struct{}

func (Nop) SessionExpired(context.Context, Event) error { return nil }

// sender is the part of *tgbotapi.BotAPI we use.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts alerts to a single chat.
type Telegram struct {
	api    sender
	chatID int64
	logger logger.Logger
}

func NewTelegram(token string, chatID int64, log logger.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &Telegram{api: api, chatID: chatID, logger: log}, nil
}

func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
		")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
		"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
		"}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}

func (t *Telegram) SessionExpired(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	owner := ev.OwnerID
	if owner == "" {
		owner = "shared session"
	}
	text := fmt.Sprintf("🔒 *LinkedIn session rejected*\n👤 %s\n", escapeMarkdown(owner))
	if ev.URL != "" {
		text += fmt.Sprintf("🔗 %s\n", escapeMarkdown(ev.URL))
	}
	if ev.Err != nil {
		text += fmt.Sprintf("⚠️ %s\n", escapeMarkdown(ev.Err.Error()))
	}
	if ev.ScrapeID != "" {
		text += fmt.Sprintf("🔖 %s\n", escapeMarkdown(ev.ScrapeID))
	}
	text += "Re\\-upload cookies or run the interactive login\\."

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "MarkdownV2"
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("send telegram alert: %w", err)
	}
	t.logger.Debug("Session alert sent", logger.String("owner_id", ev.OwnerID))
	return nil
}
