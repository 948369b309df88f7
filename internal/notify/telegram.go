package notify

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"go-schoolwatch/internal/reconcile"
)

// TelegramSender pushes one message per new posting to a chat.
type TelegramSender struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramSender(token string, chatID int64) (*TelegramSender, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &TelegramSender{
		api:    api,
		chatID: chatID,
	}, nil
}

func (t *TelegramSender) Name() string { return "telegram" }

func (t *TelegramSender) Send(ctx context.Context, jobs []*reconcile.PersistedJob) error {
	for _, job := range jobs {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgText := fmt.Sprintf("🎓 *%s*\n", t.escapeMarkdown(job.Title))
		msgText += fmt.Sprintf("🏫 %s\n", t.escapeMarkdown(job.District))
		msgText += fmt.Sprintf("🔗 [View Posting](%s)\n", job.URL)
		msgText += fmt.Sprintf("🔖 Source: %s\n", t.escapeMarkdown(job.PortalType))

		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonURL("🔗 View Posting", job.URL),
			),
		)

		msg := tgbotapi.NewMessage(t.chatID, msgText)
		msg.ParseMode = "MarkdownV2"
		msg.ReplyMarkup = keyboard

		if _, err := t.api.Send(msg); err != nil {
			return fmt.Errorf("send job %q: %w", job.Title, err)
		}
	}

	status := tgbotapi.NewMessage(t.chatID, fmt.Sprintf("ℹ️ %d new position(s) found.", len(jobs)))
	_, err := t.api.Send(status)
	return err
}

func (t *TelegramSender) escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(",
		")", "\\)", "~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#",
		"+", "\\+", "-", "\\-", "=", "\\=", "|", "\\|", "{", "\\{",
		"}", "\\}", ".", "\\.", "!", "\\!",
	)
	return replacer.Replace(text)
}
