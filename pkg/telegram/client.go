package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier delivers run summaries to a chat.
type Notifier interface {
	// Notify sends messages in order and stops at the first failure.
	Notify(ctx context.Context, messages ...string) error
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type client struct {
	bot    sender
	chatID int64
}

// NewClient creates a Notifier posting to chatID through the Bot API.
func NewClient(botToken string, chatID int64) (Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &client{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Notify sends each message as Markdown. A message Telegram refuses to parse
// as Markdown, e.g. a ticker with an underscore, is resent as plain text.
func (c *client) Notify(ctx context.Context, messages ...string) error {
	for i, text := range messages {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg := tgbotapi.NewMessage(c.chatID, text)
		msg.ParseMode = tgbotapi.ModeMarkdown
		msg.DisableWebPagePreview = true
		if _, err := c.bot.Send(msg); err == nil {
			continue
		}

		msg.ParseMode = ""
		if _, err := c.bot.Send(msg); err != nil {
			return fmt.Errorf("failed to send telegram message %d/%d: %w", i+1, len(messages), err)
		}
	}
	return nil
}
