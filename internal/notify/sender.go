package notify

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender delivers a fired notification to a person.
type Sender interface {
	Send(ctx context.Context, userID uint, text string) error
}

// LogSender writes notifications to the standard logger. Used when no
// delivery channel is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, userID uint, text string) error {
	log.Printf("notifications: user %d: %s", userID, strings.ReplaceAll(text, "\n", " | "))
	return nil
}

// ChatDirectory resolves the Telegram chat linked to a user.
type ChatDirectory interface {
	TelegramChatID(userID uint) (int64, bool, error)
}

type telegramAPI interface {
	Send(chattable tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSender posts each notification to the chat its user linked.
// Users without a chat go to fallback.
type TelegramSender struct {
	bot      telegramAPI
	chats    ChatDirectory
	fallback Sender
}

func NewTelegramSender(token string, chats ChatDirectory) (*TelegramSender, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("telegram token is required")
	}
	if chats == nil {
		return nil, fmt.Errorf("telegram chat directory is required")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	return &TelegramSender{bot: bot, chats: chats, fallback: LogSender{}}, nil
}

func (sender *TelegramSender) Send(ctx context.Context, userID uint, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	chatID, linked, err := sender.chats.TelegramChatID(userID)
	if err != nil {
		return fmt.Errorf("resolve telegram chat of user %d: %w", userID, err)
	}
	if !linked {
		return sender.fallback.Send(ctx, userID, text)
	}
	if _, err := sender.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
