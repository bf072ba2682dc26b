// Package telegram provides a client for sending alerts via Telegram Bot API.
// It reports broadcasts whose delayed price checks cleared the win threshold,
// plus ingestion failure/recovery notices, with retry logic for delivery.
package telegram

import (
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/rewired-gh/vectorpulse/internal/models"
)

// Client handles Telegram notifications
type Client struct {
	bot            *tgbotapi.BotAPI
	chatID         int64
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new Telegram client
func NewClient(botToken, chatID string, maxRetries int, retryDelayBase time.Duration) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot: %w", err)
	}

	chatIDInt, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid chat ID: %w", err)
	}

	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		bot:            bot,
		chatID:         chatIDInt,
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// SendWin reports a broadcast whose price drift cleared the win threshold at
// the given horizon.
func (c *Client) SendWin(username, tokenSymbol string, h models.Horizon, variance float64) error {
	symbol := tokenSymbol
	if symbol == "" {
		symbol = "?"
	}
	message := fmt.Sprintf("🏆 *Broadcast win at %s*\n\n👤 %s\n🪙 %s\n📈 %s\n",
		escapeMarkdownV2(h.String()),
		escapeMarkdownV2(username),
		escapeMarkdownV2(symbol),
		escapeMarkdownV2(fmt.Sprintf("%+.2f%%", variance)),
	)
	return c.send(message)
}

// SendError reports an ingestion cycle failure.
func (c *Client) SendError(err error) error {
	message := fmt.Sprintf("⚠️ *Ingestion failing*\n\n%s", escapeMarkdownV2(err.Error()))
	return c.send(message)
}

// SendRecovery reports that ingestion recovered after consecutive failures.
func (c *Client) SendRecovery(failures int) error {
	message := fmt.Sprintf("✅ *Ingestion recovered* after %d failed cycle\\(s\\)", failures)
	return c.send(message)
}

// send delivers a MarkdownV2 message with retry.
func (c *Client) send(message string) error {
	msg := tgbotapi.NewMessage(c.chatID, message)
	msg.ParseMode = "MarkdownV2"

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		_, err := c.bot.Send(msg)
		if err == nil {
			return nil
		}
		lastErr = err
		time.Sleep(c.retryDelayBase * time.Duration(i+1))
	}

	return fmt.Errorf("failed to send message after %d retries: %w", c.maxRetries, lastErr)
}

// escapeMarkdownV2 escapes special characters for Telegram MarkdownV2
func escapeMarkdownV2(text string) string {
	result := ""
	for _, char := range text {
		switch char {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!':
			result += "\\" + string(char)
		default:
			result += string(char)
		}
	}
	return result
}
