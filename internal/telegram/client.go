// Package telegram wraps the Bot API calls the notification workflows
// depend on: sendMessage, pinChatMessage and the getUpdates feed used for
// best-effort recipient resolution.
package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"valentina/internal/logger"
)

// Client is a thin wrapper over the Telegram Bot API.
type Client struct {
	api *tgbotapi.BotAPI
}

// New authenticates the bot token against the Bot API.
func New(token string) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	logger.Get().Infow("telegram bot authorized", "username", api.Self.UserName)
	return &Client{api: api}, nil
}

// SendMessage sends a Markdown message to the chat and returns the sent
// message ID.
func (c *Client) SendMessage(chatID int64, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	sent, err := c.api.Send(msg)
	if err != nil {
		return 0, err
	}
	return sent.MessageID, nil
}

// PinMessage pins a previously sent message in the chat.
func (c *Client) PinMessage(chatID int64, messageID int) error {
	_, err := c.api.Request(tgbotapi.PinChatMessageConfig{
		ChatID:              chatID,
		MessageID:           messageID,
		DisableNotification: true,
	})
	return err
}

// FindRecentChat scans the bot's recent update feed for the most recent
// inbound message whose sender username matches handle (case-sensitive,
// without the @ prefix) and returns that chat's ID and username.
//
// Telegram offers no lookup by handle, so this is inherently best-effort:
// a recipient who has never messaged the bot, or whose messages have
// rotated out of the feed, is not found.
func (c *Client) FindRecentChat(handle string) (int64, string, bool, error) {
	handle = strings.TrimPrefix(handle, "@")

	updates, err := c.api.GetUpdates(tgbotapi.NewUpdate(0))
	if err != nil {
		return 0, "", false, err
	}

	for i := len(updates) - 1; i >= 0; i-- {
		msg := updates[i].Message
		if msg == nil || msg.Chat == nil {
			continue
		}
		if msg.Chat.UserName == handle {
			return msg.Chat.ID, msg.Chat.UserName, true, nil
		}
	}
	return 0, "", false, nil
}
