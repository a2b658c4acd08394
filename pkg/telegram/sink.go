package telegram

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/PancyStudios/PancyGuard/pkg/logger"
)

// ChannelSink mirrors log entries into a Telegram log channel.
// Failures are dropped silently; logging them would feed back into the sink.
type ChannelSink struct {
	client *Client
	chatID int64
}

// NewChannelSink creates a sink posting to chatID
func NewChannelSink(c *Client, chatID int64) *ChannelSink {
	return &ChannelSink{client: c, chatID: chatID}
}

func formatEntry(e logger.Entry) string {
	return fmt.Sprintf("%s [%s] %s\n%s\n%s",
		e.Level.Emoji(), e.Level.String(), e.Prefix, e.Message, e.Time.Format("2006-01-02 15:04:05"))
}

// Send implements logger.Sink
func (s *ChannelSink) Send(e logger.Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := tgbotapi.NewMessage(s.chatID, formatEntry(e))
	msg.DisableWebPagePreview = true
	_, _ = s.client.send(ctx, msg)
}
