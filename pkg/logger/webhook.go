package logger

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// WebhookSink posts entries as Discord embeds
type WebhookSink struct {
	url    string
	client *http.Client
}

// NewWebhookSink creates a sink for a Discord webhook URL
func NewWebhookSink(url string) *WebhookSink {
	return &WebhookSink{url: url, client: &http.Client{Timeout: 5 * time.Second}}
}

// DiscordColor returns the Discord embed color for the log level
func (l LogLevel) DiscordColor() int {
	switch l {
	case LevelCritical, LevelError:
		return 0xFF0000
	case LevelWarn:
		return 0xFFFF00
	case LevelSuccess:
		return 0x00FF00
	case LevelInfo:
		return 0x0000FF
	case LevelDebug:
		return 0x800080
	case LevelSystem:
		return 0x808080
	default:
		return 0xFFFFFF
	}
}

func webhookPayload(e Entry) ([]byte, error) {
	embed := map[string]interface{}{
		"title":       fmt.Sprintf("[%s] %s", e.Level.String(), e.Prefix),
		"description": fmt.Sprintf("```%s```", e.Message),
		"color":       e.Level.DiscordColor(),
		"timestamp":   e.Time.Format(time.RFC3339),
		"footer": map[string]string{
			"text": "PancyGuard",
		},
	}
	return json.Marshal(map[string]interface{}{"embeds": []interface{}{embed}})
}

// Send implements Sink
func (w *WebhookSink) Send(e Entry) {
	body, err := webhookPayload(e)
	if err != nil {
		return
	}
	req, err := http.NewRequest(http.MethodPost, w.url, bytes.NewBuffer(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}
