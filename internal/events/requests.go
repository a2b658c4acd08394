package events

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/PancyStudios/PancyGuard/internal/moderation"
	"github.com/PancyStudios/PancyGuard/pkg/logger"
	"github.com/PancyStudios/PancyGuard/pkg/models"
	"github.com/PancyStudios/PancyGuard/pkg/mqtt"
)

const requestTimeout = 5 * time.Second

// ChatWarnings lists the warning records of a chat
type ChatWarnings interface {
	ChatWarnings(ctx context.Context, chatID int64) ([]*models.WarnsDocument, error)
}

// chatIDFrom reads "chatId" from a decoded JSON payload
func chatIDFrom(payload map[string]interface{}) (int64, error) {
	switch v := payload["chatId"].(type) {
	case float64:
		return int64(v), nil
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("chatId inválido: %q", v)
		}
		return id, nil
	case nil:
		return 0, fmt.Errorf("falta chatId")
	default:
		return 0, fmt.Errorf("chatId inválido: %v", v)
	}
}

// SettingsRequest answers guard/request/settings with a chat's settings
func SettingsRequest(store moderation.ConfigStore) mqtt.RequestHandler {
	return func(payload map[string]interface{}) (interface{}, error) {
		chatID, err := chatIDFrom(payload)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return store.GetSettings(ctx, chatID)
	}
}

// WarningsRequest answers guard/request/warnings with a chat's warning records
func WarningsRequest(warns ChatWarnings) mqtt.RequestHandler {
	return func(payload map[string]interface{}) (interface{}, error) {
		chatID, err := chatIDFrom(payload)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return warns.ChatWarnings(ctx, chatID)
	}
}

// RegisterMQTT subscribes the request handlers when the broker is reachable
func RegisterMQTT(mc *mqtt.MqttCommunicator, store moderation.ConfigStore, warns ChatWarnings) {
	if !mc.IsConnected() {
		logger.Warn("MQTT no conectado, las consultas remotas no estarán disponibles", "Events")
		return
	}
	mc.On("settings", SettingsRequest(store))
	mc.On("warnings", WarningsRequest(warns))
	logger.Success("✅ Consultas MQTT registradas", "Events")
}
