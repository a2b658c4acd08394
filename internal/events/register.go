// Package events connects the platform clients to the moderation service
// and the command registry. Every inbound group message goes through the
// pipeline first; commands run only when the pipeline let the message stand.
package events

import (
	"context"
	"time"

	"github.com/PancyStudios/PancyGuard/internal/moderation"
	"github.com/PancyStudios/PancyGuard/pkg/command"
	"github.com/PancyStudios/PancyGuard/pkg/discord"
	"github.com/PancyStudios/PancyGuard/pkg/logger"
	"github.com/PancyStudios/PancyGuard/pkg/telegram"
)

// Moderator is the part of moderation.Service the routers use
type Moderator interface {
	Handle(ctx context.Context, msg moderation.Message) []moderation.Decision
	DeleteLater(chatID, messageID int64, ttl time.Duration)
}

// RegisterTelegram routes Telegram messages to svc and reg
func RegisterTelegram(client *telegram.Client, messenger *telegram.Messenger, svc Moderator, reg *command.Registry) {
	logger.System("📋 Registrando eventos de Telegram...", "Events")

	r := &TelegramRouter{
		Moderator:   svc,
		Auth:        messenger,
		Registry:    reg,
		Replier:     messenger.Replier,
		BotID:       client.ID(),
		BotUsername: client.Username(),
	}
	client.OnMessage(r.OnMessage)

	logger.Success("✅ Eventos de Telegram registrados correctamente", "Events")
}

// RegisterDiscord routes Discord messages to svc. Slash commands are
// dispatched by the client itself from its registry.
func RegisterDiscord(client *discord.ExtendedClient, svc Moderator) {
	logger.System("📋 Registrando eventos de Discord...", "Events")

	client.Cleanup = svc.DeleteLater

	r := &DiscordRouter{Moderator: svc}
	client.EventHandler.OnReady(onDiscordReady)
	client.EventHandler.OnMessageCreate(r.onMessageCreate)
	client.EventHandler.OnMessageUpdate(r.onMessageUpdate)

	logger.Success("✅ Eventos de Discord registrados correctamente", "Events")
}
