package events

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/PancyStudios/PancyGuard/internal/moderation"
	"github.com/PancyStudios/PancyGuard/pkg/command"
	"github.com/PancyStudios/PancyGuard/pkg/logger"
	"github.com/PancyStudios/PancyGuard/pkg/telegram"
)

// TelegramRouter handles one Telegram message at a time
type TelegramRouter struct {
	Moderator   Moderator
	Auth        moderation.Authorizer
	Registry    *command.Registry
	Replier     func(chatID int64) command.Replier
	BotID       int64
	BotUsername string
}

func isGroup(c *tgbotapi.Chat) bool {
	return c != nil && (c.Type == "group" || c.Type == "supergroup")
}

// postedAsChat reports messages sent on behalf of the group itself, which
// is how anonymous admins post
func postedAsChat(m *tgbotapi.Message) bool {
	return m.SenderChat != nil && m.SenderChat.ID == m.Chat.ID
}

// OnMessage moderates group messages and then dispatches commands
func (r *TelegramRouter) OnMessage(ctx context.Context, m *tgbotapi.Message) {
	if m.From != nil && m.From.ID == r.BotID {
		return
	}

	if isGroup(m.Chat) && !postedAsChat(m) {
		if decisions := r.Moderator.Handle(ctx, telegram.Classify(m)); len(decisions) > 0 {
			return
		}
	}

	// edits never re-run a command
	if m.EditDate != 0 || m.From == nil || m.From.IsBot {
		return
	}
	r.dispatchCommand(ctx, m)
}

func (r *TelegramRouter) dispatchCommand(ctx context.Context, m *tgbotapi.Message) {
	cctx, name, ok := telegram.ParseCommand(ctx, m, r.BotUsername, r.Registry, r.Replier(m.Chat.ID))
	if !ok {
		return
	}

	cctx.Privileged = postedAsChat(m)
	if !cctx.Privileged && r.Auth != nil {
		privileged, err := r.Auth.IsPrivileged(ctx, m.Chat.ID, m.From.ID)
		if err != nil {
			logger.Warn(fmt.Sprintf("No se pudo comprobar si %d es admin en %d: %v", m.From.ID, m.Chat.ID, err), "Events")
			privileged = false
		}
		cctx.Privileged = privileged
	}
	cctx.WithCleanup(r.Moderator.DeleteLater)

	logger.Debug(fmt.Sprintf("/%s de %d en %d", name, m.From.ID, m.Chat.ID), "Events")
	if err := r.Registry.Dispatch(cctx, name); err != nil && !errors.Is(err, command.ErrUnknownCommand) {
		logger.Error(fmt.Sprintf("Error ejecutando /%s en %d: %v", name, m.Chat.ID, err), "Events")
	}
}
