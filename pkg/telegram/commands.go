package telegram

import (
	"context"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/PancyStudios/PancyGuard/internal/moderation"
	"github.com/PancyStudios/PancyGuard/pkg/command"
	"github.com/PancyStudios/PancyGuard/pkg/config"
	"github.com/PancyStudios/PancyGuard/pkg/logger"
)

// chatReplier answers commands in the chat they came from
type chatReplier struct {
	messenger *Messenger
	chatID    int64
}

func (r chatReplier) Reply(ctx context.Context, text string) (int64, error) {
	return r.messenger.SendMessage(ctx, r.chatID, moderation.Outgoing{Text: text})
}

// Replier returns a command.Replier posting to chatID
func (m *Messenger) Replier(chatID int64) command.Replier {
	return chatReplier{messenger: m, chatID: chatID}
}

// ParseCommand builds a command context for a "/name args" message.
// It returns false for plain messages, unknown commands and commands
// addressed to another bot.
func ParseCommand(ctx context.Context, m *tgbotapi.Message, botUsername string, reg *command.Registry, replier command.Replier) (*command.Context, string, bool) {
	if m.From == nil {
		return nil, "", false
	}
	name, args, ok := command.Parse(m.Text, botUsername)
	if !ok {
		return nil, "", false
	}
	cmd, ok := reg.Get(name)
	if !ok {
		return nil, "", false
	}

	c := command.NewContext(ctx, config.PlatformTelegram, m.Chat.ID,
		command.User{ID: m.From.ID, Name: DisplayName(m.From)}, replier)
	c.Args = args
	if cmd.TakesUser() {
		c.Target, c.Args = resolveTarget(m, args)
	}
	return c, name, true
}

// resolveTarget picks the user a moderation command acts on: the author of
// the replied-to message, a text mention, or a numeric id as first argument.
func resolveTarget(m *tgbotapi.Message, args []string) (*command.User, []string) {
	if r := m.ReplyToMessage; r != nil && r.From != nil {
		return &command.User{ID: r.From.ID, Name: DisplayName(r.From)}, args
	}
	for _, e := range m.Entities {
		if e.Type == "text_mention" && e.User != nil {
			rest := args
			if len(rest) > 0 {
				rest = rest[1:]
			}
			return &command.User{ID: e.User.ID, Name: DisplayName(e.User)}, rest
		}
	}
	if len(args) > 0 {
		if id, err := strconv.ParseInt(args[0], 10, 64); err == nil && id > 0 {
			return &command.User{ID: id, Name: args[0]}, args[1:]
		}
	}
	return nil, args
}

// SyncCommands publishes the command list shown in Telegram clients
func (c *Client) SyncCommands(reg *command.Registry) error {
	cmds := make([]tgbotapi.BotCommand, 0, len(reg.All()))
	for _, cmd := range reg.All() {
		cmds = append(cmds, tgbotapi.BotCommand{Command: cmd.Name, Description: cmd.Description})
	}
	if _, err := c.API.Request(tgbotapi.NewSetMyCommands(cmds...)); err != nil {
		return err
	}
	logger.Success("✅ Comandos de Telegram sincronizados.", "CommandHandler")
	return nil
}
