package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/PancyStudios/PancyGuard/internal/moderation"
)

// maxTimeout is the longest member timeout Discord accepts
const maxTimeout = 28*24*time.Hour - time.Minute

// Messenger implements moderation.Messenger and moderation.Authorizer on a
// Discord session. A moderation chat is a text channel; guild-wide actions
// resolve the channel's guild first.
type Messenger struct {
	client *ExtendedClient
}

// NewMessenger creates a Messenger
func NewMessenger(c *ExtendedClient) *Messenger {
	return &Messenger{client: c}
}

// classifyError maps a REST failure onto the moderation error kinds
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		if restErr.Message != nil {
			switch restErr.Message.Code {
			case discordgo.ErrCodeMissingPermissions, discordgo.ErrCodeMissingAccess:
				return fmt.Errorf("%s: %w: %s", op, moderation.ErrPermissionDenied, restErr.Message.Message)
			}
		}
		if restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden {
			return fmt.Errorf("%s: %w", op, moderation.ErrPermissionDenied)
		}
	}
	return fmt.Errorf("%s: %w: %v", op, moderation.ErrExternalTransient, err)
}

func (m *Messenger) session() *discordgo.Session {
	return m.client.Session
}

func (m *Messenger) guildOf(channelID int64) (string, error) {
	s := m.session()
	if ch, err := s.State.Channel(idString(channelID)); err == nil && ch.GuildID != "" {
		return ch.GuildID, nil
	}
	ch, err := s.Channel(idString(channelID))
	if err != nil {
		return "", err
	}
	if ch.GuildID == "" {
		return "", fmt.Errorf("el canal %d no pertenece a un servidor", channelID)
	}
	return ch.GuildID, nil
}

// DeleteMessage implements moderation.Messenger
func (m *Messenger) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	err := m.session().ChannelMessageDelete(idString(chatID), idString(messageID), discordgo.WithContext(ctx))
	return classifyError("deleteMessage", err)
}

// SendMessage implements moderation.Messenger
func (m *Messenger) SendMessage(ctx context.Context, chatID int64, out moderation.Outgoing) (int64, error) {
	data := &discordgo.MessageSend{
		Content:         out.Text,
		AllowedMentions: &discordgo.MessageAllowedMentions{},
	}
	if out.ButtonURL != "" {
		data.Components = []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{Label: out.ButtonText, Style: discordgo.LinkButton, URL: out.ButtonURL},
			}},
		}
	}
	msg, err := m.session().ChannelMessageSendComplex(idString(chatID), data, discordgo.WithContext(ctx))
	if err != nil {
		return 0, classifyError("sendMessage", err)
	}
	return snowflake(msg.ID), nil
}

// RestrictUser implements moderation.Messenger with a member timeout.
// Discord timeouts are capped, so an indefinite mute lasts the maximum.
func (m *Messenger) RestrictUser(ctx context.Context, chatID, userID int64, until time.Time) error {
	guildID, err := m.guildOf(chatID)
	if err != nil {
		return classifyError("timeout", err)
	}
	limit := time.Now().Add(maxTimeout)
	if until.IsZero() || until.After(limit) {
		until = limit
	}
	err = m.session().GuildMemberTimeout(guildID, idString(userID), &until, discordgo.WithContext(ctx))
	return classifyError("timeout", err)
}

// BanUser implements moderation.Messenger
func (m *Messenger) BanUser(ctx context.Context, chatID, userID int64) error {
	guildID, err := m.guildOf(chatID)
	if err != nil {
		return classifyError("ban", err)
	}
	return classifyError("ban", m.session().GuildBanCreate(guildID, idString(userID), 0, discordgo.WithContext(ctx)))
}

// UnbanUser implements moderation.Messenger
func (m *Messenger) UnbanUser(ctx context.Context, chatID, userID int64) error {
	guildID, err := m.guildOf(chatID)
	if err != nil {
		return classifyError("unban", err)
	}
	return classifyError("unban", m.session().GuildBanDelete(guildID, idString(userID), discordgo.WithContext(ctx)))
}

// UnpinMessage implements moderation.Messenger
func (m *Messenger) UnpinMessage(ctx context.Context, chatID, messageID int64) error {
	err := m.session().ChannelMessageUnpin(idString(chatID), idString(messageID), discordgo.WithContext(ctx))
	return classifyError("unpin", err)
}

// IsPrivileged implements moderation.Authorizer: the owner and members with
// administrator or manage-server permission in the channel.
func (m *Messenger) IsPrivileged(ctx context.Context, chatID, userID int64) (bool, error) {
	if m.client.OwnerID != 0 && userID == m.client.OwnerID {
		return true, nil
	}
	perms, err := m.session().State.UserChannelPermissions(idString(userID), idString(chatID))
	if err != nil {
		perms, err = m.session().UserChannelPermissions(idString(userID), idString(chatID), discordgo.WithContext(ctx))
		if err != nil {
			return false, classifyError("permissions", err)
		}
	}
	return memberPrivileged(perms, userID, m.client.OwnerID), nil
}
