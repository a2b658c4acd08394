package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/PancyStudios/PancyGuard/internal/moderation"
)

// adminCacheTTL bounds how stale a cached admin check may be
const adminCacheTTL = 30 * time.Second

type memberKey struct {
	chatID int64
	userID int64
}

// Messenger implements the moderation side-effect and lookup interfaces
// on top of the Bot API.
type Messenger struct {
	client  *Client
	ownerID int64
	admins  *expirable.LRU[memberKey, bool]
}

// NewMessenger creates a Messenger. ownerID is always privileged.
func NewMessenger(c *Client, ownerID int64) *Messenger {
	return &Messenger{
		client:  c,
		ownerID: ownerID,
		admins:  expirable.NewLRU[memberKey, bool](10000, nil, adminCacheTTL),
	}
}

var permissionHints = []string{
	"not enough rights",
	"have no rights",
	"chat_admin_required",
	"can't remove chat owner",
	"user is an administrator",
	"can't restrict self",
	"method is available only for supergroups",
	"bot was kicked",
	"bot is not a member",
}

// classifyError maps a Bot API failure onto the moderation error kinds
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}
	var tgErr *tgbotapi.Error
	if errors.As(err, &tgErr) {
		desc := strings.ToLower(tgErr.Message)
		if tgErr.Code == 403 {
			return fmt.Errorf("%s: %w: %s", op, moderation.ErrPermissionDenied, tgErr.Message)
		}
		for _, hint := range permissionHints {
			if strings.Contains(desc, hint) {
				return fmt.Errorf("%s: %w: %s", op, moderation.ErrPermissionDenied, tgErr.Message)
			}
		}
	}
	return fmt.Errorf("%s: %w: %v", op, moderation.ErrExternalTransient, err)
}

func memberConfig(chatID, userID int64) tgbotapi.ChatMemberConfig {
	return tgbotapi.ChatMemberConfig{ChatID: chatID, UserID: userID}
}

// DeleteMessage implements moderation.Messenger
func (m *Messenger) DeleteMessage(ctx context.Context, chatID, messageID int64) error {
	return classifyError("deleteMessage", m.client.request(ctx, tgbotapi.NewDeleteMessage(chatID, int(messageID))))
}

// SendMessage implements moderation.Messenger
func (m *Messenger) SendMessage(ctx context.Context, chatID int64, out moderation.Outgoing) (int64, error) {
	msg := tgbotapi.NewMessage(chatID, out.Text)
	msg.DisableWebPagePreview = true
	if out.ButtonURL != "" {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL(out.ButtonText, out.ButtonURL)),
		)
	}
	sent, err := m.client.send(ctx, msg)
	if err != nil {
		return 0, classifyError("sendMessage", err)
	}
	return int64(sent.MessageID), nil
}

// RestrictUser implements moderation.Messenger
func (m *Messenger) RestrictUser(ctx context.Context, chatID, userID int64, until time.Time) error {
	cfg := tgbotapi.RestrictChatMemberConfig{
		ChatMemberConfig: memberConfig(chatID, userID),
		Permissions:      &tgbotapi.ChatPermissions{},
	}
	if !until.IsZero() {
		cfg.UntilDate = until.Unix()
	}
	return classifyError("restrictChatMember", m.client.request(ctx, cfg))
}

// BanUser implements moderation.Messenger
func (m *Messenger) BanUser(ctx context.Context, chatID, userID int64) error {
	cfg := tgbotapi.BanChatMemberConfig{ChatMemberConfig: memberConfig(chatID, userID)}
	return classifyError("banChatMember", m.client.request(ctx, cfg))
}

// UnbanUser implements moderation.Messenger
func (m *Messenger) UnbanUser(ctx context.Context, chatID, userID int64) error {
	cfg := tgbotapi.UnbanChatMemberConfig{ChatMemberConfig: memberConfig(chatID, userID), OnlyIfBanned: true}
	return classifyError("unbanChatMember", m.client.request(ctx, cfg))
}

// UnpinMessage implements moderation.Messenger
func (m *Messenger) UnpinMessage(ctx context.Context, chatID, messageID int64) error {
	cfg := tgbotapi.UnpinChatMessageConfig{ChatID: chatID, MessageID: int(messageID)}
	return classifyError("unpinChatMessage", m.client.request(ctx, cfg))
}

// chatConfigFor turns "@name" or "-100id" into a chat lookup target
func chatConfigFor(ref string) tgbotapi.ChatConfigWithUser {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return tgbotapi.ChatConfigWithUser{ChatID: id}
	}
	return tgbotapi.ChatConfigWithUser{SuperGroupUsername: "@" + strings.TrimPrefix(ref, "@")}
}

// GetChatMember implements moderation.MembershipChecker
func (m *Messenger) GetChatMember(ctx context.Context, chatRef string, userID int64) (moderation.MemberStatus, error) {
	cfg := chatConfigFor(chatRef)
	cfg.UserID = userID
	member, err := m.client.API.GetChatMember(tgbotapi.GetChatMemberConfig{ChatConfigWithUser: cfg})
	if err != nil {
		return "", classifyError("getChatMember", err)
	}
	return moderation.MemberStatus(member.Status), nil
}

// IsPrivileged implements moderation.Authorizer: the owner and chat admins
func (m *Messenger) IsPrivileged(ctx context.Context, chatID, userID int64) (bool, error) {
	if userID != 0 && userID == m.ownerID {
		return true, nil
	}
	if chatID > 0 {
		// private chat with the bot
		return chatID == userID, nil
	}

	key := memberKey{chatID, userID}
	if ok, cached := m.admins.Get(key); cached {
		return ok, nil
	}

	status, err := m.GetChatMember(ctx, strconv.FormatInt(chatID, 10), userID)
	if err != nil {
		return false, err
	}
	ok := status == moderation.StatusCreator || status == moderation.StatusAdministrator
	m.admins.Add(key, ok)
	return ok, nil
}

// ResolveInviteLink implements moderation.ChannelResolver
func (m *Messenger) ResolveInviteLink(ctx context.Context, channelRef string) (string, bool) {
	if link, ok := moderation.PublicInviteLink(channelRef); ok {
		return link, true
	}

	id, err := strconv.ParseInt(strings.TrimSpace(channelRef), 10, 64)
	if err != nil {
		return "", false
	}
	chat, err := m.client.API.GetChat(tgbotapi.ChatInfoConfig{ChatConfig: tgbotapi.ChatConfig{ChatID: id}})
	if err != nil {
		return "", false
	}
	return inviteLinkOf(chat)
}

func inviteLinkOf(chat tgbotapi.Chat) (string, bool) {
	if chat.UserName != "" {
		return "https://t.me/" + chat.UserName, true
	}
	if chat.InviteLink != "" {
		return chat.InviteLink, true
	}
	return "", false
}
