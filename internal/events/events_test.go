package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"

	"github.com/PancyStudios/PancyGuard/internal/moderation"
	"github.com/PancyStudios/PancyGuard/pkg/command"
	"github.com/PancyStudios/PancyGuard/pkg/models"
)

type fakeModerator struct {
	handled   []moderation.Message
	decisions []moderation.Decision
	cleanups  int
}

func (f *fakeModerator) Handle(_ context.Context, msg moderation.Message) []moderation.Decision {
	f.handled = append(f.handled, msg)
	return f.decisions
}

func (f *fakeModerator) DeleteLater(int64, int64, time.Duration) { f.cleanups++ }

type fakeAuth struct {
	admins map[int64]bool
	err    error
}

func (f fakeAuth) IsPrivileged(_ context.Context, _, userID int64) (bool, error) {
	return f.admins[userID], f.err
}

type replyLog struct{ texts []string }

func (r *replyLog) Reply(_ context.Context, text string) (int64, error) {
	r.texts = append(r.texts, text)
	return int64(len(r.texts)), nil
}

const (
	botID  = int64(999)
	group  = int64(-100500)
	member = int64(7)
	admin  = int64(8)
)

func newRouter(mod *fakeModerator, auth fakeAuth) (*TelegramRouter, *replyLog, *[]bool) {
	replies := &replyLog{}
	var ran []bool
	reg := command.NewRegistry()
	reg.Register(command.NewCommand("lock", "", "moderación", func(ctx *command.Context) error {
		ran = append(ran, ctx.Privileged)
		return ctx.ReplyTemporary("ok", time.Second)
	}).AsAdmin())

	return &TelegramRouter{
		Moderator:   mod,
		Auth:        auth,
		Registry:    reg,
		Replier:     func(int64) command.Replier { return replies },
		BotID:       botID,
		BotUsername: "guardbot",
	}, replies, &ran
}

func groupMessage(from int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 1,
		Date:      1700000000,
		Chat:      &tgbotapi.Chat{ID: group, Type: "supergroup"},
		From:      &tgbotapi.User{ID: from, FirstName: "U"},
		Text:      text,
	}
}

func TestTelegramRouterModeratesGroupMessages(t *testing.T) {
	mod := &fakeModerator{}
	r, _, _ := newRouter(mod, fakeAuth{})

	r.OnMessage(context.Background(), groupMessage(member, "hola"))
	assert.Len(t, mod.handled, 1)
	assert.Equal(t, group, mod.handled[0].ChatID)

	r.OnMessage(context.Background(), groupMessage(botID, "notice"))
	assert.Len(t, mod.handled, 1, "own messages are skipped")

	private := groupMessage(member, "hola")
	private.Chat = &tgbotapi.Chat{ID: member, Type: "private"}
	r.OnMessage(context.Background(), private)
	assert.Len(t, mod.handled, 1, "private chats are not moderated")

	anon := groupMessage(1087968824, "aviso")
	anon.SenderChat = &tgbotapi.Chat{ID: group}
	r.OnMessage(context.Background(), anon)
	assert.Len(t, mod.handled, 1, "anonymous admins are not moderated")
}

func TestTelegramRouterDispatchesCommands(t *testing.T) {
	mod := &fakeModerator{}
	r, replies, ran := newRouter(mod, fakeAuth{admins: map[int64]bool{admin: true}})

	r.OnMessage(context.Background(), groupMessage(admin, "/lock@guardbot links"))
	assert.Equal(t, []bool{true}, *ran)
	assert.Equal(t, 1, mod.cleanups)

	r.OnMessage(context.Background(), groupMessage(member, "/lock links"))
	assert.Equal(t, []bool{true}, *ran, "non-admins do not run admin commands")
	assert.Equal(t, command.AdminOnlyMessage, replies.texts[len(replies.texts)-1])

	r.OnMessage(context.Background(), groupMessage(admin, "/lock@otherbot links"))
	assert.Len(t, *ran, 1, "commands for other bots are ignored")
}

func TestTelegramRouterSkipsCommandsOnDecisionOrEdit(t *testing.T) {
	mod := &fakeModerator{decisions: []moderation.Decision{{Action: moderation.ActionDelete}}}
	r, _, ran := newRouter(mod, fakeAuth{admins: map[int64]bool{admin: true}})

	r.OnMessage(context.Background(), groupMessage(admin, "/lock links"))
	assert.Empty(t, *ran, "a deleted message does not run its command")

	mod.decisions = nil
	edited := groupMessage(admin, "/lock links")
	edited.EditDate = 1700000100
	r.OnMessage(context.Background(), edited)
	assert.Empty(t, *ran)
	assert.Equal(t, time.Unix(1700000100, 0), mod.handled[len(mod.handled)-1].Time)
}

func TestTelegramRouterAuthFailure(t *testing.T) {
	mod := &fakeModerator{}
	r, replies, ran := newRouter(mod, fakeAuth{admins: map[int64]bool{admin: true}, err: errors.New("timeout")})

	r.OnMessage(context.Background(), groupMessage(admin, "/lock links"))
	assert.Empty(t, *ran)
	assert.Equal(t, []string{command.AdminOnlyMessage}, replies.texts)
}

type fakePublisher struct {
	connected bool
	topics    []string
}

func (f *fakePublisher) IsConnected() bool { return f.connected }
func (f *fakePublisher) PublishAsync(topic string, _ interface{}) {
	f.topics = append(f.topics, topic)
}

func TestAuditSink(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewAuditSink(pub)
	event := moderation.AuditEvent{Kind: moderation.AuditLockDelete, ChatID: -42, UserID: 1}

	sink.Publish(context.Background(), event)
	assert.Empty(t, pub.topics)

	pub.connected = true
	sink.Publish(context.Background(), event)
	assert.Equal(t, []string{"guard/audit/-42"}, pub.topics)

	NewAuditSink(nil).Publish(context.Background(), event)
}

func TestDiscordModerateFilter(t *testing.T) {
	s := &discordgo.Session{State: discordgo.NewState()}
	s.State.User = &discordgo.User{ID: "1"}

	assert.False(t, moderate(s, &discordgo.Message{Author: &discordgo.User{ID: "2"}}), "DMs have no guild")
	assert.False(t, moderate(s, &discordgo.Message{GuildID: "g", Author: &discordgo.User{ID: "1"}}))
	assert.False(t, moderate(s, &discordgo.Message{GuildID: "g"}))
	assert.True(t, moderate(s, &discordgo.Message{GuildID: "g", Author: &discordgo.User{ID: "2"}}))
}

func TestDiscordRouterUsesEditTime(t *testing.T) {
	mod := &fakeModerator{}
	r := &DiscordRouter{Moderator: mod}
	edited := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	r.onMessageUpdate(nil, &discordgo.MessageUpdate{Message: &discordgo.Message{
		ID: "10", ChannelID: "20", GuildID: "g", Content: "editado",
		Author:          &discordgo.User{ID: "2"},
		Timestamp:       edited.Add(-time.Hour),
		EditedTimestamp: &edited,
	}})
	if assert.Len(t, mod.handled, 1) {
		assert.Equal(t, edited, mod.handled[0].Time)
		assert.Equal(t, int64(20), mod.handled[0].ChatID)
	}

	r.onMessageUpdate(nil, &discordgo.MessageUpdate{Message: &discordgo.Message{GuildID: "g", Author: &discordgo.User{ID: "2"}}})
	assert.Len(t, mod.handled, 1, "embed-only updates are skipped")
}

type warnsByChat map[int64][]*models.WarnsDocument

func (w warnsByChat) ChatWarnings(_ context.Context, chatID int64) ([]*models.WarnsDocument, error) {
	return w[chatID], nil
}

func TestChatIDFrom(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]interface{}
		want    int64
		wantErr bool
	}{
		{"number", map[string]interface{}{"chatId": float64(-100123)}, -100123, false},
		{"string", map[string]interface{}{"chatId": "-100123"}, -100123, false},
		{"bad string", map[string]interface{}{"chatId": "abc"}, 0, true},
		{"missing", map[string]interface{}{}, 0, true},
		{"wrong type", map[string]interface{}{"chatId": true}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := chatIDFrom(tt.payload)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMQTTRequests(t *testing.T) {
	store := moderation.NewMemorySettingsStore()
	s := models.DefaultChatSettings(group)
	s.Locks[models.LockLinks] = true
	assert.NoError(t, store.UpdateSettings(context.Background(), group, s))

	got, err := SettingsRequest(store)(map[string]interface{}{"chatId": float64(group)})
	assert.NoError(t, err)
	if settings, ok := got.(models.ChatSettings); assert.True(t, ok) {
		assert.True(t, settings.Locked(models.LockLinks))
	}

	_, err = SettingsRequest(store)(map[string]interface{}{})
	assert.Error(t, err)

	warns := warnsByChat{group: {{ChatID: group, UserID: member, Count: 2}}}
	got, err = WarningsRequest(warns)(map[string]interface{}{"chatId": "-100500"})
	assert.NoError(t, err)
	assert.Len(t, got, 1)
}
