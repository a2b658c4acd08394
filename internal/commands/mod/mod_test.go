package mod

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PancyStudios/PancyGuard/internal/moderation"
	"github.com/PancyStudios/PancyGuard/pkg/command"
	"github.com/PancyStudios/PancyGuard/pkg/config"
	"github.com/PancyStudios/PancyGuard/pkg/models"
)

const (
	chatID  = int64(-1001)
	adminID = int64(10)
	userID  = int64(20)
)

type recorder struct {
	mu      sync.Mutex
	replies []string
}

func (r *recorder) Reply(_ context.Context, text string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, text)
	return int64(len(r.replies)), nil
}

func (r *recorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.replies) == 0 {
		return ""
	}
	return r.replies[len(r.replies)-1]
}

type messenger struct {
	mu         sync.Mutex
	banned     []int64
	restricted map[int64]time.Time
}

func (m *messenger) DeleteMessage(context.Context, int64, int64) error { return nil }
func (m *messenger) SendMessage(context.Context, int64, moderation.Outgoing) (int64, error) {
	return 1, nil
}
func (m *messenger) RestrictUser(_ context.Context, _ int64, userID int64, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.restricted[userID] = until
	return nil
}
func (m *messenger) BanUser(_ context.Context, _ int64, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.banned = append(m.banned, userID)
	return nil
}
func (m *messenger) UnbanUser(context.Context, int64, int64) error    { return nil }
func (m *messenger) UnpinMessage(context.Context, int64, int64) error { return nil }

type harness struct {
	reg   *command.Registry
	admin *moderation.Admin
	msgr  *messenger
	out   *recorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	msgr := &messenger{restricted: map[int64]time.Time{}}
	svc := moderation.NewService(moderation.Deps{
		Store:     moderation.NewMemorySettingsStore(),
		Messenger: msgr,
	})
	reg := command.NewRegistry()
	RegisterModCommands(reg, svc.Admin())
	return &harness{reg: reg, admin: svc.Admin(), msgr: msgr, out: &recorder{}}
}

// run dispatches "/name args..." as the admin, or as a plain user when privileged is false
func (h *harness) run(t *testing.T, privileged bool, target *command.User, name string, args ...string) string {
	t.Helper()
	caller := command.User{ID: userID, Name: "user"}
	if privileged {
		caller = command.User{ID: adminID, Name: "admin"}
	}
	ctx := command.NewContext(context.Background(), config.PlatformTelegram, chatID, caller, h.out)
	ctx.Privileged = privileged
	ctx.Target = target
	ctx.Args = args
	require.NoError(t, h.reg.Dispatch(ctx, name))
	return h.out.last()
}

func TestAdminOnlyCommands(t *testing.T) {
	h := newHarness(t)

	for _, name := range []string{"lock", "antiflood", "warn", "addallowedlink", "forcesub", "autodeletepins", "ban"} {
		cmd, ok := h.reg.Get(name)
		require.True(t, ok, name)
		assert.True(t, cmd.AdminOnly, name)
	}
	for _, name := range []string{"locks", "allowedlinks", "warns"} {
		cmd, ok := h.reg.Get(name)
		require.True(t, ok, name)
		assert.False(t, cmd.AdminOnly, name)
	}

	reply := h.run(t, false, nil, "lock", "links")
	assert.Equal(t, command.AdminOnlyMessage, reply)
	s, _ := h.admin.Settings(context.Background(), chatID)
	assert.False(t, s.Locked(models.LockLinks))
}

func TestLockUnlockAndList(t *testing.T) {
	h := newHarness(t)

	reply := h.run(t, true, nil, "lock", "Stickers")
	assert.Contains(t, reply, "🔒")
	s, _ := h.admin.Settings(context.Background(), chatID)
	assert.True(t, s.Locked(models.LockStickers))

	reply = h.run(t, false, nil, "locks")
	assert.Contains(t, reply, "🔒 stickers")
	assert.Contains(t, reply, "🔓 links")

	h.run(t, true, nil, "unlock", "stickers")
	s, _ = h.admin.Settings(context.Background(), chatID)
	assert.False(t, s.Locked(models.LockStickers))

	reply = h.run(t, true, nil, "lock", "voice")
	assert.Contains(t, reply, "❌")
	assert.Contains(t, reply, "Tipos:")

	reply = h.run(t, true, nil, "lock")
	assert.Contains(t, reply, "Uso: /lock")
}

func TestAntifloodCommand(t *testing.T) {
	h := newHarness(t)

	reply := h.run(t, true, nil, "antiflood", "on", "4", "30")
	assert.Contains(t, reply, "máximo 4 mensajes cada 30 segundos")

	reply = h.run(t, true, nil, "antiflood", "on", "4", "7200")
	assert.Contains(t, reply, "❌ la ventana debe estar entre 1 y 3600 segundos")

	reply = h.run(t, true, nil, "antiflood", "maybe")
	assert.Contains(t, reply, "Uso:")

	h.run(t, true, nil, "antiflood", "off")
	s, _ := h.admin.Settings(context.Background(), chatID)
	assert.False(t, s.AntifloodEnabled)
	assert.Equal(t, 4, s.AntifloodLimit)
}

func TestWarnFlow(t *testing.T) {
	h := newHarness(t)
	target := &command.User{ID: userID, Name: "Ana"}

	reply := h.run(t, true, nil, "warn")
	assert.Contains(t, reply, "Uso:")

	h.run(t, true, nil, "setwarnlimit", "2")
	reply = h.run(t, true, target, "warn", "spam", "repetido")
	assert.Contains(t, reply, "(1/2)")
	assert.Contains(t, reply, "spam repetido")

	reply = h.run(t, false, target, "warns")
	assert.Contains(t, reply, "1/2")

	reply = h.run(t, true, target, "warn")
	assert.Contains(t, reply, "2/2")
	assert.Equal(t, []int64{userID}, h.msgr.banned, "default action is ban")

	reply = h.run(t, false, nil, "warns")
	assert.Contains(t, reply, "no tiene advertencias")
}

func TestRemoveWarnByShortID(t *testing.T) {
	h := newHarness(t)
	target := &command.User{ID: userID, Name: "Ana"}
	ctx := context.Background()

	h.run(t, true, target, "warn", "uno")
	h.run(t, true, target, "warn", "dos")
	doc, err := h.admin.Warnings(ctx, chatID, userID)
	require.NoError(t, err)
	require.Len(t, doc.Warns, 2)

	reply := h.run(t, true, target, "removewarn", doc.Warns[0].ID[:8])
	assert.Contains(t, reply, "tiene ahora 1")

	doc, _ = h.admin.Warnings(ctx, chatID, userID)
	require.Len(t, doc.Warns, 1)
	assert.Equal(t, "dos", doc.Warns[0].Reason)

	reply = h.run(t, true, target, "removewarn", "zzzz")
	assert.Contains(t, reply, "No se encontró")

	reply = h.run(t, true, target, "resetwarn")
	assert.Contains(t, reply, "reiniciadas")
}

func TestWarnSettings(t *testing.T) {
	h := newHarness(t)

	reply := h.run(t, true, nil, "setwarnlimit", "11")
	assert.Contains(t, reply, "❌")

	reply = h.run(t, true, nil, "setwarnaction", "MUTE")
	assert.Contains(t, reply, "mute")

	s, _ := h.admin.Settings(context.Background(), chatID)
	assert.Equal(t, models.WarnActionMute, s.WarnAction)
}

func TestAllowedLinks(t *testing.T) {
	h := newHarness(t)
	var cleaned []time.Duration
	dispatch := func(name string, args ...string) string {
		ctx := command.NewContext(context.Background(), config.PlatformTelegram, chatID,
			command.User{ID: adminID}, h.out).
			WithCleanup(func(_, _ int64, ttl time.Duration) { cleaned = append(cleaned, ttl) })
		ctx.Privileged = true
		ctx.Args = args
		require.NoError(t, h.reg.Dispatch(ctx, name))
		return h.out.last()
	}

	assert.Contains(t, dispatch("addallowedlink", "https://WWW.Example.com/path"), "example.com")
	assert.Contains(t, dispatch("addallowedlink", "example.com"), "ya estaba")
	assert.Equal(t, []time.Duration{ConfirmationTTL, ConfirmationTTL}, cleaned)

	assert.Contains(t, h.run(t, false, nil, "allowedlinks"), "• example.com")

	assert.Contains(t, dispatch("removeallowedlink", "example.com"), "eliminado")
	assert.Contains(t, h.run(t, false, nil, "allowedlinks"), "No hay dominios")
}

func TestForceSubNeedsChannel(t *testing.T) {
	h := newHarness(t)

	reply := h.run(t, true, nil, "forcesub", "on")
	assert.Contains(t, reply, "/setchannel")

	reply = h.run(t, true, nil, "setchannel", "bad channel")
	assert.Contains(t, reply, "❌")

	reply = h.run(t, true, nil, "setchannel", "https://t.me/pancy_news")
	assert.Contains(t, reply, "@pancy_news")

	reply = h.run(t, true, nil, "forcesub", "on")
	assert.Contains(t, reply, "@pancy_news")
	s, _ := h.admin.Settings(context.Background(), chatID)
	assert.True(t, s.ForceSubEnabled)
}

func TestServiceMessageToggles(t *testing.T) {
	h := newHarness(t)

	reply := h.run(t, true, nil, "autodeletepins", "on", "0")
	assert.Contains(t, reply, "se conservan")

	reply = h.run(t, true, nil, "autodeletepins", "on", "90000")
	assert.Contains(t, reply, "❌")

	h.run(t, true, nil, "autodeletejoins", "on")
	s, _ := h.admin.Settings(context.Background(), chatID)
	assert.True(t, s.AutoDeleteJoins)
	assert.True(t, s.AutoDeletePins)
	assert.Equal(t, 0, s.PinDeleteDelaySeconds)
}

func TestPunishments(t *testing.T) {
	h := newHarness(t)
	target := &command.User{ID: userID, Name: "Ana"}

	reply := h.run(t, true, target, "mute", "15", "flood")
	assert.Contains(t, reply, "15 minutos")
	assert.Contains(t, reply, "flood")
	until, ok := h.msgr.restricted[userID]
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), until, time.Minute)

	reply = h.run(t, true, target, "mute", "0")
	assert.Contains(t, reply, "entre 1 y")

	reply = h.run(t, true, &command.User{ID: adminID}, "ban")
	assert.Contains(t, reply, "a ti mismo")

	reply = h.run(t, true, target, "ban", "raid")
	assert.Contains(t, reply, "baneado")
	assert.Equal(t, []int64{userID}, h.msgr.banned)
}

func TestParseToggle(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"on", true, false},
		{"SÍ", true, false},
		{"off", false, false},
		{"0", false, false},
		{"quizás", false, true},
	}
	for _, tt := range tests {
		got, ok := parseToggle(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, !tt.wantErr, ok, tt.in)
	}
}
