package moderation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PancyStudios/PancyGuard/pkg/models"
)

func intPtr(n int) *int { return &n }

func TestAdminLock(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	a := h.svc.Admin()

	lt, err := a.OnLock(ctx, testChat, "Links", true)
	require.NoError(t, err)
	assert.Equal(t, models.LockLinks, lt)

	s, _ := a.Settings(ctx, testChat)
	assert.True(t, s.Locked(models.LockLinks))

	_, err = a.OnLock(ctx, testChat, "voice", true)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestAdminAntifloodValidation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	a := h.svc.Admin()

	_, err := a.OnAntiflood(ctx, testChat, true, intPtr(0), nil)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	_, err = a.OnAntiflood(ctx, testChat, true, nil, intPtr(0))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	s, _ := a.Settings(ctx, testChat)
	assert.False(t, s.AntifloodEnabled, "rejected commands write nothing")

	s, err = a.OnAntiflood(ctx, testChat, true, intPtr(8), intPtr(20))
	require.NoError(t, err)
	assert.True(t, s.AntifloodEnabled)
	assert.Equal(t, 8, s.AntifloodLimit)
	assert.Equal(t, 20, s.AntifloodWindowSeconds)

	s, err = a.OnAntiflood(ctx, testChat, false, nil, nil)
	require.NoError(t, err)
	assert.False(t, s.AntifloodEnabled)
	assert.Equal(t, 8, s.AntifloodLimit, "omitted values are kept")
}

func TestAdminWarnEscalates(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	a := h.svc.Admin()
	require.NoError(t, a.OnSetWarnLimit(ctx, testChat, 2))
	_, err := a.OnSetWarnAction(ctx, testChat, "kick")
	require.NoError(t, err)

	res, err := a.OnWarn(ctx, testChat, testUser, 1, "")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, "Sin motivo", res.Record.Warns[0].Reason)

	res, err = a.OnWarn(ctx, testChat, testUser, 1, "spam")
	require.NoError(t, err)
	assert.True(t, res.Escalated)

	snap := h.msgr.snapshot()
	assert.Equal(t, []int64{testUser}, snap.banned)
	assert.Equal(t, []int64{testUser}, snap.unbanned)

	doc, _ := a.Warnings(ctx, testChat, testUser)
	assert.Equal(t, 0, doc.Count)
}

func TestAdminWarnLimits(t *testing.T) {
	ctx := context.Background()
	a := newHarness(t, nil).svc.Admin()

	assert.ErrorIs(t, a.OnSetWarnLimit(ctx, testChat, 0), ErrInvalidConfiguration)
	assert.ErrorIs(t, a.OnSetWarnLimit(ctx, testChat, 11), ErrInvalidConfiguration)
	_, err := a.OnSetWarnAction(ctx, testChat, "timeout")
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestAdminResetWarn(t *testing.T) {
	ctx := context.Background()
	a := newHarness(t, nil).svc.Admin()

	a.OnWarn(ctx, testChat, testUser, 1, "spam")
	require.NoError(t, a.OnResetWarn(ctx, testChat, testUser))

	doc, err := a.Warnings(ctx, testChat, testUser)
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Count)
}

func TestAdminAllowedDomains(t *testing.T) {
	ctx := context.Background()
	a := newHarness(t, nil).svc.Admin()

	d, added, err := a.OnAddAllowedDomain(ctx, testChat, "https://www.YouTube.com")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, "youtube.com", d)

	_, added, err = a.OnAddAllowedDomain(ctx, testChat, "youtube.com")
	require.NoError(t, err)
	assert.False(t, added)

	s, _ := a.Settings(ctx, testChat)
	assert.Equal(t, []string{"youtube.com"}, s.AllowedDomains)

	_, removed, err := a.OnRemoveAllowedDomain(ctx, testChat, "WWW.youtube.com")
	require.NoError(t, err)
	assert.True(t, removed)

	_, _, err = a.OnAddAllowedDomain(ctx, testChat, "  ")
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestAdminForceSub(t *testing.T) {
	ctx := context.Background()
	a := newHarness(t, nil).svc.Admin()

	_, err := a.OnForceSubToggle(ctx, testChat, true)
	assert.ErrorIs(t, err, ErrInvalidConfiguration, "a channel is required first")

	_, err = a.OnSetForceSubChannel(ctx, testChat, "no valido!")
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	ch, err := a.OnSetForceSubChannel(ctx, testChat, "canal_oficial")
	require.NoError(t, err)
	assert.Equal(t, "@canal_oficial", ch)

	s, err := a.OnForceSubToggle(ctx, testChat, true)
	require.NoError(t, err)
	assert.True(t, s.ForceSubEnabled)
}

func TestAdminAutoDeletePinsCancelsPending(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	a := h.svc.Admin()

	_, err := a.OnAutoDeletePins(ctx, testChat, true, intPtr(600))
	require.NoError(t, err)

	h.svc.schedulePinDeletion(testChat, 10, time.Minute)
	h.svc.schedulePinDeletion(testChat, 11, time.Minute)
	h.svc.schedulePinDeletion(-1, 11, time.Minute)
	require.Equal(t, 3, h.sched.Pending())

	s, err := a.OnAutoDeletePins(ctx, testChat, false, nil)
	require.NoError(t, err)
	assert.False(t, s.AutoDeletePins)
	assert.Equal(t, 600, s.PinDeleteDelaySeconds)
	assert.Equal(t, 1, h.sched.Pending(), "only this chat's deletions are cancelled")

	_, err = a.OnAutoDeletePins(ctx, testChat, true, intPtr(90000))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestAdminAutoDeleteJoins(t *testing.T) {
	ctx := context.Background()
	a := newHarness(t, nil).svc.Admin()

	require.NoError(t, a.OnAutoDeleteJoins(ctx, testChat, true))
	s, _ := a.Settings(ctx, testChat)
	assert.True(t, s.AutoDeleteJoins)
}

func TestAdminConfigUnavailable(t *testing.T) {
	svc := NewService(Deps{Store: brokenStore{}, Messenger: newFakeMessenger()})
	defer svc.sched.Stop()

	_, err := svc.Admin().OnLock(context.Background(), 1, "links", true)
	assert.ErrorIs(t, err, ErrConfigUnavailable)
}

func TestAdminRemoveWarn(t *testing.T) {
	ctx := context.Background()
	a := newHarness(t, nil).svc.Admin()

	removed, _, err := a.OnRemoveWarn(ctx, testChat, testUser, "")
	require.NoError(t, err)
	assert.False(t, removed, "nothing to remove")

	first, err := a.OnWarn(ctx, testChat, testUser, 1, "uno")
	require.NoError(t, err)
	_, err = a.OnWarn(ctx, testChat, testUser, 1, "dos")
	require.NoError(t, err)

	removed, left, err := a.OnRemoveWarn(ctx, testChat, testUser, "no-existe")
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 2, left)

	removed, left, err = a.OnRemoveWarn(ctx, testChat, testUser, first.Record.Warns[0].ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 1, left)

	doc, _ := a.Warnings(ctx, testChat, testUser)
	require.Len(t, doc.Warns, 1)
	assert.Equal(t, "dos", doc.Warns[0].Reason)

	removed, left, err = a.OnRemoveWarn(ctx, testChat, testUser, "")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 0, left)
}

func TestAdminPunish(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	a := h.svc.Admin()

	require.NoError(t, a.OnPunish(ctx, testChat, testUser, 1, ActionMute, time.Hour, "spam"))
	require.NoError(t, a.OnPunish(ctx, testChat, testUser, 1, ActionBan, 0, "spam"))

	snap := h.msgr.snapshot()
	require.Len(t, snap.restrict, 1)
	assert.False(t, snap.restrict[0].until.IsZero())
	assert.Equal(t, []int64{testUser}, snap.banned)
	assert.Contains(t, h.audit.kinds(), AuditManualAction)

	assert.ErrorIs(t, a.OnPunish(ctx, testChat, testUser, 1, ActionDelete, 0, ""), ErrInvalidConfiguration)
	assert.ErrorIs(t, a.OnPunish(ctx, testChat, testUser, 1, ActionMute, -time.Second, ""), ErrInvalidConfiguration)
}
