package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PancyStudios/PancyGuard/pkg/models"
)

func newTestExecutor() (*Executor, *fakeMessenger, *WarningLedger, *FloodDetector) {
	m := newFakeMessenger()
	l := NewWarningLedger(NewMemoryWarnStore())
	f := NewFloodDetector(0, 0)
	e := NewExecutor(m, l, f)
	e.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	return e, m, l, f
}

func TestExecutorMuteIsIndefinite(t *testing.T) {
	e, m, _, _ := newTestExecutor()

	require.NoError(t, e.Apply(context.Background(), ActionMute, 1, 2, ApplyOptions{}))

	calls := m.snapshot().restrict
	require.Len(t, calls, 1)
	assert.True(t, calls[0].until.IsZero())
}

func TestExecutorFloodMute(t *testing.T) {
	e, m, _, f := newTestExecutor()
	now := time.Now()
	f.RecordAndCheck(1, 2, now, time.Minute, 10)

	require.NoError(t, e.Apply(context.Background(), ActionMute, 1, 2, ApplyOptions{Flood: true}))

	calls := m.snapshot().restrict
	require.Len(t, calls, 1)
	assert.Equal(t, e.now().Add(5*time.Minute), calls[0].until)
	assert.Equal(t, 0, f.Count(1, 2), "flood mutes clear the window")
}

func TestExecutorKickIsBanThenUnban(t *testing.T) {
	e, m, _, _ := newTestExecutor()

	require.NoError(t, e.Apply(context.Background(), ActionKick, 1, 2, ApplyOptions{}))

	snap := m.snapshot()
	assert.Equal(t, []int64{2}, snap.banned)
	assert.Equal(t, []int64{2}, snap.unbanned)
}

func TestExecutorBan(t *testing.T) {
	e, m, _, _ := newTestExecutor()

	require.NoError(t, e.Apply(context.Background(), ActionBan, 1, 2, ApplyOptions{}))

	snap := m.snapshot()
	assert.Equal(t, []int64{2}, snap.banned)
	assert.Empty(t, snap.unbanned)
}

func TestExecutorResetsLedgerEvenOnFailure(t *testing.T) {
	ctx := context.Background()
	e, m, l, _ := newTestExecutor()
	m.fail("ban", ErrPermissionDenied)

	l.AddWarning(ctx, 1, 2, 99, "spam", 5, models.WarnActionBan)
	l.AddWarning(ctx, 1, 2, 99, "spam", 5, models.WarnActionBan)

	err := e.Apply(ctx, ActionBan, 1, 2, ApplyOptions{})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	doc, _ := l.Get(ctx, 1, 2)
	assert.Equal(t, 0, doc.Count)
}

func TestExecutorClassifiesUnknownErrors(t *testing.T) {
	e, m, _, _ := newTestExecutor()
	m.fail("restrict", errors.New("timeout"))

	err := e.Apply(context.Background(), ActionMute, 1, 2, ApplyOptions{})
	assert.ErrorIs(t, err, ErrExternalTransient)
}

func TestExecutorKickStopsWhenBanFails(t *testing.T) {
	e, m, _, _ := newTestExecutor()
	m.fail("ban", ErrPermissionDenied)

	assert.Error(t, e.Apply(context.Background(), ActionKick, 1, 2, ApplyOptions{}))
	assert.Empty(t, m.snapshot().unbanned)
}
