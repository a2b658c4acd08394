package moderation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PancyStudios/PancyGuard/pkg/models"
)

func TestLedgerEscalatesAtLimit(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	l := NewWarningLedger(NewMemoryWarnStore())

	for i := 1; i <= 2; i++ {
		res, err := l.AddWarning(ctx, 1, 2, 99, "spam", 3, models.WarnActionBan)
		require.NoError(t, err)
		assert.Equal(i, res.Count)
		assert.False(res.Escalated)
	}

	res, err := l.AddWarning(ctx, 1, 2, 99, "spam", 3, models.WarnActionBan)
	require.NoError(t, err)
	assert.True(res.Escalated)
	assert.Equal(3, res.Count)
	assert.Equal(models.WarnActionBan, res.Action)
	assert.Len(res.Record.Warns, 3)

	doc, err := l.Get(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(0, doc.Count, "the ledger resets on escalation")

	res, err = l.AddWarning(ctx, 1, 2, 99, "spam", 3, models.WarnActionBan)
	require.NoError(t, err)
	assert.Equal(1, res.Count, "a new warning after escalation starts fresh")
	assert.False(res.Escalated)
}

func TestLedgerHistory(t *testing.T) {
	ctx := context.Background()
	l := NewWarningLedger(NewMemoryWarnStore())

	l.AddWarning(ctx, 1, 2, 10, "primero", 5, models.WarnActionKick)
	l.AddWarning(ctx, 1, 2, 11, "segundo", 5, models.WarnActionKick)

	doc, err := l.Get(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, doc.Warns, 2)
	assert.Equal(t, "primero", doc.Warns[0].Reason)
	assert.Equal(t, int64(11), doc.Warns[1].WarnedBy)
	assert.NotEmpty(t, doc.Warns[0].ID)
	assert.NotEqual(t, doc.Warns[0].ID, doc.Warns[1].ID)
}

func TestLedgerConcurrentEscalatesOnce(t *testing.T) {
	ctx := context.Background()
	l := NewWarningLedger(NewMemoryWarnStore())
	const max = 10

	for i := 0; i < max-1; i++ {
		_, err := l.AddWarning(ctx, 1, 2, 99, "previa", max, models.WarnActionMute)
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	escalations := 0
	for i := 0; i < max; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := l.AddWarning(ctx, 1, 2, 99, "paralela", max, models.WarnActionMute)
			assert.NoError(t, err)
			if res.Escalated {
				mu.Lock()
				escalations++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, escalations)
	doc, _ := l.Get(ctx, 1, 2)
	assert.Equal(t, max-1, doc.Count, "the remaining warnings start a new cycle")
}

func TestLedgerReset(t *testing.T) {
	ctx := context.Background()
	l := NewWarningLedger(NewMemoryWarnStore())

	l.AddWarning(ctx, 1, 2, 99, "spam", 3, models.WarnActionBan)
	require.NoError(t, l.Reset(ctx, 1, 2))

	doc, err := l.Get(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Count)
	assert.Empty(t, doc.Warns)
}

type failingWarnStore struct{ *MemoryWarnStore }

func (failingWarnStore) LoadWarnings(context.Context, int64, int64) (*models.WarnsDocument, error) {
	return nil, errors.New("sin conexión")
}

func TestLedgerStoreFailure(t *testing.T) {
	l := NewWarningLedger(failingWarnStore{NewMemoryWarnStore()})

	res, err := l.AddWarning(context.Background(), 1, 2, 99, "spam", 3, models.WarnActionBan)
	assert.Error(t, err)
	assert.False(t, res.Escalated)
}

func TestLedgerLockTableStaysEmpty(t *testing.T) {
	ctx := context.Background()
	l := NewWarningLedger(NewMemoryWarnStore())

	for user := int64(1); user <= 2000; user++ {
		res, err := l.AddWarning(ctx, 1, user, 99, "spam", 1, models.WarnActionBan)
		require.NoError(t, err)
		require.True(t, res.Escalated)
	}
	require.NoError(t, l.Reset(ctx, 1, 5))
	_, _, err := l.Remove(ctx, 1, 6, "")
	require.NoError(t, err)

	assert.Equal(t, 0, l.locks.Size(), "idle keys keep no mutex")
}

func TestLedgerLockTableAfterContention(t *testing.T) {
	ctx := context.Background()
	l := NewWarningLedger(NewMemoryWarnStore())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := l.AddWarning(ctx, 1, int64(i%3), 99, "paralela", 10, models.WarnActionMute)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 0, l.locks.Size())
	total := 0
	for user := int64(0); user < 3; user++ {
		doc, err := l.Get(ctx, 1, user)
		require.NoError(t, err)
		total += doc.Count
	}
	// 50 warnings over 3 users at max 10: 17+17+16, each escalating once
	assert.Equal(t, 7+7+6, total)
}
