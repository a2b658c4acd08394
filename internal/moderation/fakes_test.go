package moderation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/PancyStudios/PancyGuard/pkg/models"
)

type restrictCall struct {
	chatID, userID int64
	until          time.Time
}

type fakeMessenger struct {
	mu       sync.Mutex
	nextID   int64
	deleted  []int64
	sent     []Outgoing
	restrict []restrictCall
	banned   []int64
	unbanned []int64
	unpinned []int64
	errs     map[string]error
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{nextID: 1000, errs: map[string]error{}}
}

func (f *fakeMessenger) fail(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[method] = err
}

func (f *fakeMessenger) DeleteMessage(_ context.Context, _ int64, messageID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return f.errs["delete"]
}

func (f *fakeMessenger) SendMessage(_ context.Context, _ int64, out Outgoing) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs["send"]; err != nil {
		return 0, err
	}
	f.nextID++
	f.sent = append(f.sent, out)
	return f.nextID, nil
}

func (f *fakeMessenger) RestrictUser(_ context.Context, chatID, userID int64, until time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restrict = append(f.restrict, restrictCall{chatID, userID, until})
	return f.errs["restrict"]
}

func (f *fakeMessenger) BanUser(_ context.Context, _ int64, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.banned = append(f.banned, userID)
	return f.errs["ban"]
}

func (f *fakeMessenger) UnbanUser(_ context.Context, _ int64, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unbanned = append(f.unbanned, userID)
	return f.errs["unban"]
}

func (f *fakeMessenger) UnpinMessage(_ context.Context, _ int64, messageID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unpinned = append(f.unpinned, messageID)
	return f.errs["unpin"]
}

func (f *fakeMessenger) snapshot() fakeMessenger {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fakeMessenger{
		deleted:  append([]int64{}, f.deleted...),
		sent:     append([]Outgoing{}, f.sent...),
		restrict: append([]restrictCall{}, f.restrict...),
		banned:   append([]int64{}, f.banned...),
		unbanned: append([]int64{}, f.unbanned...),
		unpinned: append([]int64{}, f.unpinned...),
	}
}

type fakeMembers struct {
	status MemberStatus
	err    error
	calls  int
	panics bool
}

func (f *fakeMembers) GetChatMember(context.Context, string, int64) (MemberStatus, error) {
	f.calls++
	if f.panics {
		panic("membership lookup exploded")
	}
	return f.status, f.err
}

type fakeResolver struct {
	link string
}

func (f fakeResolver) ResolveInviteLink(context.Context, string) (string, bool) {
	return f.link, f.link != ""
}

type fakeAuth struct {
	privileged map[int64]bool
	calls      int
}

func (f *fakeAuth) IsPrivileged(_ context.Context, _ int64, userID int64) (bool, error) {
	f.calls++
	return f.privileged[userID], nil
}

type fakeAudit struct {
	mu     sync.Mutex
	events []AuditEvent
}

func (f *fakeAudit) Publish(_ context.Context, e AuditEvent) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
}

func (f *fakeAudit) kinds() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, e := range f.events {
		out = append(out, e.Kind)
	}
	return out
}

type brokenStore struct{}

func (brokenStore) GetSettings(context.Context, int64) (models.ChatSettings, error) {
	return models.ChatSettings{}, errors.New("mongo caído")
}

func (brokenStore) UpdateSettings(context.Context, int64, models.ChatSettings) error {
	return errors.New("mongo caído")
}
