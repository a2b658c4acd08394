package moderation

import (
	"context"
	"strings"
	"time"

	"github.com/PancyStudios/PancyGuard/pkg/models"
)

// ContentShape is the set of content categories a message belongs to.
// Platform adapters classify each message once; checkers only read the bits.
type ContentShape uint16

const (
	ShapeText ContentShape = 1 << iota
	ShapeMedia
	ShapeSticker
	ShapeAnimation
	ShapePoll
	ShapeForward
	ShapeServiceJoin
	ShapeServicePin
)

var shapeNames = []struct {
	bit  ContentShape
	name string
}{
	{ShapeText, "text"},
	{ShapeMedia, "media"},
	{ShapeSticker, "sticker"},
	{ShapeAnimation, "animation"},
	{ShapePoll, "poll"},
	{ShapeForward, "forward"},
	{ShapeServiceJoin, "join"},
	{ShapeServicePin, "pin"},
}

// Has reports whether every bit of f is set
func (s ContentShape) Has(f ContentShape) bool {
	return f != 0 && s&f == f
}

// IsService reports whether the message is a join or pin notification
func (s ContentShape) IsService() bool {
	return s&(ShapeServiceJoin|ShapeServicePin) != 0
}

func (s ContentShape) String() string {
	var parts []string
	for _, n := range shapeNames {
		if s&n.bit != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "empty"
	}
	return strings.Join(parts, "|")
}

// Message is one inbound group message, already classified
type Message struct {
	ChatID     int64
	UserID     int64
	MessageID  int64
	SenderName string
	Shape      ContentShape
	URLs       []string
	Time       time.Time

	// PinnedMessageID is set on pin notifications
	PinnedMessageID int64
}

// Action is what the coordinator does about a message
type Action string

const (
	ActionNone       Action = "none"
	ActionDelete     Action = "delete"
	ActionDeleteWarn Action = "delete+warn"
	ActionMute       Action = "mute"
	ActionKick       Action = "kick"
	ActionBan        Action = "ban"
)

// ActionFor maps a chat's escalation setting onto an executor action
func ActionFor(w models.WarnAction) Action {
	switch w {
	case models.WarnActionKick:
		return ActionKick
	case models.WarnActionMute:
		return ActionMute
	default:
		return ActionBan
	}
}

// Punitive reports whether the action goes through the executor
func (a Action) Punitive() bool {
	return a == ActionMute || a == ActionKick || a == ActionBan
}

// Violation names the rule a decision enforces: a lock type, flood, link or forcesub
type Violation string

const (
	ViolationFlood    Violation = "flood"
	ViolationLink     Violation = "link"
	ViolationForceSub Violation = "forcesub"
)

// LockViolation wraps a lock type as a violation
func LockViolation(lt models.LockType) Violation {
	return Violation(lt)
}

// Decision is one outcome of evaluating a message
type Decision struct {
	Action    Action
	Violation Violation
	Message   string

	// Lock is set for lock violations
	Lock models.LockType
	// Warn is set when the decision recorded a warning
	Warn *WarnResult
}

// Outgoing is a message the bot posts
type Outgoing struct {
	Text       string
	ButtonText string
	ButtonURL  string
}

// MemberStatus is a user's membership state in a chat or channel
type MemberStatus string

const (
	StatusCreator       MemberStatus = "creator"
	StatusAdministrator MemberStatus = "administrator"
	StatusMember        MemberStatus = "member"
	StatusRestricted    MemberStatus = "restricted"
	StatusLeft          MemberStatus = "left"
	StatusKicked        MemberStatus = "kicked"
)

// Subscribed reports whether the status counts as joined
func (s MemberStatus) Subscribed() bool {
	return s == StatusMember || s == StatusAdministrator || s == StatusCreator
}

// ConfigStore reads and writes chat settings.
// GetSettings returns defaults with a nil error when nothing is stored.
type ConfigStore interface {
	GetSettings(ctx context.Context, chatID int64) (models.ChatSettings, error)
	UpdateSettings(ctx context.Context, chatID int64, settings models.ChatSettings) error
}

// WarnStore persists warning records
type WarnStore interface {
	LoadWarnings(ctx context.Context, chatID, userID int64) (*models.WarnsDocument, error)
	SaveWarnings(ctx context.Context, doc *models.WarnsDocument) error
	DeleteWarnings(ctx context.Context, chatID, userID int64) error
}

// Messenger performs chat side effects. Implementations wrap failures with
// ErrPermissionDenied or ErrExternalTransient where they can tell them apart.
type Messenger interface {
	DeleteMessage(ctx context.Context, chatID, messageID int64) error
	SendMessage(ctx context.Context, chatID int64, out Outgoing) (int64, error)
	// RestrictUser removes send permissions; a zero until means indefinitely.
	RestrictUser(ctx context.Context, chatID, userID int64, until time.Time) error
	BanUser(ctx context.Context, chatID, userID int64) error
	UnbanUser(ctx context.Context, chatID, userID int64) error
	UnpinMessage(ctx context.Context, chatID, messageID int64) error
}

// MembershipChecker looks up a user's status in a channel
type MembershipChecker interface {
	GetChatMember(ctx context.Context, chatRef string, userID int64) (MemberStatus, error)
}

// ChannelResolver turns a channel reference into a public invite link
type ChannelResolver interface {
	ResolveInviteLink(ctx context.Context, channelRef string) (string, bool)
}

// Authorizer tells whether a user is the bot owner or a chat admin
type Authorizer interface {
	IsPrivileged(ctx context.Context, chatID, userID int64) (bool, error)
}

// AuditEvent records an enforcement for the audit log
type AuditEvent struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	ChatID    int64     `json:"chatId"`
	UserID    int64     `json:"userId"`
	Action    Action    `json:"action,omitempty"`
	Violation Violation `json:"violation,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Time      time.Time `json:"time"`
}

// Audit event kinds
const (
	AuditFloodMute      = "user_muted_flood"
	AuditLinkWarning    = "link_warning"
	AuditEscalation     = "escalation"
	AuditLockDelete     = "lock_delete"
	AuditForceSubReject = "forcesub_reject"
	AuditManualWarn     = "manual_warn"
	AuditManualAction   = "manual_action"
	AuditActionFailed   = "action_failed"
)

// AuditSink receives audit events; Publish must not block the caller for long
type AuditSink interface {
	Publish(ctx context.Context, event AuditEvent)
}

type nopAudit struct{}

func (nopAudit) Publish(context.Context, AuditEvent) {}
