package models

import (
	"fmt"
	"strings"
)

// LockType is a category of message content that can be locked in a chat
type LockType string

const (
	LockMessages LockType = "messages"
	LockMedia    LockType = "media"
	LockStickers LockType = "stickers"
	LockGifs     LockType = "gifs"
	LockPolls    LockType = "polls"
	LockLinks    LockType = "links"
	LockForwards LockType = "forwards"
)

// LockPrecedence lists every lock type from the broadest to the narrowest.
// The content lock evaluator walks this slice in order.
var LockPrecedence = []LockType{
	LockMessages,
	LockMedia,
	LockStickers,
	LockGifs,
	LockPolls,
	LockLinks,
	LockForwards,
}

// ParseLockType validates a user supplied lock name
func ParseLockType(s string) (LockType, error) {
	lt := LockType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range LockPrecedence {
		if lt == known {
			return lt, nil
		}
	}
	return "", fmt.Errorf("tipo de bloqueo desconocido: %q", s)
}

// WarnAction is the punishment applied when a user reaches the warning limit
type WarnAction string

const (
	WarnActionBan  WarnAction = "ban"
	WarnActionKick WarnAction = "kick"
	WarnActionMute WarnAction = "mute"
)

// ParseWarnAction validates a user supplied warn action
func ParseWarnAction(s string) (WarnAction, error) {
	switch a := WarnAction(strings.ToLower(strings.TrimSpace(s))); a {
	case WarnActionBan, WarnActionKick, WarnActionMute:
		return a, nil
	}
	return "", fmt.Errorf("acción desconocida: %q", s)
}

const (
	DefaultAntifloodLimit  = 5
	DefaultAntifloodWindow = 10
	DefaultMaxWarnings     = 3
	DefaultPinDeleteDelay  = 300

	MinMaxWarnings     = 1
	MaxMaxWarnings     = 10
	MaxAntifloodWindow = 3600
	MaxPinDeleteDelay  = 86400
)

// ChatSettings represents the document stored in the "settings" collection.
// The moderation pipeline only reads it; admin commands write it.
type ChatSettings struct {
	ChatID int64 `bson:"chat_id" json:"chatId"`

	Locks          map[LockType]bool `bson:"locks" json:"locks"`
	AllowedDomains []string          `bson:"allowed_links" json:"allowedDomains"`

	AntifloodEnabled       bool `bson:"antiflood_enabled" json:"antifloodEnabled"`
	AntifloodLimit         int  `bson:"antiflood_limit" json:"antifloodLimit"`
	AntifloodWindowSeconds int  `bson:"antiflood_time" json:"antifloodWindowSeconds"`

	MaxWarnings int        `bson:"max_warnings" json:"maxWarnings"`
	WarnAction  WarnAction `bson:"warn_action" json:"warnAction"`

	ForceSubEnabled bool   `bson:"force_sub_enabled" json:"forceSubEnabled"`
	ForceSubChannel string `bson:"force_sub_channel,omitempty" json:"forceSubChannel,omitempty"`

	AutoDeleteJoins       bool `bson:"auto_delete_join_requests" json:"autoDeleteJoins"`
	AutoDeletePins        bool `bson:"auto_delete_pin_messages" json:"autoDeletePins"`
	PinDeleteDelaySeconds int  `bson:"pin_delete_delay" json:"pinDeleteDelaySeconds"`
}

// DefaultChatSettings returns the settings used for chats with no stored document
func DefaultChatSettings(chatID int64) ChatSettings {
	locks := make(map[LockType]bool, len(LockPrecedence))
	for _, lt := range LockPrecedence {
		locks[lt] = false
	}
	return ChatSettings{
		ChatID:                 chatID,
		Locks:                  locks,
		AllowedDomains:         []string{},
		AntifloodEnabled:       false,
		AntifloodLimit:         DefaultAntifloodLimit,
		AntifloodWindowSeconds: DefaultAntifloodWindow,
		MaxWarnings:            DefaultMaxWarnings,
		WarnAction:             WarnActionBan,
		PinDeleteDelaySeconds:  DefaultPinDeleteDelay,
	}
}

// Normalize fills zero values left by older documents and clamps out of range values
func (s *ChatSettings) Normalize() {
	if s.Locks == nil {
		s.Locks = make(map[LockType]bool)
	}
	if s.AllowedDomains == nil {
		s.AllowedDomains = []string{}
	}
	if s.AntifloodLimit < 1 {
		s.AntifloodLimit = DefaultAntifloodLimit
	}
	if s.AntifloodWindowSeconds < 1 {
		s.AntifloodWindowSeconds = DefaultAntifloodWindow
	}
	if s.MaxWarnings < MinMaxWarnings || s.MaxWarnings > MaxMaxWarnings {
		s.MaxWarnings = DefaultMaxWarnings
	}
	if _, err := ParseWarnAction(string(s.WarnAction)); err != nil {
		s.WarnAction = WarnActionBan
	}
}

// Locked reports whether the given lock is enabled
func (s ChatSettings) Locked(lt LockType) bool {
	return s.Locks[lt]
}

// ActiveLocks returns the enabled locks in precedence order
func (s ChatSettings) ActiveLocks() []LockType {
	var active []LockType
	for _, lt := range LockPrecedence {
		if s.Locks[lt] {
			active = append(active, lt)
		}
	}
	return active
}

// Clone returns a deep copy so callers can mutate without touching a cached value
func (s ChatSettings) Clone() ChatSettings {
	c := s
	c.Locks = make(map[LockType]bool, len(s.Locks))
	for k, v := range s.Locks {
		c.Locks[k] = v
	}
	c.AllowedDomains = append([]string{}, s.AllowedDomains...)
	return c
}
