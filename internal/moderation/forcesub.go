package moderation

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PancyStudios/PancyGuard/pkg/logger"
	"github.com/PancyStudios/PancyGuard/pkg/models"
)

// ForceSubPromptTTL is how long a join prompt stays in the chat
const ForceSubPromptTTL = 30 * time.Second

var (
	channelIDPattern   = regexp.MustCompile(`^-100\d+$`)
	channelNamePattern = regexp.MustCompile(`^@?[A-Za-z][A-Za-z0-9_]{3,31}$`)
)

// NormalizeChannelRef validates a channel reference and returns it in
// "@name" or "-100id" form.
func NormalizeChannelRef(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	ref = strings.TrimPrefix(ref, "https://t.me/")
	ref = strings.TrimPrefix(ref, "t.me/")
	switch {
	case channelIDPattern.MatchString(ref):
		return ref, nil
	case channelNamePattern.MatchString(ref):
		return "@" + strings.TrimPrefix(ref, "@"), nil
	}
	return "", invalidf("canal inválido %q (usa @canal o -100id)", ref)
}

// PublicInviteLink builds the t.me link of a public channel reference.
// Numeric ids have no public link without a lookup.
func PublicInviteLink(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "-") {
		return "", false
	}
	return "https://t.me/" + strings.TrimPrefix(ref, "@"), true
}

// ForceSubGate checks channel membership before a user may post
type ForceSubGate struct {
	members        MembershipChecker
	resolver       ChannelResolver
	defaultChannel string
}

// NewForceSubGate creates a gate. defaultChannel is used by chats that
// enabled the gate without setting their own channel.
func NewForceSubGate(members MembershipChecker, resolver ChannelResolver, defaultChannel string) *ForceSubGate {
	return &ForceSubGate{members: members, resolver: resolver, defaultChannel: defaultChannel}
}

// Channel returns the channel a chat requires
func (g *ForceSubGate) Channel(s models.ChatSettings) string {
	if s.ForceSubChannel != "" {
		return s.ForceSubChannel
	}
	return g.defaultChannel
}

// MayParticipate reports whether the user may post. Privileged users and
// failed membership lookups pass.
func (g *ForceSubGate) MayParticipate(ctx context.Context, userID int64, s models.ChatSettings, privileged bool) bool {
	if privileged || !s.ForceSubEnabled || g.members == nil {
		return true
	}
	channel := g.Channel(s)
	if channel == "" {
		return true
	}

	status, err := g.members.GetChatMember(ctx, channel, userID)
	if err != nil {
		logger.Warn(fmt.Sprintf("Error comprobando la suscripción de %d a %s: %v", userID, channel, err), "ForceSub")
		return true
	}
	return status.Subscribed()
}

// InviteLink resolves the join link for the chat's channel
func (g *ForceSubGate) InviteLink(ctx context.Context, s models.ChatSettings) (string, bool) {
	channel := g.Channel(s)
	if channel == "" {
		return "", false
	}
	if g.resolver != nil {
		return g.resolver.ResolveInviteLink(ctx, channel)
	}
	return PublicInviteLink(channel)
}

func forceSubPrompt(name, link string) Outgoing {
	if name == "" {
		name = "Usuario"
	}
	return Outgoing{
		Text:       fmt.Sprintf("⚠️ %s, debes unirte a nuestro canal para participar en este grupo.\n\nPulsa el botón para unirte:", name),
		ButtonText: "Unirse al canal",
		ButtonURL:  link,
	}
}
