package events

import (
	"context"
	"fmt"

	"github.com/PancyStudios/PancyGuard/internal/moderation"
	"github.com/PancyStudios/PancyGuard/pkg/logger"
	"github.com/PancyStudios/PancyGuard/pkg/mqtt"
)

// Publisher is the part of the MQTT communicator the audit sink needs
type Publisher interface {
	IsConnected() bool
	PublishAsync(topic string, payload interface{})
}

// AuditSink forwards moderation audit events to MQTT topics
// guard/audit/<chat>. Events are logged at debug level as well, so a bot
// running without a broker keeps a trace of its enforcements.
type AuditSink struct {
	pub Publisher
}

// NewAuditSink creates a sink publishing through pub; pub may be nil
func NewAuditSink(pub Publisher) *AuditSink {
	return &AuditSink{pub: pub}
}

// Publish implements moderation.AuditSink
func (a *AuditSink) Publish(_ context.Context, e moderation.AuditEvent) {
	logger.Debug(fmt.Sprintf("[%s] chat=%d user=%d action=%s %s", e.Kind, e.ChatID, e.UserID, e.Action, e.Detail), "Audit")

	if a.pub == nil || !a.pub.IsConnected() {
		return
	}
	a.pub.PublishAsync(mqtt.AuditTopic(e.ChatID), e)
}
