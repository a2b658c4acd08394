// Package moderation evaluates inbound group messages against a chat's
// locks, link allowlist, flood limits and forced subscription, and
// escalates repeat offenders through the warning ledger.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	guarderrors "github.com/PancyStudios/PancyGuard/pkg/errors"
	"github.com/PancyStudios/PancyGuard/pkg/logger"
	"github.com/PancyStudios/PancyGuard/pkg/models"
	"github.com/PancyStudios/PancyGuard/pkg/scheduler"
)

const (
	// NoticeTTL is how long lock, link and flood notices stay in the chat
	NoticeTTL = 10 * time.Second
)

// Deps are the collaborators of a Service
type Deps struct {
	Store      ConfigStore
	Warns      WarnStore
	Messenger  Messenger
	Authorizer Authorizer
	Members    MembershipChecker
	Resolver   ChannelResolver
	Audit      AuditSink
	Scheduler  *scheduler.Scheduler

	// BotID is recorded as the issuer of automatic warnings
	BotID int64
	// DefaultForceSubChannel is used when a chat has none configured
	DefaultForceSubChannel string
	// Flood store sizing; zero values use the defaults
	FloodCapacity int
	FloodIdleTTL  time.Duration
}

// Service is the pipeline coordinator
type Service struct {
	store     ConfigStore
	messenger Messenger
	auth      Authorizer
	audit     AuditSink
	sched     *scheduler.Scheduler

	gate   *ForceSubGate
	flood  *FloodDetector
	ledger *WarningLedger
	exec   *Executor

	botID int64
	now   func() time.Time
}

// NewService wires the pipeline
func NewService(d Deps) *Service {
	if d.Warns == nil {
		d.Warns = NewMemoryWarnStore()
	}
	if d.Audit == nil {
		d.Audit = nopAudit{}
	}
	if d.Scheduler == nil {
		d.Scheduler = scheduler.New()
	}

	flood := NewFloodDetector(d.FloodCapacity, d.FloodIdleTTL)
	ledger := NewWarningLedger(d.Warns)
	return &Service{
		store:     d.Store,
		messenger: d.Messenger,
		auth:      d.Authorizer,
		audit:     d.Audit,
		sched:     d.Scheduler,
		gate:      NewForceSubGate(d.Members, d.Resolver, d.DefaultForceSubChannel),
		flood:     flood,
		ledger:    ledger,
		exec:      NewExecutor(d.Messenger, ledger, flood),
		botID:     d.BotID,
		now:       time.Now,
	}
}

// Ledger exposes the warning ledger
func (s *Service) Ledger() *WarningLedger { return s.ledger }

// Flood exposes the flood detector
func (s *Service) Flood() *FloodDetector { return s.flood }

// Executor exposes the action executor
func (s *Service) Executor() *Executor { return s.exec }

// settings loads a chat's settings, falling back to defaults
func (s *Service) settings(ctx context.Context, chatID int64) models.ChatSettings {
	settings, err := s.store.GetSettings(ctx, chatID)
	if err != nil {
		logger.Warn(fmt.Sprintf("%v para el chat %d, usando valores por defecto: %v", ErrConfigUnavailable, chatID, err), "Moderation")
		return models.DefaultChatSettings(chatID)
	}
	settings.Normalize()
	return settings
}

func (s *Service) privileged(ctx context.Context, chatID, userID int64) bool {
	if s.auth == nil {
		return false
	}
	ok, err := s.auth.IsPrivileged(ctx, chatID, userID)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo comprobar si %d es admin en %d: %v", userID, chatID, err), "Moderation")
		return false
	}
	return ok
}

// safely runs one checker, isolating panics from the rest of the pipeline
func safely(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			checkerPanicsCount.WithLabelValues(name).Inc()
			guarderrors.Recovered(fmt.Sprintf("checker %s: %v", name, r))
		}
	}()
	fn()
}

// Evaluate runs the checkers for one message and returns the decisions.
// It mutates only the flood windows and the warning ledger.
func (s *Service) Evaluate(ctx context.Context, msg Message, settings models.ChatSettings, privileged bool) []Decision {
	if privileged {
		return nil
	}
	if msg.Time.IsZero() {
		msg.Time = s.now()
	}

	var decisions []Decision

	rejected := false
	safely("forcesub", func() {
		if !s.gate.MayParticipate(ctx, msg.UserID, settings, privileged) {
			rejected = true
			decisions = append(decisions, Decision{
				Action:    ActionDelete,
				Violation: ViolationForceSub,
				Message:   "usuario no suscrito al canal",
			})
		}
	})
	if rejected {
		return decisions
	}

	safely("locks", func() {
		if d, ok := s.checkLocks(ctx, msg, settings); ok {
			decisions = append(decisions, d)
		}
	})

	safely("flood", func() {
		if !settings.AntifloodEnabled {
			return
		}
		window := time.Duration(settings.AntifloodWindowSeconds) * time.Second
		if s.flood.RecordAndCheck(msg.ChatID, msg.UserID, msg.Time, window, settings.AntifloodLimit) {
			decisions = append(decisions, Decision{
				Action:    ActionMute,
				Violation: ViolationFlood,
				Message:   fmt.Sprintf("más de %d mensajes en %ds", settings.AntifloodLimit, settings.AntifloodWindowSeconds),
			})
		}
	})

	return decisions
}

func (s *Service) checkLocks(ctx context.Context, msg Message, settings models.ChatSettings) (Decision, bool) {
	lt, ok := CheckLock(msg, settings.Locks)
	if !ok {
		return Decision{}, false
	}
	if lt != models.LockLinks {
		return Decision{Action: ActionDelete, Violation: LockViolation(lt), Lock: lt}, true
	}

	bad, found := FirstDisallowed(msg.URLs, settings.AllowedDomains)
	if !found {
		// every link is allowlisted; narrower locks still apply
		if next, ok := checkLockAfter(msg, settings.Locks, models.LockLinks); ok {
			return Decision{Action: ActionDelete, Violation: LockViolation(next), Lock: next}, true
		}
		return Decision{}, false
	}

	reason := fmt.Sprintf("Enlace no permitido: %s", bad)
	res, err := s.ledger.AddWarning(ctx, msg.ChatID, msg.UserID, s.botID, reason, settings.MaxWarnings, settings.WarnAction)
	if err != nil && !res.Escalated {
		logger.Error(fmt.Sprintf("No se pudo advertir a %d en %d: %v", msg.UserID, msg.ChatID, err), "Moderation")
		return Decision{Action: ActionDelete, Violation: LockViolation(models.LockLinks), Lock: models.LockLinks}, true
	}
	warningsCount.WithLabelValues("link").Inc()

	d := Decision{
		Action:    ActionDeleteWarn,
		Violation: ViolationLink,
		Message:   reason,
		Lock:      models.LockLinks,
		Warn:      &res,
	}
	if res.Escalated {
		d.Action = ActionFor(res.Action)
	}
	return d, true
}

// Handle evaluates a message and performs every resulting side effect
func (s *Service) Handle(ctx context.Context, msg Message) []Decision {
	start := s.now()
	defer func() { evaluationDuration.Observe(time.Since(start).Seconds()) }()

	settings := s.settings(ctx, msg.ChatID)

	if msg.Shape.IsService() {
		s.handleService(ctx, msg, settings)
		return nil
	}

	messagesEvaluated.Inc()
	decisions := s.Evaluate(ctx, msg, settings, s.privileged(ctx, msg.ChatID, msg.UserID))

	if len(decisions) > 0 {
		s.deleteMessage(ctx, msg)
	}
	for _, d := range decisions {
		decisionsCount.WithLabelValues(string(d.Action), string(d.Violation)).Inc()
		s.dispatch(ctx, msg, settings, d)
	}
	return decisions
}

// deleteMessage removes the offending message once, whatever the number of decisions
func (s *Service) deleteMessage(ctx context.Context, msg Message) {
	if err := s.messenger.DeleteMessage(ctx, msg.ChatID, msg.MessageID); err != nil {
		s.reportFailure(ctx, msg.ChatID, msg.UserID, ActionDelete, classify(err))
	}
}

func (s *Service) dispatch(ctx context.Context, msg Message, settings models.ChatSettings, d Decision) {
	switch d.Violation {
	case ViolationForceSub:
		s.publish(ctx, msg, AuditForceSubReject, d)
		link, ok := s.gate.InviteLink(ctx, settings)
		if !ok {
			return
		}
		s.notify(ctx, msg.ChatID, forceSubPrompt(msg.SenderName, link), ForceSubPromptTTL)

	case ViolationFlood:
		s.publish(ctx, msg, AuditFloodMute, d)
		if err := s.exec.Apply(ctx, ActionMute, msg.ChatID, msg.UserID, ApplyOptions{Flood: true}); err != nil {
			s.reportFailure(ctx, msg.ChatID, msg.UserID, ActionMute, err)
			return
		}
		s.notify(ctx, msg.ChatID, Outgoing{
			Text: fmt.Sprintf("⚠️ %s fue silenciado 5 minutos por hacer flood.", displayName(msg)),
		}, NoticeTTL)

	case ViolationLink:
		s.publish(ctx, msg, AuditLinkWarning, d)
		text := linkWarningText(msg, settings, d.Warn)
		if d.Action.Punitive() {
			escalationsCount.WithLabelValues(string(d.Action)).Inc()
			s.publish(ctx, msg, AuditEscalation, d)
			if err := s.exec.Apply(ctx, d.Action, msg.ChatID, msg.UserID, ApplyOptions{}); err != nil {
				s.reportFailure(ctx, msg.ChatID, msg.UserID, d.Action, err)
				return
			}
		}
		s.notify(ctx, msg.ChatID, Outgoing{Text: text}, NoticeTTL)

	default:
		s.publish(ctx, msg, AuditLockDelete, d)
		s.notify(ctx, msg.ChatID, Outgoing{
			Text: fmt.Sprintf("⚠️ %s están bloqueados en este chat.", LockLabel(d.Lock)),
		}, NoticeTTL)
	}
}

// notify posts a message and deletes it after ttl
func (s *Service) notify(ctx context.Context, chatID int64, out Outgoing, ttl time.Duration) {
	id, err := s.messenger.SendMessage(ctx, chatID, out)
	if err != nil {
		logger.Warn(fmt.Sprintf("No se pudo enviar el aviso en %d: %v", chatID, err), "Moderation")
		return
	}
	s.DeleteLater(chatID, id, ttl)
}

// DeleteLater schedules the deletion of a bot message
func (s *Service) DeleteLater(chatID, messageID int64, ttl time.Duration) {
	s.sched.Schedule(scheduler.Key("notice", chatID, messageID), ttl, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.messenger.DeleteMessage(ctx, chatID, messageID); err != nil {
			logger.Debug(fmt.Sprintf("Aviso %d en %d ya no existe: %v", messageID, chatID, err), "Moderation")
		}
	})
}

// reportFailure logs a failed action and tells the chat when the bot lacks rights
func (s *Service) reportFailure(ctx context.Context, chatID, userID int64, action Action, err error) {
	s.audit.Publish(ctx, AuditEvent{
		ID: uuid.NewString(), Kind: AuditActionFailed, ChatID: chatID, UserID: userID,
		Action: action, Detail: err.Error(), Time: s.now(),
	})

	if !errors.Is(err, ErrPermissionDenied) {
		logger.Warn(fmt.Sprintf("Acción %s fallida en %d: %v", action, chatID, err), "Moderation")
		return
	}
	logger.Warn(fmt.Sprintf("Sin permisos para %s en %d: %v", action, chatID, err), "Moderation")
	if action == ActionDelete {
		return
	}
	s.notify(ctx, chatID, Outgoing{
		Text: "❌ No tengo permisos suficientes para aplicar esta acción. Hazme administrador con permisos de restricción.",
	}, NoticeTTL)
}

func (s *Service) publish(ctx context.Context, msg Message, kind string, d Decision) {
	s.audit.Publish(ctx, AuditEvent{
		ID:        uuid.NewString(),
		Kind:      kind,
		ChatID:    msg.ChatID,
		UserID:    msg.UserID,
		Action:    d.Action,
		Violation: d.Violation,
		Detail:    d.Message,
		Time:      s.now(),
	})
}

func displayName(msg Message) string {
	if msg.SenderName != "" {
		return msg.SenderName
	}
	return fmt.Sprintf("El usuario %d", msg.UserID)
}

func linkWarningText(msg Message, settings models.ChatSettings, res *WarnResult) string {
	var b strings.Builder
	count, max := 0, settings.MaxWarnings
	if res != nil {
		count, max = res.Count, res.Max
	}
	fmt.Fprintf(&b, "⚠️ Advertencia [%d/%d]\nUsuario: %s\nMotivo: enviar enlaces no permitidos\n\n", count, max, displayName(msg))

	if res != nil && res.Escalated {
		b.WriteString(EscalationText(res.Action, res.Max))
		return b.String()
	}

	if n := len(settings.AllowedDomains); n > 0 {
		shown := settings.AllowedDomains
		if n > 3 {
			shown = shown[:3]
		}
		fmt.Fprintf(&b, "💡 Dominios permitidos: %s", strings.Join(shown, ", "))
		if n > 3 {
			fmt.Fprintf(&b, " y %d más", n-3)
		}
	}
	return b.String()
}

// EscalationText describes the action applied at the warning limit
func EscalationText(action models.WarnAction, max int) string {
	switch action {
	case models.WarnActionKick:
		return fmt.Sprintf("👢 El usuario fue expulsado por alcanzar %d advertencias.", max)
	case models.WarnActionMute:
		return fmt.Sprintf("🔇 El usuario fue silenciado por alcanzar %d advertencias.", max)
	default:
		return fmt.Sprintf("❌ El usuario fue baneado por alcanzar %d advertencias.", max)
	}
}
