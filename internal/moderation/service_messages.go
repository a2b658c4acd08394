package moderation

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/PancyGuard/pkg/logger"
	"github.com/PancyStudios/PancyGuard/pkg/models"
	"github.com/PancyStudios/PancyGuard/pkg/scheduler"
)

// PinJobPrefix is the scheduler key prefix of a chat's pending pin deletions
func PinJobPrefix(chatID int64) string {
	return scheduler.Key("pin", chatID) + ":"
}

// handleService cleans up join and pin notifications when the chat asks for it
func (s *Service) handleService(ctx context.Context, msg Message, settings models.ChatSettings) {
	switch {
	case msg.Shape.Has(ShapeServiceJoin) && settings.AutoDeleteJoins:
		if err := s.messenger.DeleteMessage(ctx, msg.ChatID, msg.MessageID); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo borrar el aviso de entrada en %d: %v", msg.ChatID, err), "Moderation")
			return
		}
		logger.Debug(fmt.Sprintf("Aviso de entrada borrado en %d", msg.ChatID), "Moderation")

	case msg.Shape.Has(ShapeServicePin) && settings.AutoDeletePins:
		if err := s.messenger.DeleteMessage(ctx, msg.ChatID, msg.MessageID); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo borrar el aviso de fijado en %d: %v", msg.ChatID, err), "Moderation")
			return
		}
		if settings.PinDeleteDelaySeconds <= 0 || msg.PinnedMessageID == 0 {
			return
		}
		s.schedulePinDeletion(msg.ChatID, msg.PinnedMessageID, time.Duration(settings.PinDeleteDelaySeconds)*time.Second)
	}
}

func (s *Service) schedulePinDeletion(chatID, pinnedID int64, delay time.Duration) {
	s.sched.Schedule(PinJobPrefix(chatID)+fmt.Sprint(pinnedID), delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.messenger.DeleteMessage(ctx, chatID, pinnedID); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo borrar el mensaje fijado %d en %d: %v", pinnedID, chatID, err), "Moderation")
		}
		if err := s.messenger.UnpinMessage(ctx, chatID, pinnedID); err != nil {
			logger.Debug(fmt.Sprintf("No se pudo desfijar %d en %d: %v", pinnedID, chatID, err), "Moderation")
			return
		}
		logger.Info(fmt.Sprintf("Mensaje fijado %d borrado en %d", pinnedID, chatID), "Moderation")
	})
}
