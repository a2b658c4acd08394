package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/PancyStudios/PancyGuard/pkg/logger"
	"github.com/PancyStudios/PancyGuard/pkg/models"
)

const (
	SettingsCollection = "settings"
	WarningsCollection = "warnings"
)

// SettingsStore persists chat settings in the "settings" collection
type SettingsStore struct {
	dm *DataManager[models.ChatSettings]
}

// NewSettingsStore creates a settings store over db
func NewSettingsStore(db *Database) *SettingsStore {
	return &SettingsStore{dm: NewDataManager[models.ChatSettings](SettingsCollection, db)}
}

func settingsQuery(chatID int64) bson.M {
	return bson.M{"chat_id": chatID}
}

// GetSettings returns the stored settings or the defaults for a new chat
func (s *SettingsStore) GetSettings(ctx context.Context, chatID int64) (models.ChatSettings, error) {
	doc, err := s.dm.Get(ctx, settingsQuery(chatID))
	if err != nil {
		return models.ChatSettings{}, fmt.Errorf("leyendo ajustes de %d: %w", chatID, err)
	}
	if doc == nil {
		return models.DefaultChatSettings(chatID), nil
	}
	settings := doc.Clone()
	settings.Normalize()
	return settings, nil
}

// UpdateSettings stores the full settings document of a chat
func (s *SettingsStore) UpdateSettings(ctx context.Context, chatID int64, settings models.ChatSettings) error {
	settings.ChatID = chatID
	doc := settings.Clone()
	if _, err := s.dm.Set(ctx, settingsQuery(chatID), &doc); err != nil {
		return fmt.Errorf("guardando ajustes de %d: %w", chatID, err)
	}
	return nil
}

// Preload loads every stored chat into the cache so the first message of
// each chat does not wait on the database.
func (s *SettingsStore) Preload(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	docs, err := s.dm.GetAll(ctx, bson.M{}, func(c *models.ChatSettings) bson.M {
		return settingsQuery(c.ChatID)
	})
	if err != nil {
		return err
	}
	logger.System(fmt.Sprintf("Ajustes de %d chats cargados en caché", len(docs)), "DB")
	return nil
}

// WarnStore persists warning records in the "warnings" collection
type WarnStore struct {
	dm *DataManager[models.WarnsDocument]
}

// NewWarnStore creates a warning store over db
func NewWarnStore(db *Database) *WarnStore {
	return &WarnStore{dm: NewDataManager[models.WarnsDocument](WarningsCollection, db)}
}

func warnQuery(chatID, userID int64) bson.M {
	return bson.M{"chat_id": chatID, "user_id": userID}
}

// LoadWarnings returns a copy of the user's record, or nil when there is none
func (w *WarnStore) LoadWarnings(ctx context.Context, chatID, userID int64) (*models.WarnsDocument, error) {
	doc, err := w.dm.Get(ctx, warnQuery(chatID, userID))
	if err != nil || doc == nil {
		return nil, err
	}
	c := *doc
	c.Warns = append([]models.Warn{}, doc.Warns...)
	return &c, nil
}

// SaveWarnings upserts a warning record
func (w *WarnStore) SaveWarnings(ctx context.Context, doc *models.WarnsDocument) error {
	c := *doc
	c.Warns = append([]models.Warn{}, doc.Warns...)
	_, err := w.dm.Set(ctx, warnQuery(doc.ChatID, doc.UserID), &c)
	return err
}

// DeleteWarnings removes a user's record
func (w *WarnStore) DeleteWarnings(ctx context.Context, chatID, userID int64) error {
	return w.dm.Delete(ctx, warnQuery(chatID, userID))
}

// ChatWarnings lists every warned user of a chat
func (w *WarnStore) ChatWarnings(ctx context.Context, chatID int64) ([]*models.WarnsDocument, error) {
	return w.dm.GetAll(ctx, bson.M{"chat_id": chatID}, func(d *models.WarnsDocument) bson.M {
		return warnQuery(d.ChatID, d.UserID)
	})
}
