package moderation

import (
	"context"
	"sync"

	"github.com/PancyStudios/PancyGuard/pkg/models"
)

// MemorySettingsStore keeps chat settings in process memory
type MemorySettingsStore struct {
	mu       sync.RWMutex
	settings map[int64]models.ChatSettings
}

// NewMemorySettingsStore creates an empty store
func NewMemorySettingsStore() *MemorySettingsStore {
	return &MemorySettingsStore{settings: make(map[int64]models.ChatSettings)}
}

// GetSettings implements ConfigStore
func (m *MemorySettingsStore) GetSettings(_ context.Context, chatID int64) (models.ChatSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.settings[chatID]
	if !ok {
		return models.DefaultChatSettings(chatID), nil
	}
	return s.Clone(), nil
}

// UpdateSettings implements ConfigStore
func (m *MemorySettingsStore) UpdateSettings(_ context.Context, chatID int64, s models.ChatSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s.ChatID = chatID
	m.settings[chatID] = s.Clone()
	return nil
}

// MemoryWarnStore keeps warning records in process memory
type MemoryWarnStore struct {
	mu   sync.Mutex
	docs map[ledgerKey]models.WarnsDocument
}

// NewMemoryWarnStore creates an empty store
func NewMemoryWarnStore() *MemoryWarnStore {
	return &MemoryWarnStore{docs: make(map[ledgerKey]models.WarnsDocument)}
}

// LoadWarnings implements WarnStore
func (m *MemoryWarnStore) LoadWarnings(_ context.Context, chatID, userID int64) (*models.WarnsDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[ledgerKey{chatID, userID}]
	if !ok {
		return nil, nil
	}
	doc.Warns = append([]models.Warn{}, doc.Warns...)
	return &doc, nil
}

// SaveWarnings implements WarnStore
func (m *MemoryWarnStore) SaveWarnings(_ context.Context, doc *models.WarnsDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := *doc
	c.Warns = append([]models.Warn{}, doc.Warns...)
	m.docs[ledgerKey{doc.ChatID, doc.UserID}] = c
	return nil
}

// DeleteWarnings implements WarnStore
func (m *MemoryWarnStore) DeleteWarnings(_ context.Context, chatID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.docs, ledgerKey{chatID, userID})
	return nil
}
