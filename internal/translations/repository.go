package translations

import (
	"context"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// KeyFilter narrows key listings. Limit zero returns every match.
type KeyFilter struct {
	Namespace string
	Search    string
	Limit     int
	Offset    int
}

// KeyRepository reads translation keys.
type KeyRepository interface {
	GetByKey(ctx context.Context, key string) (*TranslationKey, error)
	List(ctx context.Context, filter KeyFilter) ([]*TranslationKey, int, error)
}

// HistoryRepository reads history entries.
type HistoryRepository interface {
	GetVersion(ctx context.Context, keyID uuid.UUID, version int) (*HistoryEntry, error)
	ListByKey(ctx context.Context, keyID uuid.UUID, limit int) ([]*HistoryEntry, error)
	ListRecent(ctx context.Context, namespace string, limit int) ([]*HistoryEntry, error)
}

// Change is a key mutation together with the audit data of its history entry.
type Change struct {
	Type      ChangeType
	Key       *TranslationKey
	EntryID   uuid.UUID
	ChangedBy uuid.UUID
	Reason    string
	At        time.Time
}

// Store persists keys and their history. Apply commits the key mutation and
// its history entry as one unit and assigns the next version for the key.
type Store interface {
	Keys() KeyRepository
	History() HistoryRepository
	Apply(ctx context.Context, change Change) (*HistoryEntry, error)
}

func (c Change) entry(version int) *HistoryEntry {
	return &HistoryEntry{
		ID:               c.EntryID,
		TranslationKeyID: c.Key.ID,
		Key:              c.Key.Key,
		Namespace:        c.Key.Namespace,
		Version:          version,
		Translations:     c.Key.Translations,
		Context:          c.Key.Context,
		IsRequired:       c.Key.IsRequired,
		ChangeType:       c.Type,
		ChangedBy:        c.ChangedBy,
		ChangeReason:     c.Reason,
		CreatedAt:        c.At,
	}
}

// NewTranslationKeyRepository wires go-repository-bun handlers for translation keys.
func NewTranslationKeyRepository(db *bun.DB) repository.Repository[*TranslationKey] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*TranslationKey]{
		NewRecord: func() *TranslationKey { return &TranslationKey{} },
		GetID: func(record *TranslationKey) uuid.UUID {
			return record.ID
		},
		SetID: func(record *TranslationKey, id uuid.UUID) {
			record.ID = id
		},
		GetIdentifier: func() string {
			return "translation_key"
		},
		GetIdentifierValue: func(record *TranslationKey) string {
			return record.Key
		},
	})
}

// NewHistoryRepository wires go-repository-bun handlers for history entries.
func NewHistoryRepository(db *bun.DB) repository.Repository[*HistoryEntry] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*HistoryEntry]{
		NewRecord: func() *HistoryEntry { return &HistoryEntry{} },
		GetID: func(record *HistoryEntry) uuid.UUID {
			return record.ID
		},
		SetID: func(record *HistoryEntry, id uuid.UUID) {
			record.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(record *HistoryEntry) string {
			return record.ID.String()
		},
	})
}
