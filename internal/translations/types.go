package translations

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-translations/internal/domain"
)

// Translations holds the English and Nepali text of a key. An empty NE means
// the Nepali value is absent.
type Translations struct {
	EN string `bun:"en,notnull" json:"en"`
	NE string `bun:"ne" json:"ne,omitempty"`
}

// Value returns the text for lang. Nepali falls back to English when fallback is set.
func (t Translations) Value(lang domain.Language, fallback bool) string {
	if lang == domain.LanguageNepali {
		if t.NE != "" || !fallback {
			return t.NE
		}
	}
	return t.EN
}

// Complete reports whether both languages are present.
func (t Translations) Complete() bool {
	return t.EN != "" && t.NE != ""
}

// TranslationKey maps a dotted key onto its English and Nepali text.
type TranslationKey struct {
	bun.BaseModel `bun:"table:translation_keys,alias:tk"`

	ID           uuid.UUID        `bun:",pk,type:uuid" json:"id"`
	Key          string           `bun:"translation_key,notnull,unique" json:"key"`
	Namespace    domain.Namespace `bun:"namespace,notnull" json:"namespace"`
	Translations Translations     `bun:"embed:text_" json:"translations"`
	Context      string           `bun:"context" json:"context,omitempty"`
	IsRequired   bool             `bun:"is_required,notnull" json:"isRequired"`
	UpdatedBy    uuid.UUID        `bun:"updated_by,type:uuid" json:"updatedBy"`
	LastUpdated  time.Time        `bun:"last_updated,notnull" json:"lastUpdated"`
	CreatedAt    time.Time        `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

// Completeness is 100 with both languages, 50 with one and 0 with none.
func (k *TranslationKey) Completeness() int {
	if k == nil {
		return 0
	}
	score := 0
	if k.Translations.EN != "" {
		score += 50
	}
	if k.Translations.NE != "" {
		score += 50
	}
	return score
}

// ChangeType tags a history entry with the mutation that produced it.
type ChangeType string

const (
	ChangeCreate ChangeType = "CREATE"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// HistoryEntry is an immutable snapshot of a key after (or, for DELETE,
// right before) a mutation.
type HistoryEntry struct {
	bun.BaseModel `bun:"table:translation_history,alias:th"`

	ID               uuid.UUID        `bun:",pk,type:uuid" json:"id"`
	TranslationKeyID uuid.UUID        `bun:"translation_key_id,notnull,type:uuid" json:"translationKeyId"`
	Key              string           `bun:"translation_key,notnull" json:"key"`
	Namespace        domain.Namespace `bun:"namespace,notnull" json:"namespace"`
	Version          int              `bun:"version,notnull" json:"version"`
	Translations     Translations     `bun:"embed:text_" json:"translations"`
	Context          string           `bun:"context" json:"context,omitempty"`
	IsRequired       bool             `bun:"is_required,notnull" json:"isRequired"`
	ChangeType       ChangeType       `bun:"change_type,notnull" json:"changeType"`
	ChangedBy        uuid.UUID        `bun:"changed_by,type:uuid" json:"changedBy"`
	ChangeReason     string           `bun:"change_reason" json:"changeReason,omitempty"`
	CreatedAt        time.Time        `bun:"created_at,notnull" json:"createdAt"`
}

// TranslationsPatch updates only the languages that are set. An NE pointing
// at an empty string clears the Nepali value.
type TranslationsPatch struct {
	EN *string `json:"en,omitempty"`
	NE *string `json:"ne,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p TranslationsPatch) Empty() bool {
	return p.EN == nil && p.NE == nil
}

// CreateKeyRequest carries the fields for a new translation key.
type CreateKeyRequest struct {
	Key          string       `json:"key"`
	Namespace    string       `json:"namespace"`
	Translations Translations `json:"translations"`
	Context      string       `json:"context,omitempty"`
	IsRequired   bool         `json:"isRequired"`
	Actor        uuid.UUID    `json:"-"`
}

// UpdateKeyRequest merges the provided fields into an existing key.
type UpdateKeyRequest struct {
	Translations TranslationsPatch `json:"translations"`
	Context      *string           `json:"context,omitempty"`
	IsRequired   *bool             `json:"isRequired,omitempty"`
	Reason       string            `json:"reason,omitempty"`
	Actor        uuid.UUID         `json:"-"`
}

// ListKeysRequest pages through keys. Zero Page and Limit use the defaults.
type ListKeysRequest struct {
	Namespace string
	Search    string
	Page      int
	Limit     int
}

// KeyPage is one page of keys ordered by key.
type KeyPage struct {
	Keys       []*TranslationKey `json:"keys"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
}

// CompletenessReport summarises how many keys in scope carry both languages.
type CompletenessReport struct {
	Namespace       string   `json:"namespace,omitempty"`
	TotalKeys       int      `json:"totalKeys"`
	TranslatedKeys  int      `json:"translatedKeys"`
	Completeness    float64  `json:"completeness"`
	MissingKeys     []string `json:"missingKeys"`
	MissingRequired []string `json:"missingRequired"`
}

// RollbackRequest restores a key to the state captured at Version.
type RollbackRequest struct {
	Key     string
	Version int
	Actor   uuid.UUID
	Reason  string
}

// VersionComparison lists the differences between two versions of a key.
type VersionComparison struct {
	Key      string        `json:"key"`
	Version1 *HistoryEntry `json:"version1"`
	Version2 *HistoryEntry `json:"version2"`
	Changes  []string      `json:"changes"`
}
