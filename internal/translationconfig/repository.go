package translationconfig

import (
	"context"
	"errors"
)

// ErrSettingsNotFound indicates that enforcement settings have not been stored yet.
var ErrSettingsNotFound = errors.New("translationconfig: settings not found")

// Settings toggle how strictly the translation service treats required keys.
type Settings struct {
	// EnforceRequired rejects required keys without a Nepali value. When off,
	// isRequired only feeds completeness reports and import warnings.
	EnforceRequired bool `json:"enforceRequired"`
	// FallbackToEnglish serves the English value when Nepali is missing.
	FallbackToEnglish bool `json:"fallbackToEnglish"`
}

// DefaultSettings keeps isRequired advisory and enables the English fallback.
func DefaultSettings() Settings {
	return Settings{FallbackToEnglish: true}
}

// Repository persists settings and emits change notifications.
type Repository interface {
	Get(ctx context.Context) (Settings, error)
	Upsert(ctx context.Context, settings Settings) (Settings, error)
	Delete(ctx context.Context) error
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}

// ChangeType enumerates settings change events.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// ChangeEvent reports a settings mutation.
type ChangeEvent struct {
	Type     ChangeType
	Settings Settings
}

func newChangeEvent(changeType ChangeType, settings Settings) ChangeEvent {
	return ChangeEvent{Type: changeType, Settings: settings}
}
