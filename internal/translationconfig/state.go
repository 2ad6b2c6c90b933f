package translationconfig

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/goliatone/go-translations/internal/logging"
	"github.com/goliatone/go-translations/pkg/interfaces"
)

// State is the live, concurrency-safe view of the enforcement settings.
type State struct {
	enforce  atomic.Bool
	fallback atomic.Bool
}

// NewState seeds a state with settings.
func NewState(settings Settings) *State {
	st := &State{}
	st.Apply(settings)
	return st
}

// EnforceRequired reports whether required keys must carry Nepali text.
func (s *State) EnforceRequired() bool {
	if s == nil {
		return false
	}
	return s.enforce.Load()
}

// FallbackToEnglish reports whether missing Nepali values fall back to English.
// A nil state keeps the fallback on.
func (s *State) FallbackToEnglish() bool {
	if s == nil {
		return true
	}
	return s.fallback.Load()
}

// Snapshot returns the current settings.
func (s *State) Snapshot() Settings {
	return Settings{EnforceRequired: s.EnforceRequired(), FallbackToEnglish: s.FallbackToEnglish()}
}

// Apply replaces both toggles.
func (s *State) Apply(settings Settings) {
	if s == nil {
		return
	}
	s.enforce.Store(settings.EnforceRequired)
	s.fallback.Store(settings.FallbackToEnglish)
}

// Load seeds state from repo. Missing settings resolve to DefaultSettings.
func Load(ctx context.Context, repo Repository, state *State) error {
	if repo == nil || state == nil {
		return nil
	}
	settings, err := repo.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrSettingsNotFound) {
			state.Apply(DefaultSettings())
			return nil
		}
		return err
	}
	state.Apply(settings)
	return nil
}

// Watch applies change events from repo to state until ctx is cancelled.
// A deleted settings row restores the defaults.
func Watch(ctx context.Context, repo Repository, state *State, logger interfaces.Logger) error {
	if repo == nil || state == nil {
		return nil
	}
	events, err := repo.Subscribe(ctx)
	if err != nil {
		return err
	}
	logger = logging.OrNoOp(logger)
	go func() {
		for evt := range events {
			settings := evt.Settings
			if evt.Type == ChangeDeleted {
				settings = DefaultSettings()
			}
			state.Apply(settings)
			logger.Info("translation.settings.applied",
				"change", string(evt.Type),
				"enforce_required", settings.EnforceRequired,
				"fallback_to_english", settings.FallbackToEnglish,
			)
		}
	}()
	return nil
}
