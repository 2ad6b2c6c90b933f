package settings

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-translations/internal/audit"
	"github.com/goliatone/go-translations/internal/translationconfig"
)

// ErrRepositoryRequired indicates the service was constructed without a repository.
var ErrRepositoryRequired = errors.New("adminsettings: repository is required")

const entityType = "translation_settings"

// Option mutates the service configuration.
type Option func(*Service)

// WithClock overrides the clock used for audit timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithState keeps a live state in step with applied settings, so callers see
// the change before the repository broadcast is consumed.
func WithState(state *translationconfig.State) Option {
	return func(s *Service) {
		s.state = state
	}
}

// Service manages the enforcement settings and audits every change.
type Service struct {
	repo  translationconfig.Repository
	audit audit.Recorder
	state *translationconfig.State
	clock func() time.Time
}

// NewService constructs a settings admin service.
func NewService(repo translationconfig.Repository, recorder audit.Recorder, opts ...Option) *Service {
	svc := &Service{
		repo:  repo,
		audit: recorder,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// GetSettings returns the stored settings, or the defaults when none exist.
func (s *Service) GetSettings(ctx context.Context) (translationconfig.Settings, error) {
	if s.repo == nil {
		return translationconfig.Settings{}, ErrRepositoryRequired
	}
	settings, err := s.repo.Get(ctx)
	if errors.Is(err, translationconfig.ErrSettingsNotFound) {
		return translationconfig.DefaultSettings(), nil
	}
	return settings, err
}

// ApplySettings stores settings and records an audit entry attributed to actor.
func (s *Service) ApplySettings(ctx context.Context, settings translationconfig.Settings, actor string) (translationconfig.Settings, error) {
	if s.repo == nil {
		return translationconfig.Settings{}, ErrRepositoryRequired
	}

	action := "translation_settings_updated"
	if _, err := s.repo.Get(ctx); err != nil {
		if !errors.Is(err, translationconfig.ErrSettingsNotFound) {
			return translationconfig.Settings{}, err
		}
		action = "translation_settings_created"
	}

	stored, err := s.repo.Upsert(ctx, settings)
	if err != nil {
		return translationconfig.Settings{}, err
	}
	s.state.Apply(stored)

	s.recordAudit(ctx, audit.Event{
		EntityType: entityType,
		EntityID:   "global",
		Action:     action,
		ActorID:    actor,
		Metadata: map[string]any{
			"enforce_required":    stored.EnforceRequired,
			"fallback_to_english": stored.FallbackToEnglish,
		},
	})
	return stored, nil
}

// Reset removes the stored settings, restoring the defaults.
func (s *Service) Reset(ctx context.Context, actor string) error {
	if s.repo == nil {
		return ErrRepositoryRequired
	}
	if err := s.repo.Delete(ctx); err != nil {
		return err
	}
	s.state.Apply(translationconfig.DefaultSettings())

	s.recordAudit(ctx, audit.Event{
		EntityType: entityType,
		EntityID:   "global",
		Action:     "translation_settings_deleted",
		ActorID:    actor,
	})
	return nil
}

func (s *Service) recordAudit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.clock()
	}
	_ = s.audit.Record(ctx, event)
}
