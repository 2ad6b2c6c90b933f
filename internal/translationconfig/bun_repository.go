package translationconfig

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-translations/internal/identity"
)

var errDatabaseRequired = errors.New("translationconfig: bun repository requires a database")

// BunRepository persists the singleton settings row.
type BunRepository struct {
	db          *bun.DB
	broadcaster *changeBroadcaster
	clock       func() time.Time
}

// NewBunRepository constructs a Bun-backed repository.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{
		db:          db,
		broadcaster: newChangeBroadcaster(),
		clock:       time.Now,
	}
}

// SettingsModel is the translation_settings table, exported for migrations.
type SettingsModel struct {
	bun.BaseModel `bun:"table:translation_settings,alias:ts"`

	ID                uuid.UUID `bun:",pk,type:uuid"`
	EnforceRequired   bool      `bun:"enforce_required,notnull"`
	FallbackToEnglish bool      `bun:"fallback_to_english,notnull"`
	UpdatedAt         time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func (r *BunRepository) Get(ctx context.Context) (Settings, error) {
	model, err := r.load(ctx)
	if err != nil {
		return Settings{}, err
	}
	return model.settings(), nil
}

func (r *BunRepository) Upsert(ctx context.Context, settings Settings) (Settings, error) {
	existing, err := r.load(ctx)
	created := errors.Is(err, ErrSettingsNotFound)
	if err != nil && !created {
		return Settings{}, err
	}
	if !created && existing.settings() == settings {
		return settings, nil
	}

	model := &SettingsModel{
		ID:                identity.SettingsUUID(),
		EnforceRequired:   settings.EnforceRequired,
		FallbackToEnglish: settings.FallbackToEnglish,
		UpdatedAt:         r.clock().UTC(),
	}
	if created {
		_, err = r.db.NewInsert().Model(model).Exec(ctx)
	} else {
		_, err = r.db.NewUpdate().
			Model(model).
			Column("enforce_required", "fallback_to_english", "updated_at").
			WherePK().
			Exec(ctx)
	}
	if err != nil {
		return Settings{}, err
	}

	changeType := ChangeUpdated
	if created {
		changeType = ChangeCreated
	}
	r.broadcaster.Broadcast(newChangeEvent(changeType, settings))
	return settings, nil
}

func (r *BunRepository) Delete(ctx context.Context) error {
	model, err := r.load(ctx)
	if err != nil {
		return err
	}
	if _, err := r.db.NewDelete().Model(model).WherePK().Exec(ctx); err != nil {
		return err
	}
	r.broadcaster.Broadcast(newChangeEvent(ChangeDeleted, Settings{}))
	return nil
}

// Subscribe delivers change events until the context is cancelled.
func (r *BunRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.broadcaster.Subscribe(ctx)
}

func (r *BunRepository) load(ctx context.Context) (*SettingsModel, error) {
	if r == nil || r.db == nil {
		return nil, errDatabaseRequired
	}
	model := new(SettingsModel)
	err := r.db.NewSelect().Model(model).Where("?TableAlias.id = ?", identity.SettingsUUID()).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}
	return model, nil
}

func (m *SettingsModel) settings() Settings {
	if m == nil {
		return Settings{}
	}
	return Settings{EnforceRequired: m.EnforceRequired, FallbackToEnglish: m.FallbackToEnglish}
}
