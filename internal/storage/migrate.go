package storage

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-translations/internal/audit"
	"github.com/goliatone/go-translations/internal/localizer"
	"github.com/goliatone/go-translations/internal/translationconfig"
	"github.com/goliatone/go-translations/internal/translations"
)

type index struct {
	name    string
	model   any
	columns []string
	unique  bool
}

func models() []any {
	return []any{
		(*translations.TranslationKey)(nil),
		(*translations.HistoryEntry)(nil),
		(*translationconfig.SettingsModel)(nil),
		(*audit.EventModel)(nil),
		(*localizer.ContentRef)(nil),
		(*localizer.Product)(nil),
		(*localizer.NewsItem)(nil),
		(*localizer.GalleryItem)(nil),
		(*localizer.MayorMessage)(nil),
	}
}

func indexes() []index {
	return []index{
		{name: "translation_history_key_version_uidx", model: (*translations.HistoryEntry)(nil), columns: []string{"translation_key_id", "version"}, unique: true},
		{name: "translation_history_created_idx", model: (*translations.HistoryEntry)(nil), columns: []string{"created_at"}},
		{name: "translation_keys_namespace_idx", model: (*translations.TranslationKey)(nil), columns: []string{"namespace"}},
		{name: "content_refs_type_idx", model: (*localizer.ContentRef)(nil), columns: []string{"content_type"}},
	}
}

// Migrate creates every table and index the service needs. It is safe to run
// repeatedly.
func Migrate(ctx context.Context, db *bun.DB) error {
	for _, model := range models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table for %T: %w", model, err)
		}
	}
	for _, idx := range indexes() {
		q := db.NewCreateIndex().Model(idx.model).Index(idx.name).Column(idx.columns...).IfNotExists()
		if idx.unique {
			q = q.Unique()
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("storage: create index %s: %w", idx.name, err)
		}
	}
	return nil
}
