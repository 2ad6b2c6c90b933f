package translations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-translations/internal/domain"
)

const (
	keyResource     = "translation key"
	versionResource = "translation version"
)

var errDatabaseRequired = errors.New("translations: bun store requires a database")

// BunStore persists keys and history through bun.
type BunStore struct {
	db      *bun.DB
	keys    *bunKeyRepository
	history *bunHistoryRepository
}

var _ Store = (*BunStore)(nil)

// NewBunStore constructs a store over db.
func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{
		db:      db,
		keys:    &bunKeyRepository{db: db, repo: NewTranslationKeyRepository(db)},
		history: &bunHistoryRepository{repo: NewHistoryRepository(db)},
	}
}

func (s *BunStore) Keys() KeyRepository         { return s.keys }
func (s *BunStore) History() HistoryRepository { return s.history }

// Apply writes the key mutation and its history entry in one transaction. The
// unique (translation_key_id, version) index rejects a concurrent writer that
// computed the same version.
func (s *BunStore) Apply(ctx context.Context, change Change) (*HistoryEntry, error) {
	if s == nil || s.db == nil {
		return nil, errDatabaseRequired
	}
	if change.Key == nil {
		return nil, domain.Validationf("translation key is required")
	}

	var entry *HistoryEntry
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record := change.Key
		switch change.Type {
		case ChangeCreate:
			exists, err := tx.NewSelect().
				Model((*TranslationKey)(nil)).
				Where("?TableAlias.translation_key = ?", record.Key).
				Exists(ctx)
			if err != nil {
				return fmt.Errorf("check translation key: %w", err)
			}
			if exists {
				return domain.Conflict(keyResource, record.Key)
			}
			if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
				return fmt.Errorf("insert translation key: %w", err)
			}
		case ChangeUpdate:
			res, err := tx.NewUpdate().
				Model(record).
				Column("namespace", "text_en", "text_ne", "context", "is_required", "updated_by", "last_updated").
				WherePK().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("update translation key: %w", err)
			}
			if affected, _ := res.RowsAffected(); affected == 0 {
				return domain.NotFound(keyResource, record.Key)
			}
		case ChangeDelete:
		default:
			return domain.Validationf("unsupported change type %q", change.Type)
		}

		version, err := nextVersion(ctx, tx, record.ID)
		if err != nil {
			return err
		}
		entry = change.entry(version)
		if _, err := tx.NewInsert().Model(entry).Exec(ctx); err != nil {
			return fmt.Errorf("insert translation history: %w", err)
		}

		if change.Type == ChangeDelete {
			res, err := tx.NewDelete().
				Model((*TranslationKey)(nil)).
				Where("?TableAlias.id = ?", record.ID).
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("delete translation key: %w", err)
			}
			if affected, _ := res.RowsAffected(); affected == 0 {
				return domain.NotFound(keyResource, record.Key)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func nextVersion(ctx context.Context, db bun.IDB, keyID uuid.UUID) (int, error) {
	var current int
	err := db.NewSelect().
		Model((*HistoryEntry)(nil)).
		ColumnExpr("COALESCE(MAX(?TableAlias.version), 0)").
		Where("?TableAlias.translation_key_id = ?", keyID).
		Scan(ctx, &current)
	if err != nil {
		return 0, fmt.Errorf("resolve next history version: %w", err)
	}
	return current + 1, nil
}

type bunKeyRepository struct {
	db   *bun.DB
	repo repository.Repository[*TranslationKey]
}

func (r *bunKeyRepository) GetByKey(ctx context.Context, key string) (*TranslationKey, error) {
	record, err := r.repo.GetByIdentifier(ctx, key)
	if err != nil {
		return nil, mapRepositoryError(err, keyResource, key)
	}
	return record, nil
}

func (r *bunKeyRepository) List(ctx context.Context, filter KeyFilter) ([]*TranslationKey, int, error) {
	scope := keyScope(filter)
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return paginate(scope(q).OrderExpr("?TableAlias.translation_key ASC"), filter.Limit, filter.Offset)
	}))
	if err != nil {
		return nil, 0, fmt.Errorf("list translation keys: %w", err)
	}

	total, err := scope(r.db.NewSelect().Model((*TranslationKey)(nil))).Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count translation keys: %w", err)
	}
	return records, total, nil
}

func paginate(q *bun.SelectQuery, limit, offset int) *bun.SelectQuery {
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	return q
}

func keyScope(filter KeyFilter) func(*bun.SelectQuery) *bun.SelectQuery {
	namespace := strings.TrimSpace(filter.Namespace)
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if namespace != "" {
			q = q.Where("?TableAlias.namespace = ?", namespace)
		}
		if search != "" {
			pattern := "%" + escapeLike(search) + "%"
			q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.
					Where("LOWER(?TableAlias.translation_key) LIKE ? ESCAPE '\\'", pattern).
					WhereOr("LOWER(?TableAlias.text_en) LIKE ? ESCAPE '\\'", pattern).
					WhereOr("LOWER(COALESCE(?TableAlias.text_ne, '')) LIKE ? ESCAPE '\\'", pattern).
					WhereOr("LOWER(COALESCE(?TableAlias.context, '')) LIKE ? ESCAPE '\\'", pattern)
			})
		}
		return q
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(value string) string {
	return likeEscaper.Replace(value)
}

type bunHistoryRepository struct {
	repo repository.Repository[*HistoryEntry]
}

func (r *bunHistoryRepository) GetVersion(ctx context.Context, keyID uuid.UUID, version int) (*HistoryEntry, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("?TableAlias.translation_key_id = ?", keyID).
				Where("?TableAlias.version = ?", version)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, fmt.Errorf("get translation version: %w", err)
	}
	if len(records) == 0 {
		return nil, domain.NotFound(versionResource, fmt.Sprintf("%s@%d", keyID, version))
	}
	return records[0], nil
}

func (r *bunHistoryRepository) ListByKey(ctx context.Context, keyID uuid.UUID, limit int) ([]*HistoryEntry, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		q = q.
			Where("?TableAlias.translation_key_id = ?", keyID).
			OrderExpr("?TableAlias.version DESC")
		return paginate(q, limit, 0)
	}))
	if err != nil {
		return nil, fmt.Errorf("list translation history: %w", err)
	}
	return records, nil
}

func (r *bunHistoryRepository) ListRecent(ctx context.Context, namespace string, limit int) ([]*HistoryEntry, error) {
	namespace = strings.TrimSpace(namespace)
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		if namespace != "" {
			q = q.Where("?TableAlias.namespace = ?", namespace)
		}
		return paginate(q.OrderExpr("?TableAlias.created_at DESC, ?TableAlias.version DESC"), limit, 0)
	}))
	if err != nil {
		return nil, fmt.Errorf("list recent translation changes: %w", err)
	}
	return records, nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return domain.NotFound(resource, key)
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
