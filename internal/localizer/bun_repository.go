package localizer

import (
	"context"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-translations/internal/domain"
)

// BunStore keeps content in SQL tables. Reads by id go through the optional
// cache; searches always hit the database.
type BunStore struct {
	db       *bun.DB
	refs     repository.Repository[*ContentRef]
	products repository.Repository[*Product]
	news     repository.Repository[*NewsItem]
	gallery  repository.Repository[*GalleryItem]
	mayor    repository.Repository[*MayorMessage]
}

var _ Store = (*BunStore)(nil)

// NewBunStore constructs an uncached store.
func NewBunStore(db *bun.DB) *BunStore {
	return NewBunStoreWithCache(db, nil, nil)
}

// NewBunStoreWithCache wraps the per-collection repositories with
// go-repository-cache when both cacheService and serializer are set.
func NewBunStoreWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunStore {
	return &BunStore{
		db:       db,
		refs:     wrapWithCache(NewContentRefRepository(db), cacheService, serializer),
		products: wrapWithCache(NewProductRepository(db), cacheService, serializer),
		news:     wrapWithCache(NewNewsRepository(db), cacheService, serializer),
		gallery:  wrapWithCache(NewGalleryRepository(db), cacheService, serializer),
		mayor:    wrapWithCache(NewMayorMessageRepository(db), cacheService, serializer),
	}
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, serializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || serializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, serializer)
}

func (s *BunStore) Create(ctx context.Context, record Record) error {
	doc := record.document()
	ref := &ContentRef{
		ID:          record.RecordID(),
		ContentType: record.Type(),
		CreatedAt:   doc.CreatedAt,
	}
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(ref).Exec(ctx); err != nil {
			return fmt.Errorf("insert content ref: %w", err)
		}
		if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
			return fmt.Errorf("insert %s: %w", record.Type(), err)
		}
		return nil
	})
}

func (s *BunStore) Ref(ctx context.Context, id uuid.UUID) (*ContentRef, error) {
	ref, err := s.refs.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, refResource, id.String())
	}
	return ref, nil
}

func (s *BunStore) Get(ctx context.Context, ct ContentType, id uuid.UUID) (Record, error) {
	key := id.String()
	var (
		record Record
		err    error
	)
	switch ct {
	case ContentProduct:
		var p *Product
		if p, err = s.products.GetByID(ctx, key); err == nil {
			record = p
		}
	case ContentNews:
		var n *NewsItem
		if n, err = s.news.GetByID(ctx, key); err == nil {
			record = n
		}
	case ContentGallery:
		var g *GalleryItem
		if g, err = s.gallery.GetByID(ctx, key); err == nil {
			record = g
		}
	case ContentMayor:
		var m *MayorMessage
		if m, err = s.mayor.GetByID(ctx, key); err == nil {
			record = m
		}
	default:
		return nil, domain.Validationf("Unsupported content type: %s", ct)
	}
	if err != nil {
		return nil, mapRepositoryError(err, contentResource, key)
	}
	return record, nil
}

func (s *BunStore) Update(ctx context.Context, record Record) error {
	var err error
	switch r := record.(type) {
	case *Product:
		_, err = s.products.Update(ctx, r,
			repository.UpdateByID(r.ID.String()),
			repository.UpdateColumns("name_en", "name_ne", "description_en", "description_ne", "updated_at"),
		)
	case *NewsItem:
		_, err = s.news.Update(ctx, r,
			repository.UpdateByID(r.ID.String()),
			repository.UpdateColumns("headline_en", "headline_ne", "summary_en", "summary_ne", "content_en", "content_ne", "updated_at"),
		)
	case *GalleryItem:
		_, err = s.gallery.Update(ctx, r,
			repository.UpdateByID(r.ID.String()),
			repository.UpdateColumns("title_en", "title_ne", "description_en", "description_ne", "updated_at"),
		)
	case *MayorMessage:
		_, err = s.mayor.Update(ctx, r,
			repository.UpdateByID(r.ID.String()),
			repository.UpdateColumns("heading_en", "heading_ne", "text_en", "text_ne", "updated_at"),
		)
	default:
		return domain.Validationf("Unsupported content record %T", record)
	}
	if err != nil {
		return mapRepositoryError(err, contentResource, record.RecordID().String())
	}
	return nil
}

func (s *BunStore) Search(ctx context.Context, ct ContentType, filter SearchFilter) ([]Record, error) {
	columns := searchColumns(ct, filter.Language)
	switch ct {
	case ContentProduct:
		return searchTable[*Product](ctx, s.db, columns, filter)
	case ContentNews:
		return searchTable[*NewsItem](ctx, s.db, columns, filter)
	case ContentGallery:
		return searchTable[*GalleryItem](ctx, s.db, columns, filter)
	case ContentMayor:
		return searchTable[*MayorMessage](ctx, s.db, columns, filter)
	}
	return nil, domain.Validationf("Unsupported content type: %s", ct)
}

var searchFields = map[ContentType][]string{
	ContentProduct: {"name", "description"},
	ContentNews:    {"headline", "summary"},
	ContentGallery: {"title", "description"},
	ContentMayor:   {"heading", "text"},
}

func searchColumns(ct ContentType, lang domain.Language) []string {
	suffixes := []string{"en", "ne"}
	if lang.Valid() {
		suffixes = []string{string(lang)}
	}
	var columns []string
	for _, field := range searchFields[ct] {
		for _, suffix := range suffixes {
			columns = append(columns, field+"_"+suffix)
		}
	}
	return columns
}

func searchTable[T Record](ctx context.Context, db bun.IDB, columns []string, filter SearchFilter) ([]Record, error) {
	var rows []T
	q := db.NewSelect().Model(&rows)
	if needle := strings.ToLower(filter.Needle); needle != "" {
		pattern := "%" + escapeLike(needle) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			for _, column := range columns {
				q = q.WhereOr(fmt.Sprintf("LOWER(COALESCE(?TableAlias.%s, '')) LIKE ? ESCAPE '\\'", column), pattern)
			}
			return q
		})
	}
	if filter.From != nil {
		q = q.Where("?TableAlias.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("?TableAlias.created_at <= ?", *filter.To)
	}
	if err := q.OrderExpr("?TableAlias.created_at DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("search content: %w", err)
	}
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, row)
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(value string) string {
	return likeEscaper.Replace(value)
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
