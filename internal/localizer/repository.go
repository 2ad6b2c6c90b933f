package localizer

import (
	"context"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-translations/internal/domain"
)

// SearchFilter narrows a collection scan. Needle is matched case-insensitively
// against the record's searchable fields; a blank Language matches both.
type SearchFilter struct {
	Needle   string
	Language domain.Language
	From     *time.Time
	To       *time.Time
}

// Store persists the content collections and their references.
type Store interface {
	// Create writes the record and its content reference as one unit.
	Create(ctx context.Context, record Record) error
	Ref(ctx context.Context, id uuid.UUID) (*ContentRef, error)
	Get(ctx context.Context, ct ContentType, id uuid.UUID) (Record, error)
	Update(ctx context.Context, record Record) error
	Search(ctx context.Context, ct ContentType, filter SearchFilter) ([]Record, error)
}

const (
	contentResource = "content"
	refResource     = "content reference"
)

func inRange(at time.Time, filter SearchFilter) bool {
	if filter.From != nil && at.Before(*filter.From) {
		return false
	}
	if filter.To != nil && at.After(*filter.To) {
		return false
	}
	return true
}

// NewContentRefRepository wires go-repository-bun handlers for content refs.
func NewContentRefRepository(db *bun.DB) repository.Repository[*ContentRef] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*ContentRef]{
		NewRecord: func() *ContentRef { return &ContentRef{} },
		GetID: func(ref *ContentRef) uuid.UUID {
			return ref.ID
		},
		SetID: func(ref *ContentRef, id uuid.UUID) {
			ref.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(ref *ContentRef) string {
			return ref.ID.String()
		},
	})
}

// NewProductRepository wires go-repository-bun handlers for products.
func NewProductRepository(db *bun.DB) repository.Repository[*Product] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Product]{
		NewRecord: func() *Product { return &Product{} },
		GetID: func(p *Product) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Product, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(p *Product) string {
			return p.Slug
		},
	})
}

// NewNewsRepository wires go-repository-bun handlers for news items.
func NewNewsRepository(db *bun.DB) repository.Repository[*NewsItem] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*NewsItem]{
		NewRecord: func() *NewsItem { return &NewsItem{} },
		GetID: func(n *NewsItem) uuid.UUID {
			return n.ID
		},
		SetID: func(n *NewsItem, id uuid.UUID) {
			n.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(n *NewsItem) string {
			return n.Slug
		},
	})
}

// NewGalleryRepository wires go-repository-bun handlers for gallery items.
func NewGalleryRepository(db *bun.DB) repository.Repository[*GalleryItem] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*GalleryItem]{
		NewRecord: func() *GalleryItem { return &GalleryItem{} },
		GetID: func(g *GalleryItem) uuid.UUID {
			return g.ID
		},
		SetID: func(g *GalleryItem, id uuid.UUID) {
			g.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(g *GalleryItem) string {
			return g.ID.String()
		},
	})
}

// NewMayorMessageRepository wires go-repository-bun handlers for mayor messages.
func NewMayorMessageRepository(db *bun.DB) repository.Repository[*MayorMessage] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*MayorMessage]{
		NewRecord: func() *MayorMessage { return &MayorMessage{} },
		GetID: func(m *MayorMessage) uuid.UUID {
			return m.ID
		},
		SetID: func(m *MayorMessage, id uuid.UUID) {
			m.ID = id
		},
		GetIdentifier: func() string {
			return "id"
		},
		GetIdentifierValue: func(m *MayorMessage) string {
			return m.ID.String()
		},
	})
}
