package localizer

import (
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-translations/internal/domain"
)

// Record is a row of one of the content collections.
type Record interface {
	RecordID() uuid.UUID
	Type() ContentType
	// Fields returns the title, description and body slots. A collection
	// without one of them returns nil in its place.
	Fields() (title, description, body *MultilingualField)
	// Searchable lists the fields matched by text search.
	Searchable() []*MultilingualField
	// Rank is the priority used for search scoring; blank when the collection has none.
	Rank() domain.Priority
	touch(at time.Time)
	document() MultilingualDocument
}

// bodyKey is the JSON field rendered to body_html.
func bodyKey(ct ContentType) string {
	switch ct {
	case ContentNews:
		return "content"
	case ContentMayor:
		return "text"
	}
	return "description"
}

func newRecord(ct ContentType) Record {
	switch ct {
	case ContentProduct:
		return &Product{}
	case ContentNews:
		return &NewsItem{}
	case ContentGallery:
		return &GalleryItem{}
	case ContentMayor:
		return &MayorMessage{}
	}
	return nil
}

func (p *Product) RecordID() uuid.UUID { return p.ID }
func (p *Product) Type() ContentType { return ContentProduct }
func (p *Product) Rank() domain.Priority { return "" }
func (p *Product) touch(at time.Time) { p.UpdatedAt = at }

func (p *Product) Fields() (*MultilingualField, *MultilingualField, *MultilingualField) {
	return &p.Name, &p.Description, nil
}

func (p *Product) Searchable() []*MultilingualField {
	return []*MultilingualField{&p.Name, &p.Description}
}

func (p *Product) document() MultilingualDocument {
	meta := map[string]any{
		"price": p.Price,
		"slug":  p.Slug,
	}
	if p.Unit != "" {
		meta["unit"] = p.Unit
	}
	if p.Category != "" {
		meta["category"] = p.Category
	}
	if p.FarmerID != nil {
		meta["farmerId"] = p.FarmerID.String()
	}
	return MultilingualDocument{
		ID:          p.ID,
		Type:        ContentProduct,
		Title:       p.Name,
		Description: p.Description,
		Tags:        p.Tags,
		Metadata:    meta,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (n *NewsItem) RecordID() uuid.UUID { return n.ID }
func (n *NewsItem) Type() ContentType { return ContentNews }
func (n *NewsItem) Rank() domain.Priority { return n.Priority }
func (n *NewsItem) touch(at time.Time) { n.UpdatedAt = at }

func (n *NewsItem) Fields() (*MultilingualField, *MultilingualField, *MultilingualField) {
	return &n.Headline, &n.Summary, &n.Content
}

func (n *NewsItem) Searchable() []*MultilingualField {
	return []*MultilingualField{&n.Headline, &n.Summary}
}

func (n *NewsItem) document() MultilingualDocument {
	meta := map[string]any{
		"priority": string(n.Priority),
		"slug":     n.Slug,
	}
	if n.PublishedAt != nil {
		meta["publishedAt"] = n.PublishedAt.UTC().Format(time.RFC3339)
	}
	return MultilingualDocument{
		ID:          n.ID,
		Type:        ContentNews,
		Title:       n.Headline,
		Description: n.Summary,
		Body:        n.Content,
		Tags:        n.Tags,
		Metadata:    meta,
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

func (g *GalleryItem) RecordID() uuid.UUID { return g.ID }
func (g *GalleryItem) Type() ContentType { return ContentGallery }
func (g *GalleryItem) Rank() domain.Priority { return "" }
func (g *GalleryItem) touch(at time.Time) { g.UpdatedAt = at }

func (g *GalleryItem) Fields() (*MultilingualField, *MultilingualField, *MultilingualField) {
	return &g.Title, &g.Description, nil
}

func (g *GalleryItem) Searchable() []*MultilingualField {
	return []*MultilingualField{&g.Title, &g.Description}
}

func (g *GalleryItem) document() MultilingualDocument {
	meta := map[string]any{}
	if g.ImageURL != "" {
		meta["imageUrl"] = g.ImageURL
	}
	if g.Category != "" {
		meta["category"] = g.Category
	}
	return MultilingualDocument{
		ID:          g.ID,
		Type:        ContentGallery,
		Title:       g.Title,
		Description: g.Description,
		Tags:        g.Tags,
		Metadata:    meta,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func (m *MayorMessage) RecordID() uuid.UUID { return m.ID }
func (m *MayorMessage) Type() ContentType { return ContentMayor }
func (m *MayorMessage) Rank() domain.Priority { return m.Priority }
func (m *MayorMessage) touch(at time.Time) { m.UpdatedAt = at }

func (m *MayorMessage) Fields() (*MultilingualField, *MultilingualField, *MultilingualField) {
	return &m.Heading, nil, &m.Text
}

func (m *MayorMessage) Searchable() []*MultilingualField {
	return []*MultilingualField{&m.Heading, &m.Text}
}

func (m *MayorMessage) document() MultilingualDocument {
	return MultilingualDocument{
		ID:        m.ID,
		Type:      ContentMayor,
		Title:     m.Heading,
		Body:      m.Text,
		Metadata:  map[string]any{"priority": string(m.Priority)},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// Document projects a record onto the generic shape.
func Document(r Record) MultilingualDocument {
	return r.document()
}

func cloneRecord(r Record) Record {
	switch v := r.(type) {
	case *Product:
		c := *v
		c.Tags = append([]string(nil), v.Tags...)
		return &c
	case *NewsItem:
		c := *v
		c.Tags = append([]string(nil), v.Tags...)
		return &c
	case *GalleryItem:
		c := *v
		c.Tags = append([]string(nil), v.Tags...)
		return &c
	case *MayorMessage:
		c := *v
		return &c
	}
	return r
}
