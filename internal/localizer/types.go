package localizer

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-translations/internal/domain"
)

// ContentType tags a content collection.
type ContentType string

const (
	ContentProduct ContentType = "product"
	ContentNews    ContentType = "news"
	ContentGallery ContentType = "gallery"
	ContentMayor   ContentType = "mayor"
)

// ContentTypes lists the supported collections in search order.
func ContentTypes() []ContentType {
	return []ContentType{ContentProduct, ContentNews, ContentGallery, ContentMayor}
}

// ParseContentType validates a collection name.
func ParseContentType(value string) (ContentType, error) {
	ct := ContentType(strings.ToLower(strings.TrimSpace(value)))
	switch ct {
	case ContentProduct, ContentNews, ContentGallery, ContentMayor:
		return ct, nil
	}
	return "", domain.Validationf("Unsupported content type: %s", value)
}

// MultilingualField holds one piece of text in both languages. EN is the fallback.
type MultilingualField struct {
	EN string `bun:"en,notnull" json:"en"`
	NE string `bun:"ne" json:"ne,omitempty"`
}

// Value picks the text for lang, falling back to English when Nepali is empty.
func (f MultilingualField) Value(lang domain.Language) string {
	if lang == domain.LanguageNepali && f.NE != "" {
		return f.NE
	}
	return f.EN
}

func (f MultilingualField) contains(needle string, lang domain.Language) bool {
	switch lang {
	case domain.LanguageEnglish:
		return containsFold(f.EN, needle)
	case domain.LanguageNepali:
		return containsFold(f.NE, needle)
	}
	return containsFold(f.EN, needle) || containsFold(f.NE, needle)
}

func containsFold(s, needle string) bool {
	return strings.Contains(strings.ToLower(s), needle)
}

// ContentRef resolves a content id to its collection.
type ContentRef struct {
	bun.BaseModel `bun:"table:content_refs,alias:cr"`

	ID          uuid.UUID   `bun:",pk,type:uuid" json:"id"`
	ContentType ContentType `bun:"content_type,notnull" json:"type"`
	CreatedAt   time.Time   `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// Product is a marketplace listing.
type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID          uuid.UUID         `bun:",pk,type:uuid" json:"id"`
	Name        MultilingualField `bun:"embed:name_" json:"name"`
	Description MultilingualField `bun:"embed:description_" json:"description"`
	Tags        []string          `bun:"tags,type:jsonb" json:"tags,omitempty"`
	Price       float64           `bun:"price" json:"price"`
	Unit        string            `bun:"unit" json:"unit,omitempty"`
	Category    string            `bun:"category" json:"category,omitempty"`
	FarmerID    *uuid.UUID        `bun:"farmer_id,type:uuid" json:"farmerId,omitempty"`
	Slug        string            `bun:"slug" json:"slug"`
	CreatedAt   time.Time         `bun:",nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt   time.Time         `bun:",nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

// NewsItem is a published news article.
type NewsItem struct {
	bun.BaseModel `bun:"table:news_items,alias:n"`

	ID          uuid.UUID         `bun:",pk,type:uuid" json:"id"`
	Headline    MultilingualField `bun:"embed:headline_" json:"headline"`
	Summary     MultilingualField `bun:"embed:summary_" json:"summary"`
	Content     MultilingualField `bun:"embed:content_" json:"content"`
	Tags        []string          `bun:"tags,type:jsonb" json:"tags,omitempty"`
	Priority    domain.Priority   `bun:"priority,notnull" json:"priority"`
	Slug        string            `bun:"slug" json:"slug"`
	PublishedAt *time.Time        `bun:"published_at,nullzero" json:"publishedAt,omitempty"`
	CreatedAt   time.Time         `bun:",nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt   time.Time         `bun:",nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

// GalleryItem is a captioned image.
type GalleryItem struct {
	bun.BaseModel `bun:"table:gallery_items,alias:g"`

	ID          uuid.UUID         `bun:",pk,type:uuid" json:"id"`
	Title       MultilingualField `bun:"embed:title_" json:"title"`
	Description MultilingualField `bun:"embed:description_" json:"description"`
	ImageURL    string            `bun:"image_url" json:"imageUrl,omitempty"`
	Category    string            `bun:"category" json:"category,omitempty"`
	Tags        []string          `bun:"tags,type:jsonb" json:"tags,omitempty"`
	CreatedAt   time.Time         `bun:",nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt   time.Time         `bun:",nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

// MayorMessage is a message from the mayor's office.
type MayorMessage struct {
	bun.BaseModel `bun:"table:mayor_messages,alias:mm"`

	ID        uuid.UUID         `bun:",pk,type:uuid" json:"id"`
	Heading   MultilingualField `bun:"embed:heading_" json:"heading"`
	Text      MultilingualField `bun:"embed:text_" json:"text"`
	Priority  domain.Priority   `bun:"priority,notnull" json:"priority"`
	CreatedAt time.Time         `bun:",nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time         `bun:",nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

// MultilingualDocument is the collection-independent projection of a record.
type MultilingualDocument struct {
	ID          uuid.UUID         `json:"id"`
	Type        ContentType       `json:"type"`
	Title       MultilingualField `json:"title"`
	Description MultilingualField `json:"description"`
	Body        MultilingualField `json:"body"`
	Tags        []string          `json:"tags,omitempty"`
	Metadata    map[string]any    `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// LanguageFields is the text of a content request in one language.
type LanguageFields struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Body        string   `json:"body,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ContentMetadata carries the collection and its non-text attributes.
type ContentMetadata struct {
	Type        ContentType     `json:"type"`
	Priority    domain.Priority `json:"priority,omitempty"`
	Category    string          `json:"category,omitempty"`
	Price       float64         `json:"price,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	FarmerID    *uuid.UUID      `json:"farmerId,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	PublishedAt *time.Time      `json:"publishedAt,omitempty"`
}

// ContentRequest creates a record. NE is optional.
type ContentRequest struct {
	EN       LanguageFields  `json:"en"`
	NE       *LanguageFields `json:"ne,omitempty"`
	Metadata ContentMetadata `json:"metadata"`
}

// FieldsPatch lists the text fields to change in one language.
type FieldsPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Body        *string `json:"body,omitempty"`
}

func (p *FieldsPatch) empty() bool {
	return p == nil || (p.Title == nil && p.Description == nil && p.Body == nil)
}

// ContentPatch is a partial update of a record's text.
type ContentPatch struct {
	EN *FieldsPatch `json:"en,omitempty"`
	NE *FieldsPatch `json:"ne,omitempty"`
}

// SearchQuery filters SearchMultilingualContent.
type SearchQuery struct {
	Query       string          `json:"query"`
	Language    domain.Language `json:"language,omitempty"`
	ContentType ContentType     `json:"contentType,omitempty"`
	DateFrom    *time.Time      `json:"dateFrom,omitempty"`
	DateTo      *time.Time      `json:"dateTo,omitempty"`
	Limit       int             `json:"limit,omitempty"`
}

// SearchHit is one scored match.
type SearchHit struct {
	Document MultilingualDocument `json:"document"`
	Score    float64              `json:"score"`
}

// SearchResults is the merged, ranked result list.
type SearchResults struct {
	Query   string      `json:"query"`
	Results []SearchHit `json:"results"`
	Total   int         `json:"total"`
}

// RenderFormat selects how GetLocalizedContent renders the body.
type RenderFormat string

const (
	FormatPlain RenderFormat = ""
	FormatHTML  RenderFormat = "html"
)

// RenderOptions tunes GetLocalizedContent.
type RenderOptions struct {
	Format RenderFormat
}
