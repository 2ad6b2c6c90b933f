package localizer

import (
	"context"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-translations/internal/domain"
	"github.com/goliatone/go-translations/internal/logging"
	"github.com/goliatone/go-translations/internal/markdown"
	"github.com/goliatone/go-translations/pkg/interfaces"
)

const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

// Renderer turns a Markdown body into HTML.
type Renderer interface {
	Render(source string) (string, error)
}

// Service localizes marketplace content and manages its multilingual text.
type Service interface {
	LocalizeContent(content any, language domain.Language) any
	CreateMultilingualContent(ctx context.Context, req ContentRequest) (*MultilingualDocument, error)
	UpdateMultilingualContent(ctx context.Context, id string, patch ContentPatch) (*MultilingualDocument, error)
	SearchMultilingualContent(ctx context.Context, query SearchQuery) (*SearchResults, error)
	GetLocalizedContent(ctx context.Context, contentType ContentType, id string, language domain.Language, opts RenderOptions) (map[string]any, error)
}

// ServiceOption configures the service.
type ServiceOption func(*service)

func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		s.logger = logging.OrNoOp(logger)
	}
}

// WithRenderer replaces the goldmark renderer used for format=html.
func WithRenderer(renderer Renderer) ServiceOption {
	return func(s *service) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

type service struct {
	store    Store
	now      func() time.Time
	id       func() uuid.UUID
	logger   interfaces.Logger
	renderer Renderer
}

// NewService constructs a localizer over store.
func NewService(store Store, opts ...ServiceOption) Service {
	s := &service{
		store:    store,
		now:      time.Now,
		id:       uuid.New,
		logger:   logging.NoOp(),
		renderer: markdown.NewRenderer(markdown.Options{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) LocalizeContent(content any, language domain.Language) any {
	return Localize(content, language)
}

func (s *service) CreateMultilingualContent(ctx context.Context, req ContentRequest) (*MultilingualDocument, error) {
	ct, err := ParseContentType(string(req.Metadata.Type))
	if err != nil {
		return nil, err
	}
	if err := validateContentRequest(req); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	record, err := s.buildRecord(ct, req, now)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("localizer.content.created", "content_id", record.RecordID().String(), "content_type", string(ct))
	doc := record.document()
	return &doc, nil
}

func (s *service) UpdateMultilingualContent(ctx context.Context, id string, patch ContentPatch) (*MultilingualDocument, error) {
	contentID, err := parseContentID(id)
	if err != nil {
		return nil, err
	}
	if patch.EN.empty() && patch.NE.empty() {
		return nil, domain.Validationf("No fields to update")
	}
	if patch.EN != nil && patch.EN.Title != nil && strings.TrimSpace(*patch.EN.Title) == "" {
		return nil, domain.Validationf("English title cannot be empty")
	}

	ref, err := s.store.Ref(ctx, contentID)
	if err != nil {
		return nil, err
	}
	record, err := s.store.Get(ctx, ref.ContentType, contentID)
	if err != nil {
		return nil, err
	}

	if patch.EN != nil {
		assign(record, domain.LanguageEnglish, patch.EN.Title, patch.EN.Description, patch.EN.Body)
	}
	if patch.NE != nil {
		assign(record, domain.LanguageNepali, patch.NE.Title, patch.NE.Description, patch.NE.Body)
	}
	record.touch(s.now().UTC())

	if err := s.store.Update(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("localizer.content.updated", "content_id", contentID.String(), "content_type", string(ref.ContentType))
	doc := record.document()
	return &doc, nil
}

func (s *service) SearchMultilingualContent(ctx context.Context, query SearchQuery) (*SearchResults, error) {
	needle := strings.TrimSpace(query.Query)
	if needle == "" {
		return nil, domain.Validationf("Search query is required")
	}
	if query.Language != "" && !query.Language.Valid() {
		return nil, domain.Validationf("Unsupported language: %s", query.Language)
	}
	if query.DateFrom != nil && query.DateTo != nil && query.DateTo.Before(*query.DateFrom) {
		return nil, domain.Validationf("dateTo must not be before dateFrom")
	}
	limit := query.Limit
	switch {
	case limit <= 0:
		limit = DefaultSearchLimit
	case limit > MaxSearchLimit:
		limit = MaxSearchLimit
	}

	types := ContentTypes()
	if query.ContentType != "" {
		ct, err := ParseContentType(string(query.ContentType))
		if err != nil {
			return nil, err
		}
		types = []ContentType{ct}
	}

	filter := SearchFilter{
		Needle:   needle,
		Language: query.Language,
		From:     query.DateFrom,
		To:       query.DateTo,
	}
	var hits []SearchHit
	for _, ct := range types {
		records, err := s.store.Search(ctx, ct, filter)
		if err != nil {
			return nil, err
		}
		for _, record := range records {
			hits = append(hits, SearchHit{
				Document: record.document(),
				Score:    1.0 + record.Rank().Boost(),
			})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Document.CreatedAt.After(hits[j].Document.CreatedAt)
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	if hits == nil {
		hits = []SearchHit{}
	}
	return &SearchResults{Query: needle, Results: hits, Total: len(hits)}, nil
}

func (s *service) GetLocalizedContent(ctx context.Context, contentType ContentType, id string, language domain.Language, opts RenderOptions) (map[string]any, error) {
	ct, err := ParseContentType(string(contentType))
	if err != nil {
		return nil, err
	}
	contentID, err := parseContentID(id)
	if err != nil {
		return nil, err
	}
	if !language.Valid() {
		return nil, domain.Validationf("Unsupported language: %s", language)
	}
	switch opts.Format {
	case FormatPlain, FormatHTML:
	default:
		return nil, domain.Validationf("Unsupported format: %s", opts.Format)
	}

	record, err := s.store.Get(ctx, ct, contentID)
	if err != nil {
		return nil, err
	}

	localized, ok := Localize(record, language).(map[string]any)
	if !ok {
		return nil, domain.Internal("localize content", nil)
	}
	localized["type"] = string(ct)

	if opts.Format == FormatHTML {
		body, _ := localized[bodyKey(ct)].(string)
		rendered, err := s.renderer.Render(body)
		if err != nil {
			return nil, domain.Internal("render content body", err)
		}
		localized["body_html"] = rendered
	}
	return localized, nil
}

func parseContentID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return uuid.Nil, domain.Validation("Invalid content id", err)
	}
	return parsed, nil
}

func (s *service) buildRecord(ct ContentType, req ContentRequest, now time.Time) (Record, error) {
	record := newRecord(ct)
	id := s.id()
	tags := mergeTags(req.EN.Tags, req.NE)

	switch r := record.(type) {
	case *Product:
		r.ID = id
		r.Tags = tags
		r.Price = req.Metadata.Price
		r.Unit = strings.TrimSpace(req.Metadata.Unit)
		r.Category = strings.TrimSpace(req.Metadata.Category)
		r.FarmerID = req.Metadata.FarmerID
		r.CreatedAt, r.UpdatedAt = now, now
	case *NewsItem:
		r.ID = id
		r.Tags = tags
		r.Priority = priorityOf(req.Metadata.Priority)
		r.PublishedAt = req.Metadata.PublishedAt
		r.CreatedAt, r.UpdatedAt = now, now
	case *GalleryItem:
		r.ID = id
		r.Tags = tags
		r.ImageURL = strings.TrimSpace(req.Metadata.ImageURL)
		r.Category = strings.TrimSpace(req.Metadata.Category)
		r.CreatedAt, r.UpdatedAt = now, now
	case *MayorMessage:
		r.ID = id
		r.Priority = priorityOf(req.Metadata.Priority)
		r.CreatedAt, r.UpdatedAt = now, now
	}

	assign(record, domain.LanguageEnglish, provided(req.EN.Title), provided(req.EN.Description), provided(req.EN.Body))
	if req.NE != nil {
		assign(record, domain.LanguageNepali, provided(req.NE.Title), provided(req.NE.Description), provided(req.NE.Body))
	}

	switch r := record.(type) {
	case *Product:
		value, err := slugFor(r.Name.EN)
		if err != nil {
			return nil, err
		}
		r.Slug = value
	case *NewsItem:
		value, err := slugFor(r.Headline.EN)
		if err != nil {
			return nil, err
		}
		r.Slug = value
	}
	return record, nil
}

func slugFor(title string) (string, error) {
	value, err := slug.Normalize(title)
	if err != nil {
		return "", domain.Validation("Title cannot be turned into a slug", err)
	}
	return value, nil
}

func priorityOf(p domain.Priority) domain.Priority {
	parsed, _ := domain.ParsePriority(string(p))
	return parsed
}

// assign writes the provided values into the record's text slots for lang.
// When a collection lacks a description or body slot the other one receives
// the value.
func assign(record Record, lang domain.Language, title, description, body *string) {
	t, d, b := record.Fields()
	setText(t, lang, title)
	switch {
	case d != nil && b != nil:
		setText(d, lang, description)
		setText(b, lang, body)
	case d != nil:
		setText(d, lang, firstProvided(description, body))
	case b != nil:
		setText(b, lang, firstProvided(body, description))
	}
}

func setText(field *MultilingualField, lang domain.Language, value *string) {
	if field == nil || value == nil {
		return
	}
	text := strings.TrimSpace(*value)
	if lang == domain.LanguageNepali {
		field.NE = text
		return
	}
	field.EN = text
}

func firstProvided(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func provided(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

func mergeTags(en []string, ne *LanguageFields) []string {
	var out []string
	seen := map[string]struct{}{}
	add := func(tags []string) {
		for _, tag := range tags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	add(en)
	if ne != nil {
		add(ne.Tags)
	}
	return out
}

func validateContentRequest(req ContentRequest) error {
	errs := validation.Errors{
		"en.title":       validation.Validate(strings.TrimSpace(req.EN.Title), validation.Required, validation.RuneLength(1, 500)),
		"en.description": validation.Validate(req.EN.Description, validation.RuneLength(0, 5000)),
		"metadata.price": validation.Validate(req.Metadata.Price, validation.Min(0.0)),
	}
	if req.NE != nil {
		errs["ne.title"] = validation.Validate(req.NE.Title, validation.RuneLength(0, 500))
		errs["ne.description"] = validation.Validate(req.NE.Description, validation.RuneLength(0, 5000))
	}
	if req.Metadata.Priority != "" {
		if _, ok := domain.ParsePriority(string(req.Metadata.Priority)); !ok {
			errs["metadata.priority"] = validation.NewError("validation_priority", "must be HIGH, NORMAL or LOW")
		}
	}
	if err := errs.Filter(); err != nil {
		return domain.Validation("Invalid content", err)
	}
	return nil
}
