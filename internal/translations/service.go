package translations

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-translations/internal/domain"
	"github.com/goliatone/go-translations/internal/identity"
	"github.com/goliatone/go-translations/internal/logging"
	"github.com/goliatone/go-translations/internal/translationconfig"
	"github.com/goliatone/go-translations/pkg/interfaces"
)

const (
	DefaultPageSize     = 50
	MaxPageSize         = 100
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 200
	DefaultRecentLimit  = 20
	MaxRecentLimit      = 100
)

// Service manages translation keys, their history and the import/export formats.
type Service interface {
	GetTranslations(ctx context.Context, language domain.Language, namespace string) (map[string]any, error)
	UpdateTranslation(ctx context.Context, key string, patch TranslationsPatch, actor uuid.UUID) (*TranslationKey, error)
	CreateTranslation(ctx context.Context, req CreateKeyRequest) (*TranslationKey, error)
	UpdateTranslationKey(ctx context.Context, key string, req UpdateKeyRequest) (*TranslationKey, error)
	DeleteTranslation(ctx context.Context, key string, actor uuid.UUID) error
	GetTranslationKeys(ctx context.Context, req ListKeysRequest) (*KeyPage, error)
	ValidateTranslationCompleteness(ctx context.Context, namespace string) (*CompletenessReport, error)
	ExportTranslations(ctx context.Context, format Format) (*Export, error)
	ImportTranslations(ctx context.Context, data []byte, format Format, actor uuid.UUID) (*ImportResult, error)
	GetTranslationHistory(ctx context.Context, key string, limit int) ([]*HistoryEntry, error)
	GetRecentChanges(ctx context.Context, namespace string, limit int) ([]*HistoryEntry, error)
	RollbackTranslation(ctx context.Context, req RollbackRequest) (*TranslationKey, error)
	CompareVersions(ctx context.Context, key string, v1, v2 int) (*VersionComparison, error)
}

// IDGenerator produces history entry ids.
type IDGenerator func() uuid.UUID

// ServiceOption configures the service.
type ServiceOption func(*service)

// WithClock overrides the clock used for timestamps.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the history id generator.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		s.logger = logging.OrNoOp(logger)
	}
}

// WithSettings attaches the live enforcement settings. Without it isRequired
// stays advisory and Nepali falls back to English.
func WithSettings(state *translationconfig.State) ServiceOption {
	return func(s *service) {
		s.settings = state
	}
}

type service struct {
	store    Store
	now      func() time.Time
	id       IDGenerator
	logger   interfaces.Logger
	settings *translationconfig.State
	locks    *keyLocks
}

// NewService constructs a translation service over store.
func NewService(store Store, opts ...ServiceOption) Service {
	s := &service{
		store:  store,
		now:    time.Now,
		id:     uuid.New,
		logger: logging.NoOp(),
		locks:  newKeyLocks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) GetTranslations(ctx context.Context, language domain.Language, namespace string) (map[string]any, error) {
	if !language.Valid() {
		return nil, domain.Validationf("Unsupported language: %s", language)
	}
	namespace = strings.TrimSpace(namespace)
	if namespace != "" && !domain.Namespace(namespace).Valid() {
		return nil, domain.Validationf("Unsupported namespace: %s", namespace)
	}

	keys, _, err := s.store.Keys().List(ctx, KeyFilter{Namespace: namespace})
	if err != nil {
		return nil, err
	}

	prefix := ""
	if namespace != "" {
		prefix = domain.Namespace(namespace).Prefix()
	}
	tree, conflicts := buildTree(keys, language, prefix, s.settings.FallbackToEnglish())
	for _, key := range conflicts {
		s.logger.Warn("translations.tree.conflict", "translation_key", key, "language", string(language))
	}
	return tree, nil
}

func (s *service) UpdateTranslation(ctx context.Context, key string, patch TranslationsPatch, actor uuid.UUID) (*TranslationKey, error) {
	return s.UpdateTranslationKey(ctx, key, UpdateKeyRequest{
		Translations: patch,
		Actor:        actor,
		Reason:       "Translation updated",
	})
}

func (s *service) CreateTranslation(ctx context.Context, req CreateKeyRequest) (*TranslationKey, error) {
	unlock := s.locks.lock(strings.TrimSpace(req.Key))
	defer unlock()
	return s.createLocked(ctx, req, "Translation created")
}

// createLocked persists a new key with a CREATE history entry. Callers hold
// the key lock.
func (s *service) createLocked(ctx context.Context, req CreateKeyRequest, reason string) (*TranslationKey, error) {
	key := strings.TrimSpace(req.Key)
	namespace := strings.TrimSpace(req.Namespace)
	if namespace == "" {
		namespace = string(domain.NamespaceFromKey(key))
	}

	now := s.now().UTC()
	record := &TranslationKey{
		ID:        identity.TranslationKeyUUID(key),
		Key:       key,
		Namespace: domain.Namespace(namespace),
		Translations: Translations{
			EN: strings.TrimSpace(req.Translations.EN),
			NE: strings.TrimSpace(req.Translations.NE),
		},
		Context:     strings.TrimSpace(req.Context),
		IsRequired:  req.IsRequired,
		UpdatedBy:   s.actor(req.Actor),
		LastUpdated: now,
		CreatedAt:   now,
	}
	if err := s.check(record); err != nil {
		return nil, err
	}

	if _, err := s.store.Apply(ctx, Change{
		Type:      ChangeCreate,
		Key:       record,
		EntryID:   s.id(),
		ChangedBy: record.UpdatedBy,
		Reason:    reason,
		At:        now,
	}); err != nil {
		return nil, err
	}

	logging.WithTranslationContext(s.logger, record.Key, namespace, record.UpdatedBy.String()).
		Info("translations.key.created")
	return record, nil
}

func (s *service) UpdateTranslationKey(ctx context.Context, key string, req UpdateKeyRequest) (*TranslationKey, error) {
	key = strings.TrimSpace(key)
	unlock := s.locks.lock(key)
	defer unlock()

	record, err := s.store.Keys().GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	if req.Translations.EN != nil {
		record.Translations.EN = strings.TrimSpace(*req.Translations.EN)
	}
	if req.Translations.NE != nil {
		record.Translations.NE = strings.TrimSpace(*req.Translations.NE)
	}
	if req.Context != nil {
		record.Context = strings.TrimSpace(*req.Context)
	}
	if req.IsRequired != nil {
		record.IsRequired = *req.IsRequired
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = "Translation key updated"
	}
	return s.save(ctx, record, s.actor(req.Actor), reason)
}

func (s *service) DeleteTranslation(ctx context.Context, key string, actor uuid.UUID) error {
	key = strings.TrimSpace(key)
	unlock := s.locks.lock(key)
	defer unlock()

	record, err := s.store.Keys().GetByKey(ctx, key)
	if err != nil {
		return err
	}
	changedBy := s.actor(actor)
	if _, err := s.store.Apply(ctx, Change{
		Type:      ChangeDelete,
		Key:       record,
		EntryID:   s.id(),
		ChangedBy: changedBy,
		Reason:    "Translation deleted",
		At:        s.now().UTC(),
	}); err != nil {
		return err
	}

	logging.WithTranslationContext(s.logger, record.Key, string(record.Namespace), changedBy.String()).
		Info("translations.key.deleted")
	return nil
}

func (s *service) GetTranslationKeys(ctx context.Context, req ListKeysRequest) (*KeyPage, error) {
	page, limit := req.Page, req.Limit
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = DefaultPageSize
	}
	if page < 1 {
		return nil, domain.Validationf("page must be greater than or equal to 1")
	}
	if limit < 1 || limit > MaxPageSize {
		return nil, domain.Validationf("limit must be between 1 and %d", MaxPageSize)
	}
	namespace := strings.TrimSpace(req.Namespace)
	if namespace != "" && !domain.Namespace(namespace).Valid() {
		return nil, domain.Validationf("Unsupported namespace: %s", namespace)
	}

	keys, total, err := s.store.Keys().List(ctx, KeyFilter{
		Namespace: namespace,
		Search:    req.Search,
		Limit:     limit,
		Offset:    (page - 1) * limit,
	})
	if err != nil {
		return nil, err
	}
	return &KeyPage{
		Keys:       keys,
		Total:      total,
		Page:       page,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

func (s *service) ValidateTranslationCompleteness(ctx context.Context, namespace string) (*CompletenessReport, error) {
	namespace = strings.TrimSpace(namespace)
	if namespace != "" && !domain.Namespace(namespace).Valid() {
		return nil, domain.Validationf("Unsupported namespace: %s", namespace)
	}
	keys, _, err := s.store.Keys().List(ctx, KeyFilter{Namespace: namespace})
	if err != nil {
		return nil, err
	}

	report := &CompletenessReport{
		Namespace:       namespace,
		TotalKeys:       len(keys),
		MissingKeys:     []string{},
		MissingRequired: []string{},
	}
	for _, record := range keys {
		if record.Translations.Complete() {
			report.TranslatedKeys++
			continue
		}
		report.MissingKeys = append(report.MissingKeys, record.Key)
		if record.IsRequired {
			report.MissingRequired = append(report.MissingRequired, record.Key)
		}
	}
	if report.TotalKeys > 0 {
		report.Completeness = roundTo(float64(report.TranslatedKeys)/float64(report.TotalKeys)*100, 2)
	}
	return report, nil
}

// save validates and persists an updated record with an UPDATE history entry.
// Callers hold the key lock.
func (s *service) save(ctx context.Context, record *TranslationKey, actor uuid.UUID, reason string) (*TranslationKey, error) {
	now := s.now().UTC()
	record.UpdatedBy = actor
	record.LastUpdated = now
	if err := s.check(record); err != nil {
		return nil, err
	}

	entry, err := s.store.Apply(ctx, Change{
		Type:      ChangeUpdate,
		Key:       record,
		EntryID:   s.id(),
		ChangedBy: actor,
		Reason:    reason,
		At:        now,
	})
	if err != nil {
		return nil, err
	}

	logging.WithTranslationContext(s.logger, record.Key, string(record.Namespace), actor.String()).
		Info("translations.key.updated", "version", entry.Version)
	return record, nil
}

func (s *service) check(record *TranslationKey) error {
	if err := validateRecord(record); err != nil {
		return err
	}
	if s.settings.EnforceRequired() {
		return enforceRequired(record)
	}
	return nil
}

func (s *service) actor(actor uuid.UUID) uuid.UUID {
	if actor == uuid.Nil {
		return identity.SystemActorID()
	}
	return actor
}

func clampLimit(limit, fallback, ceiling int) int {
	if limit <= 0 {
		return fallback
	}
	return min(limit, ceiling)
}

func roundTo(value float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(value*scale) / scale
}
