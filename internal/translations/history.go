package translations

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-translations/internal/domain"
)

func (s *service) GetTranslationHistory(ctx context.Context, key string, limit int) ([]*HistoryEntry, error) {
	record, err := s.store.Keys().GetByKey(ctx, strings.TrimSpace(key))
	if err != nil {
		return nil, err
	}
	return s.store.History().ListByKey(ctx, record.ID, clampLimit(limit, DefaultHistoryLimit, MaxHistoryLimit))
}

func (s *service) GetRecentChanges(ctx context.Context, namespace string, limit int) ([]*HistoryEntry, error) {
	namespace = strings.TrimSpace(namespace)
	if namespace != "" && !domain.Namespace(namespace).Valid() {
		return nil, domain.Validationf("Unsupported namespace: %s", namespace)
	}
	return s.store.History().ListRecent(ctx, namespace, clampLimit(limit, DefaultRecentLimit, MaxRecentLimit))
}

// RollbackTranslation copies a historical snapshot onto the live key. The
// rollback itself is recorded as a new version.
func (s *service) RollbackTranslation(ctx context.Context, req RollbackRequest) (*TranslationKey, error) {
	key := strings.TrimSpace(req.Key)
	if req.Version < 1 {
		return nil, domain.Validationf("version must be greater than or equal to 1")
	}

	unlock := s.locks.lock(key)
	defer unlock()

	record, err := s.store.Keys().GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.version(ctx, record, req.Version)
	if err != nil {
		return nil, err
	}

	record.Translations = snapshot.Translations
	record.Context = snapshot.Context
	record.IsRequired = snapshot.IsRequired

	reason := fmt.Sprintf("Rollback to version %d", req.Version)
	if extra := strings.TrimSpace(req.Reason); extra != "" {
		reason += ": " + extra
	}
	return s.save(ctx, record, s.actor(req.Actor), reason)
}

func (s *service) CompareVersions(ctx context.Context, key string, v1, v2 int) (*VersionComparison, error) {
	record, err := s.store.Keys().GetByKey(ctx, strings.TrimSpace(key))
	if err != nil {
		return nil, err
	}
	first, err := s.version(ctx, record, v1)
	if err != nil {
		return nil, err
	}
	second, err := s.version(ctx, record, v2)
	if err != nil {
		return nil, err
	}
	return &VersionComparison{
		Key:      record.Key,
		Version1: first,
		Version2: second,
		Changes:  diffEntries(first, second),
	}, nil
}

func (s *service) version(ctx context.Context, record *TranslationKey, version int) (*HistoryEntry, error) {
	entry, err := s.store.History().GetVersion(ctx, record.ID, version)
	if domain.Is(err, domain.KindNotFound) {
		return nil, domain.NotFound(versionResource, fmt.Sprintf("%s@%d", record.Key, version))
	}
	return entry, err
}

func diffEntries(from, to *HistoryEntry) []string {
	changes := []string{}
	if from.Translations.EN != to.Translations.EN {
		changes = append(changes, "English translation changed")
	}
	switch before, after := from.Translations.NE, to.Translations.NE; {
	case before == after:
	case before == "":
		changes = append(changes, "Nepali translation added")
	case after == "":
		changes = append(changes, "Nepali translation removed")
	default:
		changes = append(changes, "Nepali translation changed")
	}
	if from.Context != to.Context {
		changes = append(changes, "Context changed")
	}
	if from.IsRequired != to.IsRequired {
		changes = append(changes, fmt.Sprintf("Required status changed to %t", to.IsRequired))
	}
	return changes
}
