package translations

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-translations/internal/domain"
)

// MemoryStore keeps keys and history in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	keys    map[string]*TranslationKey
	history []*HistoryEntry
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{keys: make(map[string]*TranslationKey)}
}

func (s *MemoryStore) Keys() KeyRepository         { return memoryKeys{s} }
func (s *MemoryStore) History() HistoryRepository { return memoryHistory{s} }

func (s *MemoryStore) Apply(_ context.Context, change Change) (*HistoryEntry, error) {
	if change.Key == nil {
		return nil, domain.Validationf("translation key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	record := cloneKey(change.Key)
	switch change.Type {
	case ChangeCreate:
		if _, ok := s.keys[record.Key]; ok {
			return nil, domain.Conflict(keyResource, record.Key)
		}
		s.keys[record.Key] = record
	case ChangeUpdate:
		if _, ok := s.keys[record.Key]; !ok {
			return nil, domain.NotFound(keyResource, record.Key)
		}
		s.keys[record.Key] = record
	case ChangeDelete:
		if _, ok := s.keys[record.Key]; !ok {
			return nil, domain.NotFound(keyResource, record.Key)
		}
		delete(s.keys, record.Key)
	default:
		return nil, domain.Validationf("unsupported change type %q", change.Type)
	}

	version := 1
	for _, entry := range s.history {
		if entry.TranslationKeyID == record.ID && entry.Version >= version {
			version = entry.Version + 1
		}
	}
	entry := change.entry(version)
	s.history = append(s.history, entry)
	return cloneEntry(entry), nil
}

type memoryKeys struct{ s *MemoryStore }

func (m memoryKeys) GetByKey(_ context.Context, key string) (*TranslationKey, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	record, ok := m.s.keys[key]
	if !ok {
		return nil, domain.NotFound(keyResource, key)
	}
	return cloneKey(record), nil
}

func (m memoryKeys) List(_ context.Context, filter KeyFilter) ([]*TranslationKey, int, error) {
	m.s.mu.RLock()
	namespace := strings.TrimSpace(filter.Namespace)
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	matched := make([]*TranslationKey, 0, len(m.s.keys))
	for _, record := range m.s.keys {
		if namespace != "" && string(record.Namespace) != namespace {
			continue
		}
		if search != "" && !matchesSearch(record, search) {
			continue
		}
		matched = append(matched, cloneKey(record))
	}
	m.s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].Key < matched[j].Key })
	total := len(matched)
	start := min(max(filter.Offset, 0), total)
	end := total
	if filter.Limit > 0 {
		end = min(start+filter.Limit, total)
	}
	return matched[start:end], total, nil
}

func matchesSearch(record *TranslationKey, needle string) bool {
	for _, field := range []string{record.Key, record.Translations.EN, record.Translations.NE, record.Context} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

type memoryHistory struct{ s *MemoryStore }

func (m memoryHistory) GetVersion(_ context.Context, keyID uuid.UUID, version int) (*HistoryEntry, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	for _, entry := range m.s.history {
		if entry.TranslationKeyID == keyID && entry.Version == version {
			return cloneEntry(entry), nil
		}
	}
	return nil, domain.NotFound(versionResource, fmt.Sprintf("%s@%d", keyID, version))
}

func (m memoryHistory) ListByKey(_ context.Context, keyID uuid.UUID, limit int) ([]*HistoryEntry, error) {
	entries := m.collect(func(entry *HistoryEntry) bool { return entry.TranslationKeyID == keyID })
	sort.Slice(entries, func(i, j int) bool { return entries[i].Version > entries[j].Version })
	return truncate(entries, limit), nil
}

func (m memoryHistory) ListRecent(_ context.Context, namespace string, limit int) ([]*HistoryEntry, error) {
	namespace = strings.TrimSpace(namespace)
	entries := m.collect(func(entry *HistoryEntry) bool {
		return namespace == "" || string(entry.Namespace) == namespace
	})
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].Version > entries[j].Version
	})
	return truncate(entries, limit), nil
}

func (m memoryHistory) collect(keep func(*HistoryEntry) bool) []*HistoryEntry {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	out := make([]*HistoryEntry, 0, len(m.s.history))
	for _, entry := range m.s.history {
		if keep(entry) {
			out = append(out, cloneEntry(entry))
		}
	}
	return out
}

func truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func cloneKey(record *TranslationKey) *TranslationKey {
	if record == nil {
		return nil
	}
	cloned := *record
	return &cloned
}

func cloneEntry(entry *HistoryEntry) *HistoryEntry {
	if entry == nil {
		return nil
	}
	cloned := *entry
	return &cloned
}
