package localizer

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-translations/internal/domain"
)

// MemoryStore keeps content in process. Records are cloned on the way in and out.
type MemoryStore struct {
	mu      sync.RWMutex
	refs    map[uuid.UUID]ContentRef
	records map[uuid.UUID]Record
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		refs:    make(map[uuid.UUID]ContentRef),
		records: make(map[uuid.UUID]Record),
	}
}

func (s *MemoryStore) Create(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := record.RecordID()
	if _, ok := s.refs[id]; ok {
		return domain.Conflict(contentResource, id.String())
	}
	s.refs[id] = ContentRef{ID: id, ContentType: record.Type(), CreatedAt: record.document().CreatedAt}
	s.records[id] = cloneRecord(record)
	return nil
}

func (s *MemoryStore) Ref(_ context.Context, id uuid.UUID) (*ContentRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ref, ok := s.refs[id]
	if !ok {
		return nil, domain.NotFound(refResource, id.String())
	}
	return &ref, nil
}

func (s *MemoryStore) Get(_ context.Context, ct ContentType, id uuid.UUID) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok || record.Type() != ct {
		return nil, domain.NotFound(contentResource, id.String())
	}
	return cloneRecord(record), nil
}

func (s *MemoryStore) Update(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := record.RecordID()
	current, ok := s.records[id]
	if !ok || current.Type() != record.Type() {
		return domain.NotFound(contentResource, id.String())
	}
	s.records[id] = cloneRecord(record)
	return nil
}

func (s *MemoryStore) Search(_ context.Context, ct ContentType, filter SearchFilter) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(filter.Needle)
	var out []Record
	for _, record := range s.records {
		if record.Type() != ct {
			continue
		}
		if !inRange(record.document().CreatedAt, filter) {
			continue
		}
		if needle != "" && !matches(record, needle, filter.Language) {
			continue
		}
		out = append(out, cloneRecord(record))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].document().CreatedAt.After(out[j].document().CreatedAt)
	})
	return out, nil
}

func matches(record Record, needle string, lang domain.Language) bool {
	for _, field := range record.Searchable() {
		if field.contains(needle, lang) {
			return true
		}
	}
	return false
}
