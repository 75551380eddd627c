package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	anonerrors "github.com/ajna-inc/revreg/pkg/anoncreds/errors"
)

type memoryEntry struct {
	seq   uint64
	value []byte
	tags  map[string]string
}

// MemoryStorageService keeps records as serialized JSON in process memory.
// Records read back are fresh copies, so callers never share state with the store.
type MemoryStorageService struct {
	mu      sync.RWMutex
	seq     uint64
	records map[string]map[string]*memoryEntry
}

var _ StorageService = (*MemoryStorageService)(nil)

// NewMemoryStorageService creates an empty in-memory store
func NewMemoryStorageService() *MemoryStorageService {
	return &MemoryStorageService{records: make(map[string]map[string]*memoryEntry)}
}

func (s *MemoryStorageService) encode(record Record) (*memoryEntry, error) {
	if record == nil {
		return nil, fmt.Errorf("record is nil")
	}
	if record.GetId() == "" {
		return nil, fmt.Errorf("record of type %s has no id", record.GetType())
	}
	value, err := record.ToJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize record %s: %w", record.GetId(), err)
	}
	return &memoryEntry{value: value, tags: copyTags(record.GetTags())}, nil
}

// Save stores a new record
func (s *MemoryStorageService) Save(ctx context.Context, record Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry, err := s.encode(record)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	category := record.GetType()
	bucket, ok := s.records[category]
	if !ok {
		bucket = make(map[string]*memoryEntry)
		s.records[category] = bucket
	}
	if _, exists := bucket[record.GetId()]; exists {
		return anonerrors.Duplicate(category, record.GetId(), nil)
	}
	s.seq++
	entry.seq = s.seq
	bucket[record.GetId()] = entry
	return nil
}

// Update replaces an existing record
func (s *MemoryStorageService) Update(ctx context.Context, record Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	record.SetUpdatedAt(time.Now().UTC())
	entry, err := s.encode(record)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	category := record.GetType()
	existing, ok := s.records[category][record.GetId()]
	if !ok {
		return anonerrors.NotFound(category, record.GetId())
	}
	entry.seq = existing.seq
	s.records[category][record.GetId()] = entry
	return nil
}

// Delete removes a record
func (s *MemoryStorageService) Delete(ctx context.Context, record Record) error {
	return s.DeleteById(ctx, record.GetType(), record.GetId())
}

// DeleteById removes a record by category and id
func (s *MemoryStorageService) DeleteById(ctx context.Context, recordClass string, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[recordClass][id]; !ok {
		return anonerrors.NotFound(recordClass, id)
	}
	delete(s.records[recordClass], id)
	return nil
}

// GetById loads a record by category and id
func (s *MemoryStorageService) GetById(ctx context.Context, recordClass string, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	entry, ok := s.records[recordClass][id]
	s.mu.RUnlock()

	if !ok {
		return nil, anonerrors.NotFound(recordClass, id)
	}
	return DecodeRecord(recordClass, entry.value, entry.tags)
}

// GetAll returns every record of a category in insertion order
func (s *MemoryStorageService) GetAll(ctx context.Context, recordClass string) ([]Record, error) {
	return s.FindByQuery(ctx, recordClass, Query{})
}

// FindByQuery returns the records of a category whose tags match the query
func (s *MemoryStorageService) FindByQuery(ctx context.Context, recordClass string, query Query) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	matched := make([]*memoryEntry, 0, len(s.records[recordClass]))
	for _, entry := range s.records[recordClass] {
		if query.Matches(entry.tags) {
			matched = append(matched, entry)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].seq < matched[j].seq })
	matched = Page(query, matched)

	results := make([]Record, 0, len(matched))
	for _, entry := range matched {
		record, err := DecodeRecord(recordClass, entry.value, entry.tags)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s record: %w", recordClass, err)
		}
		results = append(results, record)
	}
	return results, nil
}
