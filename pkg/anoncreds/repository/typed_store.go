package repository

import (
	"context"
	"fmt"

	anonerrors "github.com/ajna-inc/revreg/pkg/anoncreds/errors"
	"github.com/ajna-inc/revreg/pkg/core/storage"
)

// typedStore narrows a StorageService category to one concrete record type
type typedStore[T storage.Record] struct {
	storageService storage.StorageService
	recordType     string
}

func (s typedStore[T]) cast(record storage.Record) (T, error) {
	typed, ok := record.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("record %s is not a %s", record.GetId(), s.recordType)
	}
	return typed, nil
}

func (s typedStore[T]) getById(ctx context.Context, id string) (T, error) {
	record, err := s.storageService.GetById(ctx, s.recordType, id)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.cast(record)
}

func (s typedStore[T]) findByQuery(ctx context.Context, query storage.Query) ([]T, error) {
	records, err := s.storageService.FindByQuery(ctx, s.recordType, query)
	if err != nil {
		return nil, err
	}
	typed := make([]T, 0, len(records))
	for _, record := range records {
		t, err := s.cast(record)
		if err != nil {
			return nil, err
		}
		typed = append(typed, t)
	}
	return typed, nil
}

func (s typedStore[T]) getAll(ctx context.Context) ([]T, error) {
	return s.findByQuery(ctx, storage.Query{})
}

// findSingle returns the only match, false when there is none, and an error
// when the query is ambiguous.
func (s typedStore[T]) findSingle(ctx context.Context, query storage.Query, key string) (T, bool, error) {
	var zero T
	records, err := s.findByQuery(ctx, query)
	if err != nil {
		return zero, false, err
	}
	switch len(records) {
	case 0:
		return zero, false, nil
	case 1:
		return records[0], true, nil
	default:
		return zero, false, fmt.Errorf("multiple %s records found for %s", s.recordType, key)
	}
}

// getSingle is findSingle with a not-found error
func (s typedStore[T]) getSingle(ctx context.Context, query storage.Query, key string) (T, error) {
	record, ok, err := s.findSingle(ctx, query, key)
	if err != nil {
		return record, err
	}
	if !ok {
		return record, anonerrors.NotFound(s.recordType, key)
	}
	return record, nil
}
