package repository

import (
	"context"

	"github.com/ajna-inc/revreg/pkg/core/storage"
)

// RevocationRegistryRepository manages the current state record of each registry
type RevocationRegistryRepository struct {
	store typedStore[*RevocationRegistryRecord]
}

// NewRevocationRegistryRepository creates a new repository instance
func NewRevocationRegistryRepository(storageService storage.StorageService) *RevocationRegistryRepository {
	return &RevocationRegistryRepository{
		store: typedStore[*RevocationRegistryRecord]{
			storageService: storageService,
			recordType:     RevocationRegistryRecordType,
		},
	}
}

// Save stores a registry state record
func (r *RevocationRegistryRepository) Save(ctx context.Context, record *RevocationRegistryRecord) error {
	return r.store.storageService.Save(ctx, record)
}

// Update replaces the registry state
func (r *RevocationRegistryRepository) Update(ctx context.Context, record *RevocationRegistryRecord) error {
	return r.store.storageService.Update(ctx, record)
}

// Delete removes a registry state record
func (r *RevocationRegistryRepository) Delete(ctx context.Context, record *RevocationRegistryRecord) error {
	return r.store.storageService.Delete(ctx, record)
}

// GetByRevocationRegistryDefinitionId retrieves the state of a registry by its id in either form
func (r *RevocationRegistryRepository) GetByRevocationRegistryDefinitionId(
	ctx context.Context,
	revocationRegistryDefinitionId string,
) (*RevocationRegistryRecord, error) {
	return r.store.getSingle(ctx, byRevocationRegistryId(revocationRegistryDefinitionId), revocationRegistryDefinitionId)
}

// GetAll retrieves all registry state records
func (r *RevocationRegistryRepository) GetAll(ctx context.Context) ([]*RevocationRegistryRecord, error) {
	return r.store.getAll(ctx)
}
