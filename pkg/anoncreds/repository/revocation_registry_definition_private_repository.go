package repository

import (
	"context"

	"github.com/ajna-inc/revreg/pkg/core/storage"
)

// RevocationRegistryDefinitionPrivateRepository manages private definition records
type RevocationRegistryDefinitionPrivateRepository struct {
	store typedStore[*RevocationRegistryDefinitionPrivateRecord]
}

// NewRevocationRegistryDefinitionPrivateRepository creates a new repository instance
func NewRevocationRegistryDefinitionPrivateRepository(storageService storage.StorageService) *RevocationRegistryDefinitionPrivateRepository {
	return &RevocationRegistryDefinitionPrivateRepository{
		store: typedStore[*RevocationRegistryDefinitionPrivateRecord]{
			storageService: storageService,
			recordType:     RevocationRegistryDefinitionPrivateRecordType,
		},
	}
}

// Save stores a private record
func (r *RevocationRegistryDefinitionPrivateRepository) Save(ctx context.Context, record *RevocationRegistryDefinitionPrivateRecord) error {
	return r.store.storageService.Save(ctx, record)
}

// Update updates an existing private record
func (r *RevocationRegistryDefinitionPrivateRepository) Update(ctx context.Context, record *RevocationRegistryDefinitionPrivateRecord) error {
	return r.store.storageService.Update(ctx, record)
}

// Delete removes a private record
func (r *RevocationRegistryDefinitionPrivateRepository) Delete(ctx context.Context, record *RevocationRegistryDefinitionPrivateRecord) error {
	return r.store.storageService.Delete(ctx, record)
}

// GetByRevocationRegistryDefinitionId retrieves a private record by registry id
func (r *RevocationRegistryDefinitionPrivateRepository) GetByRevocationRegistryDefinitionId(
	ctx context.Context,
	revocationRegistryDefinitionId string,
) (*RevocationRegistryDefinitionPrivateRecord, error) {
	return r.store.getSingle(ctx, byRevocationRegistryId(revocationRegistryDefinitionId), revocationRegistryDefinitionId)
}

// FindByState returns private records in the given state
func (r *RevocationRegistryDefinitionPrivateRepository) FindByState(
	ctx context.Context,
	state RevocationRegistryState,
) ([]*RevocationRegistryDefinitionPrivateRecord, error) {
	return r.store.findByQuery(ctx, *storage.NewQuery().WithTag(TagState, string(state)))
}
