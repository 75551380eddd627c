package repository

import (
	"context"
	"fmt"

	anonerrors "github.com/ajna-inc/revreg/pkg/anoncreds/errors"
	"github.com/ajna-inc/revreg/pkg/core/storage"
)

// RevocationRegistryDefinitionRepository manages revocation registry definition records
type RevocationRegistryDefinitionRepository struct {
	store typedStore[*RevocationRegistryDefinitionRecord]
}

// NewRevocationRegistryDefinitionRepository creates a new repository instance
func NewRevocationRegistryDefinitionRepository(storageService storage.StorageService) *RevocationRegistryDefinitionRepository {
	return &RevocationRegistryDefinitionRepository{
		store: typedStore[*RevocationRegistryDefinitionRecord]{
			storageService: storageService,
			recordType:     RevocationRegistryDefinitionRecordType,
		},
	}
}

// Save stores a definition record. Definitions failing validation are
// refused, as is a second record for the same registry id in either form.
// Records are keyed by registry id, so concurrent saves of the same id are
// refused by the store.
func (r *RevocationRegistryDefinitionRepository) Save(ctx context.Context, record *RevocationRegistryDefinitionRecord) error {
	if err := record.RevocationRegistryDefinition.Validate(); err != nil {
		return err
	}
	existing, err := r.FindByRevocationRegistryDefinitionId(ctx, record.RevocationRegistryDefinitionID)
	if err != nil {
		return err
	}
	if existing != nil {
		return anonerrors.Duplicate(RevocationRegistryDefinitionRecordType, record.RevocationRegistryDefinitionID, nil)
	}
	return r.store.storageService.Save(ctx, record)
}

// Update updates an existing definition record
func (r *RevocationRegistryDefinitionRepository) Update(ctx context.Context, record *RevocationRegistryDefinitionRecord) error {
	if err := record.RevocationRegistryDefinition.Validate(); err != nil {
		return err
	}
	return r.store.storageService.Update(ctx, record)
}

// Delete removes a definition record
func (r *RevocationRegistryDefinitionRepository) Delete(ctx context.Context, record *RevocationRegistryDefinitionRecord) error {
	return r.store.storageService.Delete(ctx, record)
}

// GetById retrieves a definition record by record id
func (r *RevocationRegistryDefinitionRepository) GetById(ctx context.Context, id string) (*RevocationRegistryDefinitionRecord, error) {
	return r.store.getById(ctx, id)
}

// GetByRevocationRegistryDefinitionId retrieves a record by registry id.
// Checks both qualified and unqualified ids.
func (r *RevocationRegistryDefinitionRepository) GetByRevocationRegistryDefinitionId(
	ctx context.Context,
	revocationRegistryDefinitionId string,
) (*RevocationRegistryDefinitionRecord, error) {
	return r.store.getSingle(ctx, byRevocationRegistryId(revocationRegistryDefinitionId), revocationRegistryDefinitionId)
}

// FindByRevocationRegistryDefinitionId is GetByRevocationRegistryDefinitionId
// returning nil when nothing matches
func (r *RevocationRegistryDefinitionRepository) FindByRevocationRegistryDefinitionId(
	ctx context.Context,
	revocationRegistryDefinitionId string,
) (*RevocationRegistryDefinitionRecord, error) {
	record, _, err := r.store.findSingle(ctx, byRevocationRegistryId(revocationRegistryDefinitionId), revocationRegistryDefinitionId)
	return record, err
}

// FindByCredentialDefinitionId returns every registry created for a credential
// definition, matching either id form
func (r *RevocationRegistryDefinitionRepository) FindByCredentialDefinitionId(
	ctx context.Context,
	credentialDefinitionId string,
) ([]*RevocationRegistryDefinitionRecord, error) {
	query := *storage.NewQuery().WithOr(
		storage.Query{Equal: map[string]string{TagCredentialDefinitionId: credentialDefinitionId}},
		storage.Query{Equal: map[string]string{TagUnqualifiedCredentialDefinitionId: credentialDefinitionId}},
	)
	records, err := r.store.findByQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("find revocation registries of %s: %w", credentialDefinitionId, err)
	}
	return records, nil
}

// FindByQuery finds records matching the given query
func (r *RevocationRegistryDefinitionRepository) FindByQuery(
	ctx context.Context,
	query storage.Query,
) ([]*RevocationRegistryDefinitionRecord, error) {
	return r.store.findByQuery(ctx, query)
}

// GetAll retrieves all definition records
func (r *RevocationRegistryDefinitionRepository) GetAll(ctx context.Context) ([]*RevocationRegistryDefinitionRecord, error) {
	return r.store.getAll(ctx)
}
