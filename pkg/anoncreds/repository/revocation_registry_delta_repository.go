package repository

import (
	"context"
	"sort"
	"strconv"

	anonerrors "github.com/ajna-inc/revreg/pkg/anoncreds/errors"
	"github.com/ajna-inc/revreg/pkg/core/storage"
)

// RevocationRegistryDeltaRepository manages the delta log of each registry
type RevocationRegistryDeltaRepository struct {
	store typedStore[*RevocationRegistryDeltaRecord]
}

// NewRevocationRegistryDeltaRepository creates a new repository instance
func NewRevocationRegistryDeltaRepository(storageService storage.StorageService) *RevocationRegistryDeltaRepository {
	return &RevocationRegistryDeltaRepository{
		store: typedStore[*RevocationRegistryDeltaRecord]{
			storageService: storageService,
			recordType:     RevocationRegistryDeltaRecordType,
		},
	}
}

// Save appends a delta record after validating the delta. Sequences are
// allocated by the caller from the registry state record; a sequence can be
// stored once per registry.
func (r *RevocationRegistryDeltaRepository) Save(ctx context.Context, record *RevocationRegistryDeltaRecord) error {
	if err := record.Delta.Validate(); err != nil {
		return err
	}
	return r.store.storageService.Save(ctx, record)
}

// Update replaces a delta record
func (r *RevocationRegistryDeltaRepository) Update(ctx context.Context, record *RevocationRegistryDeltaRecord) error {
	return r.store.storageService.Update(ctx, record)
}

// Delete removes a delta record
func (r *RevocationRegistryDeltaRepository) Delete(ctx context.Context, record *RevocationRegistryDeltaRecord) error {
	return r.store.storageService.Delete(ctx, record)
}

// FindByRevocationRegistryDefinitionId returns the delta log of a registry ordered by sequence
func (r *RevocationRegistryDeltaRepository) FindByRevocationRegistryDefinitionId(
	ctx context.Context,
	revocationRegistryDefinitionId string,
) ([]*RevocationRegistryDeltaRecord, error) {
	records, err := r.store.findByQuery(ctx, byRevocationRegistryId(revocationRegistryDefinitionId))
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Sequence < records[j].Sequence })
	return records, nil
}

// GetBySequence returns a single delta of a registry
func (r *RevocationRegistryDeltaRepository) GetBySequence(
	ctx context.Context,
	revocationRegistryDefinitionId string,
	sequence uint64,
) (*RevocationRegistryDeltaRecord, error) {
	seq := strconv.FormatUint(sequence, 10)
	query := byRevocationRegistryId(revocationRegistryDefinitionId)
	query.WithTag(TagSequence, seq)
	return r.store.getSingle(ctx, query, revocationRegistryDefinitionId+"#"+seq)
}

// FindInRange returns the deltas with from < sequence <= to, ordered by
// sequence. A zero to means no upper bound; otherwise to must not precede from.
func (r *RevocationRegistryDeltaRepository) FindInRange(
	ctx context.Context,
	revocationRegistryDefinitionId string,
	from, to uint64,
) ([]*RevocationRegistryDeltaRecord, error) {
	if to != 0 && to < from {
		return nil, anonerrors.Invalid("invalid delta interval: from %d is after to %d", from, to)
	}
	records, err := r.FindByRevocationRegistryDefinitionId(ctx, revocationRegistryDefinitionId)
	if err != nil {
		return nil, err
	}
	out := records[:0]
	for _, record := range records {
		if record.Sequence <= from {
			continue
		}
		if to != 0 && record.Sequence > to {
			break
		}
		out = append(out, record)
	}
	return out, nil
}
