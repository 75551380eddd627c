package repository

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/ajna-inc/revreg/pkg/anoncreds/identifiers"
	"github.com/ajna-inc/revreg/pkg/anoncreds/revocation"
	"github.com/ajna-inc/revreg/pkg/core/storage"
)

// RevocationRegistryDeltaRecord is one entry of a registry's append-only delta log
type RevocationRegistryDeltaRecord struct {
	*storage.BaseRecord

	RevocationRegistryDefinitionID string                             `json:"revocationRegistryDefinitionId"`
	Sequence                       uint64                             `json:"sequence"`
	Delta                          revocation.RevocationRegistryDelta `json:"delta"`
	Issued                         []uint32                           `json:"issued,omitempty"`
	Revoked                        []uint32                           `json:"revoked,omitempty"`
	Timestamp                      int64                              `json:"timestamp"`
}

// NewRevocationRegistryDeltaRecord creates a delta log entry
func NewRevocationRegistryDeltaRecord(
	revocationRegistryDefinitionId identifiers.RevocationRegistryId,
	sequence uint64,
	delta revocation.RevocationRegistryDelta,
	issued, revoked []uint32,
) *RevocationRegistryDeltaRecord {
	record := &RevocationRegistryDeltaRecord{
		BaseRecord:                     storage.NewBaseRecord(RevocationRegistryDeltaRecordType),
		RevocationRegistryDefinitionID: revocationRegistryDefinitionId.String(),
		Sequence:                       sequence,
		Delta:                          delta,
		Issued:                         issued,
		Revoked:                        revoked,
		Timestamp:                      time.Now().Unix(),
	}
	record.SetId(deltaRecordId(revocationRegistryDefinitionId, sequence))
	setRevocationRegistryIdTags(record, revocationRegistryDefinitionId)
	record.SetTag(TagSequence, strconv.FormatUint(sequence, 10))
	return record
}

// ToJSON serializes the record to JSON
func (r *RevocationRegistryDeltaRecord) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// FromJSON deserializes the record from JSON
func (r *RevocationRegistryDeltaRecord) FromJSON(data []byte) error {
	return json.Unmarshal(data, r)
}

// Clone creates a deep copy of the record
func (r *RevocationRegistryDeltaRecord) Clone() storage.Record {
	return &RevocationRegistryDeltaRecord{
		BaseRecord:                     r.CloneBase(),
		RevocationRegistryDefinitionID: r.RevocationRegistryDefinitionID,
		Sequence:                       r.Sequence,
		Delta:                          r.Delta,
		Issued:                         append([]uint32(nil), r.Issued...),
		Revoked:                        append([]uint32(nil), r.Revoked...),
		Timestamp:                      r.Timestamp,
	}
}
