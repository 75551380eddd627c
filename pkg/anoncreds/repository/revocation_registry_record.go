package repository

import (
	"encoding/json"
	"time"

	"github.com/ajna-inc/revreg/pkg/anoncreds/identifiers"
	"github.com/ajna-inc/revreg/pkg/anoncreds/revocation"
	"github.com/ajna-inc/revreg/pkg/core/storage"
)

// RevocationRegistryRecord holds the current accumulator state of a registry
// along with the credential indices that are issued and revoked.
type RevocationRegistryRecord struct {
	*storage.BaseRecord

	RevocationRegistryDefinitionID string                        `json:"revocationRegistryDefinitionId"`
	RevocationRegistry             revocation.RevocationRegistry `json:"revocationRegistry"`
	Issued                         []uint32                      `json:"issued,omitempty"`
	Revoked                        []uint32                      `json:"revoked,omitempty"`
	Sequence                       uint64                        `json:"sequence"`
	Timestamp                      int64                         `json:"timestamp"`
}

// NewRevocationRegistryRecord creates the initial state record of a registry
func NewRevocationRegistryRecord(
	revocationRegistryDefinitionId identifiers.RevocationRegistryId,
	registry revocation.RevocationRegistry,
) *RevocationRegistryRecord {
	record := &RevocationRegistryRecord{
		BaseRecord:                     storage.NewBaseRecord(RevocationRegistryRecordType),
		RevocationRegistryDefinitionID: revocationRegistryDefinitionId.String(),
		RevocationRegistry:             registry,
		Timestamp:                      time.Now().Unix(),
	}
	record.SetId(registryRecordId(revocationRegistryDefinitionId))
	setRevocationRegistryIdTags(record, revocationRegistryDefinitionId)
	return record
}

// ToJSON serializes the record to JSON
func (r *RevocationRegistryRecord) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// FromJSON deserializes the record from JSON
func (r *RevocationRegistryRecord) FromJSON(data []byte) error {
	return json.Unmarshal(data, r)
}

// Clone creates a deep copy of the record
func (r *RevocationRegistryRecord) Clone() storage.Record {
	return &RevocationRegistryRecord{
		BaseRecord:                     r.CloneBase(),
		RevocationRegistryDefinitionID: r.RevocationRegistryDefinitionID,
		RevocationRegistry:             r.RevocationRegistry,
		Issued:                         append([]uint32(nil), r.Issued...),
		Revoked:                        append([]uint32(nil), r.Revoked...),
		Sequence:                       r.Sequence,
		Timestamp:                      r.Timestamp,
	}
}
