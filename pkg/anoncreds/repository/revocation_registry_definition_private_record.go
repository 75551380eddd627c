package repository

import (
	"encoding/json"

	"github.com/ajna-inc/revreg/pkg/anoncreds/identifiers"
	"github.com/ajna-inc/revreg/pkg/anoncreds/revocation"
	"github.com/ajna-inc/revreg/pkg/core/storage"
)

// RevocationRegistryState is the lifecycle state of an issuer's registry
type RevocationRegistryState string

const (
	RevocationRegistryStateCreated RevocationRegistryState = "created"
	RevocationRegistryStateActive  RevocationRegistryState = "active"
	RevocationRegistryStateFull    RevocationRegistryState = "full"
)

// RevocationRegistryDefinitionPrivateRecord stores the private part of a registry definition
type RevocationRegistryDefinitionPrivateRecord struct {
	*storage.BaseRecord

	RevocationRegistryDefinitionID string                                         `json:"revocationRegistryDefinitionId"`
	Value                          revocation.RevocationRegistryDefinitionPrivate `json:"value"` // Private key material
	State                          RevocationRegistryState                        `json:"state"`
}

// NewRevocationRegistryDefinitionPrivateRecord creates a new private record in the created state
func NewRevocationRegistryDefinitionPrivateRecord(
	revocationRegistryDefinitionId identifiers.RevocationRegistryId,
	value revocation.RevocationRegistryDefinitionPrivate,
) *RevocationRegistryDefinitionPrivateRecord {
	record := &RevocationRegistryDefinitionPrivateRecord{
		BaseRecord:                     storage.NewBaseRecord(RevocationRegistryDefinitionPrivateRecordType),
		RevocationRegistryDefinitionID: revocationRegistryDefinitionId.String(),
		Value:                          value,
	}
	record.SetId(registryRecordId(revocationRegistryDefinitionId))
	setRevocationRegistryIdTags(record, revocationRegistryDefinitionId)
	record.SetState(RevocationRegistryStateCreated)
	return record
}

// SetState moves the record to a new state and keeps the tag in sync
func (r *RevocationRegistryDefinitionPrivateRecord) SetState(state RevocationRegistryState) {
	r.State = state
	r.SetTag(TagState, string(state))
}

// ToJSON serializes the record to JSON
func (r *RevocationRegistryDefinitionPrivateRecord) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// FromJSON deserializes the record from JSON
func (r *RevocationRegistryDefinitionPrivateRecord) FromJSON(data []byte) error {
	return json.Unmarshal(data, r)
}

// Clone creates a copy of the record
func (r *RevocationRegistryDefinitionPrivateRecord) Clone() storage.Record {
	return &RevocationRegistryDefinitionPrivateRecord{
		BaseRecord:                     r.CloneBase(),
		RevocationRegistryDefinitionID: r.RevocationRegistryDefinitionID,
		Value:                          r.Value,
		State:                          r.State,
	}
}
