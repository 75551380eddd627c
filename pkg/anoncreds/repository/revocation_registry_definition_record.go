package repository

import (
	"encoding/json"

	"github.com/ajna-inc/revreg/pkg/anoncreds/revocation"
	"github.com/ajna-inc/revreg/pkg/core/storage"
)

// RevocationRegistryDefinitionRecord stores a public revocation registry definition
type RevocationRegistryDefinitionRecord struct {
	*storage.BaseRecord

	RevocationRegistryDefinitionID string                                  `json:"revocationRegistryDefinitionId"`
	RevocationRegistryDefinition   revocation.RevocationRegistryDefinition `json:"revocationRegistryDefinition"`
	MethodName                     string                                  `json:"methodName,omitempty"`
}

// NewRevocationRegistryDefinitionRecord creates a new definition record
func NewRevocationRegistryDefinitionRecord(
	definition revocation.RevocationRegistryDefinition,
	methodName string,
) *RevocationRegistryDefinitionRecord {
	record := &RevocationRegistryDefinitionRecord{
		BaseRecord:                     storage.NewBaseRecord(RevocationRegistryDefinitionRecordType),
		RevocationRegistryDefinitionID: definition.ID().String(),
		RevocationRegistryDefinition:   definition,
		MethodName:                     methodName,
	}

	record.SetId(registryRecordId(definition.ID()))
	setRevocationRegistryIdTags(record, definition.ID())
	record.SetTag(TagCredentialDefinitionId, definition.CredDefID().String())
	record.SetTag(TagUnqualifiedCredentialDefinitionId, definition.CredDefID().ToUnqualified().String())
	record.SetTag(TagTag, definition.Tag())
	if methodName != "" {
		record.SetTag(TagMethodName, methodName)
	}

	return record
}

// ToJSON serializes the record to JSON
func (r *RevocationRegistryDefinitionRecord) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// FromJSON deserializes the record from JSON
func (r *RevocationRegistryDefinitionRecord) FromJSON(data []byte) error {
	return json.Unmarshal(data, r)
}

// Clone creates a copy of the record; the definition envelope is immutable
func (r *RevocationRegistryDefinitionRecord) Clone() storage.Record {
	return &RevocationRegistryDefinitionRecord{
		BaseRecord:                     r.CloneBase(),
		RevocationRegistryDefinitionID: r.RevocationRegistryDefinitionID,
		RevocationRegistryDefinition:   r.RevocationRegistryDefinition,
		MethodName:                     r.MethodName,
	}
}
