package repository

import (
	"strconv"

	"github.com/ajna-inc/revreg/pkg/anoncreds/identifiers"
	"github.com/ajna-inc/revreg/pkg/core/storage"
)

// Record type names, used as storage categories
const (
	RevocationRegistryDefinitionRecordType        = "RevocationRegistryDefinitionRecord"
	RevocationRegistryDefinitionPrivateRecordType = "RevocationRegistryDefinitionPrivateRecord"
	RevocationRegistryRecordType                  = "RevocationRegistryRecord"
	RevocationRegistryDeltaRecordType             = "RevocationRegistryDeltaRecord"
)

// Tag names
const (
	TagRevocationRegistryDefinitionId            = "revocationRegistryDefinitionId"
	TagUnqualifiedRevocationRegistryDefinitionId = "unqualifiedRevocationRegistryDefinitionId"
	TagCredentialDefinitionId                    = "credentialDefinitionId"
	TagUnqualifiedCredentialDefinitionId         = "unqualifiedCredentialDefinitionId"
	TagTag                                       = "tag"
	TagMethodName                                = "methodName"
	TagState                                     = "state"
	TagSequence                                  = "sequence"
)

// setRevocationRegistryIdTags tags a record with a registry id in both forms
func setRevocationRegistryIdTags(r storage.Record, id identifiers.RevocationRegistryId) {
	r.SetTag(TagRevocationRegistryDefinitionId, id.String())
	r.SetTag(TagUnqualifiedRevocationRegistryDefinitionId, id.ToUnqualified().String())
}

// registryRecordId keys the per-registry records by registry id so the store
// itself refuses a second record for the same registry
func registryRecordId(id identifiers.RevocationRegistryId) string {
	return id.String()
}

// deltaRecordId keys a delta by registry id and sequence
func deltaRecordId(id identifiers.RevocationRegistryId, sequence uint64) string {
	return id.String() + "#" + strconv.FormatUint(sequence, 10)
}

// byRevocationRegistryId matches a registry id given in either form: the
// stored id as-is, or the unqualified form of whatever was stored.
func byRevocationRegistryId(id string) storage.Query {
	return *storage.NewQuery().WithOr(
		storage.Query{Equal: map[string]string{TagRevocationRegistryDefinitionId: id}},
		storage.Query{Equal: map[string]string{TagUnqualifiedRevocationRegistryDefinitionId: id}},
	)
}

func init() {
	storage.RegisterRecordType(RevocationRegistryDefinitionRecordType, func() storage.Record {
		return &RevocationRegistryDefinitionRecord{BaseRecord: storage.NewBaseRecord(RevocationRegistryDefinitionRecordType)}
	})
	storage.RegisterRecordType(RevocationRegistryDefinitionPrivateRecordType, func() storage.Record {
		return &RevocationRegistryDefinitionPrivateRecord{BaseRecord: storage.NewBaseRecord(RevocationRegistryDefinitionPrivateRecordType)}
	})
	storage.RegisterRecordType(RevocationRegistryRecordType, func() storage.Record {
		return &RevocationRegistryRecord{BaseRecord: storage.NewBaseRecord(RevocationRegistryRecordType)}
	})
	storage.RegisterRecordType(RevocationRegistryDeltaRecordType, func() storage.Record {
		return &RevocationRegistryDeltaRecord{BaseRecord: storage.NewBaseRecord(RevocationRegistryDeltaRecordType)}
	})
}
