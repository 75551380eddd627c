package issuer

import (
	"github.com/ajna-inc/revreg/pkg/anoncreds/repository"
	"github.com/ajna-inc/revreg/pkg/anoncreds/revocation"
)

// RevocationRegistryCreatedEvent is published once a registry is stored
type RevocationRegistryCreatedEvent struct {
	Definition revocation.RevocationRegistryDefinition
	RecordId   string
}

// RevocationRegistryPublishedEvent is published once the ledger accepts the
// definition and the initial accumulator
type RevocationRegistryPublishedEvent struct {
	Definition revocation.RevocationRegistryDefinition
	Timestamp  int64
}

// RevocationRegistryDeltaAppliedEvent carries the normalized indices of an applied delta
type RevocationRegistryDeltaAppliedEvent struct {
	Sequence  uint64
	Issued    []uint32
	Revoked   []uint32
	Timestamp int64
}

// RevocationRegistryStateChangedEvent reports a private record state transition
type RevocationRegistryStateChangedEvent struct {
	PreviousState repository.RevocationRegistryState
	State         repository.RevocationRegistryState
}
