package registry

import (
	"github.com/ajna-inc/revreg/pkg/anoncreds/identifiers"
	"github.com/ajna-inc/revreg/pkg/anoncreds/revocation"
)

// RegistrationState is the outcome of a write to a registry
type RegistrationState string

const (
	StateFinished RegistrationState = "finished"
	StateFailed   RegistrationState = "failed"
	StateWait     RegistrationState = "wait"
)

type RegisterRevocationRegistryDefinitionOptions struct {
	RevocationRegistryDefinition revocation.RevocationRegistryDefinition
}

type RegisterRevocationRegistryDefinitionResult struct {
	State                          RegistrationState
	RevocationRegistryDefinition   revocation.RevocationRegistryDefinition
	RevocationRegistryDefinitionId identifiers.RevocationRegistryId
	Reason                         string
}

// RegisterRevocationRegistryEntryOptions publishes a delta together with the
// accumulator it produces
type RegisterRevocationRegistryEntryOptions struct {
	RevocationRegistryDefinitionId identifiers.RevocationRegistryId
	RevocationRegistry             revocation.RevocationRegistry
	Delta                          revocation.RevocationRegistryDelta
}

type RegisterRevocationRegistryEntryResult struct {
	State     RegistrationState
	Timestamp int64
	Reason    string
}

// RevocationRegistryEntry is a delta as published at a ledger timestamp
type RevocationRegistryEntry struct {
	Timestamp          int64
	RevocationRegistry revocation.RevocationRegistry
	Delta              revocation.RevocationRegistryDelta
}
