package issuer

import (
	"context"

	"github.com/ajna-inc/revreg/pkg/anoncreds/identifiers"
	"github.com/ajna-inc/revreg/pkg/anoncreds/revocation"
)

// CreateRevocationRegistryRequest carries everything the accumulator library
// needs to generate a new registry. The config has already been validated and
// defaulted.
type CreateRevocationRegistryRequest struct {
	IssuerDid              identifiers.DidValue
	CredentialDefinitionId identifiers.CredentialDefinitionId
	RevocationRegistryId   identifiers.RevocationRegistryId
	Tag                    string
	IssuanceType           revocation.IssuanceType
	MaxCredNum             uint32
	TailsDirPath           string
}

// CreatedRevocationRegistry is the output of registry generation
type CreatedRevocationRegistry struct {
	Value    revocation.RevocationRegistryDefinitionValue
	Private  revocation.RevocationRegistryDefinitionPrivate
	Registry revocation.RevocationRegistry
}

// CryptoProvider is the cryptographic accumulator library. Its values are
// opaque here and carried as revocation.CryptoValue.
type CryptoProvider interface {
	CreateRevocationRegistry(ctx context.Context, req CreateRevocationRegistryRequest) (*CreatedRevocationRegistry, error)
	UpdateRevocationRegistry(
		ctx context.Context,
		definition revocation.RevocationRegistryDefinition,
		current revocation.RevocationRegistry,
		issued, revoked []uint32,
	) (*revocation.RevocationRegistry, *revocation.RevocationRegistryDelta, error)
}
