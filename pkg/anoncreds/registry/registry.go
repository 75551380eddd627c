package registry

import (
	"context"
	"regexp"

	"github.com/ajna-inc/revreg/pkg/anoncreds/revocation"
)

// Registry defines the pluggable interface a ledger backend implements for
// revocation registries. Implementations can back this interface with Indy,
// other ledgers, or in-memory stores.
type Registry interface {
	// MethodName returns a human-readable method name (e.g., "indy", "memory").
	MethodName() string
	// SupportedIdentifier returns a regex that indicates which identifiers this registry supports.
	SupportedIdentifier() *regexp.Regexp

	// Reads
	GetRevocationRegistryDefinition(ctx context.Context, revRegDefId string) (revocation.RevocationRegistryDefinition, error)
	// GetRevocationRegistry returns the accumulator as of timestamp (0 for latest)
	// and the timestamp of the entry that produced it.
	GetRevocationRegistry(ctx context.Context, revRegDefId string, timestamp int64) (revocation.RevocationRegistry, int64, error)
	// GetRevocationRegistryDelta returns the entries with from < timestamp <= to, oldest first.
	GetRevocationRegistryDelta(ctx context.Context, revRegDefId string, from, to int64) ([]RevocationRegistryEntry, error)

	// Writes
	RegisterRevocationRegistryDefinition(ctx context.Context, opts RegisterRevocationRegistryDefinitionOptions) (RegisterRevocationRegistryDefinitionResult, error)
	RegisterRevocationRegistryEntry(ctx context.Context, opts RegisterRevocationRegistryEntryOptions) (RegisterRevocationRegistryEntryResult, error)
}
