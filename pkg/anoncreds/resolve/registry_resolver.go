// Package resolve fetches revocation registry objects from a registry and
// returns them in the identifier form the caller asked with.
package resolve

import (
	"context"
	"fmt"

	"github.com/ajna-inc/revreg/pkg/anoncreds/identifiers"
	"github.com/ajna-inc/revreg/pkg/anoncreds/registry"
	"github.com/ajna-inc/revreg/pkg/anoncreds/revocation"
)

// RegistryResolver adapts a registry.Registry for consumers that may still
// speak legacy unqualified identifiers. A definition requested by its
// unqualified id is returned unqualified.
type RegistryResolver struct {
	reg registry.Registry
}

func NewRegistryResolver(reg registry.Registry) *RegistryResolver {
	return &RegistryResolver{reg: reg}
}

// ResolveRevocationRegistryDefinition fetches a definition and checks that it
// is the one requested. The returned definition has passed Validate.
func (r *RegistryResolver) ResolveRevocationRegistryDefinition(ctx context.Context, revRegDefId string) (revocation.RevocationRegistryDefinition, error) {
	if r == nil || r.reg == nil {
		return revocation.RevocationRegistryDefinition{}, fmt.Errorf("resolver not initialized")
	}
	def, err := r.reg.GetRevocationRegistryDefinition(ctx, revRegDefId)
	if err != nil {
		return revocation.RevocationRegistryDefinition{}, err
	}
	if err := def.Validate(); err != nil {
		return revocation.RevocationRegistryDefinition{}, fmt.Errorf("registry returned an invalid definition for %s: %w", revRegDefId, err)
	}

	requested := identifiers.RevocationRegistryId(revRegDefId)
	if def.ID() != requested && def.ID().ToUnqualified() != requested.ToUnqualified() {
		return revocation.RevocationRegistryDefinition{}, fmt.Errorf("registry returned definition %s for %s", def.ID(), revRegDefId)
	}
	if !requested.IsFullyQualified() {
		return def.ToUnqualified(), nil
	}
	return def, nil
}

// ResolveRevocationRegistry fetches the accumulator at timestamp (0 for latest)
func (r *RegistryResolver) ResolveRevocationRegistry(ctx context.Context, revRegDefId string, timestamp int64) (revocation.RevocationRegistry, int64, error) {
	if r == nil || r.reg == nil {
		return revocation.RevocationRegistry{}, 0, fmt.Errorf("resolver not initialized")
	}
	return r.reg.GetRevocationRegistry(ctx, revRegDefId, timestamp)
}
