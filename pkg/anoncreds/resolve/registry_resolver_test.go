package resolve_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajna-inc/revreg/pkg/anoncreds/identifiers"
	"github.com/ajna-inc/revreg/pkg/anoncreds/registry"
	"github.com/ajna-inc/revreg/pkg/anoncreds/registry/inmemory"
	"github.com/ajna-inc/revreg/pkg/anoncreds/resolve"
	"github.com/ajna-inc/revreg/pkg/anoncreds/revocation"
)

const (
	issuerDid          = "NcYxiDXkpYi6ov5FcYDi1e"
	qualifiedCredDef   = "creddef:sov:did:sov:" + issuerDid + ":3:CL:schema:sov:did:sov:" + issuerDid + ":2:gvt:1.0:tag"
	qualifiedRevReg    = "revreg:sov:did:sov:" + issuerDid + ":4:" + qualifiedCredDef + ":CL_ACCUM:TAG_1"
	unqualifiedCredDef = issuerDid + ":3:CL:" + issuerDid + ":2:gvt:1.0:tag"
	unqualifiedRevReg  = issuerDid + ":4:" + unqualifiedCredDef + ":CL_ACCUM:TAG_1"
)

// aliasRegistry serves the stored definition under both id forms, like a
// ledger that accepts legacy lookups
type aliasRegistry struct {
	*inmemory.MemoryRegistry
}

func (a aliasRegistry) GetRevocationRegistryDefinition(ctx context.Context, id string) (revocation.RevocationRegistryDefinition, error) {
	if id == unqualifiedRevReg {
		id = qualifiedRevReg
	}
	return a.MemoryRegistry.GetRevocationRegistryDefinition(ctx, id)
}

func newResolver(t *testing.T) *resolve.RegistryResolver {
	t.Helper()
	mem := inmemory.NewMemoryRegistry(regexp.MustCompile(`.*`))
	def := revocation.NewRevocationRegistryDefinition(revocation.RevocationRegistryDefinitionV1{
		Id:           qualifiedRevReg,
		RevocDefType: revocation.RegistryTypeCLAccum,
		Tag:          "TAG_1",
		CredDefId:    qualifiedCredDef,
		Value: revocation.RevocationRegistryDefinitionValue{
			IssuanceType:  revocation.IssuanceByDefault,
			MaxCredNum:    2,
			PublicKeys:    revocation.RevocationRegistryDefinitionValuePublicKeys{AccumKey: revocation.MustCryptoValue(`{}`)},
			TailsHash:     "h",
			TailsLocation: "l",
		},
	})
	res, err := mem.RegisterRevocationRegistryDefinition(context.Background(), registry.RegisterRevocationRegistryDefinitionOptions{RevocationRegistryDefinition: def})
	require.NoError(t, err)
	require.Equal(t, registry.StateFinished, res.State)
	return resolve.NewRegistryResolver(aliasRegistry{mem})
}

func TestResolveRevocationRegistryDefinition_KeepsRequestedForm(t *testing.T) {
	ctx := context.Background()
	r := newResolver(t)

	qualified, err := r.ResolveRevocationRegistryDefinition(ctx, qualifiedRevReg)
	require.NoError(t, err)
	assert.Equal(t, identifiers.RevocationRegistryId(qualifiedRevReg), qualified.ID())

	legacy, err := r.ResolveRevocationRegistryDefinition(ctx, unqualifiedRevReg)
	require.NoError(t, err)
	assert.Equal(t, identifiers.RevocationRegistryId(unqualifiedRevReg), legacy.ID())
	assert.Equal(t, identifiers.CredentialDefinitionId(unqualifiedCredDef), legacy.CredDefID())
	assert.Equal(t, qualified.Value(), legacy.Value())
}

func TestResolveRevocationRegistryDefinition_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := newResolver(t).ResolveRevocationRegistryDefinition(ctx, "revreg:sov:unknown")
	assert.Error(t, err)

	var nilResolver *resolve.RegistryResolver
	_, err = nilResolver.ResolveRevocationRegistryDefinition(ctx, qualifiedRevReg)
	assert.Error(t, err)
}
