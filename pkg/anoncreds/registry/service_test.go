package registry_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	anonerrors "github.com/ajna-inc/revreg/pkg/anoncreds/errors"
	"github.com/ajna-inc/revreg/pkg/anoncreds/identifiers"
	"github.com/ajna-inc/revreg/pkg/anoncreds/registry"
	"github.com/ajna-inc/revreg/pkg/anoncreds/registry/inmemory"
	"github.com/ajna-inc/revreg/pkg/anoncreds/revocation"
	"github.com/ajna-inc/revreg/pkg/core/logger"
)

const (
	issuerDid = "NcYxiDXkpYi6ov5FcYDi1e"
	credDefId = "creddef:mem:did:mem:" + issuerDid + ":3:CL:schema:mem:did:mem:" + issuerDid + ":2:gvt:1.0:tag"
	revRegId  = "revreg:mem:did:mem:" + issuerDid + ":4:" + credDefId + ":CL_ACCUM:TAG_1"
)

func definition(id identifiers.RevocationRegistryId) revocation.RevocationRegistryDefinition {
	return revocation.NewRevocationRegistryDefinition(revocation.RevocationRegistryDefinitionV1{
		Id:           id,
		RevocDefType: revocation.RegistryTypeCLAccum,
		Tag:          "TAG_1",
		CredDefId:    credDefId,
		Value: revocation.RevocationRegistryDefinitionValue{
			IssuanceType:  revocation.IssuanceOnDemand,
			MaxCredNum:    4,
			PublicKeys:    revocation.RevocationRegistryDefinitionValuePublicKeys{AccumKey: revocation.MustCryptoValue(`{"z":"1"}`)},
			TailsHash:     "h",
			TailsLocation: "l",
		},
	})
}

func accum(v string) revocation.RevocationRegistry {
	return revocation.NewRevocationRegistry(revocation.RevocationRegistryV1{Value: revocation.MustCryptoValue(`{"accum":"` + v + `"}`)})
}

func newService(t *testing.T) *registry.Service {
	t.Helper()
	now := time.Unix(1_700_000_000, 0)
	mem := inmemory.NewMemoryRegistry(nil, inmemory.WithClock(func() time.Time { return now }))
	svc := registry.NewService(logger.NoopLogger{})
	svc.Register(mem)
	return svc
}

func TestService_RoutesByIdentifier(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	res, err := svc.RegisterRevocationRegistryDefinition(ctx, registry.RegisterRevocationRegistryDefinitionOptions{RevocationRegistryDefinition: definition(revRegId)})
	require.NoError(t, err)
	assert.Equal(t, registry.StateFinished, res.State)
	assert.Equal(t, identifiers.RevocationRegistryId(revRegId), res.RevocationRegistryDefinitionId)

	got, err := svc.GetRevocationRegistryDefinition(ctx, revRegId)
	require.NoError(t, err)
	assert.Equal(t, definition(revRegId), got)

	_, err = svc.GetRevocationRegistryDefinition(ctx, "revreg:other:did:other:"+issuerDid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no anoncreds registry found")
}

func TestService_RegisterDefinitionFailures(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	invalid, err := svc.RegisterRevocationRegistryDefinition(ctx, registry.RegisterRevocationRegistryDefinitionOptions{RevocationRegistryDefinition: definition("revreg:mem:broken")})
	require.NoError(t, err)
	assert.Equal(t, registry.StateFailed, invalid.State)
	assert.Contains(t, invalid.Reason, "Revocation Registry Id validation failed")

	unrouted := issuerDid + ":4:" + issuerDid + ":3:CL:12:tag:CL_ACCUM:TAG_1"
	res, err := svc.RegisterRevocationRegistryDefinition(ctx, registry.RegisterRevocationRegistryDefinitionOptions{RevocationRegistryDefinition: definition(identifiers.RevocationRegistryId(unrouted))})
	require.NoError(t, err)
	assert.Equal(t, registry.StateFailed, res.State)
	assert.Contains(t, res.Reason, "no anoncreds registry found")

	_, err = svc.RegisterRevocationRegistryDefinition(ctx, registry.RegisterRevocationRegistryDefinitionOptions{RevocationRegistryDefinition: definition(revRegId)})
	require.NoError(t, err)
	dup, err := svc.RegisterRevocationRegistryDefinition(ctx, registry.RegisterRevocationRegistryDefinitionOptions{RevocationRegistryDefinition: definition(revRegId)})
	require.NoError(t, err)
	assert.Equal(t, registry.StateFailed, dup.State)
}

func TestService_EntriesAndDeltas(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.RegisterRevocationRegistryDefinition(ctx, registry.RegisterRevocationRegistryDefinitionOptions{RevocationRegistryDefinition: definition(revRegId)})
	require.NoError(t, err)

	delta := revocation.NewRevocationRegistryDelta(revocation.RevocationRegistryDeltaV1{Value: revocation.MustCryptoValue(`{"issued":[1]}`)})
	var stamps []int64
	for _, v := range []string{"1", "2", "3"} {
		res, err := svc.RegisterRevocationRegistryEntry(ctx, registry.RegisterRevocationRegistryEntryOptions{
			RevocationRegistryDefinitionId: revRegId,
			RevocationRegistry:             accum(v),
			Delta:                          delta,
		})
		require.NoError(t, err)
		require.Equal(t, registry.StateFinished, res.State)
		stamps = append(stamps, res.Timestamp)
	}
	// the fixed clock is bumped so timestamps stay strictly increasing
	assert.Equal(t, []int64{1_700_000_000, 1_700_000_001, 1_700_000_002}, stamps)

	latest, ts, err := svc.GetRevocationRegistry(ctx, revRegId, 0)
	require.NoError(t, err)
	assert.Equal(t, stamps[2], ts)
	assert.Equal(t, accum("3"), latest)

	atSecond, ts, err := svc.GetRevocationRegistry(ctx, revRegId, stamps[1])
	require.NoError(t, err)
	assert.Equal(t, stamps[1], ts)
	assert.Equal(t, accum("2"), atSecond)

	_, _, err = svc.GetRevocationRegistry(ctx, revRegId, stamps[0]-1)
	assert.Error(t, err)

	entries, err := svc.GetRevocationRegistryDelta(ctx, revRegId, stamps[0], stamps[2])
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, stamps[1], entries[0].Timestamp)

	all, err := svc.GetRevocationRegistryDelta(ctx, revRegId, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.GetRevocationRegistryDelta(ctx, revRegId, 10, 5)
	assert.True(t, anonerrors.IsValidationError(err))

	missing, err := svc.RegisterRevocationRegistryEntry(ctx, registry.RegisterRevocationRegistryEntryOptions{
		RevocationRegistryDefinitionId: "revreg:mem:unknown",
		Delta:                          delta,
	})
	require.NoError(t, err)
	assert.Equal(t, registry.StateFailed, missing.State)
}

func TestMemoryRegistry_RejectsReversedInterval(t *testing.T) {
	ctx := context.Background()
	mem := inmemory.NewMemoryRegistry(nil)
	_, err := mem.RegisterRevocationRegistryDefinition(ctx, registry.RegisterRevocationRegistryDefinitionOptions{RevocationRegistryDefinition: definition(revRegId)})
	require.NoError(t, err)

	_, err = mem.GetRevocationRegistryDelta(ctx, revRegId, 10, 5)
	require.Error(t, err)
	assert.True(t, anonerrors.IsValidationError(err))

	// an open upper bound is not reversed
	entries, err := mem.GetRevocationRegistryDelta(ctx, revRegId, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestService_FirstMatchWins(t *testing.T) {
	ctx := context.Background()
	svc := registry.NewService(nil)
	first := inmemory.NewMemoryRegistry(regexp.MustCompile(`^revreg:mem:`))
	second := inmemory.NewMemoryRegistry(regexp.MustCompile(`^revreg:`))
	svc.Register(first)
	svc.Register(second)
	assert.Len(t, svc.GetRegistries(), 2)

	_, err := svc.RegisterRevocationRegistryDefinition(ctx, registry.RegisterRevocationRegistryDefinitionOptions{RevocationRegistryDefinition: definition(revRegId)})
	require.NoError(t, err)
	assert.Equal(t, []string{revRegId}, first.RevocationRegistryDefinitionIds())
	assert.Empty(t, second.RevocationRegistryDefinitionIds())
}
