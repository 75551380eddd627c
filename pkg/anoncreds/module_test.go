package anoncreds_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajna-inc/revreg/pkg/anoncreds"
	"github.com/ajna-inc/revreg/pkg/anoncreds/issuer"
	"github.com/ajna-inc/revreg/pkg/anoncreds/registry/inmemory"
	"github.com/ajna-inc/revreg/pkg/anoncreds/revocation"
	"github.com/ajna-inc/revreg/pkg/core/events"
	"github.com/ajna-inc/revreg/pkg/core/logger"
)

const (
	issuerDid = "did:mem:NcYxiDXkpYi6ov5FcYDi1e"
	credDefId = "creddef:mem:" + issuerDid + ":3:CL:schema:mem:" + issuerDid + ":2:gvt:1.0:tag"
)

type stubProvider struct{}

func (stubProvider) CreateRevocationRegistry(ctx context.Context, req issuer.CreateRevocationRegistryRequest) (*issuer.CreatedRevocationRegistry, error) {
	return &issuer.CreatedRevocationRegistry{
		Value: revocation.RevocationRegistryDefinitionValue{
			IssuanceType:  req.IssuanceType,
			MaxCredNum:    req.MaxCredNum,
			PublicKeys:    revocation.RevocationRegistryDefinitionValuePublicKeys{AccumKey: revocation.MustCryptoValue(`{"z":"1 0"}`)},
			TailsHash:     "hash",
			TailsLocation: req.TailsDirPath + "/hash",
		},
		Private:  revocation.RevocationRegistryDefinitionPrivate{Value: revocation.MustCryptoValue(`{}`)},
		Registry: revocation.NewRevocationRegistry(revocation.RevocationRegistryV1{Value: revocation.MustCryptoValue(`{"accum":0}`)}),
	}, nil
}

func (stubProvider) UpdateRevocationRegistry(
	ctx context.Context,
	definition revocation.RevocationRegistryDefinition,
	current revocation.RevocationRegistry,
	issued, revoked []uint32,
) (*revocation.RevocationRegistry, *revocation.RevocationRegistryDelta, error) {
	next := revocation.NewRevocationRegistry(revocation.RevocationRegistryV1{Value: revocation.MustCryptoValue(`{"accum":1}`)})
	delta := revocation.NewRevocationRegistryDelta(revocation.RevocationRegistryDeltaV1{Value: revocation.MustCryptoValue(`{"accum":1}`)})
	return &next, &delta, nil
}

func TestNewModule_MemoryStorage(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	ledger := inmemory.NewMemoryRegistry(nil, inmemory.WithClock(func() time.Time { return now }))

	m, err := anoncreds.NewModule(ctx, anoncreds.ModuleConfig{
		Revocation: anoncreds.RevocationDefaults{MaxCredNum: 10, TailsDirPath: "/tmp/tails"},
	}, stubProvider{},
		anoncreds.WithRegistry(ledger),
		anoncreds.WithLogger(logger.NoopLogger{}),
		anoncreds.WithPrometheusRegisterer(prometheus.NewRegistry()),
	)
	require.NoError(t, err)
	defer func() { assert.NoError(t, m.Close()) }()

	assert.Equal(t, anoncreds.StorageMemory, m.Config.Storage.Type)
	assert.Len(t, m.Registries.GetRegistries(), 1)

	var createdEvents int
	m.Events.Subscribe(events.RevocationRegistryCreated, func(events.Event) { createdEvents++ })

	created, err := m.Issuer.CreateRevocationRegistry(ctx, issuer.CreateOptions{
		IssuerDid:              issuerDid,
		CredentialDefinitionId: credDefId,
		Tag:                    "default",
	})
	require.NoError(t, err)
	assert.Equal(t, uint32(10), created.Definition.Value().MaxCredNum)
	assert.Equal(t, revocation.IssuanceByDefault, created.Definition.Value().IssuanceType)
	assert.Equal(t, now.Unix(), created.Timestamp)
	assert.Equal(t, 1, createdEvents)

	resolved, err := m.Resolver.ResolveRevocationRegistryDefinition(ctx, created.Definition.ID().String())
	require.NoError(t, err)
	assert.Equal(t, created.Definition, resolved)

	_, err = m.Issuer.ApplyDelta(ctx, created.Definition.ID().String(), nil, []uint32{3})
	require.NoError(t, err)
}

func TestNewModule_WithoutLedger(t *testing.T) {
	m, err := anoncreds.NewModule(context.Background(), anoncreds.ModuleConfig{}, stubProvider{},
		anoncreds.WithLogger(logger.NoopLogger{}),
		anoncreds.WithPrometheusRegisterer(prometheus.NewRegistry()),
	)
	require.NoError(t, err)
	assert.Empty(t, m.Registries.GetRegistries())

	created, err := m.Issuer.CreateRevocationRegistry(context.Background(), issuer.CreateOptions{
		IssuerDid:              issuerDid,
		CredentialDefinitionId: credDefId,
		Tag:                    "local",
	})
	require.NoError(t, err)
	assert.Zero(t, created.Timestamp)
}

func TestNewModule_RejectsInvalidConfig(t *testing.T) {
	_, err := anoncreds.NewModule(context.Background(), anoncreds.ModuleConfig{LogFormat: "xml"}, stubProvider{},
		anoncreds.WithPrometheusRegisterer(prometheus.NewRegistry()))
	assert.Error(t, err)

	_, err = anoncreds.NewModule(context.Background(), anoncreds.ModuleConfig{}, nil,
		anoncreds.WithLogger(logger.NoopLogger{}),
		anoncreds.WithPrometheusRegisterer(prometheus.NewRegistry()))
	assert.Error(t, err)
}
