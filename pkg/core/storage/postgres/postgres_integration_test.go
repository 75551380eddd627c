//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	anonerrors "github.com/ajna-inc/revreg/pkg/anoncreds/errors"
	"github.com/ajna-inc/revreg/pkg/core/storage"
	"github.com/ajna-inc/revreg/pkg/core/storage/postgres"
)

func newStore(t *testing.T) *postgres.Store {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("revreg"),
		tcpostgres.WithUsername("revreg"),
		tcpostgres.WithPassword("revreg"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	testcontainers.CleanupContainer(t, container)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	store, err := postgres.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(ctx))
	return store
}

func TestStore_CRUD(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	first := storage.NewBaseRecord("Thing")
	first.SetTag("group", "a")
	second := storage.NewBaseRecord("Thing")
	second.SetTag("group", "b")

	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	err := store.Save(ctx, first)
	assert.True(t, errors.Is(err, anonerrors.ErrRecordDuplicate))

	got, err := store.GetById(ctx, "Thing", first.GetId())
	require.NoError(t, err)
	group, _ := got.GetTag("group")
	assert.Equal(t, "a", group)

	found, err := store.FindByQuery(ctx, "Thing", *storage.NewQuery().WithOr(
		storage.Query{Equal: map[string]string{"group": "a"}},
		storage.Query{Equal: map[string]string{"group": "b"}},
	))
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, first.GetId(), found[0].GetId())

	paged, err := store.FindByQuery(ctx, "Thing", *storage.NewQuery().WithOffset(1).WithLimit(1))
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, second.GetId(), paged[0].GetId())

	first.SetTag("group", "c")
	require.NoError(t, store.Update(ctx, first))
	found, err = store.FindByQuery(ctx, "Thing", *storage.NewQuery().WithTag("group", "c"))
	require.NoError(t, err)
	assert.Len(t, found, 1)

	require.NoError(t, store.Delete(ctx, first))
	_, err = store.GetById(ctx, "Thing", first.GetId())
	assert.True(t, errors.Is(err, anonerrors.ErrRecordNotFound))
	assert.True(t, errors.Is(store.DeleteById(ctx, "Thing", first.GetId()), anonerrors.ErrRecordNotFound))
}
