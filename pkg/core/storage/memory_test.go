package storage_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	anonerrors "github.com/ajna-inc/revreg/pkg/anoncreds/errors"
	"github.com/ajna-inc/revreg/pkg/core/storage"
)

type noteRecord struct {
	*storage.BaseRecord
	Body string `json:"body"`
}

const noteType = "NoteRecord"

func init() {
	storage.RegisterRecordType(noteType, func() storage.Record {
		return &noteRecord{BaseRecord: &storage.BaseRecord{Type: noteType}}
	})
}

func newNote(body string, tags map[string]string) *noteRecord {
	r := &noteRecord{BaseRecord: storage.NewBaseRecord(noteType), Body: body}
	for k, v := range tags {
		r.SetTag(k, v)
	}
	return r
}

func (r *noteRecord) Clone() storage.Record {
	return &noteRecord{BaseRecord: r.CloneBase(), Body: r.Body}
}

func (r *noteRecord) ToJSON() ([]byte, error) { return json.Marshal(r) }

func (r *noteRecord) FromJSON(data []byte) error { return json.Unmarshal(data, r) }

func TestMemoryStorage_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorageService()

	note := newNote("hello", map[string]string{"kind": "greeting"})
	require.NoError(t, store.Save(ctx, note))

	got, err := store.GetById(ctx, noteType, note.GetId())
	require.NoError(t, err)
	loaded, ok := got.(*noteRecord)
	require.True(t, ok)
	assert.Equal(t, "hello", loaded.Body)

	kind, ok := loaded.GetTag("kind")
	require.True(t, ok)
	assert.Equal(t, "greeting", kind)

	// mutating the loaded copy does not leak into the store
	loaded.SetTag("kind", "changed")
	again, err := store.GetById(ctx, noteType, note.GetId())
	require.NoError(t, err)
	kind, _ = again.GetTag("kind")
	assert.Equal(t, "greeting", kind)
}

func TestMemoryStorage_Errors(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorageService()

	note := newNote("a", nil)
	require.NoError(t, store.Save(ctx, note))

	err := store.Save(ctx, note)
	require.Error(t, err)
	assert.True(t, errors.Is(err, anonerrors.ErrRecordDuplicate))

	_, err = store.GetById(ctx, noteType, "missing")
	assert.True(t, errors.Is(err, anonerrors.ErrRecordNotFound))

	err = store.Update(ctx, newNote("never saved", nil))
	assert.True(t, errors.Is(err, anonerrors.ErrRecordNotFound))

	require.NoError(t, store.Delete(ctx, note))
	err = store.DeleteById(ctx, noteType, note.GetId())
	assert.True(t, errors.Is(err, anonerrors.ErrRecordNotFound))
}

func TestMemoryStorage_Update(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorageService()

	note := newNote("v1", map[string]string{"state": "draft"})
	require.NoError(t, store.Save(ctx, note))

	note.Body = "v2"
	note.SetTag("state", "final")
	require.NoError(t, store.Update(ctx, note))

	found, err := store.FindByQuery(ctx, noteType, *storage.NewQuery().WithTag("state", "final"))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "v2", found[0].(*noteRecord).Body)
}

func TestMemoryStorage_FindByQuery(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorageService()

	for _, n := range []*noteRecord{
		newNote("1", map[string]string{"group": "a", "color": "red"}),
		newNote("2", map[string]string{"group": "a", "color": "blue"}),
		newNote("3", map[string]string{"group": "b", "color": "red"}),
		newNote("4", map[string]string{"group": "a", "color": "red"}),
	} {
		require.NoError(t, store.Save(ctx, n))
	}

	bodies := func(records []storage.Record) []string {
		out := make([]string, 0, len(records))
		for _, r := range records {
			out = append(out, r.(*noteRecord).Body)
		}
		return out
	}

	all, err := store.GetAll(ctx, noteType)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3", "4"}, bodies(all))

	red, err := store.FindByQuery(ctx, noteType, *storage.NewQuery().WithTag("group", "a").WithTag("color", "red"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "4"}, bodies(red))

	either, err := store.FindByQuery(ctx, noteType, *storage.NewQuery().WithOr(
		storage.Query{Equal: map[string]string{"color": "blue"}},
		storage.Query{Equal: map[string]string{"group": "b"}},
	))
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3"}, bodies(either))

	paged, err := store.FindByQuery(ctx, noteType, *storage.NewQuery().WithOffset(1).WithLimit(2))
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3"}, bodies(paged))

	none, err := store.FindByQuery(ctx, noteType, *storage.NewQuery().WithOffset(10))
	require.NoError(t, err)
	assert.Empty(t, none)

	other, err := store.GetAll(ctx, "OtherRecord")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestMemoryStorage_UnregisteredTypeFallsBackToBaseRecord(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStorageService()

	base := storage.NewBaseRecord("Unregistered")
	base.SetTag("k", "v")
	require.NoError(t, store.Save(ctx, base))

	got, err := store.GetById(ctx, "Unregistered", base.GetId())
	require.NoError(t, err)
	_, isBase := got.(*storage.BaseRecord)
	assert.True(t, isBase)
	v, _ := got.GetTag("k")
	assert.Equal(t, "v", v)
}

func TestMemoryStorage_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := storage.NewMemoryStorageService()
	assert.ErrorIs(t, store.Save(ctx, newNote("x", nil)), context.Canceled)
	_, err := store.GetAll(ctx, noteType)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQuery_Matches(t *testing.T) {
	tags := map[string]string{"a": "1", "b": "2"}
	assert.True(t, storage.Query{}.Matches(tags))
	assert.True(t, storage.Query{Equal: map[string]string{"a": "1"}}.Matches(tags))
	assert.False(t, storage.Query{Equal: map[string]string{"a": "2"}}.Matches(tags))
	assert.False(t, storage.Query{Equal: map[string]string{"c": "1"}}.Matches(tags))
	assert.True(t, storage.Query{Or: []storage.Query{{Equal: map[string]string{"a": "9"}}, {Equal: map[string]string{"b": "2"}}}}.Matches(tags))
	assert.False(t, storage.Query{Or: []storage.Query{{Equal: map[string]string{"a": "9"}}}}.Matches(tags))
}

func TestRecordFactory(t *testing.T) {
	assert.True(t, storage.RecordTypeRegistered(noteType))
	assert.False(t, storage.RecordTypeRegistered("Nope"))
	assert.Contains(t, storage.GetRegisteredTypes(), noteType)

	_, isNote := storage.CreateRecord(noteType).(*noteRecord)
	assert.True(t, isNote)
}
