package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajna-inc/revreg/pkg/core/storage"
)

func TestBuildCondition(t *testing.T) {
	where, args, err := buildCondition(storage.Query{}, []interface{}{"cat"})
	require.NoError(t, err)
	assert.Empty(t, where)
	assert.Len(t, args, 1)

	where, args, err = buildCondition(*storage.NewQuery().WithTag("a", "1"), []interface{}{"cat"})
	require.NoError(t, err)
	assert.Equal(t, "tags @> $2::jsonb", where)
	require.Len(t, args, 2)
	assert.JSONEq(t, `{"a":"1"}`, args[1].(string))

	q := storage.NewQuery().WithTag("a", "1").WithOr(
		storage.Query{Equal: map[string]string{"b": "2"}},
		storage.Query{Equal: map[string]string{"c": "3"}},
	)
	where, args, err = buildCondition(*q, []interface{}{"cat"})
	require.NoError(t, err)
	assert.Equal(t, "tags @> $2::jsonb AND (tags @> $3::jsonb OR tags @> $4::jsonb)", where)
	assert.Len(t, args, 4)

	where, _, err = buildCondition(storage.Query{Or: []storage.Query{{}}}, []interface{}{"cat"})
	require.NoError(t, err)
	assert.Equal(t, "(TRUE)", where)
}
