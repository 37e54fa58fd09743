package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListItemJSON(t *testing.T) {
	var items []ListItem
	err := json.Unmarshal([]byte(`[
		{"id": 1, "listId": 2, "name": "Item 1"},
		{"id": 2, "listId": 2, "name": null},
		{"id": 3, "listId": 1},
		{"id": 4, "listId": 1, "name": "", "extra": true}
	]`), &items)
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.True(t, items[0].Equal(NewItem(2, 1, "Item 1")))
	assert.False(t, items[1].HasName())
	assert.False(t, items[2].HasName())
	assert.True(t, items[3].HasName())
	assert.Equal(t, "", items[3].NameOrEmpty())

	t.Run("case variant keys are unknown", func(t *testing.T) {
		var item ListItem
		require.NoError(t, json.Unmarshal([]byte(`{"listId": 3, "ID": 4, "Name": "Item 4"}`), &item))
		assert.True(t, item.Equal(NewUnnamedItem(3, 0)))
	})

	t.Run("encodes with the same keys", func(t *testing.T) {
		data, err := json.Marshal(NewItem(1, 2, "Item 2"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"listId": 1, "id": 2, "name": "Item 2"}`, string(data))
	})
}

func TestListItemEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b ListItem
		want bool
	}{
		{"same values", NewItem(1, 2, "x"), NewItem(1, 2, "x"), true},
		{"different name", NewItem(1, 2, "x"), NewItem(1, 2, "y"), false},
		{"different id", NewItem(1, 2, "x"), NewItem(1, 3, "x"), false},
		{"different list", NewItem(1, 2, "x"), NewItem(2, 2, "x"), false},
		{"both unnamed", NewUnnamedItem(1, 2), NewUnnamedItem(1, 2), true},
		{"one unnamed", NewUnnamedItem(1, 2), NewItem(1, 2, ""), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
			assert.Equal(t, tt.want, tt.b.Equal(tt.a))
		})
	}
}

func TestListItemString(t *testing.T) {
	assert.Equal(t, `{1,2,"Item 2"}`, NewItem(1, 2, "Item 2").String())
	assert.Equal(t, "{1,2,null}", NewUnnamedItem(1, 2).String())
}

func TestViewState(t *testing.T) {
	t.Run("constructors", func(t *testing.T) {
		assert.True(t, Loading().IsLoading())
		assert.False(t, Loading().IsTerminal())
		assert.True(t, Success(nil).IsSuccess())
		assert.True(t, Success(nil).IsTerminal())
		assert.True(t, Failure().IsError())
		assert.Nil(t, Failure().Detail)
		require.NotNil(t, FailureWithDetail("boom").Detail)
		assert.Equal(t, "boom", *FailureWithDetail("boom").Detail)
	})

	t.Run("empty success is not an error", func(t *testing.T) {
		empty := Success(nil)
		assert.NotNil(t, empty.Items)
		assert.Empty(t, empty.Items)
		assert.False(t, empty.Equal(Failure()))
		assert.True(t, empty.Equal(Success([]ListItem{})))
	})

	t.Run("equality", func(t *testing.T) {
		a := Success([]ListItem{NewItem(1, 1, "Item 1")})
		b := Success([]ListItem{NewItem(1, 1, "Item 1")})
		c := Success([]ListItem{NewItem(1, 1, "Item 2")})
		assert.True(t, a.Equal(b))
		assert.False(t, a.Equal(c))
		assert.True(t, Loading().Equal(Loading()))
		assert.False(t, Loading().Equal(Failure()))
		assert.True(t, Failure().Equal(Failure()))
		assert.False(t, Failure().Equal(FailureWithDetail("x")))
		assert.True(t, FailureWithDetail("x").Equal(FailureWithDetail("x")))
	})

	t.Run("phase names", func(t *testing.T) {
		assert.Equal(t, "loading", PhaseLoading.String())
		assert.Equal(t, "success", PhaseSuccess.String())
		assert.Equal(t, "error", PhaseError.String())
		assert.Equal(t, "unknown", Phase(42).String())
	})
}
