package components

import (
	"testing"

	"fetchlist/internal/listview"
	"fetchlist/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groups() []listview.Group {
	return listview.GroupByListID([]model.ListItem{
		model.NewItem(1, 1, "Item 1"),
		model.NewItem(1, 2, "Item 2"),
		model.NewItem(3, 5, "Item 5"),
	})
}

func TestGroupTree(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		tree := NewGroupTree(false)
		assert.Contains(t, tree.View(), "No items")
		tree.MoveDown()
		tree.Toggle()
		tree.Open()
		tree.Close()
		assert.Equal(t, 0, tree.Cursor)
	})

	t.Run("collapsed headers", func(t *testing.T) {
		tree := NewGroupTree(false)
		tree.SetGroups(groups())
		require.Len(t, tree.VisibleRows, 2)
		view := tree.View()
		assert.Contains(t, view, "▸ List ID: 1 (2)")
		assert.Contains(t, view, "▸ List ID: 3 (1)")
		assert.NotContains(t, view, "Item 1")
	})

	t.Run("expanded rows", func(t *testing.T) {
		tree := NewGroupTree(true)
		tree.SetGroups(groups())
		require.Len(t, tree.VisibleRows, 5)
		assert.True(t, tree.VisibleRows[0].IsHeader())
		assert.False(t, tree.VisibleRows[1].Last)
		assert.True(t, tree.VisibleRows[2].Last)

		view := tree.View()
		assert.Contains(t, view, "▾ List ID: 1 (2)")
		assert.Contains(t, view, "├─ Item 1")
		assert.Contains(t, view, "└─ Item 2")
		assert.Contains(t, view, "#5")
	})

	t.Run("toggle on item collapses its group", func(t *testing.T) {
		tree := NewGroupTree(true)
		tree.SetGroups(groups())
		tree.MoveDown()
		tree.MoveDown()
		tree.Toggle()
		assert.Equal(t, 0, tree.Cursor)
		assert.Len(t, tree.VisibleRows, 3)
	})

	t.Run("cursor follows group across updates", func(t *testing.T) {
		tree := NewGroupTree(false)
		tree.SetGroups(groups())
		tree.MoveDown()

		tree.SetGroups(listview.GroupByListID([]model.ListItem{
			model.NewItem(0, 9, "Item 9"),
			model.NewItem(3, 5, "Item 5"),
		}))
		assert.Equal(t, 1, tree.Cursor)

		tree.SetGroups(listview.GroupByListID([]model.ListItem{model.NewItem(8, 1, "Item 1")}))
		assert.Equal(t, 0, tree.Cursor, "missing group resets the cursor")
	})

	t.Run("scrolling", func(t *testing.T) {
		tree := NewGroupTree(true)
		tree.Height = 2
		tree.SetGroups(groups())
		for i := 0; i < 4; i++ {
			tree.MoveDown()
		}
		assert.Equal(t, 4, tree.Cursor)
		assert.Equal(t, 3, tree.Offset)
		assert.Contains(t, tree.View(), "↑ 3 more")

		tree.MoveUp()
		tree.MoveUp()
		tree.MoveUp()
		assert.Equal(t, 1, tree.Offset)
		assert.Contains(t, tree.View(), "↓ 2 more")
	})
}

func TestStatusBar(t *testing.T) {
	s := NewStatusBar()
	assert.Empty(t, s.View())

	s.SetText("3 groups, 6 items")
	assert.Contains(t, s.View(), "3 groups, 6 items")

	s.SetLoading(true)
	assert.True(t, s.Loading())
	assert.Contains(t, s.View(), "3 groups, 6 items")
	assert.NotNil(t, s.Tick())
	assert.Nil(t, s.Update("not a tick"))
}
