package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems() []Item {
	return []Item{
		{ID: 0, Path: "frontend/api.md"},
		{ID: 1, Path: "frontend/forms/validation.md"},
		{ID: 2, Path: "frontend/forms/layout.md"},
		{ID: 3, Path: "review.md"},
	}
}

// visibleNames projects the visible list to node names for readable asserts.
func visibleNames(t *Tree) []string {
	var names []string
	for _, idx := range t.Visible() {
		names = append(names, t.Node(idx).Name)
	}
	return names
}

func TestBuild(t *testing.T) {
	tr := Build(sampleItems())

	// 4 leaves plus the frontend and forms folders
	assert.Equal(t, 6, tr.Len())
	assert.Equal(t, []string{
		"frontend", "api.md", "forms", "validation.md", "layout.md", "review.md",
	}, visibleNames(tr))

	t.Run("shared prefixes reuse one folder", func(t *testing.T) {
		folders := 0
		for i := 0; i < tr.Len(); i++ {
			if tr.Node(i).IsFolder {
				folders++
			}
		}
		assert.Equal(t, 2, folders)
	})

	t.Run("depth follows nesting", func(t *testing.T) {
		for _, idx := range tr.Visible() {
			n := tr.Node(idx)
			if n.Name == "validation.md" {
				assert.Equal(t, 2, n.Depth)
			}
			if n.Name == "review.md" {
				assert.Equal(t, 0, n.Depth)
			}
		}
	})
}

func TestCursorWraps(t *testing.T) {
	tr := Build(sampleItems())

	tr.Prev()
	assert.Equal(t, len(tr.Visible())-1, tr.Cursor())

	tr.Next()
	assert.Equal(t, 0, tr.Cursor())
}

func TestCollapseHidesSubtree(t *testing.T) {
	tr := Build(sampleItems())
	before := visibleNames(tr)

	// cursor starts on the frontend folder
	tr.Collapse()
	assert.Equal(t, []string{"frontend", "review.md"}, visibleNames(tr))

	t.Run("expand restores the original order", func(t *testing.T) {
		tr.Expand()
		assert.Equal(t, before, visibleNames(tr))
	})

	t.Run("collapse on a leaf is a no-op", func(t *testing.T) {
		tr.Next()
		require.False(t, tr.Node(tr.CurrentIndex()).IsFolder)
		tr.Collapse()
		assert.Equal(t, before, visibleNames(tr))
	})
}

func TestCollapseParent(t *testing.T) {
	tr := Build(sampleItems())

	// move onto validation.md, nested two levels deep
	for tr.Node(tr.CurrentIndex()).Name != "validation.md" {
		tr.Next()
	}

	tr.CollapseParent()
	current := tr.Node(tr.CurrentIndex())
	assert.Equal(t, "forms", current.Name)
	assert.False(t, current.Expanded)

	t.Run("repeating walks up one level", func(t *testing.T) {
		tr.CollapseParent()
		assert.Equal(t, "frontend", tr.Node(tr.CurrentIndex()).Name)
	})

	t.Run("no-op at the root level", func(t *testing.T) {
		before := visibleNames(tr)
		tr.CollapseParent()
		assert.Equal(t, before, visibleNames(tr))
	})
}

func TestLeafIDs(t *testing.T) {
	tr := Build(sampleItems())

	t.Run("folder collects its whole subtree", func(t *testing.T) {
		assert.Equal(t, []int{0, 1, 2}, tr.LeafIDs(tr.Visible()[0]))
	})

	t.Run("leaf returns itself", func(t *testing.T) {
		for _, idx := range tr.Visible() {
			if tr.Node(idx).Name == "review.md" {
				assert.Equal(t, []int{3}, tr.LeafIDs(idx))
			}
		}
	})
}

func TestAllSelected(t *testing.T) {
	tr := Build(sampleItems())
	root := tr.Visible()[0]

	selected := map[int]bool{0: true, 1: true, 2: true}
	pred := func(id int) bool { return selected[id] }

	assert.True(t, tr.AllSelected(root, pred))

	selected[1] = false
	assert.False(t, tr.AllSelected(root, pred))
}

func TestEmptyTree(t *testing.T) {
	tr := Build(nil)

	assert.Equal(t, -1, tr.CurrentIndex())
	tr.Next()
	tr.Prev()
	tr.ToggleExpand()
	tr.CollapseParent()
	assert.Empty(t, tr.Visible())
}
