// Package tree implements the hierarchical selection model over
// slash-delimited artifact names. Nodes live in an arena and refer to each
// other by index, so parent/child links never form ownership cycles.
package tree

import "strings"

// Item is one leaf to insert: an opaque identity plus a path-like name.
type Item struct {
	ID   int
	Path string
}

// Node is either a folder or a leaf in the arena.
type Node struct {
	Name     string
	IsFolder bool
	Expanded bool
	Children []int
	Depth    int
	// Parent is the arena index of the parent node, -1 for roots.
	Parent int
	// LeafID is the item identity for leaves, -1 for folders.
	LeafID int
}

// Tree is the selection forest plus its derived visible list and cursor.
type Tree struct {
	nodes   []Node
	roots   []int
	visible []int
	cursor  int
}

// Build constructs a forest from the flat item list. Each path is split on
// '/'; folder nodes are created on demand and reused for shared prefixes, so
// sibling order follows the insertion order of the item list.
func Build(items []Item) *Tree {
	t := &Tree{}
	// folder arena index by full path prefix
	folders := make(map[string]int)

	for _, item := range items {
		segments := strings.Split(item.Path, "/")
		parent := -1
		prefix := ""

		for _, segment := range segments[:len(segments)-1] {
			if prefix == "" {
				prefix = segment
			} else {
				prefix += "/" + segment
			}
			idx, ok := folders[prefix]
			if !ok {
				idx = t.addNode(Node{
					Name:     segment,
					IsFolder: true,
					Expanded: true,
					Parent:   parent,
					Depth:    depthOf(t, parent),
					LeafID:   -1,
				})
				folders[prefix] = idx
			}
			parent = idx
		}

		t.addNode(Node{
			Name:   segments[len(segments)-1],
			Parent: parent,
			Depth:  depthOf(t, parent),
			LeafID: item.ID,
		})
	}

	t.rebuildVisible()
	return t
}

func depthOf(t *Tree, parent int) int {
	if parent < 0 {
		return 0
	}
	return t.nodes[parent].Depth + 1
}

func (t *Tree) addNode(n Node) int {
	idx := len(t.nodes)
	t.nodes = append(t.nodes, n)
	if n.Parent < 0 {
		t.roots = append(t.roots, idx)
	} else {
		t.nodes[n.Parent].Children = append(t.nodes[n.Parent].Children, idx)
	}
	return idx
}

// Len returns the number of nodes in the arena.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node at an arena index.
func (t *Tree) Node(idx int) *Node {
	return &t.nodes[idx]
}

// Visible returns the arena indices currently visible, in render order.
func (t *Tree) Visible() []int {
	return t.visible
}

// Cursor returns the position within the visible list.
func (t *Tree) Cursor() int {
	return t.cursor
}

// CurrentIndex returns the arena index under the cursor, or -1 when the tree
// is empty.
func (t *Tree) CurrentIndex() int {
	if len(t.visible) == 0 {
		return -1
	}
	return t.visible[t.cursor]
}

// Next moves the cursor down, wrapping at the bottom.
func (t *Tree) Next() {
	if len(t.visible) == 0 {
		return
	}
	t.cursor = (t.cursor + 1) % len(t.visible)
}

// Prev moves the cursor up, wrapping at the top.
func (t *Tree) Prev() {
	if len(t.visible) == 0 {
		return
	}
	t.cursor = (t.cursor - 1 + len(t.visible)) % len(t.visible)
}

// ToggleExpand flips the expanded flag of the folder under the cursor.
func (t *Tree) ToggleExpand() {
	idx := t.CurrentIndex()
	if idx < 0 || !t.nodes[idx].IsFolder {
		return
	}
	t.nodes[idx].Expanded = !t.nodes[idx].Expanded
	t.rebuildVisible()
}

// Expand opens the folder under the cursor.
func (t *Tree) Expand() {
	idx := t.CurrentIndex()
	if idx < 0 || !t.nodes[idx].IsFolder || t.nodes[idx].Expanded {
		return
	}
	t.nodes[idx].Expanded = true
	t.rebuildVisible()
}

// Collapse closes the folder under the cursor.
func (t *Tree) Collapse() {
	idx := t.CurrentIndex()
	if idx < 0 || !t.nodes[idx].IsFolder || !t.nodes[idx].Expanded {
		return
	}
	t.nodes[idx].Expanded = false
	t.rebuildVisible()
}

// CollapseParent collapses the parent of the current node and moves the
// cursor onto it: the zoom-out gesture. No-op for root-level nodes.
func (t *Tree) CollapseParent() {
	idx := t.CurrentIndex()
	if idx < 0 {
		return
	}
	parent := t.nodes[idx].Parent
	if parent < 0 {
		return
	}
	t.nodes[parent].Expanded = false
	t.rebuildVisible()
	for pos, v := range t.visible {
		if v == parent {
			t.cursor = pos
			break
		}
	}
}

// LeafIDs collects every leaf identity under the given arena index,
// depth-first. For a leaf node it returns just that leaf.
func (t *Tree) LeafIDs(idx int) []int {
	var ids []int
	var walk func(int)
	walk = func(i int) {
		n := &t.nodes[i]
		if !n.IsFolder {
			ids = append(ids, n.LeafID)
			return
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(idx)
	return ids
}

// AllSelected reports whether every leaf under idx satisfies the predicate.
// Used for the all-or-nothing folder toggle: if all are selected the caller
// deselects the subtree, otherwise it selects it.
func (t *Tree) AllSelected(idx int, isSelected func(id int) bool) bool {
	ids := t.LeafIDs(idx)
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if !isSelected(id) {
			return false
		}
	}
	return true
}

// rebuildVisible recomputes the depth-first visible projection, skipping the
// subtree of every collapsed folder, then clamps the cursor.
func (t *Tree) rebuildVisible() {
	t.visible = t.visible[:0]
	var walk func(int)
	walk = func(i int) {
		t.visible = append(t.visible, i)
		n := &t.nodes[i]
		if n.IsFolder && n.Expanded {
			for _, child := range n.Children {
				walk(child)
			}
		}
	}
	for _, root := range t.roots {
		walk(root)
	}

	if t.cursor >= len(t.visible) {
		t.cursor = len(t.visible) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}
