// Package layout implements the recursive binary split tree that
// divides the terminal into panes, and the geometry that assigns each
// pane its cell rectangle.
//
// The tree is stored as an arena of nodes addressed by index. Leaves
// carry an opaque pane id owned by the caller; splits carry an
// orientation and a ratio. Child order is significant: First is the
// left (vertical split) or top (horizontal split) child, and every
// traversal visits First before Second.
package layout

import (
	"fmt"

	"panechat/internal/errs"
)

// Orientation describes how a split divides its rectangle.
type Orientation int

const (
	// Vertical places the children side by side (a vertical divider).
	Vertical Orientation = iota
	// Horizontal stacks the children (a horizontal divider).
	Horizontal
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Toggled returns the other orientation.
func (o Orientation) Toggled() Orientation {
	if o == Vertical {
		return Horizontal
	}
	return Vertical
}

// Rect is a rectangle in terminal cells.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

const (
	kindLeaf = iota
	kindSplit
)

type node struct {
	kind   int
	pane   int64 // leaf only
	orient Orientation
	ratio  float64
	first  int
	second int
	parent int // -1 for root
}

// Tree is the split tree. The zero value is not usable; construct with
// New or FromSnapshot.
type Tree struct {
	nodes []node
	free  []int
	root  int
}

// New returns a tree consisting of a single leaf holding pane.
func New(pane int64) *Tree {
	t := &Tree{}
	t.root = t.alloc(node{kind: kindLeaf, pane: pane, parent: -1})
	return t
}

func (t *Tree) alloc(n node) int {
	if len(t.free) > 0 {
		i := t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
		t.nodes[i] = n
		return i
	}
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}

func (t *Tree) release(i int) {
	t.nodes[i] = node{parent: -1}
	t.free = append(t.free, i)
}

func (t *Tree) leafIndex(pane int64) (int, bool) {
	for i := range t.nodes {
		if t.nodes[i].kind == kindLeaf && t.nodes[i].pane == pane && t.contains(i) {
			return i, true
		}
	}
	return 0, false
}

// contains reports whether node i is reachable from the root (not on
// the freelist).
func (t *Tree) contains(i int) bool {
	for {
		if i == t.root {
			return true
		}
		p := t.nodes[i].parent
		if p < 0 {
			return false
		}
		if t.nodes[p].first != i && t.nodes[p].second != i {
			return false
		}
		i = p
	}
}

// Split replaces the leaf holding pane with a split whose first child
// keeps pane and whose second child is a new leaf holding newPane. The
// split starts at ratio 0.5.
func (t *Tree) Split(pane int64, o Orientation, newPane int64) error {
	const op = errs.Op("layout.Split")
	i, ok := t.leafIndex(pane)
	if !ok {
		return errs.E(op, errs.NotFound, fmt.Sprintf("pane %d", pane))
	}
	first := t.alloc(node{kind: kindLeaf, pane: pane, parent: i})
	second := t.alloc(node{kind: kindLeaf, pane: newPane, parent: i})
	t.nodes[i] = node{
		kind:   kindSplit,
		orient: o,
		ratio:  0.5,
		first:  first,
		second: second,
		parent: t.nodes[i].parent,
	}
	return nil
}

// Close removes the leaf holding pane and promotes its sibling into the
// parent's place. Closing the only leaf does not empty the tree: the
// call returns reset=true and the caller rebinds that slot to a fresh
// pane id via Reset.
func (t *Tree) Close(pane int64) (reset bool, err error) {
	const op = errs.Op("layout.Close")
	i, ok := t.leafIndex(pane)
	if !ok {
		return false, errs.E(op, errs.NotFound, fmt.Sprintf("pane %d", pane))
	}
	if i == t.root {
		return true, nil
	}
	p := t.nodes[i].parent
	sib := t.nodes[p].first
	if sib == i {
		sib = t.nodes[p].second
	}
	// The sibling subtree takes over the parent slot.
	moved := t.nodes[sib]
	moved.parent = t.nodes[p].parent
	t.nodes[p] = moved
	if moved.kind == kindSplit {
		t.nodes[moved.first].parent = p
		t.nodes[moved.second].parent = p
	}
	t.release(i)
	t.release(sib)
	return false, nil
}

// Reset replaces the whole tree with a single leaf holding pane. Used
// after Close reports reset=true.
func (t *Tree) Reset(pane int64) {
	t.nodes = t.nodes[:0]
	t.free = t.free[:0]
	t.root = t.alloc(node{kind: kindLeaf, pane: pane, parent: -1})
}

// ToggleOrientation flips the orientation of the split directly
// containing pane. On a single-leaf tree it is a no-op.
func (t *Tree) ToggleOrientation(pane int64) error {
	const op = errs.Op("layout.ToggleOrientation")
	i, ok := t.leafIndex(pane)
	if !ok {
		return errs.E(op, errs.NotFound, fmt.Sprintf("pane %d", pane))
	}
	p := t.nodes[i].parent
	if p < 0 {
		return nil
	}
	t.nodes[p].orient = t.nodes[p].orient.Toggled()
	return nil
}

// AdjustRatio nudges the ratio of the split containing pane by delta,
// clamped to [0.1, 0.9]. A no-op on a single-leaf tree.
func (t *Tree) AdjustRatio(pane int64, delta float64) error {
	const op = errs.Op("layout.AdjustRatio")
	i, ok := t.leafIndex(pane)
	if !ok {
		return errs.E(op, errs.NotFound, fmt.Sprintf("pane %d", pane))
	}
	p := t.nodes[i].parent
	if p < 0 {
		return nil
	}
	r := t.nodes[p].ratio + delta
	if r < 0.1 {
		r = 0.1
	}
	if r > 0.9 {
		r = 0.9
	}
	t.nodes[p].ratio = r
	return nil
}

// Leaves returns the pane ids in canonical order: depth-first, first
// child before second. This order drives Tab cycling and
// serialization.
func (t *Tree) Leaves() []int64 {
	var out []int64
	t.walk(t.root, func(n node) {
		if n.kind == kindLeaf {
			out = append(out, n.pane)
		}
	})
	return out
}

func (t *Tree) walk(i int, fn func(node)) {
	n := t.nodes[i]
	fn(n)
	if n.kind == kindSplit {
		t.walk(n.first, fn)
		t.walk(n.second, fn)
	}
}

// Contains reports whether pane is a leaf of the tree.
func (t *Tree) Contains(pane int64) bool {
	_, ok := t.leafIndex(pane)
	return ok
}

// Len returns the number of leaves.
func (t *Tree) Len() int {
	return len(t.Leaves())
}

// ComputeRects partitions r among the leaves. Every cell of r belongs
// to exactly one leaf: the first child of a split takes
// floor(size*ratio) cells along the split axis and the second child
// takes the remainder. Degenerate sizes produce zero-area rects, never
// an error; borders are drawn inside each rect by the renderer.
func (t *Tree) ComputeRects(r Rect) map[int64]Rect {
	out := make(map[int64]Rect)
	t.computeRects(t.root, clampRect(r), out)
	return out
}

func clampRect(r Rect) Rect {
	if r.W < 0 {
		r.W = 0
	}
	if r.H < 0 {
		r.H = 0
	}
	return r
}

func (t *Tree) computeRects(i int, r Rect, out map[int64]Rect) {
	n := t.nodes[i]
	if n.kind == kindLeaf {
		out[n.pane] = r
		return
	}
	a, b := splitRect(r, n.orient, n.ratio)
	t.computeRects(n.first, a, out)
	t.computeRects(n.second, b, out)
}

// Compose renders the tree bottom-up: leaf draws one pane into its
// rect, join glues two rendered children along the split orientation.
// The rects passed to leaf are exactly those of ComputeRects.
func (t *Tree) Compose(r Rect, leaf func(pane int64, r Rect) string, join func(o Orientation, first, second string) string) string {
	return t.compose(t.root, clampRect(r), leaf, join)
}

func (t *Tree) compose(i int, r Rect, leaf func(int64, Rect) string, join func(Orientation, string, string) string) string {
	n := t.nodes[i]
	if n.kind == kindLeaf {
		return leaf(n.pane, r)
	}
	a, b := splitRect(r, n.orient, n.ratio)
	return join(n.orient, t.compose(n.first, a, leaf, join), t.compose(n.second, b, leaf, join))
}

func splitRect(r Rect, o Orientation, ratio float64) (Rect, Rect) {
	if o == Vertical {
		w := int(float64(r.W) * ratio)
		return Rect{X: r.X, Y: r.Y, W: w, H: r.H},
			Rect{X: r.X + w, Y: r.Y, W: r.W - w, H: r.H}
	}
	h := int(float64(r.H) * ratio)
	return Rect{X: r.X, Y: r.Y, W: r.W, H: h},
		Rect{X: r.X, Y: r.Y + h, W: r.W, H: r.H - h}
}

// PaneAt returns the pane whose rect contains the point. Rects are
// disjoint, so at most one pane matches.
func PaneAt(rects map[int64]Rect, x, y int) (int64, bool) {
	for pane, r := range rects {
		if r.Contains(x, y) {
			return pane, true
		}
	}
	return 0, false
}
