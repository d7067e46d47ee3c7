package layout

import (
	"panechat/internal/errs"
)

// Snapshot is the serializable form of the tree, a recursive structure
// independent of the arena representation. Kept separate so the wire
// format survives internal refactors.
type Snapshot struct {
	Type   string    `json:"type"` // "leaf" or "split"
	Pane   int64     `json:"pane,omitempty"`
	Orient string    `json:"orient,omitempty"` // "v" or "h"
	Ratio  float64   `json:"ratio,omitempty"`
	First  *Snapshot `json:"first,omitempty"`
	Second *Snapshot `json:"second,omitempty"`
}

// maxDepth bounds Restore against absurd or adversarial input.
const maxDepth = 32

// Snapshot captures the current tree shape.
func (t *Tree) Snapshot() *Snapshot {
	return t.snapshot(t.root)
}

func (t *Tree) snapshot(i int) *Snapshot {
	n := t.nodes[i]
	if n.kind == kindLeaf {
		return &Snapshot{Type: "leaf", Pane: n.pane}
	}
	o := "v"
	if n.orient == Horizontal {
		o = "h"
	}
	return &Snapshot{
		Type:   "split",
		Orient: o,
		Ratio:  n.ratio,
		First:  t.snapshot(n.first),
		Second: t.snapshot(n.second),
	}
}

// FromSnapshot rebuilds a tree. Any structural violation (missing
// children, out-of-range ratio, duplicate pane ids, unknown node type,
// excessive depth) yields CorruptLayout.
func FromSnapshot(s *Snapshot) (*Tree, error) {
	const op = errs.Op("layout.FromSnapshot")
	if s == nil {
		return nil, errs.E(op, errs.CorruptLayout, "empty tree")
	}
	t := &Tree{}
	seen := make(map[int64]bool)
	root, err := t.restore(s, -1, 0, seen)
	if err != nil {
		return nil, err
	}
	t.root = root
	return t, nil
}

func (t *Tree) restore(s *Snapshot, parent, depth int, seen map[int64]bool) (int, error) {
	const op = errs.Op("layout.FromSnapshot")
	if depth > maxDepth {
		return 0, errs.E(op, errs.CorruptLayout, "tree too deep")
	}
	switch s.Type {
	case "leaf":
		if seen[s.Pane] {
			return 0, errs.E(op, errs.CorruptLayout, "duplicate pane id")
		}
		seen[s.Pane] = true
		return t.alloc(node{kind: kindLeaf, pane: s.Pane, parent: parent}), nil
	case "split":
		if s.First == nil || s.Second == nil {
			return 0, errs.E(op, errs.CorruptLayout, "split missing a child")
		}
		if !(s.Ratio > 0 && s.Ratio < 1) {
			return 0, errs.E(op, errs.CorruptLayout, "ratio out of range")
		}
		var o Orientation
		switch s.Orient {
		case "v":
			o = Vertical
		case "h":
			o = Horizontal
		default:
			return 0, errs.E(op, errs.CorruptLayout, "unknown orientation")
		}
		i := t.alloc(node{kind: kindSplit, orient: o, ratio: s.Ratio, parent: parent})
		first, err := t.restore(s.First, i, depth+1, seen)
		if err != nil {
			return 0, err
		}
		second, err := t.restore(s.Second, i, depth+1, seen)
		if err != nil {
			return 0, err
		}
		t.nodes[i].first = first
		t.nodes[i].second = second
		return i, nil
	default:
		return 0, errs.E(op, errs.CorruptLayout, "unknown node type")
	}
}
