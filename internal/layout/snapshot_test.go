package layout

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panechat/internal/errs"
)

func TestSnapshotRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	// Random trees, a dozen splits each.
	for trial := 0; trial < 25; trial++ {
		tr := New(1)
		next := int64(2)
		for i := 0; i < 12; i++ {
			leaves := tr.Leaves()
			o := Vertical
			if rng.Intn(2) == 0 {
				o = Horizontal
			}
			require.NoError(t, tr.Split(leaves[rng.Intn(len(leaves))], o, next))
			next++
			tr.AdjustRatio(leaves[0], 0.1)
		}

		snap := tr.Snapshot()
		data, err := json.Marshal(snap)
		require.NoError(t, err)
		var back Snapshot
		require.NoError(t, json.Unmarshal(data, &back))

		restored, err := FromSnapshot(&back)
		require.NoError(t, err)

		assert.Equal(t, tr.Leaves(), restored.Leaves())
		root := Rect{W: 120, H: 48}
		assert.Equal(t, tr.ComputeRects(root), restored.ComputeRects(root))
	}
}

func TestFromSnapshotRejectsCorruptInput(t *testing.T) {
	tests := []struct {
		name string
		snap *Snapshot
	}{
		{"nil", nil},
		{"unknown type", &Snapshot{Type: "circle"}},
		{"missing child", &Snapshot{Type: "split", Orient: "v", Ratio: 0.5, First: &Snapshot{Type: "leaf", Pane: 1}}},
		{"ratio zero", &Snapshot{Type: "split", Orient: "v", Ratio: 0,
			First: &Snapshot{Type: "leaf", Pane: 1}, Second: &Snapshot{Type: "leaf", Pane: 2}}},
		{"ratio one", &Snapshot{Type: "split", Orient: "h", Ratio: 1,
			First: &Snapshot{Type: "leaf", Pane: 1}, Second: &Snapshot{Type: "leaf", Pane: 2}}},
		{"bad orientation", &Snapshot{Type: "split", Orient: "diagonal", Ratio: 0.5,
			First: &Snapshot{Type: "leaf", Pane: 1}, Second: &Snapshot{Type: "leaf", Pane: 2}}},
		{"duplicate panes", &Snapshot{Type: "split", Orient: "v", Ratio: 0.5,
			First: &Snapshot{Type: "leaf", Pane: 1}, Second: &Snapshot{Type: "leaf", Pane: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromSnapshot(tt.snap)
			require.Error(t, err)
			assert.True(t, errs.Is(errs.CorruptLayout, err))
		})
	}
}

func TestFromSnapshotRejectsExcessiveDepth(t *testing.T) {
	leaf := func(p int64) *Snapshot { return &Snapshot{Type: "leaf", Pane: p} }
	s := leaf(0)
	for i := 1; i <= 40; i++ {
		s = &Snapshot{Type: "split", Orient: "v", Ratio: 0.5, First: s, Second: leaf(int64(i))}
	}
	_, err := FromSnapshot(s)
	assert.True(t, errs.Is(errs.CorruptLayout, err))
}
