package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panechat/internal/display"
	"panechat/internal/errs"
	"panechat/internal/layout"
)

func sampleFile() File {
	tr := layout.New(1)
	tr.Split(1, layout.Vertical, 2)
	tr.Split(2, layout.Horizontal, 3)
	f := Default(display.Defaults())
	f.Tree = tr.Snapshot()
	f.Panes = []PaneState{
		{Pane: 1, ChatID: 100, ChatTitle: "Ada"},
		{Pane: 2, ChatID: 101, ChatTitle: "Infra Team", Group: true,
			Overrides: display.Overrides{display.Compact: true}},
		{Pane: 3},
	}
	f.Focused = 2
	f.Flags.Timestamps = false
	return f
}

func TestLoadMissingFileIsDefault(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "layout.json"), display.Defaults())
	require.NoError(t, err)
	assert.Equal(t, Default(display.Defaults()), f)

	tr, err := layout.FromSnapshot(f.Tree)
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Len(), "default is one unbound pane")
	assert.Zero(t, f.Panes[0].ChatID)
}

func TestLoadMissingFileSeedsConfiguredFlags(t *testing.T) {
	flags := display.Defaults()
	flags.Compact = true
	flags.Timestamps = false

	f, err := Load(filepath.Join(t.TempDir(), "layout.json"), flags)
	require.NoError(t, err)
	assert.Equal(t, flags, f.Flags, "first run starts from the configured flags")

	// A saved file's flags win over the configured ones.
	path := filepath.Join(t.TempDir(), "layout.json")
	saved := sampleFile()
	require.NoError(t, Save(path, saved))
	got, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, saved.Flags, got.Flags)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	f := sampleFile()
	require.NoError(t, Save(path, f))

	got, err := Load(path, display.Defaults())
	require.NoError(t, err)
	assert.Equal(t, f.Panes, got.Panes)
	assert.Equal(t, f.Focused, got.Focused)
	assert.Equal(t, f.Flags, got.Flags)

	orig, err := layout.FromSnapshot(f.Tree)
	require.NoError(t, err)
	back, err := layout.FromSnapshot(got.Tree)
	require.NoError(t, err)
	assert.Equal(t, orig.Leaves(), back.Leaves())
	root := layout.Rect{W: 120, H: 40}
	assert.Equal(t, orig.ComputeRects(root), back.ComputeRects(root))
}

func TestLoadCorruptJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	require.NoError(t, os.WriteFile(path, []byte("{corrupt"), 0o644))
	_, err := Load(path, display.Defaults())
	assert.True(t, errs.Is(errs.CorruptLayout, err))
}

func TestLoadCorruptTree(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"version":1,"tree":{"type":"split","orient":"v","ratio":2,
			"first":{"type":"leaf","pane":1},"second":{"type":"leaf","pane":2}}}`), 0o644))
	_, err := Load(path, display.Defaults())
	assert.True(t, errs.Is(errs.CorruptLayout, err))
}

func TestLoadRejectsDanglingReferences(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")

	f := Default(display.Defaults())
	f.Panes = []PaneState{{Pane: 99, ChatID: 1}}
	require.NoError(t, Save(path, f))
	_, err := Load(path, display.Defaults())
	assert.True(t, errs.Is(errs.CorruptLayout, err))

	f = Default(display.Defaults())
	f.Focused = 99
	require.NoError(t, Save(path, f))
	_, err = Load(path, display.Defaults())
	assert.True(t, errs.Is(errs.CorruptLayout, err))
}

func TestSaveNeverPersistsMessages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	require.NoError(t, Save(path, sampleFile()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, field := range []string{"messages", "scroll", "input", "reply"} {
		assert.NotContains(t, string(data), field)
	}
}
