// Package state persists the session layout: the split-tree shape,
// each pane's chat binding and display overrides, and the global
// display flags. Message content, scroll positions, and input text are
// deliberately never written to disk.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"

	"panechat/internal/display"
	"panechat/internal/errs"
	"panechat/internal/layout"
)

// PaneState is the persisted slice of one pane. The chat title is
// saved so the pane header renders before the chat list arrives.
type PaneState struct {
	Pane      int64             `json:"pane"`
	ChatID    int64             `json:"chat_id,omitempty"`
	ChatTitle string            `json:"chat_title,omitempty"`
	Group     bool              `json:"group,omitempty"`
	Overrides display.Overrides `json:"overrides,omitempty"`
}

// File is the layout file schema.
type File struct {
	Version int              `json:"version"`
	Tree    *layout.Snapshot `json:"tree"`
	Panes   []PaneState      `json:"panes"`
	Focused int64            `json:"focused,omitempty"` // pane id; 0 means the chat list
	Flags   display.Flags    `json:"display"`
}

const version = 1

// Default returns the single-unbound-pane layout used on first run and
// after corrupt-file recovery, seeded with the configured flags.
func Default(flags display.Flags) File {
	return File{
		Version: version,
		Tree:    &layout.Snapshot{Type: "leaf", Pane: 1},
		Panes:   []PaneState{{Pane: 1}},
		Flags:   flags,
	}
}

// Load reads the layout file. A missing file yields the default layout
// carrying the given flags; anything malformed yields CorruptLayout,
// and the caller is expected to fall back to Default and keep going.
func Load(path string, flags display.Flags) (File, error) {
	const op = errs.Op("state.Load")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(flags), nil
	}
	if err != nil {
		return File{}, errs.E(op, errs.IO, err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return File{}, errs.E(op, errs.CorruptLayout, err)
	}
	if err := validate(f); err != nil {
		return File{}, err
	}
	return f, nil
}

func validate(f File) error {
	const op = errs.Op("state.Load")
	tree, err := layout.FromSnapshot(f.Tree)
	if err != nil {
		return errs.E(op, err)
	}
	// Every persisted pane must be a leaf of the tree, and the focused
	// pane (when set) must exist.
	leaves := make(map[int64]bool)
	for _, p := range tree.Leaves() {
		leaves[p] = true
	}
	for _, ps := range f.Panes {
		if !leaves[ps.Pane] {
			return errs.E(op, errs.CorruptLayout, "binding for a pane not in the tree")
		}
	}
	if f.Focused != 0 && !leaves[f.Focused] {
		return errs.E(op, errs.CorruptLayout, "focused pane not in the tree")
	}
	return nil
}

// Save writes the layout file atomically enough for a config dir:
// temp file in the same directory, then rename.
func Save(path string, f File) error {
	const op = errs.Op("state.Save")
	f.Version = version
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return errs.E(op, errs.IO, err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.E(op, errs.IO, err)
	}
	tmp, err := os.CreateTemp(dir, ".layout-*")
	if err != nil {
		return errs.E(op, errs.IO, err)
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errs.E(op, errs.IO, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errs.E(op, errs.IO, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return errs.E(op, errs.IO, err)
	}
	return nil
}
