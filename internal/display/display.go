// Package display holds the render-affecting toggles: the global flag
// set and the per-pane overrides layered on top of it.
package display

// Flag identifies one display toggle.
type Flag int

const (
	Reactions Flag = iota
	Notifications
	Compact
	Emojis
	LineNumbers
	Timestamps
	ChatList
	UserColors
	Borders
	flagCount
)

func (f Flag) String() string {
	switch f {
	case Reactions:
		return "reactions"
	case Notifications:
		return "notifications"
	case Compact:
		return "compact"
	case Emojis:
		return "emojis"
	case LineNumbers:
		return "line numbers"
	case Timestamps:
		return "timestamps"
	case ChatList:
		return "chat list"
	case UserColors:
		return "user colors"
	case Borders:
		return "borders"
	default:
		return "unknown"
	}
}

// Flags is the global display configuration. It serializes into both the
// config file (defaults) and the layout file (last session's values).
type Flags struct {
	Reactions     bool `json:"reactions"`
	Notifications bool `json:"notifications"`
	Compact       bool `json:"compact"`
	Emojis        bool `json:"emojis"`
	LineNumbers   bool `json:"line_numbers"`
	Timestamps    bool `json:"timestamps"`
	ChatList      bool `json:"chat_list"`
	UserColors    bool `json:"user_colors"`
	Borders       bool `json:"borders"`
}

// Defaults returns the out-of-the-box flag set.
func Defaults() Flags {
	return Flags{
		Reactions:     true,
		Notifications: true,
		Emojis:        true,
		Timestamps:    true,
		ChatList:      true,
		UserColors:    true,
		Borders:       true,
	}
}

// Get reads one flag by identifier.
func (f Flags) Get(flag Flag) bool {
	switch flag {
	case Reactions:
		return f.Reactions
	case Notifications:
		return f.Notifications
	case Compact:
		return f.Compact
	case Emojis:
		return f.Emojis
	case LineNumbers:
		return f.LineNumbers
	case Timestamps:
		return f.Timestamps
	case ChatList:
		return f.ChatList
	case UserColors:
		return f.UserColors
	case Borders:
		return f.Borders
	default:
		return false
	}
}

// Toggle flips one flag and returns the new value.
func (f *Flags) Toggle(flag Flag) bool {
	v := !f.Get(flag)
	f.set(flag, v)
	return v
}

func (f *Flags) set(flag Flag, v bool) {
	switch flag {
	case Reactions:
		f.Reactions = v
	case Notifications:
		f.Notifications = v
	case Compact:
		f.Compact = v
	case Emojis:
		f.Emojis = v
	case LineNumbers:
		f.LineNumbers = v
	case Timestamps:
		f.Timestamps = v
	case ChatList:
		f.ChatList = v
	case UserColors:
		f.UserColors = v
	case Borders:
		f.Borders = v
	}
}

// Overrides is a sparse per-pane layer over the global flags. A flag
// absent from the map falls through to the global value.
type Overrides map[Flag]bool

// With returns the effective flags after applying the overrides.
func (f Flags) With(o Overrides) Flags {
	if len(o) == 0 {
		return f
	}
	out := f
	for flag, v := range o {
		out.set(flag, v)
	}
	return out
}

// Toggle flips a flag in the override layer relative to its effective
// value under base, and prunes entries that land back on the base value.
func (o Overrides) Toggle(flag Flag, base Flags) {
	cur := base.Get(flag)
	if v, ok := o[flag]; ok {
		cur = v
	}
	next := !cur
	if next == base.Get(flag) {
		delete(o, flag)
	} else {
		o[flag] = next
	}
}
