package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every chord the root model handles itself. Text editing
// keys pass through to the focused pane's input.
type KeyMap struct {
	Quit        key.Binding
	CycleFocus  key.Binding
	CycleBack   key.Binding
	SplitV      key.Binding
	SplitH      key.Binding
	ClosePane   key.Binding
	ToggleSplit key.Binding
	GrowPane    key.Binding
	ShrinkPane  key.Binding
	ClearPane   key.Binding
	Escape      key.Binding
	Submit      key.Binding
	Newline     key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	HistPrev     key.Binding
	HistNext     key.Binding
	RefreshChats key.Binding

	ToggleChatList   key.Binding
	ToggleReactions  key.Binding
	ToggleEmojis     key.Binding
	ToggleNotifs     key.Binding
	ToggleCompact    key.Binding
	ToggleLineNums   key.Binding
	ToggleTimestamps key.Binding
	ToggleBorders    key.Binding
}

// DefaultKeyMap returns the standard chord table.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:        key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		CycleFocus:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
		CycleBack:   key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev pane")),
		SplitV:      key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "split vertically")),
		SplitH:      key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "split horizontally")),
		ClosePane:   key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("ctrl+w", "close pane")),
		ToggleSplit: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "rotate split")),
		GrowPane:    key.NewBinding(key.WithKeys("ctrl+right"), key.WithHelp("ctrl+→", "grow pane")),
		ShrinkPane:  key.NewBinding(key.WithKeys("ctrl+left"), key.WithHelp("ctrl+←", "shrink pane")),
		ClearPane:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear pane")),
		Escape:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel reply / chat list")),
		Submit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send / open")),
		Newline:     key.NewBinding(key.WithKeys("alt+enter"), key.WithHelp("alt+enter", "newline")),
		ScrollUp:    key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll up")),
		ScrollDown:  key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll down")),
		HistPrev:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "history / prev chat")),
		HistNext:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "history / next chat")),
		RefreshChats: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh chats")),

		ToggleChatList:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "chat list")),
		ToggleReactions:  key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "reactions")),
		ToggleEmojis:     key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "emojis")),
		ToggleNotifs:     key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "notifications")),
		ToggleCompact:    key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "compact")),
		ToggleLineNums:   key.NewBinding(key.WithKeys("ctrl+g"), key.WithHelp("ctrl+g", "message ids")),
		ToggleTimestamps: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "timestamps")),
		ToggleBorders:    key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "borders")),
	}
}

// ShortHelp is the hint line shown in the status bar when idle.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.CycleFocus, k.SplitV, k.SplitH, k.ClosePane, k.Quit}
}

// FullHelp groups every binding for a help screen.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.CycleFocus, k.CycleBack, k.SplitV, k.SplitH, k.ClosePane, k.ToggleSplit, k.GrowPane, k.ShrinkPane},
		{k.Submit, k.Newline, k.Escape, k.ScrollUp, k.ScrollDown, k.HistPrev, k.HistNext, k.ClearPane, k.RefreshChats},
		{k.ToggleChatList, k.ToggleReactions, k.ToggleEmojis, k.ToggleNotifs, k.ToggleCompact, k.ToggleLineNums, k.ToggleTimestamps, k.ToggleBorders},
	}
}
