// Package ui hosts the root bubbletea model: the focus state machine,
// key and mouse routing, command application, and the render
// compositor over the layout tree.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"panechat/internal/alias"
	"panechat/internal/chat"
	"panechat/internal/command"
	"panechat/internal/config"
	"panechat/internal/display"
	"panechat/internal/format"
	"panechat/internal/layout"
	"panechat/internal/logger"
	"panechat/internal/notification"
	"panechat/internal/pane"
	"panechat/internal/state"
	"panechat/internal/theme"
)

const (
	statusTTL    = 3 * time.Second
	typingTTL    = 6 * time.Second
	historyCap   = 100
	minListWidth = 20
	maxListWidth = 40
)

// Model is the root of the program. All state mutation happens on the
// update loop; collaborator goroutines only feed the channels consumed
// by the commands in messages.go.
type Model struct {
	client       chat.Client
	cfg          config.Config
	styles       theme.Styles
	keys         KeyMap
	aliases      *alias.Store
	aliasReloads <-chan struct{}
	layoutPath   string

	tree  *layout.Tree
	reg   *pane.Registry
	flags display.Flags

	chats      []chat.Info
	unread     map[int64]int
	chatCursor int

	// focused is the pane id holding focus; 0 means the chat list.
	focused  int64
	lastPane int64

	width, height int
	rects         map[int64]layout.Rect

	status      string
	statusErr   bool
	statusUntil time.Time

	history []string
	histIdx int

	quitting bool
}

// New builds the model from a loaded (or default) layout file.
func New(client chat.Client, cfg config.Config, st state.File, aliases *alias.Store, aliasReloads <-chan struct{}, layoutPath string) *Model {
	m := &Model{
		client:       client,
		cfg:          cfg,
		styles:       theme.New(theme.Default),
		keys:         DefaultKeyMap(),
		aliases:      aliases,
		aliasReloads: aliasReloads,
		layoutPath:   layoutPath,
		reg:          pane.NewRegistry(cfg.RetentionCap),
		flags:        st.Flags,
		unread:       make(map[int64]int),
		rects:        make(map[int64]layout.Rect),
	}
	m.restore(st)
	notification.SetEnabled(m.flags.Notifications)
	return m
}

// restore rebuilds the tree from the persisted snapshot, allocating a
// fresh registry pane for every leaf. Persisted pane ids are only
// meaningful inside the file; the session mints its own.
func (m *Model) restore(st state.File) {
	mapping := make(map[int64]int64)
	var remap func(s *layout.Snapshot) *layout.Snapshot
	remap = func(s *layout.Snapshot) *layout.Snapshot {
		if s.Type == "leaf" {
			p := m.reg.Create()
			mapping[s.Pane] = p.ID
			return &layout.Snapshot{Type: "leaf", Pane: p.ID}
		}
		return &layout.Snapshot{
			Type:   s.Type,
			Orient: s.Orient,
			Ratio:  s.Ratio,
			First:  remap(s.First),
			Second: remap(s.Second),
		}
	}
	tree, err := layout.FromSnapshot(remap(st.Tree))
	if err != nil {
		// state.Load validated the snapshot, so this is unreachable in
		// practice; recover to a single pane anyway.
		logger.Error("layout restore failed", "err", err)
		m.reg = pane.NewRegistry(m.cfg.RetentionCap)
		p := m.reg.Create()
		m.tree = layout.New(p.ID)
		m.focused = 0
		return
	}
	m.tree = tree

	for _, ps := range st.Panes {
		id, ok := mapping[ps.Pane]
		if !ok {
			continue
		}
		if ps.ChatID != 0 {
			m.reg.Bind(id, chat.Info{ID: ps.ChatID, Title: ps.ChatTitle, Group: ps.Group})
		}
		if len(ps.Overrides) > 0 {
			if p, ok := m.reg.Get(id); ok {
				p.Overrides = ps.Overrides
			}
		}
	}
	if id, ok := mapping[st.Focused]; ok && st.Focused != 0 {
		m.focused = id
		m.lastPane = id
	}
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadChats(), m.waitForUpdate(), tick()}
	if c := m.waitForAliasReload(); c != nil {
		cmds = append(cmds, c)
	}
	for _, id := range m.tree.Leaves() {
		if p, ok := m.reg.Get(id); ok && p.Bound() {
			cmds = append(cmds, m.fetchHistory(p.ID, p.ChatID))
		}
	}
	if p, ok := m.reg.Get(m.focused); ok {
		cmds = append(cmds, p.Input.Focus())
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.recomputeRects()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case chatsMsg:
		if msg.err != nil {
			logger.Error("chat list", "err", msg.err)
			m.setError("could not load chats: " + msg.err.Error())
			return m, nil
		}
		m.chats = msg.chats
		if m.chatCursor >= len(m.chats) {
			m.chatCursor = 0
		}
		return m, nil

	case historyMsg:
		return m.handleHistory(msg)

	case updateMsg:
		return m.handleUpdate(msg)

	case sendResultMsg:
		if msg.err != nil {
			logger.Error("send failed", "err", msg.err)
			m.reg.DropProvisional(msg.provisional)
			m.setError("send failed: " + msg.err.Error())
			return m, nil
		}
		m.reg.Confirm(msg.provisional, msg.msg)
		return m, nil

	case actionResultMsg:
		if msg.err != nil {
			logger.Error("action failed", "err", msg.err)
			m.setError(msg.err.Error())
		} else {
			m.setStatus(msg.note)
		}
		return m, nil

	case aliasReloadMsg:
		if !msg.ok {
			return m, nil
		}
		m.setStatus("aliases reloaded")
		return m, m.waitForAliasReload()

	case tickMsg:
		return m, tick()
	}
	return m, nil
}

func (m *Model) handleHistory(msg historyMsg) (tea.Model, tea.Cmd) {
	p, ok := m.reg.Get(msg.pane)
	if !ok || p.ChatID != msg.chatID {
		// The pane was closed or rebound while the fetch was in
		// flight; the result belongs to nobody.
		logger.Debug("dropping stale history", "pane", msg.pane, "chat", msg.chatID)
		return m, nil
	}
	if msg.err != nil {
		logger.Error("history fetch", "pane", msg.pane, "chat", msg.chatID, "err", msg.err)
		p.Loading = false
		m.setError("history: " + msg.err.Error())
		return m, nil
	}
	m.reg.SetHistory(msg.pane, msg.msgs)
	return m, nil
}

func (m *Model) handleUpdate(msg updateMsg) (tea.Model, tea.Cmd) {
	if !msg.ok {
		m.setError("disconnected from backend")
		return m, nil
	}
	switch u := msg.update.(type) {
	case chat.NewMessage:
		m.reg.Append(u.Message)
		if !u.Message.Outgoing && !m.reg.BoundTo(u.Message.ChatID) {
			m.unread[u.Message.ChatID]++
			sender := m.aliases.Get(u.Message.SenderID, u.Message.Sender)
			title := m.chatTitle(u.Message.ChatID)
			m.setStatus(fmt.Sprintf("new message from %s in %s", sender, title))
			if m.flags.Notifications {
				body := u.Message.Text
				if body == "" {
					body = format.MediaLabel(u.Message)
				}
				notification.Notify(title, format.Truncate(sender+": "+body, 80))
			}
		}
	case chat.MessageEdited:
		m.reg.ApplyEdit(u.Message)
	case chat.MessageDeleted:
		m.reg.ApplyDelete(u.ChatID, u.MessageID)
	case chat.ReactionChanged:
		m.reg.ApplyReactions(u.ChatID, u.MessageID, u.Reactions)
	case chat.UserTyping:
		m.reg.SetTyping(u.ChatID, u.User, typingTTL)
	}
	return m, m.waitForUpdate()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		m.saveState()
		return m, tea.Quit

	case key.Matches(msg, k.CycleFocus):
		m.cycleFocus(1)
		return m, nil
	case key.Matches(msg, k.CycleBack):
		m.cycleFocus(-1)
		return m, nil

	case key.Matches(msg, k.SplitV):
		return m, m.applyCommand(command.Split{Orient: layout.Vertical})
	case key.Matches(msg, k.SplitH):
		return m, m.applyCommand(command.Split{Orient: layout.Horizontal})
	case key.Matches(msg, k.ClosePane):
		return m, m.applyCommand(command.Close{})
	case key.Matches(msg, k.ClearPane):
		return m, m.applyCommand(command.Clear{})

	case key.Matches(msg, k.ToggleSplit):
		if m.focused != 0 {
			if err := m.tree.ToggleOrientation(m.focused); err == nil {
				m.recomputeRects()
				m.saveState()
			}
		}
		return m, nil
	case key.Matches(msg, k.GrowPane):
		if m.focused != 0 {
			m.tree.AdjustRatio(m.focused, 0.05)
			m.recomputeRects()
			m.saveState()
		}
		return m, nil
	case key.Matches(msg, k.ShrinkPane):
		if m.focused != 0 {
			m.tree.AdjustRatio(m.focused, -0.05)
			m.recomputeRects()
			m.saveState()
		}
		return m, nil

	case key.Matches(msg, k.RefreshChats):
		m.setStatus("refreshing chats")
		return m, m.loadChats()

	case key.Matches(msg, k.ToggleChatList):
		m.toggleFlag(display.ChatList, true)
		if !m.flags.ChatList && m.focused == 0 {
			// The chat list cannot keep focus while hidden.
			if leaves := m.tree.Leaves(); len(leaves) > 0 {
				m.setFocus(leaves[0])
				m.recomputeRects()
				return m, nil
			}
		}
		m.recomputeRects()
		return m, nil
	case key.Matches(msg, k.ToggleReactions):
		m.toggleFlag(display.Reactions, false)
		return m, nil
	case key.Matches(msg, k.ToggleEmojis):
		m.toggleFlag(display.Emojis, false)
		return m, nil
	case key.Matches(msg, k.ToggleNotifs):
		m.toggleFlag(display.Notifications, true)
		notification.SetEnabled(m.flags.Notifications)
		return m, nil
	case key.Matches(msg, k.ToggleCompact):
		m.toggleFlag(display.Compact, false)
		return m, nil
	case key.Matches(msg, k.ToggleLineNums):
		m.toggleFlag(display.LineNumbers, false)
		return m, nil
	case key.Matches(msg, k.ToggleTimestamps):
		m.toggleFlag(display.Timestamps, false)
		return m, nil
	case key.Matches(msg, k.ToggleBorders):
		m.toggleFlag(display.Borders, false)
		m.recomputeRects()
		return m, nil

	case key.Matches(msg, k.Escape):
		if p, ok := m.reg.Get(m.focused); ok && p.ReplyTarget != 0 {
			p.ReplyTarget = 0
			m.setStatus("reply cancelled")
			return m, nil
		}
		if m.focused != 0 {
			if !m.flags.ChatList {
				// Escape always reaches the chat list, un-hiding it
				// if needed.
				m.flags.Toggle(display.ChatList)
				m.recomputeRects()
				m.saveState()
			}
			m.setFocus(0)
		}
		return m, nil
	}

	if m.focused == 0 {
		return m.handleChatListKey(msg)
	}
	return m.handlePaneKey(msg)
}

func (m *Model) handleChatListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.HistPrev):
		if m.chatCursor > 0 {
			m.chatCursor--
		}
		return m, nil
	case key.Matches(msg, k.HistNext):
		if m.chatCursor < len(m.chats)-1 {
			m.chatCursor++
		}
		return m, nil
	case key.Matches(msg, k.Submit):
		if m.chatCursor < len(m.chats) {
			return m, m.bindActivePane(m.chats[m.chatCursor])
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handlePaneKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p, ok := m.reg.Get(m.focused)
	if !ok {
		return m, nil
	}
	k := m.keys
	switch {
	case key.Matches(msg, k.Submit):
		return m, m.submit(p)
	case key.Matches(msg, k.Newline):
		p.Input.InsertString("\n")
		return m, nil
	case key.Matches(msg, k.ScrollUp):
		m.reg.Scroll(p.ID, 3)
		return m, nil
	case key.Matches(msg, k.ScrollDown):
		m.reg.Scroll(p.ID, -3)
		return m, nil
	case key.Matches(msg, k.HistPrev):
		if m.histIdx > 0 {
			m.histIdx--
			p.Input.SetValue(m.history[m.histIdx])
			p.Input.CursorEnd()
		}
		return m, nil
	case key.Matches(msg, k.HistNext):
		if m.histIdx < len(m.history) {
			m.histIdx++
			if m.histIdx == len(m.history) {
				p.Input.Reset()
			} else {
				p.Input.SetValue(m.history[m.histIdx])
				p.Input.CursorEnd()
			}
		}
		return m, nil
	}
	var cmd tea.Cmd
	p.Input, cmd = p.Input.Update(msg)
	return m, cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			return m.handleClick(msg.X, msg.Y)
		case tea.MouseButtonWheelUp:
			if id, ok := layout.PaneAt(m.rects, msg.X, msg.Y); ok {
				m.reg.Scroll(id, 3)
			}
			return m, nil
		case tea.MouseButtonWheelDown:
			if id, ok := layout.PaneAt(m.rects, msg.X, msg.Y); ok {
				m.reg.Scroll(id, -3)
			}
			return m, nil
		}
	}
	return m, nil
}

func (m *Model) handleClick(x, y int) (tea.Model, tea.Cmd) {
	listW := m.chatListWidth()
	if listW > 0 && x < listW && y < m.height-1 {
		m.setFocus(0)
		// Row 0 is the header.
		idx := y - 1
		if idx >= 0 && idx < len(m.chats) {
			m.chatCursor = idx
			return m, m.bindActivePane(m.chats[idx])
		}
		return m, nil
	}
	if id, ok := layout.PaneAt(m.rects, x, y); ok {
		// Clicks focus the pane whether or not it is bound.
		m.setFocus(id)
		return m, nil
	}
	return m, nil
}

// bindActivePane points the active pane at a chat and kicks off its
// history fetch. The active pane is the last focused one; if none is
// live, the first unbound leaf; if every leaf is bound, a fresh split
// of the first leaf.
func (m *Model) bindActivePane(info chat.Info) tea.Cmd {
	target := m.lastPane
	if _, ok := m.reg.Get(target); !ok || !m.tree.Contains(target) {
		target = 0
	}
	if target == 0 {
		for _, id := range m.tree.Leaves() {
			if p, ok := m.reg.Get(id); ok && !p.Bound() {
				target = id
				break
			}
		}
	}
	if target == 0 {
		leaves := m.tree.Leaves()
		p := m.reg.Create()
		if err := m.tree.Split(leaves[0], layout.Vertical, p.ID); err != nil {
			m.reg.Remove(p.ID)
			m.setError(err.Error())
			return nil
		}
		target = p.ID
		m.recomputeRects()
	}
	return m.bindPane(target, info)
}

func (m *Model) bindPane(id int64, info chat.Info) tea.Cmd {
	if err := m.reg.Bind(id, info); err != nil {
		m.setError(err.Error())
		return nil
	}
	delete(m.unread, info.ID)
	m.lastPane = id
	m.setStatus("opened " + info.Title)
	m.saveState()
	return m.fetchHistory(id, info.ID)
}

// submit handles enter in a pane: slash commands go to the parser,
// anything else is sent optimistically.
func (m *Model) submit(p *pane.Pane) tea.Cmd {
	text := strings.TrimSpace(p.Input.Value())
	if text == "" {
		return nil
	}
	m.pushHistory(text)
	p.Input.Reset()

	if strings.HasPrefix(text, "/") {
		cmd, err := command.Parse(text)
		if err != nil {
			m.setError(err.Error())
			return nil
		}
		return m.applyCommand(cmd)
	}

	if !p.Bound() {
		m.setError("no chat in this pane; pick one from the chat list")
		return nil
	}
	replyTo := p.ReplyTarget
	p.ReplyTarget = 0
	prov, err := m.reg.AppendProvisional(p.ID, text, replyTo)
	if err != nil {
		m.setError(err.Error())
		return nil
	}
	return m.sendMessage(p.ID, prov.ID, p.ChatID, text, replyTo)
}

func (m *Model) pushHistory(line string) {
	m.history = append(m.history, line)
	if len(m.history) > historyCap {
		m.history = m.history[len(m.history)-historyCap:]
	}
	m.histIdx = len(m.history)
}

// cycleFocus moves focus through the chat list (when visible) and the
// leaves in canonical order, wrapping at both ends.
func (m *Model) cycleFocus(dir int) {
	order := m.focusOrder()
	if len(order) == 0 {
		return
	}
	cur := 0
	for i, id := range order {
		if id == m.focused {
			cur = i
			break
		}
	}
	next := (cur + dir + len(order)) % len(order)
	m.setFocus(order[next])
}

func (m *Model) focusOrder() []int64 {
	var order []int64
	if m.flags.ChatList {
		order = append(order, 0)
	}
	return append(order, m.tree.Leaves()...)
}

// setFocus moves focus, blurring the old pane's input and focusing the
// new one. The blink command is cosmetic and deliberately dropped.
func (m *Model) setFocus(id int64) {
	if m.focused == id {
		return
	}
	if p, ok := m.reg.Get(m.focused); ok {
		p.Input.Blur()
	}
	m.focused = id
	if id != 0 {
		m.lastPane = id
		if p, ok := m.reg.Get(id); ok {
			p.Input.Focus()
		}
	}
}

// toggleFlag flips a display flag. With a pane focused the change is a
// pane-local override; global flags only change from the chat list.
// ChatList and Notifications are inherently global.
func (m *Model) toggleFlag(f display.Flag, global bool) {
	if !global {
		if p, ok := m.reg.Get(m.focused); ok {
			p.Overrides.Toggle(f, m.flags)
			eff := m.flags.With(p.Overrides)
			m.setStatus(fmt.Sprintf("%s: %v (this pane)", f, eff.Get(f)))
			m.saveState()
			return
		}
	}
	v := m.flags.Toggle(f)
	m.setStatus(fmt.Sprintf("%s: %v", f, v))
	m.saveState()
}

func (m *Model) chatTitle(chatID int64) string {
	for _, c := range m.chats {
		if c.ID == chatID {
			return c.Title
		}
	}
	return fmt.Sprintf("chat %d", chatID)
}

func (m *Model) findChat(target string) (chat.Info, bool) {
	lower := strings.ToLower(target)
	for _, c := range m.chats {
		if strings.ToLower(c.Title) == lower {
			return c, true
		}
	}
	for _, c := range m.chats {
		if strings.Contains(strings.ToLower(c.Title), lower) {
			return c, true
		}
	}
	return chat.Info{}, false
}

// SetNotice places a message in the status bar before the program
// starts, e.g. after a corrupt-layout recovery. It outlives the normal
// status expiry so the user actually sees it.
func (m *Model) SetNotice(s string) {
	m.status = s
	m.statusErr = true
	m.statusUntil = time.Now().Add(10 * time.Second)
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
	m.statusUntil = time.Now().Add(statusTTL)
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
	m.statusUntil = time.Now().Add(statusTTL)
}

func (m *Model) chatListWidth() int {
	if !m.flags.ChatList {
		return 0
	}
	w := m.width / 5
	if w < minListWidth {
		w = minListWidth
	}
	if w > maxListWidth {
		w = maxListWidth
	}
	if w >= m.width {
		return 0
	}
	return w
}

func (m *Model) paneArea() layout.Rect {
	listW := m.chatListWidth()
	return layout.Rect{X: listW, Y: 0, W: m.width - listW, H: m.height - 1}
}

func (m *Model) recomputeRects() {
	m.rects = m.tree.ComputeRects(m.paneArea())
	for id, r := range m.rects {
		if p, ok := m.reg.Get(id); ok {
			w := r.W - 2 // input prompt margin
			if m.flags.With(p.Overrides).Borders {
				w = r.W - 4
			}
			if w < 1 {
				w = 1
			}
			p.Input.SetWidth(w)
		}
	}
}

// saveState writes the layout file. Called after splits, closes,
// bindings, and flag toggles as well as on quit, so a crash loses at
// most the current focus. Failures are logged, never surfaced.
func (m *Model) saveState() {
	f := state.File{
		Tree:    m.tree.Snapshot(),
		Focused: m.focused,
		Flags:   m.flags,
	}
	for _, id := range m.tree.Leaves() {
		p, ok := m.reg.Get(id)
		if !ok {
			continue
		}
		ps := state.PaneState{Pane: id, ChatID: p.ChatID, ChatTitle: p.Title, Group: p.Group}
		if len(p.Overrides) > 0 {
			ps.Overrides = p.Overrides
		}
		f.Panes = append(f.Panes, ps)
	}
	if err := state.Save(m.layoutPath, f); err != nil {
		logger.Error("layout save failed", "err", err)
	}
}
