package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"panechat/internal/chat"
	"panechat/internal/display"
	"panechat/internal/format"
	"panechat/internal/layout"
	"panechat/internal/pane"
	"panechat/internal/theme"
)

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "starting…"
	}

	panes := m.tree.Compose(m.paneArea(), m.renderPane, joinViews)

	main := panes
	if listW := m.chatListWidth(); listW > 0 {
		main = lipgloss.JoinHorizontal(lipgloss.Top, m.renderChatList(listW, m.height-1), panes)
	}
	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatusBar())
}

func joinViews(o layout.Orientation, first, second string) string {
	if o == layout.Vertical {
		return lipgloss.JoinHorizontal(lipgloss.Top, first, second)
	}
	return lipgloss.JoinVertical(lipgloss.Left, first, second)
}

// fit pads and clips s to an exact w by h cell block.
func fit(s string, w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	return lipgloss.NewStyle().
		Width(w).Height(h).
		MaxWidth(w).MaxHeight(h).
		Render(s)
}

func (m *Model) renderPane(id int64, r layout.Rect) string {
	if r.W <= 0 || r.H <= 0 {
		return ""
	}
	p, ok := m.reg.Get(id)
	if !ok {
		return fit("", r.W, r.H)
	}
	eff := m.flags.With(p.Overrides)
	focused := id == m.focused

	innerW, innerH := r.W, r.H
	border := eff.Borders && r.W > 2 && r.H > 2
	if border {
		innerW -= 2
		innerH -= 2
	}

	content := m.renderPaneContent(p, eff, focused, innerW, innerH)
	if !border {
		return fit(content, innerW, innerH)
	}
	style := m.styles.PaneBorder
	if focused {
		style = m.styles.PaneBorderFocused
	}
	return style.Render(fit(content, innerW, innerH))
}

func (m *Model) renderPaneContent(p *pane.Pane, eff display.Flags, focused bool, w, h int) string {
	if w < 1 || h < 1 {
		return ""
	}

	// Header.
	title := "(no chat)"
	if p.Bound() {
		title = p.Title
	}
	if f := p.Filter.Describe(); f != "" {
		title += " [" + f + "]"
	}
	if p.Loading {
		title += " …"
	}
	titleStyle := m.styles.PaneTitle
	if focused {
		titleStyle = m.styles.PaneTitleFocused
	}
	header := titleStyle.Render(format.Truncate(title, w))

	// Footer lines below the messages.
	var footer []string
	if user, ok := p.Typing(time.Now()); ok {
		footer = append(footer, m.styles.Muted.Render(format.Truncate(user+" is typing…", w)))
	}
	if p.ReplyTarget != 0 {
		preview := fmt.Sprintf("↳ replying to #%d", p.ReplyTarget)
		if msg, ok := p.Find(p.ReplyTarget); ok {
			preview += ": " + msg.Text
		}
		footer = append(footer, m.styles.Reply.Render(format.Truncate(preview, w)))
	}
	if h > 1 {
		footer = append(footer, p.Input.View())
	}

	msgH := h - 1 - len(footer)
	if msgH < 0 {
		msgH = 0
	}
	body := m.renderMessages(p, eff, w, msgH)

	parts := append([]string{header}, body...)
	parts = append(parts, footer...)
	return strings.Join(parts, "\n")
}

// renderMessages renders the visible window bottom-aligned into
// exactly height lines.
func (m *Model) renderMessages(p *pane.Pane, eff display.Flags, width, height int) []string {
	if height <= 0 {
		return nil
	}
	var lines []string
	msgs := p.Visible(height)
	for i, msg := range msgs {
		if i > 0 && !eff.Compact {
			lines = append(lines, "")
		}
		lines = append(lines, m.renderMessage(msg, eff, width)...)
	}
	if p.ScrollOffset > 0 {
		lines = append(lines, m.styles.Muted.Render(fmt.Sprintf("· %d newer ·", p.ScrollOffset)))
	}
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	for len(lines) < height {
		lines = append([]string{""}, lines...)
	}
	return lines
}

func (m *Model) renderMessage(msg chat.Message, eff display.Flags, width int) []string {
	if width < 4 {
		return []string{format.Truncate(msg.Text, width)}
	}
	var lines []string

	if msg.ReplyTo != 0 {
		lines = append(lines, m.styles.Reply.Render(format.Truncate(fmt.Sprintf("↳ #%d", msg.ReplyTo), width)))
	}

	var meta string
	if eff.LineNumbers && msg.ID > 0 {
		meta += fmt.Sprintf("#%d ", msg.ID)
	}
	if eff.Timestamps {
		meta += m.styles.Timestamp.Render(format.RelativeTime(msg.Time, time.Now())) + " "
	}

	name := m.aliases.Get(msg.SenderID, msg.Sender)
	nameStyle := m.styles.Sender
	switch {
	case msg.Outgoing:
		nameStyle = m.styles.Outgoing
	case eff.UserColors:
		nameStyle = theme.SenderStyle(msg.SenderID)
	}

	text := msg.Text
	if label := format.MediaLabel(msg); label != "" {
		text = strings.TrimSpace(label + " " + text)
	}
	text = format.HighlightFences(text)
	text = format.ShortenURLs(text)
	if !eff.Emojis {
		text = format.StripEmojis(text)
	}
	if msg.Provisional() {
		text += " " + m.styles.Muted.Render("(sending)")
	} else if msg.Edited {
		text += " " + m.styles.Muted.Render("(edited)")
	}

	head := meta + nameStyle.Render(name) + ": "
	wrapW := width - 2
	if wrapW < 4 {
		wrapW = width
	}
	wrapped := format.Wrap(text, wrapW)
	if len(wrapped) == 0 {
		wrapped = []string{""}
	}
	lines = append(lines, head+wrapped[0])
	for _, l := range wrapped[1:] {
		lines = append(lines, "  "+l)
	}

	if eff.Reactions && len(msg.Reactions) > 0 {
		lines = append(lines, "  "+m.styles.Muted.Render(format.Reactions(msg.Reactions)))
	}
	return lines
}

func (m *Model) renderChatList(w, h int) string {
	headerStyle := m.styles.PaneTitle
	if m.focused == 0 {
		headerStyle = m.styles.PaneTitleFocused
	}
	rows := []string{headerStyle.Render(format.Truncate("Chats", w))}
	for i, c := range m.chats {
		if len(rows) >= h {
			break
		}
		label := c.Title
		if c.Group {
			label = "⊚ " + label
		}
		if n := m.unread[c.ID]; n > 0 {
			label += fmt.Sprintf(" (%d)", n)
		}
		label = format.Truncate(label, w-2)
		style := m.styles.ChatRow
		switch {
		case i == m.chatCursor && m.focused == 0:
			style = m.styles.ChatRowSelected
		case m.unread[c.ID] > 0:
			style = m.styles.Unread
		}
		rows = append(rows, style.Render(label))
	}
	return fit(strings.Join(rows, "\n"), w, h)
}

func (m *Model) renderStatusBar() string {
	var text string
	switch {
	case m.status != "" && time.Now().Before(m.statusUntil):
		if m.statusErr {
			text = m.styles.Error.Render(m.status)
		} else {
			text = m.status
		}
	default:
		where := "chat list"
		if m.focused != 0 {
			if p, ok := m.reg.Get(m.focused); ok && p.Bound() {
				where = p.Title
			} else {
				where = "empty pane"
			}
		}
		var hints []string
		for _, b := range m.keys.ShortHelp() {
			h := b.Help()
			hints = append(hints, h.Key+" "+h.Desc)
		}
		text = where + "  ·  " + strings.Join(hints, "  ")
	}
	return fit(m.styles.StatusBar.Render(text), m.width, 1)
}
