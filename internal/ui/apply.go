package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"panechat/internal/command"
	"panechat/internal/logger"
)

// applyCommand executes one parsed command against the focused pane.
// Failures land in the status bar; nothing here is fatal.
func (m *Model) applyCommand(cmd command.Command) tea.Cmd {
	switch c := cmd.(type) {
	case command.Split:
		if m.focused == 0 {
			m.setError("focus a pane to split")
			return nil
		}
		p := m.reg.Create()
		if err := m.tree.Split(m.focused, c.Orient, p.ID); err != nil {
			m.reg.Remove(p.ID)
			logger.Error("split failed", "err", err)
			m.setError(err.Error())
			return nil
		}
		m.recomputeRects()
		m.setFocus(p.ID)
		m.saveState()
		return nil

	case command.Close:
		if m.focused == 0 {
			m.setError("focus a pane to close")
			return nil
		}
		closing := m.focused
		leaves := m.tree.Leaves()
		idx := 0
		for i, id := range leaves {
			if id == closing {
				idx = i
				break
			}
		}
		reset, err := m.tree.Close(closing)
		if err != nil {
			m.setError(err.Error())
			return nil
		}
		if reset {
			// Last pane: the slot stays, rebound to a fresh pane.
			fresh := m.reg.Create()
			m.tree.Reset(fresh.ID)
			m.reg.Remove(closing)
			m.recomputeRects()
			m.setFocus(fresh.ID)
			m.saveState()
			return nil
		}
		m.reg.Remove(closing)
		m.recomputeRects()
		remaining := m.tree.Leaves()
		if idx >= len(remaining) {
			idx = len(remaining) - 1
		}
		m.setFocus(remaining[idx])
		m.saveState()
		return nil

	case command.Clear:
		if m.focused == 0 {
			m.setError("focus a pane to clear")
			return nil
		}
		m.reg.Clear(m.focused)
		return nil

	case command.Open:
		if m.focused == 0 {
			m.setError("focus a pane first")
			return nil
		}
		info, ok := m.findChat(c.Target)
		if !ok {
			m.setError("no chat matching " + c.Target)
			return nil
		}
		return m.bindPane(m.focused, info)

	case command.Reply:
		p, ok := m.reg.Get(m.focused)
		if !ok || !p.Bound() {
			m.setError("no chat in this pane")
			return nil
		}
		if _, found := p.Find(c.MessageID); !found {
			m.setError("no such message in this pane")
			return nil
		}
		if c.Text == "" {
			p.ReplyTarget = c.MessageID
			m.setStatus("replying; esc cancels")
			return nil
		}
		prov, err := m.reg.AppendProvisional(p.ID, c.Text, c.MessageID)
		if err != nil {
			m.setError(err.Error())
			return nil
		}
		return m.sendMessage(p.ID, prov.ID, p.ChatID, c.Text, c.MessageID)

	case command.Edit:
		p, ok := m.reg.Get(m.focused)
		if !ok || !p.Bound() {
			m.setError("no chat in this pane")
			return nil
		}
		msg, found := p.Find(c.MessageID)
		if !found {
			m.setError("no such message in this pane")
			return nil
		}
		if !msg.Outgoing {
			m.setError("can only edit your own messages")
			return nil
		}
		return m.editMessage(p.ChatID, c.MessageID, c.Text)

	case command.Delete:
		p, ok := m.reg.Get(m.focused)
		if !ok || !p.Bound() {
			m.setError("no chat in this pane")
			return nil
		}
		msg, found := p.Find(c.MessageID)
		if !found {
			m.setError("no such message in this pane")
			return nil
		}
		if !msg.Outgoing {
			m.setError("can only delete your own messages")
			return nil
		}
		return m.deleteMessage(p.ChatID, c.MessageID)

	case command.Forward:
		p, ok := m.reg.Get(m.focused)
		if !ok || !p.Bound() {
			m.setError("no chat in this pane")
			return nil
		}
		if _, found := p.Find(c.MessageID); !found {
			m.setError("no such message in this pane")
			return nil
		}
		info, found := m.findChat(c.Target)
		if !found {
			m.setError("no chat matching " + c.Target)
			return nil
		}
		return m.forwardMessage(p.ChatID, c.MessageID, info.ID, info.Title)

	case command.SetFilter:
		if err := m.reg.SetFilter(m.focused, c.Filter); err != nil {
			m.setError("focus a pane to filter")
			return nil
		}
		m.setStatus("filter: " + c.Filter.Describe())
		return nil

	case command.ClearFilter:
		if err := m.reg.ClearFilter(m.focused); err != nil {
			m.setError("focus a pane to filter")
			return nil
		}
		m.setStatus("filter off")
		return nil

	case command.Alias:
		if err := m.aliases.Set(c.SenderID, c.Name); err != nil {
			logger.Error("alias save", "err", err)
			m.setError(err.Error())
			return nil
		}
		m.setStatus("alias set: " + c.Name)
		return nil

	case command.Unalias:
		if err := m.aliases.Remove(c.SenderID); err != nil {
			m.setError(err.Error())
			return nil
		}
		m.setStatus("alias removed")
		return nil
	}
	return nil
}
