// Package pane manages the per-pane state behind each layout leaf: the
// chat binding, message buffer, scroll position, filter, reply target,
// and input editor.
package pane

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textarea"

	"panechat/internal/chat"
	"panechat/internal/display"
	"panechat/internal/errs"
)

// Pane is the state of one layout leaf. All mutation goes through the
// Registry so the buffer invariants hold.
type Pane struct {
	ID     int64
	ChatID int64 // 0 when unbound
	Title  string
	Group  bool

	msgs []chat.Message
	seen map[int64]bool // message ids present in msgs

	// ScrollOffset counts messages up from the bottom of the filtered
	// view. 0 means stick to the newest message.
	ScrollOffset int

	Filter      chat.Filter
	ReplyTarget int64 // message id, 0 when none
	Overrides   display.Overrides

	Input textarea.Model

	TypingUser  string
	TypingUntil time.Time

	Loading bool
}

// Bound reports whether the pane has a chat.
func (p *Pane) Bound() bool { return p.ChatID != 0 }

// Messages returns the full buffer in arrival order. The slice is
// shared; callers must not mutate it.
func (p *Pane) Messages() []chat.Message { return p.msgs }

// Visible applies the filter and returns the window of at most height
// messages ending ScrollOffset messages above the newest. Re-evaluated
// on every render, so filter and buffer changes show up immediately.
func (p *Pane) Visible(height int) []chat.Message {
	filtered := p.msgs
	if p.Filter.Active() {
		filtered = make([]chat.Message, 0, len(p.msgs))
		for _, m := range p.msgs {
			if p.Filter.Matches(m) {
				filtered = append(filtered, m)
			}
		}
	}
	if height <= 0 || len(filtered) == 0 {
		return nil
	}
	end := len(filtered) - p.ScrollOffset
	if end > len(filtered) {
		end = len(filtered)
	}
	if end < 1 {
		end = 1
	}
	start := end - height
	if start < 0 {
		start = 0
	}
	return filtered[start:end]
}

// FilteredLen returns the number of messages passing the filter.
func (p *Pane) FilteredLen() int {
	if !p.Filter.Active() {
		return len(p.msgs)
	}
	n := 0
	for _, m := range p.msgs {
		if p.Filter.Matches(m) {
			n++
		}
	}
	return n
}

// Find returns the message with the given id.
func (p *Pane) Find(id int64) (chat.Message, bool) {
	for _, m := range p.msgs {
		if m.ID == id {
			return m, true
		}
	}
	return chat.Message{}, false
}

// Typing returns the typing indicator if it has not expired.
func (p *Pane) Typing(now time.Time) (string, bool) {
	if p.TypingUser != "" && now.Before(p.TypingUntil) {
		return p.TypingUser, true
	}
	return "", false
}

func newInput() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Message…"
	ta.Prompt = "> "
	ta.ShowLineNumbers = false
	ta.CharLimit = 4096
	ta.SetHeight(1)
	return ta
}

// Registry owns every pane in the session. Pane ids are monotonic and
// never reused, so a stale async result can never attach to the wrong
// pane.
type Registry struct {
	panes       map[int64]*Pane
	order       []int64
	nextID      int64
	cap         int
	provisional int64
}

// NewRegistry builds a registry whose panes keep at most cap messages
// each (oldest evicted first). cap <= 0 means unlimited.
func NewRegistry(cap int) *Registry {
	return &Registry{
		panes:       make(map[int64]*Pane),
		nextID:      1,
		cap:         cap,
		provisional: -1,
	}
}

// Create allocates a fresh unbound pane.
func (r *Registry) Create() *Pane {
	p := &Pane{
		ID:        r.nextID,
		seen:      make(map[int64]bool),
		Overrides: display.Overrides{},
		Input:     newInput(),
	}
	r.nextID++
	r.panes[p.ID] = p
	r.order = append(r.order, p.ID)
	return p
}

// Get looks a pane up by id.
func (r *Registry) Get(id int64) (*Pane, bool) {
	p, ok := r.panes[id]
	return p, ok
}

// Remove drops a pane. Its id is never handed out again.
func (r *Registry) Remove(id int64) {
	delete(r.panes, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of live panes.
func (r *Registry) Len() int { return len(r.panes) }

// Bind points a pane at a chat. The buffer, scroll position, filter,
// and reply target are cleared; they belonged to the previous chat.
// Display overrides are pane-local and survive rebinding.
func (r *Registry) Bind(id int64, info chat.Info) error {
	p, ok := r.panes[id]
	if !ok {
		return errs.E(errs.Op("pane.Bind"), errs.NotFound, fmt.Sprintf("pane %d", id))
	}
	p.ChatID = info.ID
	p.Title = info.Title
	p.Group = info.Group
	p.msgs = nil
	p.seen = make(map[int64]bool)
	p.ScrollOffset = 0
	p.Filter = chat.Filter{}
	p.ReplyTarget = 0
	p.TypingUser = ""
	p.Loading = true
	return nil
}

// SetHistory replaces the buffer with a fetched history, keeping any
// messages that arrived while the fetch was in flight.
func (r *Registry) SetHistory(id int64, msgs []chat.Message) {
	p, ok := r.panes[id]
	if !ok {
		return
	}
	arrived := p.msgs
	p.msgs = nil
	p.seen = make(map[int64]bool)
	p.Loading = false
	for _, m := range msgs {
		r.append(p, m)
	}
	for _, m := range arrived {
		r.append(p, m)
	}
}

// Append adds a message to every pane bound to its chat, preserving
// arrival order, de-duplicating by message id, and evicting the oldest
// beyond the cap. Returns the panes that accepted the message.
func (r *Registry) Append(m chat.Message) []*Pane {
	var hit []*Pane
	for _, id := range r.order {
		p := r.panes[id]
		if p.ChatID != m.ChatID {
			continue
		}
		if r.append(p, m) {
			hit = append(hit, p)
		}
	}
	return hit
}

func (r *Registry) append(p *Pane, m chat.Message) bool {
	if p.seen[m.ID] {
		return false
	}
	// A confirmed echo replaces its provisional twin.
	if !m.Provisional() && m.Outgoing {
		for i := len(p.msgs) - 1; i >= 0; i-- {
			old := p.msgs[i]
			if old.Provisional() && old.Text == m.Text && old.ReplyTo == m.ReplyTo {
				delete(p.seen, old.ID)
				p.seen[m.ID] = true
				p.msgs[i] = m
				return true
			}
		}
	}
	p.seen[m.ID] = true
	p.msgs = append(p.msgs, m)
	if r.cap > 0 && len(p.msgs) > r.cap {
		drop := len(p.msgs) - r.cap
		for _, old := range p.msgs[:drop] {
			delete(p.seen, old.ID)
		}
		p.msgs = append(p.msgs[:0:0], p.msgs[drop:]...)
		if p.ScrollOffset > len(p.msgs) {
			p.ScrollOffset = len(p.msgs)
		}
	}
	return true
}

// AppendProvisional adds a local echo with a session-unique negative id
// to one pane and returns it. The scroll snaps to the bottom so the
// user sees their own message.
func (r *Registry) AppendProvisional(id int64, text string, replyTo int64) (chat.Message, error) {
	p, ok := r.panes[id]
	if !ok || !p.Bound() {
		return chat.Message{}, errs.E(errs.Op("pane.AppendProvisional"), errs.NotFound, fmt.Sprintf("pane %d", id))
	}
	m := chat.Message{
		ID:       r.provisional,
		ChatID:   p.ChatID,
		Sender:   "me",
		Text:     text,
		Time:     time.Now(),
		Outgoing: true,
		ReplyTo:  replyTo,
	}
	r.provisional--
	r.append(p, m)
	p.ScrollOffset = 0
	return m, nil
}

// Confirm swaps a provisional message for its confirmed form in every
// pane bound to the chat.
func (r *Registry) Confirm(provisionalID int64, confirmed chat.Message) {
	for _, id := range r.order {
		p := r.panes[id]
		if p.ChatID != confirmed.ChatID || !p.seen[provisionalID] {
			continue
		}
		for i := range p.msgs {
			if p.msgs[i].ID == provisionalID {
				delete(p.seen, provisionalID)
				p.seen[confirmed.ID] = true
				p.msgs[i] = confirmed
				break
			}
		}
	}
}

// DropProvisional removes a failed optimistic echo.
func (r *Registry) DropProvisional(provisionalID int64) {
	for _, id := range r.order {
		p := r.panes[id]
		if !p.seen[provisionalID] {
			continue
		}
		delete(p.seen, provisionalID)
		for i := range p.msgs {
			if p.msgs[i].ID == provisionalID {
				p.msgs = append(p.msgs[:i:i], p.msgs[i+1:]...)
				break
			}
		}
	}
}

// ApplyEdit replaces a message's content in every pane showing it.
func (r *Registry) ApplyEdit(m chat.Message) {
	for _, id := range r.order {
		p := r.panes[id]
		if p.ChatID != m.ChatID || !p.seen[m.ID] {
			continue
		}
		for i := range p.msgs {
			if p.msgs[i].ID == m.ID {
				p.msgs[i] = m
				break
			}
		}
	}
}

// ApplyDelete removes a message from every pane showing it. A reply
// target pointing at the deleted message is cleared.
func (r *Registry) ApplyDelete(chatID, messageID int64) {
	for _, id := range r.order {
		p := r.panes[id]
		if p.ChatID != chatID || !p.seen[messageID] {
			continue
		}
		delete(p.seen, messageID)
		for i := range p.msgs {
			if p.msgs[i].ID == messageID {
				p.msgs = append(p.msgs[:i:i], p.msgs[i+1:]...)
				break
			}
		}
		if p.ReplyTarget == messageID {
			p.ReplyTarget = 0
		}
	}
}

// ApplyReactions overwrites a message's reaction tally.
func (r *Registry) ApplyReactions(chatID, messageID int64, reactions map[string]int) {
	for _, id := range r.order {
		p := r.panes[id]
		if p.ChatID != chatID || !p.seen[messageID] {
			continue
		}
		for i := range p.msgs {
			if p.msgs[i].ID == messageID {
				p.msgs[i].Reactions = reactions
				break
			}
		}
	}
}

// SetTyping marks a typing indicator on every pane bound to the chat,
// expiring after ttl.
func (r *Registry) SetTyping(chatID int64, user string, ttl time.Duration) {
	until := time.Now().Add(ttl)
	for _, id := range r.order {
		p := r.panes[id]
		if p.ChatID != chatID {
			continue
		}
		p.TypingUser = user
		p.TypingUntil = until
	}
}

// Clear empties a pane's buffer. The binding, filter, and overrides
// stay; new messages keep arriving.
func (r *Registry) Clear(id int64) {
	p, ok := r.panes[id]
	if !ok {
		return
	}
	p.msgs = nil
	p.seen = make(map[int64]bool)
	p.ScrollOffset = 0
}

// BoundTo reports whether any pane is bound to the chat.
func (r *Registry) BoundTo(chatID int64) bool {
	for _, p := range r.panes {
		if p.ChatID == chatID {
			return true
		}
	}
	return false
}

// Scroll moves a pane's window by delta messages (positive is up, into
// history), clamped to the filtered buffer.
func (r *Registry) Scroll(id int64, delta int) {
	p, ok := r.panes[id]
	if !ok {
		return
	}
	p.ScrollOffset += delta
	max := p.FilteredLen() - 1
	if max < 0 {
		max = 0
	}
	if p.ScrollOffset > max {
		p.ScrollOffset = max
	}
	if p.ScrollOffset < 0 {
		p.ScrollOffset = 0
	}
}

// SetFilter installs a filter and resets the scroll, since the old
// offset referred to a different visible sequence.
func (r *Registry) SetFilter(id int64, f chat.Filter) error {
	p, ok := r.panes[id]
	if !ok {
		return errs.E(errs.Op("pane.SetFilter"), errs.NotFound, fmt.Sprintf("pane %d", id))
	}
	p.Filter = f
	p.ScrollOffset = 0
	return nil
}

// ClearFilter removes the filter and resets the scroll.
func (r *Registry) ClearFilter(id int64) error {
	return r.SetFilter(id, chat.Filter{})
}
