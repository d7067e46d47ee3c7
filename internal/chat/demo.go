package chat

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"panechat/internal/errs"
)

// Demo is an in-process Client with canned conversations. It backs the
// --demo flag and the integration-style tests; it never touches the
// network.
type Demo struct {
	mu      sync.Mutex
	chats   []Info
	history map[int64][]Message
	nextID  int64
	updates chan Update
	closed  bool
	rng     *rand.Rand
	cancel  context.CancelFunc
}

var demoScript = []struct {
	chat   string
	group  bool
	sender string
	lines  []string
}{
	{"Ada", false, "Ada", []string{
		"did you see the build break?",
		"never mind, it was my branch",
		"https://example.com/ci/runs/48122/logs/step-7/full-output?attempt=2&view=raw",
	}},
	{"Infra Team", true, "Grace", []string{
		"deploy window moved to 16:00",
		"```go\nfunc main() {\n\tfmt.Println(\"hello\")\n}\n```",
		"who owns the pager this week?",
	}},
	{"Lin", false, "Lin", []string{
		"lunch? 🍜",
		"there in 10",
	}},
	{"Reading Club", true, "Marco", []string{
		"chapter 4 this thursday",
		"bring questions",
	}},
}

// NewDemo builds a demo client seeded deterministically.
func NewDemo(seed int64) *Demo {
	d := &Demo{
		history: make(map[int64][]Message),
		nextID:  1,
		updates: make(chan Update, 64),
		rng:     rand.New(rand.NewSource(seed)),
	}
	base := time.Now().Add(-2 * time.Hour)
	for i, s := range demoScript {
		chatID := int64(100 + i)
		d.chats = append(d.chats, Info{ID: chatID, Title: s.chat, Group: s.group})
		for j, line := range s.lines {
			m := Message{
				ID:       d.nextID,
				ChatID:   chatID,
				SenderID: int64(1000 + i),
				Sender:   s.sender,
				Text:     line,
				Time:     base.Add(time.Duration(i*10+j) * time.Minute),
			}
			d.nextID++
			d.history[chatID] = append(d.history[chatID], m)
		}
	}
	return d
}

// StartChatter emits a synthetic message on a random chat every
// interval until the client is closed. Used by --demo for a live feel;
// tests drive updates explicitly instead.
func (d *Demo) StartChatter(interval time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	d.mu.Lock()
	d.cancel = cancel
	d.mu.Unlock()
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		n := 0
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				n++
				d.mu.Lock()
				if d.closed {
					d.mu.Unlock()
					return
				}
				ci := d.chats[d.rng.Intn(len(d.chats))]
				m := Message{
					ID:       d.nextID,
					ChatID:   ci.ID,
					SenderID: 2000,
					Sender:   ci.Title,
					Text:     fmt.Sprintf("demo message %d", n),
					Time:     time.Now(),
				}
				d.nextID++
				d.history[ci.ID] = append(d.history[ci.ID], m)
				d.mu.Unlock()
				d.emit(NewMessage{Message: m})
			}
		}
	}()
}

// Inject pushes an update as if it arrived from the backend. New
// messages are also recorded in history so later fetches see them.
func (d *Demo) Inject(u Update) {
	if nm, ok := u.(NewMessage); ok {
		d.mu.Lock()
		if nm.Message.ID >= d.nextID {
			d.nextID = nm.Message.ID + 1
		}
		d.history[nm.Message.ChatID] = append(d.history[nm.Message.ChatID], nm.Message)
		d.mu.Unlock()
	}
	d.emit(u)
}

// emit sends without blocking. The send happens under the mutex so a
// concurrent Close cannot close the channel mid-send.
func (d *Demo) emit(u Update) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	select {
	case d.updates <- u:
	default:
	}
}

func (d *Demo) Chats(ctx context.Context) ([]Info, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Info, len(d.chats))
	copy(out, d.chats)
	return out, nil
}

func (d *Demo) History(ctx context.Context, chatID int64, limit int) ([]Message, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	msgs, ok := d.history[chatID]
	if !ok {
		return nil, errs.E(errs.Op("chat.History"), errs.NotFound, fmt.Sprintf("chat %d", chatID))
	}
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (d *Demo) Send(ctx context.Context, chatID int64, text string, replyTo int64) (Message, error) {
	d.mu.Lock()
	if _, ok := d.history[chatID]; !ok {
		d.mu.Unlock()
		return Message{}, errs.E(errs.Op("chat.Send"), errs.NotFound, fmt.Sprintf("chat %d", chatID))
	}
	m := Message{
		ID:       d.nextID,
		ChatID:   chatID,
		SenderID: 1,
		Sender:   "me",
		Text:     text,
		Time:     time.Now(),
		Outgoing: true,
		ReplyTo:  replyTo,
	}
	d.nextID++
	d.history[chatID] = append(d.history[chatID], m)
	d.mu.Unlock()
	d.emit(NewMessage{Message: m})
	return m, nil
}

func (d *Demo) Edit(ctx context.Context, chatID, messageID int64, text string) error {
	d.mu.Lock()
	msgs := d.history[chatID]
	for i := range msgs {
		if msgs[i].ID == messageID {
			if !msgs[i].Outgoing {
				d.mu.Unlock()
				return errs.E(errs.Op("chat.Edit"), errs.Invalid, "not an own message")
			}
			msgs[i].Text = text
			msgs[i].Edited = true
			m := msgs[i]
			d.mu.Unlock()
			d.emit(MessageEdited{Message: m})
			return nil
		}
	}
	d.mu.Unlock()
	return errs.E(errs.Op("chat.Edit"), errs.NotFound, fmt.Sprintf("message %d", messageID))
}

func (d *Demo) Delete(ctx context.Context, chatID, messageID int64) error {
	d.mu.Lock()
	msgs := d.history[chatID]
	for i := range msgs {
		if msgs[i].ID == messageID {
			d.history[chatID] = append(msgs[:i:i], msgs[i+1:]...)
			d.mu.Unlock()
			d.emit(MessageDeleted{ChatID: chatID, MessageID: messageID})
			return nil
		}
	}
	d.mu.Unlock()
	return errs.E(errs.Op("chat.Delete"), errs.NotFound, fmt.Sprintf("message %d", messageID))
}

func (d *Demo) Forward(ctx context.Context, fromChat, messageID, toChat int64) error {
	d.mu.Lock()
	if _, ok := d.history[toChat]; !ok {
		d.mu.Unlock()
		return errs.E(errs.Op("chat.Forward"), errs.NotFound, fmt.Sprintf("chat %d", toChat))
	}
	for _, m := range d.history[fromChat] {
		if m.ID == messageID {
			fwd := m
			fwd.ID = d.nextID
			fwd.ChatID = toChat
			fwd.Time = time.Now()
			fwd.Outgoing = true
			fwd.ReplyTo = 0
			d.nextID++
			d.history[toChat] = append(d.history[toChat], fwd)
			d.mu.Unlock()
			d.emit(NewMessage{Message: fwd})
			return nil
		}
	}
	d.mu.Unlock()
	return errs.E(errs.Op("chat.Forward"), errs.NotFound, fmt.Sprintf("message %d", messageID))
}

func (d *Demo) Updates() <-chan Update { return d.updates }

func (d *Demo) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	if d.cancel != nil {
		d.cancel()
	}
	close(d.updates)
	return nil
}
