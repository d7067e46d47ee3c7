package pane

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panechat/internal/chat"
	"panechat/internal/display"
	"panechat/internal/errs"
)

func msg(id, chatID int64, text string) chat.Message {
	return chat.Message{ID: id, ChatID: chatID, Sender: "Ada", Text: text, Time: time.Unix(id, 0)}
}

func TestIDsMonotonicNeverReused(t *testing.T) {
	r := NewRegistry(0)
	a := r.Create()
	b := r.Create()
	assert.Less(t, a.ID, b.ID)

	r.Remove(a.ID)
	c := r.Create()
	assert.Greater(t, c.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)
	assert.Equal(t, 2, r.Len())
}

func TestBindClearsChatScopedState(t *testing.T) {
	r := NewRegistry(0)
	p := r.Create()
	require.NoError(t, r.Bind(p.ID, chat.Info{ID: 1, Title: "Ada"}))
	r.Append(msg(1, 1, "hi"))
	r.Append(msg(2, 1, "there"))
	p.ScrollOffset = 1
	p.ReplyTarget = 2
	require.NoError(t, r.SetFilter(p.ID, chat.Filter{Kind: chat.FilterLinks}))
	p.Overrides.Toggle(display.Compact, display.Defaults())

	require.NoError(t, r.Bind(p.ID, chat.Info{ID: 2, Title: "Lin"}))
	assert.Empty(t, p.Messages())
	assert.Zero(t, p.ScrollOffset)
	assert.Zero(t, p.ReplyTarget)
	assert.False(t, p.Filter.Active())
	assert.True(t, p.Loading)
	assert.NotEmpty(t, p.Overrides, "display overrides are pane-local and survive")
}

func TestAppendDedupeAndOrder(t *testing.T) {
	r := NewRegistry(0)
	p := r.Create()
	require.NoError(t, r.Bind(p.ID, chat.Info{ID: 1}))

	assert.Len(t, r.Append(msg(1, 1, "a")), 1)
	assert.Len(t, r.Append(msg(2, 1, "b")), 1)
	assert.Empty(t, r.Append(msg(1, 1, "a")), "duplicate id ignored")
	assert.Empty(t, r.Append(msg(3, 2, "other chat")))

	require.Len(t, p.Messages(), 2)
	assert.Equal(t, int64(1), p.Messages()[0].ID)
	assert.Equal(t, int64(2), p.Messages()[1].ID)
}

func TestAppendFansOutToAllBoundPanes(t *testing.T) {
	r := NewRegistry(0)
	a := r.Create()
	b := r.Create()
	c := r.Create()
	require.NoError(t, r.Bind(a.ID, chat.Info{ID: 1}))
	require.NoError(t, r.Bind(b.ID, chat.Info{ID: 1}))
	require.NoError(t, r.Bind(c.ID, chat.Info{ID: 2}))

	hit := r.Append(msg(1, 1, "x"))
	assert.Len(t, hit, 2)
	assert.Len(t, a.Messages(), 1)
	assert.Len(t, b.Messages(), 1)
	assert.Empty(t, c.Messages())
}

func TestEvictionOldestFirst(t *testing.T) {
	r := NewRegistry(100)
	p := r.Create()
	require.NoError(t, r.Bind(p.ID, chat.Info{ID: 1}))

	for i := 1; i <= 150; i++ {
		r.Append(msg(int64(i), 1, fmt.Sprintf("m%d", i)))
	}
	require.Len(t, p.Messages(), 100)
	assert.Equal(t, int64(51), p.Messages()[0].ID)
	assert.Equal(t, int64(150), p.Messages()[99].ID)

	// An evicted id may legitimately reappear (it is no longer "seen").
	r.Append(msg(1, 1, "m1 again"))
	assert.Equal(t, int64(1), p.Messages()[99].ID)
}

func TestSetHistoryKeepsInFlightArrivals(t *testing.T) {
	r := NewRegistry(0)
	p := r.Create()
	require.NoError(t, r.Bind(p.ID, chat.Info{ID: 1}))

	// A push lands while the history fetch is still running.
	r.Append(msg(10, 1, "live"))
	r.SetHistory(p.ID, []chat.Message{msg(1, 1, "old"), msg(2, 1, "older"), msg(10, 1, "live")})

	require.Len(t, p.Messages(), 3)
	assert.Equal(t, int64(1), p.Messages()[0].ID)
	assert.False(t, p.Loading)
}

func TestVisibleWindowAndScroll(t *testing.T) {
	r := NewRegistry(0)
	p := r.Create()
	require.NoError(t, r.Bind(p.ID, chat.Info{ID: 1}))
	for i := 1; i <= 10; i++ {
		r.Append(msg(int64(i), 1, fmt.Sprintf("m%d", i)))
	}

	v := p.Visible(4)
	require.Len(t, v, 4)
	assert.Equal(t, int64(7), v[0].ID)
	assert.Equal(t, int64(10), v[3].ID)

	r.Scroll(p.ID, 3)
	v = p.Visible(4)
	assert.Equal(t, int64(4), v[0].ID)
	assert.Equal(t, int64(7), v[3].ID)

	// Scrolling past the top clamps.
	r.Scroll(p.ID, 100)
	v = p.Visible(4)
	assert.Equal(t, int64(1), v[0].ID)

	r.Scroll(p.ID, -100)
	v = p.Visible(4)
	assert.Equal(t, int64(10), v[3].ID)
}

func TestVisibleAppliesFilter(t *testing.T) {
	r := NewRegistry(0)
	p := r.Create()
	require.NoError(t, r.Bind(p.ID, chat.Info{ID: 1}))
	r.Append(chat.Message{ID: 1, ChatID: 1, Sender: "Ada", Text: "a"})
	r.Append(chat.Message{ID: 2, ChatID: 1, Sender: "Lin", Text: "b"})
	r.Append(chat.Message{ID: 3, ChatID: 1, Sender: "Ada", Text: "c"})

	require.NoError(t, r.SetFilter(p.ID, chat.Filter{Kind: chat.FilterSender, Sender: "ada"}))
	v := p.Visible(10)
	require.Len(t, v, 2)
	assert.Equal(t, int64(1), v[0].ID)
	assert.Equal(t, int64(3), v[1].ID)
	assert.Equal(t, 2, p.FilteredLen())

	require.NoError(t, r.ClearFilter(p.ID))
	assert.Len(t, p.Visible(10), 3)
}

func TestProvisionalLifecycle(t *testing.T) {
	r := NewRegistry(0)
	p := r.Create()
	require.NoError(t, r.Bind(p.ID, chat.Info{ID: 1}))

	prov, err := r.AppendProvisional(p.ID, "hello", 0)
	require.NoError(t, err)
	assert.True(t, prov.Provisional())
	require.Len(t, p.Messages(), 1)

	confirmed := chat.Message{ID: 42, ChatID: 1, Text: "hello", Outgoing: true, Time: time.Now()}
	r.Confirm(prov.ID, confirmed)
	require.Len(t, p.Messages(), 1)
	assert.Equal(t, int64(42), p.Messages()[0].ID)

	// The echo update for the same confirmed message must not duplicate.
	r.Append(confirmed)
	assert.Len(t, p.Messages(), 1)
}

func TestConfirmViaEchoUpdate(t *testing.T) {
	// If the push echo races ahead of the Send result, Append matches
	// the provisional by content instead of duplicating it.
	r := NewRegistry(0)
	p := r.Create()
	require.NoError(t, r.Bind(p.ID, chat.Info{ID: 1}))

	prov, err := r.AppendProvisional(p.ID, "hello", 0)
	require.NoError(t, err)

	echo := chat.Message{ID: 42, ChatID: 1, Text: "hello", Outgoing: true, Time: time.Now()}
	r.Append(echo)
	require.Len(t, p.Messages(), 1)
	assert.Equal(t, int64(42), p.Messages()[0].ID)

	// The late Send result is then a no-op.
	r.Confirm(prov.ID, echo)
	assert.Len(t, p.Messages(), 1)
}

func TestDropProvisional(t *testing.T) {
	r := NewRegistry(0)
	p := r.Create()
	require.NoError(t, r.Bind(p.ID, chat.Info{ID: 1}))

	prov, err := r.AppendProvisional(p.ID, "doomed", 0)
	require.NoError(t, err)
	r.DropProvisional(prov.ID)
	assert.Empty(t, p.Messages())
}

func TestApplyEditDeleteReactions(t *testing.T) {
	r := NewRegistry(0)
	p := r.Create()
	require.NoError(t, r.Bind(p.ID, chat.Info{ID: 1}))
	r.Append(msg(1, 1, "original"))
	r.Append(msg(2, 1, "second"))
	p.ReplyTarget = 1

	edited := msg(1, 1, "edited")
	edited.Edited = true
	r.ApplyEdit(edited)
	got, ok := p.Find(1)
	require.True(t, ok)
	assert.Equal(t, "edited", got.Text)
	assert.True(t, got.Edited)

	r.ApplyReactions(1, 2, map[string]int{"👍": 3})
	got, _ = p.Find(2)
	assert.Equal(t, 3, got.Reactions["👍"])

	r.ApplyDelete(1, 1)
	_, ok = p.Find(1)
	assert.False(t, ok)
	assert.Zero(t, p.ReplyTarget, "reply target to a deleted message is cleared")
}

func TestTypingExpires(t *testing.T) {
	r := NewRegistry(0)
	p := r.Create()
	require.NoError(t, r.Bind(p.ID, chat.Info{ID: 1}))

	r.SetTyping(1, "Ada", 5*time.Second)
	user, ok := p.Typing(time.Now())
	require.True(t, ok)
	assert.Equal(t, "Ada", user)

	_, ok = p.Typing(time.Now().Add(10 * time.Second))
	assert.False(t, ok)
}

func TestBindUnknownPane(t *testing.T) {
	r := NewRegistry(0)
	err := r.Bind(99, chat.Info{ID: 1})
	assert.True(t, errs.Is(errs.NotFound, err))
	_, err = r.AppendProvisional(99, "x", 0)
	assert.True(t, errs.Is(errs.NotFound, err))
}

func TestClearKeepsBindingAndFilter(t *testing.T) {
	r := NewRegistry(0)
	p := r.Create()
	require.NoError(t, r.Bind(p.ID, chat.Info{ID: 1, Title: "Ada"}))
	r.Append(msg(1, 1, "a"))
	require.NoError(t, r.SetFilter(p.ID, chat.Filter{Kind: chat.FilterLinks}))

	r.Clear(p.ID)
	assert.Empty(t, p.Messages())
	assert.Equal(t, int64(1), p.ChatID)
	assert.True(t, p.Filter.Active())

	// The same message may arrive again after a clear.
	r.Append(msg(1, 1, "a"))
	assert.Len(t, p.Messages(), 1)
}

func TestBoundTo(t *testing.T) {
	r := NewRegistry(0)
	p := r.Create()
	assert.False(t, r.BoundTo(1))
	require.NoError(t, r.Bind(p.ID, chat.Info{ID: 1}))
	assert.True(t, r.BoundTo(1))
}
