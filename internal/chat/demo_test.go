package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panechat/internal/errs"
)

func TestDemoChatsAndHistory(t *testing.T) {
	d := NewDemo(1)
	defer d.Close()

	chats, err := d.Chats(context.Background())
	require.NoError(t, err)
	require.Len(t, chats, 4)

	msgs, err := d.History(context.Background(), chats[0].ID, 0)
	require.NoError(t, err)
	assert.Len(t, msgs, 3)
	for i := 1; i < len(msgs); i++ {
		assert.True(t, msgs[i-1].Time.Before(msgs[i].Time), "history is oldest first")
	}

	limited, err := d.History(context.Background(), chats[0].ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
	assert.Equal(t, msgs[1].ID, limited[0].ID, "limit keeps the newest")
}

func TestDemoHistoryUnknownChat(t *testing.T) {
	d := NewDemo(1)
	defer d.Close()

	_, err := d.History(context.Background(), 999, 0)
	assert.True(t, errs.Is(errs.NotFound, err))
}

func TestDemoSendEchoesUpdate(t *testing.T) {
	d := NewDemo(1)
	defer d.Close()

	m, err := d.Send(context.Background(), 100, "hello", 0)
	require.NoError(t, err)
	assert.True(t, m.Outgoing)
	assert.Positive(t, m.ID)

	u := <-d.Updates()
	nm, ok := u.(NewMessage)
	require.True(t, ok)
	assert.Equal(t, m.ID, nm.Message.ID)
	assert.Equal(t, int64(100), ChatID(u))
}

func TestDemoEditAndDelete(t *testing.T) {
	d := NewDemo(1)
	defer d.Close()

	m, err := d.Send(context.Background(), 100, "tpyo", 0)
	require.NoError(t, err)
	<-d.Updates()

	require.NoError(t, d.Edit(context.Background(), 100, m.ID, "typo"))
	u := <-d.Updates()
	ed, ok := u.(MessageEdited)
	require.True(t, ok)
	assert.Equal(t, "typo", ed.Message.Text)
	assert.True(t, ed.Message.Edited)

	// Editing someone else's message is rejected.
	msgs, _ := d.History(context.Background(), 100, 0)
	err = d.Edit(context.Background(), 100, msgs[0].ID, "nope")
	assert.True(t, errs.Is(errs.Invalid, err))

	require.NoError(t, d.Delete(context.Background(), 100, m.ID))
	u = <-d.Updates()
	del, ok := u.(MessageDeleted)
	require.True(t, ok)
	assert.Equal(t, m.ID, del.MessageID)
}

func TestDemoForward(t *testing.T) {
	d := NewDemo(1)
	defer d.Close()

	src, err := d.History(context.Background(), 100, 0)
	require.NoError(t, err)

	require.NoError(t, d.Forward(context.Background(), 100, src[0].ID, 101))
	u := <-d.Updates()
	nm, ok := u.(NewMessage)
	require.True(t, ok)
	assert.Equal(t, int64(101), nm.Message.ChatID)
	assert.Equal(t, src[0].Text, nm.Message.Text)
	assert.NotEqual(t, src[0].ID, nm.Message.ID)
}

func TestDemoCloseDuringInjectIsSafe(t *testing.T) {
	d := NewDemo(1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			d.Inject(NewMessage{Message: Message{
				ID: int64(5000 + i), ChatID: 100, Sender: "Ada", Text: "x",
			}}) // must not panic after Close
		}
	}()
	require.NoError(t, d.Close())
	<-done
}

func TestDemoCloseClosesUpdates(t *testing.T) {
	d := NewDemo(1)
	require.NoError(t, d.Close())
	_, open := <-d.Updates()
	assert.False(t, open)
	require.NoError(t, d.Close(), "double close is fine")
}
