package chat

import "context"

// Update is a push event from the backend. The concrete variants are
// NewMessage, MessageEdited, MessageDeleted, ReactionChanged, and
// UserTyping; consumers switch on the type.
type Update interface {
	updateChatID() int64
}

// NewMessage announces a message arriving in a chat, including echoes
// of our own sends.
type NewMessage struct {
	Message Message
}

// MessageEdited carries the full new state of an edited message.
type MessageEdited struct {
	Message Message
}

// MessageDeleted identifies a removed message.
type MessageDeleted struct {
	ChatID    int64
	MessageID int64
}

// ReactionChanged carries the full new reaction tally of a message.
type ReactionChanged struct {
	ChatID    int64
	MessageID int64
	Reactions map[string]int
}

// UserTyping signals a typing notification in a chat.
type UserTyping struct {
	ChatID int64
	User   string
}

func (u NewMessage) updateChatID() int64      { return u.Message.ChatID }
func (u MessageEdited) updateChatID() int64   { return u.Message.ChatID }
func (u MessageDeleted) updateChatID() int64  { return u.ChatID }
func (u ReactionChanged) updateChatID() int64 { return u.ChatID }
func (u UserTyping) updateChatID() int64      { return u.ChatID }

// ChatID returns the conversation an update belongs to.
func ChatID(u Update) int64 { return u.updateChatID() }

// Client is the messaging backend the UI collaborates with. All calls
// may block on the network and honor ctx cancellation. Implementations
// must be safe for use from multiple goroutines.
type Client interface {
	// Chats lists the conversations for the sidebar, most recent first.
	Chats(ctx context.Context) ([]Info, error)

	// History returns up to limit messages of a chat, oldest first.
	History(ctx context.Context, chatID int64, limit int) ([]Message, error)

	// Send posts text to a chat, optionally as a reply, and returns the
	// confirmed message.
	Send(ctx context.Context, chatID int64, text string, replyTo int64) (Message, error)

	// Edit replaces the text of an own message.
	Edit(ctx context.Context, chatID, messageID int64, text string) error

	// Delete removes an own message.
	Delete(ctx context.Context, chatID, messageID int64) error

	// Forward copies a message to another chat.
	Forward(ctx context.Context, fromChat, messageID, toChat int64) error

	// Updates is the push channel. It is closed when the client shuts
	// down.
	Updates() <-chan Update

	// Close releases the client. Updates is closed as a consequence.
	Close() error
}
