// Package chat defines the messaging domain types and the client
// interface the UI talks to. The real network client lives outside this
// module; Demo provides an in-process implementation for development
// and tests.
package chat

import (
	"time"
)

// Message is one message as the UI sees it. Provisional (not yet
// confirmed by the backend) messages carry a negative ID.
type Message struct {
	ID        int64
	ChatID    int64
	SenderID  int64
	Sender    string
	Text      string
	Time      time.Time
	Outgoing  bool
	ReplyTo   int64 // 0 when not a reply
	Reactions map[string]int
	Media     MediaKind
	MediaName string
	Edited    bool
}

// Provisional reports whether the message is a local optimistic echo
// that the backend has not confirmed yet.
func (m Message) Provisional() bool { return m.ID < 0 }

// MediaKind labels non-text content attached to a message.
type MediaKind int

const (
	MediaNone MediaKind = iota
	MediaPhoto
	MediaVideo
	MediaAudio
	MediaVoice
	MediaSticker
	MediaDocument
)

func (k MediaKind) String() string {
	switch k {
	case MediaPhoto:
		return "photo"
	case MediaVideo:
		return "video"
	case MediaAudio:
		return "audio"
	case MediaVoice:
		return "voice"
	case MediaSticker:
		return "sticker"
	case MediaDocument:
		return "document"
	default:
		return "none"
	}
}

// ParseMediaKind maps a user-typed media word to its kind.
func ParseMediaKind(s string) (MediaKind, bool) {
	switch s {
	case "photo", "photos":
		return MediaPhoto, true
	case "video", "videos":
		return MediaVideo, true
	case "audio":
		return MediaAudio, true
	case "voice":
		return MediaVoice, true
	case "sticker", "stickers":
		return MediaSticker, true
	case "doc", "docs", "document", "documents", "file", "files":
		return MediaDocument, true
	}
	return MediaNone, false
}

// Info describes one conversation in the chat list.
type Info struct {
	ID     int64
	Title  string
	Group  bool
	Unread int
}
