package chat

import "strings"

// FilterKind selects what a pane filter matches on.
type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterSender
	FilterMedia
	FilterLinks
)

// Filter narrows a pane's visible messages. The zero value matches
// everything.
type Filter struct {
	Kind   FilterKind
	Sender string    // FilterSender: case-insensitive substring of the sender name
	Media  MediaKind // FilterMedia
}

// Active reports whether the filter narrows anything.
func (f Filter) Active() bool { return f.Kind != FilterNone }

// Matches reports whether the message passes the filter.
func (f Filter) Matches(m Message) bool {
	switch f.Kind {
	case FilterSender:
		return strings.Contains(strings.ToLower(m.Sender), strings.ToLower(f.Sender))
	case FilterMedia:
		return m.Media == f.Media
	case FilterLinks:
		return strings.Contains(m.Text, "http://") || strings.Contains(m.Text, "https://")
	default:
		return true
	}
}

// Describe renders the filter for the pane header.
func (f Filter) Describe() string {
	switch f.Kind {
	case FilterSender:
		return "sender:" + f.Sender
	case FilterMedia:
		return "media:" + f.Media.String()
	case FilterLinks:
		return "links"
	default:
		return ""
	}
}
