// Package theme centralizes colors and lipgloss styles so the UI
// packages never hardcode escape codes.
package theme

import (
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds the named colors used across the UI.
type Palette struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	Border     lipgloss.Color
	Focus      lipgloss.Color
	Error      lipgloss.Color
	Unread     lipgloss.Color
}

// Default is the built-in palette.
var Default = Palette{
	Background: lipgloss.Color("235"),
	Foreground: lipgloss.Color("252"),
	Muted:      lipgloss.Color("243"),
	Accent:     lipgloss.Color("110"),
	Border:     lipgloss.Color("240"),
	Focus:      lipgloss.Color("110"),
	Error:      lipgloss.Color("203"),
	Unread:     lipgloss.Color("214"),
}

// Styles bundles the prebuilt styles the renderer uses each frame.
type Styles struct {
	PaneBorder        lipgloss.Style
	PaneBorderFocused lipgloss.Style
	PaneTitle         lipgloss.Style
	PaneTitleFocused  lipgloss.Style
	Timestamp         lipgloss.Style
	Sender            lipgloss.Style
	Outgoing          lipgloss.Style
	Muted             lipgloss.Style
	Reply             lipgloss.Style
	Error             lipgloss.Style
	StatusBar         lipgloss.Style
	ChatRow           lipgloss.Style
	ChatRowSelected   lipgloss.Style
	Unread            lipgloss.Style
}

// New builds the style set from a palette.
func New(p Palette) Styles {
	return Styles{
		PaneBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border),
		PaneBorderFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Focus),
		PaneTitle:        lipgloss.NewStyle().Foreground(p.Muted).Bold(true),
		PaneTitleFocused: lipgloss.NewStyle().Foreground(p.Focus).Bold(true),
		Timestamp:        lipgloss.NewStyle().Foreground(p.Muted),
		Sender:           lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Outgoing:         lipgloss.NewStyle().Foreground(p.Foreground).Bold(true),
		Muted:            lipgloss.NewStyle().Foreground(p.Muted),
		Reply:            lipgloss.NewStyle().Foreground(p.Muted).Italic(true),
		Error:            lipgloss.NewStyle().Foreground(p.Error),
		StatusBar: lipgloss.NewStyle().
			Foreground(p.Foreground).
			Background(lipgloss.Color("237")).
			Padding(0, 1),
		ChatRow:         lipgloss.NewStyle().Foreground(p.Foreground).Padding(0, 1),
		ChatRowSelected: lipgloss.NewStyle().Foreground(p.Focus).Bold(true).Padding(0, 1),
		Unread:          lipgloss.NewStyle().Foreground(p.Unread).Bold(true),
	}
}

// senderColors is the rotation used to color group-chat senders.
var senderColors = []lipgloss.Color{
	"110", "150", "179", "203", "176", "116", "222", "146",
}

// SenderColor picks a stable color for a sender id, so the same person
// keeps the same color across renders and sessions.
func SenderColor(senderID int64) lipgloss.Color {
	h := fnv.New32a()
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(senderID >> (8 * i))
	}
	h.Write(buf[:])
	return senderColors[h.Sum32()%uint32(len(senderColors))]
}

// SenderStyle returns the sender style colored for the given id.
func SenderStyle(senderID int64) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(SenderColor(senderID)).Bold(true)
}
