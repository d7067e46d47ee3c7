// Package format turns messages into display lines. Everything here is
// a pure text transform; styling hooks are injected by the caller so
// the package stays free of terminal state.
package format

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"panechat/internal/chat"
)

// Wrap breaks s into lines of at most width cells on word boundaries.
func Wrap(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	return strings.Split(wordwrap.String(s, width), "\n")
}

// Truncate shortens s to at most width cells, appending an ellipsis
// when anything was cut.
func Truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}

// RelativeTime renders t relative to now: "now", "5m", "3h", then the
// weekday within a week, then a date.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	default:
		return t.Format("Jan 2")
	}
}

// Reactions renders a tally like "3x👍 1x🎉", ordered by count then
// emoji for stability.
func Reactions(r map[string]int) string {
	if len(r) == 0 {
		return ""
	}
	type entry struct {
		emoji string
		count int
	}
	entries := make([]entry, 0, len(r))
	for e, c := range r {
		if c > 0 {
			entries = append(entries, entry{e, c})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].emoji < entries[j].emoji
	})
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%dx%s", e.count, e.emoji)
	}
	return strings.Join(parts, " ")
}

// MediaLabel renders the bracketed tag for non-text content.
func MediaLabel(m chat.Message) string {
	switch m.Media {
	case chat.MediaPhoto:
		return "[Photo]"
	case chat.MediaVideo:
		return "[Video]"
	case chat.MediaAudio:
		return "[Audio]"
	case chat.MediaVoice:
		return "[Voice]"
	case chat.MediaSticker:
		return "[Sticker]"
	case chat.MediaDocument:
		if m.MediaName != "" {
			return "[Doc: " + m.MediaName + "]"
		}
		return "[Doc]"
	default:
		return ""
	}
}

var emojiRe = regexp.MustCompile(`[\x{1F000}-\x{1FAFF}\x{2600}-\x{27BF}\x{2B00}-\x{2BFF}\x{FE0F}\x{200D}]`)

// StripEmojis removes emoji and related joiner characters, collapsing
// any whitespace runs left behind.
func StripEmojis(s string) string {
	out := emojiRe.ReplaceAllString(s, "")
	out = strings.Join(strings.Fields(out), " ")
	return out
}

var urlRe = regexp.MustCompile(`https?://\S+`)

const maxURLLen = 40

// ShortenURLs ellipsizes long URLs to scheme, host, and the trailing
// path segment. Purely textual; nothing is resolved.
func ShortenURLs(s string) string {
	return urlRe.ReplaceAllStringFunc(s, func(raw string) string {
		if len(raw) <= maxURLLen {
			return raw
		}
		u, err := url.Parse(raw)
		if err != nil {
			return raw[:maxURLLen-1] + "…"
		}
		short := u.Scheme + "://" + u.Host
		if u.Path != "" && u.Path != "/" {
			segs := strings.Split(strings.Trim(u.Path, "/"), "/")
			short += "/…/" + segs[len(segs)-1]
		}
		return short
	})
}
