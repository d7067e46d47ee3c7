package format

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// HighlightFences replaces ```lang fenced blocks in text with
// syntax-highlighted terminal output. Unhighlightable blocks are left
// as-is minus the fence markers.
func HighlightFences(text string) string {
	if !strings.Contains(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	var out []string
	var block []string
	lang := ""
	inside := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if inside {
				out = append(out, highlight(strings.Join(block, "\n"), lang)...)
				block = nil
				inside = false
			} else {
				lang = strings.TrimPrefix(trimmed, "```")
				inside = true
			}
			continue
		}
		if inside {
			block = append(block, line)
		} else {
			out = append(out, line)
		}
	}
	// Unterminated fence: show the partial block verbatim.
	if inside {
		out = append(out, block...)
	}
	return strings.Join(out, "\n")
}

func highlight(src, lang string) []string {
	if lang == "" {
		lang = "text"
	}
	var sb strings.Builder
	if err := quick.Highlight(&sb, src, lang, "terminal256", "monokai"); err != nil {
		return strings.Split(src, "\n")
	}
	return strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
}
