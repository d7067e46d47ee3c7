// Package command parses the slash commands typed into a pane's input
// and turns them into a closed set of typed commands for the UI to
// apply. Anything that does not start with "/" is plain message text
// and never reaches this package.
package command

import (
	"fmt"
	"strconv"
	"strings"

	"panechat/internal/chat"
	"panechat/internal/errs"
	"panechat/internal/layout"
)

// Command is one parsed slash command. The concrete types below are
// the only implementations; the UI switches over them exhaustively.
type Command interface{ isCommand() }

// Split divides the focused pane in two.
type Split struct{ Orient layout.Orientation }

// Close removes the focused pane.
type Close struct{}

// Clear empties the focused pane's message buffer.
type Clear struct{}

// Open binds the focused pane to the named chat.
type Open struct{ Target string }

// Reply sets the reply target, optionally sending text immediately.
type Reply struct {
	MessageID int64
	Text      string
}

// Edit rewrites an own message.
type Edit struct {
	MessageID int64
	Text      string
}

// Delete removes an own message.
type Delete struct{ MessageID int64 }

// Forward copies a message to another chat by name.
type Forward struct {
	MessageID int64
	Target    string
}

// SetFilter narrows the focused pane's visible messages.
type SetFilter struct{ Filter chat.Filter }

// ClearFilter removes the focused pane's filter.
type ClearFilter struct{}

// Alias names a sender id.
type Alias struct {
	SenderID int64
	Name     string
}

// Unalias removes a sender alias.
type Unalias struct{ SenderID int64 }

func (Split) isCommand()       {}
func (Close) isCommand()       {}
func (Clear) isCommand()       {}
func (Open) isCommand()        {}
func (Reply) isCommand()       {}
func (Edit) isCommand()        {}
func (Delete) isCommand()      {}
func (Forward) isCommand()     {}
func (SetFilter) isCommand()   {}
func (ClearFilter) isCommand() {}
func (Alias) isCommand()       {}
func (Unalias) isCommand()     {}

const op = errs.Op("command.Parse")

func invalid(format string, args ...interface{}) error {
	return errs.E(op, errs.InvalidCommand, fmt.Sprintf(format, args...))
}

// Parse turns a "/..." line into a Command. The input must start with
// "/". Unknown names and malformed arguments yield InvalidCommand with
// a message suitable for the status bar.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return nil, invalid("not a command: %q", line)
	}
	fields := strings.Fields(line)
	name := strings.TrimPrefix(fields[0], "/")
	args := fields[1:]

	switch name {
	case "split", "sp":
		o := layout.Vertical
		if len(args) > 0 {
			switch args[0] {
			case "v", "vertical":
				o = layout.Vertical
			case "h", "horizontal":
				o = layout.Horizontal
			default:
				return nil, invalid("usage: /split [v|h]")
			}
		}
		return Split{Orient: o}, nil

	case "close", "q":
		return Close{}, nil

	case "clear":
		return Clear{}, nil

	case "open", "o":
		if len(args) == 0 {
			return nil, invalid("usage: /open <chat>")
		}
		return Open{Target: strings.Join(args, " ")}, nil

	case "reply", "r":
		if len(args) == 0 {
			return nil, invalid("usage: /reply <id> [text]")
		}
		id, err := msgID(args[0])
		if err != nil {
			return nil, err
		}
		return Reply{MessageID: id, Text: strings.Join(args[1:], " ")}, nil

	case "edit", "e":
		if len(args) < 2 {
			return nil, invalid("usage: /edit <id> <text>")
		}
		id, err := msgID(args[0])
		if err != nil {
			return nil, err
		}
		return Edit{MessageID: id, Text: strings.Join(args[1:], " ")}, nil

	case "delete", "del":
		if len(args) != 1 {
			return nil, invalid("usage: /delete <id>")
		}
		id, err := msgID(args[0])
		if err != nil {
			return nil, err
		}
		return Delete{MessageID: id}, nil

	case "forward", "fwd":
		if len(args) < 2 {
			return nil, invalid("usage: /forward <id> <chat>")
		}
		id, err := msgID(args[0])
		if err != nil {
			return nil, err
		}
		return Forward{MessageID: id, Target: strings.Join(args[1:], " ")}, nil

	case "filter", "f":
		if len(args) == 0 {
			return nil, invalid("usage: /filter off|links|<media>|<sender>")
		}
		arg := strings.Join(args, " ")
		switch arg {
		case "off", "none":
			return ClearFilter{}, nil
		case "links", "link":
			return SetFilter{Filter: chat.Filter{Kind: chat.FilterLinks}}, nil
		}
		if media, ok := chat.ParseMediaKind(arg); ok {
			return SetFilter{Filter: chat.Filter{Kind: chat.FilterMedia, Media: media}}, nil
		}
		return SetFilter{Filter: chat.Filter{Kind: chat.FilterSender, Sender: arg}}, nil

	case "alias":
		if len(args) < 2 {
			return nil, invalid("usage: /alias <sender-id> <name>")
		}
		id, err := senderID(args[0])
		if err != nil {
			return nil, err
		}
		return Alias{SenderID: id, Name: strings.Join(args[1:], " ")}, nil

	case "unalias":
		if len(args) != 1 {
			return nil, invalid("usage: /unalias <sender-id>")
		}
		id, err := senderID(args[0])
		if err != nil {
			return nil, err
		}
		return Unalias{SenderID: id}, nil

	default:
		return nil, invalid("unknown command /%s", name)
	}
}

func msgID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid("bad message id %q", s)
	}
	return id, nil
}

func senderID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid("bad sender id %q", s)
	}
	return id, nil
}
