package conversation

import "strings"

// Command identifies a slash command understood by the controller.
type Command string

const (
	// CommandNone marks a free-form text message.
	CommandNone Command = ""
	// CommandStart opens a fresh session.
	CommandStart Command = "start"
	// CommandDone ends the session with a thank-you message.
	CommandDone Command = "done"
	// CommandCancel ends the session with a cancellation message.
	CommandCancel Command = "cancel"
	// CommandStats reports runtime counters to the admin.
	CommandStats Command = "stats"
)

// Event is one inbound message addressed to a conversation.
type Event struct {
	ConversationID int64
	Command        Command
	Text           string
}

// ParseEvent classifies raw message text. Text starting with '/' is treated as
// a command; a "@botname" suffix and any arguments are dropped.
func ParseEvent(conversationID int64, text string) Event {
	ev := Event{ConversationID: conversationID, Text: text}
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "/") {
		return ev
	}
	name := strings.TrimPrefix(trimmed, "/")
	if i := strings.IndexAny(name, " \t\n"); i >= 0 {
		name = name[:i]
	}
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	ev.Command = Command(strings.ToLower(name))
	return ev
}

// Reply is the outbound message produced for an Event.
type Reply struct {
	Text string
	// Keyboard, when non-empty, is rendered as quick-reply rows.
	Keyboard [][]string
	// RemoveKeyboard hides a previously shown keyboard.
	RemoveKeyboard bool
}
