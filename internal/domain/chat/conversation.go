package chat

import (
	"errors"
	"strings"
	"time"
)

// ErrClosed is returned when a message is sent to a closed conversation.
var ErrClosed = errors.New("chat is closed")

// Message is one transcript entry.
type Message struct {
	Text    string
	FromBot bool
	At      time.Time
}

// Conversation is a single widget session: closed → open → turns → closed.
// It is not safe for concurrent use; callers serialize access.
type Conversation struct {
	open     bool
	messages []Message
}

// IsOpen reports whether the widget is open.
func (c *Conversation) IsOpen() bool { return c.open }

// Open shows the widget, adding the welcome message once per open session.
func (c *Conversation) Open(now time.Time) {
	if c.open {
		return
	}
	c.open = true
	c.messages = append(c.messages[:0], Message{Text: WelcomeMessage, FromBot: true, At: now})
}

// Close hides the widget and discards the transcript.
func (c *Conversation) Close() {
	c.open = false
	c.messages = nil
}

// Ask records the user's message and the responder's reply. Blank input is
// ignored and reports false.
func (c *Conversation) Ask(r *Responder, text string, now time.Time) (Answer, bool, error) {
	if !c.open {
		return Answer{}, false, ErrClosed
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Answer{}, false, nil
	}
	answer := r.Reply(text)
	c.messages = append(c.messages,
		Message{Text: text, At: now},
		Message{Text: answer.Text, FromBot: true, At: now},
	)
	return answer, true, nil
}

// Transcript returns a copy of the visible messages.
func (c *Conversation) Transcript() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}
