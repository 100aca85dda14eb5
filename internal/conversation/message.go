package conversation

import (
	"time"

	"github.com/matheus3301/adminterm/internal/channel"
	"github.com/matheus3301/adminterm/internal/filter"
)

// Message is one entry in the conversation view.
type Message struct {
	Username string
	Content  string
	Time     time.Time
	// Live is false for history loaded before the page mounted.
	Live bool
	// Outgoing marks messages sent by the current user.
	Outgoing bool
}

// Field implements filter.Record.
func (m Message) Field(f filter.Field) (string, bool) {
	switch f {
	case filter.Username:
		return m.Username, true
	case filter.Content:
		return m.Content, true
	}
	return "", false
}

func fromWire(w channel.Message, self string) Message {
	return Message{
		Username: w.Username,
		Content:  w.Content,
		Time:     w.Time,
		Live:     true,
		Outgoing: self != "" && w.Username == self,
	}
}

func (m Message) wire() channel.Message {
	return channel.Message{Username: m.Username, Content: m.Content, Time: m.Time}
}
