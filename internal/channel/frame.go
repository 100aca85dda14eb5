package channel

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// EventMessage is the frame event carrying a chat message.
const EventMessage = "message"

// ErrMalformed marks an inbound frame that could not be decoded. The
// connection stays usable; callers skip the frame.
var ErrMalformed = errors.New("malformed frame")

// Message is a chat message as carried on the wire.
type Message struct {
	Username string
	Content  string
	Time     time.Time
}

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type payload struct {
	Username string  `json:"username"`
	Content  *string `json:"content,omitempty"`
	// Msg is accepted inbound as an alias of Content and never emitted.
	Msg  *string `json:"msg,omitempty"`
	Time string  `json:"time,omitempty"`
}

// Encode builds the outbound frame for m under the given event name.
func Encode(event string, m Message) ([]byte, error) {
	content := m.Content
	p := payload{
		Username: m.Username,
		Content:  &content,
	}
	if !m.Time.IsZero() {
		p.Time = m.Time.UTC().Format(time.RFC3339Nano)
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return json.Marshal(frame{Event: event, Data: data})
}

// Decode parses an inbound frame. ok is false for frames of other events,
// which carry nothing for the conversation. A frame that is not valid JSON
// or lacks message content returns ErrMalformed.
func Decode(event string, raw []byte, now time.Time) (m Message, ok bool, err error) {
	var f frame
	if err := json.Unmarshal(raw, &f); err != nil {
		return Message{}, false, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if f.Event != event {
		return Message{}, false, nil
	}
	if len(f.Data) == 0 {
		return Message{}, false, fmt.Errorf("%w: missing data", ErrMalformed)
	}

	var p payload
	if err := json.Unmarshal(f.Data, &p); err != nil {
		return Message{}, false, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch {
	case p.Content != nil:
		m.Content = *p.Content
	case p.Msg != nil:
		m.Content = *p.Msg
	default:
		return Message{}, false, fmt.Errorf("%w: missing content", ErrMalformed)
	}
	m.Username = p.Username
	m.Time = now
	if p.Time != "" {
		if ts, err := time.Parse(time.RFC3339Nano, p.Time); err == nil {
			m.Time = ts
		}
	}
	return m, true, nil
}
