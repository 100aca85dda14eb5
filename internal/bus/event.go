package bus

import "time"

// Event is a console event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// Namespaces, usable as Subscribe prefixes.
const (
	NSConversation = "conversation."
	NSNotice       = "notice."
	NSAuth         = "auth."
)

// Event kinds.
const (
	ConversationStateChanged    = "conversation.state_changed"
	ConversationMessageAppended = "conversation.message_appended"
	ConversationSendFailed      = "conversation.send_failed"
	NoticeInfo                  = "notice.info"
	NoticeError                 = "notice.error"
	AuthLoggedIn                = "auth.logged_in"
	AuthLoggedOut               = "auth.logged_out"
)

// Notice is the payload of notice.* events: a short user-facing line.
type Notice struct {
	Text string
	Err  error
}
