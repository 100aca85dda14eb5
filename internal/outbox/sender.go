// Package outbox performs fire-and-forget sends over a messaging channel
// and records each attempt in the local sent log. Nothing is retried.
package outbox

import (
	"github.com/google/uuid"
	"github.com/matheus3301/adminterm/internal/bus"
	"github.com/matheus3301/adminterm/internal/channel"
	"go.uber.org/zap"
)

// Log records the outcome of each send.
type Log interface {
	RecordSending(requestID, username, content string) error
	MarkSent(requestID string) error
	MarkSendFailed(requestID, errMsg string) error
}

// Result is the outcome of one send.
type Result struct {
	RequestID string
	Message   channel.Message
	Err       error
}

// SendFailure is the payload of conversation.send_failed events.
type SendFailure struct {
	RequestID string
	Content   string
	Error     string
}

// Sender hands messages to a channel. A nil Log disables the sent log.
type Sender struct {
	log    Log
	bus    *bus.Bus
	logger *zap.Logger
}

// NewSender creates a new outbox sender.
func NewSender(log Log, b *bus.Bus, logger *zap.Logger) *Sender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sender{
		log:    log,
		bus:    b,
		logger: logger,
	}
}

// Begin assigns a request id and records the message as sending.
func (s *Sender) Begin(m channel.Message) string {
	id := uuid.NewString()
	if s.log != nil {
		if err := s.log.RecordSending(id, m.Username, m.Content); err != nil {
			s.logger.Warn("failed to record send", zap.Error(err), zap.String("request_id", id))
		}
	}
	return id
}

// Send writes m to conn under requestID. It blocks for the write only and
// is meant to run off the caller's goroutine.
func (s *Sender) Send(conn channel.Conn, requestID string, m channel.Message) Result {
	err := conn.Send(m)
	s.Finish(requestID, m, err)
	return Result{RequestID: requestID, Message: m, Err: err}
}

// Finish records the outcome of a send and publishes failures.
func (s *Sender) Finish(requestID string, m channel.Message, err error) {
	if err != nil {
		s.logger.Error("failed to send message", zap.Error(err), zap.String("request_id", requestID))
		if s.log != nil {
			_ = s.log.MarkSendFailed(requestID, err.Error())
		}
		s.bus.Emit(bus.ConversationSendFailed, SendFailure{
			RequestID: requestID,
			Content:   m.Content,
			Error:     err.Error(),
		})
		return
	}
	if s.log != nil {
		if err := s.log.MarkSent(requestID); err != nil {
			s.logger.Error("failed to mark sent", zap.Error(err), zap.String("request_id", requestID))
		}
	}
	s.logger.Debug("message sent", zap.String("request_id", requestID))
}
