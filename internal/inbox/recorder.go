// Package inbox keeps a local copy of inbound chat messages so the
// messages page can show both sides of earlier conversations.
package inbox

import (
	"context"
	"fmt"

	"github.com/matheus3301/adminterm/internal/bus"
	"github.com/matheus3301/adminterm/internal/conversation"
	"github.com/matheus3301/adminterm/internal/store"
	"go.uber.org/zap"
)

// Retain is how many inbound messages survive the prune at start.
const Retain = 1000

// Log is the storage the recorder writes to.
type Log interface {
	RecordReceived(e store.ReceivedEntry) error
	PruneReceived(keep int) (int64, error)
}

// Recorder stores every live inbound message appended to a conversation.
// Outgoing messages are already in the sent log and are skipped.
type Recorder struct {
	log    Log
	bus    *bus.Bus
	logger *zap.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRecorder creates a recorder. Call Start to begin listening.
func NewRecorder(log Log, b *bus.Bus, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		log:    log,
		bus:    b,
		logger: logger.Named("inbox"),
	}
}

// Start prunes old entries and subscribes to conversation events.
func (r *Recorder) Start(ctx context.Context) {
	if n, err := r.log.PruneReceived(Retain); err != nil {
		r.logger.Warn("failed to prune received log", zap.Error(err))
	} else if n > 0 {
		r.logger.Info("received log pruned", zap.Int64("removed", n))
	}

	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	ch, unsub := r.bus.Subscribe(bus.ConversationMessageAppended, 256)

	go func() {
		defer close(r.done)
		defer unsub()
		for {
			select {
			case evt := <-ch:
				r.handleEvent(evt)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop unsubscribes and waits for the listener to exit.
func (r *Recorder) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
}

func (r *Recorder) handleEvent(evt bus.Event) {
	m, ok := evt.Payload.(conversation.Message)
	if !ok {
		return
	}
	if _, err := r.Ingest(m); err != nil {
		r.logger.Error("failed to record message", zap.Error(err), zap.String("from", m.Username))
	}
}

// Ingest stores m when it is a live inbound message and reports whether it
// was written. History replayed on mount is already in the log.
func (r *Recorder) Ingest(m conversation.Message) (bool, error) {
	if m.Outgoing || !m.Live {
		return false, nil
	}
	if err := r.log.RecordReceived(entry(m)); err != nil {
		return false, fmt.Errorf("record received: %w", err)
	}
	return true, nil
}

func entry(m conversation.Message) store.ReceivedEntry {
	return store.ReceivedEntry{
		Username: m.Username,
		Content:  m.Content,
		SentAt:   m.Time.UnixMilli(),
	}
}
