package tui

import (
	"sync"
	"time"

	"github.com/matheus3301/adminterm/internal/auth"
	"github.com/matheus3301/adminterm/internal/bus"
	"github.com/matheus3301/adminterm/internal/channel"
	"github.com/matheus3301/adminterm/internal/conversation"
	"github.com/matheus3301/adminterm/internal/draft"
	"github.com/matheus3301/adminterm/internal/outbox"
	"github.com/matheus3301/adminterm/internal/store"
	"github.com/matheus3301/adminterm/internal/tui/model"
	"github.com/matheus3301/adminterm/internal/tui/views"
	"go.uber.org/zap"
)

// HistorySource supplies previously logged messages in both directions.
type HistorySource interface {
	RecentSent(limit int) ([]store.SentEntry, error)
	RecentReceived(limit int) ([]store.ReceivedEntry, error)
}

// chatPage binds the messages page to a conversation session. Every visit
// gets a fresh session: mounted when the page is shown, unmounted when it
// is left.
type chatPage struct {
	view    *views.MessageThread
	dialer  channel.Dialer
	draft   *draft.Buffer
	outbox  *outbox.Sender
	history HistorySource
	bus     *bus.Bus
	logger  *zap.Logger
	session func() *auth.Session
	now     func() time.Time

	mu   sync.Mutex
	conv *conversation.Session
}

func (p *chatPage) current() *conversation.Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conv
}

func (p *chatPage) start() {
	s := p.session()
	if s == nil {
		return
	}
	conv := conversation.New(conversation.Config{
		Token:    s.Token(),
		Username: s.Username,
		Dialer:   p.dialer,
		Draft:    p.draft,
		Outbox:   p.outbox,
		Bus:      p.bus,
		Logger:   p.logger,
		History:  p.loadHistory(),
	})
	p.mu.Lock()
	p.conv = conv
	p.mu.Unlock()

	if err := conv.Mount(); err != nil {
		p.logger.Warn("mount conversation", zap.Error(err))
	}
	p.view.Reset(conv.Snapshot().Compose)
	p.render()
}

func (p *chatPage) stop() {
	p.mu.Lock()
	conv := p.conv
	p.conv = nil
	p.mu.Unlock()
	if conv != nil {
		conv.Unmount()
	}
}

func (p *chatPage) loadHistory() []conversation.Message {
	if p.history == nil {
		return nil
	}
	sent, err := p.history.RecentSent(model.HistoryLimit)
	if err != nil {
		p.logger.Warn("load sent history", zap.Error(err))
	}
	received, err := p.history.RecentReceived(model.HistoryLimit)
	if err != nil {
		p.logger.Warn("load received history", zap.Error(err))
	}
	return model.History(sent, received)
}

// state returns the channel state of the mounted session, or "" when the
// page is not showing.
func (p *chatPage) state() conversation.State {
	if conv := p.current(); conv != nil {
		return conv.State()
	}
	return ""
}

func (p *chatPage) render() {
	if conv := p.current(); conv != nil {
		p.view.Update(conv.Snapshot(), p.now())
	}
}

func (p *chatPage) compose(text string) {
	if conv := p.current(); conv != nil {
		_ = conv.Compose(text)
	}
}

func (p *chatPage) submit() {
	if conv := p.current(); conv != nil {
		_ = conv.Submit()
		p.render()
	}
}

func (p *chatPage) query(q string) {
	if conv := p.current(); conv != nil {
		_ = conv.Query(q)
		p.render()
	}
}
