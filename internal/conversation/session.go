// Package conversation runs one live messaging session: it connects a
// channel when the messages page mounts, appends inbound messages, sends
// optimistically and closes the channel when the page unmounts.
//
// All mutable state is owned by a single event loop goroutine. Network
// reads, dials and writes run on helper goroutines that only post events
// back to the loop.
package conversation

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/matheus3301/adminterm/internal/bus"
	"github.com/matheus3301/adminterm/internal/channel"
	"github.com/matheus3301/adminterm/internal/draft"
	"github.com/matheus3301/adminterm/internal/filter"
	"github.com/matheus3301/adminterm/internal/outbox"
	"go.uber.org/zap"
)

// ErrClosed is returned when an event is posted to a torn-down session.
var ErrClosed = errors.New("conversation closed")

// Kind enumerates the events the loop consumes.
type Kind int

const (
	Mounted Kind = iota
	Unmounted
	InboundMessage
	SubmitClicked
	ComposeChanged
	QueryChanged

	connected
	connectFailed
	channelClosed
	sendDone
)

var kindNames = [...]string{
	"mounted", "unmounted", "inbound_message", "submit_clicked",
	"compose_changed", "query_changed",
	"connected", "connect_failed", "channel_closed", "send_done",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Event is one input to the session loop.
type Event struct {
	Kind    Kind
	Text    string
	Message channel.Message

	conn      channel.Conn
	err       error
	requestID string
	ack       chan struct{}
}

// Config wires a session to its collaborators.
type Config struct {
	// Token is the bearer token presented when dialing.
	Token string
	// Username is stamped on outgoing messages.
	Username string
	Dialer   channel.Dialer
	// Draft persists the compose buffer. Optional.
	Draft  *draft.Buffer
	Outbox *outbox.Sender
	Bus    *bus.Bus
	Logger *zap.Logger
	// History is the static message list fetched before mount.
	History []Message
	// DialTimeout bounds the initial connect. Zero means 15s.
	DialTimeout time.Duration
}

// View is a render snapshot.
type View struct {
	State     State
	Messages  []Message
	Compose   string
	Query     string
	NoResults bool
}

// Session is a single conversation lifecycle. It is not reusable: once
// unmounted, a new Session must be created.
type Session struct {
	cfg     Config
	logger  *zap.Logger
	machine *Machine
	outbox  *outbox.Sender

	events chan Event
	done   chan struct{}
	wg     sync.WaitGroup

	unmountOnce sync.Once

	// Loop-owned.
	conn       channel.Conn
	connClosed bool
	cancelDial context.CancelFunc

	mu      sync.RWMutex
	live    []Message
	compose string
	search  *filter.Search[Message]
}

// New creates a session in the Disconnected state and starts its loop.
func New(cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 15 * time.Second
	}
	ob := cfg.Outbox
	if ob == nil {
		ob = outbox.NewSender(nil, cfg.Bus, logger)
	}
	s := &Session{
		cfg:     cfg,
		logger:  logger.Named("conversation"),
		machine: NewMachine(cfg.Bus),
		outbox:  ob,
		events:  make(chan Event, 64),
		done:    make(chan struct{}),
		search:  filter.NewSearch(slices.Clone(cfg.History)),
	}
	go s.loop()
	return s
}

// Mount connects the channel and preloads the persisted draft. It returns
// once the dial has started; the outcome arrives as a state change.
func (s *Session) Mount() error { return s.dispatch(Event{Kind: Mounted}) }

// Unmount closes the channel and stops the loop. It returns after every
// helper goroutine has exited. Safe to call more than once.
func (s *Session) Unmount() {
	s.unmountOnce.Do(func() {
		_ = s.dispatch(Event{Kind: Unmounted})
		<-s.done
		s.wg.Wait()
		s.drain()
	})
}

// drain closes connections that were posted after the loop stopped
// reading. Only called once every helper goroutine has exited.
func (s *Session) drain() {
	for {
		select {
		case ev := <-s.events:
			if ev.Kind == connected && ev.conn != nil {
				_ = ev.conn.Close()
			}
		default:
			return
		}
	}
}

// Close is Unmount, for use with defer and fx hooks.
func (s *Session) Close() error {
	s.Unmount()
	return nil
}

// Submit sends the compose buffer. An empty buffer is a no-op.
func (s *Session) Submit() error { return s.dispatch(Event{Kind: SubmitClicked}) }

// Compose replaces the compose buffer.
func (s *Session) Compose(text string) error {
	return s.dispatch(Event{Kind: ComposeChanged, Text: text})
}

// Query sets the search query over the visible messages.
func (s *Session) Query(q string) error {
	return s.dispatch(Event{Kind: QueryChanged, Text: q})
}

// Deliver injects an inbound message as if it came from the channel.
func (s *Session) Deliver(m channel.Message) error {
	return s.dispatch(Event{Kind: InboundMessage, Message: m})
}

// State returns the current channel state.
func (s *Session) State() State { return s.machine.Current() }

// Snapshot returns the current view for rendering.
func (s *Session) Snapshot() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return View{
		State:     s.machine.Current(),
		Messages:  slices.Clone(s.search.Results()),
		Compose:   s.compose,
		Query:     s.search.Query(),
		NoResults: s.search.NoResults(),
	}
}

// dispatch posts ev and waits until the loop has handled it.
func (s *Session) dispatch(ev Event) error {
	ev.ack = make(chan struct{})
	if !s.post(ev) {
		return ErrClosed
	}
	select {
	case <-ev.ack:
		return nil
	case <-s.done:
		// The loop may exit while handling ev (Unmounted).
		select {
		case <-ev.ack:
			return nil
		default:
			return ErrClosed
		}
	}
}

// post hands ev to the loop without waiting. It reports false once the
// loop has exited.
func (s *Session) post(ev Event) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.events <- ev:
		return true
	case <-s.done:
		return false
	}
}

func (s *Session) loop() {
	defer close(s.done)
	for ev := range s.events {
		stop := s.handle(ev)
		if ev.ack != nil {
			close(ev.ack)
		}
		if stop {
			return
		}
	}
}

func (s *Session) handle(ev Event) (stop bool) {
	switch ev.Kind {
	case Mounted:
		s.onMounted()
	case Unmounted:
		s.onUnmounted()
		return true
	case InboundMessage:
		s.onInbound(ev.Message)
	case SubmitClicked:
		s.onSubmit()
	case ComposeChanged:
		s.onCompose(ev.Text)
	case QueryChanged:
		s.mu.Lock()
		s.search.SetQuery(ev.Text)
		s.mu.Unlock()
	case connected:
		s.onConnected(ev.conn)
	case connectFailed:
		s.onConnectFailed(ev.err)
	case channelClosed:
		s.onChannelClosed(ev.err)
	case sendDone:
		if ev.err != nil {
			s.logger.Debug("send failed", zap.String("request_id", ev.requestID))
			s.cfg.Bus.Error("Message not sent", ev.err)
		}
	default:
		s.logger.Warn("unknown event", zap.Int("kind", int(ev.Kind)))
	}
	return false
}

func (s *Session) onMounted() {
	if err := s.machine.Transition(Connecting); err != nil {
		s.logger.Debug("ignoring mount", zap.Error(err))
		return
	}

	if s.cfg.Draft != nil {
		text, err := s.cfg.Draft.Load()
		if err != nil {
			s.logger.Warn("failed to load draft", zap.Error(err))
		} else if text != "" {
			s.mu.Lock()
			s.compose = text
			s.mu.Unlock()
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.DialTimeout)
	s.cancelDial = cancel
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		conn, err := s.cfg.Dialer.Dial(ctx, s.cfg.Token)
		if err != nil {
			s.post(Event{Kind: connectFailed, err: err})
			return
		}
		if !s.post(Event{Kind: connected, conn: conn}) {
			// Torn down while dialing; the loop never saw this conn.
			_ = conn.Close()
		}
	}()
}

func (s *Session) onConnected(conn channel.Conn) {
	if err := s.machine.Transition(Connected); err != nil {
		s.logger.Debug("discarding late connection", zap.Error(err))
		_ = conn.Close()
		return
	}
	s.conn = conn
	s.logger.Info("channel connected")

	s.wg.Add(1)
	go s.readLoop(conn)
}

func (s *Session) readLoop(conn channel.Conn) {
	defer s.wg.Done()
	for {
		m, err := conn.Recv()
		if errors.Is(err, channel.ErrMalformed) {
			s.logger.Warn("skipping malformed frame", zap.Error(err))
			continue
		}
		if err != nil {
			s.post(Event{Kind: channelClosed, err: err})
			return
		}
		if !s.post(Event{Kind: InboundMessage, Message: m}) {
			return
		}
	}
}

func (s *Session) onConnectFailed(err error) {
	if tErr := s.machine.Transition(Closed); tErr != nil {
		return
	}
	s.logger.Warn("channel connect failed", zap.Error(err))
	s.cfg.Bus.Error("Could not connect to chat", err)
}

func (s *Session) onChannelClosed(err error) {
	if s.machine.Current() != Connected {
		return
	}
	_ = s.machine.Transition(Closed)
	s.closeConn()
	s.logger.Warn("channel dropped", zap.Error(err))
	s.cfg.Bus.Error("Chat connection lost", err)
}

func (s *Session) onUnmounted() {
	if s.cancelDial != nil {
		s.cancelDial()
	}
	s.closeConn()
	if s.machine.Current() != Closed {
		_ = s.machine.Transition(Closed)
	}
	s.logger.Debug("unmounted")
}

// closeConn closes the connection at most once per session.
func (s *Session) closeConn() {
	if s.conn == nil || s.connClosed {
		return
	}
	s.connClosed = true
	if err := s.conn.Close(); err != nil {
		s.logger.Debug("channel close", zap.Error(err))
	}
}

func (s *Session) onInbound(w channel.Message) {
	s.append(fromWire(w, s.cfg.Username))
}

func (s *Session) onSubmit() {
	s.mu.RLock()
	text := s.compose
	s.mu.RUnlock()
	if text == "" {
		return
	}

	m := Message{
		Username: s.cfg.Username,
		Content:  text,
		Time:     time.Now(),
		Live:     true,
		Outgoing: true,
	}
	s.append(m)

	s.mu.Lock()
	s.compose = ""
	s.mu.Unlock()
	if s.cfg.Draft != nil {
		if err := s.cfg.Draft.Clear(); err != nil {
			s.logger.Warn("failed to clear draft", zap.Error(err))
		}
	}

	wire := m.wire()
	id := s.outbox.Begin(wire)
	conn := s.conn
	if conn == nil || s.connClosed || s.machine.Current() != Connected {
		s.outbox.Finish(id, wire, channel.ErrClosed)
		s.cfg.Bus.Error("Message not sent: chat is not connected", channel.ErrClosed)
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		res := s.outbox.Send(conn, id, wire)
		s.post(Event{Kind: sendDone, requestID: res.RequestID, err: res.Err})
	}()
}

func (s *Session) onCompose(text string) {
	s.mu.Lock()
	s.compose = text
	s.mu.Unlock()
	if s.cfg.Draft != nil {
		if err := s.cfg.Draft.Set(text); err != nil {
			s.logger.Warn("failed to save draft", zap.Error(err))
		}
	}
}

func (s *Session) append(m Message) {
	s.mu.Lock()
	s.live = append(s.live, m)
	s.search.SetRecords(slices.Concat(s.cfg.History, s.live))
	s.mu.Unlock()
	s.cfg.Bus.Emit(bus.ConversationMessageAppended, m)
}
