// Package channel is the real-time messaging transport: a WebSocket
// connection authenticated with the session's bearer token.
package channel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
)

// ErrClosed is returned by Send and Recv after Close.
var ErrClosed = errors.New("channel closed")

// Conn is an open messaging channel.
type Conn interface {
	// Send emits m. It does not wait for any acknowledgement.
	Send(m Message) error
	// Recv blocks for the next inbound message. ErrMalformed is
	// recoverable; any other error ends the connection.
	Recv() (Message, error)
	// Close tears the connection down. Safe to call more than once.
	Close() error
}

// Dialer opens channels. Implementations must honour ctx.
type Dialer interface {
	Dial(ctx context.Context, token string) (Conn, error)
}

// WSDialer dials a WebSocket endpoint.
type WSDialer struct {
	URL    string
	Event  string
	Logger *zap.Logger
	// Dialer defaults to websocket.DefaultDialer.
	Dialer *websocket.Dialer
}

// Dial connects with the token in the Authorization header and in the
// token query parameter, for servers that cannot read handshake headers.
func (d *WSDialer) Dial(ctx context.Context, token string) (Conn, error) {
	u, err := url.Parse(d.URL)
	if err != nil {
		return nil, fmt.Errorf("channel url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	header.Set("X-Request-ID", uuid.NewString())

	dialer := d.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	ws, resp, err := dialer.DialContext(ctx, u.String(), header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial channel: %w (status %d)", err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial channel: %w", err)
	}

	event := d.Event
	if event == "" {
		event = EventMessage
	}
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	c := &wsConn{
		ws:    ws,
		event: event,
		log:   log,
		done:  make(chan struct{}),
	}
	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})
	go c.pingLoop()
	return c, nil
}

type wsConn struct {
	ws    *websocket.Conn
	event string
	log   *zap.Logger

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
	done      chan struct{}
}

func (c *wsConn) Send(m Message) error {
	data, err := Encode(c.event, m)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

func (c *wsConn) Recv() (Message, error) {
	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				return Message{}, ErrClosed
			default:
			}
			return Message{}, fmt.Errorf("read message: %w", err)
		}
		m, ok, err := Decode(c.event, raw, time.Now())
		if err != nil {
			return Message{}, err
		}
		if !ok {
			continue
		}
		return m, nil
	}
}

func (c *wsConn) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		c.closeErr = c.ws.Close()
	})
	return c.closeErr
}

func (c *wsConn) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			if err != nil {
				c.log.Debug("ping failed", zap.Error(err))
				return
			}
		}
	}
}
