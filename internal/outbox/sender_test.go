package outbox

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/matheus3301/adminterm/internal/bus"
	"github.com/matheus3301/adminterm/internal/channel"
	"github.com/matheus3301/adminterm/internal/store"
	"go.uber.org/zap"
)

// mockConn records sends and returns a configurable error.
type mockConn struct {
	sent []channel.Message
	err  error
}

func (m *mockConn) Send(msg channel.Message) error {
	m.sent = append(m.sent, msg)
	return m.err
}
func (m *mockConn) Recv() (channel.Message, error) { return channel.Message{}, channel.ErrClosed }
func (m *mockConn) Close() error                   { return nil }

func testDB(t *testing.T) *store.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSendRecordsSuccess(t *testing.T) {
	db := testDB(t)
	logger, _ := zap.NewDevelopment()
	s := NewSender(db, bus.New(), logger)
	conn := &mockConn{}

	m := channel.Message{Username: "alice", Content: "hi", Time: time.Now()}
	id := s.Begin(m)
	res := s.Send(conn, id, m)
	if res.Err != nil {
		t.Fatalf("Send() err = %v", res.Err)
	}
	if len(conn.sent) != 1 || conn.sent[0].Content != "hi" {
		t.Errorf("conn.sent = %+v", conn.sent)
	}

	entries, err := db.RecentSent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].RequestID != id || entries[0].Status != store.SentOK {
		t.Errorf("entries = %+v", entries)
	}
}

func TestSendFailurePublishesEvent(t *testing.T) {
	db := testDB(t)
	b := bus.New()
	ch, unsub := b.Subscribe(bus.ConversationSendFailed, 10)
	defer unsub()

	s := NewSender(db, b, zap.NewNop())
	conn := &mockConn{err: errors.New("broken pipe")}

	m := channel.Message{Username: "alice", Content: "lost"}
	id := s.Begin(m)
	res := s.Send(conn, id, m)
	if res.Err == nil {
		t.Fatal("Send() should report the channel error")
	}

	select {
	case evt := <-ch:
		f, ok := evt.Payload.(SendFailure)
		if !ok {
			t.Fatalf("payload type = %T", evt.Payload)
		}
		if f.RequestID != id || f.Content != "lost" || f.Error != "broken pipe" {
			t.Errorf("failure = %+v", f)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for send_failed event")
	}

	entries, _ := db.RecentSent(10)
	if len(entries) != 1 || entries[0].Status != store.SentFailed {
		t.Errorf("entries = %+v, want one failed entry", entries)
	}
}

func TestSenderWithoutLog(t *testing.T) {
	s := NewSender(nil, nil, nil)
	m := channel.Message{Content: "x"}
	id := s.Begin(m)
	if id == "" {
		t.Fatal("Begin() returned empty request id")
	}
	if res := s.Send(&mockConn{}, id, m); res.Err != nil {
		t.Errorf("Send() err = %v", res.Err)
	}
}
