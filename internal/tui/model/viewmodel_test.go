package model

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/matheus3301/adminterm/internal/auth"
	"github.com/matheus3301/adminterm/internal/backend"
	"github.com/matheus3301/adminterm/internal/bus"
	"github.com/matheus3301/adminterm/internal/form"
	"github.com/matheus3301/adminterm/internal/store"
)

type fakeBackend struct {
	mu       sync.Mutex
	drafts   []backend.Draft
	users    []backend.User
	notes    []backend.ReceivedNote
	listErr  error
	writeErr error

	created  []backend.NewDraft
	updated  []backend.Draft
	deleted  []int
	shared   [][2]int
	tokens   []string
	register []backend.Registration
}

func (f *fakeBackend) record(tok string) {
	f.mu.Lock()
	f.tokens = append(f.tokens, tok)
	f.mu.Unlock()
}

func (f *fakeBackend) Register(_ context.Context, r backend.Registration) error {
	f.register = append(f.register, r)
	return f.writeErr
}

func (f *fakeBackend) Profile(_ context.Context, tok string) (*backend.User, error) {
	f.record(tok)
	return &backend.User{UserID: 7, Name: "Ada"}, nil
}

func (f *fakeBackend) ListUsers(_ context.Context, tok string) ([]backend.User, error) {
	f.record(tok)
	return f.users, f.listErr
}

func (f *fakeBackend) ListDrafts(_ context.Context, tok string) ([]backend.Draft, error) {
	f.record(tok)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.drafts, nil
}

func (f *fakeBackend) CreateDraft(_ context.Context, tok string, d backend.NewDraft) (int, error) {
	f.record(tok)
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	f.created = append(f.created, d)
	f.drafts = append(f.drafts, backend.Draft{DraftID: len(f.drafts) + 1, Title: d.Title, Content: d.Content})
	return len(f.drafts), nil
}

func (f *fakeBackend) UpdateDraft(_ context.Context, tok string, d backend.Draft) error {
	f.record(tok)
	if f.writeErr != nil {
		return f.writeErr
	}
	f.updated = append(f.updated, d)
	return nil
}

func (f *fakeBackend) DeleteDraft(_ context.Context, tok string, id int) error {
	f.record(tok)
	if f.writeErr != nil {
		return f.writeErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBackend) ReceivedNotes(_ context.Context, tok string) ([]backend.ReceivedNote, error) {
	f.record(tok)
	return f.notes, f.listErr
}

func (f *fakeBackend) SendNote(_ context.Context, tok string, draftID, toUserID int) error {
	f.record(tok)
	if f.writeErr != nil {
		return f.writeErr
	}
	f.shared = append(f.shared, [2]int{draftID, toUserID})
	return nil
}

func newTestVM(t *testing.T, fb *fakeBackend) (*ViewModel, <-chan bus.Event) {
	t.Helper()
	b := bus.New()
	notices, unsub := b.Subscribe(bus.NSNotice, 16)
	t.Cleanup(unsub)
	vm := NewViewModel(fb, b, nil)
	vm.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	vm.SetSession(&auth.Session{Credentials: &backend.Credentials{AccessToken: "tok"}, Username: "ada"})
	return vm, notices
}

func nextNotice(t *testing.T, ch <-chan bus.Event) (string, bus.Notice) {
	t.Helper()
	select {
	case evt := <-ch:
		n, _ := evt.Payload.(bus.Notice)
		return evt.Kind, n
	case <-time.After(time.Second):
		t.Fatal("no notice published")
		return "", bus.Notice{}
	}
}

func TestLoadDrafts(t *testing.T) {
	fb := &fakeBackend{drafts: []backend.Draft{
		{DraftID: 1, Title: "report.pdf", Content: "q3 numbers"},
		{DraftID: 2, Title: "todo", Content: "buy cats food"},
	}}
	vm, _ := newTestVM(t, fb)

	if err := vm.LoadDrafts(context.Background()); err != nil {
		t.Fatalf("LoadDrafts: %v", err)
	}
	if got := len(vm.Drafts.Results()); got != 2 {
		t.Fatalf("expected 2 drafts, got %d", got)
	}
	if vm.Loading(PageDrafts) {
		t.Fatal("loading flag not reset after success")
	}
	if fb.tokens[0] != "tok" {
		t.Fatalf("expected bearer token tok, got %q", fb.tokens[0])
	}

	vm.Drafts.SetQuery("CATS")
	res := vm.Drafts.Results()
	if len(res) != 1 || res[0].DraftID != 2 {
		t.Fatalf("unexpected filter results: %+v", res)
	}
}

func TestLoadDraftsFailure(t *testing.T) {
	fb := &fakeBackend{listErr: &backend.APIError{Status: 500, Detail: "boom"}}
	vm, notices := newTestVM(t, fb)
	vm.Drafts.SetRecords([]backend.Draft{{DraftID: 9, Title: "kept"}})

	err := vm.LoadDrafts(context.Background())
	if !backend.IsStatus(err, 500) {
		t.Fatalf("expected APIError 500, got %v", err)
	}
	if vm.Loading(PageDrafts) {
		t.Fatal("loading flag not reset after failure")
	}
	if got := vm.Drafts.Records(); len(got) != 1 || got[0].DraftID != 9 {
		t.Fatalf("records changed on failure: %+v", got)
	}
	kind, n := nextNotice(t, notices)
	if kind != bus.NoticeError || n.Text != "Could not load drafts" {
		t.Fatalf("unexpected notice %s %+v", kind, n)
	}
}

func TestSaveDraftValidation(t *testing.T) {
	fb := &fakeBackend{}
	vm, notices := newTestVM(t, fb)

	err := vm.SaveDraft(context.Background(), 0, "", "body")
	var fe *form.Error
	if !errors.As(err, &fe) {
		t.Fatalf("expected form.Error, got %v", err)
	}
	if len(fb.tokens) != 0 {
		t.Fatal("backend called despite validation failure")
	}
	_, n := nextNotice(t, notices)
	if n.Text != form.MsgRequired {
		t.Fatalf("expected %q, got %q", form.MsgRequired, n.Text)
	}
}

func TestSaveDraftCreateAndUpdate(t *testing.T) {
	fb := &fakeBackend{}
	vm, notices := newTestVM(t, fb)
	ctx := context.Background()

	if err := vm.SaveDraft(ctx, 0, "plan", "ship it"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(fb.created) != 1 || fb.created[0].DateCreated != "2024-05-01T10:00:00.000Z" {
		t.Fatalf("unexpected create payload: %+v", fb.created)
	}
	if _, n := nextNotice(t, notices); n.Text != "Draft created" {
		t.Fatalf("unexpected notice %q", n.Text)
	}
	if got := len(vm.Drafts.Records()); got != 1 {
		t.Fatalf("expected reload after create, got %d records", got)
	}

	if err := vm.SaveDraft(ctx, 1, "plan", "ship it today"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(fb.updated) != 1 || fb.updated[0].DraftID != 1 || fb.updated[0].Content != "ship it today" {
		t.Fatalf("unexpected update payload: %+v", fb.updated)
	}
	if _, n := nextNotice(t, notices); n.Text != "Draft updated" {
		t.Fatalf("unexpected notice %q", n.Text)
	}
}

func TestDeleteDraftFailureResetsLoading(t *testing.T) {
	fb := &fakeBackend{writeErr: errors.New("connection refused")}
	vm, notices := newTestVM(t, fb)

	if err := vm.DeleteDraft(context.Background(), 3); err == nil {
		t.Fatal("expected error")
	}
	if vm.Busy() {
		t.Fatal("loading flag not reset after failure")
	}
	if kind, n := nextNotice(t, notices); kind != bus.NoticeError || n.Text != "Draft not deleted" {
		t.Fatalf("unexpected notice %s %+v", kind, n)
	}
}

func TestShareDraft(t *testing.T) {
	fb := &fakeBackend{users: []backend.User{{UserID: 4, Email: "bob@example.com"}}}
	vm, notices := newTestVM(t, fb)
	ctx := context.Background()

	if err := vm.LoadUsers(ctx); err != nil {
		t.Fatalf("LoadUsers: %v", err)
	}
	u, err := vm.FindUser("bob@example.com")
	if err != nil {
		t.Fatalf("FindUser: %v", err)
	}
	if err := vm.ShareDraft(ctx, 2, u.UserID); err != nil {
		t.Fatalf("ShareDraft: %v", err)
	}
	if len(fb.shared) != 1 || fb.shared[0] != [2]int{2, 4} {
		t.Fatalf("unexpected share calls: %v", fb.shared)
	}
	if _, n := nextNotice(t, notices); n.Text != "Note sent" {
		t.Fatalf("unexpected notice %q", n.Text)
	}
	if _, err := vm.FindUser("99"); err == nil {
		t.Fatal("expected unknown user error")
	}
}

func TestNotLoggedIn(t *testing.T) {
	fb := &fakeBackend{}
	vm, _ := newTestVM(t, fb)
	vm.SetSession(nil)

	if err := vm.LoadNotes(context.Background()); !errors.Is(err, auth.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
	if len(fb.tokens) != 0 {
		t.Fatal("backend called without a session")
	}
}

func TestRegister(t *testing.T) {
	fb := &fakeBackend{}
	vm, notices := newTestVM(t, fb)

	reg := form.Registration{
		Name: "Ada", Email: "ada@example.com", PhoneNum: "+15550100",
		Password: "correcthorse", Confirm: "correcthorse",
	}
	if err := vm.Register(context.Background(), reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(fb.register) != 1 || fb.register[0].PhoneNum != "+15550100" {
		t.Fatalf("unexpected registration: %+v", fb.register)
	}
	if kind, _ := nextNotice(t, notices); kind != bus.NoticeInfo {
		t.Fatalf("expected info notice, got %s", kind)
	}

	reg.Confirm = "different1"
	if err := vm.Register(context.Background(), reg); err == nil {
		t.Fatal("expected mismatch error")
	}
	if len(fb.register) != 1 {
		t.Fatal("backend called despite validation failure")
	}
}

func TestHistory(t *testing.T) {
	sent := []store.SentEntry{
		{ID: 3, Username: "ada", Content: "third", Status: store.SentOK, CreatedAt: 3000},
		{ID: 2, Username: "ada", Content: "second", Status: store.SentFailed, CreatedAt: 2000},
		{ID: 1, Username: "ada", Content: "first", Status: store.SentSending, CreatedAt: 1000},
	}
	received := []store.ReceivedEntry{
		{ID: 2, Username: "bob", Content: "reply", SentAt: 2500},
		{ID: 1, Username: "bob", Content: "hello", SentAt: 500},
	}
	msgs := History(sent, received)

	var got []string
	for _, m := range msgs {
		got = append(got, m.Content)
	}
	want := []string{"hello", "first", "reply", "third"}
	if !slices.Equal(got, want) {
		t.Fatalf("History() order = %v, want %v", got, want)
	}
	for _, m := range msgs {
		if m.Live {
			t.Fatalf("history entries must be static: %+v", m)
		}
		if m.Outgoing != (m.Username == "ada") {
			t.Fatalf("wrong direction for %+v", m)
		}
	}
}
