// Package model holds the console's page state between the backend client
// and the views. It owns no widgets, so every operation is testable without
// a terminal.
package model

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/matheus3301/adminterm/internal/auth"
	"github.com/matheus3301/adminterm/internal/backend"
	"github.com/matheus3301/adminterm/internal/bus"
	"github.com/matheus3301/adminterm/internal/filter"
	"github.com/matheus3301/adminterm/internal/form"
	"go.uber.org/zap"
)

// Backend is the subset of the REST client the pages use.
type Backend interface {
	Register(ctx context.Context, reg backend.Registration) error
	Profile(ctx context.Context, token string) (*backend.User, error)
	ListUsers(ctx context.Context, token string) ([]backend.User, error)
	ListDrafts(ctx context.Context, token string) ([]backend.Draft, error)
	CreateDraft(ctx context.Context, token string, d backend.NewDraft) (int, error)
	UpdateDraft(ctx context.Context, token string, d backend.Draft) error
	DeleteDraft(ctx context.Context, token string, id int) error
	ReceivedNotes(ctx context.Context, token string) ([]backend.ReceivedNote, error)
	SendNote(ctx context.Context, token string, draftID, toUserID int) error
}

// Page names a data page with its own loading flag.
type Page string

const (
	PageDrafts Page = "drafts"
	PageUsers  Page = "users"
	PageNotes  Page = "notes"
)

// ViewModel caches backend records behind live filters and signals UI
// refreshes. Failures are reported on the bus as notices and returned.
type ViewModel struct {
	mu sync.RWMutex

	backend Backend
	bus     *bus.Bus
	logger  *zap.Logger
	now     func() time.Time

	session *auth.Session
	profile *backend.User
	loading map[Page]bool

	Drafts *filter.Search[backend.Draft]
	Users  *filter.Search[backend.User]
	Notes  *filter.Search[backend.ReceivedNote]

	refreshCh chan struct{}
}

// NewViewModel creates a view model over the given backend.
func NewViewModel(b Backend, eb *bus.Bus, logger *zap.Logger) *ViewModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewModel{
		backend:   b,
		bus:       eb,
		logger:    logger.Named("tui"),
		now:       time.Now,
		loading:   make(map[Page]bool),
		Drafts:    filter.NewSearch[backend.Draft](nil),
		Users:     filter.NewSearch[backend.User](nil),
		Notes:     filter.NewSearch[backend.ReceivedNote](nil),
		refreshCh: make(chan struct{}, 1),
	}
}

// RefreshCh returns the channel that signals UI refresh.
func (vm *ViewModel) RefreshCh() <-chan struct{} {
	return vm.refreshCh
}

func (vm *ViewModel) signalRefresh() {
	select {
	case vm.refreshCh <- struct{}{}:
	default:
	}
}

// SetSession installs the logged-in session. Nil clears all cached records.
func (vm *ViewModel) SetSession(s *auth.Session) {
	vm.mu.Lock()
	vm.session = s
	vm.profile = nil
	vm.mu.Unlock()
	if s == nil {
		vm.Drafts.SetRecords(nil)
		vm.Users.SetRecords(nil)
		vm.Notes.SetRecords(nil)
	}
	vm.signalRefresh()
}

// Session returns the current session, or nil.
func (vm *ViewModel) Session() *auth.Session {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.session
}

// Profile returns the last fetched profile of the current user, or nil.
func (vm *ViewModel) Profile() *backend.User {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.profile
}

// Loading reports whether a request for page is in flight.
func (vm *ViewModel) Loading(p Page) bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.loading[p]
}

// Busy reports whether any request is in flight.
func (vm *ViewModel) Busy() bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	for _, v := range vm.loading {
		if v {
			return true
		}
	}
	return false
}

// begin raises the loading flag for p; the returned func lowers it.
func (vm *ViewModel) begin(p Page) func() {
	vm.mu.Lock()
	vm.loading[p] = true
	vm.mu.Unlock()
	vm.signalRefresh()
	return func() {
		vm.mu.Lock()
		vm.loading[p] = false
		vm.mu.Unlock()
		vm.signalRefresh()
	}
}

func (vm *ViewModel) token() (string, error) {
	s := vm.Session()
	if s == nil {
		return "", auth.ErrNotLoggedIn
	}
	return s.Token(), nil
}

// fail reports err as an error notice and returns it.
func (vm *ViewModel) fail(text string, err error) error {
	vm.logger.Warn(text, zap.Error(err))
	var fe *form.Error
	if errors.As(err, &fe) {
		vm.bus.Error(fe.Error(), err)
	} else {
		vm.bus.Error(text, err)
	}
	return err
}

// Register validates the sign-up form and creates the account.
func (vm *ViewModel) Register(ctx context.Context, r form.Registration) error {
	if err := r.Validate(); err != nil {
		return vm.fail("Registration failed", err)
	}
	err := vm.backend.Register(ctx, backend.Registration{
		Name:     r.Name,
		Email:    r.Email,
		PhoneNum: r.PhoneNum,
		Password: r.Password,
	})
	if err != nil {
		return vm.fail("Registration failed", err)
	}
	vm.bus.Info("Registration successful, please log in")
	return nil
}

// LoadProfile fetches the current user's profile.
func (vm *ViewModel) LoadProfile(ctx context.Context) error {
	tok, err := vm.token()
	if err != nil {
		return err
	}
	u, err := vm.backend.Profile(ctx, tok)
	if err != nil {
		return vm.fail("Could not load profile", err)
	}
	vm.mu.Lock()
	vm.profile = u
	vm.mu.Unlock()
	vm.signalRefresh()
	return nil
}

// LoadDrafts fetches the current user's drafts.
func (vm *ViewModel) LoadDrafts(ctx context.Context) error {
	tok, err := vm.token()
	if err != nil {
		return err
	}
	defer vm.begin(PageDrafts)()

	drafts, err := vm.backend.ListDrafts(ctx, tok)
	if err != nil {
		return vm.fail("Could not load drafts", err)
	}
	vm.Drafts.SetRecords(drafts)
	return nil
}

// SaveDraft creates a draft when id is 0 and updates it otherwise, then
// reloads the list. Only the write's error is returned; a failed reload is
// reported as a notice.
func (vm *ViewModel) SaveDraft(ctx context.Context, id int, title, content string) error {
	if err := form.Draft(title, content); err != nil {
		return vm.fail("Draft not saved", err)
	}
	tok, err := vm.token()
	if err != nil {
		return err
	}

	stamp := backend.Timestamp(vm.now())
	err = func() error {
		defer vm.begin(PageDrafts)()
		if id == 0 {
			_, err := vm.backend.CreateDraft(ctx, tok, backend.NewDraft{
				Title:       title,
				Content:     content,
				DateCreated: stamp,
			})
			return err
		}
		return vm.backend.UpdateDraft(ctx, tok, backend.Draft{
			DraftID:     id,
			UserID:      vm.Session().UserID(),
			Title:       title,
			Content:     content,
			LastUpdated: stamp,
		})
	}()
	if err != nil {
		return vm.fail("Draft not saved", err)
	}

	if id == 0 {
		vm.bus.Info("Draft created")
	} else {
		vm.bus.Info("Draft updated")
	}
	_ = vm.LoadDrafts(ctx)
	return nil
}

// DeleteDraft removes a draft and reloads the list.
func (vm *ViewModel) DeleteDraft(ctx context.Context, id int) error {
	tok, err := vm.token()
	if err != nil {
		return err
	}
	err = func() error {
		defer vm.begin(PageDrafts)()
		return vm.backend.DeleteDraft(ctx, tok, id)
	}()
	if err != nil {
		return vm.fail("Draft not deleted", err)
	}
	vm.bus.Info("Draft deleted")
	_ = vm.LoadDrafts(ctx)
	return nil
}

// ShareDraft sends a draft to another user.
func (vm *ViewModel) ShareDraft(ctx context.Context, draftID, toUserID int) error {
	tok, err := vm.token()
	if err != nil {
		return err
	}
	defer vm.begin(PageDrafts)()
	if err := vm.backend.SendNote(ctx, tok, draftID, toUserID); err != nil {
		return vm.fail("Note not sent", err)
	}
	vm.bus.Info("Note sent")
	return nil
}

// LoadUsers fetches the user directory.
func (vm *ViewModel) LoadUsers(ctx context.Context) error {
	tok, err := vm.token()
	if err != nil {
		return err
	}
	defer vm.begin(PageUsers)()

	users, err := vm.backend.ListUsers(ctx, tok)
	if err != nil {
		return vm.fail("Could not load users", err)
	}
	vm.Users.SetRecords(users)
	return nil
}

// LoadNotes fetches drafts other users sent to the current user.
func (vm *ViewModel) LoadNotes(ctx context.Context) error {
	tok, err := vm.token()
	if err != nil {
		return err
	}
	defer vm.begin(PageNotes)()

	notes, err := vm.backend.ReceivedNotes(ctx, tok)
	if err != nil {
		return vm.fail("Could not load notes", err)
	}
	vm.Notes.SetRecords(notes)
	return nil
}

// FindUser resolves a user by numeric id or exact email among the loaded
// users.
func (vm *ViewModel) FindUser(ref string) (backend.User, error) {
	for _, u := range vm.Users.Records() {
		if fmt.Sprint(u.UserID) == ref || (u.Email != "" && u.Email == ref) {
			return u, nil
		}
	}
	return backend.User{}, fmt.Errorf("no user %q", ref)
}
