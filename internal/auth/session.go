// Package auth holds the logged-in session. A Session is created by Login,
// passed explicitly to whatever needs the current user, and destroyed by
// Logout.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matheus3301/adminterm/internal/backend"
	"github.com/matheus3301/adminterm/internal/bus"
	"github.com/matheus3301/adminterm/internal/form"
	"go.uber.org/zap"
)

// UserKey is the session-scope key holding the auth response verbatim.
const UserKey = "user"

// ErrNotLoggedIn is returned when no session is stored.
var ErrNotLoggedIn = errors.New("not logged in")

// Session is the current user's auth context.
type Session struct {
	Credentials *backend.Credentials
	Claims      Claims
	// Username is the display name: the name claim, or the login used.
	Username string
}

// Token returns the bearer token.
func (s *Session) Token() string { return s.Credentials.AccessToken }

// UserID returns the id decoded from the token, or 0.
func (s *Session) UserID() int { return s.Claims.UserID() }

// Backend is the subset of the REST client the manager needs.
type Backend interface {
	Authenticate(ctx context.Context, username, password string) (*backend.Credentials, error)
	Logout(ctx context.Context, token string) error
}

// KV is session-scoped storage.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Clear() error
}

// Manager creates, restores and destroys sessions.
type Manager struct {
	backend Backend
	kv      KV
	bus     *bus.Bus
	logger  *zap.Logger
	now     func() time.Time
}

// NewManager creates a session manager.
func NewManager(b Backend, kv KV, eb *bus.Bus, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{backend: b, kv: kv, bus: eb, logger: logger.Named("auth"), now: time.Now}
}

// Login validates the form, authenticates and stores the response.
func (m *Manager) Login(ctx context.Context, username, password string) (*Session, error) {
	if err := form.Login(username, password); err != nil {
		return nil, err
	}
	creds, err := m.backend.Authenticate(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := m.kv.Set(UserKey, string(creds.Raw)); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	s := newSession(creds, username, m.logger)
	m.logger.Info("logged in", zap.String("user", s.Username), zap.Int("user_id", s.UserID()))
	m.bus.Emit(bus.AuthLoggedIn, s.Username)
	return s, nil
}

// Current restores the stored session. A stored token whose exp has passed
// is discarded.
func (m *Manager) Current() (*Session, error) {
	raw, ok, err := m.kv.Get(UserKey)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return nil, ErrNotLoggedIn
	}
	creds, err := backend.ParseCredentials([]byte(raw))
	if err != nil {
		m.logger.Warn("discarding unreadable session", zap.Error(err))
		_ = m.kv.Clear()
		return nil, ErrNotLoggedIn
	}
	s := newSession(creds, "", m.logger)
	if s.Claims.Expired(m.now()) {
		m.logger.Info("stored session expired")
		_ = m.kv.Clear()
		return nil, ErrNotLoggedIn
	}
	return s, nil
}

// Logout revokes the token on a best-effort basis and wipes session
// storage. The local session is destroyed even if the revoke fails.
func (m *Manager) Logout(ctx context.Context, s *Session) error {
	if s != nil {
		if err := m.backend.Logout(ctx, s.Token()); err != nil {
			m.logger.Warn("remote logout failed", zap.Error(err))
		}
	}
	if err := m.kv.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	m.bus.Emit(bus.AuthLoggedOut, nil)
	return nil
}

func newSession(creds *backend.Credentials, login string, logger *zap.Logger) *Session {
	s := &Session{Credentials: creds, Username: login}
	claims, err := ParseClaims(creds.AccessToken)
	if err != nil {
		logger.Debug("token claims unreadable", zap.Error(err))
		return s
	}
	s.Claims = claims
	switch {
	case claims.Name != "":
		s.Username = claims.Name
	case s.Username == "":
		s.Username = claims.Email
	}
	return s
}
