package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/moodjournal/internal/client/models"
	"github.com/dmitrijs2005/moodjournal/internal/common"
	"github.com/dmitrijs2005/moodjournal/internal/logging"
)

type State int

const (
	StateUnresolved State = iota
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Authenticator is the part of the backend the manager talks to.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (models.Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (models.Tokens, error)
	Register(ctx context.Context, username, email, password string) (models.User, error)
	Me(ctx context.Context) (models.User, error)
}

type Manager struct {
	store  Store
	auth   Authenticator
	log    logging.Logger
	verify bool
	now    func() time.Time

	mu    sync.RWMutex
	state State
	creds Credentials
}

type Option func(*Manager)

// WithVerifyOnResume makes Resume confirm stored credentials with the backend.
func WithVerifyOnResume(v bool) Option {
	return func(m *Manager) { m.verify = v }
}

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(store Store, auth Authenticator, opts ...Option) *Manager {
	m := &Manager{
		store: store,
		auth:  auth,
		log:   logging.NewNop(),
		now:   time.Now,
		state: StateUnresolved,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// CanAccess reports whether protected operations may run.
func (m *Manager) CanAccess() bool {
	return m.State() == StateAuthenticated
}

// Require returns common.ErrSessionInvalid unless the session is authenticated.
func (m *Manager) Require() error {
	if s := m.State(); s != StateAuthenticated {
		return fmt.Errorf("%w (session is %s)", common.ErrSessionInvalid, s)
	}
	return nil
}

func (m *Manager) Username() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.creds.Username
}

// Tokens returns the credentials held in memory. While Resume is verifying,
// these are the stored ones.
func (m *Manager) Tokens() models.Tokens {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return models.Tokens{Access: m.creds.AccessToken, Refresh: m.creds.RefreshToken}
}

// TokensRefreshed records a pair issued by a transparent refresh. It is
// ignored once the session has been discarded.
func (m *Manager) TokensRefreshed(ctx context.Context, t models.Tokens) {
	m.mu.Lock()
	if m.state == StateAnonymous || m.creds.AccessToken == "" {
		m.mu.Unlock()
		return
	}
	m.creds.AccessToken = t.Access
	if t.Refresh != "" {
		m.creds.RefreshToken = t.Refresh
	}
	creds := m.creds
	m.mu.Unlock()

	if err := m.store.Save(ctx, creds); err != nil {
		m.log.Error(ctx, "failed to persist refreshed credentials", "error", err)
	}
}

// CredentialsRejected discards the session after the backend refused its
// access credential: the store is cleared and the state becomes Anonymous.
// A rejection of a credential the manager no longer holds is ignored.
func (m *Manager) CredentialsRejected(ctx context.Context, access string) {
	m.mu.Lock()
	if access == "" || m.creds.AccessToken != access {
		m.mu.Unlock()
		return
	}
	username := m.creds.Username
	m.state = StateAnonymous
	m.creds = Credentials{}
	m.mu.Unlock()

	m.log.Warn(ctx, "credential rejected by server, session discarded", "user", username)
	if err := m.store.Clear(ctx); err != nil {
		m.log.Error(ctx, "failed to clear rejected credentials", "error", err)
	}
}

// Resume resolves the startup state from the store. It always leaves the
// manager in Authenticated or Anonymous; the returned error only explains
// why stored credentials could not be used. Calling it after the state is
// resolved does nothing.
func (m *Manager) Resume(ctx context.Context) error {
	if m.State() != StateUnresolved {
		return nil
	}

	creds, ok, err := m.store.Load(ctx)
	if err != nil {
		m.resolve(StateAnonymous, Credentials{})
		return fmt.Errorf("load credentials: %w", err)
	}
	if !ok {
		m.resolve(StateAnonymous, Credentials{})
		m.log.Info(ctx, "no stored session")
		return nil
	}

	m.mu.Lock()
	m.creds = creds
	m.mu.Unlock()

	if exp, ok := TokenExpiry(creds.AccessToken); ok && !m.now().Before(exp) {
		if err := m.refreshExpired(ctx, creds); err != nil {
			return m.discard(ctx, err)
		}
	}

	if m.verify {
		user, err := m.auth.Me(ctx)
		switch {
		case err == nil:
			if m.Username() == "" {
				m.mu.Lock()
				m.creds.Username = user.Username
				m.mu.Unlock()
			}
		case errors.Is(err, common.ErrUnauthorized):
			return m.discard(ctx, err)
		default:
			m.log.Warn(ctx, "could not verify stored session, keeping it", "error", err)
		}
	}

	m.mu.Lock()
	m.state = StateAuthenticated
	username := m.creds.Username
	m.mu.Unlock()

	m.log.Info(ctx, "session resumed", "user", username)
	return nil
}

func (m *Manager) refreshExpired(ctx context.Context, creds Credentials) error {
	if creds.RefreshToken == "" {
		return common.ErrTokenExpired
	}

	t, err := m.auth.Refresh(ctx, creds.RefreshToken)
	if errors.Is(err, common.ErrUnavailable) {
		m.log.Warn(ctx, "access credential expired and server unreachable, keeping stored session")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrTokenExpired, err)
	}

	m.TokensRefreshed(ctx, t)
	return nil
}

// discard drops rejected stored credentials and resolves to Anonymous.
func (m *Manager) discard(ctx context.Context, cause error) error {
	m.resolve(StateAnonymous, Credentials{})
	m.log.Info(ctx, "stored session rejected", "error", cause)

	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("stored session rejected (%w), clearing it failed: %w", cause, err)
	}
	return fmt.Errorf("stored session rejected: %w", cause)
}

func (m *Manager) resolve(s State, c Credentials) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
	m.creds = c
}

// Login authenticates and persists the issued credentials. On failure the
// state and the store are left untouched. A refused username or password
// wraps common.ErrAuthentication; other backend errors are returned as they
// are, so an outage is not mistaken for bad credentials.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	t, err := m.auth.Authenticate(ctx, username, password)
	if errors.Is(err, common.ErrUnauthorized) {
		m.log.Info(ctx, "login rejected", "user", username)
		return fmt.Errorf("%w: %w", common.ErrAuthentication, err)
	}
	if err != nil {
		m.log.Warn(ctx, "login failed", "user", username, "error", err)
		return err
	}

	creds := Credentials{AccessToken: t.Access, RefreshToken: t.Refresh, Username: username}
	if err := m.store.Save(ctx, creds); err != nil {
		return err
	}

	m.resolve(StateAuthenticated, creds)
	m.log.Info(ctx, "logged in", "user", username)
	return nil
}

// Register creates the account and then logs in with the same credentials.
func (m *Manager) Register(ctx context.Context, username, email, password string) error {
	if _, err := m.auth.Register(ctx, username, email, password); err != nil {
		m.log.Info(ctx, "registration failed", "user", username, "error", err)
		return fmt.Errorf("register: %w", err)
	}
	m.log.Info(ctx, "registered", "user", username)

	return m.Login(ctx, username, password)
}

// Logout forgets the session from any state. The state becomes Anonymous
// even if clearing the store fails.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	username := m.creds.Username
	m.state = StateAnonymous
	m.creds = Credentials{}
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		return err
	}
	if username != "" {
		m.log.Info(ctx, "logged out", "user", username)
	}
	return nil
}
