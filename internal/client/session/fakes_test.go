package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/moodjournal/internal/client/models"
)

type memStore struct {
	mu      sync.Mutex
	creds   Credentials
	present bool

	LoadErr  error
	SaveErr  error
	ClearErr error

	Saves  int
	Clears int
}

func (s *memStore) Load(ctx context.Context) (Credentials, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return Credentials{}, false, s.LoadErr
	}
	return s.creds, s.present, nil
}

func (s *memStore) Save(ctx context.Context, c Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.Saves++
	s.creds, s.present = c, true
	return nil
}

func (s *memStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Clears++
	if s.ClearErr != nil {
		return s.ClearErr
	}
	s.creds, s.present = Credentials{}, false
	return nil
}

type fakeAuth struct {
	AuthTokens models.Tokens
	AuthErr    error

	RefreshTokens models.Tokens
	RefreshErr    error

	RegisterErr error

	MeUser models.User
	MeErr  error

	LastAuthUser     string
	LastAuthPassword string
	LastRefresh      string
	LastRegister     []string
	Calls            []string
}

func (f *fakeAuth) Authenticate(ctx context.Context, username, password string) (models.Tokens, error) {
	f.Calls = append(f.Calls, "authenticate")
	f.LastAuthUser, f.LastAuthPassword = username, password
	return f.AuthTokens, f.AuthErr
}

func (f *fakeAuth) Refresh(ctx context.Context, refreshToken string) (models.Tokens, error) {
	f.Calls = append(f.Calls, "refresh")
	f.LastRefresh = refreshToken
	return f.RefreshTokens, f.RefreshErr
}

func (f *fakeAuth) Register(ctx context.Context, username, email, password string) (models.User, error) {
	f.Calls = append(f.Calls, "register")
	f.LastRegister = []string{username, email, password}
	return models.User{ID: 1, Username: username, Email: email}, f.RegisterErr
}

func (f *fakeAuth) Me(ctx context.Context) (models.User, error) {
	f.Calls = append(f.Calls, "me")
	return f.MeUser, f.MeErr
}
