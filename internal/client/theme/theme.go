// Package theme persists the dark/light preference and maps it to terminal styles.
package theme

import (
	"context"
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"github.com/dmitrijs2005/moodjournal/internal/client/repositories/metadata"
)

// KeyThemePreference is the metadata key holding the preference. It is not
// part of the session and survives logout.
const KeyThemePreference = "themePreference"

type Mode string

const (
	Dark  Mode = "dark"
	Light Mode = "light"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case Dark, Light:
		return m, nil
	default:
		return "", fmt.Errorf("unknown theme %q, expected dark or light", s)
	}
}

func (m Mode) Toggle() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

type Store struct {
	repo   metadata.Repository
	isDark func() bool
}

type Option func(*Store)

// WithBackgroundDetector replaces the terminal background probe used when
// no preference is stored.
func WithBackgroundDetector(isDark func() bool) Option {
	return func(s *Store) { s.isDark = isDark }
}

func NewStore(repo metadata.Repository, opts ...Option) *Store {
	s := &Store{repo: repo, isDark: termenv.HasDarkBackground}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the stored preference, or the terminal default when nothing
// valid is stored.
func (s *Store) Get(ctx context.Context) (Mode, error) {
	raw, err := s.repo.Get(ctx, KeyThemePreference)
	if err != nil {
		return "", err
	}
	if m, err := ParseMode(string(raw)); err == nil {
		return m, nil
	}
	if s.isDark() {
		return Dark, nil
	}
	return Light, nil
}

func (s *Store) Set(ctx context.Context, m Mode) error {
	if _, err := ParseMode(string(m)); err != nil {
		return err
	}
	return s.repo.Set(ctx, KeyThemePreference, []byte(m))
}

// Toggle flips the current mode and persists the result.
func (s *Store) Toggle(ctx context.Context) (Mode, error) {
	m, err := s.Get(ctx)
	if err != nil {
		return "", err
	}
	next := m.Toggle()
	if err := s.Set(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}
