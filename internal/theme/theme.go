// Package theme resolves the light/dark preference and keeps it in the
// preferences store.
package theme

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/alexcabrera/thinkplay/internal/db"
)

// PreferenceKey is the store key holding the saved theme.
const PreferenceKey = "theme"

// Theme is the user's choice.
type Theme string

const (
	Light  Theme = "light"
	Dark   Theme = "dark"
	System Theme = "system"
)

// Resolved is the palette actually shown.
type Resolved string

const (
	ResolvedLight Resolved = "light"
	ResolvedDark  Resolved = "dark"
)

// State pairs the saved choice with what it resolves to.
type State struct {
	Theme    Theme
	Resolved Resolved
}

// Dark reports whether the dark palette applies.
func (s State) Dark() bool { return s.Resolved == ResolvedDark }

// Parse validates a theme name.
func Parse(s string) (Theme, error) {
	switch t := Theme(s); t {
	case Light, Dark, System:
		return t, nil
	}
	return "", fmt.Errorf("unknown theme %q (want light, dark or system)", s)
}

// Resolve maps t onto a palette. detectDark is consulted only for System;
// a nil detector resolves System to dark.
func Resolve(t Theme, detectDark func() bool) State {
	switch t {
	case Light:
		return State{Theme: Light, Resolved: ResolvedLight}
	case Dark:
		return State{Theme: Dark, Resolved: ResolvedDark}
	}
	if detectDark == nil || detectDark() {
		return State{Theme: System, Resolved: ResolvedDark}
	}
	return State{Theme: System, Resolved: ResolvedLight}
}

// Store persists preferences. db.Queries implements it.
type Store interface {
	GetPreference(ctx context.Context, key string) (string, error)
	SetPreference(ctx context.Context, key, value string) error
}

// Manager tracks the current theme and writes every change through to the
// store. A nil store keeps the theme in memory only.
type Manager struct {
	mu      sync.Mutex
	store   Store
	detect  func() bool
	current Theme
	log     zerolog.Logger
}

// NewManager creates a Manager starting at System.
func NewManager(store Store, detectDark func() bool, logger *zerolog.Logger) *Manager {
	m := &Manager{store: store, detect: detectDark, current: System, log: zerolog.Nop()}
	if logger != nil {
		m.log = logger.With().Str("component", "theme").Logger()
	}
	return m
}

// Init loads the saved theme. On first run it saves System. An unreadable
// saved value is replaced by System.
func (m *Manager) Init(ctx context.Context) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.store == nil {
		return Resolve(m.current, m.detect), nil
	}
	saved, err := m.store.GetPreference(ctx, PreferenceKey)
	switch {
	case errors.Is(err, db.ErrNotFound):
		m.current = System
		if err := m.store.SetPreference(ctx, PreferenceKey, string(System)); err != nil {
			return Resolve(m.current, m.detect), fmt.Errorf("save default theme: %w", err)
		}
	case err != nil:
		return Resolve(m.current, m.detect), fmt.Errorf("load theme: %w", err)
	default:
		t, perr := Parse(saved)
		if perr != nil {
			m.log.Warn().Str("saved", saved).Msg("ignoring unknown saved theme")
			t = System
		}
		m.current = t
	}
	return Resolve(m.current, m.detect), nil
}

// Current returns the current state.
func (m *Manager) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Resolve(m.current, m.detect)
}

// Set saves t as the current theme.
func (m *Manager) Set(ctx context.Context, t Theme) (State, error) {
	if _, err := Parse(string(t)); err != nil {
		return m.Current(), err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setLocked(ctx, t)
}

// Toggle flips the shown palette between light and dark. When the new
// palette matches the system's, the saved choice becomes System so the
// theme keeps following the terminal.
func (m *Manager) Toggle(ctx context.Context) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := ResolvedDark
	if Resolve(m.current, m.detect).Dark() {
		next = ResolvedLight
	}
	systemDark := m.detect == nil || m.detect()
	if (next == ResolvedDark) == systemDark {
		return m.setLocked(ctx, System)
	}
	return m.setLocked(ctx, Theme(next))
}

func (m *Manager) setLocked(ctx context.Context, t Theme) (State, error) {
	if m.store != nil {
		if err := m.store.SetPreference(ctx, PreferenceKey, string(t)); err != nil {
			return Resolve(m.current, m.detect), fmt.Errorf("save theme: %w", err)
		}
	}
	m.current = t
	m.log.Debug().Str("theme", string(t)).Msg("theme changed")
	return Resolve(t, m.detect), nil
}
