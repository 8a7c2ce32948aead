// Package anim drives frame-based animation in the player: a frame ticker
// and the light sweep drawn across titles of steps still in progress.
package anim

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/alexcabrera/thinkplay/internal/segment"
)

// DefaultInterval is roughly 30 frames per second.
const DefaultInterval = 33 * time.Millisecond

// Settings configures the ticker.
type Settings struct {
	// Interval is the animation tick interval.
	Interval time.Duration
}

// TickMsg advances the ticker with the given ID.
type TickMsg struct {
	ID   string
	Time time.Time
}

// Model is the frame ticker. Each frame reports the wall time elapsed since
// the previous one so callers can integrate scaled progress.
type Model struct {
	id       string
	settings Settings
	frame    int
	active   bool
	last     time.Time
	delta    time.Duration
}

// New creates a stopped ticker.
func New(settings Settings) Model {
	if settings.Interval <= 0 {
		settings.Interval = DefaultInterval
	}
	return Model{id: uuid.NewString(), settings: settings}
}

// ID returns the ticker's unique identifier.
func (m Model) ID() string { return m.id }

// Frame returns the number of frames since Start.
func (m Model) Frame() int { return m.frame }

// Delta returns the wall time covered by the latest frame.
func (m Model) Delta() time.Duration { return m.delta }

// IsActive returns whether the ticker is running.
func (m Model) IsActive() bool { return m.active }

// Start activates the ticker.
func (m *Model) Start() tea.Cmd {
	if m.active {
		return nil
	}
	m.active = true
	m.last = time.Time{}
	return m.tick()
}

// Stop deactivates the ticker. The pending tick is dropped when it arrives.
func (m *Model) Stop() {
	m.active = false
}

func (m Model) tick() tea.Cmd {
	id := m.id
	return tea.Tick(m.settings.Interval, func(t time.Time) tea.Msg {
		return TickMsg{ID: id, Time: t}
	})
}

// Update handles tick messages to advance the animation.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	tick, ok := msg.(TickMsg)
	if !ok || tick.ID != m.id || !m.active {
		return m, nil
	}
	if m.last.IsZero() {
		m.delta = m.settings.Interval
	} else {
		m.delta = tick.Time.Sub(m.last)
	}
	m.last = tick.Time
	m.frame++
	return m, m.tick()
}

// Shimmer renders text with a bright band sweeping left to right. The band
// is width characters wide and moves one character per frame, pausing for
// width frames between passes.
func Shimmer(text string, frame, width int, base, highlight lipgloss.Color) string {
	chars := segment.VisibleCharacters(text)
	if len(chars) == 0 {
		return ""
	}
	if width < 1 {
		width = 1
	}
	period := len(chars) + 2*width
	head := frame%period - width

	baseStyle := lipgloss.NewStyle().Foreground(base)
	hiStyle := lipgloss.NewStyle().Foreground(highlight).Bold(true)

	var b strings.Builder
	for i, c := range chars {
		if i >= head && i < head+width {
			b.WriteString(hiStyle.Render(c))
		} else {
			b.WriteString(baseStyle.Render(c))
		}
	}
	return b.String()
}
