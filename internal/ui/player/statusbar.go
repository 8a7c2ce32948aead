package player

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/alexcabrera/thinkplay/internal/ui/styles"
)

// StatusBar displays the step counter, transport state and hold time.
type StatusBar struct {
	width int

	step    int
	total   int
	playing bool
	done    bool
	hold    time.Duration
	pacing  string
	speed   float64
	theme   string
	err     string

	hints string
}

// NewStatusBar creates a new status bar.
func NewStatusBar() *StatusBar {
	return &StatusBar{
		speed: 1,
		hints: "space play · ←/→ step · ? help · q quit",
	}
}

// SetWidth sets the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// SetPosition updates the step counter and transport state.
func (s *StatusBar) SetPosition(step, total int, playing bool) {
	s.step = step
	s.total = total
	s.playing = playing
	s.done = total > 0 && step == total-1
}

// SetHold updates the displayed hold duration and pacing mode.
func (s *StatusBar) SetHold(hold time.Duration, pacing string) {
	s.hold = hold
	s.pacing = pacing
}

// SetSpeed updates the speed scale display.
func (s *StatusBar) SetSpeed(scale float64) {
	s.speed = scale
}

// SetTheme updates the theme name display.
func (s *StatusBar) SetTheme(name string) {
	s.theme = name
}

// SetError shows err until cleared with nil.
func (s *StatusBar) SetError(err error) {
	if err == nil {
		s.err = ""
		return
	}
	s.err = err.Error()
}

// SetHints updates the keyboard hints.
func (s *StatusBar) SetHints(hints string) {
	s.hints = hints
}

// Render returns the status bar string.
func (s *StatusBar) Render(t *styles.Theme) string {
	if s.width <= 0 {
		s.width = 80
	}

	style := lipgloss.NewStyle().Foreground(t.FgMuted)
	highlightStyle := lipgloss.NewStyle().Foreground(t.Primary)

	var parts []string
	if s.total > 0 {
		parts = append(parts, highlightStyle.Render(fmt.Sprintf("%d/%d", s.step+1, s.total)))
	}

	switch {
	case s.playing:
		parts = append(parts, lipgloss.NewStyle().Foreground(t.Green).Render("playing"))
	case s.done:
		parts = append(parts, style.Render("done"))
	default:
		parts = append(parts, style.Render("paused"))
	}

	if s.hold > 0 {
		parts = append(parts, style.Render(fmt.Sprintf("hold %.1fs", s.hold.Seconds())))
	}
	if s.pacing != "" {
		parts = append(parts, style.Render(s.pacing))
	}
	if s.speed != 1 {
		parts = append(parts, lipgloss.NewStyle().Foreground(t.Red).Render(formatScale(s.speed)))
	}
	if s.theme != "" {
		parts = append(parts, style.Render(s.theme))
	}

	left := strings.Join(parts, " · ")
	if s.err != "" {
		left += "  " + lipgloss.NewStyle().Foreground(t.Red).Render(s.err)
	}

	right := style.Render(s.hints)

	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)
	spacing := s.width - leftWidth - rightWidth - 4

	if spacing < 1 {
		// Not enough room for hints.
		return "  " + ansi.Truncate(left, max(s.width-4, 1), "…")
	}
	return "  " + left + strings.Repeat(" ", spacing) + right
}

func formatScale(scale float64) string {
	return fmt.Sprintf("%g×", scale)
}
