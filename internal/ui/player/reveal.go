package player

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexcabrera/thinkplay/internal/timing"
	"github.com/alexcabrera/thinkplay/internal/ui/styles"
)

// revealStage is how far a unit has faded in.
type revealStage int

const (
	stageHidden revealStage = iota
	stageFaint
	stageHalf
	stageShown
)

// unitStage places a unit on its fade-in curve. revealed and start are
// unscaled seconds since the step began.
func unitStage(start, revealed, fade float64) revealStage {
	switch {
	case revealed < start:
		return stageHidden
	case fade <= 0:
		return stageShown
	}
	f := (revealed - start) / fade
	switch {
	case f < 1.0/3:
		return stageFaint
	case f < 2.0/3:
		return stageHalf
	}
	return stageShown
}

// renderReveal draws the units of schedule that have started by revealed,
// fading the ones still inside their animation window, wrapped to width.
func renderReveal(schedule []timing.Paragraph, revealed, fade float64, s *styles.Styles, width int) string {
	var paragraphs []string
	for _, p := range schedule {
		if len(p.Units) == 0 {
			continue
		}
		var b strings.Builder
		for _, u := range p.Units {
			switch unitStage(u.Start, revealed, fade) {
			case stageHidden:
			case stageFaint:
				b.WriteString(s.Subtle.Render(u.Text))
			case stageHalf:
				b.WriteString(s.Reveal.Render(u.Text))
			default:
				b.WriteString(s.Base.Render(u.Text))
			}
		}
		if b.Len() == 0 {
			break
		}
		paragraphs = append(paragraphs, b.String())
	}
	if width < 1 {
		width = 1
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(paragraphs, "\n\n"))
}

// revealDone reports whether every unit has fully faded in.
func revealDone(schedule []timing.Paragraph, revealed, fade float64) bool {
	for i := len(schedule) - 1; i >= 0; i-- {
		units := schedule[i].Units
		if len(units) == 0 {
			continue
		}
		return unitStage(units[len(units)-1].Start, revealed, fade) == stageShown
	}
	return true
}
