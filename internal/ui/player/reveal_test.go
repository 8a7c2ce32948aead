package player

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/alexcabrera/thinkplay/internal/timing"
	"github.com/alexcabrera/thinkplay/internal/ui/styles"
)

func TestUnitStage(t *testing.T) {
	tests := []struct {
		name     string
		revealed float64
		want     revealStage
	}{
		{"before start", 0.9, stageHidden},
		{"just started", 1.0, stageFaint},
		{"one third", 1.0 + 0.35, stageHalf},
		{"two thirds", 1.0 + 0.7, stageShown},
		{"long after", 10, stageShown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, unitStage(1.0, tt.revealed, 1.0))
		})
	}
	assert.Equal(t, stageShown, unitStage(1, 1, 0), "no fade window shows immediately")
}

func TestRenderRevealProgresses(t *testing.T) {
	tm := timing.Default()
	s := styles.Dark().S()
	content := "first paragraph here\nsecond one"
	schedule := tm.UnitSchedule(content)
	fade := tm.UnitAnimation()

	assert.Empty(t, strings.TrimSpace(ansi.Strip(renderReveal(schedule, -1, fade, s, 80))))

	partial := ansi.Strip(renderReveal(schedule, tm.UnitDelay()*1.5, fade, s, 80))
	assert.NotEmpty(t, partial)
	assert.NotContains(t, partial, "second")

	full := ansi.Strip(renderReveal(schedule, 100, fade, s, 80))
	assert.Contains(t, full, "first paragraph here")
	assert.Contains(t, full, "second one")
}

func TestRevealDone(t *testing.T) {
	tm := timing.Default()
	schedule := tm.UnitSchedule("abcdefghijklmnop")
	fade := tm.UnitAnimation()
	last := schedule[0].Units[len(schedule[0].Units)-1].Start

	assert.False(t, revealDone(schedule, last, fade))
	assert.True(t, revealDone(schedule, last+fade, fade))
	assert.True(t, revealDone(tm.UnitSchedule(""), 0, fade), "empty content is done at once")
}
