package timing

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexcabrera/thinkplay/internal/steps"
)

const eps = 1e-9

func TestDerivedConstants(t *testing.T) {
	m := Default()

	assert.InDelta(t, 8.0/180.0, m.UnitDelay(), eps)
	assert.InDelta(t, (200.0/8.0)*(8.0/180.0), m.UnitAnimation(), eps)
	assert.InDelta(t, -70.0/180.0, m.FirstFrameOffset(), eps)
}

func TestContentRevealEmpty(t *testing.T) {
	m := Default()
	assert.Equal(t, m.UnitAnimation(), m.ContentReveal(""))
}

func TestParagraphReveal(t *testing.T) {
	m := Default()

	assert.Equal(t, 0.0, m.ParagraphReveal(""))
	assert.InDelta(t, m.UnitDelay(), m.ParagraphReveal("abc"), eps)
	assert.InDelta(t, 2*m.UnitDelay(), m.ParagraphReveal("abcdefghij"), eps)
	// Graphemes, not bytes: eight flag emoji are one group.
	assert.InDelta(t, m.UnitDelay(), m.ParagraphReveal(strings.Repeat("🇯🇵", 8)), eps)
}

func TestContentRevealSplitsOnNewlineRuns(t *testing.T) {
	m := Default()

	single := m.ContentReveal("abcdefghij\nklm")
	multi := m.ContentReveal("abcdefghij\n\n\nklm")
	assert.InDelta(t, single, multi, eps)

	want := 3*m.UnitDelay() + m.UnitAnimation()
	assert.InDelta(t, want, single, eps)
}

func TestStepHold(t *testing.T) {
	m := Default()

	assert.Equal(t, 2.0, m.StepHold(steps.StartThinking()))
	assert.Equal(t, 2.0, m.StepHold(steps.End()))
	assert.Equal(t, 2.0, m.StepHold(steps.Search("Searching")))

	content := strings.Repeat("a", 100)
	raw := m.ContentReveal(content) + 0.75 + m.FirstFrameOffset()
	got := m.StepHold(steps.Plaintext("t", content))

	assert.GreaterOrEqual(t, got, raw-1e-6, "hold must never be shorter than the animation")
	assert.Less(t, got-raw, 0.001)
	// Whole milliseconds.
	assert.InDelta(t, got*1000, float64(int64(got*1000+0.5)), 1e-6)
}

func TestStepHoldMonotonic(t *testing.T) {
	m := Default()

	prev := -1.0
	for n := 0; n <= 400; n++ {
		hold := m.StepHold(steps.Plaintext("t", strings.Repeat("x", n)))
		require.GreaterOrEqual(t, hold, prev, "length %d", n)
		prev = hold
	}
}

func TestParamsValidate(t *testing.T) {
	require.NoError(t, DefaultParams().Validate())

	mutations := map[string]func(*Params){
		"zero speed":       func(p *Params) { p.CharsPerSecond = 0 },
		"zero group":       func(p *Params) { p.GroupSize = 0 },
		"zero on screen":   func(p *Params) { p.OnScreenChars = 0 },
		"negative first":   func(p *Params) { p.FirstFrameChars = -1 },
		"negative extra":   func(p *Params) { p.PlaintextExtra = -0.1 },
		"negative default": func(p *Params) { p.DefaultStep = -2 },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			p := DefaultParams()
			mutate(&p)
			_, err := New(p)
			assert.True(t, errors.Is(err, ErrInvalidParams), "got %v", err)
		})
	}
}

func TestUnitSchedule(t *testing.T) {
	m := Default()

	paras := m.UnitSchedule("abcdefghij\nklm")
	require.Len(t, paras, 2)
	require.Len(t, paras[0].Units, 2)
	require.Len(t, paras[1].Units, 1)

	assert.Equal(t, "abcdefgh", paras[0].Units[0].Text)
	assert.Equal(t, "ij", paras[0].Units[1].Text)
	assert.Equal(t, 0.0, paras[0].Units[0].Start)
	assert.InDelta(t, m.UnitDelay(), paras[0].Units[1].Start, eps)
	assert.InDelta(t, 2*m.UnitDelay(), paras[1].Units[0].Start, eps)
}

func TestSeconds(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, Seconds(1.5))
	assert.Equal(t, time.Duration(0), Seconds(0))
}

func TestCeilMillis(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.234, 1.234},
		{1.2340000000001, 1.234},
		{1.234000002, 1.235},
		{1.2341, 1.235},
		{0, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, ceilMillis(tt.in), eps, "ceilMillis(%v)", tt.in)
	}
}
