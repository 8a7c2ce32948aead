package autoplay

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexcabrera/thinkplay/internal/clock"
)

// recorder collects callback invocations.
type recorder struct {
	changes []int
	ends    int
}

func (r *recorder) onStepChange(step int) { r.changes = append(r.changes, step) }
func (r *recorder) onAutoplayEnd()        { r.ends++ }

func newMachine(t *testing.T, initial, total int, interval time.Duration) (*Machine, *clock.Manual, *recorder) {
	t.Helper()
	clk := clock.NewManual()
	rec := &recorder{}
	m, err := New(Config{
		InitialStep:   initial,
		TotalSteps:    total,
		Interval:      interval,
		OnStepChange:  rec.onStepChange,
		OnAutoplayEnd: rec.onAutoplayEnd,
		Clock:         clk,
	})
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m, clk, rec
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero steps", Config{TotalSteps: 0}},
		{"negative steps", Config{TotalSteps: -3}},
		{"negative initial", Config{TotalSteps: 3, InitialStep: -1}},
		{"initial past end", Config{TotalSteps: 3, InitialStep: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestNewStartsPaused(t *testing.T) {
	m, clk, _ := newMachine(t, 2, 5, time.Second)
	s := m.Snapshot()
	assert.Equal(t, Snapshot{Step: 2, Total: 5, Playing: false}, s)
	assert.Equal(t, 0, clk.Pending())
}

func TestNextClampsAtLastStep(t *testing.T) {
	m, _, rec := newMachine(t, 0, 5, time.Second)

	for i := 0; i < 4; i++ {
		m.Next()
	}
	assert.Equal(t, 4, m.CurrentStep())
	assert.True(t, m.IsLastStep())

	m.Next()
	assert.Equal(t, 4, m.CurrentStep())
	assert.Equal(t, []int{1, 2, 3, 4}, rec.changes, "clamped next must not notify")
}

func TestPreviousClampsAtFirstStep(t *testing.T) {
	m, _, rec := newMachine(t, 1, 5, time.Second)

	m.Previous()
	assert.True(t, m.IsFirstStep())
	m.Previous()
	assert.Equal(t, 0, m.CurrentStep())
	assert.Equal(t, []int{0}, rec.changes)
}

func TestPlayAtEndReplaysFromStart(t *testing.T) {
	m, clk, rec := newMachine(t, 4, 5, time.Second)

	m.Play()
	assert.Equal(t, 0, m.CurrentStep())
	assert.True(t, m.IsPlaying())
	assert.Equal(t, []int{0}, rec.changes)
	assert.Equal(t, 1, clk.Pending())

	clk.Advance(time.Second)
	assert.Equal(t, 1, m.CurrentStep())
}

func TestPlayOneBeforeEndSnapsToEnd(t *testing.T) {
	m, clk, rec := newMachine(t, 3, 5, time.Second)

	m.Play()
	assert.Equal(t, 4, m.CurrentStep())
	assert.False(t, m.IsPlaying())
	assert.Equal(t, []int{4}, rec.changes)
	assert.Equal(t, 0, rec.ends, "snapping bypasses the tick, so no autoplay end")
	assert.Equal(t, 0, clk.Pending())
}

func TestPauseCancelsPendingTick(t *testing.T) {
	m, clk, rec := newMachine(t, 0, 5, time.Second)

	m.Play()
	clk.Advance(500 * time.Millisecond)
	m.Pause()
	assert.Equal(t, 0, clk.Pending(), "pause must cancel, not just ignore, the timer")

	clk.Advance(5 * time.Second)
	assert.Equal(t, 0, m.CurrentStep())
	assert.Empty(t, rec.changes)

	m.Pause()
	assert.False(t, m.IsPlaying())
}

func TestAutoplayRunsToEnd(t *testing.T) {
	m, clk, rec := newMachine(t, 0, 3, 100*time.Millisecond)

	m.Play()
	clk.Advance(250 * time.Millisecond)

	assert.Equal(t, 2, m.CurrentStep())
	assert.False(t, m.IsPlaying())
	assert.Equal(t, []int{1, 2}, rec.changes)
	assert.Equal(t, 1, rec.ends)
	assert.Equal(t, 0, clk.Pending())

	clk.Advance(time.Second)
	assert.Equal(t, 1, rec.ends)
}

func TestPlayWhilePlayingIsNoop(t *testing.T) {
	m, clk, rec := newMachine(t, 0, 10, time.Second)

	m.Play()
	m.Play()
	m.Play()
	assert.Equal(t, 1, clk.Pending(), "never more than one live timer")

	clk.Advance(time.Second)
	assert.Equal(t, []int{1}, rec.changes)
}

func TestJumpToAlwaysPauses(t *testing.T) {
	m, clk, rec := newMachine(t, 2, 10, time.Second)

	m.Play()
	m.JumpTo(2)
	assert.False(t, m.IsPlaying())
	assert.Empty(t, rec.changes, "jumping to the current step does not notify")
	assert.Equal(t, 0, clk.Pending())

	m.Play()
	clk.Advance(500 * time.Millisecond)
	m.JumpTo(7)
	clk.Advance(5 * time.Second)
	assert.Equal(t, 7, m.CurrentStep(), "a pending tick must lose to a jump")
	assert.Equal(t, []int{7}, rec.changes)
}

func TestJumpToClamps(t *testing.T) {
	m, _, _ := newMachine(t, 2, 5, time.Second)

	m.JumpTo(99)
	assert.Equal(t, 4, m.CurrentStep())
	m.JumpTo(-4)
	assert.Equal(t, 0, m.CurrentStep())
}

func TestFirstAndLast(t *testing.T) {
	m, _, rec := newMachine(t, 2, 5, time.Second)

	m.Last()
	assert.True(t, m.IsLastStep())
	m.First()
	assert.True(t, m.IsFirstStep())
	assert.Equal(t, []int{4, 0}, rec.changes)
}

func TestToggle(t *testing.T) {
	m, clk, _ := newMachine(t, 0, 5, time.Second)

	m.Toggle()
	assert.True(t, m.IsPlaying())
	m.Toggle()
	assert.False(t, m.IsPlaying())
	assert.Equal(t, 0, clk.Pending())
}

func TestDwellOverridesInterval(t *testing.T) {
	clk := clock.NewManual()
	rec := &recorder{}
	dwell := map[int]time.Duration{0: 100 * time.Millisecond, 1: 300 * time.Millisecond}
	m, err := New(Config{
		TotalSteps:   4,
		Interval:     time.Hour,
		Dwell:        func(step int) time.Duration { return dwell[step] },
		OnStepChange: rec.onStepChange,
		Clock:        clk,
	})
	require.NoError(t, err)
	defer m.Close()

	m.Play()
	clk.Advance(100 * time.Millisecond)
	assert.Equal(t, 1, m.CurrentStep())

	clk.Advance(200 * time.Millisecond)
	assert.Equal(t, 1, m.CurrentStep())
	clk.Advance(100 * time.Millisecond)
	assert.Equal(t, 2, m.CurrentStep())

	// Step 2 has no dwell entry, so the fixed interval applies.
	clk.Advance(time.Minute)
	assert.Equal(t, 2, m.CurrentStep())
}

func TestCloseCancelsAndDisables(t *testing.T) {
	m, clk, rec := newMachine(t, 0, 5, time.Second)

	m.Play()
	m.Close()
	assert.Equal(t, 0, clk.Pending())

	m.Play()
	m.Next()
	m.JumpTo(3)
	clk.Advance(10 * time.Second)
	assert.Equal(t, 0, m.CurrentStep())
	assert.False(t, m.IsPlaying())
	assert.Empty(t, rec.changes)
}

func TestLatestCallbackWins(t *testing.T) {
	m, clk, rec := newMachine(t, 0, 5, time.Second)

	var replaced []int
	m.Play()
	clk.Advance(time.Second)
	m.SetOnStepChange(func(step int) { replaced = append(replaced, step) })
	clk.Advance(time.Second)

	assert.Equal(t, []int{1}, rec.changes)
	assert.Equal(t, []int{2}, replaced)
}

func TestCallbacksMayReenter(t *testing.T) {
	clk := clock.NewManual()
	var m *Machine
	var seen []Snapshot
	m, err := New(Config{
		TotalSteps: 3,
		Interval:   time.Second,
		Clock:      clk,
		OnStepChange: func(int) {
			seen = append(seen, m.Snapshot())
		},
		OnAutoplayEnd: func() {
			m.Play()
		},
	})
	require.NoError(t, err)
	defer m.Close()

	m.Play()
	clk.Advance(2 * time.Second)

	require.Len(t, seen, 3)
	assert.Equal(t, 1, seen[0].Step)
	assert.Equal(t, 2, seen[1].Step)
	// The end callback pressed play at the end, which replays from 0.
	assert.Equal(t, 0, seen[2].Step)
	assert.True(t, m.IsPlaying())
}

func TestSingleStepNeverPlays(t *testing.T) {
	m, clk, rec := newMachine(t, 0, 1, time.Second)

	m.Play()
	assert.False(t, m.IsPlaying())
	assert.True(t, m.IsFirstStep())
	assert.True(t, m.IsLastStep())
	assert.Equal(t, 0, clk.Pending())
	assert.Empty(t, rec.changes)
}

func TestTwoStepsPlaySnapsToEnd(t *testing.T) {
	m, _, rec := newMachine(t, 0, 2, time.Second)

	m.Play()
	assert.Equal(t, 1, m.CurrentStep())
	assert.False(t, m.IsPlaying())
	assert.Equal(t, []int{1}, rec.changes)
}
