// Package autoplay implements the playback state machine: the current step
// index, the playing/paused flag and the timer that advances the index.
//
// The machine has two states, Paused (initial) and Playing. Only Playing
// owns a timer, and leaving Playing cancels it synchronously, so a tick can
// never land after a pause, a jump or Close.
package autoplay

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/alexcabrera/thinkplay/internal/clock"
)

// DefaultInterval is used when Config.Interval is not positive.
const DefaultInterval = 2 * time.Second

// ErrInvalidConfig is returned by New for a config that violates the
// machine's preconditions.
var ErrInvalidConfig = errors.New("invalid autoplay config")

// Config configures a Machine.
type Config struct {
	// InitialStep is the starting index, within [0, TotalSteps-1].
	InitialStep int
	// TotalSteps is the number of steps; fixed for the machine's lifetime.
	TotalSteps int
	// Interval is the wall-clock time between ticks.
	Interval time.Duration
	// Dwell, when set, overrides Interval per step: the timer armed while
	// sitting on step i waits Dwell(i).
	Dwell func(step int) time.Duration
	// OnStepChange is called with the new index every time it changes.
	OnStepChange func(step int)
	// OnAutoplayEnd is called when a tick reaches the last step.
	OnAutoplayEnd func()
	// Clock schedules ticks. Defaults to the wall clock.
	Clock clock.Clock
	// Logger receives debug traces. Defaults to a no-op logger.
	Logger *zerolog.Logger
}

// Snapshot is a consistent view of the machine state.
type Snapshot struct {
	Step    int
	Total   int
	Playing bool
}

// IsFirstStep reports whether the snapshot is at index 0.
func (s Snapshot) IsFirstStep() bool { return s.Step == 0 }

// IsLastStep reports whether the snapshot is at the final index.
func (s Snapshot) IsLastStep() bool { return s.Step == s.Total-1 }

// Machine is the autoplay state machine. It is safe for concurrent use;
// callbacks run outside the machine's lock, possibly on the timer goroutine.
type Machine struct {
	mu sync.Mutex

	step    int
	total   int
	playing bool
	closed  bool

	interval      time.Duration
	dwell         func(step int) time.Duration
	onStepChange  func(step int)
	onAutoplayEnd func()

	clock clock.Clock
	timer clock.Timer
	// gen invalidates ticks scheduled before the last stop.
	gen uint64

	log zerolog.Logger
}

// New validates cfg and returns a paused machine.
func New(cfg Config) (*Machine, error) {
	if cfg.TotalSteps <= 0 {
		return nil, fmt.Errorf("%w: total steps must be positive, got %d", ErrInvalidConfig, cfg.TotalSteps)
	}
	if cfg.InitialStep < 0 || cfg.InitialStep > cfg.TotalSteps-1 {
		return nil, fmt.Errorf("%w: initial step %d outside [0, %d]", ErrInvalidConfig, cfg.InitialStep, cfg.TotalSteps-1)
	}

	m := &Machine{
		step:          cfg.InitialStep,
		total:         cfg.TotalSteps,
		interval:      cfg.Interval,
		dwell:         cfg.Dwell,
		onStepChange:  cfg.OnStepChange,
		onAutoplayEnd: cfg.OnAutoplayEnd,
		clock:         cfg.Clock,
		log:           zerolog.Nop(),
	}
	if m.interval <= 0 {
		m.interval = DefaultInterval
	}
	if m.clock == nil {
		m.clock = clock.Real()
	}
	if cfg.Logger != nil {
		m.log = cfg.Logger.With().Str("component", "autoplay").Logger()
	}
	return m, nil
}

// SetOnStepChange replaces the step-change callback.
func (m *Machine) SetOnStepChange(fn func(step int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onStepChange = fn
}

// SetOnAutoplayEnd replaces the autoplay-end callback.
func (m *Machine) SetOnAutoplayEnd(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onAutoplayEnd = fn
}

// Snapshot returns the current state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{Step: m.step, Total: m.total, Playing: m.playing}
}

// CurrentStep returns the current index.
func (m *Machine) CurrentStep() int { return m.Snapshot().Step }

// TotalSteps returns the step count.
func (m *Machine) TotalSteps() int { return m.total }

// IsPlaying reports whether the machine is in the Playing state.
func (m *Machine) IsPlaying() bool { return m.Snapshot().Playing }

// IsFirstStep reports whether the current index is 0.
func (m *Machine) IsFirstStep() bool { return m.Snapshot().IsFirstStep() }

// IsLastStep reports whether the current index is the last one.
func (m *Machine) IsLastStep() bool { return m.Snapshot().IsLastStep() }

// Play starts autoplay.
//
// Pressing play one step before the end snaps straight to the last step and
// stays paused; pressing it on the last step replays from step 0. Playing
// is a no-op while already playing.
func (m *Machine) Play() {
	m.mu.Lock()
	pending := m.playLocked()
	m.mu.Unlock()
	dispatch(pending)
}

// Pause stops autoplay and cancels the pending tick. Idempotent.
func (m *Machine) Pause() {
	m.mu.Lock()
	if m.playing {
		m.log.Debug().Int("step", m.step).Msg("pause")
	}
	m.stopLocked()
	m.mu.Unlock()
}

// Toggle pauses when playing and plays otherwise, atomically.
func (m *Machine) Toggle() {
	m.mu.Lock()
	var pending []func()
	if m.playing {
		m.stopLocked()
	} else {
		pending = m.playLocked()
	}
	m.mu.Unlock()
	dispatch(pending)
}

// JumpTo moves to target and pauses. Targets outside the valid range are
// clamped. The step-change callback fires only if the index changed, but
// playback stops either way.
func (m *Machine) JumpTo(target int) {
	m.mu.Lock()
	var pending []func()
	if !m.closed {
		pending = m.jumpLocked(target)
	}
	m.mu.Unlock()
	dispatch(pending)
}

// Previous moves one step back, stopping at 0.
func (m *Machine) Previous() { m.jumpBy(-1) }

// Next moves one step forward, stopping at the last step.
func (m *Machine) Next() { m.jumpBy(1) }

func (m *Machine) jumpBy(delta int) {
	m.mu.Lock()
	var pending []func()
	if !m.closed {
		pending = m.jumpLocked(m.step + delta)
	}
	m.mu.Unlock()
	dispatch(pending)
}

// First jumps to step 0.
func (m *Machine) First() { m.JumpTo(0) }

// Last jumps to the final step.
func (m *Machine) Last() { m.JumpTo(m.total - 1) }

// Close cancels any pending tick. Every later call is a no-op.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
	m.closed = true
}

func (m *Machine) playLocked() []func() {
	if m.closed || m.playing {
		return nil
	}
	switch {
	case m.total == 1:
		// Nothing to advance to.
		return nil
	case m.step == m.total-2:
		m.log.Debug().Msg("play one step before end: snapping to last step")
		return m.jumpLocked(m.total - 1)
	case m.step == m.total-1:
		m.log.Debug().Msg("play at end: replaying from start")
		pending := m.jumpLocked(0)
		m.startLocked()
		return pending
	default:
		m.startLocked()
		return nil
	}
}

func (m *Machine) jumpLocked(target int) []func() {
	target = max(0, min(m.total-1, target))
	prev := m.step
	m.step = target
	m.stopLocked()
	if target == prev {
		return nil
	}
	m.log.Debug().Int("from", prev).Int("to", target).Msg("jump")
	return []func(){m.stepChangedLocked(target)}
}

func (m *Machine) startLocked() {
	m.playing = true
	m.armLocked()
	m.log.Debug().Int("step", m.step).Msg("play")
}

func (m *Machine) stopLocked() {
	m.playing = false
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.gen++
}

func (m *Machine) armLocked() {
	d := m.interval
	if m.dwell != nil {
		if dd := m.dwell(m.step); dd > 0 {
			d = dd
		}
	}
	gen := m.gen
	m.timer = m.clock.AfterFunc(d, func() { m.tick(gen) })
}

func (m *Machine) tick(gen uint64) {
	m.mu.Lock()
	if m.closed || !m.playing || gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.timer = nil
	m.step++
	pending := []func(){m.stepChangedLocked(m.step)}
	m.log.Debug().Int("step", m.step).Msg("tick")

	if m.step >= m.total-1 {
		m.stopLocked()
		if cb := m.onAutoplayEnd; cb != nil {
			pending = append(pending, cb)
		}
		m.log.Debug().Msg("autoplay reached the last step")
	} else {
		m.armLocked()
	}
	m.mu.Unlock()
	dispatch(pending)
}

func (m *Machine) stepChangedLocked(step int) func() {
	cb := m.onStepChange
	if cb == nil {
		return nil
	}
	return func() { cb(step) }
}

func dispatch(pending []func()) {
	for _, fn := range pending {
		if fn != nil {
			fn()
		}
	}
}
