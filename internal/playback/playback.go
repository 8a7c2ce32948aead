// Package playback binds an autoplay machine to a step source, to the three
// transport keys and to the renderers that draw the current step.
package playback

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alexcabrera/thinkplay/internal/animctl"
	"github.com/alexcabrera/thinkplay/internal/autoplay"
	"github.com/alexcabrera/thinkplay/internal/clock"
	"github.com/alexcabrera/thinkplay/internal/pubsub"
	"github.com/alexcabrera/thinkplay/internal/steps"
	"github.com/alexcabrera/thinkplay/internal/timing"
)

// DefaultInterval is the fixed-pacing tick interval.
const DefaultInterval = 3 * time.Second

// ProgressEdge is the inset kept free at both ends of the progress bar for
// intermediate steps.
const ProgressEdge = 0.08

// ErrNoSteps is returned when the source has nothing to play.
var ErrNoSteps = errors.New("step source is empty")

// Source supplies the steps to play. Every index in [0, Len()) must resolve.
type Source interface {
	Len() int
	Step(i int) steps.Step
}

// Pacing selects how long autoplay stays on each step.
type Pacing string

const (
	// PacingFixed waits the configured interval on every step.
	PacingFixed Pacing = "fixed"
	// PacingContent waits the step's scaled reveal hold.
	PacingContent Pacing = "content"
)

// ParsePacing converts a config value into a Pacing. Empty means fixed.
func ParsePacing(s string) (Pacing, error) {
	switch Pacing(s) {
	case "", PacingFixed:
		return PacingFixed, nil
	case PacingContent:
		return PacingContent, nil
	}
	return "", fmt.Errorf("unknown pacing %q (want %q or %q)", s, PacingFixed, PacingContent)
}

// Update is the payload of every event published by a Controller.
type Update struct {
	Session string
	Step    int
	Total   int
	Playing bool
}

// Config configures a Controller.
type Config struct {
	Source      Source
	InitialStep int
	Interval    time.Duration
	Pacing      Pacing
	Timing      *timing.Model
	Anim        *animctl.Control
	// OnStepChange is the host notification for every index change.
	OnStepChange func(step int)
	// OnAutoplayEnd fires when a tick reaches the last step.
	OnAutoplayEnd func()
	Clock         clock.Clock
	Logger        *zerolog.Logger
	// Broker receives step, play-state and end events. When nil the
	// controller creates and owns one.
	Broker *pubsub.Broker[Update]
}

// View is what a renderer needs to draw one frame.
type View struct {
	CurrentStep int
	TotalSteps  int
	IsPlaying   bool
	IsFirstStep bool
	IsLastStep  bool
	Progress    float64
	Step        steps.Step
	// Hold is the current step's reveal hold, already speed-scaled.
	Hold time.Duration
}

// Controller wraps one autoplay machine for one mounted session.
type Controller struct {
	id      string
	src     Source
	machine *autoplay.Machine
	timing  *timing.Model
	anim    *animctl.Control
	pacing  Pacing

	broker     *pubsub.Broker[Update]
	ownsBroker bool

	mountOnce sync.Once

	mu            sync.Mutex
	held          map[Key]press
	onStepChange  func(step int)
	onAutoplayEnd func()

	log zerolog.Logger
}

// New builds a paused controller. Call Mount to start playback.
func New(cfg Config) (*Controller, error) {
	if cfg.Source == nil || cfg.Source.Len() == 0 {
		return nil, ErrNoSteps
	}
	pacing, err := ParsePacing(string(cfg.Pacing))
	if err != nil {
		return nil, err
	}

	c := &Controller{
		id:            uuid.NewString(),
		src:           cfg.Source,
		timing:        cfg.Timing,
		anim:          cfg.Anim,
		pacing:        pacing,
		broker:        cfg.Broker,
		held:          make(map[Key]press),
		onStepChange:  cfg.OnStepChange,
		onAutoplayEnd: cfg.OnAutoplayEnd,
		log:           zerolog.Nop(),
	}
	if c.timing == nil {
		c.timing = timing.Default()
	}
	if c.anim == nil {
		c.anim = animctl.New()
	}
	if c.broker == nil {
		c.broker = pubsub.NewBroker[Update](32)
		c.ownsBroker = true
	}
	if cfg.Logger != nil {
		c.log = cfg.Logger.With().Str("component", "playback").Str("session", c.id).Logger()
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	acfg := autoplay.Config{
		InitialStep:   cfg.InitialStep,
		TotalSteps:    cfg.Source.Len(),
		Interval:      interval,
		OnStepChange:  c.stepChanged,
		OnAutoplayEnd: c.autoplayEnded,
		Clock:         cfg.Clock,
		Logger:        cfg.Logger,
	}
	if pacing == PacingContent {
		acfg.Dwell = c.Hold
	}
	c.machine, err = autoplay.New(acfg)
	if err != nil {
		return nil, fmt.Errorf("create autoplay: %w", err)
	}
	c.log.Debug().
		Int("steps", acfg.TotalSteps).
		Str("pacing", string(pacing)).
		Dur("interval", interval).
		Msg("controller created")
	return c, nil
}

// ID identifies the session in logs and events.
func (c *Controller) ID() string { return c.id }

// Events returns the broker the controller publishes to.
func (c *Controller) Events() *pubsub.Broker[Update] { return c.broker }

// Anim returns the animation control the controller scales holds with.
func (c *Controller) Anim() *animctl.Control { return c.anim }

// Timing returns the controller's duration model.
func (c *Controller) Timing() *timing.Model { return c.timing }

// Mount starts playback. Only the first call has an effect.
func (c *Controller) Mount() {
	c.mountOnce.Do(func() {
		c.log.Debug().Msg("mount")
		c.Play()
	})
}

// Unmount cancels any pending tick. The controller is unusable afterwards.
func (c *Controller) Unmount() {
	c.machine.Close()
	if c.ownsBroker {
		c.broker.Close()
	}
	c.log.Debug().Msg("unmount")
}

// SetOnStepChange replaces the host step-change notification.
func (c *Controller) SetOnStepChange(fn func(step int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onStepChange = fn
}

// SetOnAutoplayEnd replaces the host autoplay-end notification.
func (c *Controller) SetOnAutoplayEnd(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onAutoplayEnd = fn
}

// Hold returns the speed-scaled hold of step i.
func (c *Controller) Hold(i int) time.Duration {
	if i < 0 || i >= c.src.Len() {
		return 0
	}
	return c.anim.Scaled(c.timing.StepHold(c.src.Step(i)))
}

// StepAt returns step i of the source, or the zero Step when i is out of
// range.
func (c *Controller) StepAt(i int) steps.Step {
	if i < 0 || i >= c.src.Len() {
		return steps.Step{}
	}
	return c.src.Step(i)
}

// View snapshots everything a renderer needs.
func (c *Controller) View() View {
	s := c.machine.Snapshot()
	return View{
		CurrentStep: s.Step,
		TotalSteps:  s.Total,
		IsPlaying:   s.Playing,
		IsFirstStep: s.IsFirstStep(),
		IsLastStep:  s.IsLastStep(),
		Progress:    VisualProgress(s.Step, s.Total),
		Step:        c.src.Step(s.Step),
		Hold:        c.Hold(s.Step),
	}
}

// Play starts autoplay.
func (c *Controller) Play() { c.transport(c.machine.Play) }

// Pause stops autoplay.
func (c *Controller) Pause() { c.transport(c.machine.Pause) }

// Toggle pauses when playing and plays otherwise.
func (c *Controller) Toggle() { c.transport(c.machine.Toggle) }

// Next moves one step forward.
func (c *Controller) Next() { c.transport(c.machine.Next) }

// Previous moves one step back.
func (c *Controller) Previous() { c.transport(c.machine.Previous) }

// First jumps to the first step.
func (c *Controller) First() { c.transport(c.machine.First) }

// Last jumps to the last step.
func (c *Controller) Last() { c.transport(c.machine.Last) }

// JumpTo moves to target, clamped to the valid range, and pauses.
func (c *Controller) JumpTo(target int) {
	c.transport(func() { c.machine.JumpTo(target) })
}

// transport runs op and publishes a play-state event if op flipped the
// playing flag.
func (c *Controller) transport(op func()) {
	was := c.machine.IsPlaying()
	op()
	s := c.machine.Snapshot()
	if s.Playing == was {
		return
	}
	typ := pubsub.StoppedEvent
	if s.Playing {
		typ = pubsub.StartedEvent
	}
	c.publish(typ, s)
}

func (c *Controller) stepChanged(step int) {
	c.mu.Lock()
	cb := c.onStepChange
	c.mu.Unlock()

	c.publish(pubsub.UpdatedEvent, autoplay.Snapshot{
		Step:    step,
		Total:   c.machine.TotalSteps(),
		Playing: c.machine.IsPlaying(),
	})
	if cb != nil {
		cb(step)
	}
}

func (c *Controller) autoplayEnded() {
	c.mu.Lock()
	cb := c.onAutoplayEnd
	c.mu.Unlock()

	c.log.Debug().Msg("autoplay ended")
	c.publish(pubsub.CompletedEvent, c.machine.Snapshot())
	if cb != nil {
		cb()
	}
}

func (c *Controller) publish(typ pubsub.EventType, s autoplay.Snapshot) {
	c.broker.Publish(pubsub.Event[Update]{
		Type: typ,
		Payload: Update{
			Session: c.id,
			Step:    s.Step,
			Total:   s.Total,
			Playing: s.Playing,
		},
	})
}

// VisualProgress maps a step index to a progress-bar fraction. The first
// step is 0 and the last is 1; the steps between are compressed into
// [ProgressEdge, 1-ProgressEdge].
func VisualProgress(current, total int) float64 {
	if total <= 1 || current >= total-1 {
		return 1
	}
	if current <= 0 {
		return 0
	}
	actual := float64(current+1) / float64(total)
	return actual*(1-2*ProgressEdge) + ProgressEdge
}
