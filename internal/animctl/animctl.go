// Package animctl holds the session-wide animation speed scale and the
// debug-visuals switch. One Control is created per session and passed to
// every component that turns raw durations into wall-clock delays.
package animctl

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/alexcabrera/thinkplay/internal/pubsub"
)

// ErrInvalidScale is returned when a speed scale is not a positive number.
var ErrInvalidScale = errors.New("speed scale must be a positive number")

// Presets are the speed scales offered by the speed selector.
var Presets = []float64{0.25, 0.5, 0.75, 1, 1.5, 2}

// Change describes the control state after an update.
type Change struct {
	SpeedScale   float64
	DebugVisuals bool
}

// Control is the shared speed/debug cell. It is safe for concurrent use.
type Control struct {
	mu     sync.RWMutex
	scale  float64
	debug  bool
	broker *pubsub.Broker[Change]
}

// New creates a Control with scale 1 and debug visuals off.
func New() *Control {
	return &Control{
		scale:  1,
		broker: pubsub.NewBroker[Change](8),
	}
}

// NewWithScale creates a Control starting at scale.
func NewWithScale(scale float64) (*Control, error) {
	c := New()
	if err := c.SetSpeedScale(scale); err != nil {
		return nil, err
	}
	return c, nil
}

// Changes returns the broker that publishes every update.
func (c *Control) Changes() *pubsub.Broker[Change] {
	return c.broker
}

// SpeedScale returns the current divisor applied to animation durations.
func (c *Control) SpeedScale() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scale
}

// SetSpeedScale replaces the scale. Non-positive, NaN and infinite values
// are rejected and leave the current scale untouched.
func (c *Control) SetSpeedScale(scale float64) error {
	if !(scale > 0) || math.IsInf(scale, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidScale, scale)
	}
	c.mu.Lock()
	c.scale = scale
	change := Change{SpeedScale: c.scale, DebugVisuals: c.debug}
	c.mu.Unlock()

	c.broker.Publish(pubsub.Event[Change]{Type: pubsub.UpdatedEvent, Payload: change})
	return nil
}

// DebugVisuals reports whether layout outlines should be drawn.
func (c *Control) DebugVisuals() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.debug
}

// SetDebugVisuals replaces the debug flag.
func (c *Control) SetDebugVisuals(enabled bool) {
	c.mu.Lock()
	c.debug = enabled
	change := Change{SpeedScale: c.scale, DebugVisuals: c.debug}
	c.mu.Unlock()

	c.broker.Publish(pubsub.Event[Change]{Type: pubsub.UpdatedEvent, Payload: change})
}

// ToggleDebugVisuals flips the debug flag and returns the new value.
func (c *Control) ToggleDebugVisuals() bool {
	c.mu.Lock()
	c.debug = !c.debug
	change := Change{SpeedScale: c.scale, DebugVisuals: c.debug}
	c.mu.Unlock()

	c.broker.Publish(pubsub.Event[Change]{Type: pubsub.UpdatedEvent, Payload: change})
	return change.DebugVisuals
}

// AnimationDuration scales a raw duration in seconds by the current speed.
func (c *Control) AnimationDuration(raw float64) float64 {
	return raw / c.SpeedScale()
}

// Scaled is AnimationDuration as a time.Duration.
func (c *Control) Scaled(raw float64) time.Duration {
	return time.Duration(c.AnimationDuration(raw) * float64(time.Second))
}

// ScaledDuration divides d by the current speed.
func (c *Control) ScaledDuration(d time.Duration) time.Duration {
	return time.Duration(float64(d) / c.SpeedScale())
}

// Close releases subscribers.
func (c *Control) Close() {
	c.broker.Close()
}
