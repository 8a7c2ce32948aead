package animctl

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := New()
	assert.Equal(t, 1.0, c.SpeedScale())
	assert.False(t, c.DebugVisuals())
	assert.Equal(t, 3.0, c.AnimationDuration(3))
}

func TestSpeedScaleIsADivisor(t *testing.T) {
	c := New()

	require.NoError(t, c.SetSpeedScale(2))
	assert.Equal(t, 1.5, c.AnimationDuration(3))
	assert.Equal(t, 1500*time.Millisecond, c.Scaled(3))
	assert.Equal(t, time.Second, c.ScaledDuration(2*time.Second))

	require.NoError(t, c.SetSpeedScale(0.5))
	assert.Equal(t, 6.0, c.AnimationDuration(3))
}

func TestSetSpeedScaleRejectsInvalid(t *testing.T) {
	c := New()
	require.NoError(t, c.SetSpeedScale(1.5))

	for _, bad := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		err := c.SetSpeedScale(bad)
		assert.True(t, errors.Is(err, ErrInvalidScale), "scale %v: got %v", bad, err)
	}
	assert.Equal(t, 1.5, c.SpeedScale(), "rejected scales must not change the value")

	_, err := NewWithScale(0)
	assert.ErrorIs(t, err, ErrInvalidScale)
}

func TestToggleDebugVisuals(t *testing.T) {
	c := New()
	assert.True(t, c.ToggleDebugVisuals())
	assert.True(t, c.DebugVisuals())
	assert.False(t, c.ToggleDebugVisuals())
	assert.False(t, c.DebugVisuals())
}

func TestConcurrentTogglesAllCount(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 101; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.ToggleDebugVisuals()
		}()
	}
	wg.Wait()
	assert.True(t, c.DebugVisuals(), "an odd number of toggles leaves the flag on")
}

func TestChangesArePublished(t *testing.T) {
	c := New()
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := c.Changes().Subscribe(ctx)

	require.NoError(t, c.SetSpeedScale(0.25))
	c.SetDebugVisuals(true)

	select {
	case ev := <-ch:
		assert.Equal(t, 0.25, ev.Payload.SpeedScale)
		assert.False(t, ev.Payload.DebugVisuals)
	case <-time.After(time.Second):
		t.Fatal("no event for speed change")
	}
	select {
	case ev := <-ch:
		assert.Equal(t, 0.25, ev.Payload.SpeedScale)
		assert.True(t, ev.Payload.DebugVisuals)
	case <-time.After(time.Second):
		t.Fatal("no event for debug change")
	}
}

func TestPresetsAreValidScales(t *testing.T) {
	c := New()
	for _, p := range Presets {
		require.NoError(t, c.SetSpeedScale(p))
	}
}
