package playback

// Key is one of the three logical transport keys. Raw key codes are mapped
// onto these by the renderer.
type Key int

const (
	KeyBack Key = iota
	KeyForward
	KeyToggle
)

func (k Key) String() string {
	switch k {
	case KeyBack:
		return "back"
	case KeyForward:
		return "forward"
	case KeyToggle:
		return "toggle"
	}
	return "unknown"
}

type press struct {
	modifier bool
}

// KeyDown handles a key press and reports whether it triggered an action.
// A key already held is ignored until KeyUp, so auto-repeat never fires
// the action twice.
func (c *Controller) KeyDown(k Key, modifier bool) bool {
	c.mu.Lock()
	if _, held := c.held[k]; held {
		c.mu.Unlock()
		return false
	}
	c.held[k] = press{modifier: modifier}
	c.mu.Unlock()

	c.log.Debug().Stringer("key", k).Bool("modifier", modifier).Msg("key down")
	switch k {
	case KeyBack:
		if modifier {
			c.First()
		} else {
			c.Previous()
		}
	case KeyForward:
		if modifier {
			c.Last()
		} else {
			c.Next()
		}
	case KeyToggle:
		if c.machine.IsPlaying() {
			c.Pause()
		} else {
			c.Play()
		}
	default:
		return false
	}
	return true
}

// KeyUp releases k. Releasing a key that is not held is a no-op.
func (c *Controller) KeyUp(k Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.held, k)
}

// Held reports whether k is down with the given modifier state. Renderers
// use it to highlight the matching button.
func (c *Controller) Held(k Key, modifier bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.held[k]
	return ok && p.modifier == modifier
}
