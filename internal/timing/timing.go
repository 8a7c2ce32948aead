// Package timing computes how long a step's text-reveal animation runs and
// how long autoplay should dwell on a step.
//
// All values are unscaled seconds. Apply the session's speed scale
// (see animctl.Control) before using them as wall-clock delays.
package timing

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/alexcabrera/thinkplay/internal/segment"
	"github.com/alexcabrera/thinkplay/internal/steps"
)

// ErrInvalidParams is returned for non-positive rates or sizes.
var ErrInvalidParams = errors.New("invalid timing parameters")

// Params are the tunable constants of the reveal animation.
type Params struct {
	// CharsPerSecond is the reveal speed in visible characters per second.
	CharsPerSecond float64 `yaml:"chars_per_second"`
	// GroupSize is how many visible characters are revealed together.
	GroupSize int `yaml:"group_size"`
	// OnScreenChars is how many characters are mid-animation at once.
	OnScreenChars float64 `yaml:"on_screen_chars"`
	// FirstFrameChars is how much text counts as already visible on the
	// first painted frame.
	FirstFrameChars float64 `yaml:"first_frame_chars"`
	// PlaintextExtra is added to every plaintext step's hold, in seconds.
	PlaintextExtra float64 `yaml:"plaintext_extra"`
	// DefaultStep is the hold for non-plaintext steps, in seconds.
	DefaultStep float64 `yaml:"default_step"`
}

// DefaultParams returns the stock animation constants.
func DefaultParams() Params {
	return Params{
		CharsPerSecond:  180,
		GroupSize:       8,
		OnScreenChars:   200,
		FirstFrameChars: 70,
		PlaintextExtra:  0.75,
		DefaultStep:     2,
	}
}

// Validate rejects parameters that would divide by zero or run backwards.
func (p Params) Validate() error {
	switch {
	case p.CharsPerSecond <= 0:
		return fmt.Errorf("%w: chars_per_second must be positive", ErrInvalidParams)
	case p.GroupSize <= 0:
		return fmt.Errorf("%w: group_size must be positive", ErrInvalidParams)
	case p.OnScreenChars <= 0:
		return fmt.Errorf("%w: on_screen_chars must be positive", ErrInvalidParams)
	case p.FirstFrameChars < 0:
		return fmt.Errorf("%w: first_frame_chars cannot be negative", ErrInvalidParams)
	case p.PlaintextExtra < 0 || p.DefaultStep < 0:
		return fmt.Errorf("%w: durations cannot be negative", ErrInvalidParams)
	}
	return nil
}

// Model evaluates reveal durations for a fixed set of Params.
type Model struct {
	params Params
}

// New creates a Model after validating p.
func New(p Params) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Model{params: p}, nil
}

// Default returns a Model with DefaultParams.
func Default() *Model {
	return &Model{params: DefaultParams()}
}

// Params returns the model's constants.
func (m *Model) Params() Params { return m.params }

// UnitDelay is the time between successive group reveals.
func (m *Model) UnitDelay() float64 {
	return float64(m.params.GroupSize) / m.params.CharsPerSecond
}

// UnitAnimation is how long one group's own fade-in takes.
func (m *Model) UnitAnimation() float64 {
	onScreenUnits := m.params.OnScreenChars / float64(m.params.GroupSize)
	return onScreenUnits * m.UnitDelay()
}

// FirstFrameOffset is the negative lead time for text assumed to be on
// screen when the animation starts.
func (m *Model) FirstFrameOffset() float64 {
	return -m.params.FirstFrameChars / m.params.CharsPerSecond
}

var paragraphSep = regexp.MustCompile(`\n+`)

// Paragraphs splits content on runs of newlines. An empty string yields a
// single empty paragraph.
func Paragraphs(content string) []string {
	return paragraphSep.Split(content, -1)
}

// ParagraphReveal is the time to reveal every group of one paragraph.
func (m *Model) ParagraphReveal(paragraph string) float64 {
	return float64(segment.GroupCount(paragraph, m.params.GroupSize)) * m.UnitDelay()
}

// ContentReveal is the time until the last group of content has finished
// animating in.
func (m *Model) ContentReveal(content string) float64 {
	total := 0.0
	for _, p := range Paragraphs(content) {
		total += m.ParagraphReveal(p)
	}
	return total + m.UnitAnimation()
}

// StepHold is how long autoplay should stay on s, rounded up to the
// millisecond so an animation is never cut short.
func (m *Model) StepHold(s steps.Step) float64 {
	if !s.IsPlaintext() {
		return m.params.DefaultStep
	}
	d := m.ContentReveal(s.Content) + m.params.PlaintextExtra + m.FirstFrameOffset()
	return math.Max(0, ceilMillis(d))
}

// ceilMillis rounds up to millisecond precision. The value is first snapped
// to whole nanoseconds so float noise such as 1.2340000000001 stays at 1.234
// while anything a nanosecond or more past a millisecond still rounds up.
func ceilMillis(seconds float64) float64 {
	nanos := math.Round(seconds * 1e9)
	return math.Ceil(nanos/1e6) / 1000
}

// Unit is one revealable group of characters.
type Unit struct {
	Text string
	// Start is the offset in seconds from the step start at which the
	// unit begins animating in.
	Start float64
}

// Paragraph holds the units of one paragraph in reveal order.
type Paragraph struct {
	Units []Unit
}

// UnitSchedule lays out when each group of content starts to appear.
// Paragraphs reveal one after another.
func (m *Model) UnitSchedule(content string) []Paragraph {
	delay := m.UnitDelay()
	offset := 0.0
	var out []Paragraph
	for _, p := range Paragraphs(content) {
		groups := segment.SplitIntoVisibleGroups(p, m.params.GroupSize)
		para := Paragraph{Units: make([]Unit, len(groups))}
		for i, g := range groups {
			para.Units[i] = Unit{Text: g, Start: offset + float64(i)*delay}
		}
		offset += float64(len(groups)) * delay
		out = append(out, para)
	}
	return out
}

// Seconds converts a float number of seconds into a time.Duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
