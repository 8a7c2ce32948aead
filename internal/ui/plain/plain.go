// Package plain prints a playback session as a linear transcript. It is used
// when stdout is not a terminal or when the user asks for --plain output.
package plain

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"github.com/alexcabrera/thinkplay/internal/playback"
	"github.com/alexcabrera/thinkplay/internal/pubsub"
	"github.com/alexcabrera/thinkplay/internal/steps"
	"github.com/alexcabrera/thinkplay/internal/timing"
	"github.com/alexcabrera/thinkplay/internal/ui/styles"
)

const defaultWidth = 80

type fder interface {
	Fd() uintptr
}

// Printer writes one block per step.
type Printer struct {
	out   io.Writer
	width int
	theme *styles.Theme
	// Color is false when out is not a terminal.
	color bool
	last  int
}

// NewPrinter creates a printer for out. Width and color follow the terminal
// when out is one.
func NewPrinter(out io.Writer, dark bool) *Printer {
	p := &Printer{out: out, width: defaultWidth, theme: styles.For(dark), last: -1}
	if f, ok := out.(fder); ok && term.IsTerminal(f.Fd()) {
		p.color = true
		if w, _, err := term.GetSize(f.Fd()); err == nil && w > 0 {
			p.width = w
		}
	}
	return p
}

// SetWidth overrides the wrap width.
func (p *Printer) SetWidth(width int) {
	if width > 0 {
		p.width = width
	}
}

func (p *Printer) render(style lipgloss.Style, s string) string {
	if !p.color {
		return s
	}
	return style.Render(s)
}

// PrintStep writes step v.CurrentStep unless it was the last one printed.
func (p *Printer) PrintStep(v playback.View) {
	if v.CurrentStep == p.last {
		return
	}
	p.last = v.CurrentStep
	s := p.theme.S()

	counter := p.render(s.Muted, fmt.Sprintf("[%d/%d]", v.CurrentStep+1, v.TotalSteps))
	step := v.Step

	meta := p.render(s.Subtle, fmt.Sprintf("%s · hold %.1fs", step.Kind, v.Hold.Seconds()))
	header := func(title string) {
		fmt.Fprintf(p.out, "%s %s  %s\n", counter, title, meta)
	}

	switch step.Kind {
	case steps.KindStartThinking:
		header(p.render(s.Header, "Thinking…"))

	case steps.KindPlaintext:
		header(p.render(s.StepTitle, step.Title))
		wrap := lipgloss.NewStyle().Width(max(p.width-4, 10))
		for _, para := range timing.Paragraphs(step.Content) {
			if strings.TrimSpace(para) == "" {
				continue
			}
			for _, line := range strings.Split(wrap.Render(para), "\n") {
				fmt.Fprintf(p.out, "    %s\n", strings.TrimRight(line, " "))
			}
		}

	case steps.KindSearch:
		header(p.render(s.StepTitle, step.Title))
		for _, site := range step.Websites {
			icon := styles.IconSearch
			if site.Kind == steps.WebsiteBrowsed {
				icon = styles.IconBrowsed
			}
			line := icon + " " + site.Title
			if site.URL != "" {
				line += " " + p.render(s.Subtle, "("+site.URL+")")
			}
			fmt.Fprintf(p.out, "    %s\n", line)
		}

	case steps.KindEnd:
		header(p.render(lipgloss.NewStyle().Foreground(p.theme.Green), styles.CheckMark+" Done"))

	default:
		header(step.Label())
	}
}

// Run mounts ctrl and prints every step it plays through. It returns when
// autoplay ends, playback stops, or ctx is cancelled. The controller is
// unmounted on return.
func Run(ctx context.Context, ctrl *playback.Controller, p *Printer) error {
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer ctrl.Unmount()

	events := ctrl.Events().Subscribe(subCtx)
	p.PrintStep(ctrl.View())
	ctrl.Mount()

	if !ctrl.View().IsPlaying {
		// Nothing to autoplay: a single step, or a snap straight to the end.
		drain(ctrl, events, p)
		p.PrintStep(ctrl.View())
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Payload.Session != ctrl.ID() {
				continue
			}
			switch ev.Type {
			case pubsub.UpdatedEvent:
				p.PrintStep(viewAt(ctrl, ev.Payload.Step))
			case pubsub.CompletedEvent:
				p.PrintStep(ctrl.View())
				return nil
			case pubsub.StoppedEvent:
				return nil
			}
		}
	}
}

func drain(ctrl *playback.Controller, events <-chan pubsub.Event[playback.Update], p *Printer) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Type == pubsub.UpdatedEvent {
				p.PrintStep(viewAt(ctrl, ev.Payload.Step))
			}
		default:
			return
		}
	}
}

// viewAt is the controller's view with the step taken from an event, which
// may already be behind the controller.
func viewAt(ctrl *playback.Controller, step int) playback.View {
	v := ctrl.View()
	if step != v.CurrentStep {
		v.CurrentStep = step
		v.Step = ctrl.StepAt(step)
		v.Hold = ctrl.Hold(step)
	}
	return v
}
