// Package player is the interactive terminal renderer: a Bubble Tea model
// that draws the current step, the transport controls and the progress bar,
// and feeds key presses into a playback controller.
package player

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"

	"github.com/alexcabrera/thinkplay/internal/animctl"
	"github.com/alexcabrera/thinkplay/internal/clock"
	"github.com/alexcabrera/thinkplay/internal/playback"
	"github.com/alexcabrera/thinkplay/internal/pubsub"
	"github.com/alexcabrera/thinkplay/internal/steps"
	"github.com/alexcabrera/thinkplay/internal/theme"
	"github.com/alexcabrera/thinkplay/internal/timing"
	"github.com/alexcabrera/thinkplay/internal/ui/anim"
	"github.com/alexcabrera/thinkplay/internal/ui/styles"
)

// RepeatWindow separates auto-repeat from a new tap: a press arriving
// within it of the previous event for the same key is a repeat. Terminals
// do not report key release, so a key also counts as released once the
// window passes without another event.
const RepeatWindow = 90 * time.Millisecond

const shimmerWidth = 4

// Options configures the player.
type Options struct {
	Source   playback.Source
	Title    string
	Interval time.Duration
	Pacing   playback.Pacing
	Anim     *animctl.Control
	Timing   *timing.Model
	// Theme is optional; without it the theme lives in memory only.
	Theme  *theme.Manager
	Clock  clock.Clock
	Logger *zerolog.Logger
}

type mountedMsg struct{}

type releaseMsg struct {
	key playback.Key
	seq int
}

type themeMsg struct {
	state theme.State
	err   error
}

// Model is the player's Bubble Tea model.
type Model struct {
	opts   Options
	broker *pubsub.Broker[playback.Update]
	ctrl   *playback.Controller
	log    zerolog.Logger

	keyMap   KeyMap
	help     help.Model
	progress progress.Model
	ticker   anim.Model
	tickCmd  tea.Cmd
	status   *StatusBar

	palette    *styles.Theme
	themeState theme.State

	view     playback.View
	revealed float64
	pressSeq  map[playback.Key]int
	lastPress map[playback.Key]time.Time

	width    int
	height   int
	quitting bool
}

// New builds the model and its first controller. The controller starts
// playing when the program runs Init.
func New(opts Options) (Model, error) {
	if opts.Anim == nil {
		opts.Anim = animctl.New()
	}
	if opts.Timing == nil {
		opts.Timing = timing.Default()
	}
	if opts.Theme == nil {
		opts.Theme = theme.NewManager(nil, lipgloss.HasDarkBackground, opts.Logger)
	}

	m := Model{
		opts:     opts,
		broker:   pubsub.NewBroker[playback.Update](64),
		log:      zerolog.Nop(),
		keyMap:   DefaultKeyMap(),
		help:     help.New(),
		ticker:   anim.New(anim.Settings{}),
		status:   NewStatusBar(),
		pressSeq:  make(map[playback.Key]int),
		lastPress: make(map[playback.Key]time.Time),
		width:     80,
	}
	if opts.Logger != nil {
		m.log = opts.Logger.With().Str("component", "player").Logger()
	}

	ctrl, err := m.newController()
	if err != nil {
		return Model{}, err
	}
	m.ctrl = ctrl
	m.tickCmd = m.ticker.Start()
	m.applyTheme(opts.Theme.Current())
	m.refresh(true)
	return m, nil
}

func (m Model) newController() (*playback.Controller, error) {
	return playback.New(playback.Config{
		Source:   m.opts.Source,
		Interval: m.opts.Interval,
		Pacing:   m.opts.Pacing,
		Timing:   m.opts.Timing,
		Anim:     m.opts.Anim,
		Clock:    m.opts.Clock,
		Logger:   m.opts.Logger,
		Broker:   m.broker,
	})
}

// Controller returns the active playback controller.
func (m Model) Controller() *playback.Controller { return m.ctrl }

// Updates returns the broker every controller of this model publishes to.
func (m Model) Updates() *pubsub.Broker[playback.Update] { return m.broker }

// Init starts the frame ticker and mounts the controller.
func (m Model) Init() tea.Cmd {
	ctrl := m.ctrl
	return tea.Batch(m.tickCmd, func() tea.Msg {
		ctrl.Mount()
		return mountedMsg{}
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.status.SetWidth(msg.Width)
		m.progress.Width = max(msg.Width-4, 10)
		return m, nil

	case anim.TickMsg:
		var cmd tea.Cmd
		m.ticker, cmd = m.ticker.Update(msg)
		if msg.ID == m.ticker.ID() {
			m.revealed += m.ticker.Delta().Seconds() * m.opts.Anim.SpeedScale()
		}
		return m, cmd

	case mountedMsg:
		m.refresh(false)
		return m, nil

	case UpdateMsg:
		if msg.Event.Payload.Session != m.ctrl.ID() {
			return m, nil
		}
		m.refresh(false)
		return m, nil

	case AnimChangeMsg:
		m.status.SetSpeed(msg.Change.SpeedScale)
		m.refresh(false)
		return m, nil

	case releaseMsg:
		if msg.seq == m.pressSeq[msg.key] {
			m.ctrl.KeyUp(msg.key)
		}
		return m, nil

	case themeMsg:
		if msg.err != nil {
			m.log.Error().Err(msg.err).Msg("theme toggle")
		}
		m.status.SetError(msg.err)
		m.applyTheme(msg.state)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.quitting = true
		m.ctrl.Unmount()
		return m, tea.Quit
	case key.Matches(msg, m.keyMap.First):
		return m.press(playback.KeyBack, true)
	case key.Matches(msg, m.keyMap.Previous):
		return m.press(playback.KeyBack, false)
	case key.Matches(msg, m.keyMap.Next):
		return m.press(playback.KeyForward, false)
	case key.Matches(msg, m.keyMap.Last):
		return m.press(playback.KeyForward, true)
	case key.Matches(msg, m.keyMap.Toggle):
		return m.press(playback.KeyToggle, false)
	case key.Matches(msg, m.keyMap.Speed):
		i := int(msg.String()[0] - '1')
		if i >= 0 && i < len(animctl.Presets) {
			if err := m.opts.Anim.SetSpeedScale(animctl.Presets[i]); err != nil {
				m.status.SetError(err)
			}
			m.status.SetSpeed(m.opts.Anim.SpeedScale())
			m.refresh(false)
		}
	case key.Matches(msg, m.keyMap.Debug):
		m.opts.Anim.ToggleDebugVisuals()
	case key.Matches(msg, m.keyMap.Theme):
		mgr := m.opts.Theme
		return m, func() tea.Msg {
			s, err := mgr.Toggle(context.Background())
			return themeMsg{state: s, err: err}
		}
	case key.Matches(msg, m.keyMap.Remount):
		return m.remount()
	case key.Matches(msg, m.keyMap.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// press forwards a transport key and schedules its synthetic release.
// Events closer together than RepeatWindow are auto-repeat and only push the
// release back; anything slower is a fresh tap.
func (m Model) press(k playback.Key, modifier bool) (tea.Model, tea.Cmd) {
	now := m.now()
	last, seen := m.lastPress[k]
	m.lastPress[k] = now
	m.pressSeq[k]++
	seq := m.pressSeq[k]
	if !seen || now.Sub(last) >= RepeatWindow {
		m.ctrl.KeyUp(k)
		m.ctrl.KeyDown(k, modifier)
		m.refresh(false)
	}
	return m, tea.Tick(RepeatWindow, func(time.Time) tea.Msg {
		return releaseMsg{key: k, seq: seq}
	})
}

func (m Model) now() time.Time {
	if m.opts.Clock != nil {
		return m.opts.Clock.Now()
	}
	return time.Now()
}

// remount tears the controller down and starts a fresh one from the first
// step. Unmount cancels the old timer before the new one exists.
func (m Model) remount() (tea.Model, tea.Cmd) {
	m.ctrl.Unmount()
	ctrl, err := m.newController()
	if err != nil {
		m.status.SetError(err)
		return m, nil
	}
	m.ctrl = ctrl
	m.log.Debug().Str("session", ctrl.ID()).Msg("remount")
	m.refresh(true)
	return m, func() tea.Msg {
		ctrl.Mount()
		return mountedMsg{}
	}
}

// refresh pulls a fresh view from the controller. A step change, or reset,
// restarts the reveal animation.
func (m *Model) refresh(reset bool) {
	v := m.ctrl.View()
	if reset || v.CurrentStep != m.view.CurrentStep {
		m.revealed = -m.opts.Timing.FirstFrameOffset()
	}
	m.view = v
	m.status.SetPosition(v.CurrentStep, v.TotalSteps, v.IsPlaying)
	m.status.SetHold(v.Hold, string(m.opts.Pacing))
}

func (m *Model) applyTheme(s theme.State) {
	m.themeState = s
	m.palette = styles.For(s.Dark())
	m.status.SetTheme(string(s.Theme))
	m.progress = progress.New(
		progress.WithSolidFill(string(m.palette.Primary)),
		progress.WithoutPercentage(),
		progress.WithWidth(max(m.width-4, 10)),
	)
	m.progress.EmptyColor = string(m.palette.Border)
}

// View renders the player.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	debug := m.opts.Anim.DebugVisuals()
	region := func(s string) string {
		if debug {
			return m.palette.S().Debug.Render(s)
		}
		return s
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		region(m.headerView()),
		region(m.controlsView()),
		region("  "+m.progress.ViewAs(m.view.Progress)),
		region(m.cardView()),
		region(m.status.Render(m.palette)),
		region("  "+m.help.View(m.keyMap)),
	)
}

func (m Model) headerView() string {
	s := m.palette.S()
	title := s.Header.Render("thinkplay")
	if m.opts.Title != "" {
		title += s.Muted.Render(" · " + m.opts.Title)
	}
	title = ansi.Truncate(title, max(m.width-4, 1), "…")
	lineWidth := max(m.width-lipgloss.Width(title)-4, 0)
	return "  " + title + " " + s.Rule.Render(strings.Repeat("─", lineWidth))
}

func (m Model) controlsView() string {
	s := m.palette.S()
	v := m.view

	button := func(icon string, k playback.Key, modifier, disabled bool) string {
		switch {
		case disabled:
			return s.ButtonDisabled.Render(icon)
		case m.ctrl.Held(k, modifier):
			return s.ButtonHeld.Render(icon)
		}
		return s.Button.Render(icon)
	}

	playIcon := styles.IconPlay
	if v.IsPlaying {
		playIcon = styles.IconPause
	}
	transport := lipgloss.JoinHorizontal(lipgloss.Center,
		button(styles.IconFirst, playback.KeyBack, true, v.IsFirstStep),
		button(styles.IconPrevious, playback.KeyBack, false, v.IsFirstStep),
		button(playIcon, playback.KeyToggle, false, false),
		button(styles.IconNext, playback.KeyForward, false, v.IsLastStep),
		button(styles.IconLast, playback.KeyForward, true, v.IsLastStep),
	)

	scale := m.opts.Anim.SpeedScale()
	var presets []string
	for _, p := range animctl.Presets {
		label := formatScale(p)
		switch {
		case p != scale:
			presets = append(presets, s.Preset.Render(label))
		case p == 1:
			presets = append(presets, s.PresetActive.Render(label))
		default:
			presets = append(presets, s.PresetModified.Render(label))
		}
	}
	speed := lipgloss.JoinHorizontal(lipgloss.Center, presets...)

	debugLabel := s.Subtle.Render("borders off")
	if m.opts.Anim.DebugVisuals() {
		debugLabel = lipgloss.NewStyle().Foreground(m.palette.Red).Render("borders on")
	}

	return "  " + transport + "   " + speed + "   " + debugLabel
}

func (m Model) cardView() string {
	s := m.palette.S()
	inner := max(m.width-8, 10)
	step := m.view.Step

	var body string
	switch step.Kind {
	case steps.KindStartThinking:
		body = anim.Shimmer("Thinking", m.ticker.Frame(), shimmerWidth, m.palette.FgMuted, m.palette.Shimmer)

	case steps.KindPlaintext:
		schedule := m.opts.Timing.UnitSchedule(step.Content)
		fade := m.opts.Timing.UnitAnimation()
		title := s.StepTitle.Render(ansi.Truncate(step.Title, inner, "…"))
		if !revealDone(schedule, m.revealed, fade) {
			title = anim.Shimmer(ansi.Truncate(step.Title, inner, "…"), m.ticker.Frame(), shimmerWidth, m.palette.FgBase, m.palette.Shimmer)
		}
		body = title + "\n\n" + renderReveal(schedule, m.revealed, fade, s, inner)

	case steps.KindSearch:
		title := s.StepTitle.Render(ansi.Truncate(step.Title, inner, "…"))
		if m.view.IsPlaying {
			title = anim.Shimmer(ansi.Truncate(step.Title, inner, "…"), m.ticker.Frame(), shimmerWidth, m.palette.FgBase, m.palette.Shimmer)
		}
		body = title + "\n\n" + m.chipsView(step.Websites, inner)

	case steps.KindEnd:
		done := lipgloss.NewStyle().Foreground(m.palette.Green).Render(styles.CheckMark + " Done")
		body = done + s.Muted.Render(fmt.Sprintf("  thought through %d steps", m.view.TotalSteps))

	default:
		body = s.Muted.Render(step.Label())
	}

	return s.Card.Width(inner + 2).Render(body)
}

// chipsView lays website chips out in rows no wider than width.
func (m Model) chipsView(sites []steps.Website, width int) string {
	s := m.palette.S()
	var rows []string
	var row []string
	rowWidth := 0
	for _, site := range sites {
		var chip string
		if site.Kind == steps.WebsiteBrowsed {
			chip = s.ChipBrowsed.Render(styles.IconBrowsed + " " + ansi.Truncate(site.Title, 40, "…"))
		} else {
			chip = s.Chip.Render(styles.IconSearch + " " + ansi.Truncate(site.Title, 40, "…"))
		}
		w := lipgloss.Width(chip) + 1
		if rowWidth > 0 && rowWidth+w > width {
			rows = append(rows, strings.Join(row, " "))
			row, rowWidth = nil, 0
		}
		row = append(row, chip)
		rowWidth += w
	}
	if len(row) > 0 {
		rows = append(rows, strings.Join(row, " "))
	}
	return strings.Join(rows, "\n")
}

// Run starts the player TUI and blocks until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	model, err := New(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	aggCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	agg := NewEventAggregator(
		model.Updates().Subscribe(aggCtx),
		model.opts.Anim.Changes().Subscribe(aggCtx),
		p,
		opts.Logger,
	)
	go agg.Subscribe(aggCtx)

	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		fm.ctrl.Unmount()
	} else {
		model.ctrl.Unmount()
	}
	model.broker.Close()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
