package player

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/alexcabrera/thinkplay/internal/animctl"
	"github.com/alexcabrera/thinkplay/internal/playback"
	"github.com/alexcabrera/thinkplay/internal/pubsub"
)

// Sender is the part of *tea.Program the aggregator needs.
type Sender interface {
	Send(msg tea.Msg)
}

// UpdateMsg carries a playback event into the program.
type UpdateMsg struct {
	Event pubsub.Event[playback.Update]
}

// AnimChangeMsg carries a speed or debug change into the program.
type AnimChangeMsg struct {
	Change animctl.Change
}

// EventAggregator receives playback and animation-control events and
// forwards them to the Bubble Tea program, so timer goroutines never touch
// the model directly.
type EventAggregator struct {
	updates <-chan pubsub.Event[playback.Update]
	changes <-chan pubsub.Event[animctl.Change]
	program Sender
	log     zerolog.Logger
}

// NewEventAggregator creates an aggregator that forwards events to program.
func NewEventAggregator(
	updates <-chan pubsub.Event[playback.Update],
	changes <-chan pubsub.Event[animctl.Change],
	program Sender,
	logger *zerolog.Logger,
) *EventAggregator {
	a := &EventAggregator{updates: updates, changes: changes, program: program, log: zerolog.Nop()}
	if logger != nil {
		a.log = logger.With().Str("component", "aggregator").Logger()
	}
	return a
}

// Subscribe forwards events until ctx is cancelled or both channels are
// closed. Run it in a goroutine.
func (a *EventAggregator) Subscribe(ctx context.Context) {
	updates, changes := a.updates, a.changes
	for updates != nil || changes != nil {
		select {
		case ev, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			a.log.Trace().Str("type", string(ev.Type)).Int("step", ev.Payload.Step).Msg("forward update")
			a.program.Send(UpdateMsg{Event: ev})
		case ev, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			a.program.Send(AnimChangeMsg{Change: ev.Payload})
		case <-ctx.Done():
			return
		}
	}
}
