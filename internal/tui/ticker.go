package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickMsg carries the generation of the schedule that produced it. A tick
// from an older generation is dropped, so a stopped or restarted schedule
// never delivers a late tick.
type tickMsg struct {
	gen uint64
}

// teaTicker drives the workout timer from the Bubble Tea loop. It implements
// timer.TickSource. Commands it needs run are queued and handed back to the
// program by drain after each update.
type teaTicker struct {
	gen      uint64
	active   bool
	interval time.Duration
	onTick   func()
	pending  []tea.Cmd
}

func (t *teaTicker) Start(interval time.Duration, onTick func()) {
	t.gen++
	t.active = true
	t.interval = interval
	t.onTick = onTick
	t.pending = append(t.pending, t.next())
}

func (t *teaTicker) Stop() {
	t.gen++
	t.active = false
	t.onTick = nil
}

func (t *teaTicker) next() tea.Cmd {
	gen := t.gen
	return tea.Tick(t.interval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// handle delivers msg if it belongs to the live schedule and re-arms it.
func (t *teaTicker) handle(msg tickMsg) bool {
	if !t.active || msg.gen != t.gen {
		return false
	}
	gen := t.gen
	t.onTick()
	// onTick may have stopped or restarted the schedule.
	if t.active && t.gen == gen {
		t.pending = append(t.pending, t.next())
	}
	return true
}

func (t *teaTicker) drain() tea.Cmd {
	if len(t.pending) == 0 {
		return nil
	}
	cmds := t.pending
	t.pending = nil
	return tea.Batch(cmds...)
}
