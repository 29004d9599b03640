package timer

import "github.com/sadopc/intervals/internal/workout"

type trigger int

const (
	expired trigger = iota
	roundsDone
)

type transitionKey struct {
	from Phase
	on   trigger
}

var transitions = map[transitionKey]Phase{
	{Warmup, expired}:   Work,
	{Work, expired}:     Rest,
	{Rest, expired}:     Work,
	{Rest, roundsDone}:  Cooldown,
	{Cooldown, expired}: Ready,
}

// Machine sequences the phases of one session. It knows nothing about time;
// the countdown tells it when a phase has run out.
type Machine struct {
	cfg   workout.Config
	phase Phase
	round int
}

// NewMachine returns a machine at Ready, round 1.
func NewMachine() Machine {
	return Machine{phase: Ready, round: 1}
}

func (m *Machine) Phase() Phase { return m.phase }
func (m *Machine) Round() int   { return m.round }

// Duration returns the configured length of p in seconds.
func (m *Machine) Duration(p Phase) int {
	switch p {
	case Warmup:
		return m.cfg.Warmup
	case Work:
		return m.cfg.Work
	case Rest:
		return m.cfg.Rest
	case Cooldown:
		return m.cfg.Cooldown
	}
	return 0
}

// Start begins a session with cfg and returns the first phase to enter.
// Zero-length phases are skipped, so Ready means there is nothing to run.
func (m *Machine) Start(cfg workout.Config) Phase {
	m.cfg = cfg.Normalize()
	m.round = 1
	m.phase = Warmup
	return m.settle()
}

// Advance moves past the current phase and returns the next one to enter.
func (m *Machine) Advance() Phase {
	m.step()
	return m.settle()
}

// Reset returns to Ready, round 1.
func (m *Machine) Reset() {
	m.phase = Ready
	m.round = 1
}

func (m *Machine) step() {
	if m.phase == Ready {
		return
	}
	on := expired
	if m.phase == Rest {
		m.round++
		if m.round > m.cfg.Rounds {
			on = roundsDone
			m.round = m.cfg.Rounds
		}
	}
	m.phase = transitions[transitionKey{from: m.phase, on: on}]
	if m.phase == Ready {
		m.round = 1
	}
}

// settle skips zero-length phases. When both Work and Rest are zero the
// remaining rounds hold nothing to run, so it jumps straight to Cooldown and
// the loop stays within one pass per phase whatever the round count.
func (m *Machine) settle() Phase {
	for m.phase != Ready && m.Duration(m.phase) == 0 {
		if (m.phase == Work || m.phase == Rest) && m.cfg.Work == 0 && m.cfg.Rest == 0 {
			m.round = m.cfg.Rounds
			m.phase = Cooldown
			continue
		}
		m.step()
	}
	return m.phase
}
