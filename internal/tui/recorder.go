package tui

import (
	"log/slog"

	"github.com/sadopc/intervals/internal/store"
	"github.com/sadopc/intervals/internal/timer"
	"github.com/sadopc/intervals/internal/workout"
)

// recorder writes workout runs to the history store as timer events arrive.
// A nil store turns it into a no-op.
type recorder struct {
	store  *store.Store
	log    *slog.Logger
	config func() workout.Config

	active      *store.Run
	last        timer.RunState
	roundsDone  int
	workSeconds int64

	err     error
	changed bool
}

func newRecorder(s *store.Store, log *slog.Logger, config func() workout.Config) *recorder {
	return &recorder{
		store:  s,
		log:    log,
		config: config,
		last:   timer.RunState{Phase: timer.Ready, Round: 1, Finished: true},
	}
}

func (r *recorder) observe(ev timer.Event) {
	defer func() { r.last = ev.State }()

	switch ev.Kind {
	case timer.EventPhase:
		if r.last.Finished {
			r.begin()
		}
		r.countRound()
	case timer.EventTick:
		if ev.State.Phase == timer.Work {
			r.workSeconds++
		}
	case timer.EventFinished:
		if r.last.Finished {
			// A session with nothing to run finishes without entering a phase.
			return
		}
		r.countRound()
		r.end(true, ev.State.Rounds)
	case timer.EventReset:
		r.end(false, r.roundsDone)
	}
}

// countRound is called on every phase entry. Leaving Work completes a round.
func (r *recorder) countRound() {
	if r.last.Phase == timer.Work {
		r.roundsDone++
	}
}

func (r *recorder) begin() {
	r.roundsDone = 0
	r.workSeconds = 0
	if r.store == nil {
		return
	}
	run, err := r.store.StartRun(r.config())
	if err != nil {
		r.fail(err)
		return
	}
	r.active = run
	r.log.Info("run recorded", "run_id", run.RunID)
}

func (r *recorder) end(completed bool, rounds int) {
	if r.active == nil {
		return
	}
	run := r.active
	r.active = nil

	var err error
	if completed {
		_, err = r.store.FinishRun(run.ID, rounds, r.workSeconds)
	} else {
		_, err = r.store.CancelRun(run.ID, rounds, r.workSeconds)
	}
	if err != nil {
		r.fail(err)
		return
	}
	r.changed = true
	r.log.Info("run closed", "run_id", run.RunID, "completed", completed,
		"rounds_done", rounds, "work_seconds", r.workSeconds)
}

func (r *recorder) fail(err error) {
	r.log.Error("history write failed", "error", err)
	r.err = err
}

// takeErr returns and clears the last store error.
func (r *recorder) takeErr() error {
	err := r.err
	r.err = nil
	return err
}

// takeChanged reports whether a run was closed since the last call.
func (r *recorder) takeChanged() bool {
	c := r.changed
	r.changed = false
	return c
}
