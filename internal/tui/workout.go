package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/intervals/internal/duration"
	"github.com/sadopc/intervals/internal/timer"
	"github.com/sadopc/intervals/internal/workout"
)

// workoutModel renders the countdown. It holds no run state of its own: every
// frame is drawn from a timer snapshot.
type workoutModel struct {
	width  int
	height int

	bar progress.Model
}

func newWorkoutModel() workoutModel {
	return workoutModel{
		bar: progress.New(progress.WithSolidFill(string(colorPrimary)), progress.WithoutPercentage()),
	}
}

func (w *workoutModel) setSize(width, height int) {
	w.width = width
	w.height = height
	w.bar.Width = max(width-12, 10)
}

// phaseLabel is the one-line summary of a snapshot, e.g. "Work - Round 1/8 - 0:20".
func phaseLabel(s timer.RunState) string {
	if s.Finished {
		return timer.Ready.String()
	}
	if s.Phase.InRound() {
		return fmt.Sprintf("%s - Round %d/%d - %s", s.Phase, s.Round, s.Rounds, duration.Format(s.TimeLeft))
	}
	return fmt.Sprintf("%s - %s", s.Phase, duration.Format(s.TimeLeft))
}

func runStatus(s timer.RunState) string {
	switch {
	case s.Finished:
		return "press space to start"
	case s.Running:
		return "running"
	default:
		return "paused, press space to resume"
	}
}

func (w workoutModel) view(s timer.RunState, cfg workout.Config, soundOn bool) string {
	width := w.width - 4
	color := phaseColor(s.Phase)

	title := phaseTitleStyle.Foreground(color).Render(s.Phase.String())

	clockText := duration.Format(s.TimeLeft)
	if s.Finished {
		clockText = duration.Format(cfg.TotalSessionTime())
	}
	clock := clockStyle.Foreground(color).BorderForeground(color).Render(clockText)

	bar := w.bar
	bar.FullColor = string(color)
	barView := bar.ViewAs(s.Progress())

	label := titleStyle.Render(phaseLabel(s))
	status := mutedStyle.Render(runStatus(s))
	if !s.Finished && !s.Running {
		status = warningStyle.Render(runStatus(s))
	}

	sound := successStyle.Render("sound on")
	if !soundOn {
		sound = mutedStyle.Render("muted")
	}

	totals := mutedStyle.Render(fmt.Sprintf("Total work %s   Session %s",
		duration.Format(cfg.TotalWorkTime()), duration.Format(cfg.TotalSessionTime())))

	plan := mutedStyle.Render(fmt.Sprintf("Warm Up %s  Work %s  Rest %s  Cooldown %s  x%d",
		duration.Format(cfg.Warmup), duration.Format(cfg.Work), duration.Format(cfg.Rest),
		duration.Format(cfg.Cooldown), cfg.Rounds))

	body := lipgloss.JoinVertical(lipgloss.Center,
		title, "", clock, "", barView, "", label, status, "", totals, plan, sound,
	)

	return activePanelStyle.
		BorderForeground(color).
		Width(width).
		Align(lipgloss.Center).
		Render(body)
}
