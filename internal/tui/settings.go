package tui

import (
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/intervals/internal/duration"
	"github.com/sadopc/intervals/internal/workout"
)

// settingsSavedMsg carries the configuration entered in the form.
type settingsSavedMsg struct {
	cfg     workout.Config
	soundOn bool
}

type settingsModel struct {
	width  int
	height int

	formActive bool
	form       *huh.Form
	base       workout.Config

	// Form values as pointers (survive value copies)
	warmup   *string
	work     *string
	rest     *string
	cooldown *string
	rounds   *string
	soundOn  *bool
}

func newSettingsModel() settingsModel {
	wu, wk, rs, cd, rn := "", "", "", "", ""
	snd := true
	return settingsModel{
		warmup:   &wu,
		work:     &wk,
		rest:     &rs,
		cooldown: &cd,
		rounds:   &rn,
		soundOn:  &snd,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) showForm(cfg workout.Config, soundOn bool) (settingsModel, tea.Cmd) {
	s.base = cfg
	*s.warmup = duration.Format(cfg.Warmup)
	*s.work = duration.Format(cfg.Work)
	*s.rest = duration.Format(cfg.Rest)
	*s.cooldown = duration.Format(cfg.Cooldown)
	*s.rounds = strconv.Itoa(cfg.Rounds)
	*s.soundOn = soundOn

	hint := "digits fill from the right: 130 is 1:30"
	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Warm up").Description(hint).Value(s.warmup),
			huh.NewInput().Title("Work").Value(s.work),
			huh.NewInput().Title("Rest").Value(s.rest),
			huh.NewInput().Title("Cooldown").Value(s.cooldown),
			huh.NewInput().Title("Rounds").Value(s.rounds),
		).Title("Workout"),
		huh.NewGroup(
			huh.NewConfirm().Title("Sound cues").
				Affirmative("On").Negative("Off").
				Value(s.soundOn),
		).Title("Cues"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if !s.formActive || s.form == nil {
		return s, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		saved := settingsSavedMsg{cfg: s.entered(), soundOn: *s.soundOn}
		return s, func() tea.Msg { return saved }
	}

	return s, cmd
}

// entered applies the form text over the configuration the form opened with.
// A box left without digits keeps its previous value.
func (s settingsModel) entered() workout.Config {
	in := workout.InputsFrom(s.base)
	in.Warmup.Input(*s.warmup)
	in.Work.Input(*s.work)
	in.Rest.Input(*s.rest)
	in.Cooldown.Input(*s.cooldown)
	in.Rounds = *s.rounds
	return workout.Recompute(in)
}

func (s settingsModel) view(cfg workout.Config, soundOn, idle bool) string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	sound := "on"
	if !soundOn {
		sound = "off"
	}
	items := []struct{ k, v string }{
		{"Warm up", duration.Format(cfg.Warmup)},
		{"Work", duration.Format(cfg.Work)},
		{"Rest", duration.Format(cfg.Rest)},
		{"Cooldown", duration.Format(cfg.Cooldown)},
		{"Rounds", strconv.Itoa(cfg.Rounds)},
		{"Total work", duration.FormatLong(cfg.TotalWorkTime())},
		{"Session", duration.FormatLong(cfg.TotalSessionTime())},
		{"Sound cues", sound},
	}

	var rows []string
	rows = append(rows, title, "")
	for _, it := range items {
		label := lipgloss.NewStyle().Width(16).Render(it.k)
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(it.v)))
	}
	rows = append(rows, "")

	hint := mutedStyle.Render("Press enter to edit the workout")
	if !idle {
		hint = warningStyle.Render("Reset the session to edit the workout")
	}
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
