package tui

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/intervals/internal/cue"
	"github.com/sadopc/intervals/internal/export"
	"github.com/sadopc/intervals/internal/store"
	"github.com/sadopc/intervals/internal/timer"
	"github.com/sadopc/intervals/internal/workout"
)

// Options wires the app to its collaborators. Only Workout is required.
type Options struct {
	Workout  workout.Config
	Store    *store.Store // nil turns history off
	Cues     *cue.Player
	Presence timer.Presence
	Log      *slog.Logger
}

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	cues   *cue.Player
	log    *slog.Logger
	width  int
	height int

	timer    *timer.Timer
	ticks    *teaTicker
	recorder *recorder
	pending  *workout.Config // reloaded config waiting for the session to end

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	workout  workoutModel
	history  historyModel
	settings settingsModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(opts Options) App {
	h := help.New()
	h.ShowAll = false

	log := opts.Log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	a := App{
		store:      opts.Store,
		cues:       opts.Cues,
		log:        log,
		ticks:      &teaTicker{},
		activeView: viewWorkout,
		workout:    newWorkoutModel(),
		history:    newHistoryModel(opts.Store),
		settings:   newSettingsModel(),
		help:       h,
	}

	var t *timer.Timer
	a.recorder = newRecorder(opts.Store, log, func() workout.Config { return t.Config() })

	timerOpts := []timer.Option{
		timer.WithObserver(a.recorder.observe),
		timer.WithLogger(log),
	}
	if opts.Cues != nil {
		timerOpts = append(timerOpts, timer.WithNotifier(opts.Cues))
	}
	if opts.Presence != nil {
		timerOpts = append(timerOpts, timer.WithPresence(opts.Presence))
	}
	t = timer.New(opts.Workout, a.ticks, timerOpts...)
	a.timer = t
	return a
}

func (a App) Init() tea.Cmd {
	return a.history.refresh()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.workout.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		a.history.buildChart()
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// The settings form captures all keys while open.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			// Closes the history row of an unfinished session.
			a.timer.Reset()
			a.ticks.drain()
			return a, tea.Quit
		case key.Matches(msg, keys.Toggle):
			a.timer.Toggle()
			return a, a.afterTimer()
		case key.Matches(msg, keys.Reset):
			a.timer.Reset()
			a.setStatus("Session reset", false)
			return a, a.afterTimer()
		case key.Matches(msg, keys.Mute):
			return a, a.toggleMute()
		case key.Matches(msg, keys.Edit):
			return a.openSettings()
		case key.Matches(msg, keys.Export):
			if a.store == nil {
				a.setStatus("History is turned off", true)
				return a, nil
			}
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewWorkout
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewHistory
			return a, a.history.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewSettings
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		a.ticks.handle(msg)
		return a, a.afterTimer()

	case tea.FocusMsg:
		a.timer.Visible()
		return a, nil

	case tea.BlurMsg:
		a.log.Debug("terminal lost focus")
		return a, nil

	case settingsSavedMsg:
		return a, a.applySettings(msg)

	case ConfigReloadedMsg:
		cfg := msg.Config.Session()
		a.pending = &cfg
		if a.cues != nil {
			a.cues.SetEnabled(msg.Config.Sounds.Enabled)
		}
		if a.applyPending() {
			a.setStatus("Config reloaded", false)
		} else {
			a.setStatus("Config reloaded, applies after this session", false)
		}
		return a, nil

	case statusMsg:
		a.setStatus(msg.text, msg.isError)
		return a, nil

	case exportDoneMsg:
		a.setStatus(fmt.Sprintf("Exported %s to %s", msg.format, msg.path), false)
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

// afterTimer collects what a timer call left behind: queued tick commands,
// history write errors and a history refresh when a run was closed.
func (a *App) afterTimer() tea.Cmd {
	cmds := []tea.Cmd{a.ticks.drain()}
	if err := a.recorder.takeErr(); err != nil {
		cmds = append(cmds, statusCmd(fmt.Sprintf("History error: %v", err), true))
	}
	if a.recorder.takeChanged() {
		cmds = append(cmds, a.history.reload())
	}
	a.applyPending()
	return tea.Batch(cmds...)
}

// applyPending installs a reloaded config once the timer is idle.
func (a *App) applyPending() bool {
	if a.pending == nil {
		return false
	}
	if err := a.timer.SetConfig(*a.pending); err != nil {
		return false
	}
	a.pending = nil
	return true
}

func (a *App) toggleMute() tea.Cmd {
	if a.cues == nil {
		return nil
	}
	on := !a.cues.Enabled()
	a.cues.SetEnabled(on)
	if on {
		a.setStatus("Sound on", false)
	} else {
		a.setStatus("Muted", false)
	}
	return nil
}

func (a App) soundOn() bool {
	return a.cues != nil && a.cues.Enabled()
}

func (a App) idle() bool {
	return a.timer.State().Finished
}

func (a App) openSettings() (tea.Model, tea.Cmd) {
	a.activeView = viewSettings
	if !a.idle() {
		a.setStatus("Reset the session to edit the workout", true)
		return a, nil
	}
	var cmd tea.Cmd
	a.settings, cmd = a.settings.showForm(a.timer.Config(), a.soundOn())
	return a, cmd
}

func (a *App) applySettings(msg settingsSavedMsg) tea.Cmd {
	if err := a.timer.SetConfig(msg.cfg); err != nil {
		if errors.Is(err, timer.ErrSessionActive) {
			return statusCmd("Reset the session to edit the workout", true)
		}
		return statusCmd(fmt.Sprintf("Settings error: %v", err), true)
	}
	a.pending = nil
	if a.cues != nil {
		a.cues.SetEnabled(msg.soundOn)
	}
	a.log.Info("workout configured", "warmup", msg.cfg.Warmup, "work", msg.cfg.Work,
		"rest", msg.cfg.Rest, "cooldown", msg.cfg.Cooldown, "rounds", msg.cfg.Rounds)
	a.setStatus("Workout updated", false)
	return nil
}

func (a *App) setStatus(text string, isError bool) {
	a.status = text
	a.statusErr = isError
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	return a.activeView == viewSettings && a.settings.formActive
}

func (a App) refreshCurrentView() tea.Cmd {
	if a.activeView == viewHistory {
		return a.history.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewWorkout:
		content = a.workout.view(a.timer.State(), a.timer.Config(), a.soundOn())
	case viewHistory:
		content = a.history.view()
	case viewSettings:
		content = a.settings.view(a.timer.Config(), a.soundOn(), a.idle())
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("intervals")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Countdown indicator while another view is open
	timerInfo := ""
	if s := a.timer.State(); !s.Finished && a.activeView != viewWorkout {
		color := lipgloss.NewStyle().Foreground(phaseColor(s.Phase))
		if s.Running {
			timerInfo = color.Render(" ● " + phaseLabel(s))
		} else {
			timerInfo = warningStyle.Render(" ⏸ " + phaseLabel(s))
		}
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []export.Format{export.CSV, export.JSON}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f.String()))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(exportFormats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format export.Format) tea.Cmd {
	s := a.store
	return func() tea.Msg {
		runs, err := s.ListRuns(store.RunFilter{})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		path, err := export.DefaultPath(format, time.Now())
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		if err := export.Write(format, runs, path); err != nil {
			return statusMsg{text: fmt.Sprintf("%s error: %v", format, err), isError: true}
		}
		return exportDoneMsg{path: path, format: format}
	}
}
