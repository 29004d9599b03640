package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/intervals/internal/config"
	"github.com/sadopc/intervals/internal/export"
)

// viewState represents the currently active view.
type viewState int

const (
	viewWorkout viewState = iota
	viewHistory
	viewSettings
)

var viewNames = []string{"Workout", "History", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path   string
	format export.Format
}

// ConfigReloadedMsg hands a reloaded config file to the app. It is applied
// right away when no session is in progress, otherwise when the session ends.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// --- Helpers ---

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isError: isError} }
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatSeconds(secs int64) string {
	return formatDuration(time.Duration(secs) * time.Second)
}

func formatMinutes(secs int64) string {
	return fmt.Sprintf("%.1fm", float64(secs)/60)
}
