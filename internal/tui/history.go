package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/intervals/internal/duration"
	"github.com/sadopc/intervals/internal/store"
	"github.com/sadopc/intervals/internal/timer"
	"golang.org/x/sync/singleflight"
)

type historyMode int

const (
	historyDaily historyMode = iota
	historyWeekly
)

const recentRuns = 8

type historyModel struct {
	store  *store.Store
	width  int
	height int

	mode   historyMode
	days   []store.DailyWork
	runs   []store.Run
	today  int64
	offset int // 7-day blocks back from today (0 = current)

	chart  barchart.Model
	flight *singleflight.Group
}

func newHistoryModel(s *store.Store) historyModel {
	return historyModel{
		store:  s,
		chart:  barchart.New(60, 12),
		flight: &singleflight.Group{},
	}
}

func (h *historyModel) setSize(w, ht int) {
	h.width = w
	h.height = ht
}

type historyDataMsg struct {
	days  []store.DailyWork
	runs  []store.Run
	today int64
	err   error
}

// refresh loads the current range. Loads for the same range that overlap,
// such as two tab switches, share one query.
func (h historyModel) refresh() tea.Cmd {
	return h.fetch(false)
}

// reload is refresh after a write. A load already in flight may have read
// the table before the write, so it is not joined.
func (h historyModel) reload() tea.Cmd {
	return h.fetch(true)
}

func (h historyModel) fetch(fresh bool) tea.Cmd {
	if h.store == nil {
		return nil
	}
	from, to := h.dateRange()
	key := rangeKey(from, to)
	return func() tea.Msg {
		if fresh {
			h.flight.Forget(key)
		}
		v, err, _ := h.flight.Do(key, func() (any, error) {
			return h.load(from, to)
		})
		if err != nil {
			return historyDataMsg{err: err}
		}
		return v.(historyDataMsg)
	}
}

func rangeKey(from, to time.Time) string {
	return from.Format(time.DateOnly) + "/" + to.Format(time.DateOnly)
}

func (h historyModel) load(from, to time.Time) (historyDataMsg, error) {
	days, err := h.store.GetDailyWork(from, to)
	if err != nil {
		return historyDataMsg{}, err
	}
	runs, err := h.store.ListRuns(store.RunFilter{Limit: recentRuns})
	if err != nil {
		return historyDataMsg{}, err
	}
	today, err := h.store.GetTodayWork()
	if err != nil {
		return historyDataMsg{}, err
	}
	return historyDataMsg{days: days, runs: runs, today: today}, nil
}

func (h historyModel) dateRange() (time.Time, time.Time) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch h.mode {
	case historyWeekly:
		// Start of current week (Monday)
		weekday := today.Weekday()
		if weekday == time.Sunday {
			weekday = 7
		}
		startOfWeek := today.AddDate(0, 0, -int(weekday-time.Monday))
		startOfWeek = startOfWeek.AddDate(0, 0, -7*h.offset)
		return startOfWeek, startOfWeek.AddDate(0, 0, 7)
	default:
		// Daily: last 7 days
		end := today.AddDate(0, 0, 1-7*h.offset)
		start := end.AddDate(0, 0, -7)
		return start, end
	}
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		if msg.err != nil {
			return h, statusCmd(fmt.Sprintf("History error: %v", msg.err), true)
		}
		h.days = msg.days
		h.runs = msg.runs
		h.today = msg.today
		h.buildChart()
		return h, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			h.offset++
			return h, h.refresh()
		case key.Matches(msg, keys.Right):
			if h.offset > 0 {
				h.offset--
			}
			return h, h.refresh()
		case key.Matches(msg, keys.Mode):
			if h.mode == historyDaily {
				h.mode = historyWeekly
			} else {
				h.mode = historyDaily
			}
			h.offset = 0
			return h, h.refresh()
		}
	}
	return h, nil
}

func (h *historyModel) buildChart() {
	chartWidth := h.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if h.height > 30 {
		chartHeight = 14
	}

	h.chart = barchart.New(chartWidth, chartHeight)

	from, to := h.dateRange()
	workStyle := lipgloss.NewStyle().Foreground(phaseColor(timer.Work))
	emptyStyle := lipgloss.NewStyle().Foreground(colorSubtle)

	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")

		value := barchart.BarValue{Name: "", Value: 0, Style: emptyStyle}
		for _, day := range h.days {
			if day.Date == dateStr {
				value = barchart.BarValue{
					Name:  "work",
					Value: float64(day.WorkSeconds) / 60,
					Style: workStyle,
				}
			}
		}

		bars = append(bars, barchart.BarData{
			Label:  d.Format("Mon 02"),
			Values: []barchart.BarValue{value},
		})
	}

	h.chart.PushAll(bars)
	h.chart.Draw()
}

func (h historyModel) view() string {
	w := h.width - 4
	title := titleStyle.Render("History")

	if h.store == nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("History is turned off (history: false in config.yaml)"),
		))
	}

	dailyTab := inactiveTabStyle.Render("Daily")
	weeklyTab := inactiveTabStyle.Render("Weekly")
	if h.mode == historyDaily {
		dailyTab = activeTabStyle.Render("Daily")
	} else {
		weeklyTab = activeTabStyle.Render("Weekly")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, dailyTab, weeklyTab)

	from, to := h.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s to %s", from.Format("Jan 02"), to.Add(-24*time.Hour).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		title, "  ", modeTabs, "  ", dateLabel,
	)

	today := highlightStyle.Render("Today: " + duration.FormatLong(int(h.today)) + " of work")
	summary := mutedStyle.Render("  " + h.periodSummary())

	nav := mutedStyle.Render("  ←/→: navigate  w: switch mode  e: export")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", h.chart.View(), summary, "", today, "", h.renderRunsTable(w), "", nav,
		),
	)
}

func (h historyModel) periodSummary() string {
	var work int64
	var runs, completed int
	for _, d := range h.days {
		work += d.WorkSeconds
		runs += d.RunCount
		completed += d.Completed
	}
	return fmt.Sprintf("%s of work in %d runs, %d completed (minutes per day)", formatMinutes(work), runs, completed)
}

func (h historyModel) renderRunsTable(w int) string {
	if len(h.runs) == 0 {
		return mutedStyle.Render("  No workouts yet")
	}

	var rows []string
	headerRow := mutedStyle.Render(fmt.Sprintf("  %-17s %-10s %-22s %8s %10s", "Started", "Status", "Workout", "Rounds", "Work"))
	rows = append(rows, headerRow)
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 71))))

	for _, r := range h.runs {
		status := r.Status
		switch r.Status {
		case store.StatusCompleted:
			status = successStyle.Render(fmt.Sprintf("%-10s", r.Status))
		case store.StatusCancelled:
			status = warningStyle.Render(fmt.Sprintf("%-10s", r.Status))
		default:
			status = fmt.Sprintf("%-10s", r.Status)
		}
		plan := fmt.Sprintf("%dx %s/%s", r.Rounds, duration.Format(r.Work), duration.Format(r.Rest))
		rows = append(rows, fmt.Sprintf("  %-17s %s %-22s %8s %10s",
			r.StartedAt.Local().Format("Jan 02 15:04"),
			status,
			plan,
			fmt.Sprintf("%d/%d", r.RoundsDone, r.Rounds),
			formatSeconds(r.WorkSeconds),
		))
	}

	return strings.Join(rows, "\n")
}
