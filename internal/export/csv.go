package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/intervals/internal/duration"
	"github.com/sadopc/intervals/internal/store"
)

var csvHeader = []string{
	"ID", "Run ID", "Status", "Start", "End",
	"Warm Up", "Work", "Rest", "Cooldown", "Rounds", "Rounds Done",
	"Work Time (s)", "Work Time",
}

func ToCSV(runs []store.Run, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range runs {
		endStr := ""
		if r.EndedAt != nil {
			endStr = r.EndedAt.Local().Format(time.RFC3339)
		}

		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.RunID.String(),
			r.Status,
			r.StartedAt.Local().Format(time.RFC3339),
			endStr,
			duration.Format(r.Warmup),
			duration.Format(r.Work),
			duration.Format(r.Rest),
			duration.Format(r.Cooldown),
			strconv.Itoa(r.Rounds),
			strconv.Itoa(r.RoundsDone),
			strconv.FormatInt(r.WorkSeconds, 10),
			formatDuration(r.WorkSeconds),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
