package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/intervals/internal/store"
)

type jsonExport struct {
	ExportedAt string    `json:"exported_at"`
	Count      int       `json:"count"`
	TotalWork  int64     `json:"total_work_seconds"`
	Runs       []jsonRun `json:"runs"`
}

type jsonRun struct {
	ID          int64  `json:"id"`
	RunID       string `json:"run_id"`
	Status      string `json:"status"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time,omitempty"`
	Warmup      int    `json:"warmup_seconds"`
	Work        int    `json:"work_seconds"`
	Rest        int    `json:"rest_seconds"`
	Cooldown    int    `json:"cooldown_seconds"`
	Rounds      int    `json:"rounds"`
	RoundsDone  int    `json:"rounds_done"`
	WorkTimeSec int64  `json:"work_time_seconds"`
	WorkTime    string `json:"work_time"`
}

func ToJSON(runs []store.Run, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(runs),
		Runs:       []jsonRun{},
	}

	for _, r := range runs {
		endStr := ""
		if r.EndedAt != nil {
			endStr = r.EndedAt.Local().Format(time.RFC3339)
		}
		export.TotalWork += r.WorkSeconds

		export.Runs = append(export.Runs, jsonRun{
			ID:          r.ID,
			RunID:       r.RunID.String(),
			Status:      r.Status,
			StartTime:   r.StartedAt.Local().Format(time.RFC3339),
			EndTime:     endStr,
			Warmup:      r.Warmup,
			Work:        r.Work,
			Rest:        r.Rest,
			Cooldown:    r.Cooldown,
			Rounds:      r.Rounds,
			RoundsDone:  r.RoundsDone,
			WorkTimeSec: r.WorkSeconds,
			WorkTime:    formatDuration(r.WorkSeconds),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
