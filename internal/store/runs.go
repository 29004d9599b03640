package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/intervals/internal/workout"
)

// ErrRunClosed is returned when finishing a run that already ended.
var ErrRunClosed = errors.New("run already ended")

const runColumns = `id, run_id, warmup, work, rest, cooldown, rounds, rounds_done, work_seconds, status, started_at, ended_at`

// StartRun records a new running session with cfg.
func (s *Store) StartRun(cfg workout.Config) (*Run, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO runs (run_id, warmup, work, rest, cooldown, rounds, status, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), cfg.Warmup, cfg.Work, cfg.Rest, cfg.Cooldown, cfg.Rounds, StatusRunning, now,
	)
	if err != nil {
		return nil, fmt.Errorf("start run: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetRun(id)
}

// FinishRun marks a run completed.
func (s *Store) FinishRun(id int64, roundsDone int, workSeconds int64) (*Run, error) {
	return s.endRun(id, StatusCompleted, roundsDone, workSeconds)
}

// CancelRun marks a run cancelled, keeping the progress made so far.
func (s *Store) CancelRun(id int64, roundsDone int, workSeconds int64) (*Run, error) {
	return s.endRun(id, StatusCancelled, roundsDone, workSeconds)
}

func (s *Store) endRun(id int64, status string, roundsDone int, workSeconds int64) (*Run, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE runs SET status = ?, rounds_done = ?, work_seconds = ?, ended_at = ?
		 WHERE id = ? AND status = ?`,
		status, roundsDone, workSeconds, now, id, StatusRunning,
	)
	if err != nil {
		return nil, fmt.Errorf("end run %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := s.GetRun(id); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("end run %d: %w", id, ErrRunClosed)
	}
	return s.GetRun(id)
}

// CancelStaleRuns closes runs left running by a previous process.
func (s *Store) CancelStaleRuns() (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE runs SET status = ?, ended_at = ? WHERE status = ?`,
		StatusCancelled, now, StatusRunning,
	)
	if err != nil {
		return 0, fmt.Errorf("cancel stale runs: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) GetRun(id int64) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if err != nil {
		return nil, fmt.Errorf("get run %d: %w", id, err)
	}
	return r, nil
}

func (s *Store) ListRuns(f RunFilter) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE 1=1`
	var args []any

	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.From != nil {
		query += ` AND started_at >= ?`
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		query += ` AND started_at < ?`
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}
	query += ` ORDER BY started_at DESC, id DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// GetDailyWork sums work time of ended runs per day in [from, to).
func (s *Store) GetDailyWork(from, to time.Time) ([]DailyWork, error) {
	rows, err := s.db.Query(`
		SELECT date(started_at) AS day,
		       COALESCE(SUM(work_seconds), 0), COUNT(*),
		       SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END)
		FROM runs
		WHERE ended_at IS NOT NULL
		  AND started_at >= ? AND started_at < ?
		GROUP BY day
		ORDER BY day`,
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("daily work: %w", err)
	}
	defer rows.Close()

	var days []DailyWork
	for rows.Next() {
		var d DailyWork
		if err := rows.Scan(&d.Date, &d.WorkSeconds, &d.RunCount, &d.Completed); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

func (s *Store) GetTodayWork() (int64, error) {
	today := time.Now().UTC().Format("2006-01-02")
	var total sql.NullInt64
	err := s.db.QueryRow(`
		SELECT COALESCE(SUM(work_seconds), 0)
		FROM runs
		WHERE date(started_at) = ? AND ended_at IS NOT NULL`, today,
	).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Int64, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	r := &Run{}
	var runID, startedAt string
	var endedAt sql.NullString
	err := row.Scan(&r.ID, &runID, &r.Warmup, &r.Work, &r.Rest, &r.Cooldown, &r.Rounds,
		&r.RoundsDone, &r.WorkSeconds, &r.Status, &startedAt, &endedAt)
	if err != nil {
		return nil, err
	}
	r.RunID, _ = uuid.Parse(runID)
	r.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	if endedAt.Valid {
		t, _ := time.Parse(time.RFC3339, endedAt.String)
		r.EndedAt = &t
	}
	return r, nil
}

// Config returns the workout configuration the run used.
func (r Run) Config() workout.Config {
	return workout.Config{
		Warmup:   r.Warmup,
		Work:     r.Work,
		Rest:     r.Rest,
		Cooldown: r.Cooldown,
		Rounds:   r.Rounds,
	}
}
