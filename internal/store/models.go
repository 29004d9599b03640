package store

import (
	"time"

	"github.com/google/uuid"
)

// Run statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Run is one workout session as it was configured and how far it got.
type Run struct {
	ID          int64
	RunID       uuid.UUID
	Warmup      int // seconds
	Work        int
	Rest        int
	Cooldown    int
	Rounds      int
	RoundsDone  int
	WorkSeconds int64
	Status      string // running, completed, cancelled
	StartedAt   time.Time
	EndedAt     *time.Time
}

// RunFilter is used to filter runs in queries.
type RunFilter struct {
	Status string
	From   *time.Time
	To     *time.Time
	Limit  int
}

// DailyWork is time spent in work intervals per day.
type DailyWork struct {
	Date        string
	WorkSeconds int64
	RunCount    int
	Completed   int
}
