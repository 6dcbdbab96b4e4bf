package data

import (
	"database/sql"
	"time"
)

type Schedules interface {
	// Insert adds a schedule unless one already exists for (queue, key);
	// it reports whether the row was actually inserted.
	Insert(Schedule) (bool, error)
	// Remove deletes the schedule matching the full signature. Deleting a
	// non-existent schedule is not an error.
	Remove(queue, key string, intervalMS int64, occurrences sql.NullInt64) error
	Due(queue string, now time.Time) ([]Schedule, error)
	DeleteByID(id int64) error
	// Fired records a successful occurrence: attempts and last_error reset,
	// occurrences replaced, next firing moved to next.
	Fired(id int64, next time.Time, occurrences sql.NullInt64) error
	// Failed records a failed occurrence; the row stays visible with its
	// last error for operator inspection.
	Failed(id int64, next time.Time, attempts int32, lastError string) error
}

// Schedule is one durable repeatable job keyed by (Queue, Key).
// Occurrences is NULL for unbounded periodic schedules.
type Schedule struct {
	ID          int64          `structs:"-" db:"id"`
	Queue       string         `structs:"queue" db:"queue"`
	Key         string         `structs:"key" db:"key"`
	IntervalMS  int64          `structs:"interval_ms" db:"interval_ms"`
	Occurrences sql.NullInt64  `structs:"occurrences,omitnested" db:"occurrences"`
	Attempts    int32          `structs:"attempts" db:"attempts"`
	NextRunAt   time.Time      `structs:"next_run_at,omitnested" db:"next_run_at"`
	LastError   sql.NullString `structs:"-" db:"last_error"`
	CreatedAt   time.Time      `structs:"-" db:"created_at"`
}
