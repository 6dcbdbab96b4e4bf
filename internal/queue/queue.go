// Package queue provides durable keyed repeatable schedules on top of the
// schedules table: the delayed-execution mechanism behind the domain
// scheduler. Schedules are keyed by (queue, key), so creating one that
// already exists is a no-op and cancellation matches an exact signature.
package queue

import (
	"database/sql"
	"time"

	"github.com/autobitstack/orchestrator-svc/internal/data"
	"gitlab.com/distributed_lab/logan/v3"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

// Scheduler is the narrow scheduling surface exposed to domain code.
type Scheduler interface {
	ScheduleBounded(queue, key string, interval, delay time.Duration, occurrences int64) error
	ScheduleUnbounded(queue, key string, interval time.Duration) error
	CancelSchedule(queue, key string, interval time.Duration, occurrences *int64) error
}

type Queue struct {
	log       *logan.Entry
	schedules data.Schedules
	now       func() time.Time
}

func New(log *logan.Entry, schedules data.Schedules) *Queue {
	return &Queue{
		log:       log.WithField("component", "queue"),
		schedules: schedules,
		now:       time.Now,
	}
}

func (q *Queue) ScheduleBounded(queue, key string, interval, delay time.Duration, occurrences int64) error {
	s := data.Schedule{
		Queue:       queue,
		Key:         key,
		IntervalMS:  interval.Milliseconds(),
		Occurrences: sql.NullInt64{Int64: occurrences, Valid: true},
		NextRunAt:   q.now().Add(delay),
	}
	return q.insert(s)
}

func (q *Queue) ScheduleUnbounded(queue, key string, interval time.Duration) error {
	s := data.Schedule{
		Queue:      queue,
		Key:        key,
		IntervalMS: interval.Milliseconds(),
		NextRunAt:  q.now().Add(interval),
	}
	return q.insert(s)
}

func (q *Queue) insert(s data.Schedule) error {
	inserted, err := q.schedules.Insert(s)
	if err != nil {
		return errors.Wrap(err, "failed to insert schedule", logan.F{"queue": s.Queue, "key": s.Key})
	}
	if !inserted {
		q.log.WithFields(logan.F{"queue": s.Queue, "key": s.Key}).
			Debug("schedule already exists, skipping")
	}
	return nil
}

func (q *Queue) CancelSchedule(queue, key string, interval time.Duration, occurrences *int64) error {
	var occ sql.NullInt64
	if occurrences != nil {
		occ = sql.NullInt64{Int64: *occurrences, Valid: true}
	}

	err := q.schedules.Remove(queue, key, interval.Milliseconds(), occ)
	return errors.Wrap(err, "failed to remove schedule", logan.F{"queue": queue, "key": key})
}
