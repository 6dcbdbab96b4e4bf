package queue

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/autobitstack/orchestrator-svc/internal/data"
	"gitlab.com/distributed_lab/logan/v3"
	"gitlab.com/distributed_lab/logan/v3/errors"
	"gitlab.com/distributed_lab/running"
)

// HandlerFunc processes one due occurrence of the schedule identified by key.
// A returned error marks the occurrence failed; the dispatcher retries the
// same occurrence with exponential backoff and never skips to the next one.
type HandlerFunc func(ctx context.Context, key string) error

const (
	backoffBase = time.Second
	backoffCap  = 5 * time.Minute
)

type Dispatcher struct {
	log        *logan.Entry
	schedules  data.Schedules
	pollPeriod time.Duration
	handlers   map[string]HandlerFunc
	now        func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}
	wg       sync.WaitGroup
}

func NewDispatcher(log *logan.Entry, schedules data.Schedules, pollPeriod time.Duration) *Dispatcher {
	return &Dispatcher{
		log:        log.WithField("component", "queue-dispatcher"),
		schedules:  schedules,
		pollPeriod: pollPeriod,
		handlers:   make(map[string]HandlerFunc),
		now:        time.Now,
		inFlight:   make(map[string]struct{}),
	}
}

func (d *Dispatcher) Register(queue string, h HandlerFunc) {
	d.handlers[queue] = h
}

func (d *Dispatcher) Run(ctx context.Context) {
	running.WithBackOff(ctx, d.log, "queue-dispatcher", d.tick,
		d.pollPeriod, d.pollPeriod, time.Minute)
	d.wg.Wait()
}

// tick launches every due occurrence that is not already in flight.
// Occurrences for different keys run concurrently; the in-flight set keeps
// any single (queue, key) from being dispatched twice at once.
func (d *Dispatcher) tick(ctx context.Context) error {
	for queue, handler := range d.handlers {
		due, err := d.schedules.Due(queue, d.now())
		if err != nil {
			return errors.Wrap(err, "failed to select due schedules", logan.F{"queue": queue})
		}

		for _, s := range due {
			if !d.claim(s.Queue, s.Key) {
				continue
			}

			d.wg.Add(1)
			go func(s data.Schedule, handler HandlerFunc) {
				defer d.wg.Done()
				defer d.release(s.Queue, s.Key)

				if err := d.dispatch(ctx, s, handler); err != nil {
					d.log.WithError(err).WithFields(logan.F{"queue": s.Queue, "key": s.Key}).
						Error("failed to record occurrence outcome")
				}
			}(s, handler)
		}
	}

	return nil
}

func (d *Dispatcher) claim(queue, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	k := queue + "/" + key
	if _, busy := d.inFlight[k]; busy {
		return false
	}
	d.inFlight[k] = struct{}{}
	return true
}

func (d *Dispatcher) release(queue, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.inFlight, queue+"/"+key)
}

// dispatch runs the handler and records the outcome; only store errors are
// returned, handler failures are absorbed into the schedule's retry state.
func (d *Dispatcher) dispatch(ctx context.Context, s data.Schedule, handler HandlerFunc) error {
	log := d.log.WithFields(logan.F{"queue": s.Queue, "key": s.Key})
	interval := time.Duration(s.IntervalMS) * time.Millisecond

	if err := handler(ctx, s.Key); err != nil {
		attempts := s.Attempts + 1
		next := d.now().Add(backoffDelay(attempts, interval))
		log.WithError(err).WithField("attempts", attempts).Warn("occurrence failed, will retry")
		return d.schedules.Failed(s.ID, next, attempts, err.Error())
	}

	if s.Occurrences.Valid {
		left := s.Occurrences.Int64 - 1
		if left <= 0 {
			log.Info("bounded schedule exhausted, removing")
			return d.schedules.DeleteByID(s.ID)
		}
		s.Occurrences = sql.NullInt64{Int64: left, Valid: true}
	}

	return d.schedules.Fired(s.ID, d.now().Add(interval), s.Occurrences)
}

// backoffDelay grows the retry delay exponentially, never past the schedule's
// own interval or the global cap, whichever is smaller.
func backoffDelay(attempts int32, interval time.Duration) time.Duration {
	ceiling := backoffCap
	if interval > 0 && interval < ceiling {
		ceiling = interval
	}
	if attempts > 30 {
		return ceiling
	}
	delay := backoffBase << uint(attempts-1)
	if delay > ceiling {
		return ceiling
	}
	return delay
}
