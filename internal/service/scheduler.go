package service

import (
	"context"
	"time"

	"github.com/autobitstack/orchestrator-svc/internal/ledger"
	"github.com/autobitstack/orchestrator-svc/internal/queue"
	"gitlab.com/distributed_lab/logan/v3"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

// Scheduler owns the recurrence policy per order and maps it onto the
// durable queue. Schedule identity is derived from the order id (and, for
// DCA, the order's own interval metadata), so duplicate creates and
// cancels of absent schedules are no-ops.
type Scheduler struct {
	log    *logan.Entry
	queue  queue.Scheduler
	ledger ledger.Reader
}

func NewScheduler(log *logan.Entry, q queue.Scheduler, l ledger.Reader) *Scheduler {
	return &Scheduler{
		log:    log.WithField("component", "scheduler"),
		queue:  q,
		ledger: l,
	}
}

// ScheduleDCA creates a bounded recurring schedule for the order: one
// occurrence per interval, first one only after a full interval elapses.
func (s *Scheduler) ScheduleDCA(ctx context.Context, orderID string) (string, error) {
	ord, err := s.ledger.DCAOrderByID(ctx, orderID)
	if err != nil {
		return "", errors.Wrap(err, "failed to get dca order")
	}

	interval, err := frequencyInterval(ord.Frequency)
	if err != nil {
		return "", err
	}

	err = s.queue.ScheduleBounded(QueueDCA, orderID, interval, interval, int64(ord.TotalFrequency))
	if err != nil {
		return "", errors.Wrap(err, "failed to schedule dca occurrences")
	}

	return ProductDCA + "-" + orderID, nil
}

// CancelDCA re-reads the order to recover the exact schedule signature and
// removes it. A failed read or an absent schedule is a no-op: the worker's
// own stale-state check makes any leftover occurrence harmless.
func (s *Scheduler) CancelDCA(ctx context.Context, orderID string) error {
	log := s.log.WithField("order_id", orderID)

	ord, err := s.ledger.DCAOrderByID(ctx, orderID)
	if err != nil {
		log.WithError(err).Warn("failed to read order for cancellation, leaving schedule to starve")
		return nil
	}

	interval, err := frequencyInterval(ord.Frequency)
	if err != nil {
		return err
	}

	occurrences := int64(ord.TotalFrequency)
	err = s.queue.CancelSchedule(QueueDCA, orderID, interval, &occurrences)
	return errors.Wrap(err, "failed to cancel dca schedule")
}

// ScheduleLimit creates the unbounded periodic recheck for a limit order.
func (s *Scheduler) ScheduleLimit(ctx context.Context, orderID string) (string, error) {
	err := s.queue.ScheduleUnbounded(QueueLimit, orderID, limitRecheckInterval)
	if err != nil {
		return "", errors.Wrap(err, "failed to schedule limit recheck")
	}

	return ProductLimit + "-" + orderID, nil
}

func (s *Scheduler) CancelLimit(ctx context.Context, orderID string) error {
	err := s.queue.CancelSchedule(QueueLimit, orderID, limitRecheckInterval, nil)
	return errors.Wrap(err, "failed to cancel limit schedule")
}

func frequencyInterval(class uint8) (time.Duration, error) {
	if int(class) >= len(frequencyIntervals) {
		return 0, errors.From(errors.New("unknown frequency class"), logan.F{"class": class})
	}
	return frequencyIntervals[class], nil
}
