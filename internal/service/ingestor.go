package service

import (
	"context"

	"github.com/autobitstack/orchestrator-svc/internal/data"
	"github.com/autobitstack/orchestrator-svc/internal/ledger"
	"gitlab.com/distributed_lab/logan/v3"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

type eventHandler func(ctx context.Context, evt ledger.OrderEvent) error

// ingestor turns hub-contract lifecycle events into scheduling decisions.
// One failing event is logged and skipped; it never takes the stream down.
type ingestor struct {
	log       *logan.Entry
	watcher   ledger.Watcher
	scheduler *Scheduler
	hub       data.HubEntries

	handlers map[string]eventHandler
}

func newIngestor(log *logan.Entry, w ledger.Watcher, s *Scheduler, hub data.HubEntries) *ingestor {
	i := &ingestor{
		log:       log.WithField("component", "ingestor"),
		watcher:   w,
		scheduler: s,
		hub:       hub,
	}

	i.handlers = map[string]eventHandler{
		ledger.EventDCAOrderCreated:     i.handleDCACreated,
		ledger.EventDCAOrderCancelled:   i.handleDCARemoved,
		ledger.EventDCAOrderCompleted:   i.handleDCARemoved,
		ledger.EventLimitOrderCreated:   i.handleLimitCreated,
		ledger.EventLimitOrderCancelled: i.handleLimitRemoved,
		ledger.EventLimitOrderFulfilled: i.handleLimitRemoved,
	}

	return i
}

func (i *ingestor) run(ctx context.Context) error {
	events := make(chan ledger.OrderEvent, 256)

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- i.watcher.WatchOrders(ctx, events)
	}()

	i.log.Info("start listening hub order events")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-watchErr:
			return errors.Wrap(err, "order watcher stopped")
		case evt := <-events:
			if err := i.handle(ctx, evt); err != nil {
				i.log.WithError(err).WithFields(logan.F{
					"event":    evt.Name,
					"order_id": evt.OrderID,
				}).Error("failed to process order event")
			}
		}
	}
}

func (i *ingestor) handle(ctx context.Context, evt ledger.OrderEvent) error {
	handler, ok := i.handlers[evt.Name]
	if !ok {
		return errors.From(errors.New("no handler for such event name"), logan.F{"event": evt.Name})
	}

	i.log.WithFields(logan.F{"event": evt.Name, "order_id": evt.OrderID, "owner": evt.Owner.Hex()}).
		Info("processing order event")

	return handler(ctx, evt)
}

func (i *ingestor) handleDCACreated(ctx context.Context, evt ledger.OrderEvent) error {
	jobID, err := i.scheduler.ScheduleDCA(ctx, evt.OrderID)
	if err != nil {
		return errors.Wrap(err, "failed to schedule dca order")
	}

	err = i.hub.Insert(data.HubEntry{
		OrderID: evt.OrderID,
		JobID:   jobID,
		Owner:   evt.Owner.Hex(),
		Product: ProductDCA,
	})
	return errors.Wrap(err, "failed to insert hub entry")
}

func (i *ingestor) handleDCARemoved(ctx context.Context, evt ledger.OrderEvent) error {
	err := i.scheduler.CancelDCA(ctx, evt.OrderID)
	return errors.Wrap(err, "failed to cancel dca schedule")
}

func (i *ingestor) handleLimitCreated(ctx context.Context, evt ledger.OrderEvent) error {
	jobID, err := i.scheduler.ScheduleLimit(ctx, evt.OrderID)
	if err != nil {
		return errors.Wrap(err, "failed to schedule limit order")
	}

	err = i.hub.Insert(data.HubEntry{
		OrderID: evt.OrderID,
		JobID:   jobID,
		Owner:   evt.Owner.Hex(),
		Product: ProductLimit,
	})
	return errors.Wrap(err, "failed to insert hub entry")
}

func (i *ingestor) handleLimitRemoved(ctx context.Context, evt ledger.OrderEvent) error {
	err := i.scheduler.CancelLimit(ctx, evt.OrderID)
	return errors.Wrap(err, "failed to cancel limit schedule")
}
