package service

import (
	"context"

	"github.com/autobitstack/orchestrator-svc/internal/ledger"
	"gitlab.com/distributed_lab/logan/v3"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

// DCAWorker handles due occurrences of recurring orders. Cancellation is
// only advisory on the queue side, so the worker re-reads the order from
// the ledger right before acting.
type DCAWorker struct {
	log     *logan.Entry
	ledger  ledger.Reader
	trigger *Trigger
}

func NewDCAWorker(log *logan.Entry, l ledger.Reader, t *Trigger) *DCAWorker {
	return &DCAWorker{
		log:     log.WithField("worker", ProductDCA),
		ledger:  l,
		trigger: t,
	}
}

func (w *DCAWorker) Handle(ctx context.Context, orderID string) error {
	ord, err := w.ledger.DCAOrderByID(ctx, orderID)
	if err != nil {
		return errors.Wrap(err, "failed to read dca order")
	}

	if !ord.IsActive || ord.TotalFrequency == 0 {
		// expected as the order winds down, not an error
		w.log.WithField("order_id", orderID).Debug("order inactive or exhausted, skipping occurrence")
		return nil
	}

	err = w.trigger.ExecuteSwap(ctx, orderID, ord.AmountPerSwap, ord.BTCAddress, ord.TokenAddress, ProductDCA)
	return errors.Wrap(err, "failed to execute dca swap")
}
