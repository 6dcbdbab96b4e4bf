package service

import (
	"context"
	"math/big"

	"github.com/autobitstack/orchestrator-svc/internal/broker"
	"github.com/autobitstack/orchestrator-svc/internal/ledger"
	"gitlab.com/distributed_lab/logan/v3"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

// tolerancePct is the half-width of the trigger band in percent.
// Per-order tolerance is a planned contract change; until the order struct
// carries it, every limit order uses this constant.
const tolerancePct = 1

// on-chain price targets carry 4 decimals, provider quotes carry 6
var targetScaleUp = big.NewInt(100)

// LimitWorker re-evaluates an open limit order on every recheck tick and
// triggers the swap once the market quote enters the tolerance band.
type LimitWorker struct {
	log     *logan.Entry
	ledger  ledger.Reader
	broker  broker.Client
	trigger *Trigger
}

func NewLimitWorker(log *logan.Entry, l ledger.Reader, b broker.Client, t *Trigger) *LimitWorker {
	return &LimitWorker{
		log:     log.WithField("worker", ProductLimit),
		ledger:  l,
		broker:  b,
		trigger: t,
	}
}

func (w *LimitWorker) Handle(ctx context.Context, orderID string) error {
	ord, err := w.ledger.LimitOrderByID(ctx, orderID)
	if err != nil {
		return errors.Wrap(err, "failed to read limit order")
	}

	if !ord.IsActive || ord.Amount.Sign() == 0 {
		w.log.WithField("order_id", orderID).Debug("order inactive or empty, skipping recheck")
		return nil
	}

	price, err := w.broker.BitcoinPrice(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get market quote")
	}

	target := new(big.Int).Mul(ord.PriceTarget, targetScaleUp)
	if !withinTolerance(target, price) {
		w.log.WithFields(logan.F{
			"order_id": orderID,
			"target":   target.String(),
			"quote":    price.String(),
		}).Debug("quote outside tolerance band, waiting for the next tick")
		return nil
	}

	err = w.trigger.ExecuteSwap(ctx, orderID, ord.Amount, ord.BTCAddress, ord.TokenAddress, ProductLimit)
	return errors.Wrap(err, "failed to execute limit swap")
}

// withinTolerance reports whether quote lies in
// [target*(100-tolerancePct)/100, target*(100+tolerancePct)/100],
// computed in integers so the band edges are exact.
func withinTolerance(target, quote *big.Int) bool {
	lower := new(big.Int).Mul(target, big.NewInt(100-tolerancePct))
	upper := new(big.Int).Mul(target, big.NewInt(100+tolerancePct))
	scaled := new(big.Int).Mul(quote, big.NewInt(100))

	return scaled.Cmp(lower) >= 0 && scaled.Cmp(upper) <= 0
}
