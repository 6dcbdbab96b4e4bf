package evm

import (
	"context"
	"math/big"

	"github.com/autobitstack/orchestrator-svc/internal/ledger"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"gitlab.com/distributed_lab/logan/v3"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

var watchedEvents = []string{
	ledger.EventDCAOrderCreated,
	ledger.EventDCAOrderCancelled,
	ledger.EventDCAOrderCompleted,
	ledger.EventLimitOrderCreated,
	ledger.EventLimitOrderCancelled,
	ledger.EventLimitOrderFulfilled,
}

func (h *Hub) WatchOrders(ctx context.Context, sink chan<- ledger.OrderEvent) error {
	logs := make(chan types.Log, 1024)
	sub, err := h.eth.SubscribeFilterLogs(ctx, h.filters(), logs)
	if err != nil {
		return errors.Wrap(err, "failed to subscribe to hub logs")
	}
	defer sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err = <-sub.Err():
			return errors.Wrap(err, "log subscription failed")
		case lg := <-logs:
			evt, err := h.decodeEvent(lg)
			if err != nil {
				// a single undecodable log must not take the subscription down
				h.log.WithError(err).WithField("tx", lg.TxHash.Hex()).
					Error("skipping undecodable log")
				continue
			}

			select {
			case sink <- evt:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (h *Hub) filters() ethereum.FilterQuery {
	topics := make([]common.Hash, 0, len(watchedEvents))
	for _, eventName := range watchedEvents {
		topics = append(topics, h.hubAbi.Events[eventName].ID)
	}

	return ethereum.FilterQuery{
		Addresses: []common.Address{h.address},
		Topics:    [][]common.Hash{topics},
	}
}

func (h *Hub) decodeEvent(lg types.Log) (ledger.OrderEvent, error) {
	if len(lg.Topics) == 0 {
		return ledger.OrderEvent{}, errors.New("log carries no topics")
	}

	event, err := h.hubAbi.EventByID(lg.Topics[0])
	if err != nil {
		return ledger.OrderEvent{}, errors.Wrap(err, "failed to get event by topic", logan.F{
			"topic": lg.Topics[0].Hex(),
		})
	}

	var raw struct {
		Owner   common.Address
		OrderId *big.Int
	}
	if err = h.hubAbi.UnpackIntoInterface(&raw, event.Name, lg.Data); err != nil {
		return ledger.OrderEvent{}, errors.Wrap(err, "failed to unpack event", logan.F{
			"event": event.Name,
		})
	}

	return ledger.OrderEvent{
		Name:    event.Name,
		Owner:   raw.Owner,
		OrderID: raw.OrderId.String(),
	}, nil
}
