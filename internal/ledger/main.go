// Package ledger defines the orchestrator's view of the on-chain hub
// contract: typed order reads, fulfilment mutations and lifecycle events.
// The EVM-backed implementation lives in ledger/evm.
package ledger

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Hub contract event names, one subscription topic each.
const (
	EventDCAOrderCreated     = "DCAOrderCreated"
	EventDCAOrderCancelled   = "DCAOrderCancelled"
	EventDCAOrderCompleted   = "DCAOrderCompleted"
	EventLimitOrderCreated   = "LimitOrderCreated"
	EventLimitOrderCancelled = "LimitOrderCancelled"
	EventLimitOrderFulfilled = "LimitOrderFulfilled"
)

// DCAOrder is the authoritative on-chain state of a recurring order.
// TotalFrequency is the number of executions left and only ever decreases.
type DCAOrder struct {
	ID             string
	IsActive       bool
	Frequency      uint8
	TotalFrequency uint64
	AmountPerSwap  *big.Int
	BTCAddress     string
	TokenAddress   common.Address
}

// LimitOrder is the authoritative on-chain state of a price-triggered order.
// PriceTarget is fixed-point with 4 decimals.
type LimitOrder struct {
	ID           string
	IsActive     bool
	Amount       *big.Int
	PriceTarget  *big.Int
	BTCAddress   string
	TokenAddress common.Address
}

// OrderEvent is a decoded lifecycle event emitted by the hub contract.
type OrderEvent struct {
	Name    string
	Owner   common.Address
	OrderID string
}

type Reader interface {
	DCAOrderByID(ctx context.Context, id string) (DCAOrder, error)
	LimitOrderByID(ctx context.Context, id string) (LimitOrder, error)
}

type Fulfiller interface {
	// FulfillDCAOccurrence submits updateDCAOrder with the deposit address
	// and waits for the transaction to be mined before returning.
	FulfillDCAOccurrence(ctx context.Context, id, depositAddress string) error
	// FulfillLimitOrder submits fulfillLimitOrder the same way.
	FulfillLimitOrder(ctx context.Context, id, depositAddress string) error
}

type Watcher interface {
	// WatchOrders streams lifecycle events into sink until ctx is cancelled
	// or the subscription fails. Events of one type arrive in emission order.
	WatchOrders(ctx context.Context, sink chan<- OrderEvent) error
}
