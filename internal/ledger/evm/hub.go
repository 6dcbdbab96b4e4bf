// Package evm implements the ledger interfaces against the hub contract
// through a raw bound contract, so no generated bindings are needed.
package evm

import (
	"context"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/autobitstack/orchestrator-svc/internal/config"
	"github.com/autobitstack/orchestrator-svc/internal/ledger"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"gitlab.com/distributed_lab/logan/v3"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

type Hub struct {
	log      *logan.Entry
	eth      *ethclient.Client
	contract *bind.BoundContract
	hubAbi   abi.ABI
	address  common.Address
	signer   *bind.TransactOpts
	timeout  time.Duration

	// serializes transactions so the transactor never races its own nonce
	txMu sync.Mutex
}

func NewHub(n config.Network, log *logan.Entry) *Hub {
	hubAbi, err := abi.JSON(strings.NewReader(HubABI))
	if err != nil {
		panic(errors.Wrap(err, "failed to parse hub ABI"))
	}

	return &Hub{
		log:      log.WithField("component", "hub"),
		eth:      n.Client,
		contract: bind.NewBoundContract(n.ContractAddress, hubAbi, n.Client, n.Client, n.Client),
		hubAbi:   hubAbi,
		address:  n.ContractAddress,
		signer:   n.Signer,
		timeout:  n.RequestTimeout,
	}
}

func (h *Hub) DCAOrderByID(ctx context.Context, id string) (ledger.DCAOrder, error) {
	bigID, err := parseOrderID(id)
	if err != nil {
		return ledger.DCAOrder{}, err
	}

	child, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	var out []interface{}
	err = h.contract.Call(&bind.CallOpts{Context: child}, &out, "dcaOrders", bigID)
	if err != nil {
		return ledger.DCAOrder{}, errors.Wrap(err, "failed to get dca order from contract", logan.F{"order_id": id})
	}

	return ledger.DCAOrder{
		ID:             id,
		IsActive:       *abi.ConvertType(out[0], new(bool)).(*bool),
		Frequency:      *abi.ConvertType(out[1], new(uint8)).(*uint8),
		TotalFrequency: (*abi.ConvertType(out[2], new(*big.Int)).(**big.Int)).Uint64(),
		AmountPerSwap:  *abi.ConvertType(out[3], new(*big.Int)).(**big.Int),
		BTCAddress:     *abi.ConvertType(out[4], new(string)).(*string),
		TokenAddress:   *abi.ConvertType(out[5], new(common.Address)).(*common.Address),
	}, nil
}

func (h *Hub) LimitOrderByID(ctx context.Context, id string) (ledger.LimitOrder, error) {
	bigID, err := parseOrderID(id)
	if err != nil {
		return ledger.LimitOrder{}, err
	}

	child, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	var out []interface{}
	err = h.contract.Call(&bind.CallOpts{Context: child}, &out, "limitOrders", bigID)
	if err != nil {
		return ledger.LimitOrder{}, errors.Wrap(err, "failed to get limit order from contract", logan.F{"order_id": id})
	}

	return ledger.LimitOrder{
		ID:           id,
		IsActive:     *abi.ConvertType(out[0], new(bool)).(*bool),
		Amount:       *abi.ConvertType(out[1], new(*big.Int)).(**big.Int),
		PriceTarget:  *abi.ConvertType(out[2], new(*big.Int)).(**big.Int),
		BTCAddress:   *abi.ConvertType(out[3], new(string)).(*string),
		TokenAddress: *abi.ConvertType(out[4], new(common.Address)).(*common.Address),
	}, nil
}

func (h *Hub) FulfillDCAOccurrence(ctx context.Context, id, depositAddress string) error {
	return h.transact(ctx, "updateDCAOrder", id, depositAddress)
}

func (h *Hub) FulfillLimitOrder(ctx context.Context, id, depositAddress string) error {
	return h.transact(ctx, "fulfillLimitOrder", id, depositAddress)
}

func (h *Hub) transact(ctx context.Context, method, id, depositAddress string) error {
	bigID, err := parseOrderID(id)
	if err != nil {
		return err
	}

	h.txMu.Lock()
	defer h.txMu.Unlock()

	opts := *h.signer
	opts.Context = ctx

	tx, err := h.contract.Transact(&opts, method, bigID, depositAddress)
	if err != nil {
		return errors.Wrap(err, "failed to submit transaction", logan.F{"method": method, "order_id": id})
	}

	receipt, err := bind.WaitMined(ctx, h.eth, tx)
	if err != nil {
		return errors.Wrap(err, "failed to wait for transaction", logan.F{"tx": tx.Hash().Hex()})
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return errors.From(errors.New("transaction reverted"), logan.F{"tx": tx.Hash().Hex(), "method": method})
	}

	h.log.WithFields(logan.F{"tx": tx.Hash().Hex(), "method": method, "order_id": id}).
		Debug("transaction mined")
	return nil
}

func parseOrderID(id string) (*big.Int, error) {
	bigID, ok := new(big.Int).SetString(id, 10)
	if !ok {
		return nil, errors.From(errors.New("malformed order id"), logan.F{"order_id": id})
	}
	return bigID, nil
}
