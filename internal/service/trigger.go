package service

import (
	"context"
	"math/big"

	"github.com/autobitstack/orchestrator-svc/internal/broker"
	"github.com/autobitstack/orchestrator-svc/internal/config"
	"github.com/autobitstack/orchestrator-svc/internal/data"
	"github.com/autobitstack/orchestrator-svc/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
	"gitlab.com/distributed_lab/logan/v3"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

// ErrUnsupportedAsset means the order's source token has no mapping to a
// provider asset. Retrying cannot fix it without a config change, so such
// occurrences keep failing visibly.
var ErrUnsupportedAsset = errors.New("source asset is not supported by the swap provider")

// Trigger turns a validated order into a swap: it opens a deposit channel,
// submits the matching fulfilment transaction and appends the audit
// record. A failure at any step fails the whole occurrence; the status
// record is only written after the ledger mutation is confirmed.
type Trigger struct {
	log      *logan.Entry
	broker   broker.Client
	ledger   ledger.Fulfiller
	statuses data.StatusRecords
	assets   config.Assets
}

func NewTrigger(log *logan.Entry, b broker.Client, f ledger.Fulfiller, statuses data.StatusRecords, assets config.Assets) *Trigger {
	return &Trigger{
		log:      log.WithField("component", "trigger"),
		broker:   b,
		ledger:   f,
		statuses: statuses,
		assets:   assets,
	}
}

func (t *Trigger) ExecuteSwap(ctx context.Context, orderID string, amount *big.Int, destAddress string, token common.Address, product string) error {
	srcAsset, ok := t.assets[token]
	if !ok {
		return errors.From(ErrUnsupportedAsset, logan.F{"token": token.Hex()})
	}

	channel, err := t.broker.RequestDepositChannel(ctx, broker.DepositRequest{
		Amount:      amount.String(),
		DestAddress: destAddress,
		DestAsset:   broker.AssetBTC,
		DestChain:   broker.ChainBitcoin,
		SrcAsset:    srcAsset,
		SrcChain:    broker.ChainEthereum,
	})
	if err != nil {
		return errors.Wrap(err, "failed to request deposit channel")
	}

	switch product {
	case ProductDCA:
		err = t.ledger.FulfillDCAOccurrence(ctx, orderID, channel.DepositAddress)
	case ProductLimit:
		err = t.ledger.FulfillLimitOrder(ctx, orderID, channel.DepositAddress)
	default:
		return errors.From(errors.New("unknown product type"), logan.F{"product": product})
	}
	if err != nil {
		return errors.Wrap(err, "failed to fulfill order on ledger", logan.F{
			"channel_id": channel.ChannelID,
		})
	}

	err = t.statuses.Insert(data.StatusRecord{
		OrderID:   orderID,
		ChannelID: channel.ChannelID,
	})
	if err != nil {
		return errors.Wrap(err, "failed to insert status record", logan.F{
			"channel_id": channel.ChannelID,
		})
	}

	t.log.WithFields(logan.F{
		"order_id":   orderID,
		"product":    product,
		"channel_id": channel.ChannelID,
	}).Info("swap triggered")

	return nil
}
