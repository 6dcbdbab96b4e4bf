package broker

import (
	"context"
	"math/big"
	"net/url"

	"github.com/autobitstack/orchestrator-svc/internal/config"
	jsonapi "gitlab.com/distributed_lab/json-api-connector"
	"gitlab.com/distributed_lab/logan/v3"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

// one whole bitcoin in satoshi, the quote probe amount
const satsPerBTC = "100000000"

type client struct {
	log  *logan.Entry
	conn *jsonapi.Connector
}

func NewClient(b config.Broker, log *logan.Entry) Client {
	return &client{
		log:  log.WithField("component", "broker"),
		conn: b.Connector,
	}
}

func (c *client) RequestDepositChannel(ctx context.Context, req DepositRequest) (DepositChannel, error) {
	u, _ := url.Parse("/v2/deposit_addresses")

	var resp DepositChannel
	if err := c.conn.PostJSON(u, req, ctx, &resp); err != nil {
		return DepositChannel{}, errors.Wrap(err, "failed to request deposit channel", logan.F{
			"src_asset": req.SrcAsset,
		})
	}
	if resp.DepositAddress == "" || resp.ChannelID == "" {
		return DepositChannel{}, errors.New("provider returned an incomplete deposit channel")
	}

	c.log.WithField("channel_id", resp.ChannelID).Debug("deposit channel opened")
	return resp, nil
}

type quoteResponse struct {
	Quote struct {
		EgressAmount string `json:"egressAmount"`
		IncludedFees []struct {
			Asset  string `json:"asset"`
			Amount string `json:"amount"`
		} `json:"includedFees"`
	} `json:"quote"`
}

func (c *client) BitcoinPrice(ctx context.Context) (*big.Int, error) {
	u, _ := url.Parse("/v2/quote")
	q := u.Query()
	q.Set("amount", satsPerBTC)
	q.Set("srcAsset", AssetBTC)
	q.Set("srcChain", ChainBitcoin)
	q.Set("destAsset", AssetUSDC)
	q.Set("destChain", ChainEthereum)
	u.RawQuery = q.Encode()

	var resp quoteResponse
	if err := c.conn.Get(u, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to get quote")
	}

	// the gross price is what the swap egresses plus the fees taken in USDC
	price, ok := new(big.Int).SetString(resp.Quote.EgressAmount, 10)
	if !ok {
		return nil, errors.From(errors.New("malformed egress amount"), logan.F{
			"egress_amount": resp.Quote.EgressAmount,
		})
	}
	for _, fee := range resp.Quote.IncludedFees {
		if fee.Asset != AssetUSDC {
			continue
		}
		amount, ok := new(big.Int).SetString(fee.Amount, 10)
		if !ok {
			return nil, errors.From(errors.New("malformed fee amount"), logan.F{
				"fee_amount": fee.Amount,
			})
		}
		price.Add(price, amount)
	}

	return price, nil
}
