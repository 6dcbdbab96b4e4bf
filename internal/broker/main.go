// Package broker talks to the swap provider: deposit-channel issuance and
// cross-asset quoting.
package broker

import (
	"context"
	"math/big"
)

// Provider-recognized asset and chain identifiers.
const (
	AssetBTC  = "BTC"
	AssetETH  = "ETH"
	AssetUSDC = "USDC"

	ChainBitcoin  = "Bitcoin"
	ChainEthereum = "Ethereum"
)

type DepositRequest struct {
	Amount      string `json:"amount"`
	DestAddress string `json:"destAddress"`
	DestAsset   string `json:"destAsset"`
	DestChain   string `json:"destChain"`
	SrcAsset    string `json:"srcAsset"`
	SrcChain    string `json:"srcChain"`
}

// DepositChannel is the provider-issued address that receives funds to
// initiate a swap, together with its audit identifier.
type DepositChannel struct {
	DepositAddress string `json:"depositAddress"`
	ChannelID      string `json:"depositChannelId"`
}

type Client interface {
	RequestDepositChannel(ctx context.Context, req DepositRequest) (DepositChannel, error)
	// BitcoinPrice returns the current BTC/USD price in USDC minor units
	// (6 decimals) per whole bitcoin.
	BitcoinPrice(ctx context.Context) (*big.Int, error)
}
