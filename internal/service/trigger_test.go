package service

import (
	"context"
	"math/big"
	"testing"

	"github.com/autobitstack/orchestrator-svc/internal/config"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/distributed_lab/logan/v3"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

var (
	usdcToken = common.HexToAddress("0x1c7d4b196cb0c7b01d743fbc6116a902379c7238")
	ethToken  = common.Address{}

	testAssets = config.Assets{
		usdcToken: "USDC",
		ethToken:  "ETH",
	}
)

func newTestTrigger(b *fakeBroker, f *fakeFulfiller, s *fakeStatuses) *Trigger {
	return NewTrigger(logan.New(), b, f, s, testAssets)
}

// TestTrigger_ExecuteSwap verifies the happy path: deposit channel, ledger
// fulfilment with the channel's deposit address, then exactly one status
// record carrying the channel id.
func TestTrigger_ExecuteSwap(t *testing.T) {
	b := &fakeBroker{}
	f := &fakeFulfiller{}
	s := &fakeStatuses{}
	trig := newTestTrigger(b, f, s)

	err := trig.ExecuteSwap(context.Background(), "42", big.NewInt(5000), "bc1qdest", usdcToken, ProductDCA)
	require.NoError(t, err)

	require.Len(t, b.requests, 1)
	req := b.requests[0]
	assert.Equal(t, "5000", req.Amount)
	assert.Equal(t, "USDC", req.SrcAsset)
	assert.Equal(t, "BTC", req.DestAsset)
	assert.Equal(t, "Bitcoin", req.DestChain)
	assert.Equal(t, "bc1qdest", req.DestAddress)

	require.Len(t, f.dcaCalls, 1)
	assert.Equal(t, "42", f.dcaCalls[0].orderID)
	assert.Equal(t, "bc1qdeposit1", f.dcaCalls[0].depositAddress)
	assert.Empty(t, f.limitCalls)

	require.Len(t, s.records, 1)
	assert.Equal(t, "42", s.records[0].OrderID)
	assert.NotEmpty(t, s.records[0].ChannelID)
}

func TestTrigger_ExecuteSwap_LimitProduct(t *testing.T) {
	b := &fakeBroker{}
	f := &fakeFulfiller{}
	s := &fakeStatuses{}
	trig := newTestTrigger(b, f, s)

	err := trig.ExecuteSwap(context.Background(), "7", big.NewInt(100), "bc1qdest", ethToken, ProductLimit)
	require.NoError(t, err)

	assert.Empty(t, f.dcaCalls)
	require.Len(t, f.limitCalls, 1)
	assert.Equal(t, "ETH", b.requests[0].SrcAsset)
}

// TestTrigger_UnsupportedAsset verifies an unmapped source token fails the
// occurrence before any external call is made.
func TestTrigger_UnsupportedAsset(t *testing.T) {
	b := &fakeBroker{}
	f := &fakeFulfiller{}
	s := &fakeStatuses{}
	trig := newTestTrigger(b, f, s)

	unknown := common.HexToAddress("0xdeadbeef00000000000000000000000000000000")
	err := trig.ExecuteSwap(context.Background(), "42", big.NewInt(100), "bc1qdest", unknown, ProductDCA)

	require.Error(t, err)
	assert.ErrorContains(t, err, "not supported")
	assert.Zero(t, b.channels)
	assert.Empty(t, f.dcaCalls)
	assert.Empty(t, s.records)
}

// TestTrigger_NoStatusOnPartialFailure verifies no audit record is written
// when the ledger mutation fails after the channel was opened.
func TestTrigger_NoStatusOnPartialFailure(t *testing.T) {
	b := &fakeBroker{}
	f := &fakeFulfiller{err: errors.New("tx reverted")}
	s := &fakeStatuses{}
	trig := newTestTrigger(b, f, s)

	err := trig.ExecuteSwap(context.Background(), "42", big.NewInt(100), "bc1qdest", usdcToken, ProductDCA)

	require.Error(t, err)
	assert.Equal(t, 1, b.channels, "channel was already requested when the mutation failed")
	assert.Empty(t, s.records)
}

func TestTrigger_ChannelFailure(t *testing.T) {
	b := &fakeBroker{channelErr: errors.New("provider unavailable")}
	f := &fakeFulfiller{}
	s := &fakeStatuses{}
	trig := newTestTrigger(b, f, s)

	err := trig.ExecuteSwap(context.Background(), "42", big.NewInt(100), "bc1qdest", usdcToken, ProductDCA)

	require.Error(t, err)
	assert.Empty(t, f.dcaCalls)
	assert.Empty(t, s.records)
}
