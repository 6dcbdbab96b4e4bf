package config

import (
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"gitlab.com/distributed_lab/figure/v3"
	"gitlab.com/distributed_lab/kit/kv"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

type Network struct {
	Client          *ethclient.Client
	ContractAddress common.Address
	ChainID         *big.Int
	Signer          *bind.TransactOpts
	RequestTimeout  time.Duration
}

const defaultRequestTimeout = 10 * time.Second
const maxChainID int64 = math.MaxUint64/2 - 36

func (c *config) Network() Network {
	return c.networkOnce.Do(func() interface{} {
		var cfg struct {
			RPC            string         `fig:"rpc,required"`
			Contract       common.Address `fig:"contract,required"`
			ChainID        int64          `fig:"chain_id,required"`
			Signer         string         `fig:"signer,required"`
			RequestTimeout time.Duration  `fig:"request_timeout"`
		}

		err := figure.Out(&cfg).
			With(figure.EthereumHooks).
			From(kv.MustGetStringMap(c.getter, "network")).
			Please()
		if err != nil {
			panic(errors.Wrap(err, "failed to figure out network"))
		}

		if cfg.ChainID > maxChainID || cfg.ChainID <= 0 {
			panic("chain_id value out of range due to EIP 2294")
		}
		cli, err := ethclient.Dial(cfg.RPC)
		if err != nil {
			panic(errors.Wrap(err, "failed to connect to RPC provider"))
		}

		key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.Signer, "0x"))
		if err != nil {
			panic(errors.Wrap(err, "failed to parse signer private key"))
		}
		chainID := big.NewInt(cfg.ChainID)
		signer, err := bind.NewKeyedTransactorWithChainID(key, chainID)
		if err != nil {
			panic(errors.Wrap(err, "failed to create transactor"))
		}

		if cfg.RequestTimeout == 0 {
			cfg.RequestTimeout = defaultRequestTimeout
		}

		return Network{
			Client:          cli,
			ContractAddress: cfg.Contract,
			ChainID:         chainID,
			Signer:          signer,
			RequestTimeout:  cfg.RequestTimeout,
		}
	}).(Network)
}
