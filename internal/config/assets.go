package config

import (
	"github.com/ethereum/go-ethereum/common"
	"gitlab.com/distributed_lab/kit/kv"
	"gitlab.com/distributed_lab/logan/v3/errors"
)

// Assets maps source token contract addresses to the asset symbols the
// swap provider recognizes. The zero address stands for native ETH.
type Assets map[common.Address]string

func (c *config) Assets() Assets {
	return c.assetsOnce.Do(func() interface{} {
		raw := kv.MustGetStringMap(c.getter, "assets")

		tokens, ok := raw["tokens"].(map[string]interface{})
		if !ok || len(tokens) == 0 {
			panic(errors.New("assets.tokens must be a non-empty map"))
		}

		assets := make(Assets, len(tokens))
		for addr, symbol := range tokens {
			if !common.IsHexAddress(addr) {
				panic(errors.Errorf("invalid token address %s", addr))
			}
			s, ok := symbol.(string)
			if !ok || s == "" {
				panic(errors.Errorf("invalid asset symbol for token %s", addr))
			}
			assets[common.HexToAddress(addr)] = s
		}

		return assets
	}).(Assets)
}
