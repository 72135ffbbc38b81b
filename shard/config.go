package shard

import (
	"github.com/holiman/uint256"

	"github.com/spacemeshos/go-shard/common/types"
)

const (
	// Name of the token. It is also the name of the signature domain.
	Name = "Shard"
	// Symbol of the token.
	Symbol = "SHARD"
	// Decimals of the token.
	Decimals = types.Decimals

	// DefaultMinimumTimeBetweenMints is one year in seconds.
	DefaultMinimumTimeBetweenMints = 60 * 60 * 24 * 365
	// DefaultMintCapPercent is the percent of the supply that can be minted at once.
	DefaultMintCapPercent = 1
)

// Config for the token.
type Config struct {
	// ChainID and Address bind signatures to one deployment.
	ChainID uint64        `mapstructure:"chain-id"`
	Address types.Address `mapstructure:"address"`

	MinimumTimeBetweenMints uint64 `mapstructure:"minimum-time-between-mints"`
	MintCapPercent          uint64 `mapstructure:"mint-cap-percent"`

	// RecoveryCacheSize is the number of recovered signers kept in memory.
	RecoveryCacheSize int `mapstructure:"recovery-cache-size"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		ChainID:                 1,
		MinimumTimeBetweenMints: DefaultMinimumTimeBetweenMints,
		MintCapPercent:          DefaultMintCapPercent,
		RecoveryCacheSize:       1024,
	}
}

// Genesis is the initial state of the token.
type Genesis struct {
	// Account receives the whole initial supply.
	Account types.Address `mapstructure:"account"`
	Minter  types.Address `mapstructure:"minter"`
	Supply  *uint256.Int  `mapstructure:"supply"`
	// MintingAllowedAfter is the unix timestamp of the first allowed mint.
	MintingAllowedAfter uint64 `mapstructure:"minting-allowed-after"`
}
