package vester

import (
	"github.com/holiman/uint256"

	"github.com/spacemeshos/go-shard/common/types"
)

//go:generate mockgen -typed -package=vester -destination=./mocks.go -source=./interface.go

// Token that is released by the vester.
type Token interface {
	BalanceOf(types.Address) *uint256.Int
	Transfer(from, to types.Address, value *uint256.Int) error
}

// BlockSource provides the time of the current block.
type BlockSource interface {
	Head() types.Block
}
