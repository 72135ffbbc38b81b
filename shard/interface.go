package shard

import "github.com/spacemeshos/go-shard/common/types"

//go:generate mockgen -typed -package=shard -destination=./mocks.go -source=./interface.go

// BlockSource provides the block in which the next operation executes.
// Both number and timestamp of consecutive heads must not decrease.
type BlockSource interface {
	Head() types.Block
}
