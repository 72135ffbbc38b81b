// Package votes keeps per-account histories of voting power.
//
// A history is a sequence of checkpoints sorted by block number. Writing in the block of
// the latest checkpoint overwrites it, so there is at most one checkpoint per block.
package votes

import (
	"sort"

	"github.com/holiman/uint256"

	"github.com/spacemeshos/go-shard/common/types"
)

// History of checkpoints of a single account, sorted by FromBlock.
type History []types.Checkpoint

// Latest returns votes of the last checkpoint, or zero for an empty history.
func (h History) Latest() *uint256.Int {
	if len(h) == 0 {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(&h[len(h)-1].Votes)
}

// At returns votes of the last checkpoint with FromBlock not after block.
func (h History) At(block uint64) *uint256.Int {
	// index of the first checkpoint that starts after block
	i := sort.Search(len(h), func(i int) bool {
		return h[i].FromBlock > block
	})
	if i == 0 {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(&h[i-1].Votes)
}
