package votes

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/spacemeshos/go-shard/common/types"
)

// ErrOutOfOrder is returned if a checkpoint would precede the latest checkpoint of the account.
var ErrOutOfOrder = errors.New("votes: checkpoint out of order")

// Ledger holds histories of all accounts.
type Ledger struct {
	histories map[types.Address]History
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{histories: map[types.Address]History{}}
}

// Load replaces history of the account. It is used to restore the ledger from disk and
// expects checkpoints sorted by strictly increasing FromBlock.
func (l *Ledger) Load(account types.Address, history History) error {
	for i := 1; i < len(history); i++ {
		if history[i].FromBlock <= history[i-1].FromBlock {
			return fmt.Errorf("%w: checkpoint %d of %s at %d after %d",
				ErrOutOfOrder, i, account.Hex(), history[i].FromBlock, history[i-1].FromBlock)
		}
	}
	l.histories[account] = history
	return nil
}

// Write records votes of the account from block. Block must not precede the block of the
// latest checkpoint.
//
// Returns index of the written checkpoint and a function that reverts the write.
func (l *Ledger) Write(account types.Address, block uint64, votes *uint256.Int) (int, func(), error) {
	history := l.histories[account]
	n := len(history)
	if n > 0 && history[n-1].FromBlock == block {
		prev := history[n-1].Votes
		history[n-1].Votes = *votes
		return n - 1, func() {
			l.histories[account][n-1].Votes = prev
		}, nil
	}
	if n > 0 && history[n-1].FromBlock > block {
		return 0, nil, fmt.Errorf("%w: %s at block %d, latest %d",
			ErrOutOfOrder, account.Hex(), block, history[n-1].FromBlock)
	}
	l.histories[account] = append(history, types.Checkpoint{FromBlock: block, Votes: *votes})
	return n, func() {
		if n == 0 {
			delete(l.histories, account)
			return
		}
		l.histories[account] = l.histories[account][:n]
	}, nil
}

// Current returns the latest votes of the account.
func (l *Ledger) Current(account types.Address) *uint256.Int {
	return l.histories[account].Latest()
}

// At returns votes of the account as of block.
func (l *Ledger) At(account types.Address, block uint64) *uint256.Int {
	return l.histories[account].At(block)
}

// Len returns the number of checkpoints of the account.
func (l *Ledger) Len(account types.Address) int {
	return len(l.histories[account])
}

// Checkpoint returns the i-th checkpoint of the account.
func (l *Ledger) Checkpoint(account types.Address, i int) (types.Checkpoint, bool) {
	history := l.histories[account]
	if i < 0 || i >= len(history) {
		return types.Checkpoint{}, false
	}
	return history[i], true
}

// History returns a copy of the account history.
func (l *Ledger) History(account types.Address) History {
	history := l.histories[account]
	if history == nil {
		return nil
	}
	return append(History(nil), history...)
}

// Iterate calls fn for every account with at least one checkpoint until fn returns false.
func (l *Ledger) Iterate(fn func(types.Address, History) bool) {
	for account, history := range l.histories {
		if !fn(account, history) {
			return
		}
	}
}
