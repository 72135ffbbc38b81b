package shard

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/spacemeshos/go-shard/common/types"
)

// Delegates returns the delegate of the account, empty address if it never delegated.
func (s *Shard) Delegates(account types.Address) types.Address {
	st, release := s.view()
	defer release()
	return st.delegate(account)
}

// Delegate all votes of the delegator to the delegatee. Delegating to the empty address
// removes votes of the delegator from the previous delegate.
func (s *Shard) Delegate(delegator, delegatee types.Address) error {
	return s.execute("delegate", func(st *state, block types.Block) error {
		return s.delegate(st, block, delegator, delegatee)
	})
}

func (s *Shard) delegate(st *state, block types.Block, delegator, delegatee types.Address) error {
	if delegator == types.EmptyAddress {
		return fmt.Errorf("%w: zero address can't delegate", ErrZeroAddress)
	}
	current := st.delegate(delegator)
	st.setDelegate(delegator, delegatee)
	st.emit(&DelegateChanged{Delegator: delegator, From: current, To: delegatee})
	return s.moveDelegates(st, block, current, delegatee, st.balance(delegator))
}

// moveDelegates moves votes from src to dst. Votes are never moved further than the immediate
// delegate.
func (s *Shard) moveDelegates(st *state, block types.Block, src, dst types.Address, amount *uint256.Int) error {
	if src == dst || amount.IsZero() {
		return nil
	}
	if src != types.EmptyAddress {
		prev := st.votes.Current(src)
		if prev.Lt(amount) {
			return fmt.Errorf("%w: votes of %s underflow", ErrOverflow, src.Hex())
		}
		if err := s.writeCheckpoint(st, block, src, prev, new(uint256.Int).Sub(prev, amount)); err != nil {
			return err
		}
	}
	if dst != types.EmptyAddress {
		prev := st.votes.Current(dst)
		current, overflow := new(uint256.Int).AddOverflow(prev, amount)
		if overflow {
			return fmt.Errorf("%w: votes of %s", ErrOverflow, dst.Hex())
		}
		return s.writeCheckpoint(st, block, dst, prev, current)
	}
	return nil
}

func (s *Shard) writeCheckpoint(st *state, block types.Block, delegatee types.Address, prev, current *uint256.Int) error {
	if err := st.writeCheckpoint(delegatee, block.Number, current); err != nil {
		return err
	}
	st.emit(&DelegateVotesChanged{Delegate: delegatee, Previous: *prev, Current: *current})
	return nil
}

// GetCurrentVotes returns votes currently delegated to the account.
func (s *Shard) GetCurrentVotes(account types.Address) *uint256.Int {
	st, release := s.view()
	defer release()
	return st.votes.Current(account)
}

// GetPriorVotes returns votes delegated to the account at the end of the block.
// Only finished blocks, lower than the number of the current head, can be queried.
func (s *Shard) GetPriorVotes(account types.Address, block uint64) (*uint256.Int, error) {
	st, release := s.view()
	defer release()
	head := s.blocks.Head()
	if block >= head.Number {
		return nil, fmt.Errorf("%w: block %d, head %d", ErrNotYetDetermined, block, head.Number)
	}
	return st.votes.At(account, block), nil
}

// NumCheckpoints returns the number of checkpoints of the account.
func (s *Shard) NumCheckpoints(account types.Address) int {
	st, release := s.view()
	defer release()
	return st.votes.Len(account)
}

// Checkpoints returns the i-th checkpoint of the account.
func (s *Shard) Checkpoints(account types.Address, i int) (types.Checkpoint, bool) {
	st, release := s.view()
	defer release()
	return st.votes.Checkpoint(account, i)
}
