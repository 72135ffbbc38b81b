package shard

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/spacemeshos/go-shard/common/types"
)

// BalanceOf returns balance of the account.
func (s *Shard) BalanceOf(account types.Address) *uint256.Int {
	st, release := s.view()
	defer release()
	return st.balance(account)
}

// Allowance returns the amount spender can transfer on behalf of owner.
func (s *Shard) Allowance(owner, spender types.Address) *uint256.Int {
	st, release := s.view()
	defer release()
	return st.allowance(owner, spender)
}

// TotalSupply returns the number of tokens in circulation.
func (s *Shard) TotalSupply() *uint256.Int {
	st, release := s.view()
	defer release()
	return new(uint256.Int).Set(&st.supply)
}

// Transfer value from the caller to the receiver.
func (s *Shard) Transfer(from, to types.Address, value *uint256.Int) error {
	value = orZero(value)
	return s.execute("transfer", func(st *state, block types.Block) error {
		return s.transferTokens(st, block, from, to, value)
	})
}

// TransferFrom transfers value from the owner to the receiver, spending allowance of the spender.
// Allowance equal to the max amount is not decremented.
func (s *Shard) TransferFrom(spender, from, to types.Address, value *uint256.Int) error {
	value = orZero(value)
	return s.execute("transfer_from", func(st *state, block types.Block) error {
		allowance := st.allowance(from, spender)
		if spender != from && !allowance.Eq(types.MaxAmount) {
			if allowance.Lt(value) {
				return fmt.Errorf("%w: %s < %s", ErrInsufficientAllowance, allowance.Dec(), value.Dec())
			}
			allowance.Sub(allowance, value)
			st.setAllowance(from, spender, allowance)
			st.emit(&Approval{Owner: from, Spender: spender, Value: *allowance})
		}
		return s.transferTokens(st, block, from, to, value)
	})
}

// Approve sets the amount spender can transfer on behalf of owner.
func (s *Shard) Approve(owner, spender types.Address, value *uint256.Int) error {
	value = orZero(value)
	return s.execute("approve", func(st *state, _ types.Block) error {
		return approve(st, owner, spender, value)
	})
}

func approve(st *state, owner, spender types.Address, value *uint256.Int) error {
	if owner == types.EmptyAddress || spender == types.EmptyAddress {
		return fmt.Errorf("%w: approve %s to %s", ErrZeroAddress, owner.Hex(), spender.Hex())
	}
	st.setAllowance(owner, spender, value)
	st.emit(&Approval{Owner: owner, Spender: spender, Value: *value})
	return nil
}

func (s *Shard) transferTokens(st *state, block types.Block, from, to types.Address, value *uint256.Int) error {
	if from == types.EmptyAddress {
		return fmt.Errorf("%w: cannot transfer from the zero address", ErrZeroAddress)
	}
	if to == types.EmptyAddress {
		return fmt.Errorf("%w: cannot transfer to the zero address", ErrZeroAddress)
	}
	balance := st.balance(from)
	if balance.Lt(value) {
		return fmt.Errorf("%w: %s has %s, needs %s",
			ErrInsufficientBalance, from.Hex(), balance.Dec(), value.Dec())
	}
	st.setBalance(from, balance.Sub(balance, value))
	received := st.balance(to)
	if _, overflow := received.AddOverflow(received, value); overflow {
		return fmt.Errorf("%w: balance of %s", ErrOverflow, to.Hex())
	}
	st.setBalance(to, received)
	st.emit(&Transfer{From: from, To: to, Value: *value})
	return s.moveDelegates(st, block, st.delegate(from), st.delegate(to), value)
}
