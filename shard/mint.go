package shard

import (
	"fmt"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-shard/common/types"
	"github.com/spacemeshos/go-shard/log"
)

// Minter returns the address allowed to mint.
func (s *Shard) Minter() types.Address {
	st, release := s.view()
	defer release()
	return st.policy.Minter
}

// MintingAllowedAfter returns the unix timestamp from which the next mint is allowed.
func (s *Shard) MintingAllowedAfter() uint64 {
	st, release := s.view()
	defer release()
	return st.policy.MintingAllowedAfter
}

// MintingPolicy returns a copy of the minting policy.
func (s *Shard) MintingPolicy() types.MintingPolicy {
	st, release := s.view()
	defer release()
	return st.policy
}

// Mint new tokens to the receiver. At most CapPercent of the supply before the mint can be
// minted, and the next mint is allowed after the minimum interval from now.
func (s *Shard) Mint(caller, to types.Address, amount *uint256.Int) error {
	amount = orZero(amount)
	var next uint64
	err := s.execute("mint", func(st *state, block types.Block) error {
		policy := st.policy
		if caller != policy.Minter {
			return fmt.Errorf("%w: %s", ErrNotMinter, caller.Hex())
		}
		if block.Timestamp < policy.MintingAllowedAfter {
			return fmt.Errorf("%w: now %d, allowed after %d",
				ErrTooEarly, block.Timestamp, policy.MintingAllowedAfter)
		}
		if to == types.EmptyAddress {
			return fmt.Errorf("%w: cannot mint to the zero address", ErrZeroAddress)
		}
		limit := policy.Cap(&st.supply)
		if amount.Gt(limit) {
			return fmt.Errorf("%w: %s > %s", ErrExceedsCap, amount.Dec(), limit.Dec())
		}

		next = block.Timestamp + policy.MinimumInterval
		if next < block.Timestamp {
			return fmt.Errorf("%w: next minting timestamp", ErrOverflow)
		}
		policy.MintingAllowedAfter = next
		st.setPolicy(policy)

		supply, overflow := new(uint256.Int).AddOverflow(&st.supply, amount)
		if overflow {
			return fmt.Errorf("%w: total supply", ErrOverflow)
		}
		st.setSupply(supply)
		balance, overflow := new(uint256.Int).AddOverflow(st.balance(to), amount)
		if overflow {
			return fmt.Errorf("%w: balance of %s", ErrOverflow, to.Hex())
		}
		st.setBalance(to, balance)
		st.emit(&Transfer{To: to, Value: *amount})
		return s.moveDelegates(st, block, types.EmptyAddress, st.delegate(to), amount)
	})
	if err != nil {
		return err
	}
	s.logger.Info("minted",
		log.ZAddress("to", to),
		log.ZAmount("amount", amount),
		zap.Uint64("next_mint", next),
	)
	return nil
}

// SetMinter passes minting rights to another address.
func (s *Shard) SetMinter(caller, minter types.Address) error {
	return s.execute("set_minter", func(st *state, _ types.Block) error {
		policy := st.policy
		if caller != policy.Minter {
			return fmt.Errorf("%w: %s", ErrNotMinter, caller.Hex())
		}
		st.emit(&MinterChanged{Minter: policy.Minter, NewMinter: minter})
		policy.Minter = minter
		st.setPolicy(policy)
		return nil
	})
}
