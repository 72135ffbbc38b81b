package shard

import (
	"context"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/spacemeshos/go-scale"

	"github.com/spacemeshos/go-shard/common/types"
	"github.com/spacemeshos/go-shard/sql"
	"github.com/spacemeshos/go-shard/sql/accounts"
	"github.com/spacemeshos/go-shard/sql/allowances"
	"github.com/spacemeshos/go-shard/sql/checkpoints"
	"github.com/spacemeshos/go-shard/sql/kvstore"
	"github.com/spacemeshos/go-shard/votes"
)

const (
	supplyKey = "shard/supply"
	policyKey = "shard/policy"
	rootKey   = "shard/root"
)

type stateRoot types.Hash32

func (r *stateRoot) EncodeScale(enc *scale.Encoder) (int, error) {
	return scale.EncodeByteArray(enc, r[:])
}

func (r *stateRoot) DecodeScale(dec *scale.Decoder) (int, error) {
	return scale.DecodeByteArray(dec, r[:])
}

// persist writes changed records and the new root in one transaction.
func (s *Shard) persist(changed *changes, root types.Hash32) error {
	if s.db == nil || changed.empty() {
		return nil
	}
	st := s.st
	return s.db.WithTx(context.Background(), func(tx *sql.Tx) error {
		for address := range changed.accounts {
			if err := accounts.Update(tx, st.accounts[address]); err != nil {
				return err
			}
		}
		for key := range changed.allowances {
			if err := allowances.Set(tx, key.owner, key.spender, st.allowances[key]); err != nil {
				return err
			}
		}
		for address, indexes := range changed.checkpoints {
			for idx := range indexes {
				cp, _ := st.votes.Checkpoint(address, idx)
				if err := checkpoints.Put(tx, address, idx, &cp); err != nil {
					return err
				}
			}
		}
		if changed.supply {
			if err := kvstore.Set(tx, supplyKey, &types.Supply{Int: st.supply}); err != nil {
				return err
			}
		}
		if changed.policy {
			if err := kvstore.Set(tx, policyKey, &st.policy); err != nil {
				return err
			}
		}
		r := stateRoot(root)
		return kvstore.Set(tx, rootKey, &r)
	})
}

func (s *Shard) load(db sql.Executor) error {
	st := newState()
	var supply types.Supply
	if err := kvstore.Get(db, supplyKey, &supply); err != nil {
		return fmt.Errorf("load supply: %w", err)
	}
	st.supply = supply.Int
	if err := kvstore.Get(db, policyKey, &st.policy); err != nil {
		return fmt.Errorf("load minting policy: %w", err)
	}
	var root stateRoot
	if err := kvstore.Get(db, rootKey, &root); err != nil {
		return fmt.Errorf("load state root: %w", err)
	}
	if err := accounts.IterateAccounts(db, func(acc *types.Account) bool {
		st.accounts[acc.Address] = acc
		return true
	}); err != nil {
		return err
	}
	if err := allowances.IterateAllowances(db, func(a *allowances.Allowance) bool {
		st.allowances[allowanceKey{a.Owner, a.Spender}] = &a.Value
		return true
	}); err != nil {
		return err
	}
	var owners []types.Address
	if err := checkpoints.IterateAccounts(db, func(address types.Address) bool {
		owners = append(owners, address)
		return true
	}); err != nil {
		return err
	}
	for _, address := range owners {
		history, err := checkpoints.History(db, address)
		if err != nil {
			return err
		}
		if err := st.votes.Load(address, votes.History(history)); err != nil {
			return err
		}
	}
	var sum uint256.Int
	for _, acc := range st.accounts {
		if _, overflow := sum.AddOverflow(&sum, &acc.Balance); overflow {
			return fmt.Errorf("%w: sum of balances", ErrOverflow)
		}
	}
	if !sum.Eq(&st.supply) {
		return fmt.Errorf("sum of balances %s doesn't match supply %s", sum.Dec(), st.supply.Dec())
	}
	s.st = st
	s.root = types.Hash32(root)
	return nil
}

// Exists returns true if a token was persisted to db.
func Exists(db sql.Executor) (bool, error) {
	var root stateRoot
	err := kvstore.Get(db, rootKey, &root)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sql.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
