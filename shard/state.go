package shard

import (
	"bytes"
	"encoding/binary"
	"maps"
	"slices"

	"github.com/holiman/uint256"

	"github.com/spacemeshos/go-shard/codec"
	"github.com/spacemeshos/go-shard/common/types"
	"github.com/spacemeshos/go-shard/hash"
	"github.com/spacemeshos/go-shard/votes"
)

type allowanceKey struct {
	owner, spender types.Address
}

// changes are records touched by the operation in progress.
type changes struct {
	accounts    map[types.Address]struct{}
	allowances  map[allowanceKey]struct{}
	checkpoints map[types.Address]map[int]struct{}
	supply      bool
	policy      bool
}

func newChanges() changes {
	return changes{
		accounts:    map[types.Address]struct{}{},
		allowances:  map[allowanceKey]struct{}{},
		checkpoints: map[types.Address]map[int]struct{}{},
	}
}

func (c *changes) checkpoint(address types.Address, idx int) {
	indexes, exist := c.checkpoints[address]
	if !exist {
		indexes = map[int]struct{}{}
		c.checkpoints[address] = indexes
	}
	indexes[idx] = struct{}{}
}

func (c *changes) empty() bool {
	return len(c.accounts) == 0 && len(c.allowances) == 0 && len(c.checkpoints) == 0 &&
		!c.supply && !c.policy
}

// state of the token. Every mutation appends an undo function to the journal, so that
// a failed operation can be rolled back to the state it started from.
type state struct {
	accounts   map[types.Address]*types.Account
	allowances map[allowanceKey]*uint256.Int
	votes      *votes.Ledger
	supply     uint256.Int
	policy     types.MintingPolicy

	journal []func()
	changed changes
	events  []Event
}

func newState() *state {
	return &state{
		accounts:   map[types.Address]*types.Account{},
		allowances: map[allowanceKey]*uint256.Int{},
		votes:      votes.NewLedger(),
		changed:    newChanges(),
	}
}

func (st *state) balance(address types.Address) *uint256.Int {
	if acc, exist := st.accounts[address]; exist {
		return new(uint256.Int).Set(&acc.Balance)
	}
	return new(uint256.Int)
}

func (st *state) nonce(address types.Address) uint64 {
	if acc, exist := st.accounts[address]; exist {
		return acc.Nonce
	}
	return 0
}

func (st *state) delegate(address types.Address) types.Address {
	if acc, exist := st.accounts[address]; exist {
		return acc.Delegate
	}
	return types.EmptyAddress
}

func (st *state) allowance(owner, spender types.Address) *uint256.Int {
	if value, exist := st.allowances[allowanceKey{owner, spender}]; exist {
		return new(uint256.Int).Set(value)
	}
	return new(uint256.Int)
}

// account returns mutable account, creating it on first touch.
func (st *state) account(address types.Address) *types.Account {
	acc, exist := st.accounts[address]
	if !exist {
		acc = &types.Account{Address: address}
		st.accounts[address] = acc
		st.journal = append(st.journal, func() {
			delete(st.accounts, address)
		})
	}
	st.changed.accounts[address] = struct{}{}
	return acc
}

func (st *state) setBalance(address types.Address, value *uint256.Int) {
	acc := st.account(address)
	prev := acc.Balance
	acc.Balance = *value
	st.journal = append(st.journal, func() {
		acc.Balance = prev
	})
}

func (st *state) incNonce(address types.Address) {
	acc := st.account(address)
	acc.Nonce++
	st.journal = append(st.journal, func() {
		acc.Nonce--
	})
}

func (st *state) setDelegate(address, delegate types.Address) {
	acc := st.account(address)
	prev := acc.Delegate
	acc.Delegate = delegate
	st.journal = append(st.journal, func() {
		acc.Delegate = prev
	})
}

func (st *state) setAllowance(owner, spender types.Address, value *uint256.Int) {
	key := allowanceKey{owner, spender}
	prev, exist := st.allowances[key]
	st.allowances[key] = new(uint256.Int).Set(value)
	st.changed.allowances[key] = struct{}{}
	st.journal = append(st.journal, func() {
		if !exist {
			delete(st.allowances, key)
			return
		}
		st.allowances[key] = prev
	})
}

func (st *state) setSupply(value *uint256.Int) {
	prev := st.supply
	st.supply = *value
	st.changed.supply = true
	st.journal = append(st.journal, func() {
		st.supply = prev
	})
}

func (st *state) setPolicy(policy types.MintingPolicy) {
	prev := st.policy
	st.policy = policy
	st.changed.policy = true
	st.journal = append(st.journal, func() {
		st.policy = prev
	})
}

func (st *state) writeCheckpoint(address types.Address, block uint64, votes *uint256.Int) error {
	idx, undo, err := st.votes.Write(address, block, votes)
	if err != nil {
		return err
	}
	st.changed.checkpoint(address, idx)
	st.journal = append(st.journal, undo)
	return nil
}

func (st *state) emit(ev Event) {
	st.events = append(st.events, ev)
}

// revert undoes every mutation since the last commit.
func (st *state) revert() {
	for i := len(st.journal) - 1; i >= 0; i-- {
		st.journal[i]()
	}
	st.reset()
}

// commit forgets the journal and returns what was changed since the previous commit.
func (st *state) commit() (changes, []Event) {
	changed, events := st.changed, st.events
	st.reset()
	return changed, events
}

func (st *state) reset() {
	st.journal = nil
	st.events = nil
	st.changed = newChanges()
}

func sortedAddresses[V any](m map[types.Address]V) []types.Address {
	return slices.SortedFunc(maps.Keys(m), func(a, b types.Address) int {
		return bytes.Compare(a[:], b[:])
	})
}

// fold hashes changed records on top of the previous root.
func (st *state) fold(prev types.Hash32, changed *changes) types.Hash32 {
	hasher := hash.GetHasher()
	defer hash.PutHasher(hasher)
	var buf [8]byte
	hasher.Write(prev[:])
	for _, address := range sortedAddresses(changed.accounts) {
		acc := st.accounts[address]
		balance := acc.Balance.Bytes32()
		hasher.Write(address[:])
		hasher.Write(balance[:])
		binary.LittleEndian.PutUint64(buf[:], acc.Nonce)
		hasher.Write(buf[:])
		hasher.Write(acc.Delegate[:])
	}
	keys := slices.SortedFunc(maps.Keys(changed.allowances), func(a, b allowanceKey) int {
		if c := bytes.Compare(a.owner[:], b.owner[:]); c != 0 {
			return c
		}
		return bytes.Compare(a.spender[:], b.spender[:])
	})
	for _, key := range keys {
		value := st.allowances[key].Bytes32()
		hasher.Write(key.owner[:])
		hasher.Write(key.spender[:])
		hasher.Write(value[:])
	}
	for _, address := range sortedAddresses(changed.checkpoints) {
		for _, idx := range slices.Sorted(maps.Keys(changed.checkpoints[address])) {
			cp, _ := st.votes.Checkpoint(address, idx)
			hasher.Write(address[:])
			binary.LittleEndian.PutUint64(buf[:], uint64(idx))
			hasher.Write(buf[:])
			hasher.Write(codec.MustEncode(&cp))
		}
	}
	if changed.supply {
		supply := st.supply.Bytes32()
		hasher.Write(supply[:])
	}
	if changed.policy {
		hasher.Write(codec.MustEncode(&st.policy))
	}
	var root types.Hash32
	hasher.Sum(root[:0])
	return root
}
