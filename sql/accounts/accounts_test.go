package accounts

import (
	"bytes"
	"math/rand"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/go-shard/common/types"
	"github.com/spacemeshos/go-shard/sql"
)

func TestUpdateGet(t *testing.T) {
	db := sql.InMemory()
	address := types.Address{1, 1}

	_, err := Get(db, address)
	require.ErrorIs(t, err, sql.ErrNotFound)

	account := types.Account{
		Address: address,
		Balance: *types.ExpandDecimals(3),
		Nonce:   2,
	}
	require.NoError(t, Update(db, &account))
	got, err := Get(db, address)
	require.NoError(t, err)
	require.Equal(t, account, got)

	account.Delegate = types.Address{2}
	account.Balance = *types.MaxAmount
	account.Nonce = 3
	require.NoError(t, Update(db, &account))
	got, err = Get(db, address)
	require.NoError(t, err)
	require.Equal(t, account, got)
}

func TestAll(t *testing.T) {
	db := sql.InMemory()
	expected := []*types.Account{
		{Address: types.Address{1}, Balance: *uint256.NewInt(10)},
		{Address: types.Address{2}, Balance: *uint256.NewInt(20), Nonce: 1, Delegate: types.Address{1}},
		{Address: types.Address{3}},
	}
	for i := len(expected) - 1; i >= 0; i-- {
		require.NoError(t, Update(db, expected[i]))
	}
	all, err := All(db)
	require.NoError(t, err)
	require.Equal(t, expected, all)

	var visited int
	require.NoError(t, IterateAccounts(db, func(*types.Account) bool {
		visited++
		return false
	}))
	require.Equal(t, 1, visited)
}

func TestRandomAccounts(t *testing.T) {
	db := sql.InMemory()
	f := fuzz.New().NilChance(0)
	f.RandSource(rand.NewSource(101))

	expected := make([]*types.Account, 50)
	for i := range expected {
		account := &types.Account{}
		f.Fuzz(account)
		expected[i] = account
		require.NoError(t, Update(db, account))
	}
	slices.SortFunc(expected, func(a, b *types.Account) int {
		return bytes.Compare(a.Address[:], b.Address[:])
	})
	all, err := All(db)
	require.NoError(t, err)
	if diff := cmp.Diff(expected, all); diff != "" {
		t.Errorf("accounts mismatch (-want +got):\n%s", diff)
	}
}
