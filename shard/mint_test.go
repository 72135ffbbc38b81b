package shard

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/go-shard/common/types"
)

func TestMint(t *testing.T) {
	tt := newTester(t)
	minter := tt.wallet.Address()
	other := types.Address{0xa}
	supply := tt.TotalSupply()

	require.ErrorIs(t, tt.Mint(minter, minter, uint256.NewInt(1)), ErrTooEarly)

	tt.chain.head.Timestamp = tt.MintingAllowedAfter() - 1
	require.ErrorIs(t, tt.Mint(minter, minter, uint256.NewInt(1)), ErrTooEarly)
	tt.chain.head.Timestamp++

	require.ErrorIs(t, tt.Mint(other, other, uint256.NewInt(1)), ErrNotMinter)
	require.ErrorIs(t, tt.Mint(minter, types.EmptyAddress, uint256.NewInt(1)), ErrZeroAddress)
	require.ErrorIs(t, tt.Mint(minter, minter, new(uint256.Int).AddUint64(
		new(uint256.Int).Div(supply, uint256.NewInt(100)), 1)), ErrExceedsCap)
	require.Equal(t, tt.genesis.MintingAllowedAfter, tt.MintingAllowedAfter())

	require.NoError(t, tt.Delegate(other, other))
	amount := new(uint256.Int).Div(supply, uint256.NewInt(100))
	require.NoError(t, tt.Mint(minter, other, amount))
	require.Equal(t, amount, tt.BalanceOf(other))
	require.Equal(t, amount, tt.GetCurrentVotes(other))
	require.Equal(t, new(uint256.Int).Add(supply, amount), tt.TotalSupply())
	require.Equal(t, tt.TotalSupply(), tt.sumOfBalances(minter, other))

	next := tt.MintingAllowedAfter()
	require.Greater(t, next, tt.genesis.MintingAllowedAfter)
	require.Equal(t, tt.chain.head.Timestamp+DefaultMinimumTimeBetweenMints, next)
	require.ErrorIs(t, tt.Mint(minter, other, uint256.NewInt(1)), ErrTooEarly)

	tt.chain.head.Timestamp = next
	supply = tt.TotalSupply()
	limit := new(uint256.Int).Div(supply, uint256.NewInt(100))
	require.ErrorIs(t, tt.Mint(minter, minter, new(uint256.Int).AddUint64(limit, 1)), ErrExceedsCap)
	require.NoError(t, tt.Mint(minter, minter, limit))
}

func TestMintCheckOrder(t *testing.T) {
	tt := newTester(t)
	// every check fails, the first one wins
	require.ErrorIs(t, tt.Mint(types.Address{1}, types.EmptyAddress, types.MaxAmount), ErrNotMinter)
	require.ErrorIs(t, tt.Mint(tt.wallet.Address(), types.EmptyAddress, types.MaxAmount), ErrTooEarly)
	tt.chain.head.Timestamp = tt.MintingAllowedAfter()
	require.ErrorIs(t, tt.Mint(tt.wallet.Address(), types.EmptyAddress, types.MaxAmount), ErrZeroAddress)
}

func TestSetMinter(t *testing.T) {
	tt := newTester(t)
	minter := tt.wallet.Address()
	next := types.Address{0xe}

	require.ErrorIs(t, tt.SetMinter(next, next), ErrNotMinter)
	require.NoError(t, tt.SetMinter(minter, next))
	require.Equal(t, next, tt.Minter())

	tt.chain.head.Timestamp = tt.MintingAllowedAfter()
	require.ErrorIs(t, tt.Mint(minter, minter, uint256.NewInt(1)), ErrNotMinter)
	require.NoError(t, tt.Mint(next, next, uint256.NewInt(1)))
}
