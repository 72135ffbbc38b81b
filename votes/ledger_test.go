package votes

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/go-shard/common/types"
)

func cp(block, votes uint64) types.Checkpoint {
	return types.Checkpoint{FromBlock: block, Votes: *uint256.NewInt(votes)}
}

func TestHistoryAt(t *testing.T) {
	history := History{cp(10, 1), cp(20, 2), cp(30, 3)}
	for _, tc := range []struct {
		desc  string
		block uint64
		want  uint64
	}{
		{"before first", 9, 0},
		{"at first", 10, 1},
		{"between", 15, 1},
		{"at middle", 20, 2},
		{"before last", 29, 2},
		{"at last", 30, 3},
		{"after last", 1000, 3},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			require.Equal(t, uint256.NewInt(tc.want), history.At(tc.block))
		})
	}
	require.True(t, History(nil).At(5).IsZero())
	require.True(t, History(nil).Latest().IsZero())
	require.Equal(t, uint256.NewInt(3), history.Latest())
}

func TestHistoryLarge(t *testing.T) {
	var history History
	for i := uint64(1); i <= 10_000; i++ {
		history = append(history, cp(i*2, i))
	}
	require.Equal(t, uint256.NewInt(4999), history.At(9999))
	require.Equal(t, uint256.NewInt(5000), history.At(10000))
	require.Equal(t, uint256.NewInt(10_000), history.At(1<<40))
	require.True(t, history.At(1).IsZero())
}

func TestLedgerWrite(t *testing.T) {
	account := types.Address{1}
	l := NewLedger()

	idx, _, err := l.Write(account, 1, uint256.NewInt(5))
	require.NoError(t, err)
	require.Equal(t, 0, idx)
	idx, _, err = l.Write(account, 3, uint256.NewInt(7))
	require.NoError(t, err)
	require.Equal(t, 1, idx)
	// same block coalesces
	idx, _, err = l.Write(account, 3, uint256.NewInt(9))
	require.NoError(t, err)
	require.Equal(t, 1, idx)

	expected := History{cp(1, 5), cp(3, 9)}
	if diff := cmp.Diff(expected, l.History(account)); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 2, l.Len(account))
	require.Equal(t, uint256.NewInt(9), l.Current(account))
	require.Equal(t, uint256.NewInt(5), l.At(account, 2))

	got, ok := l.Checkpoint(account, 1)
	require.True(t, ok)
	require.Equal(t, cp(3, 9), got)
	_, ok = l.Checkpoint(account, 2)
	require.False(t, ok)
	_, ok = l.Checkpoint(types.Address{2}, 0)
	require.False(t, ok)

	_, undo, err := l.Write(account, 2, uint256.NewInt(1))
	require.ErrorIs(t, err, ErrOutOfOrder)
	require.Nil(t, undo)
	if diff := cmp.Diff(expected, l.History(account)); diff != "" {
		t.Errorf("history changed after rejected write (-want +got):\n%s", diff)
	}
}

func TestLedgerUndo(t *testing.T) {
	account := types.Address{1}
	l := NewLedger()
	_, first, err := l.Write(account, 1, uint256.NewInt(5))
	require.NoError(t, err)
	before := l.History(account)

	_, appended, err := l.Write(account, 2, uint256.NewInt(6))
	require.NoError(t, err)
	_, coalesced, err := l.Write(account, 2, uint256.NewInt(8))
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(8), l.Current(account))

	// undo in reverse order
	coalesced()
	require.Equal(t, uint256.NewInt(6), l.Current(account))
	appended()
	if diff := cmp.Diff(before, l.History(account)); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
	first()
	require.Zero(t, l.Len(account))
	require.Nil(t, l.History(account))

	var visited int
	l.Iterate(func(types.Address, History) bool {
		visited++
		return true
	})
	require.Zero(t, visited)
}

func TestLedgerWriteDoesNotAlias(t *testing.T) {
	account := types.Address{1}
	l := NewLedger()
	votes := uint256.NewInt(5)
	_, _, err := l.Write(account, 1, votes)
	require.NoError(t, err)
	votes.SetUint64(100)
	require.Equal(t, uint256.NewInt(5), l.Current(account))

	copied := l.History(account)
	copied[0].Votes = *uint256.NewInt(42)
	require.Equal(t, uint256.NewInt(5), l.Current(account))
}

func TestLedgerLoad(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.Load(types.Address{1}, History{cp(1, 1), cp(4, 2)}))
	require.ErrorIs(t, l.Load(types.Address{2}, History{cp(4, 1), cp(4, 2)}), ErrOutOfOrder)
	require.Equal(t, uint256.NewInt(2), l.Current(types.Address{1}))

	accounts := map[types.Address]int{}
	l.Iterate(func(account types.Address, h History) bool {
		accounts[account] = len(h)
		return true
	})
	require.Equal(t, map[types.Address]int{{1}: 2}, accounts)
}
