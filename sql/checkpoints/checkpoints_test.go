package checkpoints

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/go-shard/common/types"
	"github.com/spacemeshos/go-shard/sql"
)

func TestPutHistory(t *testing.T) {
	db := sql.InMemory()
	address := types.Address{1}
	history := []types.Checkpoint{
		{FromBlock: 1, Votes: *uint256.NewInt(10)},
		{FromBlock: 5, Votes: *uint256.NewInt(20)},
		{FromBlock: 9, Votes: *types.MaxAmount},
	}
	for i := range history {
		require.NoError(t, Put(db, address, i, &history[i]))
	}
	require.NoError(t, Put(db, types.Address{2}, 0, &history[0]))

	got, err := History(db, address)
	require.NoError(t, err)
	if diff := cmp.Diff(history, got); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
	count, err := Count(db, address)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	// overwrite of the same block
	history[2].Votes = *uint256.NewInt(30)
	require.NoError(t, Put(db, address, 2, &history[2]))
	latest, err := Latest(db, address, 100)
	require.NoError(t, err)
	require.Equal(t, history[2], latest)

	latest, err = Latest(db, address, 6)
	require.NoError(t, err)
	require.Equal(t, history[1], latest)
	_, err = Latest(db, address, 0)
	require.ErrorIs(t, err, sql.ErrNotFound)

	var accounts []types.Address
	require.NoError(t, IterateAccounts(db, func(address types.Address) bool {
		accounts = append(accounts, address)
		return true
	}))
	require.Equal(t, []types.Address{{1}, {2}}, accounts)
}
