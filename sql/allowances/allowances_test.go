package allowances

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/go-shard/common/types"
	"github.com/spacemeshos/go-shard/sql"
)

func TestSetGet(t *testing.T) {
	db := sql.InMemory()
	owner, spender := types.Address{1}, types.Address{2}

	value, err := Get(db, owner, spender)
	require.NoError(t, err)
	require.True(t, value.IsZero())

	require.NoError(t, Set(db, owner, spender, uint256.NewInt(100)))
	require.NoError(t, Set(db, spender, owner, types.MaxAmount))
	value, err = Get(db, owner, spender)
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(100), value)

	require.NoError(t, Set(db, owner, spender, uint256.NewInt(40)))
	value, err = Get(db, owner, spender)
	require.NoError(t, err)
	require.Equal(t, uint256.NewInt(40), value)

	var all []Allowance
	require.NoError(t, IterateAllowances(db, func(a *Allowance) bool {
		all = append(all, *a)
		return true
	}))
	require.Equal(t, []Allowance{
		{Owner: owner, Spender: spender, Value: *uint256.NewInt(40)},
		{Owner: spender, Spender: owner, Value: *types.MaxAmount},
	}, all)

	require.NoError(t, Set(db, owner, spender, new(uint256.Int)))
	value, err = Get(db, owner, spender)
	require.NoError(t, err)
	require.True(t, value.IsZero())
}
