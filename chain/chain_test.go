package chain

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/go-shard/common/types"
	"github.com/spacemeshos/go-shard/log/logtest"
	"github.com/spacemeshos/go-shard/sql"
)

var genesis = time.Unix(1_700_000_000, 0)

func TestMine(t *testing.T) {
	clock := clockwork.NewFakeClockAt(genesis)
	c, err := New(WithClock(clock), WithLogger(logtest.New(t)))
	require.NoError(t, err)
	require.Equal(t, types.Block{Number: 1, Timestamp: uint64(genesis.Unix())}, c.Head())

	clock.Advance(12 * time.Second)
	block, err := c.Mine()
	require.NoError(t, err)
	require.Equal(t, types.Block{Number: 2, Timestamp: uint64(genesis.Unix()) + 12}, block)
	require.Equal(t, block, c.Head())

	block, err = c.MineAt(block.Timestamp + 100)
	require.NoError(t, err)
	require.EqualValues(t, 3, block.Number)

	// clock is behind the head, timestamp doesn't go back
	block, err = c.Mine()
	require.NoError(t, err)
	require.EqualValues(t, 4, block.Number)
	require.Equal(t, uint64(genesis.Unix())+112, block.Timestamp)

	_, err = c.MineAt(block.Timestamp - 1)
	require.ErrorIs(t, err, ErrTimeTravel)
	require.EqualValues(t, 4, c.Head().Number)

	block, err = c.MineAt(block.Timestamp)
	require.NoError(t, err)
	require.EqualValues(t, 5, block.Number)
}

func TestRecover(t *testing.T) {
	db := sql.InMemory()
	clock := clockwork.NewFakeClockAt(genesis)
	c, err := New(WithClock(clock), WithDatabase(db))
	require.NoError(t, err)
	for range 3 {
		clock.Advance(time.Second)
		_, err := c.Mine()
		require.NoError(t, err)
	}

	clock.Advance(time.Hour)
	recovered, err := New(WithClock(clock), WithDatabase(db))
	require.NoError(t, err)
	require.Equal(t, c.Head(), recovered.Head())
	require.EqualValues(t, 4, recovered.Head().Number)
}

func TestRun(t *testing.T) {
	clock := clockwork.NewFakeClockAt(genesis)
	c, err := New(WithClock(clock))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		errc <- c.Run(ctx, 5*time.Second)
	}()
	clock.BlockUntil(1)
	clock.Advance(5 * time.Second)
	require.Eventually(t, func() bool {
		return c.Head().Number == 2
	}, time.Second, time.Millisecond)
	require.Equal(t, uint64(genesis.Unix())+5, c.Head().Timestamp)

	cancel()
	require.ErrorIs(t, <-errc, context.Canceled)
}
