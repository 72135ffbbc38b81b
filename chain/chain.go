// Package chain produces local blocks that order token operations in time.
package chain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-shard/common/types"
	"github.com/spacemeshos/go-shard/metrics"
	"github.com/spacemeshos/go-shard/sql"
	"github.com/spacemeshos/go-shard/sql/kvstore"
)

const headKey = "chain/head"

// ErrTimeTravel is returned when a block is requested with a timestamp before the head.
var ErrTimeTravel = errors.New("chain: timestamp before head")

var headNumber = metrics.NewGauge(
	"head",
	"chain",
	"Number of the latest block",
	[]string{},
).WithLabelValues()

type Opt func(*Chain)

func WithLogger(logger *zap.Logger) Opt {
	return func(c *Chain) {
		c.logger = logger
	}
}

func WithClock(clock clockwork.Clock) Opt {
	return func(c *Chain) {
		c.clock = clock
	}
}

// WithDatabase persists the head to db. A head stored earlier is loaded by New.
func WithDatabase(db *sql.Database) Opt {
	return func(c *Chain) {
		c.db = db
	}
}

// Chain is a monotonic sequence of blocks. Numbers grow by one, timestamps never decrease.
type Chain struct {
	logger *zap.Logger
	clock  clockwork.Clock
	db     *sql.Database

	mu   sync.Mutex
	head types.Block
}

// New creates a chain with the first block at the current time, or restores the head from
// the database.
func New(opts ...Opt) (*Chain, error) {
	c := &Chain{
		logger: zap.NewNop(),
		clock:  clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.db != nil {
		err := kvstore.Get(c.db, headKey, &c.head)
		switch {
		case err == nil:
			c.logger.Info("loaded chain head", zap.Inline(c.head))
			headNumber.Set(float64(c.head.Number))
			return c, nil
		case !errors.Is(err, sql.ErrNotFound):
			return nil, fmt.Errorf("load head: %w", err)
		}
	}
	if err := c.append(types.Block{Number: 1, Timestamp: c.now()}); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Chain) now() uint64 {
	return uint64(c.clock.Now().Unix())
}

// Head returns the latest block.
func (c *Chain) Head() types.Block {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.head
}

// Mine appends a block stamped with the current time of the clock.
// If the clock is behind the head the timestamp of the head is reused.
func (c *Chain) Mine() (types.Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next(max(c.now(), c.head.Timestamp))
}

// MineAt appends a block with the given timestamp.
func (c *Chain) MineAt(timestamp uint64) (types.Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if timestamp < c.head.Timestamp {
		return types.Block{}, fmt.Errorf("%w: %d < %d", ErrTimeTravel, timestamp, c.head.Timestamp)
	}
	return c.next(timestamp)
}

func (c *Chain) next(timestamp uint64) (types.Block, error) {
	block := types.Block{Number: c.head.Number + 1, Timestamp: timestamp}
	if err := c.append(block); err != nil {
		return types.Block{}, err
	}
	c.logger.Debug("mined block", zap.Inline(block))
	return block, nil
}

func (c *Chain) append(block types.Block) error {
	if c.db != nil {
		if err := kvstore.Set(c.db, headKey, &block); err != nil {
			return fmt.Errorf("persist head %d: %w", block.Number, err)
		}
	}
	c.head = block
	headNumber.Set(float64(block.Number))
	return nil
}

// Run mines a block every interval until the context is canceled.
func (c *Chain) Run(ctx context.Context, interval time.Duration) error {
	ticker := c.clock.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			if _, err := c.Mine(); err != nil {
				return err
			}
		}
	}
}
