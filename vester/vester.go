// Package vester releases a fixed allocation of tokens to a single recipient, linearly
// between the beginning and the end of the vesting window. Nothing can be claimed before
// the cliff.
package vester

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-shard/common/types"
	"github.com/spacemeshos/go-shard/log"
	"github.com/spacemeshos/go-shard/sql"
	"github.com/spacemeshos/go-shard/sql/kvstore"
)

var (
	// ErrNotYet is returned if claim is requested before the cliff.
	ErrNotYet = errors.New("vester: not time yet")
	// ErrUnauthorized is returned if recipient change is requested by someone except recipient.
	ErrUnauthorized = errors.New("vester: unauthorized")
	// ErrInvalidSchedule is returned if the vesting window is malformed.
	ErrInvalidSchedule = errors.New("vester: invalid schedule")
)

type conf struct {
	logger *zap.Logger
	db     *sql.Database
}

// Opt modifies Vester.
type Opt func(*conf)

// WithLogger sets logger for the vester.
func WithLogger(logger *zap.Logger) Opt {
	return func(c *conf) {
		c.logger = logger
	}
}

// WithDatabase persists the schedule to db.
func WithDatabase(db *sql.Database) Opt {
	return func(c *conf) {
		c.db = db
	}
}

// Vester holds tokens on behalf of the recipient at its own address.
type Vester struct {
	logger  *zap.Logger
	token   Token
	blocks  BlockSource
	db      *sql.Database
	address types.Address

	mu       sync.Mutex
	schedule types.VestingSchedule
}

func scheduleKey(address types.Address) string {
	return "vester/" + address.Hex()
}

func newVester(token Token, blocks BlockSource, address types.Address, opts []Opt) *Vester {
	c := &conf{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return &Vester{
		logger:  c.logger.With(log.ZAddress("vester", address)),
		token:   token,
		blocks:  blocks,
		db:      c.db,
		address: address,
	}
}

// New creates a vester at address. Recipient, Amount, Begin, Cliff and End are taken from
// the schedule, LastUpdate starts at Begin.
//
// The vester doesn't fund itself, Amount tokens are expected to be transferred to address.
func New(
	token Token,
	blocks BlockSource,
	address types.Address,
	schedule types.VestingSchedule,
	opts ...Opt,
) (*Vester, error) {
	now := blocks.Head().Timestamp
	switch {
	case schedule.Begin < now:
		return nil, fmt.Errorf("%w: vesting begin %d too early, now %d", ErrInvalidSchedule, schedule.Begin, now)
	case schedule.Cliff < schedule.Begin:
		return nil, fmt.Errorf("%w: cliff %d is before begin %d", ErrInvalidSchedule, schedule.Cliff, schedule.Begin)
	case schedule.End <= schedule.Cliff:
		return nil, fmt.Errorf("%w: end %d is not after cliff %d", ErrInvalidSchedule, schedule.End, schedule.Cliff)
	}
	schedule.LastUpdate = schedule.Begin
	v := newVester(token, blocks, address, opts)
	v.schedule = schedule
	if err := v.persist(); err != nil {
		return nil, err
	}
	v.logger.Info("vester created", zap.Object("schedule", &v.schedule))
	return v, nil
}

// Recover loads the schedule of the vester at address from db.
func Recover(token Token, blocks BlockSource, db *sql.Database, address types.Address, opts ...Opt) (*Vester, error) {
	v := newVester(token, blocks, address, append(opts, WithDatabase(db)))
	if err := kvstore.Get(db, scheduleKey(address), &v.schedule); err != nil {
		return nil, fmt.Errorf("recover vester %s: %w", address.Hex(), err)
	}
	return v, nil
}

// Address of the vester.
func (v *Vester) Address() types.Address {
	return v.address
}

// Schedule returns a copy of the vesting schedule.
func (v *Vester) Schedule() types.VestingSchedule {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.schedule
}

// Claimable returns the amount that Claim would release now.
func (v *Vester) Claimable() (*uint256.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.claimable(v.blocks.Head().Timestamp)
}

func (v *Vester) claimable(now uint64) (*uint256.Int, error) {
	s := &v.schedule
	if now < s.Cliff {
		return nil, fmt.Errorf("%w: cliff %d, now %d", ErrNotYet, s.Cliff, now)
	}
	if now >= s.End {
		return v.token.BalanceOf(v.address), nil
	}
	amount, _ := new(uint256.Int).MulDivOverflow(
		&s.Amount,
		uint256.NewInt(now-s.LastUpdate),
		uint256.NewInt(s.End-s.Begin),
	)
	return amount, nil
}

// Claim transfers vested tokens to the recipient. Anyone can call it.
func (v *Vester) Claim() (*uint256.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	now := v.blocks.Head().Timestamp
	amount, err := v.claimable(now)
	if err != nil {
		claimNotYet.Inc()
		return nil, err
	}
	prev := v.schedule.LastUpdate
	v.schedule.LastUpdate = now
	// the schedule is stored before the transfer, a crash in between loses the claim
	// instead of releasing it twice
	if err := v.persist(); err != nil {
		v.schedule.LastUpdate = prev
		claimFailed.Inc()
		return nil, err
	}
	if err := v.token.Transfer(v.address, v.schedule.Recipient, amount); err != nil {
		v.schedule.LastUpdate = prev
		claimFailed.Inc()
		if perr := v.persist(); perr != nil {
			return nil, errors.Join(err, perr)
		}
		return nil, fmt.Errorf("release %s: %w", amount.Dec(), err)
	}
	claimOk.Inc()
	v.logger.Info("claimed",
		log.ZAddress("recipient", v.schedule.Recipient),
		log.ZAmount("amount", amount),
		zap.Uint64("now", now),
	)
	return amount, nil
}

// SetRecipient changes the recipient. Only the current recipient can do it.
func (v *Vester) SetRecipient(caller, recipient types.Address) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if caller != v.schedule.Recipient {
		return fmt.Errorf("%w: %s is not the recipient", ErrUnauthorized, caller.Hex())
	}
	prev := v.schedule.Recipient
	v.schedule.Recipient = recipient
	if err := v.persist(); err != nil {
		v.schedule.Recipient = prev
		return err
	}
	v.logger.Info("recipient changed",
		log.ZAddress("from", prev),
		log.ZAddress("to", recipient),
	)
	return nil
}

func (v *Vester) persist() error {
	if v.db == nil {
		return nil
	}
	if err := v.db.WithTx(context.Background(), func(tx *sql.Tx) error {
		return kvstore.Set(tx, scheduleKey(v.address), &v.schedule)
	}); err != nil {
		return fmt.Errorf("persist schedule: %w", err)
	}
	return nil
}
