// Package shard implements the Shard governance token: balances and allowances,
// delegated voting power with historical checkpoints, operations authorized by typed
// signatures and a capped minting schedule.
//
// Every mutating operation executes against the block returned by the BlockSource and
// either applies completely or leaves no trace, including in the database.
package shard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-shard/common/types"
	"github.com/spacemeshos/go-shard/eip712"
	"github.com/spacemeshos/go-shard/log"
	"github.com/spacemeshos/go-shard/sql"
)

var (
	// ErrNotMinter is returned if mint or minter change is requested by someone except minter.
	ErrNotMinter = errors.New("shard: only the minter can mint")
	// ErrTooEarly is returned if mint is requested before minting is allowed.
	ErrTooEarly = errors.New("shard: minting not allowed yet")
	// ErrZeroAddress is returned when tokens would be moved from or to the empty address.
	ErrZeroAddress = errors.New("shard: zero address")
	// ErrExceedsCap is returned if mint amount exceeds the allowed share of the supply.
	ErrExceedsCap = errors.New("shard: amount exceeds mint allowance")
	// ErrInvalidSignature is returned if signer can't be recovered or doesn't match.
	ErrInvalidSignature = errors.New("shard: invalid signature")
	// ErrExpiredSignature is returned if signature is submitted after its deadline.
	ErrExpiredSignature = errors.New("shard: signature expired")
	// ErrInvalidNonce is returned if nonce of the signed message is not the current nonce of the signer.
	ErrInvalidNonce = errors.New("shard: invalid nonce")
	// ErrInsufficientBalance is returned if balance is lower than the transferred amount.
	ErrInsufficientBalance = errors.New("shard: transfer amount exceeds balance")
	// ErrInsufficientAllowance is returned if allowance is lower than the transferred amount.
	ErrInsufficientAllowance = errors.New("shard: transfer amount exceeds spender allowance")
	// ErrNotYetDetermined is returned for vote queries at the current block or later.
	ErrNotYetDetermined = errors.New("shard: not yet determined")
	// ErrOverflow is returned if an amount doesn't fit into 256 bits.
	ErrOverflow = errors.New("shard: amount overflows")
	// ErrInvalidGenesis is returned if the initial state can't be created.
	ErrInvalidGenesis = errors.New("shard: invalid genesis")
)

type conf struct {
	logger *zap.Logger
	cfg    Config
	db     *sql.Database
	hooks  []func(Event)
}

// Opt modifies the token.
type Opt func(*conf)

// WithLogger sets logger for the token.
func WithLogger(logger *zap.Logger) Opt {
	return func(c *conf) {
		c.logger = logger
	}
}

// WithConfig sets config for the token.
func WithConfig(cfg Config) Opt {
	return func(c *conf) {
		c.cfg = cfg
	}
}

// WithDatabase persists every committed operation to db.
func WithDatabase(db *sql.Database) Opt {
	return func(c *conf) {
		c.db = db
	}
}

// WithEventHook registers a function that receives events of committed operations.
func WithEventHook(hook func(Event)) Opt {
	return func(c *conf) {
		c.hooks = append(c.hooks, hook)
	}
}

// Shard is the token state machine. It is safe to use concurrently, operations are
// applied one at a time.
type Shard struct {
	logger   *zap.Logger
	cfg      Config
	blocks   BlockSource
	db       *sql.Database
	verifier *eip712.Verifier

	mu    sync.Mutex
	st    *state
	root  types.Hash32
	hooks []func(Event)
}

func newShard(blocks BlockSource, opts []Opt) (*Shard, error) {
	c := &conf{
		logger: zap.NewNop(),
		cfg:    DefaultConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	verifier, err := eip712.NewVerifier(eip712.Domain{
		Name:              Name,
		ChainID:           c.cfg.ChainID,
		VerifyingContract: c.cfg.Address,
	}, eip712.WithCacheSize(c.cfg.RecoveryCacheSize), eip712.WithLogger(c.logger))
	if err != nil {
		return nil, err
	}
	return &Shard{
		logger:   c.logger,
		cfg:      c.cfg,
		blocks:   blocks,
		db:       c.db,
		verifier: verifier,
		st:       newState(),
		hooks:    c.hooks,
	}, nil
}

// New creates the token and credits the whole genesis supply to the genesis account.
func New(blocks BlockSource, genesis Genesis, opts ...Opt) (*Shard, error) {
	s, err := newShard(blocks, opts)
	if err != nil {
		return nil, err
	}
	head := blocks.Head()
	if genesis.MintingAllowedAfter < head.Timestamp {
		return nil, fmt.Errorf("%w: minting can only begin after deployment (%d < %d)",
			ErrInvalidGenesis, genesis.MintingAllowedAfter, head.Timestamp)
	}
	if s.cfg.MintCapPercent > 100 {
		return nil, fmt.Errorf("%w: mint cap %d%% is above 100%%", ErrInvalidGenesis, s.cfg.MintCapPercent)
	}
	supply := genesis.Supply
	if supply == nil {
		supply = new(uint256.Int)
	}
	err = s.execute("genesis", func(st *state, block types.Block) error {
		st.setPolicy(types.MintingPolicy{
			Minter:              genesis.Minter,
			MintingAllowedAfter: genesis.MintingAllowedAfter,
			MinimumInterval:     s.cfg.MinimumTimeBetweenMints,
			CapPercent:          s.cfg.MintCapPercent,
		})
		st.setSupply(supply)
		if supply.IsZero() {
			return nil
		}
		if genesis.Account == types.EmptyAddress {
			return fmt.Errorf("%w: supply is credited to the zero address", ErrInvalidGenesis)
		}
		st.setBalance(genesis.Account, supply)
		st.emit(&Transfer{To: genesis.Account, Value: *supply})
		return s.moveDelegates(st, block, types.EmptyAddress, st.delegate(genesis.Account), supply)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("token created",
		log.ZAddress("address", s.cfg.Address),
		log.ZAddress("genesis", genesis.Account),
		log.ZAmount("supply", supply),
		zap.Object("policy", &s.st.policy),
	)
	return s, nil
}

// Recover loads the token state from db. Subsequent operations are persisted to the same db.
func Recover(blocks BlockSource, db *sql.Database, opts ...Opt) (*Shard, error) {
	s, err := newShard(blocks, append(opts, WithDatabase(db)))
	if err != nil {
		return nil, err
	}
	tx, err := db.Tx(context.Background())
	if err != nil {
		return nil, err
	}
	defer tx.Release()
	if err := s.load(tx); err != nil {
		return nil, fmt.Errorf("recover token: %w", err)
	}
	s.logger.Info("token recovered",
		log.ZHash("root", s.root),
		log.ZAmount("supply", &s.st.supply),
		zap.Object("policy", &s.st.policy),
	)
	return s, nil
}

// execute applies op atomically. If op or persisting its changes fails, the state is
// reverted to what it was before the call. Events are dispatched after the lock is released.
func (s *Shard) execute(name string, op func(*state, types.Block) error) error {
	events, hooks, err := s.apply(name, op)
	if err != nil {
		operations.WithLabelValues(name, outcomeFailed).Inc()
		return err
	}
	operations.WithLabelValues(name, outcomeOk).Inc()
	for _, ev := range events {
		for _, hook := range hooks {
			hook(ev)
		}
	}
	return nil
}

func (s *Shard) apply(name string, op func(*state, types.Block) error) ([]Event, []func(Event), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	block := s.blocks.Head()
	if err := op(s.st, block); err != nil {
		s.st.revert()
		s.logger.Debug("operation failed",
			zap.String("op", name),
			zap.Inline(block),
			zap.Error(err),
		)
		return nil, nil, err
	}
	root := s.st.fold(s.root, &s.st.changed)
	if err := s.persist(&s.st.changed, root); err != nil {
		s.st.revert()
		s.logger.Error("failed to persist operation",
			zap.String("op", name),
			zap.Inline(block),
			zap.Error(err),
		)
		return nil, nil, fmt.Errorf("persist %s: %w", name, err)
	}
	changed, events := s.st.commit()
	s.root = root

	for _, indexes := range changed.checkpoints {
		checkpointsWritten.Add(float64(len(indexes)))
	}
	totalSupply.Set(s.st.supply.Float64() / 1e18)
	s.logger.Debug("operation applied",
		zap.String("op", name),
		zap.Inline(block),
		log.ZShortStringer("root", root),
		zap.Int("events", len(events)),
	)
	return events, slices.Clone(s.hooks), nil
}

// Subscribe registers a function that receives events of subsequent committed operations.
func (s *Shard) Subscribe(hook func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

func (s *Shard) view() (*state, func()) {
	s.mu.Lock()
	return s.st, s.mu.Unlock
}

// StateRoot is a digest of the whole history of committed changes.
func (s *Shard) StateRoot() types.Hash32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

// DomainSeparator of the typed signatures accepted by the token.
func (s *Shard) DomainSeparator() types.Hash32 {
	return s.verifier.Separator()
}

// Domain of the typed signatures accepted by the token.
func (s *Shard) Domain() eip712.Domain {
	return s.verifier.Domain()
}

// Address of the token.
func (s *Shard) Address() types.Address {
	return s.cfg.Address
}

// Nonces returns the nonce that the next signed message of account must use.
func (s *Shard) Nonces(account types.Address) uint64 {
	st, release := s.view()
	defer release()
	return st.nonce(account)
}
