package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-shard/chain"
	"github.com/spacemeshos/go-shard/common/types"
	"github.com/spacemeshos/go-shard/config"
	"github.com/spacemeshos/go-shard/log"
	"github.com/spacemeshos/go-shard/metrics"
	"github.com/spacemeshos/go-shard/shard"
	"github.com/spacemeshos/go-shard/sql"
	"github.com/spacemeshos/go-shard/vester"
)

const lockFile = "LOCK"

// app is everything a command needs to work with the ledger in the data directory.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sql.Database
	chain  *chain.Chain
	token  *shard.Shard
	lock   *flock.Flock

	stopMetrics func(context.Context) error
}

// setup loads configuration and opens the database. Token and chain are not loaded.
func setup(cmd *cobra.Command) (*app, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, err
	}
	logger, err := log.New("shard", cfg.Logging.Level, cfg.Logging.Encoder)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", cfg.DataDir, err)
	}
	lock := flock.New(filepath.Join(cfg.DataDir, lockFile))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("flock %s: %w", lock.Path(), err)
	} else if !locked {
		return nil, fmt.Errorf("data dir %s is used by another process (locking file %s)", cfg.DataDir, lock.Path())
	}
	db, err := sql.Open("file:"+cfg.DBPath(),
		sql.WithLogger(logger.Named("db")),
		sql.WithLatencyMetering(cfg.Metrics.Enabled),
	)
	if err != nil {
		return nil, errors.Join(err, lock.Unlock())
	}
	a := &app{cfg: cfg, logger: logger, db: db, lock: lock}
	if cfg.Metrics.Enabled {
		a.stopMetrics = metrics.StartCollectingMetrics(logger, cfg.Metrics.Port)
	}
	return a, nil
}

// open is setup followed by loading chain and token from the database.
func open(cmd *cobra.Command) (*app, error) {
	a, err := setup(cmd)
	if err != nil {
		return nil, err
	}
	if err := a.recover(); err != nil {
		return nil, errors.Join(err, a.close())
	}
	return a, nil
}

func (a *app) tokenConfig() shard.Config {
	cfg := a.cfg.Token
	if cfg.Address == types.EmptyAddress {
		cfg.Address = types.ContractAddress(a.cfg.Genesis.Account, 0)
	}
	return cfg
}

// vesterAddress is the address of the i-th vester from the config. Vesters are deployed
// by the genesis account right after the token.
func (a *app) vesterAddress(i int) types.Address {
	return types.ContractAddress(a.cfg.Genesis.Account, uint64(i)+1)
}

func (a *app) tokenOpts() []shard.Opt {
	return []shard.Opt{
		shard.WithLogger(a.logger.Named("token")),
		shard.WithConfig(a.tokenConfig()),
		shard.WithEventHook(func(ev shard.Event) {
			a.logger.Debug("event", zap.String("name", ev.Name()), zap.Inline(ev))
		}),
	}
}

func (a *app) recover() error {
	c, err := chain.New(chain.WithDatabase(a.db), chain.WithLogger(a.logger.Named("chain")))
	if err != nil {
		return err
	}
	token, err := shard.Recover(c, a.db, a.tokenOpts()...)
	if errors.Is(err, sql.ErrNotFound) {
		return fmt.Errorf("%s is not initialized, run init first: %w", a.cfg.DataDir, err)
	} else if err != nil {
		return err
	}
	a.chain = c
	a.token = token
	return nil
}

func (a *app) vester(address types.Address) (*vester.Vester, error) {
	return vester.Recover(a.token, a.chain, a.db, address, vester.WithLogger(a.logger.Named("vester")))
}

func (a *app) close() error {
	var errs []error
	if a.stopMetrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		errs = append(errs, a.stopMetrics(ctx))
	}
	if len(a.cfg.Metrics.Push) > 0 {
		hostname, _ := os.Hostname()
		errs = append(errs, metrics.Push(a.logger.Named("metrics"), a.cfg.Metrics.Push, "go-shard", hostname))
	}
	a.logger.Debug("closing database", zap.Int("queries", a.db.QueryCount()))
	errs = append(errs, a.db.Close(), a.lock.Unlock())
	return errors.Join(errs...)
}

// run opens the app, calls fn and closes the app.
func run(cmd *cobra.Command, fn func(*app) error) (err error) {
	a, err := open(cmd)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.close())
	}()
	return fn(a)
}
