package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-shard/chain"
	"github.com/spacemeshos/go-shard/common/types"
	"github.com/spacemeshos/go-shard/log"
	"github.com/spacemeshos/go-shard/shard"
	"github.com/spacemeshos/go-shard/vester"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the token from the genesis config and deploy configured vesters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			a, err := setup(cmd)
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, a.close())
			}()
			if err := a.initialize(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "token %s\n", a.tokenConfig().Address.Hex())
			for i := range a.cfg.Vesting {
				fmt.Fprintf(cmd.OutOrStdout(), "vester %s\n", a.vesterAddress(i).Hex())
			}
			return nil
		},
	}
}

func (a *app) initialize() error {
	if exists, err := shard.Exists(a.db); err != nil {
		return err
	} else if exists {
		return fmt.Errorf("%s is already initialized", a.cfg.DataDir)
	}
	c, err := chain.New(chain.WithDatabase(a.db), chain.WithLogger(a.logger.Named("chain")))
	if err != nil {
		return err
	}
	head := c.Head()
	genesis := a.cfg.Genesis
	if genesis.MintingAllowedAfter == 0 {
		genesis.MintingAllowedAfter = head.Timestamp + a.cfg.Token.MinimumTimeBetweenMints
	}
	token, err := shard.New(c, genesis, append(a.tokenOpts(), shard.WithDatabase(a.db))...)
	if err != nil {
		return err
	}
	a.chain = c
	a.token = token
	for i, vesting := range a.cfg.Vesting {
		if vesting.Amount == nil {
			return fmt.Errorf("vesting %d: amount is not set", i)
		}
		address := a.vesterAddress(i)
		v, err := vester.New(token, c, address, types.VestingSchedule{
			Recipient: vesting.Recipient,
			Amount:    *vesting.Amount,
			Begin:     head.Timestamp + vesting.Begin,
			Cliff:     head.Timestamp + vesting.Cliff,
			End:       head.Timestamp + vesting.End,
		}, vester.WithDatabase(a.db), vester.WithLogger(a.logger.Named("vester")))
		if err != nil {
			return fmt.Errorf("vesting %d: %w", i, err)
		}
		if err := token.Transfer(genesis.Account, v.Address(), vesting.Amount); err != nil {
			return fmt.Errorf("fund vester %s: %w", address.Hex(), err)
		}
	}
	a.logger.Info("initialized",
		zap.String("data-dir", a.cfg.DataDir),
		log.ZAddress("token", a.tokenConfig().Address),
		zap.Int("vesters", len(a.cfg.Vesting)),
		log.ZHash("root", token.StateRoot()),
	)
	return nil
}
