package cmd

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/spacemeshos/go-shard/common/types"
	"github.com/spacemeshos/go-shard/shard"
	"github.com/spacemeshos/go-shard/sql"
	"github.com/spacemeshos/go-shard/sql/accounts"
	"github.com/spacemeshos/go-shard/sql/allowances"
	"github.com/spacemeshos/go-shard/sql/checkpoints"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print schema version, head and state root of the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(a *app) error {
				schema, err := sql.Version("file:" + a.cfg.DBPath())
				if err != nil {
					return err
				}
				stored, err := accounts.All(a.db)
				if err != nil {
					return err
				}
				head := a.chain.Head()
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "schema: %d\n", schema)
				fmt.Fprintf(out, "head: %d at %d\n", head.Number, head.Timestamp)
				fmt.Fprintf(out, "root: %s\n", a.token.StateRoot().Hex())
				fmt.Fprintf(out, "supply: %s\n", a.token.TotalSupply().Dec())
				fmt.Fprintf(out, "accounts: %d\n", len(stored))
				return nil
			})
		},
	}
}

// inspectCmd reads records of an account as they are stored in the database.
func inspectCmd() *cobra.Command {
	var (
		block   uint64
		spender string
	)
	cmd := &cobra.Command{
		Use:   "inspect <address>",
		Short: "Print stored records of the account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := types.StringToAddress(args[0])
			if err != nil {
				return err
			}
			return run(cmd, func(a *app) error {
				out := cmd.OutOrStdout()
				stored, err := accounts.Get(a.db, account)
				switch {
				case errors.Is(err, sql.ErrNotFound):
					fmt.Fprintln(out, "account: not stored")
				case err != nil:
					return err
				default:
					fmt.Fprintf(out, "balance: %s\n", stored.Balance.Dec())
					fmt.Fprintf(out, "nonce: %d\n", stored.Nonce)
					fmt.Fprintf(out, "delegate: %s\n", stored.Delegate.Hex())
				}
				count, err := checkpoints.Count(a.db, account)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "checkpoints: %d\n", count)

				if cmd.Flags().Changed("block") {
					if head := a.chain.Head(); block >= head.Number {
						return fmt.Errorf("%w: block %d, head %d", shard.ErrNotYetDetermined, block, head.Number)
					}
					votes := new(uint256.Int)
					cp, err := checkpoints.Latest(a.db, account, block)
					switch {
					case err == nil:
						votes = &cp.Votes
					case !errors.Is(err, sql.ErrNotFound):
						return err
					}
					fmt.Fprintf(out, "votes at %d: %s\n", block, votes.Dec())
				}
				if spender != "" {
					address, err := types.StringToAddress(spender)
					if err != nil {
						return err
					}
					value, err := allowances.Get(a.db, account, address)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "allowance: %s\n", value.Dec())
				}
				return nil
			})
		},
	}
	cmd.Flags().Uint64Var(&block, "block", 0, "print stored votes at the end of this block")
	cmd.Flags().StringVar(&spender, "spender", "", "print stored allowance of this spender")
	return cmd
}
