package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/spacemeshos/go-shard/common/types"
)

func mineCmd() *cobra.Command {
	var (
		at    uint64
		every time.Duration
	)
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Append a block to the local chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(a *app) error {
				if every > 0 {
					return a.chain.Run(cmd.Context(), every)
				}
				var (
					block types.Block
					err   error
				)
				if cmd.Flags().Changed("at") {
					block, err = a.chain.MineAt(at)
				} else {
					block, err = a.chain.Mine()
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "block %d at %d\n", block.Number, block.Timestamp)
				return nil
			})
		},
	}
	cmd.Flags().Uint64Var(&at, "at", 0, "unix timestamp of the block")
	cmd.Flags().DurationVar(&every, "every", 0, "keep mining a block every interval until interrupted")
	cmd.MarkFlagsMutuallyExclusive("at", "every")
	return cmd
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance <address>",
		Short: "Print balance, nonce, delegate and votes of the account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := types.StringToAddress(args[0])
			if err != nil {
				return err
			}
			return run(cmd, func(a *app) error {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "balance: %s\n", a.token.BalanceOf(account).Dec())
				fmt.Fprintf(out, "nonce: %d\n", a.token.Nonces(account))
				fmt.Fprintf(out, "delegate: %s\n", a.token.Delegates(account).Hex())
				fmt.Fprintf(out, "votes: %s\n", a.token.GetCurrentVotes(account).Dec())
				return nil
			})
		},
	}
}

func votesCmd() *cobra.Command {
	var (
		block   uint64
		history bool
	)
	cmd := &cobra.Command{
		Use:   "votes <address>",
		Short: "Print current or prior votes of the account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := types.StringToAddress(args[0])
			if err != nil {
				return err
			}
			return run(cmd, func(a *app) error {
				out := cmd.OutOrStdout()
				if history {
					for i := range a.token.NumCheckpoints(account) {
						cp, _ := a.token.Checkpoints(account, i)
						fmt.Fprintf(out, "%d: %s\n", cp.FromBlock, cp.Votes.Dec())
					}
					return nil
				}
				if !cmd.Flags().Changed("block") {
					fmt.Fprintln(out, a.token.GetCurrentVotes(account).Dec())
					return nil
				}
				votes, err := a.token.GetPriorVotes(account, block)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, votes.Dec())
				return nil
			})
		},
	}
	cmd.Flags().Uint64Var(&block, "block", 0, "print votes at the end of this block")
	cmd.Flags().BoolVar(&history, "history", false, "print every checkpoint")
	return cmd
}

func transferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer <to> <amount>",
		Short: "Transfer tokens from the key owner",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := keyAddress(cmd)
			if err != nil {
				return err
			}
			to, err := types.StringToAddress(args[0])
			if err != nil {
				return err
			}
			amount, err := types.ParseAmount(args[1])
			if err != nil {
				return err
			}
			return run(cmd, func(a *app) error {
				return a.token.Transfer(from, to, amount)
			})
		},
	}
	addKeyFlag(cmd)
	return cmd
}

func approveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve <spender> <amount>",
		Short: "Allow spender to transfer tokens of the key owner",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := keyAddress(cmd)
			if err != nil {
				return err
			}
			spender, err := types.StringToAddress(args[0])
			if err != nil {
				return err
			}
			amount, err := types.ParseAmount(args[1])
			if err != nil {
				return err
			}
			return run(cmd, func(a *app) error {
				return a.token.Approve(owner, spender, amount)
			})
		},
	}
	addKeyFlag(cmd)
	return cmd
}

func delegateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delegate <delegatee>",
		Short: "Delegate votes of the key owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delegator, err := keyAddress(cmd)
			if err != nil {
				return err
			}
			delegatee, err := types.StringToAddress(args[0])
			if err != nil {
				return err
			}
			return run(cmd, func(a *app) error {
				return a.token.Delegate(delegator, delegatee)
			})
		},
	}
	addKeyFlag(cmd)
	return cmd
}

func mintCmd() *cobra.Command {
	var minter string
	cmd := &cobra.Command{
		Use:   "mint <to> <amount>",
		Short: "Mint new tokens, or change the minter with --set-minter",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := keyAddress(cmd)
			if err != nil {
				return err
			}
			if len(minter) > 0 {
				next, err := types.StringToAddress(minter)
				if err != nil {
					return err
				}
				return run(cmd, func(a *app) error {
					return a.token.SetMinter(caller, next)
				})
			}
			if len(args) != 2 {
				return fmt.Errorf("mint expects <to> <amount>, got %d arguments", len(args))
			}
			to, err := types.StringToAddress(args[0])
			if err != nil {
				return err
			}
			amount, err := types.ParseAmount(args[1])
			if err != nil {
				return err
			}
			return run(cmd, func(a *app) error {
				if err := a.token.Mint(caller, to, amount); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "next mint after %d\n", a.token.MintingAllowedAfter())
				return nil
			})
		},
	}
	addKeyFlag(cmd)
	cmd.Flags().StringVar(&minter, "set-minter", "", "transfer the minter role to this address")
	return cmd
}
