package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spacemeshos/go-shard/common/types"
	"github.com/spacemeshos/go-shard/vester"
)

func claimCmd() *cobra.Command {
	var (
		recipient string
		status    bool
	)
	cmd := &cobra.Command{
		Use:   "claim <vester>",
		Short: "Release vested tokens to the recipient",
		Long: `Release vested tokens to the recipient. Anyone can claim.
With --set-recipient the recipient (identified by --key) hands the allocation over.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := types.StringToAddress(args[0])
			if err != nil {
				return err
			}
			return run(cmd, func(a *app) error {
				v, err := a.vester(address)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				switch {
				case status:
					s := v.Schedule()
					fmt.Fprintf(out, "recipient: %s\n", s.Recipient.Hex())
					fmt.Fprintf(out, "amount: %s\n", s.Amount.Dec())
					fmt.Fprintf(out, "begin: %d\ncliff: %d\nend: %d\nlast update: %d\n",
						s.Begin, s.Cliff, s.End, s.LastUpdate)
					fmt.Fprintf(out, "balance: %s\n", a.token.BalanceOf(address).Dec())
					claimable, err := v.Claimable()
					if errors.Is(err, vester.ErrNotYet) {
						fmt.Fprintln(out, "claimable: 0")
						return nil
					} else if err != nil {
						return err
					}
					fmt.Fprintf(out, "claimable: %s\n", claimable.Dec())
					return nil
				case len(recipient) > 0:
					caller, err := keyAddress(cmd)
					if err != nil {
						return err
					}
					next, err := types.StringToAddress(recipient)
					if err != nil {
						return err
					}
					return v.SetRecipient(caller, next)
				default:
					amount, err := v.Claim()
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "released %s\n", amount.Dec())
					return nil
				}
			})
		},
	}
	cmd.Flags().StringVar(&recipient, "set-recipient", "", "change the recipient")
	cmd.Flags().String(keyFlag, "", "file with the hex encoded private key of the current recipient")
	cmd.Flags().BoolVar(&status, "status", false, "print the schedule and the claimable amount")
	cmd.MarkFlagsRequiredTogether("set-recipient", keyFlag)
	cmd.MarkFlagsMutuallyExclusive("set-recipient", "status")
	return cmd
}
