package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/holiman/uint256"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/spacemeshos/go-shard/common/types"
	"github.com/spacemeshos/go-shard/eip712"
)

const keyFlag = "key"

func addKeyFlag(cmd *cobra.Command) {
	cmd.Flags().String(keyFlag, "", "file with the hex encoded private key of the caller")
	_ = cmd.MarkFlagRequired(keyFlag)
}

func loadKey(cmd *cobra.Command) (*eip712.Signer, error) {
	path, err := cmd.Flags().GetString(keyFlag)
	if err != nil {
		return nil, err
	}
	return eip712.NewSigner(eip712.FromFile(path))
}

func keyAddress(cmd *cobra.Command) (types.Address, error) {
	signer, err := loadKey(cmd)
	if err != nil {
		return types.Address{}, err
	}
	return signer.Address(), nil
}

func keygenCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a private key and print its address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(out); err == nil {
				return fmt.Errorf("key file %s already exists", out)
			}
			signer, err := eip712.NewSigner()
			if err != nil {
				return err
			}
			if err := atomic.WriteFile(out, strings.NewReader(signer.PrivateKeyHex())); err != nil {
				return fmt.Errorf("write key to %s: %w", out, err)
			}
			if err := os.Chmod(out, 0o600); err != nil {
				return fmt.Errorf("restrict key file %s: %w", out, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), signer.Address().Hex())
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "key.hex", "file for the new key")
	return cmd
}

// Signed message types.
const (
	kindPermit          = "permit"
	kindTransfer        = "transfer"
	kindTransferWithFee = "transfer-with-fee"
	kindDelegation      = "delegation"
)

// signed is a message with its signature, as produced by sign and accepted by submit.
type signed struct {
	Kind            string                  `json:"kind"`
	Permit          *eip712.Permit          `json:"permit,omitempty"`
	Transfer        *eip712.Transfer        `json:"transfer,omitempty"`
	TransferWithFee *eip712.TransferWithFee `json:"transferWithFee,omitempty"`
	Delegation      *eip712.Delegation      `json:"delegation,omitempty"`
	Signature       eip712.Signature        `json:"signature"`
}

func (s *signed) message() (eip712.Message, error) {
	var msg eip712.Message
	switch s.Kind {
	case kindPermit:
		if s.Permit != nil {
			msg = s.Permit
		}
	case kindTransfer:
		if s.Transfer != nil {
			msg = s.Transfer
		}
	case kindTransferWithFee:
		if s.TransferWithFee != nil {
			msg = s.TransferWithFee
		}
	case kindDelegation:
		if s.Delegation != nil {
			msg = s.Delegation
		}
	default:
		return nil, fmt.Errorf("unknown message kind %q", s.Kind)
	}
	if msg == nil {
		return nil, fmt.Errorf("%s message is missing", s.Kind)
	}
	return msg, nil
}

func signCmd() *cobra.Command {
	var (
		to, fee, value string
		nonce, expiry  uint64
		out            string
	)
	cmd := &cobra.Command{
		Use:   "sign <permit|transfer|transfer-with-fee|delegation>",
		Short: "Sign a message for submission by anyone",
		Long: `Sign a message for submission by anyone.
The receiver (spender for permit, delegatee for delegation) is set with --to.
Nonce defaults to the current nonce of the key owner, expiry to one hour after the head.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{kindPermit, kindTransfer, kindTransferWithFee, kindDelegation},
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := loadKey(cmd)
			if err != nil {
				return err
			}
			receiver, err := types.StringToAddress(to)
			if err != nil {
				return err
			}
			return run(cmd, func(a *app) error {
				if !cmd.Flags().Changed("nonce") {
					nonce = a.token.Nonces(signer.Address())
				}
				if !cmd.Flags().Changed("expiry") {
					expiry = a.chain.Head().Timestamp + 60*60
				}
				amount := func(src string) (*uint256.Int, error) {
					if len(src) == 0 {
						return new(uint256.Int), nil
					}
					return types.ParseAmount(src)
				}
				v, err := amount(value)
				if err != nil {
					return err
				}
				msg := signed{Kind: args[0]}
				switch msg.Kind {
				case kindPermit:
					msg.Permit = &eip712.Permit{
						Owner:    signer.Address(),
						Spender:  receiver,
						Value:    v,
						Nonce:    uint256.NewInt(nonce),
						Deadline: uint256.NewInt(expiry),
					}
				case kindTransfer:
					msg.Transfer = &eip712.Transfer{
						To:     receiver,
						Value:  v,
						Nonce:  uint256.NewInt(nonce),
						Expiry: uint256.NewInt(expiry),
					}
				case kindTransferWithFee:
					f, err := amount(fee)
					if err != nil {
						return err
					}
					msg.TransferWithFee = &eip712.TransferWithFee{
						To:     receiver,
						Value:  v,
						Fee:    f,
						Nonce:  uint256.NewInt(nonce),
						Expiry: uint256.NewInt(expiry),
					}
				case kindDelegation:
					msg.Delegation = &eip712.Delegation{
						Delegatee: receiver,
						Nonce:     uint256.NewInt(nonce),
						Expiry:    uint256.NewInt(expiry),
					}
				}
				m, err := msg.message()
				if err != nil {
					return err
				}
				domain := a.token.Domain()
				if msg.Signature, err = signer.Sign(&domain, m); err != nil {
					return err
				}
				data, err := json.MarshalIndent(&msg, "", "  ")
				if err != nil {
					return err
				}
				if len(out) == 0 {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
					return err
				}
				return atomic.WriteFile(out, strings.NewReader(string(data)))
			})
		},
	}
	addKeyFlag(cmd)
	cmd.Flags().StringVar(&to, "to", "", "receiver, spender or delegatee")
	cmd.Flags().StringVar(&value, "value", "", "amount in the smallest denomination")
	cmd.Flags().StringVar(&fee, "fee", "", "fee for transfer-with-fee")
	cmd.Flags().Uint64Var(&nonce, "nonce", 0, "nonce of the message")
	cmd.Flags().Uint64Var(&expiry, "expiry", 0, "unix timestamp after which the message is rejected")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the message to file instead of stdout")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func submitCmd() *cobra.Command {
	var feeTo string
	cmd := &cobra.Command{
		Use:   "submit <file|->",
		Short: "Submit a signed message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read message: %w", err)
			}
			var msg signed
			if err := json.Unmarshal(data, &msg); err != nil {
				return fmt.Errorf("decode message: %w", err)
			}
			if _, err := msg.message(); err != nil {
				return err
			}
			return run(cmd, func(a *app) error {
				switch msg.Kind {
				case kindPermit:
					p := msg.Permit
					return a.token.Permit(p.Owner, p.Spender, p.Value, p.Deadline, msg.Signature)
				case kindTransfer:
					t := msg.Transfer
					return a.token.TransferBySig(t.To, t.Value, t.Nonce, t.Expiry, msg.Signature)
				case kindTransferWithFee:
					if len(feeTo) == 0 {
						return errors.New("transfer-with-fee requires --fee-to")
					}
					receiver, err := types.StringToAddress(feeTo)
					if err != nil {
						return err
					}
					t := msg.TransferWithFee
					return a.token.TransferWithFeeBySig(t.To, t.Value, t.Fee, t.Nonce, t.Expiry, receiver, msg.Signature)
				default:
					d := msg.Delegation
					return a.token.DelegateBySig(d.Delegatee, d.Nonce, d.Expiry, msg.Signature)
				}
			})
		},
	}
	cmd.Flags().StringVar(&feeTo, "fee-to", "", "receiver of the fee for transfer-with-fee")
	return cmd
}
