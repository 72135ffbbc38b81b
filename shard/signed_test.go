package shard

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/go-shard/common/types"
	"github.com/spacemeshos/go-shard/eip712"
)

func TestPermit(t *testing.T) {
	tt := newTester(t)
	owner := tt.wallet.Address()
	spender := types.Address{0xb}
	value := uint256.NewInt(123)
	deadline := types.MaxAmount

	sig := tt.sign(tt.wallet, &eip712.Permit{
		Owner:    owner,
		Spender:  spender,
		Value:    value,
		Nonce:    uint256.NewInt(0),
		Deadline: deadline,
	})
	require.NoError(t, tt.Permit(owner, spender, value, deadline, sig))
	require.Equal(t, value, tt.Allowance(owner, spender))
	require.Equal(t, uint64(1), tt.Nonces(owner))

	require.NoError(t, tt.TransferFrom(spender, owner, spender, value))
	require.Equal(t, value, tt.BalanceOf(spender))
	require.True(t, tt.Allowance(owner, spender).IsZero())
	require.ErrorIs(t, tt.TransferFrom(spender, owner, spender, value), ErrInsufficientAllowance)

	t.Run("replay", func(t *testing.T) {
		// the current nonce is hashed, so the old signature recovers someone else
		require.ErrorIs(t, tt.Permit(owner, spender, value, deadline, sig), ErrInvalidSignature)
		require.Equal(t, uint64(1), tt.Nonces(owner))
	})
	t.Run("signed by someone else", func(t *testing.T) {
		other := tt.signer()
		sig := tt.sign(other, &eip712.Permit{
			Owner:    owner,
			Spender:  spender,
			Value:    value,
			Nonce:    uint256.NewInt(1),
			Deadline: deadline,
		})
		require.ErrorIs(t, tt.Permit(owner, spender, value, deadline, sig), ErrInvalidSignature)
	})
	t.Run("other domain", func(t *testing.T) {
		domain := tt.Domain()
		domain.ChainID++
		sig, err := tt.wallet.Sign(&domain, &eip712.Permit{
			Owner:    owner,
			Spender:  spender,
			Value:    value,
			Nonce:    uint256.NewInt(1),
			Deadline: deadline,
		})
		require.NoError(t, err)
		require.ErrorIs(t, tt.Permit(owner, spender, value, deadline, sig), ErrInvalidSignature)
	})
	t.Run("expired", func(t *testing.T) {
		deadline := uint256.NewInt(tt.chain.head.Timestamp - 1)
		sig := tt.sign(tt.wallet, &eip712.Permit{
			Owner:    owner,
			Spender:  spender,
			Value:    value,
			Nonce:    uint256.NewInt(1),
			Deadline: deadline,
		})
		require.ErrorIs(t, tt.Permit(owner, spender, value, deadline, sig), ErrExpiredSignature)
		require.Equal(t, uint64(1), tt.Nonces(owner))
	})
	t.Run("deadline is inclusive", func(t *testing.T) {
		deadline := uint256.NewInt(tt.chain.head.Timestamp)
		sig := tt.sign(tt.wallet, &eip712.Permit{
			Owner:    owner,
			Spender:  spender,
			Value:    types.MaxAmount,
			Nonce:    uint256.NewInt(1),
			Deadline: deadline,
		})
		require.NoError(t, tt.Permit(owner, spender, types.MaxAmount, deadline, sig))
		require.Equal(t, types.MaxAmount, tt.Allowance(owner, spender))
		require.Equal(t, uint64(2), tt.Nonces(owner))
	})
}

func TestTransferBySig(t *testing.T) {
	tt := newTester(t)
	signer := tt.wallet.Address()
	to := types.Address{0xa}
	value := uint256.NewInt(123)
	expiry := types.MaxAmount

	msg := &eip712.Transfer{To: to, Value: value, Nonce: uint256.NewInt(0), Expiry: expiry}
	sig := tt.sign(tt.wallet, msg)
	require.NoError(t, tt.TransferBySig(to, value, msg.Nonce, expiry, sig))
	require.Equal(t, uint64(1), tt.Nonces(signer))
	require.Equal(t, value, tt.BalanceOf(to))

	t.Run("replay", func(t *testing.T) {
		require.ErrorIs(t, tt.TransferBySig(to, value, msg.Nonce, expiry, sig), ErrInvalidNonce)
		require.Equal(t, value, tt.BalanceOf(to))
	})
	t.Run("future nonce", func(t *testing.T) {
		msg := &eip712.Transfer{To: to, Value: value, Nonce: uint256.NewInt(2), Expiry: expiry}
		sig := tt.sign(tt.wallet, msg)
		require.ErrorIs(t, tt.TransferBySig(to, value, msg.Nonce, expiry, sig), ErrInvalidNonce)
		require.Equal(t, uint64(1), tt.Nonces(signer))
	})
	t.Run("nonce above 64 bits", func(t *testing.T) {
		nonce := new(uint256.Int).Lsh(uint256.NewInt(1), 64)
		msg := &eip712.Transfer{To: to, Value: value, Nonce: nonce, Expiry: expiry}
		sig := tt.sign(tt.wallet, msg)
		require.ErrorIs(t, tt.TransferBySig(to, value, nonce, expiry, sig), ErrInvalidNonce)
	})
	t.Run("expiry checked before nonce", func(t *testing.T) {
		expiry := uint256.NewInt(1)
		msg := &eip712.Transfer{To: to, Value: value, Nonce: uint256.NewInt(7), Expiry: expiry}
		sig := tt.sign(tt.wallet, msg)
		require.ErrorIs(t, tt.TransferBySig(to, value, msg.Nonce, expiry, sig), ErrExpiredSignature)
	})
	t.Run("malformed signature", func(t *testing.T) {
		bad := sig
		bad.V = 29
		require.ErrorIs(t, tt.TransferBySig(to, value, uint256.NewInt(1), expiry, bad), ErrInvalidSignature)
	})
	t.Run("tampered value", func(t *testing.T) {
		msg := &eip712.Transfer{To: to, Value: value, Nonce: uint256.NewInt(1), Expiry: expiry}
		sig := tt.sign(tt.wallet, msg)
		// recovers an unrelated account that has no tokens
		err := tt.TransferBySig(to, uint256.NewInt(124), msg.Nonce, expiry, sig)
		require.Error(t, err)
		require.Equal(t, uint64(1), tt.Nonces(signer))
	})
	t.Run("insufficient balance keeps nonce", func(t *testing.T) {
		poor := tt.signer()
		msg := &eip712.Transfer{To: to, Value: value, Nonce: uint256.NewInt(0), Expiry: expiry}
		sig := tt.sign(poor, msg)
		require.ErrorIs(t, tt.TransferBySig(to, value, msg.Nonce, expiry, sig), ErrInsufficientBalance)
		require.Zero(t, tt.Nonces(poor.Address()))
	})
}

func TestTransferWithFeeBySig(t *testing.T) {
	tt := newTester(t)
	signer := tt.wallet.Address()
	to := types.Address{0xa}
	feeTo := types.Address{0xf}
	value := uint256.NewInt(123)
	fee := uint256.NewInt(10)
	expiry := types.MaxAmount
	require.NoError(t, tt.Delegate(signer, signer))
	require.NoError(t, tt.Delegate(to, to))
	require.NoError(t, tt.Delegate(feeTo, feeTo))

	msg := &eip712.TransferWithFee{To: to, Value: value, Fee: fee, Nonce: uint256.NewInt(0), Expiry: expiry}
	sig := tt.sign(tt.wallet, msg)
	require.NoError(t, tt.TransferWithFeeBySig(to, value, fee, msg.Nonce, expiry, feeTo, sig))
	require.Equal(t, uint64(1), tt.Nonces(signer))
	require.Equal(t, value, tt.BalanceOf(to))
	require.Equal(t, fee, tt.BalanceOf(feeTo))
	require.Equal(t, value, tt.GetCurrentVotes(to))
	require.Equal(t, fee, tt.GetCurrentVotes(feeTo))
	require.Equal(t, tt.BalanceOf(signer), tt.GetCurrentVotes(signer))

	t.Run("fee exceeds remaining balance", func(t *testing.T) {
		balance := tt.BalanceOf(signer)
		value := new(uint256.Int).Sub(balance, uint256.NewInt(5))
		msg := &eip712.TransferWithFee{To: to, Value: value, Fee: fee, Nonce: uint256.NewInt(1), Expiry: expiry}
		sig := tt.sign(tt.wallet, msg)
		require.ErrorIs(t, tt.TransferWithFeeBySig(to, value, fee, msg.Nonce, expiry, feeTo, sig),
			ErrInsufficientBalance)
		require.Equal(t, uint64(1), tt.Nonces(signer))
		require.Equal(t, balance, tt.BalanceOf(signer))
		require.Equal(t, uint256.NewInt(123), tt.BalanceOf(to))
	})
	t.Run("fee receiver is not signed", func(t *testing.T) {
		msg := &eip712.TransferWithFee{To: to, Value: value, Fee: fee, Nonce: uint256.NewInt(1), Expiry: expiry}
		sig := tt.sign(tt.wallet, msg)
		other := types.Address{0xe}
		require.NoError(t, tt.TransferWithFeeBySig(to, value, fee, msg.Nonce, expiry, other, sig))
		require.Equal(t, fee, tt.BalanceOf(other))
	})
}

func TestDelegateBySig(t *testing.T) {
	tt := newTester(t)
	signer := tt.wallet.Address()
	delegatee := types.Address{0xd}

	msg := &eip712.Delegation{Delegatee: delegatee, Nonce: uint256.NewInt(0), Expiry: types.MaxAmount}
	sig := tt.sign(tt.wallet, msg)
	require.NoError(t, tt.DelegateBySig(delegatee, msg.Nonce, msg.Expiry, sig))
	require.Equal(t, delegatee, tt.Delegates(signer))
	require.Equal(t, tt.TotalSupply(), tt.GetCurrentVotes(delegatee))

	require.ErrorIs(t, tt.DelegateBySig(delegatee, msg.Nonce, msg.Expiry, sig), ErrInvalidNonce)

	// nonces are shared across message types
	transfer := &eip712.Transfer{To: delegatee, Value: uint256.NewInt(1), Nonce: uint256.NewInt(0), Expiry: types.MaxAmount}
	sig = tt.sign(tt.wallet, transfer)
	require.ErrorIs(t, tt.TransferBySig(delegatee, transfer.Value, transfer.Nonce, transfer.Expiry, sig),
		ErrInvalidNonce)
}
