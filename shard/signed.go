package shard

import (
	"fmt"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-shard/common/types"
	"github.com/spacemeshos/go-shard/eip712"
	"github.com/spacemeshos/go-shard/log"
)

// verify recovers the signer of msg and consumes its nonce.
//
// Checks run in order: signature, deadline, nonce. The nonce is incremented only if all of
// them pass, and the increment is reverted together with the rest of the operation.
func (s *Shard) verify(
	st *state,
	block types.Block,
	msg eip712.Message,
	sig eip712.Signature,
	nonce, deadline *uint256.Int,
	expected *types.Address,
) (types.Address, error) {
	signer, err := s.verifier.Recover(msg, sig)
	if err != nil {
		return types.EmptyAddress, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	if expected != nil && signer != *expected {
		return types.EmptyAddress, fmt.Errorf("%w: signed by %s, expected %s",
			ErrInvalidSignature, signer.Hex(), expected.Hex())
	}
	if deadline.LtUint64(block.Timestamp) {
		return types.EmptyAddress, fmt.Errorf("%w: deadline %s, now %d",
			ErrExpiredSignature, deadline.Dec(), block.Timestamp)
	}
	current := st.nonce(signer)
	if !nonce.IsUint64() || nonce.Uint64() != current {
		return types.EmptyAddress, fmt.Errorf("%w: %s != %d", ErrInvalidNonce, nonce.Dec(), current)
	}
	st.incNonce(signer)
	s.logger.Debug("signature accepted",
		log.ZAddress("signer", signer),
		zap.Uint64("nonce", current),
	)
	return signer, nil
}

// orZero treats a nil amount as zero.
func orZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v
}

// Permit sets allowance of spender over owner's tokens to value, authorized by the owner's
// signature. The signed nonce is the current nonce of the owner.
func (s *Shard) Permit(owner, spender types.Address, value, deadline *uint256.Int, sig eip712.Signature) error {
	value, deadline = orZero(value), orZero(deadline)
	return s.execute("permit", func(st *state, block types.Block) error {
		nonce := uint256.NewInt(st.nonce(owner))
		msg := &eip712.Permit{
			Owner:    owner,
			Spender:  spender,
			Value:    value,
			Nonce:    nonce,
			Deadline: deadline,
		}
		if _, err := s.verify(st, block, msg, sig, nonce, deadline, &owner); err != nil {
			return err
		}
		return approve(st, owner, spender, value)
	})
}

// TransferBySig transfers value from the signer to the receiver.
func (s *Shard) TransferBySig(to types.Address, value, nonce, expiry *uint256.Int, sig eip712.Signature) error {
	value, nonce, expiry = orZero(value), orZero(nonce), orZero(expiry)
	return s.execute("transfer_by_sig", func(st *state, block types.Block) error {
		msg := &eip712.Transfer{
			To:     to,
			Value:  value,
			Nonce:  nonce,
			Expiry: expiry,
		}
		signer, err := s.verify(st, block, msg, sig, nonce, expiry, nil)
		if err != nil {
			return err
		}
		return s.transferTokens(st, block, signer, to, value)
	})
}

// TransferWithFeeBySig transfers value from the signer to the receiver and fee from the signer
// to feeTo. The fee receiver is chosen by the submitter.
func (s *Shard) TransferWithFeeBySig(
	to types.Address,
	value, fee, nonce, expiry *uint256.Int,
	feeTo types.Address,
	sig eip712.Signature,
) error {
	value, fee, nonce, expiry = orZero(value), orZero(fee), orZero(nonce), orZero(expiry)
	return s.execute("transfer_with_fee_by_sig", func(st *state, block types.Block) error {
		msg := &eip712.TransferWithFee{
			To:     to,
			Value:  value,
			Fee:    fee,
			Nonce:  nonce,
			Expiry: expiry,
		}
		signer, err := s.verify(st, block, msg, sig, nonce, expiry, nil)
		if err != nil {
			return err
		}
		if err := s.transferTokens(st, block, signer, to, value); err != nil {
			return err
		}
		return s.transferTokens(st, block, signer, feeTo, fee)
	})
}

// DelegateBySig delegates votes of the signer to the delegatee.
func (s *Shard) DelegateBySig(delegatee types.Address, nonce, expiry *uint256.Int, sig eip712.Signature) error {
	nonce, expiry = orZero(nonce), orZero(expiry)
	return s.execute("delegate_by_sig", func(st *state, block types.Block) error {
		msg := &eip712.Delegation{
			Delegatee: delegatee,
			Nonce:     nonce,
			Expiry:    expiry,
		}
		signer, err := s.verify(st, block, msg, sig, nonce, expiry, nil)
		if err != nil {
			return err
		}
		return s.delegate(st, block, signer, delegatee)
	})
}
