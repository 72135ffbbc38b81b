package shard

import (
	"github.com/holiman/uint256"
	"go.uber.org/zap/zapcore"

	"github.com/spacemeshos/go-shard/common/types"
)

// Event is emitted by a committed operation.
type Event interface {
	zapcore.ObjectMarshaler
	Name() string
}

// Transfer of Value from From to To. Mints are transfers from the empty address.
type Transfer struct {
	From, To types.Address
	Value    uint256.Int
}

func (*Transfer) Name() string { return "Transfer" }

func (e *Transfer) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("from", e.From.Hex())
	encoder.AddString("to", e.To.Hex())
	encoder.AddString("value", e.Value.Dec())
	return nil
}

// Approval sets allowance of Spender over Owner's tokens to Value.
type Approval struct {
	Owner, Spender types.Address
	Value          uint256.Int
}

func (*Approval) Name() string { return "Approval" }

func (e *Approval) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("owner", e.Owner.Hex())
	encoder.AddString("spender", e.Spender.Hex())
	encoder.AddString("value", e.Value.Dec())
	return nil
}

// DelegateChanged is emitted when Delegator changes its delegate.
type DelegateChanged struct {
	Delegator, From, To types.Address
}

func (*DelegateChanged) Name() string { return "DelegateChanged" }

func (e *DelegateChanged) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("delegator", e.Delegator.Hex())
	encoder.AddString("from", e.From.Hex())
	encoder.AddString("to", e.To.Hex())
	return nil
}

// DelegateVotesChanged is emitted for every checkpoint write.
type DelegateVotesChanged struct {
	Delegate          types.Address
	Previous, Current uint256.Int
}

func (*DelegateVotesChanged) Name() string { return "DelegateVotesChanged" }

func (e *DelegateVotesChanged) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("delegate", e.Delegate.Hex())
	encoder.AddString("previous", e.Previous.Dec())
	encoder.AddString("current", e.Current.Dec())
	return nil
}

// MinterChanged is emitted when minting rights are passed to another address.
type MinterChanged struct {
	Minter, NewMinter types.Address
}

func (*MinterChanged) Name() string { return "MinterChanged" }

func (e *MinterChanged) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("minter", e.Minter.Hex())
	encoder.AddString("new_minter", e.NewMinter.Hex())
	return nil
}
