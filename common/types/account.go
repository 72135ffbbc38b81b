package types

import (
	"github.com/holiman/uint256"
	"go.uber.org/zap/zapcore"
)

// Account is the token state of a single address.
type Account struct {
	Address  Address
	Balance  uint256.Int
	Nonce    uint64
	Delegate Address
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (a *Account) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("address", a.Address.Hex())
	encoder.AddString("balance", a.Balance.Dec())
	encoder.AddUint64("nonce", a.Nonce)
	encoder.AddString("delegate", a.Delegate.Hex())
	return nil
}
