package types

import (
	"github.com/holiman/uint256"
	"github.com/spacemeshos/go-scale"
	"go.uber.org/zap/zapcore"
)

// VestingSchedule releases Amount to Recipient linearly between Begin and End.
// Nothing is claimable before Cliff. All timestamps are unix seconds.
type VestingSchedule struct {
	Recipient  Address
	Amount     uint256.Int
	Begin      uint64
	Cliff      uint64
	End        uint64
	LastUpdate uint64
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (v *VestingSchedule) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("recipient", v.Recipient.Hex())
	encoder.AddString("amount", v.Amount.Dec())
	encoder.AddUint64("begin", v.Begin)
	encoder.AddUint64("cliff", v.Cliff)
	encoder.AddUint64("end", v.End)
	encoder.AddUint64("last_update", v.LastUpdate)
	return nil
}

// EncodeScale implements scale codec interface.
func (v *VestingSchedule) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := EncodeAddress(enc, &v.Recipient)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := EncodeAmount(enc, &v.Amount)
		if err != nil {
			return total, err
		}
		total += n
	}
	for _, field := range []uint64{v.Begin, v.Cliff, v.End, v.LastUpdate} {
		n, err := scale.EncodeCompact64(enc, field)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale codec interface.
func (v *VestingSchedule) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		n, err := DecodeAddress(dec, &v.Recipient)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := DecodeAmount(dec, &v.Amount)
		if err != nil {
			return total, err
		}
		total += n
	}
	for _, field := range []*uint64{&v.Begin, &v.Cliff, &v.End, &v.LastUpdate} {
		value, n, err := scale.DecodeCompact64(dec)
		if err != nil {
			return total, err
		}
		total += n
		*field = value
	}
	return total, nil
}

// Supply is the persisted total supply, wrapped so that it can be stored as a blob.
type Supply struct {
	uint256.Int
}

// EncodeScale implements scale codec interface.
func (s *Supply) EncodeScale(enc *scale.Encoder) (int, error) {
	return EncodeAmount(enc, &s.Int)
}

// DecodeScale implements scale codec interface.
func (s *Supply) DecodeScale(dec *scale.Decoder) (int, error) {
	return DecodeAmount(dec, &s.Int)
}
