package types

import (
	"github.com/spacemeshos/go-scale"
	"go.uber.org/zap/zapcore"
)

// Block is the reference point for every state transition: checkpoints are keyed by
// Number, while deadlines, expiries, minting and vesting are compared against Timestamp.
type Block struct {
	Number    uint64
	Timestamp uint64
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (b Block) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddUint64("number", b.Number)
	encoder.AddUint64("timestamp", b.Timestamp)
	return nil
}

// EncodeScale implements scale codec interface.
func (b *Block) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := scale.EncodeCompact64(enc, b.Number)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeCompact64(enc, b.Timestamp)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale codec interface.
func (b *Block) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		field, n, err := scale.DecodeCompact64(dec)
		if err != nil {
			return total, err
		}
		total += n
		b.Number = field
	}
	{
		field, n, err := scale.DecodeCompact64(dec)
		if err != nil {
			return total, err
		}
		total += n
		b.Timestamp = field
	}
	return total, nil
}
