package types

import (
	"github.com/holiman/uint256"
	"github.com/spacemeshos/go-scale"
	"go.uber.org/zap/zapcore"
)

// Checkpoint marks the number of votes an account has from a given block.
type Checkpoint struct {
	FromBlock uint64
	Votes     uint256.Int
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (c *Checkpoint) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddUint64("from_block", c.FromBlock)
	encoder.AddString("votes", c.Votes.Dec())
	return nil
}

// EncodeScale implements scale codec interface.
func (c *Checkpoint) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := scale.EncodeCompact64(enc, c.FromBlock)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := EncodeAmount(enc, &c.Votes)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale codec interface.
func (c *Checkpoint) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		field, n, err := scale.DecodeCompact64(dec)
		if err != nil {
			return total, err
		}
		total += n
		c.FromBlock = field
	}
	{
		n, err := DecodeAmount(dec, &c.Votes)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
