package types

import (
	"github.com/holiman/uint256"
	"github.com/spacemeshos/go-scale"
	"go.uber.org/zap/zapcore"
)

// MintingPolicy is the singleton state that gates inflation of the supply.
type MintingPolicy struct {
	Minter Address
	// MintingAllowedAfter is the unix timestamp from which the next mint is accepted.
	MintingAllowedAfter uint64
	// MinimumInterval in seconds that is added to the time of a successful mint.
	MinimumInterval uint64
	// CapPercent of the supply before the mint that can be minted at once.
	CapPercent uint64
}

// Cap returns the largest amount that can be minted against supply.
func (p *MintingPolicy) Cap(supply *uint256.Int) *uint256.Int {
	limit, _ := new(uint256.Int).MulDivOverflow(supply, uint256.NewInt(p.CapPercent), uint256.NewInt(100))
	return limit
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (p *MintingPolicy) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("minter", p.Minter.Hex())
	encoder.AddUint64("minting_allowed_after", p.MintingAllowedAfter)
	encoder.AddUint64("minimum_interval", p.MinimumInterval)
	encoder.AddUint64("cap_percent", p.CapPercent)
	return nil
}

// EncodeScale implements scale codec interface.
func (p *MintingPolicy) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := EncodeAddress(enc, &p.Minter)
		if err != nil {
			return total, err
		}
		total += n
	}
	for _, field := range []uint64{p.MintingAllowedAfter, p.MinimumInterval, p.CapPercent} {
		n, err := scale.EncodeCompact64(enc, field)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale codec interface.
func (p *MintingPolicy) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		n, err := DecodeAddress(dec, &p.Minter)
		if err != nil {
			return total, err
		}
		total += n
	}
	for _, field := range []*uint64{&p.MintingAllowedAfter, &p.MinimumInterval, &p.CapPercent} {
		value, n, err := scale.DecodeCompact64(dec)
		if err != nil {
			return total, err
		}
		total += n
		*field = value
	}
	return total, nil
}
