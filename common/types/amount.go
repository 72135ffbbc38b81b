package types

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/spacemeshos/go-scale"
)

// Decimals is the number of decimal places of one whole token.
const Decimals = 18

var unit = uint256.NewInt(1_000_000_000_000_000_000)

// MaxAmount is 2^256-1. Allowances equal to MaxAmount are never decremented.
var MaxAmount = new(uint256.Int).SetAllOne()

// ExpandDecimals returns n whole tokens in the smallest denomination.
func ExpandDecimals(n uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(n), unit)
}

// ParseAmount parses a decimal or 0x prefixed hex amount.
func ParseAmount(src string) (*uint256.Int, error) {
	if len(src) > 2 && src[:2] == "0x" {
		v, err := uint256.FromHex(src)
		if err != nil {
			return nil, fmt.Errorf("parse amount %q: %w", src, err)
		}
		return v, nil
	}
	v, err := uint256.FromDecimal(src)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", src, err)
	}
	return v, nil
}

// EncodeAmount writes the amount as a 32 byte big endian array.
func EncodeAmount(e *scale.Encoder, v *uint256.Int) (int, error) {
	b := v.Bytes32()
	return scale.EncodeByteArray(e, b[:])
}

// DecodeAmount reads the amount encoded with EncodeAmount.
func DecodeAmount(d *scale.Decoder, v *uint256.Int) (int, error) {
	var b [32]byte
	n, err := scale.DecodeByteArray(d, b[:])
	if err != nil {
		return n, err
	}
	v.SetBytes32(b[:])
	return n, nil
}
