package types

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spacemeshos/go-scale"
)

// AddressLength is the expected length of the address.
const AddressLength = common.AddressLength

// ErrWrongAddress is returned when a string is not a hex encoded 20 byte address.
var ErrWrongAddress = errors.New("wrong address")

// Address of an account or a contract. It is an alias to the ethereum address so that
// signatures produced by standard wallets can be verified without conversions.
type Address = common.Address

// EmptyAddress is the zero address. Delegating to it means "no delegate".
var EmptyAddress Address

// Hash32 is a 32 byte keccak256 digest.
type Hash32 = common.Hash

// StringToAddress parses a 0x prefixed (or bare) hex address.
func StringToAddress(src string) (Address, error) {
	if !common.IsHexAddress(src) {
		return Address{}, fmt.Errorf("%w: %q", ErrWrongAddress, src)
	}
	return common.HexToAddress(src), nil
}

// ContractAddress derives the address of a contract created by deployer with the given nonce,
// following the CREATE rules.
func ContractAddress(deployer Address, nonce uint64) Address {
	return crypto.CreateAddress(deployer, nonce)
}

// EncodeAddress writes the address as a fixed size byte array.
func EncodeAddress(e *scale.Encoder, a *Address) (int, error) {
	return scale.EncodeByteArray(e, a[:])
}

// DecodeAddress reads the address encoded with EncodeAddress.
func DecodeAddress(d *scale.Decoder, a *Address) (int, error) {
	return scale.DecodeByteArray(d, a[:])
}
