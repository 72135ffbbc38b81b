package eip712

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/spacemeshos/go-shard/common/types"
)

// SignatureSize is the size of the serialized signature: r ‖ s ‖ v.
const SignatureSize = 65

var (
	// ErrInvalidSignature is returned when the signer can't be recovered from a signature.
	ErrInvalidSignature = errors.New("eip712: invalid signature")
	// ErrWrongSignatureSize is returned when decoding a signature of the wrong length.
	ErrWrongSignatureSize = errors.New("eip712: wrong signature size")
)

// Signature is a recoverable secp256k1 signature in the (v, r, s) form used by wallets.
// V is either 27 or 28.
type Signature struct {
	V uint8
	R [32]byte
	S [32]byte
}

// Bytes returns r ‖ s ‖ v.
func (s Signature) Bytes() []byte {
	buf := make([]byte, SignatureSize)
	copy(buf, s.R[:])
	copy(buf[32:], s.S[:])
	buf[64] = s.V
	return buf
}

// SignatureFromBytes decodes r ‖ s ‖ v. V may be given either as 0/1 or as 27/28.
func SignatureFromBytes(buf []byte) (Signature, error) {
	var sig Signature
	if len(buf) != SignatureSize {
		return sig, fmt.Errorf("%w: %d", ErrWrongSignatureSize, len(buf))
	}
	copy(sig.R[:], buf[:32])
	copy(sig.S[:], buf[32:64])
	sig.V = buf[64]
	if sig.V < 27 {
		sig.V += 27
	}
	return sig, nil
}

// String returns 0x prefixed hex of Bytes.
func (s Signature) String() string {
	return "0x" + hex.EncodeToString(s.Bytes())
}

// MarshalText implements encoding.TextMarshaler.
func (s Signature) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Signature) UnmarshalText(text []byte) error {
	buf, err := hex.DecodeString(strings.TrimPrefix(string(text), "0x"))
	if err != nil {
		return fmt.Errorf("decode signature: %w", err)
	}
	sig, err := SignatureFromBytes(buf)
	if err != nil {
		return err
	}
	*s = sig
	return nil
}

// Recover returns the address that produced sig over digest.
// Signatures with s in the upper half of the curve order are rejected.
func Recover(digest types.Hash32, sig Signature) (types.Address, error) {
	if sig.V != 27 && sig.V != 28 {
		return types.EmptyAddress, fmt.Errorf("%w: v=%d", ErrInvalidSignature, sig.V)
	}
	r := new(big.Int).SetBytes(sig.R[:])
	s := new(big.Int).SetBytes(sig.S[:])
	if !crypto.ValidateSignatureValues(sig.V-27, r, s, true) {
		return types.EmptyAddress, fmt.Errorf("%w: values out of range", ErrInvalidSignature)
	}
	raw := sig.Bytes()
	raw[64] -= 27
	pub, err := crypto.SigToPub(digest[:], raw)
	if err != nil {
		return types.EmptyAddress, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}
	signer := crypto.PubkeyToAddress(*pub)
	if signer == types.EmptyAddress {
		return types.EmptyAddress, ErrInvalidSignature
	}
	return signer, nil
}
