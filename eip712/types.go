// Package eip712 implements typed structured data hashing and signer recovery for
// the signed token operations.
//
// Every signed operation hashes as keccak256(0x19 0x01 ‖ domainSeparator ‖ structHash),
// where domainSeparator binds the digest to the token name, the chain and the token
// address, and structHash binds it to a single operation type.
package eip712

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/spacemeshos/go-shard/common/types"
)

// Type strings. They must match byte for byte with the ones used by signers.
const (
	DomainType          = "EIP712Domain(string name,uint256 chainId,address verifyingContract)"
	PermitType          = "Permit(address owner,address spender,uint256 value,uint256 nonce,uint256 deadline)"
	TransferType        = "Transfer(address to,uint256 value,uint256 nonce,uint256 expiry)"
	TransferWithFeeType = "TransferWithFee(address to,uint256 value,uint256 fee,uint256 nonce,uint256 expiry)"
	DelegationType      = "Delegation(address delegatee,uint256 nonce,uint256 expiry)"
)

var (
	DomainTypeHash          = crypto.Keccak256Hash([]byte(DomainType))
	PermitTypeHash          = crypto.Keccak256Hash([]byte(PermitType))
	TransferTypeHash        = crypto.Keccak256Hash([]byte(TransferType))
	TransferWithFeeTypeHash = crypto.Keccak256Hash([]byte(TransferWithFeeType))
	DelegationTypeHash      = crypto.Keccak256Hash([]byte(DelegationType))
)

// Message is a typed structure that can be signed.
type Message interface {
	// StructHash is keccak256 of the type hash followed by abi encoded fields.
	StructHash() types.Hash32
}

func addressWord(a types.Address) []byte {
	return common.LeftPadBytes(a.Bytes(), 32)
}

func amountWord(v *uint256.Int) []byte {
	if v == nil {
		return make([]byte, 32)
	}
	b := v.Bytes32()
	return b[:]
}

func uint64Word(v uint64) []byte {
	return amountWord(uint256.NewInt(v))
}
