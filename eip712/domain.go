package eip712

import (
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/spacemeshos/go-shard/common/types"
)

// Domain binds signatures to a single deployment of the token.
type Domain struct {
	Name              string
	ChainID           uint64
	VerifyingContract types.Address
}

// Separator returns the domain separator.
func (d Domain) Separator() types.Hash32 {
	return crypto.Keccak256Hash(
		DomainTypeHash[:],
		crypto.Keccak256([]byte(d.Name)),
		uint64Word(d.ChainID),
		addressWord(d.VerifyingContract),
	)
}

// Digest returns the hash that is signed for msg under the domain with the given separator.
func Digest(separator types.Hash32, msg Message) types.Hash32 {
	structHash := msg.StructHash()
	return crypto.Keccak256Hash([]byte{0x19, 0x01}, separator[:], structHash[:])
}
