package eip712

import (
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/spacemeshos/go-shard/common/types"
)

// Permit approves Spender to spend Value on behalf of Owner.
type Permit struct {
	Owner    types.Address `json:"owner"`
	Spender  types.Address `json:"spender"`
	Value    *uint256.Int  `json:"value"`
	Nonce    *uint256.Int  `json:"nonce"`
	Deadline *uint256.Int  `json:"deadline"`
}

// StructHash implements Message.
func (p *Permit) StructHash() types.Hash32 {
	return crypto.Keccak256Hash(
		PermitTypeHash[:],
		addressWord(p.Owner),
		addressWord(p.Spender),
		amountWord(p.Value),
		amountWord(p.Nonce),
		amountWord(p.Deadline),
	)
}

// Transfer moves Value from the signer to To.
type Transfer struct {
	To     types.Address `json:"to"`
	Value  *uint256.Int  `json:"value"`
	Nonce  *uint256.Int  `json:"nonce"`
	Expiry *uint256.Int  `json:"expiry"`
}

// StructHash implements Message.
func (t *Transfer) StructHash() types.Hash32 {
	return crypto.Keccak256Hash(
		TransferTypeHash[:],
		addressWord(t.To),
		amountWord(t.Value),
		amountWord(t.Nonce),
		amountWord(t.Expiry),
	)
}

// TransferWithFee moves Value from the signer to To and pays Fee to whoever submits it.
// The fee receiver is chosen by the submitter and is not part of the signed data.
type TransferWithFee struct {
	To     types.Address `json:"to"`
	Value  *uint256.Int  `json:"value"`
	Fee    *uint256.Int  `json:"fee"`
	Nonce  *uint256.Int  `json:"nonce"`
	Expiry *uint256.Int  `json:"expiry"`
}

// StructHash implements Message.
func (t *TransferWithFee) StructHash() types.Hash32 {
	return crypto.Keccak256Hash(
		TransferWithFeeTypeHash[:],
		addressWord(t.To),
		amountWord(t.Value),
		amountWord(t.Fee),
		amountWord(t.Nonce),
		amountWord(t.Expiry),
	)
}

// Delegation delegates the signer's votes to Delegatee.
type Delegation struct {
	Delegatee types.Address `json:"delegatee"`
	Nonce     *uint256.Int  `json:"nonce"`
	Expiry    *uint256.Int  `json:"expiry"`
}

// StructHash implements Message.
func (d *Delegation) StructHash() types.Hash32 {
	return crypto.Keccak256Hash(
		DelegationTypeHash[:],
		addressWord(d.Delegatee),
		amountWord(d.Nonce),
		amountWord(d.Expiry),
	)
}
