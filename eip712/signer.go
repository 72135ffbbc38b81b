package eip712

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/spacemeshos/go-shard/common/types"
)

type signerConf struct {
	key *ecdsa.PrivateKey
}

// SignerOpt modifies Signer.
type SignerOpt func(*signerConf) error

// WithPrivateKey sets the key used by Signer.
func WithPrivateKey(key *ecdsa.PrivateKey) SignerOpt {
	return func(c *signerConf) error {
		if c.key != nil {
			return errors.New("invalid option WithPrivateKey: private key already set")
		}
		c.key = key
		return nil
	}
}

// WithHexKey sets the key from its hex encoding.
func WithHexKey(data string) SignerOpt {
	return func(c *signerConf) error {
		if c.key != nil {
			return errors.New("invalid option WithHexKey: private key already set")
		}
		key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(data), "0x"))
		if err != nil {
			return fmt.Errorf("decode private key: %w", err)
		}
		c.key = key
		return nil
	}
}

// FromFile loads a hex encoded key from a file.
func FromFile(path string) SignerOpt {
	return func(c *signerConf) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read key file %s: %w", path, err)
		}
		return WithHexKey(string(data))(c)
	}
}

// WithKeyFromRand generates the key using the provided randomness source.
func WithKeyFromRand(rand io.Reader) SignerOpt {
	return func(c *signerConf) error {
		seed := make([]byte, 32)
		for {
			if _, err := io.ReadFull(rand, seed); err != nil {
				return fmt.Errorf("read key seed: %w", err)
			}
			// rejects zero and values that are not less than the curve order
			key, err := crypto.ToECDSA(seed)
			if err == nil {
				c.key = key
				return nil
			}
		}
	}
}

// Signer produces signatures for typed messages.
type Signer struct {
	key     *ecdsa.PrivateKey
	address types.Address
}

// NewSigner returns a signer. Without options a fresh key is generated.
func NewSigner(opts ...SignerOpt) (*Signer, error) {
	cfg := &signerConf{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.key == nil {
		key, err := crypto.GenerateKey()
		if err != nil {
			return nil, fmt.Errorf("generate key: %w", err)
		}
		cfg.key = key
	}
	return &Signer{
		key:     cfg.key,
		address: crypto.PubkeyToAddress(cfg.key.PublicKey),
	}, nil
}

// Address of the signer.
func (s *Signer) Address() types.Address {
	return s.address
}

// PrivateKeyHex returns the hex encoded private key, without 0x prefix.
func (s *Signer) PrivateKeyHex() string {
	return fmt.Sprintf("%x", crypto.FromECDSA(s.key))
}

// Sign msg under the domain.
func (s *Signer) Sign(domain *Domain, msg Message) (Signature, error) {
	digest := Digest(domain.Separator(), msg)
	raw, err := crypto.Sign(digest[:], s.key)
	if err != nil {
		return Signature{}, fmt.Errorf("sign digest %s: %w", digest.Hex(), err)
	}
	return SignatureFromBytes(raw)
}
