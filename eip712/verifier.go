package eip712

import (
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/spacemeshos/go-shard/common/types"
	"github.com/spacemeshos/go-shard/log"
	"github.com/spacemeshos/go-shard/metrics"
)

const defaultCacheSize = 1024

var recoverCache = metrics.NewCounter(
	"recover_cache",
	"eip712",
	"Signer recoveries served from cache or computed",
	[]string{"result"},
)

var (
	cacheHit  = recoverCache.WithLabelValues("hit")
	cacheMiss = recoverCache.WithLabelValues("miss")
)

type verifierConf struct {
	cacheSize int
	logger    *zap.Logger
}

// VerifierOpt modifies Verifier.
type VerifierOpt func(*verifierConf)

// WithCacheSize sets the number of recovered signers kept in memory.
func WithCacheSize(size int) VerifierOpt {
	return func(c *verifierConf) {
		c.cacheSize = size
	}
}

// WithLogger sets logger for the verifier.
func WithLogger(logger *zap.Logger) VerifierOpt {
	return func(c *verifierConf) {
		c.logger = logger
	}
}

// Verifier recovers signers of messages signed under one domain.
// Recovered signers are cached by (digest, signature).
type Verifier struct {
	logger    *zap.Logger
	domain    Domain
	separator types.Hash32
	cache     *lru.Cache[types.Hash32, types.Address]
}

// NewVerifier creates a verifier for the domain.
func NewVerifier(domain Domain, opts ...VerifierOpt) (*Verifier, error) {
	cfg := &verifierConf{
		cacheSize: defaultCacheSize,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	cache, err := lru.New[types.Hash32, types.Address](cfg.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create recovery cache: %w", err)
	}
	return &Verifier{
		logger:    cfg.logger,
		domain:    domain,
		separator: domain.Separator(),
		cache:     cache,
	}, nil
}

// Domain returns the domain of the verifier.
func (v *Verifier) Domain() Domain {
	return v.domain
}

// Separator returns the domain separator.
func (v *Verifier) Separator() types.Hash32 {
	return v.separator
}

// Digest of msg under the verifier domain.
func (v *Verifier) Digest(msg Message) types.Hash32 {
	return Digest(v.separator, msg)
}

// Recover returns the signer of msg.
func (v *Verifier) Recover(msg Message, sig Signature) (types.Address, error) {
	digest := v.Digest(msg)
	key := crypto.Keccak256Hash(digest[:], sig.Bytes())
	if signer, ok := v.cache.Get(key); ok {
		cacheHit.Inc()
		return signer, nil
	}
	cacheMiss.Inc()
	signer, err := Recover(digest, sig)
	if err != nil {
		v.logger.Debug("failed to recover signer",
			log.ZHash("digest", digest),
			zap.Error(err),
		)
		return types.EmptyAddress, err
	}
	v.cache.Add(key, signer)
	return signer, nil
}
