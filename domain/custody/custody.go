package custody

import (
	"time"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/domain"
)

// LedgerClient reads the authoritative chain state. Both calls may be slow or fail.
type LedgerClient interface {
	OwnerOf(ctx ctx.Ctx, tokenId domain.TokenId) (domain.Address, error)
	BlockTimestamp(ctx ctx.Ctx) (time.Time, error)
}

// Observation is one custody read of a token.
type Observation struct {
	TokenId           domain.TokenId `json:"tokenId"`
	Owner             domain.Address `json:"owner"`
	HeldByMarketplace bool           `json:"heldByMarketplace"`
	// ObservedAt is the local time of the ledger read, used for staleness checks.
	ObservedAt time.Time `json:"observedAt"`
	Cached     bool      `json:"-"`
}

type ReadOptions struct {
	MaxStaleness *time.Duration
}

type ReadOptionsFunc func(*ReadOptions) error

func GetReadOptions(opts ...ReadOptionsFunc) (ReadOptions, error) {
	res := ReadOptions{}

	for _, opt := range opts {
		if err := opt(&res); err != nil {
			return res, err
		}
	}

	return res, nil
}

// WithMaxStaleness accepts a cached observation no older than d.
func WithMaxStaleness(d time.Duration) ReadOptionsFunc {
	return func(options *ReadOptions) error {
		options.MaxStaleness = &d
		return nil
	}
}

// WithFreshRead bypasses the cache. Used by every operation that moves custody or funds.
func WithFreshRead() ReadOptionsFunc {
	return WithMaxStaleness(0)
}

// Oracle reports who holds a token. A failed read returns domain.ErrOracleUnavailable,
// never a holder.
type Oracle interface {
	Observe(ctx ctx.Ctx, tokenId domain.TokenId, opts ...ReadOptionsFunc) (*Observation, error)
	IsCustodyHeldByMarketplace(ctx ctx.Ctx, tokenId domain.TokenId, opts ...ReadOptionsFunc) (bool, error)
	CurrentOwner(ctx ctx.Ctx, tokenId domain.TokenId, opts ...ReadOptionsFunc) (domain.Address, error)
	// Invalidate drops any cached observation of the token.
	Invalidate(ctx ctx.Ctx, tokenId domain.TokenId) error
}
