package usecase

import (
	"errors"
	"time"

	"golang.org/x/xerrors"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/base/log"
	"github.com/lovawin/sosh-test-sub004/base/metrics"
	"github.com/lovawin/sosh-test-sub004/domain"
	"github.com/lovawin/sosh-test-sub004/domain/custody"
	"github.com/lovawin/sosh-test-sub004/service/cache"
)

const defaultTimeout = 5 * time.Second

var met = metrics.New("custody")

type OracleUseCaseCfg struct {
	Ledger custody.LedgerClient
	// Marketplace is the escrow address holding listed tokens.
	Marketplace domain.Address
	// Timeout bounds every ledger read.
	Timeout time.Duration
	// Cache is optional. Only successful reads are stored.
	Cache cache.Service
	// MaxStaleness is the staleness bound of reads issued without options.
	// 0 disables cached reads.
	MaxStaleness time.Duration
}

type impl struct {
	ledger       custody.LedgerClient
	marketplace  domain.Address
	timeout      time.Duration
	cache        cache.Service
	maxStaleness time.Duration

	timeNow func() time.Time
}

func New(cfg *OracleUseCaseCfg) custody.Oracle {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &impl{
		ledger:       cfg.Ledger,
		marketplace:  cfg.Marketplace.ToLower(),
		timeout:      timeout,
		cache:        cfg.Cache,
		maxStaleness: cfg.MaxStaleness,
		timeNow:      time.Now,
	}
}

// Observe returns a cached observation younger than the staleness bound, or reads the ledger.
// A stale observation is never returned: if the fresh read fails the result is ErrOracleUnavailable.
func (im *impl) Observe(ctx ctx.Ctx, tokenId domain.TokenId, opts ...custody.ReadOptionsFunc) (*custody.Observation, error) {
	o, err := custody.GetReadOptions(opts...)
	if err != nil {
		return nil, err
	}
	staleness := im.maxStaleness
	if o.MaxStaleness != nil {
		staleness = *o.MaxStaleness
	}

	if obs, ok := im.cached(ctx, tokenId, staleness); ok {
		return obs, nil
	}

	obs, err := im.read(ctx, tokenId)
	if err != nil {
		return nil, err
	}

	if im.cache != nil {
		if err := im.cache.Set(ctx, tokenId.String(), obs); err != nil {
			ctx.WithFields(log.Fields{"tokenId": tokenId, "err": err}).Warn("cache.Set failed")
		}
	}
	return obs, nil
}

func (im *impl) cached(ctx ctx.Ctx, tokenId domain.TokenId, staleness time.Duration) (*custody.Observation, bool) {
	if im.cache == nil || staleness <= 0 {
		return nil, false
	}

	obs := &custody.Observation{}
	if err := im.cache.Get(ctx, tokenId.String(), obs); err == cache.ErrNotFound {
		met.BumpSum("cache.miss", 1)
		return nil, false
	} else if err != nil {
		ctx.WithFields(log.Fields{"tokenId": tokenId, "err": err}).Warn("cache.Get failed")
		return nil, false
	}

	if age := im.timeNow().Sub(obs.ObservedAt); age < 0 || age > staleness {
		met.BumpSum("cache.stale", 1)
		return nil, false
	}
	met.BumpSum("cache.hit", 1)
	obs.Cached = true
	return obs, true
}

func (im *impl) read(context ctx.Ctx, tokenId domain.TokenId) (*custody.Observation, error) {
	defer met.BumpTime("read.latency").End()

	c, cancel := ctx.WithTimeout(context, im.timeout)
	defer cancel()

	owner, err := im.ledger.OwnerOf(c, tokenId)
	if errors.Is(err, domain.ErrInvalidNumberFormat) {
		return nil, err
	} else if errors.Is(err, domain.ErrTokenNotMinted) {
		// nobody holds a burned token, the marketplace included
		met.BumpSum("not_minted", 1)
		owner = ""
	} else if err != nil {
		met.BumpSum("unavailable", 1)
		context.WithFields(log.Fields{
			"tokenId": tokenId,
			"timeout": im.timeout,
			"err":     err,
		}).Error("ledger.OwnerOf failed")
		return nil, xerrors.Errorf("owner of %s: %v: %w", tokenId, err, domain.ErrOracleUnavailable)
	}

	return &custody.Observation{
		TokenId:           tokenId,
		Owner:             owner.ToLower(),
		HeldByMarketplace: owner.Equals(im.marketplace),
		ObservedAt:        im.timeNow(),
	}, nil
}

func (im *impl) IsCustodyHeldByMarketplace(ctx ctx.Ctx, tokenId domain.TokenId, opts ...custody.ReadOptionsFunc) (bool, error) {
	obs, err := im.Observe(ctx, tokenId, opts...)
	if err != nil {
		return false, err
	}
	return obs.HeldByMarketplace, nil
}

func (im *impl) CurrentOwner(ctx ctx.Ctx, tokenId domain.TokenId, opts ...custody.ReadOptionsFunc) (domain.Address, error) {
	obs, err := im.Observe(ctx, tokenId, opts...)
	if err != nil {
		return "", err
	}
	return obs.Owner, nil
}

func (im *impl) Invalidate(ctx ctx.Ctx, tokenId domain.TokenId) error {
	if im.cache == nil {
		return nil
	}
	if err := im.cache.Del(ctx, tokenId.String()); err != nil {
		ctx.WithFields(log.Fields{"tokenId": tokenId, "err": err}).Error("cache.Del failed")
		return err
	}
	return nil
}
