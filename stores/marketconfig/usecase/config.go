package usecase

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/xerrors"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/base/log"
	"github.com/lovawin/sosh-test-sub004/base/metrics"
	"github.com/lovawin/sosh-test-sub004/domain"
	"github.com/lovawin/sosh-test-sub004/domain/marketconfig"
)

const defaultRefreshInterval = 10 * time.Second

var met = metrics.New("marketconfig")

type MarketConfigUseCaseCfg struct {
	Repo marketconfig.Repo
	// Defaults seed the store when nothing has been persisted yet.
	DefaultFee  marketconfig.FeeConfig
	DefaultTime marketconfig.TimeConfig
}

type impl struct {
	repo marketconfig.Repo

	// fee and time hold marketconfig.FeeConfig and marketconfig.TimeConfig values.
	// Readers always see a whole snapshot.
	fee  atomic.Value
	time atomic.Value

	// mu serializes updates issued by this process.
	mu sync.Mutex

	timeNow func() time.Time
}

// New loads the persisted configs, seeding the defaults when absent.
func New(ctx ctx.Ctx, cfg *MarketConfigUseCaseCfg) (marketconfig.UseCase, error) {
	im := &impl{
		repo:    cfg.Repo,
		timeNow: time.Now,
	}

	if err := cfg.DefaultFee.Validate(); err != nil {
		ctx.WithFields(log.Fields{"err": err}).Error("invalid default fee config")
		return nil, err
	}
	if err := cfg.DefaultTime.Validate(); err != nil {
		ctx.WithFields(log.Fields{"err": err}).Error("invalid default time config")
		return nil, err
	}

	fee, err := im.loadOrSeedFee(ctx, cfg.DefaultFee)
	if err != nil {
		return nil, err
	}
	tc, err := im.loadOrSeedTime(ctx, cfg.DefaultTime)
	if err != nil {
		return nil, err
	}

	im.fee.Store(*fee)
	im.time.Store(*tc)
	return im, nil
}

func (im *impl) loadOrSeedFee(ctx ctx.Ctx, def marketconfig.FeeConfig) (*marketconfig.FeeConfig, error) {
	fee, err := im.repo.FindFeeConfig(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		def.Version = 1
		def.UpdatedAt = im.timeNow().UTC()
		if err := im.repo.SaveFeeConfig(ctx, &def, 0); err == nil {
			ctx.WithField("config", def).Info("seeded fee config")
			return &def, nil
		} else if !errors.Is(err, domain.ErrVersionConflict) {
			ctx.WithFields(log.Fields{"err": err}).Error("repo.SaveFeeConfig failed")
			return nil, err
		}
		// another instance seeded first
		fee, err = im.repo.FindFeeConfig(ctx)
	}
	if err != nil {
		ctx.WithFields(log.Fields{"err": err}).Error("repo.FindFeeConfig failed")
		return nil, err
	}
	if err := fee.Validate(); err != nil {
		ctx.WithFields(log.Fields{"config": *fee, "err": err}).Error("persisted fee config is invalid")
		return nil, err
	}
	return fee, nil
}

func (im *impl) loadOrSeedTime(ctx ctx.Ctx, def marketconfig.TimeConfig) (*marketconfig.TimeConfig, error) {
	tc, err := im.repo.FindTimeConfig(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		def.Version = 1
		def.UpdatedAt = im.timeNow().UTC()
		if err := im.repo.SaveTimeConfig(ctx, &def, 0); err == nil {
			ctx.WithField("config", def).Info("seeded time config")
			return &def, nil
		} else if !errors.Is(err, domain.ErrVersionConflict) {
			ctx.WithFields(log.Fields{"err": err}).Error("repo.SaveTimeConfig failed")
			return nil, err
		}
		tc, err = im.repo.FindTimeConfig(ctx)
	}
	if err != nil {
		ctx.WithFields(log.Fields{"err": err}).Error("repo.FindTimeConfig failed")
		return nil, err
	}
	if err := tc.Validate(); err != nil {
		ctx.WithFields(log.Fields{"config": *tc, "err": err}).Error("persisted time config is invalid")
		return nil, err
	}
	return tc, nil
}

func (im *impl) FeeConfig(ctx ctx.Ctx) marketconfig.FeeConfig {
	return im.fee.Load().(marketconfig.FeeConfig)
}

func (im *impl) TimeConfig(ctx ctx.Ctx) marketconfig.TimeConfig {
	return im.time.Load().(marketconfig.TimeConfig)
}

func (im *impl) UpdateFeeConfig(ctx ctx.Ctx, cfg marketconfig.FeeConfig) (*marketconfig.FeeConfig, error) {
	if err := cfg.Validate(); err != nil {
		met.BumpSum("update.rejected", 1, "kind", "fees")
		return nil, err
	}

	im.mu.Lock()
	defer im.mu.Unlock()

	cur := im.FeeConfig(ctx)
	cfg.Version = cur.Version + 1
	cfg.UpdatedAt = im.timeNow().UTC()
	if err := im.repo.SaveFeeConfig(ctx, &cfg, cur.Version); err != nil {
		ctx.WithFields(log.Fields{
			"config": cfg,
			"err":    err,
		}).Error("repo.SaveFeeConfig failed")
		if errors.Is(err, domain.ErrVersionConflict) {
			if err := im.Reload(ctx); err != nil {
				ctx.WithFields(log.Fields{"err": err}).Warn("Reload failed")
			}
		}
		return nil, err
	}

	im.fee.Store(cfg)
	met.BumpSum("update", 1, "kind", "fees")
	ctx.WithFields(log.Fields{"prev": cur, "next": cfg}).Info("fee config updated")
	return &cfg, nil
}

func (im *impl) UpdateTimeConfig(ctx ctx.Ctx, cfg marketconfig.TimeConfig) (*marketconfig.TimeConfig, error) {
	if err := cfg.Validate(); err != nil {
		met.BumpSum("update.rejected", 1, "kind", "times")
		return nil, err
	}

	im.mu.Lock()
	defer im.mu.Unlock()

	cur := im.TimeConfig(ctx)
	cfg.Version = cur.Version + 1
	cfg.UpdatedAt = im.timeNow().UTC()
	if err := im.repo.SaveTimeConfig(ctx, &cfg, cur.Version); err != nil {
		ctx.WithFields(log.Fields{
			"config": cfg,
			"err":    err,
		}).Error("repo.SaveTimeConfig failed")
		if errors.Is(err, domain.ErrVersionConflict) {
			if err := im.Reload(ctx); err != nil {
				ctx.WithFields(log.Fields{"err": err}).Warn("Reload failed")
			}
		}
		return nil, err
	}

	im.time.Store(cfg)
	met.BumpSum("update", 1, "kind", "times")
	ctx.WithFields(log.Fields{"prev": cur, "next": cfg}).Info("time config updated")
	return &cfg, nil
}

// Reload swaps in the persisted snapshots. Both are validated before either is swapped.
func (im *impl) Reload(ctx ctx.Ctx) error {
	fee, err := im.repo.FindFeeConfig(ctx)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		ctx.WithFields(log.Fields{"err": err}).Error("repo.FindFeeConfig failed")
		return err
	}
	tc, err := im.repo.FindTimeConfig(ctx)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		ctx.WithFields(log.Fields{"err": err}).Error("repo.FindTimeConfig failed")
		return err
	}

	if fee != nil {
		if err := fee.Validate(); err != nil {
			return xerrors.Errorf("persisted fee config: %w", err)
		}
	}
	if tc != nil {
		if err := tc.Validate(); err != nil {
			return xerrors.Errorf("persisted time config: %w", err)
		}
	}

	if cur := im.FeeConfig(ctx); fee != nil && fee.Version >= cur.Version {
		im.fee.Store(*fee)
		if fee.Version > cur.Version {
			met.BumpSum("reload", 1, "kind", "fees")
			ctx.WithFields(log.Fields{"prev": cur.Version, "next": fee.Version}).Info("fee config reloaded")
		}
	}
	if cur := im.TimeConfig(ctx); tc != nil && tc.Version >= cur.Version {
		im.time.Store(*tc)
		if tc.Version > cur.Version {
			met.BumpSum("reload", 1, "kind", "times")
			ctx.WithFields(log.Fields{"prev": cur.Version, "next": tc.Version}).Info("time config reloaded")
		}
	}
	return nil
}

// Refresh reloads uc every interval until ctx is done, so updates made through
// another instance reach this one. A failed reload keeps the current snapshot.
func Refresh(ctx ctx.Ctx, uc marketconfig.UseCase, interval time.Duration) {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := uc.Reload(ctx); err != nil {
				met.BumpSum("reload.err", 1)
				ctx.WithFields(log.Fields{"err": err}).Warn("Reload failed")
			}
		}
	}
}
