package repository

import (
	"sync"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/domain"
	"github.com/lovawin/sosh-test-sub004/domain/marketconfig"
)

type memoryImpl struct {
	mu   sync.RWMutex
	fee  *marketconfig.FeeConfig
	time *marketconfig.TimeConfig
}

// NewMemoryConfigRepo keeps the configs in process, for single node runs and tests.
func NewMemoryConfigRepo() marketconfig.Repo {
	return &memoryImpl{}
}

func (im *memoryImpl) FindFeeConfig(ctx ctx.Ctx) (*marketconfig.FeeConfig, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	if im.fee == nil {
		return nil, domain.ErrNotFound
	}
	c := *im.fee
	return &c, nil
}

func (im *memoryImpl) FindTimeConfig(ctx ctx.Ctx) (*marketconfig.TimeConfig, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	if im.time == nil {
		return nil, domain.ErrNotFound
	}
	c := *im.time
	return &c, nil
}

func (im *memoryImpl) SaveFeeConfig(ctx ctx.Ctx, cfg *marketconfig.FeeConfig, prevVersion uint64) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	current := uint64(0)
	if im.fee != nil {
		current = im.fee.Version
	}
	if current != prevVersion {
		return domain.ErrVersionConflict
	}
	c := *cfg
	im.fee = &c
	return nil
}

func (im *memoryImpl) SaveTimeConfig(ctx ctx.Ctx, cfg *marketconfig.TimeConfig, prevVersion uint64) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	current := uint64(0)
	if im.time != nil {
		current = im.time.Version
	}
	if current != prevVersion {
		return domain.ErrVersionConflict
	}
	c := *cfg
	im.time = &c
	return nil
}
