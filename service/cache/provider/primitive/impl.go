package primitive

import (
	"time"

	"github.com/coocood/freecache"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/service/cache/provider"
)

type impl struct {
	name  string
	cache *freecache.Cache
}

// NewPrimitive is an in-process cache of sizeMb megabytes.
func NewPrimitive(name string, sizeMb int) provider.Provider {
	return &impl{name, freecache.NewCache(sizeMb * 1024 * 1024)}
}

func (im *impl) Get(c ctx.Ctx, key string) ([]byte, time.Duration, error) {
	val, err := im.cache.Get([]byte(key))
	if err == freecache.ErrNotFound {
		return nil, 0, provider.ErrNotFound
	} else if err != nil {
		c.WithField("err", err).WithField("key", key).Error("cache.Get failed")
		return nil, 0, err
	}

	left, err := im.cache.TTL([]byte(key))
	if err == freecache.ErrNotFound {
		// expired between the two reads
		return nil, 0, provider.ErrNotFound
	} else if err != nil {
		return nil, 0, err
	}
	return val, time.Duration(left) * time.Second, nil
}

func (im *impl) Set(c ctx.Ctx, key string, value []byte, ttl time.Duration) error {
	if err := im.cache.Set([]byte(key), value, int(ttl.Seconds())); err != nil {
		c.WithField("err", err).WithField("key", key).Error("cache.Set failed")
		return err
	}
	return nil
}

func (im *impl) Del(c ctx.Ctx, key string) error {
	im.cache.Del([]byte(key))
	return nil
}
