package redis

import (
	"errors"
	"time"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
)

const (
	// Forever keeps a key without expiry
	Forever = time.Duration(-1)
)

var (
	// ErrNotFound is returned when the key does not exist
	ErrNotFound = errors.New("redis: key not found")
	// ErrNoPool is returned when no pool is configured
	ErrNoPool = errors.New("redis: no pool")
	// ErrExpireNotExistOrTimeout is returned when EXPIRE did not apply
	ErrExpireNotExistOrTimeout = errors.New("redis: key not exist or timeout not set")
)

// Service is the redis command set the marketplace uses.
type Service interface {
	Get(context ctx.Ctx, key string) ([]byte, error)
	Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error
	// SetNX sets key only when it does not exist, ok reports whether it was set.
	SetNX(context ctx.Ctx, key string, val []byte, expire time.Duration) (ok bool, err error)
	Del(context ctx.Ctx, keys ...string) (int, error)
	// DelIfEqual deletes key only while it still holds val.
	DelIfEqual(context ctx.Ctx, key string, val []byte) (bool, error)
	Expire(context ctx.Ctx, key string, ttl time.Duration) error
	// TTL returns the remaining time to live in seconds, ErrNotFound when the key is missing
	// and Forever when the key has no expiry.
	TTL(context ctx.Ctx, key string) (int, error)
	Exists(context ctx.Ctx, key string) (bool, error)
}
