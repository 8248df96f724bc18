package redis

import (
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/base/log"
	"github.com/lovawin/sosh-test-sub004/base/metrics"
	"github.com/lovawin/sosh-test-sub004/domain/keys"
)

const (
	// retTTLNoKey is the return value of TTL when the key does not exist
	retTTLNoKey = -2

	// retTTLNoExpire is the return value of TTL when the key exists but has no expire
	retTTLNoExpire = -1

	delBatchSize = 100
)

var delIfEqualScript = redis.NewScript(1, `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redImpl struct {
	name string
	met  metrics.Service
	pool *redis.Pool
}

// New wraps a redigo pool. name tags every metric.
func New(name string, met metrics.Service, pool *redis.Pool) Service {
	return &redImpl{
		name: name,
		met:  met,
		pool: pool,
	}
}

func (r *redImpl) getConn() (redis.Conn, error) {
	defer r.met.BumpTime("getconn.time", "cluster", r.name).End()
	if r.pool == nil {
		return nil, ErrNoPool
	}

	conn := r.pool.Get()
	if err := conn.Err(); err != nil {
		r.met.BumpSum("getConn.err", 1, "cluster", r.name)
		return nil, err
	}
	return conn, nil
}

func (r *redImpl) closeConn(conn redis.Conn) {
	if err := conn.Close(); err != nil {
		r.met.BumpSum("conn.Close.err", 1, "cluster", r.name)
	}
}

// connDo releases the connection right after the command so the pool stays small.
func (r *redImpl) connDo(commandName string, args ...interface{}) (interface{}, error) {
	conn, err := r.getConn()
	if err != nil {
		return nil, err
	}
	defer r.closeConn(conn)
	return conn.Do(commandName, args...)
}

func (r *redImpl) tags(fn, key string) []string {
	return []string{"func", fn, "cluster", r.name, "prefix", keys.GetPrefix(key)}
}

func (r *redImpl) bumpTTL(expire time.Duration, tags []string) {
	if expire == Forever {
		r.met.BumpSum("ttl.forever", 1, tags...)
	} else {
		r.met.BumpAvg("ttl", expire.Seconds(), tags...)
	}
}

func (r *redImpl) Get(context ctx.Ctx, key string) ([]byte, error) {
	tags := r.tags("get", key)
	defer r.met.BumpTime("time", tags...).End()

	val, err := redis.Bytes(r.connDo("GET", key))
	if err == redis.ErrNil {
		return nil, ErrNotFound
	} else if err != nil {
		context.WithFields(log.Fields{"err": err, "key": key}).Error("GET redis failed")
		return nil, err
	}
	r.met.BumpHistogram("bytes", float64(len(val)), tags...)
	return val, nil
}

func (r *redImpl) Set(context ctx.Ctx, key string, val []byte, expire time.Duration) error {
	tags := r.tags("set", key)
	defer r.met.BumpTime("time", tags...).End()
	r.bumpTTL(expire, tags)
	r.met.BumpHistogram("bytes", float64(len(val)), tags...)

	var err error
	if expire == Forever {
		_, err = r.connDo("SET", key, val)
	} else {
		_, err = r.connDo("SET", key, val, "PX", expire.Milliseconds())
	}
	if err != nil {
		context.WithField("err", err).Error("SET redis failed")
	}
	return err
}

func (r *redImpl) SetNX(context ctx.Ctx, key string, val []byte, expire time.Duration) (bool, error) {
	tags := r.tags("setnx", key)
	defer r.met.BumpTime("time", tags...).End()
	r.bumpTTL(expire, tags)

	var (
		reply interface{}
		err   error
	)
	if expire == Forever {
		reply, err = r.connDo("SET", key, val, "NX")
	} else {
		reply, err = r.connDo("SET", key, val, "NX", "PX", expire.Milliseconds())
	}
	if err != nil {
		context.WithField("err", err).Error("SET NX redis failed")
		return false, err
	}
	// a nil reply means the key already exists
	return reply != nil, nil
}

func (r *redImpl) Del(context ctx.Ctx, ks ...string) (int, error) {
	if len(ks) == 0 {
		return 0, nil
	}

	tags := r.tags("del", ks[0])
	defer r.met.BumpTime("time", tags...).End()

	affected := 0
	for start := 0; start < len(ks); start += delBatchSize {
		end := start + delBatchSize
		if end > len(ks) {
			end = len(ks)
		}
		res, err := redis.Int(r.connDo("DEL", redis.Args{}.AddFlat(ks[start:end])...))
		if err != nil {
			context.WithField("err", err).Error("DEL redis failed")
			return 0, err
		}
		affected += res
	}
	return affected, nil
}

func (r *redImpl) DelIfEqual(context ctx.Ctx, key string, val []byte) (bool, error) {
	defer r.met.BumpTime("time", r.tags("delifequal", key)...).End()

	conn, err := r.getConn()
	if err != nil {
		return false, err
	}
	defer r.closeConn(conn)

	n, err := redis.Int(delIfEqualScript.Do(conn, key, val))
	if err != nil {
		context.WithField("err", err).Error("DelIfEqual script failed")
		return false, err
	}
	return n == 1, nil
}

func (r *redImpl) Expire(context ctx.Ctx, key string, ttl time.Duration) error {
	tags := r.tags("expire", key)
	defer r.met.BumpTime("time", tags...).End()
	r.bumpTTL(ttl, tags)

	if ttl == Forever {
		_, err := r.connDo("PERSIST", key)
		if err != nil {
			context.WithField("err", err).Error("PERSIST redis failed")
		}
		return err
	}

	n, err := redis.Int(r.connDo("PEXPIRE", key, ttl.Milliseconds()))
	if err != nil {
		context.WithField("err", err).Error("PEXPIRE redis failed")
		return err
	}
	if n != 1 {
		return ErrExpireNotExistOrTimeout
	}
	return nil
}

func (r *redImpl) TTL(context ctx.Ctx, key string) (int, error) {
	defer r.met.BumpTime("time", r.tags("ttl", key)...).End()

	ttl, err := redis.Int(r.connDo("TTL", key))
	if err != nil {
		context.WithField("err", err).Error("TTL redis failed")
		return 0, err
	}
	switch ttl {
	case retTTLNoKey:
		return 0, ErrNotFound
	case retTTLNoExpire:
		return int(Forever), nil
	}
	return ttl, nil
}

func (r *redImpl) Exists(context ctx.Ctx, key string) (bool, error) {
	defer r.met.BumpTime("time", r.tags("exists", key)...).End()

	ok, err := redis.Bool(r.connDo("EXISTS", key))
	if err != nil {
		context.WithField("err", err).Error("EXISTS redis failed")
		return false, err
	}
	return ok, nil
}
