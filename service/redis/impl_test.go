package redis

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/stretchr/testify/suite"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/base/metrics"
)

// fakeConn understands the handful of commands redImpl sends.
type fakeConn struct {
	mu   *sync.Mutex
	data map[string][]byte
	ttl  map[string]int64
}

func (c *fakeConn) Close() error { return nil }
func (c *fakeConn) Err() error   { return nil }
func (c *fakeConn) Send(string, ...interface{}) error {
	return fmt.Errorf("not supported")
}
func (c *fakeConn) Flush() error                  { return nil }
func (c *fakeConn) Receive() (interface{}, error) { return nil, fmt.Errorf("not supported") }

func toStr(v interface{}) string {
	switch t := v.(type) {
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

func (c *fakeConn) Do(cmd string, args ...interface{}) (interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch strings.ToUpper(cmd) {
	case "":
		return nil, nil
	case "GET":
		v, ok := c.data[toStr(args[0])]
		if !ok {
			return nil, nil
		}
		return v, nil
	case "SET":
		key := toStr(args[0])
		nx := false
		for i := 2; i < len(args); i++ {
			switch strings.ToUpper(toStr(args[i])) {
			case "NX":
				nx = true
			case "PX":
				c.ttl[key] = args[i+1].(int64) / 1000
				i++
			}
		}
		if _, ok := c.data[key]; ok && nx {
			return nil, nil
		}
		c.data[key] = []byte(toStr(args[1]))
		return "OK", nil
	case "DEL":
		n := int64(0)
		for _, a := range args {
			if _, ok := c.data[toStr(a)]; ok {
				delete(c.data, toStr(a))
				n++
			}
		}
		return n, nil
	case "EXISTS":
		if _, ok := c.data[toStr(args[0])]; ok {
			return int64(1), nil
		}
		return int64(0), nil
	case "TTL":
		key := toStr(args[0])
		if _, ok := c.data[key]; !ok {
			return int64(-2), nil
		}
		if t, ok := c.ttl[key]; ok {
			return t, nil
		}
		return int64(-1), nil
	case "PEXPIRE":
		key := toStr(args[0])
		if _, ok := c.data[key]; !ok {
			return int64(0), nil
		}
		c.ttl[key] = args[1].(int64) / 1000
		return int64(1), nil
	case "EVALSHA":
		return nil, redis.Error("NOSCRIPT No matching script")
	case "EVAL":
		// compare-and-delete script: EVAL script 1 key val
		key, val := toStr(args[2]), toStr(args[3])
		if v, ok := c.data[key]; ok && string(v) == val {
			delete(c.data, key)
			return int64(1), nil
		}
		return int64(0), nil
	}
	return nil, fmt.Errorf("unexpected command %s", cmd)
}

type redisSuite struct {
	suite.Suite
	ctx ctx.Ctx
	im  Service
}

func (s *redisSuite) SetupTest() {
	s.ctx = ctx.Background()
	conn := &fakeConn{mu: &sync.Mutex{}, data: map[string][]byte{}, ttl: map[string]int64{}}
	pool := &redis.Pool{Dial: func() (redis.Conn, error) { return conn, nil }}
	s.im = New("test", metrics.NewNop(), pool)
}

func (s *redisSuite) TestGetSet() {
	_, err := s.im.Get(s.ctx, "custody:1")
	s.ErrorIs(err, ErrNotFound)

	s.NoError(s.im.Set(s.ctx, "custody:1", []byte("v"), 30*time.Second))
	v, err := s.im.Get(s.ctx, "custody:1")
	s.NoError(err)
	s.Equal([]byte("v"), v)

	ttl, err := s.im.TTL(s.ctx, "custody:1")
	s.NoError(err)
	s.Equal(30, ttl)
}

func (s *redisSuite) TestSetNX() {
	ok, err := s.im.SetNX(s.ctx, "lock", []byte("a"), time.Minute)
	s.NoError(err)
	s.True(ok)

	ok, err = s.im.SetNX(s.ctx, "lock", []byte("b"), time.Minute)
	s.NoError(err)
	s.False(ok)
}

func (s *redisSuite) TestDelIfEqual() {
	s.Require().NoError(s.im.Set(s.ctx, "lock", []byte("owner-a"), Forever))

	ok, err := s.im.DelIfEqual(s.ctx, "lock", []byte("owner-b"))
	s.NoError(err)
	s.False(ok)

	ok, err = s.im.DelIfEqual(s.ctx, "lock", []byte("owner-a"))
	s.NoError(err)
	s.True(ok)

	exists, err := s.im.Exists(s.ctx, "lock")
	s.NoError(err)
	s.False(exists)
}

func (s *redisSuite) TestTTL() {
	_, err := s.im.TTL(s.ctx, "missing")
	s.ErrorIs(err, ErrNotFound)

	s.Require().NoError(s.im.Set(s.ctx, "k", []byte("v"), Forever))
	ttl, err := s.im.TTL(s.ctx, "k")
	s.NoError(err)
	s.Equal(int(Forever), ttl)

	s.NoError(s.im.Expire(s.ctx, "k", 5*time.Second))
	ttl, err = s.im.TTL(s.ctx, "k")
	s.NoError(err)
	s.Equal(5, ttl)

	s.ErrorIs(s.im.Expire(s.ctx, "missing", time.Second), ErrExpireNotExistOrTimeout)
}

func (s *redisSuite) TestDel() {
	s.Require().NoError(s.im.Set(s.ctx, "a", []byte("1"), Forever))
	s.Require().NoError(s.im.Set(s.ctx, "b", []byte("1"), Forever))
	n, err := s.im.Del(s.ctx, "a", "b", "c")
	s.NoError(err)
	s.Equal(2, n)
}

func (s *redisSuite) TestNoPool() {
	im := New("test", metrics.NewNop(), nil)
	_, err := im.Get(s.ctx, "k")
	s.ErrorIs(err, ErrNoPool)
}

func TestRedisSuite(t *testing.T) {
	suite.Run(t, new(redisSuite))
}
