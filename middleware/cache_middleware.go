package middleware

import (
	"bufio"
	"bytes"
	"hash/fnv"
	"net"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/base/log"
	"github.com/lovawin/sosh-test-sub004/service/cache"
	"github.com/lovawin/sosh-test-sub004/service/cache/provider"
)

const (
	cacheMiddlewarePfx = "httpCacheMiddleware"
	headerXCache       = "X-Cache"
)

type cachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// recorder tees the response body while passing it through.
type recorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *recorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *recorder) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *recorder) Flush() {
	w.ResponseWriter.(http.Flusher).Flush()
}

func (w *recorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.ResponseWriter.(http.Hijacker).Hijack()
}

// requestKey hashes the path and the query with keys and values sorted, so
// ?a=1&b=2 and ?b=2&a=1 share an entry.
func requestKey(r *http.Request) string {
	params := r.URL.Query()
	for _, vals := range params {
		sort.Strings(vals)
	}
	hash := fnv.New64a()
	hash.Write([]byte(r.URL.Path))
	hash.Write([]byte{'?'})
	hash.Write([]byte(params.Encode()))
	return strconv.FormatUint(hash.Sum64(), 36)
}

// CacheHttp serves 2xx GET responses from p for ttl. Keep ttl short, cached
// sale lists carry statuses derived at the time they were rendered.
func CacheHttp(p provider.Provider, ttl time.Duration) echo.MiddlewareFunc {
	cacheService := cache.New(cache.ServiceConfig{
		Ttl:   ttl,
		Pfx:   cacheMiddlewarePfx,
		Cache: p,
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			ctx := c.Get("ctx").(ctx.Ctx)
			key := requestKey(c.Request())

			hit := cachedResponse{}
			if err := cacheService.Get(ctx, key, &hit); err == nil {
				header := c.Response().Header()
				for k, v := range hit.Header {
					header[k] = v
				}
				header.Set(headerXCache, "HIT")
				return c.Blob(hit.Status, header.Get(echo.HeaderContentType), hit.Body)
			} else if err != cache.ErrNotFound {
				ctx.WithField("err", err).Warn("cacheService.Get failed")
			}

			c.Response().Header().Set(headerXCache, "MISS")
			w := &recorder{ResponseWriter: c.Response().Writer}
			c.Response().Writer = w
			if err := next(c); err != nil {
				c.Error(err)
			}

			if w.status < http.StatusOK || w.status >= http.StatusMultipleChoices {
				return nil
			}
			header := c.Response().Header().Clone()
			header.Del(headerXCache)
			if err := cacheService.Set(ctx, key, cachedResponse{Status: w.status, Header: header, Body: w.body.Bytes()}); err != nil {
				ctx.WithFields(log.Fields{"key": key, "err": err}).Warn("cacheService.Set failed")
			}
			return nil
		}
	}
}
