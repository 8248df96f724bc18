package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/base/delivery"
	"github.com/lovawin/sosh-test-sub004/base/log"
	"github.com/lovawin/sosh-test-sub004/base/metrics"
	"github.com/lovawin/sosh-test-sub004/domain"
)

// GoMiddleware holds the request scoped middlewares.
type GoMiddleware struct {
	met metrics.Service
}

// InitMiddleware initialize the middleware
func InitMiddleware() *GoMiddleware {
	return &GoMiddleware{met: metrics.New("http")}
}

// AddContext stores a ctx.Ctx under "ctx". It follows the request's context,
// so handlers stop when the client goes away.
func (m *GoMiddleware) AddContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cont := ctx.WithValues(ctx.From(c.Request().Context(), log.Log()), map[string]interface{}{
				"requestID": c.Response().Header().Get(echo.HeaderXRequestID),
				"route":     c.Path(),
			})
			c.Set("ctx", cont)
			return next(c)
		}
	}
}

// ResponseLogger logs and times every request. It must run after AddContext
// has been installed.
func (m *GoMiddleware) ResponseLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			ms := time.Since(start).Seconds() * 1000
			m.met.BumpHistogram("request.time", ms, "method", req.Method, "path", c.Path(), "status", statusClass(res.Status))

			fields := log.Fields{
				"ms":         ms,
				"httpStatus": res.Status,
				"remoteIP":   c.RealIP(),
				"uri":        req.URL.Path,
				"httpMethod": req.Method,
				"size":       res.Size,
			}
			if res.Status >= http.StatusBadRequest && err != nil {
				fields["nextErr"] = err
			}

			logger := log.Log()
			if cont, ok := c.Get("ctx").(ctx.Ctx); ok {
				logger = cont.Logger
			}
			if res.Status >= http.StatusInternalServerError {
				logger.WithFields(fields).Warn("response")
			} else {
				logger.WithFields(fields).Info("response")
			}
			return nil
		}
	}
}

func statusClass(status int) string {
	return fmt.Sprintf("%dxx", status/100)
}

// IsValidTokenId rejects a path param that is not a non-negative base-10 integer.
func IsValidTokenId(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			if _, err := domain.TokenId(c.Param(param)).BigInt(); err != nil {
				return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
			}
			return next(c)
		}
	}
}
