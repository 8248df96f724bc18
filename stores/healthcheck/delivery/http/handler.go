package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
	hcdomain "github.com/lovawin/sosh-test-sub004/domain/healthcheck"
)

type healthCheckHandler struct {
	healthCheck hcdomain.HealthCheckUsecase
}

// New will initialize the healthcheck/
func New(e *echo.Echo, us hcdomain.HealthCheckUsecase) {
	handler := &healthCheckHandler{
		healthCheck: us,
	}
	g := e.Group("/health")
	g.GET("", handler.check)
}

func (h *healthCheckHandler) check(c echo.Context) error {
	context := c.Get("ctx").(ctx.Ctx)
	status, err := h.healthCheck.Check(context)
	if err != nil {
		context.WithField("err", err).Warn("healthCheck.Check failed")
		if status == nil {
			status = &hcdomain.Status{Mongo: hcdomain.StateDown, Redis: hcdomain.StateDown}
		}
		return c.JSON(http.StatusServiceUnavailable, status)
	}
	return c.JSON(http.StatusOK, status)
}
