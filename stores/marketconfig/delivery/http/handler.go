package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/base/delivery"
	"github.com/lovawin/sosh-test-sub004/domain"
	"github.com/lovawin/sosh-test-sub004/domain/marketconfig"
)

type handler struct {
	config marketconfig.UseCase
}

// feeConfigBody requires every field, partial updates are rejected.
type feeConfigBody struct {
	PrimaryFeeBps           *uint32 `json:"primaryFeeBps" validate:"required,max=10000"`
	SecondaryFeeBps         *uint32 `json:"secondaryFeeBps" validate:"required,max=10000"`
	UppercapPrimaryFeeBps   *uint32 `json:"uppercapPrimaryFeeBps" validate:"required,max=10000"`
	UppercapSecondaryFeeBps *uint32 `json:"uppercapSecondaryFeeBps" validate:"required,max=10000"`
}

// timeConfigBody carries durations in seconds.
type timeConfigBody struct {
	MaxSaleDuration       *int64 `json:"maxSaleDuration" validate:"required,min=1"`
	MinSaleDuration       *int64 `json:"minSaleDuration" validate:"required,min=0"`
	MinTimeDifference     *int64 `json:"minTimeDifference" validate:"required,min=0"`
	ExtensionDuration     *int64 `json:"extensionDuration" validate:"required,min=0"`
	MinSaleUpdateDuration *int64 `json:"minSaleUpdateDuration" validate:"required,min=0"`
	MaxTotalExtension     *int64 `json:"maxTotalExtension" validate:"required,min=0"`
}

type timeConfigView struct {
	MaxSaleDuration       int64     `json:"maxSaleDuration"`
	MinSaleDuration       int64     `json:"minSaleDuration"`
	MinTimeDifference     int64     `json:"minTimeDifference"`
	ExtensionDuration     int64     `json:"extensionDuration"`
	MinSaleUpdateDuration int64     `json:"minSaleUpdateDuration"`
	MaxTotalExtension     int64     `json:"maxTotalExtension"`
	Version               uint64    `json:"version"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

func seconds(n int64) time.Duration {
	return time.Duration(n) * time.Second
}

func toTimeConfigView(c *marketconfig.TimeConfig) *timeConfigView {
	return &timeConfigView{
		MaxSaleDuration:       int64(c.MaxSaleDuration / time.Second),
		MinSaleDuration:       int64(c.MinSaleDuration / time.Second),
		MinTimeDifference:     int64(c.MinTimeDifference / time.Second),
		ExtensionDuration:     int64(c.ExtensionDuration / time.Second),
		MinSaleUpdateDuration: int64(c.MinSaleUpdateDuration / time.Second),
		MaxTotalExtension:     int64(c.MaxTotalExtension / time.Second),
		Version:               c.Version,
		UpdatedAt:             c.UpdatedAt,
	}
}

// New registers the config admin routes. Callers are trusted, authentication happens upstream.
func New(e *echo.Echo, config marketconfig.UseCase) {
	h := &handler{config: config}

	g := e.Group("/admin/config")
	g.GET("/fees", h.getFeeConfig)
	g.PUT("/fees", h.updateFeeConfig)
	g.GET("/times", h.getTimeConfig)
	g.PUT("/times", h.updateTimeConfig)
}

func (h *handler) getFeeConfig(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	cfg := h.config.FeeConfig(ctx)
	return delivery.MakeJsonResp(c, http.StatusOK, cfg)
}

func (h *handler) updateFeeConfig(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	body := &feeConfigBody{}
	if err := c.Bind(body); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(body); err != nil {
		ctx.WithField("err", err).Warn("invalid fee config body")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidConfig)
	}

	cfg, err := h.config.UpdateFeeConfig(ctx, marketconfig.FeeConfig{
		PrimaryFeeBps:           *body.PrimaryFeeBps,
		SecondaryFeeBps:         *body.SecondaryFeeBps,
		UppercapPrimaryFeeBps:   *body.UppercapPrimaryFeeBps,
		UppercapSecondaryFeeBps: *body.UppercapSecondaryFeeBps,
	})
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, cfg)
}

func (h *handler) getTimeConfig(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	cfg := h.config.TimeConfig(ctx)
	return delivery.MakeJsonResp(c, http.StatusOK, toTimeConfigView(&cfg))
}

func (h *handler) updateTimeConfig(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	body := &timeConfigBody{}
	if err := c.Bind(body); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}
	if err := c.Validate(body); err != nil {
		ctx.WithField("err", err).Warn("invalid time config body")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrInvalidConfig)
	}

	cfg, err := h.config.UpdateTimeConfig(ctx, marketconfig.TimeConfig{
		MaxSaleDuration:       seconds(*body.MaxSaleDuration),
		MinSaleDuration:       seconds(*body.MinSaleDuration),
		MinTimeDifference:     seconds(*body.MinTimeDifference),
		ExtensionDuration:     seconds(*body.ExtensionDuration),
		MinSaleUpdateDuration: seconds(*body.MinSaleUpdateDuration),
		MaxTotalExtension:     seconds(*body.MaxTotalExtension),
	})
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, toTimeConfigView(cfg))
}
