package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/base/delivery"
	"github.com/lovawin/sosh-test-sub004/base/log"
	"github.com/lovawin/sosh-test-sub004/base/metrics"
	"github.com/lovawin/sosh-test-sub004/domain"
	"github.com/lovawin/sosh-test-sub004/domain/sale"
	"github.com/lovawin/sosh-test-sub004/middleware"
)

var met = metrics.New("sale.http")

type handler struct {
	sale  sale.UseCase
	clock domain.Clock
}

type createSaleBody struct {
	Seller   domain.Address `json:"seller" validate:"required,address"`
	TokenId  string         `json:"tokenId" validate:"required,numeric"`
	SaleType string         `json:"saleType" validate:"required"`
	AskPrice string         `json:"askPrice" validate:"required"`
	// StartTime and EndTime are unix seconds.
	StartTime int64 `json:"startTime" validate:"required"`
	EndTime   int64 `json:"endTime" validate:"required"`
}

type bidBody struct {
	Bidder domain.Address `json:"bidder" validate:"required,address"`
	Amount string         `json:"amount" validate:"required"`
}

type settleBody struct {
	Buyer  domain.Address `json:"buyer" validate:"required,address"`
	Amount string         `json:"amount" validate:"required"`
}

type requesterBody struct {
	Requester domain.Address `json:"requester" validate:"required,address"`
}

type priceBody struct {
	Requester domain.Address `json:"requester" validate:"required,address"`
	Price     string         `json:"price" validate:"required"`
}

type confirmBody struct {
	TxRef string `json:"txRef" validate:"required"`
}

type abortBody struct {
	IntentId string `json:"intentId" validate:"required"`
	Reason   string `json:"reason" validate:"max=256"`
}

type listParams struct {
	Seller   *string `query:"seller"`
	TokenId  *string `query:"tokenId"`
	Status   *string `query:"status"`
	SaleType *string `query:"saleType"`
	Sort     *string `query:"sort"`
	Offset   int32   `query:"offset"`
	Limit    int32   `query:"limit"`
}

// New registers the sale routes. listCache wraps GET /sales only, single sale reads
// are always computed at the current time.
func New(e *echo.Echo, s sale.UseCase, clock domain.Clock, listCache ...echo.MiddlewareFunc) {
	h := &handler{sale: s, clock: clock}

	g := e.Group("/sales")

	g.POST("", h.create)

	g.GET("", h.list, listCache...)

	g.GET("/:saleId", h.get)

	g.POST("/:saleId/bids", h.placeBid)

	g.POST("/:saleId/settle", h.settleFixed)

	g.POST("/:saleId/settle-auction", h.settleAuction)

	g.POST("/:saleId/cancel", h.cancel)

	g.PATCH("/:saleId/price", h.updatePrice)

	g.POST("/:saleId/retrieve", h.retrieve)

	g.GET("/:saleId/intent", h.pendingIntent)

	g.POST("/:saleId/confirm", h.confirm)

	g.POST("/:saleId/abort", h.abort)

	gt := e.Group("/tokens/:tokenId", middleware.IsValidTokenId("tokenId"))

	gt.GET("/sale", h.getByToken)

	gt.GET("/retrieval", h.retrieval)

	ga := e.Group("/admin/sales")

	ga.POST("/:saleId/cancel", h.adminCancel)
}

// now reads the authoritative time. Handlers answer 503 without it.
func (h *handler) now(ctx ctx.Ctx) (time.Time, error) {
	now, err := h.clock.Now(ctx)
	if err != nil {
		met.BumpSum("clock.err", 1)
		ctx.WithField("err", err).Error("clock.Now failed")
		return time.Time{}, err
	}
	return now, nil
}

// prepare parses the sale id and reads the clock, shared by every /sales/:saleId route.
func (h *handler) prepare(c echo.Context) (ctx.Ctx, sale.SaleId, time.Time, error) {
	ctx := c.Get("ctx").(ctx.Ctx)

	saleId, err := sale.ParseSaleId(c.Param("saleId"))
	if err != nil {
		return ctx, 0, time.Time{}, err
	}

	now, err := h.now(ctx)
	if err != nil {
		return ctx, 0, time.Time{}, err
	}
	return ctx, saleId, now, nil
}

// bind decodes and validates a request body.
func bind(c echo.Context, body interface{}) error {
	if err := c.Bind(body); err != nil {
		return domain.ErrBadParamInput
	}
	if err := c.Validate(body); err != nil {
		c.Get("ctx").(ctx.Ctx).WithField("err", err).Warn("invalid request body")
		return domain.ErrBadParamInput
	}
	return nil
}

func (h *handler) create(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	body := &createSaleBody{}
	if err := bind(c, body); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	now, err := h.now(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusServiceUnavailable, err)
	}

	res, err := h.sale.CreateSale(ctx, &sale.CreateSaleParams{
		Seller:    body.Seller,
		TokenId:   domain.TokenId(body.TokenId),
		SaleType:  sale.SaleType(body.SaleType),
		AskPrice:  domain.Amount(body.AskPrice),
		StartTime: time.Unix(body.StartTime, 0).UTC(),
		EndTime:   time.Unix(body.EndTime, 0).UTC(),
	}, now)
	if err != nil {
		ctx.WithFields(log.Fields{"body": body, "err": err}).Warn("sale.CreateSale failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, res)
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	p := &listParams{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, domain.ErrBadParamInput)
	}

	limit := p.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	opts := []sale.FindAllOptionsFunc{sale.WithPagination(p.Offset, limit)}

	if p.Seller != nil {
		opts = append(opts, sale.WithSeller(domain.Address(*p.Seller)))
	}

	if p.TokenId != nil {
		opts = append(opts, sale.WithTokenId(domain.TokenId(*p.TokenId)))
	}

	if p.Status != nil {
		statuses := []sale.Status{}
		for _, s := range strings.Split(*p.Status, ",") {
			statuses = append(statuses, sale.Status(s))
		}
		opts = append(opts, sale.WithStatus(statuses...))
	}

	if p.SaleType != nil {
		opts = append(opts, sale.WithSaleType(sale.SaleType(*p.SaleType)))
	}

	if p.Sort != nil {
		opts = append(opts, sale.WithSort(*p.Sort))
	}

	if _, err := sale.GetFindAllOptions(opts...); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	now, err := h.now(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusServiceUnavailable, err)
	}

	res, err := h.sale.FindAll(ctx, now, opts...)
	if err != nil {
		ctx.WithField("err", err).Error("sale.FindAll failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) get(c echo.Context) error {
	ctx, saleId, now, err := h.prepare(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.sale.GetSale(ctx, saleId, now)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) placeBid(c echo.Context) error {
	ctx, saleId, now, err := h.prepare(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	body := &bidBody{}
	if err := bind(c, body); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.sale.PlaceBid(ctx, saleId, body.Bidder, domain.Amount(body.Amount), now)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) settleFixed(c echo.Context) error {
	ctx, saleId, now, err := h.prepare(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	body := &settleBody{}
	if err := bind(c, body); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.sale.SettleFixed(ctx, saleId, body.Buyer, domain.Amount(body.Amount), now)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) settleAuction(c echo.Context) error {
	ctx, saleId, now, err := h.prepare(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.sale.SettleAuction(ctx, saleId, now)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) cancel(c echo.Context) error {
	ctx, saleId, now, err := h.prepare(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	body := &requesterBody{}
	if err := bind(c, body); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.sale.CancelSale(ctx, saleId, body.Requester, now)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) adminCancel(c echo.Context) error {
	ctx, saleId, now, err := h.prepare(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.sale.AdminCancel(ctx, saleId, now)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) updatePrice(c echo.Context) error {
	ctx, saleId, now, err := h.prepare(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	body := &priceBody{}
	if err := bind(c, body); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.sale.UpdateAskPrice(ctx, saleId, body.Requester, domain.Amount(body.Price), now)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) retrieve(c echo.Context) error {
	ctx, saleId, now, err := h.prepare(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	body := &requesterBody{}
	if err := bind(c, body); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.sale.Retrieve(ctx, saleId, body.Requester, now)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) pendingIntent(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	saleId, err := sale.ParseSaleId(c.Param("saleId"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.sale.PendingIntent(ctx, saleId)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) confirm(c echo.Context) error {
	ctx, saleId, now, err := h.prepare(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	body := &confirmBody{}
	if err := bind(c, body); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.sale.ConfirmTransferExecuted(ctx, saleId, domain.TxHash(body.TxRef), now)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) abort(c echo.Context) error {
	ctx, saleId, now, err := h.prepare(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	body := &abortBody{}
	if err := bind(c, body); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	res, err := h.sale.AbortTransfer(ctx, saleId, body.IntentId, body.Reason, now)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) getByToken(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	tokenId := domain.TokenId(c.Param("tokenId"))

	now, err := h.now(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusServiceUnavailable, err)
	}

	res, err := h.sale.GetSaleView(ctx, tokenId, now)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) retrieval(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	tokenId := domain.TokenId(c.Param("tokenId"))

	requester := domain.Address(c.QueryParam("requester")).ToLower()

	now, err := h.now(ctx)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusServiceUnavailable, err)
	}

	res, err := h.sale.EvaluateRetrievalEligibility(ctx, tokenId, requester, now)
	if err != nil {
		ctx.WithFields(log.Fields{"tokenId": tokenId, "err": err}).Error("sale.EvaluateRetrievalEligibility failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
