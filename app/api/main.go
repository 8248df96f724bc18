package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"github.com/lovawin/sosh-test-sub004/app/common"
	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/base/goroutine"
	"github.com/lovawin/sosh-test-sub004/base/log"
	bValidator "github.com/lovawin/sosh-test-sub004/base/validator"
	mmiddleware "github.com/lovawin/sosh-test-sub004/middleware"
	eligibility_usecase "github.com/lovawin/sosh-test-sub004/stores/eligibility/usecase"
	hc_delivery "github.com/lovawin/sosh-test-sub004/stores/healthcheck/delivery/http"
	hc_repo "github.com/lovawin/sosh-test-sub004/stores/healthcheck/repository"
	hc_usecase "github.com/lovawin/sosh-test-sub004/stores/healthcheck/usecase"
	marketconfig_delivery "github.com/lovawin/sosh-test-sub004/stores/marketconfig/delivery/http"
	marketconfig_usecase "github.com/lovawin/sosh-test-sub004/stores/marketconfig/usecase"
	sale_delivery "github.com/lovawin/sosh-test-sub004/stores/sale/delivery/http"
	sale_usecase "github.com/lovawin/sosh-test-sub004/stores/sale/usecase"
)

func init() {
	common.LoadConfig("sale-api")
}

func main() {
	defer log.Sync()

	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	stores := common.MustConnectStores(context)
	defer stores.Close(context)

	saleRepo, err := stores.SaleRepo(context)
	if err != nil {
		panic(err)
	}

	context.Info("init ledger")
	ledger, err := common.Ledger(context)
	if err != nil {
		panic(err)
	}
	clock := common.Clock(ledger)
	oracle := common.Oracle(ledger, stores)

	defaultFee, defaultTime := common.MarketDefaults()
	marketConfig, err := marketconfig_usecase.New(context, &marketconfig_usecase.MarketConfigUseCaseCfg{
		Repo:        stores.MarketConfigRepo(),
		DefaultFee:  defaultFee,
		DefaultTime: defaultTime,
	})
	if err != nil {
		panic(err)
	}
	refreshCtx, stopRefresh := ctx.WithCancel(context)
	defer stopRefresh()
	goroutine.RecoverableGo(func() {
		marketconfig_usecase.Refresh(refreshCtx, marketConfig, viper.GetDuration("market.configRefresh"))
	}, goroutine.WithLogger(context.Logger))

	evaluator := eligibility_usecase.New(&eligibility_usecase.EvaluatorCfg{
		SaleRepo: saleRepo,
		Oracle:   oracle,
	})
	saleUC := sale_usecase.New(&sale_usecase.SaleUseCaseCfg{
		SaleRepo:         saleRepo,
		Oracle:           oracle,
		Evaluator:        evaluator,
		MarketConfig:     marketConfig,
		CurrencyDecimals: viper.GetInt32("market.currencyDecimals"),
		MaxCasRetries:    viper.GetInt("market.maxCasRetries"),
	})

	var listCache []echo.MiddlewareFunc
	if ttl := viper.GetDuration("server.listCacheTtl"); ttl > 0 {
		listCache = append(listCache, mmiddleware.CacheHttp(stores.CacheProvider("http", viper.GetInt("server.listCacheSizeMb")), ttl))
	}

	hc_delivery.New(e, hc_usecase.New(hc_repo.New(stores.Mongo, stores.Redis)))
	marketconfig_delivery.New(e, marketConfig)
	sale_delivery.New(e, saleUC, clock, listCache...)

	serverDone := goroutine.RecoverableGo(func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}, goroutine.WithLogger(context.Logger))

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	select {
	case sig := <-quit:
		log.Log().WithField("signal", sig).Info("received signal")
	case <-serverDone:
		log.Log().Warn("server stopped")
	}
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
