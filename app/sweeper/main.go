package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"

	"github.com/lovawin/sosh-test-sub004/app/common"
	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/base/goroutine"
	"github.com/lovawin/sosh-test-sub004/base/log"
	"github.com/lovawin/sosh-test-sub004/base/sweeper"
)

func init() {
	common.LoadConfig("sale-sweeper")
}

func main() {
	defer log.Sync()

	bCtx, cancel := ctx.WithCancel(ctx.Background())
	defer cancel()

	stores := common.MustConnectStores(bCtx)
	defer stores.Close(bCtx)
	if stores.Query == nil {
		bCtx.Warn("sweeping an in-memory store, only useful for local runs")
	}
	if stores.Redis == nil {
		bCtx.Warn("redis.uri not set, running without leader lock")
	}

	saleRepo, err := stores.SaleRepo(bCtx)
	if err != nil {
		panic(err)
	}
	ledger, err := common.Ledger(bCtx)
	if err != nil {
		panic(err)
	}

	s := sweeper.New(&sweeper.Cfg{
		SaleRepo:         saleRepo,
		Oracle:           common.Oracle(ledger, stores),
		Clock:            common.Clock(ledger),
		Redis:            stores.Redis,
		Interval:         viper.GetDuration("sweeper.interval"),
		MaxBackoff:       viper.GetDuration("sweeper.maxBackoff"),
		Batch:            viper.GetInt("sweeper.batch"),
		Workers:          viper.GetInt("sweeper.workers"),
		LockTtl:          viper.GetDuration("sweeper.lockTtl"),
		StaleIntentAfter: viper.GetDuration("sweeper.staleIntentAfter"),
	})

	done := goroutine.RecoverableGo(func() {
		if err := s.Run(bCtx); err != nil {
			bCtx.WithField("err", err).Error("sweeper.Run failed")
		}
	}, goroutine.WithLogger(bCtx.Logger))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	select {
	case sig := <-quit:
		bCtx.WithField("signal", sig).Info("received signal")
		cancel()
		<-done
	case p := <-done:
		if p != nil {
			bCtx.WithField("panic", p.Panic).Error("sweeper crashed")
			os.Exit(1)
		}
	}
	bCtx.Info("sweeper stopped")
}
