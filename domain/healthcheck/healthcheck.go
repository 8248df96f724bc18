package healthcheck

import (
	"errors"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
)

const (
	StateOk       = "ok"
	StateDown     = "down"
	StateDisabled = "disabled"
)

// ErrDisabled is returned by a ping against a store the process runs without.
var ErrDisabled = errors.New("store disabled")

// Status reports the state of each backing store.
type Status struct {
	Mongo string `json:"mongo"`
	Redis string `json:"redis"`
}

// HealthCheckUsecase represents the healthCheck's usecases
type HealthCheckUsecase interface {
	Check(context ctx.Ctx) (*Status, error)
}

// HealthCheckRepo is repository layer of healthCheck
type HealthCheckRepo interface {
	PingMongo(context ctx.Ctx) error
	PingRedis(context ctx.Ctx) error
}
