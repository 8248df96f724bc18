package usecase

import (
	"errors"

	"golang.org/x/xerrors"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
	hcdomain "github.com/lovawin/sosh-test-sub004/domain/healthcheck"
)

type impl struct {
	repo hcdomain.HealthCheckRepo
}

// New creates new healthCheckUsecase object representation of HealthCheckUsecase interface
func New(repo hcdomain.HealthCheckRepo) hcdomain.HealthCheckUsecase {
	return &impl{
		repo: repo,
	}
}

// Check pings every store. The status is always returned; the error wraps
// the first failing ping.
func (im *impl) Check(context ctx.Ctx) (*hcdomain.Status, error) {
	mgoState, mgoErr := state(im.repo.PingMongo(context))
	redisState, redisErr := state(im.repo.PingRedis(context))
	status := &hcdomain.Status{Mongo: mgoState, Redis: redisState}
	switch {
	case mgoErr != nil:
		return status, xerrors.Errorf("mongo: %w", mgoErr)
	case redisErr != nil:
		return status, xerrors.Errorf("redis: %w", redisErr)
	}
	return status, nil
}

func state(err error) (string, error) {
	switch {
	case err == nil:
		return hcdomain.StateOk, nil
	case errors.Is(err, hcdomain.ErrDisabled):
		return hcdomain.StateDisabled, nil
	}
	return hcdomain.StateDown, err
}
