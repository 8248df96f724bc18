package usecase

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
	hcdomain "github.com/lovawin/sosh-test-sub004/domain/healthcheck"
	"github.com/lovawin/sosh-test-sub004/domain/healthcheck/mocks"
)

func TestCheck(t *testing.T) {
	errDown := xerrors.New("connection refused")
	cases := []struct {
		name    string
		mongo   error
		redis   error
		want    hcdomain.Status
		wantErr error
	}{
		{"all ok", nil, nil, hcdomain.Status{Mongo: "ok", Redis: "ok"}, nil},
		{"memory mode", hcdomain.ErrDisabled, hcdomain.ErrDisabled, hcdomain.Status{Mongo: "disabled", Redis: "disabled"}, nil},
		{"redis down", nil, errDown, hcdomain.Status{Mongo: "ok", Redis: "down"}, errDown},
		{"mongo down", errDown, hcdomain.ErrDisabled, hcdomain.Status{Mongo: "down", Redis: "disabled"}, errDown},
	}
	for _, c := range cases {
		req := require.New(t)
		repo := mocks.NewHealthCheckRepo(t)
		repo.On("PingMongo", mock.Anything).Return(c.mongo).Once()
		repo.On("PingRedis", mock.Anything).Return(c.redis).Once()

		status, err := New(repo).Check(ctx.Background())
		req.Equal(c.want, *status, c.name)
		if c.wantErr == nil {
			req.NoError(err, c.name)
		} else {
			req.ErrorIs(err, c.wantErr, c.name)
		}
	}
}
