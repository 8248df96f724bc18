package chain

import (
	"errors"
	"math/big"
	"time"

	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	bCtx "github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/base/ethereum"
	"github.com/lovawin/sosh-test-sub004/base/log"
	"github.com/lovawin/sosh-test-sub004/domain"
)

var ErrEmptyResult = errors.New("empty call result")

type ClientCfg struct {
	ChainId domain.ChainId
	RpcUrl  string
	// Throttle caps concurrent rpc calls, 0 means unbounded.
	Throttle int
}

type Client interface {
	Call(ctx bCtx.Ctx, addr common.Address, blk *big.Int, _abi abi.ABI, method string, params ...interface{}) ([]interface{}, error)
	// BlockTimestamp returns the timestamp of the latest block.
	BlockTimestamp(ctx bCtx.Ctx) (time.Time, error)
}

type clientImpl struct {
	chainId domain.ChainId
	backend domain.EthClientRepo
}

func NewClient(ctx bCtx.Ctx, cfg *ClientCfg) (Client, error) {
	client, err := ethclient.DialContext(ctx, cfg.RpcUrl)
	if err != nil {
		ctx.WithFields(log.Fields{
			"err":     err,
			"chainId": cfg.ChainId,
		}).Error("failed to dial rpc")
		return nil, err
	}
	var backend domain.EthClientRepo = client
	if cfg.Throttle > 0 {
		backend = ethereum.NewThrottledClient(client, cfg.Throttle)
	}
	return NewClientWithBackend(cfg.ChainId, backend), nil
}

// NewClientWithBackend builds a Client over an already connected backend.
func NewClientWithBackend(chainId domain.ChainId, backend domain.EthClientRepo) Client {
	return &clientImpl{
		chainId: chainId,
		backend: backend,
	}
}

func (c *clientImpl) Call(ctx bCtx.Ctx, addr common.Address, blk *big.Int, _abi abi.ABI, method string, params ...interface{}) ([]interface{}, error) {
	logger := ctx.WithFields(log.Fields{
		"chainId": c.chainId,
		"to":      addr.Hex(),
		"method":  method,
	})

	data, err := _abi.Pack(method, params...)
	if err != nil {
		logger.WithFields(log.Fields{"params": params, "err": err}).Error("abi.Pack failed")
		return nil, err
	}
	res, err := c.backend.CallContract(ctx, geth.CallMsg{To: &addr, Data: data}, blk)
	if err != nil {
		logger.WithField("err", err).Error("backend.CallContract failed")
		return nil, err
	}
	if len(res) == 0 {
		return nil, ErrEmptyResult
	}
	unpacked, err := _abi.Unpack(method, res)
	if err != nil {
		logger.WithField("err", err).Error("abi.Unpack failed")
		return nil, err
	}
	return unpacked, nil
}

func (c *clientImpl) BlockTimestamp(ctx bCtx.Ctx) (time.Time, error) {
	header, err := c.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		ctx.WithFields(log.Fields{"chainId": c.chainId, "err": err}).Error("backend.HeaderByNumber failed")
		return time.Time{}, err
	}
	return time.Unix(int64(header.Time), 0).UTC(), nil
}
