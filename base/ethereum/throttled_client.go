package ethereum

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/lovawin/sosh-test-sub004/base/log"
	"github.com/lovawin/sosh-test-sub004/domain"
)

// ThrottledClient bounds the number of in-flight rpc calls.
type ThrottledClient struct {
	client domain.EthClientRepo
	tokens chan int
}

func NewThrottledClient(client domain.EthClientRepo, n int) *ThrottledClient {
	if n <= 0 {
		n = 1
	}
	tokens := make(chan int, n)
	for i := 0; i < n; i++ {
		tokens <- i + 1
	}
	return &ThrottledClient{
		client: client,
		tokens: tokens,
	}
}

func (c *ThrottledClient) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	token, err := c.before(ctx)
	if err != nil {
		return nil, err
	}
	defer c.after(token)
	return c.client.HeaderByNumber(ctx, number)
}

func (c *ThrottledClient) CallContract(ctx context.Context, msg ethereum.CallMsg, number *big.Int) ([]byte, error) {
	token, err := c.before(ctx)
	if err != nil {
		return nil, err
	}
	defer c.after(token)
	return c.client.CallContract(ctx, msg, number)
}

func (c *ThrottledClient) before(ctx context.Context) (int, error) {
	now := time.Now()
	select {
	case <-ctx.Done():
		log.Log().WithField("waited", time.Since(now)).Warn("throttle ctx done")
		return 0, ctx.Err()
	case token := <-c.tokens:
		if waited := time.Since(now); waited > 100*time.Millisecond {
			log.Log().WithFields(log.Fields{"token": token, "waited": waited}).Debug("throttle slow acquire")
		}
		return token, nil
	}
}

func (c *ThrottledClient) after(token int) {
	c.tokens <- token
}
