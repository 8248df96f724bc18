package chain

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	baseabi "github.com/lovawin/sosh-test-sub004/base/abi"
	bCtx "github.com/lovawin/sosh-test-sub004/base/ctx"
)

type stubBackend struct {
	header *types.Header
	out    []byte
	err    error
}

func (s *stubBackend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return s.header, s.err
}

func (s *stubBackend) CallContract(context.Context, geth.CallMsg, *big.Int) ([]byte, error) {
	return s.out, s.err
}

func TestBlockTimestamp(t *testing.T) {
	req := require.New(t)
	c := NewClientWithBackend(1, &stubBackend{header: &types.Header{Time: 1_700_000_000}})
	ts, err := c.BlockTimestamp(bCtx.Background())
	req.NoError(err)
	req.Equal(time.Unix(1_700_000_000, 0).UTC(), ts)

	boom := errors.New("boom")
	c = NewClientWithBackend(1, &stubBackend{err: boom})
	_, err = c.BlockTimestamp(bCtx.Background())
	req.ErrorIs(err, boom)
}

func TestCallEmptyResult(t *testing.T) {
	c := NewClientWithBackend(1, &stubBackend{})
	_, err := c.Call(bCtx.Background(), common.Address{}, nil, baseabi.ERC721TokenABI, "ownerOf", big.NewInt(1))
	require.ErrorIs(t, err, ErrEmptyResult)
}

func TestCallPackError(t *testing.T) {
	c := NewClientWithBackend(1, &stubBackend{})
	_, err := c.Call(bCtx.Background(), common.Address{}, nil, baseabi.ERC721TokenABI, "ownerOf", "not a number")
	require.Error(t, err)
}
