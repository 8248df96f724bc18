package domain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
)

// EthClientRepo is the part of go-ethereum/ethclient the marketplace reads through.
type EthClientRepo interface {
	HeaderByNumber(context.Context, *big.Int) (*types.Header, error)
	CallContract(context.Context, ethereum.CallMsg, *big.Int) ([]byte, error)
}
