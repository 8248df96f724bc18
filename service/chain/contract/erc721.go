package contract

import (
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	baseabi "github.com/lovawin/sosh-test-sub004/base/abi"
	bCtx "github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/domain"
	"github.com/lovawin/sosh-test-sub004/service/chain"
)

type Erc721Contract interface {
	Supports721Interface(ctx bCtx.Ctx, addr domain.Address) (bool, error)
	OwnerOf(ctx bCtx.Ctx, addr domain.Address, tokenId *big.Int) (domain.Address, error)
}

type Erc721 struct {
	chainService      chain.Client
	abi               ethabi.ABI
	erc721InterfaceId [4]byte
}

func NewErc721(chainService chain.Client) *Erc721 {
	var interfaceId [4]byte
	copy(interfaceId[:], common.Hex2Bytes("80ac58cd"))
	return &Erc721{
		abi:               baseabi.ERC721TokenABI,
		chainService:      chainService,
		erc721InterfaceId: interfaceId,
	}
}

func (e *Erc721) Supports721Interface(ctx bCtx.Ctx, addr domain.Address) (bool, error) {
	unpacked, err := e.chainService.Call(ctx, common.HexToAddress(string(addr)), nil, e.abi, "supportsInterface", e.erc721InterfaceId)
	if err != nil {
		return false, err
	}
	return unpacked[0].(bool), nil
}

// OwnerOf returns the lowercased holder of tokenId.
func (e *Erc721) OwnerOf(ctx bCtx.Ctx, addr domain.Address, tokenId *big.Int) (domain.Address, error) {
	unpacked, err := e.chainService.Call(ctx, common.HexToAddress(string(addr)), nil, e.abi, "ownerOf", tokenId)
	if err != nil {
		return "", err
	}
	return domain.Address(unpacked[0].(common.Address).Hex()).ToLower(), nil
}
