package repository

import (
	"strings"
	"time"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/base/log"
	"github.com/lovawin/sosh-test-sub004/domain"
	"github.com/lovawin/sosh-test-sub004/domain/custody"
	"github.com/lovawin/sosh-test-sub004/service/chain"
	"github.com/lovawin/sosh-test-sub004/service/chain/contract"
)

type LedgerCfg struct {
	// NftContract is the erc721 collection the marketplace sells.
	NftContract domain.Address
	Erc721      contract.Erc721Contract
	Chain       chain.Client
}

type ledgerImpl struct {
	nftContract domain.Address
	erc721      contract.Erc721Contract
	chain       chain.Client
}

// NewLedgerClient reads custody and time from the chain the collection lives on.
func NewLedgerClient(cfg *LedgerCfg) custody.LedgerClient {
	return &ledgerImpl{
		nftContract: cfg.NftContract.ToLower(),
		erc721:      cfg.Erc721,
		chain:       cfg.Chain,
	}
}

func (im *ledgerImpl) OwnerOf(ctx ctx.Ctx, tokenId domain.TokenId) (domain.Address, error) {
	id, err := tokenId.BigInt()
	if err != nil {
		return "", err
	}
	owner, err := im.erc721.OwnerOf(ctx, im.nftContract, id)
	if err != nil && isReverted(err) {
		ctx.WithFields(log.Fields{
			"contract": im.nftContract,
			"tokenId":  tokenId,
			"err":      err,
		}).Warn("erc721.OwnerOf reverted")
		return "", domain.ErrTokenNotMinted
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"contract": im.nftContract,
			"tokenId":  tokenId,
			"err":      err,
		}).Error("erc721.OwnerOf failed")
		return "", err
	}
	return owner, nil
}

// isReverted tells a contract revert apart from transport failures.
// Nodes only surface the revert through the message.
func isReverted(err error) bool {
	return strings.Contains(err.Error(), "execution reverted")
}

func (im *ledgerImpl) BlockTimestamp(ctx ctx.Ctx) (time.Time, error) {
	return im.chain.BlockTimestamp(ctx)
}
