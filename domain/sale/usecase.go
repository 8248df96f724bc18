package sale

import (
	"time"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/domain"
)

type Repo interface {
	// NextSaleId hands out monotonically increasing sale ids.
	NextSaleId(ctx ctx.Ctx) (SaleId, error)
	// Create stores a new open sale. It fails with domain.ErrDuplicateActiveSale
	// when the token already has an open sale.
	Create(ctx ctx.Ctx, s *Sale) error
	FindOne(ctx ctx.Ctx, saleId SaleId) (*Sale, error)
	// FindActiveOrLast returns the token's open sale, or its most recent one.
	FindActiveOrLast(ctx ctx.Ctx, tokenId domain.TokenId) (*Sale, error)
	FindAll(ctx ctx.Ctx, opts ...FindAllOptionsFunc) ([]*Sale, error)
	Count(ctx ctx.Ctx, opts ...FindAllOptionsFunc) (int, error)
	// CompareAndSwap replaces the stored sale only if its version still equals
	// prevVersion. It fails with domain.ErrVersionConflict otherwise.
	CompareAndSwap(ctx ctx.Ctx, s *Sale, prevVersion uint64) error
}

type CreateSaleParams struct {
	Seller    domain.Address
	TokenId   domain.TokenId
	SaleType  SaleType
	AskPrice  domain.Amount
	StartTime time.Time
	EndTime   time.Time
}

// BidReceipt describes an accepted bid. Outbid is the previous highest bid the
// executor refunds.
type BidReceipt struct {
	Sale     *Sale `json:"sale"`
	Outbid   *Bid  `json:"outbid,omitempty"`
	Extended bool  `json:"extended"`
}

type SettlementResult struct {
	Sale      *Sale           `json:"sale"`
	FeeAmount domain.Amount   `json:"feeAmount"`
	NetAmount domain.Amount   `json:"netAmount"`
	Seller    domain.Address  `json:"seller"`
	Intent    *TransferIntent `json:"intent"`
}

// SaleView is the read projection of a sale combining stored and derived state.
type SaleView struct {
	*Sale
	EffectiveStatus Status `json:"effectiveStatus"`
	// Finalized is set once the stored status is terminal, i.e. the transfer was confirmed.
	Finalized    bool      `json:"finalized"`
	DisplayPrice string    `json:"displayPrice"`
	DisplayBid   string    `json:"displayBid,omitempty"`
	SecondsLeft  int64     `json:"secondsLeft"`
	AsOf         time.Time `json:"asOf"`
}

type SaleList struct {
	Items []*SaleView `json:"items"`
	Count int         `json:"count"`
}

type UseCase interface {
	CreateSale(ctx ctx.Ctx, params *CreateSaleParams, now time.Time) (*Sale, error)
	PlaceBid(ctx ctx.Ctx, saleId SaleId, bidder domain.Address, amount domain.Amount, now time.Time) (*BidReceipt, error)
	SettleFixed(ctx ctx.Ctx, saleId SaleId, buyer domain.Address, amount domain.Amount, now time.Time) (*SettlementResult, error)
	SettleAuction(ctx ctx.Ctx, saleId SaleId, now time.Time) (*SettlementResult, error)
	CancelSale(ctx ctx.Ctx, saleId SaleId, requester domain.Address, now time.Time) (*TransferIntent, error)
	AdminCancel(ctx ctx.Ctx, saleId SaleId, now time.Time) (*TransferIntent, error)
	UpdateAskPrice(ctx ctx.Ctx, saleId SaleId, requester domain.Address, price domain.Amount, now time.Time) (*Sale, error)
	Retrieve(ctx ctx.Ctx, saleId SaleId, requester domain.Address, now time.Time) (*TransferIntent, error)
	ConfirmTransferExecuted(ctx ctx.Ctx, saleId SaleId, txRef domain.TxHash, now time.Time) (*Sale, error)
	AbortTransfer(ctx ctx.Ctx, saleId SaleId, intentId string, reason string, now time.Time) (*Sale, error)
	PendingIntent(ctx ctx.Ctx, saleId SaleId) (*TransferIntent, error)

	GetSale(ctx ctx.Ctx, saleId SaleId, now time.Time) (*SaleView, error)
	GetSaleView(ctx ctx.Ctx, tokenId domain.TokenId, now time.Time) (*SaleView, error)
	FindAll(ctx ctx.Ctx, now time.Time, opts ...FindAllOptionsFunc) (*SaleList, error)
	EvaluateRetrievalEligibility(ctx ctx.Ctx, tokenId domain.TokenId, requester domain.Address, now time.Time) (*EligibilityResult, error)
}
