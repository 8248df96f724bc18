package usecase

import (
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/xerrors"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/base/log"
	"github.com/lovawin/sosh-test-sub004/base/validator"
	"github.com/lovawin/sosh-test-sub004/domain"
	"github.com/lovawin/sosh-test-sub004/domain/marketconfig"
	"github.com/lovawin/sosh-test-sub004/domain/sale"
)

func isTxHash(txRef domain.TxHash) bool {
	b, err := hexutil.Decode(string(txRef))
	return err == nil && len(b) == common.HashLength
}

// requireOpen rejects every effective status but open.
func requireOpen(s *sale.Sale, now time.Time) error {
	if status := sale.EffectiveStatus(s, now); status != sale.StatusOpen {
		return xerrors.Errorf("sale %d is %s: %w", s.SaleId, status, domain.ErrSaleNotOpenOrExpired)
	}
	return nil
}

func (im *impl) PlaceBid(ctx ctx.Ctx, saleId sale.SaleId, bidder domain.Address, amount domain.Amount, now time.Time) (*sale.BidReceipt, error) {
	if !validator.IsValidAddress(string(bidder)) {
		return nil, domain.ErrInvalidAddress
	}
	value, err := amount.Positive()
	if err != nil {
		return nil, err
	}
	tc := im.marketConfig.TimeConfig(ctx)

	receipt := &sale.BidReceipt{}
	s, err := im.mutate(ctx, saleId, now, func(s *sale.Sale) (bool, error) {
		if s.SaleType != sale.SaleTypeAuction {
			return false, domain.ErrWrongSaleType
		}
		if err := requireOpen(s, now); err != nil {
			return false, err
		}
		if bidder.Equals(s.Seller) {
			return false, domain.ErrSellerIsBuyer
		}

		if s.HighestBid == nil {
			ask, err := s.AskPrice.BigInt()
			if err != nil {
				return false, err
			}
			if value.Cmp(ask) < 0 {
				return false, xerrors.Errorf("first bid %s below ask %s: %w", amount, s.AskPrice, domain.ErrBidTooLow)
			}
		} else {
			highest, err := s.HighestBid.Amount.BigInt()
			if err != nil {
				return false, err
			}
			if value.Cmp(highest) <= 0 {
				return false, xerrors.Errorf("bid %s not above %s: %w", amount, s.HighestBid.Amount, domain.ErrBidTooLow)
			}
		}

		receipt.Outbid = nil
		if s.HighestBid != nil {
			prev := *s.HighestBid
			receipt.Outbid = &prev
		}
		s.HighestBid = &sale.Bid{Bidder: bidder.ToLower(), Amount: domain.AmountFromBig(value), PlacedAt: now}
		s.BidCount++
		s.EndTime, receipt.Extended = tc.ExtendedEnd(s.OriginalEndTime, s.EndTime, now)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	met.BumpSum("bid", 1, "extended", boolTag(receipt.Extended))
	receipt.Sale = s
	return receipt, nil
}

func (im *impl) SettleFixed(ctx ctx.Ctx, saleId sale.SaleId, buyer domain.Address, amount domain.Amount, now time.Time) (*sale.SettlementResult, error) {
	if !validator.IsValidAddress(string(buyer)) {
		return nil, domain.ErrInvalidAddress
	}
	value, err := amount.Positive()
	if err != nil {
		return nil, err
	}

	return im.settle(ctx, saleId, now, func(s *sale.Sale) (domain.Address, *big.Int, error) {
		if s.SaleType != sale.SaleTypeFixed {
			return "", nil, domain.ErrWrongSaleType
		}
		if err := requireOpen(s, now); err != nil {
			return "", nil, err
		}
		if buyer.Equals(s.Seller) {
			return "", nil, domain.ErrSellerIsBuyer
		}
		ask, err := s.AskPrice.BigInt()
		if err != nil {
			return "", nil, err
		}
		if value.Cmp(ask) != 0 {
			return "", nil, xerrors.Errorf("paid %s, ask %s: %w", amount, s.AskPrice, domain.ErrPriceMismatch)
		}
		return buyer.ToLower(), value, nil
	})
}

func (im *impl) SettleAuction(ctx ctx.Ctx, saleId sale.SaleId, now time.Time) (*sale.SettlementResult, error) {
	return im.settle(ctx, saleId, now, func(s *sale.Sale) (domain.Address, *big.Int, error) {
		if s.SaleType != sale.SaleTypeAuction {
			return "", nil, domain.ErrWrongSaleType
		}
		switch status := sale.EffectiveStatus(s, now); status {
		case sale.StatusEnded:
		case sale.StatusOpen, sale.StatusScheduled:
			return "", nil, domain.ErrAuctionNotEnded
		default:
			return "", nil, xerrors.Errorf("sale %d is %s: %w", s.SaleId, status, domain.ErrSaleNotOpenOrExpired)
		}
		value, err := s.HighestBid.Amount.BigInt()
		if err != nil {
			return "", nil, err
		}
		return s.HighestBid.Bidder, value, nil
	})
}

// settle decides the sale for a buyer and records a pending settle intent. The
// sale is stored as sold once the transfer is confirmed. winner picks the buyer
// and the amount from the current sale, custody is confirmed before anything is written.
func (im *impl) settle(ctx ctx.Ctx, saleId sale.SaleId, now time.Time, winner func(s *sale.Sale) (domain.Address, *big.Int, error)) (*sale.SettlementResult, error) {
	fc := im.marketConfig.FeeConfig(ctx)

	s, err := im.mutate(ctx, saleId, now, func(s *sale.Sale) (bool, error) {
		buyer, value, err := winner(s)
		if err != nil {
			return false, err
		}
		fee, net, err := marketconfig.ComputeFee(value, s.PrimarySale, &fc)
		if err != nil {
			ctx.WithFields(log.Fields{"config": fc, "err": err}).Error("marketconfig.ComputeFee failed")
			return false, err
		}
		if err := im.requireCustody(ctx, s.TokenId); err != nil {
			return false, err
		}
		intent, err := im.intent(sale.IntentKindSettle, s, buyer, now)
		if err != nil {
			return false, err
		}

		bps, _ := fc.Tier(s.PrimarySale)
		s.Settlement = &sale.Settlement{
			Buyer:     buyer,
			Amount:    domain.AmountFromBig(value),
			FeeAmount: domain.AmountFromBig(fee),
			NetAmount: domain.AmountFromBig(net),
			FeeBps:    bps,
			SettledAt: now,
		}
		intent.Payment = &sale.Payment{
			Payer:     buyer,
			PayTo:     s.Seller,
			Amount:    s.Settlement.Amount,
			FeeAmount: s.Settlement.FeeAmount,
			NetAmount: s.Settlement.NetAmount,
		}
		s.Intent = intent
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	return &sale.SettlementResult{
		Sale:      s,
		FeeAmount: s.Settlement.FeeAmount,
		NetAmount: s.Settlement.NetAmount,
		Seller:    s.Seller,
		Intent:    s.Intent,
	}, nil
}

// CancelSale withdraws an open or scheduled sale. Sales holding a bid cannot be cancelled.
func (im *impl) CancelSale(ctx ctx.Ctx, saleId sale.SaleId, requester domain.Address, now time.Time) (*sale.TransferIntent, error) {
	return im.cancel(ctx, saleId, now, func(s *sale.Sale) error {
		if !requester.Equals(s.Seller) {
			return domain.ErrNotSeller
		}
		return nil
	})
}

// AdminCancel is CancelSale without the seller check.
func (im *impl) AdminCancel(ctx ctx.Ctx, saleId sale.SaleId, now time.Time) (*sale.TransferIntent, error) {
	return im.cancel(ctx, saleId, now, func(s *sale.Sale) error {
		ctx.WithFields(log.Fields{"saleId": s.SaleId, "seller": s.Seller}).Info("admin cancel")
		return nil
	})
}

func (im *impl) cancel(ctx ctx.Ctx, saleId sale.SaleId, now time.Time, authorize func(s *sale.Sale) error) (*sale.TransferIntent, error) {
	s, err := im.mutate(ctx, saleId, now, func(s *sale.Sale) (bool, error) {
		if err := authorize(s); err != nil {
			return false, err
		}
		if status := sale.EffectiveStatus(s, now); status != sale.StatusOpen && status != sale.StatusScheduled {
			return false, xerrors.Errorf("sale %d is %s: %w", s.SaleId, status, domain.ErrSaleNotOpenOrExpired)
		}
		if s.HighestBid != nil {
			return false, domain.ErrSaleHasBids
		}
		if err := im.requireCustody(ctx, s.TokenId); err != nil {
			return false, err
		}
		intent, err := im.intent(sale.IntentKindReturn, s, s.Seller, now)
		if err != nil {
			return false, err
		}
		s.Intent = intent
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return s.Intent, nil
}

func (im *impl) UpdateAskPrice(ctx ctx.Ctx, saleId sale.SaleId, requester domain.Address, price domain.Amount, now time.Time) (*sale.Sale, error) {
	value, err := price.Positive()
	if err != nil {
		return nil, err
	}
	tc := im.marketConfig.TimeConfig(ctx)

	return im.mutate(ctx, saleId, now, func(s *sale.Sale) (bool, error) {
		if !requester.Equals(s.Seller) {
			return false, domain.ErrNotSeller
		}
		if status := sale.EffectiveStatus(s, now); status != sale.StatusOpen && status != sale.StatusScheduled {
			return false, xerrors.Errorf("sale %d is %s: %w", s.SaleId, status, domain.ErrSaleNotOpenOrExpired)
		}
		if s.HighestBid != nil {
			return false, domain.ErrSaleHasBids
		}
		if left := s.EndTime.Sub(now); left < tc.MinSaleUpdateDuration {
			return false, xerrors.Errorf("%v left, minimum %v: %w", left, tc.MinSaleUpdateDuration, domain.ErrTooLateToUpdate)
		}
		next := domain.AmountFromBig(value)
		if next == s.AskPrice {
			return false, nil
		}
		s.AskPrice = next
		return true, nil
	})
}

// Retrieve decides to hand an expired, unsold token back to its seller.
// A sale is retrieved at most once, repeating the call never yields a second intent.
func (im *impl) Retrieve(ctx ctx.Ctx, saleId sale.SaleId, requester domain.Address, now time.Time) (*sale.TransferIntent, error) {
	s, err := im.mutate(ctx, saleId, now, func(s *sale.Sale) (bool, error) {
		if sale.EffectiveStatus(s, now) == sale.StatusRetrieved {
			return false, domain.ErrAlreadyRetrieved
		}

		res, err := im.evaluator.EvaluateSale(ctx, s, requester, now)
		if err != nil {
			return false, err
		}
		if !res.Eligible {
			met.BumpSum("retrieve.denied", 1, "reason", string(res.Reason))
			if res.Reason == sale.ReasonOracleUnavailable {
				return false, domain.NewReasonError(domain.ErrOracleUnavailable, string(res.Reason))
			}
			return false, domain.NewReasonError(domain.ErrNotEligible, string(res.Reason))
		}

		intent, err := im.intent(sale.IntentKindRetrieve, s, s.Seller, now)
		if err != nil {
			return false, err
		}
		s.Intent = intent
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return s.Intent, nil
}

// ConfirmTransferExecuted records the transaction that carried out the pending
// intent and finalizes the sale to the intent's status.
// Confirming again with the same reference is a no-op.
func (im *impl) ConfirmTransferExecuted(ctx ctx.Ctx, saleId sale.SaleId, txRef domain.TxHash, now time.Time) (*sale.Sale, error) {
	if !isTxHash(txRef) {
		return nil, domain.ErrInvalidTransferRef
	}
	txRef = txRef.ToLower()

	s, err := im.mutate(ctx, saleId, now, func(s *sale.Sale) (bool, error) {
		if s.Intent == nil {
			return false, domain.ErrNoPendingTransfer
		}
		if s.Intent.State == sale.IntentStateConfirmed {
			if strings.EqualFold(string(s.Intent.TxRef), string(txRef)) {
				return false, nil
			}
			return false, domain.ErrTransferRefMismatch
		}
		if !s.Intent.IsPending() {
			return false, domain.ErrNoPendingTransfer
		}
		s.Intent.State = sale.IntentStateConfirmed
		s.Intent.TxRef = txRef
		s.Intent.ConfirmedAt = &now
		s.Status = s.Intent.Target()
		s.ClosedAt = &now
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	if err := im.oracle.Invalidate(ctx, s.TokenId); err != nil {
		ctx.WithFields(log.Fields{"tokenId": s.TokenId, "err": err}).Warn("oracle.Invalidate failed")
	}
	met.BumpSum("confirmed", 1, "kind", string(s.Intent.Kind))
	return s, nil
}

// AbortTransfer drops a pending intent the executor could not carry out, e.g. a
// buyer payment that failed for good. The sale is open again and its status is
// derived from the clock as before the decision. intentId must name the pending
// intent, an executor holding an older id cannot abort a newer decision.
func (im *impl) AbortTransfer(ctx ctx.Ctx, saleId sale.SaleId, intentId string, reason string, now time.Time) (*sale.Sale, error) {
	if intentId == "" {
		return nil, domain.ErrBadParamInput
	}

	s, err := im.mutate(ctx, saleId, now, func(s *sale.Sale) (bool, error) {
		if !s.Intent.IsPending() {
			return false, domain.ErrNoPendingTransfer
		}
		if s.Intent.Id != intentId {
			return false, xerrors.Errorf("pending intent is %s, not %s: %w", s.Intent.Id, intentId, domain.ErrIntentMismatch)
		}
		if s.Intent.Kind == sale.IntentKindSettle {
			s.Settlement = nil
		}
		s.Intent.State = sale.IntentStateAborted
		s.Intent.AbortedAt = &now
		s.Intent.AbortReason = reason
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	ctx.WithFields(log.Fields{"saleId": saleId, "intentId": intentId, "reason": reason}).Warn("transfer intent aborted")
	met.BumpSum("aborted", 1, "kind", string(s.Intent.Kind))
	return s, nil
}

func boolTag(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
