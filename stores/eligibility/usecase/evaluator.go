package usecase

import (
	"errors"
	"time"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/base/log"
	"github.com/lovawin/sosh-test-sub004/base/metrics"
	"github.com/lovawin/sosh-test-sub004/base/ptr"
	"github.com/lovawin/sosh-test-sub004/domain"
	"github.com/lovawin/sosh-test-sub004/domain/custody"
	"github.com/lovawin/sosh-test-sub004/domain/sale"
)

var met = metrics.New("eligibility")

type EvaluatorCfg struct {
	SaleRepo sale.Repo
	Oracle   custody.Oracle
}

type impl struct {
	saleRepo sale.Repo
	oracle   custody.Oracle
}

func New(cfg *EvaluatorCfg) sale.EligibilityEvaluator {
	return &impl{
		saleRepo: cfg.SaleRepo,
		oracle:   cfg.Oracle,
	}
}

func (im *impl) Evaluate(ctx ctx.Ctx, tokenId domain.TokenId, requester domain.Address, now time.Time) (*sale.EligibilityResult, error) {
	tokenId, err := tokenId.Canonical()
	if err != nil {
		return nil, domain.ErrBadParamInput
	}
	s, err := im.saleRepo.FindActiveOrLast(ctx, tokenId)
	if errors.Is(err, domain.ErrNotFound) {
		return im.done(&sale.EligibilityResult{
			Reason:    sale.ReasonNoSaleRecord,
			TokenId:   tokenId,
			Requester: requester.ToLower(),
		}), nil
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"tokenId": tokenId,
			"err":     err,
		}).Error("saleRepo.FindActiveOrLast failed")
		return nil, err
	}
	return im.EvaluateSale(ctx, s, requester, now)
}

// EvaluateSale runs the checks in order and stops at the first failing one.
// Custody is always read fresh because a positive answer leads to a custody move.
func (im *impl) EvaluateSale(ctx ctx.Ctx, s *sale.Sale, requester domain.Address, now time.Time) (*sale.EligibilityResult, error) {
	res := &sale.EligibilityResult{
		SaleId:    s.SaleId,
		TokenId:   s.TokenId,
		Requester: requester.ToLower(),
		Status:    sale.EffectiveStatus(s, now),
		EndTime:   ptr.Time(s.EndTime),
		Checks:    sale.EligibilityChecks{HasSaleRecord: true},
	}

	expired := s.HasExpired(now)
	res.Checks.HasExpired = ptr.Bool(expired)
	if !expired {
		res.Reason = sale.ReasonNotYetExpired
		return im.done(res), nil
	}

	isSeller := requester.Equals(s.Seller)
	res.Checks.IsOriginalSeller = ptr.Bool(isSeller)
	if !isSeller {
		res.Reason = sale.ReasonNotOriginalSeller
		return im.done(res), nil
	}

	held, err := im.oracle.IsCustodyHeldByMarketplace(ctx, s.TokenId, custody.WithFreshRead())
	if errors.Is(err, domain.ErrOracleUnavailable) {
		ctx.WithFields(log.Fields{
			"saleId": s.SaleId,
			"err":    err,
		}).Warn("custody unknown, retrieval not decided")
		res.Reason = sale.ReasonOracleUnavailable
		return im.done(res), nil
	} else if err != nil {
		ctx.WithFields(log.Fields{
			"saleId": s.SaleId,
			"err":    err,
		}).Error("oracle.IsCustodyHeldByMarketplace failed")
		return nil, err
	}
	res.Checks.IsOwnedByMarketplace = ptr.Bool(held)
	if !held {
		res.Reason = sale.ReasonNotHeldByMarketplace
		return im.done(res), nil
	}

	// an ended auction belongs to its highest bidder, not to the seller
	retrievable := res.Status == sale.StatusExpired
	res.Checks.IsRetrievable = ptr.Bool(retrievable)
	if !retrievable {
		res.Reason = sale.ReasonSaleNotInRetrievableState
		return im.done(res), nil
	}

	res.Eligible = true
	res.Reason = sale.ReasonEligible
	return im.done(res), nil
}

func (im *impl) done(res *sale.EligibilityResult) *sale.EligibilityResult {
	met.BumpSum("evaluate", 1, "reason", string(res.Reason))
	return res
}
