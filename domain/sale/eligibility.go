package sale

import (
	"time"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/domain"
)

type Reason string

const (
	ReasonEligible                  Reason = "ELIGIBLE"
	ReasonNoSaleRecord              Reason = "NO_SALE_RECORD"
	ReasonNotYetExpired             Reason = "NOT_EXPIRED"
	ReasonNotOriginalSeller         Reason = "NOT_SELLER"
	ReasonNotHeldByMarketplace      Reason = "NOT_HELD_BY_MARKETPLACE"
	ReasonOracleUnavailable         Reason = "VERIFICATION_ERROR"
	ReasonSaleNotInRetrievableState Reason = "SALE_NOT_RETRIEVABLE"
)

// EligibilityChecks holds the outcome of each check that ran. Checks after
// the first failing one are left nil.
type EligibilityChecks struct {
	HasSaleRecord        bool  `json:"hasSaleRecord"`
	HasExpired           *bool `json:"hasExpired,omitempty"`
	IsOriginalSeller     *bool `json:"isOriginalSeller,omitempty"`
	IsOwnedByMarketplace *bool `json:"isOwnedByMarketplace,omitempty"`
	IsRetrievable        *bool `json:"isRetrievable,omitempty"`
}

type EligibilityResult struct {
	Eligible  bool              `json:"eligible"`
	Reason    Reason            `json:"reason"`
	SaleId    SaleId            `json:"saleId,omitempty"`
	TokenId   domain.TokenId    `json:"tokenId"`
	Requester domain.Address    `json:"requester"`
	Status    Status            `json:"status,omitempty"`
	EndTime   *time.Time        `json:"endTime,omitempty"`
	Checks    EligibilityChecks `json:"checks"`
}

// EligibilityEvaluator decides whether a requester may retrieve a token now.
// Oracle failures come back as ReasonOracleUnavailable, not as an error.
type EligibilityEvaluator interface {
	Evaluate(ctx ctx.Ctx, tokenId domain.TokenId, requester domain.Address, now time.Time) (*EligibilityResult, error)
	EvaluateSale(ctx ctx.Ctx, s *Sale, requester domain.Address, now time.Time) (*EligibilityResult, error)
}
