package usecase

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/xerrors"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/base/log"
	"github.com/lovawin/sosh-test-sub004/base/metrics"
	"github.com/lovawin/sosh-test-sub004/base/validator"
	"github.com/lovawin/sosh-test-sub004/domain"
	"github.com/lovawin/sosh-test-sub004/domain/custody"
	"github.com/lovawin/sosh-test-sub004/domain/marketconfig"
	"github.com/lovawin/sosh-test-sub004/domain/sale"
)

const defaultMaxCasRetries = 5

var met = metrics.New("sale")

type SaleUseCaseCfg struct {
	SaleRepo     sale.Repo
	Oracle       custody.Oracle
	Evaluator    sale.EligibilityEvaluator
	MarketConfig marketconfig.UseCase
	// CurrencyDecimals scales amounts for display, e.g. 18 for wei.
	CurrencyDecimals int32
	// MaxCasRetries bounds re-reads after a lost compare-and-swap.
	MaxCasRetries int
}

type impl struct {
	saleRepo      sale.Repo
	oracle        custody.Oracle
	evaluator     sale.EligibilityEvaluator
	marketConfig  marketconfig.UseCase
	decimals      int32
	maxCasRetries int

	newIntentId func() (string, error)
}

func New(cfg *SaleUseCaseCfg) sale.UseCase {
	retries := cfg.MaxCasRetries
	if retries <= 0 {
		retries = defaultMaxCasRetries
	}
	return &impl{
		saleRepo:      cfg.SaleRepo,
		oracle:        cfg.Oracle,
		evaluator:     cfg.Evaluator,
		marketConfig:  cfg.MarketConfig,
		decimals:      cfg.CurrencyDecimals,
		maxCasRetries: retries,
		newIntentId: func() (string, error) {
			id, err := uuid.NewRandom()
			if err != nil {
				return "", err
			}
			return id.String(), nil
		},
	}
}

// mutator applies a transition to a private copy of the current sale.
// It reports whether anything changed, unchanged sales are not written.
type mutator func(s *sale.Sale) (bool, error)

// mutate runs fn against the latest stored sale and writes the result with a
// compare-and-swap on the version. A lost swap re-reads and re-runs fn, so every
// rule is checked again against the state that actually gets replaced.
func (im *impl) mutate(ctx ctx.Ctx, saleId sale.SaleId, now time.Time, fn mutator) (*sale.Sale, error) {
	for attempt := 0; attempt < im.maxCasRetries; attempt++ {
		cur, err := im.saleRepo.FindOne(ctx, saleId)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				ctx.WithFields(log.Fields{"saleId": saleId, "err": err}).Error("saleRepo.FindOne failed")
			}
			return nil, err
		}
		if err := checkWindow(cur); err != nil {
			ctx.WithFields(log.Fields{"sale": cur, "err": err}).Error("stored sale is corrupt")
			return nil, err
		}

		next := cur.Clone()
		changed, err := fn(next)
		if err != nil {
			return nil, err
		}
		if !changed {
			return cur, nil
		}
		next.Version = cur.Version + 1
		next.UpdatedAt = now

		err = im.saleRepo.CompareAndSwap(ctx, next, cur.Version)
		if err == nil {
			if cur.Status != next.Status {
				met.BumpSum("transition", 1, "from", string(cur.Status), "to", string(next.Status))
				ctx.WithFields(log.Fields{
					"saleId":  saleId,
					"from":    cur.Status,
					"to":      next.Status,
					"version": next.Version,
				}).Info("sale transition")
			}
			return next, nil
		} else if !errors.Is(err, domain.ErrVersionConflict) {
			ctx.WithFields(log.Fields{"saleId": saleId, "err": err}).Error("saleRepo.CompareAndSwap failed")
			return nil, err
		}
		met.BumpSum("cas.conflict", 1)
	}
	ctx.WithFields(log.Fields{"saleId": saleId, "retries": im.maxCasRetries}).Warn("gave up after version conflicts")
	return nil, domain.ErrVersionConflict
}

func checkWindow(s *sale.Sale) error {
	if s.EndTime.Before(s.StartTime) || s.EndTime.Before(s.OriginalEndTime) {
		return xerrors.Errorf("sale %d ends before it starts: %w", s.SaleId, domain.ErrDurationUnderflow)
	}
	return nil
}

func (im *impl) intent(kind sale.IntentKind, s *sale.Sale, to domain.Address, now time.Time) (*sale.TransferIntent, error) {
	id, err := im.newIntentId()
	if err != nil {
		return nil, err
	}
	return &sale.TransferIntent{
		Id:        id,
		Kind:      kind,
		SaleId:    s.SaleId,
		TokenId:   s.TokenId,
		TokenTo:   to.ToLower(),
		State:     sale.IntentStatePending,
		CreatedAt: now,
	}, nil
}

// requireCustody reads custody fresh. Any answer other than a confirmed
// marketplace holding stops the operation.
func (im *impl) requireCustody(ctx ctx.Ctx, tokenId domain.TokenId) error {
	held, err := im.oracle.IsCustodyHeldByMarketplace(ctx, tokenId, custody.WithFreshRead())
	if err != nil {
		ctx.WithFields(log.Fields{"tokenId": tokenId, "err": err}).Warn("custody unknown")
		return err
	}
	if !held {
		return domain.ErrCustodyNotHeld
	}
	return nil
}

func (im *impl) CreateSale(ctx ctx.Ctx, params *sale.CreateSaleParams, now time.Time) (*sale.Sale, error) {
	if !validator.IsValidAddress(string(params.Seller)) {
		return nil, domain.ErrInvalidAddress
	}
	tokenId, err := params.TokenId.Canonical()
	if err != nil {
		return nil, domain.ErrBadParamInput
	}
	if !params.SaleType.IsValid() {
		return nil, domain.ErrWrongSaleType
	}
	price, err := params.AskPrice.Positive()
	if err != nil {
		return nil, err
	}

	tc := im.marketConfig.TimeConfig(ctx)
	duration := params.EndTime.Sub(params.StartTime)
	if duration < tc.MinSaleDuration || duration > tc.MaxSaleDuration {
		return nil, xerrors.Errorf("duration %v not in [%v, %v]: %w", duration, tc.MinSaleDuration, tc.MaxSaleDuration, domain.ErrDurationOutOfRange)
	}
	if lead := params.StartTime.Sub(now); lead < tc.MinTimeDifference {
		return nil, xerrors.Errorf("starts in %v, minimum %v: %w", lead, tc.MinTimeDifference, domain.ErrTooSoonToStart)
	}

	if err := im.requireCustody(ctx, tokenId); err != nil {
		return nil, err
	}

	sold, err := im.saleRepo.Count(ctx, sale.WithTokenId(tokenId), sale.WithStatus(sale.StatusSold))
	if err != nil {
		ctx.WithFields(log.Fields{"tokenId": tokenId, "err": err}).Error("saleRepo.Count failed")
		return nil, err
	}

	saleId, err := im.saleRepo.NextSaleId(ctx)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err}).Error("saleRepo.NextSaleId failed")
		return nil, err
	}

	s := &sale.Sale{
		SaleId:          saleId,
		TokenId:         tokenId,
		Seller:          params.Seller.ToLower(),
		SaleType:        params.SaleType,
		AskPrice:        domain.AmountFromBig(price),
		StartTime:       params.StartTime,
		EndTime:         params.EndTime,
		OriginalEndTime: params.EndTime,
		Status:          sale.StatusOpen,
		PrimarySale:     sold == 0,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := im.saleRepo.Create(ctx, s); err != nil {
		if !errors.Is(err, domain.ErrDuplicateActiveSale) {
			ctx.WithFields(log.Fields{"sale": s, "err": err}).Error("saleRepo.Create failed")
		}
		return nil, err
	}

	met.BumpSum("created", 1, "type", string(s.SaleType))
	ctx.WithFields(log.Fields{"saleId": s.SaleId, "tokenId": s.TokenId}).Info("sale created")
	return s, nil
}

func (im *impl) PendingIntent(ctx ctx.Ctx, saleId sale.SaleId) (*sale.TransferIntent, error) {
	s, err := im.saleRepo.FindOne(ctx, saleId)
	if err != nil {
		return nil, err
	}
	if !s.Intent.IsPending() {
		return nil, domain.ErrNoPendingTransfer
	}
	return s.Intent, nil
}

func (im *impl) GetSale(ctx ctx.Ctx, saleId sale.SaleId, now time.Time) (*sale.SaleView, error) {
	s, err := im.saleRepo.FindOne(ctx, saleId)
	if err != nil {
		return nil, err
	}
	return im.view(s, now), nil
}

func (im *impl) GetSaleView(ctx ctx.Ctx, tokenId domain.TokenId, now time.Time) (*sale.SaleView, error) {
	tokenId, err := tokenId.Canonical()
	if err != nil {
		return nil, domain.ErrBadParamInput
	}
	s, err := im.saleRepo.FindActiveOrLast(ctx, tokenId)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			ctx.WithFields(log.Fields{"tokenId": tokenId, "err": err}).Error("saleRepo.FindActiveOrLast failed")
		}
		return nil, err
	}
	return im.view(s, now), nil
}

func (im *impl) FindAll(ctx ctx.Ctx, now time.Time, opts ...sale.FindAllOptionsFunc) (*sale.SaleList, error) {
	sales, err := im.saleRepo.FindAll(ctx, opts...)
	if err != nil {
		return nil, err
	}
	count, err := im.saleRepo.Count(ctx, opts...)
	if err != nil {
		return nil, err
	}

	res := &sale.SaleList{Items: make([]*sale.SaleView, 0, len(sales)), Count: count}
	for _, s := range sales {
		res.Items = append(res.Items, im.view(s, now))
	}
	return res, nil
}

func (im *impl) EvaluateRetrievalEligibility(ctx ctx.Ctx, tokenId domain.TokenId, requester domain.Address, now time.Time) (*sale.EligibilityResult, error) {
	return im.evaluator.Evaluate(ctx, tokenId, requester, now)
}

func (im *impl) view(s *sale.Sale, now time.Time) *sale.SaleView {
	status := sale.EffectiveStatus(s, now)
	v := &sale.SaleView{
		Sale:            s,
		EffectiveStatus: status,
		Finalized:       s.Status.IsTerminal(),
		DisplayPrice:    im.display(s.AskPrice),
		AsOf:            now,
	}
	if s.HighestBid != nil {
		v.DisplayBid = im.display(s.HighestBid.Amount)
	}
	if !status.IsTerminal() && now.Before(s.EndTime) {
		v.SecondsLeft = int64(s.EndTime.Sub(now) / time.Second)
	}
	return v
}

func (im *impl) display(a domain.Amount) string {
	v, err := a.BigInt()
	if err != nil {
		return ""
	}
	return decimal.NewFromBigInt(v, -im.decimals).String()
}
