package usecase

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/xerrors"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/domain"
	"github.com/lovawin/sosh-test-sub004/domain/custody"
	mockCustody "github.com/lovawin/sosh-test-sub004/domain/custody/mocks"
	"github.com/lovawin/sosh-test-sub004/domain/marketconfig"
	"github.com/lovawin/sosh-test-sub004/domain/sale"
	eligibilityUsecase "github.com/lovawin/sosh-test-sub004/stores/eligibility/usecase"
	marketconfigRepository "github.com/lovawin/sosh-test-sub004/stores/marketconfig/repository"
	marketconfigUsecase "github.com/lovawin/sosh-test-sub004/stores/marketconfig/usecase"
	"github.com/lovawin/sosh-test-sub004/stores/sale/repository"
)

const (
	tokenId  = domain.TokenId("1001")
	seller   = domain.Address("0x00000000000000000000000000000000000000bb")
	buyer    = domain.Address("0x00000000000000000000000000000000000000cc")
	bidder   = domain.Address("0x00000000000000000000000000000000000000dd")
	day      = 24 * time.Hour
	decimals = 2
)

var (
	mockCtx = ctx.Background()
	t0      = time.Unix(1_700_000_000, 0).UTC()
	start   = t0.Add(time.Hour)
	end     = start.Add(day)
	// opened is a moment inside the sale window
	opened = start.Add(time.Minute)

	txRef = domain.TxHash("0x" + strings.Repeat("ab", 32))

	freshRead = mock.MatchedBy(func(opt custody.ReadOptionsFunc) bool {
		o, err := custody.GetReadOptions(opt)
		return err == nil && o.MaxStaleness != nil && *o.MaxStaleness == 0
	})

	defaultFee = marketconfig.FeeConfig{
		PrimaryFeeBps:           250,
		SecondaryFeeBps:         200,
		UppercapPrimaryFeeBps:   1000,
		UppercapSecondaryFeeBps: 1000,
	}
	defaultTime = marketconfig.TimeConfig{
		MaxSaleDuration:       30 * day,
		MinSaleDuration:       time.Hour,
		MinTimeDifference:     time.Minute,
		ExtensionDuration:     10 * time.Minute,
		MinSaleUpdateDuration: 5 * time.Minute,
		MaxTotalExtension:     day,
	}
)

type testsuite struct {
	suite.Suite
	repo    sale.Repo
	oracle  *mockCustody.Oracle
	config  marketconfig.UseCase
	subject sale.UseCase
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func newSubject(oracle custody.Oracle) (sale.UseCase, sale.Repo, marketconfig.UseCase, error) {
	repo := repository.NewMemorySaleRepo()
	config, err := marketconfigUsecase.New(mockCtx, &marketconfigUsecase.MarketConfigUseCaseCfg{
		Repo:        marketconfigRepository.NewMemoryConfigRepo(),
		DefaultFee:  defaultFee,
		DefaultTime: defaultTime,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	subject := New(&SaleUseCaseCfg{
		SaleRepo:         repo,
		Oracle:           oracle,
		Evaluator:        eligibilityUsecase.New(&eligibilityUsecase.EvaluatorCfg{SaleRepo: repo, Oracle: oracle}),
		MarketConfig:     config,
		CurrencyDecimals: decimals,
	})
	return subject, repo, config, nil
}

func (t *testsuite) SetupTest() {
	t.oracle = &mockCustody.Oracle{}
	t.holds(true, nil)

	subject, repo, config, err := newSubject(t.oracle)
	t.Require().NoError(err)
	t.subject = subject
	t.repo = repo
	t.config = config
}

// holds replaces the custody answer of the oracle.
func (t *testsuite) holds(held bool, err error) {
	t.oracle.ExpectedCalls = nil
	t.oracle.On("IsCustodyHeldByMarketplace", mock.Anything, mock.Anything, freshRead).Return(held, err).Maybe()
	t.oracle.On("Invalidate", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func (t *testsuite) create(saleType sale.SaleType) *sale.Sale {
	s, err := t.subject.CreateSale(mockCtx, &sale.CreateSaleParams{
		Seller:    seller,
		TokenId:   tokenId,
		SaleType:  saleType,
		AskPrice:  "1000",
		StartTime: start,
		EndTime:   end,
	}, t0)
	t.Require().NoError(err)
	return s
}

func (t *testsuite) stored(saleId sale.SaleId) *sale.Sale {
	s, err := t.repo.FindOne(mockCtx, saleId)
	t.Require().NoError(err)
	return s
}

func (t *testsuite) confirm(saleId sale.SaleId, at time.Time) *sale.Sale {
	s, err := t.subject.ConfirmTransferExecuted(mockCtx, saleId, txRef, at)
	t.Require().NoError(err)
	return s
}

func (t *testsuite) TestCreateSale() {
	s := t.create(sale.SaleTypeFixed)
	t.Equal(sale.SaleId(1), s.SaleId)
	t.Equal(sale.StatusOpen, s.Status)
	t.Equal(uint64(1), s.Version)
	t.Equal(end, s.OriginalEndTime)
	t.True(s.PrimarySale)
	t.Nil(s.Intent)

	t.Equal(s, t.stored(s.SaleId))
}

func (t *testsuite) TestCreateSaleRejects() {
	valid := sale.CreateSaleParams{
		Seller:    seller,
		TokenId:   tokenId,
		SaleType:  sale.SaleTypeFixed,
		AskPrice:  "1000",
		StartTime: start,
		EndTime:   end,
	}
	cases := []struct {
		name   string
		modify func(p *sale.CreateSaleParams)
		err    error
	}{
		{"bad seller", func(p *sale.CreateSaleParams) { p.Seller = "0x12" }, domain.ErrInvalidAddress},
		{"bad token", func(p *sale.CreateSaleParams) { p.TokenId = "abc" }, domain.ErrBadParamInput},
		{"bad type", func(p *sale.CreateSaleParams) { p.SaleType = "dutch" }, domain.ErrWrongSaleType},
		{"zero price", func(p *sale.CreateSaleParams) { p.AskPrice = "0" }, domain.ErrInvalidAmount},
		{"malformed price", func(p *sale.CreateSaleParams) { p.AskPrice = "1.5" }, domain.ErrInvalidAmount},
		{"too short", func(p *sale.CreateSaleParams) { p.EndTime = p.StartTime.Add(time.Hour - time.Second) }, domain.ErrDurationOutOfRange},
		{"too long", func(p *sale.CreateSaleParams) { p.EndTime = p.StartTime.Add(30*day + time.Second) }, domain.ErrDurationOutOfRange},
		{"ends before start", func(p *sale.CreateSaleParams) { p.EndTime = p.StartTime.Add(-time.Hour) }, domain.ErrDurationOutOfRange},
		{"too soon", func(p *sale.CreateSaleParams) {
			p.StartTime = t0.Add(59 * time.Second)
			p.EndTime = p.StartTime.Add(day)
		}, domain.ErrTooSoonToStart},
	}
	for _, c := range cases {
		p := valid
		c.modify(&p)
		_, err := t.subject.CreateSale(mockCtx, &p, t0)
		t.ErrorIs(err, c.err, c.name)
	}

	n, err := t.repo.Count(mockCtx)
	t.NoError(err)
	t.Zero(n)
}

func (t *testsuite) TestCreateSaleBoundaries() {
	_, err := t.subject.CreateSale(mockCtx, &sale.CreateSaleParams{
		Seller:    seller,
		TokenId:   tokenId,
		SaleType:  sale.SaleTypeAuction,
		AskPrice:  "1",
		StartTime: t0.Add(time.Minute),
		EndTime:   t0.Add(time.Minute + time.Hour),
	}, t0)
	t.NoError(err)
}

func (t *testsuite) TestCreateSaleCustody() {
	t.holds(false, nil)
	_, err := t.subject.CreateSale(mockCtx, &sale.CreateSaleParams{
		Seller: seller, TokenId: tokenId, SaleType: sale.SaleTypeFixed, AskPrice: "1000", StartTime: start, EndTime: end,
	}, t0)
	t.ErrorIs(err, domain.ErrCustodyNotHeld)

	t.holds(false, xerrors.Errorf("owner of %s: %w", tokenId, domain.ErrOracleUnavailable))
	_, err = t.subject.CreateSale(mockCtx, &sale.CreateSaleParams{
		Seller: seller, TokenId: tokenId, SaleType: sale.SaleTypeFixed, AskPrice: "1000", StartTime: start, EndTime: end,
	}, t0)
	t.ErrorIs(err, domain.ErrOracleUnavailable)
	kind, _ := domain.KindOf(err)
	t.Equal(domain.KindDependency, kind)
}

func (t *testsuite) TestCreateSaleCanonicalTokenId() {
	s, err := t.subject.CreateSale(mockCtx, &sale.CreateSaleParams{
		Seller: seller, TokenId: "007", SaleType: sale.SaleTypeFixed, AskPrice: "01000", StartTime: start, EndTime: end,
	}, t0)
	t.Require().NoError(err)
	t.Equal(domain.TokenId("7"), s.TokenId)
	t.Equal(domain.Amount("1000"), s.AskPrice)

	for _, alias := range []domain.TokenId{"7", "+7", "0007"} {
		_, err = t.subject.CreateSale(mockCtx, &sale.CreateSaleParams{
			Seller: seller, TokenId: alias, SaleType: sale.SaleTypeFixed, AskPrice: "1000", StartTime: start, EndTime: end,
		}, t0)
		t.ErrorIs(err, domain.ErrDuplicateActiveSale, alias)
	}

	view, err := t.subject.GetSaleView(mockCtx, "+007", opened)
	t.Require().NoError(err)
	t.Equal(s.SaleId, view.SaleId)

	res, err := t.subject.EvaluateRetrievalEligibility(mockCtx, "0007", seller, end.Add(time.Second))
	t.Require().NoError(err)
	t.Equal(s.SaleId, res.SaleId)
	t.True(res.Eligible)

	list, err := t.subject.FindAll(mockCtx, opened, sale.WithTokenId("07"))
	t.Require().NoError(err)
	t.Equal(1, list.Count)

	_, err = t.subject.GetSaleView(mockCtx, "-7", opened)
	t.ErrorIs(err, domain.ErrBadParamInput)

	same, err := t.subject.UpdateAskPrice(mockCtx, s.SaleId, seller, "001000", opened)
	t.Require().NoError(err)
	t.Equal(s.Version, same.Version, "the same price in another spelling is not written")
}

func (t *testsuite) TestCreateSaleDuplicateActive() {
	t.create(sale.SaleTypeFixed)
	_, err := t.subject.CreateSale(mockCtx, &sale.CreateSaleParams{
		Seller: seller, TokenId: tokenId, SaleType: sale.SaleTypeAuction, AskPrice: "5", StartTime: start, EndTime: end,
	}, t0)
	t.ErrorIs(err, domain.ErrDuplicateActiveSale)
}

func (t *testsuite) TestPrimarySaleOnlyOnce() {
	first := t.create(sale.SaleTypeFixed)
	res, err := t.subject.SettleFixed(mockCtx, first.SaleId, buyer, "1000", opened)
	t.Require().NoError(err)
	t.Equal(domain.Amount("25"), res.FeeAmount)

	relist := &sale.CreateSaleParams{
		Seller: buyer, TokenId: tokenId, SaleType: sale.SaleTypeFixed, AskPrice: "1000",
		StartTime: opened.Add(time.Hour), EndTime: opened.Add(time.Hour + day),
	}
	_, err = t.subject.CreateSale(mockCtx, relist, opened)
	t.ErrorIs(err, domain.ErrDuplicateActiveSale, "the token is locked until the transfer is confirmed")
	t.confirm(first.SaleId, opened)

	second, err := t.subject.CreateSale(mockCtx, &sale.CreateSaleParams{
		Seller: buyer, TokenId: tokenId, SaleType: sale.SaleTypeFixed, AskPrice: "1000",
		StartTime: opened.Add(time.Hour), EndTime: opened.Add(time.Hour + day),
	}, opened)
	t.Require().NoError(err)
	t.False(second.PrimarySale)

	res, err = t.subject.SettleFixed(mockCtx, second.SaleId, seller, "1000", opened.Add(2*time.Hour))
	t.Require().NoError(err)
	t.Equal(domain.Amount("20"), res.FeeAmount)
	t.Equal(domain.Amount("980"), res.NetAmount)
	t.Equal(uint32(200), res.Sale.Settlement.FeeBps)
}

func (t *testsuite) TestPlaceBid() {
	s := t.create(sale.SaleTypeAuction)

	_, err := t.subject.PlaceBid(mockCtx, s.SaleId, bidder, "1000", t0)
	t.ErrorIs(err, domain.ErrSaleNotOpenOrExpired, "scheduled")

	_, err = t.subject.PlaceBid(mockCtx, s.SaleId, bidder, "999", opened)
	t.ErrorIs(err, domain.ErrBidTooLow)

	_, err = t.subject.PlaceBid(mockCtx, s.SaleId, seller, "1000", opened)
	t.ErrorIs(err, domain.ErrSellerIsBuyer)

	_, err = t.subject.PlaceBid(mockCtx, s.SaleId, bidder, "0", opened)
	t.ErrorIs(err, domain.ErrInvalidAmount)

	receipt, err := t.subject.PlaceBid(mockCtx, s.SaleId, bidder, "1000", opened)
	t.Require().NoError(err)
	t.Nil(receipt.Outbid)
	t.False(receipt.Extended)
	t.Equal(1, receipt.Sale.BidCount)
	t.Equal(domain.Amount("1000"), receipt.Sale.HighestBid.Amount)

	_, err = t.subject.PlaceBid(mockCtx, s.SaleId, buyer, "1000", opened)
	t.ErrorIs(err, domain.ErrBidTooLow, "must beat the highest bid")

	receipt, err = t.subject.PlaceBid(mockCtx, s.SaleId, buyer, "1001", opened)
	t.Require().NoError(err)
	t.Require().NotNil(receipt.Outbid)
	t.Equal(bidder, receipt.Outbid.Bidder)
	t.Equal(domain.Amount("1000"), receipt.Outbid.Amount)
	t.Equal(2, receipt.Sale.BidCount)
	t.Equal(uint64(3), t.stored(s.SaleId).Version)

	_, err = t.subject.PlaceBid(mockCtx, s.SaleId, bidder, "2000", end.Add(time.Second))
	t.ErrorIs(err, domain.ErrSaleNotOpenOrExpired, "ended")
}

func (t *testsuite) TestPlaceBidOnFixedSale() {
	s := t.create(sale.SaleTypeFixed)
	_, err := t.subject.PlaceBid(mockCtx, s.SaleId, bidder, "1000", opened)
	t.ErrorIs(err, domain.ErrWrongSaleType)
}

func (t *testsuite) TestPlaceBidExtendsEnd() {
	_, err := t.config.UpdateTimeConfig(mockCtx, func() marketconfig.TimeConfig {
		tc := defaultTime
		tc.MaxTotalExtension = 15 * time.Minute
		return tc
	}())
	t.Require().NoError(err)
	s := t.create(sale.SaleTypeAuction)

	receipt, err := t.subject.PlaceBid(mockCtx, s.SaleId, bidder, "1000", end.Add(-5*time.Minute))
	t.Require().NoError(err)
	t.True(receipt.Extended)
	t.Equal(end.Add(10*time.Minute), receipt.Sale.EndTime)
	t.Equal(end, receipt.Sale.OriginalEndTime)

	// past the original end but inside the extension
	receipt, err = t.subject.PlaceBid(mockCtx, s.SaleId, buyer, "1100", end.Add(9*time.Minute))
	t.Require().NoError(err)
	t.True(receipt.Extended)
	t.Equal(end.Add(15*time.Minute), receipt.Sale.EndTime)

	receipt, err = t.subject.PlaceBid(mockCtx, s.SaleId, bidder, "1200", end.Add(14*time.Minute))
	t.Require().NoError(err)
	t.False(receipt.Extended)
	t.Equal(end.Add(15*time.Minute), receipt.Sale.EndTime)

	_, err = t.subject.SettleAuction(mockCtx, s.SaleId, end.Add(15*time.Minute))
	t.ErrorIs(err, domain.ErrAuctionNotEnded)
}

func (t *testsuite) TestSettleFixed() {
	s := t.create(sale.SaleTypeFixed)

	_, err := t.subject.SettleFixed(mockCtx, s.SaleId, buyer, "1000", t0)
	t.ErrorIs(err, domain.ErrSaleNotOpenOrExpired, "scheduled")
	_, err = t.subject.SettleFixed(mockCtx, s.SaleId, buyer, "999", opened)
	t.ErrorIs(err, domain.ErrPriceMismatch)
	_, err = t.subject.SettleFixed(mockCtx, s.SaleId, seller, "1000", opened)
	t.ErrorIs(err, domain.ErrSellerIsBuyer)

	res, err := t.subject.SettleFixed(mockCtx, s.SaleId, buyer, "1000", opened)
	t.Require().NoError(err)
	t.Equal(domain.Amount("25"), res.FeeAmount)
	t.Equal(domain.Amount("975"), res.NetAmount)
	t.Equal(seller, res.Seller)
	t.Equal(sale.StatusOpen, res.Sale.Status, "stored status waits for the confirmation")
	t.Equal(sale.StatusSold, sale.EffectiveStatus(res.Sale, opened))
	t.Nil(res.Sale.ClosedAt)

	t.Require().NotNil(res.Intent)
	t.Equal(sale.IntentKindSettle, res.Intent.Kind)
	t.Equal(sale.IntentStatePending, res.Intent.State)
	t.Equal(buyer, res.Intent.TokenTo)
	t.Equal(domain.Amount("975"), res.Intent.Payment.NetAmount)
	t.Equal(seller, res.Intent.Payment.PayTo)
	t.NotEmpty(res.Intent.Id)

	_, err = t.subject.SettleFixed(mockCtx, s.SaleId, buyer, "1000", opened)
	t.ErrorIs(err, domain.ErrSaleNotOpenOrExpired, "second settle")
	t.Equal(uint64(2), t.stored(s.SaleId).Version)
}

func (t *testsuite) TestSettleFixedAfterEnd() {
	s := t.create(sale.SaleTypeFixed)
	_, err := t.subject.SettleFixed(mockCtx, s.SaleId, buyer, "1000", end)
	t.NoError(err, "the end instant is still open")

	s2, err := t.subject.CreateSale(mockCtx, &sale.CreateSaleParams{
		Seller: seller, TokenId: "1002", SaleType: sale.SaleTypeFixed, AskPrice: "1000", StartTime: start, EndTime: end,
	}, t0)
	t.Require().NoError(err)
	_, err = t.subject.SettleFixed(mockCtx, s2.SaleId, buyer, "1000", end.Add(time.Second))
	t.ErrorIs(err, domain.ErrSaleNotOpenOrExpired)
}

func (t *testsuite) TestSettleFixedCustodyLost() {
	s := t.create(sale.SaleTypeFixed)
	t.holds(false, nil)

	_, err := t.subject.SettleFixed(mockCtx, s.SaleId, buyer, "1000", opened)
	t.ErrorIs(err, domain.ErrCustodyNotHeld)
	t.Equal(sale.StatusOpen, t.stored(s.SaleId).Status)
}

func (t *testsuite) TestSettleAuction() {
	s := t.create(sale.SaleTypeAuction)
	_, err := t.subject.PlaceBid(mockCtx, s.SaleId, bidder, "1500", opened)
	t.Require().NoError(err)

	_, err = t.subject.SettleAuction(mockCtx, s.SaleId, end)
	t.ErrorIs(err, domain.ErrAuctionNotEnded)

	res, err := t.subject.SettleAuction(mockCtx, s.SaleId, end.Add(time.Second))
	t.Require().NoError(err)
	t.Equal(sale.StatusSold, sale.EffectiveStatus(res.Sale, end.Add(time.Second)))
	t.Equal(bidder, res.Sale.Settlement.Buyer)
	t.Equal(domain.Amount("1500"), res.Sale.Settlement.Amount)
	t.Equal(domain.Amount("37"), res.FeeAmount)
	t.Equal(domain.Amount("1463"), res.NetAmount)
	t.Equal(bidder, res.Intent.TokenTo)

	_, err = t.subject.SettleAuction(mockCtx, s.SaleId, end.Add(2*time.Second))
	t.ErrorIs(err, domain.ErrSaleNotOpenOrExpired)
}

func (t *testsuite) TestSettleAuctionWithoutBid() {
	s := t.create(sale.SaleTypeAuction)
	_, err := t.subject.SettleAuction(mockCtx, s.SaleId, end.Add(time.Second))
	t.ErrorIs(err, domain.ErrSaleNotOpenOrExpired)

	f := t.create2(sale.SaleTypeFixed)
	_, err = t.subject.SettleAuction(mockCtx, f.SaleId, end.Add(time.Second))
	t.ErrorIs(err, domain.ErrWrongSaleType)
}

// create2 lists a second token of the same seller.
func (t *testsuite) create2(saleType sale.SaleType) *sale.Sale {
	s, err := t.subject.CreateSale(mockCtx, &sale.CreateSaleParams{
		Seller: seller, TokenId: "1002", SaleType: saleType, AskPrice: "1000", StartTime: start, EndTime: end,
	}, t0)
	t.Require().NoError(err)
	return s
}

func (t *testsuite) TestCancelSale() {
	s := t.create(sale.SaleTypeFixed)

	_, err := t.subject.CancelSale(mockCtx, s.SaleId, buyer, opened)
	t.ErrorIs(err, domain.ErrNotSeller)

	intent, err := t.subject.CancelSale(mockCtx, s.SaleId, domain.Address(strings.ToUpper(string(seller))), t0)
	t.Require().NoError(err, "scheduled sales can be cancelled")
	t.Equal(sale.IntentKindReturn, intent.Kind)
	t.Equal(seller, intent.TokenTo)
	t.Nil(intent.Payment)

	stored := t.stored(s.SaleId)
	t.Equal(sale.StatusOpen, stored.Status)
	t.Equal(sale.StatusCancelled, sale.EffectiveStatus(stored, opened))

	_, err = t.subject.CancelSale(mockCtx, s.SaleId, seller, opened)
	t.ErrorIs(err, domain.ErrSaleNotOpenOrExpired)

	stored = t.confirm(s.SaleId, opened)
	t.Equal(sale.StatusCancelled, stored.Status)
	t.Equal(opened, *stored.ClosedAt)
}

func (t *testsuite) TestCancelSaleWithBids() {
	s := t.create(sale.SaleTypeAuction)
	_, err := t.subject.PlaceBid(mockCtx, s.SaleId, bidder, "1000", opened)
	t.Require().NoError(err)

	_, err = t.subject.CancelSale(mockCtx, s.SaleId, seller, opened)
	t.ErrorIs(err, domain.ErrSaleHasBids)
	_, err = t.subject.AdminCancel(mockCtx, s.SaleId, opened)
	t.ErrorIs(err, domain.ErrSaleHasBids)
}

func (t *testsuite) TestCancelExpiredSale() {
	s := t.create(sale.SaleTypeFixed)
	_, err := t.subject.CancelSale(mockCtx, s.SaleId, seller, end.Add(time.Second))
	t.ErrorIs(err, domain.ErrSaleNotOpenOrExpired)
}

func (t *testsuite) TestAdminCancel() {
	s := t.create(sale.SaleTypeFixed)
	intent, err := t.subject.AdminCancel(mockCtx, s.SaleId, opened)
	t.Require().NoError(err)
	t.Equal(sale.IntentKindReturn, intent.Kind)
	t.Equal(sale.StatusCancelled, sale.EffectiveStatus(t.stored(s.SaleId), opened))

	_, err = t.subject.AdminCancel(mockCtx, 99, opened)
	t.ErrorIs(err, domain.ErrNotFound)
}

func (t *testsuite) TestUpdateAskPrice() {
	s := t.create(sale.SaleTypeAuction)

	_, err := t.subject.UpdateAskPrice(mockCtx, s.SaleId, buyer, "2000", opened)
	t.ErrorIs(err, domain.ErrNotSeller)
	_, err = t.subject.UpdateAskPrice(mockCtx, s.SaleId, seller, "0", opened)
	t.ErrorIs(err, domain.ErrInvalidAmount)

	updated, err := t.subject.UpdateAskPrice(mockCtx, s.SaleId, seller, "2000", opened)
	t.Require().NoError(err)
	t.Equal(domain.Amount("2000"), updated.AskPrice)
	t.Equal(uint64(2), updated.Version)

	same, err := t.subject.UpdateAskPrice(mockCtx, s.SaleId, seller, "2000", opened)
	t.Require().NoError(err)
	t.Equal(uint64(2), same.Version, "unchanged price is not written")

	_, err = t.subject.UpdateAskPrice(mockCtx, s.SaleId, seller, "3000", end.Add(-4*time.Minute))
	t.ErrorIs(err, domain.ErrTooLateToUpdate)

	_, err = t.subject.PlaceBid(mockCtx, s.SaleId, bidder, "2000", opened)
	t.Require().NoError(err)
	_, err = t.subject.UpdateAskPrice(mockCtx, s.SaleId, seller, "1500", opened)
	t.ErrorIs(err, domain.ErrSaleHasBids)
}

func (t *testsuite) TestRetrieve() {
	s := t.create(sale.SaleTypeFixed)

	_, err := t.subject.Retrieve(mockCtx, s.SaleId, seller, end)
	t.ErrorIs(err, domain.ErrNotEligible)
	t.Equal(string(sale.ReasonNotYetExpired), domain.ReasonOf(err))

	_, err = t.subject.Retrieve(mockCtx, s.SaleId, buyer, end.Add(time.Second))
	t.ErrorIs(err, domain.ErrNotEligible)
	t.Equal(string(sale.ReasonNotOriginalSeller), domain.ReasonOf(err))

	intent, err := t.subject.Retrieve(mockCtx, s.SaleId, seller, end.Add(time.Second))
	t.Require().NoError(err)
	t.Equal(sale.IntentKindRetrieve, intent.Kind)
	t.Equal(seller, intent.TokenTo)
	t.Equal(sale.StatusRetrieved, sale.EffectiveStatus(t.stored(s.SaleId), end.Add(time.Second)))

	_, err = t.subject.Retrieve(mockCtx, s.SaleId, seller, end.Add(2*time.Second))
	t.ErrorIs(err, domain.ErrAlreadyRetrieved)

	pending, err := t.subject.PendingIntent(mockCtx, s.SaleId)
	t.NoError(err)
	t.Equal(intent.Id, pending.Id, "a second retrieve never yields a second intent")

	t.Equal(sale.StatusRetrieved, t.confirm(s.SaleId, end.Add(time.Minute)).Status)
	_, err = t.subject.Retrieve(mockCtx, s.SaleId, seller, end.Add(time.Hour))
	t.ErrorIs(err, domain.ErrAlreadyRetrieved)
}

func (t *testsuite) TestRetrieveOracleUnavailable() {
	s := t.create(sale.SaleTypeFixed)
	t.holds(false, xerrors.Errorf("owner of %s: %w", tokenId, domain.ErrOracleUnavailable))

	_, err := t.subject.Retrieve(mockCtx, s.SaleId, seller, end.Add(time.Second))
	t.ErrorIs(err, domain.ErrOracleUnavailable)
	t.Equal(string(sale.ReasonOracleUnavailable), domain.ReasonOf(err))
	t.Equal(sale.StatusOpen, t.stored(s.SaleId).Status)

	t.holds(true, nil)
	_, err = t.subject.Retrieve(mockCtx, s.SaleId, seller, end.Add(time.Second))
	t.NoError(err, "a retry after recovery succeeds")
}

func (t *testsuite) TestRetrieveCustodyElsewhere() {
	s := t.create(sale.SaleTypeFixed)
	t.holds(false, nil)

	_, err := t.subject.Retrieve(mockCtx, s.SaleId, seller, end.Add(time.Second))
	t.ErrorIs(err, domain.ErrNotEligible)
	t.Equal(string(sale.ReasonNotHeldByMarketplace), domain.ReasonOf(err))
}

func (t *testsuite) TestRetrieveEndedAuction() {
	s := t.create(sale.SaleTypeAuction)
	_, err := t.subject.PlaceBid(mockCtx, s.SaleId, bidder, "1000", opened)
	t.Require().NoError(err)

	_, err = t.subject.Retrieve(mockCtx, s.SaleId, seller, end.Add(time.Hour))
	t.ErrorIs(err, domain.ErrNotEligible)
	t.Equal(string(sale.ReasonSaleNotInRetrievableState), domain.ReasonOf(err))
}

func (t *testsuite) TestRetrieveSoldSale() {
	s := t.create(sale.SaleTypeFixed)
	_, err := t.subject.SettleFixed(mockCtx, s.SaleId, buyer, "1000", opened)
	t.Require().NoError(err)

	_, err = t.subject.Retrieve(mockCtx, s.SaleId, seller, end.Add(time.Second))
	t.ErrorIs(err, domain.ErrNotEligible)
	t.Equal(string(sale.ReasonSaleNotInRetrievableState), domain.ReasonOf(err))
}

func (t *testsuite) TestConfirmTransferExecuted() {
	s := t.create(sale.SaleTypeFixed)

	_, err := t.subject.ConfirmTransferExecuted(mockCtx, s.SaleId, "0x1234", opened)
	t.ErrorIs(err, domain.ErrInvalidTransferRef)
	_, err = t.subject.ConfirmTransferExecuted(mockCtx, s.SaleId, txRef, opened)
	t.ErrorIs(err, domain.ErrNoPendingTransfer)

	_, err = t.subject.SettleFixed(mockCtx, s.SaleId, buyer, "1000", opened)
	t.Require().NoError(err)
	view, err := t.subject.GetSale(mockCtx, s.SaleId, opened)
	t.Require().NoError(err)
	t.False(view.Finalized)
	t.Equal(sale.StatusSold, view.EffectiveStatus)
	t.Equal(sale.StatusOpen, view.Status)

	upper := domain.TxHash("0x" + strings.Repeat("AB", 32))
	confirmed, err := t.subject.ConfirmTransferExecuted(mockCtx, s.SaleId, upper, opened.Add(time.Minute))
	t.Require().NoError(err)
	t.Equal(sale.IntentStateConfirmed, confirmed.Intent.State)
	t.Equal(txRef, confirmed.Intent.TxRef)
	t.Equal(opened.Add(time.Minute), *confirmed.Intent.ConfirmedAt)
	t.Equal(sale.StatusSold, confirmed.Status)
	t.Equal(opened.Add(time.Minute), *confirmed.ClosedAt)
	t.oracle.AssertCalled(t.T(), "Invalidate", mock.Anything, tokenId)

	again, err := t.subject.ConfirmTransferExecuted(mockCtx, s.SaleId, txRef, opened.Add(time.Hour))
	t.NoError(err)
	t.Equal(confirmed.Version, again.Version)
	t.Equal(opened.Add(time.Minute), *again.Intent.ConfirmedAt)

	_, err = t.subject.ConfirmTransferExecuted(mockCtx, s.SaleId, domain.TxHash("0x"+strings.Repeat("cd", 32)), opened)
	t.ErrorIs(err, domain.ErrTransferRefMismatch)

	_, err = t.subject.PendingIntent(mockCtx, s.SaleId)
	t.ErrorIs(err, domain.ErrNoPendingTransfer)

	view, err = t.subject.GetSale(mockCtx, s.SaleId, opened.Add(time.Hour))
	t.Require().NoError(err)
	t.True(view.Finalized)
	t.Equal(sale.StatusSold, view.EffectiveStatus)
}

func (t *testsuite) TestViews() {
	s := t.create(sale.SaleTypeAuction)

	view, err := t.subject.GetSaleView(mockCtx, tokenId, t0)
	t.Require().NoError(err)
	t.Equal(sale.StatusScheduled, view.EffectiveStatus)
	t.Equal("10", view.DisplayPrice)
	t.False(view.Finalized)

	_, err = t.subject.PlaceBid(mockCtx, s.SaleId, bidder, "1250", opened)
	t.Require().NoError(err)
	view, err = t.subject.GetSale(mockCtx, s.SaleId, opened)
	t.Require().NoError(err)
	t.Equal(sale.StatusOpen, view.EffectiveStatus)
	t.Equal("12.5", view.DisplayBid)
	t.Equal(int64(day/time.Second)-60, view.SecondsLeft)

	view, err = t.subject.GetSale(mockCtx, s.SaleId, end.Add(time.Second))
	t.Require().NoError(err)
	t.Equal(sale.StatusEnded, view.EffectiveStatus)
	t.Zero(view.SecondsLeft)

	_, err = t.subject.GetSaleView(mockCtx, "4242", t0)
	t.ErrorIs(err, domain.ErrNotFound)
	_, err = t.subject.GetSale(mockCtx, 4242, t0)
	t.ErrorIs(err, domain.ErrNotFound)
}

func (t *testsuite) TestFindAll() {
	first := t.create(sale.SaleTypeFixed)
	t.create2(sale.SaleTypeAuction)
	_, err := t.subject.CancelSale(mockCtx, first.SaleId, seller, opened)
	t.Require().NoError(err)
	t.confirm(first.SaleId, opened)

	list, err := t.subject.FindAll(mockCtx, opened, sale.WithSeller(seller))
	t.Require().NoError(err)
	t.Equal(2, list.Count)
	t.Len(list.Items, 2)
	t.Equal(sale.SaleId(2), list.Items[0].SaleId)

	list, err = t.subject.FindAll(mockCtx, opened, sale.WithStatus(sale.StatusCancelled))
	t.Require().NoError(err)
	t.Equal(1, list.Count)
	t.Equal(sale.StatusCancelled, list.Items[0].EffectiveStatus)
}

func (t *testsuite) TestEvaluateRetrievalEligibility() {
	t.create(sale.SaleTypeFixed)

	res, err := t.subject.EvaluateRetrievalEligibility(mockCtx, tokenId, seller, end.Add(time.Second))
	t.Require().NoError(err)
	t.True(res.Eligible)
	t.Equal(sale.ReasonEligible, res.Reason)

	res, err = t.subject.EvaluateRetrievalEligibility(mockCtx, "9999", seller, end.Add(time.Second))
	t.Require().NoError(err)
	t.Equal(sale.ReasonNoSaleRecord, res.Reason)
}

func (t *testsuite) TestConcurrentSettleHasOneWinner() {
	s := t.create(sale.SaleTypeFixed)

	const n = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners []domain.Address
		losses  int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			who := domain.Address(fmt.Sprintf("0x%040x", 0x100+i))
			_, err := t.subject.SettleFixed(mockCtx, s.SaleId, who, "1000", opened)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners = append(winners, who)
			} else if errors.Is(err, domain.ErrSaleNotOpenOrExpired) {
				losses++
			}
		}(i)
	}
	wg.Wait()

	t.Require().Len(winners, 1)
	t.Equal(n-1, losses)
	stored := t.stored(s.SaleId)
	t.Equal(winners[0], stored.Settlement.Buyer)
	t.Equal(uint64(2), stored.Version)
}

func (t *testsuite) TestConcurrentSettleAndCancel() {
	s := t.create(sale.SaleTypeFixed)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = t.subject.SettleFixed(mockCtx, s.SaleId, buyer, "1000", end)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = t.subject.CancelSale(mockCtx, s.SaleId, seller, end)
	}()
	wg.Wait()

	t.True((errs[0] == nil) != (errs[1] == nil), "exactly one transition wins")
	status := sale.EffectiveStatus(t.stored(s.SaleId), end)
	if errs[0] == nil {
		t.Equal(sale.StatusSold, status)
	} else {
		t.Equal(sale.StatusCancelled, status)
	}
}

func (t *testsuite) TestAbortTransfer() {
	s := t.create(sale.SaleTypeFixed)

	_, err := t.subject.AbortTransfer(mockCtx, s.SaleId, "i-1", "payment failed", opened)
	t.ErrorIs(err, domain.ErrNoPendingTransfer)

	first, err := t.subject.SettleFixed(mockCtx, s.SaleId, buyer, "1000", opened)
	t.Require().NoError(err)

	_, err = t.subject.AbortTransfer(mockCtx, s.SaleId, "", "payment failed", opened)
	t.ErrorIs(err, domain.ErrBadParamInput)
	_, err = t.subject.AbortTransfer(mockCtx, s.SaleId, "not-the-pending-one", "payment failed", opened)
	t.ErrorIs(err, domain.ErrIntentMismatch)

	aborted, err := t.subject.AbortTransfer(mockCtx, s.SaleId, first.Intent.Id, "payment failed", opened)
	t.Require().NoError(err)
	t.Equal(sale.IntentStateAborted, aborted.Intent.State)
	t.Equal("payment failed", aborted.Intent.AbortReason)
	t.Equal(opened, *aborted.Intent.AbortedAt)
	t.Nil(aborted.Settlement)
	t.Equal(sale.StatusOpen, sale.EffectiveStatus(aborted, opened), "the sale is on offer again")

	_, err = t.subject.PendingIntent(mockCtx, s.SaleId)
	t.ErrorIs(err, domain.ErrNoPendingTransfer)
	_, err = t.subject.ConfirmTransferExecuted(mockCtx, s.SaleId, txRef, opened)
	t.ErrorIs(err, domain.ErrNoPendingTransfer, "an aborted intent cannot be confirmed")
	_, err = t.subject.AbortTransfer(mockCtx, s.SaleId, first.Intent.Id, "again", opened)
	t.ErrorIs(err, domain.ErrNoPendingTransfer)

	second, err := t.subject.SettleFixed(mockCtx, s.SaleId, bidder, "1000", opened.Add(time.Minute))
	t.Require().NoError(err)
	t.NotEqual(first.Intent.Id, second.Intent.Id)
	t.Equal(bidder, second.Sale.Settlement.Buyer)
	t.Equal(sale.StatusSold, t.confirm(s.SaleId, opened.Add(2*time.Minute)).Status)
}

func (t *testsuite) TestAbortedRetrievalCanBeRetried() {
	s := t.create(sale.SaleTypeFixed)
	intent, err := t.subject.Retrieve(mockCtx, s.SaleId, seller, end.Add(time.Second))
	t.Require().NoError(err)

	_, err = t.subject.AbortTransfer(mockCtx, s.SaleId, intent.Id, "executor out of gas", end.Add(time.Minute))
	t.Require().NoError(err)
	t.Equal(sale.StatusExpired, sale.EffectiveStatus(t.stored(s.SaleId), end.Add(time.Minute)))

	again, err := t.subject.Retrieve(mockCtx, s.SaleId, seller, end.Add(time.Hour))
	t.Require().NoError(err)
	t.NotEqual(intent.Id, again.Id)
}
