package sweeper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"golang.org/x/xerrors"

	"github.com/lovawin/sosh-test-sub004/base/clock"
	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/domain"
	mockCustody "github.com/lovawin/sosh-test-sub004/domain/custody/mocks"
	"github.com/lovawin/sosh-test-sub004/domain/keys"
	"github.com/lovawin/sosh-test-sub004/domain/sale"
	mockRedis "github.com/lovawin/sosh-test-sub004/service/redis/mocks"
	"github.com/lovawin/sosh-test-sub004/stores/sale/repository"
)

var (
	mockCtx = ctx.Background()
	now     = time.Unix(1_700_000_000, 0).UTC()
	lockKey = keys.RedisKey(keys.PfxSweeperLock, "sales", "main")
)

type testsuite struct {
	suite.Suite
	repo   sale.Repo
	oracle *mockCustody.Oracle
	clock  *clock.Fixed
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.repo = repository.NewMemorySaleRepo()
	t.oracle = &mockCustody.Oracle{}
	t.clock = clock.NewFixed(now)
}

func (t *testsuite) put(tokenId domain.TokenId, modify func(s *sale.Sale)) *sale.Sale {
	id, err := t.repo.NextSaleId(mockCtx)
	t.Require().NoError(err)
	s := &sale.Sale{
		SaleId:          id,
		TokenId:         tokenId,
		Seller:          "0x00000000000000000000000000000000000000bb",
		SaleType:        sale.SaleTypeFixed,
		AskPrice:        "100",
		StartTime:       now.Add(-2 * 24 * time.Hour),
		EndTime:         now.Add(-time.Hour),
		OriginalEndTime: now.Add(-time.Hour),
		Status:          sale.StatusOpen,
		Version:         1,
	}
	t.Require().NoError(t.repo.Create(mockCtx, s))
	if modify != nil {
		next := s.Clone()
		modify(next)
		next.Version = 2
		t.Require().NoError(t.repo.CompareAndSwap(mockCtx, next, 1))
		return next
	}
	return s
}

func (t *testsuite) holds(tokenId domain.TokenId, held bool, err error) {
	t.oracle.On("IsCustodyHeldByMarketplace", mock.Anything, tokenId, mock.Anything).Return(held, err)
}

func pendingIntent(createdAt time.Time) func(s *sale.Sale) {
	return func(s *sale.Sale) {
		s.Intent = &sale.TransferIntent{Id: "i", Kind: sale.IntentKindSettle, State: sale.IntentStatePending, CreatedAt: createdAt}
	}
}

func (t *testsuite) TestSweep() {
	retrievable := t.put("1", nil)
	t.holds("1", true, nil)
	mismatch := t.put("2", nil)
	t.holds("2", false, nil)
	ended := t.put("3", func(s *sale.Sale) {
		s.SaleType = sale.SaleTypeAuction
		s.HighestBid = &sale.Bid{Bidder: "0x00000000000000000000000000000000000000cc", Amount: "100"}
	})
	t.holds("3", true, nil)
	t.put("4", func(s *sale.Sale) { s.EndTime = now.Add(time.Hour) })
	unknown := t.put("5", nil)
	t.holds("5", false, xerrors.Errorf("owner of 5: %w", domain.ErrOracleUnavailable))
	stale := t.put("6", pendingIntent(now.Add(-2*time.Hour)))
	t.put("7", pendingIntent(now.Add(-10*time.Minute)))
	t.put("8", func(s *sale.Sale) {
		pendingIntent(now.Add(-3 * time.Hour))(s)
		s.Intent.State = sale.IntentStateConfirmed
		s.Status = sale.StatusSold
	})

	subject := New(&Cfg{SaleRepo: t.repo, Oracle: t.oracle, Clock: t.clock, Workers: 2, StaleIntentAfter: time.Hour})
	report, err := subject.Sweep(mockCtx)
	t.Require().NoError(err)

	t.False(report.Skipped)
	t.Equal(now, report.At)
	t.Equal(4, report.Scanned)
	t.Equal([]sale.SaleId{retrievable.SaleId}, report.Retrievable)
	t.Equal([]sale.SaleId{mismatch.SaleId}, report.Mismatches)
	t.Equal([]sale.SaleId{ended.SaleId}, report.AwaitSettle)
	t.Equal([]sale.SaleId{unknown.SaleId}, report.Unknown)
	t.Equal([]sale.SaleId{stale.SaleId}, report.StaleIntents)
	t.False(report.OracleDown())
	t.oracle.AssertNotCalled(t.T(), "IsCustodyHeldByMarketplace", mock.Anything, domain.TokenId("4"), mock.Anything)
	t.oracle.AssertNotCalled(t.T(), "IsCustodyHeldByMarketplace", mock.Anything, domain.TokenId("6"), mock.Anything)
}

func (t *testsuite) TestSweepNeverWrites() {
	t.put("1", nil)
	t.holds("1", true, nil)
	t.put("2", pendingIntent(now.Add(-2*time.Hour)))
	before, err := t.repo.FindAll(mockCtx)
	t.Require().NoError(err)

	subject := New(&Cfg{SaleRepo: t.repo, Oracle: t.oracle, Clock: t.clock})
	_, err = subject.Sweep(mockCtx)
	t.Require().NoError(err)

	after, err := t.repo.FindAll(mockCtx)
	t.Require().NoError(err)
	t.Equal(before, after)
}

func (t *testsuite) TestOracleDown() {
	t.put("1", nil)
	t.put("2", nil)
	t.oracle.On("IsCustodyHeldByMarketplace", mock.Anything, mock.Anything, mock.Anything).Return(false, domain.ErrOracleUnavailable)

	subject := New(&Cfg{SaleRepo: t.repo, Oracle: t.oracle, Clock: t.clock})
	report, err := subject.Sweep(mockCtx)
	t.Require().NoError(err)
	t.True(report.OracleDown())
	t.ElementsMatch([]sale.SaleId{1, 2}, report.Unknown)

	t.False((&Report{}).OracleDown(), "nothing scanned")
}

func (t *testsuite) TestLeaderLock() {
	r := &mockRedis.Service{}
	var token []byte
	r.On("SetNX", mock.Anything, lockKey, mock.Anything, 30*time.Second).Run(func(args mock.Arguments) {
		token = args.Get(2).([]byte)
	}).Return(true, nil).Once()
	r.On("DelIfEqual", mock.Anything, lockKey, mock.MatchedBy(func(val []byte) bool {
		return string(val) == string(token)
	})).Return(true, nil).Once()

	subject := New(&Cfg{SaleRepo: t.repo, Oracle: t.oracle, Clock: t.clock, Redis: r, LockTtl: 30 * time.Second})
	report, err := subject.Sweep(mockCtx)
	t.Require().NoError(err)
	t.False(report.Skipped)
	t.NotEmpty(token)
	r.AssertExpectations(t.T())
}

func (t *testsuite) TestLeaderLockBusy() {
	t.put("1", nil)
	r := &mockRedis.Service{}
	r.On("SetNX", mock.Anything, lockKey, mock.Anything, time.Minute).Return(false, nil).Once()

	subject := New(&Cfg{SaleRepo: t.repo, Oracle: t.oracle, Clock: t.clock, Redis: r})
	report, err := subject.Sweep(mockCtx)
	t.Require().NoError(err)
	t.True(report.Skipped)
	t.Zero(report.Scanned)
	r.AssertNotCalled(t.T(), "DelIfEqual", mock.Anything, mock.Anything, mock.Anything)
	t.oracle.AssertNotCalled(t.T(), "IsCustodyHeldByMarketplace", mock.Anything, mock.Anything, mock.Anything)
}

func (t *testsuite) TestRunStopsOnCancel() {
	t.put("1", nil)
	t.holds("1", true, nil)
	subject := New(&Cfg{SaleRepo: t.repo, Oracle: t.oracle, Clock: t.clock, Interval: 10 * time.Millisecond})

	c, cancel := ctx.WithCancel(mockCtx)
	done := make(chan error, 1)
	go func() {
		done <- subject.Run(c)
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		t.NoError(err)
	case <-time.After(time.Second):
		t.Fail("Run did not stop")
	}
	t.oracle.AssertCalled(t.T(), "IsCustodyHeldByMarketplace", mock.Anything, domain.TokenId("1"), mock.Anything)
}
