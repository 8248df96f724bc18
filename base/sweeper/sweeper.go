package sweeper

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/viney-shih/goroutines"

	"github.com/lovawin/sosh-test-sub004/base/backoff"
	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/base/log"
	"github.com/lovawin/sosh-test-sub004/base/metrics"
	"github.com/lovawin/sosh-test-sub004/domain"
	"github.com/lovawin/sosh-test-sub004/domain/custody"
	"github.com/lovawin/sosh-test-sub004/domain/keys"
	"github.com/lovawin/sosh-test-sub004/domain/sale"
	"github.com/lovawin/sosh-test-sub004/service/redis"
)

const (
	defaultBatch       = 200
	defaultWorkers     = 8
	defaultLockTtl     = time.Minute
	defaultMaxBackoff  = 10 * time.Minute
	defaultStaleIntent = time.Hour
)

var met = metrics.New("sweeper")

type Cfg struct {
	SaleRepo sale.Repo
	Oracle   custody.Oracle
	Clock    domain.Clock
	// Redis holds the leader lock. Without it every instance sweeps.
	Redis            redis.Service
	Interval         time.Duration
	MaxBackoff       time.Duration
	Batch            int
	Workers          int
	LockTtl          time.Duration
	StaleIntentAfter time.Duration
}

// Finding is the sweeper's view of one expired sale.
type Finding struct {
	SaleId  sale.SaleId    `json:"saleId"`
	TokenId domain.TokenId `json:"tokenId"`
	Status  sale.Status    `json:"status"`
	Held    bool           `json:"held"`
	Unknown bool           `json:"unknown"`
}

type Report struct {
	At time.Time `json:"at"`
	// Skipped is set when another instance holds the lock.
	Skipped     bool          `json:"skipped"`
	Scanned     int           `json:"scanned"`
	Retrievable []sale.SaleId `json:"retrievable"`
	// Mismatches are expired or ended sales whose token the marketplace no longer holds.
	Mismatches   []sale.SaleId `json:"mismatches"`
	AwaitSettle  []sale.SaleId `json:"awaitSettle"`
	Unknown      []sale.SaleId `json:"unknown"`
	StaleIntents []sale.SaleId `json:"staleIntents"`
}

// OracleDown reports whether no custody read of the sweep succeeded.
func (r *Report) OracleDown() bool {
	return r.Scanned > 0 && len(r.Unknown) == r.Scanned
}

// Sweeper reconciles stored open sales that have run past their end time against
// the ledger. It only reports, sale state is never written.
type Sweeper struct {
	saleRepo         sale.Repo
	oracle           custody.Oracle
	clock            domain.Clock
	redis            redis.Service
	interval         time.Duration
	maxBackoff       time.Duration
	batch            int
	workers          int
	lockTtl          time.Duration
	staleIntentAfter time.Duration
	lockKey          string
}

func New(cfg *Cfg) *Sweeper {
	s := &Sweeper{
		saleRepo:         cfg.SaleRepo,
		oracle:           cfg.Oracle,
		clock:            cfg.Clock,
		redis:            cfg.Redis,
		interval:         cfg.Interval,
		maxBackoff:       cfg.MaxBackoff,
		batch:            cfg.Batch,
		workers:          cfg.Workers,
		lockTtl:          cfg.LockTtl,
		staleIntentAfter: cfg.StaleIntentAfter,
		lockKey:          keys.RedisKey(keys.PfxSweeperLock, "sales", "main"),
	}
	if s.interval <= 0 {
		s.interval = time.Minute
	}
	if s.maxBackoff <= 0 {
		s.maxBackoff = defaultMaxBackoff
	}
	if s.batch <= 0 {
		s.batch = defaultBatch
	}
	if s.workers <= 0 {
		s.workers = defaultWorkers
	}
	if s.lockTtl <= 0 {
		s.lockTtl = defaultLockTtl
	}
	if s.staleIntentAfter <= 0 {
		s.staleIntentAfter = defaultStaleIntent
	}
	return s
}

// Run sweeps every interval until ctx is done. While the oracle or the clock is
// down it backs off exponentially instead.
func (s *Sweeper) Run(ctx ctx.Ctx) error {
	b := backoff.NewExponential(s.interval, s.maxBackoff)
	for {
		report, err := s.Sweep(ctx)
		if err != nil || report.OracleDown() {
			met.BumpSum("backoff", 1)
			ctx.WithFields(log.Fields{"next": b.NextDuration, "err": err}).Warn("sweep degraded, backing off")
			if err := b.Backoff(ctx); err != nil {
				return nil
			}
			continue
		}
		b.Reset()

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.interval):
		}
	}
}

// Sweep runs one reconciliation pass.
func (s *Sweeper) Sweep(ctx ctx.Ctx) (*Report, error) {
	defer met.BumpTime("sweep.time").End()

	now, err := s.clock.Now(ctx)
	if err != nil {
		ctx.WithField("err", err).Error("clock.Now failed")
		return nil, err
	}
	report := &Report{At: now}

	release, ok, err := s.lock(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		met.BumpSum("lock.busy", 1)
		report.Skipped = true
		return report, nil
	}
	defer release()

	if err := s.sweepExpired(ctx, now, report); err != nil {
		return nil, err
	}
	if err := s.sweepIntents(ctx, now, report); err != nil {
		return nil, err
	}

	met.BumpSum("retrievable", float64(len(report.Retrievable)))
	met.BumpSum("mismatch", float64(len(report.Mismatches)))
	met.BumpSum("unknown", float64(len(report.Unknown)))
	met.BumpSum("stale_intent", float64(len(report.StaleIntents)))
	ctx.WithFields(log.Fields{
		"scanned":      report.Scanned,
		"retrievable":  len(report.Retrievable),
		"mismatches":   report.Mismatches,
		"awaitSettle":  len(report.AwaitSettle),
		"unknown":      len(report.Unknown),
		"staleIntents": report.StaleIntents,
	}).Info("sweep done")
	return report, nil
}

// lock takes the leader lock. The returned release only deletes the key while it
// still holds this instance's token.
func (s *Sweeper) lock(ctx ctx.Ctx) (func(), bool, error) {
	if s.redis == nil {
		return func() {}, true, nil
	}

	token, err := uuid.NewRandom()
	if err != nil {
		return nil, false, err
	}
	val := []byte(token.String())

	ok, err := s.redis.SetNX(ctx, s.lockKey, val, s.lockTtl)
	if err != nil {
		ctx.WithField("err", err).Error("redis.SetNX failed")
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return func() {
		if _, err := s.redis.DelIfEqual(ctx, s.lockKey, val); err != nil {
			ctx.WithField("err", err).Warn("redis.DelIfEqual failed")
		}
	}, true, nil
}

func (s *Sweeper) sweepExpired(ctx ctx.Ctx, now time.Time, report *Report) error {
	sales, err := s.saleRepo.FindAll(ctx,
		sale.WithStatus(sale.StatusOpen),
		sale.WithEndTimeLT(now),
		sale.WithSort("endTime"),
		sale.WithPagination(0, int32(s.batch)),
	)
	if err != nil {
		ctx.WithField("err", err).Error("saleRepo.FindAll failed")
		return err
	}
	// sales awaiting a transfer are reported by sweepIntents
	candidates := make([]*sale.Sale, 0, len(sales))
	for _, x := range sales {
		if !x.Intent.IsPending() {
			candidates = append(candidates, x)
		}
	}
	report.Scanned = len(candidates)
	if len(candidates) == 0 {
		return nil
	}

	b := goroutines.NewBatch(s.workers, goroutines.WithBatchSize(len(candidates)))
	defer b.Close()
	for i := 0; i < len(candidates); i++ {
		x := candidates[i]
		b.Queue(func() (interface{}, error) {
			return s.inspect(ctx, x, now), nil
		})
	}
	b.QueueComplete()

	for ret := range b.Results() {
		if ret.Error() != nil {
			ctx.WithField("err", ret.Error()).Error("inspect failed")
			continue
		}
		f := ret.Value().(*Finding)
		switch {
		case f.Unknown:
			report.Unknown = append(report.Unknown, f.SaleId)
		case !f.Held:
			ctx.WithFields(log.Fields{"saleId": f.SaleId, "tokenId": f.TokenId, "status": f.Status}).Warn("custody mismatch")
			report.Mismatches = append(report.Mismatches, f.SaleId)
		case f.Status == sale.StatusEnded:
			report.AwaitSettle = append(report.AwaitSettle, f.SaleId)
		default:
			report.Retrievable = append(report.Retrievable, f.SaleId)
		}
	}
	return nil
}

func (s *Sweeper) inspect(ctx ctx.Ctx, x *sale.Sale, now time.Time) *Finding {
	f := &Finding{SaleId: x.SaleId, TokenId: x.TokenId, Status: sale.EffectiveStatus(x, now)}
	held, err := s.oracle.IsCustodyHeldByMarketplace(ctx, x.TokenId, custody.WithMaxStaleness(s.interval))
	if err != nil {
		if !errors.Is(err, domain.ErrOracleUnavailable) {
			ctx.WithFields(log.Fields{"saleId": x.SaleId, "err": err}).Error("oracle.IsCustodyHeldByMarketplace failed")
		}
		f.Unknown = true
		return f
	}
	f.Held = held
	return f
}

func (s *Sweeper) sweepIntents(ctx ctx.Ctx, now time.Time, report *Report) error {
	stale, err := s.saleRepo.FindAll(ctx,
		sale.WithIntentState(sale.IntentStatePending),
		sale.WithIntentCreatedBefore(now.Add(-s.staleIntentAfter)),
		sale.WithPagination(0, int32(s.batch)),
	)
	if err != nil {
		ctx.WithField("err", err).Error("saleRepo.FindAll failed")
		return err
	}
	for _, x := range stale {
		ctx.WithFields(log.Fields{
			"saleId":   x.SaleId,
			"intentId": x.Intent.Id,
			"kind":     x.Intent.Kind,
			"age":      now.Sub(x.Intent.CreatedAt).String(),
		}).Warn("transfer intent still pending")
		report.StaleIntents = append(report.StaleIntents, x.SaleId)
	}
	return nil
}
