package marketconfig

import (
	"math/big"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/lovawin/sosh-test-sub004/domain"
)

func TestComputeFee(t *testing.T) {
	req := require.New(t)
	cfg := &FeeConfig{
		PrimaryFeeBps:           250,
		SecondaryFeeBps:         100,
		UppercapPrimaryFeeBps:   1000,
		UppercapSecondaryFeeBps: 500,
	}

	cases := []struct {
		name      string
		amount    int64
		isPrimary bool
		fee       int64
		net       int64
	}{
		{"primary", 1000, true, 25, 975},
		{"primary floors the fee", 999, true, 24, 975},
		{"secondary", 1000, false, 10, 990},
		{"fee rounds to zero", 39, true, 0, 39},
		{"smallest unit", 1, false, 0, 1},
	}
	for _, c := range cases {
		fee, net, err := ComputeFee(big.NewInt(c.amount), c.isPrimary, cfg)
		req.NoError(err, c.name)
		req.Equal(c.fee, fee.Int64(), c.name)
		req.Equal(c.net, net.Int64(), c.name)
	}
}

func TestComputeFeeInvalidAmount(t *testing.T) {
	req := require.New(t)
	cfg := &FeeConfig{PrimaryFeeBps: 250, UppercapPrimaryFeeBps: 1000}
	for _, amount := range []*big.Int{nil, big.NewInt(0), big.NewInt(-5)} {
		_, _, err := ComputeFee(amount, true, cfg)
		req.ErrorIs(err, domain.ErrInvalidAmount)
	}
}

func TestComputeFeeAbortsAboveCap(t *testing.T) {
	req := require.New(t)
	cfg := &FeeConfig{PrimaryFeeBps: 300, UppercapPrimaryFeeBps: 200}
	_, _, err := ComputeFee(big.NewInt(1000), true, cfg)
	req.ErrorIs(err, domain.ErrFeeExceedsCap)
	kind, ok := domain.KindOf(err)
	req.True(ok)
	req.Equal(domain.KindInvariant, kind)
}

func TestFeeConfigValidate(t *testing.T) {
	req := require.New(t)
	cases := []struct {
		name string
		cfg  FeeConfig
		ok   bool
	}{
		{"valid", FeeConfig{PrimaryFeeBps: 250, SecondaryFeeBps: 100, UppercapPrimaryFeeBps: 1000, UppercapSecondaryFeeBps: 1000}, true},
		{"fee equals cap", FeeConfig{PrimaryFeeBps: 1000, UppercapPrimaryFeeBps: 1000}, true},
		{"primary above cap", FeeConfig{PrimaryFeeBps: 1001, UppercapPrimaryFeeBps: 1000, UppercapSecondaryFeeBps: 1000}, false},
		{"secondary above cap", FeeConfig{SecondaryFeeBps: 2, UppercapSecondaryFeeBps: 1}, false},
		{"cap above 100%", FeeConfig{UppercapPrimaryFeeBps: MaxBps + 1}, false},
	}
	for _, c := range cases {
		err := c.cfg.Validate()
		if c.ok {
			req.NoError(err, c.name)
		} else {
			req.ErrorIs(err, domain.ErrInvalidConfig, c.name)
		}
	}
}

func TestTimeConfigValidate(t *testing.T) {
	req := require.New(t)
	valid := TimeConfig{
		MaxSaleDuration:   30 * 24 * time.Hour,
		MinSaleDuration:   time.Hour,
		ExtensionDuration: 10 * time.Minute,
	}
	req.NoError(valid.Validate())

	negative := valid
	negative.MinTimeDifference = -time.Second
	req.ErrorIs(negative.Validate(), domain.ErrInvalidConfig)

	inverted := valid
	inverted.MinSaleDuration = inverted.MaxSaleDuration + time.Second
	req.ErrorIs(inverted.Validate(), domain.ErrInvalidConfig)

	zero := valid
	zero.MaxSaleDuration = 0
	zero.MinSaleDuration = 0
	req.ErrorIs(zero.Validate(), domain.ErrInvalidConfig)
}

func TestExtendedEnd(t *testing.T) {
	req := require.New(t)
	origin := time.Unix(1_700_000_000, 0)
	cfg := TimeConfig{ExtensionDuration: 10 * time.Minute, MaxTotalExtension: 15 * time.Minute}

	// outside the window
	end, moved := cfg.ExtendedEnd(origin, origin, origin.Add(-11*time.Minute))
	req.False(moved)
	req.Equal(origin, end)

	// inside the window
	end, moved = cfg.ExtendedEnd(origin, origin, origin.Add(-time.Minute))
	req.True(moved)
	req.Equal(origin.Add(10*time.Minute), end)

	// capped by the total extension
	end, moved = cfg.ExtendedEnd(origin, origin.Add(10*time.Minute), origin.Add(9*time.Minute))
	req.True(moved)
	req.Equal(origin.Add(15*time.Minute), end)

	// cap reached
	end, moved = cfg.ExtendedEnd(origin, origin.Add(15*time.Minute), origin.Add(14*time.Minute))
	req.False(moved)
	req.Equal(origin.Add(15*time.Minute), end)

	// uncapped
	uncapped := TimeConfig{ExtensionDuration: 10 * time.Minute}
	end, moved = uncapped.ExtendedEnd(origin, origin.Add(time.Hour), origin.Add(time.Hour-time.Second))
	req.True(moved)
	req.Equal(origin.Add(70*time.Minute), end)
}

func TestComputeFeeProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("fee never exceeds configured bps and splits exactly", prop.ForAll(
		func(amount int64, bps uint32, isPrimary bool) bool {
			cfg := &FeeConfig{
				PrimaryFeeBps:           bps,
				SecondaryFeeBps:         bps,
				UppercapPrimaryFeeBps:   MaxBps,
				UppercapSecondaryFeeBps: MaxBps,
			}
			a := big.NewInt(amount)
			fee, net, err := ComputeFee(a, isPrimary, cfg)
			if err != nil {
				return false
			}
			sum := new(big.Int).Add(fee, net)
			limit := new(big.Int).Mul(a, big.NewInt(int64(bps)))
			scaledFee := new(big.Int).Mul(fee, big.NewInt(MaxBps))
			return sum.Cmp(a) == 0 && fee.Sign() >= 0 && scaledFee.Cmp(limit) <= 0
		},
		gen.Int64Range(1, 1<<50),
		gen.UInt32Range(0, MaxBps),
		gen.Bool(),
	))

	properties.Property("validated configs keep fee within cap", prop.ForAll(
		func(fee, capBps uint32) bool {
			cfg := FeeConfig{
				PrimaryFeeBps:           fee,
				SecondaryFeeBps:         fee,
				UppercapPrimaryFeeBps:   capBps,
				UppercapSecondaryFeeBps: capBps,
			}
			if err := cfg.Validate(); err != nil {
				return fee > capBps
			}
			return cfg.PrimaryFeeBps <= cfg.UppercapPrimaryFeeBps && cfg.SecondaryFeeBps <= cfg.UppercapSecondaryFeeBps
		},
		gen.UInt32Range(0, MaxBps),
		gen.UInt32Range(0, MaxBps),
	))

	properties.TestingRun(t)
}
