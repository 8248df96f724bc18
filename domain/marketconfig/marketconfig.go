package marketconfig

import (
	"time"

	"golang.org/x/xerrors"

	"github.com/lovawin/sosh-test-sub004/base/ctx"
	"github.com/lovawin/sosh-test-sub004/domain"
)

// MaxBps is 100% in basis points.
const MaxBps = 10000

// FeeConfig is an immutable snapshot of the marketplace fee policy.
type FeeConfig struct {
	PrimaryFeeBps           uint32    `json:"primaryFeeBps" bson:"primaryFeeBps"`
	SecondaryFeeBps         uint32    `json:"secondaryFeeBps" bson:"secondaryFeeBps"`
	UppercapPrimaryFeeBps   uint32    `json:"uppercapPrimaryFeeBps" bson:"uppercapPrimaryFeeBps"`
	UppercapSecondaryFeeBps uint32    `json:"uppercapSecondaryFeeBps" bson:"uppercapSecondaryFeeBps"`
	Version                 uint64    `json:"version" bson:"version"`
	UpdatedAt               time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Validate checks every field of the snapshot. Nothing is applied on failure.
func (c *FeeConfig) Validate() error {
	if c.UppercapPrimaryFeeBps > MaxBps || c.UppercapSecondaryFeeBps > MaxBps {
		return xerrors.Errorf("uppercap above %d bps: %w", MaxBps, domain.ErrInvalidConfig)
	}
	if c.PrimaryFeeBps > c.UppercapPrimaryFeeBps {
		return xerrors.Errorf("primary fee %d above cap %d: %w", c.PrimaryFeeBps, c.UppercapPrimaryFeeBps, domain.ErrInvalidConfig)
	}
	if c.SecondaryFeeBps > c.UppercapSecondaryFeeBps {
		return xerrors.Errorf("secondary fee %d above cap %d: %w", c.SecondaryFeeBps, c.UppercapSecondaryFeeBps, domain.ErrInvalidConfig)
	}
	return nil
}

// Tier returns the fee and its cap for the given sale tier.
func (c *FeeConfig) Tier(isPrimary bool) (bps uint32, capBps uint32) {
	if isPrimary {
		return c.PrimaryFeeBps, c.UppercapPrimaryFeeBps
	}
	return c.SecondaryFeeBps, c.UppercapSecondaryFeeBps
}

// TimeConfig is an immutable snapshot of the sale timing policy.
type TimeConfig struct {
	MaxSaleDuration       time.Duration `json:"maxSaleDuration" bson:"maxSaleDuration"`
	MinSaleDuration       time.Duration `json:"minSaleDuration" bson:"minSaleDuration"`
	MinTimeDifference     time.Duration `json:"minTimeDifference" bson:"minTimeDifference"`
	ExtensionDuration     time.Duration `json:"extensionDuration" bson:"extensionDuration"`
	MinSaleUpdateDuration time.Duration `json:"minSaleUpdateDuration" bson:"minSaleUpdateDuration"`
	// MaxTotalExtension caps anti-snipe extensions measured from the original end time. 0 means uncapped.
	MaxTotalExtension time.Duration `json:"maxTotalExtension" bson:"maxTotalExtension"`
	Version           uint64        `json:"version" bson:"version"`
	UpdatedAt         time.Time     `json:"updatedAt" bson:"updatedAt"`
}

func (c *TimeConfig) Validate() error {
	for name, d := range map[string]time.Duration{
		"maxSaleDuration":       c.MaxSaleDuration,
		"minSaleDuration":       c.MinSaleDuration,
		"minTimeDifference":     c.MinTimeDifference,
		"extensionDuration":     c.ExtensionDuration,
		"minSaleUpdateDuration": c.MinSaleUpdateDuration,
		"maxTotalExtension":     c.MaxTotalExtension,
	} {
		if d < 0 {
			return xerrors.Errorf("%s is negative: %w", name, domain.ErrInvalidConfig)
		}
	}
	if c.MaxSaleDuration == 0 {
		return xerrors.Errorf("maxSaleDuration is zero: %w", domain.ErrInvalidConfig)
	}
	if c.MinSaleDuration > c.MaxSaleDuration {
		return xerrors.Errorf("minSaleDuration above maxSaleDuration: %w", domain.ErrInvalidConfig)
	}
	return nil
}

// ExtendedEnd returns the end time after a bid landing at now, and whether it moved.
func (c *TimeConfig) ExtendedEnd(originalEnd, end, now time.Time) (time.Time, bool) {
	if c.ExtensionDuration == 0 || end.Sub(now) >= c.ExtensionDuration {
		return end, false
	}
	next := end.Add(c.ExtensionDuration)
	if c.MaxTotalExtension > 0 {
		if limit := originalEnd.Add(c.MaxTotalExtension); next.After(limit) {
			next = limit
		}
	}
	if !next.After(end) {
		return end, false
	}
	return next, true
}

type Repo interface {
	FindFeeConfig(ctx ctx.Ctx) (*FeeConfig, error)
	FindTimeConfig(ctx ctx.Ctx) (*TimeConfig, error)
	// SaveFeeConfig stores cfg if the persisted version still equals prevVersion.
	SaveFeeConfig(ctx ctx.Ctx, cfg *FeeConfig, prevVersion uint64) error
	SaveTimeConfig(ctx ctx.Ctx, cfg *TimeConfig, prevVersion uint64) error
}

type UseCase interface {
	FeeConfig(ctx ctx.Ctx) FeeConfig
	TimeConfig(ctx ctx.Ctx) TimeConfig
	UpdateFeeConfig(ctx ctx.Ctx, cfg FeeConfig) (*FeeConfig, error)
	UpdateTimeConfig(ctx ctx.Ctx, cfg TimeConfig) (*TimeConfig, error)
	// Reload replaces the in-memory snapshots with the persisted ones.
	Reload(ctx ctx.Ctx) error
}
