package marketconfig

import (
	"math/big"

	"golang.org/x/xerrors"

	"github.com/lovawin/sosh-test-sub004/domain"
)

var bigMaxBps = big.NewInt(MaxBps)

// ComputeFee splits amount into the marketplace fee and the seller's net.
// The fee is floored, so the platform never takes more than the configured bps.
func ComputeFee(amount *big.Int, isPrimary bool, cfg *FeeConfig) (fee *big.Int, net *big.Int, err error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, nil, domain.ErrInvalidAmount
	}
	if cfg == nil {
		return nil, nil, xerrors.Errorf("nil fee config: %w", domain.ErrFeeExceedsCap)
	}
	bps, capBps := cfg.Tier(isPrimary)
	if bps > capBps || capBps > MaxBps {
		return nil, nil, xerrors.Errorf("fee %d bps, cap %d bps: %w", bps, capBps, domain.ErrFeeExceedsCap)
	}

	fee = new(big.Int).Mul(amount, big.NewInt(int64(bps)))
	fee.Quo(fee, bigMaxBps)
	net = new(big.Int).Sub(amount, fee)
	return fee, net, nil
}
