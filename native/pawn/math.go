package pawn

import "math/big"

var basisPoints = big.NewInt(10_000)

const secondsPerYear = 31_536_000

// bpsShare computes floor(amount * bps / 10000). Flooring keeps the rounding
// dust with the protocol on fees and away from depositors on rewards.
func bpsShare(amount *big.Int, bps uint64) *big.Int {
	if amount == nil || amount.Sign() <= 0 || bps == 0 {
		return big.NewInt(0)
	}
	share := new(big.Int).Mul(amount, new(big.Int).SetUint64(bps))
	return share.Quo(share, basisPoints)
}

// percentShare computes floor(amount * pct / 100).
func percentShare(amount *big.Int, pct uint64) *big.Int {
	if amount == nil || amount.Sign() <= 0 || pct == 0 {
		return big.NewInt(0)
	}
	share := new(big.Int).Mul(amount, new(big.Int).SetUint64(pct))
	return share.Quo(share, big.NewInt(100))
}

// linearReward computes the simple non-compounding accrual
// floor(amount * aprBps * elapsed / (10000 * secondsPerYear)). The single
// combined division preserves the contract's integer truncation exactly.
func linearReward(amount *big.Int, aprBps uint64, elapsedSeconds int64) *big.Int {
	if amount == nil || amount.Sign() <= 0 || aprBps == 0 || elapsedSeconds <= 0 {
		return big.NewInt(0)
	}
	reward := new(big.Int).Mul(amount, new(big.Int).SetUint64(aprBps))
	reward.Mul(reward, big.NewInt(elapsedSeconds))
	denom := new(big.Int).Mul(basisPoints, big.NewInt(secondsPerYear))
	return reward.Quo(reward, denom)
}
