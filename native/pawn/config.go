package pawn

import "fmt"

// Params groups the owner-controlled pool parameters.
type Params struct {
	// LTVPercent is the maximum loan principal as a percentage of the
	// collateral valuation.
	LTVPercent uint64
	// APRBps is the reward rate snapshotted onto new deposits.
	APRBps uint64
	// DepositFeeBps is the platform fee withheld from gross deposits.
	DepositFeeBps uint64
}

// DefaultParams mirrors the deployed pool configuration: 70% LTV, 12% APR
// and a 25bp deposit fee.
func DefaultParams() Params {
	return Params{LTVPercent: 70, APRBps: 1200, DepositFeeBps: 25}
}

// Validate rejects parameter combinations the ledger math cannot honour.
func (p Params) Validate() error {
	if p.LTVPercent == 0 || p.LTVPercent > 100 {
		return fmt.Errorf("pawn params: LTV %d%% outside (0, 100]", p.LTVPercent)
	}
	if p.APRBps > 10_000 {
		return fmt.Errorf("pawn params: APR %dbp exceeds 10000", p.APRBps)
	}
	if p.DepositFeeBps >= 10_000 {
		return fmt.Errorf("pawn params: deposit fee %dbp must stay below 10000", p.DepositFeeBps)
	}
	return nil
}
