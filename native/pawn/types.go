package pawn

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Deposit records a liquidity provider position. Amount values are integer
// quantities in the pool asset's smallest unit (6 decimals for pUSD).
// Deposits are append-only: Withdrawn flips once and the record is never
// deleted, keeping the ledger auditable.
type Deposit struct {
	// ID is the sequential deposit identifier, unique per pool and never
	// reused.
	ID uint64 `json:"id"`
	// Owner is the liquidity provider's address.
	Owner common.Address `json:"owner"`
	// Amount is the net principal credited after the deposit fee.
	Amount *big.Int `json:"amount"`
	// FeeAmount is the platform fee withheld at deposit time.
	FeeAmount *big.Int `json:"feeAmount"`
	// APRBps snapshots the pool-wide APR at creation, in basis points.
	// Deposits are never repriced when the pool APR changes.
	APRBps uint64 `json:"aprBps"`
	// DepositTimestamp is the creation time in seconds since epoch.
	DepositTimestamp int64 `json:"depositTimestamp"`
	// LastRewardCalculation is the timestamp through which rewards have been
	// realised. It advances on withdrawal.
	LastRewardCalculation int64 `json:"lastRewardCalculation"`
	// Withdrawn is terminal: once true no reward accrues and no mutation is
	// permitted.
	Withdrawn bool `json:"withdrawn"`
}

// Clone returns a deep copy of the deposit.
func (d *Deposit) Clone() *Deposit {
	if d == nil {
		return nil
	}
	clone := *d
	if d.Amount != nil {
		clone.Amount = new(big.Int).Set(d.Amount)
	}
	if d.FeeAmount != nil {
		clone.FeeAmount = new(big.Int).Set(d.FeeAmount)
	}
	return &clone
}

// Loan records a collateralised borrow position. RepayAmount is fixed at
// origination; there is no partial repayment or late-fee escalation.
type Loan struct {
	// ID is the sequential loan identifier, unique per pool.
	ID uint64 `json:"id"`
	// Borrower is the address the principal was disbursed to and the
	// custody-return target on repayment.
	Borrower common.Address `json:"borrower"`
	// CollateralID identifies the pledged asset (NFT token id).
	CollateralID *big.Int `json:"collateralId"`
	// Principal is the borrowed amount, bounded by collateralValue*LTV/100.
	Principal *big.Int `json:"principal"`
	// FeeAmount is the origination fee from the duration rate table.
	FeeAmount *big.Int `json:"feeAmount"`
	// RepayAmount is Principal+FeeAmount, fixed at origination.
	RepayAmount *big.Int `json:"repayAmount"`
	// StartTimestamp and DueTimestamp bracket the agreed term.
	StartTimestamp int64 `json:"startTimestamp"`
	DueTimestamp   int64 `json:"dueTimestamp"`
	// Repaid is terminal: collateral custody is held by the pool until it
	// flips true.
	Repaid bool `json:"repaid"`
}

// Clone returns a deep copy of the loan.
func (l *Loan) Clone() *Loan {
	if l == nil {
		return nil
	}
	clone := *l
	if l.CollateralID != nil {
		clone.CollateralID = new(big.Int).Set(l.CollateralID)
	}
	if l.Principal != nil {
		clone.Principal = new(big.Int).Set(l.Principal)
	}
	if l.FeeAmount != nil {
		clone.FeeAmount = new(big.Int).Set(l.FeeAmount)
	}
	if l.RepayAmount != nil {
		clone.RepayAmount = new(big.Int).Set(l.RepayAmount)
	}
	return &clone
}

// Overdue reports whether the loan is past due and unrepaid. Overdue is a
// derived predicate, not a stored state: expiry never moves collateral.
func (l *Loan) Overdue(now int64) bool {
	if l == nil || l.Repaid {
		return false
	}
	return now > l.DueTimestamp
}

// PoolState aggregates the whole ledger: both record sets plus the pool-wide
// counters the solvency checks run against. A single instance owns every
// Deposit and Loan; Owner/Borrower fields are back-references for lookup,
// not shared ownership.
type PoolState struct {
	Deposits []*Deposit `json:"deposits"`
	Loans    []*Loan    `json:"loans"`
	// TotalLiquidity is the sum of non-withdrawn deposits' net principal.
	TotalLiquidity *big.Int `json:"totalLiquidity"`
	// TotalBorrowed is the outstanding unrepaid loan principal.
	TotalBorrowed *big.Int `json:"totalBorrowed"`
	// TotalPlatformFees accumulates deposit and repayment fees until swept.
	TotalPlatformFees *big.Int `json:"totalPlatformFees"`
	// LTVPercent caps loan principal as a percentage of collateral value.
	LTVPercent uint64 `json:"ltvPercent"`
	// APRBps is the reward rate applied to new deposits, in basis points.
	APRBps uint64 `json:"aprBps"`
	// DepositFeeBps is the platform fee withheld from deposits.
	DepositFeeBps uint64 `json:"depositFeeBps"`
}

// NewPoolState constructs an empty ledger configured with the given
// parameters.
func NewPoolState(params Params) *PoolState {
	return &PoolState{
		TotalLiquidity:    big.NewInt(0),
		TotalBorrowed:     big.NewInt(0),
		TotalPlatformFees: big.NewInt(0),
		LTVPercent:        params.LTVPercent,
		APRBps:            params.APRBps,
		DepositFeeBps:     params.DepositFeeBps,
	}
}

// Clone returns a deep copy of the pool state.
func (s *PoolState) Clone() *PoolState {
	if s == nil {
		return nil
	}
	clone := &PoolState{
		LTVPercent:    s.LTVPercent,
		APRBps:        s.APRBps,
		DepositFeeBps: s.DepositFeeBps,
	}
	if s.TotalLiquidity != nil {
		clone.TotalLiquidity = new(big.Int).Set(s.TotalLiquidity)
	}
	if s.TotalBorrowed != nil {
		clone.TotalBorrowed = new(big.Int).Set(s.TotalBorrowed)
	}
	if s.TotalPlatformFees != nil {
		clone.TotalPlatformFees = new(big.Int).Set(s.TotalPlatformFees)
	}
	if len(s.Deposits) > 0 {
		clone.Deposits = make([]*Deposit, len(s.Deposits))
		for i, d := range s.Deposits {
			clone.Deposits[i] = d.Clone()
		}
	}
	if len(s.Loans) > 0 {
		clone.Loans = make([]*Loan, len(s.Loans))
		for i, l := range s.Loans {
			clone.Loans[i] = l.Clone()
		}
	}
	return clone
}

func (s *PoolState) ensureDefaults() {
	if s.TotalLiquidity == nil {
		s.TotalLiquidity = big.NewInt(0)
	}
	if s.TotalBorrowed == nil {
		s.TotalBorrowed = big.NewInt(0)
	}
	if s.TotalPlatformFees == nil {
		s.TotalPlatformFees = big.NewInt(0)
	}
}
