package pawn

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"pawnpool/core/events"
)

// Engine orchestrates the state transitions of the pawn lending pool. Every
// public entry point runs under a single writer lock, mirroring per-
// transaction atomicity on chain: a mutation is either fully committed or
// not observable at all. The clock is always supplied by the caller so the
// ledger stays deterministic.
type Engine struct {
	mu      sync.RWMutex
	owner   common.Address
	asset   AssetTransfer
	custody CollateralCustody
	emitter events.Emitter
	state   *PoolState
}

// NewEngine constructs an engine owned by the given treasury address and an
// empty ledger configured with params.
func NewEngine(owner common.Address, params Params) *Engine {
	return &Engine{
		owner:   owner,
		emitter: events.NoopEmitter{},
		state:   NewPoolState(params),
	}
}

// SetAsset wires the pool's stable-asset transfer capability.
func (e *Engine) SetAsset(asset AssetTransfer) {
	if e == nil {
		return
	}
	e.asset = asset
}

// SetCustody wires the NFT collateral custody capability.
func (e *Engine) SetCustody(custody CollateralCustody) {
	if e == nil {
		return
	}
	e.custody = custody
}

// SetEmitter wires the event sink. Passing nil restores the discard sink.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if e == nil {
		return
	}
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	e.emitter = emitter
}

// Restore replaces the ledger with a previously snapshotted state. Used by
// off-chain mirrors resuming from persistence.
func (e *Engine) Restore(state *PoolState) {
	if e == nil || state == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	restored := state.Clone()
	restored.ensureDefaults()
	e.state = restored
}

// Snapshot returns a deep copy of the ledger for persistence.
func (e *Engine) Snapshot() *PoolState {
	if e == nil {
		return nil
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Clone()
}

// AddLiquidity pulls grossAmount of the pool asset from owner, withholds the
// deposit fee and credits the remainder as a new deposit carrying the
// current APR snapshot.
func (e *Engine) AddLiquidity(owner common.Address, grossAmount *big.Int, now int64) (*Deposit, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if e.asset == nil {
		return nil, ErrNilState
	}
	if grossAmount == nil || grossAmount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	feeAmount := bpsShare(grossAmount, e.state.DepositFeeBps)
	netAmount := new(big.Int).Sub(grossAmount, feeAmount)

	if err := e.asset.TransferIn(owner, grossAmount); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	deposit := &Deposit{
		ID:                    uint64(len(e.state.Deposits)),
		Owner:                 owner,
		Amount:                netAmount,
		FeeAmount:             feeAmount,
		APRBps:                e.state.APRBps,
		DepositTimestamp:      now,
		LastRewardCalculation: now,
	}
	e.state.Deposits = append(e.state.Deposits, deposit)
	e.state.TotalLiquidity = new(big.Int).Add(e.state.TotalLiquidity, netAmount)
	e.state.TotalPlatformFees = new(big.Int).Add(e.state.TotalPlatformFees, feeAmount)

	e.emitter.Emit(events.LiquidityAdded{
		Owner:     owner,
		DepositID: deposit.ID,
		NetAmount: new(big.Int).Set(netAmount),
		FeeAmount: new(big.Int).Set(feeAmount),
	})
	return deposit.Clone(), nil
}

// WithdrawLiquidity pays out a deposit's principal plus the reward accrued
// through now and marks the deposit withdrawn. The deposit stays
// withdrawable on retry if the pool cannot cover the payout.
func (e *Engine) WithdrawLiquidity(caller common.Address, depositID uint64, now int64) (*big.Int, *big.Int, error) {
	if e == nil || e.state == nil {
		return nil, nil, ErrNilState
	}
	if e.asset == nil {
		return nil, nil, ErrNilState
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	deposit := e.depositByID(depositID)
	if deposit == nil {
		return nil, nil, ErrUnknownDeposit
	}
	if deposit.Owner != caller {
		return nil, nil, ErrNotOwner
	}
	if deposit.Withdrawn {
		return nil, nil, ErrAlreadyWithdrawn
	}

	reward := e.unclaimedReward(deposit, now)
	principal := new(big.Int).Set(deposit.Amount)
	payout := new(big.Int).Add(principal, reward)

	if e.availableLiquidity().Cmp(payout) < 0 {
		return nil, nil, ErrInsufficientPoolBalance
	}

	if err := e.asset.TransferOut(deposit.Owner, payout); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	deposit.Withdrawn = true
	deposit.LastRewardCalculation = now
	e.state.TotalLiquidity = new(big.Int).Sub(e.state.TotalLiquidity, principal)

	e.emitter.Emit(events.LiquidityWithdrawn{
		Owner:     deposit.Owner,
		DepositID: deposit.ID,
		Principal: new(big.Int).Set(principal),
		Reward:    new(big.Int).Set(reward),
	})
	return principal, reward, nil
}

// RequestLoan issues a fixed-duration loan against the supplied collateral
// valuation. The principal is LTV-bounded, custody of the collateral moves
// to the pool and the origination fee is fixed from the duration table.
func (e *Engine) RequestLoan(borrower common.Address, collateralID, collateralValue *big.Int, durationSeconds int64, now int64) (*Loan, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if e.asset == nil || e.custody == nil {
		return nil, ErrNilState
	}
	rateBps, err := InterestRate(durationSeconds)
	if err != nil {
		return nil, err
	}
	if collateralID == nil || collateralValue == nil || collateralValue.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, loan := range e.state.Loans {
		if !loan.Repaid && loan.CollateralID.Cmp(collateralID) == 0 {
			return nil, ErrCollateralEncumbered
		}
	}

	principal := percentShare(collateralValue, e.state.LTVPercent)
	if principal.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	if e.availableLiquidity().Cmp(principal) < 0 {
		return nil, ErrInsufficientLiquidity
	}

	feeAmount := bpsShare(principal, rateBps)
	repayAmount := new(big.Int).Add(principal, feeAmount)

	if err := e.custody.TakeCustody(borrower, collateralID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	if err := e.asset.TransferOut(borrower, principal); err != nil {
		// Undo the custody transfer so the failed operation leaves no side
		// effects; the compensation result cannot change the outcome.
		_ = e.custody.ReleaseCustody(borrower, collateralID)
		return nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	loan := &Loan{
		ID:             uint64(len(e.state.Loans)),
		Borrower:       borrower,
		CollateralID:   new(big.Int).Set(collateralID),
		Principal:      principal,
		FeeAmount:      feeAmount,
		RepayAmount:    repayAmount,
		StartTimestamp: now,
		DueTimestamp:   now + durationSeconds,
	}
	e.state.Loans = append(e.state.Loans, loan)
	e.state.TotalBorrowed = new(big.Int).Add(e.state.TotalBorrowed, principal)

	e.emitter.Emit(events.LoanRequested{
		Borrower:     borrower,
		LoanID:       loan.ID,
		CollateralID: new(big.Int).Set(collateralID),
		Principal:    new(big.Int).Set(principal),
		FeeAmount:    new(big.Int).Set(feeAmount),
		DueTimestamp: loan.DueTimestamp,
	})
	return loan.Clone(), nil
}

// RepayLoan settles a loan in full. Repayment is permissionless: whoever
// funds the fixed repayAmount closes the loan, and collateral always returns
// to the borrower. The original repayAmount is accepted past the due date;
// expiry never escalates the debt or moves custody.
func (e *Engine) RepayLoan(caller common.Address, loanID uint64, now int64) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if e.asset == nil || e.custody == nil {
		return nil, ErrNilState
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	loan := e.loanByID(loanID)
	if loan == nil {
		return nil, ErrUnknownLoan
	}
	if loan.Repaid {
		return nil, ErrAlreadyRepaid
	}

	if err := e.asset.TransferIn(caller, loan.RepayAmount); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}
	if err := e.custody.ReleaseCustody(loan.Borrower, loan.CollateralID); err != nil {
		// Refund the repayment so the failed operation leaves no side
		// effects.
		_ = e.asset.TransferOut(caller, loan.RepayAmount)
		return nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	loan.Repaid = true
	e.state.TotalBorrowed = new(big.Int).Sub(e.state.TotalBorrowed, loan.Principal)
	e.state.TotalLiquidity = new(big.Int).Add(e.state.TotalLiquidity, loan.Principal)
	e.state.TotalPlatformFees = new(big.Int).Add(e.state.TotalPlatformFees, loan.FeeAmount)

	feeAmount := new(big.Int).Set(loan.FeeAmount)
	e.emitter.Emit(events.LoanRepaid{LoanID: loan.ID, FeeAmount: new(big.Int).Set(feeAmount)})
	return feeAmount, nil
}

// WithdrawPlatformFees sweeps the accumulated platform fees to the pool
// owner. The counter is reset only after the transfer succeeds; a sweep with
// no accrued fees transfers zero.
func (e *Engine) WithdrawPlatformFees(caller common.Address) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	if e.asset == nil {
		return nil, ErrNilState
	}
	if caller != e.owner {
		return nil, ErrNotOwner
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	amount := new(big.Int).Set(e.state.TotalPlatformFees)
	if amount.Sign() > 0 {
		if err := e.asset.TransferOut(e.owner, amount); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
		}
		e.state.TotalPlatformFees = big.NewInt(0)
	}

	e.emitter.Emit(events.PlatformFeeWithdrawn{Owner: e.owner, Amount: new(big.Int).Set(amount)})
	return amount, nil
}

// SetLTV updates the loan-to-value cap applied to subsequent loans. Existing
// loans keep their principal.
func (e *Engine) SetLTV(caller common.Address, ltvPercent uint64) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if caller != e.owner {
		return ErrNotOwner
	}
	if ltvPercent == 0 || ltvPercent > 100 {
		return ErrInvalidAmount
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.LTVPercent = ltvPercent
	return nil
}

// SetAPR updates the reward rate snapshotted onto subsequent deposits.
// Existing deposits are never repriced.
func (e *Engine) SetAPR(caller common.Address, aprBps uint64) error {
	if e == nil || e.state == nil {
		return ErrNilState
	}
	if caller != e.owner {
		return ErrNotOwner
	}
	if aprBps > 10_000 {
		return ErrInvalidAmount
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.APRBps = aprBps
	return nil
}

// GetUnclaimedReward returns the reward accrued by a deposit through now.
// Withdrawn deposits accrue nothing.
func (e *Engine) GetUnclaimedReward(depositID uint64, now int64) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	deposit := e.depositByID(depositID)
	if deposit == nil {
		return nil, ErrUnknownDeposit
	}
	return e.unclaimedReward(deposit, now), nil
}

// GetDepositsByUser returns the caller's open deposits in insertion order.
// Withdrawn deposits are filtered out; the full history stays reachable via
// DepositByID.
func (e *Engine) GetDepositsByUser(owner common.Address) []*Deposit {
	if e == nil || e.state == nil {
		return nil
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []*Deposit
	for _, deposit := range e.state.Deposits {
		if deposit.Owner == owner && !deposit.Withdrawn {
			out = append(out, deposit.Clone())
		}
	}
	return out
}

// GetLoansByUser returns every loan taken by the borrower in insertion
// order, including repaid ones.
func (e *Engine) GetLoansByUser(borrower common.Address) []*Loan {
	if e == nil || e.state == nil {
		return nil
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []*Loan
	for _, loan := range e.state.Loans {
		if loan.Borrower == borrower {
			out = append(out, loan.Clone())
		}
	}
	return out
}

// DepositByID returns the deposit record, withdrawn or not.
func (e *Engine) DepositByID(depositID uint64) (*Deposit, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	deposit := e.depositByID(depositID)
	if deposit == nil {
		return nil, ErrUnknownDeposit
	}
	return deposit.Clone(), nil
}

// LoanByID returns the loan record, repaid or not.
func (e *Engine) LoanByID(loanID uint64) (*Loan, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	loan := e.loanByID(loanID)
	if loan == nil {
		return nil, ErrUnknownLoan
	}
	return loan.Clone(), nil
}

// TotalLiquidity returns the pool's aggregate non-withdrawn deposit
// principal.
func (e *Engine) TotalLiquidity() *big.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return new(big.Int).Set(e.state.TotalLiquidity)
}

// TotalBorrowed returns the outstanding unrepaid loan principal.
func (e *Engine) TotalBorrowed() *big.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return new(big.Int).Set(e.state.TotalBorrowed)
}

// TotalPlatformFeesCollected returns the unswept platform fee balance.
func (e *Engine) TotalPlatformFeesCollected() *big.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return new(big.Int).Set(e.state.TotalPlatformFees)
}

// AvailableLiquidity returns totalLiquidity minus totalBorrowed, floored at
// zero.
func (e *Engine) AvailableLiquidity() *big.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.availableLiquidity()
}

// LTV returns the configured loan-to-value percentage.
func (e *Engine) LTV() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.LTVPercent
}

// APR returns the reward rate applied to new deposits, in basis points.
func (e *Engine) APR() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.APRBps
}

func (e *Engine) depositByID(depositID uint64) *Deposit {
	if depositID >= uint64(len(e.state.Deposits)) {
		return nil
	}
	return e.state.Deposits[depositID]
}

func (e *Engine) loanByID(loanID uint64) *Loan {
	if loanID >= uint64(len(e.state.Loans)) {
		return nil
	}
	return e.state.Loans[loanID]
}

func (e *Engine) unclaimedReward(deposit *Deposit, now int64) *big.Int {
	if deposit == nil || deposit.Withdrawn {
		return big.NewInt(0)
	}
	elapsed := now - deposit.LastRewardCalculation
	return linearReward(deposit.Amount, deposit.APRBps, elapsed)
}

func (e *Engine) availableLiquidity() *big.Int {
	liquidity := new(big.Int).Sub(e.state.TotalLiquidity, e.state.TotalBorrowed)
	if liquidity.Sign() < 0 {
		return big.NewInt(0)
	}
	return liquidity
}
