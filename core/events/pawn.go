package events

import (
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"pawnpool/core/types"
)

const (
	// TypeLiquidityAdded marks a deposit credited to the pool.
	TypeLiquidityAdded = "pawn.liquidityAdded"
	// TypeLiquidityWithdrawn marks a deposit paid out with its accrued reward.
	TypeLiquidityWithdrawn = "pawn.liquidityWithdrawn"
	// TypeLoanRequested marks a new loan issued against pledged collateral.
	TypeLoanRequested = "pawn.loanRequested"
	// TypeLoanRepaid marks a loan settled in full.
	TypeLoanRepaid = "pawn.loanRepaid"
	// TypePlatformFeeWithdrawn marks a treasury sweep by the pool owner.
	TypePlatformFeeWithdrawn = "pawn.platformFeeWithdrawn"
)

// LiquidityAdded records the net principal and withheld fee of a new deposit.
type LiquidityAdded struct {
	Owner     common.Address
	DepositID uint64
	NetAmount *big.Int
	FeeAmount *big.Int
}

// EventType satisfies the events.Event interface.
func (LiquidityAdded) EventType() string { return TypeLiquidityAdded }

// Event converts the structured payload into a broadcastable event.
func (e LiquidityAdded) Event() *types.Event {
	attrs := map[string]string{
		"owner":     e.Owner.Hex(),
		"depositId": strconv.FormatUint(e.DepositID, 10),
	}
	putAmount(attrs, "netAmount", e.NetAmount)
	putAmount(attrs, "feeAmount", e.FeeAmount)
	return &types.Event{Type: TypeLiquidityAdded, Attributes: attrs}
}

// LiquidityWithdrawn records a deposit payout of principal plus reward.
type LiquidityWithdrawn struct {
	Owner     common.Address
	DepositID uint64
	Principal *big.Int
	Reward    *big.Int
}

// EventType satisfies the events.Event interface.
func (LiquidityWithdrawn) EventType() string { return TypeLiquidityWithdrawn }

// Event converts the structured payload into a broadcastable event.
func (e LiquidityWithdrawn) Event() *types.Event {
	attrs := map[string]string{
		"owner":     e.Owner.Hex(),
		"depositId": strconv.FormatUint(e.DepositID, 10),
	}
	putAmount(attrs, "principal", e.Principal)
	putAmount(attrs, "reward", e.Reward)
	return &types.Event{Type: TypeLiquidityWithdrawn, Attributes: attrs}
}

// LoanRequested records the issuance of a loan against collateral custody.
type LoanRequested struct {
	Borrower     common.Address
	LoanID       uint64
	CollateralID *big.Int
	Principal    *big.Int
	FeeAmount    *big.Int
	DueTimestamp int64
}

// EventType satisfies the events.Event interface.
func (LoanRequested) EventType() string { return TypeLoanRequested }

// Event converts the structured payload into a broadcastable event.
func (e LoanRequested) Event() *types.Event {
	attrs := map[string]string{
		"borrower": e.Borrower.Hex(),
		"loanId":   strconv.FormatUint(e.LoanID, 10),
		"due":      strconv.FormatInt(e.DueTimestamp, 10),
	}
	putAmount(attrs, "collateralId", e.CollateralID)
	putAmount(attrs, "principal", e.Principal)
	putAmount(attrs, "feeAmount", e.FeeAmount)
	return &types.Event{Type: TypeLoanRequested, Attributes: attrs}
}

// LoanRepaid records a full repayment and the platform fee it realised.
type LoanRepaid struct {
	LoanID    uint64
	FeeAmount *big.Int
}

// EventType satisfies the events.Event interface.
func (LoanRepaid) EventType() string { return TypeLoanRepaid }

// Event converts the structured payload into a broadcastable event.
func (e LoanRepaid) Event() *types.Event {
	attrs := map[string]string{
		"loanId": strconv.FormatUint(e.LoanID, 10),
	}
	putAmount(attrs, "feeAmount", e.FeeAmount)
	return &types.Event{Type: TypeLoanRepaid, Attributes: attrs}
}

// PlatformFeeWithdrawn records a treasury sweep.
type PlatformFeeWithdrawn struct {
	Owner  common.Address
	Amount *big.Int
}

// EventType satisfies the events.Event interface.
func (PlatformFeeWithdrawn) EventType() string { return TypePlatformFeeWithdrawn }

// Event converts the structured payload into a broadcastable event.
func (e PlatformFeeWithdrawn) Event() *types.Event {
	attrs := map[string]string{
		"owner": e.Owner.Hex(),
	}
	putAmount(attrs, "amount", e.Amount)
	return &types.Event{Type: TypePlatformFeeWithdrawn, Attributes: attrs}
}

func putAmount(attrs map[string]string, key string, amount *big.Int) {
	if amount == nil {
		attrs[key] = "0"
		return
	}
	attrs[key] = amount.String()
}
