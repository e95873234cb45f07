package pawn

import "errors"

var (
	// ErrNilState signals an engine used before its ledger was configured.
	ErrNilState = errors.New("pawn engine: state not configured")
	// ErrInvalidDuration signals a loan term outside the duration table.
	ErrInvalidDuration = errors.New("pawn engine: duration not offered")
	// ErrInvalidAmount signals a zero or negative amount.
	ErrInvalidAmount = errors.New("pawn engine: amount must be positive")
	// ErrInsufficientLiquidity signals a loan exceeding the available pool
	// balance.
	ErrInsufficientLiquidity = errors.New("pawn engine: insufficient liquidity")
	// ErrInsufficientPoolBalance signals a withdrawal payout exceeding pool
	// holdings. The deposit stays withdrawable on retry.
	ErrInsufficientPoolBalance = errors.New("pawn engine: insufficient pool balance")
	// ErrAlreadyWithdrawn signals re-entry into a terminal deposit state.
	ErrAlreadyWithdrawn = errors.New("pawn engine: deposit already withdrawn")
	// ErrAlreadyRepaid signals re-entry into a terminal loan state.
	ErrAlreadyRepaid = errors.New("pawn engine: loan already repaid")
	// ErrNotOwner signals a caller without authority over the target record.
	ErrNotOwner = errors.New("pawn engine: caller is not owner")
	// ErrUnknownDeposit signals a deposit id with no ledger record.
	ErrUnknownDeposit = errors.New("pawn engine: unknown deposit")
	// ErrUnknownLoan signals a loan id with no ledger record.
	ErrUnknownLoan = errors.New("pawn engine: unknown loan")
	// ErrCollateralEncumbered signals collateral already pledged to an open
	// loan.
	ErrCollateralEncumbered = errors.New("pawn engine: collateral already pledged")
	// ErrTransferFailed wraps an external asset or custody capability
	// failure. The triggering operation leaves no side effects.
	ErrTransferFailed = errors.New("pawn engine: transfer failed")
)
