package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"pawnpool/native/pawn"
	"pawnpool/observability/metrics"
)

// Command operation names as they appear in the journal.
const (
	opAddLiquidity         = "addLiquidity"
	opWithdrawLiquidity    = "withdrawLiquidity"
	opRequestLoan          = "requestLoan"
	opRepayLoan            = "repayLoan"
	opWithdrawPlatformFees = "withdrawPlatformFees"
	opSetLTV               = "setLTV"
	opSetAPR               = "setAPR"
)

// Command is one journal entry: a mirrored pool transaction with the block
// timestamp it executed under. Every entry carries a unique id so replays
// and resumed runs stay idempotent.
type Command struct {
	ID        uuid.UUID `json:"id"`
	Op        string    `json:"op"`
	Timestamp int64     `json:"timestamp"`

	Caller          string `json:"caller,omitempty"`
	Amount          string `json:"amount,omitempty"`
	DepositID       uint64 `json:"depositId,omitempty"`
	LoanID          uint64 `json:"loanId,omitempty"`
	CollateralID    string `json:"collateralId,omitempty"`
	CollateralValue string `json:"collateralValue,omitempty"`
	Duration        int64  `json:"duration,omitempty"`
	Value           uint64 `json:"value,omitempty"`
}

// Replayer applies journal commands to a ledger engine, skipping duplicates.
type Replayer struct {
	engine  *pawn.Engine
	applied map[uuid.UUID]bool
	metrics *metrics.PawnMetrics
}

// NewReplayer wraps an engine for journal replay.
func NewReplayer(engine *pawn.Engine) *Replayer {
	return &Replayer{engine: engine, applied: make(map[uuid.UUID]bool)}
}

// Replay reads JSONL commands from r and applies them in order. It returns
// the counts of applied and skipped commands; a malformed line aborts the
// replay so a corrupted journal never half-applies.
func (rp *Replayer) Replay(r io.Reader) (applied, skipped int, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var cmd Command
		if err := json.Unmarshal([]byte(raw), &cmd); err != nil {
			return applied, skipped, fmt.Errorf("journal line %d: %w", line, err)
		}
		if rp.applied[cmd.ID] {
			skipped++
			continue
		}
		if err := rp.Apply(cmd); err != nil {
			rp.metrics.ObserveRejected(cmd.Op)
			return applied, skipped, fmt.Errorf("journal line %d (%s): %w", line, cmd.Op, err)
		}
		rp.metrics.ObserveApplied(cmd.Op)
		rp.applied[cmd.ID] = true
		applied++
	}
	if err := scanner.Err(); err != nil {
		return applied, skipped, err
	}
	return applied, skipped, nil
}

// Apply dispatches one command into the engine.
func (rp *Replayer) Apply(cmd Command) error {
	caller, err := parseAddress(cmd.Caller)
	if err != nil {
		return err
	}
	switch cmd.Op {
	case opAddLiquidity:
		amount, err := parseAmount(cmd.Amount)
		if err != nil {
			return err
		}
		_, err = rp.engine.AddLiquidity(caller, amount, cmd.Timestamp)
		return err
	case opWithdrawLiquidity:
		_, _, err := rp.engine.WithdrawLiquidity(caller, cmd.DepositID, cmd.Timestamp)
		return err
	case opRequestLoan:
		collateralID, err := parseAmount(cmd.CollateralID)
		if err != nil {
			return err
		}
		collateralValue, err := parseAmount(cmd.CollateralValue)
		if err != nil {
			return err
		}
		_, err = rp.engine.RequestLoan(caller, collateralID, collateralValue, cmd.Duration, cmd.Timestamp)
		return err
	case opRepayLoan:
		_, err := rp.engine.RepayLoan(caller, cmd.LoanID, cmd.Timestamp)
		return err
	case opWithdrawPlatformFees:
		_, err := rp.engine.WithdrawPlatformFees(caller)
		return err
	case opSetLTV:
		return rp.engine.SetLTV(caller, cmd.Value)
	case opSetAPR:
		return rp.engine.SetAPR(caller, cmd.Value)
	default:
		return fmt.Errorf("unknown op %q", cmd.Op)
	}
}

func parseAddress(raw string) (common.Address, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return common.Address{}, fmt.Errorf("missing caller address")
	}
	if !common.IsHexAddress(trimmed) {
		return common.Address{}, fmt.Errorf("invalid address %q", raw)
	}
	return common.HexToAddress(trimmed), nil
}

func parseAmount(raw string) (*big.Int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("missing amount")
	}
	amount, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", raw)
	}
	return amount, nil
}
