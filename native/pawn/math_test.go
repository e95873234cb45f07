package pawn

import (
	"math/big"
	"testing"
)

func TestBpsShareFloors(t *testing.T) {
	cases := []struct {
		amount int64
		bps    uint64
		want   int64
	}{
		{amount: 100_000_000, bps: 25, want: 250_000},
		{amount: 10_000, bps: 25, want: 25},
		{amount: 9_999, bps: 25, want: 24},
		{amount: 1, bps: 25, want: 0},
		{amount: 70_000_000, bps: 600, want: 4_200_000},
		{amount: 0, bps: 600, want: 0},
		{amount: 100, bps: 0, want: 0},
	}
	for _, tc := range cases {
		got := bpsShare(big.NewInt(tc.amount), tc.bps)
		if got.Int64() != tc.want {
			t.Fatalf("bpsShare(%d, %d) = %d, want %d", tc.amount, tc.bps, got.Int64(), tc.want)
		}
	}
}

func TestPercentShareFloors(t *testing.T) {
	cases := []struct {
		amount int64
		pct    uint64
		want   int64
	}{
		{amount: 100, pct: 70, want: 70},
		{amount: 99, pct: 70, want: 69},
		{amount: 1, pct: 70, want: 0},
		{amount: 100_000_000, pct: 70, want: 70_000_000},
	}
	for _, tc := range cases {
		got := percentShare(big.NewInt(tc.amount), tc.pct)
		if got.Int64() != tc.want {
			t.Fatalf("percentShare(%d, %d) = %d, want %d", tc.amount, tc.pct, got.Int64(), tc.want)
		}
	}
}

func TestLinearRewardFullYear(t *testing.T) {
	// 5000 units at 12% APR over exactly one year accrues 600 units.
	got := linearReward(big.NewInt(5000), 1200, secondsPerYear)
	if got.Int64() != 600 {
		t.Fatalf("full-year reward = %d, want 600", got.Int64())
	}
}

func TestLinearRewardZeroElapsed(t *testing.T) {
	if got := linearReward(big.NewInt(5000), 1200, 0); got.Sign() != 0 {
		t.Fatalf("zero-elapsed reward = %d, want 0", got.Int64())
	}
	if got := linearReward(big.NewInt(5000), 1200, -60); got.Sign() != 0 {
		t.Fatalf("negative-elapsed reward = %d, want 0", got.Int64())
	}
}

func TestLinearRewardTruncates(t *testing.T) {
	// One day on 100 units at 12%: 100*1200*86400 / (10000*31536000)
	// = 10368000000 / 315360000000, which truncates to 0.
	if got := linearReward(big.NewInt(100), 1200, day); got.Sign() != 0 {
		t.Fatalf("sub-unit reward = %d, want 0", got.Int64())
	}
	// The same position in smallest units keeps the dust away from the
	// depositor: floor gives 32876 (0.032876 units), never 32877.
	got := linearReward(pusd(100), 1200, day)
	if got.Int64() != 32_876 {
		t.Fatalf("one-day reward = %d, want 32876", got.Int64())
	}
}
