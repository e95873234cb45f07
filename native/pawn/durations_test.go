package pawn

import (
	"errors"
	"testing"
)

func TestAllDurations(t *testing.T) {
	got := AllDurations()
	want := []int64{30 * day, 90 * day, 180 * day}
	if len(got) != len(want) {
		t.Fatalf("durations length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("duration[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestInterestRateLookup(t *testing.T) {
	cases := map[int64]uint64{
		30 * day:  600,
		90 * day:  900,
		180 * day: 1200,
	}
	for duration, want := range cases {
		got, err := InterestRate(duration)
		if err != nil {
			t.Fatalf("InterestRate(%d): %v", duration, err)
		}
		if got != want {
			t.Fatalf("InterestRate(%d) = %d, want %d", duration, got, want)
		}
	}
}

func TestInterestRateRejectsUnknownDuration(t *testing.T) {
	for _, duration := range []int64{0, 1, 29 * day, 31 * day, 60 * day, 365 * day} {
		if _, err := InterestRate(duration); !errors.Is(err, ErrInvalidDuration) {
			t.Fatalf("InterestRate(%d) err = %v, want ErrInvalidDuration", duration, err)
		}
	}
}
