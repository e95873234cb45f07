package pawn

const day = 24 * 60 * 60

// DurationRate pairs an allowed loan term with its interest rate.
type DurationRate struct {
	DurationSeconds int64
	RateBps         uint64
}

// durationTable is the canonical duration schedule. Lookups are exact-match;
// there is no interpolation between entries.
var durationTable = []DurationRate{
	{DurationSeconds: 30 * day, RateBps: 600},
	{DurationSeconds: 90 * day, RateBps: 900},
	{DurationSeconds: 180 * day, RateBps: 1200},
}

// AllDurations returns the allowed loan durations in seconds, in table order.
func AllDurations() []int64 {
	out := make([]int64, len(durationTable))
	for i, entry := range durationTable {
		out[i] = entry.DurationSeconds
	}
	return out
}

// InterestRate resolves the rate in basis points for the supplied duration.
func InterestRate(durationSeconds int64) (uint64, error) {
	for _, entry := range durationTable {
		if entry.DurationSeconds == durationSeconds {
			return entry.RateBps, nil
		}
	}
	return 0, ErrInvalidDuration
}
