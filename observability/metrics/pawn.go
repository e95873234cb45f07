package metrics

import (
	"math/big"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PawnMetrics exposes counters and gauges describing pool ledger activity.
type PawnMetrics struct {
	opsApplied     *prometheus.CounterVec
	opsRejected    *prometheus.CounterVec
	totalLiquidity prometheus.Gauge
	totalBorrowed  prometheus.Gauge
	platformFees   prometheus.Gauge
}

var (
	pawnOnce     sync.Once
	pawnRegistry *PawnMetrics
)

// Pawn returns the process-wide pool metrics registry.
func Pawn() *PawnMetrics {
	pawnOnce.Do(func() {
		pawnRegistry = &PawnMetrics{
			opsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "pawn_operations_applied_total",
				Help: "Count of committed ledger operations by type.",
			}, []string{"op"}),
			opsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "pawn_operations_rejected_total",
				Help: "Count of rejected ledger operations by type.",
			}, []string{"op"}),
			totalLiquidity: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "pawn_total_liquidity",
				Help: "Aggregate non-withdrawn deposit principal in smallest units.",
			}),
			totalBorrowed: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "pawn_total_borrowed",
				Help: "Outstanding loan principal in smallest units.",
			}),
			platformFees: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "pawn_platform_fees",
				Help: "Unswept platform fee balance in smallest units.",
			}),
		}
		prometheus.MustRegister(
			pawnRegistry.opsApplied,
			pawnRegistry.opsRejected,
			pawnRegistry.totalLiquidity,
			pawnRegistry.totalBorrowed,
			pawnRegistry.platformFees,
		)
	})
	return pawnRegistry
}

// ObserveApplied records a committed operation.
func (m *PawnMetrics) ObserveApplied(op string) {
	if m == nil {
		return
	}
	if op == "" {
		op = "unknown"
	}
	m.opsApplied.WithLabelValues(op).Inc()
}

// ObserveRejected records a rejected operation.
func (m *PawnMetrics) ObserveRejected(op string) {
	if m == nil {
		return
	}
	if op == "" {
		op = "unknown"
	}
	m.opsRejected.WithLabelValues(op).Inc()
}

// SetAggregates refreshes the pool-level gauges. Values beyond float64
// precision degrade gracefully; the ledger remains the source of truth.
func (m *PawnMetrics) SetAggregates(totalLiquidity, totalBorrowed, platformFees *big.Int) {
	if m == nil {
		return
	}
	m.totalLiquidity.Set(bigToFloat(totalLiquidity))
	m.totalBorrowed.Set(bigToFloat(totalBorrowed))
	m.platformFees.Set(bigToFloat(platformFees))
}

func bigToFloat(v *big.Int) float64 {
	if v == nil {
		return 0
	}
	f, _ := new(big.Float).SetInt(v).Float64()
	return f
}
