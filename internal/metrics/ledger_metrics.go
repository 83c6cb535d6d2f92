// Package metrics defines ledger-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	BetsRecordedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bets_recorded_total",
		Help:      "Total number of bets recorded in the ledger, by bet type",
	}, []string{"bet_type"})

	BetsSettledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bets_settled_total",
		Help:      "Total number of bets settled, by outcome",
	}, []string{"outcome"})
)

var (
	LedgerROIPercent = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ledger_roi_percent",
		Help:      "Return on investment across the whole ledger in percent",
	})
	LedgerHitRatePercent = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ledger_hit_rate_percent",
		Help:      "Share of settled bets with a positive payout in percent",
	})
	LedgerPendingBets = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ledger_pending_bets",
		Help:      "Number of bets awaiting settlement",
	})
)

// RecordBetRecorded records a bet entering the ledger.
func RecordBetRecorded(betType string) {
	BetsRecordedTotal.WithLabelValues(betType).Inc()
}

// RecordBetSettled records a bet settlement.
func RecordBetSettled(outcome string) {
	BetsSettledTotal.WithLabelValues(outcome).Inc()
}

// UpdateLedgerStatistics refreshes the ledger gauges.
func UpdateLedgerStatistics(roiPercent, hitRatePercent float64, pending int) {
	LedgerROIPercent.Set(roiPercent)
	LedgerHitRatePercent.Set(hitRatePercent)
	LedgerPendingBets.Set(float64(pending))
}
