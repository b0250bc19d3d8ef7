package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	StageDecisionsTotal *prometheus.CounterVec
	DisbursementsTotal  *prometheus.CounterVec
	PaymentsTotal       *prometheus.CounterVec
	AuthCodesTotal      *prometheus.CounterVec
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lending_engine_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		StageDecisionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lending_engine_stage_decisions_total",
				Help: "Total number of approval-stage decisions recorded, by stage and outcome.",
			},
			[]string{"stage", "decision"},
		),
		DisbursementsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lending_engine_disbursements_total",
				Help: "Total number of disbursement attempts, by result.",
			},
			[]string{"status"},
		),
		PaymentsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lending_engine_payments_total",
				Help: "Total number of recorded loan payments, by status.",
			},
			[]string{"status"},
		),
		AuthCodesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lending_engine_authorization_codes_total",
				Help: "Total number of authorization-code operations, by operation and result.",
			},
			[]string{"operation", "status"},
		),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordStageDecision(stage, decision string) {
	Business.StageDecisionsTotal.WithLabelValues(stage, decision).Inc()
}

func RecordDisbursement(status string) {
	Business.DisbursementsTotal.WithLabelValues(status).Inc()
}

func RecordPayment(status string) {
	Business.PaymentsTotal.WithLabelValues(status).Inc()
}

func RecordAuthCode(operation, status string) {
	Business.AuthCodesTotal.WithLabelValues(operation, status).Inc()
}
