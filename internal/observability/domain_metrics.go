package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	translationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deptquery_translations_total",
			Help: "Total number of natural-language to SQL translations by outcome.",
		},
		[]string{"outcome"},
	)
	translationDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "deptquery_translation_duration_seconds",
			Help:    "Model translation latency in seconds.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		},
	)
	queriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deptquery_queries_total",
			Help: "Total number of SQL query executions by outcome.",
		},
		[]string{"outcome"},
	)
	queryDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "deptquery_query_duration_seconds",
			Help:    "SQL query execution latency in seconds.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)
	queryRowsReturned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "deptquery_query_rows_returned",
			Help:    "Row counts returned by executed queries.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 200},
		},
	)
	rejectedSQLTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "deptquery_rejected_sql_total",
			Help: "Total number of generated statements rejected by the SQL sanitizer.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		translationsTotal,
		translationDurationSeconds,
		queriesTotal,
		queryDurationSeconds,
		queryRowsReturned,
		rejectedSQLTotal,
	)
}

func ObserveTranslation(outcome string, elapsed time.Duration) {
	translationsTotal.WithLabelValues(outcome).Inc()
	translationDurationSeconds.Observe(elapsed.Seconds())
}

func ObserveQuery(outcome string, rows int, elapsed time.Duration) {
	queriesTotal.WithLabelValues(outcome).Inc()
	queryDurationSeconds.Observe(elapsed.Seconds())
	if outcome == "ok" {
		queryRowsReturned.Observe(float64(rows))
	}
}

func IncrementRejectedSQL() {
	rejectedSQLTotal.Inc()
}
