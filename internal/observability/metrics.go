// Package observability registers the journal Prometheus metrics.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	parserClausesCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "workoutlog",
		Subsystem: "parser",
		Name:      "clauses_total",
		Help:      "Number of comma-delimited clauses seen by the parser.",
	})
	parserEntriesCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "workoutlog",
		Subsystem: "parser",
		Name:      "entries_total",
		Help:      "Number of entries produced by the parser.",
	})
	parserEmptyCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "workoutlog",
		Subsystem: "parser",
		Name:      "empty_results_total",
		Help:      "Number of inputs that produced no entries at all.",
	})

	journalSizeGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "workoutlog",
		Subsystem: "journal",
		Name:      "entries",
		Help:      "Number of entries currently held in the journal.",
	})
	lastEntryGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "workoutlog",
		Subsystem: "journal",
		Name:      "last_entry_logged_timestamp_seconds",
		Help:      "Unix timestamp of the most recently logged entry.",
	})
	editCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "workoutlog",
		Subsystem: "journal",
		Name:      "edits_total",
		Help:      "Manual edits grouped by result.",
	}, []string{"result"})

	publishErrorCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "workoutlog",
		Subsystem: "publisher",
		Name:      "errors_total",
		Help:      "Number of change batches that could not be published.",
	})
)

func init() {
	prometheus.MustRegister(
		parserClausesCounter,
		parserEntriesCounter,
		parserEmptyCounter,
		journalSizeGauge,
		lastEntryGauge,
		editCounter,
		publishErrorCounter,
	)
}

// RecordParse counts clauses and entries for one parsed input.
func RecordParse(clauses, entries int) {
	parserClausesCounter.Add(float64(clauses))
	parserEntriesCounter.Add(float64(entries))
	if entries == 0 {
		parserEmptyCounter.Inc()
	}
}

// RecordJournalSize sets the journal size gauge.
func RecordJournalSize(n int) {
	journalSizeGauge.Set(float64(n))
}

// RecordEntryLogged updates the last-logged watermark.
func RecordEntryLogged(ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastEntryGauge.Set(float64(ts.Unix()))
}

// RecordEdit counts a manual edit outcome.
func RecordEdit(result string) {
	editCounter.WithLabelValues(result).Inc()
}

// RecordPublishError counts a failed publish.
func RecordPublishError() {
	publishErrorCounter.Inc()
}
