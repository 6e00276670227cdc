package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	EmailsProcessed     prometheus.Counter
	EmailsSkipped       prometheus.Counter
	ReservationsParsed  *prometheus.CounterVec
	ReconcileOutcomes   *prometheus.CounterVec
	RowsAppended        prometheus.Counter
	NotificationsSent   prometheus.Counter
	ProcessingTime      prometheus.Histogram
	ErrorsCount         *prometheus.CounterVec
	DailySummaryEntries prometheus.Counter
}

// NewMetrics registers the service metrics on reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		EmailsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_processed_total",
			Help:      "The total number of processed emails",
		}),
		EmailsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_skipped_total",
			Help:      "The total number of emails no handler accepted",
		}),
		ReservationsParsed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_parsed_total",
			Help:      "The total number of parsed reservation notifications",
		}, []string{"kind"}),
		ReconcileOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calendar_reconcile_total",
			Help:      "Calendar reconcile results by event kind and outcome",
		}, []string{"kind", "outcome"}),
		RowsAppended: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "log_rows_appended_total",
			Help:      "The total number of rows appended to the reservation log",
		}),
		NotificationsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_sent_total",
			Help:      "The total number of notifications sent to Slack",
		}),
		ProcessingTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "email_processing_time_seconds",
			Help:      "Time taken to process emails",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
		DailySummaryEntries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "daily_summary_entries_total",
			Help:      "The total number of daily summary rows recorded",
		}),
	}
}
