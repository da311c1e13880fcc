package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	ScanCount         prometheus.Counter
	ScanFailures      prometheus.Counter
	MessagesProcessed prometheus.Counter
	MatchCount        prometheus.Counter
	CheckCount        prometheus.Counter
	ScanDuration      prometheus.Histogram
	FeedRefreshes     prometheus.Counter
}

// NewMetrics creates new Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		ScanCount: promauto.NewCounter(prometheus.CounterOpts{
			Name: "invoice_checker_scan_count",
			Help: "Total number of mailbox scans started",
		}),
		ScanFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "invoice_checker_scan_failures",
			Help: "Total number of mailbox scans that ended in an error",
		}),
		MessagesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "invoice_checker_messages_processed",
			Help: "Total number of mail messages processed across scans",
		}),
		MatchCount: promauto.NewCounter(prometheus.CounterOpts{
			Name: "invoice_checker_match_count",
			Help: "Total number of winning invoice numbers found",
		}),
		CheckCount: promauto.NewCounter(prometheus.CounterOpts{
			Name: "invoice_checker_check_count",
			Help: "Total number of manual invoice checks",
		}),
		ScanDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "invoice_checker_scan_duration_seconds",
			Help:    "Time spent scanning the mailbox",
			Buckets: prometheus.DefBuckets,
		}),
		FeedRefreshes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "invoice_checker_feed_refreshes",
			Help: "Total number of winning-numbers feed refreshes",
		}),
	}
}
