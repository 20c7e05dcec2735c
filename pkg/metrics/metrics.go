package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// PagesFetched counts page fetch attempts by outcome:
	// ok, retry, last_page, error.
	PagesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_pages_fetched_total",
			Help: "Total number of results page fetches.",
		},
		[]string{"outcome"},
	)

	ListingsExtracted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scraper_listings_extracted_total",
			Help: "Total number of raw listings accepted from results pages.",
		},
	)

	ReportRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scraper_report_rows",
			Help: "Number of rows in the most recent report.",
		},
	)

	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scraper_runs_total",
			Help: "Total number of scrape runs by result level.",
		},
		[]string{"level"},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scraper_run_duration_seconds",
			Help:    "Duration of complete scrape runs.",
			Buckets: []float64{30, 60, 120, 300, 600, 1200, 2400},
		},
	)
)
