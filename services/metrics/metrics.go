package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_http_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	ShoppingListDownloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_shopping_list_downloads_total",
			Help: "Total number of shopping list downloads",
		},
		[]string{"format"},
	)

	ShoppingListLines = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "foodgram_shopping_list_lines",
			Help:    "Number of consolidated lines per downloaded shopping list",
			Buckets: []float64{0, 5, 10, 20, 50, 100, 200},
		},
	)

	CatalogImportRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_catalog_import_rows_total",
			Help: "Catalog import rows by kind and result",
		},
		[]string{"kind", "result"}, // result: created, duplicate, skipped
	)

	QueueJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_queue_jobs_total",
			Help: "Queue jobs consumed by queue and outcome",
		},
		[]string{"queue", "outcome"},
	)
)

// Middleware records request latency labelled with the matched route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
