package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EvaluationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "evaluator_evaluation_duration_seconds",
			Help:    "Evaluation round-trip duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"model"},
	)

	EvaluationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluator_evaluation_total",
			Help: "Total number of evaluations performed",
		},
		[]string{"model", "status"},
	)

	BatchLines = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "evaluator_batch_lines",
			Help:    "Number of non-blank lines per batch run",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		},
	)

	RatingExtracted = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "evaluator_rating",
			Help:    "Ratings extracted from model feedback",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		},
	)

	RatingParseFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "evaluator_rating_parse_failures_total",
			Help: "Feedback texts without a parsable rating",
		},
	)

	CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "evaluator_cache_hits_total",
			Help: "Feedback cache hits",
		},
	)

	CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "evaluator_cache_misses_total",
			Help: "Feedback cache misses",
		},
	)

	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "evaluator_sessions_active",
			Help: "Live sessions held in memory",
		},
	)

	HistoryRecords = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "evaluator_history_records_total",
			Help: "Total history records appended",
		},
	)
)

func Init() {
	prometheus.MustRegister(EvaluationDuration)
	prometheus.MustRegister(EvaluationTotal)
	prometheus.MustRegister(BatchLines)
	prometheus.MustRegister(RatingExtracted)
	prometheus.MustRegister(RatingParseFailures)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
	prometheus.MustRegister(SessionsActive)
	prometheus.MustRegister(HistoryRecords)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
