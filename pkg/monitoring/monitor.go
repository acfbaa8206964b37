package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 15, 30},
		},
		[]string{"method", "endpoint"},
	)

	// 业务指标
	EvaluationsParsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interview_evaluations_parsed_total",
			Help: "Evaluations parsed, by whether any metric score was found",
		},
		[]string{"found"},
	)

	TargetsInitialized = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interview_targets_initialized_total",
			Help: "Performance targets created, by resolved level",
		},
		[]string{"level"},
	)

	ReadinessVerdicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interview_readiness_verdicts_total",
			Help: "Progress comparisons, by readiness verdict",
		},
		[]string{"ready"},
	)

	CodeExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interview_code_executions_total",
			Help: "Code runner invocations, by language and outcome",
		},
		[]string{"language", "outcome"},
	)

	QuestionsGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "interview_questions_generated_total",
			Help: "Questions generated by the completion oracle",
		},
	)

	registerOnce sync.Once
)

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			EvaluationsParsed,
			TargetsInitialized,
			ReadinessVerdicts,
			CodeExecutions,
			QuestionsGenerated,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
