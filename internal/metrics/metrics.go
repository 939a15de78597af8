package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const namespace = "crudboard"

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	BoardCreatedTotal prometheus.Counter
	BoardDeletedTotal prometheus.Counter
	BoardViewsTotal   prometheus.Counter
	BoardSearchTotal  *prometheus.CounterVec

	logger *zap.Logger
}

// New registers all metrics with the default registry.
func New(logger *zap.Logger) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, logger)
}

func NewWithRegistry(registerer prometheus.Registerer, logger *zap.Logger) *Metrics {
	factory := promauto.With(registerer)

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "endpoint"},
		),
		BoardCreatedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "board_created_total",
				Help:      "Total number of boards created",
			},
		),
		BoardDeletedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "board_deleted_total",
				Help:      "Total number of boards deleted",
			},
		),
		BoardViewsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "board_views_total",
				Help:      "Total number of recorded board views",
			},
		),
		BoardSearchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "board_search_total",
				Help:      "Total number of board searches by search type",
			},
			[]string{"type"},
		),
		logger: logger,
	}
}

// All recording methods are safe to call on a nil *Metrics.

func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.safeExecute("RecordHTTPRequest", func() {
		m.HTTPRequestsTotal.WithLabelValues(method, endpoint, categorizeStatus(statusCode)).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	})
}

func (m *Metrics) IncrementBoardCreated() {
	if m == nil {
		return
	}
	m.safeExecute("IncrementBoardCreated", func() { m.BoardCreatedTotal.Inc() })
}

func (m *Metrics) IncrementBoardDeleted() {
	if m == nil {
		return
	}
	m.safeExecute("IncrementBoardDeleted", func() { m.BoardDeletedTotal.Inc() })
}

func (m *Metrics) IncrementBoardViews() {
	if m == nil {
		return
	}
	m.safeExecute("IncrementBoardViews", func() { m.BoardViewsTotal.Inc() })
}

func (m *Metrics) IncrementBoardSearch(searchType string) {
	if m == nil {
		return
	}
	m.safeExecute("IncrementBoardSearch", func() { m.BoardSearchTotal.WithLabelValues(searchType).Inc() })
}

func (m *Metrics) safeExecute(operation string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("Panic in metrics operation",
				zap.String("operation", operation),
				zap.Any("panic", r),
			)
		}
	}()
	fn()
}

func categorizeStatus(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}

// ShouldSkipEndpoint reports paths excluded from HTTP metrics.
func ShouldSkipEndpoint(path string) bool {
	return path == "/metrics" || path == "/api/health"
}
