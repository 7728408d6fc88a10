// Package metrics provides Prometheus metrics for the blog API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by route and status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blog",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration measures request handling time.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "blog",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// LikeTogglesTotal counts like toggles by target kind and resulting action.
	LikeTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blog",
			Name:      "like_toggles_total",
			Help:      "Total number of like toggles",
		},
		[]string{"kind", "action"},
	)

	// ArticleViewsTotal counts successful view increments.
	ArticleViewsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "blog",
			Name:      "article_views_total",
			Help:      "Total number of recorded article views",
		},
	)

	// CommentsCreatedTotal counts stored comments by approval state.
	CommentsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blog",
			Name:      "comments_created_total",
			Help:      "Total number of comments created",
		},
		[]string{"approved"},
	)

	// ErrorsTotal counts store errors by operation.
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blog",
			Name:      "errors_total",
			Help:      "Total number of store errors",
		},
		[]string{"operation"},
	)
)

// RecordRequest records a handled HTTP request.
func RecordRequest(method, route, status string, duration float64) {
	RequestsTotal.WithLabelValues(method, route, status).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(duration)
}

// RecordLikeToggle records a like toggle.
func RecordLikeToggle(kind, action string) {
	LikeTogglesTotal.WithLabelValues(kind, action).Inc()
}

// RecordView records an article view increment.
func RecordView() {
	ArticleViewsTotal.Inc()
}

// RecordComment records a stored comment.
func RecordComment(approved bool) {
	label := "false"
	if approved {
		label = "true"
	}
	CommentsCreatedTotal.WithLabelValues(label).Inc()
}

// RecordError records a store error.
func RecordError(operation string) {
	ErrorsTotal.WithLabelValues(operation).Inc()
}
