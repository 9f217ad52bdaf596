package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Tracking Metrics
var (
	CapturesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCapturesTotal,
			Help: HelpTextCapturesTotal,
		},
		[]string{LabelResult},
	)

	OCRDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameOCRDuration,
			Help:    HelpTextOCRDuration,
			Buckets: OCRLatencyBuckets,
		},
	)

	SamplesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSamplesTotal,
			Help: HelpTextSamplesTotal,
		},
		[]string{LabelOutcome},
	)

	ExpGained = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameExpGained,
			Help: HelpTextExpGained,
		},
	)

	ExpPerMinute = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameExpPerMinute,
			Help: HelpTextExpPerMinute,
		},
	)

	TrackingActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameTrackingActive,
			Help: HelpTextTrackingActive,
		},
	)

	DetectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDetectionsTotal,
			Help: HelpTextDetectionsTotal,
		},
		[]string{LabelResult},
	)
)
