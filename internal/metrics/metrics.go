package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Decode error reasons.
const (
	ReasonMissingField = "missing_field"
	ReasonDateTime     = "datetime"
	ReasonPayload      = "payload"
	ReasonMalformed    = "malformed"
)

var (
	EventsDecoded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "userstream_events_decoded_total",
		Help: "Total number of event messages decoded, labelled by class (container, label, custom).",
	}, []string{"class"})

	DecodeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "userstream_decode_errors_total",
		Help: "Total number of event messages that failed to decode, labelled by reason.",
	}, []string{"reason"})

	RecordsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "userstream_records_published_total",
		Help: "Total number of records published to JetStream, labelled by class.",
	}, []string{"class"})

	PublishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "userstream_publish_errors_total",
		Help: "Total number of records that failed to publish.",
	})

	PublishDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "userstream_publish_duration_ms",
		Help:    "JetStream publish latency in milliseconds.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 1000},
	})
)
