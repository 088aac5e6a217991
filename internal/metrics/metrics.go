// Package metrics records reduction runs as Prometheus metrics. Runs are
// batch jobs, so the metrics are written once to a node_exporter textfile
// instead of being scraped.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tphakala/go-keyframe-reducer/internal/engine"
)

const namespace = "keyreduce"

// Channel status label values.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Recorder collects per-channel reduction metrics on its own registry.
// It is safe for concurrent use.
type Recorder struct {
	registry  *prometheus.Registry
	channels  *prometheus.CounterVec
	samples   prometheus.Counter
	keyframes prometheus.Counter
	corrupt   prometheus.Counter
	duration  prometheus.Histogram
}

// NewRecorder creates a Recorder with all metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		channels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "channels_total",
			Help:      "Channels reduced, by outcome.",
		}, []string{"status"}),
		samples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Samples consumed by all reducers.",
		}),
		keyframes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "keyframes_total",
			Help:      "Keyframes emitted by all reducers.",
		}),
		corrupt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "corrupt_segments_total",
			Help:      "Keyframes rejected because they did not follow the previous one.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "channel_duration_seconds",
			Help:      "Wall time spent reducing one channel.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
	}

	r.registry.MustRegister(r.channels, r.samples, r.keyframes, r.corrupt, r.duration)

	// Pre-create both label values so they show up as zero.
	r.channels.WithLabelValues(StatusOK)
	r.channels.WithLabelValues(StatusFailed)
	return r
}

// ObserveChannel records one finished channel.
func (r *Recorder) ObserveChannel(_ string, stats engine.Stats, elapsed time.Duration, err error) {
	status := StatusOK
	if err != nil {
		status = StatusFailed
	}
	r.channels.WithLabelValues(status).Inc()
	r.samples.Add(float64(stats.Samples))
	r.keyframes.Add(float64(stats.Keyframes))
	r.corrupt.Add(float64(stats.CorruptSegments))
	r.duration.Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry, e.g. for an HTTP handler.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile atomically writes all metrics to path in the text
// exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
