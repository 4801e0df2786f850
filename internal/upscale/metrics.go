package upscale

import "github.com/prometheus/client_golang/prometheus"

var (
	backendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "upscaled",
			Subsystem: "backend",
			Name:      "duration_seconds",
			Help:      "Duration of backend upscale calls in seconds",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"backend", "outcome"},
	)

	inputBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "upscaled",
			Subsystem: "backend",
			Name:      "input_bytes",
			Help:      "Size of uploaded images in bytes",
			Buckets:   prometheus.ExponentialBuckets(16<<10, 4, 8),
		},
	)

	admissionRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "upscaled",
			Subsystem: "admission",
			Name:      "rejections_total",
			Help:      "Requests rejected by admission control (429)",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(backendDuration, inputBytes, admissionRejections)
}
