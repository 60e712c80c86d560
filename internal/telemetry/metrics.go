package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Registry = prometheus.NewRegistry()

	MessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "broadcast",
			Name:      "messages_total",
			Help:      "Envelopes read or written, by direction and body type.",
		},
		[]string{"direction", "type"},
	)

	DispatchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "broadcast",
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent handling one inbound envelope, including its output.",
			// 10µs .. ~160ms
			Buckets: prometheus.ExponentialBuckets(0.00001, 2, 15),
		},
		[]string{"type"},
	)

	ProtocolErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "broadcast",
			Name:      "protocol_errors_total",
			Help:      "Error bodies sent back to peers, by error code.",
		},
		[]string{"code"},
	)

	GossipSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "broadcast",
			Name:      "gossip_sent_total",
			Help:      "Gossip envelopes sent to neighbours.",
		},
	)

	GossipPruned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "broadcast",
			Name:      "gossip_pruned_total",
			Help:      "Neighbours skipped because the wave had already informed them.",
		},
	)

	ValuesKnown = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "broadcast",
			Name:      "values_known",
			Help:      "Number of distinct values in the local store.",
		},
	)

	// ---- Process / build info ----
	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "broadcast",
			Name:      "build_info",
			Help:      "Build info (constant 1, labeled by version and git_sha).",
		},
		[]string{"version", "git_sha"},
	)

	startTime = time.Now()
	uptime    = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "broadcast",
			Name:      "uptime_seconds",
			Help:      "Process uptime in seconds.",
		},
		func() float64 { return time.Since(startTime).Seconds() },
	)
)

func init() {
	Registry.MustRegister(
		MessagesTotal, DispatchDuration, ProtocolErrors,
		GossipSent, GossipPruned, ValuesKnown,
		buildInfo, uptime,
	)
}

// MetricsHandler exposes /metrics. Mount it with mux.Handle("/metrics", telemetry.MetricsHandler()).
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// SetBuildInfo should be called once at startup, e.g. with ldflags-provided values.
func SetBuildInfo(version, gitSHA string) {
	buildInfo.WithLabelValues(version, gitSHA).Set(1)
}

// NewServer returns an HTTP server exposing /metrics and /healthz on addr.
func NewServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
}
