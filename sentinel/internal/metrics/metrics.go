package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// DefaultRegistry collects all of the sentinel's own metrics for exposition
// on the API server's /metrics endpoint.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(
		StatusesReceived,
		StatusMappingMisses,
		TriggersFired,
		DispatchFailures,
		RecordDuration,
	)
}

// StatusesReceived counts accepted status reports by canonical status.
var StatusesReceived = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "lwfm_sentinel_statuses_received_total",
		Help: "Status reports accepted, by canonical status.",
	},
	[]string{"status"},
)

// StatusMappingMisses counts native statuses with no entry in the emitting
// site's status map. These are recorded as UNKNOWN rather than rejected.
var StatusMappingMisses = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "lwfm_sentinel_status_mapping_misses_total",
		Help: "Native statuses with no canonical mapping, recorded as UNKNOWN.",
	},
)

// TriggersFired counts successful trigger dispatches by awaited status.
var TriggersFired = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "lwfm_sentinel_triggers_fired_total",
		Help: "Trigger dispatches that reached the target site, by awaited status.",
	},
	[]string{"status"},
)

// DispatchFailures counts trigger dispatches that failed, by target site.
var DispatchFailures = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "lwfm_sentinel_dispatch_failures_total",
		Help: "Trigger dispatches that failed, by target site.",
	},
	[]string{"site"},
)

// RecordDuration observes end-to-end processing time of a status report,
// trigger evaluation included.
var RecordDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "lwfm_sentinel_record_duration_seconds",
		Help:    "End-to-end processing time of a status report.",
		Buckets: prometheus.DefBuckets,
	},
)

// WritePrometheus writes everything in DefaultRegistry to w in the Prometheus
// text exposition format.
func WritePrometheus(w io.Writer) error {
	metrics, err := DefaultRegistry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range metrics {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
