// Package metrics exposes Prometheus collectors for the monitor.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Poll cycle metrics
	PollCyclesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "amio_poll_cycles_total",
		Help: "Total number of completed poll cycles",
	})
	CycleDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "amio_cycle_duration_seconds",
		Help:    "Duration of poll cycles in seconds",
		Buckets: prometheus.DefBuckets,
	})
	FetchErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "amio_fetch_errors_total",
		Help: "Total number of failed feed fetches",
	})
	ParseErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "amio_parse_errors_total",
		Help: "Total number of malformed feed payloads",
	})

	// Reading metrics
	ReadingsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "amio_readings_total",
		Help: "Total number of valid readings applied",
	})
	ReadingsDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "amio_readings_dropped_total",
		Help: "Total number of feed entries dropped as invalid",
	})

	// Transition metrics
	TransitionsOnTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "amio_transitions_on_total",
		Help: "Total number of lights observed turning on",
	})
	TransitionsOffTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "amio_transitions_off_total",
		Help: "Total number of lights observed turning off",
	})

	// Alert metrics
	AlertsDeliveredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "amio_alerts_delivered_total",
		Help: "Total number of grouped alerts delivered",
	})
	AlertsSuppressedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "amio_alerts_suppressed_total",
		Help: "Total number of grouped alerts suppressed by the cooldown",
	})
	AlertsUnavailableTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "amio_alerts_unavailable_total",
		Help: "Total number of grouped alerts that found no delivery channel",
	})

	// Publishing metrics
	PublishErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "amio_publish_errors_total",
		Help: "Total number of failed MQTT publishes",
	})

	// State gauges
	SensorsTracked = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "amio_sensors_tracked",
		Help: "Number of distinct motes currently tracked",
	})
	LightsOn = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "amio_lights_on",
		Help: "Number of tracked sensors currently showing light",
	})

	registerOnce sync.Once
)

func init() {
	InitMetrics()
}

// InitMetrics registers all Prometheus collectors used by the monitor.
func InitMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			PollCyclesTotal,
			CycleDurationSeconds,
			FetchErrorsTotal,
			ParseErrorsTotal,
			ReadingsTotal,
			ReadingsDroppedTotal,
			TransitionsOnTotal,
			TransitionsOffTotal,
			AlertsDeliveredTotal,
			AlertsSuppressedTotal,
			AlertsUnavailableTotal,
			PublishErrorsTotal,
			SensorsTracked,
			LightsOn,
		)
	})
}

// Handler returns an HTTP handler that exposes the registered Prometheus metrics.
func Handler() http.Handler {
	InitMetrics()
	return promhttp.Handler()
}

// RecordCycle tracks a completed poll cycle.
func RecordCycle(duration time.Duration) {
	InitMetrics()
	if duration < 0 {
		duration = 0
	}
	PollCyclesTotal.Inc()
	CycleDurationSeconds.Observe(duration.Seconds())
}

// IncFetchErrors increments the failed-fetch counter.
func IncFetchErrors() {
	InitMetrics()
	FetchErrorsTotal.Inc()
}

// IncParseErrors increments the malformed-payload counter.
func IncParseErrors() {
	InitMetrics()
	ParseErrorsTotal.Inc()
}

// AddReadings adds the number of valid readings applied in a cycle.
func AddReadings(n int) {
	InitMetrics()
	ReadingsTotal.Add(float64(n))
}

// IncReadingsDropped increments the invalid-entry counter.
func IncReadingsDropped() {
	InitMetrics()
	ReadingsDroppedTotal.Inc()
}

// IncTransitionOn increments the turned-on counter.
func IncTransitionOn() {
	InitMetrics()
	TransitionsOnTotal.Inc()
}

// IncTransitionOff increments the turned-off counter.
func IncTransitionOff() {
	InitMetrics()
	TransitionsOffTotal.Inc()
}

// IncAlertDelivered increments the delivered-alert counter.
func IncAlertDelivered() {
	InitMetrics()
	AlertsDeliveredTotal.Inc()
}

// IncAlertSuppressed increments the suppressed-alert counter.
func IncAlertSuppressed() {
	InitMetrics()
	AlertsSuppressedTotal.Inc()
}

// IncAlertUnavailable increments the undeliverable-alert counter.
func IncAlertUnavailable() {
	InitMetrics()
	AlertsUnavailableTotal.Inc()
}

// IncPublishErrors increments the failed-publish counter.
func IncPublishErrors() {
	InitMetrics()
	PublishErrorsTotal.Inc()
}

// SetSensorsTracked updates the tracked-mote gauge.
func SetSensorsTracked(n int) {
	InitMetrics()
	SensorsTracked.Set(float64(n))
}

// SetLightsOn updates the lit-sensor gauge.
func SetLightsOn(n int) {
	InitMetrics()
	LightsOn.Set(float64(n))
}
