package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInitMetricsIdempotent(t *testing.T) {
	// A second registration attempt must not panic.
	InitMetrics()
	InitMetrics()
}

func TestHandlerServesContent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()

	Handler().ServeHTTP(rr, req)

	if rr.Result().StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Result().StatusCode)
	}
	if !strings.Contains(rr.Body.String(), "# HELP") {
		t.Error("expected exposition output with HELP lines")
	}
}

func TestHandlerExposesMonitorCollectors(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()

	Handler().ServeHTTP(rr, req)

	body := rr.Body.String()
	names := []string{
		"amio_poll_cycles_total",
		"amio_cycle_duration_seconds",
		"amio_fetch_errors_total",
		"amio_parse_errors_total",
		"amio_readings_total",
		"amio_readings_dropped_total",
		"amio_transitions_on_total",
		"amio_transitions_off_total",
		"amio_alerts_delivered_total",
		"amio_alerts_suppressed_total",
		"amio_alerts_unavailable_total",
		"amio_publish_errors_total",
		"amio_sensors_tracked",
		"amio_lights_on",
	}
	for _, name := range names {
		if !strings.Contains(body, name) {
			t.Errorf("exposition missing %s", name)
		}
	}
}

func TestRecordCycleIncrementsCounter(t *testing.T) {
	before := testutil.ToFloat64(PollCyclesTotal)
	RecordCycle(120 * time.Millisecond)
	if got := testutil.ToFloat64(PollCyclesTotal); got != before+1 {
		t.Errorf("expected %v cycles, got %v", before+1, got)
	}
}

func TestRecordCycleClampsNegativeDuration(t *testing.T) {
	// Observing a negative duration would panic inside the histogram
	// implementation on some versions; RecordCycle clamps to zero.
	RecordCycle(-1 * time.Second)
}

func TestAddReadings(t *testing.T) {
	before := testutil.ToFloat64(ReadingsTotal)
	AddReadings(4)
	if got := testutil.ToFloat64(ReadingsTotal); got != before+4 {
		t.Errorf("expected %v readings, got %v", before+4, got)
	}
}

func TestTransitionCounters(t *testing.T) {
	beforeOn := testutil.ToFloat64(TransitionsOnTotal)
	beforeOff := testutil.ToFloat64(TransitionsOffTotal)

	IncTransitionOn()
	IncTransitionOff()
	IncTransitionOff()

	if got := testutil.ToFloat64(TransitionsOnTotal); got != beforeOn+1 {
		t.Errorf("expected %v on-transitions, got %v", beforeOn+1, got)
	}
	if got := testutil.ToFloat64(TransitionsOffTotal); got != beforeOff+2 {
		t.Errorf("expected %v off-transitions, got %v", beforeOff+2, got)
	}
}

func TestAlertOutcomeCounters(t *testing.T) {
	before := []float64{
		testutil.ToFloat64(AlertsDeliveredTotal),
		testutil.ToFloat64(AlertsSuppressedTotal),
		testutil.ToFloat64(AlertsUnavailableTotal),
	}

	IncAlertDelivered()
	IncAlertSuppressed()
	IncAlertUnavailable()

	after := []float64{
		testutil.ToFloat64(AlertsDeliveredTotal),
		testutil.ToFloat64(AlertsSuppressedTotal),
		testutil.ToFloat64(AlertsUnavailableTotal),
	}
	for i := range before {
		if after[i] != before[i]+1 {
			t.Errorf("counter %d: expected %v, got %v", i, before[i]+1, after[i])
		}
	}
}

func TestStateGauges(t *testing.T) {
	SetSensorsTracked(4)
	SetLightsOn(2)

	if got := testutil.ToFloat64(SensorsTracked); got != 4 {
		t.Errorf("expected 4 tracked sensors, got %v", got)
	}
	if got := testutil.ToFloat64(LightsOn); got != 2 {
		t.Errorf("expected 2 lights on, got %v", got)
	}

	SetLightsOn(0)
	if got := testutil.ToFloat64(LightsOn); got != 0 {
		t.Errorf("expected gauge reset to 0, got %v", got)
	}
}
