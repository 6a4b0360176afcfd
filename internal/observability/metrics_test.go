package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"airport-simulator/internal/game/simulation"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestObserveRecompute(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSimulationCollector(reg)
	if err != nil {
		t.Fatalf("NewSimulationCollector: %v", err)
	}

	collector.ObserveRecompute(8640, 12, 2, 3*time.Millisecond)
	collector.ObserveRecompute(8641, 11, 0, time.Millisecond)

	if got := testutil.ToFloat64(collector.TimeStep); got != 8641 {
		t.Errorf("airport_sim_time_step = %v, want 8641", got)
	}
	if got := testutil.ToFloat64(collector.ActiveFlights); got != 11 {
		t.Errorf("airport_sim_active_flights = %v, want 11", got)
	}
	if got := testutil.ToFloat64(collector.ConflictingFlights); got != 0 {
		t.Errorf("airport_sim_conflicting_flights = %v, want 0", got)
	}
	if got := testutil.ToFloat64(collector.Recomputations); got != 2 {
		t.Errorf("airport_sim_recomputations_total = %v, want 2", got)
	}
	if count := histogramSampleCount(t, reg, "airport_sim_recompute_duration_seconds", nil); count != 2 {
		t.Errorf("airport_sim_recompute_duration_seconds sample_count = %d, want 2", count)
	}
}

func TestObserveAlert(t *testing.T) {
	collector, err := NewSimulationCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewSimulationCollector: %v", err)
	}
	collector.ObserveAlert(simulation.Alert{Step: 10, CallSigns: nil})
	collector.ObserveAlert(simulation.Alert{Step: 11})

	if got := testutil.ToFloat64(collector.ConflictAlerts); got != 2 {
		t.Errorf("airport_sim_conflict_alerts_total = %v, want 2", got)
	}
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *SimulationCollector
	c.ObserveRecompute(1, 1, 1, time.Second)
	c.ObserveAlert(simulation.Alert{})
}

func TestRegisterTwiceReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewSimulationCollector(reg)
	if err != nil {
		t.Fatalf("NewSimulationCollector: %v", err)
	}
	second, err := NewSimulationCollector(reg)
	if err != nil {
		t.Fatalf("second NewSimulationCollector: %v", err)
	}

	first.Recomputations.Inc()
	if got := testutil.ToFloat64(second.Recomputations); got != 1 {
		t.Errorf("second collector sees %v recomputations, want 1", got)
	}
}

func TestMiddlewareRecordsRoutes(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSimulationCollector(reg)
	if err != nil {
		t.Fatalf("NewSimulationCollector: %v", err)
	}

	r := chi.NewRouter()
	r.Use(collector.Middleware)
	r.Get("/flights/{callsign}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "callsign") == "ZZZ" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("ok"))
	})

	for _, path := range []string{"/flights/AFR1", "/flights/EZY2", "/flights/ZZZ"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("/flights/{callsign}", "GET", "200")); got != 2 {
		t.Errorf("requests with code 200 = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("/flights/{callsign}", "GET", "404")); got != 1 {
		t.Errorf("requests with code 404 = %v, want 1", got)
	}
	if count := histogramSampleCount(t, reg, "airport_sim_http_request_duration_seconds", map[string]string{
		"route":  "/flights/{callsign}",
		"method": "GET",
	}); count != 3 {
		t.Errorf("airport_sim_http_request_duration_seconds sample_count = %d, want 3", count)
	}
}

func TestHandlerExposesSimulationMetrics(t *testing.T) {
	collector, err := NewSimulationCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewSimulationCollector: %v", err)
	}
	collector.ObserveRecompute(100, 3, 2, time.Millisecond)

	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"airport_sim_time_step 100",
		"airport_sim_active_flights 3",
		"airport_sim_conflicting_flights 2",
		"airport_sim_recompute_duration_seconds_count 1",
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("expected %q in /metrics output", metric)
		}
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string, labels map[string]string) uint64 {
	t.Helper()

	metrics, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if matchLabels(m.GetLabel(), labels) && m.GetHistogram() != nil {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func matchLabels(got []*dto.LabelPair, want map[string]string) bool {
	if len(got) < len(want) {
		return false
	}
	matched := 0
	for _, lp := range got {
		if val, ok := want[lp.GetName()]; ok && val == lp.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
