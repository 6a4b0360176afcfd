package observability

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"airport-simulator/internal/game/simulation"
	"airport-simulator/pkg/types"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SimulationCollector exports the simulation state as Prometheus metrics.
// It implements simulation.Observer.
type SimulationCollector struct {
	gatherer prometheus.Gatherer

	TimeStep           prometheus.Gauge
	ActiveFlights      prometheus.Gauge
	ConflictingFlights prometheus.Gauge
	Recomputations     prometheus.Counter
	RecomputeDuration  prometheus.Histogram
	ConflictAlerts     prometheus.Counter

	HTTPRequests  *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec
}

var _ simulation.Observer = (*SimulationCollector)(nil)

// NewSimulationCollector registers the simulator metrics against reg,
// defaulting to the global Prometheus registry when nil. Registering twice
// against the same registry reuses the existing collectors.
func NewSimulationCollector(reg prometheus.Registerer) (*SimulationCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &SimulationCollector{gatherer: gatherer}
	var err error

	if c.TimeStep, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "airport_sim_time_step",
		Help: "Current position of the simulation time cursor, in steps since midnight.",
	}), "airport_sim_time_step"); err != nil {
		return nil, err
	}
	if c.ActiveFlights, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "airport_sim_active_flights",
		Help: "Number of flights moving at the current time step.",
	}), "airport_sim_active_flights"); err != nil {
		return nil, err
	}
	if c.ConflictingFlights, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "airport_sim_conflicting_flights",
		Help: "Number of flights involved in an anticipated conflict.",
	}), "airport_sim_conflicting_flights"); err != nil {
		return nil, err
	}
	if c.Recomputations, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "airport_sim_recomputations_total",
		Help: "Total number of state recomputations triggered by time or configuration changes.",
	}), "airport_sim_recomputations_total"); err != nil {
		return nil, err
	}
	if c.RecomputeDuration, err = registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "airport_sim_recompute_duration_seconds",
		Help:    "Time spent selecting active flights and detecting conflicts.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5, 1},
	}), "airport_sim_recompute_duration_seconds"); err != nil {
		return nil, err
	}
	if c.ConflictAlerts, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "airport_sim_conflict_alerts_total",
		Help: "Total number of conflict alerts raised.",
	}), "airport_sim_conflict_alerts_total"); err != nil {
		return nil, err
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "airport_sim_http_requests_total",
		Help: "Total number of handled HTTP requests, labeled by route, method, and status code.",
	}, []string{"route", "method", "code"})
	if c.HTTPRequests, err = registerCounterVec(reg, requests, "airport_sim_http_requests_total"); err != nil {
		return nil, err
	}
	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "airport_sim_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
	}, []string{"route", "method"})
	if c.HTTPDurations, err = registerHistogramVec(reg, durations, "airport_sim_http_request_duration_seconds"); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *SimulationCollector) ObserveRecompute(t types.TimeStep, active, conflicting int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.TimeStep.Set(float64(t))
	c.ActiveFlights.Set(float64(active))
	c.ConflictingFlights.Set(float64(conflicting))
	c.Recomputations.Inc()
	c.RecomputeDuration.Observe(elapsed.Seconds())
}

func (c *SimulationCollector) ObserveAlert(simulation.Alert) {
	if c == nil {
		return
	}
	c.ConflictAlerts.Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SimulationCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Middleware records request counts and durations, labeled by the matched
// chi route pattern.
func (c *SimulationCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		if c == nil {
			return
		}
		route := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		c.HTTPDurations.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
