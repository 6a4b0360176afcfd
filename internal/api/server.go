package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"airport-simulator/internal/game/aircraft"
	"airport-simulator/internal/game/simulation"
	"airport-simulator/internal/observability"
	"airport-simulator/pkg/types"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/labstack/gommon/log"
)

// Server exposes a simulation over HTTP. Every handler holds mu, which may
// be shared with other front ends driving the same simulation.
type Server struct {
	mu  sync.Locker
	sim *simulation.Simulation
	lg  *log.Logger
}

// New constructs the HTTP router wired to sim. metrics may be nil, in which
// case /metrics is not served.
func New(sim *simulation.Simulation, mu sync.Locker, metrics *observability.SimulationCollector, lg *log.Logger) http.Handler {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	s := &Server{mu: mu, sim: sim, lg: lg}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)
	if metrics != nil {
		r.Use(metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/state", s.handleState)
	r.Post("/time", s.handleSetTime)
	r.Post("/time/increment", s.handleIncrementTime)
	r.Get("/flights", s.handleFlights)
	r.Get("/flights/{callsign}", s.handleFlight)
	r.Get("/flights/{callsign}/position", s.handlePosition)
	r.Get("/alerts", s.handleAlerts)

	return r
}

type flightView struct {
	CallSign    types.CallSign `json:"callsign"`
	Movement    string         `json:"type"`
	Category    string         `json:"category"`
	Stand       string         `json:"stand,omitempty"`
	QFU         string         `json:"qfu"`
	Runway      string         `json:"runway"`
	Start       types.TimeStep `json:"start"`
	End         types.TimeStep `json:"end"`
	RunwayT     types.TimeStep `json:"runway_t"`
	Slot        *int           `json:"slot,omitempty"`
	Position    *types.Point   `json:"position,omitempty"`
	Conflicting bool           `json:"conflicting"`
}

type pairView struct {
	A    types.CallSign `json:"a"`
	B    types.CallSign `json:"b"`
	Step types.TimeStep `json:"step"`
	HMS  string         `json:"hms"`
}

type stateView struct {
	Time       types.TimeStep   `json:"time"`
	HMS        string           `json:"hms"`
	Separation float64          `json:"separation"`
	Horizon    types.TimeStep   `json:"horizon"`
	Active     []flightView     `json:"active"`
	Conflicts  []types.CallSign `json:"conflicts"`
	Pairs      []pairView       `json:"pairs"`
}

type alertView struct {
	Step      types.TimeStep   `json:"step"`
	HMS       string           `json:"hms"`
	CallSigns []types.CallSign `json:"callsigns"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleSetTime(w http.ResponseWriter, r *http.Request) {
	var req struct {
		T   *int   `json:"t"`
		HMS string `json:"hms"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}

	var t types.TimeStep
	switch {
	case req.T != nil:
		t = types.TimeStep(*req.T)
	case req.HMS != "":
		var err error
		if t, err = types.ParseHMS(req.HMS); err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
	default:
		writeJSONError(w, http.StatusBadRequest, "one of t or hms is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sim.SetTime(t)
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleIncrementTime(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DT *int `json:"dt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DT == nil {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sim.IncrementTime(types.TimeStep(*req.DT))
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleFlights(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	flights := f.Apply(s.sim.Flights())
	views := make([]flightView, 0, len(flights))
	for _, fl := range flights {
		views = append(views, s.view(fl))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleFlight(w http.ResponseWriter, r *http.Request) {
	cs := types.CallSign(strings.ToUpper(chi.URLParam(r, "callsign")))

	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.sim.Flight(cs)
	if !ok {
		writeJSONError(w, http.StatusNotFound, "unknown flight "+string(cs))
		return
	}
	writeJSON(w, http.StatusOK, s.view(f))
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	cs := types.CallSign(strings.ToUpper(chi.URLParam(r, "callsign")))

	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.sim.Time()
	if q := r.URL.Query().Get("t"); q != "" {
		var err error
		if t, err = parseTime(q); err != nil {
			writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	pos, err := s.sim.Position(cs, t)
	switch {
	case errors.Is(err, simulation.ErrUnknownFlight):
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, aircraft.ErrOutOfRangeTime):
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		if s.lg != nil {
			s.lg.Errorf("position of %s at %d: %v", cs, t, err)
		}
		writeJSONError(w, http.StatusInternalServerError, "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"callsign": cs,
		"step":     t,
		"hms":      types.HMS(t),
		"position": pos,
	})
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := make([]alertView, 0, len(s.sim.Alerts))
	for _, a := range s.sim.Alerts {
		views = append(views, alertView{Step: a.Step, HMS: types.HMS(a.Step), CallSigns: a.CallSigns})
	}
	writeJSON(w, http.StatusOK, views)
}

// state must be called with mu held.
func (s *Server) state() stateView {
	cfg := s.sim.Config()
	st := stateView{
		Time:       s.sim.Time(),
		HMS:        types.HMS(s.sim.Time()),
		Separation: cfg.Separation,
		Horizon:    cfg.Horizon,
		Active:     make([]flightView, 0, len(s.sim.Active())),
		Conflicts:  s.sim.Conflicts().Sorted(),
		Pairs:      make([]pairView, 0, len(s.sim.Pairs())),
	}
	if st.Conflicts == nil {
		st.Conflicts = []types.CallSign{}
	}
	for _, f := range s.sim.Active() {
		st.Active = append(st.Active, s.view(f))
	}
	for _, p := range s.sim.Pairs() {
		st.Pairs = append(st.Pairs, pairView{A: p.A.CallSign, B: p.B.CallSign, Step: p.Step, HMS: types.HMS(p.Step)})
	}
	return st
}

func (s *Server) view(f *aircraft.Flight) flightView {
	v := flightView{
		CallSign:    f.CallSign,
		Movement:    f.Movement.String(),
		Category:    f.Cat.String(),
		QFU:         f.QFU,
		Runway:      f.Runway.Name,
		Start:       f.Start,
		End:         f.End,
		RunwayT:     f.RunwayT,
		Conflicting: s.sim.IsConflicting(f.CallSign),
	}
	if f.Stand != nil {
		v.Stand = f.Stand.Name
	}
	if f.Slot != nil {
		slot := int(*f.Slot)
		v.Slot = &slot
	}
	if pos, err := f.Position(s.sim.Time()); err == nil {
		v.Position = &pos
	}
	return v
}

func parseFilter(r *http.Request) (aircraft.Filter, error) {
	q := r.URL.Query()
	f := aircraft.Filter{
		Runway:   q.Get("runway"),
		CallSign: q.Get("q"),
	}
	if t := q.Get("type"); t != "" {
		mvt, ok := aircraft.ParseMovement(strings.ToUpper(t))
		if !ok {
			return f, errors.New("type must be DEP or ARR")
		}
		f.Movement = mvt
	}
	switch strings.ToLower(q.Get("slot")) {
	case "", "any":
	case "with", "yes", "true":
		f.Slot = aircraft.WITH_SLOT
	case "without", "no", "false":
		f.Slot = aircraft.WITHOUT_SLOT
	default:
		return f, errors.New("slot must be any, with or without")
	}
	return f, nil
}

// parseTime accepts a step number or a time of day.
func parseTime(s string) (types.TimeStep, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return types.TimeStep(n), nil
	}
	return types.ParseHMS(s)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
