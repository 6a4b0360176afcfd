package simulation

import (
	"errors"
	"fmt"
	"time"

	"airport-simulator/internal/game/aircraft"
	"airport-simulator/internal/game/airspace"
	"airport-simulator/internal/game/conflict"
	"airport-simulator/internal/logging"
	"airport-simulator/pkg/types"

	"github.com/labstack/gommon/log"
)

var ErrUnknownFlight = errors.New("unknown flight")

// Observer is notified after every recomputation of the derived state.
type Observer interface {
	ObserveRecompute(t types.TimeStep, active, conflicting int, elapsed time.Duration)
	ObserveAlert(a Alert)
}

// Simulation replays a fixed roster of flights over an airport. The time
// cursor is the only mutable input; the active flights and the conflicts
// anticipated over the next Config.Horizon steps are recomputed in full on
// every change. A Simulation is not safe for concurrent use.
type Simulation struct {
	Airport *airspace.Airport

	config    conflict.Config
	flights   []*aircraft.Flight
	byCall    map[types.CallSign]*aircraft.Flight
	t         types.TimeStep
	active    []*aircraft.Flight
	pairs     []conflict.Pair
	conflicts conflict.Set

	Alerts          []Alert
	maxAlertLogSize int

	observer Observer
	lg       *log.Logger
}

type Option func(*Simulation)

// WithInitTime sets the initial cursor; the default is noon.
func WithInitTime(t types.TimeStep) Option {
	return func(s *Simulation) { s.t = t }
}

func WithObserver(o Observer) Option {
	return func(s *Simulation) { s.observer = o }
}

func WithLogger(lg *log.Logger) Option {
	return func(s *Simulation) { s.lg = lg }
}

func WithMaxAlerts(n int) Option {
	return func(s *Simulation) { s.maxAlertLogSize = n }
}

func NewSimulation(apt *airspace.Airport, flights []*aircraft.Flight, cfg conflict.Config, opts ...Option) *Simulation {
	s := &Simulation{
		Airport: apt,
		config:  cfg,
		flights: make([]*aircraft.Flight, len(flights)),
		byCall:  make(map[types.CallSign]*aircraft.Flight, len(flights)),
		t:       types.DAY / 2,

		conflicts:       make(conflict.Set),
		maxAlertLogSize: 50,
	}
	copy(s.flights, flights)
	for _, f := range s.flights {
		s.byCall[f.CallSign] = f
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.lg == nil {
		s.lg = logging.New("simulation")
	}

	s.SetTime(s.t)
	return s
}

// SetTime moves the cursor to t and recomputes the active flights and the
// conflicts anticipated in [t, t+Horizon].
func (s *Simulation) SetTime(t types.TimeStep) {
	start := time.Now()

	prev := s.conflicts
	s.t = t
	s.active = conflict.SelectActive(s.flights, t)
	s.pairs = conflict.DetectPairsIn(s.active, t, t+s.config.Horizon, s.config)
	s.conflicts = conflict.SetFromPairs(s.pairs)

	if fresh := s.conflicts.Diff(prev); fresh.Len() > 0 {
		s.addAlert(t, fresh)
	}

	elapsed := time.Since(start)
	s.lg.Debugf("t=%s: %d active, %d conflicting (%s)", types.HMS(t), len(s.active), s.conflicts.Len(), elapsed)
	if s.observer != nil {
		s.observer.ObserveRecompute(t, len(s.active), s.conflicts.Len(), elapsed)
	}
}

// IncrementTime moves the cursor by dt, which may be negative.
func (s *Simulation) IncrementTime(dt types.TimeStep) {
	s.SetTime(s.t + dt)
}

// SetConfig replaces the detection parameters and recomputes the state at
// the current cursor.
func (s *Simulation) SetConfig(cfg conflict.Config) {
	s.config = cfg
	s.SetTime(s.t)
}

func (s *Simulation) Config() conflict.Config {
	return s.config
}

func (s *Simulation) Time() types.TimeStep {
	return s.t
}

// Active returns the flights moving at the current time step. The slice
// must not be modified.
func (s *Simulation) Active() []*aircraft.Flight {
	return s.active
}

// Conflicts returns the flights involved in a conflict anticipated from the
// current time step. The set must not be modified.
func (s *Simulation) Conflicts() conflict.Set {
	return s.conflicts
}

// Pairs returns the conflicting pairs anticipated from the current time
// step, each with the first step at which it conflicts.
func (s *Simulation) Pairs() []conflict.Pair {
	return s.pairs
}

func (s *Simulation) IsConflicting(cs types.CallSign) bool {
	return s.conflicts.Contains(cs)
}

// Flights returns the whole roster. The slice must not be modified.
func (s *Simulation) Flights() []*aircraft.Flight {
	return s.flights
}

func (s *Simulation) Flight(cs types.CallSign) (*aircraft.Flight, bool) {
	f, ok := s.byCall[cs]
	return f, ok
}

// Position returns where the flight is at step t.
func (s *Simulation) Position(cs types.CallSign, t types.TimeStep) (types.Point, error) {
	f, ok := s.byCall[cs]
	if !ok {
		return types.Point{}, fmt.Errorf("%s: %w", cs, ErrUnknownFlight)
	}
	return f.Position(t)
}

// ConflictsWith reports whether the two flights conflict at the current
// time step.
func (s *Simulation) ConflictsWith(a, b types.CallSign) (bool, error) {
	fa, ok := s.byCall[a]
	if !ok {
		return false, fmt.Errorf("%s: %w", a, ErrUnknownFlight)
	}
	fb, ok := s.byCall[b]
	if !ok {
		return false, fmt.Errorf("%s: %w", b, ErrUnknownFlight)
	}
	return s.config.Conflicts(fa, fb, s.t), nil
}
