package aircraft

import (
	"errors"
	"fmt"

	"airport-simulator/internal/game/airspace"
	"airport-simulator/pkg/types"
)

type Movement int

const (
	DEPARTURE Movement = iota + 1
	ARRIVAL
)

var MovementStringMap = map[Movement]string{
	DEPARTURE: "DEP",
	ARRIVAL:   "ARR",
}

func (m Movement) String() string {
	if s, ok := MovementStringMap[m]; ok {
		return s
	}
	return "UNKNOWN"
}

func ParseMovement(s string) (Movement, bool) {
	for m, str := range MovementStringMap {
		if s == str {
			return m, true
		}
	}
	return 0, false
}

// ErrOutOfRangeTime is returned when a flight is queried for a time step
// outside of [Start, End).
var ErrOutOfRangeTime = errors.New("time step outside of flight window")

type OutOfRangeTimeError struct {
	CallSign   types.CallSign
	T          types.TimeStep
	Start, End types.TimeStep
}

func (e *OutOfRangeTimeError) Error() string {
	return fmt.Sprintf("%s: time step %d outside of [%d, %d)", e.CallSign, e.T, e.Start, e.End)
}

func (e *OutOfRangeTimeError) Is(target error) bool {
	return target == ErrOutOfRangeTime
}

// Flight is an aircraft movement with a precomputed trajectory, one
// position per time step starting at Start. Flights are read-only once
// built.
type Flight struct {
	CallSign types.CallSign
	Movement Movement
	Cat      airspace.WakeCategory
	Stand    *types.NamedPoint
	QFU      string
	Runway   *airspace.Runway

	Start   types.TimeStep
	End     types.TimeStep
	RunwayT types.TimeStep  // on the runway from here (DEP), off it from here (ARR)
	Slot    *types.TimeStep // take-off slot, if any

	route []types.Point
}

type FlightSpec struct {
	CallSign types.CallSign
	Movement Movement
	Cat      airspace.WakeCategory
	Stand    *types.NamedPoint
	QFU      string
	Runway   *airspace.Runway
	Start    types.TimeStep
	RunwayT  types.TimeStep
	Slot     *types.TimeStep
	Route    []types.Point
}

// NewFlight builds a flight from a validated spec. A missing runway or an
// empty route is a programming error: loaders must reject such records.
func NewFlight(spec FlightSpec) *Flight {
	if spec.Runway == nil {
		panic(fmt.Sprintf("%s: flight without runway", spec.CallSign))
	}
	if len(spec.Route) == 0 {
		panic(fmt.Sprintf("%s: flight without trajectory", spec.CallSign))
	}

	route := make([]types.Point, len(spec.Route))
	copy(route, spec.Route)

	return &Flight{
		CallSign: spec.CallSign,
		Movement: spec.Movement,
		Cat:      spec.Cat,
		Stand:    spec.Stand,
		QFU:      spec.QFU,
		Runway:   spec.Runway,
		Start:    spec.Start,
		End:      spec.Start + types.TimeStep(len(route)),
		RunwayT:  spec.RunwayT,
		Slot:     spec.Slot,
		route:    route,
	}
}

// Route returns a copy of the flight's trajectory.
func (f *Flight) Route() []types.Point {
	route := make([]types.Point, len(f.route))
	copy(route, f.route)
	return route
}

func (f *Flight) IsActive(t types.TimeStep) bool {
	return f.Start <= t && t < f.End
}

func (f *Flight) Position(t types.TimeStep) (types.Point, error) {
	if !f.IsActive(t) {
		return types.Point{}, &OutOfRangeTimeError{CallSign: f.CallSign, T: t, Start: f.Start, End: f.End}
	}
	return f.route[t-f.Start], nil
}

// UsesRunway reports whether the flight holds its runway at t: arrivals
// until they vacate at RunwayT, departures from lining up at RunwayT on.
func (f *Flight) UsesRunway(t types.TimeStep) bool {
	if f.Movement == ARRIVAL {
		return t <= f.RunwayT
	}
	return f.RunwayT <= t
}

// InRunway reports whether the flight is inside the protected area of rwy
// at t. Inactive flights are nowhere.
func (f *Flight) InRunway(rwy *airspace.Runway, t types.TimeStep) bool {
	if !f.IsActive(t) || rwy == nil {
		return false
	}
	return rwy.Contains(f.route[t-f.Start])
}

// Distance returns the distance between the two flights at t.
func (f *Flight) Distance(other *Flight, t types.TimeStep) (float64, error) {
	p, err := f.Position(t)
	if err != nil {
		return 0, err
	}
	q, err := other.Position(t)
	if err != nil {
		return 0, err
	}
	return p.DistanceTo(q), nil
}

// ConflictsWith reports whether the two flights are closer than sep at t,
// or whether either one intrudes on the runway the other is using. The
// relation is symmetric; it is false if either flight is inactive at t.
func (f *Flight) ConflictsWith(other *Flight, t types.TimeStep, sep float64) bool {
	if f == other {
		return false
	}
	d, err := f.Distance(other, t)
	if err != nil {
		return false
	}
	return d < sep ||
		f.UsesRunway(t) && other.InRunway(f.Runway, t) ||
		other.UsesRunway(t) && f.InRunway(other.Runway, t)
}

func (f *Flight) String() string {
	return string(f.CallSign)
}
