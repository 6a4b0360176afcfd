package airspace

import "airport-simulator/pkg/types"

const (
	RUNWAY_WIDTH  = 90.0 // protected half-width around the runway axis (m)
	TAXIWAY_WIDTH = 15.0
)

type WakeCategory int

const (
	LIGHT WakeCategory = iota + 1
	MEDIUM
	HEAVY
)

var WakeCategoryStringMap = map[WakeCategory]string{
	LIGHT:  "LIGHT",
	MEDIUM: "MEDIUM",
	HEAVY:  "HEAVY",
}

func (c WakeCategory) String() string {
	if s, ok := WakeCategoryStringMap[c]; ok {
		return s
	}
	return "UNKNOWN"
}

// ParseWakeCategory accepts the single letter codes used in airport and
// traffic files.
func ParseWakeCategory(s string) (WakeCategory, bool) {
	switch s {
	case "L":
		return LIGHT, true
	case "M":
		return MEDIUM, true
	case "H":
		return HEAVY, true
	}
	return 0, false
}

// Runway is a physical runway; both of its QFUs refer to the same value.
type Runway struct {
	Name        string
	QFUs        [2]string
	A, B        types.Point
	Width       float64
	NamedPoints []string
}

func NewRunway(name, qfu1, qfu2 string, a, b types.Point, namedPoints []string) *Runway {
	return &Runway{
		Name:        name,
		QFUs:        [2]string{qfu1, qfu2},
		A:           a,
		B:           b,
		Width:       RUNWAY_WIDTH,
		NamedPoints: namedPoints,
	}
}

// Distance returns how far p lies from the runway axis.
func (r *Runway) Distance(p types.Point) float64 {
	return types.SegmentDistance(p, r.A, r.B)
}

// Contains reports whether p lies inside the protected runway area.
func (r *Runway) Contains(p types.Point) bool {
	return r.Distance(p) <= r.Width
}

func (r *Runway) Length() float64 {
	return r.A.DistanceTo(r.B)
}

func (r *Runway) String() string {
	return r.Name
}

type Taxiway struct {
	Name    string
	Speed   int // m/s
	MaxCat  WakeCategory
	OneWay  bool
	Coords  []types.Point
	LengthM float64
}

func NewTaxiway(name string, speed int, cat WakeCategory, oneWay bool, coords []types.Point) *Taxiway {
	return &Taxiway{
		Name:    name,
		Speed:   speed,
		MaxCat:  cat,
		OneWay:  oneWay,
		Coords:  coords,
		LengthM: types.PolylineLength(coords),
	}
}

// Accepts reports whether an aircraft of the given wake category may use
// the taxiway.
func (tw *Taxiway) Accepts(cat WakeCategory) bool {
	return cat <= tw.MaxCat
}
