package types

import "math"

type CallSign string

// Point is a position (or displacement) on the airport plane, in metres.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func NewPoint(x, y float64) Point {
	return Point{x, y}
}

func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns the displacement from q to p.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

func (p Point) Scale(k float64) Point {
	return Point{k * p.X, k * p.Y}
}

func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross is the z component of the 3D cross product of p and q.
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

func (p Point) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

func (p Point) DistanceTo(q Point) float64 {
	return p.Sub(q).Norm()
}

// SegmentDistance returns the distance from p to the segment [a, b].
func (p Point) SegmentDistance(a, b Point) float64 {
	return SegmentDistance(p, a, b)
}

func Distance(p, q Point) float64 {
	return p.Sub(q).Norm()
}

// SegmentDistance returns the distance from p to the closed segment [a, b].
// A degenerate segment (a == b) is treated as the single point a.
func SegmentDistance(p, a, b Point) float64 {
	ab, ap, bp := b.Sub(a), p.Sub(a), p.Sub(b)
	if ab.X == 0 && ab.Y == 0 {
		return ap.Norm()
	}
	if ab.Dot(ap) <= 0 {
		return ap.Norm()
	} else if ab.Dot(bp) >= 0 {
		return bp.Norm()
	}
	return math.Abs(ab.Cross(ap)) / ab.Norm()
}

// PolylineLength is the summed length of consecutive segments of pts.
func PolylineLength(pts []Point) float64 {
	length := 0.0
	for i := 1; i < len(pts); i++ {
		length += pts[i].DistanceTo(pts[i-1])
	}
	return length
}

type PointKind int

const (
	STAND PointKind = iota
	DEICING
	RUNWAY_POINT
)

var PointKindStringMap = map[PointKind]string{
	STAND:        "STAND",
	DEICING:      "DEICING",
	RUNWAY_POINT: "RUNWAY_POINT",
}

func (k PointKind) String() string {
	if s, ok := PointKindStringMap[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// NamedPoint is a named location of the airport (stand, deicing area or
// runway axis point).
type NamedPoint struct {
	Name     string
	Kind     PointKind
	Position Point
}
