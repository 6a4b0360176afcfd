package types

import (
	"math"
	"testing"
)

func TestPointArithmetic(t *testing.T) {
	p, q := NewPoint(3, 4), NewPoint(1, -2)

	if got := p.Add(q); got != (Point{4, 2}) {
		t.Errorf("Add() = %v, want (4, 2)", got)
	}
	if got := p.Sub(q); got != (Point{2, 6}) {
		t.Errorf("Sub() = %v, want (2, 6)", got)
	}
	if got := p.Scale(2); got != (Point{6, 8}) {
		t.Errorf("Scale() = %v, want (6, 8)", got)
	}
	if got := p.Dot(q); got != -5 {
		t.Errorf("Dot() = %v, want -5", got)
	}
	if got := p.Cross(q); got != -10 {
		t.Errorf("Cross() = %v, want -10", got)
	}
	if got := p.Norm(); got != 5 {
		t.Errorf("Norm() = %v, want 5", got)
	}
	if got := Distance(p, Point{}); got != 5 {
		t.Errorf("Distance() = %v, want 5", got)
	}
}

func TestSegmentDistance(t *testing.T) {
	a, b := NewPoint(0, 0), NewPoint(100, 0)

	tests := []struct {
		name string
		p    Point
		want float64
	}{
		{"BeforeA", NewPoint(-30, 40), 50},
		{"AtA", NewPoint(0, 0), 0},
		{"Perpendicular", NewPoint(50, 20), 20},
		{"BelowSegment", NewPoint(50, -7), 7},
		{"OnSegment", NewPoint(42, 0), 0},
		{"BeyondB", NewPoint(103, 4), 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SegmentDistance(tc.p, a, b); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("SegmentDistance(%v) = %v, want %v", tc.p, got, tc.want)
			}
			if got := tc.p.SegmentDistance(b, a); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("reversed SegmentDistance(%v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}
}

func TestSegmentDistanceOblique(t *testing.T) {
	// Sampled reference along the segment.
	a, b := NewPoint(10, 10), NewPoint(410, 310)
	for _, p := range []Point{{0, 100}, {200, 0}, {300, 400}, {500, 300}, {-20, -20}} {
		ref := math.Inf(1)
		const n = 20000
		for i := 0; i <= n; i++ {
			s := float64(i) / n
			ref = math.Min(ref, p.DistanceTo(a.Add(b.Sub(a).Scale(s))))
		}
		if got := SegmentDistance(p, a, b); math.Abs(got-ref) > 0.05 {
			t.Errorf("SegmentDistance(%v) = %v, sampled reference %v", p, got, ref)
		}
	}
}

func TestSegmentDistanceDegenerate(t *testing.T) {
	a := NewPoint(5, 5)
	got := SegmentDistance(NewPoint(8, 9), a, a)
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Fatalf("SegmentDistance on degenerate segment = %v", got)
	}
	if got != 5 {
		t.Errorf("SegmentDistance on degenerate segment = %v, want 5", got)
	}
}

func TestPolylineLength(t *testing.T) {
	if got := PolylineLength([]Point{{0, 0}, {3, 4}, {3, 10}}); got != 11 {
		t.Errorf("PolylineLength() = %v, want 11", got)
	}
	if got := PolylineLength(nil); got != 0 {
		t.Errorf("PolylineLength(nil) = %v, want 0", got)
	}
}

func TestHMSRoundTrip(t *testing.T) {
	tests := []struct {
		step TimeStep
		hms  string
	}{
		{0, "00:00:00"},
		{1, "00:00:05"},
		{DAY / 2, "12:00:00"},
		{8643, "12:00:15"},
		{DAY - 1, "23:59:55"},
		{-12, "-00:01:00"},
	}
	for _, tc := range tests {
		if got := HMS(tc.step); got != tc.hms {
			t.Errorf("HMS(%d) = %q, want %q", tc.step, got, tc.hms)
		}
		got, err := ParseHMS(tc.hms)
		if err != nil {
			t.Fatalf("ParseHMS(%q) error: %v", tc.hms, err)
		}
		if got != tc.step {
			t.Errorf("ParseHMS(%q) = %d, want %d", tc.hms, got, tc.step)
		}
	}
}

func TestParseHMS(t *testing.T) {
	tests := []struct {
		in   string
		want TimeStep
	}{
		{"12", DAY / 2},
		{"12:30", (12*3600 + 30*60) / STEP},
		{"00:00:04", 0},
		{"00:00:09", 1},
		{" 06 15 10 ", (6*3600 + 15*60 + 10) / STEP},
	}
	for _, tc := range tests {
		got, err := ParseHMS(tc.in)
		if err != nil {
			t.Fatalf("ParseHMS(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseHMS(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}

	for _, invalid := range []string{"", "ab:cd", "1:2:3:4", "12:-5"} {
		if _, err := ParseHMS(invalid); err == nil {
			t.Errorf("%q: no error was returned for invalid time string", invalid)
		}
	}
}

func TestStepFromSeconds(t *testing.T) {
	for _, tc := range []struct {
		s    int
		want TimeStep
	}{{0, 0}, {4, 0}, {5, 1}, {-1, -1}, {-5, -1}, {-6, -2}} {
		if got := StepFromSeconds(tc.s); got != tc.want {
			t.Errorf("StepFromSeconds(%d) = %d, want %d", tc.s, got, tc.want)
		}
	}
}
