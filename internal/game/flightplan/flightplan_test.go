package flightplan

import (
	"errors"
	"strings"
	"testing"

	"airport-simulator/internal/game/aircraft"
	"airport-simulator/internal/game/airspace"
	"airport-simulator/pkg/types"
)

func testAirport() *airspace.Airport {
	stands := []*types.NamedPoint{
		{Name: "S1", Kind: types.STAND, Position: types.NewPoint(100, 200)},
		{Name: "S2", Kind: types.STAND, Position: types.NewPoint(300, 200)},
	}
	rwy := airspace.NewRunway("09-27", "09", "27", types.NewPoint(0, 0), types.NewPoint(3000, 0), nil)
	return airspace.NewAirport("LFXX", stands, nil, []*airspace.Runway{rwy})
}

func TestParseTraffic(t *testing.T) {
	src := `DEP AFR123 M S1 09 43200 43260 43300 100,200 100,100 100,0
ARR EZY45 H S2 27 3605 3700 _ 3000,0 2000,0 1000,0 300,200
`
	flights, err := Parse(strings.NewReader(src), testAirport())
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if len(flights) != 2 {
		t.Fatalf("got %d flights, want 2", len(flights))
	}

	dep := flights[0]
	if dep.CallSign != "AFR123" || dep.Movement != aircraft.DEPARTURE || dep.Cat != airspace.MEDIUM {
		t.Errorf("departure = %+v", dep)
	}
	if dep.Start != 8640 || dep.End != 8643 || dep.RunwayT != 8652 {
		t.Errorf("departure window = [%d, %d) rwy %d", dep.Start, dep.End, dep.RunwayT)
	}
	if dep.Slot == nil || *dep.Slot != 8660 {
		t.Errorf("departure slot = %v, want 8660", dep.Slot)
	}
	if dep.Stand == nil || dep.Stand.Name != "S1" || dep.QFU != "09" || dep.Runway.Name != "09-27" {
		t.Errorf("departure stand/runway = %v %s %v", dep.Stand, dep.QFU, dep.Runway)
	}

	arr := flights[1]
	if arr.Start != 721 || arr.End != 725 || arr.Slot != nil || arr.Cat != airspace.HEAVY {
		t.Errorf("arrival = %+v", arr)
	}
	if p, err := arr.Position(722); err != nil || p != types.NewPoint(2000, 0) {
		t.Errorf("arrival Position(722) = %v, %v", p, err)
	}
	if arr.Runway != dep.Runway {
		t.Errorf("QFUs 09 and 27 should resolve to the same runway")
	}
}

func TestParseTrafficRejectsBadLines(t *testing.T) {
	src := `DEP AFR1 M S1 09 100 110 _ 0,0
XXX AFR2 M S1 09 100 110 _ 0,0
DEP AFR3 Q S1 09 100 110 _ 0,0
DEP AFR4 M S9 09 100 110 _ 0,0
DEP AFR5 M S1 04 100 110 _ 0,0
DEP AFR6 M S1 09 abc 110 _ 0,0
DEP AFR7 M S1 09 100 110 xx 0,0
DEP AFR8 M S1 09 100 110 _ 0;0
DEP AFR9 M S1 09 100 110 _
DEP AFR1 M S1 09 100 110 _ 5,5

ARR AFR10 L S2 27 100 110 _ 0,0
`
	flights, err := Parse(strings.NewReader(src), testAirport())
	if len(flights) != 2 || flights[0].CallSign != "AFR1" || flights[1].CallSign != "AFR10" {
		t.Fatalf("valid flights = %v", flights)
	}
	if err == nil {
		t.Fatalf("expected errors for malformed lines")
	}
	if got := strings.Count(err.Error(), "line "); got != 9 {
		t.Errorf("got %d rejected lines, want 9: %v", got, err)
	}

	var perr *airspace.ParseError
	if !errors.As(err, &perr) || perr.Line != 2 {
		t.Errorf("first rejected line = %+v", perr)
	}
	if !strings.Contains(err.Error(), "duplicate call sign AFR1") {
		t.Errorf("duplicate call sign not reported: %v", err)
	}
}

func TestParseTrafficNormalizesCallSigns(t *testing.T) {
	src := `DEP Afr12 M S1 09 100 110 _ 0,0
ARR AFR12 L S2 27 100 110 _ 0,0
ARR ezy7 L S2 27 100 110 _ 0,0
`
	flights, err := Parse(strings.NewReader(src), testAirport())
	if len(flights) != 2 || flights[0].CallSign != "AFR12" || flights[1].CallSign != "EZY7" {
		t.Fatalf("valid flights = %v", flights)
	}
	var perr *airspace.ParseError
	if !errors.As(err, &perr) || perr.Line != 2 {
		t.Fatalf("error = %v, want the second line rejected", err)
	}
	if !strings.Contains(err.Error(), "duplicate call sign AFR12") {
		t.Errorf("duplicate call sign not reported: %v", err)
	}
}

func TestStats(t *testing.T) {
	rwy := airspace.NewRunway("09-27", "09", "27", types.NewPoint(0, 0), types.NewPoint(1, 0), nil)
	mk := func(mvt aircraft.Movement, hms string) *aircraft.Flight {
		start, err := types.ParseHMS(hms)
		if err != nil {
			t.Fatalf("ParseHMS(%q): %v", hms, err)
		}
		return aircraft.NewFlight(aircraft.FlightSpec{CallSign: types.CallSign(hms), Movement: mvt,
			Runway: rwy, Start: start, Route: []types.Point{{}}})
	}

	st := Stats([]*aircraft.Flight{
		mk(aircraft.ARRIVAL, "00:00:00"),
		mk(aircraft.ARRIVAL, "00:59:55"),
		mk(aircraft.DEPARTURE, "12:30:00"),
		mk(aircraft.DEPARTURE, "23:59:55"),
		mk(aircraft.DEPARTURE, "24:00:00"),
		mk(aircraft.ARRIVAL, "-00:00:05"),
	})

	if st.Arrivals[0] != 2 || st.Departures[12] != 1 || st.Departures[23] != 1 || st.Outside != 2 {
		t.Errorf("Stats() = %+v", st)
	}
	if lines := strings.Split(strings.TrimSpace(st.String()), "\n"); len(lines) != 24 || lines[0] != "00h00 -   2 arrivals,   0 departures" {
		t.Errorf("String() first line = %q (%d lines)", lines[0], len(lines))
	}
}
