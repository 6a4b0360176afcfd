package flightplan

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"airport-simulator/internal/game/aircraft"
	"airport-simulator/internal/game/airspace"
	"airport-simulator/pkg/types"
)

// Parse reads a traffic sample, one flight per line:
//
//	<DEP|ARR> <callsign> <L|M|H> <stand> <qfu> <start_s> <rwy_s> <slot_s|_> <x>,<y> ...
//
// Call signs are stored upper-cased. Times are given in seconds and
// converted to time steps. Lines that cannot
// be resolved against apt are skipped; the returned error joins one
// *airspace.ParseError per rejected line.
func Parse(r io.Reader, apt *airspace.Airport) ([]*aircraft.Flight, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var flights []*aircraft.Flight
	var errs []error
	seen := make(map[types.CallSign]bool)

	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		f, err := parseFlight(words, apt)
		if err == nil && seen[f.CallSign] {
			err = fmt.Errorf("duplicate call sign %s", f.CallSign)
		}
		if err != nil {
			errs = append(errs, &airspace.ParseError{Line: lineno, Text: line, Err: err})
			continue
		}
		seen[f.CallSign] = true
		flights = append(flights, f)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading traffic: %w", err)
	}

	return flights, errors.Join(errs...)
}

func parseFlight(words []string, apt *airspace.Airport) (*aircraft.Flight, error) {
	if len(words) < 9 {
		return nil, fmt.Errorf("expected at least 9 fields, got %d", len(words))
	}

	mvt, ok := aircraft.ParseMovement(words[0])
	if !ok {
		return nil, fmt.Errorf("invalid movement %q", words[0])
	}
	cat, ok := airspace.ParseWakeCategory(words[2])
	if !ok {
		return nil, fmt.Errorf("invalid wake category %q", words[2])
	}
	stand, ok := apt.Point(words[3])
	if !ok {
		return nil, fmt.Errorf("unknown stand %q", words[3])
	}
	rwy, ok := apt.Runway(words[4])
	if !ok {
		return nil, fmt.Errorf("unknown QFU %q", words[4])
	}

	start, err := strconv.Atoi(words[5])
	if err != nil {
		return nil, fmt.Errorf("invalid start time %q", words[5])
	}
	rwyT, err := strconv.Atoi(words[6])
	if err != nil {
		return nil, fmt.Errorf("invalid runway time %q", words[6])
	}
	var slot *types.TimeStep
	if words[7] != "_" {
		s, err := strconv.Atoi(words[7])
		if err != nil {
			return nil, fmt.Errorf("invalid slot %q", words[7])
		}
		step := types.StepFromSeconds(s)
		slot = &step
	}

	route, err := airspace.ParsePoints(words[8:])
	if err != nil {
		return nil, fmt.Errorf("route: %w", err)
	}

	return aircraft.NewFlight(aircraft.FlightSpec{
		CallSign: types.CallSign(strings.ToUpper(words[1])),
		Movement: mvt,
		Cat:      cat,
		Stand:    stand,
		QFU:      words[4],
		Runway:   rwy,
		Start:    types.StepFromSeconds(start),
		RunwayT:  types.StepFromSeconds(rwyT),
		Slot:     slot,
		Route:    route,
	}), nil
}

// HourlyStats counts flights by the hour of day at which they start moving.
type HourlyStats struct {
	Arrivals   [24]int
	Departures [24]int
	Outside    int // flights starting before 00:00 or after 23:59:59
}

func Stats(flights []*aircraft.Flight) HourlyStats {
	var st HourlyStats
	for _, f := range flights {
		h := f.Start.Seconds() / 3600
		if f.Start < 0 || h >= 24 {
			st.Outside++
			continue
		}
		if f.Movement == aircraft.ARRIVAL {
			st.Arrivals[h]++
		} else {
			st.Departures[h]++
		}
	}
	return st
}

func (st HourlyStats) String() string {
	var sb strings.Builder
	for h := 0; h < 24; h++ {
		fmt.Fprintf(&sb, "%02dh00 - %3d arrivals, %3d departures\n", h, st.Arrivals[h], st.Departures[h])
	}
	return sb.String()
}
