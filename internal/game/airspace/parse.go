package airspace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"airport-simulator/pkg/types"
)

// ParseError describes a rejected line of an airport or traffic file.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParsePoint parses an "x,y" coordinate pair.
func ParsePoint(s string) (types.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return types.Point{}, fmt.Errorf("%q: expected x,y", s)
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return types.Point{}, fmt.Errorf("%q: invalid x: %w", s, err)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return types.Point{}, fmt.Errorf("%q: invalid y: %w", s, err)
	}
	return types.NewPoint(float64(x), float64(y)), nil
}

func ParsePoints(fields []string) ([]types.Point, error) {
	pts := make([]types.Point, 0, len(fields))
	for _, f := range fields {
		p, err := ParsePoint(f)
		if err != nil {
			return nil, err
		}
		pts = append(pts, p)
	}
	return pts, nil
}

var pointKinds = []types.PointKind{types.STAND, types.DEICING, types.RUNWAY_POINT}

// Parse reads an airport description. The first line holds the airport
// name; each following line describes a named point (P), a taxiway (L) or
// a runway (R). Malformed lines are skipped and returned, joined, as the
// error alongside the airport built from the valid ones.
func Parse(r io.Reader) (*Airport, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading airport name: %w", err)
		}
		return nil, errors.New("empty airport description")
	}
	name := strings.TrimSpace(scanner.Text())

	var points []*types.NamedPoint
	var taxiways []*Taxiway
	var runways []*Runway
	var errs []error

	lineno := 1
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		var err error
		switch words[0] {
		case "P":
			var p *types.NamedPoint
			if p, err = parseNamedPoint(words); err == nil {
				points = append(points, p)
			}
		case "L":
			var tw *Taxiway
			if tw, err = parseTaxiway(words); err == nil {
				taxiways = append(taxiways, tw)
			}
		case "R":
			var rwy *Runway
			if rwy, err = parseRunway(words); err == nil {
				runways = append(runways, rwy)
			}
		default:
			err = fmt.Errorf("unknown record type %q", words[0])
		}
		if err != nil {
			errs = append(errs, &ParseError{Line: lineno, Text: line, Err: err})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading airport description: %w", err)
	}

	return NewAirport(name, points, taxiways, runways), errors.Join(errs...)
}

// P <name> <kind> <x>,<y>
func parseNamedPoint(words []string) (*types.NamedPoint, error) {
	if len(words) != 4 {
		return nil, fmt.Errorf("point: expected 4 fields, got %d", len(words))
	}
	k, err := strconv.Atoi(words[2])
	if err != nil || k < 0 || k >= len(pointKinds) {
		return nil, fmt.Errorf("point: invalid type %q", words[2])
	}
	pos, err := ParsePoint(words[3])
	if err != nil {
		return nil, fmt.Errorf("point: %w", err)
	}
	return &types.NamedPoint{Name: words[1], Kind: pointKinds[k], Position: pos}, nil
}

// L <name> <speed> <cat> <S|D> <x>,<y> ...
func parseTaxiway(words []string) (*Taxiway, error) {
	if len(words) < 7 {
		return nil, fmt.Errorf("taxiway: expected at least two coordinates")
	}
	speed, err := strconv.Atoi(words[2])
	if err != nil {
		return nil, fmt.Errorf("taxiway: invalid speed %q", words[2])
	}
	cat, ok := ParseWakeCategory(words[3])
	if !ok {
		return nil, fmt.Errorf("taxiway: invalid category %q", words[3])
	}
	coords, err := ParsePoints(words[5:])
	if err != nil {
		return nil, fmt.Errorf("taxiway: %w", err)
	}
	return NewTaxiway(words[1], speed, cat, words[4] == "S", coords), nil
}

// R <name> <qfu1> <qfu2> <pt>,<pt>,... <x>,<y> <x>,<y>
func parseRunway(words []string) (*Runway, error) {
	if len(words) != 7 {
		return nil, fmt.Errorf("runway: expected 7 fields, got %d", len(words))
	}
	ends, err := ParsePoints(words[5:])
	if err != nil {
		return nil, fmt.Errorf("runway: %w", err)
	}
	return NewRunway(words[1], words[2], words[3], ends[0], ends[1], strings.Split(words[4], ",")), nil
}
