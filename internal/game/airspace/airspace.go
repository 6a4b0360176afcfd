package airspace

import (
	"fmt"

	"airport-simulator/pkg/types"
)

type Airport struct {
	Name     string
	Points   []*types.NamedPoint
	Taxiways []*Taxiway
	Runways  []*Runway

	pointsByName map[string]*types.NamedPoint
	runwaysByQFU map[string]*Runway
}

func NewAirport(name string, points []*types.NamedPoint, taxiways []*Taxiway, runways []*Runway) *Airport {
	ap := &Airport{
		Name:         name,
		Points:       points,
		Taxiways:     taxiways,
		Runways:      runways,
		pointsByName: make(map[string]*types.NamedPoint),
		runwaysByQFU: make(map[string]*Runway),
	}

	for _, p := range points {
		ap.pointsByName[p.Name] = p
	}
	for _, rwy := range runways {
		for _, qfu := range rwy.QFUs {
			ap.runwaysByQFU[qfu] = rwy
		}
	}
	return ap
}

func (ap *Airport) Point(name string) (*types.NamedPoint, bool) {
	p, ok := ap.pointsByName[name]
	return p, ok
}

// Runway returns the runway one of whose ends is designated by qfu.
func (ap *Airport) Runway(qfu string) (*Runway, bool) {
	rwy, ok := ap.runwaysByQFU[qfu]
	return rwy, ok
}

func (ap *Airport) RunwayByName(name string) (*Runway, bool) {
	for _, rwy := range ap.Runways {
		if rwy.Name == name {
			return rwy, true
		}
	}
	return nil, false
}

func (ap *Airport) Stands() []*types.NamedPoint {
	var stands []*types.NamedPoint
	for _, p := range ap.Points {
		if p.Kind == types.STAND {
			stands = append(stands, p)
		}
	}
	return stands
}

func (ap *Airport) String() string {
	return fmt.Sprintf("%s: %d runways, %d parking stands", ap.Name, len(ap.Runways), len(ap.Stands()))
}
