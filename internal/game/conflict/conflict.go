package conflict

import (
	"sort"

	"airport-simulator/internal/game/aircraft"
	"airport-simulator/pkg/types"
)

const (
	MIN_SEPARATION  = 70.0             // metres
	ANTICIPATION_DT = 120 / types.STEP // time steps scanned ahead
)

// Config holds the detection parameters. It is passed explicitly to every
// detection call so that separate simulations never share settings.
type Config struct {
	Separation float64        // minimum distance between two flights (m)
	Horizon    types.TimeStep // forward window scanned by DetectIn
}

func DefaultConfig() Config {
	return Config{
		Separation: MIN_SEPARATION,
		Horizon:    ANTICIPATION_DT,
	}
}

// Conflicts reports whether a and b conflict at t under this config.
func (c Config) Conflicts(a, b *aircraft.Flight, t types.TimeStep) bool {
	return a.ConflictsWith(b, t, c.Separation)
}

// Pair records two conflicting flights and the first time step at which
// they conflict. A precedes B in the order of the flights given to the
// detector.
type Pair struct {
	A, B *aircraft.Flight
	Step types.TimeStep
}

// Set holds the call signs of the flights involved in at least one
// conflict.
type Set map[types.CallSign]struct{}

func (s Set) Add(cs types.CallSign) {
	s[cs] = struct{}{}
}

func (s Set) Contains(cs types.CallSign) bool {
	_, ok := s[cs]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

// Sorted returns the call signs in lexical order.
func (s Set) Sorted() []types.CallSign {
	cs := make([]types.CallSign, 0, len(s))
	for c := range s {
		cs = append(cs, c)
	}
	sort.Slice(cs, func(i, j int) bool { return cs[i] < cs[j] })
	return cs
}

// Diff returns the members of s that are not in other.
func (s Set) Diff(other Set) Set {
	d := make(Set)
	for c := range s {
		if !other.Contains(c) {
			d.Add(c)
		}
	}
	return d
}

func SetFromPairs(pairs []Pair) Set {
	s := make(Set)
	for _, p := range pairs {
		s.Add(p.A.CallSign)
		s.Add(p.B.CallSign)
	}
	return s
}

// SelectActive returns the flights that are moving at t, in their original
// order.
func SelectActive(flights []*aircraft.Flight, t types.TimeStep) []*aircraft.Flight {
	var active []*aircraft.Flight
	for _, f := range flights {
		if f.IsActive(t) {
			active = append(active, f)
		}
	}
	return active
}

// DetectPairs returns every pair of flights conflicting at t.
func DetectPairs(flights []*aircraft.Flight, t types.TimeStep, cfg Config) []Pair {
	var pairs []Pair
	for i := 0; i < len(flights); i++ {
		for j := i + 1; j < len(flights); j++ {
			if cfg.Conflicts(flights[i], flights[j], t) {
				pairs = append(pairs, Pair{A: flights[i], B: flights[j], Step: t})
			}
		}
	}
	return pairs
}

// Detect returns the set of flights involved in a conflict at t.
func Detect(flights []*aircraft.Flight, t types.TimeStep, cfg Config) Set {
	return SetFromPairs(DetectPairs(flights, t, cfg))
}

// DetectPairsIn returns every pair of flights that conflict at some step of
// [t1, t2], scanning only the steps where both flights are moving.
func DetectPairsIn(flights []*aircraft.Flight, t1, t2 types.TimeStep, cfg Config) []Pair {
	var pairs []Pair
	for i := 0; i < len(flights); i++ {
		for j := i + 1; j < len(flights); j++ {
			fi, fj := flights[i], flights[j]
			from := max(t1, fi.Start, fj.Start)
			to := min(t2, fi.End-1, fj.End-1)
			for s := from; s <= to; s++ {
				if cfg.Conflicts(fi, fj, s) {
					pairs = append(pairs, Pair{A: fi, B: fj, Step: s})
					break
				}
			}
		}
	}
	return pairs
}

// DetectIn returns the set of flights involved in a conflict at any step of
// [t1, t2].
func DetectIn(flights []*aircraft.Flight, t1, t2 types.TimeStep, cfg Config) Set {
	return SetFromPairs(DetectPairsIn(flights, t1, t2, cfg))
}
