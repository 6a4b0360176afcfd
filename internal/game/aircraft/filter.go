package aircraft

import "strings"

type SlotFilter int

const (
	ANY_SLOT SlotFilter = iota
	WITH_SLOT
	WITHOUT_SLOT
)

// Filter selects flights the way the flight inspector does; zero values
// match everything and the criteria intersect.
type Filter struct {
	Slot     SlotFilter
	Movement Movement // 0 for any
	Runway   string   // runway name, "" for any
	CallSign string   // case-insensitive substring
}

func (fl Filter) Match(f *Flight) bool {
	switch fl.Slot {
	case WITH_SLOT:
		if f.Slot == nil {
			return false
		}
	case WITHOUT_SLOT:
		if f.Slot != nil {
			return false
		}
	}
	if fl.Movement != 0 && f.Movement != fl.Movement {
		return false
	}
	if fl.Runway != "" && (f.Runway == nil || f.Runway.Name != fl.Runway) {
		return false
	}
	if fl.CallSign != "" && !strings.Contains(strings.ToUpper(string(f.CallSign)), strings.ToUpper(fl.CallSign)) {
		return false
	}
	return true
}

func (fl Filter) Apply(flights []*Flight) []*Flight {
	var filtered []*Flight
	for _, f := range flights {
		if fl.Match(f) {
			filtered = append(filtered, f)
		}
	}
	return filtered
}
