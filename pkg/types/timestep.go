package types

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeStep indexes simulation time in units of STEP seconds.
type TimeStep int

const (
	STEP          = 5                // seconds per time step
	DAY  TimeStep = 24 * 3600 / STEP // one day, in time steps
)

// StepFromSeconds converts a number of seconds to a time step, rounding
// towards negative infinity.
func StepFromSeconds(seconds int) TimeStep {
	return TimeStep(floorDiv(seconds, STEP))
}

func (t TimeStep) Seconds() int {
	return int(t) * STEP
}

// HMS formats the time step as HH:MM:SS.
func HMS(t TimeStep) string {
	s := t.Seconds()
	sign := ""
	if s < 0 {
		sign, s = "-", -s
	}
	return fmt.Sprintf("%s%02d:%02d:%02d", sign, s/3600, s/60%60, s%60)
}

func (t TimeStep) String() string {
	return HMS(t)
}

// ParseHMS parses "HH:MM:SS" into a time step. Missing trailing fields are
// taken as zero, so "12" and "12:00" both mean noon.
func ParseHMS(str string) (TimeStep, error) {
	s := strings.TrimSpace(str)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	fields := strings.Fields(strings.ReplaceAll(s, ":", " "))
	if len(fields) == 0 || len(fields) > 3 {
		return 0, fmt.Errorf("%q: expected HH:MM:SS", str)
	}

	var hms [3]int
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("%q: invalid time field %q", str, f)
		}
		hms[i] = v
	}

	total := hms[0]*3600 + hms[1]*60 + hms[2]
	if neg {
		total = -total
	}
	return StepFromSeconds(total), nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
