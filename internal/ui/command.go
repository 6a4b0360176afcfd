package ui

import (
	"fmt"
	"strconv"
	"strings"

	"airport-simulator/internal/game/aircraft"
	"airport-simulator/pkg/types"
)

type CommandKind int

const (
	NEXT CommandKind = iota + 1
	BACK
	SET_TIME
	INCREMENT
	SEPARATION
	LIST
	CONFLICTS
	INFO
	FILTER
	HELP
	QUIT
)

var CommandKindStringMap = map[CommandKind]string{
	NEXT:       "next",
	BACK:       "back",
	SET_TIME:   "time",
	INCREMENT:  "increment",
	SEPARATION: "sep",
	LIST:       "ls",
	CONFLICTS:  "conflicts",
	INFO:       "info",
	FILTER:     "filter",
	HELP:       "help",
	QUIT:       "quit",
}

func (k CommandKind) String() string {
	if s, ok := CommandKindStringMap[k]; ok {
		return s
	}
	return "unknown"
}

// Command is a parsed console line. Only the fields relevant to Kind are
// set.
type Command struct {
	Kind       CommandKind
	Steps      types.TimeStep // NEXT, BACK, INCREMENT (signed)
	Time       types.TimeStep // SET_TIME
	Separation float64        // SEPARATION, metres
	CallSign   types.CallSign // INFO
	Filter     aircraft.Filter
}

const Help = `commands:
  n, next [k]        advance k steps (default 1)
  b, back [k]        go back k steps (default 1)
  t HH:MM:SS         jump to a time of day
  +k, -k             move the cursor by k steps
  sep <metres>       change the minimum separation
  ls                 list the active flights
  c, conflicts       list the anticipated conflicts
  i <callsign>       show a flight
  f [dep|arr] [slot|noslot] [rwy=<name>] [<callsign>]
                     list the flights matching all criteria
  h, help            show this help
  q, quit            leave the simulator`

func ParseCommand(line string) (Command, error) {
	words := strings.Fields(line)
	if len(words) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	name, args := strings.ToLower(words[0]), words[1:]

	if name[0] == '+' || name[0] == '-' {
		k, err := strconv.Atoi(name)
		if err != nil || len(args) > 0 {
			return Command{}, fmt.Errorf("invalid increment %q", line)
		}
		return Command{Kind: INCREMENT, Steps: types.TimeStep(k)}, nil
	}

	switch name {
	case "n", "next", "b", "back":
		k := 1
		if len(args) > 1 {
			return Command{}, fmt.Errorf("%s: too many arguments", name)
		}
		if len(args) == 1 {
			var err error
			if k, err = strconv.Atoi(args[0]); err != nil || k < 0 {
				return Command{}, fmt.Errorf("%s: invalid step count %q", name, args[0])
			}
		}
		if name[0] == 'n' {
			return Command{Kind: NEXT, Steps: types.TimeStep(k)}, nil
		}
		return Command{Kind: BACK, Steps: types.TimeStep(k)}, nil

	case "t", "time":
		if len(args) == 0 {
			return Command{}, fmt.Errorf("%s: missing time", name)
		}
		t, err := types.ParseHMS(strings.Join(args, " "))
		if err != nil {
			return Command{}, fmt.Errorf("%s: %w", name, err)
		}
		return Command{Kind: SET_TIME, Time: t}, nil

	case "sep":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("sep: expected one distance in metres")
		}
		d, err := strconv.ParseFloat(args[0], 64)
		if err != nil || d <= 0 {
			return Command{}, fmt.Errorf("sep: invalid distance %q", args[0])
		}
		return Command{Kind: SEPARATION, Separation: d}, nil

	case "ls":
		return Command{Kind: LIST}, nil

	case "c", "conflicts":
		return Command{Kind: CONFLICTS}, nil

	case "i", "info":
		if len(args) != 1 {
			return Command{}, fmt.Errorf("%s: expected one call sign", name)
		}
		return Command{Kind: INFO, CallSign: types.CallSign(strings.ToUpper(args[0]))}, nil

	case "f", "filter":
		f, err := ParseFilter(args)
		if err != nil {
			return Command{}, fmt.Errorf("%s: %w", name, err)
		}
		return Command{Kind: FILTER, Filter: f}, nil

	case "h", "help", "?":
		return Command{Kind: HELP}, nil

	case "q", "quit", "exit":
		return Command{Kind: QUIT}, nil
	}
	return Command{}, fmt.Errorf("unknown command %q", words[0])
}

// ParseFilter builds a flight filter from inspector criteria. Any word that
// is not a keyword is taken as a call sign fragment.
func ParseFilter(args []string) (aircraft.Filter, error) {
	var f aircraft.Filter
	for _, arg := range args {
		lower := strings.ToLower(arg)
		switch {
		case lower == "dep" || lower == "arr":
			mvt, _ := aircraft.ParseMovement(strings.ToUpper(lower))
			if f.Movement != 0 && f.Movement != mvt {
				return f, fmt.Errorf("conflicting movement criteria")
			}
			f.Movement = mvt
		case lower == "slot":
			f.Slot = aircraft.WITH_SLOT
		case lower == "noslot":
			f.Slot = aircraft.WITHOUT_SLOT
		case strings.HasPrefix(lower, "rwy="):
			f.Runway = arg[len("rwy="):]
			if f.Runway == "" {
				return f, fmt.Errorf("empty runway name")
			}
		default:
			if f.CallSign != "" {
				return f, fmt.Errorf("more than one call sign %q, %q", f.CallSign, arg)
			}
			f.CallSign = arg
		}
	}
	return f, nil
}
