package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"airport-simulator/internal/game/aircraft"
	"airport-simulator/internal/game/simulation"
	"airport-simulator/pkg/types"

	"github.com/labstack/gommon/log"
)

// Console drives a simulation from text commands and prints the results.
type Console struct {
	Input *TextInput

	sim  *simulation.Simulation
	out  io.Writer
	lock sync.Locker
	lg   *log.Logger
}

// NewConsole reads commands from r and writes to w. lock, when not nil, is
// held while a command runs so the simulation can be shared with other
// front ends.
func NewConsole(sim *simulation.Simulation, r io.Reader, w io.Writer, lock sync.Locker, lg *log.Logger) *Console {
	c := &Console{sim: sim, out: w, lock: lock, lg: lg}
	c.Input = NewTextInput(r, w, "> ", c.submit)
	return c
}

func (c *Console) Run() error {
	c.withLock(c.printStatus)
	return c.Input.Run()
}

func (c *Console) submit(line string) {
	cmd, err := ParseCommand(line)
	if err != nil {
		fmt.Fprintf(c.out, "error: %v (h for help)\n", err)
		return
	}
	if !c.Execute(cmd) {
		c.Input.IsActive = false
	}
}

// Execute runs cmd and reports whether the console should keep reading.
func (c *Console) Execute(cmd Command) bool {
	if cmd.Kind == QUIT {
		return false
	}
	c.withLock(func() {
		c.execute(cmd)
	})
	return true
}

func (c *Console) execute(cmd Command) {
	switch cmd.Kind {
	case NEXT:
		c.sim.IncrementTime(cmd.Steps)
		c.printStatus()
	case BACK:
		c.sim.IncrementTime(-cmd.Steps)
		c.printStatus()
	case INCREMENT:
		c.sim.IncrementTime(cmd.Steps)
		c.printStatus()
	case SET_TIME:
		c.sim.SetTime(cmd.Time)
		c.printStatus()
	case SEPARATION:
		cfg := c.sim.Config()
		cfg.Separation = cmd.Separation
		c.sim.SetConfig(cfg)
		if c.lg != nil {
			c.lg.Infof("separation set to %.0f m", cmd.Separation)
		}
		c.printStatus()
	case LIST:
		c.printFlights(c.sim.Active())
	case CONFLICTS:
		c.printConflicts()
	case INFO:
		f, ok := c.sim.Flight(cmd.CallSign)
		if !ok {
			fmt.Fprintf(c.out, "unknown flight %s\n", cmd.CallSign)
			return
		}
		c.printFlight(f)
	case FILTER:
		flights := cmd.Filter.Apply(c.sim.Flights())
		for _, f := range flights {
			fmt.Fprintln(c.out, Describe(f))
		}
		fmt.Fprintf(c.out, "%d/%d flights\n", len(flights), len(c.sim.Flights()))
	case HELP:
		fmt.Fprintln(c.out, Help)
	}
}

func (c *Console) withLock(fn func()) {
	if c.lock != nil {
		c.lock.Lock()
		defer c.lock.Unlock()
	}
	fn()
}

func (c *Console) printStatus() {
	conflicts := c.sim.Conflicts()
	fmt.Fprintf(c.out, "%s (step %d): %d active, %d conflicting",
		types.HMS(c.sim.Time()), c.sim.Time(), len(c.sim.Active()), conflicts.Len())
	if conflicts.Len() > 0 {
		fmt.Fprintf(c.out, " %s", joinCallSigns(conflicts.Sorted()))
	}
	fmt.Fprintln(c.out)
}

func (c *Console) printFlights(flights []*aircraft.Flight) {
	t := c.sim.Time()
	for _, f := range flights {
		mark := ""
		if c.sim.IsConflicting(f.CallSign) {
			mark = " !"
		}
		pos, err := f.Position(t)
		if err != nil {
			continue
		}
		fmt.Fprintf(c.out, "%-8s %s %-4s (%6.0f, %6.0f)%s\n", f.CallSign, f.Movement, f.QFU, pos.X, pos.Y, mark)
	}
}

func (c *Console) printConflicts() {
	pairs := c.sim.Pairs()
	if len(pairs) == 0 {
		fmt.Fprintln(c.out, "no conflict")
		return
	}
	for _, p := range pairs {
		fmt.Fprintf(c.out, "%s - %s at %s (in %d steps)\n", p.A.CallSign, p.B.CallSign, types.HMS(p.Step), p.Step-c.sim.Time())
	}
}

func (c *Console) printFlight(f *aircraft.Flight) {
	fmt.Fprintln(c.out, Describe(f))
	if pos, err := f.Position(c.sim.Time()); err == nil {
		fmt.Fprintf(c.out, "  position (%.0f, %.0f)", pos.X, pos.Y)
		if c.sim.IsConflicting(f.CallSign) {
			fmt.Fprint(c.out, " CONFLICT")
		}
		fmt.Fprintln(c.out)
	} else {
		fmt.Fprintln(c.out, "  not moving")
	}
}

// Describe is the one-line summary used by the inspector.
func Describe(f *aircraft.Flight) string {
	slot := "-"
	if f.Slot != nil {
		slot = types.HMS(*f.Slot)
	}
	stand := "-"
	if f.Stand != nil {
		stand = f.Stand.Name
	}
	return fmt.Sprintf("%-8s %s %s stand=%s qfu=%s %s-%s rwy=%s slot=%s",
		f.CallSign, f.Movement, f.Cat, stand, f.QFU,
		types.HMS(f.Start), types.HMS(f.End), types.HMS(f.RunwayT), slot)
}

func joinCallSigns(cs []types.CallSign) string {
	s := make([]string, len(cs))
	for i, c := range cs {
		s[i] = string(c)
	}
	return strings.Join(s, ", ")
}
