package simulation

import (
	"strings"

	"airport-simulator/internal/game/conflict"
	"airport-simulator/pkg/types"
)

// Alert records flights that became conflicting when the cursor moved to
// Step.
type Alert struct {
	Step      types.TimeStep
	CallSigns []types.CallSign
}

func (a Alert) String() string {
	cs := make([]string, len(a.CallSigns))
	for i, c := range a.CallSigns {
		cs[i] = string(c)
	}
	return types.HMS(a.Step) + " " + strings.Join(cs, ", ")
}

func (s *Simulation) addAlert(t types.TimeStep, fresh conflict.Set) {
	alert := Alert{
		Step:      t,
		CallSigns: fresh.Sorted(),
	}
	s.Alerts = append(s.Alerts, alert)

	if len(s.Alerts) > s.maxAlertLogSize {
		s.Alerts = s.Alerts[len(s.Alerts)-s.maxAlertLogSize:]
	}

	s.lg.Warnf("CONFLICT ALERT: %s", alert)
	if s.observer != nil {
		s.observer.ObserveAlert(alert)
	}
}
