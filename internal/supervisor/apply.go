package supervisor

import (
	"log"
	"strings"
	"time"

	"github.com/prakoso/reactor-panel/internal/input"
	"github.com/prakoso/reactor-panel/internal/mqtt"
	"github.com/prakoso/reactor-panel/internal/plant"
	"github.com/prakoso/reactor-panel/internal/telemetry"
)

// applyEvent mutates the state for one operator event and returns the
// events to announce. Called with the lock held; the returned slice
// is published after release.
func (s *Supervisor) applyEvent(e input.Event, now time.Time) []mqtt.Event {
	switch e.Kind {
	case input.PressureUp:
		s.state.AdjustPressure(e.Increment)
	case input.PressureDown:
		s.state.AdjustPressure(-e.Increment)

	case input.PumpPrimaryStart:
		return s.startPump(plant.PumpPrimary, now)
	case input.PumpPrimaryStop:
		return s.stopPump(plant.PumpPrimary, now)
	case input.PumpSecondaryStart:
		return s.startPump(plant.PumpSecondary, now)
	case input.PumpSecondaryStop:
		return s.stopPump(plant.PumpSecondary, now)
	case input.PumpTertiaryStart:
		return s.startPump(plant.PumpTertiary, now)
	case input.PumpTertiaryStop:
		return s.stopPump(plant.PumpTertiary, now)

	case input.SafetyRodUp:
		return s.raiseRod(plant.RodSafety, e.Increment, now)
	case input.ShimRodUp:
		return s.raiseRod(plant.RodShim, e.Increment, now)
	case input.RegulatingRodUp:
		return s.raiseRod(plant.RodRegulating, e.Increment, now)
	case input.SafetyRodDown:
		return s.lowerRod(plant.RodSafety, e.Increment, now)
	case input.ShimRodDown:
		return s.lowerRod(plant.RodShim, e.Increment, now)
	case input.RegulatingRodDown:
		return s.lowerRod(plant.RodRegulating, e.Increment, now)

	case input.ReactorStart:
		if s.state.Emergency {
			telemetry.InterlockDenials.WithLabelValues(plant.ReasonEmergency).Inc()
			return s.denial("REACTOR_START", plant.ReasonEmergency, now)
		}
		if !s.state.Started {
			s.state.Started = true
			log.Printf("reactor started")
			return []mqtt.Event{{Timestamp: now, Type: "REACTOR_STARTED", Retained: true}}
		}
	case input.ReactorStop:
		if s.state.Started {
			s.state.Started = false
			log.Printf("reactor stopped")
			return []mqtt.Event{{Timestamp: now, Type: "REACTOR_STOPPED", Retained: true}}
		}

	case input.Scram:
		s.state.Scram(now)
		telemetry.Scrams.Inc()
		log.Printf("SCRAM commanded")
		return []mqtt.Event{{Timestamp: now, Type: "SCRAM", Retained: true}}
	}
	return nil
}

func (s *Supervisor) startPump(id plant.PumpID, now time.Time) []mqtt.Event {
	before := s.state.Pumps[id].Status
	if reason := plant.StartPump(&s.state, id); reason != "" {
		telemetry.InterlockDenials.WithLabelValues(reason).Inc()
		return s.denial("PUMP_"+upperName(id), reason, now)
	}
	if before == s.state.Pumps[id].Status {
		return nil // command was a no-op
	}
	return []mqtt.Event{{
		Timestamp: now,
		Type:      "PUMP_" + upperName(id) + "_STARTING",
	}}
}

func (s *Supervisor) stopPump(id plant.PumpID, now time.Time) []mqtt.Event {
	before := s.state.Pumps[id].Status
	plant.StopPump(&s.state, id)
	if before == s.state.Pumps[id].Status {
		return nil
	}
	return []mqtt.Event{{
		Timestamp: now,
		Type:      "PUMP_" + upperName(id) + "_STOPPING",
	}}
}

func (s *Supervisor) raiseRod(rod plant.RodID, steps int, now time.Time) []mqtt.Event {
	res := plant.RaiseRod(&s.state, rod, steps)
	if res.Allowed {
		return nil
	}
	reason := res.Reason()
	telemetry.InterlockDenials.WithLabelValues(reason).Inc()
	log.Printf("rod %s raise denied: %s", rod, reason)
	return s.denial("ROD_"+upperName(rod)+"_UP", reason, now)
}

func (s *Supervisor) lowerRod(rod plant.RodID, steps int, now time.Time) []mqtt.Event {
	if plant.LowerRod(&s.state, rod, steps) {
		return nil
	}
	reason := "subordinate rods not at rest"
	telemetry.InterlockDenials.WithLabelValues("rod ordering").Inc()
	log.Printf("rod %s lower denied: %s", rod, reason)
	return s.denial("ROD_"+upperName(rod)+"_DOWN", reason, now)
}

// denial builds the rejected-command event. Denials are events too,
// so remote observers can tell a refused command from a dropped one.
func (s *Supervisor) denial(cmd, reason string, now time.Time) []mqtt.Event {
	return []mqtt.Event{{
		Timestamp: now,
		Type:      "DENIED",
		Detail:    cmd + ": " + reason,
	}}
}

// controlTick advances every time-driven machine one step and reports
// the edge transitions. Called with the lock held.
func (s *Supervisor) controlTick(now time.Time) []mqtt.Event {
	prevPumps := [plant.NumPumps]plant.PumpStatus{}
	for i := plant.PumpID(0); i < plant.NumPumps; i++ {
		prevPumps[i] = s.state.Pumps[i].Status
	}
	prevTurbine := s.state.Turbine
	prevAlarm := s.state.Alarm
	prevEmergency := s.state.Emergency

	plant.TickPumps(&s.state)
	plant.TickTurbine(&s.state)
	plant.TickHumidifiers(&s.state)
	s.state.TickAlarm()
	s.state.TickEmergency(now)
	s.state.Interlock = plant.CheckInterlock(&s.state)

	var out []mqtt.Event
	for i := plant.PumpID(0); i < plant.NumPumps; i++ {
		cur := s.state.Pumps[i].Status
		if cur == prevPumps[i] {
			continue
		}
		// Only the terminal states are worth announcing; STARTING and
		// STOPPING were announced when commanded.
		if cur == plant.PumpOn || cur == plant.PumpOff {
			out = append(out, mqtt.Event{
				Timestamp: now,
				Type:      "PUMP_" + upperName(i) + "_" + cur.String(),
			})
		}
	}
	if s.state.Turbine != prevTurbine {
		out = append(out, mqtt.Event{
			Timestamp: now,
			Type:      "TURBINE_" + s.state.Turbine.String(),
		})
		log.Printf("turbine %s -> %s", prevTurbine, s.state.Turbine)
	}
	if s.state.Alarm != prevAlarm {
		typ := "ALARM_" + s.state.Alarm.String()
		if s.state.Alarm == plant.AlarmNone {
			typ = "ALARM_CLEAR"
		}
		out = append(out, mqtt.Event{Timestamp: now, Type: typ, Retained: true})
		log.Printf("alarm %s -> %s (pressure %.1f)", prevAlarm, s.state.Alarm, s.state.Pressure)
	}
	if prevEmergency && !s.state.Emergency {
		out = append(out, mqtt.Event{Timestamp: now, Type: "EMERGENCY_CLEARED", Retained: true})
		log.Printf("emergency latch cleared")
	}
	return out
}

// upperName renders an enum name in event-type casing.
func upperName(v interface{ String() string }) string {
	return strings.ToUpper(v.String())
}
