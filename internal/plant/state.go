// Package plant contains pure control logic for the reactor panel:
// the shared plant state, the safety interlocks, and the pump and
// turbine state machines. This package has NO external dependencies
// (no GPIO, serial, MQTT, or time.Sleep). Time is always injectable
// via time.Time parameters.
package plant

import "time"

// Operating limits and steps, taken from the physical panel tuning.
const (
	PressureMin  = 0.0
	PressureMax  = 200.0
	PressureStep = 5.0

	// InterlockMinPressure is the pressurizer threshold below which
	// rod withdrawal and the primary pump are refused.
	InterlockMinPressure = 40.0

	PressureWarning  = 160.0
	PressureCritical = 180.0

	RodMin  = 0
	RodMax  = 100
	RodStep = 5

	RampUpStep   = 10
	RampDownStep = 5

	// Turbine hysteresis bands on thermal power.
	TurbineStartKW = 800.0
	TurbineStopKW  = 500.0

	// Steam generator humidifiers follow the shim/regulating rods.
	HumidSGRodThreshold = 40
	HumidSGHysteresis   = 5

	// Cooling tower humidifiers follow thermal power.
	HumidCTThermalKW  = 800.0
	HumidCTHysteresis = 100.0

	// ScramDwell is how long the emergency flag stays latched before
	// normal gating resumes.
	ScramDwell = 10 * time.Second
)

// RodID identifies a control rod.
type RodID int

const (
	RodSafety RodID = iota
	RodShim
	RodRegulating
	NumRods
)

func (r RodID) String() string {
	switch r {
	case RodSafety:
		return "safety"
	case RodShim:
		return "shim"
	case RodRegulating:
		return "regulating"
	}
	return "unknown"
}

// PumpID identifies a coolant pump.
type PumpID int

const (
	PumpPrimary PumpID = iota
	PumpSecondary
	PumpTertiary
	NumPumps
)

func (p PumpID) String() string {
	switch p {
	case PumpPrimary:
		return "primary"
	case PumpSecondary:
		return "secondary"
	case PumpTertiary:
		return "tertiary"
	}
	return "unknown"
}

// PumpStatus is the pump ramp state machine's state. The numeric
// values are the ones sent on the wire.
type PumpStatus uint8

const (
	PumpOff PumpStatus = iota
	PumpStarting
	PumpOn
	PumpStopping
)

func (s PumpStatus) String() string {
	switch s {
	case PumpOff:
		return "OFF"
	case PumpStarting:
		return "STARTING"
	case PumpOn:
		return "ON"
	case PumpStopping:
		return "STOPPING"
	}
	return "UNKNOWN"
}

// TurbineState mirrors the secondary-system state machine reported by
// the actuator node. Wire values match.
type TurbineState uint8

const (
	TurbineIdle TurbineState = iota
	TurbineStarting
	TurbineRunning
	TurbineShuttingDown
)

func (s TurbineState) String() string {
	switch s {
	case TurbineIdle:
		return "IDLE"
	case TurbineStarting:
		return "STARTING"
	case TurbineRunning:
		return "RUNNING"
	case TurbineShuttingDown:
		return "SHUTTING_DOWN"
	}
	return "UNKNOWN"
}

// AlarmLevel is derived from pressure each control tick.
type AlarmLevel int

const (
	AlarmNone AlarmLevel = iota
	AlarmWarning
	AlarmCritical
)

func (a AlarmLevel) String() string {
	switch a {
	case AlarmWarning:
		return "WARNING"
	case AlarmCritical:
		return "CRITICAL"
	}
	return "NONE"
}

// Rod pairs an operator target with the last actual position reported
// by the actuator node.
type Rod struct {
	Target int
	Actual int
}

// Pump is one pump's machine state. Ramp is the PWM percentage being
// walked toward 0 or 100.
type Pump struct {
	Status PumpStatus
	Ramp   int
	Speed  float64 // last reported by the actuator node
}

// State is the single mutable record for the whole plant. It is owned
// by the supervisor and guarded by its lock; this package only ever
// manipulates it through an explicit pointer, never ambient globals.
// The zero value is the cold, everything-off plant.
type State struct {
	Started  bool
	Pressure float64

	Rods  [NumRods]Rod
	Pumps [NumPumps]Pump

	Turbine      TurbineState
	TurbineSpeed float64

	// Telemetry last merged from the nodes.
	ThermalKW  float64
	PowerLevel float64
	PowerMWe   float64
	PWM        uint8

	// Humidifier commands (with hysteresis memory) and reported
	// relay status.
	HumidSG       bool
	HumidCT       bool
	HumidCTStatus [4]bool

	Emergency      bool
	EmergencyUntil time.Time

	Alarm AlarmLevel

	// Interlock is the most recently computed result, refreshed each
	// control tick so displays see why movement is blocked.
	Interlock InterlockResult
}

// clampRod bounds a rod target.
func clampRod(v int) int {
	if v < RodMin {
		return RodMin
	}
	if v > RodMax {
		return RodMax
	}
	return v
}

// clampPressure bounds the pressurizer setpoint.
func clampPressure(v float64) float64 {
	if v < PressureMin {
		return PressureMin
	}
	if v > PressureMax {
		return PressureMax
	}
	return v
}

// AdjustPressure moves the pressurizer setpoint by delta steps.
func (s *State) AdjustPressure(steps int) {
	s.Pressure = clampPressure(s.Pressure + float64(steps)*PressureStep)
}

// Scram is the emergency stop: all rod targets to rest, all pumps
// commanded down, emergency latched for the dwell period. It is never
// gated by any interlock.
func (s *State) Scram(now time.Time) {
	for i := range s.Rods {
		s.Rods[i].Target = RodMin
	}
	for i := range s.Pumps {
		if s.Pumps[i].Status == PumpOn || s.Pumps[i].Status == PumpStarting {
			s.Pumps[i].Status = PumpStopping
		}
	}
	s.Started = false
	s.Emergency = true
	s.EmergencyUntil = now.Add(ScramDwell)
}

// TickEmergency clears the emergency latch once the dwell elapses.
func (s *State) TickEmergency(now time.Time) {
	if s.Emergency && !now.Before(s.EmergencyUntil) {
		s.Emergency = false
	}
}

// TickAlarm rederives the alarm level from pressure.
func (s *State) TickAlarm() {
	switch {
	case s.Pressure >= PressureCritical:
		s.Alarm = AlarmCritical
	case s.Pressure >= PressureWarning:
		s.Alarm = AlarmWarning
	default:
		s.Alarm = AlarmNone
	}
}
