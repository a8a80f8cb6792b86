// Package input turns raw button levels into discrete events on a
// bounded queue, decoupling input capture from state mutation. The
// producers never block and never touch the plant state lock.
package input

import "github.com/prakoso/reactor-panel/internal/buttons"

// Kind tags one discrete operator action.
type Kind int

const (
	PressureUp Kind = iota
	PressureDown
	PumpPrimaryStart
	PumpPrimaryStop
	PumpSecondaryStart
	PumpSecondaryStop
	PumpTertiaryStart
	PumpTertiaryStop
	SafetyRodUp
	SafetyRodDown
	ShimRodUp
	ShimRodDown
	RegulatingRodUp
	RegulatingRodDown
	ReactorStart
	ReactorStop
	Scram
	numKinds
)

var kindNames = [numKinds]string{
	"pressure_up", "pressure_down",
	"pump_primary_start", "pump_primary_stop",
	"pump_secondary_start", "pump_secondary_stop",
	"pump_tertiary_start", "pump_tertiary_stop",
	"safety_rod_up", "safety_rod_down",
	"shim_rod_up", "shim_rod_down",
	"regulating_rod_up", "regulating_rod_down",
	"reactor_start", "reactor_stop",
	"scram",
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "unknown"
	}
	return kindNames[k]
}

// Event is one immutable operator action. Increment is the number of
// steps to apply for the incremental kinds (pressure, rods); it is 1
// for a press and for each hold repeat.
type Event struct {
	Kind      Kind
	Increment int
}

// kindFor maps a physical button to its event kind. The mapping is
// one to one by construction.
var kindFor = [buttons.NumButtons]Kind{
	buttons.PressureUp:        PressureUp,
	buttons.PressureDown:      PressureDown,
	buttons.PumpPrimaryOn:     PumpPrimaryStart,
	buttons.PumpPrimaryOff:    PumpPrimaryStop,
	buttons.PumpSecondaryOn:   PumpSecondaryStart,
	buttons.PumpSecondaryOff:  PumpSecondaryStop,
	buttons.PumpTertiaryOn:    PumpTertiaryStart,
	buttons.PumpTertiaryOff:   PumpTertiaryStop,
	buttons.SafetyRodUp:       SafetyRodUp,
	buttons.SafetyRodDown:     SafetyRodDown,
	buttons.ShimRodUp:         ShimRodUp,
	buttons.ShimRodDown:       ShimRodDown,
	buttons.RegulatingRodUp:   RegulatingRodUp,
	buttons.RegulatingRodDown: RegulatingRodDown,
	buttons.ReactorStart:      ReactorStart,
	buttons.ReactorStop:       ReactorStop,
	buttons.Emergency:         Scram,
}

// holdRepeat marks the buttons that keep firing while held: the
// incremental setpoint controls. Switch-like buttons fire once per
// press only.
var holdRepeat = [buttons.NumButtons]bool{
	buttons.PressureUp:        true,
	buttons.PressureDown:      true,
	buttons.SafetyRodUp:       true,
	buttons.SafetyRodDown:     true,
	buttons.ShimRodUp:         true,
	buttons.ShimRodDown:       true,
	buttons.RegulatingRodUp:   true,
	buttons.RegulatingRodDown: true,
}
