// Package buttons provides panel push-button reading with hardware
// abstraction. The real implementation uses the Linux GPIO character
// device; the fake implementation allows testing without hardware.
package buttons

// Button identifies one of the seventeen logical panel buttons.
type Button int

const (
	PressureUp Button = iota
	PressureDown
	PumpPrimaryOn
	PumpPrimaryOff
	PumpSecondaryOn
	PumpSecondaryOff
	PumpTertiaryOn
	PumpTertiaryOff
	SafetyRodUp
	SafetyRodDown
	ShimRodUp
	ShimRodDown
	RegulatingRodUp
	RegulatingRodDown
	ReactorStart
	ReactorStop
	Emergency
	NumButtons
)

var buttonNames = [NumButtons]string{
	"Pressure UP", "Pressure DOWN",
	"Pump Primary ON", "Pump Primary OFF",
	"Pump Secondary ON", "Pump Secondary OFF",
	"Pump Tertiary ON", "Pump Tertiary OFF",
	"Safety Rod UP", "Safety Rod DOWN",
	"Shim Rod UP", "Shim Rod DOWN",
	"Regulating Rod UP", "Regulating Rod DOWN",
	"REACTOR START", "REACTOR STOP",
	"EMERGENCY",
}

func (b Button) String() string {
	if b < 0 || b >= NumButtons {
		return "unknown"
	}
	return buttonNames[b]
}

// Levels holds one sample of every button, true = pressed. The raw
// GPIO values are inverted: buttons pull the line to ground, so raw
// low = pressed.
type Levels [NumButtons]bool

// Reader reads the current level of every button line.
type Reader interface {
	// Read returns the logical (already inverted) state of all
	// buttons.
	Read() (Levels, error)

	// Close releases GPIO resources.
	Close() error
}

// DefaultPins maps each button to its BCM line on gpiochip0, matching
// the panel wiring loom.
var DefaultPins = [NumButtons]int{
	PressureUp:        24,
	PressureDown:      23,
	PumpPrimaryOn:     5,
	PumpPrimaryOff:    6,
	PumpSecondaryOn:   13,
	PumpSecondaryOff:  19,
	PumpTertiaryOn:    26,
	PumpTertiaryOff:   21,
	SafetyRodUp:       20,
	SafetyRodDown:     16,
	ShimRodUp:         12,
	ShimRodDown:       7,
	RegulatingRodUp:   8,
	RegulatingRodDown: 25,
	ReactorStart:      17,
	ReactorStop:       27,
	Emergency:         18,
}
