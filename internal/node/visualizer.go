package node

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/prakoso/reactor-panel/internal/frame"
)

// Visualizer command payload: thermal power as float32 kW (4 bytes).
// Telemetry payload: electrical power float32 MWe + uint8 PWM duty
// (5 bytes), both little endian.
const visualizerTelemLen = 5

// VisualizerTelemetry is the power indicator's echo of what it shows.
type VisualizerTelemetry struct {
	PowerMWe float64
	PWM      uint8
}

// Visualizer is the proxy for the LED power-indicator node.
type Visualizer struct {
	c Caller
}

// NewVisualizer creates a proxy over an established session.
func NewVisualizer(c Caller) *Visualizer {
	return &Visualizer{c: c}
}

// Ping probes node liveness.
func (v *Visualizer) Ping() error {
	return v.c.Ping()
}

// Update sends the thermal power reading and decodes the indicator's
// response.
func (v *Visualizer) Update(thermalKW float64) (VisualizerTelemetry, error) {
	payload := make([]byte, 4)
	binary.LittleEndian.PutUint32(payload, math.Float32bits(float32(thermalKW)))

	resp, err := v.c.Call(frame.CmdUpdate, payload)
	if err != nil {
		return VisualizerTelemetry{}, err
	}
	if len(resp) < visualizerTelemLen {
		return VisualizerTelemetry{}, fmt.Errorf("%w: got %d bytes, want %d", ErrShortResponse, len(resp), visualizerTelemLen)
	}
	return VisualizerTelemetry{
		PowerMWe: float64(math.Float32frombits(binary.LittleEndian.Uint32(resp[0:4]))),
		PWM:      resp[4],
	}, nil
}
