package node

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/prakoso/reactor-panel/internal/frame"
	"github.com/prakoso/reactor-panel/internal/plant"
)

// Actuator command payload layout (10 bytes):
//
//	rod targets   3 × uint8  (0-100)
//	pump commands 3 × uint8  (PumpStatus wire values)
//	humidifiers   4 × uint8  (0/1: sg1, sg2, ct-pair-a, ct-pair-b)
//
// Telemetry payload layout (23 bytes, little endian):
//
//	rod actuals    3 × uint8
//	thermal power  float32 (kW)
//	power level    uint16  (percent × 100)
//	turbine state  uint8
//	turbine speed  uint16  (percent × 100)
//	pump speeds    3 × uint16 (percent × 100)
//	humid status   4 × uint8
//	reserved       1 byte
const (
	actuatorCmdLen   = 10
	actuatorTelemLen = 23
)

// ActuatorCommand is the outgoing projection of plant state for the
// actuator node.
type ActuatorCommand struct {
	RodTargets [plant.NumRods]int
	Pumps      [plant.NumPumps]plant.PumpStatus
	Humid      [4]bool
}

// ActuatorTelemetry is what the actuator node reports back.
type ActuatorTelemetry struct {
	RodActuals   [plant.NumRods]int
	ThermalKW    float64
	PowerLevel   float64
	Turbine      plant.TurbineState
	TurbineSpeed float64
	PumpSpeeds   [plant.NumPumps]float64
	HumidStatus  [4]bool
}

// Actuator is the proxy for the rods/pumps/relays node.
type Actuator struct {
	c Caller
}

// NewActuator creates a proxy over an established session.
func NewActuator(c Caller) *Actuator {
	return &Actuator{c: c}
}

// Ping probes node liveness with no side effects.
func (a *Actuator) Ping() error {
	return a.c.Ping()
}

// Update pushes the command and decodes the telemetry response. A
// link error is returned unchanged; the caller decides whether to
// retain last-known values.
func (a *Actuator) Update(cmd ActuatorCommand) (ActuatorTelemetry, error) {
	payload := make([]byte, 0, actuatorCmdLen)
	for _, t := range cmd.RodTargets {
		payload = append(payload, clampByte(t, plant.RodMax))
	}
	for _, p := range cmd.Pumps {
		payload = append(payload, byte(p))
	}
	for _, h := range cmd.Humid {
		payload = append(payload, boolByte(h))
	}

	resp, err := a.c.Call(frame.CmdUpdate, payload)
	if err != nil {
		return ActuatorTelemetry{}, err
	}
	return decodeActuatorTelemetry(resp)
}

func decodeActuatorTelemetry(p []byte) (ActuatorTelemetry, error) {
	if len(p) < actuatorTelemLen {
		return ActuatorTelemetry{}, fmt.Errorf("%w: got %d bytes, want %d", ErrShortResponse, len(p), actuatorTelemLen)
	}
	var t ActuatorTelemetry
	for i := 0; i < int(plant.NumRods); i++ {
		t.RodActuals[i] = int(p[i])
	}
	t.ThermalKW = float64(math.Float32frombits(binary.LittleEndian.Uint32(p[3:7])))
	t.PowerLevel = float64(binary.LittleEndian.Uint16(p[7:9])) / 100
	t.Turbine = plant.TurbineState(p[9])
	t.TurbineSpeed = float64(binary.LittleEndian.Uint16(p[10:12])) / 100
	for i := 0; i < int(plant.NumPumps); i++ {
		t.PumpSpeeds[i] = float64(binary.LittleEndian.Uint16(p[12+2*i:14+2*i])) / 100
	}
	for i := 0; i < 4; i++ {
		t.HumidStatus[i] = p[18+i] != 0
	}
	// p[22] reserved.
	return t, nil
}

func clampByte(v, max int) byte {
	if v < 0 {
		return 0
	}
	if v > max {
		return byte(max)
	}
	return byte(v)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
