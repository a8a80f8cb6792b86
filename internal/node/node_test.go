package node

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/prakoso/reactor-panel/internal/frame"
	"github.com/prakoso/reactor-panel/internal/plant"
)

// fakeCaller records the last call and returns a scripted response.
type fakeCaller struct {
	cmd     byte
	payload []byte
	resp    []byte
	err     error
	pinged  bool
}

func (f *fakeCaller) Call(cmd byte, payload []byte) ([]byte, error) {
	f.cmd = cmd
	f.payload = append([]byte(nil), payload...)
	return f.resp, f.err
}

func (f *fakeCaller) Ping() error {
	f.pinged = true
	return f.err
}

// telemetryBytes builds a valid 23-byte actuator telemetry payload.
func telemetryBytes(rods [3]byte, thermalKW float32, powerLevel uint16, turbine byte, turbineSpeed uint16, pumps [3]uint16, humid [4]byte) []byte {
	p := make([]byte, 23)
	copy(p[0:3], rods[:])
	binary.LittleEndian.PutUint32(p[3:7], math.Float32bits(thermalKW))
	binary.LittleEndian.PutUint16(p[7:9], powerLevel)
	p[9] = turbine
	binary.LittleEndian.PutUint16(p[10:12], turbineSpeed)
	for i, s := range pumps {
		binary.LittleEndian.PutUint16(p[12+2*i:14+2*i], s)
	}
	copy(p[18:22], humid[:])
	return p
}

func TestActuatorUpdateEncodesCommand(t *testing.T) {
	fc := &fakeCaller{resp: telemetryBytes([3]byte{}, 0, 0, 0, 0, [3]uint16{}, [4]byte{})}
	a := NewActuator(fc)

	_, err := a.Update(ActuatorCommand{
		RodTargets: [plant.NumRods]int{80, 55, 30},
		Pumps:      [plant.NumPumps]plant.PumpStatus{plant.PumpOn, plant.PumpStarting, plant.PumpOff},
		Humid:      [4]bool{true, true, false, true},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if fc.cmd != frame.CmdUpdate {
		t.Errorf("cmd: got %#x, want %#x", fc.cmd, frame.CmdUpdate)
	}
	want := []byte{80, 55, 30, 2, 1, 0, 1, 1, 0, 1}
	if len(fc.payload) != len(want) {
		t.Fatalf("payload length: got %d, want %d", len(fc.payload), len(want))
	}
	for i := range want {
		if fc.payload[i] != want[i] {
			t.Errorf("payload[%d]: got %d, want %d", i, fc.payload[i], want[i])
		}
	}
}

func TestActuatorUpdateClampsRodTargets(t *testing.T) {
	fc := &fakeCaller{resp: telemetryBytes([3]byte{}, 0, 0, 0, 0, [3]uint16{}, [4]byte{})}
	a := NewActuator(fc)

	_, err := a.Update(ActuatorCommand{RodTargets: [plant.NumRods]int{-5, 150, 100}})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if fc.payload[0] != 0 || fc.payload[1] != 100 || fc.payload[2] != 100 {
		t.Errorf("rod bytes: got %v, want [0 100 100]", fc.payload[:3])
	}
}

func TestActuatorUpdateDecodesTelemetry(t *testing.T) {
	fc := &fakeCaller{resp: telemetryBytes(
		[3]byte{78, 52, 31},
		1234.5,
		7550, // 75.50%
		byte(plant.TurbineRunning),
		10000, // 100.00%
		[3]uint16{10000, 9025, 0},
		[4]byte{1, 1, 0, 0},
	)}
	a := NewActuator(fc)

	tel, err := a.Update(ActuatorCommand{})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if tel.RodActuals != [plant.NumRods]int{78, 52, 31} {
		t.Errorf("rod actuals: got %v", tel.RodActuals)
	}
	if tel.ThermalKW != 1234.5 {
		t.Errorf("thermal: got %v, want 1234.5", tel.ThermalKW)
	}
	if tel.PowerLevel != 75.5 {
		t.Errorf("power level: got %v, want 75.5", tel.PowerLevel)
	}
	if tel.Turbine != plant.TurbineRunning {
		t.Errorf("turbine: got %v, want RUNNING", tel.Turbine)
	}
	if tel.TurbineSpeed != 100 {
		t.Errorf("turbine speed: got %v, want 100", tel.TurbineSpeed)
	}
	if tel.PumpSpeeds != [plant.NumPumps]float64{100, 90.25, 0} {
		t.Errorf("pump speeds: got %v", tel.PumpSpeeds)
	}
	if tel.HumidStatus != [4]bool{true, true, false, false} {
		t.Errorf("humid status: got %v", tel.HumidStatus)
	}
}

func TestActuatorUpdateShortResponse(t *testing.T) {
	fc := &fakeCaller{resp: make([]byte, 10)}
	a := NewActuator(fc)
	if _, err := a.Update(ActuatorCommand{}); !errors.Is(err, ErrShortResponse) {
		t.Fatalf("got %v, want ErrShortResponse", err)
	}
}

func TestActuatorUpdatePropagatesLinkError(t *testing.T) {
	linkErr := errors.New("node unresponsive")
	fc := &fakeCaller{err: linkErr}
	a := NewActuator(fc)
	if _, err := a.Update(ActuatorCommand{}); !errors.Is(err, linkErr) {
		t.Fatalf("got %v, want the link error", err)
	}
}

func TestVisualizerUpdate(t *testing.T) {
	resp := make([]byte, 5)
	binary.LittleEndian.PutUint32(resp[0:4], math.Float32bits(0.42))
	resp[4] = 107
	fc := &fakeCaller{resp: resp}
	v := NewVisualizer(fc)

	tel, err := v.Update(1400)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if fc.cmd != frame.CmdUpdate || len(fc.payload) != 4 {
		t.Fatalf("sent cmd %#x with %d bytes", fc.cmd, len(fc.payload))
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(fc.payload)); got != 1400 {
		t.Errorf("sent thermal: got %v, want 1400", got)
	}
	if tel.PWM != 107 {
		t.Errorf("PWM: got %d, want 107", tel.PWM)
	}
	if float32(tel.PowerMWe) != 0.42 {
		t.Errorf("PowerMWe: got %v, want 0.42", tel.PowerMWe)
	}
}

func TestVisualizerShortResponse(t *testing.T) {
	fc := &fakeCaller{resp: []byte{1, 2}}
	v := NewVisualizer(fc)
	if _, err := v.Update(0); !errors.Is(err, ErrShortResponse) {
		t.Fatalf("got %v, want ErrShortResponse", err)
	}
}

func TestPingDelegates(t *testing.T) {
	fc := &fakeCaller{}
	if err := NewActuator(fc).Ping(); err != nil || !fc.pinged {
		t.Errorf("actuator ping: err=%v pinged=%v", err, fc.pinged)
	}
	fc2 := &fakeCaller{}
	if err := NewVisualizer(fc2).Ping(); err != nil || !fc2.pinged {
		t.Errorf("visualizer ping: err=%v pinged=%v", err, fc2.pinged)
	}
}
