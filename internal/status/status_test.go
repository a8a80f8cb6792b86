package status

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/prakoso/reactor-panel/internal/plant"
)

func sampleSnapshot() Snapshot {
	var p plant.State
	p.Started = true
	p.Pressure = 55
	p.Rods[plant.RodShim] = plant.Rod{Target: 40, Actual: 38}
	p.Pumps[plant.PumpPrimary] = plant.Pump{Status: plant.PumpOn, Ramp: 100, Speed: 99.5}
	p.Turbine = plant.TurbineRunning
	p.TurbineSpeed = 100
	p.ThermalKW = 1250
	p.PowerMWe = 0.38
	p.Interlock = plant.InterlockResult{Allowed: true}
	p.HumidCT = true

	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	return Snapshot{
		Plant:         p,
		Links:         []LinkStatus{{Name: "actuator", OK: true}, {Name: "visualizer", OK: false, ConsecutiveFailures: 7}},
		QueueDepth:    2,
		MQTTConnected: true,
		StartTime:     start,
		Now:           start.Add(90 * time.Second),
		Config:        Config{PollMs: 10, Broker: "tcp://broker:1883"},
	}
}

func TestFormatJSON(t *testing.T) {
	var got StatusJSON
	if err := json.Unmarshal(FormatJSON(sampleSnapshot()), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	st := got.Status

	if st.Event != "" || st.Reason != "" {
		t.Errorf("web status must not carry event/reason: %q %q", st.Event, st.Reason)
	}
	if !st.Started || st.PressureBar != 55 {
		t.Errorf("plant basics: started=%v pressure=%v", st.Started, st.PressureBar)
	}
	if len(st.Rods) != int(plant.NumRods) {
		t.Fatalf("rods: got %d entries", len(st.Rods))
	}
	if st.Rods[1].Name != "shim" || st.Rods[1].Target != 40 || st.Rods[1].Actual != 38 {
		t.Errorf("shim rod: %+v", st.Rods[1])
	}
	if st.Pumps[0].Status != "ON" || st.Pumps[0].Speed != 99.5 {
		t.Errorf("primary pump: %+v", st.Pumps[0])
	}
	if st.Turbine.State != "RUNNING" {
		t.Errorf("turbine: %+v", st.Turbine)
	}
	if !st.Interlock.Allowed {
		t.Errorf("interlock: %+v", st.Interlock)
	}
	if !st.Humidifiers.CoolingTower || st.Humidifiers.SteamGenerator {
		t.Errorf("humidifiers: %+v", st.Humidifiers)
	}
	if len(st.Links) != 2 || st.Links[1].Failures != 7 {
		t.Errorf("links: %+v", st.Links)
	}
	if st.UptimeSeconds != 90 {
		t.Errorf("uptime: got %d, want 90", st.UptimeSeconds)
	}
	if st.StartTime != "2026-03-14T09:00:00Z" {
		t.Errorf("start time: %q", st.StartTime)
	}
	if !st.MQTT.Connected || st.MQTT.Broker != "tcp://broker:1883" {
		t.Errorf("mqtt: %+v", st.MQTT)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	var got StatusJSON
	if err := json.Unmarshal(FormatStatusEvent(sampleSnapshot(), "SHUTDOWN", "SIGTERM"), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Status.Event != "SHUTDOWN" || got.Status.Reason != "SIGTERM" {
		t.Errorf("event/reason: %q %q", got.Status.Event, got.Status.Reason)
	}
	if got.Status.PressureBar != 55 {
		t.Errorf("snapshot fields missing: %+v", got.Status)
	}
}

func TestInterlockReasonsOmittedWhenAllowed(t *testing.T) {
	data := FormatJSON(sampleSnapshot())
	var raw map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	var lock map[string]json.RawMessage
	if err := json.Unmarshal(raw["status"]["interlock"], &lock); err != nil {
		t.Fatalf("unmarshal interlock: %v", err)
	}
	if _, present := lock["reasons"]; present {
		t.Error("empty reasons list serialized")
	}
}
