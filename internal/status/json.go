package status

import (
	"encoding/json"
	"time"

	"github.com/prakoso/reactor-panel/internal/plant"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Started       bool         `json:"started"`
	Emergency     bool         `json:"emergency"`
	Alarm         string       `json:"alarm"`
	PressureBar   float64      `json:"pressure_bar"`
	Rods          []RodJSON    `json:"rods"`
	Pumps         []PumpJSON   `json:"pumps"`
	Turbine       TurbineJSON  `json:"turbine"`
	ThermalKW     float64      `json:"thermal_kw"`
	PowerMWe      float64      `json:"power_mwe"`
	Interlock     LockJSON     `json:"interlock"`
	Humidifiers   HumidJSON    `json:"humidifiers"`
	Links         []LinkJSON   `json:"links"`
	QueueDepth    int          `json:"queue_depth"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Config        ConfigJSON   `json:"config"`
}

// RodJSON is one control rod's target and reported position.
type RodJSON struct {
	Name   string `json:"name"`
	Target int    `json:"target"`
	Actual int    `json:"actual"`
}

// PumpJSON is one pump's machine state.
type PumpJSON struct {
	Name   string  `json:"name"`
	Status string  `json:"status"`
	Ramp   int     `json:"ramp"`
	Speed  float64 `json:"speed"`
}

// TurbineJSON is the secondary-system state.
type TurbineJSON struct {
	State string  `json:"state"`
	Speed float64 `json:"speed"`
	Level float64 `json:"power_level"`
}

// LockJSON reports the current interlock evaluation.
type LockJSON struct {
	Allowed bool     `json:"allowed"`
	Reasons []string `json:"reasons,omitempty"`
}

// HumidJSON reports humidifier commands and relay feedback.
type HumidJSON struct {
	SteamGenerator bool    `json:"steam_generator"`
	CoolingTower   bool    `json:"cooling_tower"`
	CTStatus       [4]bool `json:"ct_status"`
}

// LinkJSON is one node link's health.
type LinkJSON struct {
	Name     string `json:"name"`
	OK       bool   `json:"ok"`
	Failures uint32 `json:"consecutive_failures"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs     int64  `json:"poll_ms"`
	HoldMs     int64  `json:"hold_ms"`
	ControlMs  int64  `json:"control_ms"`
	SyncMs     int64  `json:"sync_ms"`
	DebounceMs int64  `json:"debounce_ms"`
	Broker     string `json:"broker"`
	HTTPAddr   string `json:"http_addr"`
	Actuator   string `json:"actuator_port"`
	Visualizer string `json:"visualizer_port"`
}

func buildInner(snap Snapshot) StatusInner {
	p := snap.Plant

	rods := make([]RodJSON, 0, int(plant.NumRods))
	for i := plant.RodID(0); i < plant.NumRods; i++ {
		rods = append(rods, RodJSON{Name: i.String(), Target: p.Rods[i].Target, Actual: p.Rods[i].Actual})
	}
	pumps := make([]PumpJSON, 0, int(plant.NumPumps))
	for i := plant.PumpID(0); i < plant.NumPumps; i++ {
		pumps = append(pumps, PumpJSON{
			Name:   i.String(),
			Status: p.Pumps[i].Status.String(),
			Ramp:   p.Pumps[i].Ramp,
			Speed:  p.Pumps[i].Speed,
		})
	}
	links := make([]LinkJSON, 0, len(snap.Links))
	for _, l := range snap.Links {
		links = append(links, LinkJSON{Name: l.Name, OK: l.OK, Failures: l.ConsecutiveFailures})
	}

	return StatusInner{
		Started:     p.Started,
		Emergency:   p.Emergency,
		Alarm:       p.Alarm.String(),
		PressureBar: p.Pressure,
		Rods:        rods,
		Pumps:       pumps,
		Turbine: TurbineJSON{
			State: p.Turbine.String(),
			Speed: p.TurbineSpeed,
			Level: p.PowerLevel,
		},
		ThermalKW: p.ThermalKW,
		PowerMWe:  p.PowerMWe,
		Interlock: LockJSON{Allowed: p.Interlock.Allowed, Reasons: p.Interlock.Reasons},
		Humidifiers: HumidJSON{
			SteamGenerator: p.HumidSG,
			CoolingTower:   p.HumidCT,
			CTStatus:       p.HumidCTStatus,
		},
		Links:         links,
		QueueDepth:    snap.QueueDepth,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Config: ConfigJSON{
			PollMs:     snap.Config.PollMs,
			HoldMs:     snap.Config.HoldMs,
			ControlMs:  snap.Config.ControlMs,
			SyncMs:     snap.Config.SyncMs,
			DebounceMs: snap.Config.DebounceMs,
			Broker:     snap.Config.Broker,
			HTTPAddr:   snap.Config.HTTPAddr,
			Actuator:   snap.Config.Actuator,
			Visualizer: snap.Config.Visualizer,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no
// event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
