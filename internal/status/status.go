// Package status defines the read-only snapshot the supervisor
// exposes to HTTP handlers and MQTT heartbeats, plus its JSON
// envelopes. Displays poll snapshots; the core never pushes.
package status

import (
	"time"

	"github.com/prakoso/reactor-panel/internal/plant"
)

// LinkStatus is one node link's health as seen by the supervisor.
type LinkStatus struct {
	Name                string
	OK                  bool
	ConsecutiveFailures uint32
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs     int64
	HoldMs     int64
	ControlMs  int64
	SyncMs     int64
	DebounceMs int64
	Broker     string
	HTTPAddr   string
	Actuator   string
	Visualizer string
}

// Snapshot is a point-in-time view of the plant and daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Plant         plant.State
	Links         []LinkStatus
	QueueDepth    int
	MQTTConnected bool
	StartTime     time.Time
	Now           time.Time
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}
