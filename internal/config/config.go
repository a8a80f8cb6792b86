// Package config loads the daemon's environment defaults. Flags in
// main override these, so deployments can set PANEL_* once in the
// unit file and still tweak a single run from the command line.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable the daemon accepts.
type Config struct {
	ActuatorDevice   string        `env:"PANEL_ACTUATOR_DEV" envDefault:"/dev/ttyAMA0"`
	VisualizerDevice string        `env:"PANEL_VISUALIZER_DEV" envDefault:"/dev/ttyAMA3"`
	Baud             int           `env:"PANEL_BAUD" envDefault:"115200"`
	LinkTimeout      time.Duration `env:"PANEL_LINK_TIMEOUT" envDefault:"250ms"`

	Broker    string        `env:"PANEL_BROKER" envDefault:"tcp://192.168.1.200:1883"`
	HTTPAddr  string        `env:"PANEL_HTTP" envDefault:":80"`
	Heartbeat time.Duration `env:"PANEL_HEARTBEAT" envDefault:"15m"`

	Poll     time.Duration `env:"PANEL_POLL" envDefault:"10ms"`
	Hold     time.Duration `env:"PANEL_HOLD" envDefault:"150ms"`
	Control  time.Duration `env:"PANEL_CONTROL" envDefault:"50ms"`
	Sync     time.Duration `env:"PANEL_SYNC" envDefault:"100ms"`
	Debounce time.Duration `env:"PANEL_DEBOUNCE" envDefault:"200ms"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return c, nil
}
