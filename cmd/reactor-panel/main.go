// Command reactor-panel runs the control-panel daemon: it samples the
// panel buttons, runs the supervisory plant logic, keeps the actuator
// and power-indicator nodes in sync over their serial links, and
// publishes events to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prakoso/reactor-panel/internal/buttons"
	"github.com/prakoso/reactor-panel/internal/config"
	"github.com/prakoso/reactor-panel/internal/link"
	"github.com/prakoso/reactor-panel/internal/mqtt"
	"github.com/prakoso/reactor-panel/internal/node"
	"github.com/prakoso/reactor-panel/internal/status"
	"github.com/prakoso/reactor-panel/internal/supervisor"
	"github.com/prakoso/reactor-panel/internal/web"
)

func main() {
	defaults, err := config.Load()
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	actuatorDev := flag.String("actuator", defaults.ActuatorDevice, "Actuator node serial device")
	visualizerDev := flag.String("visualizer", defaults.VisualizerDevice, "Power indicator serial device (empty to disable)")
	baud := flag.Int("baud", defaults.Baud, "Serial baud rate")
	linkTimeout := flag.Duration("link-timeout", defaults.LinkTimeout, "Per-attempt response timeout")
	broker := flag.String("broker", defaults.Broker, "MQTT broker address (empty to disable)")
	httpAddr := flag.String("http", defaults.HTTPAddr, "HTTP status address (empty to disable)")
	heartbeat := flag.Duration("heartbeat", defaults.Heartbeat, "Heartbeat interval (0 to disable)")
	poll := flag.Duration("poll", defaults.Poll, "Button polling interval")
	hold := flag.Duration("hold", defaults.Hold, "Hold-repeat interval")
	control := flag.Duration("control", defaults.Control, "Control tick interval")
	sync := flag.Duration("sync", defaults.Sync, "Node sync interval")
	debounce := flag.Duration("debounce", defaults.Debounce, "Button debounce duration")
	flag.Parse()

	cfg := defaults
	cfg.ActuatorDevice = *actuatorDev
	cfg.VisualizerDevice = *visualizerDev
	cfg.Baud = *baud
	cfg.LinkTimeout = *linkTimeout
	cfg.Broker = *broker
	cfg.HTTPAddr = *httpAddr
	cfg.Heartbeat = *heartbeat
	cfg.Poll = *poll
	cfg.Hold = *hold
	cfg.Control = *control
	cfg.Sync = *sync
	cfg.Debounce = *debounce

	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config.Config) error {
	// The actuator link is mandatory; the panel is useless without it.
	actuatorPort, err := link.OpenPort(cfg.ActuatorDevice, cfg.Baud)
	if err != nil {
		return fmt.Errorf("open actuator port %s: %w", cfg.ActuatorDevice, err)
	}
	defer actuatorPort.Close()
	actuatorSession := link.NewSession("actuator", actuatorPort, cfg.LinkTimeout)
	actuator := node.NewActuator(actuatorSession)

	// The power indicator is cosmetic; run without it if absent.
	var (
		visualizer     supervisor.VisualizerClient
		visualizerStat supervisor.LinkHealth
	)
	if cfg.VisualizerDevice != "" {
		visualizerPort, err := link.OpenPort(cfg.VisualizerDevice, cfg.Baud)
		if err != nil {
			log.Printf("open visualizer port %s: %v (continuing without)", cfg.VisualizerDevice, err)
		} else {
			defer visualizerPort.Close()
			session := link.NewSession("visualizer", visualizerPort, cfg.LinkTimeout)
			visualizer = node.NewVisualizer(session)
			visualizerStat = session
		}
	}

	reader, err := buttons.NewRealReader(buttons.DefaultPins)
	if err != nil {
		return fmt.Errorf("init buttons: %w", err)
	}
	defer reader.Close()

	// A down broker must not keep the panel from operating.
	var (
		publisher  mqtt.Publisher
		mqttStatus mqtt.ConnectionStatus
	)
	if cfg.Broker != "" {
		real, err := mqtt.NewRealPublisher(cfg.Broker)
		if err != nil {
			log.Printf("mqtt connect: %v (continuing without broker)", err)
		} else {
			defer real.Close()
			publisher = real
			mqttStatus = real
		}
	}

	sup := supervisor.New(supervisor.Config{
		Buttons:          reader,
		Actuator:         actuator,
		ActuatorHealth:   actuatorSession,
		Visualizer:       visualizer,
		VisualizerHealth: visualizerStat,
		Publisher:        publisher,
		MQTTStatus:       mqttStatus,
		Poll:             cfg.Poll,
		Hold:             cfg.Hold,
		Control:          cfg.Control,
		Sync:             cfg.Sync,
		Debounce:         cfg.Debounce,
		Heartbeat:        cfg.Heartbeat,
		Display: status.Config{
			PollMs:     cfg.Poll.Milliseconds(),
			HoldMs:     cfg.Hold.Milliseconds(),
			ControlMs:  cfg.Control.Milliseconds(),
			SyncMs:     cfg.Sync.Milliseconds(),
			DebounceMs: cfg.Debounce.Milliseconds(),
			Broker:     cfg.Broker,
			HTTPAddr:   cfg.HTTPAddr,
			Actuator:   cfg.ActuatorDevice,
			Visualizer: cfg.VisualizerDevice,
		},
	})
	sup.Start()
	defer sup.Stop()

	publishLifecycle(publisher, sup, "STARTUP", "")

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, sup)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTPAddr)
	}

	log.Printf("started: actuator=%s visualizer=%s broker=%s http=%s",
		cfg.ActuatorDevice, cfg.VisualizerDevice, cfg.Broker, cfg.HTTPAddr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigCh
	log.Printf("received %v, shutting down", s)

	publishLifecycle(publisher, sup, "SHUTDOWN", signalName(s))
	return nil
}

// publishLifecycle sends a retained system event carrying the full
// status snapshot.
func publishLifecycle(publisher mqtt.Publisher, sup *supervisor.Supervisor, event, reason string) {
	if publisher == nil {
		return
	}
	snap := sup.Snapshot()
	ev := mqtt.SystemEvent{
		Timestamp:  time.Now(),
		Event:      event,
		Reason:     reason,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, event, reason),
	}
	if err := publisher.PublishSystem(ev); err != nil {
		log.Printf("failed to publish %s event: %v", event, err)
	} else {
		log.Printf("published %s event", event)
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
