// Package supervisor owns the shared plant state and the concurrent
// execution model: input sampling, hold repeat, event processing, the
// control tick, and node synchronization all run as independent loops
// sharing one mutex-guarded State. No loop ever holds the lock across
// a blocking call.
package supervisor

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/prakoso/reactor-panel/internal/buttons"
	"github.com/prakoso/reactor-panel/internal/input"
	"github.com/prakoso/reactor-panel/internal/link"
	"github.com/prakoso/reactor-panel/internal/mqtt"
	"github.com/prakoso/reactor-panel/internal/node"
	"github.com/prakoso/reactor-panel/internal/plant"
	"github.com/prakoso/reactor-panel/internal/status"
)

// ActuatorClient is the surface of the actuator node proxy the
// supervisor drives each sync cycle.
type ActuatorClient interface {
	Update(node.ActuatorCommand) (node.ActuatorTelemetry, error)
}

// VisualizerClient is the surface of the power-indicator proxy.
type VisualizerClient interface {
	Update(thermalKW float64) (node.VisualizerTelemetry, error)
}

// LinkHealth exposes a session's health counters for reporting.
type LinkHealth interface {
	Name() string
	Stats() link.Stats
}

// Config wires the supervisor's collaborators and cadences. The
// visualizer, publisher, and health fields may be nil.
type Config struct {
	Buttons          buttons.Reader
	Actuator         ActuatorClient
	ActuatorHealth   LinkHealth
	Visualizer       VisualizerClient
	VisualizerHealth LinkHealth
	Publisher        mqtt.Publisher
	MQTTStatus       mqtt.ConnectionStatus

	Poll      time.Duration // button sampling
	Hold      time.Duration // hold-repeat cadence
	Control   time.Duration // ramp/interlock tick
	Sync      time.Duration // node synchronization
	Debounce  time.Duration
	Heartbeat time.Duration // 0 disables

	Display status.Config

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// Supervisor runs the panel's concurrency core.
type Supervisor struct {
	cfg   Config
	now   func() time.Time
	queue *input.Queue
	edge  *input.EdgeDetector
	hold  *input.HoldDetector

	mu    sync.Mutex
	state plant.State

	// lastLinkOK tracks each link's previous outcome so offline/
	// restored transitions are reported exactly once.
	lastLinkOK map[string]bool

	startTime     time.Time
	lastHeartbeat time.Time
	stop          chan struct{}
	wg            sync.WaitGroup
}

// New creates a supervisor. Zero cadences get the panel defaults.
func New(cfg Config) *Supervisor {
	if cfg.Poll <= 0 {
		cfg.Poll = 10 * time.Millisecond
	}
	if cfg.Hold <= 0 {
		cfg.Hold = 150 * time.Millisecond
	}
	if cfg.Control <= 0 {
		cfg.Control = 50 * time.Millisecond
	}
	if cfg.Sync <= 0 {
		cfg.Sync = 100 * time.Millisecond
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 200 * time.Millisecond
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	s := &Supervisor{
		cfg:        cfg,
		now:        cfg.Now,
		queue:      input.NewQueue(input.DefaultQueueCap),
		edge:       input.NewEdgeDetector(cfg.Debounce),
		hold:       input.NewHoldDetector(),
		lastLinkOK: map[string]bool{"actuator": true, "visualizer": true},
		stop:       make(chan struct{}),
	}
	return s
}

// Start launches all loops. Call Stop to shut down.
func (s *Supervisor) Start() {
	s.startTime = s.now()
	s.lastHeartbeat = s.startTime

	loops := []func(){s.sampleLoop, s.holdLoop, s.eventLoop, s.controlLoop, s.syncLoop}
	s.wg.Add(len(loops))
	for _, loop := range loops {
		go func(run func()) {
			defer s.wg.Done()
			run()
		}(loop)
	}
	log.Printf("supervisor started: poll=%v hold=%v control=%v sync=%v debounce=%v",
		s.cfg.Poll, s.cfg.Hold, s.cfg.Control, s.cfg.Sync, s.cfg.Debounce)
}

// Stop signals every loop and waits for them to exit. After Stop
// returns no loop touches any hardware handle, so the caller may
// close ports and GPIO lines.
func (s *Supervisor) Stop() {
	close(s.stop)
	s.wg.Wait()
	log.Printf("supervisor stopped")
}

// Snapshot returns a read-only copy of the current state for
// displays and logging collaborators.
func (s *Supervisor) Snapshot() status.Snapshot {
	s.mu.Lock()
	p := s.state
	s.mu.Unlock()

	snap := status.Snapshot{
		Plant:      p,
		QueueDepth: s.queue.Len(),
		StartTime:  s.startTime,
		Now:        s.now(),
		Config:     s.cfg.Display,
	}
	for _, h := range []LinkHealth{s.cfg.ActuatorHealth, s.cfg.VisualizerHealth} {
		if h == nil {
			continue
		}
		st := h.Stats()
		snap.Links = append(snap.Links, status.LinkStatus{
			Name:                h.Name(),
			OK:                  st.LastOK,
			ConsecutiveFailures: st.ConsecutiveFailures,
		})
	}
	if s.cfg.MQTTStatus != nil {
		snap.MQTTConnected = s.cfg.MQTTStatus.IsConnected()
	}
	return snap
}

// sampleLoop polls the buttons and enqueues one event per debounced
// press. It never takes the state lock.
func (s *Supervisor) sampleLoop() {
	ticker := time.NewTicker(s.cfg.Poll)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			lv, err := s.cfg.Buttons.Read()
			if err != nil {
				log.Printf("button read error: %v", err)
				continue
			}
			for _, e := range s.edge.Process(lv, s.now()) {
				if s.queue.Enqueue(e) {
					log.Printf("input queue full, dropped oldest event")
				}
			}
		}
	}
}

// holdLoop emits repeat events for the incremental buttons while they
// stay held. It never takes the state lock.
func (s *Supervisor) holdLoop() {
	ticker := time.NewTicker(s.cfg.Hold)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			lv, err := s.cfg.Buttons.Read()
			if err != nil {
				continue // sampleLoop already logs read errors
			}
			for _, e := range s.hold.Process(lv) {
				if s.queue.Enqueue(e) {
					log.Printf("input queue full, dropped oldest event")
				}
			}
		}
	}
}

// eventLoop drains the queue, holding the lock only while applying a
// single event so lock hold time stays O(1) regardless of queue
// depth.
func (s *Supervisor) eventLoop() {
	for {
		select {
		case <-s.stop:
			return
		default:
		}
		e, ok := s.queue.Dequeue(100 * time.Millisecond)
		if !ok {
			continue
		}
		now := s.now()
		s.mu.Lock()
		out := s.applyEvent(e, now)
		s.mu.Unlock()
		s.publish(out)
	}
}

// controlLoop advances the ramp machines, humidifier logic, alarms,
// and the interlock evaluation on a fixed cadence.
func (s *Supervisor) controlLoop() {
	ticker := time.NewTicker(s.cfg.Control)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			now := s.now()
			s.mu.Lock()
			out := s.controlTick(now)
			s.mu.Unlock()
			s.publish(out)
		}
	}
}

// syncLoop projects state to the nodes and merges telemetry back.
// The lock is held only to snapshot outgoing values and to merge the
// response, never across the link call itself.
func (s *Supervisor) syncLoop() {
	ticker := time.NewTicker(s.cfg.Sync)
	defer ticker.Stop()
	cycle := 0
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			cycle++
			s.syncActuator()
			// The visualizer is a slow indicator; every other cycle
			// is plenty.
			if s.cfg.Visualizer != nil && cycle%2 == 0 {
				s.syncVisualizer()
			}
			s.maybeHeartbeat()
		}
	}
}

func (s *Supervisor) syncActuator() {
	s.mu.Lock()
	cmd := node.ActuatorCommand{
		Humid: [4]bool{s.state.HumidSG, s.state.HumidSG, s.state.HumidCT, s.state.HumidCT},
	}
	for i := plant.RodID(0); i < plant.NumRods; i++ {
		cmd.RodTargets[i] = s.state.Rods[i].Target
	}
	for i := plant.PumpID(0); i < plant.NumPumps; i++ {
		cmd.Pumps[i] = s.state.Pumps[i].Status
	}
	s.mu.Unlock()

	tel, err := s.cfg.Actuator.Update(cmd)
	if err != nil {
		// Retain last-known telemetry; the session already counted
		// the failure.
		log.Printf("actuator sync failed: %v", err)
		s.publish(s.linkTransition("actuator", false))
		return
	}
	s.publish(s.linkTransition("actuator", true))

	s.mu.Lock()
	for i := plant.RodID(0); i < plant.NumRods; i++ {
		s.state.Rods[i].Actual = tel.RodActuals[i]
	}
	for i := plant.PumpID(0); i < plant.NumPumps; i++ {
		s.state.Pumps[i].Speed = tel.PumpSpeeds[i]
	}
	s.state.ThermalKW = tel.ThermalKW
	s.state.PowerLevel = tel.PowerLevel
	s.state.HumidCTStatus = tel.HumidStatus
	s.mu.Unlock()
}

func (s *Supervisor) syncVisualizer() {
	s.mu.Lock()
	thermal := s.state.ThermalKW
	s.mu.Unlock()

	tel, err := s.cfg.Visualizer.Update(thermal)
	if err != nil {
		log.Printf("visualizer sync failed: %v", err)
		s.publish(s.linkTransition("visualizer", false))
		return
	}
	s.publish(s.linkTransition("visualizer", true))

	s.mu.Lock()
	s.state.PowerMWe = tel.PowerMWe
	s.state.PWM = tel.PWM
	s.mu.Unlock()
}

// linkTransition returns an offline/restored event when a link's
// outcome flips, so the operator can tell "node offline" apart from
// an interlock denial.
func (s *Supervisor) linkTransition(name string, ok bool) []mqtt.Event {
	if s.lastLinkOK[name] == ok {
		return nil
	}
	s.lastLinkOK[name] = ok
	typ := "LINK_DOWN"
	if ok {
		typ = "LINK_RESTORED"
	}
	log.Printf("link %s: %s", name, strings.ToLower(typ))
	return []mqtt.Event{{Timestamp: s.now(), Type: typ, Detail: name, Retained: true}}
}

func (s *Supervisor) maybeHeartbeat() {
	if s.cfg.Heartbeat <= 0 || s.cfg.Publisher == nil {
		return
	}
	now := s.now()
	if now.Sub(s.lastHeartbeat) < s.cfg.Heartbeat {
		return
	}
	s.lastHeartbeat = now

	snap := s.Snapshot()
	ev := mqtt.SystemEvent{
		Timestamp:  now,
		Event:      "HEARTBEAT",
		RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
	}
	if err := s.cfg.Publisher.PublishSystem(ev); err != nil {
		log.Printf("heartbeat publish error: %v", err)
	}
}

// publish sends events outside the lock. Publish failures are logged
// and dropped; telemetry out must never stall control.
func (s *Supervisor) publish(events []mqtt.Event) {
	if s.cfg.Publisher == nil {
		return
	}
	for _, e := range events {
		if err := s.cfg.Publisher.PublishEvent(e); err != nil {
			log.Printf("publish %s error: %v", e.Type, err)
		}
	}
}
