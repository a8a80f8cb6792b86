package link

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/prakoso/reactor-panel/internal/frame"
	"github.com/prakoso/reactor-panel/internal/telemetry"
)

// Errors surfaced by Call. ErrTimeout and frame.ErrCorrupt are
// retried internally; ErrUnresponsive is what callers see once the
// retry budget is spent.
var (
	ErrTimeout      = errors.New("link: response timeout")
	ErrNack         = errors.New("link: node rejected command")
	ErrUnresponsive = errors.New("link: node unresponsive")
)

// retryDelays gives the backoff before each retry; the total attempt
// count equals its length, with the first attempt sent immediately.
var retryDelays = []time.Duration{50 * time.Millisecond, 100 * time.Millisecond, 200 * time.Millisecond}

// Stats is a read-only health view of a session, safe to copy.
type Stats struct {
	LastOK              bool
	ConsecutiveFailures uint32
}

// Session owns one Port and serializes request/response exchanges on
// it. Exactly one command is in flight at a time; responses are
// correlated by sequence number and anything stale is discarded.
type Session struct {
	name    string
	port    Port
	timeout time.Duration

	mu      sync.Mutex
	seq     uint8
	stats   Stats
	sleep   func(time.Duration) // injectable for tests
	elapsed func() time.Time
}

// NewSession wraps port for the named node. The timeout bounds one
// attempt's wait for a matching response.
func NewSession(name string, port Port, timeout time.Duration) *Session {
	return &Session{
		name:    name,
		port:    port,
		timeout: timeout,
		sleep:   time.Sleep,
		elapsed: time.Now,
	}
}

// Name returns the node name the session was created with.
func (s *Session) Name() string { return s.name }

// Stats returns the current health counters.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Ping performs a liveness probe.
func (s *Session) Ping() error {
	_, err := s.Call(frame.CmdPing, nil)
	return err
}

// Call sends cmd with payload and returns the matching response
// payload. Each attempt uses a fresh sequence number so a late reply
// to a failed attempt can never be matched. After the retry budget is
// exhausted the error is ErrUnresponsive.
func (s *Session) Call(cmd byte, payload []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.elapsed()
	for attempt := 0; attempt < len(retryDelays); attempt++ {
		if attempt > 0 {
			s.sleep(retryDelays[attempt-1])
		}
		s.seq++
		resp, err := s.exchange(frame.Frame{Seq: s.seq, Cmd: cmd, Payload: payload})
		if err == nil {
			s.stats.LastOK = true
			s.stats.ConsecutiveFailures = 0
			telemetry.LinkRoundTrips.WithLabelValues(s.name, "ok").Inc()
			telemetry.LinkRoundTripSeconds.WithLabelValues(s.name).Observe(s.elapsed().Sub(start).Seconds())
			return resp, nil
		}
		log.Printf("link %s: attempt %d/%d failed: %v", s.name, attempt+1, len(retryDelays), err)
		telemetry.LinkRetries.WithLabelValues(s.name).Inc()
	}

	s.stats.LastOK = false
	s.stats.ConsecutiveFailures++
	telemetry.LinkRoundTrips.WithLabelValues(s.name, "unresponsive").Inc()
	return nil, fmt.Errorf("%w: %s after %d attempts", ErrUnresponsive, s.name, len(retryDelays))
}

// exchange performs a single write/read attempt.
func (s *Session) exchange(req frame.Frame) ([]byte, error) {
	// Drop anything a previous failed attempt left in the buffer.
	if err := s.port.Flush(); err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}
	if _, err := s.port.Write(frame.Encode(req)); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	var dec frame.Decoder
	deadline := s.elapsed().Add(s.timeout)
	buf := make([]byte, 64)
	for s.elapsed().Before(deadline) {
		n, err := s.port.Read(buf)
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}
		for i := 0; i < n; i++ {
			f, ok, err := dec.Feed(buf[i])
			if err != nil {
				// Corrupt bytes; keep scanning until the deadline.
				continue
			}
			if !ok {
				continue
			}
			if f.Seq != req.Seq {
				log.Printf("link %s: discarding stale response seq=%d want=%d", s.name, f.Seq, req.Seq)
				continue
			}
			switch f.Cmd {
			case frame.CmdAck:
				return f.Payload, nil
			case frame.CmdNack:
				return nil, ErrNack
			default:
				return nil, fmt.Errorf("%w: unexpected response cmd 0x%02X", frame.ErrCorrupt, f.Cmd)
			}
		}
		if n == 0 {
			// Read timed out with nothing new; yield briefly.
			s.sleep(time.Millisecond)
		}
	}
	return nil, ErrTimeout
}
