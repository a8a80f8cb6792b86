// Package link provides request/response sessions over a serial line
// to one remote node. A session hides retries, timeouts, and sequence
// matching from its callers; the node proxies only see a single Call.
package link

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// Port is the byte pipe a Session talks through. The real
// implementation is a UART; tests substitute a scripted fake. Read
// must honor a short timeout rather than blocking forever.
type Port interface {
	// Read fills p with available bytes, returning io semantics.
	// A read that times out returns (0, nil).
	Read(p []byte) (int, error)

	// Write sends p in full.
	Write(p []byte) (int, error)

	// Flush discards buffered input so a late response to an earlier
	// attempt cannot be mistaken for the current one.
	Flush() error

	// Close releases the port.
	Close() error
}

// serialPort adapts a go.bug.st/serial port.
type serialPort struct {
	p serial.Port
}

// OpenPort opens a UART device at the given baud rate, 8N1, with a
// short read timeout so session loops never block indefinitely.
func OpenPort(device string, baud int) (Port, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}
	if err := p.SetReadTimeout(20 * time.Millisecond); err != nil {
		p.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", device, err)
	}
	return &serialPort{p: p}, nil
}

func (s *serialPort) Read(p []byte) (int, error)  { return s.p.Read(p) }
func (s *serialPort) Write(p []byte) (int, error) { return s.p.Write(p) }

func (s *serialPort) Flush() error {
	return s.p.ResetInputBuffer()
}

func (s *serialPort) Close() error { return s.p.Close() }
