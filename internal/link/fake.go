package link

import "sync"

// FakePort is a scripted Port for tests. Responses queued with
// QueueResponse are returned by subsequent Reads; Flush discards
// whatever is pending, exactly like a real input buffer reset.
type FakePort struct {
	mu sync.Mutex

	// Written collects every frame written, in order.
	Written [][]byte

	pending []byte

	// OnWrite, if set, is called with each written message; its
	// return value, if non-nil, becomes the queued response. Because
	// the session flushes input before every send, scripting
	// responses here is the reliable way to answer a request.
	OnWrite func(msg []byte) []byte

	// WriteError, if set, is returned by Write.
	WriteError error

	// Closed tracks if Close was called.
	Closed bool

	// Flushes counts Flush calls.
	Flushes int
}

// NewFakePort creates an empty FakePort.
func NewFakePort() *FakePort {
	return &FakePort{}
}

// QueueResponse appends bytes to be returned by future Reads.
func (f *FakePort) QueueResponse(b []byte) {
	f.mu.Lock()
	f.pending = append(f.pending, b...)
	f.mu.Unlock()
}

// Read returns pending response bytes, or (0, nil) when none are
// queued, mimicking a serial read timeout.
func (f *FakePort) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pending) == 0 {
		return 0, nil
	}
	n := copy(p, f.pending)
	f.pending = f.pending[n:]
	return n, nil
}

// Write records the message and triggers OnWrite.
func (f *FakePort) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.WriteError != nil {
		return 0, f.WriteError
	}
	msg := append([]byte(nil), p...)
	f.Written = append(f.Written, msg)
	if f.OnWrite != nil {
		if resp := f.OnWrite(msg); resp != nil {
			f.pending = append(f.pending, resp...)
		}
	}
	return len(p), nil
}

// Flush discards pending response bytes.
func (f *FakePort) Flush() error {
	f.mu.Lock()
	f.pending = nil
	f.Flushes++
	f.mu.Unlock()
	return nil
}

// Close marks the port closed.
func (f *FakePort) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}
