package buttons

import (
	"errors"
	"sync"
)

// FakeReader is a test double that returns scripted button samples.
type FakeReader struct {
	mu sync.Mutex

	// Samples contains scripted levels to return. Each call to Read
	// consumes the next sample; the last one repeats once exhausted.
	Samples []Levels

	index int

	// Closed tracks if Close was called.
	Closed bool

	// ReadError, if set, will be returned by Read.
	ReadError error
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []Levels) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Pressed builds a Levels sample with only the given buttons down.
func Pressed(bs ...Button) Levels {
	var lv Levels
	for _, b := range bs {
		lv[b] = true
	}
	return lv
}

// Read returns the next scripted sample, repeating the last one when
// exhausted.
func (f *FakeReader) Read() (Levels, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ReadError != nil {
		return Levels{}, f.ReadError
	}
	if len(f.Samples) == 0 {
		return Levels{}, errors.New("no samples configured")
	}
	s := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return s, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}

// Reset rewinds the reader to the beginning of its samples.
func (f *FakeReader) Reset() {
	f.mu.Lock()
	f.index = 0
	f.Closed = false
	f.mu.Unlock()
}
