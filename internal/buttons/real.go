//go:build linux

package buttons

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads the panel buttons from actual hardware using the
// Linux GPIO character device.
type RealReader struct {
	chip  *gpiocdev.Chip
	lines [NumButtons]*gpiocdev.Line
}

// NewRealReader requests all button lines as pulled-up inputs.
func NewRealReader(pins [NumButtons]int) (*RealReader, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	r := &RealReader{chip: chip}
	for b := Button(0); b < NumButtons; b++ {
		line, err := chip.RequestLine(pins[b], gpiocdev.AsInput, gpiocdev.WithPullUp)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", b, pins[b], err)
		}
		r.lines[b] = line
	}
	return r, nil
}

// Read returns the logical state of every button. Inverts raw GPIO:
// raw low (0) = pressed, raw high (1) = released.
func (r *RealReader) Read() (Levels, error) {
	var lv Levels
	for b := Button(0); b < NumButtons; b++ {
		raw, err := r.lines[b].Value()
		if err != nil {
			return Levels{}, fmt.Errorf("read %s: %w", b, err)
		}
		lv[b] = raw == 0
	}
	return lv, nil
}

// Close releases all requested lines and the chip.
func (r *RealReader) Close() error {
	var errs []error
	for b := Button(0); b < NumButtons; b++ {
		if r.lines[b] == nil {
			continue
		}
		if err := r.lines[b].Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", b, err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
