package input

import (
	"time"

	"github.com/prakoso/reactor-panel/internal/buttons"
)

// EdgeDetector fires one event per debounced press. It sees raw,
// bouncy levels and only reports a press when the line has been
// released longer than the debounce window since the last accepted
// press, mirroring how the physical panel was debounced.
type EdgeDetector struct {
	debounce  time.Duration
	last      buttons.Levels
	lastPress [buttons.NumButtons]time.Time
	primed    bool
}

// NewEdgeDetector creates a detector with the given debounce window.
func NewEdgeDetector(debounce time.Duration) *EdgeDetector {
	return &EdgeDetector{debounce: debounce}
}

// Process consumes one sample and returns the events it completes.
// The first sample only establishes a baseline so a button held at
// boot does not fire.
func (d *EdgeDetector) Process(lv buttons.Levels, now time.Time) []Event {
	if !d.primed {
		d.last = lv
		d.primed = true
		return nil
	}

	var events []Event
	for b := buttons.Button(0); b < buttons.NumButtons; b++ {
		pressed := lv[b] && !d.last[b]
		d.last[b] = lv[b]
		if !pressed {
			continue
		}
		if now.Sub(d.lastPress[b]) < d.debounce {
			continue
		}
		d.lastPress[b] = now
		events = append(events, Event{Kind: kindFor[b], Increment: 1})
	}
	return events
}

// HoldDetector fires repeatedly for the incremental buttons while
// they stay held. It runs at its own (slower) poll interval; the
// per-press event comes from the EdgeDetector, repeats come from
// here.
type HoldDetector struct {
	last   buttons.Levels
	primed bool
}

// NewHoldDetector creates a hold detector.
func NewHoldDetector() *HoldDetector {
	return &HoldDetector{}
}

// Process consumes one sample and returns one repeat event per
// hold-capable button that was already down on the previous sample
// and still is.
func (d *HoldDetector) Process(lv buttons.Levels) []Event {
	if !d.primed {
		d.last = lv
		d.primed = true
		return nil
	}

	var events []Event
	for b := buttons.Button(0); b < buttons.NumButtons; b++ {
		if holdRepeat[b] && lv[b] && d.last[b] {
			events = append(events, Event{Kind: kindFor[b], Increment: 1})
		}
		d.last[b] = lv[b]
	}
	return events
}
