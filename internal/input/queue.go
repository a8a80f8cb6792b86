package input

import (
	"time"

	"github.com/prakoso/reactor-panel/internal/telemetry"
)

// DefaultQueueCap bounds the event queue. At panel input rates the
// queue only backs up if the processor stalls, and then the oldest
// presses are the right ones to lose.
const DefaultQueueCap = 64

// Queue is a bounded FIFO of events. Enqueue never blocks: when full
// it drops the oldest event rather than stalling the input loops.
type Queue struct {
	ch chan Event
}

// NewQueue creates a queue with the given capacity.
func NewQueue(capacity int) *Queue {
	return &Queue{ch: make(chan Event, capacity)}
}

// Enqueue adds e, dropping the oldest queued event if necessary.
// It reports whether anything was dropped to make room.
func (q *Queue) Enqueue(e Event) (dropped bool) {
	telemetry.Events.WithLabelValues(e.Kind.String()).Inc()
	for {
		select {
		case q.ch <- e:
			telemetry.QueueDepth.Set(float64(len(q.ch)))
			return dropped
		default:
		}
		select {
		case <-q.ch:
			dropped = true
			telemetry.EventsDropped.Inc()
		default:
		}
	}
}

// Dequeue waits up to timeout for an event. ok is false on timeout,
// which lets the consumer check for shutdown between events.
func (q *Queue) Dequeue(timeout time.Duration) (Event, bool) {
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case e := <-q.ch:
		telemetry.QueueDepth.Set(float64(len(q.ch)))
		return e, true
	case <-t.C:
		return Event{}, false
	}
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	return len(q.ch)
}
