package input

import (
	"testing"
	"time"

	"github.com/prakoso/reactor-panel/internal/buttons"
)

func TestEdgeDetectorFiresOncePerPress(t *testing.T) {
	d := NewEdgeDetector(200 * time.Millisecond)
	now := time.Unix(100, 0)

	if ev := d.Process(buttons.Levels{}, now); ev != nil {
		t.Fatalf("baseline sample produced events: %v", ev)
	}

	ev := d.Process(buttons.Pressed(buttons.ShimRodUp), now.Add(10*time.Millisecond))
	if len(ev) != 1 || ev[0].Kind != ShimRodUp {
		t.Fatalf("press: got %v, want one shim_rod_up", ev)
	}

	// Still held: no repeat from the edge detector.
	if ev := d.Process(buttons.Pressed(buttons.ShimRodUp), now.Add(20*time.Millisecond)); ev != nil {
		t.Errorf("held button re-fired: %v", ev)
	}
}

func TestEdgeDetectorHeldAtBootDoesNotFire(t *testing.T) {
	d := NewEdgeDetector(200 * time.Millisecond)
	now := time.Unix(100, 0)

	if ev := d.Process(buttons.Pressed(buttons.Emergency), now); ev != nil {
		t.Fatalf("boot sample fired: %v", ev)
	}
	if ev := d.Process(buttons.Pressed(buttons.Emergency), now.Add(time.Second)); ev != nil {
		t.Fatalf("button held since boot fired: %v", ev)
	}

	// Release and press again: now it counts.
	d.Process(buttons.Levels{}, now.Add(2*time.Second))
	ev := d.Process(buttons.Pressed(buttons.Emergency), now.Add(3*time.Second))
	if len(ev) != 1 || ev[0].Kind != Scram {
		t.Fatalf("got %v, want one scram", ev)
	}
}

func TestEdgeDetectorDebounce(t *testing.T) {
	d := NewEdgeDetector(200 * time.Millisecond)
	now := time.Unix(100, 0)
	d.Process(buttons.Levels{}, now)

	press := func(at time.Duration) int {
		d.Process(buttons.Levels{}, now.Add(at-time.Millisecond))
		return len(d.Process(buttons.Pressed(buttons.PressureUp), now.Add(at)))
	}

	if n := press(10 * time.Millisecond); n != 1 {
		t.Fatalf("first press: %d events", n)
	}
	// A bounce 50ms later is swallowed.
	if n := press(60 * time.Millisecond); n != 0 {
		t.Errorf("bounce within debounce window fired %d events", n)
	}
	// A genuine press after the window fires.
	if n := press(300 * time.Millisecond); n != 1 {
		t.Errorf("press after debounce window fired %d events", n)
	}
}

func TestEdgeDetectorSimultaneousPresses(t *testing.T) {
	d := NewEdgeDetector(200 * time.Millisecond)
	now := time.Unix(100, 0)
	d.Process(buttons.Levels{}, now)

	ev := d.Process(buttons.Pressed(buttons.PressureUp, buttons.PumpPrimaryOn), now.Add(time.Millisecond))
	if len(ev) != 2 {
		t.Fatalf("got %d events, want 2", len(ev))
	}
	kinds := map[Kind]bool{}
	for _, e := range ev {
		kinds[e.Kind] = true
	}
	if !kinds[PressureUp] || !kinds[PumpPrimaryStart] {
		t.Errorf("got kinds %v, want pressure_up and pump_primary_start", kinds)
	}
}

func TestHoldDetectorRepeatsIncrementalsOnly(t *testing.T) {
	d := NewHoldDetector()

	held := buttons.Pressed(buttons.RegulatingRodUp, buttons.ReactorStart)
	if ev := d.Process(held); ev != nil {
		t.Fatalf("baseline sample produced events: %v", ev)
	}

	// Held across two samples: the rod button repeats, the switch
	// button never does.
	for i := 0; i < 3; i++ {
		ev := d.Process(held)
		if len(ev) != 1 || ev[0].Kind != RegulatingRodUp {
			t.Fatalf("sample %d: got %v, want one regulating_rod_up", i, ev)
		}
	}

	if ev := d.Process(buttons.Levels{}); ev != nil {
		t.Errorf("released sample produced events: %v", ev)
	}
}

// TestHoldBurst models holding a rod button across three hold ticks
// and checks the total increment applied.
func TestHoldBurst(t *testing.T) {
	edge := NewEdgeDetector(200 * time.Millisecond)
	hold := NewHoldDetector()
	now := time.Unix(100, 0)

	edge.Process(buttons.Levels{}, now)
	hold.Process(buttons.Levels{})

	held := buttons.Pressed(buttons.ShimRodUp)
	total := 0
	for _, e := range edge.Process(held, now.Add(time.Millisecond)) {
		total += e.Increment
	}
	hold.Process(held) // first held sample arms the repeat
	for i := 0; i < 3; i++ {
		for _, e := range hold.Process(held) {
			total += e.Increment
		}
	}
	if total != 4 {
		t.Errorf("press plus three hold ticks applied %d increments, want 4", total)
	}
}

func TestQueueFIFO(t *testing.T) {
	q := NewQueue(8)
	for _, k := range []Kind{PressureUp, ShimRodUp, Scram} {
		if q.Enqueue(Event{Kind: k, Increment: 1}) {
			t.Fatalf("enqueue %v dropped", k)
		}
	}
	if q.Len() != 3 {
		t.Fatalf("Len: got %d, want 3", q.Len())
	}
	for _, want := range []Kind{PressureUp, ShimRodUp, Scram} {
		e, ok := q.Dequeue(time.Second)
		if !ok {
			t.Fatal("Dequeue timed out")
		}
		if e.Kind != want {
			t.Errorf("got %v, want %v", e.Kind, want)
		}
	}
}

func TestQueueDropsOldestWhenFull(t *testing.T) {
	q := NewQueue(2)
	q.Enqueue(Event{Kind: PressureUp})
	q.Enqueue(Event{Kind: PressureDown})
	if !q.Enqueue(Event{Kind: Scram}) {
		t.Fatal("full queue did not report a drop")
	}

	// The oldest event went; the newest survived.
	e, _ := q.Dequeue(time.Second)
	if e.Kind != PressureDown {
		t.Errorf("first out: got %v, want pressure_down", e.Kind)
	}
	e, _ = q.Dequeue(time.Second)
	if e.Kind != Scram {
		t.Errorf("second out: got %v, want scram", e.Kind)
	}
}

func TestDequeueTimeout(t *testing.T) {
	q := NewQueue(1)
	start := time.Now()
	if _, ok := q.Dequeue(10 * time.Millisecond); ok {
		t.Fatal("empty queue returned an event")
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Error("Dequeue returned before the timeout")
	}
}

func TestKindMappingCoversEveryButton(t *testing.T) {
	seen := map[Kind]bool{}
	for b := buttons.Button(0); b < buttons.NumButtons; b++ {
		k := kindFor[b]
		if seen[k] {
			t.Errorf("kind %v mapped from more than one button", k)
		}
		seen[k] = true
	}
	if len(seen) != int(numKinds) {
		t.Errorf("mapped %d kinds, want %d", len(seen), numKinds)
	}
}
