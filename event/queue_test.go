package event

import (
	"sync"
	"testing"

	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/parameter"
)

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue()
	for i := 0; i < 5; i++ {
		q.Push(Event{Type: EventSoundCue, Tick: uint64(i)})
	}

	if q.Len() != 5 {
		t.Fatalf("Expected 5 pending, got %d", q.Len())
	}

	got := q.Consume()
	if len(got) != 5 {
		t.Fatalf("Expected 5 events, got %d", len(got))
	}
	for i, ev := range got {
		if ev.Tick != uint64(i) {
			t.Errorf("Expected tick %d at %d, got %d", i, i, ev.Tick)
		}
	}

	if again := q.Consume(); len(again) != 0 {
		t.Errorf("Expected empty queue after consume, got %d", len(again))
	}
}

func TestQueue_OverflowDropsOldest(t *testing.T) {
	q := NewQueue()
	total := parameter.EventQueueSize + 10
	for i := 0; i < total; i++ {
		q.Push(Event{Tick: uint64(i)})
	}

	got := q.Consume()
	if len(got) != parameter.EventQueueSize {
		t.Fatalf("Expected %d events, got %d", parameter.EventQueueSize, len(got))
	}
	if got[0].Tick != 10 {
		t.Errorf("Expected oldest surviving tick 10, got %d", got[0].Tick)
	}
	if q.Overwritten() != 10 {
		t.Errorf("Expected 10 overwritten, got %d", q.Overwritten())
	}
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	q := NewQueue()
	const producers, perProducer = 4, 100

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(Event{Type: EventSoundCue, Payload: core.SoundJump, Tick: uint64(p)})
			}
		}(p)
	}
	wg.Wait()

	got := q.Consume()
	if len(got) != producers*perProducer {
		t.Errorf("Expected %d events, got %d", producers*perProducer, len(got))
	}
}
