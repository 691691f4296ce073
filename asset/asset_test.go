package asset

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lixenwraith/skirmish/status"
)

// waitFor polls cond until it holds or the deadline passes
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("Timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func startLoader(t *testing.T, workers, queue int) *Loader {
	t.Helper()
	l := NewLoader(workers, queue, status.NewRegistry())
	if err := l.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(func() { l.Stop() })
	return l
}

func TestHandoff_FIFOAndFull(t *testing.T) {
	h := NewHandoff[int](3)
	if h.Cap() != 4 {
		t.Fatalf("Expected capacity rounded to 4, got %d", h.Cap())
	}
	for i := 0; i < 4; i++ {
		if !h.Push(i) {
			t.Fatalf("Push %d refused", i)
		}
	}
	if h.Push(99) {
		t.Error("Expected push into full ring to fail")
	}
	for i := 0; i < 4; i++ {
		v, ok := h.Pop()
		if !ok || v != i {
			t.Fatalf("Expected %d, got %d (%v)", i, v, ok)
		}
	}
	if _, ok := h.Pop(); ok {
		t.Error("Expected empty ring")
	}
}

func TestLoader_DeliversResults(t *testing.T) {
	l := startLoader(t, 2, 8)

	want := map[Ticket]int{}
	for i := 1; i <= 3; i++ {
		n := i
		ticket, err := l.Submit("n", func(ctx context.Context) (any, error) { return n * 10, nil })
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		want[ticket] = n * 10
	}

	got := map[Ticket]int{}
	waitFor(t, "three results", func() bool {
		l.Drain(func(r Result) {
			if r.Err != nil {
				t.Errorf("Unexpected error: %v", r.Err)
			}
			got[r.Ticket] = r.Value.(int)
		}, nil)
		return len(got) == 3
	})
	for ticket, v := range want {
		if got[ticket] != v {
			t.Errorf("Ticket %d: expected %d, got %d", ticket, v, got[ticket])
		}
	}
	if l.Pending() != 0 {
		t.Errorf("Expected nothing pending, got %d", l.Pending())
	}
}

func TestLoader_CancelRunningTask(t *testing.T) {
	l := startLoader(t, 1, 4)

	started := make(chan struct{})
	ticket, err := l.Submit("slow", func(ctx context.Context) (any, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	<-started

	if !l.Cancel(ticket) {
		t.Fatal("Expected cancel of running ticket to succeed")
	}

	var discarded []Result
	waitFor(t, "discarded result", func() bool {
		l.Drain(func(r Result) { t.Errorf("Cancelled result delivered: %+v", r) }, func(r Result) { discarded = append(discarded, r) })
		return len(discarded) == 1
	})
	if discarded[0].Ticket != ticket || !errors.Is(discarded[0].Err, ErrCancelled) {
		t.Errorf("Expected ErrCancelled for ticket %d, got %+v", ticket, discarded[0])
	}
	if l.Cancel(ticket) {
		t.Error("Expected cancel after drain to report false")
	}
}

func TestLoader_LateResultDiscarded(t *testing.T) {
	l := startLoader(t, 1, 4)

	ticket, _ := l.Submit("fast", func(ctx context.Context) (any, error) { return "done", nil })
	waitFor(t, "result in handoff", func() bool { return l.results.Len() == 1 })

	if !l.Cancel(ticket) {
		t.Fatal("Expected cancel of undrained ticket to succeed")
	}
	delivered, discarded := 0, 0
	l.Drain(func(Result) { delivered++ }, func(Result) { discarded++ })
	if delivered != 0 || discarded != 1 {
		t.Errorf("Expected 0 delivered 1 discarded, got %d/%d", delivered, discarded)
	}
}

func TestLoader_BoundedWorkers(t *testing.T) {
	l := startLoader(t, 2, 8)

	var active, peak atomic.Int32
	release := make(chan struct{})
	for i := 0; i < 5; i++ {
		_, err := l.Submit("w", func(ctx context.Context) (any, error) {
			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			<-release
			active.Add(-1)
			return nil, nil
		})
		if err != nil {
			t.Fatalf("Submit %d failed: %v", i, err)
		}
	}

	waitFor(t, "two active workers", func() bool { return active.Load() == 2 })
	time.Sleep(10 * time.Millisecond)
	if p := peak.Load(); p > 2 {
		t.Errorf("Expected at most 2 concurrent tasks, saw %d", p)
	}
	close(release)

	total := 0
	waitFor(t, "all results", func() bool {
		total += l.Drain(nil, nil)
		return total == 5
	})
}

func TestLoader_QueueFull(t *testing.T) {
	l := startLoader(t, 1, 1)

	release := make(chan struct{})
	block := func(ctx context.Context) (any, error) {
		<-release
		return nil, nil
	}
	defer close(release)

	// Handoff capacity is queue+workers, rounded to 2
	if _, err := l.Submit("a", block); err != nil {
		t.Fatalf("Submit a failed: %v", err)
	}
	if _, err := l.Submit("b", block); err != nil {
		t.Fatalf("Submit b failed: %v", err)
	}
	if _, err := l.Submit("c", block); !errors.Is(err, ErrQueueFull) {
		t.Errorf("Expected ErrQueueFull, got %v", err)
	}
}

func TestLoader_PanicBecomesError(t *testing.T) {
	l := startLoader(t, 1, 2)
	l.Submit("boom", func(ctx context.Context) (any, error) { panic("bad asset") })

	var res Result
	waitFor(t, "panic result", func() bool {
		return l.Drain(func(r Result) { res = r }, nil) == 1
	})
	if res.Err == nil {
		t.Error("Expected panic converted to error")
	}
}

func TestLoader_SubmitRequiresStart(t *testing.T) {
	l := NewLoader(1, 1, nil)
	if _, err := l.Submit("x", func(context.Context) (any, error) { return nil, nil }); !errors.Is(err, ErrStopped) {
		t.Errorf("Expected ErrStopped, got %v", err)
	}
}
