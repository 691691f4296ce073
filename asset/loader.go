// Package asset runs load tasks on a bounded worker pool and hands results to the tick thread
package asset

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/skirmish/core"
	"github.com/lixenwraith/skirmish/parameter"
	"github.com/lixenwraith/skirmish/status"
)

var (
	ErrCancelled = errors.New("asset: load cancelled")
	ErrStopped   = errors.New("asset: loader not running")
	ErrQueueFull = errors.New("asset: request queue full")
)

// Ticket identifies a submitted request, zero is never issued
type Ticket uint64

// Task performs one load off the tick thread
// Long tasks should check ctx at safe points and return ctx.Err() once cancelled
type Task func(ctx context.Context) (any, error)

// Result is a finished load as seen by the consumer
type Result struct {
	Ticket Ticket
	Name   string
	Value  any
	Err    error
}

type request struct {
	ticket Ticket
	name   string
	task   Task
	ctx    context.Context
}

// Loader is a bounded background task pool
// Submit and Cancel are safe from any goroutine; Drain belongs to the tick thread
type Loader struct {
	workers int

	requests chan request
	results  *Handoff[Result]
	pushMu   sync.Mutex // Serializes workers so the handoff keeps a single producer

	mu        sync.Mutex
	cancels   map[Ticket]context.CancelFunc // Outstanding, not yet drained
	cancelled map[Ticket]bool

	next        atomic.Uint64
	outstanding atomic.Int64
	running     atomic.Bool

	baseCtx    context.Context
	baseCancel context.CancelFunc
	stopCh     chan struct{}
	wg         sync.WaitGroup

	statSubmitted *atomic.Int64
	statCompleted *atomic.Int64
	statDiscarded *atomic.Int64
}

// NewLoader sizes the pool; the handoff holds every request that can be outstanding
func NewLoader(workers, queueSize int, reg *status.Registry) *Loader {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	l := &Loader{
		workers:   workers,
		requests:  make(chan request, queueSize),
		results:   NewHandoff[Result](queueSize + workers),
		cancels:   make(map[Ticket]context.CancelFunc),
		cancelled: make(map[Ticket]bool),
	}
	if reg != nil {
		l.statSubmitted = reg.Ints.Get("asset.submitted")
		l.statCompleted = reg.Ints.Get("asset.completed")
		l.statDiscarded = reg.Ints.Get("asset.discarded")
	}
	return l
}

// Name implements service.Service
func (l *Loader) Name() string {
	return "asset"
}

// Dependencies implements service.Service
func (l *Loader) Dependencies() []string {
	return nil
}

// Init implements service.Service
func (l *Loader) Init(args ...any) error {
	return nil
}

// Start launches the dispatcher
func (l *Loader) Start() error {
	if !l.running.CompareAndSwap(false, true) {
		return nil
	}
	l.baseCtx, l.baseCancel = context.WithCancel(context.Background())
	l.stopCh = make(chan struct{})
	l.wg.Add(1)
	core.Go(l.dispatch)
	log.Printf("asset: loader started with %d workers", l.workers)
	return nil
}

// Stop cancels outstanding work and waits for in-flight tasks up to the stop timeout
// Results already handed off stay drainable
func (l *Loader) Stop() error {
	if !l.running.CompareAndSwap(true, false) {
		return nil
	}
	l.baseCancel()
	close(l.stopCh)

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		log.Printf("asset: loader stopped")
		return nil
	case <-time.After(parameter.AssetStopTimeout):
		return fmt.Errorf("asset: stop timed out after %v", parameter.AssetStopTimeout)
	}
}

// Submit queues a task and returns its ticket without blocking
func (l *Loader) Submit(name string, task Task) (Ticket, error) {
	if !l.running.Load() {
		return 0, ErrStopped
	}
	if l.outstanding.Add(1) > int64(l.results.Cap()) {
		l.outstanding.Add(-1)
		return 0, ErrQueueFull
	}

	ticket := Ticket(l.next.Add(1))
	ctx, cancel := context.WithCancel(l.baseCtx)

	l.mu.Lock()
	l.cancels[ticket] = cancel
	l.mu.Unlock()

	select {
	case l.requests <- request{ticket: ticket, name: name, task: task, ctx: ctx}:
	default:
		l.forget(ticket)
		l.outstanding.Add(-1)
		return 0, ErrQueueFull
	}
	if l.statSubmitted != nil {
		l.statSubmitted.Add(1)
	}
	return ticket, nil
}

// Cancel flags a ticket; a running task sees its context cancelled and the result is discarded on drain
// Returns false for unknown or already drained tickets
func (l *Loader) Cancel(t Ticket) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	cancel, ok := l.cancels[t]
	if !ok {
		return false
	}
	cancel()
	l.cancelled[t] = true
	return true
}

// Pending is the number of submitted requests not yet drained
func (l *Loader) Pending() int {
	return int(l.outstanding.Load())
}

// Drain hands finished results to deliver in completion order
// Results of cancelled tickets go to discard instead; either callback may be nil
func (l *Loader) Drain(deliver, discard func(Result)) int {
	n := 0
	for {
		res, ok := l.results.Pop()
		if !ok {
			return n
		}
		l.outstanding.Add(-1)
		n++

		l.mu.Lock()
		wasCancelled := l.cancelled[res.Ticket]
		delete(l.cancelled, res.Ticket)
		l.mu.Unlock()
		l.forget(res.Ticket)

		if wasCancelled {
			if l.statDiscarded != nil {
				l.statDiscarded.Add(1)
			}
			if discard != nil {
				discard(res)
			}
			continue
		}
		if deliver != nil {
			deliver(res)
		}
	}
}

func (l *Loader) forget(t Ticket) {
	l.mu.Lock()
	if cancel, ok := l.cancels[t]; ok {
		cancel()
		delete(l.cancels, t)
	}
	l.mu.Unlock()
}

// dispatch feeds requests to the bounded group until stopped
func (l *Loader) dispatch() {
	defer l.wg.Done()

	var g errgroup.Group
	g.SetLimit(l.workers)
	defer g.Wait()

	for {
		select {
		case <-l.stopCh:
			l.flushQueued()
			return
		case req := <-l.requests:
			// Blocks while all workers are busy
			g.Go(func() error {
				l.publish(l.execute(req))
				return nil
			})
		}
	}
}

// flushQueued resolves requests that never started as cancelled
func (l *Loader) flushQueued() {
	for {
		select {
		case req := <-l.requests:
			l.publish(Result{Ticket: req.ticket, Name: req.name, Err: ErrCancelled})
		default:
			return
		}
	}
}

// execute runs one task, converting panics and cancellation into result errors
func (l *Loader) execute(req request) (res Result) {
	res = Result{Ticket: req.ticket, Name: req.name}
	if req.ctx.Err() != nil {
		res.Err = ErrCancelled
		return res
	}
	defer func() {
		if r := recover(); r != nil {
			res.Value = nil
			res.Err = fmt.Errorf("asset %s: panic: %v", req.name, r)
		}
	}()

	v, err := req.task(req.ctx)
	if req.ctx.Err() != nil || errors.Is(err, context.Canceled) {
		res.Err = ErrCancelled
		return res
	}
	res.Value, res.Err = v, err
	return res
}

func (l *Loader) publish(res Result) {
	l.pushMu.Lock()
	ok := l.results.Push(res)
	l.pushMu.Unlock()
	if !ok {
		// Outstanding accounting bounds the ring, a full push means a lost result
		log.Printf("asset: handoff full, dropped result for %s", res.Name)
		return
	}
	if l.statCompleted != nil {
		l.statCompleted.Add(1)
	}
}
