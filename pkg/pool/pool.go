package pool

import (
	"context"
	"runtime"
	"sync"

	"github.com/citizenwiki/locmerge/pkg/logging"
	"github.com/rs/zerolog"
)

type task struct {
	ctx context.Context
	fn  func()
}

// Pool is a fixed-size goroutine pool with a caller-runs overflow policy
type Pool struct {
	size   int
	tasks  chan task
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
	logger zerolog.Logger
}

// New starts a pool with size workers. A size below one means runtime.NumCPU().
func New(size int) *Pool {
	if size < 1 {
		size = runtime.NumCPU()
	}

	p := &Pool{
		size:   size,
		tasks:  make(chan task),
		logger: logging.GetLogger("pool"),
	}

	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker()
	}

	p.logger.Trace().Int("size", size).Msg("Pool started")
	return p
}

var (
	sharedOnce sync.Once
	shared     *Pool
)

// Shared returns the process-wide pool. Receivers must never close it.
func Shared() *Pool {
	sharedOnce.Do(func() {
		shared = New(runtime.NumCPU())
	})
	return shared
}

// Size returns the number of workers
func (p *Pool) Size() int {
	return p.size
}

// Closed reports whether Close has been called
func (p *Pool) Closed() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.closed
}

// Go runs fn on an idle worker, or on the caller when none is idle.
// fn is skipped entirely when ctx is already done.
func (p *Pool) Go(ctx context.Context, fn func()) {
	t := task{ctx: ctx, fn: fn}
	if !p.offer(t) {
		p.run(t)
	}
}

// Dispatch runs fn asynchronously: on an idle worker, or on a new goroutine
// when every worker is busy or the pool is closed. It never runs fn on the
// caller, so a caller waiting on several dispatched tasks sees the first
// one to finish. fn is skipped entirely when ctx is already done.
func (p *Pool) Dispatch(ctx context.Context, fn func()) {
	t := task{ctx: ctx, fn: fn}
	if !p.offer(t) {
		go p.run(t)
	}
}

// offer hands t to an idle worker without blocking
func (p *Pool) offer(t task) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return false
	}
	select {
	case p.tasks <- t:
		return true
	default:
		return false
	}
}

// Close stops the workers after they finish their current task.
// Calling Close more than once is safe.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Trace().Int("size", p.size).Msg("Pool closed")
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for t := range p.tasks {
		p.run(t)
	}
}

func (p *Pool) run(t task) {
	if t.ctx != nil && t.ctx.Err() != nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Interface("panic", r).Msg("Pooled task panicked")
		}
	}()
	t.fn()
}
