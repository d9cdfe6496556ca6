package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		size int
		want int
	}{
		{"explicit size", 3, 3},
		{"zero uses cpu count", 0, -1},
		{"negative uses cpu count", -2, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.size)
			defer p.Close()

			if tt.want > 0 {
				assert.Equal(t, tt.want, p.Size())
			} else {
				assert.GreaterOrEqual(t, p.Size(), 1)
			}
		})
	}
}

func TestGoRunsEveryTask(t *testing.T) {
	p := New(2)
	defer p.Close()

	var count atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		p.Go(context.Background(), func() {
			defer wg.Done()
			count.Add(1)
		})
	}
	wg.Wait()

	assert.Equal(t, int64(100), count.Load())
}

func TestGoNestedDoesNotDeadlock(t *testing.T) {
	p := New(1)
	defer p.Close()

	var wg sync.WaitGroup
	var inner atomic.Int64
	for i := 0; i < 4; i++ {
		wg.Add(1)
		p.Go(context.Background(), func() {
			defer wg.Done()
			var nested sync.WaitGroup
			for j := 0; j < 4; j++ {
				nested.Add(1)
				p.Go(context.Background(), func() {
					defer nested.Done()
					inner.Add(1)
				})
			}
			nested.Wait()
		})
	}
	wg.Wait()

	assert.Equal(t, int64(16), inner.Load())
}

func TestGoSkipsCancelledTasks(t *testing.T) {
	p := New(1)
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	p.Go(ctx, func() { ran = true })
	assert.False(t, ran)
}

func TestGoAfterCloseRunsOnCaller(t *testing.T) {
	p := New(2)
	p.Close()
	assert.True(t, p.Closed())

	ran := false
	p.Go(context.Background(), func() { ran = true })
	assert.True(t, ran)

	// second close is a no-op
	p.Close()
}

func TestPanickingTaskKeepsPoolAlive(t *testing.T) {
	p := New(1)
	defer p.Close()

	p.Go(context.Background(), func() { panic("boom") })

	done := make(chan struct{})
	p.Go(context.Background(), func() { close(done) })
	<-done
}

func TestDispatchNeverRunsOnCaller(t *testing.T) {
	tests := []struct {
		name  string
		setup func(p *Pool, release chan struct{})
	}{
		{
			name:  "idle pool",
			setup: func(*Pool, chan struct{}) {},
		},
		{
			name: "busy pool",
			setup: func(p *Pool, release chan struct{}) {
				p.Dispatch(context.Background(), func() { <-release })
			},
		},
		{
			name:  "closed pool",
			setup: func(p *Pool, _ chan struct{}) { p.Close() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(1)
			defer p.Close()

			release := make(chan struct{})
			tt.setup(p, release)

			// a task run on the caller would block here forever
			done := make(chan struct{})
			p.Dispatch(context.Background(), func() {
				<-release
				close(done)
			})
			close(release)

			select {
			case <-done:
			case <-time.After(5 * time.Second):
				t.Fatal("dispatched task never finished")
			}
		})
	}
}

func TestDispatchSkipsCancelledTasks(t *testing.T) {
	p := New(1)
	p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Bool
	p.Dispatch(ctx, func() { ran.Store(true) })
	assert.Never(t, ran.Load, 50*time.Millisecond, 5*time.Millisecond)
}
