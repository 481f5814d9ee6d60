// Package loop provides the single-threaded event loop tooltips run on.
//
// Every state transition of a tooltip happens inside a task executed by a
// Loop, one task at a time. Timers created with AfterFunc do not run their
// callback on the timer goroutine; they post it back onto the loop, so timer
// callbacks are serialized with event handlers exactly like in a browser.
package loop

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// ErrClosed is returned when a task is submitted to a closed loop.
var ErrClosed = errors.New("loop: closed")

// Timer is a one-shot scheduled callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the call stopped the
	// timer; false means the callback already ran or was already stopped.
	Stop() bool
}

// Scheduler creates one-shot timers whose callbacks run on the caller's
// event loop.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// Option configures a Loop.
type Option func(*Loop)

// WithLogger sets the logger used for recovered panics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		l.logger = logger
	}
}

// WithQueueSize sets the task queue capacity (default 256).
func WithQueueSize(n int) Option {
	return func(l *Loop) {
		l.queueSize = n
	}
}

// WithAfterTask registers fn to run on the loop after every task, e.g. to
// flush DOM patches produced by the task.
func WithAfterTask(fn func()) Option {
	return func(l *Loop) {
		l.afterTask = fn
	}
}

// Loop executes submitted tasks sequentially on a single goroutine.
type Loop struct {
	tasks     chan func()
	done      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	logger    *slog.Logger
	queueSize int
	afterTask func()
}

// New creates a loop. Call Run to start processing.
func New(opts ...Option) *Loop {
	l := &Loop{
		done:      make(chan struct{}),
		logger:    slog.Default(),
		queueSize: 256,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.tasks = make(chan func(), l.queueSize)
	return l
}

// Run processes tasks until ctx is cancelled or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case fn := <-l.tasks:
			l.execute(fn)

		case <-l.done:
			return nil

		case <-ctx.Done():
			l.Close()
			return ctx.Err()
		}
	}
}

// execute runs one task with panic recovery.
func (l *Loop) execute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("loop task panic",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()

	fn()
	if l.afterTask != nil {
		l.afterTask()
	}
}

// Dispatch queues fn to run on the loop. It blocks while the queue is full
// and returns ErrClosed if the loop is closed first.
func (l *Loop) Dispatch(fn func()) error {
	if l.closed.Load() {
		return ErrClosed
	}
	select {
	case l.tasks <- fn:
		return nil
	case <-l.done:
		return ErrClosed
	}
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if err := l.Dispatch(func() {
		defer close(finished)
		fn()
	}); err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AfterFunc schedules fn to run on the loop after d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		_ = l.Dispatch(func() {
			// Stop may have been called after the timer fired but before
			// this task reached the front of the queue.
			if !t.state.CompareAndSwap(timerPending, timerFired) {
				return
			}
			fn()
		})
	})
	return t
}

// Close stops the loop. Pending tasks are discarded.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		close(l.done)
	})
}

// Done is closed when the loop stops.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

const (
	timerPending int32 = iota
	timerFired
	timerStopped
)

type loopTimer struct {
	timer *time.Timer
	state atomic.Int32
}

func (t *loopTimer) Stop() bool {
	t.timer.Stop()
	return t.state.CompareAndSwap(timerPending, timerStopped)
}
