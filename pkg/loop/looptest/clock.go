// Package looptest provides a manual clock for driving loop.Scheduler users
// deterministically in tests.
package looptest

import (
	"sort"
	"sync"
	"time"

	"github.com/vango-dev/tooltip/pkg/loop"
)

// Clock is a loop.Scheduler whose time only moves when Advance is called.
// Timer callbacks run synchronously inside Advance, on the caller's
// goroutine, which stands in for the event loop.
type Clock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*timer
}

var _ loop.Scheduler = (*Clock)(nil)

// New returns a clock at time zero.
func New() *Clock {
	return &Clock{}
}

type timer struct {
	clock *Clock
	at    time.Duration
	seq   int
	fn    func()
	done  bool
}

func (t *timer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

// AfterFunc implements loop.Scheduler.
func (c *Clock) AfterFunc(d time.Duration, fn func()) loop.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d < 0 {
		d = 0
	}
	c.seq++
	t := &timer{clock: c, at: c.now + d, seq: c.seq, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

// Now returns the elapsed virtual time.
func (c *Clock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves time forward by d, running every timer that comes due in
// deadline order. Timers scheduled by callbacks run too if they fall due
// within the window.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	end := c.now + d
	c.mu.Unlock()

	for {
		t := c.next(end)
		if t == nil {
			break
		}
		t.fn()
	}

	c.mu.Lock()
	c.now = end
	c.mu.Unlock()
}

// next pops the earliest live timer due by end and moves the clock to it.
func (c *Clock) next(end time.Duration) *timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.done {
			live = append(live, t)
		}
	}
	c.timers = live

	sort.Slice(c.timers, func(i, j int) bool {
		if c.timers[i].at != c.timers[j].at {
			return c.timers[i].at < c.timers[j].at
		}
		return c.timers[i].seq < c.timers[j].seq
	})
	if len(c.timers) == 0 || c.timers[0].at > end {
		return nil
	}

	t := c.timers[0]
	t.done = true
	c.timers = c.timers[1:]
	c.now = t.at
	return t
}

// Pending returns the number of timers that have neither fired nor been
// stopped.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.done {
			n++
		}
	}
	return n
}
