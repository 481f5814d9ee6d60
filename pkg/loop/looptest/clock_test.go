package looptest

import (
	"testing"
	"time"
)

func TestAdvanceFiresInDeadlineOrder(t *testing.T) {
	c := New()
	var got []string
	c.AfterFunc(30*time.Millisecond, func() { got = append(got, "c") })
	c.AfterFunc(10*time.Millisecond, func() { got = append(got, "a") })
	c.AfterFunc(20*time.Millisecond, func() { got = append(got, "b") })

	c.Advance(25 * time.Millisecond)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("fired %v, want [a b]", got)
	}
	if c.Pending() != 1 {
		t.Errorf("Pending = %d, want 1", c.Pending())
	}

	c.Advance(5 * time.Millisecond)
	if len(got) != 3 {
		t.Errorf("fired %v, want [a b c]", got)
	}
	if c.Now() != 30*time.Millisecond {
		t.Errorf("Now = %v", c.Now())
	}
}

func TestStop(t *testing.T) {
	c := New()
	fired := false
	timer := c.AfterFunc(time.Millisecond, func() { fired = true })

	if !timer.Stop() {
		t.Error("Stop should report true")
	}
	if timer.Stop() {
		t.Error("second Stop should report false")
	}
	c.Advance(time.Second)
	if fired {
		t.Error("stopped timer fired")
	}
}

func TestCallbackSchedulesWithinWindow(t *testing.T) {
	c := New()
	var at []time.Duration
	c.AfterFunc(time.Millisecond, func() {
		at = append(at, c.Now())
		c.AfterFunc(time.Millisecond, func() { at = append(at, c.Now()) })
	})

	c.Advance(5 * time.Millisecond)
	if len(at) != 2 || at[0] != time.Millisecond || at[1] != 2*time.Millisecond {
		t.Errorf("fired at %v, want [1ms 2ms]", at)
	}
}

func TestStopFromEarlierCallback(t *testing.T) {
	c := New()
	fired := false
	later := c.AfterFunc(2*time.Millisecond, func() { fired = true })
	c.AfterFunc(time.Millisecond, func() { later.Stop() })

	c.Advance(time.Second)
	if fired {
		t.Error("timer stopped by an earlier callback still fired")
	}
}
