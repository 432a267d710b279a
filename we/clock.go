package we

import (
	"sort"
	"sync"
	"time"
)

type Timer interface {
	Stop() bool
}

type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualClock only moves when Advance is called. Timers that come due run on
// the advancing goroutine in deadline order.
type ManualClock struct {
	lk     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*manualTimer
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.lk.Lock()
	defer c.lk.Unlock()

	return c.now
}

func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	c.lk.Lock()
	defer c.lk.Unlock()

	c.seq++
	timer := &manualTimer{clock: c, at: c.now.Add(d), seq: c.seq, fn: f}
	c.timers = append(c.timers, timer)

	return timer
}

func (c *ManualClock) Advance(d time.Duration) {
	c.lk.Lock()
	target := c.now.Add(d)
	c.lk.Unlock()

	for {
		c.lk.Lock()
		next := c.due(target)
		if next == nil {
			c.now = target
			c.lk.Unlock()
			return
		}

		c.remove(next)
		c.now = next.at
		c.lk.Unlock()

		next.fn()
	}
}

// Pending returns the number of timers that have neither fired nor been stopped.
func (c *ManualClock) Pending() int {
	c.lk.Lock()
	defer c.lk.Unlock()

	return len(c.timers)
}

func (c *ManualClock) due(target time.Time) *manualTimer {
	sort.SliceStable(c.timers, func(i, j int) bool {
		if c.timers[i].at.Equal(c.timers[j].at) {
			return c.timers[i].seq < c.timers[j].seq
		}
		return c.timers[i].at.Before(c.timers[j].at)
	})

	if len(c.timers) == 0 || c.timers[0].at.After(target) {
		return nil
	}

	return c.timers[0]
}

func (c *ManualClock) remove(timer *manualTimer) bool {
	for i, t := range c.timers {
		if t == timer {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return true
		}
	}

	return false
}

type manualTimer struct {
	clock *ManualClock
	at    time.Time
	seq   uint64
	fn    func()
}

func (t *manualTimer) Stop() bool {
	t.clock.lk.Lock()
	defer t.clock.lk.Unlock()

	return t.clock.remove(t)
}
