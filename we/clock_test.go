package we

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualClock(t *testing.T) {
	start := time.Date(2022, 2, 14, 9, 0, 0, 0, time.UTC)

	t.Run("fires timers in deadline order", func(t *testing.T) {
		clock := NewManualClock(start)

		var fired []string
		clock.AfterFunc(20*time.Millisecond, func() { fired = append(fired, "second") })
		clock.AfterFunc(10*time.Millisecond, func() { fired = append(fired, "first") })
		clock.AfterFunc(30*time.Millisecond, func() { fired = append(fired, "third") })

		clock.Advance(25 * time.Millisecond)
		assert.Equal(t, []string{"first", "second"}, fired)
		assert.Equal(t, start.Add(25*time.Millisecond), clock.Now())
		assert.Equal(t, 1, clock.Pending())

		clock.Advance(5 * time.Millisecond)
		assert.Equal(t, []string{"first", "second", "third"}, fired)
	})

	t.Run("stopped timers never fire", func(t *testing.T) {
		clock := NewManualClock(start)

		fired := false
		timer := clock.AfterFunc(time.Second, func() { fired = true })

		assert.True(t, timer.Stop())
		assert.False(t, timer.Stop())

		clock.Advance(time.Hour)
		assert.False(t, fired)
	})

	t.Run("runs timers scheduled by timers", func(t *testing.T) {
		clock := NewManualClock(start)

		var at []time.Time
		clock.AfterFunc(time.Second, func() {
			at = append(at, clock.Now())
			clock.AfterFunc(time.Second, func() { at = append(at, clock.Now()) })
		})

		clock.Advance(3 * time.Second)
		assert.Equal(t, []time.Time{start.Add(time.Second), start.Add(2 * time.Second)}, at)
	})
}
