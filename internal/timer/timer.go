package timer

import (
	"sync/atomic"
	"time"
)

// now holds the unix-time in milliseconds, refreshed every Resolution. Read deadlines
// are armed on every read from the socket, so querying the clock each time isn't worth it.
var now = new(atomic.Int64)

// Now returns the coarse current time.
func Now() time.Time {
	millis := now.Load()
	return time.UnixMilli(millis)
}

// Resolution is the frequency at which time is updated. Default 500ms are
// precise enough for setting I/O deadlines
const Resolution = 500 * time.Millisecond

func init() {
	// the goroutine may be scheduled late, so the first value is stored synchronously
	now.Store(time.Now().UnixMilli())

	go func() {
		for {
			time.Sleep(Resolution)
			now.Store(time.Now().UnixMilli())
		}
	}()
}
