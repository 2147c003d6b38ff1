// Package sim provides the timing collaborators the cars elapse simulated
// time through: a scaled wall clock for watchable runs and an instant clock
// for tests and batch runs.
package sim

import "time"

// Config selects how fast simulated time passes.
type Config struct {
	// Scale maps simulated time onto wall-clock time. 1.0 sleeps the full
	// duration, 0.1 runs ten times faster, and 0 (or below) skips sleeping
	// entirely.
	Scale float64 `toml:"scale"`
}

// Clock sleeps a scaled-down share of every simulated duration.
type Clock struct {
	Scale float64
}

func (c Clock) Elapse(d time.Duration) {
	if c.Scale <= 0 || d <= 0 {
		return
	}
	time.Sleep(time.Duration(float64(d) * c.Scale))
}

// Instant elapses any duration immediately.
type Instant struct{}

func (Instant) Elapse(time.Duration) {}
