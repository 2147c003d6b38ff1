package sim

import (
	"testing"
	"time"
)

func TestInstantElapsesImmediately(t *testing.T) {
	start := time.Now()
	Instant{}.Elapse(time.Hour)
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("Instant.Elapse(1h) took %v, expected an immediate return", elapsed)
	}
}

func TestClockZeroScaleSkipsSleep(t *testing.T) {
	start := time.Now()
	Clock{Scale: 0}.Elapse(time.Hour)
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("Clock{0}.Elapse(1h) took %v, expected an immediate return", elapsed)
	}
}

func TestClockScalesDuration(t *testing.T) {
	const d = 200 * time.Millisecond
	start := time.Now()
	Clock{Scale: 0.1}.Elapse(d)
	elapsed := time.Since(start)
	if elapsed < 10*time.Millisecond {
		t.Errorf("Clock{0.1}.Elapse(%v) returned after %v, expected a scaled sleep", d, elapsed)
	}
	if elapsed > d {
		t.Errorf("Clock{0.1}.Elapse(%v) took %v, expected well under the full duration", d, elapsed)
	}
}
