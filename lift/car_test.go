package lift

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/jkdabbert/elevator-simulation/logger"
)

func newTestCar(t *testing.T, events chan Snapshot) *Car {
	t.Helper()
	_ = logger.GetLoggerConfigured(zerolog.Disabled)
	c, err := NewCar(0, 1, 10, 8, Durations{}, nil, events)
	if err != nil {
		t.Fatalf("NewCar: %v", err)
	}
	return c
}

func TestNewCarRejectsEmptyRange(t *testing.T) {
	if _, err := NewCar(0, 5, 5, 8, Durations{}, nil, nil); err == nil {
		t.Errorf("NewCar(min=5, max=5) = nil error, expected range error")
	}
	if _, err := NewCar(0, 7, 2, 8, Durations{}, nil, nil); err == nil {
		t.Errorf("NewCar(min=7, max=2) = nil error, expected range error")
	}
}

func TestAddCabinRequestOutOfRange(t *testing.T) {
	c := newTestCar(t, nil)
	for _, floor := range []int{0, -3, 11, 100} {
		if c.AddCabinRequest(floor) {
			t.Errorf("AddCabinRequest(%d) = true, expected rejection", floor)
		}
	}
	if n := len(c.Snapshot().CabinFloors); n != 0 {
		t.Errorf("pending cabin floors = %d after rejected requests, expected 0", n)
	}
}

func TestAddCabinRequestIdempotent(t *testing.T) {
	c := newTestCar(t, nil)
	c.AddCabinRequest(4)
	c.AddCabinRequest(4)
	snap := c.Snapshot()
	if len(snap.CabinFloors) != 1 || snap.CabinFloors[0] != 4 {
		t.Errorf("pending cabin floors = %v, expected [4]", snap.CabinFloors)
	}
}

func TestAddCabinRequestAtCurrentFloor(t *testing.T) {
	c := newTestCar(t, nil)
	if !c.AddCabinRequest(1) {
		t.Errorf("AddCabinRequest(current floor) = false, expected success")
	}
	if n := len(c.Snapshot().CabinFloors); n != 0 {
		t.Errorf("pending cabin floors = %d, expected already-here request to queue nothing", n)
	}
}

func TestAddHallRequestOutOfRange(t *testing.T) {
	c := newTestCar(t, nil)
	if c.AddHallRequest(0, Up) || c.AddHallRequest(11, Down) {
		t.Errorf("AddHallRequest outside [1, 10] accepted, expected rejection")
	}
}

func TestAddHallRequestEndpoints(t *testing.T) {
	c := newTestCar(t, nil)
	if c.AddHallRequest(10, Up) {
		t.Errorf("AddHallRequest(top floor, up) = true, expected rejection")
	}
	if c.AddHallRequest(1, Down) {
		t.Errorf("AddHallRequest(bottom floor, down) = true, expected rejection")
	}
	if c.AddHallRequest(5, Idle) {
		t.Errorf("AddHallRequest(5, idle) = true, expected rejection")
	}
}

func TestAddHallRequestDuplicate(t *testing.T) {
	c := newTestCar(t, nil)
	c.AddHallRequest(5, Up)
	c.AddHallRequest(5, Up)
	c.AddHallRequest(5, Down)
	if n := len(c.Snapshot().HallRequests); n != 2 {
		t.Errorf("pending hall requests = %d, expected 2 distinct (floor, direction) pairs", n)
	}
}

func TestNextStopEmpty(t *testing.T) {
	c := newTestCar(t, nil)
	if _, ok := c.NextStop(); ok {
		t.Errorf("NextStop() on empty queues reported a stop")
	}
}

func TestNextStopClosestAhead(t *testing.T) {
	c := newTestCar(t, nil)
	c.AddCabinRequest(7)
	c.AddCabinRequest(3)
	c.AddCabinRequest(5)

	c.mu.Lock()
	c.direction = Up
	c.mu.Unlock()

	if f, ok := c.NextStop(); !ok || f != 3 {
		t.Errorf("NextStop() = %d, %v; expected closest stop ahead 3", f, ok)
	}
}

func TestNextStopExcludesHallCallsBehind(t *testing.T) {
	c := newTestCar(t, nil)
	c.mu.Lock()
	c.floor = 5
	c.direction = Up
	c.mu.Unlock()

	c.AddHallRequest(2, Down) // behind a car committed upward
	c.AddHallRequest(8, Down) // ahead, so reachable on the way

	if f, ok := c.NextStop(); !ok || f != 8 {
		t.Errorf("NextStop() = %d, %v; expected 8, the only call not behind the car", f, ok)
	}
}

func TestNextStopDownPicksHighestBelow(t *testing.T) {
	c := newTestCar(t, nil)
	c.mu.Lock()
	c.floor = 9
	c.direction = Down
	c.mu.Unlock()

	c.AddCabinRequest(2)
	c.AddCabinRequest(6)

	if f, ok := c.NextStop(); !ok || f != 6 {
		t.Errorf("NextStop() = %d, %v; expected 6 going down from 9", f, ok)
	}
}

func TestNextStopFallbackNearest(t *testing.T) {
	c := newTestCar(t, nil)
	c.mu.Lock()
	c.floor = 5
	c.direction = Up
	c.mu.Unlock()

	// Nothing ahead of a car committed upward: fall back to the stop behind.
	c.AddCabinRequest(3)
	if f, ok := c.NextStop(); !ok || f != 3 {
		t.Errorf("NextStop() = %d, %v; expected fallback to 3 behind the car", f, ok)
	}

	// Equal distance either side of an idle car breaks ties downward.
	c.mu.Lock()
	c.direction = Idle
	c.floor = 5
	c.cabin = map[int]bool{}
	c.hall = map[hallKey]HallRequest{
		{5, Up}:   {Floor: 5, Direction: Up},
		{5, Down}: {Floor: 5, Direction: Down},
	}
	c.mu.Unlock()
	if f, ok := c.NextStop(); !ok || f != 5 {
		t.Errorf("NextStop() = %d, %v; expected the current floor via fallback", f, ok)
	}
}

func TestAdvanceCycleServesCabinRequest(t *testing.T) {
	c := newTestCar(t, nil)
	c.AddCabinRequest(3)

	if !c.AdvanceCycle() {
		t.Fatalf("AdvanceCycle() = false with a pending request")
	}

	snap := c.Snapshot()
	if snap.Floor != 3 {
		t.Errorf("floor = %d after cycle, expected 3", snap.Floor)
	}
	if snap.Door != Closed || snap.Moving {
		t.Errorf("car ended cycle with door=%v moving=%v, expected closed and still", snap.Door, snap.Moving)
	}
	if len(snap.CabinFloors) != 0 {
		t.Errorf("cabin floors = %v after serving 3, expected none", snap.CabinFloors)
	}

	if c.AdvanceCycle() {
		t.Errorf("AdvanceCycle() = true with empty queues")
	}
	if dir := c.CurrentDirection(); dir != Idle {
		t.Errorf("direction = %v after an idle cycle, expected idle", dir)
	}
}

func TestAdvanceCycleRetiresHallByDirection(t *testing.T) {
	c := newTestCar(t, nil)
	c.AddHallRequest(5, Up)
	c.AddHallRequest(5, Down)

	c.AdvanceCycle() // travels up to 5, serves only the upward call
	snap := c.Snapshot()
	if len(snap.HallRequests) != 1 || snap.HallRequests[0].Direction != Down {
		t.Fatalf("hall requests = %v after first stop, expected only the down call", snap.HallRequests)
	}

	// Already at 5: the car arrives idle and clears the remaining call.
	if !c.AdvanceCycle() {
		t.Fatalf("AdvanceCycle() = false with the down call still pending")
	}
	if n := len(c.Snapshot().HallRequests); n != 0 {
		t.Errorf("hall requests = %d after second stop, expected none", n)
	}
	if c.AdvanceCycle() {
		t.Errorf("AdvanceCycle() = true after all requests retired")
	}
}

func TestCycleVisitOrderScan(t *testing.T) {
	c := newTestCar(t, nil)
	c.AddCabinRequest(7)
	c.AddCabinRequest(3)
	c.AddCabinRequest(5)

	var visited []int
	for c.AdvanceCycle() {
		visited = append(visited, c.Floor())
	}

	want := []int{3, 5, 7}
	if len(visited) != len(want) {
		t.Fatalf("visited %v, expected %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Fatalf("visited %v, expected %v", visited, want)
		}
	}
}

func TestCycleVisitOrderBoarding(t *testing.T) {
	// A hall pickup at 5, after which the boarding passengers press 7 and 3:
	// the car keeps going up to 7 before reversing down to 3.
	c := newTestCar(t, nil)
	c.AddHallRequest(5, Up)

	if !c.AdvanceCycle() {
		t.Fatalf("AdvanceCycle() = false with a pending pickup")
	}
	if f := c.Floor(); f != 5 {
		t.Fatalf("floor = %d after pickup cycle, expected 5", f)
	}

	c.AddCabinRequest(7)
	c.AddCabinRequest(3)

	var visited []int
	for c.AdvanceCycle() {
		visited = append(visited, c.Floor())
	}
	want := []int{7, 3}
	if len(visited) != len(want) || visited[0] != want[0] || visited[1] != want[1] {
		t.Fatalf("visited %v after boarding at 5, expected %v", visited, want)
	}
}

func TestDoorsNeverOpenWhileMoving(t *testing.T) {
	events := make(chan Snapshot, 256)
	c := newTestCar(t, events)
	c.AddCabinRequest(8)
	c.AddHallRequest(2, Up)

	for c.AdvanceCycle() {
	}

	close(events)
	for snap := range events {
		if snap.Moving && snap.Door != Closed {
			t.Fatalf("snapshot with moving=true and door=%v, the car must never move with open doors", snap.Door)
		}
	}
}

func TestMidCycleRequestsWaitForNextCycle(t *testing.T) {
	c := newTestCar(t, nil)
	c.AddCabinRequest(4)

	c.mu.Lock()
	cabin, hall := c.cloneQueuesLocked()
	c.mu.Unlock()

	// A request landing after the cycle took its view must not appear in it.
	c.AddCabinRequest(2)
	if _, ok := cabin[2]; ok {
		t.Errorf("cloned cabin queue gained a request submitted afterwards")
	}
	if len(hall) != 0 {
		t.Errorf("cloned hall queue = %v, expected empty", hall)
	}
	if f, ok := nextStop(1, Idle, cabin, hall); !ok || f != 4 {
		t.Errorf("nextStop on cloned queues = %d, %v; expected 4", f, ok)
	}
}
