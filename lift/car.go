// Package lift implements a single elevator car: its request queues, the
// SCAN-style choice of the next stop, and the door/motion cycle that serves
// and retires requests. Cars know nothing about each other; the dispatch
// package owns the building-level view.
package lift

import (
	"fmt"
	"sync"
	"time"

	"github.com/tiendc/go-deepcopy"

	"github.com/jkdabbert/elevator-simulation/logger"
)

var log = logger.GetLogger()

// Elapser advances simulated time. The car calls it wherever real time
// would pass (travel, door operation, dwell) and never touches the wall
// clock itself.
type Elapser interface {
	Elapse(d time.Duration)
}

// Durations holds the simulated time cost of each part of a stop.
// Travel is per floor travelled.
type Durations struct {
	Travel time.Duration
	Door   time.Duration
	Dwell  time.Duration
}

// Car is one elevator. All exported methods are safe for concurrent use;
// the internal lock is never held while simulated time elapses, so request
// submission does not stall behind a moving car.
type Car struct {
	id       int
	minFloor int
	maxFloor int
	capacity int
	timing   Durations
	clock    Elapser
	events   chan<- Snapshot

	mu         sync.Mutex
	floor      int
	direction  Direction
	door       DoorState
	moving     bool
	cabin      map[int]bool
	hall       map[hallKey]HallRequest
	passengers int
}

// NewCar returns a car resting at minFloor with the doors closed.
// The clock may be nil, in which case delays are skipped entirely.
func NewCar(id, minFloor, maxFloor, capacity int, timing Durations, clock Elapser, events chan<- Snapshot) (*Car, error) {
	if minFloor >= maxFloor {
		return nil, fmt.Errorf("lift: car %d: floor range [%d, %d] is empty", id, minFloor, maxFloor)
	}
	return &Car{
		id:       id,
		minFloor: minFloor,
		maxFloor: maxFloor,
		capacity: capacity,
		timing:   timing,
		clock:    clock,
		events:   events,
		floor:    minFloor,
		cabin:    make(map[int]bool),
		hall:     make(map[hallKey]HallRequest),
	}, nil
}

func (c *Car) ID() int       { return c.id }
func (c *Car) MinFloor() int { return c.minFloor }
func (c *Car) MaxFloor() int { return c.maxFloor }

// Floor returns the floor the car last stopped at or is currently on.
func (c *Car) Floor() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.floor
}

// CurrentDirection returns the car's committed direction of travel.
func (c *Car) CurrentDirection() Direction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.direction
}

// Busy reports whether the car has pending work or is between floors.
func (c *Car) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.moving || len(c.cabin) > 0 || len(c.hall) > 0
}

// AddCabinRequest queues a floor pressed inside the car. It rejects floors
// outside the car's range. Pressing the button for the floor the car is
// already resting on succeeds without queueing anything, and pressing an
// already-queued floor is a no-op.
func (c *Car) AddCabinRequest(floor int) bool {
	if floor < c.minFloor || floor > c.maxFloor {
		return false
	}

	c.mu.Lock()
	if floor == c.floor && c.door == Closed {
		c.mu.Unlock()
		return true
	}
	if !c.cabin[floor] {
		c.cabin[floor] = true
		log.Debug().Int("car", c.id).Int("floor", floor).Msg("cabin request queued")
		c.emitLocked()
	}
	c.mu.Unlock()
	return true
}

// AddHallRequest queues a hall call assigned to this car. Calls outside the
// car's range are rejected, as are calls with no reachable destination
// (up from the top floor, down from the bottom floor). A duplicate
// (floor, direction) pair is a no-op.
func (c *Car) AddHallRequest(floor int, direction Direction) bool {
	if floor < c.minFloor || floor > c.maxFloor {
		return false
	}
	if direction != Up && direction != Down {
		return false
	}
	if (floor == c.maxFloor && direction == Up) || (floor == c.minFloor && direction == Down) {
		return false
	}

	key := hallKey{floor, direction}

	c.mu.Lock()
	if _, ok := c.hall[key]; !ok {
		c.hall[key] = HallRequest{Floor: floor, Direction: direction, At: time.Now()}
		log.Debug().Int("car", c.id).Int("floor", floor).Stringer("direction", direction).Msg("hall request queued")
		c.emitLocked()
	}
	c.mu.Unlock()
	return true
}

// NextStop returns the next floor the car should visit, or false when no
// pending request is eligible from the car's current position and direction.
func (c *Car) NextStop() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return nextStop(c.floor, c.direction, c.cabin, c.hall)
}

// nextStop picks a destination from a fixed view of the queues.
//
// Cabin floors are always eligible. A hall call is eligible unless it lies
// behind a car already committed to a direction; an idle car matches
// everything. The closest eligible stop ahead wins, and only when nothing
// lies ahead does the car fall back to the nearest stop overall.
func nextStop(floor int, direction Direction, cabin map[int]bool, hall map[hallKey]HallRequest) (int, bool) {
	eligible := make(map[int]bool, len(cabin)+len(hall))
	for f := range cabin {
		eligible[f] = true
	}
	for _, r := range hall {
		if hallEligible(floor, direction, r) {
			eligible[r.Floor] = true
		}
	}
	if len(eligible) == 0 {
		return 0, false
	}

	if direction == Up || direction == Idle {
		if f, ok := lowestAbove(eligible, floor); ok {
			return f, true
		}
	}
	if direction == Down || direction == Idle {
		if f, ok := highestBelow(eligible, floor); ok {
			return f, true
		}
	}

	// Nothing ahead in the committed direction: take the nearest stop,
	// preferring the lower floor on equal distance so runs are reproducible.
	return nearest(eligible, floor), true
}

func hallEligible(floor int, direction Direction, r HallRequest) bool {
	switch {
	case direction == Idle:
		return true
	case r.Direction == direction:
		return true
	case r.Floor == floor:
		return true
	case direction == Up && r.Floor > floor:
		return true
	case direction == Down && r.Floor < floor:
		return true
	}
	return false
}

func lowestAbove(floors map[int]bool, floor int) (int, bool) {
	best, found := 0, false
	for f := range floors {
		if f > floor && (!found || f < best) {
			best, found = f, true
		}
	}
	return best, found
}

func highestBelow(floors map[int]bool, floor int) (int, bool) {
	best, found := 0, false
	for f := range floors {
		if f < floor && (!found || f > best) {
			best, found = f, true
		}
	}
	return best, found
}

func nearest(floors map[int]bool, floor int) int {
	best, bestDist := 0, -1
	for f := range floors {
		d := abs(f - floor)
		if bestDist < 0 || d < bestDist || (d == bestDist && f < best) {
			best, bestDist = f, d
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// AdvanceCycle performs one unit of dispatch work: pick a destination,
// travel there, open the doors, dwell, retire the requests served by the
// stop, and close the doors again. It returns false, leaving the car idle,
// when no request is eligible.
//
// The destination is chosen from a detached copy of the queues, so requests
// submitted while the car is underway take effect on the next cycle.
func (c *Car) AdvanceCycle() bool {
	c.mu.Lock()
	cabin, hall := c.cloneQueuesLocked()
	dest, ok := nextStop(c.floor, c.direction, cabin, hall)
	if !ok {
		c.direction = Idle
		c.mu.Unlock()
		return false
	}

	switch {
	case dest > c.floor:
		c.direction = Up
	case dest < c.floor:
		c.direction = Down
	default:
		c.direction = Idle
	}
	distance := abs(dest - c.floor)
	c.mu.Unlock()

	log.Debug().Int("car", c.id).Int("dest", dest).Msg("cycle started")

	if distance > 0 {
		c.startMoving()
		c.elapse(time.Duration(distance) * c.timing.Travel)
		c.arrive(dest)
	}

	c.transitionDoor(Opening)
	c.elapse(c.timing.Door)
	c.transitionDoor(Open)

	c.elapse(c.timing.Dwell)
	c.retire(dest)

	c.transitionDoor(Closing)
	c.elapse(c.timing.Door)
	c.transitionDoor(Closed)

	return true
}

func (c *Car) cloneQueuesLocked() (map[int]bool, map[hallKey]HallRequest) {
	var cabin map[int]bool
	var hall map[hallKey]HallRequest
	if err := deepcopy.Copy(&cabin, c.cabin); err != nil {
		panic(fmt.Sprintf("lift: car %d: cloning cabin queue: %v", c.id, err))
	}
	if err := deepcopy.Copy(&hall, c.hall); err != nil {
		panic(fmt.Sprintf("lift: car %d: cloning hall queue: %v", c.id, err))
	}
	return cabin, hall
}

func (c *Car) elapse(d time.Duration) {
	if c.clock == nil || d <= 0 {
		return
	}
	c.clock.Elapse(d)
}

func (c *Car) startMoving() {
	c.mu.Lock()
	if c.door != Closed {
		c.mu.Unlock()
		panic(fmt.Sprintf("lift: car %d: started moving with doors %v", c.id, c.door))
	}
	c.moving = true
	c.emitLocked()
	c.mu.Unlock()
}

func (c *Car) arrive(floor int) {
	c.mu.Lock()
	c.floor = floor
	c.moving = false
	c.emitLocked()
	c.mu.Unlock()
	log.Debug().Int("car", c.id).Int("floor", floor).Msg("arrived")
}

// transitionDoor steps the doors to next, checking that the step is one of
// the four legal ones and that the car is standing still.
func (c *Car) transitionDoor(next DoorState) {
	c.mu.Lock()
	if c.moving {
		c.mu.Unlock()
		panic(fmt.Sprintf("lift: car %d: door transition to %v while moving", c.id, next))
	}
	legal := (c.door == Closed && next == Opening) ||
		(c.door == Opening && next == Open) ||
		(c.door == Open && next == Closing) ||
		(c.door == Closing && next == Closed)
	if !legal {
		c.mu.Unlock()
		panic(fmt.Sprintf("lift: car %d: illegal door transition %v -> %v", c.id, c.door, next))
	}
	c.door = next
	c.emitLocked()
	c.mu.Unlock()
}

// retire drops the requests satisfied by stopping at floor: the cabin
// request for the floor, plus hall calls there that match the car's
// direction. An idle car has no commitment to honour, so it clears hall
// calls in both directions.
func (c *Car) retire(floor int) {
	c.mu.Lock()
	delete(c.cabin, floor)
	for key, r := range c.hall {
		if r.Floor != floor {
			continue
		}
		if c.direction == Idle || r.Direction == c.direction {
			delete(c.hall, key)
		}
	}
	c.emitLocked()
	c.mu.Unlock()
	log.Debug().Int("car", c.id).Int("floor", floor).Msg("stop served")
}
