package lift

import "sort"

// Snapshot is a point-in-time view of a car, emitted after every state
// change for whoever wants to render it. The core never depends on a
// snapshot being consumed.
type Snapshot struct {
	CarID        int
	Floor        int
	Direction    Direction
	Door         DoorState
	Moving       bool
	CabinFloors  []int
	HallRequests []HallRequest
	Passengers   int
	Capacity     int
}

// Snapshot returns the car's current state with detached copies of the
// pending queues.
func (c *Car) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Car) snapshotLocked() Snapshot {
	snap := Snapshot{
		CarID:      c.id,
		Floor:      c.floor,
		Direction:  c.direction,
		Door:       c.door,
		Moving:     c.moving,
		Passengers: c.passengers,
		Capacity:   c.capacity,
	}
	for f := range c.cabin {
		snap.CabinFloors = append(snap.CabinFloors, f)
	}
	sort.Ints(snap.CabinFloors)
	for _, r := range c.hall {
		snap.HallRequests = append(snap.HallRequests, r)
	}
	sort.Slice(snap.HallRequests, func(i, j int) bool {
		a, b := snap.HallRequests[i], snap.HallRequests[j]
		if a.Floor != b.Floor {
			return a.Floor < b.Floor
		}
		return a.Direction < b.Direction
	})
	return snap
}

// emitLocked publishes the current state without ever blocking the car.
func (c *Car) emitLocked() {
	if c.events == nil {
		return
	}
	select {
	case c.events <- c.snapshotLocked():
	default: // slow or absent consumer, drop
	}
}
