package lift

import (
	"fmt"
	"time"
)

// Direction of travel. Idle is both the resting state of a car and a
// wildcard when matching hall calls against a car.
type Direction int

const (
	Down Direction = -1
	Idle Direction = 0
	Up   Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Idle:
		return "idle"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// DoorState of a car. A car is in exactly one of these at any time, and
// the doors only ever walk the Closed-Opening-Open-Closing ring.
type DoorState int

const (
	Closed DoorState = iota
	Opening
	Open
	Closing
)

func (s DoorState) String() string {
	switch s {
	case Closed:
		return "closed"
	case Opening:
		return "opening"
	case Open:
		return "open"
	case Closing:
		return "closing"
	default:
		return fmt.Sprintf("DoorState(%d)", int(s))
	}
}

// CabinRequest is a floor button pressed inside a car.
type CabinRequest struct {
	Floor int
}

// HallRequest is a call button pressed on a floor. At records when the
// call was made; it is kept for fairness extensions but plays no part in
// dispatch order.
type HallRequest struct {
	Floor     int
	Direction Direction
	At        time.Time
}

// hallKey identifies a pending hall request. A car holds at most one
// request per (floor, direction) pair.
type hallKey struct {
	floor     int
	direction Direction
}
