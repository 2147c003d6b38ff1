// Package dispatch owns the building: a fixed set of cars, the policy that
// decides which car answers a new hall call, and the round loop that drives
// every car through its serve cycle until nothing is left to do.
package dispatch

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jkdabbert/elevator-simulation/lift"
	"github.com/jkdabbert/elevator-simulation/logger"
)

var log = logger.GetLogger()

var (
	// ErrInvalidFloor rejects calls outside the building's floor range.
	ErrInvalidFloor = errors.New("dispatch: floor outside building range")
	// ErrInvalidDirection rejects calls with no reachable destination,
	// such as up from the top floor.
	ErrInvalidDirection = errors.New("dispatch: no destination in that direction")
	// ErrNoEligibleCar is returned when the building has no cars at all.
	ErrNoEligibleCar = errors.New("dispatch: no car available")
)

// Config describes the building. Durations are plain milliseconds so the
// whole struct decodes straight out of config.toml.
type Config struct {
	Cars     int `toml:"cars"`
	MinFloor int `toml:"min_floor"`
	MaxFloor int `toml:"max_floor"`
	Capacity int `toml:"capacity"`
	TravelMs int `toml:"travel_ms"`
	DoorMs   int `toml:"door_ms"`
	DwellMs  int `toml:"dwell_ms"`
}

// DefaultConfig returns the stock two-car, ten-floor building.
func DefaultConfig() Config {
	return Config{
		Cars:     2,
		MinFloor: 1,
		MaxFloor: 10,
		Capacity: 8,
		TravelMs: 1000,
		DoorMs:   1000,
		DwellMs:  3000,
	}
}

func (c Config) timing() lift.Durations {
	return lift.Durations{
		Travel: time.Duration(c.TravelMs) * time.Millisecond,
		Door:   time.Duration(c.DoorMs) * time.Millisecond,
		Dwell:  time.Duration(c.DwellMs) * time.Millisecond,
	}
}

const eventBuffer = 128

// Dispatcher assigns hall calls to cars and steps them through their
// cycles. The car collection is fixed at construction; scoring and
// assignment of a call happen under one lock so two concurrent calls
// cannot both land on the same "least busy" car.
type Dispatcher struct {
	mu       sync.Mutex
	cars     []*lift.Car
	minFloor int
	maxFloor int
	events   chan lift.Snapshot
}

// New builds a dispatcher and its cars from the config. Every car spans
// the full building range.
func New(cfg Config, clock lift.Elapser) (*Dispatcher, error) {
	if cfg.MinFloor >= cfg.MaxFloor {
		return nil, fmt.Errorf("dispatch: building floor range [%d, %d] is empty", cfg.MinFloor, cfg.MaxFloor)
	}
	if cfg.Cars < 0 {
		return nil, fmt.Errorf("dispatch: negative car count %d", cfg.Cars)
	}

	d := &Dispatcher{
		minFloor: cfg.MinFloor,
		maxFloor: cfg.MaxFloor,
		events:   make(chan lift.Snapshot, eventBuffer),
	}
	for i := 0; i < cfg.Cars; i++ {
		car, err := lift.NewCar(i, cfg.MinFloor, cfg.MaxFloor, cfg.Capacity, cfg.timing(), clock, d.events)
		if err != nil {
			return nil, err
		}
		if car.MinFloor() != d.minFloor || car.MaxFloor() != d.maxFloor {
			return nil, fmt.Errorf("dispatch: car %d range [%d, %d] does not match building [%d, %d]",
				car.ID(), car.MinFloor(), car.MaxFloor(), d.minFloor, d.maxFloor)
		}
		d.cars = append(d.cars, car)
	}
	return d, nil
}

// Events exposes the stream of car snapshots for a renderer. Snapshots are
// dropped rather than queued when the consumer falls behind.
func (d *Dispatcher) Events() <-chan lift.Snapshot { return d.events }

// Car returns the car with the given id, or nil.
func (d *Dispatcher) Car(id int) *lift.Car {
	if id < 0 || id >= len(d.cars) {
		return nil
	}
	return d.cars[id]
}

// Cars returns the car collection in insertion order.
func (d *Dispatcher) Cars() []*lift.Car { return d.cars }

// RequestHall assigns a hall call to the cheapest car. Closer cars win,
// cars already heading the caller's way get a discount, and busy cars pay
// a small penalty so an idle car at equal distance is preferred. Ties go to
// the earliest car, which keeps runs reproducible.
func (d *Dispatcher) RequestHall(floor int, direction lift.Direction) error {
	if floor < d.minFloor || floor > d.maxFloor {
		return ErrInvalidFloor
	}
	if direction != lift.Up && direction != lift.Down {
		return ErrInvalidDirection
	}
	if (floor == d.maxFloor && direction == lift.Up) || (floor == d.minFloor && direction == lift.Down) {
		return ErrInvalidDirection
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.cars) == 0 {
		return ErrNoEligibleCar
	}

	best, bestScore := -1, 0
	for i, car := range d.cars {
		s := score(car, floor, direction)
		if best < 0 || s < bestScore {
			best, bestScore = i, s
		}
	}

	car := d.cars[best]
	if !car.AddHallRequest(floor, direction) {
		return ErrInvalidFloor
	}
	log.Info().
		Int("car", car.ID()).
		Int("floor", floor).
		Stringer("direction", direction).
		Int("score", bestScore).
		Msg("hall call assigned")
	return nil
}

func score(car *lift.Car, floor int, direction lift.Direction) int {
	s := abs(car.Floor() - floor)
	if car.CurrentDirection() == direction {
		s -= 2
	}
	if car.Busy() {
		s++
	}
	return s
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// StepAll runs one cycle on every car, each in its own goroutine so one
// car's travel time never delays another's. It reports whether any car did
// work; the round result is computed only after every cycle has finished.
func (d *Dispatcher) StepAll() bool {
	work := make([]bool, len(d.cars))
	var wg sync.WaitGroup
	for i, car := range d.cars {
		wg.Add(1)
		go func(i int, car *lift.Car) {
			defer wg.Done()
			work[i] = car.AdvanceCycle()
		}(i, car)
	}
	wg.Wait()

	for _, w := range work {
		if w {
			return true
		}
	}
	return false
}

// Run steps all cars until a round passes with nothing to do.
func (d *Dispatcher) Run() {
	rounds := 0
	for d.StepAll() {
		rounds++
	}
	log.Info().Int("rounds", rounds).Msg("all requests served")
}

// Snapshot returns the current state of every car in insertion order.
func (d *Dispatcher) Snapshot() []lift.Snapshot {
	snaps := make([]lift.Snapshot, 0, len(d.cars))
	for _, car := range d.cars {
		snaps = append(snaps, car.Snapshot())
	}
	return snaps
}
