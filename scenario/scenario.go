// Package scenario loads scripted request sequences from YAML and plays
// them against a dispatcher. Scripts are the non-interactive face of the
// demo harness: a list of hall calls and cabin presses, each applied after
// a delay, followed by the driving loop.
package scenario

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jkdabbert/elevator-simulation/dispatch"
	"github.com/jkdabbert/elevator-simulation/lift"
	"github.com/jkdabbert/elevator-simulation/logger"
)

var log = logger.GetLogger()

const (
	KindHall  = "hall"
	KindCabin = "cabin"
)

// Event is one scripted request. AfterMs delays the event relative to the
// previous one. Car is only meaningful for cabin events; Direction only for
// hall events ("up" or "down").
type Event struct {
	AfterMs   int    `yaml:"after_ms"`
	Kind      string `yaml:"kind"`
	Car       int    `yaml:"car"`
	Floor     int    `yaml:"floor"`
	Direction string `yaml:"direction"`
}

// Dir maps the event's direction label onto a lift.Direction.
func (e Event) Dir() (lift.Direction, error) {
	switch e.Direction {
	case "up":
		return lift.Up, nil
	case "down":
		return lift.Down, nil
	default:
		return lift.Idle, fmt.Errorf("scenario: unknown direction %q", e.Direction)
	}
}

// Script is a named sequence of events.
type Script struct {
	Name   string  `yaml:"name"`
	Events []Event `yaml:"events"`
}

// Load reads and validates a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a script and rejects events the dispatcher could never
// accept for structural reasons (unknown kinds, unknown directions).
// Floor and car validity is left to the dispatcher at playback time.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	for i, e := range s.Events {
		switch e.Kind {
		case KindHall:
			if _, err := e.Dir(); err != nil {
				return nil, fmt.Errorf("scenario: event %d: %w", i, err)
			}
		case KindCabin:
		default:
			return nil, fmt.Errorf("scenario: event %d: unknown kind %q", i, e.Kind)
		}
		if e.AfterMs < 0 {
			return nil, fmt.Errorf("scenario: event %d: negative delay", i)
		}
	}
	return &s, nil
}

// Play applies every event in order, elapsing each delay through the given
// clock, then drives the dispatcher to its fixed point. Rejected requests
// are logged and skipped; a script is allowed to probe invalid calls.
func Play(d *dispatch.Dispatcher, s *Script, clock lift.Elapser) {
	for i, e := range s.Events {
		if clock != nil && e.AfterMs > 0 {
			clock.Elapse(time.Duration(e.AfterMs) * time.Millisecond)
		}
		switch e.Kind {
		case KindHall:
			dir, _ := e.Dir()
			if err := d.RequestHall(e.Floor, dir); err != nil {
				log.Warn().Int("event", i).Int("floor", e.Floor).Err(err).Msg("hall call rejected")
			}
		case KindCabin:
			car := d.Car(e.Car)
			if car == nil {
				log.Warn().Int("event", i).Int("car", e.Car).Msg("no such car")
				continue
			}
			if !car.AddCabinRequest(e.Floor) {
				log.Warn().Int("event", i).Int("car", e.Car).Int("floor", e.Floor).Msg("cabin request rejected")
			}
		}
	}
	d.Run()
}
