package main

import (
	"fmt"

	"github.com/eiannone/keyboard"
	"github.com/rs/zerolog"

	"github.com/jkdabbert/elevator-simulation/dispatch"
	"github.com/jkdabbert/elevator-simulation/lift"
)

const replHelp = `keys:
  1-9, 0   pick a floor (0 is floor 10)
  u / d    hall call at the picked floor
  c        cabin request: next digit picks the car
  space    run dispatch rounds until every queue is empty
  s        print a snapshot of every car
  q        quit`

// runREPL drives the building one keypress at a time.
func runREPL(building *dispatch.Dispatcher, log zerolog.Logger) error {
	fmt.Println(replHelp)

	floor := 1
	for {
		char, key, err := keyboard.GetSingleKey()
		if err != nil {
			return err
		}

		switch {
		case char == 'q' || key == keyboard.KeyCtrlC:
			return nil

		case char >= '0' && char <= '9':
			floor = digitFloor(char)
			fmt.Printf("floor %d picked\n", floor)

		case char == 'u' || char == 'd':
			direction := lift.Up
			if char == 'd' {
				direction = lift.Down
			}
			if err := building.RequestHall(floor, direction); err != nil {
				log.Warn().Err(err).Int("floor", floor).
					Stringer("direction", direction).Msg("hall call rejected")
			}

		case char == 'c':
			fmt.Print("car? ")
			pick, _, err := keyboard.GetSingleKey()
			if err != nil {
				return err
			}
			if pick < '0' || pick > '9' {
				fmt.Println("expected a digit")
				continue
			}
			car := building.Car(int(pick - '0'))
			if car == nil {
				fmt.Println("no such car")
				continue
			}
			if !car.AddCabinRequest(floor) {
				log.Warn().Int("car", car.ID()).Int("floor", floor).
					Msg("cabin request rejected")
			}

		case char == 's':
			for _, snap := range building.Snapshot() {
				fmt.Printf("car %d  floor %d  %s  doors %s  cabin %v  hall %d  load %d/%d\n",
					snap.CarID, snap.Floor, snap.Direction, snap.Door,
					snap.CabinFloors, len(snap.HallRequests),
					snap.Passengers, snap.Capacity)
			}

		case char == ' ' || key == keyboard.KeySpace:
			building.Run()
			fmt.Println("all queues empty")
		}
	}
}

func digitFloor(char rune) int {
	if char == '0' {
		return 10
	}
	return int(char - '0')
}
