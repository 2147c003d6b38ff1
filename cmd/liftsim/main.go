package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/xyproto/randomstring"

	"github.com/jkdabbert/elevator-simulation/dispatch"
	"github.com/jkdabbert/elevator-simulation/lift"
	"github.com/jkdabbert/elevator-simulation/logger"
	"github.com/jkdabbert/elevator-simulation/scenario"
	"github.com/jkdabbert/elevator-simulation/sim"
)

type tomlConfig struct {
	Building dispatch.Config `toml:"building"`
	Sim      sim.Config      `toml:"sim"`
}

var (
	configPath = flag.String("config", "./config.toml",
		"Path to the building configuration file.")
	scriptPath = flag.String("scenario", "",
		"Play the given scenario file instead of the built-in demo.")
	interactive = flag.Bool("interactive", false,
		"Drive the building from the keyboard.")
	runID = flag.String("run", "",
		"Run identifier used in log lines. Defaults to a random string.")
)

func main() {
	flag.Parse()

	// Optional .env next to the binary; LOG_LEVEL is the only knob so far.
	env, _ := godotenv.Read("./.env")

	level := zerolog.InfoLevel
	if v := env["LOG_LEVEL"]; v != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(v))
		if err != nil {
			fmt.Printf("unknown LOG_LEVEL %q in .env\n", v)
			os.Exit(1)
		}
		level = parsed
	}
	root := logger.GetLoggerConfigured(level)

	if *runID == "" {
		randomstring.Seed()
		*runID = randomstring.EnglishFrequencyString(8)
	}
	log := root.With().Str("run", *runID).Logger()

	config := tomlConfig{
		Building: dispatch.DefaultConfig(),
		Sim:      sim.Config{Scale: 1.0},
	}
	if _, err := toml.DecodeFile(*configPath, &config); err != nil {
		if !os.IsNotExist(err) {
			fmt.Println(err)
			os.Exit(1)
		}
		log.Warn().Str("path", *configPath).Msg("no config file, using defaults")
	}

	clock := sim.Clock{Scale: config.Sim.Scale}
	building, err := dispatch.New(config.Building, clock)
	if err != nil {
		log.Fatal().Err(err).Msg("building configuration rejected")
	}
	log.Info().
		Int("cars", config.Building.Cars).
		Int("min_floor", config.Building.MinFloor).
		Int("max_floor", config.Building.MaxFloor).
		Msg("building ready")

	go render(log, building.Events())

	switch {
	case *interactive:
		if err := runREPL(building, log); err != nil {
			log.Fatal().Err(err).Msg("keyboard input failed")
		}
	case *scriptPath != "":
		script, err := scenario.Load(*scriptPath)
		if err != nil {
			log.Fatal().Err(err).Msg("scenario rejected")
		}
		log.Info().Str("scenario", script.Name).Int("events", len(script.Events)).Msg("playing scenario")
		scenario.Play(building, script, clock)
	default:
		demo(building, log)
	}
}

// demo runs a small scripted morning: two hall calls answered by different
// cars, with the first car's passengers pressing floors on boarding.
func demo(building *dispatch.Dispatcher, log zerolog.Logger) {
	must := func(err error) {
		if err != nil {
			log.Fatal().Err(err).Msg("demo call rejected")
		}
	}
	must(building.RequestHall(5, lift.Up))
	must(building.RequestHall(8, lift.Down))

	car := building.Car(0)
	car.AdvanceCycle() // pickup at 5
	car.AddCabinRequest(7)
	car.AddCabinRequest(3)

	building.Run()
}

// render drains car snapshots and logs them. The cars drop snapshots
// rather than wait, so this loop only has to keep up roughly.
func render(log zerolog.Logger, events <-chan lift.Snapshot) {
	for snap := range events {
		log.Info().
			Int("car", snap.CarID).
			Int("floor", snap.Floor).
			Stringer("direction", snap.Direction).
			Stringer("door", snap.Door).
			Bool("moving", snap.Moving).
			Ints("cabin", snap.CabinFloors).
			Int("hall_calls", len(snap.HallRequests)).
			Str("load", fmt.Sprintf("%d/%d", snap.Passengers, snap.Capacity)).
			Msg("car state")
	}
}
