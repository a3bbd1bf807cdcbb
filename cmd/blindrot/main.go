// Command blindrot runs blind rotations end to end: it generates the keys of a parameter set,
// encrypts messages, blind rotates an identity test accumulator by their phases, extracts
// and decrypts the results.
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/tuneinsight/torus/utils/sampling"
)

const (
	modeLatency    = "latency"
	modeThroughput = "throughput"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "blindrot",
		Usage: "run torus FHE blind rotations from a parameter file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "loglevel",
				Value: "info",
				Usage: "application logging level {debug, info, warn, error}",
			},
		},
		Commands: []*cli.Command{
			rotateCommand(),
			paramsCommand(),
		},
	}
}

func newLogger(c *cli.Context) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(c.String("loglevel"))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid --loglevel: %w", err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger().Level(level), nil
}

func paramsFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "params",
		Aliases:  []string{"p"},
		Usage:    "path of a YAML or JSON parameter file",
		Required: true,
	}
}

func paramsCommand() *cli.Command {
	return &cli.Command{
		Name:  "params",
		Usage: "validate a parameter file and print it as JSON",
		Flags: []cli.Flag{paramsFlag()},
		Action: func(c *cli.Context) error {

			params, err := loadParameters(c.String("params"))
			if err != nil {
				return err
			}

			data, err := params.MarshalJSON()
			if err != nil {
				return err
			}

			fmt.Fprintln(c.App.Writer, string(data))

			return nil
		},
	}
}

func rotateCommand() *cli.Command {
	return &cli.Command{
		Name:  "rotate",
		Usage: "encrypt messages, blind rotate them and check the decrypted results",
		Flags: []cli.Flag{
			paramsFlag(),
			&cli.IntFlag{
				Name:  "width",
				Value: 64,
				Usage: "bit width of the torus elements {32, 64}",
			},
			&cli.StringFlag{
				Name:  "mode",
				Value: modeLatency,
				Usage: "evaluation mode {latency, throughput}",
			},
			&cli.IntFlag{
				Name:  "count",
				Value: 16,
				Usage: "number of blind rotations",
			},
			&cli.IntFlag{
				Name:  "workers",
				Value: 0,
				Usage: "number of workers of the throughput mode, 0 for GOMAXPROCS",
			},
			&cli.StringFlag{
				Name:  "seed",
				Usage: "hex encoded master seed making the run deterministic, random if empty",
			},
		},
		Action: func(c *cli.Context) error {

			logger, err := newLogger(c)
			if err != nil {
				return err
			}

			params, err := loadParameters(c.String("params"))
			if err != nil {
				return err
			}

			var seeder sampling.Seeder = sampling.NewSeeder()
			if s := c.String("seed"); s != "" {
				master, err := hex.DecodeString(s)
				if err != nil {
					return fmt.Errorf("invalid --seed: %w", err)
				}
				seeder = sampling.NewDeterministicSeeder(master)
			}

			opts := rotateOptions{
				Mode:    c.String("mode"),
				Count:   c.Int("count"),
				Workers: c.Int("workers"),
			}

			var report *rotateReport
			switch width := c.Int("width"); width {
			case 32:
				report, err = runRotate[uint32](c.Context, params, seeder, opts, logger)
			case 64:
				report, err = runRotate[uint64](c.Context, params, seeder, opts, logger)
			default:
				return fmt.Errorf("invalid --width %d: must be 32 or 64", width)
			}

			if err != nil {
				return err
			}

			logger.Info().
				Int("count", report.Count).
				Int("matched", report.Matched).
				Dur("keygen", report.KeyGen).
				Dur("elapsed", report.Elapsed).
				Msg("Blind rotations done")

			if report.Matched != report.Count {
				return fmt.Errorf("%d out of %d blind rotations decrypted to a wrong value", report.Count-report.Matched, report.Count)
			}

			return nil
		},
	}
}
