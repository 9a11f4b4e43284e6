// Package main is the sybot command: it drives a simulated arm built from a config file.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/sybot/component/fake"
	"go.viam.com/sybot/config"
	"go.viam.com/sybot/logging"
	"go.viam.com/sybot/robot"
	"go.viam.com/sybot/units"
)

const (
	flagConfig    = "config"
	flagDebug     = "debug"
	flagTimeScale = "time-scale"
	flagX         = "x"
	flagY         = "y"
	flagZ         = "z"
	flagDeco      = "deco"
	flagHome      = "home"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	logger := logging.NewBlankLogger("sybot")

	return &cli.App{
		Name:  "sybot",
		Usage: "drive a simulated arm",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load the arm from `FILE` instead of the reference arm",
			},
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.Float64Flag{
				Name:  flagTimeScale,
				Value: 10,
				Usage: "run the simulated motors this many times faster than real time",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool(flagDebug) {
				logger = logging.NewDebugLogger("sybot")
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "info",
				Usage: "print the arm and its pose",
				Action: func(c *cli.Context) error {
					r, err := loadRobot(c, logger)
					if err != nil {
						return err
					}
					defer r.Close()
					mach := r.Mach()
					fmt.Fprintf(c.App.Writer, "machine: %s (%d axes)\n", mach.Name, mach.Len())
					for i, t := range r.Tools() {
						fmt.Fprintf(c.App.Writer, "tool %d: %s\n", i, t.Name())
					}
					printPose(c, r)
					return nil
				},
			},
			{
				Name:  "home",
				Usage: "run every axis to its reference switch",
				Action: func(c *cli.Context) error {
					r, err := loadRobot(c, logger)
					if err != nil {
						return err
					}
					defer r.Close()
					reached, err := r.Measure(c.Context)
					fmt.Fprintf(c.App.Writer, "reached: %v\n", reached)
					if err != nil {
						return err
					}
					printPose(c, r)
					return nil
				},
			},
			{
				Name:  "move",
				Usage: "move the tool center point, missing coordinates keep their value",
				Flags: []cli.Flag{
					&cli.Float64Flag{Name: flagX, Usage: "x in mm"},
					&cli.Float64Flag{Name: flagY, Usage: "y in mm"},
					&cli.Float64Flag{Name: flagZ, Usage: "z in mm"},
					&cli.Float64Flag{Name: flagDeco, Usage: "orientation of the last segment in rad"},
					&cli.BoolFlag{Name: flagHome, Usage: "home the arm first"},
				},
				Action: func(c *cli.Context) error {
					r, err := loadRobot(c, logger)
					if err != nil {
						return err
					}
					defer r.Close()
					if c.Bool(flagHome) {
						if _, err := r.MoveHome(c.Context); err != nil {
							return err
						}
					}
					_, err = r.MoveToPoint(c.Context,
						optional(c, flagX), optional(c, flagY), optional(c, flagZ), optional(c, flagDeco))
					if err != nil {
						return err
					}
					printPose(c, r)
					return nil
				},
			},
			{
				Name:      "joints",
				Usage:     "drive every axis to a position in its control frame",
				ArgsUsage: "g0 g1 ...",
				Action: func(c *cli.Context) error {
					r, err := loadRobot(c, logger)
					if err != nil {
						return err
					}
					defer r.Close()
					gammas, err := parseGammas(c.Args().Slice(), r.Mach().Len())
					if err != nil {
						return err
					}
					if _, err := r.DriveAbs(c.Context, gammas); err != nil {
						return err
					}
					printPose(c, r)
					return nil
				},
			},
			{
				Name:      "write-config",
				Usage:     "write the loaded config to a file",
				ArgsUsage: "FILE",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return errors.New("expected the file to write")
					}
					cfg, err := readConfig(c, logger)
					if err != nil {
						return err
					}
					return config.Write(c.Args().First(), cfg)
				},
			},
		},
	}
}

func readConfig(c *cli.Context, logger logging.Logger) (*config.Config, error) {
	path := c.String(flagConfig)
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.Read(c.Context, path, logger)
}

func loadRobot(c *cli.Context, logger logging.Logger) (*robot.Robot, error) {
	cfg, err := readConfig(c, logger)
	if err != nil {
		return nil, err
	}
	scale := c.Float64(flagTimeScale)
	if scale <= 0 {
		return nil, errors.Errorf("time scale must be positive, got %v", scale)
	}
	hw := config.NewSimHardware(fake.WithTimeScale(scale))
	return config.NewRobot(c.Context, cfg, hw, logger)
}

func optional(c *cli.Context, name string) *float64 {
	if !c.IsSet(name) {
		return nil
	}
	v := c.Float64(name)
	return &v
}

func parseGammas(args []string, n int) ([]units.Gamma, error) {
	if len(args) != n {
		return nil, errors.Errorf("expected %d positions, got %d", n, len(args))
	}
	gammas := make([]units.Gamma, n)
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "position %d", i)
		}
		gammas[i] = units.Gamma(v)
	}
	return gammas, nil
}

func printPose(c *cli.Context, r *robot.Robot) {
	w := c.App.Writer
	fmt.Fprintf(w, "state: %s\n", r.State())
	fmt.Fprintf(w, "tool: %s\n", r.Tool().Name())
	fmt.Fprintf(w, "gammas: %s\n", formatFloats(units.ToFloats(r.Gammas())))
	fmt.Fprintf(w, "phis: %s\n", formatFloats(units.ToFloats(r.Phis())))
	pos := r.Pos()
	fmt.Fprintf(w, "pos: %.3f %.3f %.3f\n", pos.X, pos.Y, pos.Z)
}

func formatFloats(vals []float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'f', 4, 64)
	}
	return strings.Join(parts, " ")
}
