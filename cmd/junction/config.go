package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ha1tch/junction-toolkit/pkg/junction"
	"github.com/ha1tch/junction-toolkit/pkg/layout"
)

const (
	defaultCanvas      = 800.0
	defaultMaxCrossing = junction.MaxCrossingDuration
)

// config holds the options shared by every subcommand. Environment
// variables provide defaults that flags override.
type config struct {
	Input       string
	Output      string
	Pretty      bool
	Crossings   layout.DirectionSet
	FlowLabels  bool
	Width       int
	Cols, Rows  int
	Title       string
	Canvas      float64
	MaxCrossing int
	Verbose     bool
}

func loadConfig(name string, args []string) (config, error) {
	canvas := defaultCanvas
	if v := os.Getenv("JUNCTION_CANVAS"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 {
			return config{}, fmt.Errorf("invalid JUNCTION_CANVAS: %q", v)
		}
		canvas = parsed
	}
	maxCrossing := defaultMaxCrossing
	if v := os.Getenv("JUNCTION_MAX_CROSSING"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return config{}, fmt.Errorf("invalid JUNCTION_MAX_CROSSING: %w", err)
		}
		maxCrossing = parsed
	}

	// The input file may come before the flags, as in "render d.json -o x.svg".
	var input string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		input, args = args[0], args[1:]
	}

	flagSet := flag.NewFlagSet("junction "+name, flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagOutput := flagSet.String("o", "", "output file")
	flagPretty := flagSet.Bool("pretty", false, "indent JSON output")
	flagCrossings := flagSet.String("crossings", "", "draw pedestrian crossings: all or a comma list of directions")
	flagFlows := flagSet.Bool("flows", false, "label each arm with its incoming flow")
	flagWidth := flagSet.Int("width", 0, "output width in pixels (0 = canvas size)")
	flagCols := flagSet.Int("cols", 80, "text output columns")
	flagRows := flagSet.Int("rows", 40, "text output rows")
	flagTitle := flagSet.String("title", "", "drawing title")
	flagCanvas := flagSet.Float64("canvas", canvas, "scene canvas size")
	flagMaxCrossing := flagSet.Int("max-crossing", maxCrossing, "longest allowed crossing phase in seconds")
	flagVerbose := flagSet.Bool("v", false, "log diagnostics to stderr")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			flagSet.SetOutput(os.Stdout)
			flagSet.PrintDefaults()
		}
		return config{}, err
	}
	if input == "" {
		input = flagSet.Arg(0)
	}
	if input == "" {
		return config{}, errors.New("no input file given")
	}

	crossings, err := parseCrossings(*flagCrossings)
	if err != nil {
		return config{}, err
	}
	if *flagCanvas <= 0 {
		return config{}, fmt.Errorf("canvas must be positive, got %v", *flagCanvas)
	}
	if *flagWidth < 0 {
		return config{}, fmt.Errorf("width cannot be negative, got %d", *flagWidth)
	}

	return config{
		Input:       input,
		Output:      strings.TrimSpace(*flagOutput),
		Pretty:      *flagPretty,
		Crossings:   crossings,
		FlowLabels:  *flagFlows,
		Width:       *flagWidth,
		Cols:        *flagCols,
		Rows:        *flagRows,
		Title:       *flagTitle,
		Canvas:      *flagCanvas,
		MaxCrossing: *flagMaxCrossing,
		Verbose:     *flagVerbose,
	}, nil
}

func parseCrossings(s string) (layout.DirectionSet, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return nil, nil
	case "all":
		return layout.AllDirections(), nil
	}
	set := layout.NewDirectionSet()
	for _, part := range strings.Split(s, ",") {
		d, err := junction.ParseDirection(part)
		if err != nil {
			return nil, fmt.Errorf("invalid -crossings: %w", err)
		}
		set[d] = true
	}
	return set, nil
}

func (c config) layoutOptions() layout.Options {
	opts := layout.DefaultOptions()
	opts.CanvasWidth = c.Canvas
	opts.CanvasHeight = c.Canvas
	opts.Crossings = c.Crossings
	opts.FlowLabels = c.FlowLabels
	return opts
}

func (c config) validatorOptions() junction.ValidatorOptions {
	opts := junction.DefaultValidatorOptions()
	opts.MaxCrossingDuration = c.MaxCrossing
	return opts
}
