// Command junction validates and draws four-way junction designs.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ha1tch/junction-toolkit/pkg/junction"
	"github.com/ha1tch/junction-toolkit/pkg/junctionfile"
	"github.com/ha1tch/junction-toolkit/pkg/layout"
	"github.com/ha1tch/junction-toolkit/pkg/render"
)

const usage = `junction - four-way junction design toolkit

Usage:
  junction <command> <file> [options]

Commands:
  validate   Check a design against the junction rules
  info       Show design and placeholder simulation figures
  plan       Print the planned lanes of every arm
  render     Draw a design (svg, png or txt) or its flow graph (dot)
  scene      Print the composed primitive list as JSON
  convert    Convert between formats (json, yaml, jct)

Examples:
  junction validate design.json
  junction render design.yaml -o junction.svg -crossings all
  junction render design.json -o junction.png -width 400
  junction render design.json -o flow.dot
  junction scene design.json -pretty
  junction convert design.json -o design.jct

Designs are read from .json, .yaml/.yml or .jct archives.
Environment: JUNCTION_CANVAS (scene size), JUNCTION_MAX_CROSSING (seconds).
Use "junction <command> -h" for the options of a command.
`

var logger = log.New(io.Discard, "junction: ", 0)

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "validate":
		cmdValidate(args)
	case "info":
		cmdInfo(args)
	case "plan":
		cmdPlan(args)
	case "render":
		cmdRender(args)
	case "scene":
		cmdScene(args)
	case "convert":
		cmdConvert(args)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}

// setup parses the command line and loads the design, exiting on failure.
func setup(name string, args []string) (config, *junctionfile.Design) {
	cfg, err := loadConfig(name, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Usage: junction %s <file> [options]: %v\n", name, err)
		os.Exit(1)
	}
	if cfg.Verbose {
		logger.SetOutput(os.Stderr)
	}

	d, err := junctionfile.Load(cfg.Input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", cfg.Input, err)
		var ve *junction.ValidationError
		if errors.As(err, &ve) {
			printViolations(ve.Violations)
		}
		os.Exit(1)
	}
	logger.Printf("loaded %s: junction %q, flow %q", cfg.Input, d.Junction.Name, d.Flow.Name)
	return cfg, d
}

// mustValidate exits with the violation list unless the design is valid.
func mustValidate(cfg config, d *junctionfile.Design) *junction.ValidationResult {
	res := junction.NewValidator(cfg.validatorOptions()).Validate(d.Flow, d.Junction)
	if !res.OK() {
		fmt.Fprintf(os.Stderr, "Validation failed: %d violation(s)\n", len(res.Violations))
		printViolations(res.Violations)
		os.Exit(1)
	}
	logger.Printf("validated %s", cfg.Input)
	return res
}

func printViolations(vs []junction.Violation) {
	for _, v := range vs {
		fmt.Fprintf(os.Stderr, "  [%s/%s] %s\n", v.Kind, v.Rule, v)
	}
}

func cmdValidate(args []string) {
	cfg, d := setup("validate", args)
	mustValidate(cfg, d)
	fmt.Printf("%s: valid junction %q on flow %q, box %d lanes wide\n",
		cfg.Input, d.Junction.Name, d.Flow.Name, d.Junction.MaxLanes())
}

func cmdInfo(args []string) {
	cfg, d := setup("info", args)

	fmt.Printf("Junction:    %s\n", d.Junction.Name)
	fmt.Printf("ID:          %s\n", d.Junction.ID)
	fmt.Printf("Flow:        %s (%s)\n", d.Flow.Name, d.Flow.ID)
	fmt.Printf("Box:         %d lanes\n", d.Junction.MaxLanes())
	fmt.Println()
	fmt.Printf("%-11s %5s %5s %8s %9s %8s %5s  %s\n", "Direction", "Lanes", "Left", "Transit", "Crossing", "Priority", "VPH", "Exits")
	for _, dir := range junction.Directions {
		c := d.Junction.Direction(dir)
		f := d.Flow.Flows[dir]
		transit := "-"
		if c.TransitLane {
			transit = string(c.TransitType)
		}
		crossing := "-"
		if c.PedestrianCrossing {
			crossing = fmt.Sprintf("%ds", c.CrossingDuration)
		}
		var exits []string
		for _, o := range dir.Others() {
			exits = append(exits, fmt.Sprintf("%s:%d", o.Short(), f.Exits[o]))
		}
		fmt.Printf("%-11s %5d %5v %8s %9s %8d %5d  %s\n",
			dir, c.NumLanes, c.LeftTurnLane, transit, crossing, c.Priority, f.Incoming, strings.Join(exits, " "))
	}

	res := junction.NewValidator(cfg.validatorOptions()).Validate(d.Flow, d.Junction)
	fmt.Println()
	if !res.OK() {
		fmt.Printf("Violations:  %d\n", len(res.Violations))
		for _, v := range res.Violations {
			fmt.Printf("  %s\n", v)
		}
		return
	}

	sim, err := junction.PlaceholderSimulator{}.Simulate(d.Flow, d.Junction)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Simulation failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Simulation (placeholder figures):")
	for _, dir := range junction.Directions {
		r := sim.Directions[dir]
		fmt.Printf("  %-11s avg wait %-6s max wait %-6s queue %d\n", dir, r.AverageWait, r.MaxWait, r.MaxQueueLength)
	}
	fmt.Printf("  Efficiency:     %.0f\n", sim.EfficiencyScore)
	fmt.Printf("  Sustainability: %.0f\n", sim.SustainabilityScore)
}

func cmdPlan(args []string) {
	cfg, d := setup("plan", args)
	mustValidate(cfg, d)

	for _, l := range layout.PlanJunction(d.Junction, cfg.layoutOptions()) {
		fmt.Printf("%s (%s): %d lanes, box half-size %.0f\n", l.Direction, l.Label, len(l.Lanes), l.HalfSize)
		for _, lane := range l.Lanes {
			fmt.Printf("  %d %-9s offset %+6.1f  rect x=%.0f y=%.0f w=%.0f h=%.0f\n",
				lane.Index, lane.Kind, lane.Offset, lane.Rect.X, lane.Rect.Y, lane.Rect.W, lane.Rect.H)
		}
		if cfg.Crossings.Has(l.Direction) && l.Config.PedestrianCrossing {
			fmt.Printf("  crossing: %d strips\n", len(layout.CrossingStrips(l, cfg.layoutOptions())))
		}
	}
}

func compose(cfg config, d *junctionfile.Design) layout.Scene {
	mustValidate(cfg, d)
	sc := layout.Compose(d.Junction, d.Flow, cfg.layoutOptions())
	logger.Printf("composed %d primitives", len(sc.Primitives))
	return sc
}

func cmdRender(args []string) {
	cfg, d := setup("render", args)
	if cfg.Output == "" {
		fmt.Fprintln(os.Stderr, "Usage: junction render <file> -o output.svg|output.png|output.txt|flow.dot")
		os.Exit(1)
	}
	sc := compose(cfg, d)

	data, err := renderScene(cfg, sc, strings.ToLower(filepath.Ext(cfg.Output)), d)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering %s: %v\n", cfg.Output, err)
		os.Exit(1)
	}
	if err := os.WriteFile(cfg.Output, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", cfg.Output, err)
		os.Exit(1)
	}
	fmt.Printf("Written: %s\n", cfg.Output)
}

func renderScene(cfg config, sc layout.Scene, ext string, d *junctionfile.Design) ([]byte, error) {
	width, height := 0, 0
	if cfg.Width > 0 {
		width = cfg.Width
		height = int(float64(cfg.Width) * sc.Height / sc.Width)
	}
	title := cfg.Title
	if title == "" {
		title = d.Junction.Name
	}

	var buf bytes.Buffer
	var err error
	switch ext {
	case ".svg":
		err = render.RenderSVG(sc, &buf, render.SVGOptions{Width: width, Height: height, Title: title})
	case ".png":
		opts := render.DefaultPNGOptions()
		opts.Width, opts.Height = width, height
		err = render.RenderPNG(sc, &buf, opts)
	case ".txt":
		buf.WriteString(render.RenderCells(sc, cfg.Cols, cfg.Rows).String())
	case ".dot":
		buf.WriteString(render.FlowDOT(d.Flow, cfg.Title))
	default:
		return nil, fmt.Errorf("unknown output format: %s", ext)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cmdScene(args []string) {
	cfg, d := setup("scene", args)
	sc := compose(cfg, d)

	var data []byte
	var err error
	if cfg.Pretty {
		data, err = json.MarshalIndent(sc, "", "  ")
	} else {
		data, err = json.Marshal(sc)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding scene: %v\n", err)
		os.Exit(1)
	}

	if cfg.Output != "" {
		if err := os.WriteFile(cfg.Output, append(data, '\n'), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", cfg.Output, err)
			os.Exit(1)
		}
		return
	}
	fmt.Println(string(data))
}

func cmdConvert(args []string) {
	cfg, d := setup("convert", args)

	output := cfg.Output
	if output == "" {
		// Default: swap json and yaml
		ext := filepath.Ext(cfg.Input)
		base := strings.TrimSuffix(cfg.Input, ext)
		switch strings.ToLower(ext) {
		case ".json":
			output = base + ".yaml"
		default:
			output = base + ".json"
		}
	}

	var err error
	if strings.ToLower(filepath.Ext(output)) == ".jct" {
		// Archives carry a drawing when the design is drawable.
		extras := map[string][]byte{}
		res := junction.NewValidator(cfg.validatorOptions()).Validate(d.Flow, d.Junction)
		if res.OK() {
			sc := layout.Compose(d.Junction, d.Flow, cfg.layoutOptions())
			if svgData, rerr := renderScene(cfg, sc, ".svg", d); rerr == nil {
				extras["scene.svg"] = svgData
			}
		} else {
			logger.Printf("design has %d violation(s); archive written without drawing", len(res.Violations))
		}
		err = junctionfile.WriteArchiveFile(output, d, extras)
	} else {
		err = junctionfile.Save(output, d, cfg.Pretty)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", output, err)
		os.Exit(1)
	}

	fmt.Printf("Written: %s\n", output)
}
