// Command junctionview is a terminal viewer and editor for junction designs.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/ha1tch/junction-toolkit/pkg/junction"
	"github.com/ha1tch/junction-toolkit/pkg/junctionfile"
	"github.com/ha1tch/junction-toolkit/pkg/layout"
	"github.com/ha1tch/junction-toolkit/pkg/render"
)

// Viewer holds all viewer state
type Viewer struct {
	screen      tcell.Screen
	design      *junctionfile.Design
	filename    string
	modified    bool
	message     string
	messageType MessageType
	quitPending bool

	selected   junction.Direction
	opts       layout.Options
	validator  *junction.Validator
	scene      layout.Scene // last scene of a valid design
	violations []junction.Violation

	// Undo/Redo
	undoStack []*junction.JunctionConfig
	redoStack []*junction.JunctionConfig

	sidebarWidth int

	// Message flash state, shared with the refresh ticker
	msgMu             sync.Mutex
	messageFlashStart int64 // Unix milliseconds when message was shown
}

// MessageType for status messages
type MessageType int

const (
	MsgInfo    MessageType = iota // Informative, no flash
	MsgError                      // Errors, flash
	MsgSuccess                    // State changes, flash
)

const (
	maxUndoLevels = 50
	crossingStep  = 5 // seconds per [ or ] press
	flashPeriod   = 500
)

var transitCycle = []junction.TransitType{junction.TransitBus, junction.TransitBicycle}

func newViewer(d *junctionfile.Design, filename string) *Viewer {
	v := &Viewer{
		design:       d,
		filename:     filename,
		selected:     junction.North,
		opts:         layout.DefaultOptions(),
		validator:    junction.NewValidator(junction.DefaultValidatorOptions()),
		sidebarWidth: 34,
	}
	v.opts.Crossings = layout.NewDirectionSet()
	v.refresh()
	return v
}

func main() {
	var d *junctionfile.Design
	filename := ""
	if len(os.Args) > 1 {
		filename = os.Args[1]
		var err error
		d, err = junctionfile.Load(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", filename, err)
			os.Exit(1)
		}
	} else {
		d = junctionfile.NewDesign("New junction")
	}
	v := newViewer(d, filename)

	// Initialize screen
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.Clear()
	v.screen = screen

	v.run()

	screen.Fini()
}

func (v *Viewer) run() {
	// Periodic refresh while a message is flashing
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			if v.flashing(time.Now().UnixMilli()) {
				v.screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	for {
		v.draw()
		v.screen.Show()

		ev := v.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			if v.handleKey(ev) {
				return
			}
		case *tcell.EventInterrupt:
			// Refresh event for flash animation - just redraw
		}
	}
}

// handleKey processes one key press and reports whether to quit.
func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyCtrlS:
		v.save()
		return false
	case tcell.KeyTab:
		v.cycleDirection()
		return false
	case tcell.KeyRune:
		return v.handleRune(ev.Rune())
	}
	return false
}

// handleRune applies a single-character command. Returns true to quit.
func (v *Viewer) handleRune(r rune) bool {
	if r != 'q' {
		v.quitPending = false
	}
	switch r {
	case 'q':
		if v.modified && !v.quitPending {
			v.quitPending = true
			v.showMessage("Unsaved changes - press q again to quit", MsgError)
			return false
		}
		return true
	case '1', '2', '3', '4':
		v.selected = junction.Directions[r-'1']
		v.showMessage(fmt.Sprintf("Selected %s", v.selected), MsgInfo)
	case '+', '=':
		v.edit("lanes", func(c *junction.DirectionConfig) { c.NumLanes++ })
	case '-':
		v.edit("lanes", func(c *junction.DirectionConfig) { c.NumLanes-- })
	case 'l':
		v.edit("left-turn lane", func(c *junction.DirectionConfig) { c.LeftTurnLane = !c.LeftTurnLane })
	case 't':
		v.edit("transit lane", func(c *junction.DirectionConfig) {
			c.TransitLane = !c.TransitLane
			if c.TransitLane && c.TransitType == junction.TransitNone {
				c.TransitType = junction.TransitBus
			}
		})
	case 'b':
		v.edit("transit type", func(c *junction.DirectionConfig) { c.TransitType = nextTransit(c.TransitType) })
	case 'p':
		v.edit("pedestrian crossing", func(c *junction.DirectionConfig) { c.PedestrianCrossing = !c.PedestrianCrossing })
	case '[':
		v.edit("crossing duration", func(c *junction.DirectionConfig) { c.CrossingDuration -= crossingStep })
	case ']':
		v.edit("crossing duration", func(c *junction.DirectionConfig) { c.CrossingDuration += crossingStep })
	case 'r':
		v.edit("priority", func(c *junction.DirectionConfig) { c.Priority = (c.Priority + 1) % (junction.MaxPriority + 1) })
	case 'c':
		v.toggleCrossingRendering()
	case 'f':
		v.opts.FlowLabels = !v.opts.FlowLabels
		v.refresh()
	case 'u':
		v.undo()
	case 'U':
		v.redo()
	case 'e':
		v.export(".svg")
	case 'E':
		v.export(".png")
	}
	return false
}

func nextTransit(t junction.TransitType) junction.TransitType {
	for i, c := range transitCycle {
		if c == t {
			return transitCycle[(i+1)%len(transitCycle)]
		}
	}
	return transitCycle[0]
}

func (v *Viewer) cycleDirection() {
	for i, d := range junction.Directions {
		if d == v.selected {
			v.selected = junction.Directions[(i+1)%len(junction.Directions)]
			break
		}
	}
	v.showMessage(fmt.Sprintf("Selected %s", v.selected), MsgInfo)
}

// edit changes the selected approach and re-validates. An invalid design
// is kept so it can be fixed by further edits, but the drawing stays on
// the last valid scene.
func (v *Viewer) edit(what string, fn func(*junction.DirectionConfig)) {
	v.pushUndo()
	v.design.Junction.Update(v.selected, fn)
	v.modified = true
	if v.refresh() {
		v.showMessage(fmt.Sprintf("Changed %s %s", v.selected.Short(), what), MsgSuccess)
	}
}

func (v *Viewer) toggleCrossingRendering() {
	if v.opts.Crossings == nil {
		v.opts.Crossings = layout.NewDirectionSet()
	}
	v.opts.Crossings[v.selected] = !v.opts.Crossings[v.selected]
	v.refresh()
	state := "hidden"
	if v.opts.Crossings.Has(v.selected) {
		state = "shown"
	}
	v.showMessage(fmt.Sprintf("%s crossing %s", v.selected, state), MsgInfo)
}

// refresh validates the design and recomposes the scene when it is valid.
func (v *Viewer) refresh() bool {
	res := v.validator.Validate(v.design.Flow, v.design.Junction)
	v.violations = res.Violations
	if !res.OK() {
		v.showMessage(res.Violations[0].String(), MsgError)
		return false
	}
	v.scene = layout.Compose(v.design.Junction, v.design.Flow, v.opts)
	return true
}

func (v *Viewer) pushUndo() {
	v.undoStack = append(v.undoStack, v.design.Junction.Clone())
	if len(v.undoStack) > maxUndoLevels {
		v.undoStack = v.undoStack[1:]
	}
	// Clear redo stack on new action
	v.redoStack = nil
}

func (v *Viewer) undo() {
	if len(v.undoStack) == 0 {
		v.showMessage("Nothing to undo", MsgInfo)
		return
	}
	v.redoStack = append(v.redoStack, v.design.Junction.Clone())
	v.design.Junction = v.undoStack[len(v.undoStack)-1]
	v.undoStack = v.undoStack[:len(v.undoStack)-1]
	v.modified = true
	if v.refresh() {
		v.showMessage("Undo", MsgInfo)
	}
}

func (v *Viewer) redo() {
	if len(v.redoStack) == 0 {
		v.showMessage("Nothing to redo", MsgInfo)
		return
	}
	v.undoStack = append(v.undoStack, v.design.Junction.Clone())
	v.design.Junction = v.redoStack[len(v.redoStack)-1]
	v.redoStack = v.redoStack[:len(v.redoStack)-1]
	v.modified = true
	if v.refresh() {
		v.showMessage("Redo", MsgInfo)
	}
}

func (v *Viewer) showMessage(msg string, msgType MessageType) {
	v.msgMu.Lock()
	v.message = msg
	v.messageType = msgType
	v.messageFlashStart = time.Now().UnixMilli()
	v.msgMu.Unlock()
	if v.screen != nil {
		v.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

// statusMessage returns the current message, its type and when it was shown.
func (v *Viewer) statusMessage() (string, MessageType, int64) {
	v.msgMu.Lock()
	defer v.msgMu.Unlock()
	return v.message, v.messageType, v.messageFlashStart
}

// flashing reports whether the message still needs redraws at now.
func (v *Viewer) flashing(now int64) bool {
	msg, _, start := v.statusMessage()
	if msg == "" || start <= 0 {
		return false
	}
	elapsed := now - start
	return elapsed >= 0 && elapsed < flashPeriod+200
}

// File operations

func (v *Viewer) save() {
	if v.filename == "" {
		v.filename = "junction.yaml"
	}
	if len(v.violations) > 0 {
		v.showMessage("Cannot save: design has violations", MsgError)
		return
	}
	if err := junctionfile.Save(v.filename, v.design, true); err != nil {
		v.showMessage(fmt.Sprintf("Save failed: %v", err), MsgError)
		return
	}
	v.modified = false
	v.showMessage(fmt.Sprintf("Saved %s", filepath.Base(v.filename)), MsgSuccess)
}

// export draws the last valid scene next to the design file.
func (v *Viewer) export(ext string) {
	if v.scene.Empty() {
		v.showMessage("Nothing to export", MsgError)
		return
	}
	base := "junction"
	if v.filename != "" {
		base = strings.TrimSuffix(v.filename, filepath.Ext(v.filename))
	}
	out := base + ext

	var buf bytes.Buffer
	var err error
	switch ext {
	case ".svg":
		opts := render.DefaultSVGOptions()
		opts.Title = v.design.Junction.Name
		err = render.RenderSVG(v.scene, &buf, opts)
	case ".png":
		err = render.RenderPNG(v.scene, &buf, render.DefaultPNGOptions())
	}
	if err == nil {
		err = os.WriteFile(out, buf.Bytes(), 0644)
	}
	if err != nil {
		v.showMessage(fmt.Sprintf("Export failed: %v", err), MsgError)
		return
	}
	v.showMessage(fmt.Sprintf("Exported %s", filepath.Base(out)), MsgSuccess)
}
