package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/ha1tch/junction-toolkit/pkg/junction"
	"github.com/ha1tch/junction-toolkit/pkg/render"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleSidebar    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleSidebarH   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleSelected   = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
	styleViolation  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

func (v *Viewer) draw() {
	v.screen.Clear()
	w, h := v.screen.Size()

	canvasW := w - v.sidebarWidth - 1
	if canvasW < 0 {
		canvasW = 0
	}
	v.drawCanvas(canvasW, h-2)
	v.drawSidebar(canvasW, w, h-2)
	v.drawStatusBar(w, h)
}

// drawCanvas paints the scene as coloured character cells. Cells are
// squashed to roughly twice as tall as wide, so the grid is sized to keep
// the junction square.
func (v *Viewer) drawCanvas(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	cols, rows := w, h
	if cols > rows*2 {
		cols = rows * 2
	} else {
		rows = cols / 2
	}
	grid := render.RenderCells(v.scene, cols, rows)
	for y := 0; y < grid.Rows; y++ {
		for x := 0; x < grid.Cols; x++ {
			c := grid.At(x, y)
			v.screen.SetContent(x, y, c.Ch, nil, cellStyle(c))
		}
	}
}

func cellStyle(c render.Cell) tcell.Style {
	style := styleDefault
	if c.Bg != "" {
		style = style.Background(tcell.GetColor(c.Bg))
	}
	if c.Fg != "" {
		style = style.Foreground(tcell.GetColor(c.Fg))
	}
	return style
}

func (v *Viewer) drawSidebar(x0, w, h int) {
	for y := 0; y < h; y++ {
		v.screen.SetContent(x0, y, '│', nil, styleBorder)
	}
	x := x0 + 2
	y := 0
	line := func(s string, style tcell.Style) {
		if y < h {
			v.drawString(x, y, truncate(s, w-x), style)
		}
		y++
	}

	line(v.design.Junction.Name, styleSidebarH)
	line("Flow: "+v.design.Flow.Name, styleSidebar)
	y++

	for i, d := range junction.Directions {
		style := styleSidebar
		if d == v.selected {
			style = styleSelected
		}
		c := v.design.Junction.Direction(d)
		line(fmt.Sprintf("%d %-10s lanes %d", i+1, d, c.NumLanes), style)
	}
	y++

	c := v.design.Junction.Direction(v.selected)
	f := v.design.Flow.Flows[v.selected]
	line(string(v.selected), styleSidebarH)
	line(fmt.Sprintf("Lanes:     %d", c.NumLanes), styleSidebar)
	line(fmt.Sprintf("Left turn: %s", onOff(c.LeftTurnLane)), styleSidebar)
	transit := onOff(c.TransitLane)
	if c.TransitLane {
		transit = string(c.TransitType)
	}
	line(fmt.Sprintf("Transit:   %s", transit), styleSidebar)
	crossing := onOff(c.PedestrianCrossing)
	if c.PedestrianCrossing {
		crossing = fmt.Sprintf("%ds", c.CrossingDuration)
	}
	if v.opts.Crossings.Has(v.selected) {
		crossing += " (drawn)"
	}
	line(fmt.Sprintf("Crossing:  %s", crossing), styleSidebar)
	line(fmt.Sprintf("Priority:  %d", c.Priority), styleSidebar)
	line(fmt.Sprintf("Incoming:  %d vph", f.Incoming), styleSidebar)
	y++

	if len(v.violations) == 0 {
		line("Valid", styleSidebarH)
		return
	}
	line(fmt.Sprintf("Violations (%d)", len(v.violations)), styleViolation)
	for _, vi := range v.violations {
		line(vi.String(), styleViolation)
	}
}

func (v *Viewer) drawStatusBar(w, h int) {
	y := h - 1

	for x := 0; x < w; x++ {
		v.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	fileInfo := "[New]"
	if v.filename != "" {
		fileInfo = filepath.Base(v.filename)
	}
	if v.modified {
		fileInfo += " *"
	}
	v.drawString(1, y, fileInfo, styleStatus)

	if msg, msgType, start := v.statusMessage(); msg != "" {
		style := styleMsgInfo
		switch msgType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		}
		if msgType != MsgInfo && flashInverted(time.Now().UnixMilli()-start) {
			style = style.Reverse(true)
		}
		msg = truncate(msg, w-len(fileInfo)-4)
		v.drawString(w-len([]rune(msg))-2, y, msg, style)
	}

	// Help bar
	y = h - 2
	for x := 0; x < w; x++ {
		v.screen.SetContent(x, y, ' ', nil, styleDefault)
	}
	v.drawString(1, y, helpString, styleHelp)
}

const helpString = "1-4/Tab:Arm  +/-:Lanes  L:Left  T:Transit  B:Type  P:Crossing  [ ]:Duration  R:Priority  C:Draw crossing  F:Flows  U:Undo  E:Export  ^S:Save  Q:Quit"

// flashInverted reports whether a flashing message is drawn inverted
// elapsed milliseconds after it was shown.
func flashInverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= flashPeriod {
		return false
	}
	phase := elapsed / (flashPeriod / 4)
	return phase == 1 || phase == 3
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (v *Viewer) drawString(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		v.screen.SetContent(x+i, y, r, nil, style)
	}
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if maxLen <= 0 {
		return ""
	}
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
