package main

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/ha1tch/junction-toolkit/pkg/junction"
	"github.com/ha1tch/junction-toolkit/pkg/junctionfile"
)

// TestFlashInverted verifies the phase logic for message flashing
func TestFlashInverted(t *testing.T) {
	// normal(0-125) -> inverted(125-250) -> normal(250-375) -> inverted(375-500) -> normal(500+)
	tests := []struct {
		elapsed      int64
		wantInverted bool
	}{
		{-10, false},
		{0, false},
		{124, false},
		{125, true},
		{249, true},
		{250, false},
		{374, false},
		{375, true},
		{499, true},
		{500, false},
		{1000, false},
	}

	for _, tt := range tests {
		if got := flashInverted(tt.elapsed); got != tt.wantInverted {
			t.Errorf("elapsed=%d: got inverted=%v, want %v", tt.elapsed, got, tt.wantInverted)
		}
	}
}

func TestFlashingWindow(t *testing.T) {
	v := newTestViewer(t)
	if v.flashing(time.Now().UnixMilli()) {
		t.Error("No message shown yet, should not flash")
	}
	v.showMessage("Saved", MsgSuccess)
	_, _, start := v.statusMessage()
	if !v.flashing(start + 100) {
		t.Error("Expected flashing right after the message")
	}
	if v.flashing(start + flashPeriod + 200) {
		t.Error("Flash window should be over")
	}
}

// The refresh ticker reads message state while key handling writes it.
func TestMessageConcurrentAccess(t *testing.T) {
	v := newTestViewer(t)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			v.showMessage("Redo", MsgSuccess)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			v.flashing(time.Now().UnixMilli())
		}
	}()
	wg.Wait()
	if msg, typ, _ := v.statusMessage(); msg != "Redo" || typ != MsgSuccess {
		t.Errorf("Unexpected message %q (%d)", msg, typ)
	}
}

func newTestViewer(t *testing.T) *Viewer {
	t.Helper()
	v := newViewer(junctionfile.NewDesign("Test"), "")
	if len(v.violations) != 0 {
		t.Fatalf("Default design should validate, got %v", v.violations)
	}
	if v.scene.Empty() {
		t.Fatal("Expected an initial scene")
	}
	return v
}

func press(v *Viewer, keys string) {
	for _, r := range keys {
		v.handleRune(r)
	}
}

func TestSelectAndEdit(t *testing.T) {
	v := newTestViewer(t)

	press(v, "3+l")
	if v.selected != junction.East {
		t.Fatalf("Expected eastbound selected, got %s", v.selected)
	}
	e := v.design.Junction.Direction(junction.East)
	if e.NumLanes != 2 || !e.LeftTurnLane {
		t.Errorf("Unexpected eastbound config %+v", e)
	}
	if !v.modified {
		t.Error("Expected modified flag")
	}
	if len(v.scene.WithPrefix("eastbound-arrow")) != 2 {
		t.Error("Expected left-turn arrow in the scene")
	}

	press(v, "tb")
	e = v.design.Junction.Direction(junction.East)
	if !e.TransitLane || e.TransitType != junction.TransitBicycle {
		t.Errorf("Expected bicycle lane, got %+v", e)
	}
}

func TestInvalidEditKeepsLastScene(t *testing.T) {
	v := newTestViewer(t)
	press(v, "1++++")
	valid := v.scene

	press(v, "+")
	if got := v.design.Junction.Direction(junction.North).NumLanes; got != 6 {
		t.Fatalf("Expected the edit to stick, got %d lanes", got)
	}
	if len(v.violations) == 0 || v.violations[0].Rule != junction.RuleLaneCount {
		t.Fatalf("Expected lane count violation, got %v", v.violations)
	}
	if v.messageType != MsgError {
		t.Error("Expected violation in the status bar")
	}
	if !reflect.DeepEqual(v.scene, valid) {
		t.Error("Scene should stay on the last valid design")
	}

	press(v, "-")
	if len(v.violations) != 0 {
		t.Errorf("Expected design valid again, got %v", v.violations)
	}
}

func TestPriorityCycle(t *testing.T) {
	v := newTestViewer(t)
	press(v, "1r2r")
	if len(v.violations) != 2 {
		t.Fatalf("Expected shared priority on two arms, got %v", v.violations)
	}
	press(v, "r")
	if len(v.violations) != 0 {
		t.Errorf("Expected unique priorities, got %v", v.violations)
	}
	press(v, "rrr")
	if p := v.design.Junction.Direction(junction.South).Priority; p != 0 {
		t.Errorf("Expected priority to wrap to 0, got %d", p)
	}
}

func TestCrossingRendering(t *testing.T) {
	v := newTestViewer(t)
	press(v, "2c")
	if len(v.scene.WithPrefix("southbound-crossing")) != 0 {
		t.Error("Crossing drawn without a pedestrian crossing")
	}
	press(v, "p")
	if len(v.scene.WithPrefix("southbound-crossing")) == 0 {
		t.Error("Expected crossing strips")
	}
	press(v, "c")
	if len(v.scene.WithPrefix("southbound-crossing")) != 0 {
		t.Error("Crossing rendering should be off")
	}

	press(v, "[")
	if len(v.violations) == 0 {
		t.Error("Expected crossing duration below minimum to be rejected")
	}
}

func TestUndoRedo(t *testing.T) {
	v := newTestViewer(t)
	press(v, "1+")
	press(v, "u")
	if got := v.design.Junction.Direction(junction.North).NumLanes; got != 1 {
		t.Errorf("Expected undo to 1 lane, got %d", got)
	}
	press(v, "U")
	if got := v.design.Junction.Direction(junction.North).NumLanes; got != 2 {
		t.Errorf("Expected redo to 2 lanes, got %d", got)
	}
	press(v, "UU")
	if v.message != "Nothing to redo" {
		t.Errorf("Unexpected message %q", v.message)
	}
}

func TestQuitNeedsConfirmation(t *testing.T) {
	v := newTestViewer(t)
	if !v.handleRune('q') {
		t.Error("Unmodified viewer should quit at once")
	}
	press(v, "+")
	if v.handleRune('q') {
		t.Error("Modified viewer should ask before quitting")
	}
	if !v.handleRune('q') {
		t.Error("Second q should quit")
	}
}

func TestSaveAndExport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "d.yaml")
	v := newViewer(junctionfile.NewDesign("Files"), path)
	press(v, "+")
	v.save()
	if v.modified {
		t.Errorf("Expected saved, got message %q", v.message)
	}
	d, err := junctionfile.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if d.Junction.Direction(junction.North).NumLanes != 2 {
		t.Error("Saved design lost the edit")
	}

	press(v, "e")
	data, err := os.ReadFile(filepath.Join(dir, "d.svg"))
	if err != nil {
		t.Fatalf("Export failed: %v (%s)", err, v.message)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("Export is not an SVG document")
	}

	press(v, "++++")
	v.save()
	if v.messageType != MsgError {
		t.Error("Invalid design should not be saved")
	}
}

func TestDraw(t *testing.T) {
	v := newTestViewer(t)
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(120, 42)
	v.screen = screen

	v.draw()
	screen.Show()
	cells, w, h := screen.GetContents()

	row := func(y int) string {
		var sb strings.Builder
		for x := 0; x < w; x++ {
			if r := cells[y*w+x].Runes; len(r) > 0 {
				sb.WriteRune(r[0])
			} else {
				sb.WriteByte(' ')
			}
		}
		return sb.String()
	}
	if !strings.Contains(row(0), "Test") {
		t.Errorf("Expected junction name in sidebar, got %q", row(0))
	}
	if !strings.Contains(row(h-1), "[New]") {
		t.Errorf("Expected file info in status bar, got %q", row(h-1))
	}

	// The canvas top-left corner is grass.
	_, bg, _ := cells[0].Style.Decompose()
	if bg != tcell.GetColor("#4a7c3a") {
		t.Errorf("Expected grass background, got %v", bg)
	}
}
