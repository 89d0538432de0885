package geometry

import (
	"math"
	"testing"
)

func TestRotateAxisAligned(t *testing.T) {
	tests := []struct {
		deg  float64
		want Point
	}{
		{0, Point{1, 0}},
		{90, Point{0, 1}},
		{180, Point{-1, 0}},
		{-90, Point{0, -1}},
		{270, Point{0, -1}},
	}

	for _, tt := range tests {
		got := Rotate(Point{1, 0}, tt.deg)
		if got != tt.want {
			t.Errorf("Rotate((1,0), %v): expected %v, got %v", tt.deg, tt.want, got)
		}
	}
}

func TestRotateAbout(t *testing.T) {
	c := Point{10, 10}
	got := RotateAbout(Point{20, 10}, c, 90)
	if got != (Point{10, 20}) {
		t.Errorf("Expected (10,20), got %v", got)
	}
}

func TestAngle(t *testing.T) {
	if a := Angle(Point{0, -1}); a != -90 {
		t.Errorf("Expected -90, got %v", a)
	}
	if a := Angle(Point{-1, 0}); a != 180 {
		t.Errorf("Expected 180, got %v", a)
	}
}

func TestOffset(t *testing.T) {
	got := Offset(Point{400, 400}, Point{0, -1}, 25)
	if got != (Point{400, 375}) {
		t.Errorf("Expected (400,375), got %v", got)
	}
}

func TestRectFromPointsAnyOrder(t *testing.T) {
	a := RectFromPoints(Point{10, 50}, Point{30, 20})
	b := RectFromPoints(Point{30, 20}, Point{10, 50})

	want := Rect{X: 10, Y: 20, W: 20, H: 30}
	if a != want {
		t.Errorf("Expected %v, got %v", want, a)
	}
	if a != b {
		t.Errorf("Corner order changed result: %v vs %v", a, b)
	}
	if a.Center() != (Point{20, 35}) {
		t.Errorf("Expected centre (20,35), got %v", a.Center())
	}
}

func TestRectUnionAndContains(t *testing.T) {
	r := Rect{0, 0, 10, 10}.Union(Rect{20, 5, 5, 20})
	want := Rect{0, 0, 25, 25}
	if r != want {
		t.Errorf("Expected %v, got %v", want, r)
	}
	if !r.Contains(Point{25, 25}) {
		t.Error("Union should contain its far corner")
	}
	if r.Contains(Point{26, 0}) {
		t.Error("Union should not contain (26,0)")
	}
}

func TestOverlap(t *testing.T) {
	a := Rect{0, 0, 10, 10}
	b := Rect{5, 5, 10, 10}
	if got := Overlap(a, b); math.Abs(got-25) > 1e-9 {
		t.Errorf("Expected overlap 25, got %.2f", got)
	}
	// Touching edges do not overlap
	if got := Overlap(a, Rect{10, 0, 5, 5}); got != 0 {
		t.Errorf("Expected 0 for touching rects, got %.2f", got)
	}
}

func TestBounds(t *testing.T) {
	r := Bounds([]Point{{3, 4}, {-1, 8}, {5, 0}})
	want := Rect{-1, 0, 6, 8}
	if r != want {
		t.Errorf("Expected %v, got %v", want, r)
	}
	if !Bounds(nil).Empty() {
		t.Error("Bounds of no points should be empty")
	}
}
