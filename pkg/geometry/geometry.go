// Package geometry provides the 2D vector and rectangle types used to lay
// out junction scenes. Screen coordinates: x grows right, y grows down.
package geometry

import (
	"math"

	"github.com/paulmach/orb"
)

// Point represents a 2D coordinate or vector.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p multiplied by k.
func (p Point) Scale(k float64) Point {
	return Point{p.X * k, p.Y * k}
}

// Len returns the Euclidean length of p.
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Offset moves p by dist along the unit vector dir.
func Offset(p, dir Point, dist float64) Point {
	return p.Add(dir.Scale(dist))
}

// Rotate rotates p about the origin by deg degrees. Positive angles turn
// clockwise on screen because y grows downward.
func Rotate(p Point, deg float64) Point {
	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	x := p.X*cos - p.Y*sin
	y := p.X*sin + p.Y*cos
	// Snap float noise so axis-aligned rotations stay exact.
	return Point{snap(x), snap(y)}
}

// RotateAbout rotates p about centre c by deg degrees.
func RotateAbout(p, c Point, deg float64) Point {
	return Rotate(p.Sub(c), deg).Add(c)
}

// Angle returns the screen angle of the vector v in degrees, measured from
// the +x axis, clockwise positive.
func Angle(v Point) float64 {
	return snap(math.Atan2(v.Y, v.X) * 180 / math.Pi)
}

func snap(v float64) float64 {
	const eps = 1e-9
	r := math.Round(v)
	if math.Abs(v-r) < eps {
		return r
	}
	return v
}

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	X float64 `json:"x"` // top-left
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// RectFromPoints returns the axis-aligned rectangle spanned by two opposite
// corners given in any order.
func RectFromPoints(a, b Point) Rect {
	bound := orb.MultiPoint{toOrb(a), toOrb(b)}.Bound()
	return fromBound(bound)
}

// Min returns the top-left corner.
func (r Rect) Min() Point { return Point{r.X, r.Y} }

// Max returns the bottom-right corner.
func (r Rect) Max() Point { return Point{r.X + r.W, r.Y + r.H} }

// Center returns the rectangle centre.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return fromBound(r.bound().Union(o.bound()))
}

// Overlap returns the overlap area between two rectangles, or 0 if they
// only touch or are disjoint.
func Overlap(a, b Rect) float64 {
	w := math.Min(a.X+a.W, b.X+b.W) - math.Max(a.X, b.X)
	h := math.Min(a.Y+a.H, b.Y+b.H) - math.Max(a.Y, b.Y)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Bounds returns the bounding rectangle of a set of points.
func Bounds(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	mp := make(orb.MultiPoint, len(points))
	for i, p := range points {
		mp[i] = toOrb(p)
	}
	return fromBound(mp.Bound())
}

func (r Rect) bound() orb.Bound {
	return orb.Bound{Min: toOrb(r.Min()), Max: toOrb(r.Max())}
}

func toOrb(p Point) orb.Point {
	return orb.Point{p.X, p.Y}
}

func fromBound(b orb.Bound) Rect {
	return Rect{
		X: b.Min.X(),
		Y: b.Min.Y(),
		W: b.Max.X() - b.Min.X(),
		H: b.Max.Y() - b.Min.Y(),
	}
}
