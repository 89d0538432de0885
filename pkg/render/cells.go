package render

import (
	"math"
	"strings"

	"github.com/ha1tch/junction-toolkit/pkg/geometry"
	"github.com/ha1tch/junction-toolkit/pkg/layout"
)

// Cell is one character cell of a terminal rendering. Colours are
// "#rrggbb" strings, empty when unset.
type Cell struct {
	Ch rune
	Fg string
	Bg string
}

// Grid is a scene rasterised to character cells, row-major.
type Grid struct {
	Cols, Rows int
	Cells      []Cell
}

// At returns the cell at column x, row y.
func (g Grid) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= g.Cols || y >= g.Rows {
		return Cell{Ch: ' '}
	}
	return g.Cells[y*g.Cols+x]
}

func (g Grid) set(x, y int, fn func(*Cell)) {
	if x < 0 || y < 0 || x >= g.Cols || y >= g.Rows {
		return
	}
	fn(&g.Cells[y*g.Cols+x])
}

// String returns the characters of the grid, one line per row.
func (g Grid) String() string {
	var sb strings.Builder
	for y := 0; y < g.Rows; y++ {
		for x := 0; x < g.Cols; x++ {
			sb.WriteRune(g.At(x, y).Ch)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// RenderCells rasterises the scene onto a cols x rows character grid.
// Rects colour the background of every cell whose centre they cover;
// lines and text set characters on top.
func RenderCells(sc layout.Scene, cols, rows int) Grid {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	g := Grid{Cols: cols, Rows: rows, Cells: make([]Cell, cols*rows)}
	for i := range g.Cells {
		g.Cells[i].Ch = ' '
	}
	if cols == 0 || rows == 0 || sc.Width <= 0 || sc.Height <= 0 {
		return g
	}

	cw := sc.Width / float64(cols)
	ch := sc.Height / float64(rows)
	toCell := func(p geometry.Point) (float64, float64) {
		return p.X / cw, p.Y / ch
	}

	for _, p := range sc.Primitives {
		switch p.Kind {
		case layout.KindRect:
			bg := normalizeHex(p.Fill)
			if bg == "" {
				continue
			}
			r := p.Rect()
			for y := 0; y < rows; y++ {
				for x := 0; x < cols; x++ {
					centre := geometry.Point{X: (float64(x) + 0.5) * cw, Y: (float64(y) + 0.5) * ch}
					if r.Contains(centre) {
						g.set(x, y, func(c *Cell) {
							c.Bg = bg
							c.Ch = ' '
							c.Fg = ""
						})
					}
				}
			}
		case layout.KindDashedLine, layout.KindPolyline:
			fg := normalizeHex(p.Stroke)
			dashed := p.Kind == layout.KindDashedLine
			for i := 1; i < len(p.Points); i++ {
				x1, y1 := toCell(p.Points[i-1])
				x2, y2 := toCell(p.Points[i])
				r := lineRune(x2-x1, y2-y1, dashed)
				steps := int(math.Ceil(math.Max(math.Abs(x2-x1), math.Abs(y2-y1))*2)) + 1
				for s := 0; s <= steps; s++ {
					t := float64(s) / float64(steps)
					g.set(int(x1+(x2-x1)*t), int(y1+(y2-y1)*t), func(c *Cell) {
						c.Ch = r
						c.Fg = fg
					})
				}
			}
		case layout.KindText:
			fg := normalizeHex(p.Fill)
			x, y := toCell(geometry.Point{X: p.X, Y: p.Y})
			runes := []rune(p.Text)
			start := int(math.Round(x - float64(len(runes))/2))
			for i, r := range runes {
				g.set(start+i, int(y), func(c *Cell) {
					c.Ch = r
					c.Fg = fg
				})
			}
		}
	}
	return g
}

// lineRune picks a box-drawing character for a segment direction given in
// cell units.
func lineRune(dx, dy float64, dashed bool) rune {
	ax, ay := math.Abs(dx), math.Abs(dy)
	switch {
	case ay <= ax/3:
		if dashed {
			return '╌'
		}
		return '─'
	case ax <= ay/3:
		if dashed {
			return '╎'
		}
		return '│'
	case (dx > 0) == (dy > 0):
		return '\\'
	}
	return '/'
}
