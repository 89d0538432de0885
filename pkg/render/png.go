// Native PNG rendering for junction scenes.
// Mirrors the SVG renderer output using Go's image packages.

package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ha1tch/junction-toolkit/pkg/geometry"
	"github.com/ha1tch/junction-toolkit/pkg/layout"
)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Width       int // output width in pixels (0 = scene width)
	Height      int // output height in pixels (0 = scene height)
	Supersample int // render scale before downsampling (0 = 4)
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{Supersample: 4}
}

var (
	colorWhite = color.RGBA{255, 255, 255, 255}
	colorRoad  = color.RGBA{119, 119, 119, 255} // #777
)

// renderContext holds the target image and the scene-to-pixel transform.
type renderContext struct {
	img    *image.RGBA
	sx, sy float64 // scene units to pixels
	faces  map[faceKey]font.Face
}

type faceKey struct {
	size float64
	bold bool
}

func (ctx *renderContext) pt(p geometry.Point) (float64, float64) {
	return p.X * ctx.sx, p.Y * ctx.sy
}

// face returns a Go font face for the scene font size, cached per size.
func (ctx *renderContext) face(size float64, bold bool) (font.Face, error) {
	key := faceKey{size, bold}
	if f, ok := ctx.faces[key]; ok {
		return f, nil
	}
	ttf := goregular.TTF
	if bold {
		ttf = gobold.TTF
	}
	fnt, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	f, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size * ctx.sy,
		DPI:     72,
		Hinting: font.HintingNone, // supersampled instead
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	ctx.faces[key] = f
	return f, nil
}

// RenderPNG renders a scene to PNG format.
// Draws at Supersample times the output size and downsamples for smoother
// edges.
func RenderPNG(sc layout.Scene, w io.Writer, opts PNGOptions) error {
	img, err := RenderImage(sc, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// RenderImage rasterises a scene to an RGBA image at the output size.
func RenderImage(sc layout.Scene, opts PNGOptions) (*image.RGBA, error) {
	if opts.Width == 0 {
		opts.Width = int(math.Round(sc.Width))
	}
	if opts.Height == 0 {
		opts.Height = int(math.Round(sc.Height))
	}
	if opts.Supersample <= 0 {
		opts.Supersample = DefaultPNGOptions().Supersample
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid PNG size %dx%d", opts.Width, opts.Height)
	}

	scale := opts.Supersample
	largeImg := image.NewRGBA(image.Rect(0, 0, opts.Width*scale, opts.Height*scale))
	ctx := &renderContext{
		img:   largeImg,
		sx:    float64(opts.Width*scale) / nonZero(sc.Width, float64(opts.Width)),
		sy:    float64(opts.Height*scale) / nonZero(sc.Height, float64(opts.Height)),
		faces: make(map[faceKey]font.Face),
	}
	draw.Draw(largeImg, largeImg.Bounds(), image.NewUniform(colorRoad), image.Point{}, draw.Src)

	for _, p := range sc.Primitives {
		if err := drawPrimitive(ctx, p); err != nil {
			return nil, fmt.Errorf("draw %s: %w", p.Name, err)
		}
	}

	// Downsample to target size using high-quality interpolation
	finalImg := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(finalImg, finalImg.Bounds(), largeImg, largeImg.Bounds(), draw.Over, nil)
	return finalImg, nil
}

func nonZero(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}

func drawPrimitive(ctx *renderContext, p layout.Primitive) error {
	switch p.Kind {
	case layout.KindRect:
		fillRect(ctx, p)
	case layout.KindDashedLine, layout.KindPolyline:
		c := toRGBA(p.Stroke, colorWhite)
		thick := math.Max(1, p.StrokeWidth) * ctx.sx
		var dash []float64
		if p.Kind == layout.KindDashedLine {
			for _, d := range p.Dash {
				dash = append(dash, d*ctx.sx)
			}
		}
		drawPolyline(ctx, p.Points, thick, dash, c)
	case layout.KindText:
		return drawTextCentered(ctx, p)
	}
	return nil
}

func fillRect(ctx *renderContext, p layout.Primitive) {
	x0, y0 := ctx.pt(geometry.Point{X: p.X, Y: p.Y})
	x1, y1 := ctx.pt(geometry.Point{X: p.X + p.W, Y: p.Y + p.H})
	r := image.Rect(int(math.Round(x0)), int(math.Round(y0)), int(math.Round(x1)), int(math.Round(y1)))
	if p.Fill != "" {
		draw.Draw(ctx.img, r, image.NewUniform(toRGBA(p.Fill, colorWhite)), image.Point{}, draw.Src)
	}
	if p.Stroke != "" && p.StrokeWidth > 0 {
		c := toRGBA(p.Stroke, colorWhite)
		thick := p.StrokeWidth * ctx.sx
		corners := []geometry.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}, {X: x0, Y: y0}}
		for i := 1; i < len(corners); i++ {
			drawLine(ctx, corners[i-1].X, corners[i-1].Y, corners[i].X, corners[i].Y, thick, c)
		}
	}
}

// drawPolyline strokes a pixel-space path. A non-empty dash pattern
// alternates on/off lengths and carries across segment joins.
func drawPolyline(ctx *renderContext, pts []geometry.Point, thick float64, dash []float64, c color.Color) {
	if len(pts) < 2 {
		return
	}
	di, left, on := 0, 0.0, true
	if len(dash) > 0 {
		left = dash[0]
	}
	for i := 1; i < len(pts); i++ {
		x1, y1 := ctx.pt(pts[i-1])
		x2, y2 := ctx.pt(pts[i])
		if len(dash) == 0 {
			drawLine(ctx, x1, y1, x2, y2, thick, c)
			continue
		}
		segLen := math.Hypot(x2-x1, y2-y1)
		if segLen == 0 {
			continue
		}
		ux, uy := (x2-x1)/segLen, (y2-y1)/segLen
		pos := 0.0
		for pos < segLen {
			step := math.Min(left, segLen-pos)
			if on {
				drawLine(ctx, x1+ux*pos, y1+uy*pos, x1+ux*(pos+step), y1+uy*(pos+step), thick, c)
			}
			pos += step
			left -= step
			if left <= 0 {
				di = (di + 1) % len(dash)
				left = dash[di]
				on = !on
				if left <= 0 {
					left = 1
				}
			}
		}
	}
}

func drawLine(ctx *renderContext, x1, y1, x2, y2, thickness float64, c color.Color) {
	img := ctx.img

	dx := x2 - x1
	dy := y2 - y1
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	if steps < 1 {
		steps = 1
	}

	halfThick := thickness / 2

	dist := math.Sqrt(dx*dx + dy*dy)
	if dist < 1 {
		for ty := -halfThick; ty <= halfThick; ty++ {
			for tx := -halfThick; tx <= halfThick; tx++ {
				img.Set(int(x1+tx), int(y1+ty), c)
			}
		}
		return
	}

	perpX := -dy / dist
	perpY := dx / dist

	for i := 0.0; i <= steps; i++ {
		t := i / steps
		cx := x1 + dx*t
		cy := y1 + dy*t

		for offset := -halfThick; offset <= halfThick; offset += 0.5 {
			img.Set(int(cx+perpX*offset), int(cy+perpY*offset), c)
		}
	}
}

// drawTextCentered draws text centred horizontally and vertically on the
// primitive anchor.
func drawTextCentered(ctx *renderContext, p layout.Primitive) error {
	if p.Text == "" {
		return nil
	}
	size := p.FontSize
	if size <= 0 {
		size = 12
	}
	face, err := ctx.face(size, p.Bold)
	if err != nil {
		return err
	}
	x, y := ctx.pt(geometry.Point{X: p.X, Y: p.Y})
	width := font.MeasureString(face, p.Text).Ceil()

	// Caps sit roughly 0.7 ascent above the baseline.
	ascent := face.Metrics().Ascent.Ceil()
	baselineY := int(y) + int(float64(ascent)*0.35)

	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(toRGBA(p.Fill, colorWhite)),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(int(x) - width/2), Y: fixed.I(baselineY)},
	}
	d.DrawString(p.Text)
	return nil
}
