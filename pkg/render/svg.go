package render

import (
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/ha1tch/junction-toolkit/pkg/layout"
)

// SVGOptions controls SVG rendering.
type SVGOptions struct {
	Width      int    // output width in pixels (0 = scene width)
	Height     int    // output height in pixels (0 = scene height)
	Title      string // document title
	FontFamily string
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		FontFamily: "Helvetica, Arial, sans-serif",
	}
}

// RenderSVG writes the scene as an SVG document. Primitives are emitted in
// scene order so later shapes cover earlier ones.
func RenderSVG(sc layout.Scene, w io.Writer, opts SVGOptions) error {
	if opts.Width == 0 {
		opts.Width = int(math.Round(sc.Width))
	}
	if opts.Height == 0 {
		opts.Height = int(math.Round(sc.Height))
	}
	if opts.FontFamily == "" {
		opts.FontFamily = DefaultSVGOptions().FontFamily
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("invalid SVG size %dx%d", opts.Width, opts.Height)
	}

	canvas := svg.New(w)
	if sc.Width > 0 && sc.Height > 0 &&
		(float64(opts.Width) != sc.Width || float64(opts.Height) != sc.Height) {
		canvas.Start(opts.Width, opts.Height,
			fmt.Sprintf(`viewBox="0 0 %s %s"`, num(sc.Width), num(sc.Height)))
	} else {
		canvas.Start(opts.Width, opts.Height)
	}
	if opts.Title != "" {
		canvas.Title(opts.Title)
	}

	for _, p := range sc.Primitives {
		switch p.Kind {
		case layout.KindRect:
			canvas.Rect(px(p.X), px(p.Y), px(p.W), px(p.H), shapeStyle(p), idAttr(p))
		case layout.KindDashedLine, layout.KindPolyline:
			if len(p.Points) < 2 {
				continue
			}
			xs := make([]int, len(p.Points))
			ys := make([]int, len(p.Points))
			for i, pt := range p.Points {
				xs[i], ys[i] = px(pt.X), px(pt.Y)
			}
			canvas.Polyline(xs, ys, lineStyle(p), idAttr(p))
		case layout.KindText:
			canvas.Text(px(p.X), px(p.Y), p.Text, textStyle(p, opts.FontFamily), idAttr(p))
		}
	}

	canvas.End()
	return nil
}

func px(v float64) int {
	return int(math.Round(v))
}

func num(v float64) string {
	return fmt.Sprintf("%g", v)
}

func idAttr(p layout.Primitive) string {
	return fmt.Sprintf(`id="%s"`, p.Name)
}

func shapeStyle(p layout.Primitive) string {
	var sb strings.Builder
	if fill := normalizeHex(p.Fill); fill != "" {
		sb.WriteString("fill:" + fill)
	} else {
		sb.WriteString("fill:none")
	}
	if stroke := normalizeHex(p.Stroke); stroke != "" && p.StrokeWidth > 0 {
		sb.WriteString(fmt.Sprintf(";stroke:%s;stroke-width:%s", stroke, num(p.StrokeWidth)))
	}
	return sb.String()
}

func lineStyle(p layout.Primitive) string {
	stroke := normalizeHex(p.Stroke)
	if stroke == "" {
		stroke = "#ffffff"
	}
	width := p.StrokeWidth
	if width == 0 {
		width = 1
	}
	s := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%s", stroke, num(width))
	if p.Kind == layout.KindDashedLine && len(p.Dash) > 0 {
		parts := make([]string, len(p.Dash))
		for i, d := range p.Dash {
			parts[i] = num(d)
		}
		s += ";stroke-dasharray:" + strings.Join(parts, ",")
	}
	return s
}

func textStyle(p layout.Primitive, family string) string {
	fill := normalizeHex(p.Fill)
	if fill == "" {
		fill = "#ffffff"
	}
	s := fmt.Sprintf("fill:%s;font-size:%spx;font-family:%s;text-anchor:middle;dominant-baseline:central",
		fill, num(p.FontSize), family)
	if p.Bold {
		s += ";font-weight:bold"
	}
	return s
}
