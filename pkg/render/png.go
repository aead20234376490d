package render

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/laidout/impose/pkg/disposition"
	"github.com/laidout/impose/pkg/errors"
	"github.com/laidout/impose/pkg/geom"
)

// maxPNGPixels bounds the raster size so a bad scale cannot exhaust memory.
const maxPNGPixels = 64 << 20

var (
	colorPaper   = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorBlank   = color.RGBA{0xee, 0xee, 0xee, 0xff}
	colorEdge    = color.RGBA{0x99, 0x99, 0x99, 0xff}
	colorOutline = color.RGBA{0x33, 0x33, 0x33, 0xff}
	colorMark    = color.RGBA{0x00, 0x00, 0x00, 0xff}
	colorLabel   = color.RGBA{0x55, 0x55, 0x55, 0xff}
)

// PNG rasterizes doc without external tools. Labels use a fixed bitmap
// font, so they do not scale with the pages.
func PNG(doc Document, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	sc := r.build(doc)

	w, h := int(math.Ceil(sc.width)), int(math.Ceil(sc.height))
	if w <= 0 || h <= 0 || w*h > maxPNGPixels {
		return nil, errors.New(errors.ErrCodeInvalidInput, "image size %dx%d out of range", w, h)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(colorPaper), image.Point{}, draw.Src)

	ras := vector.NewRasterizer(w, h)
	for _, p := range sc.pages {
		fill := colorPaper
		if p.blank {
			fill = colorBlank
		}
		fillPolygon(ras, img, p.poly, fill)
		strokePolyline(ras, img, p.poly, true, 1, colorEdge)
	}
	for _, o := range sc.outlines {
		strokePolyline(ras, img, o, true, 1.5, colorOutline)
	}
	for _, m := range sc.marks {
		width := 1.0
		if m.kind == disposition.MarkDot {
			width = 3
		}
		for i, l := range m.lines {
			if m.kind == disposition.MarkFold {
				dashPolyline(ras, img, l, m.closed[i], width, colorMark)
				continue
			}
			strokePolyline(ras, img, l, m.closed[i], width, colorMark)
		}
	}
	if r.labels {
		for _, p := range sc.pages {
			if p.label != "" {
				drawLabel(img, p.label, p.center)
			}
		}
	}
	if sc.title != "" {
		drawLabel(img, sc.title, geom.Pt(sc.width/2, r.margin*r.scale/2))
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

func fillPolygon(ras *vector.Rasterizer, dst draw.Image, pts []geom.Point, c color.Color) {
	if len(pts) < 3 {
		return
	}
	b := dst.Bounds()
	ras.Reset(b.Dx(), b.Dy())
	ras.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		ras.LineTo(float32(p.X), float32(p.Y))
	}
	ras.ClosePath()
	ras.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// strokePolyline draws each segment as a thin quad.
func strokePolyline(ras *vector.Rasterizer, dst draw.Image, pts []geom.Point, closed bool, width float64, c color.Color) {
	for i := 0; i+1 < len(pts); i++ {
		strokeSegment(ras, dst, pts[i], pts[i+1], width, c)
	}
	if closed && len(pts) > 2 {
		strokeSegment(ras, dst, pts[len(pts)-1], pts[0], width, c)
	}
}

func strokeSegment(ras *vector.Rasterizer, dst draw.Image, a, b geom.Point, width float64, c color.Color) {
	d := b.Sub(a)
	if d.Len() == 0 {
		// a dot: draw a square of the stroke width
		d = geom.Pt(width/2, 0)
		a, b = a.Sub(d), a.Add(d)
		d = b.Sub(a)
	}
	n := d.Normalize().Perp().Scale(width / 2)
	fillPolygon(ras, dst, []geom.Point{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)}, c)
}

func dashPolyline(ras *vector.Rasterizer, dst draw.Image, pts []geom.Point, closed bool, width float64, c color.Color) {
	const dash = 4.0
	if closed && len(pts) > 2 {
		pts = append(pts[:len(pts):len(pts)], pts[0])
	}
	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		length := a.Dist(b)
		for t := 0.0; t < length; t += 2 * dash {
			end := math.Min(t+dash, length)
			strokeSegment(ras, dst, a.Lerp(b, t/length), a.Lerp(b, end/length), width, c)
		}
	}
}

func drawLabel(dst draw.Image, s string, center geom.Point) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(colorLabel), Face: face}
	w := d.MeasureString(s)
	m := face.Metrics()
	d.Dot = fixed.Point26_6{
		X: fixed.Int26_6(center.X*64) - w/2,
		Y: fixed.Int26_6(center.Y*64) + (m.Ascent-m.Descent)/2,
	}
	d.DrawString(s)
}
