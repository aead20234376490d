package render

import (
	"math"
	"strconv"

	"github.com/laidout/impose/pkg/disposition"
	"github.com/laidout/impose/pkg/geom"
)

// Document is an ordered set of spreads from one layout.
type Document struct {
	Name    string                `json:"name"`
	Layout  disposition.Layout    `json:"layout"`
	Pages   int                   `json:"pages"`
	Papers  int                   `json:"papers"`
	Spreads []*disposition.Spread `json:"spreads"`
}

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	scale  float64
	margin float64
	labels bool
	marks  bool
	title  bool
}

// WithScale sets the output resolution in pixels per layout unit (default 36).
func WithScale(s float64) Option { return func(r *renderer) { r.scale = s } }

// WithMargin sets the space around and between spreads, in layout units.
func WithMargin(m float64) Option { return func(r *renderer) { r.margin = m } }
func WithLabels() Option          { return func(r *renderer) { r.labels = true } }
func WithoutMarks() Option        { return func(r *renderer) { r.marks = false } }

// WithTitle writes the document name above the spreads.
func WithTitle() Option { return func(r *renderer) { r.title = true } }

func newRenderer(opts ...Option) renderer {
	r := renderer{scale: 36, margin: .5, marks: true}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = 36
	}
	if r.margin < 0 {
		r.margin = 0
	}
	return r
}

// =============================================================================
// Scene
// =============================================================================

// scene is a document flattened to pixel space, y down.
type scene struct {
	width, height float64
	title         string
	outlines      [][]geom.Point
	pages         []scenePage
	marks         []sceneMark
}

type scenePage struct {
	poly    []geom.Point
	blank   bool
	label   string
	center  geom.Point
	size    float64
	flipped bool
}

type sceneMark struct {
	kind   disposition.MarkKind
	lines  [][]geom.Point
	closed []bool
}

func (r renderer) build(doc Document) *scene {
	sc := &scene{}
	s := r.scale
	top := r.margin
	if r.title && doc.Name != "" {
		sc.title = doc.Name
		top += r.margin
	}

	for _, sp := range doc.Spreads {
		b := sp.Bounds()
		if b.Empty() {
			continue
		}
		oy := top
		toPx := func(p geom.Point) geom.Point {
			return geom.Pt((p.X-b.Min.X+r.margin)*s, (oy+b.Max.Y-p.Y)*s)
		}
		mapLine := func(pts []geom.Point) []geom.Point {
			out := make([]geom.Point, len(pts))
			for i, p := range pts {
				out[i] = toPx(p)
			}
			return out
		}

		for _, pl := range sp.Path.Lines {
			sc.outlines = append(sc.outlines, mapLine(pl.Points))
		}
		for _, pg := range sp.Pages {
			outline := pg.Outline.Transform(pg.Transform)
			for _, pl := range outline.Lines {
				local := pg.Outline.Bounds()
				item := scenePage{
					poly:    mapLine(pl.Points),
					blank:   pg.Index < 0,
					center:  toPx(pg.Transform.Apply(local.Center())),
					size:    math.Min(local.Width(), local.Height()) * s,
					flipped: pg.Transform.YAxis().Y < 0,
				}
				if !item.blank {
					item.label = strconv.Itoa(pg.Index + 1)
				}
				sc.pages = append(sc.pages, item)
			}
		}
		if r.marks {
			for _, m := range sp.Marks {
				sm := sceneMark{kind: m.Kind}
				for _, pl := range m.Path.Lines {
					sm.lines = append(sm.lines, mapLine(pl.Points))
					sm.closed = append(sm.closed, pl.Closed)
				}
				sc.marks = append(sc.marks, sm)
			}
		}

		sc.width = math.Max(sc.width, (b.Width()+2*r.margin)*s)
		top += b.Height() + r.margin
	}
	if sc.width == 0 {
		sc.width = 2 * r.margin * s
	}
	sc.height = math.Max(top, 2*r.margin) * s
	return sc
}
