package net

import (
	"math"
	"slices"

	"github.com/laidout/impose/pkg/errors"
	"github.com/laidout/impose/pkg/geom"
)

// NoLink marks a face edge with no neighbour.
const NoLink = -1

// Line is a decoration line drawn over the net, such as a fold guide.
type Line struct {
	Points []int `json:"points" bson:"points"`
	Closed bool  `json:"closed,omitempty" bson:"closed,omitempty"`
}

// Face is one polygon of a net.
type Face struct {
	// Points indexes Net.Points, in drawing order.
	Points []int `json:"points" bson:"points"`
	// Links[i] is the face across the edge from Points[i] to
	// Points[(i+1)%n], or NoLink.
	Links []int `json:"links" bson:"links"`
	// AlignO and AlignX pick the vertices (indexes into Points) that set the
	// face origin and x direction. -1 means vertex 0 and vertex 1.
	AlignO int `json:"align_o" bson:"align_o"`
	AlignX int `json:"align_x" bson:"align_x"`
	// Basis overrides the basis derived from AlignO and AlignX.
	Basis *geom.Affine `json:"basis,omitempty" bson:"basis,omitempty"`
	// Class groups faces that share a page style.
	Class int `json:"class" bson:"class"`
}

// NewFace returns a face over pts with no links and default alignment.
func NewFace(pts ...int) Face {
	links := make([]int, len(pts))
	for i := range links {
		links[i] = NoLink
	}
	return Face{Points: pts, Links: links, AlignO: -1, AlignX: -1}
}

// Edge returns the point indexes at either end of edge i.
func (f *Face) Edge(i int) (a, b int) {
	return f.Points[i], f.Points[(i+1)%len(f.Points)]
}

// Net is a flat layout of linked polygon faces.
type Net struct {
	Name   string       `json:"name" bson:"name"`
	Points []geom.Point `json:"points" bson:"points"`
	Lines  []Line       `json:"lines,omitempty" bson:"lines,omitempty"`
	Faces  []Face       `json:"faces" bson:"faces"`
}

// Clone returns a deep copy of n.
func (n *Net) Clone() *Net {
	out := &Net{
		Name:   n.Name,
		Points: slices.Clone(n.Points),
		Lines:  make([]Line, len(n.Lines)),
		Faces:  make([]Face, len(n.Faces)),
	}
	for i, l := range n.Lines {
		out.Lines[i] = Line{Points: slices.Clone(l.Points), Closed: l.Closed}
	}
	for i, f := range n.Faces {
		f.Points = slices.Clone(f.Points)
		f.Links = slices.Clone(f.Links)
		if f.Basis != nil {
			b := *f.Basis
			f.Basis = &b
		}
		out.Faces[i] = f
	}
	return out
}

// Validate checks point indexes, link targets and link symmetry.
func (n *Net) Validate() error {
	if len(n.Faces) == 0 {
		return errors.New(errors.ErrCodeInvalidNet, "net %q has no faces", n.Name)
	}
	for _, l := range n.Lines {
		for _, p := range l.Points {
			if p < 0 || p >= len(n.Points) {
				return errors.New(errors.ErrCodeInvalidNet, "line point %d out of range", p)
			}
		}
	}
	for fi := range n.Faces {
		f := &n.Faces[fi]
		if len(f.Points) < 3 {
			return errors.New(errors.ErrCodeInvalidNet, "face %d has %d points, need at least 3", fi, len(f.Points))
		}
		if len(f.Links) != len(f.Points) {
			return errors.New(errors.ErrCodeInvalidNet, "face %d has %d points but %d links", fi, len(f.Points), len(f.Links))
		}
		for _, p := range f.Points {
			if p < 0 || p >= len(n.Points) {
				return errors.New(errors.ErrCodeInvalidNet, "face %d point %d out of range", fi, p)
			}
		}
		if f.AlignO >= len(f.Points) || f.AlignX >= len(f.Points) || (f.AlignO >= 0 && f.AlignO == f.AlignX) {
			return errors.New(errors.ErrCodeInvalidNet, "face %d has bad alignment vertices %d,%d", fi, f.AlignO, f.AlignX)
		}
		for e, to := range f.Links {
			if to == NoLink {
				continue
			}
			if to < 0 || to >= len(n.Faces) || to == fi {
				return errors.New(errors.ErrCodeInvalidNet, "face %d edge %d links to bad face %d", fi, e, to)
			}
			a, b := f.Edge(e)
			if n.edgeTo(to, a, b, fi) < 0 {
				return errors.New(errors.ErrCodeInvalidNet, "face %d links to face %d across edge %d-%d, but not the other way", fi, to, a, b)
			}
		}
	}
	return nil
}

// edgeTo returns the edge of face fi that joins points a and b and links
// back to face from, or -1.
func (n *Net) edgeTo(fi, a, b, from int) int {
	f := &n.Faces[fi]
	for e := range f.Points {
		x, y := f.Edge(e)
		if ((x == a && y == b) || (x == b && y == a)) && f.Links[e] == from {
			return e
		}
	}
	return -1
}

// =============================================================================
// Geometry
// =============================================================================

// BBox returns the bounding box of the points used by faces and lines.
func (n *Net) BBox() geom.Rect {
	b := geom.EmptyRect()
	for _, f := range n.Faces {
		for _, p := range f.Points {
			b = b.Extend(n.Points[p])
		}
	}
	for _, l := range n.Lines {
		for _, p := range l.Points {
			b = b.Extend(n.Points[p])
		}
	}
	return b
}

// FitTo returns the uniform scale and translation that centers the net in
// rect shrunk by margin on every side.
func (n *Net) FitTo(rect geom.Rect, margin float64) geom.Affine {
	box := n.BBox()
	target := rect.Inset(margin)
	if box.Empty() || (box.Width() <= 0 && box.Height() <= 0) {
		return geom.Identity()
	}
	sx, sy := math.Inf(1), math.Inf(1)
	if box.Width() > 0 {
		sx = target.Width() / box.Width()
	}
	if box.Height() > 0 {
		sy = target.Height() / box.Height()
	}
	s := math.Min(sx, sy)
	c, tc := box.Center(), target.Center()
	return geom.Translate(-c.X, -c.Y).Then(geom.Scale(s, s)).Then(geom.Translate(tc.X, tc.Y))
}

// Center moves the net so its bounding box is centered on the origin.
func (n *Net) Center() {
	c := n.BBox().Center()
	n.Transform(geom.Translate(-c.X, -c.Y))
}

// Transform maps every point, and every explicit face basis, through m.
func (n *Net) Transform(m geom.Affine) {
	for i, p := range n.Points {
		n.Points[i] = m.Apply(p)
	}
	for i := range n.Faces {
		if b := n.Faces[i].Basis; b != nil {
			t := b.Then(m)
			n.Faces[i].Basis = &t
		}
	}
}

// Polygon returns the corner points of face fi in net coordinates.
func (n *Net) Polygon(fi int) []geom.Point {
	f := &n.Faces[fi]
	pts := make([]geom.Point, len(f.Points))
	for i, p := range f.Points {
		pts[i] = n.Points[p]
	}
	return pts
}

// FaceAt returns the first face containing pt.
func (n *Net) FaceAt(pt geom.Point) (int, bool) {
	for fi := range n.Faces {
		if geom.PointInPolygon(pt, n.Polygon(fi)) {
			return fi, true
		}
	}
	return -1, false
}

// Basis returns the transform from face fi's own coordinates to net
// coordinates. The origin sits on the AlignO vertex and the unit x vector
// points at the AlignX vertex; y is x turned counterclockwise.
func (n *Net) Basis(fi int) (geom.Affine, error) {
	if fi < 0 || fi >= len(n.Faces) {
		return geom.Affine{}, errors.New(errors.ErrCodeOutOfRange, "face %d out of range", fi)
	}
	f := &n.Faces[fi]
	if f.Basis != nil {
		return *f.Basis, nil
	}
	o, x := f.AlignO, f.AlignX
	if o < 0 {
		o = 0
	}
	if x < 0 {
		x = (o + 1) % len(f.Points)
	}
	origin := n.Points[f.Points[o]]
	xdir := n.Points[f.Points[x]].Sub(origin).Normalize()
	if xdir.Len() == 0 {
		return geom.Affine{}, errors.New(errors.ErrCodeInvalidNet, "face %d alignment vertices coincide", fi)
	}
	return geom.FromAxes(origin, xdir, xdir.Perp()), nil
}

// FaceOutline returns face fi as a closed polygon in its own coordinates.
func (n *Net) FaceOutline(fi int) (geom.Path, error) {
	basis, err := n.Basis(fi)
	if err != nil {
		return geom.Path{}, err
	}
	inv, err := basis.Invert()
	if err != nil {
		return geom.Path{}, errors.Wrap(errors.ErrCodeInvalidNet, err, "face %d basis", fi)
	}
	poly := n.Polygon(fi)
	for i, p := range poly {
		poly[i] = inv.Apply(p)
	}
	return geom.Path{Lines: []geom.Polyline{{Points: poly, Closed: true}}}, nil
}

// FaceBounds returns the bounding box of face fi in its own coordinates,
// which is the page size that face holds.
func (n *Net) FaceBounds(fi int) (geom.Rect, error) {
	outline, err := n.FaceOutline(fi)
	if err != nil {
		return geom.Rect{}, err
	}
	return outline.Bounds(), nil
}
