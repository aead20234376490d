package geom

// Polyline is an open or closed sequence of points.
type Polyline struct {
	Points []Point `json:"points" bson:"points"`
	Closed bool    `json:"closed,omitempty" bson:"closed,omitempty"`
}

// Line returns the open two-point polyline from a to b.
func Line(a, b Point) Polyline {
	return Polyline{Points: []Point{a, b}}
}

// Path is a list of polylines drawn together.
type Path struct {
	Lines []Polyline `json:"lines" bson:"lines"`
}

// RectPath returns a path holding a single closed rectangle.
func RectPath(r Rect) Path {
	return Path{Lines: []Polyline{r.Polyline()}}
}

// Append adds polylines to p.
func (p *Path) Append(lines ...Polyline) {
	p.Lines = append(p.Lines, lines...)
}

// Bounds returns the bounding box of every point in p.
func (p Path) Bounds() Rect {
	b := EmptyRect()
	for _, l := range p.Lines {
		for _, pt := range l.Points {
			b = b.Extend(pt)
		}
	}
	return b
}

// Transform returns a copy of p with every point mapped through t.
func (p Path) Transform(t Affine) Path {
	out := Path{Lines: make([]Polyline, len(p.Lines))}
	for i, l := range p.Lines {
		pts := make([]Point, len(l.Points))
		for j, pt := range l.Points {
			pts[j] = t.Apply(pt)
		}
		out.Lines[i] = Polyline{Points: pts, Closed: l.Closed}
	}
	return out
}

// PointInPolygon reports whether p lies inside the closed polygon poly using
// the even-odd rule.
func PointInPolygon(p Point, poly []Point) bool {
	in := false
	n := len(poly)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}
