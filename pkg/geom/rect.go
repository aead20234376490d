package geom

import "math"

// Rect is an axis-aligned rectangle. A Rect whose Min exceeds its Max on
// either axis is empty.
type Rect struct {
	Min Point `json:"min" bson:"min"`
	Max Point `json:"max" bson:"max"`
}

// R returns the rectangle spanning (x0,y0)-(x1,y1), normalizing the corners.
func R(x0, y0, x1, y1 float64) Rect {
	return Rect{
		Min: Point{math.Min(x0, x1), math.Min(y0, y1)},
		Max: Point{math.Max(x0, x1), math.Max(y0, y1)},
	}
}

// EmptyRect returns a rectangle that any Extend call will replace.
func EmptyRect() Rect {
	return Rect{
		Min: Point{math.Inf(1), math.Inf(1)},
		Max: Point{math.Inf(-1), math.Inf(-1)},
	}
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }
func (r Rect) Center() Point   { return r.Min.Lerp(r.Max, .5) }
func (r Rect) Empty() bool     { return r.Min.X > r.Max.X || r.Min.Y > r.Max.Y }

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Extend grows r to include p.
func (r Rect) Extend(p Point) Rect {
	return Rect{
		Min: Point{math.Min(r.Min.X, p.X), math.Min(r.Min.Y, p.Y)},
		Max: Point{math.Max(r.Max.X, p.X), math.Max(r.Max.Y, p.Y)},
	}
}

// Union returns the smallest rectangle containing r and o.
func (r Rect) Union(o Rect) Rect {
	if o.Empty() {
		return r
	}
	return r.Extend(o.Min).Extend(o.Max)
}

// Inset shrinks r by d on every side. Negative d grows it.
func (r Rect) Inset(d float64) Rect {
	return Rect{Min: r.Min.Add(Point{d, d}), Max: r.Max.Sub(Point{d, d})}
}

// Translate moves r by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{Min: r.Min.Add(d), Max: r.Max.Add(d)}
}

// Corners returns the corners counterclockwise from Min.
func (r Rect) Corners() [4]Point {
	return [4]Point{r.Min, {r.Max.X, r.Min.Y}, r.Max, {r.Min.X, r.Max.Y}}
}

// Polyline returns r as a closed polyline.
func (r Rect) Polyline() Polyline {
	c := r.Corners()
	return Polyline{Points: c[:], Closed: true}
}

// BoundsOf returns the bounding box of pts.
func BoundsOf(pts ...Point) Rect {
	b := EmptyRect()
	for _, p := range pts {
		b = b.Extend(p)
	}
	return b
}
