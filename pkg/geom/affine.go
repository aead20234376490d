package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Affine is a 2-D affine transform:
//
//	x' = A*x + B*y + TX
//	y' = C*x + D*y + TY
type Affine struct {
	A  float64 `json:"a" bson:"a"`
	B  float64 `json:"b" bson:"b"`
	TX float64 `json:"tx" bson:"tx"`
	C  float64 `json:"c" bson:"c"`
	D  float64 `json:"d" bson:"d"`
	TY float64 `json:"ty" bson:"ty"`
}

// Identity returns the identity transform.
func Identity() Affine { return Affine{A: 1, D: 1} }

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Affine { return Affine{A: 1, D: 1, TX: tx, TY: ty} }

// Scale returns a scaling about the origin.
func Scale(sx, sy float64) Affine { return Affine{A: sx, D: sy} }

// Rotate returns a counterclockwise rotation about the origin.
func Rotate(radians float64) Affine {
	c, s := math.Cos(radians), math.Sin(radians)
	return Affine{A: c, B: -s, C: s, D: c}
}

// FromAxes builds the transform that takes (1,0) to xaxis, (0,1) to yaxis and
// the origin to origin.
func FromAxes(origin, xaxis, yaxis Point) Affine {
	return Affine{A: xaxis.X, B: yaxis.X, TX: origin.X, C: xaxis.Y, D: yaxis.Y, TY: origin.Y}
}

// Origin returns the image of (0,0).
func (t Affine) Origin() Point { return Point{t.TX, t.TY} }

// XAxis returns the image of the unit x vector, without translation.
func (t Affine) XAxis() Point { return Point{t.A, t.C} }

// YAxis returns the image of the unit y vector, without translation.
func (t Affine) YAxis() Point { return Point{t.B, t.D} }

// Apply maps p through t.
func (t Affine) Apply(p Point) Point {
	return Point{
		X: t.A*p.X + t.B*p.Y + t.TX,
		Y: t.C*p.X + t.D*p.Y + t.TY,
	}
}

// ApplyVector maps v through the linear part of t.
func (t Affine) ApplyVector(v Point) Point {
	return Point{X: t.A*v.X + t.B*v.Y, Y: t.C*v.X + t.D*v.Y}
}

// Then returns the transform that applies t and then u.
func (t Affine) Then(u Affine) Affine {
	return Affine{
		A:  u.A*t.A + u.B*t.C,
		B:  u.A*t.B + u.B*t.D,
		TX: u.A*t.TX + u.B*t.TY + u.TX,
		C:  u.C*t.A + u.D*t.C,
		D:  u.C*t.B + u.D*t.D,
		TY: u.C*t.TX + u.D*t.TY + u.TY,
	}
}

// Det returns the determinant of the linear part.
func (t Affine) Det() float64 { return t.A*t.D - t.B*t.C }

// Invert returns the inverse transform.
func (t Affine) Invert() (Affine, error) {
	det := t.Det()
	if math.Abs(det) < Epsilon {
		return Affine{}, fmt.Errorf("singular transform")
	}
	inv := Affine{
		A: t.D / det, B: -t.B / det,
		C: -t.C / det, D: t.A / det,
	}
	inv.TX = -(inv.A*t.TX + inv.B*t.TY)
	inv.TY = -(inv.C*t.TX + inv.D*t.TY)
	return inv, nil
}

// Near reports whether every coefficient of t and u differs by at most tol.
func (t Affine) Near(u Affine, tol float64) bool {
	return math.Abs(t.A-u.A) <= tol && math.Abs(t.B-u.B) <= tol && math.Abs(t.TX-u.TX) <= tol &&
		math.Abs(t.C-u.C) <= tol && math.Abs(t.D-u.D) <= tol && math.Abs(t.TY-u.TY) <= tol
}

// FitAffine returns the least-squares transform mapping src onto dst.
// At least three pairs are required.
func FitAffine(src, dst []Point) (Affine, error) {
	n := len(src)
	if n != len(dst) {
		return Affine{}, fmt.Errorf("point count mismatch: %d vs %d", n, len(dst))
	}
	if n < 3 {
		return Affine{}, fmt.Errorf("need at least 3 points, got %d", n)
	}

	a := mat.NewDense(n*2, 6, nil)
	b := mat.NewVecDense(n*2, nil)
	for i := 0; i < n; i++ {
		fillRows(a, b, i, src[i], dst[i])
	}

	var qr mat.QR
	qr.Factorize(a)

	var params mat.VecDense
	if err := qr.SolveVecTo(&params, false, b); err != nil {
		return Affine{}, fmt.Errorf("fit affine: %w", err)
	}
	return affineFromParams(&params), nil
}

func fillRows(a *mat.Dense, b *mat.VecDense, i int, s, d Point) {
	a.Set(i*2, 0, s.X)
	a.Set(i*2, 1, s.Y)
	a.Set(i*2, 2, 1)
	b.SetVec(i*2, d.X)

	a.Set(i*2+1, 3, s.X)
	a.Set(i*2+1, 4, s.Y)
	a.Set(i*2+1, 5, 1)
	b.SetVec(i*2+1, d.Y)
}

func affineFromParams(p *mat.VecDense) Affine {
	return Affine{
		A:  p.AtVec(0),
		B:  p.AtVec(1),
		TX: p.AtVec(2),
		C:  p.AtVec(3),
		D:  p.AtVec(4),
		TY: p.AtVec(5),
	}
}
