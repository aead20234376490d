// Package geom provides the small 2-D geometry vocabulary shared by the
// imposition packages: points, axis-aligned rectangles, affine transforms and
// polyline paths.
//
// Coordinates follow the paper convention used throughout impose: the origin
// is the lower left corner of a sheet, x grows to the right and y grows up.
// Units are whatever the caller uses for paper sizes (inches by default).
//
// # Affine Transforms
//
// [Affine] maps a point p to (A*p.X + B*p.Y + TX, C*p.X + D*p.Y + TY).
// Transforms compose with [Affine.Then], so a.Then(b) applies a first:
//
//	place := geom.Translate(1, 2).Then(geom.Rotate(math.Pi))
//	q := place.Apply(geom.Pt(0, 0))
//
// [FitAffine] solves for the least-squares transform between point
// correspondences using gonum's QR factorization.
package geom
