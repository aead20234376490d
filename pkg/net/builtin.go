package net

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/laidout/impose/pkg/errors"
	"github.com/laidout/impose/pkg/geom"
)

// Face classes used by the built-in box.
const (
	ClassSide = iota
	ClassEnd
	ClassCap
)

// Box returns the cross-shaped net of a w by h by d box. The four walls run
// left to right (left end, front, right end, back) with the bottom below the
// front and the lid above it.
func Box(w, h, d float64) *Net {
	xs := []float64{0, d, d + w, 2*d + w, 2*d + 2*w}
	n := &Net{Name: "box"}
	for _, y := range []float64{d, d + h} {
		for _, x := range xs {
			n.Points = append(n.Points, geom.Pt(x, y))
		}
	}
	n.Points = append(n.Points,
		geom.Pt(d, 0), geom.Pt(d+w, 0),         // 10, 11
		geom.Pt(d, 2*d+h), geom.Pt(d+w, 2*d+h), // 12, 13
	)

	faces := []struct {
		pts   []int
		class int
	}{
		{[]int{1, 2, 7, 6}, ClassSide},  // front
		{[]int{0, 1, 6, 5}, ClassEnd},   // left
		{[]int{2, 3, 8, 7}, ClassEnd},   // right
		{[]int{3, 4, 9, 8}, ClassSide},  // back
		{[]int{10, 11, 2, 1}, ClassCap}, // bottom
		{[]int{6, 7, 13, 12}, ClassCap}, // lid
	}
	for _, f := range faces {
		face := NewFace(f.pts...)
		face.Class = f.class
		n.Faces = append(n.Faces, face)
	}
	if err := n.LinkFaces(); err != nil {
		panic(err)
	}
	return n
}

// dodecahedronFaces lists the pentagons by point index.
var dodecahedronFaces = []string{
	"25 21 37 33 29",
	"37 21 20 19 0",
	"33 37 36 35 34",
	"29 33 32 31 30",
	"25 29 28 27 26",
	"21 25 24 23 22",
	"6 2 18 14 10",
	"2 6 5 4 3",
	"6 10 9 8 7",
	"10 14 13 12 11",
	"14 18 17 16 15",
	"18 2 1 0 19",
}

// Dodecahedron returns a net of 12 regular pentagons with edge length side,
// laid out as two flowers of six joined at one edge.
func Dodecahedron(side float64) *Net {
	s := side
	tau := (math.Sqrt(5) + 1) / 2
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }

	a := s * math.Cos(rad(54))
	b := s * math.Sin(rad(72))
	c := s / 2 * (1 + math.Cos(rad(36))) / math.Sin(rad(36))
	h := c * tau * tau
	v := s / 2 * (7*tau + 5)

	i := s / 2 / tau
	j := s / 2
	k := s * tau / 2
	q := s * tau * tau / 2
	r := s * tau
	m := s / 2 * (tau + 2)
	l := s * tau * tau * tau

	n := &Net{Name: "dodecahedron"}
	n.Points = []geom.Point{
		{X: c, Y: l}, {X: b, Y: l - k}, {X: c, Y: l - r}, {X: a, Y: l - q}, {X: 0, Y: l / 2},
		{X: a, Y: q}, {X: c, Y: r}, {X: b, Y: k}, {X: c, Y: 0}, {X: h - c, Y: i},

		{X: h - c, Y: q}, {X: h - b, Y: j}, {X: h, Y: k}, {X: h, Y: m}, {X: h - b, Y: l / 2},
		{X: h, Y: l - m}, {X: h, Y: l - k}, {X: h - b, Y: l - j}, {X: h - c, Y: l - q}, {X: h - c, Y: l - i},

		{X: h - b, Y: v - l + k}, {X: h - c, Y: v - l + r}, {X: h - a, Y: v - l + q}, {X: h, Y: v - l/2}, {X: h - a, Y: v - q},
		{X: h - c, Y: v - r}, {X: h - b, Y: v - k}, {X: h - c, Y: v}, {X: c, Y: v - i}, {X: c, Y: v - q},

		{X: b, Y: v - j}, {X: 0, Y: v - k}, {X: 0, Y: v - m}, {X: b, Y: v - l/2}, {X: 0, Y: v - l + m},
		{X: 0, Y: v - l + k}, {X: b, Y: v - l + j}, {X: c, Y: v - l + q},
	}
	for _, spec := range dodecahedronFaces {
		n.Faces = append(n.Faces, NewFace(parseIndexes(spec)...))
	}
	n.Lines = []Line{
		{Points: []int{2, 6, 10, 14, 18}, Closed: true},
		{Points: []int{0, 19}},
		{Points: []int{21, 25, 29, 33, 37}, Closed: true},
	}
	if err := n.LinkFaces(); err != nil {
		panic(err)
	}
	return n
}

func parseIndexes(s string) []int {
	fields := strings.Fields(s)
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			panic(err)
		}
		out[i] = v
	}
	return out
}

var builtins = map[string]func() *Net{
	"box":          func() *Net { return Box(4, 2, 3) },
	"cube":         func() *Net { n := Box(2, 2, 2); n.Name = "cube"; return n },
	"dodecahedron": func() *Net { return Dodecahedron(1) },
}

// Builtin returns a fresh copy of the named built-in net.
func Builtin(name string) (*Net, error) {
	mk, ok := builtins[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "unknown net %q (known: %v)", name, BuiltinNames())
	}
	return mk(), nil
}

// BuiltinNames lists the built-in nets in sorted order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
