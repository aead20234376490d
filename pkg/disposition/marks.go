package disposition

import (
	"github.com/laidout/impose/pkg/geom"
	"github.com/laidout/impose/pkg/signature"
)

// markGap is the clearance kept between printer marks and the page area or
// paper edge.
const markGap = 0.0625

// autoMarks draws the signature's automatic printer marks for one paper
// side. Cut lines run out from every tile edge into the insets and fold
// lines from every fold position. Dots sit just inside the insets.
func autoMarks(sig *signature.Signature, back bool) []Mark {
	if sig.AutoMarks == 0 {
		return nil
	}
	const G = markGap
	W, H := sig.PaperWidth, sig.PaperHeight
	patW, patH := sig.PatternWidth(), sig.PatternHeight()
	cellW, cellH := sig.CellWidth(), sig.CellHeight()
	gapx, gapy := sig.TileGapX, sig.TileGapY
	it, ib := sig.InsetTop, sig.InsetBottom
	xl, xr := sig.InsetRight, sig.InsetLeft
	if back {
		xl, xr = sig.InsetLeft, sig.InsetRight
	}
	margins := sig.AutoMarks&signature.MarksMargins != 0
	dots := sig.AutoMarks&signature.MarksInnerDot != 0

	var cuts, folds, dot geom.Path

	// horizontal marks in the left and right insets
	hline := func(p *geom.Path, y float64) {
		if xl > G {
			p.Append(geom.Line(geom.Pt(G, y), geom.Pt(xl-G, y)))
		}
		if xr > G {
			p.Append(geom.Line(geom.Pt(W-xr+G, y), geom.Pt(W-G, y)))
		}
	}
	hdot := func(y float64) {
		dot.Append(geom.Line(geom.Pt(xl+G, y), geom.Pt(xl+G*1.001, y)))
		dot.Append(geom.Line(geom.Pt(W-xr-G, y), geom.Pt(W-xr-G*1.001, y)))
	}
	for c := 0; c <= sig.TileY; c++ {
		y := ib + float64(c)*(patH+gapy)
		y2, hasY2 := 0.0, false
		if c > 0 && c < sig.TileY && gapy != 0 {
			y2, hasY2 = y-gapy, true
		} else if c == sig.TileY {
			y -= gapy
		}

		if margins && (xl >= 2*G || xr >= 2*G) {
			hline(&cuts, y)
			if hasY2 {
				hline(&cuts, y2)
			}
			if c < sig.TileY {
				for f := 1; f <= sig.NumHFolds; f++ {
					hline(&folds, y+float64(f)*cellH)
				}
			}
		}
		if dots {
			hdot(y)
			if hasY2 {
				hdot(y2)
			}
		}
	}

	// vertical marks in the top and bottom insets
	vline := func(p *geom.Path, x float64) {
		if ib > G {
			p.Append(geom.Line(geom.Pt(x, G), geom.Pt(x, ib-G)))
		}
		if it > G {
			p.Append(geom.Line(geom.Pt(x, H-it+G), geom.Pt(x, H-G)))
		}
	}
	vdot := func(x float64) {
		dot.Append(geom.Line(geom.Pt(x, ib+G), geom.Pt(x, ib+G*1.001)))
		dot.Append(geom.Line(geom.Pt(x, H-it-G), geom.Pt(x, H-it-G*1.001)))
	}
	for c := 0; c <= sig.TileX; c++ {
		x := xl + float64(c)*(patW+gapx)
		x2, hasX2 := 0.0, false
		if c > 0 && c < sig.TileX && gapx != 0 {
			x2, hasX2 = x-gapx, true
		} else if c == sig.TileX {
			x -= gapx
		}

		if margins && (it > 2*G || ib > 2*G) {
			vline(&cuts, x)
			if hasX2 {
				vline(&cuts, x2)
			}
			if c < sig.TileX {
				for f := 1; f <= sig.NumVFolds; f++ {
					vline(&folds, x+float64(f)*cellW)
				}
			}
		}
		if dots {
			vdot(x)
			if hasX2 {
				vdot(x2)
			}
		}
	}

	var marks []Mark
	for _, m := range []Mark{{MarkCut, cuts}, {MarkFold, folds}, {MarkDot, dot}} {
		if len(m.Path.Lines) > 0 {
			marks = append(marks, m)
		}
	}
	return marks
}
