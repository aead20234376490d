package disposition

import (
	"github.com/laidout/impose/pkg/errors"
	"github.com/laidout/impose/pkg/fold"
	"github.com/laidout/impose/pkg/geom"
	"github.com/laidout/impose/pkg/signature"
)

// SignatureImposition prints a document on folded signatures. Pages are
// numbered by the signature's fold plan, and as many signatures as needed
// are stacked to hold the document.
type SignatureImposition struct {
	// ShowWholeCover pairs the last page with the first in page spreads,
	// so the outside cover can be viewed as one piece.
	ShowWholeCover bool
	// Creep shifts pages of inner sheets of a nested signature away from
	// the spine, to make up for the paper thickness of outer sheets.
	Creep float64

	sig           *signature.Compiled
	numSignatures int
	numDocPages   int
}

// NewSignatureImposition compiles s and returns an imposition holding one
// signature.
func NewSignatureImposition(s signature.Signature) (*SignatureImposition, error) {
	d := &SignatureImposition{numSignatures: 1}
	if err := d.SetSignature(s); err != nil {
		return nil, err
	}
	return d, nil
}

// SetSignature replaces the signature and recompiles its fold plan. The
// page count is recomputed for the current document length.
func (d *SignatureImposition) SetSignature(s signature.Signature) error {
	c, err := signature.Compile(s)
	if err != nil {
		return err
	}
	d.sig = c
	d.numSignatures = 1
	if d.numDocPages > 0 {
		d.NumPages(d.numDocPages)
	}
	return nil
}

// Signature returns a copy of the current signature. With AutoAddSheets its
// sheet count reflects the last call to NumPages.
func (d *SignatureImposition) Signature() signature.Signature {
	return d.sig.Signature.Clone()
}

// Plan returns the compiled fold plan.
func (d *SignatureImposition) Plan() *fold.Plan { return d.sig.Plan }

// NumSignatures is how many signatures the current document needs.
func (d *SignatureImposition) NumSignatures() int { return d.numSignatures }

func (d *SignatureImposition) Name() string { return "signature" }

func (d *SignatureImposition) sheets() int    { return max(d.sig.SheetsPerSignature, 1) }
func (d *SignatureImposition) totalPages() int { return d.numSignatures * d.sig.PagesPerSignature() }

// =============================================================================
// Counts
// =============================================================================

// NumPages sets the document length to n and returns the number of page
// slots the signatures provide, which is at least n. The signature count, or
// the sheet count when AutoAddSheets is set, is recomputed from n.
func (d *SignatureImposition) NumPages(n int) int {
	d.numDocPages = max(n, 0)
	if d.sig.AutoAddSheets {
		d.sig.SheetsPerSignature = max(1, ceilDiv(n, d.sig.PagesPerPattern()))
		d.numSignatures = 1
	} else {
		d.numSignatures = max(1, ceilDiv(n, d.sig.PagesPerSignature()))
	}
	return d.totalPages()
}

func (d *SignatureImposition) NumPapers() int {
	return d.numSignatures * d.sig.PaperSpreadsPerSignature()
}

func (d *SignatureImposition) GetPapersNeeded(pages int) int {
	return ceilDiv(pages, d.sig.PagesPerSignature()) * d.sig.PaperSpreadsPerSignature()
}

func (d *SignatureImposition) GetPagesNeeded(papers int) int {
	return ceilDiv(papers, d.sig.PaperSpreadsPerSignature()) * d.sig.PagesPerSignature()
}

// PaperFromPage returns the paper side printing page, or -1.
func (d *SignatureImposition) PaperFromPage(page int) int {
	if page >= d.totalPages() {
		return -1
	}
	return d.sig.PaperFromPage(page)
}

func (d *SignatureImposition) NumSpreads(layout Layout) int {
	switch layout {
	case LayoutPage:
		return d.totalPages()/2 + 1
	case LayoutPaper:
		return d.NumPapers()
	}
	return d.numDocPages
}

func (d *SignatureImposition) SpreadFromPage(layout Layout, page int) int {
	switch layout {
	case LayoutPage:
		return (page + 1) / 2
	case LayoutPaper:
		return d.PaperFromPage(page)
	}
	return page
}

// =============================================================================
// Pages
// =============================================================================

func (d *SignatureImposition) GetDefaultPageSize() geom.Rect {
	return d.sig.PageBounds(signature.PartTrim)
}

func (d *SignatureImposition) GetPage(int) geom.Path {
	return geom.RectPath(d.GetDefaultPageSize())
}

// CreatePages returns one page per page slot. Pages on the far side of the
// spine from page 0 get mirrored margins, and every page records the
// adjacent page its content may bleed onto.
func (d *SignatureImposition) CreatePages(style PageStyle) []Page {
	style.Width, style.Height = d.sig.PageWidth(), d.sig.PageHeight()
	vertical := d.sig.Binding.Horizontal()
	even, odd := spineTypes(d.sig.Binding)

	pages := make([]Page, d.totalPages())
	for i := range pages {
		st := style
		st.Type = even
		if i%2 == 1 {
			st = style.mirrored(vertical)
			st.Type = odd
		}
		pages[i] = Page{Index: i, Style: st}
		if b, ok := d.FixPageBleeds(i); ok {
			pages[i].Bleeds = []Bleed{b}
		}
	}
	return pages
}

// wrapCover joins the back cover to the front cover.
func wrapCover(page, n int) int {
	switch page {
	case -1:
		return n - 1
	case n:
		return 0
	}
	return page
}

// spineTypes returns the page types of even and odd pages for a binding edge.
func spineTypes(binding fold.Direction) (even, odd PageType) {
	switch binding {
	case fold.Right:
		return PageLeft, PageRight
	case fold.Top:
		return PageBottom, PageTop
	case fold.Bottom:
		return PageTop, PageBottom
	}
	return PageRight, PageLeft
}

// FixPageBleeds finds the page facing page index across the spine. The
// returned transform places the facing page in index's page coordinates.
// It reports false when there is no facing page.
func (d *SignatureImposition) FixPageBleeds(index int) (Bleed, bool) {
	n := d.totalPages()
	if index < 0 || index >= n {
		return Bleed{}, false
	}
	adjacent, dir := index-1, d.sig.Binding
	if index%2 == 1 {
		adjacent, dir = index+1, d.sig.Binding.Opposite()
	}
	if d.ShowWholeCover {
		adjacent = wrapCover(adjacent, n)
	}
	if adjacent < 0 || adjacent >= n || adjacent == index {
		return Bleed{}, false
	}

	pw, ph := d.sig.PageWidth(), d.sig.PageHeight()
	var at geom.Affine
	switch dir {
	case fold.Left:
		at = geom.Translate(-pw, 0)
	case fold.Right:
		at = geom.Translate(pw, 0)
	case fold.Top:
		at = geom.Translate(0, ph)
	default:
		at = geom.Translate(0, -ph)
	}
	return Bleed{Index: adjacent, Transform: at}, true
}

// =============================================================================
// Layouts
// =============================================================================

func (d *SignatureImposition) SingleLayout(index int) (*Spread, error) {
	if err := checkIndex("page", index, d.numDocPages); err != nil {
		return nil, err
	}
	return singleSpread(index, d.sig.PageWidth(), d.sig.PageHeight()), nil
}

// PageLayout returns reading spread index. The two pages sit on either side
// of the binding edge; at the ends of the document one side may be empty.
func (d *SignatureImposition) PageLayout(index int) (*Spread, error) {
	if err := checkIndex("spread", index, d.NumSpreads(LayoutPage)); err != nil {
		return nil, err
	}
	n := d.totalPages()
	pw, ph := d.sig.PageWidth(), d.sig.PageHeight()
	binding := d.sig.Binding

	page1, page2 := 2*index, 0
	var off geom.Point
	switch binding {
	case fold.Left:
		page2 = page1
		page1--
		off.X = pw
	case fold.Right:
		page2 = page1 - 1
		off.X = pw
	case fold.Top:
		page2 = page1 - 1
		off.Y = ph
	default:
		page2 = page1
		page1--
		off.Y = ph
	}

	if d.ShowWholeCover {
		page1, page2 = wrapCover(page1, n), wrapCover(page2, n)
	}
	if page1 >= n {
		page1 = -1
	}
	if page2 >= n {
		page2 = -1
	}

	s := &Spread{Kind: LayoutPage, Index: index}
	has1, has2 := page1 >= 0, page2 >= 0
	outline := geom.RectPath(geom.R(0, 0, pw, ph))
	if has1 {
		s.Pages = append(s.Pages, PageLocation{Index: slotIndex(page1, d.numDocPages), Transform: geom.Identity(), Outline: outline})
	}
	if has2 {
		s.Pages = append(s.Pages, PageLocation{Index: slotIndex(page2, d.numDocPages), Transform: geom.Translate(off.X, off.Y), Outline: outline})
	}

	horizontal := binding == fold.Left || binding == fold.Right
	o, size := 0.0, pw
	if !horizontal {
		size = ph
	}
	if !has1 {
		o = size
	}
	if has1 && has2 {
		size *= 2
	}
	if horizontal {
		s.Path = geom.RectPath(geom.R(o, 0, o+size, ph))
		if has1 && has2 {
			s.Path.Append(geom.Line(geom.Pt(pw, 0), geom.Pt(pw, ph)))
		}
	} else {
		s.Path = geom.RectPath(geom.R(0, o, pw, o+size))
		if has1 && has2 {
			s.Path.Append(geom.Line(geom.Pt(0, ph), geom.Pt(pw, ph)))
		}
	}

	pick := func(ok bool, a, b geom.Point) geom.Point {
		if ok {
			return a
		}
		return b
	}
	switch binding {
	case fold.Left:
		s.Minimum = pick(has1, geom.Pt(pw/5, ph/2), geom.Pt(pw*1.2, ph/2))
		s.Maximum = pick(has2, geom.Pt(pw*1.8, ph/2), geom.Pt(pw*.8, ph/2))
	case fold.Right:
		s.Maximum = pick(has1, geom.Pt(pw/5, ph/2), geom.Pt(pw*1.2, ph/2))
		s.Minimum = pick(has2, geom.Pt(pw*1.8, ph/2), geom.Pt(pw*.8, ph/2))
	case fold.Top:
		s.Maximum = pick(has1, geom.Pt(pw/2, ph*.2), geom.Pt(pw/2, ph*1.2))
		s.Minimum = pick(has2, geom.Pt(pw/2, ph*1.8), geom.Pt(pw/2, ph*.8))
	default:
		s.Minimum = pick(has1, geom.Pt(pw/2, ph*.2), geom.Pt(pw/2, ph*1.2))
		s.Maximum = pick(has2, geom.Pt(pw/2, ph*1.8), geom.Pt(pw/2, ph*.8))
	}
	return s, nil
}

// PaperLayout returns paper side index with every cell of every tile
// placed, flipped cells turned upside down, and any automatic printer marks.
func (d *SignatureImposition) PaperLayout(index int) (*Spread, error) {
	if err := checkIndex("paper", index, d.NumPapers()); err != nil {
		return nil, err
	}
	sig, plan := &d.sig.Signature, d.sig.Plan
	if err := plan.Err(); err != nil {
		return nil, err
	}

	sheets := d.sheets()
	perSig := sig.PagesPerSignature()
	group, sigpaper := index/(2*sheets), index%(2*sheets)
	back := signature.PaperSideMirrored(sigpaper)

	W, H := sig.PaperWidth, sig.PaperHeight
	s := &Spread{
		Kind:    LayoutPaper,
		Index:   index,
		Path:    geom.RectPath(geom.R(0, 0, W, H)),
		Minimum: geom.Pt(W/5, H/2),
		Maximum: geom.Pt(W*4/5, H/2),
	}

	ew, eh := sig.CellWidth(), sig.CellHeight()
	pw, ph := sig.PageWidth(), sig.PageHeight()
	patW, patH := sig.PatternWidth(), sig.PatternHeight()
	outline := geom.RectPath(geom.R(0, 0, pw, ph))
	inset := sig.InsetRight
	if back {
		inset = sig.InsetLeft
	}

	for tx := 0; tx < sig.TileX; tx++ {
		x := float64(tx) * (patW + sig.TileGapX)
		for ty := 0; ty < sig.TileY; ty++ {
			y := sig.InsetBottom + float64(ty)*(patH+sig.TileGapY)
			for rr := 0; rr < plan.Rows(); rr++ {
				for cc := 0; cc < plan.Cols(); cc++ {
					cell := plan.Cell(rr, cc)
					col := cc
					if back {
						col = sig.NumVFolds - cc
					}
					trimX, trimY := sig.TrimLeft, sig.TrimBottom
					if cell.FinalXFlip {
						trimX = sig.TrimRight
					}
					if cell.FinalYFlip {
						trimY = sig.TrimTop
					}
					xx := x + float64(col)*ew + trimX + inset
					yy := y + float64(rr)*eh + trimY

					at := geom.Translate(xx, yy)
					if cell.FinalYFlip {
						at = geom.FromAxes(geom.Pt(xx+pw, yy+ph), geom.Pt(-1, 0), geom.Pt(0, -1))
					}

					near := signature.PageSlot(cell.FinalFront, cell.FinalBack, sheets, sigpaper)
					if d.Creep != 0 {
						at = at.Then(d.creep(near, back, cell.FinalYFlip))
					}
					page := slotIndex(group*perSig+near, d.numDocPages)
					s.Pages = append(s.Pages, PageLocation{Index: page, Transform: at, Outline: outline})
				}
			}
		}
	}

	s.Marks = autoMarks(sig, back)
	return s, nil
}

// creep returns the shift for the page at slot near within its signature.
// The outermost sheet does not move and the innermost moves by Creep.
func (d *SignatureImposition) creep(near int, back, yflip bool) geom.Affine {
	perSig := d.sig.PagesPerSignature()
	steps := perSig/4 - 1
	if perSig <= 4 || steps <= 0 {
		return geom.Identity()
	}
	opposite := false
	if near >= perSig/2 {
		near = perSig - 1 - near
		opposite = true
	}
	amount := d.Creep * float64(near/2) / float64(steps)

	xaxis, yaxis := geom.Pt(1, 0), geom.Pt(0, 1)
	if yflip {
		xaxis, yaxis = geom.Pt(-1, 0), geom.Pt(0, -1)
	}
	sign := func(b bool) float64 {
		if b {
			return -1
		}
		return 1
	}
	var dir geom.Point
	switch d.sig.Binding {
	case fold.Left:
		dir = xaxis.Scale(sign(back) * sign(opposite))
	case fold.Right:
		dir = xaxis.Scale(sign(back) * -sign(opposite))
	case fold.Top:
		dir = yaxis.Scale(-sign(opposite))
	default:
		dir = yaxis.Scale(sign(opposite))
	}
	v := dir.Scale(amount)
	return geom.Translate(v.X, v.Y)
}

// LocatePage reports where page is printed.
func (d *SignatureImposition) LocatePage(page int) (signature.Location, error) {
	if page >= d.totalPages() {
		return signature.Location{}, errors.New(errors.ErrCodeOutOfRange, "page %d out of range [0,%d)", page, d.totalPages())
	}
	return d.sig.LocatePaperFromPage(page)
}
