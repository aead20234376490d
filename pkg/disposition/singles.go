package disposition

import (
	"github.com/laidout/impose/pkg/errors"
	"github.com/laidout/impose/pkg/geom"
	"github.com/laidout/impose/pkg/signature"
)

// Sheet is a paper size with the insets and tiling shared by the singles
// family of layouts.
type Sheet struct {
	Width  float64 `json:"width" toml:"width" bson:"width"`
	Height float64 `json:"height" toml:"height" bson:"height"`

	InsetLeft   float64 `json:"inset_left,omitempty" toml:"inset_left" bson:"inset_left,omitempty"`
	InsetRight  float64 `json:"inset_right,omitempty" toml:"inset_right" bson:"inset_right,omitempty"`
	InsetTop    float64 `json:"inset_top,omitempty" toml:"inset_top" bson:"inset_top,omitempty"`
	InsetBottom float64 `json:"inset_bottom,omitempty" toml:"inset_bottom" bson:"inset_bottom,omitempty"`

	TileX int `json:"tile_x,omitempty" toml:"tile_x" bson:"tile_x,omitempty"`
	TileY int `json:"tile_y,omitempty" toml:"tile_y" bson:"tile_y,omitempty"`
}

// Letter returns a US letter sheet with no insets.
func Letter() Sheet {
	return Sheet{Width: signature.DefaultPaperWidth, Height: signature.DefaultPaperHeight, TileX: 1, TileY: 1}
}

func (s Sheet) tiles() (int, int) { return max(s.TileX, 1), max(s.TileY, 1) }

// TileSize is the size of one tile of the inset area.
func (s Sheet) TileSize() (w, h float64) {
	tx, ty := s.tiles()
	return (s.Width - s.InsetLeft - s.InsetRight) / float64(tx),
		(s.Height - s.InsetTop - s.InsetBottom) / float64(ty)
}

// Validate checks that the sheet leaves room for a page.
func (s Sheet) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidGeometry, "paper size must be positive, got %gx%g", s.Width, s.Height)
	}
	if s.InsetLeft < 0 || s.InsetRight < 0 || s.InsetTop < 0 || s.InsetBottom < 0 {
		return errors.New(errors.ErrCodeInvalidGeometry, "insets cannot be negative")
	}
	if w, h := s.TileSize(); w <= 0 || h <= 0 {
		return errors.New(errors.ErrCodeInvalidGeometry, "insets leave no room for a page")
	}
	return nil
}

// swapped returns s with left and right insets exchanged, or top and bottom
// when vertical.
func (s Sheet) swapped(vertical bool) Sheet {
	if vertical {
		s.InsetTop, s.InsetBottom = s.InsetBottom, s.InsetTop
	} else {
		s.InsetLeft, s.InsetRight = s.InsetRight, s.InsetLeft
	}
	return s
}

// =============================================================================
// Singles
// =============================================================================

// Singles prints one page per paper side. With tiling, every tile of the
// inset area repeats the same page.
type Singles struct {
	Sheet    Sheet
	numPages int
}

// NewSingles returns a singles layout on sheet.
func NewSingles(sheet Sheet) (*Singles, error) {
	if err := sheet.Validate(); err != nil {
		return nil, err
	}
	return &Singles{Sheet: sheet}, nil
}

func (d *Singles) Name() string { return "singles" }

func (d *Singles) pageSize() (float64, float64) { return d.Sheet.TileSize() }

func (d *Singles) GetDefaultPageSize() geom.Rect {
	w, h := d.pageSize()
	return geom.R(0, 0, w, h)
}

func (d *Singles) GetPage(int) geom.Path { return geom.RectPath(d.GetDefaultPageSize()) }

func (d *Singles) CreatePages(style PageStyle) []Page {
	style.Type = PageSingle
	style.Width, style.Height = d.pageSize()
	pages := make([]Page, d.numPages)
	for i := range pages {
		pages[i] = Page{Index: i, Style: style}
	}
	return pages
}

func (d *Singles) NumPages(n int) int {
	d.numPages = max(n, 0)
	return d.numPages
}

func (d *Singles) NumPapers() int                { return d.numPages }
func (d *Singles) PaperFromPage(page int) int    { return pageOrNone(page, d.numPages) }
func (d *Singles) GetPagesNeeded(papers int) int { return papers }
func (d *Singles) GetPapersNeeded(pages int) int { return pages }

func (d *Singles) NumSpreads(Layout) int { return d.numPages }

func (d *Singles) SpreadFromPage(_ Layout, page int) int { return page }

func (d *Singles) SingleLayout(index int) (*Spread, error) {
	if err := checkIndex("page", index, d.numPages); err != nil {
		return nil, err
	}
	w, h := d.pageSize()
	return singleSpread(index, w, h), nil
}

func (d *Singles) PageLayout(index int) (*Spread, error) {
	s, err := d.SingleLayout(index)
	if err != nil {
		return nil, err
	}
	s.Kind = LayoutPage
	return s, nil
}

func (d *Singles) PaperLayout(index int) (*Spread, error) {
	if err := checkIndex("paper", index, d.numPages); err != nil {
		return nil, err
	}
	return sheetSpread(d.Sheet, index, []int{index}, false), nil
}

// singleSpread is the spread for one page shown alone.
func singleSpread(index int, w, h float64) *Spread {
	outline := geom.RectPath(geom.R(0, 0, w, h))
	return &Spread{
		Kind:    LayoutSingle,
		Index:   index,
		Path:    outline,
		Pages:   []PageLocation{{Index: index, Transform: geom.Identity(), Outline: outline}},
		Minimum: geom.Pt(w/4, h/2),
		Maximum: geom.Pt(3*w/4, h/2),
	}
}

// sheetSpread lays pages side by side (or stacked when vertical) inside
// every tile of the sheet's inset area, with cut marks in the insets.
func sheetSpread(sheet Sheet, paper int, pages []int, vertical bool) *Spread {
	W, H := sheet.Width, sheet.Height
	s := &Spread{
		Kind:    LayoutPaper,
		Index:   paper,
		Path:    geom.RectPath(geom.R(0, 0, W, H)),
		Minimum: geom.Pt(W/5, H/2),
		Maximum: geom.Pt(W*4/5, H/2),
	}
	tw, th := sheet.TileSize()
	s.Path.Append(geom.R(sheet.InsetLeft, sheet.InsetBottom, W-sheet.InsetRight, H-sheet.InsetTop).Polyline())

	pw, ph := tw/float64(len(pages)), th
	if vertical {
		pw, ph = tw, th/float64(len(pages))
	}
	outline := geom.RectPath(geom.R(0, 0, pw, ph))
	tx, ty := sheet.tiles()
	for i := 0; i < tx; i++ {
		for j := 0; j < ty; j++ {
			x := sheet.InsetLeft + float64(i)*tw
			y := sheet.InsetBottom + float64(j)*th
			for k, page := range pages {
				at := geom.Translate(x+float64(k)*pw, y)
				if vertical {
					at = geom.Translate(x, y+float64(len(pages)-1-k)*ph)
				}
				s.Pages = append(s.Pages, PageLocation{Index: page, Transform: at, Outline: outline})
			}
		}
	}

	if cuts := insetCutMarks(sheet); len(cuts.Lines) > 0 {
		s.Marks = append(s.Marks, Mark{Kind: MarkCut, Path: cuts})
	}
	return s
}

// insetCutMarks draws short lines in the inset regions lined up with the
// page area edges, stopping short of the page by a tenth of the inset.
func insetCutMarks(sheet Sheet) geom.Path {
	W, H := sheet.Width, sheet.Height
	il, ir, it, ib := sheet.InsetLeft, sheet.InsetRight, sheet.InsetTop, sheet.InsetBottom
	var p geom.Path
	if il > 0 {
		p.Append(geom.Line(geom.Pt(0, H-it), geom.Pt(il*.9, H-it)))
		p.Append(geom.Line(geom.Pt(0, ib), geom.Pt(il*.9, ib)))
	}
	if ir > 0 {
		p.Append(geom.Line(geom.Pt(W, H-it), geom.Pt(W-.9*ir, H-it)))
		p.Append(geom.Line(geom.Pt(W, ib), geom.Pt(W-.9*ir, ib)))
	}
	if ib > 0 {
		p.Append(geom.Line(geom.Pt(il, 0), geom.Pt(il, .9*ib)))
		p.Append(geom.Line(geom.Pt(W-ir, 0), geom.Pt(W-ir, .9*ib)))
	}
	if it > 0 {
		p.Append(geom.Line(geom.Pt(il, H), geom.Pt(il, H-.9*it)))
		p.Append(geom.Line(geom.Pt(W-ir, H), geom.Pt(W-ir, H-.9*it)))
	}
	return p
}

// =============================================================================
// DoubleSidedSingles
// =============================================================================

// DoubleSidedSingles prints one page per paper side but shows pages as
// facing spreads. The first page stands alone as a cover. When Vertical is
// set, spreads stack top and bottom instead of left and right.
type DoubleSidedSingles struct {
	Sheet    Sheet
	Vertical bool
	numPages int
}

// NewDoubleSidedSingles returns a facing pages layout on sheet.
func NewDoubleSidedSingles(sheet Sheet, vertical bool) (*DoubleSidedSingles, error) {
	if err := sheet.Validate(); err != nil {
		return nil, err
	}
	return &DoubleSidedSingles{Sheet: sheet, Vertical: vertical}, nil
}

func (d *DoubleSidedSingles) Name() string { return "double-sided" }

func (d *DoubleSidedSingles) GetDefaultPageSize() geom.Rect {
	w, h := d.Sheet.TileSize()
	return geom.R(0, 0, w, h)
}

func (d *DoubleSidedSingles) GetPage(int) geom.Path { return geom.RectPath(d.GetDefaultPageSize()) }

// CreatePages alternates right and left pages, starting with a right hand
// cover. Left pages get mirrored margins.
func (d *DoubleSidedSingles) CreatePages(style PageStyle) []Page {
	style.Width, style.Height = d.Sheet.TileSize()
	first, second := facingTypes(d.Vertical)
	pages := make([]Page, d.numPages)
	for i := range pages {
		st := style
		st.Type = first
		if i%2 == 1 {
			st = style.mirrored(d.Vertical)
			st.Type = second
		}
		pages[i] = Page{Index: i, Style: st}
	}
	return pages
}

// facingTypes returns the page types of even and odd pages.
func facingTypes(vertical bool) (even, odd PageType) {
	if vertical {
		return PageBottom, PageTop
	}
	return PageRight, PageLeft
}

func (d *DoubleSidedSingles) NumPages(n int) int {
	d.numPages = max(n, 0)
	return d.numPages
}

func (d *DoubleSidedSingles) NumPapers() int                { return d.numPages }
func (d *DoubleSidedSingles) PaperFromPage(page int) int    { return pageOrNone(page, d.numPages) }
func (d *DoubleSidedSingles) GetPagesNeeded(papers int) int { return papers }
func (d *DoubleSidedSingles) GetPapersNeeded(pages int) int { return pages }

func (d *DoubleSidedSingles) NumSpreads(layout Layout) int {
	if layout == LayoutPage {
		return d.numPages/2 + 1
	}
	return d.numPages
}

func (d *DoubleSidedSingles) SpreadFromPage(layout Layout, page int) int {
	if layout == LayoutPage {
		return (page + 1) / 2
	}
	return page
}

func (d *DoubleSidedSingles) SingleLayout(index int) (*Spread, error) {
	if err := checkIndex("page", index, d.numPages); err != nil {
		return nil, err
	}
	w, h := d.Sheet.TileSize()
	return singleSpread(index, w, h), nil
}

// PageLayout returns spread index: pages 2*index-1 and 2*index, either of
// which may be missing at the ends of the document.
func (d *DoubleSidedSingles) PageLayout(index int) (*Spread, error) {
	if err := checkIndex("spread", index, d.NumSpreads(LayoutPage)); err != nil {
		return nil, err
	}
	w, h := d.Sheet.TileSize()
	first, second := 2*index-1, 2*index
	if second >= d.numPages {
		second = NoPage
	}
	return facingSpread(index, first, second, w, h, d.Vertical), nil
}

// facingSpread lays first to the left of (or above) second. Either may be
// negative to leave that side empty.
func facingSpread(index, first, second int, w, h float64, vertical bool) *Spread {
	s := &Spread{Kind: LayoutPage, Index: index}
	outline := geom.RectPath(geom.R(0, 0, w, h))
	both := first >= 0 && second >= 0

	// first sits at the origin horizontally, on top vertically
	firstAt, secondAt := geom.Identity(), geom.Translate(w, 0)
	if vertical {
		firstAt, secondAt = geom.Translate(0, h), geom.Identity()
	}

	switch {
	case both && vertical:
		s.Path = geom.RectPath(geom.R(0, 0, w, 2*h))
		s.Path.Append(geom.Line(geom.Pt(0, h), geom.Pt(w, h)))
	case both:
		s.Path = geom.RectPath(geom.R(0, 0, 2*w, h))
		s.Path.Append(geom.Line(geom.Pt(w, 0), geom.Pt(w, h)))
	case first >= 0:
		s.Path = outline.Transform(firstAt)
	default:
		s.Path = outline.Transform(secondAt)
	}

	if first >= 0 {
		s.Pages = append(s.Pages, PageLocation{Index: first, Transform: firstAt, Outline: outline})
	}
	if second >= 0 {
		s.Pages = append(s.Pages, PageLocation{Index: second, Transform: secondAt, Outline: outline})
	}

	if vertical {
		s.Minimum, s.Maximum = geom.Pt(w/2, h*9/5), geom.Pt(w/2, h/5)
		if first < 0 {
			s.Minimum = geom.Pt(w/2, h*4/5)
		}
		if second < 0 {
			s.Maximum = geom.Pt(w/2, h*6/5)
		}
		return s
	}
	s.Minimum, s.Maximum = geom.Pt(w/5, h/2), geom.Pt(w*9/5, h/2)
	if first < 0 {
		s.Minimum = geom.Pt(w*6/5, h/2)
	}
	if second < 0 {
		s.Maximum = geom.Pt(w*4/5, h/2)
	}
	return s
}

// PaperLayout prints one page per side. Odd pages sit on the backs of
// sheets, so their insets are mirrored.
func (d *DoubleSidedSingles) PaperLayout(index int) (*Spread, error) {
	if err := checkIndex("paper", index, d.numPages); err != nil {
		return nil, err
	}
	sheet := d.Sheet
	if index%2 == 1 {
		sheet = sheet.swapped(d.Vertical)
	}
	return sheetSpread(sheet, index, []int{index}, false), nil
}
