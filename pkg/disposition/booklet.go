package disposition

import (
	"github.com/laidout/impose/pkg/geom"
)

// Booklet nests sheets folded once down the middle, like a saddle stitched
// pamphlet. Each paper side holds two pages; page p shares its side with
// page n-1-p. When Vertical is set the fold runs across the sheet instead,
// like a wall calendar.
type Booklet struct {
	Sheet    Sheet
	Vertical bool
	// Creep shifts the pages of inner sheets toward the fold, by Creep on
	// the innermost sheet and proportionally less outward.
	Creep float64

	numDocPages int
	numPapers   int
}

// NewBooklet returns a booklet layout on sheet.
func NewBooklet(sheet Sheet, vertical bool) (*Booklet, error) {
	if err := sheet.Validate(); err != nil {
		return nil, err
	}
	return &Booklet{Sheet: sheet, Vertical: vertical}, nil
}

func (d *Booklet) Name() string { return "booklet" }

func (d *Booklet) pageSize() (float64, float64) {
	w, h := d.Sheet.TileSize()
	if d.Vertical {
		return w, h / 2
	}
	return w / 2, h
}

func (d *Booklet) GetDefaultPageSize() geom.Rect {
	w, h := d.pageSize()
	return geom.R(0, 0, w, h)
}

func (d *Booklet) GetPage(int) geom.Path { return geom.RectPath(d.GetDefaultPageSize()) }

func (d *Booklet) CreatePages(style PageStyle) []Page {
	style.Width, style.Height = d.pageSize()
	even, odd := facingTypes(d.Vertical)
	pages := make([]Page, d.numPages())
	for i := range pages {
		st := style
		st.Type = even
		if i%2 == 1 {
			st = style.mirrored(d.Vertical)
			st.Type = odd
		}
		pages[i] = Page{Index: i, Style: st}
	}
	return pages
}

// GetPapersNeeded rounds up to whole sheets of four pages.
func (d *Booklet) GetPapersNeeded(pages int) int {
	if pages <= 0 {
		return 0
	}
	return ((pages-1)/4 + 1) * 2
}

// GetPagesNeeded is the page count of enough whole sheets for papers sides.
func (d *Booklet) GetPagesNeeded(papers int) int {
	if papers <= 0 {
		return 0
	}
	return ((papers-1)/2 + 1) * 4
}

func (d *Booklet) NumPages(n int) int {
	d.numDocPages = max(n, 0)
	d.numPapers = d.GetPapersNeeded(d.numDocPages)
	return d.numPages()
}

func (d *Booklet) numPages() int { return d.GetPagesNeeded(d.numPapers) }

func (d *Booklet) NumPapers() int { return d.numPapers }

// PaperFromPage folds the page sequence around its middle.
func (d *Booklet) PaperFromPage(page int) int {
	if page < 0 || page >= d.numPages() {
		return -1
	}
	if page < d.numPapers {
		return page
	}
	return d.numPapers - (page - d.numPapers) - 1
}

func (d *Booklet) NumSpreads(layout Layout) int {
	switch layout {
	case LayoutPage:
		return d.numPages()/2 + 1
	case LayoutPaper:
		return d.numPapers
	}
	return d.numDocPages
}

func (d *Booklet) SpreadFromPage(layout Layout, page int) int {
	switch layout {
	case LayoutPage:
		return (page + 1) / 2
	case LayoutPaper:
		return d.PaperFromPage(page)
	}
	return page
}

func (d *Booklet) SingleLayout(index int) (*Spread, error) {
	if err := checkIndex("page", index, d.numDocPages); err != nil {
		return nil, err
	}
	w, h := d.pageSize()
	return singleSpread(index, w, h), nil
}

func (d *Booklet) PageLayout(index int) (*Spread, error) {
	if err := checkIndex("spread", index, d.NumSpreads(LayoutPage)); err != nil {
		return nil, err
	}
	w, h := d.pageSize()
	n := d.numPages()
	first, second := 2*index-1, 2*index
	if second >= n {
		second = NoPage
	}
	s := facingSpread(index, first, second, w, h, d.Vertical)
	for i := range s.Pages {
		s.Pages[i].Index = slotIndex(s.Pages[i].Index, d.numDocPages)
	}
	return s, nil
}

// PaperLayout pairs page index with its partner from the other end of the
// booklet. Odd sides put index first (left or top).
func (d *Booklet) PaperLayout(index int) (*Spread, error) {
	if err := checkIndex("paper", index, d.numPapers); err != nil {
		return nil, err
	}
	partner := d.numPages() - index - 1
	first, second := partner, index
	if index%2 == 1 {
		first, second = index, partner
	}
	s := sheetSpread(d.Sheet, index, []int{first, second}, d.Vertical)

	shift := d.creepShift(index)
	for i := range s.Pages {
		p := &s.Pages[i]
		// pages alternate first, second within each tile
		dir := 1.0
		if i%2 == 1 {
			dir = -1
		}
		if d.Vertical {
			dir = -dir
			p.Transform = p.Transform.Then(geom.Translate(0, dir*shift))
		} else {
			p.Transform = p.Transform.Then(geom.Translate(dir*shift, 0))
		}
		p.Index = slotIndex(p.Index, d.numDocPages)
	}
	return s, nil
}

// creepShift is how far the pages on paper side index move toward the fold.
func (d *Booklet) creepShift(index int) float64 {
	sheets := d.numPapers / 2
	if d.Creep == 0 || sheets < 2 {
		return 0
	}
	return d.Creep * float64(index/2) / float64(sheets-1)
}
