package disposition

import (
	"github.com/laidout/impose/pkg/errors"
	"github.com/laidout/impose/pkg/geom"
)

// Disposition maps document pages onto spreads and paper sides.
//
// NumPages must be called before any layout method; it fixes the document
// size the layout works against. Layout methods return an OUT_OF_RANGE
// error for spread indexes outside [0, NumSpreads(layout)).
type Disposition interface {
	// Name is the registry name of the disposition kind.
	Name() string

	// CreatePages returns one page per laid out page. Sizes come from the
	// disposition; style supplies margins where the disposition has none
	// of its own.
	CreatePages(style PageStyle) []Page
	// GetPage returns the outline of page index in page coordinates.
	GetPage(index int) geom.Path
	// GetDefaultPageSize returns the page box in page coordinates.
	GetDefaultPageSize() geom.Rect

	SingleLayout(index int) (*Spread, error)
	PageLayout(index int) (*Spread, error)
	PaperLayout(index int) (*Spread, error)

	// NumSpreads returns how many spreads layout has for the current page
	// count, and SpreadFromPage the spread holding a document page.
	NumSpreads(layout Layout) int
	SpreadFromPage(layout Layout, page int) int

	// PaperFromPage returns the paper side holding page, or -1.
	PaperFromPage(index int) int
	// GetPagesNeeded returns how many pages numPapers paper sides hold.
	GetPagesNeeded(numPapers int) int
	// GetPapersNeeded returns how many paper sides n pages need.
	GetPapersNeeded(numPages int) int

	// NumPages sets the document page count and returns the number of page
	// slots the layout provides, which is never less than n.
	NumPages(n int) int
	// NumPapers returns the number of paper sides for the current count.
	NumPapers() int
}

// LayoutSpread returns spread index of the given layout.
func LayoutSpread(d Disposition, layout Layout, index int) (*Spread, error) {
	switch layout {
	case LayoutSingle:
		return d.SingleLayout(index)
	case LayoutPage:
		return d.PageLayout(index)
	case LayoutPaper:
		return d.PaperLayout(index)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unknown layout %v", layout)
}

// AllSpreads returns every spread of the given layout in order.
func AllSpreads(d Disposition, layout Layout) ([]*Spread, error) {
	n := d.NumSpreads(layout)
	out := make([]*Spread, 0, n)
	for i := 0; i < n; i++ {
		s, err := LayoutSpread(d, layout, i)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

var (
	_ Disposition = (*Singles)(nil)
	_ Disposition = (*DoubleSidedSingles)(nil)
	_ Disposition = (*Booklet)(nil)
	_ Disposition = (*SignatureImposition)(nil)
	_ Disposition = (*NetDisposition)(nil)
)
