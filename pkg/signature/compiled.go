package signature

import (
	"github.com/laidout/impose/pkg/errors"
	"github.com/laidout/impose/pkg/fold"
)

// Compiled is a validated signature together with its fold plan.
type Compiled struct {
	Signature
	Plan *fold.Plan
}

// Compile validates s and compiles its folds. The signature is copied, so
// later changes to s do not affect the result.
func Compile(s Signature) (*Compiled, error) {
	s = s.Clone()
	if err := s.Validity(); err != nil {
		return nil, err
	}
	plan, err := s.Plan()
	if err != nil {
		return nil, err
	}
	return &Compiled{Signature: s, Plan: plan}, nil
}

// MustCompile is like Compile but panics on error. It is meant for built-in
// signatures.
func MustCompile(s Signature) *Compiled {
	c, err := Compile(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Location says where a document page is printed.
type Location struct {
	// Paper is the paper side (spread) index, counting every side of every
	// sheet of every signature.
	Paper int `json:"paper"`
	// Cell is the page cell on the unfolded sheet.
	Cell fold.Pos `json:"cell"`
	// Column is the column the cell is drawn in on that paper side. Back
	// sides are mirrored left to right.
	Column int `json:"column"`
	// Mirrored is true for paper sides drawn mirrored.
	Mirrored bool `json:"mirrored"`
}

// PaperSideMirrored reports whether paper side sigpaper (counted within one
// signature) is laid out mirrored.
func PaperSideMirrored(sigpaper int) bool {
	return (1+sigpaper)%2 == 1
}

// PageSlot returns the page index, within one signature, printed by the cell
// with final front/back slots front and back on paper side sigpaper.
//
// Slots come in pairs, one pair per cell of the folded stack. With several
// nested sheets each slot pair expands into a block of 2*sheets pages; the
// cell whose back slot is the lower of the pair counts forward through the
// block as sigpaper grows, the other counts backward.
func PageSlot(front, back, sheets, sigpaper int) int {
	if back > front {
		return front*sheets + 2*sheets - 1 - sigpaper
	}
	return back*sheets + sigpaper
}

// LocatePaperFromPage finds the paper side and cell that carry document page
// page. It is the inverse of the numbering used by paper layouts.
func (c *Compiled) LocatePaperFromPage(page int) (Location, error) {
	if page < 0 {
		return Location{}, errors.New(errors.ErrCodeOutOfRange, "page %d is negative", page)
	}
	if err := c.Plan.Err(); err != nil {
		return Location{}, err
	}

	sheets := max(c.SheetsPerSignature, 1)
	perSig := c.PagesPerSignature()
	block := 2 * sheets

	group, p := page/perSig, page%perSig
	pair, offset := p/block, p%block

	for r := 0; r < c.Plan.Rows(); r++ {
		for col := 0; col < c.Plan.Cols(); col++ {
			cell := c.Plan.Cell(r, col)
			if min(cell.FinalFront, cell.FinalBack) != 2*pair {
				continue
			}
			sigpaper := offset
			if cell.FinalBack > cell.FinalFront {
				sigpaper = block - 1 - offset
			}
			loc := Location{
				Paper:    group*block + sigpaper,
				Cell:     fold.Pos{Row: r, Col: col},
				Column:   col,
				Mirrored: PaperSideMirrored(sigpaper),
			}
			if loc.Mirrored {
				loc.Column = c.NumVFolds - col
			}
			return loc, nil
		}
	}
	return Location{}, errors.New(errors.ErrCodeInternal, "no cell carries page %d", page)
}

// PaperFromPage returns the paper side index carrying page, or -1.
func (c *Compiled) PaperFromPage(page int) int {
	loc, err := c.LocatePaperFromPage(page)
	if err != nil {
		return -1
	}
	return loc.Paper
}
