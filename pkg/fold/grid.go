package fold

import (
	"github.com/laidout/impose/pkg/errors"
)

// NoPage marks a final front or back that has not been determined.
const NoPage = -1

// Pos addresses a cell of the unfolded sheet.
type Pos struct {
	Row int `json:"row" bson:"row"`
	Col int `json:"col" bson:"col"`
}

// Cell is the fold state of one grid position.
//
// Pages lists the original cells currently stacked at this position, bottom
// of the stack first. The flip and final fields describe the cell that
// originally lived here, wherever it has moved to.
type Cell struct {
	Pages []Pos `json:"pages" bson:"pages"`

	XFlipped bool `json:"x_flipped,omitempty" bson:"x_flipped,omitempty"`
	YFlipped bool `json:"y_flipped,omitempty" bson:"y_flipped,omitempty"`

	FinalXFlip bool `json:"final_x_flip,omitempty" bson:"final_x_flip,omitempty"`
	FinalYFlip bool `json:"final_y_flip,omitempty" bson:"final_y_flip,omitempty"`
	FinalFront int  `json:"final_front" bson:"final_front"`
	FinalBack  int  `json:"final_back" bson:"final_back"`
}

// Grid is a flat, row-major grid of cells.
type Grid struct {
	rows, cols int
	cells      []Cell
}

// NewGrid allocates the grid for numh horizontal and numv vertical fold lines.
// Every cell starts out holding just itself. Negative counts are treated as 0.
func NewGrid(numh, numv int) *Grid {
	numh, numv = max(numh, 0), max(numv, 0)
	g := &Grid{rows: numh + 1, cols: numv + 1}
	g.cells = make([]Cell, g.rows*g.cols)
	g.Reset()
	return g
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// In reports whether (r, c) lies on the grid.
func (g *Grid) In(r, c int) bool {
	return r >= 0 && r < g.rows && c >= 0 && c < g.cols
}

// At returns the cell at (r, c). It panics when (r, c) is off the grid.
func (g *Grid) At(r, c int) *Cell {
	if !g.In(r, c) {
		panic("fold: cell out of range")
	}
	return &g.cells[r*g.cols+c]
}

// Reset returns every cell to the unfolded state without reallocating.
func (g *Grid) Reset() {
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			cell := &g.cells[r*g.cols+c]
			cell.Pages = append(cell.Pages[:0], Pos{r, c})
			cell.XFlipped, cell.YFlipped = false, false
			cell.FinalXFlip, cell.FinalYFlip = false, false
			cell.FinalFront, cell.FinalBack = NoPage, NoPage
		}
	}
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	out := &Grid{rows: g.rows, cols: g.cols, cells: make([]Cell, len(g.cells))}
	for i, c := range g.cells {
		c.Pages = append([]Pos(nil), c.Pages...)
		out.cells[i] = c
	}
	return out
}

// Count returns the total number of stacked entries across all cells.
// It always equals Rows()*Cols().
func (g *Grid) Count() int {
	n := 0
	for _, c := range g.cells {
		n += len(c.Pages)
	}
	return n
}

// Apply performs one fold on g. When any occupied cell would land off the
// grid, or the index is not a fold line, g is left unchanged and an
// INVALID_FOLD error is returned.
func (g *Grid) Apply(f Fold) error {
	if !f.Direction.Valid() {
		return errors.New(errors.ErrCodeInvalidFold, "fold %s: invalid direction", f)
	}
	limit := g.cols
	if f.Direction.Horizontal() {
		limit = g.rows
	}
	if f.Index < 1 || f.Index >= limit {
		return errors.New(errors.ErrCodeInvalidFold, "fold %s: index must be between 1 and %d", f, limit-1)
	}

	type move struct{ from, to Pos }
	var moves []move
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			to, ok := destination(f, r, c)
			if !ok || len(g.At(r, c).Pages) == 0 {
				continue
			}
			if !g.In(to.Row, to.Col) {
				return errors.New(errors.ErrCodeInvalidFold,
					"fold %s: cell (%d,%d) would land outside the sheet", f, r, c)
			}
			moves = append(moves, move{Pos{r, c}, to})
		}
	}

	for _, m := range moves {
		src, dst := g.At(m.from.Row, m.from.Col), g.At(m.to.Row, m.to.Col)
		for _, p := range src.Pages {
			orig := g.At(p.Row, p.Col)
			if f.Direction.Horizontal() {
				orig.YFlipped = !orig.YFlipped
			} else {
				orig.XFlipped = !orig.XFlipped
			}
		}
		dst.Pages = stack(dst.Pages, src.Pages, f.Under)
		src.Pages = src.Pages[:0]
	}
	return nil
}

// destination returns where the cell at (r, c) goes, and whether it moves at all.
func destination(f Fold, r, c int) (Pos, bool) {
	i := f.Index
	switch f.Direction {
	case Right:
		if c < i {
			return Pos{r, i + (i - 1 - c)}, true
		}
	case Left:
		if c >= i {
			return Pos{r, i - (c - (i - 1))}, true
		}
	case Top:
		if r < i {
			return Pos{i + (i - 1 - r), c}, true
		}
	case Bottom:
		if r >= i {
			return Pos{i - (r - (i - 1)), c}, true
		}
	}
	return Pos{}, false
}

// stack turns the moving pile over and puts it on top of (or under) the
// resting pile.
func stack(resting, moving []Pos, under bool) []Pos {
	flipped := make([]Pos, len(moving))
	for i, p := range moving {
		flipped[len(moving)-1-i] = p
	}
	if under {
		return append(flipped, resting...)
	}
	return append(append([]Pos(nil), resting...), flipped...)
}

// ApplyLevel resets g and replays the first level folds. A negative level or
// one past the end replays them all.
func (g *Grid) ApplyLevel(folds []Fold, level int) error {
	g.Reset()
	if level < 0 || level > len(folds) {
		level = len(folds)
	}
	for _, f := range folds[:level] {
		if err := g.Apply(f); err != nil {
			return err
		}
	}
	return nil
}

// CheckLevel reports whether g has been folded down to a single stack. When
// it has, the final front/back page slots and final flips are written to the
// cells that started out at each stacked position, and the position of the
// stack is returned.
//
// Slots are assigned from the top of the stack down in pairs: the top cell
// gets slots 0 and 1, the next 2 and 3, and so on. A cell turned over an odd
// number of times shows its back first.
func (g *Grid) CheckLevel() (Pos, Status) {
	at := Pos{-1, -1}
	for i, c := range g.cells {
		if len(c.Pages) > 0 {
			at = Pos{i / g.cols, i % g.cols}
			break
		}
	}
	if at.Row < 0 {
		return at, StatusNotFullyFolded
	}
	for _, d := range []Pos{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		r, c := at.Row+d.Row, at.Col+d.Col
		if g.In(r, c) && len(g.At(r, c).Pages) > 0 {
			return at, StatusNotFullyFolded
		}
	}

	pages := g.At(at.Row, at.Col).Pages
	slot := 0
	for i := len(pages) - 1; i >= 0; i-- {
		orig := g.At(pages[i].Row, pages[i].Col)
		orig.FinalXFlip, orig.FinalYFlip = orig.XFlipped, orig.YFlipped
		if orig.XFlipped != orig.YFlipped {
			orig.FinalBack, orig.FinalFront = slot, slot+1
		} else {
			orig.FinalFront, orig.FinalBack = slot, slot+1
		}
		slot += 2
	}
	return at, StatusOK
}
