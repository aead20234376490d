package fold

import (
	"github.com/laidout/impose/pkg/errors"
)

// Status is the outcome of compiling a fold list.
type Status int

const (
	// StatusOK means the folds reduce the sheet to a single stack.
	StatusOK Status = iota
	// StatusNotFullyFolded means more than one stack remains.
	StatusNotFullyFolded
	// StatusAxisMismatch means the fold line counts disagree with the folds.
	StatusAxisMismatch
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNotFullyFolded:
		return "not fully folded"
	case StatusAxisMismatch:
		return "axis mismatch"
	}
	return "unknown"
}

// Plan is the compiled result of a fold list. It is immutable.
type Plan struct {
	NumH   int    `json:"num_h"`
	NumV   int    `json:"num_v"`
	Folds  []Fold `json:"folds"`
	Status Status `json:"status"`
	// Final is where the single remaining stack ends up. Only meaningful
	// when Status is StatusOK.
	Final Pos `json:"final"`

	grid *Grid
}

// Compile folds a fresh numh by numv grid with folds.
//
// An error is returned only when a fold does not fit the sheet. Other
// problems are reported through Plan.Status so callers can still inspect
// the partial result; use [Plan.Err] to turn them into errors.
func Compile(folds []Fold, numh, numv int) (*Plan, error) {
	p := &Plan{
		NumH:  max(numh, 0),
		NumV:  max(numv, 0),
		Folds: append([]Fold(nil), folds...),
		Final: Pos{-1, -1},
		grid:  NewGrid(numh, numv),
	}

	h, v := CountAxes(folds)
	if h != p.NumH || v != p.NumV {
		p.Status = StatusAxisMismatch
		return p, nil
	}

	for i, f := range p.Folds {
		if err := p.grid.Apply(f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFold, err, "fold %d", i+1)
		}
	}
	p.Final, p.Status = p.grid.CheckLevel()
	return p, nil
}

// MustCompile is like Compile but panics on error or on a non-OK status.
// It is meant for built-in fold patterns.
func MustCompile(folds []Fold, numh, numv int) *Plan {
	p, err := Compile(folds, numh, numv)
	if err == nil {
		err = p.Err()
	}
	if err != nil {
		panic(err)
	}
	return p
}

// OK reports whether the plan folds down to a single stack.
func (p *Plan) OK() bool { return p.Status == StatusOK }

// Err converts a non-OK status into an error.
func (p *Plan) Err() error {
	switch p.Status {
	case StatusOK:
		return nil
	case StatusAxisMismatch:
		h, v := CountAxes(p.Folds)
		return errors.New(errors.ErrCodeAxisMismatch,
			"expected %d horizontal and %d vertical folds, got %d and %d", p.NumH, p.NumV, h, v)
	default:
		return errors.New(errors.ErrCodeNotFullyFolded, "folds do not reduce the sheet to a single page stack")
	}
}

func (p *Plan) Rows() int { return p.grid.Rows() }
func (p *Plan) Cols() int { return p.grid.Cols() }

// Cell returns a copy of the final state of cell (r, c).
func (p *Plan) Cell(r, c int) Cell {
	cell := *p.grid.At(r, c)
	cell.Pages = append([]Pos(nil), cell.Pages...)
	return cell
}

// Grid returns a copy of the fully folded grid.
func (p *Plan) Grid() *Grid { return p.grid.Clone() }

// AtLevel returns a fresh grid showing the sheet after the first level folds.
// When level covers every fold, final page slots are filled in as well.
func (p *Plan) AtLevel(level int) (*Grid, error) {
	g := NewGrid(p.NumH, p.NumV)
	if p.Status == StatusAxisMismatch {
		return g, p.Err()
	}
	if err := g.ApplyLevel(p.Folds, level); err != nil {
		return nil, err
	}
	if level < 0 || level >= len(p.Folds) {
		g.CheckLevel()
	}
	return g, nil
}

// Locate finds the cell whose final front or back is slot. front reports
// which side matched.
func (p *Plan) Locate(slot int) (at Pos, front bool, ok bool) {
	if !p.OK() || slot < 0 {
		return Pos{}, false, false
	}
	for r := 0; r < p.grid.Rows(); r++ {
		for c := 0; c < p.grid.Cols(); c++ {
			cell := p.grid.At(r, c)
			if cell.FinalFront == slot {
				return Pos{r, c}, true, true
			}
			if cell.FinalBack == slot {
				return Pos{r, c}, false, true
			}
		}
	}
	return Pos{}, false, false
}

// PagesPerPattern returns how many page sides one sheet of this pattern holds.
func (p *Plan) PagesPerPattern() int {
	return 2 * (p.NumH + 1) * (p.NumV + 1)
}
