package signature

import (
	"slices"

	"github.com/laidout/impose/pkg/errors"
	"github.com/laidout/impose/pkg/fold"
	"github.com/laidout/impose/pkg/geom"
)

// Default paper size (US letter, inches).
const (
	DefaultPaperWidth  = 8.5
	DefaultPaperHeight = 11.0
)

// Marks selects which printer marks are generated around the page area.
type Marks uint8

const (
	// MarksMargins draws cut lines and fold lines in the inset area.
	MarksMargins Marks = 1 << iota
	// MarksInnerDot draws small dots just inside the insets at tile corners.
	MarksInnerDot
)

// Part selects which box of a page PageBounds returns.
type Part int

const (
	// PartTrim is the finished page after trimming, with its origin at the
	// lower left corner of the trimmed page.
	PartTrim Part = iota
	// PartMargin is the area inside the page margins.
	PartMargin
	// PartCell is the whole grid cell, including the trim allowance.
	PartCell
)

// Signature is a folding pattern plus its paper and page geometry.
type Signature struct {
	Name        string `json:"name,omitempty" toml:"name" bson:"name,omitempty"`
	Description string `json:"description,omitempty" toml:"description" bson:"description,omitempty"`

	PaperWidth  float64 `json:"paper_width" toml:"paper_width" bson:"paper_width"`
	PaperHeight float64 `json:"paper_height" toml:"paper_height" bson:"paper_height"`

	InsetLeft   float64 `json:"inset_left,omitempty" toml:"inset_left" bson:"inset_left,omitempty"`
	InsetRight  float64 `json:"inset_right,omitempty" toml:"inset_right" bson:"inset_right,omitempty"`
	InsetTop    float64 `json:"inset_top,omitempty" toml:"inset_top" bson:"inset_top,omitempty"`
	InsetBottom float64 `json:"inset_bottom,omitempty" toml:"inset_bottom" bson:"inset_bottom,omitempty"`

	TileGapX float64 `json:"tile_gap_x,omitempty" toml:"tile_gap_x" bson:"tile_gap_x,omitempty"`
	TileGapY float64 `json:"tile_gap_y,omitempty" toml:"tile_gap_y" bson:"tile_gap_y,omitempty"`
	TileX    int     `json:"tile_x" toml:"tile_x" bson:"tile_x"`
	TileY    int     `json:"tile_y" toml:"tile_y" bson:"tile_y"`

	NumHFolds int         `json:"num_h_folds" toml:"-" bson:"num_h_folds"`
	NumVFolds int         `json:"num_v_folds" toml:"-" bson:"num_v_folds"`
	Folds     []fold.Fold `json:"folds" toml:"folds" bson:"folds"`

	TrimLeft   float64 `json:"trim_left,omitempty" toml:"trim_left" bson:"trim_left,omitempty"`
	TrimRight  float64 `json:"trim_right,omitempty" toml:"trim_right" bson:"trim_right,omitempty"`
	TrimTop    float64 `json:"trim_top,omitempty" toml:"trim_top" bson:"trim_top,omitempty"`
	TrimBottom float64 `json:"trim_bottom,omitempty" toml:"trim_bottom" bson:"trim_bottom,omitempty"`

	MarginLeft   float64 `json:"margin_left,omitempty" toml:"margin_left" bson:"margin_left,omitempty"`
	MarginRight  float64 `json:"margin_right,omitempty" toml:"margin_right" bson:"margin_right,omitempty"`
	MarginTop    float64 `json:"margin_top,omitempty" toml:"margin_top" bson:"margin_top,omitempty"`
	MarginBottom float64 `json:"margin_bottom,omitempty" toml:"margin_bottom" bson:"margin_bottom,omitempty"`

	Binding   fold.Direction `json:"binding" toml:"binding" bson:"binding"`
	Up        fold.Direction `json:"up" toml:"up" bson:"up"`
	PositiveX fold.Direction `json:"positive_x" toml:"positive_x" bson:"positive_x"`
	PositiveY fold.Direction `json:"positive_y" toml:"positive_y" bson:"positive_y"`

	SheetsPerSignature int   `json:"sheets_per_signature" toml:"sheets_per_signature" bson:"sheets_per_signature"`
	AutoAddSheets      bool  `json:"auto_add_sheets,omitempty" toml:"auto_add_sheets" bson:"auto_add_sheets,omitempty"`
	AutoMarks          Marks `json:"auto_marks,omitempty" toml:"auto_marks" bson:"auto_marks,omitempty"`
}

// New returns an unfolded letter-size signature with the default
// orientation: bound on the left, top up.
func New() Signature {
	return Signature{
		PaperWidth:         DefaultPaperWidth,
		PaperHeight:        DefaultPaperHeight,
		TileX:              1,
		TileY:              1,
		Binding:            fold.Left,
		Up:                 fold.Top,
		PositiveX:          fold.Right,
		PositiveY:          fold.Top,
		SheetsPerSignature: 1,
	}
}

// SetFolds replaces the fold list and derives the fold line counts from it.
func (s *Signature) SetFolds(folds []fold.Fold) {
	s.Folds = slices.Clone(folds)
	s.NumHFolds, s.NumVFolds = fold.CountAxes(folds)
}

// AddFold appends one fold and bumps the matching fold line count.
func (s *Signature) AddFold(f fold.Fold) {
	s.Folds = append(s.Folds, f)
	if f.Direction.Horizontal() {
		s.NumHFolds++
	} else {
		s.NumVFolds++
	}
}

// Clone returns a deep copy of s.
func (s Signature) Clone() Signature {
	s.Folds = slices.Clone(s.Folds)
	return s
}

// =============================================================================
// Geometry
// =============================================================================

// PatternWidth is the width of one tile of the folding pattern.
func (s *Signature) PatternWidth() float64 {
	tiles := float64(max(s.TileX, 1))
	return (s.PaperWidth - s.InsetLeft - s.InsetRight - (tiles-1)*s.TileGapX) / tiles
}

// PatternHeight is the height of one tile of the folding pattern.
func (s *Signature) PatternHeight() float64 {
	tiles := float64(max(s.TileY, 1))
	return (s.PaperHeight - s.InsetTop - s.InsetBottom - (tiles-1)*s.TileGapY) / tiles
}

// CellWidth is the width of one grid cell, trim allowance included.
func (s *Signature) CellWidth() float64 {
	return s.PatternWidth() / float64(s.NumVFolds+1)
}

// CellHeight is the height of one grid cell, trim allowance included.
func (s *Signature) CellHeight() float64 {
	return s.PatternHeight() / float64(s.NumHFolds+1)
}

// PageWidth is the width of a finished, trimmed page.
func (s *Signature) PageWidth() float64 {
	return s.CellWidth() - s.TrimLeft - s.TrimRight
}

// PageHeight is the height of a finished, trimmed page.
func (s *Signature) PageHeight() float64 {
	return s.CellHeight() - s.TrimTop - s.TrimBottom
}

// PageBounds returns a box of the page in trimmed page coordinates.
func (s *Signature) PageBounds(part Part) geom.Rect {
	switch part {
	case PartMargin:
		return geom.Rect{
			Min: geom.Pt(s.MarginLeft-s.TrimLeft, s.MarginBottom-s.TrimBottom),
			Max: geom.Pt(s.CellWidth()-s.MarginRight-s.TrimLeft, s.CellHeight()-s.MarginTop-s.TrimBottom),
		}
	case PartCell:
		return geom.Rect{
			Min: geom.Pt(-s.TrimLeft, -s.TrimBottom),
			Max: geom.Pt(-s.TrimLeft+s.CellWidth(), -s.TrimBottom+s.CellHeight()),
		}
	default:
		return geom.Rect{Max: geom.Pt(s.PageWidth(), s.PageHeight())}
	}
}

// IsVertical reports whether pages are bound along their top or bottom edge
// relative to the reading direction, so spreads stack vertically.
func (s *Signature) IsVertical() bool {
	return s.Up.Horizontal() == s.Binding.Horizontal()
}

// PagesPerPattern is the number of page sides on one folded sheet.
func (s *Signature) PagesPerPattern() int {
	return 2 * (s.NumVFolds + 1) * (s.NumHFolds + 1)
}

// PagesPerSignature is the number of page sides in one nested signature.
func (s *Signature) PagesPerSignature() int {
	return s.PagesPerPattern() * max(s.SheetsPerSignature, 1)
}

// PaperSpreadsPerSignature is the number of paper sides in one signature.
func (s *Signature) PaperSpreadsPerSignature() int {
	return 2 * max(s.SheetsPerSignature, 1)
}

// =============================================================================
// Validation
// =============================================================================

// Validity checks the signature and returns the first problem found.
func (s *Signature) Validity() error {
	h, v := fold.CountAxes(s.Folds)
	if s.NumHFolds+s.NumVFolds != len(s.Folds) || h != s.NumHFolds || v != s.NumVFolds {
		return errors.New(errors.ErrCodeAxisMismatch,
			"signature declares %d horizontal and %d vertical folds but lists %d and %d",
			s.NumHFolds, s.NumVFolds, h, v)
	}
	if err := s.validateGeometry(); err != nil {
		return err
	}
	plan, err := s.Plan()
	if err != nil {
		return err
	}
	return plan.Err()
}

func (s *Signature) validateGeometry() error {
	switch {
	case s.PaperWidth <= 0 || s.PaperHeight <= 0:
		return errors.New(errors.ErrCodeInvalidGeometry, "paper size must be positive, got %gx%g", s.PaperWidth, s.PaperHeight)
	case s.TileX < 1 || s.TileY < 1:
		return errors.New(errors.ErrCodeInvalidGeometry, "tile counts must be at least 1, got %dx%d", s.TileX, s.TileY)
	case s.SheetsPerSignature < 1:
		return errors.New(errors.ErrCodeInvalidGeometry, "sheets per signature must be at least 1, got %d", s.SheetsPerSignature)
	case anyNegative(s.InsetLeft, s.InsetRight, s.InsetTop, s.InsetBottom, s.TileGapX, s.TileGapY,
		s.TrimLeft, s.TrimRight, s.TrimTop, s.TrimBottom,
		s.MarginLeft, s.MarginRight, s.MarginTop, s.MarginBottom):
		return errors.New(errors.ErrCodeInvalidGeometry, "insets, gaps, trims and margins cannot be negative")
	case s.PageWidth() <= 0 || s.PageHeight() <= 0:
		return errors.New(errors.ErrCodeInvalidGeometry, "page size %.4gx%.4g is not positive", s.PageWidth(), s.PageHeight())
	}
	for _, d := range []fold.Direction{s.Binding, s.Up, s.PositiveX, s.PositiveY} {
		if !d.Valid() {
			return errors.New(errors.ErrCodeInvalidGeometry, "invalid orientation tag %q", byte(d))
		}
	}
	return nil
}

func anyNegative(vals ...float64) bool {
	for _, v := range vals {
		if v < 0 {
			return true
		}
	}
	return false
}

// Plan compiles the fold list against the declared fold line counts.
func (s *Signature) Plan() (*fold.Plan, error) {
	return fold.Compile(s.Folds, s.NumHFolds, s.NumVFolds)
}
