package signature

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/laidout/impose/pkg/errors"
	"github.com/laidout/impose/pkg/fold"
)

func folio(sheets int) Signature {
	s := New()
	s.PaperWidth, s.PaperHeight = 11, 8.5
	s.SheetsPerSignature = sheets
	s.SetFolds([]fold.Fold{{Direction: fold.Right, Index: 1}})
	return s
}

func TestGeometry(t *testing.T) {
	s := New()
	s.PaperWidth, s.PaperHeight = 20, 10
	s.InsetLeft, s.InsetRight = 1, 1
	s.TrimLeft, s.TrimRight = .5, .5
	s.MarginLeft = 1
	s.SetFolds([]fold.Fold{{Direction: fold.Right, Index: 1}})

	if got := s.PatternWidth(); got != 18 {
		t.Errorf("PatternWidth() = %v, want 18", got)
	}
	if got := s.CellWidth(); got != 9 {
		t.Errorf("CellWidth() = %v, want 9", got)
	}
	if got := s.PageWidth(); got != 8 {
		t.Errorf("PageWidth() = %v, want 8", got)
	}
	if got := s.PageBounds(PartCell); got.Min.X != -.5 || got.Max.X != 8.5 {
		t.Errorf("PageBounds(PartCell) = %v", got)
	}
	if got := s.PageBounds(PartMargin); got.Min.X != .5 {
		t.Errorf("PageBounds(PartMargin).Min.X = %v, want .5", got.Min.X)
	}
	if got := s.PagesPerPattern(); got != 4 {
		t.Errorf("PagesPerPattern() = %d, want 4", got)
	}
}

func TestTiledPattern(t *testing.T) {
	s := New()
	s.PaperWidth = 10.5
	s.TileX, s.TileGapX = 2, .5
	if got := s.PatternWidth(); got != 5 {
		t.Errorf("PatternWidth() = %v, want 5", got)
	}
}

func TestValidity(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Signature)
		code   errors.Code
	}{
		{"valid folio", func(*Signature) {}, ""},
		{"declared counts disagree", func(s *Signature) { s.NumHFolds = 1 }, errors.ErrCodeAxisMismatch},
		{"zero paper", func(s *Signature) { s.PaperWidth = 0 }, errors.ErrCodeInvalidGeometry},
		{"no tiles", func(s *Signature) { s.TileY = 0 }, errors.ErrCodeInvalidGeometry},
		{"no sheets", func(s *Signature) { s.SheetsPerSignature = 0 }, errors.ErrCodeInvalidGeometry},
		{"negative trim", func(s *Signature) { s.TrimTop = -1 }, errors.ErrCodeInvalidGeometry},
		{"trim eats page", func(s *Signature) { s.TrimLeft, s.TrimRight = 3, 3 }, errors.ErrCodeInvalidGeometry},
		{"bad binding", func(s *Signature) { s.Binding = 'x' }, errors.ErrCodeInvalidGeometry},
		{"fold off the sheet", func(s *Signature) {
			s.SetFolds([]fold.Fold{{Direction: fold.Right, Index: 3}})
		}, errors.ErrCodeInvalidFold},
		{"left unfolded", func(s *Signature) {
			s.SetFolds([]fold.Fold{{Direction: fold.Right, Index: 1}, {Direction: fold.Right, Index: 1}})
		}, errors.ErrCodeNotFullyFolded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := folio(1)
			tt.modify(&s)
			err := s.Validity()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("Validity() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Fatalf("Validity() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestCompileCopiesSignature(t *testing.T) {
	s := folio(1)
	c, err := Compile(s)
	if err != nil {
		t.Fatal(err)
	}
	s.Folds[0].Index = 7
	if c.Folds[0].Index != 1 {
		t.Errorf("compiled folds changed with the source signature")
	}
	if !c.Plan.OK() {
		t.Errorf("plan status = %v", c.Plan.Status)
	}
}

func TestPageSlot(t *testing.T) {
	// one fold, nested sheets: each paper side carries a saddle-stitch pair
	tests := []struct {
		sheets int
		want   [][2]int
	}{
		{1, [][2]int{{0, 3}, {1, 2}}},
		{2, [][2]int{{0, 7}, {1, 6}, {2, 5}, {3, 4}}},
		{3, [][2]int{{0, 11}, {1, 10}, {2, 9}, {3, 8}, {4, 7}, {5, 6}}},
	}
	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.sheets), func(t *testing.T) {
			for sp, pair := range tt.want {
				left := PageSlot(1, 0, tt.sheets, sp)
				right := PageSlot(2, 3, tt.sheets, sp)
				if left != pair[0] || right != pair[1] {
					t.Errorf("paper side %d: got (%d,%d), want %v", sp, left, right, pair)
				}
			}
		})
	}
}

func TestPaperSideMirrored(t *testing.T) {
	for sp, want := range []bool{true, false, true, false} {
		if got := PaperSideMirrored(sp); got != want {
			t.Errorf("PaperSideMirrored(%d) = %v, want %v", sp, got, want)
		}
	}
}

func TestLocatePaperFromPage(t *testing.T) {
	tests := []struct {
		name   string
		sheets int
		page   int
		want   Location
	}{
		{"cover", 1, 0, Location{Paper: 0, Cell: fold.Pos{Row: 0, Col: 0}, Column: 1, Mirrored: true}},
		{"back cover", 1, 3, Location{Paper: 0, Cell: fold.Pos{Row: 0, Col: 1}, Column: 0, Mirrored: true}},
		{"inside left", 1, 1, Location{Paper: 1, Cell: fold.Pos{Row: 0, Col: 0}, Column: 0}},
		{"inside right", 1, 2, Location{Paper: 1, Cell: fold.Pos{Row: 0, Col: 1}, Column: 1}},
		{"second signature", 1, 4, Location{Paper: 2, Cell: fold.Pos{Row: 0, Col: 0}, Column: 1, Mirrored: true}},
		{"nested first", 2, 0, Location{Paper: 0, Cell: fold.Pos{Row: 0, Col: 0}, Column: 1, Mirrored: true}},
		{"nested last", 2, 7, Location{Paper: 0, Cell: fold.Pos{Row: 0, Col: 1}, Column: 0, Mirrored: true}},
		{"nested middle", 2, 5, Location{Paper: 2, Cell: fold.Pos{Row: 0, Col: 1}, Column: 0, Mirrored: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := MustCompile(folio(tt.sheets))
			got, err := c.LocatePaperFromPage(tt.page)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("LocatePaperFromPage(%d) = %+v, want %+v", tt.page, got, tt.want)
			}
		})
	}
}

func TestLocateMatchesPageSlot(t *testing.T) {
	for _, name := range BuiltinNames() {
		t.Run(name, func(t *testing.T) {
			s, _ := Builtin(name)
			c := MustCompile(s)
			sheets := c.SheetsPerSignature
			for page := 0; page < 2*c.PagesPerSignature(); page++ {
				loc, err := c.LocatePaperFromPage(page)
				if err != nil {
					t.Fatal(err)
				}
				cell := c.Plan.Cell(loc.Cell.Row, loc.Cell.Col)
				sigpaper := loc.Paper % c.PaperSpreadsPerSignature()
				sig := loc.Paper / c.PaperSpreadsPerSignature()
				got := sig*c.PagesPerSignature() + PageSlot(cell.FinalFront, cell.FinalBack, sheets, sigpaper)
				if got != page {
					t.Errorf("page %d located at %+v, which numbers page %d", page, loc, got)
				}
			}
		})
	}
}

func TestLocateNegativePage(t *testing.T) {
	c := MustCompile(folio(1))
	if _, err := c.LocatePaperFromPage(-1); !errors.Is(err, errors.ErrCodeOutOfRange) {
		t.Errorf("err = %v, want OUT_OF_RANGE", err)
	}
	if got := c.PaperFromPage(-1); got != -1 {
		t.Errorf("PaperFromPage(-1) = %d, want -1", got)
	}
}

func TestParse(t *testing.T) {
	in := `# a comment
name My Octavo
description Three folds
paper 34 22
sheetspersignature 2
numhfolds 9
fold 2 Left
fold 1 under left
fold 1 Top
binding right
trimtop .125
automarks margins innerdot
autoaddsheets
`
	s, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "My Octavo" || s.Description != "Three folds" {
		t.Errorf("name/description = %q/%q", s.Name, s.Description)
	}
	if s.PaperWidth != 34 || s.PaperHeight != 22 || s.SheetsPerSignature != 2 {
		t.Errorf("paper = %vx%v sheets %d", s.PaperWidth, s.PaperHeight, s.SheetsPerSignature)
	}
	if s.NumHFolds != 1 || s.NumVFolds != 2 {
		t.Errorf("fold counts = %d,%d, want 1,2", s.NumHFolds, s.NumVFolds)
	}
	if !s.Folds[1].Under || s.Folds[1].Direction != fold.Left {
		t.Errorf("second fold = %v", s.Folds[1])
	}
	if s.Binding != fold.Right || s.TrimTop != .125 || !s.AutoAddSheets {
		t.Errorf("binding %v trimtop %v autoadd %v", s.Binding, s.TrimTop, s.AutoAddSheets)
	}
	if s.AutoMarks != MarksMargins|MarksInnerDot {
		t.Errorf("automarks = %v", s.AutoMarks)
	}
}

func TestParseNested(t *testing.T) {
	in := `name Stacked
numpages 16
showwholecover yes
signature
  automarks outer
  sheetspersignature 2
  pattern
    name "Folio pattern"
    numhfolds 0
    numvfolds 1
    fold 1 Right #0
    binding left
    trimright .25
  partition
    paper
      name letter
      width 8.5
      height 11
      landscape
    insetleft .5
    tilex 1
  insert
    pattern
      fold 1 Top
signature
  sheetspersignature 7
`
	s, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "Folio pattern" {
		t.Errorf("name = %q", s.Name)
	}
	if len(s.Folds) != 1 || s.Folds[0].Direction != fold.Right || s.NumVFolds != 1 || s.NumHFolds != 0 {
		t.Errorf("folds = %v, counts %d,%d; the insert's fold must not be merged", s.Folds, s.NumHFolds, s.NumVFolds)
	}
	if s.SheetsPerSignature != 2 {
		t.Errorf("sheets = %d, want 2 from the first signature block", s.SheetsPerSignature)
	}
	if s.PaperWidth != 11 || s.PaperHeight != 8.5 {
		t.Errorf("paper = %vx%v, want landscape letter", s.PaperWidth, s.PaperHeight)
	}
	if s.InsetLeft != .5 || s.TrimRight != .25 || s.AutoMarks != MarksMargins {
		t.Errorf("insetleft %v trimright %v automarks %v", s.InsetLeft, s.TrimRight, s.AutoMarks)
	}
	if s.Binding != fold.Left {
		t.Errorf("binding = %v", s.Binding)
	}
}

func TestParsePaperUnits(t *testing.T) {
	in := "paper\n  width 210\n  height 297\n  units mm\n"
	s, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(s.PaperWidth-210/25.4) > 1e-9 || math.Abs(s.PaperHeight-297/25.4) > 1e-9 {
		t.Errorf("paper = %vx%v inches", s.PaperWidth, s.PaperHeight)
	}
	if _, err := Parse(strings.NewReader("paper\n  width 1\n  units furlongs\n")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown units: err = %v, want INVALID_FORMAT", err)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"fold x Left",
		"fold 1 Over Left",
		"fold 1 Sideways",
		"paper 8.5",
		"binding up",
		"tilex many",
		"automarks sparkles",
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(strings.NewReader(in))
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("Parse(%q) error = %v, want INVALID_FORMAT", in, err)
			}
		})
	}
}

func TestDumpParse(t *testing.T) {
	orig, _ := Builtin("octavo")
	var buf bytes.Buffer
	if err := Dump(&buf, orig); err != nil {
		t.Fatal(err)
	}
	got, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse(Dump()) error = %v\n%s", err, buf.String())
	}
	if got.Name != orig.Name || got.InsetLeft != orig.InsetLeft || got.AutoMarks != orig.AutoMarks {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if len(got.Folds) != len(orig.Folds) || got.Folds[1] != orig.Folds[1] {
		t.Errorf("folds = %v, want %v", got.Folds, orig.Folds)
	}
}

func TestLoadTOML(t *testing.T) {
	data := []byte(`
[signature]
name = "quarto"
paper_width = 17.0
paper_height = 22.0
binding = "left"

[[signature.folds]]
direction = "r"
index = 1

[[signature.folds]]
direction = "b"
index = 1
`)
	s, err := LoadTOML(data)
	if err != nil {
		t.Fatal(err)
	}
	if s.NumHFolds != 1 || s.NumVFolds != 1 {
		t.Errorf("fold counts = %d,%d", s.NumHFolds, s.NumVFolds)
	}
	if s.SheetsPerSignature != 1 || s.Up != fold.Top {
		t.Errorf("defaults not kept: sheets %d up %v", s.SheetsPerSignature, s.Up)
	}
	if _, err := Compile(s); err != nil {
		t.Errorf("Compile() = %v", err)
	}

	if _, err := LoadTOML([]byte("[signature\n")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad toml error = %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	orig, _ := Builtin("quarto")

	data, err := EncodeTOML(orig)
	if err != nil {
		t.Fatal(err)
	}
	tomlPath := filepath.Join(dir, "quarto.toml")
	if err := os.WriteFile(tomlPath, data, 0o644); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Dump(&buf, orig); err != nil {
		t.Fatal(err)
	}
	attPath := filepath.Join(dir, "quarto.sig")
	if err := os.WriteFile(attPath, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{tomlPath, attPath} {
		s, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s) = %v", filepath.Base(path), err)
		}
		if s.PagesPerPattern() != 8 || s.TrimTop != .125 {
			t.Errorf("Load(%s) = %+v", filepath.Base(path), s)
		}
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestBuiltins(t *testing.T) {
	for _, name := range BuiltinNames() {
		t.Run(name, func(t *testing.T) {
			s, err := Builtin(name)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := Compile(s); err != nil {
				t.Errorf("Compile(%s) = %v", name, err)
			}
		})
	}
	if _, err := Builtin("nope"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("unknown builtin error = %v", err)
	}
}
