package disposition

import (
	"math"
	"slices"
	"testing"

	"github.com/laidout/impose/pkg/errors"
	"github.com/laidout/impose/pkg/fold"
	"github.com/laidout/impose/pkg/geom"
	"github.com/laidout/impose/pkg/net"
	"github.com/laidout/impose/pkg/signature"
)

const tol = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func folio() signature.Signature {
	s := signature.New()
	s.PaperWidth, s.PaperHeight = 11, 8.5
	s.SetFolds([]fold.Fold{{Direction: fold.Right, Index: 1}})
	return s
}

func builtinSig(t *testing.T, name string) signature.Signature {
	t.Helper()
	s, err := signature.Builtin(name)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func mustImposition(t *testing.T, s signature.Signature) *SignatureImposition {
	t.Helper()
	d, err := NewSignatureImposition(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func pageIndexes(s *Spread) []int {
	out := make([]int, len(s.Pages))
	for i, p := range s.Pages {
		out[i] = p.Index
	}
	return out
}

func allKinds(t *testing.T) map[string]Disposition {
	t.Helper()
	quarto := builtinSig(t, "quarto")
	out := map[string]Disposition{}
	for _, kind := range Kinds() {
		opts := Options{Signature: &quarto, Net: net.Box(4, 2, 3), Margin: .5}
		d, err := New(kind, opts)
		if err != nil {
			t.Fatalf("New(%q): %v", kind, err)
		}
		out[kind] = d
	}
	return out
}

// =============================================================================
// Contract
// =============================================================================

func TestContract(t *testing.T) {
	const n = 11
	for kind, d := range allKinds(t) {
		t.Run(kind, func(t *testing.T) {
			total := d.NumPages(n)
			if total < n {
				t.Fatalf("NumPages(%d) = %d", n, total)
			}
			if got := d.PaperFromPage(0); got != 0 {
				t.Errorf("PaperFromPage(0) = %d, want 0", got)
			}
			if got := d.NumSpreads(LayoutSingle); got != n {
				t.Errorf("NumSpreads(single) = %d, want %d", got, n)
			}
			for p := 0; p < n; p++ {
				paper := d.PaperFromPage(p)
				if got := d.SpreadFromPage(LayoutPaper, p); got != paper {
					t.Errorf("SpreadFromPage(paper, %d) = %d, want %d", p, got, paper)
				}
				s, err := d.PaperLayout(paper)
				if err != nil {
					t.Fatalf("PaperLayout(%d): %v", paper, err)
				}
				if !slices.Contains(pageIndexes(s), p) {
					t.Errorf("paper %d holds %v, missing page %d", paper, pageIndexes(s), p)
				}

				spread := d.SpreadFromPage(LayoutPage, p)
				s, err = d.PageLayout(spread)
				if err != nil {
					t.Fatalf("PageLayout(%d): %v", spread, err)
				}
				if !slices.Contains(pageIndexes(s), p) {
					t.Errorf("spread %d holds %v, missing page %d", spread, pageIndexes(s), p)
				}
			}
			for _, layout := range Layouts {
				count := d.NumSpreads(layout)
				if _, err := LayoutSpread(d, layout, count); !errors.Is(err, errors.ErrCodeOutOfRange) {
					t.Errorf("%v spread %d: err = %v, want OUT_OF_RANGE", layout, count, err)
				}
				if _, err := LayoutSpread(d, layout, -1); !errors.Is(err, errors.ErrCodeOutOfRange) {
					t.Errorf("%v spread -1: err = %v, want OUT_OF_RANGE", layout, err)
				}
				all, err := AllSpreads(d, layout)
				if err != nil {
					t.Fatal(err)
				}
				if len(all) != count {
					t.Errorf("AllSpreads(%v) = %d spreads, want %d", layout, len(all), count)
				}
			}
			if got := len(d.CreatePages(PageStyle{})); got != total {
				t.Errorf("CreatePages made %d pages, want %d", got, total)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	want := []string{"booklet", "double-sided", "net", "signature", "singles"}
	if got := Kinds(); !slices.Equal(got, want) {
		t.Errorf("Kinds() = %v, want %v", got, want)
	}
	if _, err := New("scroll", Options{}); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("New(scroll): err = %v, want UNSUPPORTED", err)
	}
	for _, kind := range []string{"signature", "net"} {
		if _, err := New(kind, Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("New(%s) without input: err = %v, want INVALID_INPUT", kind, err)
		}
	}
	d, err := New("booklet", Options{Creep: .1})
	if err != nil {
		t.Fatal(err)
	}
	if b := d.(*Booklet); b.Creep != .1 || b.Sheet.Width != 8.5 {
		t.Errorf("booklet = %+v", b)
	}
	if _, err := New("singles", Options{Sheet: Sheet{Width: 1, Height: 1, InsetLeft: 1}}); !errors.Is(err, errors.ErrCodeInvalidGeometry) {
		t.Errorf("insets filling the sheet: err = %v, want INVALID_GEOMETRY", err)
	}
	if d, err := New("net", Options{NetName: "dodecahedron"}); err != nil || d.Name() != "net" {
		t.Errorf("New(net, dodecahedron) = %v, %v", d, err)
	}
	if _, err := New("net", Options{NetName: "klein-bottle"}); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("unknown net name: err = %v, want NOT_FOUND", err)
	}
}

func TestPageRanges(t *testing.T) {
	s := &Spread{Pages: []PageLocation{{Index: 4}, {Index: NoPage}, {Index: 2}, {Index: 3}, {Index: 9}, {Index: 3}}}
	var got []string
	for _, r := range s.PageRanges() {
		got = append(got, r.String())
	}
	if want := []string{"2-4", "9"}; !slices.Equal(got, want) {
		t.Errorf("PageRanges() = %v, want %v", got, want)
	}
}

func TestParseLayout(t *testing.T) {
	tests := map[string]Layout{"single": LayoutSingle, "Pages": LayoutPage, "spread": LayoutPage, " paper ": LayoutPaper}
	for in, want := range tests {
		got, err := ParseLayout(in)
		if err != nil || got != want {
			t.Errorf("ParseLayout(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLayout("poster"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("ParseLayout(poster): err = %v", err)
	}
}

// =============================================================================
// Singles
// =============================================================================

func TestSingles(t *testing.T) {
	sheet := Letter()
	sheet.InsetLeft, sheet.InsetRight, sheet.InsetTop, sheet.InsetBottom = .5, .5, 1, 1
	sheet.TileX = 2
	d, err := NewSingles(sheet)
	if err != nil {
		t.Fatal(err)
	}
	if got := d.NumPages(5); got != 5 || d.NumPapers() != 5 {
		t.Errorf("NumPages(5) = %d, NumPapers() = %d", got, d.NumPapers())
	}
	if d.GetPagesNeeded(3) != 3 || d.GetPapersNeeded(3) != 3 {
		t.Error("singles should hold one page per paper")
	}
	for page, want := range map[int]int{-1: -1, 0: 0, 4: 4, 5: -1} {
		if got := d.PaperFromPage(page); got != want {
			t.Errorf("PaperFromPage(%d) = %d, want %d", page, got, want)
		}
	}
	if got := d.GetDefaultPageSize(); got.Width() != 3.75 || got.Height() != 9 {
		t.Errorf("page size = %v, want 3.75x9", got)
	}

	s, err := d.PaperLayout(2)
	if err != nil {
		t.Fatal(err)
	}
	if got := pageIndexes(s); !slices.Equal(got, []int{2, 2}) {
		t.Errorf("tiled paper pages = %v, want [2 2]", got)
	}
	if o := s.Pages[1].Transform.Origin(); o.X != 4.25 || o.Y != 1 {
		t.Errorf("second tile at %v, want (4.25,1)", o)
	}
	if len(s.Marks) != 1 || s.Marks[0].Kind != MarkCut {
		t.Errorf("marks = %+v, want one cut mark group", s.Marks)
	}
}

func TestDoubleSidedPageLayout(t *testing.T) {
	d, err := NewDoubleSidedSingles(Letter(), false)
	if err != nil {
		t.Fatal(err)
	}
	d.NumPages(4)
	if got := d.NumSpreads(LayoutPage); got != 3 {
		t.Fatalf("NumSpreads(page) = %d, want 3", got)
	}
	for page, want := range map[int]int{-2: -1, 0: 0, 3: 3, 4: -1} {
		if got := d.PaperFromPage(page); got != want {
			t.Errorf("PaperFromPage(%d) = %d, want %d", page, got, want)
		}
	}
	tests := []struct {
		spread int
		pages  []int
		firstX float64
	}{
		{0, []int{0}, 8.5},
		{1, []int{1, 2}, 0},
		{2, []int{3}, 0},
	}
	for _, tt := range tests {
		s, err := d.PageLayout(tt.spread)
		if err != nil {
			t.Fatal(err)
		}
		if got := pageIndexes(s); !slices.Equal(got, tt.pages) {
			t.Errorf("spread %d pages = %v, want %v", tt.spread, got, tt.pages)
		}
		if got := s.Pages[0].Transform.TX; got != tt.firstX {
			t.Errorf("spread %d first page x = %v, want %v", tt.spread, got, tt.firstX)
		}
	}

	pages := d.CreatePages(PageStyle{MarginLeft: 1, MarginRight: .5})
	if pages[0].Style.Type != PageRight || pages[0].Style.MarginLeft != 1 {
		t.Errorf("page 0 style = %+v", pages[0].Style)
	}
	if pages[1].Style.Type != PageLeft || pages[1].Style.MarginLeft != .5 {
		t.Errorf("page 1 style = %+v", pages[1].Style)
	}
}

func TestDoubleSidedVertical(t *testing.T) {
	d, err := NewDoubleSidedSingles(Letter(), true)
	if err != nil {
		t.Fatal(err)
	}
	d.NumPages(3)
	s, err := d.PageLayout(1)
	if err != nil {
		t.Fatal(err)
	}
	if o := s.Pages[0].Transform.Origin(); s.Pages[0].Index != 1 || o.Y != 11 {
		t.Errorf("page %d at %v, want page 1 on top", s.Pages[0].Index, o)
	}
	if b := s.Path.Bounds(); b.Height() != 22 {
		t.Errorf("spread height = %v, want 22", b.Height())
	}
}

// =============================================================================
// Booklet
// =============================================================================

func TestBookletCounts(t *testing.T) {
	d, err := NewBooklet(Letter(), false)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct{ pages, papers, slots int }{
		{1, 2, 4},
		{4, 2, 4},
		{5, 4, 8},
		{9, 6, 12},
	}
	for _, tt := range tests {
		if got := d.GetPapersNeeded(tt.pages); got != tt.papers {
			t.Errorf("GetPapersNeeded(%d) = %d, want %d", tt.pages, got, tt.papers)
		}
		if got := d.NumPages(tt.pages); got != tt.slots {
			t.Errorf("NumPages(%d) = %d, want %d", tt.pages, got, tt.slots)
		}
		if got := d.GetPagesNeeded(tt.papers); got != tt.slots {
			t.Errorf("GetPagesNeeded(%d) = %d, want %d", tt.papers, got, tt.slots)
		}
	}
	if got := d.GetDefaultPageSize(); got.Width() != 4.25 || got.Height() != 11 {
		t.Errorf("page size = %v, want 4.25x11", got)
	}
}

func TestBookletPaperLayout(t *testing.T) {
	d, err := NewBooklet(Letter(), false)
	if err != nil {
		t.Fatal(err)
	}
	d.NumPages(6)
	want := [][]int{{NoPage, 0}, {1, NoPage}, {5, 2}, {3, 4}}
	for paper, pages := range want {
		s, err := d.PaperLayout(paper)
		if err != nil {
			t.Fatal(err)
		}
		if got := pageIndexes(s); !slices.Equal(got, pages) {
			t.Errorf("paper %d = %v, want %v", paper, got, pages)
		}
		if s.Pages[1].Transform.TX != 4.25 {
			t.Errorf("paper %d second page x = %v, want 4.25", paper, s.Pages[1].Transform.TX)
		}
	}
}

func TestBookletCreep(t *testing.T) {
	d, err := NewBooklet(Letter(), false)
	if err != nil {
		t.Fatal(err)
	}
	d.Creep = .2
	d.NumPages(8)
	outer, err := d.PaperLayout(0)
	if err != nil {
		t.Fatal(err)
	}
	inner, err := d.PaperLayout(2)
	if err != nil {
		t.Fatal(err)
	}
	if outer.Pages[0].Transform.TX != 0 || outer.Pages[1].Transform.TX != 4.25 {
		t.Errorf("outer sheet moved: %v", outer.Pages)
	}
	if !near(inner.Pages[0].Transform.TX, .2) || !near(inner.Pages[1].Transform.TX, 4.05) {
		t.Errorf("inner sheet at %v and %v, want .2 and 4.05",
			inner.Pages[0].Transform.TX, inner.Pages[1].Transform.TX)
	}
}

// =============================================================================
// SignatureImposition
// =============================================================================

func TestImpositionNumPages(t *testing.T) {
	d := mustImposition(t, folio())
	steps := []struct{ n, slots, sigs, papers int }{
		{3, 4, 1, 2},
		{5, 8, 2, 4},
		{9, 12, 3, 6},
		{40, 40, 10, 20},
		{4, 4, 1, 2},
		{0, 4, 1, 2},
	}
	for _, st := range steps {
		if got := d.NumPages(st.n); got != st.slots {
			t.Errorf("NumPages(%d) = %d, want %d", st.n, got, st.slots)
		}
		if d.NumSignatures() != st.sigs || d.NumPapers() != st.papers {
			t.Errorf("after NumPages(%d): %d signatures, %d papers; want %d, %d",
				st.n, d.NumSignatures(), d.NumPapers(), st.sigs, st.papers)
		}
	}
	if got := d.GetPapersNeeded(5); got != 4 {
		t.Errorf("GetPapersNeeded(5) = %d, want 4", got)
	}
	if got := d.GetPagesNeeded(3); got != 8 {
		t.Errorf("GetPagesNeeded(3) = %d, want 8", got)
	}
}

func TestImpositionAutoAddSheets(t *testing.T) {
	s := folio()
	s.AutoAddSheets = true
	d := mustImposition(t, s)
	if got := d.NumPages(10); got != 12 {
		t.Errorf("NumPages(10) = %d, want 12", got)
	}
	if d.NumSignatures() != 1 || d.Signature().SheetsPerSignature != 3 || d.NumPapers() != 6 {
		t.Errorf("got %d signatures of %d sheets, %d papers", d.NumSignatures(), d.Signature().SheetsPerSignature, d.NumPapers())
	}
	if got := d.NumPages(4); got != 4 {
		t.Errorf("NumPages(4) after a longer document = %d, want 4", got)
	}
	if got := d.Signature().SheetsPerSignature; got != 1 {
		t.Errorf("sheets = %d after a shorter document, want 1", got)
	}

	s.SheetsPerSignature = 5
	d = mustImposition(t, s)
	if got := d.NumPages(4); got != 4 || d.Signature().SheetsPerSignature != 1 {
		t.Errorf("NumPages(4) with 5 configured sheets = %d slots, %d sheets; want 4, 1",
			got, d.Signature().SheetsPerSignature)
	}
}

func TestImpositionRejectsBadSignature(t *testing.T) {
	s := signature.New()
	s.NumVFolds = 1
	if _, err := NewSignatureImposition(s); !errors.Is(err, errors.ErrCodeAxisMismatch) {
		t.Errorf("err = %v, want AXIS_MISMATCH", err)
	}

	d := mustImposition(t, folio())
	if err := d.SetSignature(s); err == nil {
		t.Error("SetSignature accepted a bad signature")
	}
	if len(d.Signature().Folds) != 1 || d.Plan().Status != fold.StatusOK {
		t.Error("failed SetSignature replaced the signature")
	}
}

func TestImpositionSetSignature(t *testing.T) {
	d := mustImposition(t, folio())
	d.NumPages(6)
	if err := d.SetSignature(builtinSig(t, "quarto")); err != nil {
		t.Fatal(err)
	}
	if d.NumSignatures() != 1 || d.NumSpreads(LayoutPage) != 5 {
		t.Errorf("after SetSignature: %d signatures, %d page spreads", d.NumSignatures(), d.NumSpreads(LayoutPage))
	}
}

func TestImpositionPageLayout(t *testing.T) {
	tests := []struct {
		binding fold.Direction
		cover   bool
		spread  int
		pages   []int
		second  geom.Point
	}{
		{fold.Left, false, 0, []int{0}, geom.Pt(5.5, 0)},
		{fold.Left, false, 1, []int{1, 2}, geom.Pt(5.5, 0)},
		{fold.Left, false, 2, []int{3}, geom.Pt(0, 0)},
		{fold.Left, true, 0, []int{3, 0}, geom.Pt(5.5, 0)},
		{fold.Left, true, 2, []int{3, 0}, geom.Pt(5.5, 0)},
		{fold.Right, false, 1, []int{2, 1}, geom.Pt(5.5, 0)},
		{fold.Right, false, 0, []int{0}, geom.Pt(0, 0)},
		{fold.Top, false, 1, []int{2, 1}, geom.Pt(0, 8.5)},
		{fold.Bottom, false, 1, []int{1, 2}, geom.Pt(0, 8.5)},
	}
	for _, tt := range tests {
		s := folio()
		s.Binding = tt.binding
		d := mustImposition(t, s)
		d.ShowWholeCover = tt.cover
		d.NumPages(4)
		sp, err := d.PageLayout(tt.spread)
		if err != nil {
			t.Fatal(err)
		}
		if got := pageIndexes(sp); !slices.Equal(got, tt.pages) {
			t.Errorf("%v cover=%v spread %d = %v, want %v", tt.binding, tt.cover, tt.spread, got, tt.pages)
			continue
		}
		if got := sp.Pages[len(sp.Pages)-1].Transform.Origin(); got != tt.second {
			t.Errorf("%v spread %d last page at %v, want %v", tt.binding, tt.spread, got, tt.second)
		}
	}
}

func TestImpositionPageLayoutPath(t *testing.T) {
	d := mustImposition(t, folio())
	d.NumPages(4)
	first, _ := d.PageLayout(0)
	if b := first.Path.Bounds(); b.Min.X != 5.5 || b.Max.X != 11 {
		t.Errorf("cover spread path = %v, want x from 5.5 to 11", b)
	}
	if !near(first.Minimum.X, 6.6) {
		t.Errorf("cover spread minimum = %v", first.Minimum)
	}
	mid, _ := d.PageLayout(1)
	if len(mid.Path.Lines) != 2 {
		t.Errorf("two page spread has %d path lines, want outline and spine", len(mid.Path.Lines))
	}
	if b := mid.Path.Bounds(); b.Width() != 11 {
		t.Errorf("two page spread width = %v, want 11", b.Width())
	}
}

func TestImpositionBlankSlots(t *testing.T) {
	d := mustImposition(t, folio())
	d.NumPages(3)
	seen := map[int]int{}
	for paper := 0; paper < d.NumPapers(); paper++ {
		s, err := d.PaperLayout(paper)
		if err != nil {
			t.Fatal(err)
		}
		for _, p := range s.Pages {
			seen[p.Index]++
		}
	}
	want := map[int]int{0: 1, 1: 1, 2: 1, NoPage: 1}
	for k, v := range want {
		if seen[k] != v {
			t.Errorf("page %d appears %d times, want %d (all: %v)", k, seen[k], v, seen)
		}
	}
}

func TestImpositionPaperLayout(t *testing.T) {
	for _, name := range signature.BuiltinNames() {
		t.Run(name, func(t *testing.T) {
			d := mustImposition(t, builtinSig(t, name))
			total := d.NumPages(20)
			sig := d.Signature()
			paper := geom.R(0, 0, sig.PaperWidth, sig.PaperHeight)
			seen := make([]int, total)
			for i := 0; i < d.NumPapers(); i++ {
				s, err := d.PaperLayout(i)
				if err != nil {
					t.Fatal(err)
				}
				if len(s.Pages) != sig.PagesPerPattern()/2*sig.TileX*sig.TileY {
					t.Errorf("paper %d has %d pages", i, len(s.Pages))
				}
				for _, p := range s.Pages {
					b := p.Bounds()
					if b.Min.X < -tol || b.Min.Y < -tol || b.Max.X > paper.Max.X+tol || b.Max.Y > paper.Max.Y+tol {
						t.Errorf("paper %d page %d at %v falls off the paper", i, p.Index, b)
					}
					if !near(b.Width(), sig.PageWidth()) || !near(b.Height(), sig.PageHeight()) {
						t.Errorf("paper %d page %d is %vx%v", i, p.Index, b.Width(), b.Height())
					}
					if p.Index >= 0 {
						seen[p.Index]++
					}
				}
			}
			for p := 0; p < 20; p++ {
				if seen[p] != 1 {
					t.Errorf("page %d printed %d times", p, seen[p])
				}
			}
		})
	}
}

func TestImpositionFlippedPages(t *testing.T) {
	d := mustImposition(t, builtinSig(t, "quarto"))
	d.NumPages(8)
	s, err := d.PaperLayout(0)
	if err != nil {
		t.Fatal(err)
	}
	flipped := 0
	for _, p := range s.Pages {
		if p.Transform.A == -1 && p.Transform.D == -1 {
			flipped++
		}
	}
	if flipped != 2 {
		t.Errorf("%d pages upside down, want the 2 in the folded-down row", flipped)
	}
}

func TestImpositionAutoMarks(t *testing.T) {
	d := mustImposition(t, builtinSig(t, "octavo"))
	d.NumPages(12)
	s, err := d.PaperLayout(0)
	if err != nil {
		t.Fatal(err)
	}
	kinds := map[MarkKind]int{}
	for _, m := range s.Marks {
		kinds[m.Kind] = len(m.Path.Lines)
	}
	if kinds[MarkCut] == 0 || kinds[MarkFold] == 0 || kinds[MarkDot] == 0 {
		t.Errorf("mark line counts = %v, want cut, fold and dot marks", kinds)
	}
	// every mark stays in the insets, clear of the pages
	area := geom.R(.5, .5, 33.5, 21.5)
	for _, m := range s.Marks {
		if m.Kind == MarkDot {
			continue
		}
		for _, l := range m.Path.Lines {
			for _, pt := range l.Points {
				if pt.X > area.Min.X && pt.X < area.Max.X && pt.Y > area.Min.Y && pt.Y < area.Max.Y {
					t.Errorf("%v mark point %v inside the page area", m.Kind, pt)
				}
			}
		}
	}

	d = mustImposition(t, folio())
	d.NumPages(4)
	if s, _ := d.PaperLayout(0); len(s.Marks) != 0 {
		t.Errorf("folio without automarks has %d mark groups", len(s.Marks))
	}
}

func TestImpositionCreep(t *testing.T) {
	plain := mustImposition(t, builtinSig(t, "booklet"))
	plain.NumPages(16)
	crept := mustImposition(t, builtinSig(t, "booklet"))
	crept.Creep = .1
	crept.NumPages(16)

	lo, hi := math.Inf(1), 0.0
	for i := 0; i < plain.NumPapers(); i++ {
		a, err := plain.PaperLayout(i)
		if err != nil {
			t.Fatal(err)
		}
		b, err := crept.PaperLayout(i)
		if err != nil {
			t.Fatal(err)
		}
		for j := range a.Pages {
			shift := b.Pages[j].Transform.Origin().Dist(a.Pages[j].Transform.Origin())
			lo, hi = math.Min(lo, shift), math.Max(hi, shift)
		}
	}
	if !near(lo, 0) || !near(hi, .1) {
		t.Errorf("creep shifts range from %v to %v, want 0 to .1", lo, hi)
	}
}

func TestFixPageBleeds(t *testing.T) {
	tests := []struct {
		binding fold.Direction
		cover   bool
		page    int
		ok      bool
		index   int
		offset  geom.Point
	}{
		{fold.Left, false, 1, true, 2, geom.Pt(5.5, 0)},
		{fold.Left, false, 2, true, 1, geom.Pt(-5.5, 0)},
		{fold.Left, false, 0, false, 0, geom.Point{}},
		{fold.Left, false, 3, false, 0, geom.Point{}},
		{fold.Left, true, 0, true, 3, geom.Pt(-5.5, 0)},
		{fold.Left, true, 3, true, 0, geom.Pt(5.5, 0)},
		{fold.Right, false, 1, true, 2, geom.Pt(-5.5, 0)},
		{fold.Top, false, 1, true, 2, geom.Pt(0, -8.5)},
		{fold.Bottom, false, 1, true, 2, geom.Pt(0, 8.5)},
	}
	for _, tt := range tests {
		s := folio()
		s.Binding = tt.binding
		d := mustImposition(t, s)
		d.ShowWholeCover = tt.cover
		d.NumPages(4)
		b, ok := d.FixPageBleeds(tt.page)
		if ok != tt.ok {
			t.Errorf("%v cover=%v page %d: ok = %v", tt.binding, tt.cover, tt.page, ok)
			continue
		}
		if !ok {
			continue
		}
		if b.Index != tt.index || b.Transform.Origin() != tt.offset {
			t.Errorf("%v page %d bleeds onto %d at %v, want %d at %v",
				tt.binding, tt.page, b.Index, b.Transform.Origin(), tt.index, tt.offset)
		}
	}
}

func TestBleedsMatchPageLayout(t *testing.T) {
	for _, binding := range []fold.Direction{fold.Left, fold.Right, fold.Top, fold.Bottom} {
		s := folio()
		s.Binding = binding
		d := mustImposition(t, s)
		d.NumPages(8)
		for spread := 1; spread < d.NumSpreads(LayoutPage)-1; spread++ {
			sp, err := d.PageLayout(spread)
			if err != nil {
				t.Fatal(err)
			}
			a, b := sp.Pages[0], sp.Pages[1]
			bleed, ok := d.FixPageBleeds(a.Index)
			if !ok || bleed.Index != b.Index {
				t.Fatalf("%v page %d bleeds onto %d (%v), want %d", binding, a.Index, bleed.Index, ok, b.Index)
			}
			// the bleed transform agrees with where the spread puts the pages
			want := b.Transform.Origin().Sub(a.Transform.Origin())
			if got := bleed.Transform.Origin(); got != want {
				t.Errorf("%v page %d bleed offset %v, want %v", binding, a.Index, got, want)
			}
		}
	}
}

func TestImpositionCreatePages(t *testing.T) {
	d := mustImposition(t, folio())
	d.NumPages(4)
	pages := d.CreatePages(PageStyle{MarginLeft: 1, MarginRight: .5})
	if len(pages) != 4 {
		t.Fatalf("got %d pages", len(pages))
	}
	if st := pages[0].Style; st.Type != PageRight || st.Width != 5.5 || st.Height != 8.5 || st.MarginLeft != 1 {
		t.Errorf("page 0 style = %+v", st)
	}
	if st := pages[1].Style; st.Type != PageLeft || st.MarginLeft != .5 || st.MarginRight != 1 {
		t.Errorf("page 1 style = %+v", st)
	}
	if len(pages[1].Bleeds) != 1 || pages[1].Bleeds[0].Index != 2 {
		t.Errorf("page 1 bleeds = %+v", pages[1].Bleeds)
	}
	if len(pages[0].Bleeds) != 0 {
		t.Errorf("front cover bleeds = %+v", pages[0].Bleeds)
	}
}

// =============================================================================
// NetDisposition
// =============================================================================

func mustNet(t *testing.T) *NetDisposition {
	t.Helper()
	d, err := NewNetDisposition(net.Box(4, 2, 3), geom.R(0, 0, 8.5, 11), .5)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestNetCounts(t *testing.T) {
	d := mustNet(t)
	if got := d.NumPages(7); got != 12 || d.NumPapers() != 2 {
		t.Errorf("NumPages(7) = %d with %d papers, want 12 and 2", got, d.NumPapers())
	}
	if d.PaperFromPage(6) != 1 || d.PaperFromPage(12) != -1 {
		t.Error("PaperFromPage disagrees with six faces per paper")
	}
	if d.GetPagesNeeded(2) != 12 || d.GetPapersNeeded(13) != 3 {
		t.Error("page and paper counts disagree with six faces per paper")
	}
	s, err := d.PageLayout(1)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{6, NoPage, NoPage, NoPage, NoPage, NoPage}
	if got := pageIndexes(s); !slices.Equal(got, want) {
		t.Errorf("second paper pages = %v, want %v", got, want)
	}
}

func TestNetPagesCoverFaces(t *testing.T) {
	d := mustNet(t)
	d.NumPages(6)
	s, err := d.PaperLayout(0)
	if err != nil {
		t.Fatal(err)
	}
	fitted := d.Net()
	inner := geom.R(.5, .5, 8, 10.5)
	for fi, p := range s.Pages {
		got := p.Bounds()
		want := geom.BoundsOf(fitted.Polygon(fi)...)
		if !got.Min.Near(want.Min, 1e-6) || !got.Max.Near(want.Max, 1e-6) {
			t.Errorf("face %d page lands on %v, want %v", fi, got, want)
		}
		if got.Min.X < inner.Min.X-tol || got.Max.X > inner.Max.X+tol || got.Min.Y < inner.Min.Y-tol || got.Max.Y > inner.Max.Y+tol {
			t.Errorf("face %d at %v is outside the margins", fi, got)
		}
	}
	if len(s.Marks) != 1 || len(s.Marks[0].Path.Lines) != 5 {
		t.Errorf("want one fold mark per hinge, got %+v", s.Marks)
	}
	if b := s.Path.Bounds(); b != geom.R(0, 0, 8.5, 11) {
		t.Errorf("paper path bounds = %v", b)
	}
}

func TestNetPageVerticesLandOnPaper(t *testing.T) {
	for _, name := range []string{"box", "dodecahedron"} {
		t.Run(name, func(t *testing.T) {
			n, err := net.Builtin(name)
			if err != nil {
				t.Fatal(err)
			}
			d, err := NewNetDisposition(n, geom.R(0, 0, 8.5, 11), 0.5)
			if err != nil {
				t.Fatal(err)
			}
			d.NumPages(len(n.Faces))
			s, err := d.PageLayout(0)
			if err != nil {
				t.Fatal(err)
			}
			fitted := d.Net()
			for fi, p := range s.Pages {
				want := fitted.Polygon(fi)
				got := p.Outline.Transform(p.Transform).Lines[0].Points
				if len(got) != len(want) {
					t.Fatalf("face %d: %d vertices, want %d", fi, len(got), len(want))
				}
				for i := range want {
					if !got[i].Near(want[i], 1e-9) {
						t.Errorf("face %d vertex %d lands on %v, want %v", fi, i, got[i], want[i])
					}
				}
			}
		})
	}
}

func TestPlaceFace(t *testing.T) {
	square := []geom.Point{geom.Pt(0, 0), geom.Pt(1, 0), geom.Pt(1, 1), geom.Pt(0, 1)}
	want := geom.Rotate(math.Pi / 2).Then(geom.Translate(3, 2))
	placed := make([]geom.Point, len(square))
	for i, p := range square {
		placed[i] = want.Apply(p)
	}
	got, err := placeFace(square, placed)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Near(want, 1e-9) {
		t.Errorf("placeFace = %+v, want %+v", got, want)
	}

	trapezoid := []geom.Point{geom.Pt(0, 0), geom.Pt(2, 0), geom.Pt(1.5, 1), geom.Pt(0.5, 1)}
	if _, err := placeFace(square, trapezoid); err == nil {
		t.Error("a square cannot be placed on a trapezoid by an affine map")
	}
}

func TestNetCreatePages(t *testing.T) {
	d := mustNet(t)
	d.NumPages(6)
	pages := d.CreatePages(PageStyle{})
	scale := 7.5 / 14
	front := pages[0].Style
	if front.Type != PageFace || !near(front.Width, 4*scale) || !near(front.Height, 2*scale) {
		t.Errorf("front page style = %+v", front)
	}
	if len(pages[0].Bleeds) != 4 {
		t.Errorf("front bleeds onto %d faces, want 4", len(pages[0].Bleeds))
	}
	for _, b := range pages[0].Bleeds {
		got := d.GetPage(b.Index).Transform(b.Transform).Bounds()
		if got.Empty() {
			t.Errorf("bleed onto %d has no outline", b.Index)
		}
	}
}

func TestNetDisconnected(t *testing.T) {
	n := &net.Net{Points: []geom.Point{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
		{X: 3, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 1}, {X: 3, Y: 1},
	}}
	n.Faces = []net.Face{net.NewFace(0, 1, 2, 3), net.NewFace(4, 5, 6, 7)}
	if _, err := NewNetDisposition(n, geom.R(0, 0, 8.5, 11), 0); !errors.Is(err, errors.ErrCodeNetDisconnected) {
		t.Errorf("err = %v, want NET_DISCONNECTED", err)
	}
	if _, err := NewNetDisposition(net.Box(1, 1, 1), geom.R(0, 0, 2, 2), 1); !errors.Is(err, errors.ErrCodeInvalidGeometry) {
		t.Errorf("margin filling the paper: err = %v, want INVALID_GEOMETRY", err)
	}
}
