package disposition

import (
	"fmt"
	"slices"
	"strings"

	"github.com/laidout/impose/pkg/errors"
	"github.com/laidout/impose/pkg/geom"
)

// NoPage marks a page slot that holds no document page.
const NoPage = -1

// Layout selects one of the three spread views of a disposition.
type Layout int

const (
	// LayoutSingle shows one page at a time.
	LayoutSingle Layout = iota
	// LayoutPage shows reading spreads, usually two facing pages.
	LayoutPage
	// LayoutPaper shows one side of one printed sheet.
	LayoutPaper
)

// Layouts lists every layout in display order.
var Layouts = []Layout{LayoutSingle, LayoutPage, LayoutPaper}

func (l Layout) String() string {
	switch l {
	case LayoutSingle:
		return "single"
	case LayoutPage:
		return "page"
	case LayoutPaper:
		return "paper"
	}
	return fmt.Sprintf("Layout(%d)", int(l))
}

// ParseLayout accepts "single", "page" or "paper", optionally plural.
func ParseLayout(s string) (Layout, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s") {
	case "single":
		return LayoutSingle, nil
	case "page", "spread":
		return LayoutPage, nil
	case "paper":
		return LayoutPaper, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown layout %q (want single, page or paper)", s)
}

func (l Layout) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *Layout) UnmarshalText(b []byte) error {
	v, err := ParseLayout(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// MarkKind says how a printer mark is drawn.
type MarkKind int

const (
	// MarkCut is a solid cut line.
	MarkCut MarkKind = iota
	// MarkFold is a dashed fold line.
	MarkFold
	// MarkDot is a registration dot.
	MarkDot
)

func (k MarkKind) String() string {
	switch k {
	case MarkCut:
		return "cut"
	case MarkFold:
		return "fold"
	case MarkDot:
		return "dot"
	}
	return fmt.Sprintf("MarkKind(%d)", int(k))
}

func (k MarkKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *MarkKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "cut":
		*k = MarkCut
	case "fold":
		*k = MarkFold
	case "dot":
		*k = MarkDot
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown mark kind %q", b)
	}
	return nil
}

// Mark is a group of printer mark lines in spread coordinates.
type Mark struct {
	Kind MarkKind  `json:"kind" bson:"kind"`
	Path geom.Path `json:"path" bson:"path"`
}

// PageLocation places one page slot on a spread.
type PageLocation struct {
	// Index is the document page index, or NoPage for a blank slot.
	Index int `json:"index" bson:"index"`
	// Transform maps page coordinates to spread coordinates.
	Transform geom.Affine `json:"transform" bson:"transform"`
	// Outline is the page boundary in page coordinates.
	Outline geom.Path `json:"outline" bson:"outline"`
}

// Bounds returns the page outline's bounding box in spread coordinates.
func (p PageLocation) Bounds() geom.Rect {
	return p.Outline.Transform(p.Transform).Bounds()
}

// Spread is one view produced by a layout.
type Spread struct {
	Kind  Layout         `json:"kind" bson:"kind"`
	Index int            `json:"index" bson:"index"`
	Path  geom.Path      `json:"path" bson:"path"`
	Pages []PageLocation `json:"pages" bson:"pages"`
	Marks []Mark         `json:"marks,omitempty" bson:"marks,omitempty"`
	// Minimum and Maximum are the points a viewer steps between when
	// moving to the previous or next spread.
	Minimum geom.Point `json:"minimum" bson:"minimum"`
	Maximum geom.Point `json:"maximum" bson:"maximum"`
}

// Bounds returns the bounding box of the spread path, pages and marks.
func (s *Spread) Bounds() geom.Rect {
	b := s.Path.Bounds()
	for _, p := range s.Pages {
		b = b.Union(p.Bounds())
	}
	for _, m := range s.Marks {
		b = b.Union(m.Path.Bounds())
	}
	return b
}

// Range is an inclusive run of page indexes.
type Range struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func (r Range) String() string {
	if r.From == r.To {
		return fmt.Sprint(r.From)
	}
	return fmt.Sprintf("%d-%d", r.From, r.To)
}

// PageRanges returns the document pages on the spread as sorted runs of
// consecutive indexes. Blank slots and repeats from tiling are skipped.
func (s *Spread) PageRanges() []Range {
	var idx []int
	for _, p := range s.Pages {
		if p.Index >= 0 {
			idx = append(idx, p.Index)
		}
	}
	slices.Sort(idx)
	idx = slices.Compact(idx)

	var out []Range
	for _, i := range idx {
		if n := len(out); n > 0 && out[n-1].To == i-1 {
			out[n-1].To = i
			continue
		}
		out = append(out, Range{From: i, To: i})
	}
	return out
}

// PageType says where a page sits in a reading spread.
type PageType int

const (
	PageSingle PageType = iota
	PageLeft
	PageRight
	PageTop
	PageBottom
	PageFace
)

func (t PageType) String() string {
	switch t {
	case PageSingle:
		return "single"
	case PageLeft:
		return "left"
	case PageRight:
		return "right"
	case PageTop:
		return "top"
	case PageBottom:
		return "bottom"
	case PageFace:
		return "face"
	}
	return fmt.Sprintf("PageType(%d)", int(t))
}

func (t PageType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// PageStyle is the size and margins shared by a class of pages.
type PageStyle struct {
	Type  PageType `json:"type"`
	Class int      `json:"class,omitempty"`

	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	MarginLeft   float64 `json:"margin_left,omitempty"`
	MarginRight  float64 `json:"margin_right,omitempty"`
	MarginTop    float64 `json:"margin_top,omitempty"`
	MarginBottom float64 `json:"margin_bottom,omitempty"`
}

// Outline returns the page rectangle in page coordinates.
func (s PageStyle) Outline() geom.Path {
	return geom.RectPath(geom.R(0, 0, s.Width, s.Height))
}

// MarginBox returns the area inside the margins.
func (s PageStyle) MarginBox() geom.Rect {
	return geom.R(s.MarginLeft, s.MarginBottom, s.Width-s.MarginRight, s.Height-s.MarginTop)
}

// mirrored swaps left and right margins, or top and bottom when vertical.
func (s PageStyle) mirrored(vertical bool) PageStyle {
	if vertical {
		s.MarginTop, s.MarginBottom = s.MarginBottom, s.MarginTop
	} else {
		s.MarginLeft, s.MarginRight = s.MarginRight, s.MarginLeft
	}
	return s
}

func (s PageStyle) hasMargins() bool {
	return s.MarginLeft != 0 || s.MarginRight != 0 || s.MarginTop != 0 || s.MarginBottom != 0
}

// Bleed says that page content may spill onto an adjacent page. Transform
// places the adjacent page in this page's coordinates.
type Bleed struct {
	Index     int         `json:"index"`
	Transform geom.Affine `json:"transform"`
}

// Page is a document page created by a disposition.
type Page struct {
	Index  int       `json:"index"`
	Style  PageStyle `json:"style"`
	Bleeds []Bleed   `json:"bleeds,omitempty"`
}

func checkIndex(what string, i, n int) error {
	if i < 0 || i >= n {
		return errors.New(errors.ErrCodeOutOfRange, "%s %d out of range [0,%d)", what, i, n)
	}
	return nil
}

func slotIndex(page, numDocPages int) int {
	if page < 0 || page >= numDocPages {
		return NoPage
	}
	return page
}

// pageOrNone returns page when it lies in [0,n), else -1.
func pageOrNone(page, n int) int {
	if page < 0 || page >= n {
		return -1
	}
	return page
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
