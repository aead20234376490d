package disposition

import (
	"fmt"

	"github.com/laidout/impose/pkg/errors"
	"github.com/laidout/impose/pkg/geom"
	"github.com/laidout/impose/pkg/net"
)

// NetDisposition prints one page on each face of a polyhedron net, with the
// whole net fitted onto every paper. Pages run through the faces in order,
// so paper p holds pages p*nf to p*nf+nf-1 for a net of nf faces.
type NetDisposition struct {
	Paper  geom.Rect
	Margin float64

	net   *net.Net
	tree  *net.Tree
	faces []netFace

	numPapers   int
	numDocPages int
}

// netFace caches one face's placement. Page coordinates put the lower left
// corner of the face's own bounding box at the origin.
type netFace struct {
	toNet   geom.Affine
	outline geom.Path
	size    geom.Rect
}

// NewNetDisposition fits a copy of n onto paper, leaving margin on every
// side. The net must be valid and connected.
func NewNetDisposition(n *net.Net, paper geom.Rect, margin float64) (*NetDisposition, error) {
	if paper.Empty() || paper.Width() <= 0 || paper.Height() <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidGeometry, "paper %gx%g is not positive", paper.Width(), paper.Height())
	}
	if margin < 0 || 2*margin >= min(paper.Width(), paper.Height()) {
		return nil, errors.New(errors.ErrCodeInvalidGeometry, "margin %g does not fit the paper", margin)
	}
	n = n.Clone()
	if err := n.Validate(); err != nil {
		return nil, err
	}
	tree, err := n.FoldTree(0)
	if err != nil {
		return nil, err
	}
	n.Transform(n.FitTo(paper, margin))

	d := &NetDisposition{Paper: paper, Margin: margin, net: n, tree: tree, numPapers: 1}
	for fi := range n.Faces {
		outline, err := n.FaceOutline(fi)
		if err != nil {
			return nil, err
		}
		b := outline.Bounds()
		outline = outline.Transform(geom.Translate(-b.Min.X, -b.Min.Y))
		toNet, err := placeFace(outline.Lines[0].Points, n.Polygon(fi))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidNet, err, "face %d", fi)
		}
		d.faces = append(d.faces, netFace{
			toNet:   toNet,
			outline: outline,
			size:    geom.R(0, 0, b.Width(), b.Height()),
		})
	}
	return d, nil
}

// placeFace fits the transform taking a face's page-space vertices onto the
// same vertices on the paper. Every vertex must land within placeTolerance
// of its paper position.
func placeFace(page, paper []geom.Point) (geom.Affine, error) {
	m, err := geom.FitAffine(page, paper)
	if err != nil {
		return geom.Affine{}, err
	}
	for i, p := range page {
		if d := m.Apply(p).Dist(paper[i]); d > placeTolerance {
			return geom.Affine{}, fmt.Errorf("vertex %d is %g off its paper position", i, d)
		}
	}
	return m, nil
}

const placeTolerance = 1e-6

// Net returns the fitted net in paper coordinates.
func (d *NetDisposition) Net() *net.Net { return d.net.Clone() }

// Tree returns the fold tree rooted at face 0.
func (d *NetDisposition) Tree() *net.Tree { return d.tree }

func (d *NetDisposition) Name() string { return "net" }

func (d *NetDisposition) numFaces() int   { return len(d.faces) }
func (d *NetDisposition) totalPages() int { return d.numPapers * d.numFaces() }

func (d *NetDisposition) NumPages(n int) int {
	d.numDocPages = max(n, 0)
	d.numPapers = max(1, ceilDiv(n, d.numFaces()))
	return d.totalPages()
}

func (d *NetDisposition) NumPapers() int { return d.numPapers }

func (d *NetDisposition) GetPagesNeeded(papers int) int { return max(papers, 0) * d.numFaces() }

func (d *NetDisposition) GetPapersNeeded(pages int) int { return ceilDiv(pages, d.numFaces()) }

func (d *NetDisposition) PaperFromPage(page int) int {
	if page < 0 || page >= d.totalPages() {
		return -1
	}
	return page / d.numFaces()
}

func (d *NetDisposition) NumSpreads(layout Layout) int {
	if layout == LayoutSingle {
		return d.numDocPages
	}
	return d.numPapers
}

func (d *NetDisposition) SpreadFromPage(layout Layout, page int) int {
	if layout == LayoutSingle {
		return page
	}
	return d.PaperFromPage(page)
}

// GetDefaultPageSize is the paper, since face sizes vary.
func (d *NetDisposition) GetDefaultPageSize() geom.Rect { return d.Paper }

// GetPage returns the outline of the face holding page index.
func (d *NetDisposition) GetPage(index int) geom.Path {
	if index < 0 || d.numFaces() == 0 {
		return geom.Path{}
	}
	return d.faces[index%d.numFaces()].outline
}

// CreatePages makes one page per face slot, sized to the face and tagged
// with the face class. Each page bleeds onto the faces linked to it.
func (d *NetDisposition) CreatePages(style PageStyle) []Page {
	pages := make([]Page, d.totalPages())
	for i := range pages {
		fi := i % d.numFaces()
		f := d.faces[fi]
		st := style
		st.Type = PageFace
		st.Class = d.net.Faces[fi].Class
		st.Width, st.Height = f.size.Width(), f.size.Height()
		pages[i] = Page{Index: i, Style: st, Bleeds: d.faceBleeds(i - fi, fi)}
	}
	return pages
}

// faceBleeds lists the pages on faces linked to face fi, for the paper
// whose first page is base.
func (d *NetDisposition) faceBleeds(base, fi int) []Bleed {
	inv, err := d.faces[fi].toNet.Invert()
	if err != nil {
		return nil
	}
	var out []Bleed
	for _, to := range d.net.Faces[fi].Links {
		if to < 0 {
			continue
		}
		out = append(out, Bleed{Index: base + to, Transform: d.faces[to].toNet.Then(inv)})
	}
	return out
}

func (d *NetDisposition) SingleLayout(index int) (*Spread, error) {
	if err := checkIndex("page", index, d.numDocPages); err != nil {
		return nil, err
	}
	f := d.faces[index%d.numFaces()]
	w, h := f.size.Width(), f.size.Height()
	s := singleSpread(index, w, h)
	s.Path = f.outline
	s.Pages[0].Outline = f.outline
	return s, nil
}

// PageLayout shows the whole net of paper index with its pages in place.
func (d *NetDisposition) PageLayout(index int) (*Spread, error) {
	if err := checkIndex("spread", index, d.numPapers); err != nil {
		return nil, err
	}
	return d.netSpread(LayoutPage, index), nil
}

// PaperLayout is the page layout of the same paper plus the paper edge.
func (d *NetDisposition) PaperLayout(index int) (*Spread, error) {
	if err := checkIndex("paper", index, d.numPapers); err != nil {
		return nil, err
	}
	s := d.netSpread(LayoutPaper, index)
	s.Path.Append(d.Paper.Polyline())
	return s, nil
}

func (d *NetDisposition) netSpread(kind Layout, paper int) *Spread {
	nf := d.numFaces()
	s := &Spread{Kind: kind, Index: paper}
	for fi, f := range d.faces {
		s.Path.Append(geom.Polyline{Points: d.net.Polygon(fi), Closed: true})
		s.Pages = append(s.Pages, PageLocation{
			Index:     slotIndex(paper*nf+fi, d.numDocPages),
			Transform: f.toNet,
			Outline:   f.outline,
		})
	}

	var folds geom.Path
	for fi, f := range d.net.Faces {
		for e, to := range f.Links {
			// each shared edge once
			if to < fi {
				continue
			}
			a, b := f.Edge(e)
			folds.Append(geom.Line(d.net.Points[a], d.net.Points[b]))
		}
	}
	for _, l := range d.net.Lines {
		pl := geom.Polyline{Closed: l.Closed}
		for _, p := range l.Points {
			pl.Points = append(pl.Points, d.net.Points[p])
		}
		folds.Append(pl)
	}
	if len(folds.Lines) > 0 {
		s.Marks = []Mark{{Kind: MarkFold, Path: folds}}
	}

	b := d.net.BBox()
	s.Minimum = geom.Pt(b.Min.X+b.Width()/5, b.Center().Y)
	s.Maximum = geom.Pt(b.Min.X+b.Width()*4/5, b.Center().Y)
	return s
}
