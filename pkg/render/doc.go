// Package render draws imposition spreads.
//
// # Overview
//
// A [Document] is the list of spreads one layout produces for one
// disposition. The renderers in this package turn it into:
//
//   - SVG, written directly ([SVG])
//   - PNG, rasterized in pure Go ([PNG])
//   - JSON, the spreads as data ([JSON])
//   - PDF, converted from the SVG with rsvg-convert ([ToPDF])
//
// Spread coordinates have y pointing up, as in the layout engine. Renderers
// flip them for image output and stack spreads top to bottom.
//
//	doc := render.Document{Name: "booklet", Layout: disposition.LayoutPaper, Spreads: spreads}
//	svg := render.SVG(doc, render.WithLabels())
//	pdf, err := render.ToPDF(ctx, svg)
//
// # Nets
//
// [NetDOT] describes the face adjacency of a polyhedron net in Graphviz DOT,
// with the fold tree's hinges drawn solid, and [RenderDOT] lays it out as SVG.
package render
