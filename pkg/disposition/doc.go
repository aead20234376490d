// Package disposition lays document pages out onto spreads and paper.
//
// A [Disposition] answers three questions for a document of n pages: how
// many pages and papers the layout needs, where each page sits when shown
// alone or in a reading spread, and where each page is printed on each paper
// side. Five layouts are provided:
//
//   - [Singles]: one page per paper, with insets and optional tiling.
//   - [DoubleSidedSingles]: singles shown as facing pages.
//   - [Booklet]: sheets folded once down the middle and nested.
//   - [SignatureImposition]: any folding pattern from package signature.
//   - [NetDisposition]: pages mapped onto the faces of a polyhedron net.
//
// Layouts return a [Spread]: an outline path, one [PageLocation] per page
// slot (a transform from page coordinates to spread coordinates plus the
// page outline), optional printer marks, and two anchor points used when
// scrolling between spreads. Page slots that no document page fills carry
// [NoPage].
//
// [New] builds a disposition by name, which is how the CLI and the HTTP API
// select one.
package disposition
