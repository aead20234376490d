// Package pkg provides the core libraries for impose, a page imposition
// engine.
//
// # Overview
//
// Imposition arranges the pages of a document on printed paper so that,
// once the paper is folded, trimmed and bound, the pages read in order.
// The pkg directory is organized into four areas:
//
//  1. Domain logic: [fold], [signature], [net], [disposition], [geom]
//  2. Orchestration: [pipeline] (layout, then render)
//  3. Output: [render] (SVG, PNG, PDF, JSON and Graphviz face graphs)
//  4. Infrastructure: [cache], [store], [errors], [observability]
//
// # Architecture
//
// The typical data flow:
//
//	Signature (TOML / attribute file / builtin)
//	         ↓
//	    [fold] package (fold grid, final page positions)
//	         ↓
//	    [disposition] package (singles, booklet, signature, net)
//	         ↓
//	    [pipeline] package (spreads for a layout, cached)
//	         ↓
//	    SVG/PNG/PDF/JSON output
//
// # Quick Start
//
// Impose a 32 page document on folded octavo signatures:
//
//	sig, _ := signature.Builtin("octavo")
//	d, _ := disposition.New("signature", disposition.Options{Signature: &sig})
//	d.NumPages(32)
//
//	spreads, _ := disposition.AllSpreads(d, disposition.LayoutPaper)
//	for _, s := range spreads {
//	    fmt.Println(s.PageRanges())
//	}
//
// Or run the whole pipeline with caching and rendering:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, _ := runner.Execute(ctx, pipeline.Options{
//	    Kind:    "signature",
//	    Options: disposition.Options{Signature: &sig},
//	    Pages:   32,
//	    Formats: []string{"svg"},
//	})
//
// # Main Packages
//
// [fold] - Fold operations on a grid of page cells, the fold validity
// rules and the plan that records where every cell ends up.
//
// [signature] - Paper, margins, trim, binding and folds for one folded
// sheet. Loads TOML and the indented attribute format, ships builtins.
//
// [net] - Polyhedron nets: faces, adjacency and the spanning tree used to
// unfold them flat.
//
// [disposition] - The Disposition interface and its implementations.
// Each maps document pages to papers and produces single, page and paper
// spreads with marks.
//
// [pipeline] - Layout and render stages shared by the CLI and the server.
//
// [render] - Drawing spreads. PDF and PNG go through rsvg-convert when
// available.
//
// [store] - Named imposition presets in memory, on disk or in MongoDB.
//
// [cache] - File, Redis and null caches with hashed keys.
package pkg
