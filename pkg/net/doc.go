// Package net describes polyhedron nets: flat arrangements of polygon faces
// that fold up into a solid.
//
// A [Net] is a shared point list, a set of faces that index into it, and
// optional decoration lines. Faces record which neighbour lies across each
// edge ([Face.Links]); [Net.LinkFaces] can derive those from shared edges.
//
// Each face has a basis ([Net.Basis]) that places page coordinates onto the
// net, so a page imposed onto a face keeps its orientation relative to the
// face's first edge. [Net.FoldTree] walks the links from a root face and
// records the hinge each face folds up on. A net prints on one side and folds
// with that side out, so no face is mirrored.
//
// Two nets are built in: a box ([Box]) and a dodecahedron ([Dodecahedron]).
package net
