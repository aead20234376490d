// Package signature describes a folding pattern for printed sheets and the
// page geometry that falls out of it.
//
// # Overview
//
// A [Signature] is a sheet of paper (minus insets, possibly tiled several
// times) divided by fold lines into a grid of page cells, together with the
// ordered list of folds that reduces the sheet to a single stack. Trim and
// margin values shape each page inside its cell, and orientation tags record
// which edge is bound and which way is up.
//
// Layout code never reads a Signature directly. [Compile] validates it and
// runs [fold.Compile] to produce a [Compiled] value holding both, so the
// fold state can never fall out of step with the fold list:
//
//	sig := signature.New()
//	sig.SetFolds([]fold.Fold{{Direction: fold.Right, Index: 1}, {Direction: fold.Bottom, Index: 1}})
//	c, err := signature.Compile(sig)
//	if err != nil {
//	    return err
//	}
//	loc, err := c.LocatePaperFromPage(5)
//
// # File Formats
//
// Signatures are read from two formats, selected by [Load] on the file
// extension:
//
//   - TOML (".toml"), decoded with BurntSushi/toml into the struct tags of
//     [Signature], with folds as [[signature.folds]] tables.
//   - The line-oriented attribute format used by Laidout project files, one
//     "key value" pair per line and one "fold <index> [Under] <Direction>"
//     line per fold. See [Parse] and [Dump].
//
// Fold counts are always derived from the fold directions when reading
// either format.
package signature
