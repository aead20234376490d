// Package fold models folding a printed sheet along a grid of fold lines.
//
// # Overview
//
// A sheet with numh horizontal and numv vertical fold lines is divided into a
// grid of (numh+1) rows by (numv+1) columns of page cells. Row 0 is the bottom
// row and column 0 the left column. Each [Fold] folds one part of the sheet
// over (or under) the rest along a fold line, stacking cells on top of each
// other. After all folds the sheet should be reduced to a single stack, and
// the order of that stack decides which page of the finished signature every
// cell carries, on which side, and whether it is printed upside down.
//
// # Compiling
//
// [Compile] replays a fold list on a fresh [Grid] and returns an immutable
// [Plan]:
//
//	plan, err := fold.Compile([]fold.Fold{{Direction: fold.Bottom, Index: 1}}, 1, 0)
//	if err != nil {
//	    return err // a fold did not fit the grid
//	}
//	if err := plan.Err(); err != nil {
//	    return err // axis mismatch or not fully folded
//	}
//	front := plan.Cell(0, 0).FinalFront
//
// A Plan is never modified after Compile returns and may be shared between
// goroutines. Use [Plan.AtLevel] to look at intermediate states, for example
// to animate the folds one at a time.
package fold
