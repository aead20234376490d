package signature

import (
	"slices"

	"github.com/laidout/impose/pkg/errors"
	"github.com/laidout/impose/pkg/fold"
)

// builtins are the stock folding patterns, keyed by name.
var builtins = map[string]func() Signature{
	"single": func() Signature {
		s := New()
		s.Name = "single"
		s.Description = "One page per side, no folds"
		return s
	},
	"folio": func() Signature {
		s := landscape("folio", "One vertical fold, 4 pages per sheet")
		s.SetFolds([]fold.Fold{{Direction: fold.Right, Index: 1}})
		return s
	},
	"booklet": func() Signature {
		s := landscape("booklet", "Nested folio, 4 sheets per signature")
		s.SheetsPerSignature = 4
		s.AutoMarks = MarksMargins
		s.SetFolds([]fold.Fold{{Direction: fold.Right, Index: 1}})
		return s
	},
	"quarto": func() Signature {
		s := New()
		s.Name = "quarto"
		s.Description = "Two folds, 8 pages per sheet"
		s.PaperWidth, s.PaperHeight = 17, 22
		s.TrimTop, s.TrimBottom = .125, .125
		s.SetFolds([]fold.Fold{
			{Direction: fold.Right, Index: 1},
			{Direction: fold.Bottom, Index: 1},
		})
		return s
	},
	"octavo": func() Signature {
		s := landscape("octavo", "Three folds on a 3x2 grid, 12 pages per sheet")
		s.PaperWidth, s.PaperHeight = 34, 22
		s.TrimRight, s.TrimTop, s.TrimBottom = .125, .125, .125
		s.AutoMarks = MarksMargins | MarksInnerDot
		s.InsetLeft, s.InsetRight, s.InsetTop, s.InsetBottom = .5, .5, .5, .5
		s.SetFolds([]fold.Fold{
			{Direction: fold.Left, Index: 2},
			{Direction: fold.Left, Index: 1, Under: true},
			{Direction: fold.Top, Index: 1},
		})
		return s
	},
}

func landscape(name, desc string) Signature {
	s := New()
	s.Name = name
	s.Description = desc
	s.PaperWidth, s.PaperHeight = DefaultPaperHeight, DefaultPaperWidth
	return s
}

// Builtin returns a copy of the named stock signature.
func Builtin(name string) (Signature, error) {
	mk, ok := builtins[name]
	if !ok {
		return Signature{}, errors.New(errors.ErrCodeNotFound, "unknown signature %q (known: %v)", name, BuiltinNames())
	}
	return mk(), nil
}

// BuiltinNames lists the stock signature names in sorted order.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
