package signature

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/laidout/impose/pkg/errors"
	"github.com/laidout/impose/pkg/fold"
)

// Parse reads a signature in the attribute format:
//
//	name Octavo
//	sheetspersignature 1
//	paper 8.5 11
//	binding left
//	fold 2 Left
//	fold 1 Under Left
//	fold 1 Top
//
// Keys are case-insensitive, "#" starts a comment, and unknown keys are
// ignored. Declared numhfolds/numvfolds are ignored; the counts are derived
// from the fold lines.
//
// The nested layout written by Laidout is read too. Lines indented under a
// key belong to it:
//
//	signature
//	  sheetspersignature 2
//	  pattern
//	    fold 1 Right
//	    binding left
//	  partition
//	    paper
//	      width 8.5
//	      height 11
//	    insetleft .25
//
// Only the first signature block is read; inserts are skipped.
func Parse(r io.Reader) (Signature, error) {
	root, err := readAttributes(r)
	if err != nil {
		return Signature{}, err
	}
	p := attrParser{sig: New()}
	if err := p.block(root.children); err != nil {
		return Signature{}, err
	}
	p.sig.SetFolds(p.folds)
	return p.sig, nil
}

// attribute is one key line and the lines indented under it.
type attribute struct {
	key      string
	args     []string
	rest     string
	line     int
	children []*attribute
}

// readAttributes builds the indentation tree of r.
func readAttributes(r io.Reader) (*attribute, error) {
	root := &attribute{}
	type level struct {
		indent int
		att    *attribute
	}
	stack := []level{{indent: -1, att: root}}

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		att := &attribute{
			key:  strings.ToLower(fields[0]),
			args: fields[1:],
			rest: strings.Trim(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0])), `"`),
			line: lineNo,
		}
		for stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1].att
		parent.children = append(parent.children, att)
		stack = append(stack, level{indent: indent, att: att})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read signature")
	}
	return root, nil
}

type attrParser struct {
	sig       Signature
	folds     []fold.Fold
	signature bool
}

func (p *attrParser) block(atts []*attribute) error {
	for _, att := range atts {
		if err := p.attribute(att); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "line %d: %s", att.line, att.key)
		}
	}
	return nil
}

func (p *attrParser) attribute(att *attribute) error {
	s := &p.sig
	args := att.args
	var err error
	switch att.key {
	case "signature":
		if p.signature {
			return nil
		}
		p.signature = true
		return p.block(att.children)
	case "pattern", "partition":
		return p.block(att.children)
	case "insert":
		// a separate signature folded into this one
	case "name":
		s.Name = att.rest
	case "description":
		s.Description = att.rest
	case "fold":
		var f fold.Fold
		f, err = parseFold(args)
		p.folds = append(p.folds, f)
	case "paper":
		if len(args) == 0 && len(att.children) > 0 {
			s.PaperWidth, s.PaperHeight, err = parsePaperBlock(att.children)
			break
		}
		if len(args) != 2 {
			err = fmt.Errorf("paper needs a width and a height")
			break
		}
		if s.PaperWidth, err = parseFloat(args[0]); err == nil {
			s.PaperHeight, err = parseFloat(args[1])
		}
	case "sheetspersignature":
		s.SheetsPerSignature, err = parseInt(args)
	case "tilex":
		s.TileX, err = parseInt(args)
	case "tiley":
		s.TileY, err = parseInt(args)
	case "autoaddsheets":
		s.AutoAddSheets, err = parseBool(args)
	case "automarks":
		s.AutoMarks, err = parseMarks(args)
	case "binding", "up", "positivex", "positivey":
		err = setDirection(s, att.key, args)
	case "numhfolds", "numvfolds":
		// derived from the fold lines
	default:
		if ptr := s.floatField(att.key); ptr != nil {
			*ptr, err = parseFloatArg(args)
		}
	}
	return err
}

// parsePaperBlock reads a nested paper given in portrait: width, height,
// units of in, cm, mm or pt, and a landscape flag that swaps the sides.
func parsePaperBlock(atts []*attribute) (w, h float64, err error) {
	landscape := false
	scale := 1.0
	for _, att := range atts {
		switch att.key {
		case "width":
			w, err = parseFloatArg(att.args)
		case "height":
			h, err = parseFloatArg(att.args)
		case "landscape":
			landscape = true
		case "portrait":
			landscape = false
		case "units":
			if len(att.args) != 1 {
				err = fmt.Errorf("units needs one value")
				break
			}
			switch strings.ToLower(att.args[0]) {
			case "in", "inches", "px":
				scale = 1
			case "cm":
				scale = 1 / 2.54
			case "mm":
				scale = 1 / 25.4
			case "pt":
				scale = 1.0 / 72
			default:
				err = fmt.Errorf("unknown units %q", att.args[0])
			}
		}
		if err != nil {
			return 0, 0, fmt.Errorf("line %d: %s: %w", att.line, att.key, err)
		}
	}
	w, h = w*scale, h*scale
	if landscape {
		w, h = h, w
	}
	return w, h, nil
}

// Dump writes s in the attribute format read by Parse.
func Dump(w io.Writer, s Signature) error {
	bw := bufio.NewWriter(w)
	if s.Name != "" {
		fmt.Fprintf(bw, "name %s\n", s.Name)
	}
	if s.Description != "" {
		fmt.Fprintf(bw, "description %s\n", s.Description)
	}
	fmt.Fprintf(bw, "paper %s %s\n", formatFloat(s.PaperWidth), formatFloat(s.PaperHeight))
	fmt.Fprintf(bw, "sheetspersignature %d\n", s.SheetsPerSignature)
	if s.AutoAddSheets {
		fmt.Fprintln(bw, "autoaddsheets yes")
	}
	fmt.Fprintf(bw, "tilex %d\ntiley %d\n", s.TileX, s.TileY)
	for _, key := range floatKeys {
		if v := *s.floatField(key); v != 0 {
			fmt.Fprintf(bw, "%s %s\n", key, formatFloat(v))
		}
	}
	fmt.Fprintf(bw, "binding %s\nup %s\npositivex %s\npositivey %s\n",
		strings.ToLower(s.Binding.String()), strings.ToLower(s.Up.String()),
		strings.ToLower(s.PositiveX.String()), strings.ToLower(s.PositiveY.String()))
	if s.AutoMarks != 0 {
		fmt.Fprintf(bw, "automarks %s\n", formatMarks(s.AutoMarks))
	}
	fmt.Fprintf(bw, "numhfolds %d\nnumvfolds %d\n", s.NumHFolds, s.NumVFolds)
	for _, f := range s.Folds {
		fmt.Fprintf(bw, "fold %s\n", f)
	}
	return bw.Flush()
}

var floatKeys = []string{
	"insetleft", "insetright", "insettop", "insetbottom",
	"tilegapx", "tilegapy",
	"trimleft", "trimright", "trimtop", "trimbottom",
	"marginleft", "marginright", "margintop", "marginbottom",
}

func (s *Signature) floatField(key string) *float64 {
	switch key {
	case "insetleft":
		return &s.InsetLeft
	case "insetright":
		return &s.InsetRight
	case "insettop":
		return &s.InsetTop
	case "insetbottom":
		return &s.InsetBottom
	case "tilegapx":
		return &s.TileGapX
	case "tilegapy":
		return &s.TileGapY
	case "trimleft":
		return &s.TrimLeft
	case "trimright":
		return &s.TrimRight
	case "trimtop":
		return &s.TrimTop
	case "trimbottom":
		return &s.TrimBottom
	case "marginleft":
		return &s.MarginLeft
	case "marginright":
		return &s.MarginRight
	case "margintop":
		return &s.MarginTop
	case "marginbottom":
		return &s.MarginBottom
	}
	return nil
}

// parseFold reads "<index> [Under] <Direction>".
func parseFold(args []string) (fold.Fold, error) {
	if len(args) < 2 || len(args) > 3 {
		return fold.Fold{}, fmt.Errorf("expected <index> [Under] <direction>, got %q", strings.Join(args, " "))
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return fold.Fold{}, fmt.Errorf("bad fold index %q", args[0])
	}
	f := fold.Fold{Index: idx}
	if len(args) == 3 {
		if !strings.EqualFold(args[1], "under") {
			return fold.Fold{}, fmt.Errorf("unexpected %q", args[1])
		}
		f.Under = true
	}
	f.Direction, err = fold.ParseDirection(args[len(args)-1])
	return f, err
}

func setDirection(s *Signature, key string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("expected one of left, right, top, bottom")
	}
	d, err := fold.ParseDirection(args[0])
	if err != nil {
		return err
	}
	switch key {
	case "binding":
		s.Binding = d
	case "up":
		s.Up = d
	case "positivex":
		s.PositiveX = d
	case "positivey":
		s.PositiveY = d
	}
	return nil
}

func parseMarks(args []string) (Marks, error) {
	var m Marks
	for _, a := range args {
		switch strings.ToLower(a) {
		case "margins", "outer":
			m |= MarksMargins
		case "innerdot", "inner":
			m |= MarksInnerDot
		default:
			n, err := strconv.Atoi(a)
			if err != nil {
				return 0, fmt.Errorf("unknown mark %q", a)
			}
			m |= Marks(n)
		}
	}
	return m, nil
}

func formatMarks(m Marks) string {
	var parts []string
	if m&MarksMargins != 0 {
		parts = append(parts, "margins")
	}
	if m&MarksInnerDot != 0 {
		parts = append(parts, "innerdot")
	}
	return strings.Join(parts, " ")
}

func parseInt(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected one integer")
	}
	return strconv.Atoi(args[0])
}

func parseFloatArg(args []string) (float64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected one number")
	}
	return parseFloat(args[0])
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// parseBool treats a bare key as true, as Laidout does.
func parseBool(args []string) (bool, error) {
	if len(args) == 0 {
		return true, nil
	}
	switch strings.ToLower(args[0]) {
	case "yes", "true", "1", "on":
		return true, nil
	case "no", "false", "0", "off":
		return false, nil
	}
	return false, fmt.Errorf("expected yes or no, got %q", args[0])
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
