package fold

import (
	"fmt"
	"strings"

	"github.com/laidout/impose/pkg/errors"
)

// Direction is the direction a fold moves paper, or an edge of the sheet.
type Direction byte

const (
	Left   Direction = 'l'
	Right  Direction = 'r'
	Top    Direction = 't'
	Bottom Direction = 'b'
)

// ParseDirection accepts "l", "left", "Left" and the like.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "left":
		return Left, nil
	case "r", "right":
		return Right, nil
	case "t", "top":
		return Top, nil
	case "b", "bottom":
		return Bottom, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidFold, "unknown direction %q", s)
}

// Valid reports whether d is one of the four directions.
func (d Direction) Valid() bool {
	return d == Left || d == Right || d == Top || d == Bottom
}

// Horizontal reports whether d folds across a horizontal fold line.
func (d Direction) Horizontal() bool { return d == Top || d == Bottom }

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case Left:
		return Right
	case Right:
		return Left
	case Top:
		return Bottom
	case Bottom:
		return Top
	}
	return d
}

// String returns the capitalized direction name used in signature files.
func (d Direction) String() string {
	switch d {
	case Left:
		return "Left"
	case Right:
		return "Right"
	case Top:
		return "Top"
	case Bottom:
		return "Bottom"
	}
	return fmt.Sprintf("Direction(%q)", byte(d))
}

// MarshalText implements encoding.TextMarshaler using the one-letter form.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidFold, "invalid direction %d", byte(d))
	}
	return []byte{byte(d)}, nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Fold is a single fold of the sheet.
//
// Index counts fold lines from the left edge for Left/Right folds and from the
// bottom edge for Top/Bottom folds, starting at 1. A Right fold moves the
// cells left of the line over to the right; a Top fold moves the cells below
// the line up. Under folds tuck the moving part beneath the rest instead of
// laying it on top.
type Fold struct {
	Direction Direction `json:"direction" toml:"direction" bson:"direction"`
	Under     bool      `json:"under,omitempty" toml:"under" bson:"under,omitempty"`
	Index     int       `json:"index" toml:"index" bson:"index"`
}

// String renders f as "<index> [Under] <Direction>".
func (f Fold) String() string {
	if f.Under {
		return fmt.Sprintf("%d Under %s", f.Index, f.Direction)
	}
	return fmt.Sprintf("%d %s", f.Index, f.Direction)
}

// CountAxes returns how many folds cross horizontal and vertical fold lines.
func CountAxes(folds []Fold) (numh, numv int) {
	for _, f := range folds {
		if f.Direction.Horizontal() {
			numh++
		} else {
			numv++
		}
	}
	return numh, numv
}
