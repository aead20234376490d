package disposition

import (
	"slices"

	"github.com/laidout/impose/pkg/errors"
	"github.com/laidout/impose/pkg/geom"
	"github.com/laidout/impose/pkg/net"
	"github.com/laidout/impose/pkg/signature"
)

// Options configures a disposition built by [New]. Each kind reads only the
// fields it needs.
type Options struct {
	// Sheet is the paper for singles, double-sided and booklet. A zero
	// sheet means US letter.
	Sheet Sheet `json:"sheet" toml:"sheet" bson:"sheet"`
	// Vertical stacks facing pages top to bottom.
	Vertical bool `json:"vertical,omitempty" toml:"vertical" bson:"vertical,omitempty"`
	// Creep is the booklet or signature creep allowance.
	Creep float64 `json:"creep,omitempty" toml:"creep" bson:"creep,omitempty"`

	// Signature is the folding pattern for the signature kind.
	Signature *signature.Signature `json:"signature,omitempty" toml:"signature" bson:"signature,omitempty"`
	// ShowWholeCover joins the last page to the first in page spreads.
	ShowWholeCover bool `json:"show_whole_cover,omitempty" toml:"show_whole_cover" bson:"show_whole_cover,omitempty"`

	// Net is the polyhedron net for the net kind, fitted onto Sheet with
	// Margin to spare. NetName names a built-in net used when Net is nil.
	Net     *net.Net `json:"net,omitempty" toml:"-" bson:"net,omitempty"`
	NetName string   `json:"net_name,omitempty" toml:"net" bson:"net_name,omitempty"`
	Margin  float64  `json:"margin,omitempty" toml:"margin" bson:"margin,omitempty"`
}

type factory func(Options) (Disposition, error)

var registry = map[string]factory{
	"singles": func(o Options) (Disposition, error) {
		return NewSingles(o.sheet())
	},
	"double-sided": func(o Options) (Disposition, error) {
		return NewDoubleSidedSingles(o.sheet(), o.Vertical)
	},
	"booklet": func(o Options) (Disposition, error) {
		d, err := NewBooklet(o.sheet(), o.Vertical)
		if err != nil {
			return nil, err
		}
		d.Creep = o.Creep
		return d, nil
	},
	"signature": func(o Options) (Disposition, error) {
		if o.Signature == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "signature disposition needs a signature")
		}
		d, err := NewSignatureImposition(*o.Signature)
		if err != nil {
			return nil, err
		}
		d.Creep = o.Creep
		d.ShowWholeCover = o.ShowWholeCover
		return d, nil
	},
	"net": func(o Options) (Disposition, error) {
		n := o.Net
		if n == nil {
			if o.NetName == "" {
				return nil, errors.New(errors.ErrCodeInvalidInput, "net disposition needs a net")
			}
			var err error
			if n, err = net.Builtin(o.NetName); err != nil {
				return nil, err
			}
		}
		sheet := o.sheet()
		return NewNetDisposition(n, geom.R(0, 0, sheet.Width, sheet.Height), o.Margin)
	},
}

func (o Options) sheet() Sheet {
	if o.Sheet.Width == 0 && o.Sheet.Height == 0 {
		return Letter()
	}
	return o.Sheet
}

// New builds the disposition registered under kind.
func New(kind string, opts Options) (Disposition, error) {
	mk, ok := registry[kind]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown disposition %q (known: %v)", kind, Kinds())
	}
	return mk(opts)
}

// Kinds lists the registered disposition names in sorted order.
func Kinds() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}
