package pipeline

import (
	"github.com/laidout/impose/pkg/disposition"
	"github.com/laidout/impose/pkg/errors"
	"github.com/laidout/impose/pkg/render"
)

// =============================================================================
// Layout Generation
// =============================================================================

// BuildDisposition creates the disposition named by opts and sizes it for
// opts.Pages document pages.
func BuildDisposition(opts Options) (disposition.Disposition, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	d, err := disposition.New(opts.Kind, opts.Options)
	if err != nil {
		return nil, err
	}
	d.NumPages(opts.Pages)
	return d, nil
}

// GenerateLayout collects every spread of the requested layout.
func GenerateLayout(opts Options) (render.Document, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return render.Document{}, err
	}
	d, err := BuildDisposition(opts)
	if err != nil {
		return render.Document{}, err
	}
	spreads, err := disposition.AllSpreads(d, opts.layout)
	if err != nil {
		return render.Document{}, err
	}

	name := opts.Title
	if name == "" {
		name = d.Name()
	}
	return render.Document{
		Name:    name,
		Layout:  opts.layout,
		Pages:   opts.Pages,
		Papers:  d.NumPapers(),
		Spreads: spreads,
	}, nil
}

// netOf returns the net disposition named by opts.
func netOf(opts Options) (*disposition.NetDisposition, error) {
	d, err := BuildDisposition(opts)
	if err != nil {
		return nil, err
	}
	nd, ok := d.(*disposition.NetDisposition)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnsupported, "%s disposition has no net", d.Name())
	}
	return nd, nil
}
