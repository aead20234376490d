package pipeline

import (
	"context"

	"github.com/laidout/impose/pkg/errors"
	"github.com/laidout/impose/pkg/render"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, doc render.Document, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	ropts := opts.RenderOptions()
	artifacts := make(map[string][]byte, len(opts.Formats))

	var svg []byte
	svgOnce := func() []byte {
		if svg == nil {
			svg = render.SVG(doc, ropts...)
		}
		return svg
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svgOnce()
		case FormatPNG:
			data, err = render.PNG(doc, ropts...)
		case FormatPDF:
			data, err = render.ToPDF(ctx, svgOnce())
		case FormatJSON:
			data, err = render.JSON(doc)
		case FormatDOT:
			data, err = renderDOT(opts)
		default:
			err = ValidateFormat(format)
		}

		if err != nil {
			return nil, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInternal), err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderDOT(opts Options) ([]byte, error) {
	nd, err := netOf(opts)
	if err != nil {
		return nil, err
	}
	return []byte(render.NetDOT(nd.Net(), nd.Tree())), nil
}
