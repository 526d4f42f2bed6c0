package pipeline

import (
	"context"

	"github.com/flexkit/flexer/pkg/flex"
	"github.com/flexkit/flexer/pkg/render"
)

// RenderFromLayout renders every requested format from an already laid-out
// tree, without touching the cache. Callers that want caching should go
// through [Runner.Render].
func RenderFromLayout(ctx context.Context, loaded *Loaded, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	names := invertIDs(loaded.IDs)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, loaded.Engine, names, format, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, e *flex.Engine, names map[flex.ElementID]string, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return render.RenderJSON(e, render.WithJSONNames(names))

	case FormatSVG:
		svgOpts := []render.SVGOption{
			render.WithSVGNames(names),
			render.WithSVGScale(opts.Scale),
		}
		if opts.Labels {
			svgOpts = append(svgOpts, render.WithSVGLabels())
		}
		return render.RenderSVG(e, svgOpts...), nil

	case FormatDOT:
		dot := render.ToDOT(e, render.DOTOptions{Detailed: opts.Detailed, Names: names})
		return []byte(dot), nil

	case FormatPNG:
		dot := render.ToDOT(e, render.DOTOptions{Detailed: opts.Detailed, Names: names})
		return render.RenderDOTPNG(ctx, dot)

	default:
		return nil, ValidateFormat(format)
	}
}

func invertIDs(ids map[string]flex.ElementID) map[flex.ElementID]string {
	names := make(map[flex.ElementID]string, len(ids))
	for name, id := range ids {
		names[id] = name
	}
	return names
}
