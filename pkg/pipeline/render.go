package pipeline

import (
	"fmt"

	"github.com/matzehuels/maskgen/pkg/layout"
	"github.com/matzehuels/maskgen/pkg/render"
)

// Render draws the requested preview formats of c. GDS is not a preview and
// is skipped; see ExportGDS.
func Render(c *layout.Component, opts Options) (map[string][]byte, error) {
	ropts := renderOptions(opts)
	artifacts := make(map[string][]byte)

	var svg []byte
	svgOnce := func() []byte {
		if svg == nil {
			svg = render.RenderSVG(c, ropts...)
		}
		return svg
	}

	for _, format := range opts.previews() {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svgOnce()
		case FormatPNG:
			data, err = render.RenderPNG(c, ropts...)
		case FormatPDF:
			data, err = render.ToPDF(svgOnce())
		case FormatDOT:
			data = []byte(render.HierarchyDOT(c))
		default:
			return nil, fmt.Errorf("unsupported preview format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderOptions(opts Options) []render.Option {
	ropts := []render.Option{render.WithScale(opts.Scale)}
	if opts.NoLabels {
		ropts = append(ropts, render.WithoutLabels())
	}
	return ropts
}
