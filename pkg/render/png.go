package render

import (
	"bytes"
	"fmt"

	"github.com/gogpu/gg"

	"github.com/matzehuels/maskgen/pkg/layout"
)

// RenderPNG rasterizes the flattened component in-process. Labels are not
// drawn.
func RenderPNG(c *layout.Component, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	cv := newCanvas(c, o)

	dc := gg.NewContext(int(cv.width), int(cv.height))
	defer dc.Close()
	if o.background != "" {
		dc.ClearWithColor(gg.Hex(o.background))
	}
	dc.SetFillRule(gg.FillRuleNonZero)

	for _, l := range drawOrder(c) {
		st := o.style(l)
		col := gg.Hex(st.Color)
		dc.SetRGBA(col.R, col.G, col.B, st.Opacity)
		for _, p := range c.Polygons(l) {
			if len(p) < 3 {
				continue
			}
			for i, pt := range p {
				x, y := cv.point(pt)
				if i == 0 {
					dc.MoveTo(x, y)
				} else {
					dc.LineTo(x, y)
				}
			}
			dc.ClosePath()
		}
		if err := dc.Fill(); err != nil {
			return nil, fmt.Errorf("fill layer %s: %w", l, err)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
