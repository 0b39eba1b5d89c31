package render

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/maskgen/pkg/geom"
	"github.com/matzehuels/maskgen/pkg/layout"
)

// canvas maps layout coordinates (µm, y up) to image pixels (y down).
type canvas struct {
	bbox   geom.Rect
	scale  float64
	margin float64
	width  float64
	height float64
}

func newCanvas(c *layout.Component, o options) canvas {
	bb := c.BBox()
	if bb.Empty() {
		bb = geom.R(0, 0, 1, 1)
	}
	scale := o.scale
	if o.maxPixels > 0 {
		if longest := math.Max(bb.Width(), bb.Height()) * scale; longest > float64(o.maxPixels) {
			scale = float64(o.maxPixels) / math.Max(bb.Width(), bb.Height())
		}
	}
	return canvas{
		bbox:   bb,
		scale:  scale,
		margin: o.margin,
		width:  math.Ceil(bb.Width()*scale + 2*o.margin),
		height: math.Ceil(bb.Height()*scale + 2*o.margin),
	}
}

func (cv canvas) point(p geom.Point) (float64, float64) {
	return (p.X-cv.bbox.Min.X)*cv.scale + cv.margin, (cv.bbox.Max.Y-p.Y)*cv.scale + cv.margin
}

// drawOrder puts resist below metal so the devices stay visible.
func drawOrder(c *layout.Component) []layout.Layer {
	var out []layout.Layer
	layers := c.Layers()
	for _, l := range layers {
		if l == layout.LayerResist {
			out = append(out, l)
		}
	}
	for _, l := range layers {
		if l != layout.LayerResist {
			out = append(out, l)
		}
	}
	return out
}

// RenderSVG draws the flattened component as SVG, one group per layer.
func RenderSVG(c *layout.Component, opts ...Option) []byte {
	o := newOptions(opts)
	cv := newCanvas(c, o)
	w, h := int(cv.width), int(cv.height)

	var buf bytes.Buffer
	doc := svg.New(&buf)
	doc.Start(w, h, fmt.Sprintf(`viewBox="0 0 %d %d"`, w, h))
	doc.Title(c.Name)
	if o.background != "" {
		doc.Rect(0, 0, w, h, `class="background"`, attr("fill", o.background))
	}

	for _, l := range drawOrder(c) {
		st := o.style(l)
		doc.Group(fmt.Sprintf(`id="layer-%d-%d"`, l.Number, l.Datatype), attr("fill", st.Color),
			fmt.Sprintf(`fill-opacity="%.2f"`, st.Opacity), `fill-rule="nonzero"`)
		for _, p := range c.Polygons(l) {
			if len(p) < 3 {
				continue
			}
			doc.Path(cv.pathData(p))
		}
		doc.Gend()
	}

	if o.labels {
		renderLabels(doc, c, cv)
	}
	doc.End()
	return buf.Bytes()
}

// pathData returns the SVG path commands of a closed polygon. Paths keep
// sub-pixel precision, which integer polygon coordinates would lose.
func (cv canvas) pathData(p geom.Polygon) string {
	var b strings.Builder
	for i, pt := range p {
		x, y := cv.point(pt)
		cmd := 'L'
		if i == 0 {
			cmd = 'M'
		}
		fmt.Fprintf(&b, "%c%.2f %.2f", cmd, x, y)
	}
	b.WriteByte('Z')
	return b.String()
}

func attr(name, value string) string {
	return name + `="` + html.EscapeString(value) + `"`
}

func renderLabels(doc *svg.SVG, c *layout.Component, cv canvas) {
	labels := c.AllLabels()
	if len(labels) == 0 {
		return
	}
	size := math.Max(8, 5*cv.scale)
	doc.Group(`class="labels"`, `font-family="monospace"`, fmt.Sprintf(`font-size="%.1f"`, size), `fill="#b00020"`)
	for _, l := range labels {
		x, y := cv.point(l.Position)
		doc.Text(int(math.Round(x)), int(math.Round(y)), l.Text)
	}
	doc.Gend()
}
