package layout

import (
	"github.com/matzehuels/maskgen/pkg/geom"
)

// Union flattens every layer of c and merges the result onto a single layer.
// The returned component has no references and keeps c's ports.
func Union(c *Component, layer Layer) *Component {
	out := New(c.Name)
	out.AddPolygons(layer, geom.Union(flatAll(c)))
	out.ports = c.Ports()
	return out
}

// Boolean applies op to the flattened geometry of a (all layers) and b (all
// layers) and places the result on layer.
func Boolean(a, b *Component, op geom.Op, layer Layer) *Component {
	out := New(a.Name + "_" + op.String())
	out.AddPolygons(layer, geom.Boolean(flatAll(a), flatAll(b), op))
	return out
}

func flatAll(c *Component) []geom.Polygon {
	if c == nil {
		return nil
	}
	var all []geom.Polygon
	for _, l := range c.Layers() {
		all = append(all, c.Polygons(l)...)
	}
	return all
}
