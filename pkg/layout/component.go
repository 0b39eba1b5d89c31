package layout

import (
	"github.com/matzehuels/maskgen/pkg/errors"
	"github.com/matzehuels/maskgen/pkg/geom"
)

// Label is a GDSII text element. It does not print; use [Text] for
// lettering that should appear on the mask.
type Label struct {
	Text     string     `json:"text"`
	Position geom.Point `json:"position"`
	Layer    Layer      `json:"layer"`
}

// Component is a named cell of polygons, ports, labels and child references.
type Component struct {
	Name string

	polygons map[Layer][]geom.Polygon
	refs     []*Reference
	ports    []Port
	labels   []Label
}

// New returns an empty component.
func New(name string) *Component {
	return &Component{Name: name, polygons: make(map[Layer][]geom.Polygon)}
}

// AddPolygon adds a polygon on layer. Polygons with fewer than three points
// are ignored.
func (c *Component) AddPolygon(layer Layer, pts ...geom.Point) {
	if len(pts) < 3 {
		return
	}
	poly := make(geom.Polygon, len(pts))
	copy(poly, pts)
	c.polygons[layer] = append(c.polygons[layer], poly)
}

// AddPolygons adds several polygons on layer.
func (c *Component) AddPolygons(layer Layer, polys []geom.Polygon) {
	for _, p := range polys {
		c.AddPolygon(layer, p...)
	}
}

// AddRect adds an axis-aligned rectangle on layer.
func (c *Component) AddRect(layer Layer, r geom.Rect) {
	c.AddPolygon(layer, r.Polygon()...)
}

// AddPort registers a port. Port names are unique within a component.
func (c *Component) AddPort(p Port) error {
	for _, q := range c.ports {
		if q.Name == p.Name {
			return errors.New(errors.ErrCodeInvalidInput, "component %s already has port %q", c.Name, p.Name)
		}
	}
	p.Orientation = geom.NormalizeAngle(p.Orientation)
	c.ports = append(c.ports, p)
	return nil
}

// Port looks up a port by name.
func (c *Component) Port(name string) (Port, error) {
	for _, p := range c.ports {
		if p.Name == name {
			return p, nil
		}
	}
	return Port{}, errors.New(errors.ErrCodePortNotFound, "component %s has no port %q", c.Name, name)
}

// Ports returns the component's own ports in insertion order.
func (c *Component) Ports() []Port {
	return append([]Port(nil), c.ports...)
}

// Add places child in c with an identity transform.
func (c *Component) Add(child *Component) *Reference {
	r := &Reference{Cell: child, Transform: geom.Identity()}
	c.refs = append(c.refs, r)
	return r
}

// AddLabel adds a text label.
func (c *Component) AddLabel(text string, pos geom.Point, layer Layer) {
	c.labels = append(c.labels, Label{Text: text, Position: pos, Layer: layer})
}

// References returns the direct child references.
func (c *Component) References() []*Reference { return c.refs }

// Labels returns the component's own labels (not those of children).
func (c *Component) Labels() []Label { return c.labels }

// LocalPolygons returns the polygons stored directly on layer, without children.
func (c *Component) LocalPolygons(layer Layer) []geom.Polygon { return c.polygons[layer] }

// LocalLayers returns the layers that hold polygons directly on c.
func (c *Component) LocalLayers() []Layer {
	out := make([]Layer, 0, len(c.polygons))
	for l, polys := range c.polygons {
		if len(polys) > 0 {
			out = append(out, l)
		}
	}
	sortLayers(out)
	return out
}

// Polygons returns every polygon on layer with references resolved.
func (c *Component) Polygons(layer Layer) []geom.Polygon {
	var out []geom.Polygon
	c.walk(geom.Identity(), func(cell *Component, t geom.Transform) {
		for _, p := range cell.polygons[layer] {
			out = append(out, p.Transform(t))
		}
	})
	return out
}

// AllLabels returns every label with references resolved.
func (c *Component) AllLabels() []Label {
	var out []Label
	c.walk(geom.Identity(), func(cell *Component, t geom.Transform) {
		for _, l := range cell.labels {
			l.Position = t.Apply(l.Position)
			out = append(out, l)
		}
	})
	return out
}

// Layers returns every layer used by c or its descendants, sorted.
func (c *Component) Layers() []Layer {
	seen := make(map[Layer]bool)
	for _, cell := range c.Cells() {
		for l, polys := range cell.polygons {
			if len(polys) > 0 {
				seen[l] = true
			}
		}
	}
	out := make([]Layer, 0, len(seen))
	for l := range seen {
		out = append(out, l)
	}
	sortLayers(out)
	return out
}

// BBox returns the bounding box of all flattened polygons.
func (c *Component) BBox() geom.Rect {
	r := geom.EmptyRect()
	c.walk(geom.Identity(), func(cell *Component, t geom.Transform) {
		for _, polys := range cell.polygons {
			for _, p := range polys {
				r = r.Union(p.Transform(t).BBox())
			}
		}
	})
	return r
}

// Flatten returns a copy of c with every reference resolved into polygons.
// Ports and labels of c itself are kept; labels of children are transformed in.
func (c *Component) Flatten() *Component {
	out := New(c.Name)
	for _, l := range c.Layers() {
		out.polygons[l] = c.Polygons(l)
	}
	out.ports = c.Ports()
	out.labels = c.AllLabels()
	return out
}

// Cells returns c and every distinct descendant, children before parents.
// This is the order GDSII writers need.
func (c *Component) Cells() []*Component {
	var out []*Component
	seen := make(map[*Component]bool)
	var visit func(*Component)
	visit = func(cell *Component) {
		if seen[cell] {
			return
		}
		seen[cell] = true
		for _, r := range cell.refs {
			visit(r.Cell)
		}
		out = append(out, cell)
	}
	visit(c)
	return out
}

// PolygonCount returns the number of flattened polygons over all layers.
func (c *Component) PolygonCount() int {
	n := 0
	c.walk(geom.Identity(), func(cell *Component, _ geom.Transform) {
		for _, polys := range cell.polygons {
			n += len(polys)
		}
	})
	return n
}

func (c *Component) walk(t geom.Transform, fn func(*Component, geom.Transform)) {
	fn(c, t)
	for _, r := range c.refs {
		r.Cell.walk(r.Transform.Then(t), fn)
	}
}
